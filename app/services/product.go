package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ruberanziza1/alx-project-nexus/app/models"
	"github.com/ruberanziza1/alx-project-nexus/pkg/apperr"
	"github.com/ruberanziza1/alx-project-nexus/pkg/cache"
	"gorm.io/gorm"
)

const productCacheTTL = time.Minute

// ProductService manages the catalogue. Public listings are briefly cached
// in Redis; writes invalidate the affected keys.
type ProductService struct {
	db *gorm.DB
}

// NewProductService creates a ProductService.
func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

// List returns active products, optionally filtered by category.
func (s *ProductService) List(category string) ([]models.Product, error) {
	var products []models.Product
	err := cache.Remember(listCacheKey(category), productCacheTTL, &products, func() (interface{}, error) {
		q := s.db.Where("is_active = ?", true)
		if category != "" {
			q = q.Where("category = ?", category)
		}
		var fresh []models.Product
		if err := q.Order("id").Find(&fresh).Error; err != nil {
			return nil, fmt.Errorf("product: list: %w", err)
		}
		return fresh, nil
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}

// Get returns one active product by slug.
func (s *ProductService) Get(slug string) (*models.Product, error) {
	var product models.Product
	err := s.db.Where("slug = ? AND is_active = ?", slug, true).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("product not found")
	}
	if err != nil {
		return nil, fmt.Errorf("product: get: %w", err)
	}
	return &product, nil
}

// ProductInput is the validated admin payload for create and update.
type ProductInput struct {
	Name              string
	Description       string
	Category          string
	PriceCents        int64
	ComparePriceCents int64
	StockQuantity     *int
	IsActive          *bool
}

// Create adds a product with a generated slug and SKU.
func (s *ProductService) Create(in ProductInput) (*models.Product, error) {
	product := &models.Product{
		Name:              in.Name,
		Slug:              s.uniqueSlug(in.Name),
		SKU:               newSKU(),
		Description:       in.Description,
		Category:          in.Category,
		PriceCents:        in.PriceCents,
		ComparePriceCents: in.ComparePriceCents,
		IsActive:          true,
	}
	if in.StockQuantity != nil {
		product.StockQuantity = *in.StockQuantity
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}

	if err := s.db.Create(product).Error; err != nil {
		return nil, fmt.Errorf("product: create: %w", err)
	}

	s.invalidate(product.Category)
	return product, nil
}

// Update modifies a product. The SKU never changes; the slug only changes
// when the name does.
func (s *ProductService) Update(id uint, in ProductInput) (*models.Product, error) {
	var product models.Product
	err := s.db.First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("product not found")
	}
	if err != nil {
		return nil, fmt.Errorf("product: lookup: %w", err)
	}

	oldCategory := product.Category

	if in.Name != "" && in.Name != product.Name {
		product.Name = in.Name
		product.Slug = s.uniqueSlug(in.Name)
	}
	if in.Description != "" {
		product.Description = in.Description
	}
	if in.Category != "" {
		product.Category = in.Category
	}
	if in.PriceCents > 0 {
		product.PriceCents = in.PriceCents
	}
	if in.ComparePriceCents > 0 {
		product.ComparePriceCents = in.ComparePriceCents
	}
	if in.StockQuantity != nil {
		product.StockQuantity = *in.StockQuantity
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}

	if err := s.db.Save(&product).Error; err != nil {
		return nil, fmt.Errorf("product: update: %w", err)
	}

	s.invalidate(oldCategory)
	s.invalidate(product.Category)
	return &product, nil
}

// Delete soft-deletes a product. Existing order lines keep their snapshot.
func (s *ProductService) Delete(id uint) error {
	var product models.Product
	err := s.db.First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("product not found")
	}
	if err != nil {
		return fmt.Errorf("product: lookup: %w", err)
	}

	if err := s.db.Delete(&product).Error; err != nil {
		return fmt.Errorf("product: delete: %w", err)
	}

	s.invalidate(product.Category)
	return nil
}

// uniqueSlug slugifies name and appends a short suffix on collision.
func (s *ProductService) uniqueSlug(name string) string {
	base := slugify(name)
	slug := base
	for i := 0; ; i++ {
		var count int64
		s.db.Model(&models.Product{}).Where("slug = ?", slug).Count(&count)
		if count == 0 {
			return slug
		}
		slug = fmt.Sprintf("%s-%s", base, uuid.NewString()[:4])
		if i > 4 {
			return fmt.Sprintf("%s-%s", base, uuid.NewString()[:8])
		}
	}
}

func (s *ProductService) invalidate(category string) {
	cache.Del(listCacheKey(""))
	if category != "" {
		cache.Del(listCacheKey(category))
	}
}

func listCacheKey(category string) string {
	if category == "" {
		return "nexus:products:all"
	}
	return "nexus:products:cat:" + category
}

// newSKU generates an identifier like PRD-3F9A21BC.
func newSKU() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "PRD-" + id[:8]
}

func slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
