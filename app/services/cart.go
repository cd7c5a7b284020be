package services

import (
	"errors"
	"fmt"

	"github.com/ruberanziza1/alx-project-nexus/app/models"
	"github.com/ruberanziza1/alx-project-nexus/pkg/apperr"
	"gorm.io/gorm"
)

// Quantity bounds for a single cart line.
const (
	MinLineQuantity = 1
	MaxLineQuantity = 999
)

// CartService manages the per-user cart. Totals are computed from current
// product prices on every read; nothing monetary is stored on the cart.
type CartService struct {
	db *gorm.DB
}

// NewCartService creates a CartService.
func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

// Get returns the user's cart with items, products, and live totals.
func (s *CartService) Get(userID uint) (*models.Cart, models.CartTotals, error) {
	cart, err := s.find(userID)
	if err != nil {
		return nil, models.CartTotals{}, err
	}
	return cart, Totals(cart), nil
}

// AddItem puts quantity units of a product into the cart. If the product
// is already there the quantities merge, and the merged total is checked
// against stock and the line cap; on failure the cart is left untouched.
func (s *CartService) AddItem(userID, productID uint, quantity int) (*models.Cart, models.CartTotals, error) {
	if quantity < MinLineQuantity || quantity > MaxLineQuantity {
		return nil, models.CartTotals{}, apperr.New(apperr.KindValidation,
			"quantity must be between %d and %d", MinLineQuantity, MaxLineQuantity)
	}

	cart, err := s.find(userID)
	if err != nil {
		return nil, models.CartTotals{}, err
	}

	var product models.Product
	err = s.db.First(&product, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.CartTotals{}, apperr.NotFound("product not found")
	}
	if err != nil {
		return nil, models.CartTotals{}, fmt.Errorf("cart: lookup product: %w", err)
	}
	if !product.IsActive {
		return nil, models.CartTotals{}, apperr.Unavailable("%s is no longer available", product.Name)
	}

	inCart := 0
	var existing *models.CartItem
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			existing = &cart.Items[i]
			inCart = cart.Items[i].Quantity
			break
		}
	}

	merged := inCart + quantity
	if merged > MaxLineQuantity {
		return nil, models.CartTotals{}, apperr.New(apperr.KindValidation,
			"cannot hold more than %d of one product", MaxLineQuantity)
	}
	if merged > product.StockQuantity {
		return nil, models.CartTotals{}, apperr.InsufficientStock(
			"Only %d items available. You have %d in cart.", product.StockQuantity, inCart)
	}

	if existing != nil {
		err = s.db.Model(existing).Update("quantity", merged).Error
	} else {
		err = s.db.Create(&models.CartItem{
			CartID:    cart.ID,
			ProductID: productID,
			Quantity:  quantity,
		}).Error
	}
	if err != nil {
		return nil, models.CartTotals{}, fmt.Errorf("cart: save item: %w", err)
	}

	return s.Get(userID)
}

// UpdateItem sets the quantity of an existing line.
func (s *CartService) UpdateItem(userID, itemID uint, quantity int) (*models.Cart, models.CartTotals, error) {
	if quantity < MinLineQuantity || quantity > MaxLineQuantity {
		return nil, models.CartTotals{}, apperr.New(apperr.KindValidation,
			"quantity must be between %d and %d", MinLineQuantity, MaxLineQuantity)
	}

	cart, err := s.find(userID)
	if err != nil {
		return nil, models.CartTotals{}, err
	}

	item, err := s.findItem(cart, itemID)
	if err != nil {
		return nil, models.CartTotals{}, err
	}

	var product models.Product
	if err := s.db.First(&product, item.ProductID).Error; err != nil {
		return nil, models.CartTotals{}, fmt.Errorf("cart: lookup product: %w", err)
	}
	if !product.InStock(quantity) {
		return nil, models.CartTotals{}, apperr.InsufficientStock(
			"Only %d items available. You have %d in cart.", product.StockQuantity, item.Quantity)
	}

	if err := s.db.Model(item).Update("quantity", quantity).Error; err != nil {
		return nil, models.CartTotals{}, fmt.Errorf("cart: update item: %w", err)
	}

	return s.Get(userID)
}

// RemoveItem deletes a line from the cart.
func (s *CartService) RemoveItem(userID, itemID uint) (*models.Cart, models.CartTotals, error) {
	cart, err := s.find(userID)
	if err != nil {
		return nil, models.CartTotals{}, err
	}

	item, err := s.findItem(cart, itemID)
	if err != nil {
		return nil, models.CartTotals{}, err
	}

	if err := s.db.Unscoped().Delete(item).Error; err != nil {
		return nil, models.CartTotals{}, fmt.Errorf("cart: remove item: %w", err)
	}

	return s.Get(userID)
}

// Clear removes every line but keeps the cart row itself.
func (s *CartService) Clear(userID uint) error {
	cart, err := s.find(userID)
	if err != nil {
		return err
	}
	return s.db.Unscoped().
		Where("cart_id = ?", cart.ID).
		Delete(&models.CartItem{}).Error
}

// Totals folds the cart lines into live totals using current prices. The
// compare price falls back to the selling price so savings never go
// negative.
func Totals(cart *models.Cart) models.CartTotals {
	var t models.CartTotals
	for _, item := range cart.Items {
		t.TotalItems += item.Quantity
		t.TotalCents += item.Product.PriceCents * int64(item.Quantity)
		t.TotalCompareCents += item.Product.EffectiveComparePrice() * int64(item.Quantity)
	}
	t.TotalSavingsCents = t.TotalCompareCents - t.TotalCents
	return t
}

func (s *CartService) find(userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.Preload("Items.Product").
		Where("user_id = ?", userID).
		First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Accounts created before carts became automatic get one lazily.
		cart = models.Cart{UserID: userID}
		if err := s.db.Create(&cart).Error; err != nil {
			return nil, fmt.Errorf("cart: create: %w", err)
		}
		return &cart, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cart: lookup: %w", err)
	}
	return &cart, nil
}

func (s *CartService) findItem(cart *models.Cart, itemID uint) (*models.CartItem, error) {
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			return &cart.Items[i], nil
		}
	}
	return nil, apperr.NotFound("cart item not found")
}
