package controllers

import (
	"net/http"
	"strconv"

	"github.com/ruberanziza1/alx-project-nexus/app/services"
	"github.com/ruberanziza1/alx-project-nexus/pkg/response"
	"github.com/ruberanziza1/alx-project-nexus/pkg/router"
)

// ProductController exposes the public catalogue and the admin CRUD.
type ProductController struct {
	service *services.ProductService
}

// NewProductController creates a ProductController.
func NewProductController(service *services.ProductService) *ProductController {
	return &ProductController{service: service}
}

func (c *ProductController) List(w http.ResponseWriter, r *http.Request) {
	products, err := c.service.List(r.URL.Query().Get("category"))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, products)
}

func (c *ProductController) Get(w http.ResponseWriter, r *http.Request) {
	product, err := c.service.Get(router.Param(r, "slug"))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, product)
}

type productBody struct {
	Name              string `json:"name" validate:"required,max=255"`
	Description       string `json:"description" validate:"nullable"`
	Category          string `json:"category" validate:"nullable,max=100"`
	PriceCents        int64  `json:"price_cents" validate:"required,min=1"`
	ComparePriceCents int64  `json:"compare_price_cents" validate:"nullable,min=0"`
	StockQuantity     int    `json:"stock_quantity" validate:"nullable,min=0"`
	IsActive          *bool  `json:"is_active"`
}

func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	var body productBody
	if !decode(w, r, &body) {
		return
	}

	product, err := c.service.Create(services.ProductInput{
		Name:              body.Name,
		Description:       body.Description,
		Category:          body.Category,
		PriceCents:        body.PriceCents,
		ComparePriceCents: body.ComparePriceCents,
		StockQuantity:     &body.StockQuantity,
		IsActive:          body.IsActive,
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, product)
}

type productUpdateBody struct {
	Name              string `json:"name" validate:"nullable,max=255"`
	Description       string `json:"description" validate:"nullable"`
	Category          string `json:"category" validate:"nullable,max=100"`
	PriceCents        int64  `json:"price_cents" validate:"nullable,min=1"`
	ComparePriceCents int64  `json:"compare_price_cents" validate:"nullable,min=0"`
	StockQuantity     *int   `json:"stock_quantity" validate:"nullable,min=0"`
	IsActive          *bool  `json:"is_active"`
}

func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(w, r, "id")
	if !ok {
		return
	}

	var body productUpdateBody
	if !decode(w, r, &body) {
		return
	}

	product, err := c.service.Update(id, services.ProductInput{
		Name:              body.Name,
		Description:       body.Description,
		Category:          body.Category,
		PriceCents:        body.PriceCents,
		ComparePriceCents: body.ComparePriceCents,
		StockQuantity:     body.StockQuantity,
		IsActive:          body.IsActive,
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, product)
}

func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(w, r, "id")
	if !ok {
		return
	}

	if err := c.service.Delete(id); err != nil {
		response.FromError(w, err)
		return
	}

	response.Message(w, "product deleted", nil)
}

// paramID parses a numeric path parameter, writing the failure response
// itself.
func paramID(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	raw := router.Param(r, name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		response.Error(w, http.StatusBadRequest, "invalid_request", "invalid "+name)
		return 0, false
	}
	return uint(id), true
}
