package controllers

import (
	"net/http"

	"github.com/ruberanziza1/alx-project-nexus/app/models"
	"github.com/ruberanziza1/alx-project-nexus/app/services"
	"github.com/ruberanziza1/alx-project-nexus/pkg/middleware"
	"github.com/ruberanziza1/alx-project-nexus/pkg/response"
)

// CartController exposes the authenticated user's cart.
type CartController struct {
	service *services.CartService
}

// NewCartController creates a CartController.
func NewCartController(service *services.CartService) *CartController {
	return &CartController{service: service}
}

func cartPayload(cart *models.Cart, totals models.CartTotals) map[string]interface{} {
	return map[string]interface{}{
		"cart":   cart,
		"totals": totals,
	}
}

func (c *CartController) Show(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	cart, totals, err := c.service.Get(userID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, cartPayload(cart, totals))
}

func (c *CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	var body struct {
		ProductID uint `json:"product_id" validate:"required"`
		Quantity  int  `json:"quantity" validate:"required,between=1,999"`
	}
	if !decode(w, r, &body) {
		return
	}

	cart, totals, err := c.service.AddItem(userID, body.ProductID, body.Quantity)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, cartPayload(cart, totals))
}

func (c *CartController) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	itemID, ok := paramID(w, r, "id")
	if !ok {
		return
	}

	var body struct {
		Quantity int `json:"quantity" validate:"required,between=1,999"`
	}
	if !decode(w, r, &body) {
		return
	}

	cart, totals, err := c.service.UpdateItem(userID, itemID, body.Quantity)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, cartPayload(cart, totals))
}

func (c *CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	itemID, ok := paramID(w, r, "id")
	if !ok {
		return
	}

	cart, totals, err := c.service.RemoveItem(userID, itemID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, cartPayload(cart, totals))
}

func (c *CartController) Clear(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	if err := c.service.Clear(userID); err != nil {
		response.FromError(w, err)
		return
	}
	response.Message(w, "cart cleared", nil)
}
