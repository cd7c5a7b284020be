package controllers

import (
	"net/http"

	"github.com/ruberanziza1/alx-project-nexus/app/models"
	"github.com/ruberanziza1/alx-project-nexus/app/services"
	"github.com/ruberanziza1/alx-project-nexus/pkg/middleware"
	"github.com/ruberanziza1/alx-project-nexus/pkg/response"
)

// OrderController exposes checkout and order management.
type OrderController struct {
	service *services.OrderService
}

// NewOrderController creates an OrderController.
func NewOrderController(service *services.OrderService) *OrderController {
	return &OrderController{service: service}
}

func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	var body struct {
		ShippingName    string `json:"shipping_name" validate:"required,max=255"`
		ShippingAddress string `json:"shipping_address" validate:"required"`
	}
	if !decode(w, r, &body) {
		return
	}

	order, err := c.service.CreateFromCart(userID, services.ShippingInput{
		Name:    body.ShippingName,
		Address: body.ShippingAddress,
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, order)
}

func (c *OrderController) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	orders, err := c.service.List(userID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, orders)
}

func (c *OrderController) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	orderID, ok := paramID(w, r, "id")
	if !ok {
		return
	}

	order, err := c.service.Get(userID, orderID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, order)
}

func (c *OrderController) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	orderID, ok := paramID(w, r, "id")
	if !ok {
		return
	}

	order, err := c.service.Cancel(userID, orderID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, order)
}

// UpdateStatus is the admin endpoint for moving an order along its
// lifecycle.
func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := paramID(w, r, "id")
	if !ok {
		return
	}

	var body struct {
		Status string `json:"status" validate:"required,in=pending,processing,shipped,delivered,cancelled"`
	}
	if !decode(w, r, &body) {
		return
	}

	order, err := c.service.UpdateStatus(orderID, models.OrderStatus(body.Status))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, order)
}
