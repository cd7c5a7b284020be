package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/ruberanziza1/alx-project-nexus/app/models"
	"github.com/ruberanziza1/alx-project-nexus/pkg/apperr"
	"github.com/ruberanziza1/alx-project-nexus/pkg/event"
	"github.com/ruberanziza1/alx-project-nexus/pkg/metrics"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Event names fired by the order service.
const (
	EventOrderCreated   = "order.created"
	EventOrderCancelled = "order.cancelled"
)

// OrderService owns order creation and the status lifecycle.
type OrderService struct {
	db *gorm.DB
}

// NewOrderService creates an OrderService.
func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// ShippingInput is the checkout address payload.
type ShippingInput struct {
	Name    string
	Address string
}

// CreateFromCart turns the user's cart into a pending order in one
// transaction. Every line is validated against locked product rows before
// anything is mutated; any shortfall or inactive product aborts the whole
// order. On success stock is decremented, lines snapshot the product, and
// the cart is emptied.
func (s *OrderService) CreateFromCart(userID uint, shipping ShippingInput) (*models.Order, error) {
	var order *models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Preload("Items").Where("user_id = ?", userID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrEmptyCart
			}
			return fmt.Errorf("order: load cart: %w", err)
		}
		if len(cart.Items) == 0 {
			return apperr.ErrEmptyCart
		}

		// Validate everything against locked rows before touching stock.
		products := make(map[uint]*models.Product, len(cart.Items))
		for _, item := range cart.Items {
			var product models.Product
			err := lockForUpdate(tx).First(&product, item.ProductID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.Unavailable("a product in your cart is no longer available")
			}
			if err != nil {
				return fmt.Errorf("order: lock product %d: %w", item.ProductID, err)
			}
			if !product.IsActive {
				return apperr.Unavailable("%s is no longer available", product.Name)
			}
			if product.StockQuantity < item.Quantity {
				return apperr.InsufficientStock(
					"Only %d items available. You have %d in cart.",
					product.StockQuantity, item.Quantity)
			}
			products[item.ProductID] = &product
		}

		order = &models.Order{
			UserID:       userID,
			Number:       newOrderNumber(),
			Status:       models.OrderPending,
			ShippingName: shipping.Name,
			ShippingAddr: shipping.Address,
		}

		for _, item := range cart.Items {
			product := products[item.ProductID]
			line := models.OrderItem{
				ProductID:      product.ID,
				ProductName:    product.Name,
				ProductSKU:     product.SKU,
				UnitPriceCents: product.PriceCents,
				Quantity:       item.Quantity,
				SubtotalCents:  product.PriceCents * int64(item.Quantity),
			}
			order.Items = append(order.Items, line)
			order.SubtotalCents += line.SubtotalCents

			if err := tx.Model(product).
				UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", item.Quantity)).
				Error; err != nil {
				return fmt.Errorf("order: reserve stock: %w", err)
			}
		}
		order.TotalCents = order.SubtotalCents

		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("order: create: %w", err)
		}

		if err := tx.Unscoped().
			Where("cart_id = ?", cart.ID).
			Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("order: clear cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.OrdersCreated.Inc()
	event.Fire(EventOrderCreated, order)
	return order, nil
}

// Cancel lets the owner cancel an order that has not shipped. Stock is
// restored and the status set in the same transaction.
func (s *OrderService) Cancel(userID, orderID uint) (*models.Order, error) {
	var order models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).Preload("Items").
			Where("id = ? AND user_id = ?", orderID, userID).
			First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("order not found")
			}
			return fmt.Errorf("order: load: %w", err)
		}

		if order.Status != models.OrderPending && order.Status != models.OrderProcessing {
			return apperr.InvalidTransition(string(order.Status), string(models.OrderCancelled))
		}

		return s.cancelLocked(tx, &order)
	})
	if err != nil {
		return nil, err
	}

	metrics.OrdersCancelled.WithLabelValues("customer").Inc()
	event.Fire(EventOrderCancelled, &order)
	return &order, nil
}

// UpdateStatus moves an order along the transition table. Admin only; an
// admin move to cancelled also restores stock.
func (s *OrderService) UpdateStatus(orderID uint, next models.OrderStatus) (*models.Order, error) {
	if !next.Valid() {
		return nil, apperr.New(apperr.KindValidation, "unknown status %q", next)
	}

	var order models.Order
	cancelled := false

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).Preload("Items").First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("order not found")
			}
			return fmt.Errorf("order: load: %w", err)
		}

		if !order.Status.CanTransition(next) {
			return apperr.InvalidTransition(string(order.Status), string(next))
		}

		if next == models.OrderCancelled {
			cancelled = true
			return s.cancelLocked(tx, &order)
		}

		order.Status = next
		return tx.Model(&order).Update("status", next).Error
	})
	if err != nil {
		return nil, err
	}

	if cancelled {
		metrics.OrdersCancelled.WithLabelValues("admin").Inc()
		event.Fire(EventOrderCancelled, &order)
	}
	return &order, nil
}

// List returns the user's orders, newest first.
func (s *OrderService) List(userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Preload("Items").Preload("Payment").
		Where("user_id = ?", userID).
		Order("id desc").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("order: list: %w", err)
	}
	return orders, nil
}

// Get returns one order scoped to its owner.
func (s *OrderService) Get(userID, orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items").Preload("Payment").
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("order not found")
	}
	if err != nil {
		return nil, fmt.Errorf("order: get: %w", err)
	}
	return &order, nil
}

// cancelLocked restores stock for every line and marks the order
// cancelled. Products deleted since purchase are skipped.
func (s *OrderService) cancelLocked(tx *gorm.DB, order *models.Order) error {
	for _, line := range order.Items {
		res := tx.Model(&models.Product{}).
			Where("id = ?", line.ProductID).
			UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", line.Quantity))
		if res.Error != nil {
			return fmt.Errorf("order: restore stock: %w", res.Error)
		}
	}
	order.Status = models.OrderCancelled
	return tx.Model(order).Update("status", models.OrderCancelled).Error
}

// lockForUpdate adds a row lock where the driver supports one. sqlite
// serialises writers on its own, so the clause is skipped there.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// newOrderNumber generates an identifier like ORD-9C24D1AB.
func newOrderNumber() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "ORD-" + id[:8]
}
