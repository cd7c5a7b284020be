package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ruberanziza1/alx-project-nexus/app/models"
	"github.com/ruberanziza1/alx-project-nexus/pkg/apperr"
)

func fillCart(t *testing.T, db *gorm.DB, userID uint, product *models.Product, quantity int) {
	t.Helper()

	_, _, err := NewCartService(db).AddItem(userID, product.ID, quantity)
	require.NoError(t, err)
}

func stockOf(t *testing.T, db *gorm.DB, productID uint) int {
	t.Helper()

	var product models.Product
	require.NoError(t, db.First(&product, productID).Error)
	return product.StockQuantity
}

var testShipping = ShippingInput{Name: "Ada Lovelace", Address: "12 Analytical Way, London"}

func TestOrderCreateFromCart(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "order@test.local", true)
	keyboard := seedProduct(t, db, "Keyboard", 8000, 10)
	mouse := seedProduct(t, db, "Mouse", 3000, 10)
	fillCart(t, db, user.ID, keyboard, 2)
	fillCart(t, db, user.ID, mouse, 1)
	svc := NewOrderService(db)

	order, err := svc.CreateFromCart(user.ID, testShipping)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(order.Number, "ORD-"))
	assert.Equal(t, models.OrderPending, order.Status)
	assert.EqualValues(t, 19000, order.SubtotalCents)
	assert.EqualValues(t, 19000, order.TotalCents)
	require.Len(t, order.Items, 2)

	// Lines snapshot the product at purchase time.
	assert.Equal(t, "Keyboard", order.Items[0].ProductName)
	assert.EqualValues(t, 8000, order.Items[0].UnitPriceCents)
	assert.EqualValues(t, 16000, order.Items[0].SubtotalCents)

	assert.Equal(t, 8, stockOf(t, db, keyboard.ID))
	assert.Equal(t, 9, stockOf(t, db, mouse.ID))

	cart, _, err := NewCartService(db).Get(user.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestOrderCreateEmptyCart(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "empty@test.local", true)
	svc := NewOrderService(db)

	_, err := svc.CreateFromCart(user.ID, testShipping)
	assert.ErrorIs(t, err, apperr.ErrEmptyCart)
}

func TestOrderCreateShortfallRollsBackEverything(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "atomic@test.local", true)
	plenty := seedProduct(t, db, "Plenty", 1000, 100)
	scarce := seedProduct(t, db, "Scarce", 2000, 5)
	fillCart(t, db, user.ID, plenty, 3)
	fillCart(t, db, user.ID, scarce, 5)
	svc := NewOrderService(db)

	// Someone else buys the scarce stock between carting and checkout.
	require.NoError(t, db.Model(scarce).Update("stock_quantity", 2).Error)

	_, err := svc.CreateFromCart(user.ID, testShipping)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInsufficientStock, apperr.From(err).Kind)

	// Nothing moved: no order, full stock, cart intact.
	var orders int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	assert.Zero(t, orders)
	assert.Equal(t, 100, stockOf(t, db, plenty.ID))
	assert.Equal(t, 2, stockOf(t, db, scarce.ID))

	cart, _, err := NewCartService(db).Get(user.ID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)
}

func TestOrderCreateRejectsInactiveProduct(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "gone@test.local", true)
	discontinued := seedProduct(t, db, "Discontinued", 1500, 10)
	current := seedProduct(t, db, "Current", 3000, 8)
	fillCart(t, db, user.ID, discontinued, 1)
	fillCart(t, db, user.ID, current, 2)
	require.NoError(t, db.Model(discontinued).Update("is_active", false).Error)
	svc := NewOrderService(db)

	_, err := svc.CreateFromCart(user.ID, testShipping)
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnavailable, apperr.From(err).Kind)

	// The healthy line was not touched by the failed checkout.
	assert.Equal(t, 8, stockOf(t, db, current.ID))
	cart, _, err := NewCartService(db).Get(user.ID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)
}

func TestOrderCancelRestoresStock(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "cancel@test.local", true)
	product := seedProduct(t, db, "Monitor", 20000, 10)
	fillCart(t, db, user.ID, product, 4)
	svc := NewOrderService(db)

	order, err := svc.CreateFromCart(user.ID, testShipping)
	require.NoError(t, err)
	require.Equal(t, 6, stockOf(t, db, product.ID))

	cancelled, err := svc.Cancel(user.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, cancelled.Status)
	assert.Equal(t, 10, stockOf(t, db, product.ID))
}

func TestOrderCancelOwnershipAndState(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "owner@test.local", true)
	other := seedUser(t, db, "other@test.local", true)
	product := seedProduct(t, db, "Webcam", 5000, 10)
	fillCart(t, db, user.ID, product, 1)
	svc := NewOrderService(db)

	order, err := svc.CreateFromCart(user.ID, testShipping)
	require.NoError(t, err)

	_, err = svc.Cancel(other.ID, order.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.From(err).Kind)

	// Shipped orders are past the point of customer cancellation.
	_, err = svc.UpdateStatus(order.ID, models.OrderProcessing)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(order.ID, models.OrderShipped)
	require.NoError(t, err)

	_, err = svc.Cancel(user.ID, order.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.From(err).Kind)
}

func TestOrderStatusTransitions(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "status@test.local", true)
	product := seedProduct(t, db, "Headphones", 9000, 10)
	fillCart(t, db, user.ID, product, 1)
	svc := NewOrderService(db)

	order, err := svc.CreateFromCart(user.ID, testShipping)
	require.NoError(t, err)

	// Skipping a step is rejected.
	_, err = svc.UpdateStatus(order.ID, models.OrderShipped)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.From(err).Kind)

	for _, next := range []models.OrderStatus{models.OrderProcessing, models.OrderShipped, models.OrderDelivered} {
		updated, err := svc.UpdateStatus(order.ID, next)
		require.NoError(t, err)
		assert.Equal(t, next, updated.Status)
	}

	// Delivered is terminal.
	_, err = svc.UpdateStatus(order.ID, models.OrderCancelled)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.From(err).Kind)

	_, err = svc.UpdateStatus(order.ID, "express")
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.From(err).Kind)
}

func TestOrderAdminCancelRestoresStock(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "admincancel@test.local", true)
	product := seedProduct(t, db, "Speaker", 12000, 8)
	fillCart(t, db, user.ID, product, 3)
	svc := NewOrderService(db)

	order, err := svc.CreateFromCart(user.ID, testShipping)
	require.NoError(t, err)
	require.Equal(t, 5, stockOf(t, db, product.ID))

	updated, err := svc.UpdateStatus(order.ID, models.OrderCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, updated.Status)
	assert.Equal(t, 8, stockOf(t, db, product.ID))
}

func TestOrderListAndGetScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "mine@test.local", true)
	other := seedUser(t, db, "theirs@test.local", true)
	product := seedProduct(t, db, "Charger", 2500, 20)
	fillCart(t, db, user.ID, product, 1)
	svc := NewOrderService(db)

	order, err := svc.CreateFromCart(user.ID, testShipping)
	require.NoError(t, err)

	mine, err := svc.List(user.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	theirs, err := svc.List(other.ID)
	require.NoError(t, err)
	assert.Empty(t, theirs)

	_, err = svc.Get(other.ID, order.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.From(err).Kind)
}
