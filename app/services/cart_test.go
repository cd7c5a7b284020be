package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruberanziza1/alx-project-nexus/app/models"
	"github.com/ruberanziza1/alx-project-nexus/pkg/apperr"
)

func TestCartAddAndTotals(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "cart@test.local", true)
	product := seedProduct(t, db, "Laptop Stand", 4500, 10)
	product.ComparePriceCents = 6000
	require.NoError(t, db.Save(product).Error)
	svc := NewCartService(db)

	cart, totals, err := svc.AddItem(user.ID, product.ID, 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)

	assert.Equal(t, 2, totals.TotalItems)
	assert.EqualValues(t, 9000, totals.TotalCents)
	assert.EqualValues(t, 12000, totals.TotalCompareCents)
	assert.EqualValues(t, 3000, totals.TotalSavingsCents)
}

func TestCartAddMergesQuantities(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "merge@test.local", true)
	product := seedProduct(t, db, "USB Cable", 900, 10)
	svc := NewCartService(db)

	_, _, err := svc.AddItem(user.ID, product.ID, 3)
	require.NoError(t, err)
	cart, totals, err := svc.AddItem(user.ID, product.ID, 4)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 7, cart.Items[0].Quantity)
	assert.Equal(t, 7, totals.TotalItems)
}

func TestCartAddStockShortfallLeavesCartUntouched(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "short@test.local", true)
	product := seedProduct(t, db, "Desk Lamp", 2500, 5)
	svc := NewCartService(db)

	_, _, err := svc.AddItem(user.ID, product.ID, 3)
	require.NoError(t, err)

	_, _, err = svc.AddItem(user.ID, product.ID, 3)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInsufficientStock, apperr.From(err).Kind)
	assert.Equal(t, "Only 5 items available. You have 3 in cart.", apperr.From(err).Message)

	cart, _, err := svc.Get(user.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
}

func TestCartLineQuantityCap(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "cap@test.local", true)
	product := seedProduct(t, db, "Sticker", 100, 5000)
	svc := NewCartService(db)

	_, _, err := svc.AddItem(user.ID, product.ID, 0)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.From(err).Kind)

	_, _, err = svc.AddItem(user.ID, product.ID, 1000)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.From(err).Kind)

	_, _, err = svc.AddItem(user.ID, product.ID, 999)
	require.NoError(t, err)

	// Merging past the cap fails too.
	_, _, err = svc.AddItem(user.ID, product.ID, 1)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.From(err).Kind)
}

func TestCartRejectsInactiveProduct(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "inactive@test.local", true)
	product := seedProduct(t, db, "Retired Widget", 1200, 10)
	require.NoError(t, db.Model(product).Update("is_active", false).Error)
	svc := NewCartService(db)

	_, _, err := svc.AddItem(user.ID, product.ID, 1)
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnavailable, apperr.From(err).Kind)
}

func TestCartUpdateAndRemove(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "upd@test.local", true)
	product := seedProduct(t, db, "Notebook", 700, 4)
	svc := NewCartService(db)

	cart, _, err := svc.AddItem(user.ID, product.ID, 1)
	require.NoError(t, err)
	itemID := cart.Items[0].ID

	_, _, err = svc.UpdateItem(user.ID, itemID, 9)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInsufficientStock, apperr.From(err).Kind)

	cart, totals, err := svc.UpdateItem(user.ID, itemID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, cart.Items[0].Quantity)
	assert.EqualValues(t, 2800, totals.TotalCents)

	cart, totals, err = svc.RemoveItem(user.ID, itemID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Zero(t, totals.TotalItems)

	_, _, err = svc.RemoveItem(user.ID, itemID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.From(err).Kind)
}

func TestCartClearKeepsCartRow(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "clear@test.local", true)
	product := seedProduct(t, db, "Mug", 1100, 10)
	svc := NewCartService(db)

	_, _, err := svc.AddItem(user.ID, product.ID, 2)
	require.NoError(t, err)
	require.NoError(t, svc.Clear(user.ID))

	cart, totals, err := svc.Get(user.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Zero(t, totals.TotalCents)

	var carts int64
	require.NoError(t, db.Model(&models.Cart{}).Where("user_id = ?", user.ID).Count(&carts).Error)
	assert.EqualValues(t, 1, carts)
}

func TestCartLazyCreation(t *testing.T) {
	db := newTestDB(t)
	user := &models.User{Email: "nocart@test.local", Password: "x", FirstName: "A", Role: models.RoleCustomer, IsActive: true}
	require.NoError(t, db.Create(user).Error)
	svc := NewCartService(db)

	cart, totals, err := svc.Get(user.ID)
	require.NoError(t, err)
	assert.NotZero(t, cart.ID)
	assert.Zero(t, totals.TotalItems)
}
