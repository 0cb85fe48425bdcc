//go:build integration

package mysql

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcmysql "github.com/testcontainers/testcontainers-go/modules/mysql"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"fulfillment/internal/order/domain"
)

func setupOrderMySQL(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcmysql.Run(ctx, "mysql:8.0",
		tcmysql.WithDatabase("fulfillment_test"),
		tcmysql.WithUsername("test"),
		tcmysql.WithPassword("test"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "parseTime=true")
	require.NoError(t, err)

	db, err := gorm.Open(gormmysql.Open(dsn), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: false},
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Order{}, &domain.OrderItem{}))
	return db
}

func TestOrderRepositoryRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db := setupOrderMySQL(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	expected := time.Now().AddDate(0, 0, 2).Truncate(time.Second)
	order := &domain.Order{
		OrderNumber:        "ORD-RTRIP001",
		CustomerID:         "cust-42",
		CustomerEmail:      "buyer@example.com",
		Status:             domain.StatusConfirmed,
		PaymentStatus:      domain.PaymentPending,
		DeliveryType:       domain.DeliveryExpress,
		Subtotal:           decimal.RequireFromString("34.50"),
		Tax:                decimal.RequireFromString("2.40"),
		Shipping:           decimal.RequireFromString("12.99"),
		Discount:           decimal.RequireFromString("5.00"),
		Total:              decimal.RequireFromString("44.89"),
		AmountPaid:         decimal.Zero,
		ExpectedDeliveryAt: &expected,
		Items: []domain.OrderItem{
			{ProductID: 1, ProductName: "Widget", Quantity: 3, UnitPrice: decimal.RequireFromString("9.50")},
			{ProductID: 2, ProductName: "Gadget", Quantity: 1, UnitPrice: decimal.RequireFromString("6.00")},
		},
	}
	require.NoError(t, repo.Create(ctx, order))
	require.NotZero(t, order.ID)

	loaded, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, "ORD-RTRIP001", loaded.OrderNumber)
	assert.Equal(t, "cust-42", loaded.CustomerID)
	assert.Equal(t, domain.StatusConfirmed, loaded.Status)
	assert.Equal(t, domain.PaymentPending, loaded.PaymentStatus)
	assert.Equal(t, domain.DeliveryExpress, loaded.DeliveryType)
	assert.Equal(t, "34.50", loaded.Subtotal.StringFixed(2))
	assert.Equal(t, "2.40", loaded.Tax.StringFixed(2))
	assert.Equal(t, "12.99", loaded.Shipping.StringFixed(2))
	assert.Equal(t, "5.00", loaded.Discount.StringFixed(2))
	assert.Equal(t, "44.89", loaded.Total.StringFixed(2))
	assert.True(t, loaded.AmountPaid.IsZero())

	require.Len(t, loaded.Items, 2)
	assert.Equal(t, uint64(1), loaded.Items[0].ProductID)
	assert.Equal(t, "Widget", loaded.Items[0].ProductName)
	assert.Equal(t, int64(3), loaded.Items[0].Quantity)
	assert.Equal(t, "9.50", loaded.Items[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "6.00", loaded.Items[1].UnitPrice.StringFixed(2))

	byNumber, err := repo.FindByNumber(ctx, "ORD-RTRIP001")
	require.NoError(t, err)
	require.NotNil(t, byNumber)
	assert.Equal(t, loaded.ID, byNumber.ID)
	require.Len(t, byNumber.Items, 2)

	require.NoError(t, repo.UpdateStatus(ctx, order.ID, domain.StatusProcessing))
	updated, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessing, updated.Status)
	// Items survive a header-only status write untouched.
	require.Len(t, updated.Items, 2)

	byCustomer, err := repo.FindByCustomer(ctx, "cust-42")
	require.NoError(t, err)
	require.Len(t, byCustomer, 1)

	missing, err := repo.FindByID(ctx, 999999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}
