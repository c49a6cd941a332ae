package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/madebuy/madebuy-backend/pkg/db/models"
	"github.com/madebuy/madebuy-backend/pkg/enums"
	"github.com/madebuy/madebuy-backend/pkg/types"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	records := `
CREATE TABLE IF NOT EXISTS cart_records (
  id TEXT PRIMARY KEY,
  tenant_id TEXT NOT NULL,
  buyer_ref TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'active',
  currency TEXT NOT NULL DEFAULT 'USD',
  converted_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	items := `
CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL,
  piece_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  base_price_cents INTEGER NOT NULL,
  personalization TEXT,
  personalization_total_cents INTEGER NOT NULL DEFAULT 0,
  unit_price_cents INTEGER NOT NULL,
  line_subtotal_cents INTEGER NOT NULL,
  extra_processing_days INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(records).Error)
	require.NoError(t, db.Exec(items).Error)
	return db
}

func seedActiveCart(t *testing.T, repo *Repository, tenantID uuid.UUID, buyerRef string) *models.CartRecord {
	t.Helper()
	record, err := repo.Create(context.Background(), &models.CartRecord{
		ID:       uuid.New(),
		TenantID: tenantID,
		BuyerRef: buyerRef,
		Status:   enums.CartStatusActive,
		Currency: "USD",
	})
	require.NoError(t, err)
	return record
}

func TestRepositoryFindActiveByBuyerLoadsItems(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	record := seedActiveCart(t, repo, tenantID, "buyer-1")

	url := "https://cdn/art.png"
	_, err := repo.AddItem(ctx, &models.CartItem{
		ID:             uuid.New(),
		CartID:         record.ID,
		PieceID:        uuid.New(),
		Quantity:       2,
		BasePriceCents: 2000,
		Personalization: types.PersonalizationValues{
			{FieldID: "art", FieldName: "Artwork", FileURL: &url, PriceAdjustmentCents: 500},
		},
		PersonalizationTotalCents: 500,
		UnitPriceCents:            2500,
		LineSubtotalCents:         5000,
	})
	require.NoError(t, err)

	found, err := repo.FindActiveByBuyer(ctx, tenantID, "buyer-1")
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Len(t, found.Items, 1)

	item := found.Items[0]
	assert.Equal(t, int64(2500), item.UnitPriceCents)
	require.Len(t, item.Personalization, 1)
	assert.Equal(t, "art", item.Personalization[0].FieldID)
	require.NotNil(t, item.Personalization[0].FileURL)
	assert.Equal(t, url, *item.Personalization[0].FileURL)
}

func TestRepositoryFindActiveByBuyerScopes(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	record := seedActiveCart(t, repo, tenantID, "buyer-1")

	found, err := repo.FindActiveByBuyer(ctx, uuid.New(), "buyer-1")
	require.NoError(t, err)
	assert.Nil(t, found, "other tenants must not see this cart")

	found, err = repo.FindActiveByBuyer(ctx, tenantID, "buyer-2")
	require.NoError(t, err)
	assert.Nil(t, found)

	require.NoError(t, repo.SetStatus(ctx, record.ID, enums.CartStatusConverted))
	found, err = repo.FindActiveByBuyer(ctx, tenantID, "buyer-1")
	require.NoError(t, err)
	assert.Nil(t, found, "converted carts are no longer active")
}

func TestRepositoryDeleteItem(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	record := seedActiveCart(t, repo, uuid.New(), "buyer-1")
	item, err := repo.AddItem(ctx, &models.CartItem{
		ID:                uuid.New(),
		CartID:            record.ID,
		PieceID:           uuid.New(),
		Quantity:          1,
		BasePriceCents:    1000,
		UnitPriceCents:    1000,
		LineSubtotalCents: 1000,
	})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteItem(ctx, item.ID))
	assert.ErrorIs(t, repo.DeleteItem(ctx, item.ID), gorm.ErrRecordNotFound)
}
