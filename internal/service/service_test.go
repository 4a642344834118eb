package service

import (
	"sync"
	"testing"

	"go-hpp-engine/internal/costing"
	"go-hpp-engine/internal/model"
	"go-hpp-engine/internal/repository"
	"go-hpp-engine/internal/ws"
	"go-hpp-engine/pkg/apperror"
	"go-hpp-engine/pkg/database"
	"go-hpp-engine/pkg/metrics"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []ws.Event
}

func (p *recordingPublisher) Publish(_ uuid.UUID, ev ws.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) last() ws.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.events) == 0 {
		return ws.Event{}
	}
	return p.events[len(p.events)-1]
}

type fixture struct {
	db          *gorm.DB
	actor       Actor
	events      *recordingPublisher
	registry    *prometheus.Registry
	latte       *model.Product
	kopi        *model.Ingredient
	products    ProductService
	ingredients CatalogService[model.Ingredient]
	hpp         HppService
}

func mustCode(t *testing.T, err error, code apperror.Code) {
	t.Helper()
	require.Error(t, err)
	typed := apperror.As(err)
	require.NotNil(t, typed, "expected apperror, got %v", err)
	require.Equal(t, code, typed.Code(), typed.Error())
}

// newFixture seeds a coffee shop: one latte whose recipe HPP is
// 6600 bahan + 3500 overhead + 2500 labor + 75 depreciation = 12675.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	f := &fixture{
		db:       db,
		actor:    Actor{OwnerID: uuid.New(), Email: "owner@kopi.id"},
		events:   &recordingPublisher{},
		registry: prometheus.NewRegistry(),
	}

	opts := costing.DefaultOptions()
	opts.PriceRoundingStep = 500

	productRepo := repository.NewProductRepo(db)
	ingredientRepo := repository.NewIngredientRepo(db)
	f.ingredients = NewCatalogService[model.Ingredient](ingredientRepo, "ingredient", f.events)
	f.products = NewProductService(productRepo, ingredientRepo, repository.NewRecipeRepo(db), f.events)
	f.hpp = NewHppService(
		repository.NewSnapshotRepo(db),
		productRepo,
		repository.NewCostSummaryRepo(db),
		opts,
		metrics.NewCostingMetrics(f.registry),
		f.events,
		nil,
	)

	f.latte = &model.Product{Name: "Es Kopi Susu", PortionsPerBatch: 10, SellingPrice: costing.Float(18000), MonthlyTargetVolume: costing.Float(1000)}
	require.NoError(t, f.products.CreateProduct(f.actor, f.latte))

	f.kopi = &model.Ingredient{Name: "Kopi", UnitPrice: costing.Float(200000), PriceUnit: "kg"}
	require.NoError(t, f.ingredients.Create(f.actor, f.kopi))
	susu := &model.Ingredient{Name: "Susu", UnitPrice: costing.Float(20000), PriceUnit: "l"}
	require.NoError(t, f.ingredients.Create(f.actor, susu))

	require.NoError(t, f.products.AddRecipeLine(f.actor, f.latte.ID, &model.RecipeLine{IngredientID: f.kopi.ID, Quantity: 180, Unit: "g"}))
	require.NoError(t, f.products.AddRecipeLine(f.actor, f.latte.ID, &model.RecipeLine{IngredientID: susu.ID, Quantity: 1500, Unit: "ml"}))

	overheads := NewCatalogService[model.OverheadEntry](repository.NewOwnedRepo[model.OverheadEntry](db), "overhead", f.events)
	require.NoError(t, overheads.Create(f.actor, &model.OverheadEntry{Name: "Sewa", MonthlyAmount: 3_000_000, Category: "operational"}))
	require.NoError(t, overheads.Create(f.actor, &model.OverheadEntry{Name: "Servis mesin", MonthlyAmount: 500_000, Category: "maintenance"}))

	labor := NewCatalogService[model.LaborEntry](repository.NewOwnedRepo[model.LaborEntry](db), "labor", f.events)
	require.NoError(t, labor.Create(f.actor, &model.LaborEntry{Name: "Barista", MonthlySalary: 2_500_000, Category: "production", WorkingDays: 26}))
	require.NoError(t, labor.Create(f.actor, &model.LaborEntry{Name: "Kasir", MonthlySalary: 2_000_000, Category: "non-production", WorkingDays: 26}))

	assets := NewCatalogService[model.AssetEntry](repository.NewOwnedRepo[model.AssetEntry](db), "asset", f.events)
	require.NoError(t, assets.Create(f.actor, &model.AssetEntry{Name: "Mesin espresso", PurchasePrice: 5_000_000, ResidualValue: 500_000, EconomicLifeYears: 5, HppCategory: "produksi", Status: "active"}))
	require.NoError(t, assets.Create(f.actor, &model.AssetEntry{Name: "Grinder rusak", PurchasePrice: 9_000_000, EconomicLifeYears: 3, HppCategory: "produksi", Status: "damaged"}))

	return f
}
