package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-hpp-engine/internal/costing"
	"go-hpp-engine/internal/middleware"
	"go-hpp-engine/internal/model"
	"go-hpp-engine/internal/repository"
	"go-hpp-engine/internal/service"
	"go-hpp-engine/pkg/database"
	"go-hpp-engine/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	tokens := jwt.NewManager("handler-secret", "go-hpp-engine", time.Hour)
	userRepo := repository.NewUserRepo(db)
	productRepo := repository.NewProductRepo(db)
	ingredientRepo := repository.NewIngredientRepo(db)

	opts := costing.DefaultOptions()
	opts.PriceRoundingStep = 500

	hpp := service.NewHppService(repository.NewSnapshotRepo(db), productRepo, repository.NewCostSummaryRepo(db), opts, nil, nil, nil)

	h := Handlers{
		Auth:        NewAuthHandler(service.NewAuthService(userRepo, tokens, nil)),
		Users:       NewUserHandler(service.NewUserService(userRepo)),
		Dashboard:   NewDashboardHandler(service.NewDashboardService(hpp, opts.Risk)),
		Products:    NewProductHandler(service.NewProductService(productRepo, ingredientRepo, repository.NewRecipeRepo(db), nil)),
		Hpp:         NewHppHandler(hpp),
		Ingredients: NewCatalogHandler(service.NewCatalogService[model.Ingredient](ingredientRepo, "ingredient", nil), "Ingredient"),
		Overheads:   NewCatalogHandler(service.NewCatalogService[model.OverheadEntry](repository.NewOwnedRepo[model.OverheadEntry](db), "overhead", nil), "Overhead"),
		Labor:       NewCatalogHandler(service.NewCatalogService[model.LaborEntry](repository.NewOwnedRepo[model.LaborEntry](db), "labor", nil), "Labor"),
		Assets:      NewCatalogHandler(service.NewCatalogService[model.AssetEntry](repository.NewOwnedRepo[model.AssetEntry](db), "asset", nil), "Asset"),
	}

	app := fiber.New()
	RegisterRoutes(app, h, middleware.RequireAuth(tokens, userRepo))
	return app
}

func call(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

type created[T any] struct {
	Data T `json:"data"`
}

func register(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	status, raw := call(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email": email, "password": "rahasia123", "full_name": "Pemilik",
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	return decode[service.LoginResponse](t, raw).Token
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := newTestApp(t)

	status, _ := call(t, app, http.MethodGet, "/api/v1/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = call(t, app, http.MethodGet, "/api/v1/products", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = call(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "x@y.z", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestCostingFlow(t *testing.T) {
	app := newTestApp(t)
	token := register(t, app, "owner@kopi.id")

	status, raw := call(t, app, http.MethodPost, "/api/v1/products", token, map[string]interface{}{
		"name": "Es Kopi Susu", "portions_per_batch": 10, "selling_price": 18000, "monthly_target_volume": 1000,
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	product := decode[created[model.Product]](t, raw).Data

	status, raw = call(t, app, http.MethodPost, "/api/v1/ingredients", token, map[string]interface{}{
		"name": "Kopi", "unit_price": 200000, "price_unit": "kg",
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	kopi := decode[created[model.Ingredient]](t, raw).Data

	status, raw = call(t, app, http.MethodPost, "/api/v1/products/"+product.ID.String()+"/recipe", token, map[string]interface{}{
		"ingredient_id": kopi.ID, "quantity": 180, "unit": "g",
	})
	require.Equal(t, http.StatusCreated, status, string(raw))

	status, _ = call(t, app, http.MethodPost, "/api/v1/products/"+product.ID.String()+"/recipe", token, map[string]interface{}{
		"ingredient_id": kopi.ID, "quantity": 1, "unit": "kg",
	})
	assert.Equal(t, http.StatusConflict, status)

	status, raw = call(t, app, http.MethodDelete, "/api/v1/ingredients/"+kopi.ID.String(), token, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, string(raw), "used in 1 recipe(s)")

	status, raw = call(t, app, http.MethodPost, "/api/v1/overheads", token, map[string]interface{}{
		"name": "Sewa", "monthly_amount": 3000000, "category": "operational",
	})
	require.Equal(t, http.StatusCreated, status, string(raw))

	status, raw = call(t, app, http.MethodPost, "/api/v1/labor", token, map[string]interface{}{
		"name": "Barista", "monthly_salary": 2000000, "category": "production", "working_days": 26,
	})
	require.Equal(t, http.StatusCreated, status, string(raw))

	status, _ = call(t, app, http.MethodPost, "/api/v1/assets", token, map[string]interface{}{
		"name": "Oven", "purchase_price": 100, "residual_value": 500, "economic_life_years": 1, "hpp_category": "produksi", "status": "active",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	// 3600 bahan + 3000 overhead + 2000 labor
	status, raw = call(t, app, http.MethodGet, "/api/v1/products/"+product.ID.String()+"/hpp", token, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	rep := decode[service.ProductCostReport](t, raw)
	assert.Equal(t, costing.SourceRecipe, rep.Source)
	require.NotNil(t, rep.Total)
	assert.InDelta(t, 8600, *rep.Total, 1e-6)

	status, raw = call(t, app, http.MethodGet, "/api/v1/products/"+product.ID.String()+"/pricing", token, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	pricing := decode[service.PricingReport](t, raw)
	require.Len(t, pricing.Recommendations, 2)
	assert.Equal(t, 12500.0, *pricing.Recommendations[0].RoundedPrice)

	status, raw = call(t, app, http.MethodPost, "/api/v1/products/"+product.ID.String()+"/evaluate", token, map[string]interface{}{"selling_price": 10000})
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.InDelta(t, 14, decode[costing.Evaluation](t, raw).MarginPct, 1e-6)

	status, raw = call(t, app, http.MethodPost, "/api/v1/promotions/evaluate", token, map[string]interface{}{
		"mechanic": "discount", "items": []map[string]interface{}{{"product_id": product.ID}}, "promo_price": 17200,
	})
	require.Equal(t, http.StatusOK, status, string(raw))
	promo := decode[costing.PromotionResult](t, raw)
	assert.Equal(t, costing.RiskHealthy, promo.Risk)

	status, raw = call(t, app, http.MethodGet, "/api/v1/hpp", token, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.Len(t, decode[[]service.ProductCostReport](t, raw), 1)

	status, raw = call(t, app, http.MethodGet, "/api/v1/dashboard/stats", token, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	stats := decode[service.DashboardStats](t, raw)
	assert.Equal(t, 1, stats.CostedCount)
	assert.Equal(t, 1, stats.ByRisk[costing.RiskHealthy]) // (18000-8600)/18000 = 52%

	status, raw = call(t, app, http.MethodGet, "/api/v1/dashboard/margins?limit=abc", token, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	margins := decode[struct {
		Limit int                   `json:"limit"`
		Data  []service.MarginEntry `json:"data"`
	}](t, raw)
	assert.Equal(t, 5, margins.Limit)
	require.Len(t, margins.Data, 1)
	assert.Equal(t, "Es Kopi Susu", margins.Data[0].ProductName)

	// Another owner sees nothing of it.
	other := register(t, app, "lain@kopi.id")
	status, _ = call(t, app, http.MethodGet, "/api/v1/products/"+product.ID.String()+"/hpp", other, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = call(t, app, http.MethodGet, "/api/v1/products/not-a-uuid/hpp", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAggregateEndpoints(t *testing.T) {
	app := newTestApp(t)
	token := register(t, app, "owner@roti.id")

	status, raw := call(t, app, http.MethodPost, "/api/v1/products", token, map[string]interface{}{"name": "Roti Sobek", "portions_per_batch": 0})
	require.Equal(t, http.StatusCreated, status, string(raw))
	id := decode[created[model.Product]](t, raw).Data.ID.String()

	// No recipe and no portions: nothing to snapshot.
	status, _ = call(t, app, http.MethodPost, "/api/v1/products/"+id+"/aggregate/snapshot", token, nil)
	assert.Equal(t, http.StatusConflict, status)

	status, raw = call(t, app, http.MethodPut, "/api/v1/products/"+id+"/aggregate", token, map[string]interface{}{"total": 7000})
	require.Equal(t, http.StatusOK, status, string(raw))

	status, raw = call(t, app, http.MethodGet, "/api/v1/products/"+id+"/hpp", token, nil)
	require.Equal(t, http.StatusOK, status)
	rep := decode[service.ProductCostReport](t, raw)
	assert.Equal(t, costing.SourceAggregate, rep.Source)
	assert.Equal(t, 7000.0, *rep.Total)

	status, _ = call(t, app, http.MethodDelete, "/api/v1/products/"+id+"/aggregate", token, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = call(t, app, http.MethodPut, "/api/v1/products/"+id+"/bahan-summary", token, map[string]interface{}{"bahan_per_unit": 2500})
	require.Equal(t, http.StatusOK, status)
	status, _ = call(t, app, http.MethodPut, "/api/v1/products/"+id+"/manual-overhead", token, map[string]interface{}{"manual_overhead_per_unit": 500})
	require.Equal(t, http.StatusOK, status)

	status, raw = call(t, app, http.MethodGet, "/api/v1/products/"+id+"/hpp", token, nil)
	require.Equal(t, http.StatusOK, status)
	rep = decode[service.ProductCostReport](t, raw)
	assert.Equal(t, costing.SourceBahanSummary, rep.Source)
	assert.Equal(t, 3000.0, *rep.Total)
}

func TestAccountEndpoints(t *testing.T) {
	app := newTestApp(t)
	token := register(t, app, "owner@bakso.id")

	status, raw := call(t, app, http.MethodPut, "/api/v1/auth/me", token, map[string]string{"full_name": "Pak Budi", "business_name": "Bakso Budi"})
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.Equal(t, "Bakso Budi", decode[created[model.UserResponse]](t, raw).Data.BusinessName)

	status, _ = call(t, app, http.MethodPut, "/api/v1/auth/password", token, map[string]string{"current_password": "salah", "new_password": "barubaru123"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, raw = call(t, app, http.MethodPut, "/api/v1/auth/password", token, map[string]string{"current_password": "rahasia123", "new_password": "barubaru123"})
	require.Equal(t, http.StatusOK, status, string(raw))

	status, _ = call(t, app, http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status, "old session is revoked")

	status, _ = call(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "owner@bakso.id", "password": "barubaru123"})
	assert.Equal(t, http.StatusOK, status)
}
