package service

import (
	"testing"

	"go-hpp-engine/internal/costing"
	"go-hpp-engine/internal/model"
	"go-hpp-engine/internal/repository"
	"go-hpp-engine/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogCreateValidates(t *testing.T) {
	f := newFixture(t)
	assets := NewCatalogService[model.AssetEntry](repository.NewOwnedRepo[model.AssetEntry](f.db), "asset", f.events)

	err := assets.Create(f.actor, &model.AssetEntry{Name: "Oven", PurchasePrice: 1000, ResidualValue: 2000, EconomicLifeYears: 2, HppCategory: "produksi", Status: "active"})
	mustCode(t, err, apperror.CodeValidation)

	err = assets.Create(f.actor, &model.AssetEntry{Name: "Oven", PurchasePrice: 1000, EconomicLifeYears: 2, HppCategory: "dapur", Status: "active"})
	mustCode(t, err, apperror.CodeValidation)
}

func TestCatalogUpdateKeepsIdentity(t *testing.T) {
	f := newFixture(t)
	stranger := Actor{OwnerID: uuid.New(), Email: "lain@kopi.id"}

	_, err := f.ingredients.Update(stranger, f.kopi.ID, &model.Ingredient{Name: "Kopi curian"})
	mustCode(t, err, apperror.CodeNotFound)

	updated, err := f.ingredients.Update(Actor{OwnerID: f.actor.OwnerID, Email: "staff@kopi.id"}, f.kopi.ID, &model.Ingredient{
		Name:      "Kopi Gayo",
		UnitPrice: costing.Float(250000),
		PriceUnit: "kg",
	})
	require.NoError(t, err)
	assert.Equal(t, f.kopi.ID, updated.ID)
	assert.Equal(t, f.actor.OwnerID, updated.OwnerID)
	assert.Equal(t, "owner@kopi.id", updated.CreatedBy)
	assert.Equal(t, "staff@kopi.id", updated.UpdatedBy)

	ev := f.events.last()
	assert.Equal(t, "updated", ev.Action)
	assert.Equal(t, "ingredient", ev.Entity)
	assert.Equal(t, f.kopi.ID.String(), ev.EntityID)

	got, err := f.ingredients.Get(f.actor.OwnerID, f.kopi.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kopi Gayo", got.Name)
}

func TestCatalogDeleteScoped(t *testing.T) {
	f := newFixture(t)
	gula := &model.Ingredient{Name: "Gula aren", UnitPrice: costing.Float(30000), PriceUnit: "kg"}
	require.NoError(t, f.ingredients.Create(f.actor, gula))

	mustCode(t, f.ingredients.Delete(Actor{OwnerID: uuid.New()}, gula.ID), apperror.CodeNotFound)
	require.NoError(t, f.ingredients.Delete(f.actor, gula.ID))
	assert.Equal(t, "deleted", f.events.last().Action)

	_, err := f.ingredients.Get(f.actor.OwnerID, gula.ID)
	mustCode(t, err, apperror.CodeNotFound)
}

func TestDeleteIngredientUsedInRecipe(t *testing.T) {
	f := newFixture(t)
	before := len(f.events.events)

	err := f.ingredients.Delete(f.actor, f.kopi.ID)
	mustCode(t, err, apperror.CodeConflict)
	assert.Contains(t, apperror.As(err).Message(), "used in 1 recipe(s)")
	assert.Len(t, f.events.events, before, "blocked delete publishes nothing")

	// Cost is untouched.
	rep, err := f.hpp.ProductCost(f.actor.OwnerID, f.latte.ID)
	require.NoError(t, err)
	assert.InDelta(t, 12675, *rep.Total, 1e-6)

	// Once the recipe no longer uses it, the ingredient can go.
	lines, err := f.products.ListRecipeLines(f.actor.OwnerID, f.latte.ID)
	require.NoError(t, err)
	for _, l := range lines {
		if l.IngredientID == f.kopi.ID {
			require.NoError(t, f.products.DeleteRecipeLine(f.actor, l.ID))
		}
	}
	require.NoError(t, f.ingredients.Delete(f.actor, f.kopi.ID))
}

func TestAddRecipeLine(t *testing.T) {
	f := newFixture(t)

	gula := &model.Ingredient{Name: "Gula aren", UnitPrice: costing.Float(30000), PriceUnit: "kg"}
	require.NoError(t, f.ingredients.Create(f.actor, gula))

	line := &model.RecipeLine{IngredientID: gula.ID, Quantity: 0.2}
	require.NoError(t, f.products.AddRecipeLine(f.actor, f.latte.ID, line))
	assert.Equal(t, "kg", line.Unit, "unit defaults to the ingredient price unit")
	assert.Equal(t, "recipe_line", f.events.last().Entity)

	err := f.products.AddRecipeLine(f.actor, f.latte.ID, &model.RecipeLine{IngredientID: gula.ID, Quantity: 100, Unit: "g"})
	mustCode(t, err, apperror.CodeConflict)

	err = f.products.AddRecipeLine(f.actor, f.latte.ID, &model.RecipeLine{IngredientID: gula.ID, Quantity: 0})
	mustCode(t, err, apperror.CodeValidation)

	other := Actor{OwnerID: uuid.New()}
	err = f.products.AddRecipeLine(other, f.latte.ID, &model.RecipeLine{IngredientID: gula.ID, Quantity: 1})
	mustCode(t, err, apperror.CodeNotFound)

	lines, err := f.products.ListRecipeLines(f.actor.OwnerID, f.latte.ID)
	require.NoError(t, err)
	assert.Len(t, lines, 3)
}

func TestUpdateAndDeleteRecipeLine(t *testing.T) {
	f := newFixture(t)
	lines, err := f.products.ListRecipeLines(f.actor.OwnerID, f.latte.ID)
	require.NoError(t, err)
	var kopiLine model.RecipeLine
	for _, l := range lines {
		if l.IngredientID == f.kopi.ID {
			kopiLine = l
		}
	}
	require.NotEqual(t, uuid.Nil, kopiLine.ID)

	updated, err := f.products.UpdateRecipeLine(f.actor, kopiLine.ID, RecipeLineUpdate{Quantity: 0.36, Unit: "kg"})
	require.NoError(t, err)
	assert.Equal(t, 0.36, updated.Quantity)

	rep, err := f.hpp.ProductCost(f.actor.OwnerID, f.latte.ID)
	require.NoError(t, err)
	assert.InDelta(t, 10200, *rep.IngredientsPerUnit, 1e-6)

	_, err = f.products.UpdateRecipeLine(f.actor, kopiLine.ID, RecipeLineUpdate{Quantity: -1})
	mustCode(t, err, apperror.CodeValidation)

	require.NoError(t, f.products.DeleteRecipeLine(f.actor, kopiLine.ID))
	mustCode(t, f.products.DeleteRecipeLine(f.actor, kopiLine.ID), apperror.CodeNotFound)
}

func TestUpdateAndDeleteProduct(t *testing.T) {
	f := newFixture(t)

	updated, err := f.products.UpdateProduct(f.actor, f.latte.ID, &model.Product{
		Name:                "Es Kopi Susu Gula Aren",
		PortionsPerBatch:    12,
		SellingPrice:        costing.Float(20000),
		MonthlyTargetVolume: costing.Float(1200),
	})
	require.NoError(t, err)
	assert.Equal(t, 12.0, updated.PortionsPerBatch)

	_, err = f.products.UpdateProduct(f.actor, f.latte.ID, &model.Product{})
	mustCode(t, err, apperror.CodeValidation)

	require.NoError(t, f.products.DeleteProduct(f.actor, f.latte.ID))
	_, err = f.products.GetProduct(f.actor.OwnerID, f.latte.ID)
	mustCode(t, err, apperror.CodeNotFound)
	assert.Equal(t, "deleted", f.events.last().Action)
}
