package model

import "github.com/google/uuid"

// Product is a menu item whose HPP is computed from its recipe.
type Product struct {
	OwnedModel
	Name             string  `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	PortionsPerBatch float64 `gorm:"not null" json:"portions_per_batch" validate:"gte=0"`

	// Nullable: harga jual and target penjualan may not be set yet
	SellingPrice          *float64 `json:"selling_price" validate:"omitempty,gte=0"`
	MonthlyTargetVolume   *float64 `json:"monthly_target_volume" validate:"omitempty,gte=0"`
	ManualOverheadPerUnit *float64 `json:"manual_overhead_per_unit" validate:"omitempty,gte=0"`

	// Relasi
	RecipeLines []RecipeLine `json:"recipe_lines,omitempty" validate:"-"`
}

// RecipeLine is one bahan in a product's bill of materials. Quantity is per batch.
type RecipeLine struct {
	OwnedModel
	ProductID    uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_product_ingredient" json:"product_id" validate:"uuid_required"`
	IngredientID uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_product_ingredient" json:"ingredient_id" validate:"uuid_required"`
	Ingredient   *Ingredient `gorm:"foreignKey:IngredientID" json:"ingredient,omitempty" validate:"-"`
	Quantity     float64     `gorm:"not null" json:"quantity" validate:"gt=0"` // Qty harus > 0
	Unit         string      `gorm:"type:varchar(20)" json:"unit"`
}
