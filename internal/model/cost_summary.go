package model

import (
	"time"

	"github.com/google/uuid"
)

// CostAggregate is a precomputed per-unit HPP for one product. When present it
// takes precedence over every other cost source.
type CostAggregate struct {
	OwnedModel
	ProductID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"product_id"`
	BahanPerUnit    *float64  `json:"bahan_per_unit"`
	LaborPerUnit    *float64  `json:"labor_per_unit"`
	OverheadPerUnit *float64  `json:"overhead_per_unit"`
	Total           *float64  `json:"total"`
	Origin          string    `gorm:"type:varchar(20)" json:"origin"` // snapshot | import
	ComputedAt      time.Time `json:"computed_at"`
}

// IngredientCostSummary is a precomputed ingredient cost per unit for one product.
type IngredientCostSummary struct {
	OwnedModel
	ProductID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"product_id" validate:"uuid_required"`
	BahanPerUnit float64   `gorm:"not null" json:"bahan_per_unit" validate:"gte=0"`
}
