package model

// Ingredient (bahan baku) with the price it is bought at.
type Ingredient struct {
	OwnedModel
	Name string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`

	// UnitPrice is per one PriceUnit, e.g. Rp 16.000 per kg
	UnitPrice *float64 `json:"unit_price" validate:"omitempty,gte=0"`
	PriceUnit string   `gorm:"type:varchar(20)" json:"price_unit"`

	// Default purchase pack, informational
	PurchaseQuantity *float64 `json:"purchase_quantity,omitempty" validate:"omitempty,gt=0"`
	PurchaseUnit     string   `gorm:"type:varchar(20)" json:"purchase_unit,omitempty"`
}
