package model

// OverheadEntry is a recurring monthly expense (sewa, listrik, ...).
type OverheadEntry struct {
	OwnedModel
	Name          string  `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	MonthlyAmount float64 `gorm:"not null;default:0" json:"monthly_amount" validate:"gte=0"`
	Category      string  `gorm:"type:varchar(20);not null" json:"category" validate:"required,oneof=operational maintenance"`
}

// LaborEntry (tenaga kerja). Only production staff is charged into HPP.
type LaborEntry struct {
	OwnedModel
	Name          string  `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	MonthlySalary float64 `gorm:"not null;default:0" json:"monthly_salary" validate:"gte=0"`
	Category      string  `gorm:"type:varchar(20);not null" json:"category" validate:"required,oneof=production non-production"`
	WorkingDays   int     `gorm:"default:26" json:"working_days" validate:"gte=0,lte=31"`
}

// AssetEntry is equipment depreciated straight-line over its economic life.
type AssetEntry struct {
	OwnedModel
	Name              string  `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	PurchasePrice     float64 `gorm:"not null;default:0" json:"purchase_price" validate:"gte=0"`
	ResidualValue     float64 `gorm:"not null;default:0" json:"residual_value" validate:"gte=0,ltefield=PurchasePrice"`
	EconomicLifeYears float64 `gorm:"not null" json:"economic_life_years" validate:"gt=0"`
	HppCategory       string  `gorm:"type:varchar(20);not null" json:"hpp_category" validate:"required,oneof=produksi non-produksi"`
	Status            string  `gorm:"type:varchar(20);not null;default:'active'" json:"status" validate:"required,oneof=active damaged inactive"`
}
