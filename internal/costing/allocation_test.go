package costing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthlyDepreciation(t *testing.T) {
	a := AssetEntry{PurchasePrice: 5_000_000, ResidualValue: 500_000, EconomicLifeYears: 5}
	assert.InDelta(t, 75_000, MonthlyDepreciation(a), 1e-9)

	assert.Equal(t, 0.0, MonthlyDepreciation(AssetEntry{PurchasePrice: 1_000_000}))
}

func fixedCostFixture() ([]OverheadEntry, []LaborEntry, []AssetEntry) {
	overheads := []OverheadEntry{
		{ID: "sewa", MonthlyAmount: 3_000_000, Category: OverheadOperational},
		{ID: "servis", MonthlyAmount: 500_000, Category: OverheadMaintenance},
	}
	labor := []LaborEntry{
		{ID: "barista", MonthlySalary: 2_500_000, Category: LaborProduction, WorkingDays: 26},
		{ID: "kasir", MonthlySalary: 2_000_000, Category: LaborNonProduction, WorkingDays: 26},
	}
	assets := []AssetEntry{
		{ID: "mesin", PurchasePrice: 5_000_000, ResidualValue: 500_000, EconomicLifeYears: 5, Category: AssetProduksi, Status: AssetActive},
		{ID: "rusak", PurchasePrice: 9_000_000, EconomicLifeYears: 3, Category: AssetProduksi, Status: AssetDamaged},
		{ID: "meja", PurchasePrice: 1_200_000, EconomicLifeYears: 1, Category: AssetNonProduksi, Status: AssetActive},
	}
	return overheads, labor, assets
}

func TestAllocateFixedCosts(t *testing.T) {
	overheads, labor, assets := fixedCostFixture()

	a := AllocateFixedCosts(overheads, labor, assets, 1000)

	assert.Equal(t, 3_500_000.0, a.OverheadPool)
	assert.Equal(t, 2_500_000.0, a.LaborPool)
	assert.InDelta(t, 75_000, a.DepreciationPool, 1e-9)
	require.True(t, a.Available())
	assert.InDelta(t, 3500, *a.OverheadPerUnit, 1e-9)
	assert.InDelta(t, 2500, *a.LaborPerUnit, 1e-9)
	assert.InDelta(t, 75, *a.DepreciationPerUnit, 1e-9)
}

func TestAllocateFixedCostsIsLinearInVolume(t *testing.T) {
	overheads, labor, assets := fixedCostFixture()

	single := AllocateFixedCosts(overheads, labor, assets, 800)
	double := AllocateFixedCosts(overheads, labor, assets, 1600)

	assert.InDelta(t, *single.OverheadPerUnit/2, *double.OverheadPerUnit, 1e-9)
	assert.InDelta(t, *single.LaborPerUnit/2, *double.LaborPerUnit, 1e-9)
	assert.InDelta(t, *single.DepreciationPerUnit/2, *double.DepreciationPerUnit, 1e-9)
}

func TestAllocateFixedCostsWithoutVolume(t *testing.T) {
	overheads, labor, assets := fixedCostFixture()

	for _, v := range []float64{0, -10} {
		a := AllocateFixedCosts(overheads, labor, assets, v)
		assert.False(t, a.Available())
		assert.Nil(t, a.OverheadPerUnit)
		assert.Nil(t, a.LaborPerUnit)
		assert.Nil(t, a.DepreciationPerUnit)
		assert.Equal(t, 3_500_000.0, a.OverheadPool)
	}
}
