package repository

import (
	"go-hpp-engine/internal/costing"
	"go-hpp-engine/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SnapshotRepository loads everything one owner's cost resolution needs.
type SnapshotRepository interface {
	Load(ownerID uuid.UUID) (costing.Snapshot, error)
}

type snapshotRepo struct {
	db *gorm.DB
}

func NewSnapshotRepo(db *gorm.DB) SnapshotRepository {
	return &snapshotRepo{db}
}

// Load reads inside one transaction so the snapshot is consistent.
func (r *snapshotRepo) Load(ownerID uuid.UUID) (costing.Snapshot, error) {
	var (
		products    []model.Product
		ingredients []model.Ingredient
		lines       []model.RecipeLine
		overheads   []model.OverheadEntry
		labor       []model.LaborEntry
		assets      []model.AssetEntry
		aggregates  []model.CostAggregate
		bahan       []model.IngredientCostSummary
	)

	err := r.db.Transaction(func(tx *gorm.DB) error {
		scoped := tx.Where("owner_id = ?", ownerID)
		for _, dest := range []interface{}{&products, &ingredients, &lines, &overheads, &labor, &assets, &aggregates, &bahan} {
			if err := scoped.Session(&gorm.Session{}).Find(dest).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return costing.Snapshot{}, err
	}

	snap := costing.Snapshot{
		Products:     make(map[string]costing.Product, len(products)),
		Ingredients:  make(map[string]costing.Ingredient, len(ingredients)),
		RecipeLines:  make([]costing.RecipeLine, 0, len(lines)),
		Overheads:    make([]costing.OverheadEntry, 0, len(overheads)),
		Labor:        make([]costing.LaborEntry, 0, len(labor)),
		Assets:       make([]costing.AssetEntry, 0, len(assets)),
		Aggregates:   make(map[string]costing.Aggregate, len(aggregates)),
		BahanPerUnit: make(map[string]float64, len(bahan)),
	}
	for _, p := range products {
		snap.Products[p.ID.String()] = p.ToCosting()
	}
	for _, i := range ingredients {
		snap.Ingredients[i.ID.String()] = i.ToCosting()
	}
	for _, l := range lines {
		snap.RecipeLines = append(snap.RecipeLines, l.ToCosting())
	}
	for _, o := range overheads {
		snap.Overheads = append(snap.Overheads, o.ToCosting())
	}
	for _, l := range labor {
		snap.Labor = append(snap.Labor, l.ToCosting())
	}
	for _, a := range assets {
		snap.Assets = append(snap.Assets, a.ToCosting())
	}
	for _, a := range aggregates {
		snap.Aggregates[a.ProductID.String()] = a.ToCosting()
	}
	for _, b := range bahan {
		snap.BahanPerUnit[b.ProductID.String()] = b.BahanPerUnit
	}
	return snap, nil
}
