package repository

import (
	"go-hpp-engine/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CostSummaryRepository stores the precomputed per-product figures that the
// resolver prefers over recomputation.
type CostSummaryRepository interface {
	UpsertAggregate(agg *model.CostAggregate) error
	DeleteAggregate(ownerID, productID uuid.UUID) error
	FindAggregates(ownerID uuid.UUID) ([]model.CostAggregate, error)
	FindAggregatesByOrigin(origin string) ([]model.CostAggregate, error)
	UpsertBahan(summary *model.IngredientCostSummary) error
	DeleteBahan(ownerID, productID uuid.UUID) error
	FindBahan(ownerID uuid.UUID) ([]model.IngredientCostSummary, error)
}

type costSummaryRepo struct {
	db *gorm.DB
}

func NewCostSummaryRepo(db *gorm.DB) CostSummaryRepository {
	return &costSummaryRepo{db}
}

// UpsertAggregate writes the product's aggregate and reloads agg from the
// stored row, so an update keeps the original id and creation audit.
func (r *costSummaryRepo) UpsertAggregate(agg *model.CostAggregate) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"bahan_per_unit", "labor_per_unit", "overhead_per_unit", "total",
				"origin", "computed_at", "updated_at", "updated_by",
			}),
		}).Create(agg).Error
		if err != nil {
			return err
		}

		var stored model.CostAggregate
		if err := tx.Where("product_id = ?", agg.ProductID).First(&stored).Error; err != nil {
			return err
		}
		*agg = stored
		return nil
	})
}

func (r *costSummaryRepo) DeleteAggregate(ownerID, productID uuid.UUID) error {
	return r.db.Unscoped().
		Where("owner_id = ? AND product_id = ?", ownerID, productID).
		Delete(&model.CostAggregate{}).Error
}

func (r *costSummaryRepo) FindAggregates(ownerID uuid.UUID) ([]model.CostAggregate, error) {
	var rows []model.CostAggregate
	err := r.db.Where("owner_id = ?", ownerID).Find(&rows).Error
	return rows, err
}

// FindAggregatesByOrigin lists aggregates of every owner. Used by background jobs.
func (r *costSummaryRepo) FindAggregatesByOrigin(origin string) ([]model.CostAggregate, error) {
	var rows []model.CostAggregate
	err := r.db.Where("origin = ?", origin).Order("owner_id, product_id").Find(&rows).Error
	return rows, err
}

func (r *costSummaryRepo) UpsertBahan(summary *model.IngredientCostSummary) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"bahan_per_unit", "updated_at", "updated_by"}),
		}).Create(summary).Error
		if err != nil {
			return err
		}

		var stored model.IngredientCostSummary
		if err := tx.Where("product_id = ?", summary.ProductID).First(&stored).Error; err != nil {
			return err
		}
		*summary = stored
		return nil
	})
}

func (r *costSummaryRepo) DeleteBahan(ownerID, productID uuid.UUID) error {
	return r.db.Unscoped().
		Where("owner_id = ? AND product_id = ?", ownerID, productID).
		Delete(&model.IngredientCostSummary{}).Error
}

func (r *costSummaryRepo) FindBahan(ownerID uuid.UUID) ([]model.IngredientCostSummary, error) {
	var rows []model.IngredientCostSummary
	err := r.db.Where("owner_id = ?", ownerID).Find(&rows).Error
	return rows, err
}
