package repository

import (
	"go-hpp-engine/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll(ownerID uuid.UUID) ([]model.Product, error)
	FindByID(ownerID, id uuid.UUID) (*model.Product, error)
	Update(product *model.Product) error
	UpdateManualOverhead(ownerID, id uuid.UUID, perUnit *float64, updatedBy string) error
	Delete(ownerID, id uuid.UUID, deletedBy string) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) FindAll(ownerID uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	err := r.db.Where("owner_id = ?", ownerID).Order("name").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(ownerID, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("RecipeLines.Ingredient").
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) Update(product *model.Product) error {
	return r.db.Omit("RecipeLines").Save(product).Error
}

// UpdateManualOverhead sets or clears (nil) the manual overhead override.
func (r *productRepo) UpdateManualOverhead(ownerID, id uuid.UUID, perUnit *float64, updatedBy string) error {
	res := r.db.Model(&model.Product{}).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Updates(map[string]interface{}{
			"manual_overhead_per_unit": perUnit,
			"updated_by":               updatedBy,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete soft-deletes the product and removes its recipe and precomputed costs.
func (r *productRepo) Delete(ownerID, id uuid.UUID, deletedBy string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Product{}).
			Where("owner_id = ? AND id = ?", ownerID, id).
			Update("deleted_by", deletedBy)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Where("owner_id = ? AND id = ?", ownerID, id).Delete(&model.Product{}).Error; err != nil {
			return err
		}
		for _, dependent := range []interface{}{&model.RecipeLine{}, &model.CostAggregate{}, &model.IngredientCostSummary{}} {
			if err := tx.Unscoped().Where("owner_id = ? AND product_id = ?", ownerID, id).Delete(dependent).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
