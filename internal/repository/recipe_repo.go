package repository

import (
	"errors"

	"go-hpp-engine/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrDuplicateIngredient = errors.New("ingredient already in recipe")

type RecipeRepository interface {
	AddLine(line *model.RecipeLine) error
	FindByProduct(ownerID, productID uuid.UUID) ([]model.RecipeLine, error)
	FindLine(ownerID, id uuid.UUID) (*model.RecipeLine, error)
	UpdateLine(ownerID, id uuid.UUID, quantity float64, unit, updatedBy string) error
	DeleteLine(ownerID, id uuid.UUID) error
}

type recipeRepo struct {
	db *gorm.DB
}

func NewRecipeRepo(db *gorm.DB) RecipeRepository {
	return &recipeRepo{db}
}

// AddLine inserts a recipe line. A product may list an ingredient only once.
func (r *recipeRepo) AddLine(line *model.RecipeLine) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&model.RecipeLine{}).
			Where("owner_id = ? AND product_id = ? AND ingredient_id = ?", line.OwnerID, line.ProductID, line.IngredientID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateIngredient
		}
		return tx.Create(line).Error
	})
}

func (r *recipeRepo) FindByProduct(ownerID, productID uuid.UUID) ([]model.RecipeLine, error) {
	var lines []model.RecipeLine
	err := r.db.Preload("Ingredient").
		Where("owner_id = ? AND product_id = ?", ownerID, productID).
		Order("created_at").
		Find(&lines).Error
	return lines, err
}

func (r *recipeRepo) FindLine(ownerID, id uuid.UUID) (*model.RecipeLine, error) {
	var line model.RecipeLine
	if err := r.db.Where("owner_id = ? AND id = ?", ownerID, id).First(&line).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *recipeRepo) UpdateLine(ownerID, id uuid.UUID, quantity float64, unit, updatedBy string) error {
	res := r.db.Model(&model.RecipeLine{}).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Updates(map[string]interface{}{
			"quantity":   quantity,
			"unit":       unit,
			"updated_by": updatedBy,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteLine hard-deletes so the product/ingredient pair can be added again.
func (r *recipeRepo) DeleteLine(ownerID, id uuid.UUID) error {
	res := r.db.Unscoped().Where("owner_id = ? AND id = ?", ownerID, id).Delete(&model.RecipeLine{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
