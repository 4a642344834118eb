package repository

import (
	"fmt"

	"go-hpp-engine/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InUseError reports a delete blocked by rows that still reference the target.
type InUseError struct {
	Entity  string
	Recipes int64
}

func (e *InUseError) Error() string {
	return fmt.Sprintf("%s is used in %d recipe(s)", e.Entity, e.Recipes)
}

type ingredientRepo struct {
	OwnedRepository[model.Ingredient]
	db *gorm.DB
}

// NewIngredientRepo is the owned ingredient table with a delete that keeps
// recipe references intact.
func NewIngredientRepo(db *gorm.DB) OwnedRepository[model.Ingredient] {
	return &ingredientRepo{OwnedRepository: NewOwnedRepo[model.Ingredient](db), db: db}
}

// Delete refuses while any recipe line of the owner still uses the ingredient.
func (r *ingredientRepo) Delete(ownerID, id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var recipes int64
		err := tx.Model(&model.RecipeLine{}).
			Where("owner_id = ? AND ingredient_id = ?", ownerID, id).
			Count(&recipes).Error
		if err != nil {
			return err
		}
		if recipes > 0 {
			return &InUseError{Entity: "ingredient", Recipes: recipes}
		}

		res := tx.Where("owner_id = ? AND id = ?", ownerID, id).Delete(&model.Ingredient{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
