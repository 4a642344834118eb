package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OwnedRepository is plain CRUD over a table whose rows carry an owner_id.
// Every read and delete is filtered by owner.
type OwnedRepository[T any] interface {
	Create(row *T) error
	FindAll(ownerID uuid.UUID) ([]T, error)
	FindByID(ownerID, id uuid.UUID) (*T, error)
	Update(row *T) error
	Delete(ownerID, id uuid.UUID) error
}

type ownedRepo[T any] struct {
	db *gorm.DB
}

func NewOwnedRepo[T any](db *gorm.DB) OwnedRepository[T] {
	return &ownedRepo[T]{db}
}

func (r *ownedRepo[T]) Create(row *T) error {
	return r.db.Create(row).Error
}

func (r *ownedRepo[T]) FindAll(ownerID uuid.UUID) ([]T, error) {
	var rows []T
	err := r.db.Where("owner_id = ?", ownerID).Order("created_at").Find(&rows).Error
	return rows, err
}

func (r *ownedRepo[T]) FindByID(ownerID, id uuid.UUID) (*T, error) {
	var row T
	if err := r.db.Where("owner_id = ? AND id = ?", ownerID, id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *ownedRepo[T]) Update(row *T) error {
	return r.db.Save(row).Error
}

func (r *ownedRepo[T]) Delete(ownerID, id uuid.UUID) error {
	var row T
	res := r.db.Where("owner_id = ? AND id = ?", ownerID, id).Delete(&row)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
