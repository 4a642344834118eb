package service

import (
	"go-hpp-engine/internal/model"
	"go-hpp-engine/internal/repository"
	"go-hpp-engine/internal/ws"
	"go-hpp-engine/pkg/apperror"

	"github.com/google/uuid"
)

// CatalogService is owner-scoped CRUD for one kind of cost master data
// (ingredients, overhead, labor, assets). Every write emits a cost_update.
type CatalogService[E any] interface {
	Create(a Actor, row *E) error
	Update(a Actor, id uuid.UUID, row *E) (*E, error)
	List(ownerID uuid.UUID) ([]E, error)
	Get(ownerID, id uuid.UUID) (*E, error)
	Delete(a Actor, id uuid.UUID) error
}

type ownable[E any] interface {
	*E
	Owned() *model.OwnedModel
}

type catalogService[E any, P ownable[E]] struct {
	repo   repository.OwnedRepository[E]
	entity string
	events EventPublisher
}

func NewCatalogService[E any, P ownable[E]](repo repository.OwnedRepository[E], entity string, events EventPublisher) CatalogService[E] {
	return &catalogService[E, P]{repo: repo, entity: entity, events: publisherOrNop(events)}
}

func (s *catalogService[E, P]) Create(a Actor, row *E) error {
	if row == nil {
		return apperror.New(apperror.CodeValidation, "Invalid JSON")
	}
	if err := validate(row); err != nil {
		return err
	}

	base := P(row).Owned()
	base.ID = uuid.Nil
	base.OwnerID = a.OwnerID
	base.CreatedBy = a.auditName()
	base.UpdatedBy = a.auditName()

	if err := s.repo.Create(row); err != nil {
		return storeError(s.entity, err)
	}
	s.publish(a.OwnerID, "created", base.ID, row)
	return nil
}

func (s *catalogService[E, P]) Update(a Actor, id uuid.UUID, row *E) (*E, error) {
	if row == nil {
		return nil, apperror.New(apperror.CodeValidation, "Invalid JSON")
	}
	existing, err := s.repo.FindByID(a.OwnerID, id)
	if err != nil {
		return nil, storeError(s.entity, err)
	}
	if err := validate(row); err != nil {
		return nil, err
	}

	// Keep identity and creation audit from the stored row
	prev := P(existing).Owned()
	base := P(row).Owned()
	base.ID = prev.ID
	base.OwnerID = prev.OwnerID
	base.CreatedAt = prev.CreatedAt
	base.CreatedBy = prev.CreatedBy
	base.UpdatedBy = a.auditName()

	if err := s.repo.Update(row); err != nil {
		return nil, storeError(s.entity, err)
	}
	s.publish(a.OwnerID, "updated", id, row)
	return row, nil
}

func (s *catalogService[E, P]) List(ownerID uuid.UUID) ([]E, error) {
	rows, err := s.repo.FindAll(ownerID)
	if err != nil {
		return nil, storeError(s.entity, err)
	}
	return rows, nil
}

func (s *catalogService[E, P]) Get(ownerID, id uuid.UUID) (*E, error) {
	row, err := s.repo.FindByID(ownerID, id)
	if err != nil {
		return nil, storeError(s.entity, err)
	}
	return row, nil
}

func (s *catalogService[E, P]) Delete(a Actor, id uuid.UUID) error {
	if err := s.repo.Delete(a.OwnerID, id); err != nil {
		return storeError(s.entity, err)
	}
	s.publish(a.OwnerID, "deleted", id, nil)
	return nil
}

func (s *catalogService[E, P]) publish(ownerID uuid.UUID, action string, id uuid.UUID, data interface{}) {
	s.events.Publish(ownerID, ws.Event{
		Type:     ws.TypeCostUpdate,
		Action:   action,
		Entity:   s.entity,
		EntityID: id.String(),
		Data:     data,
	})
}
