package service

import (
	"errors"
	"fmt"
	"strings"

	"go-hpp-engine/internal/repository"
	"go-hpp-engine/internal/ws"
	"go-hpp-engine/pkg/apperror"
	"go-hpp-engine/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Actor is the authenticated owner performing a write.
type Actor struct {
	OwnerID uuid.UUID
	Email   string
}

func (a Actor) auditName() string {
	if a.Email == "" {
		return "system"
	}
	return a.Email
}

// EventPublisher pushes change notifications to an owner's dashboards.
type EventPublisher interface {
	Publish(ownerID uuid.UUID, ev ws.Event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(uuid.UUID, ws.Event) {}

func publisherOrNop(p EventPublisher) EventPublisher {
	if p == nil {
		return nopPublisher{}
	}
	return p
}

// validate runs struct validation and folds every failure into one message.
func validate(req interface{}) error {
	errs := validator.ValidateStruct(req)
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.String())
	}
	return apperror.New(apperror.CodeValidation, "Validation failed: "+strings.Join(msgs, "; "))
}

// storeError maps a repository error for entity onto an apperror.
func storeError(entity string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.Wrap(apperror.CodeNotFound, err, entity+" not found")
	}
	var inUse *repository.InUseError
	if errors.As(err, &inUse) {
		return apperror.Wrap(apperror.CodeConflict, err, inUse.Error())
	}
	return apperror.Wrap(apperror.CodeInternal, err, fmt.Sprintf("failed to access %s", entity))
}
