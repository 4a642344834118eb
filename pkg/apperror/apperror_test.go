package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	status, msg := Status(New(CodeNotFound, "product not found"))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "product not found", msg)

	status, msg = Status(Wrap(CodeInternal, errors.New("pq: connection refused"), "failed to load"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "internal server error", msg, "internal details stay hidden")

	status, msg = Status(errors.New("plain"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "internal server error", msg)

	status, msg = Status(New(CodeConflict, ""))
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "conflict detected", msg)
}

func TestWrapAndAs(t *testing.T) {
	cause := errors.New("duplicate key")
	err := fmt.Errorf("adding line: %w", Wrap(CodeConflict, cause, "ingredient already in recipe"))

	typed := As(err)
	if assert.NotNil(t, typed) {
		assert.Equal(t, CodeConflict, typed.Code())
		assert.ErrorIs(t, typed, cause)
		assert.Contains(t, typed.Error(), "duplicate key")
	}
	assert.Nil(t, As(nil))
	assert.Nil(t, As(cause))

	var nilErr *Error
	assert.Equal(t, CodeInternal, nilErr.Code())
	assert.Equal(t, CodeValidation, Wrap(CodeValidation, nil, "bad").Code())
	assert.Equal(t, http.StatusInternalServerError, MetadataFor("UNKNOWN").HTTPStatus)
}
