package validator

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type line struct {
	ProductID uuid.UUID `validate:"uuid_required"`
	Quantity  float64   `validate:"gt=0"`
	Category  string    `validate:"oneof=operational maintenance"`
}

func TestValidateStruct(t *testing.T) {
	ok := line{ProductID: uuid.New(), Quantity: 2, Category: "operational"}
	assert.Empty(t, ValidateStruct(ok))

	errs := ValidateStruct(line{Category: "marketing"})
	require.Len(t, errs, 3)
	assert.Equal(t, "line.ProductID", errs[0].FailedField)
	assert.Equal(t, "uuid_required", errs[0].Tag)
	assert.Equal(t, "gt", errs[1].Tag)
	assert.Equal(t, "0", errs[1].Value)
	assert.Equal(t, "line.Category failed on oneof=operational maintenance", errs[2].String())
}
