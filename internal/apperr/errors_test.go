package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKinds(t *testing.T) {
	nf := NotFound("booking with id %d not found", 7)
	assert.Equal(t, "booking with id 7 not found", nf.Error())
	assert.True(t, IsNotFound(nf))
	assert.False(t, IsConditionsNotMet(nf))

	cnm := ConditionsNotMet("item %d is not available", 3)
	assert.True(t, IsConditionsNotMet(cnm))
	assert.False(t, IsValidation(cnm))

	v := Validation("end must be after start")
	assert.True(t, IsValidation(v))
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("get booking: %w", NotFound("booking with id %d not found", 1))
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "booking with id 1 not found")
}

func TestPlainErrorsAreNoKind(t *testing.T) {
	err := errors.New("connection refused")
	assert.False(t, IsNotFound(err))
	assert.False(t, IsConditionsNotMet(err))
	assert.False(t, IsValidation(err))
}
