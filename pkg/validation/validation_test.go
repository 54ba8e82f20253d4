package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/notewell-backend/pkg/errors"
	"github.com/angelmondragon/notewell-backend/pkg/types"
)

type sample struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Title string `json:"title" validate:"max=5"`
}

func TestStructListsEveryViolation(t *testing.T) {
	err := Struct(&sample{Email: "nope", Title: "ünïcødé"})
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	details, ok := typed.Details().(types.Violations)
	require.True(t, ok)
	assert.Equal(t, "is required", details["name"])
	assert.Equal(t, "must be a valid email", details["email"])
	assert.Equal(t, "must be at most 5 characters", details["title"])
}

func TestStructCountsRunes(t *testing.T) {
	assert.NoError(t, Struct(&sample{Name: "a", Email: "a@b.co", Title: "ééééé"}))
}

func TestFailedDefaultsMessage(t *testing.T) {
	err := Failed("", types.Violations{"id": "bad"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, "validation failed", typed.Message())
}
