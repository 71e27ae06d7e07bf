package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		kind     error
		wantName string
		wantMsg  string
	}{
		{
			name:     "validation",
			err:      NewError(ErrValidation, "all fields are required"),
			kind:     ErrValidation,
			wantName: "ValidationError",
			wantMsg:  "all fields are required",
		},
		{
			name:     "conflict wrapped by fmt",
			err:      fmt.Errorf("adding: %w", NewError(ErrConflict, "email already registered")),
			kind:     ErrConflict,
			wantName: "ConflictError",
			wantMsg:  "adding: email already registered",
		},
		{
			name:     "storage with cause",
			err:      WrapError(ErrStorage, "reading contacts", ErrDetached),
			kind:     ErrStorage,
			wantName: "StorageError",
			wantMsg:  "reading contacts: workbook is detached",
		},
		{
			name:     "configuration",
			err:      WrapError(ErrConfiguration, "opening directory", ErrNotConfigured),
			kind:     ErrConfiguration,
			wantName: "ConfigurationError",
			wantMsg:  "opening directory: " + ErrNotConfigured.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(tt.err, tt.kind))
			assert.Equal(t, tt.wantName, KindName(tt.err))
			assert.Equal(t, tt.wantMsg, tt.err.Error())
		})
	}
}

func TestErrorUnwrapReachesCause(t *testing.T) {
	err := WrapError(ErrStorage, "deleting row", ErrRowNotFound)
	assert.True(t, errors.Is(err, ErrRowNotFound))
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestKindNameUnknown(t *testing.T) {
	assert.Equal(t, "", KindName(nil))
	assert.Equal(t, "", KindName(errors.New("plain")))
}

func TestRowClone(t *testing.T) {
	r := Row{"1", "Ann"}
	c := r.Clone()
	c[1] = "Bo"
	assert.Equal(t, "Ann", r[1])
	assert.Nil(t, Row(nil).Clone())
}
