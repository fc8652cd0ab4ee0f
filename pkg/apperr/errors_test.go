package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: http.StatusOK},
		{name: "validation", err: fmt.Errorf("rating is required: %w", ErrValidation), want: http.StatusBadRequest},
		{name: "auth", err: ErrAuth, want: http.StatusUnauthorized},
		{name: "forbidden", err: fmt.Errorf("not yours: %w", ErrForbidden), want: http.StatusForbidden},
		{name: "not found", err: ErrNotFound, want: http.StatusNotFound},
		{name: "conflict", err: fmt.Errorf("username already exists: %w", ErrConflict), want: http.StatusConflict},
		{name: "upstream", err: ErrUpstream, want: http.StatusBadGateway},
		{name: "opaque", err: errors.New("disk on fire"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", Message(nil))
	assert.Equal(t, "username already exists", Message(fmt.Errorf("username already exists: %w", ErrConflict)))
	assert.Equal(t, "not found", Message(ErrNotFound))
	assert.Equal(t, "internal server error", Message(errors.New("open data/users.json: permission denied")))
}
