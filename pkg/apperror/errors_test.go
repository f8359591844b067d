package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	t.Run("not found names the resource", func(t *testing.T) {
		err := NewNotFoundError("Receipt")
		assert.Equal(t, http.StatusNotFound, err.Code)
		assert.Equal(t, "Receipt not found", err.Message)
	})

	t.Run("unprocessable carries the message", func(t *testing.T) {
		err := NewUnprocessableError("billing: invalid amount")
		assert.Equal(t, http.StatusUnprocessableEntity, err.Code)
		assert.Equal(t, "billing: invalid amount", err.Error())
	})

	t.Run("conflict carries the message", func(t *testing.T) {
		err := NewConflictError("cash cut already closed")
		assert.Equal(t, http.StatusConflict, err.Code)
	})
}

func TestGetAppError(t *testing.T) {
	t.Run("unwraps a wrapped app error", func(t *testing.T) {
		wrapped := fmt.Errorf("register payment: %w", NewUnprocessableError("billing: invalid amount"))
		assert.True(t, IsAppError(wrapped))
		assert.Equal(t, http.StatusUnprocessableEntity, GetAppError(wrapped).Code)
	})

	t.Run("plain errors become internal", func(t *testing.T) {
		err := GetAppError(errors.New("boom"))
		assert.Equal(t, http.StatusInternalServerError, err.Code)
		assert.Equal(t, "boom", err.Message)
	})
}
