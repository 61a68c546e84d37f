package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvalidTransition_Message(t *testing.T) {
	err := InvalidTransition("PENDING_SELLER", "SHIPPING")

	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, "Cannot change status from PENDING_SELLER to SHIPPING", err.Message)
}

func TestWrap_KeepsIdentity(t *testing.T) {
	sentinel := NotFound("Transaction not found")
	cause := stderrors.New("record not found")

	wrapped := fmt.Errorf("load: %w", sentinel.Wrap(cause))

	assert.True(t, stderrors.Is(wrapped, sentinel))
	assert.True(t, stderrors.Is(wrapped, cause))
	assert.Nil(t, sentinel.Err)

	appErr, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
}

func TestIs_DifferentMessages(t *testing.T) {
	assert.False(t, stderrors.Is(NotFound("a"), NotFound("b")))
	assert.False(t, stderrors.Is(NotFound("a"), Forbidden("a")))
}
