package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromResponsePrefersServerMessage(t *testing.T) {
	err := FromResponse(http.StatusBadRequest, []byte(`{"msg":"Permit number already exists"}`), "Error saving record")
	assert.Equal(t, "Permit number already exists", err.Message)
	assert.Equal(t, ErrValidation.Code, err.Code)
	assert.Equal(t, http.StatusBadRequest, err.Status)

	err = FromResponse(http.StatusInternalServerError, []byte(`{"message":"stats unavailable"}`), "")
	assert.Equal(t, "stats unavailable", err.Message)
	assert.Equal(t, ErrUpstream.Code, err.Code)
}

func TestFromResponseFallback(t *testing.T) {
	err := FromResponse(http.StatusBadGateway, []byte("<html>"), "Failed to load records")
	assert.Equal(t, "Failed to load records", err.Message)

	err = FromResponse(http.StatusNotFound, nil, "")
	assert.Equal(t, "Not Found", err.Message)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestClonedSentinelMatches(t *testing.T) {
	wrapped := fmt.Errorf("fetch: %w", Clone(ErrUnauthorized, "token expired"))
	assert.True(t, errors.Is(wrapped, ErrUnauthorized))
	assert.False(t, errors.Is(wrapped, ErrNotFound))
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "backend says no", UserMessage(Clone(ErrUpstream, "backend says no"), "generic"))
	assert.Equal(t, "generic", UserMessage(errors.New("boom"), "generic"))
	assert.Equal(t, "generic", UserMessage(FromError(errors.New("boom")), "generic"))
	assert.Equal(t, "generic", UserMessage(FromResponse(http.StatusBadGateway, nil, ""), "generic"))
	assert.Equal(t, "generic", UserMessage(Wrap(errors.New("dial"), ErrUnavailable.Code, ErrUnavailable.Status, ErrUnavailable.Message), "generic"))
}
