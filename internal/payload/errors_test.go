package payload

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupErrorMessage(t *testing.T) {
	err := &LookupError{Key: "incoming_webhook.url"}
	assert.Equal(t, `required key "incoming_webhook.url" not found`, err.Error())
}

func TestLookupErrorUnwrapsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("oauth: %w", &LookupError{Key: "team_id"})

	var lerr *LookupError
	require.True(t, errors.As(wrapped, &lerr))
	assert.Equal(t, "team_id", lerr.Key)
}
