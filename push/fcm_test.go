package push

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewFCMGateway_RequiresCredentials(t *testing.T) {
	_, err := NewFCMGateway(context.Background(), "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "credentials path is not set")
}

func TestClassifyError(t *testing.T) {
	assert.Equal(t, "", classifyError(nil))
	// Errors the messaging SDK does not recognize land on the unknown code.
	assert.Equal(t, CodeUnknown, classifyError(errors.New("something odd")))
}
