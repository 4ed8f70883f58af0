package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigurationError_Error(t *testing.T) {
	err := NewConfigurationError("/root/Proj", "config.json not found")
	assert.Contains(t, err.Error(), "/root/Proj")
	assert.Contains(t, err.Error(), "config.json not found")
}

func TestConfigurationError_WithWrapped(t *testing.T) {
	inner := errors.New("unexpected end of JSON input")
	err := &ConfigurationError{Path: "/root/Proj", Message: "malformed config", Err: inner}
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "unexpected end of JSON input")
}

func TestRemoteOperationError(t *testing.T) {
	inner := errors.New("connection refused")
	err := NewRemoteOperationError("add library", 1000, inner)
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "add library")
	assert.Contains(t, err.Error(), "1000")

	assert.Nil(t, NewRemoteOperationError("get", 1, nil))
	assert.NotContains(t, NewRemoteOperationError("create", 0, inner).Error(), "project 0")
}

func TestClassification(t *testing.T) {
	cfgErr := fmt.Errorf("push Proj: %w", NewConfigurationError("/root/Proj", "bad"))
	remoteErr := fmt.Errorf("push Proj: %w", NewRemoteOperationError("get", 1, errors.New("boom")))
	abortErr := fmt.Errorf("push Proj: %w", ErrUserAbort)

	assert.True(t, IsConfiguration(cfgErr))
	assert.False(t, IsConfiguration(remoteErr))

	assert.True(t, IsRemote(remoteErr))
	assert.False(t, IsRemote(abortErr))

	assert.True(t, IsUserAbort(abortErr))
	assert.False(t, IsUserAbort(cfgErr))
}
