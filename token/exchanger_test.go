package token_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-auth-client/token"
)

func TestTransportErrorMatching(t *testing.T) {
	cause := errors.New("connection refused")
	err := error(&token.TransportError{Op: "refresh", Cause: cause})

	var transportErr *token.TransportError
	require.True(t, errors.As(err, &transportErr))
	require.Equal(t, "refresh", transportErr.Op)
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "transport failure during refresh")
}
