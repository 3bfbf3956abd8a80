package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorFormatting(t *testing.T) {
	err := InvalidWeight(1.5)
	require.Equal(t, ErrCodeInvalidWeight, err.Code)
	require.Contains(t, err.Error(), "INVALID_WEIGHT")
	require.Contains(t, err.Error(), "1.5")

	cause := fmt.Errorf("connection refused")
	wrapped := FetchError("backend unreachable", cause)
	require.Contains(t, wrapped.Error(), "connection refused")
	require.Equal(t, cause, wrapped.Unwrap())
}

func TestIsCode(t *testing.T) {
	require.True(t, IsCode(LensNotFound("main"), ErrCodeLensNotFound))
	require.False(t, IsCode(LensNotFound("main"), ErrCodeInvalidLens))
	require.False(t, IsCode(fmt.Errorf("plain"), ErrCodeInvalidLens))
}

func TestGetCodeFromError(t *testing.T) {
	require.Equal(t, ErrCodeInvalidCid, GetCodeFromError(InvalidCid("x"), "FALLBACK"))
	require.Equal(t, ErrorCode("FALLBACK"), GetCodeFromError(fmt.Errorf("plain"), "FALLBACK"))
}
