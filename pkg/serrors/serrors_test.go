package serrors_test

import (
	"contractscanner/pkg/serrors"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type customError struct{ msg string }

func (e customError) Error() string { return e.msg }

func TestDefaultKindsDistinct(t *testing.T) {
	kinds := []serrors.Kind{
		serrors.ErrValidation,
		serrors.ErrTransport,
		serrors.ErrUpstream,
		serrors.ErrNotFound,
		serrors.ErrUnauthorized,
	}
	seen := map[serrors.Kind]bool{}
	for i, k := range kinds {
		require.NotNil(t, k, "kind at index %d is nil", i)
		require.False(t, seen[k], "kind at index %d is duplicate: %v", i, k)
		seen[k] = true
	}

	require.NotEqual(t, serrors.ErrTransport, serrors.ErrUpstream)
}

func TestErrorFormatting(t *testing.T) {
	base := errors.New("connection reset")

	e1 := serrors.With(serrors.ErrUpstream, "API request failed with status code %d", 404)
	require.Equal(t, "API request failed with status code 404", e1.Error())

	e2 := serrors.Wrap(serrors.ErrTransport, base, "API request error")
	require.Equal(t, "API request error: connection reset", e2.Error())

	e3 := serrors.KindOnly(serrors.ErrValidation)
	require.Equal(t, "VALIDATION", e3.Error())
}

func TestIsMatchesKindAndWrapped(t *testing.T) {
	base := customError{"root cause"}
	e := serrors.Wrap(serrors.ErrTransport, base, "sending")

	require.ErrorIs(t, e, serrors.ErrTransport)
	require.ErrorIs(t, e, base)
	require.NotErrorIs(t, e, serrors.ErrUpstream, "errors.Is should not match a different kind")

	wrapped := fmt.Errorf("could not scan: %w", e)
	require.ErrorIs(t, wrapped, serrors.ErrTransport)
}

func TestAsMatchesKindAndWrapped(t *testing.T) {
	base := &customError{"root cause"}
	e := serrors.Wrap(serrors.ErrUpstream, base, "reading")

	var k serrors.Kind
	require.ErrorAs(t, e, &k, "errors.As should extract Kind")
	require.Equal(t, serrors.ErrUpstream, k)

	var ce *customError
	require.ErrorAs(t, e, &ce, "errors.As should extract wrapped error type")
	require.Equal(t, base, ce, "extracted cause pointer mismatch")
}

func TestDiagnostic(t *testing.T) {
	e := serrors.With(serrors.ErrUpstream, "API request failed with status code %d", 500)
	withDiag := e.WithDiagnostic("upstream body")

	require.Empty(t, e.Diagnostic(), "WithDiagnostic must not mutate the receiver")
	require.Equal(t, "upstream body", withDiag.Diagnostic())
	require.Equal(t, e.Error(), withDiag.Error(), "diagnostic must not leak into Error()")
	require.ErrorIs(t, withDiag, serrors.ErrUpstream)
}

func TestMessageAndDiagnosticOf(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	e := serrors.Wrap(serrors.ErrTransport, cause, "API request error").WithDiagnostic(cause.Error())
	wrapped := fmt.Errorf("outer: %w", e)

	require.Equal(t, "API request error", serrors.MessageOf(wrapped))
	require.Equal(t, "dial tcp: refused", serrors.DiagnosticOf(wrapped))

	plain := errors.New("plain")
	require.Equal(t, "plain", serrors.MessageOf(plain))
	require.Equal(t, "plain", serrors.DiagnosticOf(plain))
}

func TestAccessors(t *testing.T) {
	base := errors.New("boom")
	e := serrors.Wrap(serrors.ErrUnauthorized, base, "no token")
	require.Equal(t, serrors.ErrUnauthorized, e.Kind())
	require.Equal(t, "no token", e.Message())
	require.Equal(t, base, e.Cause())
}
