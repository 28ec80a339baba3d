package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertError checks err against the expected message, where "" means the
// case should succeed. It returns true when an error was expected and got,
// i.e. when the caller has nothing left to check for this case.
func AssertError(t testing.TB, caseIdx int, expected string, err error) bool {
	t.Helper()
	if expected == "" {
		require.NoError(t, err, "case %d: expected success", caseIdx)
		return false
	}
	require.EqualError(t, err, expected, "case %d", caseIdx)
	return true
}
