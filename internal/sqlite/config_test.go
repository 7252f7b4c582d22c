package sqlite_test

import (
	"testing"

	"github.com/teenjuna/deq/internal/sqlite"
	"github.com/teenjuna/deq/internal/testing/require"
)

func TestOptionValidation(t *testing.T) {
	require.PanicWithError(t, "URI can't be blank", func() {
		sqlite.WithURI(" ")
	})

	require.PanicWithError(t, "URI can't be blank", func() {
		sqlite.WithURI("?_sync=full")
	})

	require.PanicWithError(t, "URI query is invalid", func() {
		sqlite.WithURI("myfile?a=%zz")
	})
}
