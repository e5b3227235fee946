package motorhall

import (
	"context"
	"testing"
)

// testContext substitutes testing.T.Context, which requires go >= 1.24.
func testContext(t *testing.T) context.Context {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	return ctx
}
