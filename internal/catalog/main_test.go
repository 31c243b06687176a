package catalog

import (
	"testing"

	"go.uber.org/goleak"
)

// pubsub (through pkg/events) starts the opencensus view worker at init.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}
