package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveRegistry(t *testing.T) {
	ObserveRegistry(5, 2)
	assert.Equal(t, 5.0, testutil.ToFloat64(RegisteredClients))
	assert.Equal(t, 2.0, testutil.ToFloat64(OpenOrders))
}

func TestScheduledRunsLabels(t *testing.T) {
	before := testutil.ToFloat64(ScheduledRuns.WithLabelValues("summary", "ok"))
	ScheduledRuns.WithLabelValues("summary", "ok").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(ScheduledRuns.WithLabelValues("summary", "ok")))
}
