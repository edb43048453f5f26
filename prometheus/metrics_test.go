package prometheus

import (
	"testing"
	"time"

	"ecofood/pkg/config"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestTrackDBOperationObserves(t *testing.T) {
	InitMetrics(&config.Config{Metrics: config.MetricsConfig{Prefix: "ecofood_metrics_test"}})

	TrackDBOperation("select")(time.Now())
	TrackDBOperation("insert")(time.Now().Add(-time.Millisecond))

	// one series per observed operation type
	assert.Equal(t, 2, testutil.CollectAndCount(DbOperationDuration))
}
