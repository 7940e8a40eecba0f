package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveRun(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveRun("expire-status", "completed", 120*time.Millisecond, 3, 1)
	m.ObserveRun("expire-status", "completed", 80*time.Millisecond, 2, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.JobRuns.WithLabelValues("expire-status", "completed")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.JobRecords.WithLabelValues("expire-status", "updated")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.JobRecords.WithLabelValues("expire-status", "failed")))
}

func TestObserveRequestAndMint(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveRequest("/api/v1/applicants/accept", "200")
	m.ObserveMint("minted")
	m.ObservePublish("mint-visa", "ok")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("/api/v1/applicants/accept", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Mints.WithLabelValues("minted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QueuePublishes.WithLabelValues("mint-visa", "ok")))
}
