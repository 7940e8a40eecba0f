//go:build integration

package queue_test

import (
	"context"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"business-visa-backend/internal/common/metrics"
	"business-visa-backend/internal/platform/queue"
	"business-visa-backend/internal/testutil/containers"
)

func newPublisher(t *testing.T) (*queue.Publisher, *metrics.Metrics) {
	t.Helper()
	opts := containers.NewRedisClient(t).Options()
	m := metrics.New(prometheus.NewRegistry())
	p := queue.NewPublisher(asynq.NewClient(asynq.RedisClientOpt{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), 3, m)
	t.Cleanup(func() { _ = p.Close() })
	return p, m
}

func TestPublishSameKeyQueuesOneTask(t *testing.T) {
	p, m := newPublisher(t)
	ctx := context.Background()
	payload := map[string]string{"applicantId": "42"}

	first, err := p.PublishJSON(ctx, queue.TopicMintVisa, "42", payload)
	require.NoError(t, err)
	second, err := p.PublishJSON(ctx, queue.TopicMintVisa, "42", payload)
	require.NoError(t, err)

	assert.Equal(t, "mint-visa:42", first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QueuePublishes.WithLabelValues(queue.TopicMintVisa, "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QueuePublishes.WithLabelValues(queue.TopicMintVisa, "duplicate")))
}

func TestPublishWithoutKeyQueuesEveryCall(t *testing.T) {
	p, _ := newPublisher(t)
	ctx := context.Background()

	first, err := p.PublishJSON(ctx, queue.TopicMintVisa, "", map[string]string{"applicantId": "1"})
	require.NoError(t, err)
	second, err := p.PublishJSON(ctx, queue.TopicMintVisa, "", map[string]string{"applicantId": "1"})
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
