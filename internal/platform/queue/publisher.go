// Package queue publishes and consumes background tasks on asynq.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"business-visa-backend/internal/common/metrics"
)

// TopicMintVisa is the task type of the mint-visa job.
const TopicMintVisa = "mint-visa"

const (
	defaultTimeout   = 5 * time.Minute
	defaultRetention = 24 * time.Hour
)

type Publisher struct {
	client    *asynq.Client
	maxRetry  int
	timeout   time.Duration
	retention time.Duration
	metrics   *metrics.Metrics
}

func NewPublisher(client *asynq.Client, maxRetry int, m *metrics.Metrics) *Publisher {
	return &Publisher{
		client:    client,
		maxRetry:  maxRetry,
		timeout:   defaultTimeout,
		retention: defaultRetention,
		metrics:   m,
	}
}

// PublishJSON enqueues payload under topic and returns the message id. A non-empty
// key makes the task id topic:key, so publishing the same key again while the task
// is queued or retained returns the existing id instead of a second task.
func (p *Publisher) PublishJSON(ctx context.Context, topic, key string, payload interface{}) (string, error) {
	task, err := NewJSONTask(topic, payload)
	if err != nil {
		p.observe(topic, "error")
		return "", err
	}

	opts := []asynq.Option{
		asynq.MaxRetry(p.maxRetry),
		asynq.Timeout(p.timeout),
	}
	if key != "" {
		opts = append(opts, asynq.TaskID(TaskID(topic, key)), asynq.Retention(p.retention))
	}

	info, err := p.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		if key != "" && errors.Is(err, asynq.ErrTaskIDConflict) {
			p.observe(topic, "duplicate")
			return TaskID(topic, key), nil
		}
		p.observe(topic, "error")
		return "", fmt.Errorf("enqueue %s: %w", topic, err)
	}
	p.observe(topic, "ok")
	return info.ID, nil
}

func (p *Publisher) Close() error {
	return p.client.Close()
}

func (p *Publisher) observe(topic, result string) {
	if p.metrics != nil {
		p.metrics.ObservePublish(topic, result)
	}
}

// TaskID is the asynq task id of the task published under topic and key.
func TaskID(topic, key string) string {
	return topic + ":" + key
}

// NewJSONTask encodes payload as the body of a task of type topic.
func NewJSONTask(topic string, payload interface{}) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", topic, err)
	}
	return asynq.NewTask(topic, body), nil
}
