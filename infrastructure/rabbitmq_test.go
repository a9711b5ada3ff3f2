package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/domain"
)

type fakeChannel struct {
	key string
	msg amqp.Publishing
	err error
}

func (f *fakeChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	f.key, f.msg = key, msg
	return f.err
}

func (f *fakeChannel) Close() error { return nil }

func TestRabbitMQ_Publish(t *testing.T) {
	log, _ := test.NewNullLogger()
	ch := &fakeChannel{}
	r := &RabbitMQ{channel: ch, queue: "application_events", log: log}
	at := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	err := r.Publish(context.Background(), domain.ApplicationEvent{
		Type:       domain.EventApplicationSubmitted,
		ResumeID:   "r-1",
		JobID:      "job-1",
		MatchScore: 84,
		HRNotified: true,
		AppliedAt:  at,
	})
	require.NoError(t, err)

	assert.Equal(t, "application_events", ch.key)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)
	assert.Equal(t, "r-1", ch.msg.MessageId)

	var got domain.ApplicationEvent
	require.NoError(t, json.Unmarshal(ch.msg.Body, &got))
	assert.Equal(t, 84, got.MatchScore)
	assert.True(t, got.HRNotified)

	require.NoError(t, r.Close())
}

func TestRabbitMQ_PublishError(t *testing.T) {
	log, _ := test.NewNullLogger()
	r := &RabbitMQ{channel: &fakeChannel{err: errors.New("channel closed")}, queue: "q", log: log}

	err := r.Publish(context.Background(), domain.ApplicationEvent{Type: domain.EventApplicationSubmitted})
	assert.ErrorContains(t, err, "channel closed")
}
