package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/hey-kuldeep/expense-xtrac/worker"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProducer struct {
	events   chan kafka.Event
	produced []*kafka.Message
	err      error
	flushed  bool
}

func newFakeProducer() *fakeProducer {
	return &fakeProducer{events: make(chan kafka.Event, 4)}
}

func (f *fakeProducer) Produce(msg *kafka.Message, _ chan kafka.Event) error {
	if f.err != nil {
		return f.err
	}
	f.produced = append(f.produced, msg)
	return nil
}

func (f *fakeProducer) Events() chan kafka.Event { return f.events }

func (f *fakeProducer) Flush(int) int {
	f.flushed = true
	return 0
}

func (f *fakeProducer) Close() { close(f.events) }

func TestSendProducesToTopic(t *testing.T) {
	fake := newFakeProducer()
	p := newProducer(fake, "xtrac_events")

	err := p.Send(context.Background(), worker.Job{Key: []byte("ada@example.com"), Value: []byte(`{"type":"expense.created"}`)})
	require.NoError(t, err)
	p.Close()

	require.Len(t, fake.produced, 1)
	msg := fake.produced[0]
	assert.Equal(t, "xtrac_events", *msg.TopicPartition.Topic)
	assert.Equal(t, kafka.PartitionAny, msg.TopicPartition.Partition)
	assert.Equal(t, "ada@example.com", string(msg.Key))
	assert.JSONEq(t, `{"type":"expense.created"}`, string(msg.Value))
	assert.True(t, fake.flushed)
}

func TestSendWrapsProduceError(t *testing.T) {
	fake := newFakeProducer()
	fake.err = errors.New("queue full")
	p := newProducer(fake, "xtrac_events")
	defer p.Close()

	err := p.Send(context.Background(), worker.Job{Value: []byte("{}")})
	require.Error(t, err)
	assert.ErrorIs(t, err, fake.err)
	assert.Contains(t, err.Error(), "xtrac_events")
}

func TestDeliveryReportsAreDrained(t *testing.T) {
	fake := newFakeProducer()
	p := newProducer(fake, "xtrac_events")

	topic := "xtrac_events"
	fake.events <- &kafka.Message{TopicPartition: kafka.TopicPartition{Topic: &topic, Error: errors.New("broker down")}}
	fake.events <- kafka.NewError(kafka.ErrTransport, "transport", false)

	p.Close()
	_, open := <-p.done
	assert.False(t, open)
}
