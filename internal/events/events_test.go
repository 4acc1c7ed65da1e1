package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rabbitmq/amqp091-go"
)

type publishCall struct {
	exchange, key string
	msg           amqp091.Publishing
}

type fakeChannel struct {
	calls []publishCall
	err   error
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp091.Publishing) error {
	f.calls = append(f.calls, publishCall{exchange, key, msg})
	return f.err
}

func (f *fakeChannel) Close() error { return nil }

func TestAMQPPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}
	p := &AMQPPublisher{channel: ch, exchange: "livrocaixa"}

	e := New(TransactionAdded, "u-1", "t-1", map[string]string{"amount": "10.00"})
	if err := p.Publish(context.Background(), e); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	if len(ch.calls) != 1 {
		t.Fatalf("Expected 1 publish, got %d", len(ch.calls))
	}
	call := ch.calls[0]
	if call.exchange != "livrocaixa" || call.key != TransactionAdded {
		t.Errorf("Unexpected routing: %s/%s", call.exchange, call.key)
	}
	if call.msg.DeliveryMode != amqp091.Persistent {
		t.Error("Expected persistent delivery")
	}

	var decoded Event
	if err := json.Unmarshal(call.msg.Body, &decoded); err != nil {
		t.Fatalf("Body is not JSON: %v", err)
	}
	if decoded.Type != TransactionAdded || decoded.Tenant != "u-1" || decoded.EntityID != "t-1" {
		t.Errorf("Unexpected event: %+v", decoded)
	}
}

func TestNotify_SwallowsErrors(t *testing.T) {
	ch := &fakeChannel{err: errors.New("broker down")}
	p := &AMQPPublisher{channel: ch, exchange: "livrocaixa"}

	// Must not panic or propagate
	Notify(context.Background(), p, New(SheetDeleted, "u-1", "s-1", nil))
	if len(ch.calls) != 1 {
		t.Errorf("Expected publish attempt, got %d", len(ch.calls))
	}
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	if err := p.Publish(context.Background(), New(UserRegistered, "u-1", "u-1", nil)); err != nil {
		t.Errorf("Nop.Publish returned %v", err)
	}
}
