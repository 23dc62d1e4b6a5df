package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func sampleMessage(aud Audience, to string) Message {
	return Message{
		Audience:        aud,
		To:              to,
		OrderID:         uuid.New(),
		CustomerEmail:   "buyer@example.com",
		ShippingAddress: "12 Baker Street",
		Phone:           "+911234567890",
		Subtotal:        decimal.NewFromInt(1050),
		Shipping:        decimal.Zero,
		Total:           decimal.NewFromInt(1050),
		Items: []Item{
			{ProductName: "Denim Jacket", Size: "M", Color: "blue", Quantity: 2, UnitPrice: decimal.NewFromInt(300)},
			{ProductName: "Leather Belt", Quantity: 1, UnitPrice: decimal.NewFromInt(450)},
		},
		PlacedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestDispatcher_DeliversAllQueuedOnClose(t *testing.T) {
	var mu sync.Mutex
	var got []Audience
	n := NotifierFunc(func(_ context.Context, m Message) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, m.Audience)
		return nil
	})

	d := NewDispatcher(n, 2, 8, time.Second, quietLogger())
	require.True(t, d.Dispatch(sampleMessage(AudienceCustomer, "a@example.com")))
	require.True(t, d.Dispatch(sampleMessage(AudienceAdmin, "admin@example.com")))

	require.NoError(t, d.Close(context.Background()))
	assert.ElementsMatch(t, []Audience{AudienceCustomer, AudienceAdmin}, got)

	assert.False(t, d.Dispatch(sampleMessage(AudienceCustomer, "late@example.com")))
	require.NoError(t, d.Close(context.Background()))
}

func TestDispatcher_DropsWhenQueueFull(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	n := NotifierFunc(func(ctx context.Context, _ Message) error {
		started <- struct{}{}
		<-release
		return nil
	})

	d := NewDispatcher(n, 1, 1, time.Second, quietLogger())

	require.True(t, d.Dispatch(sampleMessage(AudienceCustomer, "1@example.com")))
	<-started
	require.True(t, d.Dispatch(sampleMessage(AudienceCustomer, "2@example.com")))
	assert.False(t, d.Dispatch(sampleMessage(AudienceCustomer, "3@example.com")))

	close(release)
	require.NoError(t, d.Close(context.Background()))
}

func TestDispatcher_FailuresAreContained(t *testing.T) {
	var calls atomic.Int32
	n := NotifierFunc(func(context.Context, Message) error {
		calls.Add(1)
		return errors.New("smtp down")
	})

	var buf bytes.Buffer
	d := NewDispatcher(n, 1, 4, time.Second, slog.New(slog.NewJSONHandler(&buf, nil)))
	require.True(t, d.Dispatch(sampleMessage(AudienceCustomer, "a@example.com")))
	require.NoError(t, d.Close(context.Background()))

	assert.EqualValues(t, 1, calls.Load())
	assert.Contains(t, buf.String(), "notify_error")
	assert.Contains(t, buf.String(), "smtp down")
}

func TestDispatcher_CloseDeadlineCancelsInFlight(t *testing.T) {
	n := NotifierFunc(func(ctx context.Context, _ Message) error {
		<-ctx.Done()
		return ctx.Err()
	})

	d := NewDispatcher(n, 1, 1, time.Minute, quietLogger())
	require.True(t, d.Dispatch(sampleMessage(AudienceCustomer, "a@example.com")))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, d.Close(ctx), context.DeadlineExceeded)
}

func TestMulti_JoinsErrors(t *testing.T) {
	var okCalls int
	ok := NotifierFunc(func(context.Context, Message) error { okCalls++; return nil })
	bad := NotifierFunc(func(context.Context, Message) error { return errors.New("boom") })

	err := Multi{bad, nil, ok}.Notify(context.Background(), sampleMessage(AudienceAdmin, "x@example.com"))
	assert.ErrorContains(t, err, "boom")
	assert.Equal(t, 1, okCalls)

	assert.NoError(t, Multi{ok}.Notify(context.Background(), sampleMessage(AudienceAdmin, "x@example.com")))
}

func TestMailer_ComposesAndSends(t *testing.T) {
	var gotFrom string
	var gotTo []string
	var gotBody string

	m := &Mailer{Host: "smtp.example.com", Port: 587, From: "shop@example.com"}
	m.send = func(_ context.Context, from string, to []string, msg []byte) error {
		gotFrom, gotTo, gotBody = from, to, string(msg)
		return nil
	}

	msg := sampleMessage(AudienceCustomer, "buyer@example.com")
	require.NoError(t, m.Notify(context.Background(), msg))

	assert.Equal(t, "shop@example.com", gotFrom)
	assert.Equal(t, []string{"buyer@example.com"}, gotTo)
	assert.Contains(t, gotBody, "Subject: Order confirmation #"+msg.OrderID.String())
	assert.Contains(t, gotBody, "Denim Jacket (M / blue) x2  300.00")
	assert.Contains(t, gotBody, "Leather Belt x1  450.00")
	assert.Contains(t, gotBody, "Total: 1050.00")

	admin := sampleMessage(AudienceAdmin, "admin@example.com")
	require.NoError(t, m.Notify(context.Background(), admin))
	assert.Contains(t, gotBody, "Subject: New order received #")
	assert.Contains(t, gotBody, "placed by buyer@example.com")
}

func TestMailer_SkipsWithoutRecipient(t *testing.T) {
	m := &Mailer{From: "shop@example.com"}
	m.send = func(context.Context, string, []string, []byte) error {
		t.Fatal("send must not be called")
		return nil
	}
	assert.NoError(t, m.Notify(context.Background(), sampleMessage(AudienceAdmin, "")))
}

type fakePublisher struct {
	key   string
	event any
	err   error
}

func (f *fakePublisher) PublishEvent(_ context.Context, key string, event any) error {
	f.key, f.event = key, event
	return f.err
}

func TestEventPublisher(t *testing.T) {
	p := &fakePublisher{}
	msg := sampleMessage(AudienceAdmin, "admin@example.com")

	require.NoError(t, NewEventPublisher(p).Notify(context.Background(), msg))
	assert.Equal(t, msg.OrderID.String(), p.key)

	raw, err := json.Marshal(p.event)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, EventOrderNotification, decoded["type"])
	assert.Equal(t, "admin", decoded["audience"])
	assert.Equal(t, "1050", decoded["total"])

	p.err = errors.New("broker down")
	assert.ErrorContains(t, NewEventPublisher(p).Notify(context.Background(), msg), "broker down")
}
