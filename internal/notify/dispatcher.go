package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Dispatcher runs a fixed pool of workers over a bounded queue. Dispatch never
// blocks: when the queue is full or the dispatcher is closed the message is
// dropped and Dispatch reports false.
type Dispatcher struct {
	n       Notifier
	queue   chan Message
	timeout time.Duration
	log     *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(n Notifier, workers, queueSize int, timeout time.Duration, log *slog.Logger) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	if log == nil {
		log = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		n:       n,
		queue:   make(chan Message, queueSize),
		timeout: timeout,
		log:     log.With("component", "notify.dispatcher"),
		ctx:     ctx,
		cancel:  cancel,
	}

	d.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go d.worker()
	}
	return d
}

func (d *Dispatcher) Dispatch(m Message) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.log.Warn("notify_dropped", "reason", "dispatcher closed", "order_id", m.OrderID, "audience", m.Audience)
		return false
	}

	select {
	case d.queue <- m:
		return true
	default:
		d.log.Warn("notify_dropped", "reason", "queue full", "order_id", m.OrderID, "audience", m.Audience)
		return false
	}
}

// Close stops accepting messages and waits for queued ones to be delivered.
// If ctx ends first, in-flight deliveries are cancelled and ctx.Err is returned.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancel()
		return nil
	case <-ctx.Done():
		d.cancel()
		<-done
		return ctx.Err()
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for m := range d.queue {
		d.deliver(m)
	}
}

func (d *Dispatcher) deliver(m Message) {
	ctx := d.ctx
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	start := time.Now()
	if err := d.n.Notify(ctx, m); err != nil {
		d.log.Error("notify_error", "order_id", m.OrderID, "audience", m.Audience, "error", err)
		return
	}
	d.log.Info("notify_success", "order_id", m.OrderID, "audience", m.Audience, "duration_ms", time.Since(start).Milliseconds())
}
