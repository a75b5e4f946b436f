// Package outbox runs best-effort side effects (hashtag linking, share event
// recording, cache invalidation) off the request path. Failures never reach
// the caller; they are logged and counted instead.
package outbox

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var (
	processedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "waggle_outbox_processed_total",
		Help: "Outbox tasks processed, by task name and outcome.",
	}, []string{"task", "outcome"})

	droppedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "waggle_outbox_dropped_total",
		Help: "Outbox tasks dropped because the queue was full.",
	}, []string{"task"})
)

const taskTimeout = 10 * time.Second

type task struct {
	name string
	fn   func(context.Context) error
}

type Outbox struct {
	logger *zap.Logger
	tasks  chan task
	wg     sync.WaitGroup
}

func New(logger *zap.Logger, buffer int) *Outbox {
	return &Outbox{
		logger: logger,
		tasks:  make(chan task, buffer),
	}
}

// Start launches the worker. Tasks enqueued after Close panic, so Close must
// happen-after the last Enqueue.
func (o *Outbox) Start() {
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		for t := range o.tasks {
			o.run(t)
		}
	}()
}

// Enqueue never blocks; when the queue is full the task is dropped and
// counted. The return value reports whether the task was accepted.
func (o *Outbox) Enqueue(name string, fn func(context.Context) error) bool {
	select {
	case o.tasks <- task{name: name, fn: fn}:
		return true
	default:
		droppedTotal.WithLabelValues(name).Inc()
		o.logger.Warn("outbox queue full, dropping task", zap.String("task", name))
		return false
	}
}

// Close drains the queue and waits for the worker to finish.
func (o *Outbox) Close() {
	close(o.tasks)
	o.wg.Wait()
}

func (o *Outbox) run(t task) {
	defer func() {
		if r := recover(); r != nil {
			processedTotal.WithLabelValues(t.name, "panic").Inc()
			o.logger.Error("outbox task panicked", zap.String("task", t.name), zap.Any("panic", r))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), taskTimeout)
	defer cancel()

	if err := t.fn(ctx); err != nil {
		processedTotal.WithLabelValues(t.name, "error").Inc()
		o.logger.Warn("outbox task failed", zap.String("task", t.name), zap.Error(err))
		return
	}

	processedTotal.WithLabelValues(t.name, "ok").Inc()
}
