// Package detach runs side effects off the request path. A submitted task
// runs on its own context, bounded by its own timeout, and its failure is
// reported to an observer instead of the submitter.
package detach

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrQueueFull is returned by Submit when no queue slot is free.
	ErrQueueFull = errors.New("detach: queue full")

	// ErrClosed is returned by Submit after Close was called.
	ErrClosed = errors.New("detach: executor closed")
)

// Task is a unit of detached work.
type Task func(ctx context.Context) error

// Failure describes a task that returned an error or panicked.
type Failure struct {
	ID   string
	Name string
	Err  error
}

// Observer is told about every failed task. It is called from worker
// goroutines and must be safe for concurrent use.
type Observer interface {
	TaskFailed(f Failure)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(f Failure)

// TaskFailed implements Observer.
func (fn ObserverFunc) TaskFailed(f Failure) { fn(f) }

// Config sizes the executor.
type Config struct {
	Workers   int
	QueueSize int
	Timeout   time.Duration
}

// DefaultConfig returns four workers, a 1024 slot queue and a 5s task timeout.
func DefaultConfig() Config {
	return Config{Workers: 4, QueueSize: 1024, Timeout: 5 * time.Second}
}

// Option customizes an Executor.
type Option func(*Executor)

// WithObserver sets the failure observer.
func WithObserver(o Observer) Option {
	return func(e *Executor) {
		if o != nil {
			e.observer = o
		}
	}
}

// WithLogger sets the logger used for task failures.
func WithLogger(l *zap.Logger) Option {
	return func(e *Executor) {
		if l != nil {
			e.logger = l
		}
	}
}

type job struct {
	id   string
	name string
	task Task
}

// Executor is a fixed pool of workers fed by a bounded queue.
type Executor struct {
	cfg      Config
	queue    chan job
	observer Observer
	logger   *zap.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// New starts an executor. Non-positive sizes fall back to DefaultConfig values.
func New(cfg Config, opts ...Option) *Executor {
	def := DefaultConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}

	e := &Executor{
		cfg:      cfg,
		queue:    make(chan job, cfg.QueueSize),
		observer: ObserverFunc(func(Failure) {}),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go e.worker()
	}
	return e
}

// Submit enqueues task without waiting for it to start. It returns the task
// id, or ErrQueueFull / ErrClosed when the task was not accepted.
func (e *Executor) Submit(name string, task Task) (string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.closed {
		return "", ErrClosed
	}

	j := job{id: uuid.NewString(), name: name, task: task}
	select {
	case e.queue <- j:
		return j.id, nil
	default:
		return "", ErrQueueFull
	}
}

// Close stops accepting tasks and waits for queued ones to finish or for ctx
// to end, whichever comes first.
func (e *Executor) Close(ctx context.Context) error {
	e.mu.Lock()
	if !e.closed {
		e.closed = true
		close(e.queue)
	}
	e.mu.Unlock()

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Executor) worker() {
	defer e.wg.Done()
	for j := range e.queue {
		if err := e.run(j); err != nil {
			e.logger.Warn("detached task failed",
				zap.String("task_id", j.id),
				zap.String("task", j.name),
				zap.Error(err),
			)
			e.observer.TaskFailed(Failure{ID: j.id, Name: j.name, Err: err})
		}
	}
}

func (e *Executor) run(j job) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), e.cfg.Timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	return j.task(ctx)
}
