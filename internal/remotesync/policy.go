package remotesync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/egabank/ega/internal/model"
	"github.com/egabank/ega/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

var (
	// ErrRemoteDisabled resolves every ticket when no remote is configured.
	ErrRemoteDisabled = fmt.Errorf("%w: remote disabled", model.ErrRemoteUnavailable)
	// ErrParentNotSynced is returned for a create whose owner has no remote
	// id yet; Resync pushes it again once the owner is confirmed.
	ErrParentNotSynced = fmt.Errorf("%w: parent not synced yet", model.ErrRemoteUnavailable)
	ErrClosed          = fmt.Errorf("%w: sync worker stopped", model.ErrRemoteUnavailable)
)

// Remote is the write side of the remote persistence API.
type Remote interface {
	CreateClient(ctx context.Context, c model.Client) (model.Client, error)
	UpdateClient(ctx context.Context, c model.Client) (model.Client, error)
	DeleteClient(ctx context.Context, remoteID int64) error

	CreateAccount(ctx context.Context, a model.Account, clientRemoteID int64) (model.Account, error)
	UpdateAccount(ctx context.Context, a model.Account, clientRemoteID int64) (model.Account, error)
	DeleteAccount(ctx context.Context, remoteID int64) error

	CreateTransaction(ctx context.Context, t model.Transaction, accountRemoteID int64) (model.Transaction, error)
	DeleteAccountTransactions(ctx context.Context, accountRemoteID int64) error
}

type Options struct {
	// CallTimeout bounds a single job. Zero means 15s.
	CallTimeout time.Duration
	Logger      *zap.Logger
}

type job struct {
	kind   string
	run    func(ctx context.Context) error
	ticket *Ticket
}

// Policy pushes local mutations to the remote on one FIFO worker, so
// writes reach the remote in the order they were applied locally.
type Policy struct {
	remote  Remote
	store   *store.Store
	logger  *zap.Logger
	timeout time.Duration

	mu      sync.Mutex
	cond    *sync.Cond
	queue   []job
	closed  bool
	started bool
	stopped chan struct{}
}

// New returns a policy; a nil remote disables remote writes.
func New(remote Remote, st *store.Store, opts Options) *Policy {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = 15 * time.Second
	}
	p := &Policy{
		remote:  remote,
		store:   st,
		logger:  opts.Logger,
		timeout: opts.CallTimeout,
		stopped: make(chan struct{}),
	}
	p.cond = sync.NewCond(&p.mu)
	return p
}

func (p *Policy) Enabled() bool { return p.remote != nil }

// Start launches the worker. It is a no-op when called twice.
func (p *Policy) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started || p.closed {
		return
	}
	p.started = true
	go p.loop()
}

// Close stops accepting jobs and waits for queued ones until ctx ends.
// Jobs still queued at the deadline resolve with ErrClosed.
func (p *Policy) Close(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		<-p.stopped
		return nil
	}
	p.closed = true
	started := p.started
	p.cond.Broadcast()
	p.mu.Unlock()

	if !started {
		p.failQueued()
		close(p.stopped)
		return nil
	}

	select {
	case <-p.stopped:
		return nil
	case <-ctx.Done():
		p.failQueued()
		return fmt.Errorf("sync queue not drained: %w", ctx.Err())
	}
}

func (p *Policy) failQueued() {
	p.mu.Lock()
	pending := p.queue
	p.queue = nil
	syncQueueDepth.Set(0)
	p.mu.Unlock()

	for _, j := range pending {
		j.ticket.resolve(ErrClosed)
	}
}

// Pending is the number of jobs waiting for the worker.
func (p *Policy) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

func (p *Policy) enqueue(kind string, run func(ctx context.Context) error) *Ticket {
	if p.remote == nil {
		return resolvedTicket(ErrRemoteDisabled)
	}

	t := newTicket()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		t.resolve(ErrClosed)
		return t
	}
	p.queue = append(p.queue, job{kind: kind, run: run, ticket: t})
	syncQueueDepth.Set(float64(len(p.queue)))
	p.cond.Signal()
	return t
}

func (p *Policy) loop() {
	defer close(p.stopped)

	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.closed {
			p.cond.Wait()
		}
		if len(p.queue) == 0 {
			p.mu.Unlock()
			return
		}
		j := p.queue[0]
		p.queue[0] = job{}
		p.queue = p.queue[1:]
		syncQueueDepth.Set(float64(len(p.queue)))
		p.mu.Unlock()

		p.execute(j)
	}
}

func (p *Policy) execute(j job) {
	timer := prometheus.NewTimer(syncJobDuration.WithLabelValues(j.kind))
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)

	raw := j.run(ctx)
	err := degrade(raw)

	cancel()
	timer.ObserveDuration()
	syncJobsTotal.WithLabelValues(j.kind, resultLabel(raw)).Inc()

	if err != nil {
		p.logger.Warn("remote sync failed",
			zap.String("job", j.kind),
			zap.Error(err),
		)
	}
	j.ticket.resolve(err)
}

// degrade makes every failure a degraded-success signal for the caller:
// a context timeout is an unreachable remote, and a remote rejection keeps
// its detail but still wraps ErrRemoteUnavailable.
func degrade(err error) error {
	if err == nil || isUnavailable(err) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", model.ErrRemoteUnavailable, err)
	}
	return fmt.Errorf("%w: %w", model.ErrRemoteUnavailable, err)
}

func isUnavailable(err error) bool {
	return errors.Is(err, model.ErrRemoteUnavailable)
}
