package remotesync

import (
	"context"
	"errors"
	"sync"
)

// Ticket is the caller's handle on an asynchronous remote write. A nil
// error means the remote confirmed the write; an error wrapping
// model.ErrRemoteUnavailable means the change is kept locally only.
type Ticket struct {
	once sync.Once
	done chan struct{}
	err  error
}

func newTicket() *Ticket {
	return &Ticket{done: make(chan struct{})}
}

func resolvedTicket(err error) *Ticket {
	t := newTicket()
	t.resolve(err)
	return t
}

func (t *Ticket) resolve(err error) {
	t.once.Do(func() {
		t.err = err
		close(t.done)
	})
}

func (t *Ticket) Done() <-chan struct{} { return t.done }

// Err is nil until Done is closed.
func (t *Ticket) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}

// Wait blocks until the remote write settles or ctx ends.
func (t *Ticket) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// All resolves once every ticket has resolved, with the joined errors.
func All(tickets ...*Ticket) *Ticket {
	live := tickets[:0:0]
	for _, t := range tickets {
		if t != nil {
			live = append(live, t)
		}
	}
	if len(live) == 1 {
		return live[0]
	}

	out := newTicket()
	go func() {
		var errs []error
		for _, t := range live {
			<-t.done
			if t.err != nil {
				errs = append(errs, t.err)
			}
		}
		out.resolve(errors.Join(errs...))
	}()
	return out
}

// Confirmed returns an already resolved ticket with no error.
func Confirmed() *Ticket { return resolvedTicket(nil) }
