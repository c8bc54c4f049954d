package app

import (
	"context"
	"fmt"
	"time"

	"github.com/egabank/ega/internal/auth"
	"github.com/egabank/ega/internal/model"
	"github.com/egabank/ega/internal/remotesync"
)

// Env is what commands run against. The root command fills it in before
// any subcommand runs.
type Env struct {
	*App
	Session auth.Session
}

func (e *Env) Currency() string { return e.Config.Defaults.Currency }

// Holder returns the display name of a client, or its id when unknown.
func (e *Env) Holder(clientID string) string {
	c, err := e.Store.Client(clientID)
	if err != nil {
		return clientID
	}
	return c.FullName()
}

// AwaitSync waits for the remote write behind t, bounded by the remote
// timeout. It is nil in local-only mode.
func (e *Env) AwaitSync(ctx context.Context, t *remotesync.Ticket) error {
	if t == nil || !e.Sync.Enabled() {
		return nil
	}
	wait := e.Config.Remote.Timeout
	if wait <= 0 {
		wait = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	if err := t.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: still queued after %s", model.ErrRemoteUnavailable, wait)
		}
		return err
	}
	return nil
}
