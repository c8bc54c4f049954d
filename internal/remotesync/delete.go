package remotesync

import (
	"context"
	"errors"

	"github.com/egabank/ega/internal/model"
	"github.com/egabank/ega/internal/remote"
	"github.com/egabank/ega/internal/store"
)

// Deletes are recorded as tombstones before they are queued, so a later
// remote load does not bring the entity back while the delete is pending.
// Failures are logged by the worker and not retried; Resync replays the
// remaining tombstones.

func (p *Policy) DeleteTransactions(acc model.Account) *Ticket {
	return p.deleteRemote(store.Tombstone{
		Kind:          store.KindTransactions,
		Key:           acc.ID,
		RemoteID:      acc.RemoteID,
		AccountNumber: acc.Number,
	})
}

func (p *Policy) DeleteAccount(acc model.Account) *Ticket {
	return p.deleteRemote(store.Tombstone{
		Kind:          store.KindAccount,
		Key:           acc.ID,
		RemoteID:      acc.RemoteID,
		AccountNumber: acc.Number,
	})
}

func (p *Policy) DeleteClient(c model.Client) *Ticket {
	return p.deleteRemote(store.Tombstone{
		Kind:     store.KindClient,
		Key:      c.ID,
		RemoteID: c.RemoteID,
	})
}

func (p *Policy) deleteRemote(t store.Tombstone) *Ticket {
	if t.RemoteID == 0 {
		return resolvedTicket(nil)
	}
	if p.remote == nil {
		return resolvedTicket(ErrRemoteDisabled)
	}

	p.store.AddTombstone(t)
	return p.enqueue("delete_"+string(t.Kind), func(ctx context.Context) error {
		return p.runDelete(ctx, t)
	})
}

func (p *Policy) runDelete(ctx context.Context, t store.Tombstone) error {
	var err error
	switch t.Kind {
	case store.KindTransactions:
		err = p.remote.DeleteAccountTransactions(ctx, t.RemoteID)
	case store.KindAccount:
		err = p.remote.DeleteAccount(ctx, t.RemoteID)
	case store.KindClient:
		err = p.remote.DeleteClient(ctx, t.RemoteID)
	}

	if err != nil && !errors.Is(err, remote.ErrNotFound) {
		return err
	}
	p.store.ClearTombstone(t.Kind, t.RemoteID)
	return nil
}
