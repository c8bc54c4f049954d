package remotesync

import (
	"context"
	"errors"
	"fmt"

	"github.com/egabank/ega/internal/model"
	"github.com/egabank/ega/internal/remote"
	"go.uber.org/zap"
)

// PushClient queues a create (no remote id yet) or an update of the client.
func (p *Policy) PushClient(id string) *Ticket {
	return p.enqueue("client", func(ctx context.Context) error {
		return p.pushClient(ctx, id)
	})
}

func (p *Policy) pushClient(ctx context.Context, id string) error {
	c, err := p.store.Client(id)
	if err != nil {
		return nil
	}
	if !c.Pending {
		return nil
	}

	var got model.Client
	created := c.RemoteID == 0
	if created {
		got, err = p.remote.CreateClient(ctx, c)
	} else {
		got, err = p.remote.UpdateClient(ctx, c)
		if errors.Is(err, remote.ErrNotFound) {
			created = true
			c.RemoteID = 0
			got, err = p.remote.CreateClient(ctx, c)
		}
	}
	if err != nil {
		return err
	}
	if got.RemoteID == 0 {
		return fmt.Errorf("%w: create client returned no id", model.ErrRemoteUnavailable)
	}

	if !p.reconcileClient(id, c.Version, got) && created {
		p.dropOrphan(ctx, "client", got.RemoteID, p.remote.DeleteClient)
	}
	return nil
}

// reconcileClient always records the server id; remote fields replace
// local ones and Pending clears only when no newer local edit exists.
// It reports false when the client was deleted meanwhile.
func (p *Policy) reconcileClient(id string, version int64, got model.Client) bool {
	if _, err := p.store.Client(id); err != nil {
		return false
	}

	p.store.UpdateClient(id, func(cur model.Client) (model.Client, bool) {
		changed := cur.RemoteID != got.RemoteID
		cur.RemoteID = got.RemoteID
		if cur.Version != version {
			return cur, changed
		}
		if got.LastName != "" {
			got.ID = cur.ID
			got.Sync = cur.Sync
			cur = got
		}
		cur.Pending = false
		return cur, true
	})
	return true
}

// PushAccount queues a create or an update of the account.
func (p *Policy) PushAccount(id string) *Ticket {
	return p.enqueue("account", func(ctx context.Context) error {
		return p.pushAccount(ctx, id)
	})
}

func (p *Policy) pushAccount(ctx context.Context, id string) error {
	a, err := p.store.Account(id)
	if err != nil || !a.Pending {
		return nil
	}

	owner, err := p.store.Client(a.ClientID)
	if err != nil || owner.RemoteID == 0 {
		return ErrParentNotSynced
	}

	var got model.Account
	created := a.RemoteID == 0
	if created {
		got, err = p.remote.CreateAccount(ctx, a, owner.RemoteID)
	} else {
		got, err = p.remote.UpdateAccount(ctx, a, owner.RemoteID)
		if errors.Is(err, remote.ErrNotFound) {
			created = true
			a.RemoteID = 0
			got, err = p.remote.CreateAccount(ctx, a, owner.RemoteID)
		}
	}
	if err != nil {
		return err
	}
	if got.RemoteID == 0 {
		return fmt.Errorf("%w: create account returned no id", model.ErrRemoteUnavailable)
	}

	if !p.reconcileAccount(id, a.Version, got) && created {
		p.dropOrphan(ctx, "account", got.RemoteID, p.remote.DeleteAccount)
	}
	return nil
}

// reconcileAccount adopts the server id and descriptive fields. The balance
// is never taken from the remote: it only changes through the ledger.
func (p *Policy) reconcileAccount(id string, version int64, got model.Account) bool {
	if _, err := p.store.Account(id); err != nil {
		return false
	}

	p.store.UpdateAccount(id, func(cur model.Account) (model.Account, bool) {
		changed := cur.RemoteID != got.RemoteID
		cur.RemoteID = got.RemoteID
		if cur.Version != version {
			return cur, changed
		}
		if got.Number != "" && got.Number != cur.Number {
			p.logger.Warn("remote changed account number, keeping local",
				zap.String("account", cur.Number),
				zap.String("remote", got.Number),
			)
		}
		if got.Type != "" {
			cur.Type = got.Type
		}
		if got.Number != "" && got.Balance != cur.Balance {
			p.logger.Warn("remote balance differs from ledger",
				zap.String("account", cur.Number),
				zap.Int64("local", cur.Balance),
				zap.Int64("remote", got.Balance),
			)
		}
		cur.Pending = false
		return cur, true
	})
	return true
}

// PushTransactions queues the creation of transactions in the given order.
// Transactions are immutable, so an already confirmed one is skipped.
func (p *Policy) PushTransactions(ids ...string) *Ticket {
	ids = append([]string(nil), ids...)
	return p.enqueue("transaction", func(ctx context.Context) error {
		var errs []error
		for _, id := range ids {
			if err := p.pushTransaction(ctx, id); err != nil {
				errs = append(errs, fmt.Errorf("transaction %s: %w", id, err))
			}
		}
		return errors.Join(errs...)
	})
}

func (p *Policy) pushTransaction(ctx context.Context, id string) error {
	tx, ok := p.store.Transactions.Get(id)
	if !ok || tx.RemoteID != 0 {
		return nil
	}

	acc, err := p.store.AccountByNumber(tx.AccountNumber)
	if err != nil || acc.RemoteID == 0 {
		return ErrParentNotSynced
	}

	got, err := p.remote.CreateTransaction(ctx, tx, acc.RemoteID)
	if err != nil {
		return err
	}
	if got.RemoteID == 0 {
		return fmt.Errorf("%w: create transaction returned no id", model.ErrRemoteUnavailable)
	}

	p.store.UpdateTransaction(id, func(cur model.Transaction) (model.Transaction, bool) {
		cur.RemoteID = got.RemoteID
		cur.Pending = false
		return cur, true
	})
	return nil
}

// dropOrphan deletes a remote entity created for a local one that was
// deleted while the create was in flight.
func (p *Policy) dropOrphan(ctx context.Context, kind string, remoteID int64, del func(context.Context, int64) error) {
	if err := del(ctx, remoteID); err != nil && !errors.Is(err, remote.ErrNotFound) {
		p.logger.Warn("failed to delete orphaned remote entity",
			zap.String("kind", kind),
			zap.Int64("remote_id", remoteID),
			zap.Error(err),
		)
	}
}
