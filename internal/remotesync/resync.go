package remotesync

import (
	"context"
	"errors"

	"github.com/egabank/ega/internal/model"
	"go.uber.org/zap"
)

type Report struct {
	Deletes      int
	Clients      int
	Accounts     int
	Transactions int
	Failed       int
}

func (r Report) Total() int {
	return r.Deletes + r.Clients + r.Accounts + r.Transactions
}

// Resync replays pending tombstones, then pushes every unconfirmed entity
// in dependency order: clients, accounts, transactions. It waits for all of
// them and returns a joined error of the failures.
func (p *Policy) Resync(ctx context.Context) (Report, error) {
	if p.remote == nil {
		return Report{}, ErrRemoteDisabled
	}

	var report Report
	var tickets []*Ticket

	for _, t := range p.store.Tombstones() {
		report.Deletes++
		tickets = append(tickets, p.enqueue("delete_"+string(t.Kind), func(ctx context.Context) error {
			return p.runDelete(ctx, t)
		}))
	}

	for _, c := range p.store.Clients.Filter(func(c model.Client) bool { return c.Pending }) {
		report.Clients++
		tickets = append(tickets, p.PushClient(c.ID))
	}
	for _, a := range p.store.Accounts.Filter(func(a model.Account) bool { return a.Pending }) {
		report.Accounts++
		tickets = append(tickets, p.PushAccount(a.ID))
	}

	var txIDs []string
	for _, tx := range p.store.Transactions.Filter(func(t model.Transaction) bool { return t.RemoteID == 0 }) {
		txIDs = append(txIDs, tx.ID)
	}
	if len(txIDs) > 0 {
		report.Transactions = len(txIDs)
		tickets = append(tickets, p.PushTransactions(txIDs...))
	}

	var errs []error
	for _, t := range tickets {
		if err := t.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return report, ctx.Err()
			}
			report.Failed++
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		p.logger.Warn("resync finished with failures",
			zap.Int("failed", report.Failed),
			zap.Int("total", report.Total()),
		)
	}
	return report, errors.Join(errs...)
}
