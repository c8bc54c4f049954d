package service

import (
	"github.com/egabank/ega/internal/model"
	"github.com/egabank/ega/internal/remotesync"
	"go.uber.org/zap"
)

type DeleteReport struct {
	Clients      int
	Accounts     int
	Transactions int
	// Sync resolves when the remote deletes have been attempted. Remote
	// failures are logged and never undo the local delete.
	Sync *remotesync.Ticket
}

// Cascade deletes clients and accounts together with everything that only
// exists through them, always transactions first, then accounts, then the
// client.
type Cascade struct {
	repo   Repository
	sync   Syncer
	locks  *accountLocks
	logger *zap.Logger
}

func NewCascade(repo Repository, syncer Syncer, locks *accountLocks, cfg Config) *Cascade {
	return &Cascade{
		repo:   repo,
		sync:   syncer,
		locks:  locks,
		logger: cfg.Logger.With(zap.String("component", "cascade")),
	}
}

func (c *Cascade) DeleteAccount(id string) (DeleteReport, error) {
	acc, err := c.repo.Account(id)
	if err != nil {
		return DeleteReport{}, err
	}

	var report DeleteReport
	tickets := c.deleteAccount(acc, &report)
	report.Sync = remotesync.All(tickets...)
	return report, nil
}

func (c *Cascade) DeleteClient(id string) (DeleteReport, error) {
	client, err := c.repo.Client(id)
	if err != nil {
		return DeleteReport{}, err
	}

	var report DeleteReport
	var tickets []*remotesync.Ticket
	for _, acc := range c.repo.AccountsOf(id) {
		tickets = append(tickets, c.deleteAccount(acc, &report)...)
	}

	if _, ok := c.repo.RemoveClient(id); ok {
		report.Clients++
	}
	tickets = append(tickets, c.sync.DeleteClient(client))

	report.Sync = remotesync.All(tickets...)
	c.logger.Info("client deleted",
		zap.String("client", id),
		zap.Int("accounts", report.Accounts),
		zap.Int("transactions", report.Transactions),
	)
	return report, nil
}

// deleteAccount holds the account lock so no ledger operation can record
// against the account while it is being removed.
func (c *Cascade) deleteAccount(acc model.Account, report *DeleteReport) []*remotesync.Ticket {
	unlock := c.locks.lock(acc.Number)
	defer unlock()

	removed := c.repo.RemoveTransactionsOf(acc.Number)
	report.Transactions += len(removed)
	tickets := []*remotesync.Ticket{c.sync.DeleteTransactions(acc)}

	if _, ok := c.repo.RemoveAccount(acc.ID); ok {
		report.Accounts++
	}
	tickets = append(tickets, c.sync.DeleteAccount(acc))

	c.logger.Info("account deleted",
		zap.String("account", acc.Number),
		zap.Int("transactions", len(removed)),
	)
	return tickets
}
