package service

import (
	"time"

	"github.com/egabank/ega/internal/model"
	"github.com/egabank/ega/internal/remotesync"
	"go.uber.org/zap"
)

// Repository is the entity store as seen by the services.
type Repository interface {
	Client(id string) (model.Client, error)
	Account(id string) (model.Account, error)
	AccountByNumber(number string) (model.Account, error)
	AccountsOf(clientID string) []model.Account
	TransactionsOf(accountNumber string) []model.Transaction

	AllClients() []model.Client
	AllAccounts() []model.Account
	AllTransactions() []model.Transaction

	SaveClient(c model.Client)
	SaveAccount(a model.Account)
	UpdateClient(id string, fn func(model.Client) (model.Client, bool)) (model.Client, bool)
	UpdateAccount(id string, fn func(model.Account) (model.Account, bool)) (model.Account, bool)
	RecordMovement(accountID string, fn func(cur model.Account) (model.Account, model.Transaction, error)) (model.Account, model.Transaction, error)

	RemoveClient(id string) (model.Client, bool)
	RemoveAccount(id string) (model.Account, bool)
	RemoveTransactionsOf(accountNumber string) []model.Transaction
}

// Syncer queues remote writes for local mutations.
type Syncer interface {
	PushClient(id string) *remotesync.Ticket
	PushAccount(id string) *remotesync.Ticket
	PushTransactions(ids ...string) *remotesync.Ticket

	DeleteTransactions(acc model.Account) *remotesync.Ticket
	DeleteAccount(acc model.Account) *remotesync.Ticket
	DeleteClient(c model.Client) *remotesync.Ticket
}

type Config struct {
	Logger *zap.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

type Service struct {
	Client  *ClientService
	Account *AccountService
	Ledger  *LedgerService
	Cascade *Cascade
}

func NewService(repo Repository, syncer Syncer, cfg Config) *Service {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	locks := newAccountLocks()
	ledger := NewLedgerService(repo, syncer, locks, cfg)
	cascade := NewCascade(repo, syncer, locks, cfg)

	return &Service{
		Client:  NewClientService(repo, syncer, cascade, cfg),
		Account: NewAccountService(repo, syncer, ledger, cascade, cfg),
		Ledger:  ledger,
		Cascade: cascade,
	}
}
