package service

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/egabank/ega/internal/constants"
	"github.com/egabank/ega/internal/model"
	"github.com/egabank/ega/internal/remotesync"
	"github.com/egabank/ega/internal/validation"
	"go.uber.org/zap"
)

type OpenAccountInput struct {
	ClientID string
	Type     model.AccountType
	// Number is generated when empty.
	Number         string
	InitialBalance int64
	// CreatedAt defaults to now.
	CreatedAt time.Time
}

// AccountUpdate changes the descriptive fields of an account. The balance
// is not among them: it only moves through the ledger.
type AccountUpdate struct {
	Type     *model.AccountType
	ClientID *string
}

type Stats struct {
	Clients      int
	Accounts     int
	Transactions int
	TotalBalance int64
	ByType       map[model.AccountType]int
	Pending      int
}

type AccountService struct {
	repo    Repository
	sync    Syncer
	ledger  *LedgerService
	cascade *Cascade
	logger  *zap.Logger
	now     func() time.Time
}

func NewAccountService(repo Repository, syncer Syncer, ledger *LedgerService, cascade *Cascade, cfg Config) *AccountService {
	return &AccountService{
		repo:    repo,
		sync:    syncer,
		ledger:  ledger,
		cascade: cascade,
		logger:  cfg.Logger.With(zap.String("component", "accounts")),
		now:     cfg.Now,
	}
}

// Open creates an account for an existing client. A positive initial
// balance is recorded as an opening deposit so the ledger explains it.
func (as *AccountService) Open(in OpenAccountInput) (model.Account, *remotesync.Ticket, error) {
	if _, err := as.repo.Client(in.ClientID); err != nil {
		return model.Account{}, nil, err
	}
	accType, err := model.ParseAccountType(string(in.Type))
	if err != nil {
		return model.Account{}, nil, err
	}
	if in.InitialBalance < 0 {
		return model.Account{}, nil, model.ErrInvalidAmount
	}

	number := strings.TrimSpace(in.Number)
	if number == "" {
		number, err = as.freeNumber()
		if err != nil {
			return model.Account{}, nil, err
		}
	} else {
		if err := validation.ValidateAccountNumber(number); err != nil {
			return model.Account{}, nil, err
		}
		if _, err := as.repo.AccountByNumber(number); err == nil {
			return model.Account{}, nil, fmt.Errorf("account number %s already exists", number)
		}
	}

	createdAt := in.CreatedAt
	if createdAt.IsZero() {
		createdAt = as.now()
	}

	acc := model.Account{
		ID:        model.NewID(model.PrefixAccount),
		Number:    number,
		Type:      accType,
		CreatedAt: createdAt,
		ClientID:  in.ClientID,
	}
	acc.Touch()
	as.repo.SaveAccount(acc)
	ticket := as.sync.PushAccount(acc.ID)

	as.logger.Info("account opened",
		zap.String("account", number),
		zap.String("client", in.ClientID),
	)

	if in.InitialBalance == 0 {
		return acc, ticket, nil
	}

	r, err := as.ledger.Deposit(number, in.InitialBalance, "", constants.OpeningBalanceMemo)
	if err != nil {
		return acc, ticket, fmt.Errorf("account %s opened but initial deposit failed: %w", number, err)
	}
	if latest, err := as.repo.Account(acc.ID); err == nil {
		acc = latest
	}
	return acc, remotesync.All(ticket, r.Sync), nil
}

func (as *AccountService) freeNumber() (string, error) {
	for range 20 {
		n := model.NewAccountNumber()
		if _, err := as.repo.AccountByNumber(n); err != nil {
			return n, nil
		}
	}
	return "", fmt.Errorf("could not allocate a free account number")
}

// Update changes the type or owner of an account. Only those fields are
// written; the balance and sync state are taken from the stored account.
func (as *AccountService) Update(id string, upd AccountUpdate) (model.Account, *remotesync.Ticket, error) {
	acc, err := as.repo.Account(id)
	if err != nil {
		return model.Account{}, nil, err
	}

	accType := acc.Type
	if upd.Type != nil {
		if accType, err = model.ParseAccountType(string(*upd.Type)); err != nil {
			return model.Account{}, nil, err
		}
	}
	owner := acc.ClientID
	if upd.ClientID != nil && *upd.ClientID != acc.ClientID {
		if _, err := as.repo.Client(*upd.ClientID); err != nil {
			return model.Account{}, nil, err
		}
		owner = *upd.ClientID
	}

	unlock := as.ledger.locks.lock(acc.Number)
	defer unlock()

	updated, changed := as.repo.UpdateAccount(id, func(cur model.Account) (model.Account, bool) {
		if cur.Type == accType && cur.ClientID == owner {
			return cur, false
		}
		cur.Type = accType
		cur.ClientID = owner
		cur.Touch()
		return cur, true
	})
	if !changed {
		if updated.ID == "" {
			return model.Account{}, nil, fmt.Errorf("account %s: %w", acc.Number, model.ErrAccountNotFound)
		}
		return updated, remotesync.Confirmed(), nil
	}
	return updated, as.sync.PushAccount(updated.ID), nil
}

func (as *AccountService) Get(id string) (model.Account, error) {
	return as.repo.Account(id)
}

func (as *AccountService) ByNumber(number string) (model.Account, error) {
	return as.repo.AccountByNumber(number)
}

// Resolve accepts an account number or a local account id.
func (as *AccountService) Resolve(ref string) (model.Account, error) {
	ref = strings.TrimSpace(ref)
	if acc, err := as.repo.AccountByNumber(ref); err == nil {
		return acc, nil
	}
	return as.repo.Account(ref)
}

// List returns accounts ordered by creation date.
func (as *AccountService) List() []model.Account {
	accounts := as.repo.AllAccounts()
	slices.SortStableFunc(accounts, func(a, b model.Account) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return accounts
}

func (as *AccountService) ListByClient(clientID string) []model.Account {
	return as.repo.AccountsOf(clientID)
}

func (as *AccountService) Delete(id string) (DeleteReport, error) {
	return as.cascade.DeleteAccount(id)
}

func (as *AccountService) Stats() Stats {
	st := Stats{ByType: make(map[model.AccountType]int)}

	clients := as.repo.AllClients()
	st.Clients = len(clients)
	for _, c := range clients {
		if c.Pending {
			st.Pending++
		}
	}

	for _, a := range as.repo.AllAccounts() {
		st.Accounts++
		st.TotalBalance += a.Balance
		st.ByType[a.Type]++
		if a.Pending {
			st.Pending++
		}
	}

	for _, tx := range as.repo.AllTransactions() {
		st.Transactions++
		if tx.Pending {
			st.Pending++
		}
	}
	return st
}
