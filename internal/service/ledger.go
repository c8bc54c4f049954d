package service

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/egabank/ega/internal/constants"
	"github.com/egabank/ega/internal/model"
	"github.com/egabank/ega/internal/remotesync"
	"go.uber.org/zap"
)

// Receipt is the outcome of a ledger operation: the appended transactions,
// the accounts after the change, and the remote sync handle.
type Receipt struct {
	Transactions []model.Transaction
	Accounts     []model.Account
	Sync         *remotesync.Ticket
}

// Balance returns the post-operation balance of the account number.
func (r Receipt) Balance(number string) (int64, bool) {
	for i := len(r.Accounts) - 1; i >= 0; i-- {
		if r.Accounts[i].Number == number {
			return r.Accounts[i].Balance, true
		}
	}
	return 0, false
}

type LedgerService struct {
	repo   Repository
	sync   Syncer
	locks  *accountLocks
	logger *zap.Logger
	now    func() time.Time
}

func NewLedgerService(repo Repository, syncer Syncer, locks *accountLocks, cfg Config) *LedgerService {
	return &LedgerService{
		repo:   repo,
		sync:   syncer,
		locks:  locks,
		logger: cfg.Logger.With(zap.String("component", "ledger")),
		now:    cfg.Now,
	}
}

func validAmount(amount int64) error {
	if amount <= 0 {
		return model.ErrInvalidAmount
	}
	if amount > constants.MaxAmount {
		return fmt.Errorf("%w: exceeds %d", model.ErrInvalidAmount, constants.MaxAmount)
	}
	return nil
}

// leg describes one balance movement on one account.
type leg struct {
	number       string
	typ          model.TransactionType
	amount       int64
	counterparty string
	origin       string
	description  string
}

// apply records the movement against the stored account. The balance
// check and the new balance are computed on the account as it is at write
// time. Callers hold the account lock.
func (l *LedgerService) apply(lg leg) (model.Account, model.Transaction, error) {
	found, err := l.repo.AccountByNumber(lg.number)
	if err != nil {
		return model.Account{}, model.Transaction{}, fmt.Errorf("account %s: %w", lg.number, err)
	}

	var holder string
	if owner, err := l.repo.Client(found.ClientID); err == nil {
		holder = owner.FullName()
	}
	id, ts := model.NewID(model.PrefixTransaction), l.now()

	acc, tx, err := l.repo.RecordMovement(found.ID, func(cur model.Account) (model.Account, model.Transaction, error) {
		tx := model.Transaction{
			ID:                 id,
			Timestamp:          ts,
			Type:               lg.typ,
			Amount:             lg.amount,
			BalanceBefore:      cur.Balance,
			AccountNumber:      cur.Number,
			CounterpartyNumber: lg.counterparty,
			ClientName:         holder,
			FundsOrigin:        lg.origin,
			Description:        lg.description,
		}

		switch model.ResolveSign(tx, cur.Number) {
		case model.Credit:
			tx.BalanceAfter = cur.Balance + lg.amount
		case model.Debit:
			if lg.amount > cur.Balance {
				return cur, tx, model.ErrInsufficientFunds
			}
			tx.BalanceAfter = cur.Balance - lg.amount
		default:
			return cur, tx, fmt.Errorf("unsupported transaction type %q", lg.typ)
		}
		tx.Touch()

		cur.Balance = tx.BalanceAfter
		cur.Touch()
		return cur, tx, nil
	})
	if errors.Is(err, model.ErrAccountNotFound) {
		return model.Account{}, model.Transaction{}, fmt.Errorf("failed to record %s on %s: %w", lg.typ, lg.number, err)
	}
	if err != nil {
		return model.Account{}, model.Transaction{}, err
	}
	return acc, tx, nil
}

// push queues the account updates before the transactions so the remote
// knows the accounts when the transactions arrive.
func (l *LedgerService) push(r *Receipt) {
	var tickets []*remotesync.Ticket
	var seen []string
	for _, a := range r.Accounts {
		if slices.Contains(seen, a.ID) {
			continue
		}
		seen = append(seen, a.ID)
		tickets = append(tickets, l.sync.PushAccount(a.ID))
	}

	ids := make([]string, 0, len(r.Transactions))
	for _, tx := range r.Transactions {
		ids = append(ids, tx.ID)
	}
	if len(ids) > 0 {
		tickets = append(tickets, l.sync.PushTransactions(ids...))
	}
	r.Sync = remotesync.All(tickets...)
}

func (l *LedgerService) Deposit(number string, amount int64, origin, description string) (Receipt, error) {
	if err := validAmount(amount); err != nil {
		return Receipt{}, err
	}
	found, err := l.repo.AccountByNumber(number)
	if err != nil {
		return Receipt{}, err
	}
	number = found.Number

	unlock := l.locks.lock(number)
	defer unlock()

	acc, tx, err := l.apply(leg{
		number:      number,
		typ:         model.TxDeposit,
		amount:      amount,
		origin:      strings.TrimSpace(origin),
		description: strings.TrimSpace(description),
	})
	if err != nil {
		return Receipt{}, err
	}

	r := Receipt{Transactions: []model.Transaction{tx}, Accounts: []model.Account{acc}}
	l.push(&r)
	l.logger.Info("deposit", zap.String("account", number), zap.Int64("amount", amount))
	return r, nil
}

func (l *LedgerService) Withdraw(number string, amount int64, description string) (Receipt, error) {
	if err := validAmount(amount); err != nil {
		return Receipt{}, err
	}
	found, err := l.repo.AccountByNumber(number)
	if err != nil {
		return Receipt{}, err
	}
	number = found.Number

	unlock := l.locks.lock(number)
	defer unlock()

	acc, tx, err := l.apply(leg{
		number:      number,
		typ:         model.TxWithdrawal,
		amount:      amount,
		description: strings.TrimSpace(description),
	})
	if err != nil {
		return Receipt{}, err
	}

	r := Receipt{Transactions: []model.Transaction{tx}, Accounts: []model.Account{acc}}
	l.push(&r)
	l.logger.Info("withdrawal", zap.String("account", number), zap.Int64("amount", amount))
	return r, nil
}

// Transfer moves amount from one account to another as two records: a
// sent leg on the source and a received leg on the destination. If the
// destination leg fails after the source leg was recorded, a compensating
// deposit restores the source and ErrPartialTransfer is returned along with
// a receipt of everything that was recorded.
func (l *LedgerService) Transfer(from, to string, amount int64, description string) (Receipt, error) {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from == to {
		return Receipt{}, model.ErrSameAccount
	}
	if err := validAmount(amount); err != nil {
		return Receipt{}, err
	}

	unlock := l.locks.lock(from, to)
	defer unlock()

	src, err := l.repo.AccountByNumber(from)
	if err != nil {
		return Receipt{}, fmt.Errorf("source %s: %w", from, err)
	}
	if _, err := l.repo.AccountByNumber(to); err != nil {
		return Receipt{}, fmt.Errorf("destination %s: %w", to, err)
	}
	if amount > src.Balance {
		return Receipt{}, model.ErrInsufficientFunds
	}

	description = strings.TrimSpace(description)

	srcAcc, sent, err := l.apply(leg{
		number:       from,
		typ:          model.TxTransferSent,
		amount:       amount,
		counterparty: to,
		description:  description,
	})
	if err != nil {
		return Receipt{}, err
	}
	r := Receipt{Transactions: []model.Transaction{sent}, Accounts: []model.Account{srcAcc}}

	dstAcc, received, err := l.apply(leg{
		number:       to,
		typ:          model.TxTransferReceived,
		amount:       amount,
		counterparty: from,
		description:  description,
	})
	if err != nil {
		return l.compensate(r, from, to, amount, err)
	}

	r.Transactions = append(r.Transactions, received)
	r.Accounts = append(r.Accounts, dstAcc)
	l.push(&r)

	l.logger.Info("transfer",
		zap.String("from", from),
		zap.String("to", to),
		zap.Int64("amount", amount),
	)
	return r, nil
}

func (l *LedgerService) compensate(r Receipt, from, to string, amount int64, cause error) (Receipt, error) {
	l.logger.Error("transfer destination leg failed, compensating source",
		zap.String("from", from),
		zap.String("to", to),
		zap.Int64("amount", amount),
		zap.Error(cause),
	)

	acc, refund, err := l.apply(leg{
		number:       from,
		typ:          model.TxDeposit,
		amount:       amount,
		counterparty: to,
		description:  constants.CompensationMemo,
	})
	if err != nil {
		l.push(&r)
		l.logger.Error("compensating deposit failed",
			zap.String("account", from),
			zap.Int64("amount", amount),
			zap.Error(err),
		)
		return r, fmt.Errorf("%w: %v; compensation failed: %v", model.ErrPartialTransfer, cause, err)
	}

	r.Transactions = append(r.Transactions, refund)
	r.Accounts = append(r.Accounts, acc)
	l.push(&r)
	return r, fmt.Errorf("%w: %v", model.ErrPartialTransfer, cause)
}

// Correct sets an account balance to target by appending a deposit or
// withdrawal of the difference. A zero difference records nothing.
func (l *LedgerService) Correct(number string, target int64, reason string) (Receipt, error) {
	if target < 0 || target > constants.MaxAmount {
		return Receipt{}, model.ErrInvalidAmount
	}
	found, err := l.repo.AccountByNumber(number)
	if err != nil {
		return Receipt{}, err
	}
	number = found.Number

	unlock := l.locks.lock(number)
	defer unlock()

	acc, err := l.repo.AccountByNumber(number)
	if err != nil {
		return Receipt{}, err
	}

	diff := target - acc.Balance
	if diff == 0 {
		return Receipt{Accounts: []model.Account{acc}, Sync: remotesync.Confirmed()}, nil
	}

	description := strings.TrimSpace(reason)
	if description == "" {
		description = constants.CorrectionMemo
	}

	lg := leg{number: number, typ: model.TxDeposit, amount: diff, description: description}
	if diff < 0 {
		lg.typ, lg.amount = model.TxWithdrawal, -diff
	}

	acc, tx, err := l.apply(lg)
	if err != nil {
		return Receipt{}, err
	}

	r := Receipt{Transactions: []model.Transaction{tx}, Accounts: []model.Account{acc}}
	l.push(&r)
	l.logger.Warn("balance corrected",
		zap.String("account", number),
		zap.Int64("difference", diff),
		zap.String("reason", description),
	)
	return r, nil
}

// History returns the account's transactions, newest first.
func (l *LedgerService) History(number string, limit int) ([]model.Transaction, error) {
	number = strings.TrimSpace(number)
	if _, err := l.repo.AccountByNumber(number); err != nil {
		return nil, err
	}

	txs := l.repo.TransactionsOf(number)
	slices.Reverse(txs)
	slices.SortStableFunc(txs, func(a, b model.Transaction) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	if limit > 0 && len(txs) > limit {
		txs = txs[:limit]
	}
	return txs, nil
}

// Verify replays the account's transactions from the balance before the
// first one and reports whether they explain the current balance. An
// account without transactions verifies trivially.
func (l *LedgerService) Verify(number string) (int64, error) {
	number = strings.TrimSpace(number)
	acc, err := l.repo.AccountByNumber(number)
	if err != nil {
		return 0, err
	}

	txs := l.repo.TransactionsOf(number)
	slices.SortStableFunc(txs, func(a, b model.Transaction) int {
		return a.Timestamp.Compare(b.Timestamp)
	})

	if len(txs) == 0 {
		return acc.Balance, nil
	}

	var replayed int64
	if txs[0].AccountNumber == number {
		replayed = txs[0].BalanceBefore
	}
	for _, tx := range txs {
		replayed += model.SignedAmount(tx, number)
	}
	if replayed != acc.Balance {
		return replayed, fmt.Errorf("ledger of %s replays to %d, balance is %d", number, replayed, acc.Balance)
	}
	return replayed, nil
}
