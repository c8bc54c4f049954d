package store

import (
	"fmt"
	"strings"
	"sync"

	"github.com/egabank/ega/internal/constants"
	"github.com/egabank/ega/internal/model"
	"go.uber.org/zap"
)

// Cache is the local durable snapshot store.
type Cache interface {
	SaveMany(entries map[string]any) error
	Load(key string, dst any) (bool, error)
}

type Kind string

const (
	KindClient       Kind = "client"
	KindAccount      Kind = "account"
	KindTransactions Kind = "transactions"
)

// Tombstone records a local delete the remote has not acknowledged yet.
// For KindTransactions, RemoteID is the remote id of the owning account.
type Tombstone struct {
	Kind          Kind   `json:"kind"`
	Key           string `json:"key"`
	RemoteID      int64  `json:"remoteId"`
	AccountNumber string `json:"numeroCompte,omitempty"`
}

type Store struct {
	Clients      *Collection[model.Client]
	Accounts     *Collection[model.Account]
	Transactions *Collection[model.Transaction]

	cache  Cache
	logger *zap.Logger

	persistMu sync.Mutex

	tombMu     sync.Mutex
	tombstones []Tombstone
}

func New(cache Cache, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		Clients:      NewCollection[model.Client](),
		Accounts:     NewCollection[model.Account](),
		Transactions: NewCollection[model.Transaction](),
		cache:        cache,
		logger:       logger,
	}
}

func (s *Store) Client(id string) (model.Client, error) {
	c, ok := s.Clients.Get(id)
	if !ok {
		return model.Client{}, model.ErrClientNotFound
	}
	return c, nil
}

func (s *Store) Account(id string) (model.Account, error) {
	a, ok := s.Accounts.Get(id)
	if !ok {
		return model.Account{}, model.ErrAccountNotFound
	}
	return a, nil
}

func (s *Store) AccountByNumber(number string) (model.Account, error) {
	number = strings.TrimSpace(number)
	a, ok := s.Accounts.Find(func(a model.Account) bool { return a.Number == number })
	if !ok {
		return model.Account{}, model.ErrAccountNotFound
	}
	return a, nil
}

func (s *Store) AccountsOf(clientID string) []model.Account {
	return s.Accounts.Filter(func(a model.Account) bool { return a.ClientID == clientID })
}

// TransactionsOf returns the ledger of an account in collection order.
func (s *Store) TransactionsOf(accountNumber string) []model.Transaction {
	return s.Transactions.Filter(func(tx model.Transaction) bool { return tx.BelongsTo(accountNumber) })
}

func (s *Store) SaveClient(c model.Client) {
	s.Clients.Put(c)
	s.persist(constants.CacheKeyClients)
}

func (s *Store) SaveAccount(a model.Account) {
	s.Accounts.Put(a)
	s.persist(constants.CacheKeyAccounts)
}

// RecordMovement changes one account and appends the transaction that
// explains the change. fn runs on the stored account while the accounts
// collection is write-locked, so a field another writer set in the meantime
// is never lost. fn must not call back into the store. An error from fn
// leaves everything untouched and is returned as is.
func (s *Store) RecordMovement(accountID string, fn func(cur model.Account) (model.Account, model.Transaction, error)) (model.Account, model.Transaction, error) {
	var (
		tx    model.Transaction
		fnErr error
	)
	acc, ok := s.Accounts.Update(accountID, func(cur model.Account) (model.Account, bool) {
		next, t, err := fn(cur)
		if err != nil {
			fnErr = err
			return cur, false
		}
		tx = t
		return next, true
	})
	if fnErr != nil {
		return model.Account{}, model.Transaction{}, fnErr
	}
	if !ok {
		return model.Account{}, model.Transaction{}, fmt.Errorf("account %s: %w", accountID, model.ErrAccountNotFound)
	}

	s.Transactions.Put(tx)
	s.persist(constants.CacheKeyAccounts, constants.CacheKeyTransactions)
	return acc, tx, nil
}

func (s *Store) AllClients() []model.Client { return s.Clients.All() }

func (s *Store) AllAccounts() []model.Account { return s.Accounts.All() }

func (s *Store) AllTransactions() []model.Transaction { return s.Transactions.All() }

func (s *Store) RemoveClient(id string) (model.Client, bool) {
	c, ok := s.Clients.Remove(id)
	if ok {
		s.persist(constants.CacheKeyClients)
	}
	return c, ok
}

func (s *Store) RemoveAccount(id string) (model.Account, bool) {
	a, ok := s.Accounts.Remove(id)
	if ok {
		s.persist(constants.CacheKeyAccounts)
	}
	return a, ok
}

// RemoveTransactionsOf deletes the transactions recorded against the
// account number. Records of other accounts that name it as counterparty
// belong to those accounts' ledgers and are kept.
func (s *Store) RemoveTransactionsOf(accountNumber string) []model.Transaction {
	removed := s.Transactions.RemoveWhere(func(tx model.Transaction) bool {
		return tx.AccountNumber == accountNumber
	})
	if len(removed) > 0 {
		s.persist(constants.CacheKeyTransactions)
	}
	return removed
}

// UpdateClient, UpdateAccount and UpdateTransaction apply fn atomically and
// persist when it reports a change.
func (s *Store) UpdateClient(id string, fn func(model.Client) (model.Client, bool)) (model.Client, bool) {
	c, changed := s.Clients.Update(id, fn)
	if changed {
		s.persist(constants.CacheKeyClients)
	}
	return c, changed
}

func (s *Store) UpdateAccount(id string, fn func(model.Account) (model.Account, bool)) (model.Account, bool) {
	a, changed := s.Accounts.Update(id, fn)
	if changed {
		s.persist(constants.CacheKeyAccounts)
	}
	return a, changed
}

func (s *Store) UpdateTransaction(id string, fn func(model.Transaction) (model.Transaction, bool)) (model.Transaction, bool) {
	tx, changed := s.Transactions.Update(id, fn)
	if changed {
		s.persist(constants.CacheKeyTransactions)
	}
	return tx, changed
}

func (s *Store) AddTombstone(t Tombstone) {
	if t.RemoteID == 0 {
		return
	}
	s.tombMu.Lock()
	for _, existing := range s.tombstones {
		if existing.Kind == t.Kind && existing.RemoteID == t.RemoteID {
			s.tombMu.Unlock()
			return
		}
	}
	s.tombstones = append(s.tombstones, t)
	s.tombMu.Unlock()

	s.persist(constants.CacheKeyTombstones)
}

func (s *Store) ClearTombstone(kind Kind, remoteID int64) {
	s.tombMu.Lock()
	n := len(s.tombstones)
	kept := s.tombstones[:0:0]
	for _, t := range s.tombstones {
		if t.Kind == kind && t.RemoteID == remoteID {
			continue
		}
		kept = append(kept, t)
	}
	s.tombstones = kept
	s.tombMu.Unlock()

	if len(kept) != n {
		s.persist(constants.CacheKeyTombstones)
	}
}

func (s *Store) Tombstones() []Tombstone {
	s.tombMu.Lock()
	defer s.tombMu.Unlock()
	out := make([]Tombstone, len(s.tombstones))
	copy(out, s.tombstones)
	return out
}

// ReplaceAll swaps all three collections and the tombstones, then persists
// everything.
func (s *Store) ReplaceAll(clients []model.Client, accounts []model.Account, txs []model.Transaction, tombs []Tombstone) {
	s.Clients.ReplaceAll(clients)
	s.Accounts.ReplaceAll(accounts)
	s.Transactions.ReplaceAll(txs)

	s.tombMu.Lock()
	s.tombstones = append([]Tombstone(nil), tombs...)
	s.tombMu.Unlock()

	s.persist(constants.CacheKeyClients, constants.CacheKeyAccounts, constants.CacheKeyTransactions, constants.CacheKeyTombstones)
}

// persist writes the current snapshot of each named collection. A cache
// failure is logged and never fails the in-memory mutation.
func (s *Store) persist(keys ...string) {
	if s.cache == nil {
		return
	}

	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	entries := make(map[string]any, len(keys))
	for _, key := range keys {
		switch key {
		case constants.CacheKeyClients:
			entries[key] = s.Clients.All()
		case constants.CacheKeyAccounts:
			entries[key] = s.Accounts.All()
		case constants.CacheKeyTransactions:
			entries[key] = s.Transactions.All()
		case constants.CacheKeyTombstones:
			entries[key] = s.Tombstones()
		}
	}

	if err := s.cache.SaveMany(entries); err != nil {
		s.logger.Warn("failed to persist local snapshot",
			zap.Strings("keys", keys),
			zap.Error(err),
		)
	}
}
