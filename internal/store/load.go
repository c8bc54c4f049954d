package store

import (
	"context"
	"fmt"

	"github.com/egabank/ega/internal/constants"
	"github.com/egabank/ega/internal/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Source is the remote source of truth. Items it returns carry RemoteID and
// a local key derived from it with model.RemoteKey.
type Source interface {
	Clients(ctx context.Context) ([]model.Client, error)
	Accounts(ctx context.Context) ([]model.Account, error)
	Transactions(ctx context.Context) ([]model.Transaction, error)
}

type Origin string

const (
	OriginRemote Origin = "remote"
	OriginCache  Origin = "cache"
	OriginEmpty  Origin = "empty"
)

type LoadResult struct {
	Origin       Origin
	Clients      int
	Accounts     int
	Transactions int
	// RemoteErr is the remote failure that caused a fallback, if any.
	RemoteErr error
}

type snapshot struct {
	clients    []model.Client
	accounts   []model.Account
	txs        []model.Transaction
	tombstones []Tombstone
}

// Load seeds the store. The remote collections are fetched in parallel; if
// any fetch fails the last cached snapshot is used instead. A nil src is
// treated as a remote that is always unavailable. Only a cache read failure
// after a remote failure is returned as an error.
func (s *Store) Load(ctx context.Context, src Source) (LoadResult, error) {
	cached, cacheErr := s.readCache()
	if cacheErr != nil {
		s.logger.Warn("failed to read local snapshot", zap.Error(cacheErr))
	}

	remote, remoteErr := fetchRemote(ctx, src)
	if remoteErr == nil {
		merged := merge(remote, cached)
		s.ReplaceAll(merged.clients, merged.accounts, merged.txs, merged.tombstones)
		return s.result(OriginRemote, nil), nil
	}

	s.logger.Warn("remote load failed, falling back to local snapshot", zap.Error(remoteErr))
	if cacheErr != nil {
		return LoadResult{Origin: OriginEmpty, RemoteErr: remoteErr}, fmt.Errorf("failed to load from remote or cache: %w", cacheErr)
	}

	s.Clients.ReplaceAll(cached.clients)
	s.Accounts.ReplaceAll(cached.accounts)
	s.Transactions.ReplaceAll(cached.txs)
	s.tombMu.Lock()
	s.tombstones = cached.tombstones
	s.tombMu.Unlock()

	origin := OriginCache
	if len(cached.clients)+len(cached.accounts)+len(cached.txs) == 0 {
		origin = OriginEmpty
	}
	return s.result(origin, remoteErr), nil
}

func (s *Store) result(origin Origin, remoteErr error) LoadResult {
	return LoadResult{
		Origin:       origin,
		Clients:      s.Clients.Len(),
		Accounts:     s.Accounts.Len(),
		Transactions: s.Transactions.Len(),
		RemoteErr:    remoteErr,
	}
}

func fetchRemote(ctx context.Context, src Source) (snapshot, error) {
	if src == nil {
		return snapshot{}, model.ErrRemoteUnavailable
	}

	var snap snapshot
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap.clients, err = src.Clients(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.accounts, err = src.Accounts(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.txs, err = src.Transactions(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return snapshot{}, err
	}
	return snap, nil
}

func (s *Store) readCache() (snapshot, error) {
	var snap snapshot
	if s.cache == nil {
		return snap, nil
	}

	reads := []struct {
		key string
		dst any
	}{
		{constants.CacheKeyClients, &snap.clients},
		{constants.CacheKeyAccounts, &snap.accounts},
		{constants.CacheKeyTransactions, &snap.txs},
		{constants.CacheKeyTombstones, &snap.tombstones},
	}
	for _, r := range reads {
		if _, err := s.cache.Load(r.key, r.dst); err != nil {
			return snapshot{}, err
		}
	}
	return snap, nil
}

// merge folds the cached snapshot into a fresh remote one: remote items keep
// the local key they were cached under, unconfirmed local items win over
// their remote version, and items deleted locally stay deleted.
func merge(remote, cached snapshot) snapshot {
	clientAlias := aliases(cached.clients, model.PrefixClient, func(c model.Client) (string, int64) { return c.ID, c.RemoteID })
	accountAlias := aliases(cached.accounts, model.PrefixAccount, func(a model.Account) (string, int64) { return a.ID, a.RemoteID })
	txAlias := aliases(cached.txs, model.PrefixTransaction, func(t model.Transaction) (string, int64) { return t.ID, t.RemoteID })

	dead := make(map[Kind]map[int64]bool)
	deadNumbers := make(map[string]bool)
	for _, t := range cached.tombstones {
		if dead[t.Kind] == nil {
			dead[t.Kind] = make(map[int64]bool)
		}
		dead[t.Kind][t.RemoteID] = true
		if t.AccountNumber != "" {
			deadNumbers[t.AccountNumber] = true
		}
	}

	var out snapshot
	out.tombstones = cached.tombstones

	var clients []model.Client
	for _, c := range remote.clients {
		if dead[KindClient][c.RemoteID] {
			continue
		}
		c.ID = resolve(clientAlias, c.ID)
		clients = append(clients, c)
	}
	out.clients = overlay(clients, cached.clients, func(c model.Client) bool { return c.Pending })

	var accounts []model.Account
	for _, a := range remote.accounts {
		if dead[KindAccount][a.RemoteID] || deadNumbers[a.Number] {
			continue
		}
		a.ID = resolve(accountAlias, a.ID)
		a.ClientID = resolve(clientAlias, a.ClientID)
		accounts = append(accounts, a)
	}
	out.accounts = overlay(accounts, cached.accounts, func(a model.Account) bool { return a.Pending })

	var txs []model.Transaction
	for _, t := range remote.txs {
		if deadNumbers[t.AccountNumber] {
			continue
		}
		t.ID = resolve(txAlias, t.ID)
		txs = append(txs, t)
	}
	out.txs = overlay(txs, cached.txs, func(t model.Transaction) bool { return t.Pending })

	return out
}

func aliases[T any](items []T, prefix string, ids func(T) (string, int64)) map[string]string {
	m := make(map[string]string)
	for _, it := range items {
		id, rid := ids(it)
		if rid != 0 {
			m[model.RemoteKey(prefix, rid)] = id
		}
	}
	return m
}

func resolve(alias map[string]string, key string) string {
	if local, ok := alias[key]; ok {
		return local
	}
	return key
}

// overlay replaces base items by their pending cached version, appending
// pending items the remote has never seen.
func overlay[T Keyed](base, cached []T, pending func(T) bool) []T {
	index := make(map[string]int, len(base))
	for i, it := range base {
		index[it.Key()] = i
	}
	for _, it := range cached {
		if !pending(it) {
			continue
		}
		if i, ok := index[it.Key()]; ok {
			base[i] = it
			continue
		}
		index[it.Key()] = len(base)
		base = append(base, it)
	}
	return base
}
