package service

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/egabank/ega/internal/model"
	"github.com/egabank/ega/internal/remotesync"
	"github.com/egabank/ega/internal/validation"
	"go.uber.org/zap"
)

type ClientService struct {
	repo    Repository
	sync    Syncer
	cascade *Cascade
	logger  *zap.Logger
	now     func() time.Time
}

func NewClientService(repo Repository, syncer Syncer, cascade *Cascade, cfg Config) *ClientService {
	return &ClientService{
		repo:    repo,
		sync:    syncer,
		cascade: cascade,
		logger:  cfg.Logger.With(zap.String("component", "clients")),
		now:     cfg.Now,
	}
}

func (cs *ClientService) Create(in model.Client) (model.Client, *remotesync.Ticket, error) {
	in.Normalize()
	if err := validation.ValidateClient(in, cs.now()); err != nil {
		return model.Client{}, nil, err
	}

	in.ID = model.NewID(model.PrefixClient)
	in.Sync = model.Sync{}
	in.Touch()

	cs.repo.SaveClient(in)
	cs.logger.Info("client created", zap.String("client", in.ID))
	return in, cs.sync.PushClient(in.ID), nil
}

// Update replaces the identity fields of an existing client. The id and
// sync state are kept from the stored client.
func (cs *ClientService) Update(id string, in model.Client) (model.Client, *remotesync.Ticket, error) {
	if _, err := cs.repo.Client(id); err != nil {
		return model.Client{}, nil, err
	}

	in.Normalize()
	if err := validation.ValidateClient(in, cs.now()); err != nil {
		return model.Client{}, nil, err
	}

	updated, ok := cs.repo.UpdateClient(id, func(cur model.Client) (model.Client, bool) {
		in.ID = cur.ID
		in.Sync = cur.Sync
		in.Touch()
		return in, true
	})
	if !ok {
		return model.Client{}, nil, fmt.Errorf("client %s: %w", id, model.ErrClientNotFound)
	}
	return updated, cs.sync.PushClient(updated.ID), nil
}

func (cs *ClientService) Get(id string) (model.Client, error) {
	return cs.repo.Client(id)
}

// List returns clients ordered by last then first name.
func (cs *ClientService) List() []model.Client {
	clients := cs.repo.AllClients()
	slices.SortStableFunc(clients, func(a, b model.Client) int {
		if c := strings.Compare(a.LastName, b.LastName); c != 0 {
			return c
		}
		return strings.Compare(a.FirstName, b.FirstName)
	})
	return clients
}

func (cs *ClientService) Search(term string) []model.Client {
	var out []model.Client
	for _, c := range cs.List() {
		if c.Matches(term) {
			out = append(out, c)
		}
	}
	return out
}

// Resolve finds a client by local id, or by account number of one of its
// accounts.
func (cs *ClientService) Resolve(ref string) (model.Client, error) {
	ref = strings.TrimSpace(ref)
	if c, err := cs.repo.Client(ref); err == nil {
		return c, nil
	}
	if acc, err := cs.repo.AccountByNumber(ref); err == nil {
		return cs.repo.Client(acc.ClientID)
	}
	return model.Client{}, fmt.Errorf("%q: %w", ref, model.ErrClientNotFound)
}

func (cs *ClientService) Delete(id string) (DeleteReport, error) {
	return cs.cascade.DeleteClient(id)
}
