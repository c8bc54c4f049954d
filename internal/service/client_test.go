package service

import (
	"errors"
	"testing"

	"github.com/egabank/ega/internal/model"
	"github.com/egabank/ega/internal/store"
)

func TestCreateClientNormalizes(t *testing.T) {
	f := newFixture(t)

	c := f.client
	if c.LastName != "DIALLO" || c.Email != "awa@example.com" {
		t.Errorf("not normalized: %+v", c)
	}
	if !c.Pending || c.Version != 1 {
		t.Errorf("sync state = %+v", c.Sync)
	}
	if calls := f.syncer.Calls(); len(calls) == 0 || calls[0] != "push_client:"+c.ID {
		t.Errorf("calls = %v", calls)
	}
}

func TestCreateClientRejectsInvalid(t *testing.T) {
	st := store.New(nil, nil)
	svc := NewService(st, &recordingSyncer{}, Config{})

	in := testClient()
	in.LastName = "x"
	if _, _, err := svc.Client.Create(in); !errors.Is(err, model.ErrInvalidClient) {
		t.Fatalf("expected ErrInvalidClient, got %v", err)
	}
	if st.Clients.Len() != 0 {
		t.Error("invalid client was stored")
	}
}

func TestUpdateClientKeepsIdentity(t *testing.T) {
	f := newFixture(t)

	in := testClient()
	in.Address = "kara"
	updated, _, err := f.svc.Client.Update(f.client.ID, in)
	if err != nil {
		t.Fatal(err)
	}
	if updated.ID != f.client.ID || updated.Address != "KARA" || updated.Version != 2 {
		t.Errorf("updated = %+v", updated)
	}

	if _, _, err := f.svc.Client.Update("clt-missing", in); !errors.Is(err, model.ErrClientNotFound) {
		t.Errorf("got %v", err)
	}
}

func TestSearchAndResolve(t *testing.T) {
	f := newFixture(t)
	f.open(t, accA, 0)

	if got := f.svc.Client.Search("diall"); len(got) != 1 {
		t.Errorf("search = %d results", len(got))
	}
	if got := f.svc.Client.Search("nobody"); len(got) != 0 {
		t.Errorf("search = %d results", len(got))
	}

	c, err := f.svc.Client.Resolve(accA)
	if err != nil || c.ID != f.client.ID {
		t.Errorf("resolve by account number: %+v %v", c, err)
	}
}
