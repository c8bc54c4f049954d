package remotesync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/egabank/ega/internal/model"
	"github.com/egabank/ega/internal/store"
)

type fakeRemote struct {
	mu     sync.Mutex
	down   bool
	nextID int64
	calls  []string
	// entered is signalled when a call starts; gate, when set, then blocks
	// the call until it receives a value.
	entered chan struct{}
	gate    chan struct{}
}

func newGatedRemote() *fakeRemote {
	return &fakeRemote{entered: make(chan struct{}, 8), gate: make(chan struct{})}
}

func (f *fakeRemote) call(name string) error {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	if f.down {
		return fmt.Errorf("%w: connection refused", model.ErrRemoteUnavailable)
	}
	return nil
}

func (f *fakeRemote) id() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	return f.nextID
}

func (f *fakeRemote) setDown(down bool) {
	f.mu.Lock()
	f.down = down
	f.mu.Unlock()
}

func (f *fakeRemote) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeRemote) CreateClient(_ context.Context, c model.Client) (model.Client, error) {
	if err := f.call("create_client"); err != nil {
		return model.Client{}, err
	}
	c.RemoteID = f.id()
	return c, nil
}

func (f *fakeRemote) UpdateClient(_ context.Context, c model.Client) (model.Client, error) {
	if err := f.call(fmt.Sprintf("update_client:%d", c.RemoteID)); err != nil {
		return model.Client{}, err
	}
	return c, nil
}

func (f *fakeRemote) DeleteClient(_ context.Context, id int64) error {
	return f.call(fmt.Sprintf("delete_client:%d", id))
}

func (f *fakeRemote) CreateAccount(_ context.Context, a model.Account, owner int64) (model.Account, error) {
	if err := f.call(fmt.Sprintf("create_account:%d", owner)); err != nil {
		return model.Account{}, err
	}
	a.RemoteID = f.id()
	return a, nil
}

func (f *fakeRemote) UpdateAccount(_ context.Context, a model.Account, owner int64) (model.Account, error) {
	if err := f.call(fmt.Sprintf("update_account:%d", a.RemoteID)); err != nil {
		return model.Account{}, err
	}
	return a, nil
}

func (f *fakeRemote) DeleteAccount(_ context.Context, id int64) error {
	return f.call(fmt.Sprintf("delete_account:%d", id))
}

func (f *fakeRemote) CreateTransaction(_ context.Context, t model.Transaction, acc int64) (model.Transaction, error) {
	if err := f.call(fmt.Sprintf("create_transaction:%d", acc)); err != nil {
		return model.Transaction{}, err
	}
	t.RemoteID = f.id()
	return t, nil
}

func (f *fakeRemote) DeleteAccountTransactions(_ context.Context, acc int64) error {
	return f.call(fmt.Sprintf("delete_transactions:%d", acc))
}

func newPolicy(t *testing.T, r Remote) (*Policy, *store.Store) {
	t.Helper()
	st := store.New(nil, nil)
	p := New(r, st, Options{CallTimeout: time.Second})
	p.Start()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		p.Close(ctx)
	})
	return p, st
}

func wait(t *testing.T, tk *Ticket) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := tk.Wait(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		t.Fatal("ticket never resolved")
	}
	return err
}

func pendingClient(id string) model.Client {
	c := model.Client{ID: id, LastName: "DIALLO"}
	c.Touch()
	return c
}

func TestPushClientConfirms(t *testing.T) {
	r := &fakeRemote{}
	p, st := newPolicy(t, r)

	st.SaveClient(pendingClient("clt-a"))
	if err := wait(t, p.PushClient("clt-a")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c, _ := st.Client("clt-a")
	if c.RemoteID != 1 || c.Pending {
		t.Errorf("not reconciled: %+v", c.Sync)
	}
	if c.ID != "clt-a" {
		t.Errorf("local key changed to %q", c.ID)
	}

	// A second edit is an update of the same remote entity.
	st.UpdateClient("clt-a", func(c model.Client) (model.Client, bool) {
		c.Touch()
		return c, true
	})
	if err := wait(t, p.PushClient("clt-a")); err != nil {
		t.Fatal(err)
	}
	calls := r.Calls()
	if calls[len(calls)-1] != "update_client:1" {
		t.Errorf("calls = %v", calls)
	}
}

func TestRemoteDownIsDegradedAndKeepsLocalState(t *testing.T) {
	r := &fakeRemote{down: true}
	p, st := newPolicy(t, r)

	st.SaveClient(pendingClient("clt-a"))
	err := wait(t, p.PushClient("clt-a"))
	if !errors.Is(err, model.ErrRemoteUnavailable) {
		t.Fatalf("expected degraded result, got %v", err)
	}

	c, err := st.Client("clt-a")
	if err != nil || !c.Pending || c.RemoteID != 0 {
		t.Fatalf("optimistic state lost: %+v %v", c, err)
	}

	r.setDown(false)
	report, err := p.Resync(context.Background())
	if err != nil {
		t.Fatalf("Resync: %v", err)
	}
	if report.Clients != 1 {
		t.Errorf("report = %+v", report)
	}
	if c, _ := st.Client("clt-a"); c.Pending || c.RemoteID == 0 {
		t.Errorf("resync did not confirm: %+v", c.Sync)
	}
}

func TestNewerLocalEditKeepsPending(t *testing.T) {
	r := newGatedRemote()
	p, st := newPolicy(t, r)

	st.SaveClient(pendingClient("clt-a"))
	tk := p.PushClient("clt-a")

	// Edit while the create is in flight.
	<-r.entered
	st.UpdateClient("clt-a", func(c model.Client) (model.Client, bool) {
		c.LastName = "NEWER"
		c.Touch()
		return c, true
	})
	r.gate <- struct{}{}

	if err := wait(t, tk); err != nil {
		t.Fatal(err)
	}
	c, _ := st.Client("clt-a")
	if c.RemoteID == 0 {
		t.Error("server id must always be adopted")
	}
	if !c.Pending || c.LastName != "NEWER" {
		t.Errorf("newer local edit overwritten: %+v", c)
	}
	close(r.gate)
}

func TestAccountWaitsForParent(t *testing.T) {
	r := &fakeRemote{}
	p, st := newPolicy(t, r)

	st.SaveClient(pendingClient("clt-a"))
	acc := model.Account{ID: "cpt-a", Number: "10000000001", ClientID: "clt-a"}
	acc.Touch()
	st.SaveAccount(acc)

	if err := wait(t, p.PushAccount("cpt-a")); !errors.Is(err, ErrParentNotSynced) {
		t.Fatalf("expected ErrParentNotSynced, got %v", err)
	}

	if _, err := p.Resync(context.Background()); err != nil {
		t.Fatalf("Resync: %v", err)
	}
	calls := r.Calls()
	if len(calls) != 2 || calls[0] != "create_client" || calls[1] != "create_account:1" {
		t.Errorf("calls = %v", calls)
	}
}

func TestPushTransactionsInOrder(t *testing.T) {
	r := &fakeRemote{}
	p, st := newPolicy(t, r)

	st.SaveAccount(model.Account{ID: "cpt-a", Number: "A", Sync: model.Sync{RemoteID: 40}})
	st.SaveAccount(model.Account{ID: "cpt-b", Number: "B", Sync: model.Sync{RemoteID: 50}})
	st.Transactions.PutAll([]model.Transaction{
		{ID: "t1", AccountNumber: "A", Sync: model.Sync{Pending: true, Version: 1}},
		{ID: "t2", AccountNumber: "B", Sync: model.Sync{Pending: true, Version: 1}},
	}...)

	if err := wait(t, p.PushTransactions("t1", "t2")); err != nil {
		t.Fatal(err)
	}
	calls := r.Calls()
	if len(calls) != 2 || calls[0] != "create_transaction:40" || calls[1] != "create_transaction:50" {
		t.Errorf("calls = %v", calls)
	}
	if tx, _ := st.Transactions.Get("t2"); tx.RemoteID == 0 || tx.Pending {
		t.Errorf("t2 not confirmed: %+v", tx.Sync)
	}

	// Already confirmed transactions are not posted again.
	if err := wait(t, p.PushTransactions("t1")); err != nil {
		t.Fatal(err)
	}
	if n := len(r.Calls()); n != 2 {
		t.Errorf("transaction re-posted, %d calls", n)
	}
}

func TestDeletesRunInQueueOrderAndClearTombstones(t *testing.T) {
	r := &fakeRemote{}
	p, st := newPolicy(t, r)

	acc := model.Account{ID: "cpt-a", Number: "A", Sync: model.Sync{RemoteID: 5}}
	cl := model.Client{ID: "clt-a", Sync: model.Sync{RemoteID: 3}}

	p.DeleteTransactions(acc)
	p.DeleteAccount(acc)
	last := p.DeleteClient(cl)
	if len(st.Tombstones()) == 0 {
		t.Error("tombstones must be recorded before the worker runs")
	}

	if err := wait(t, last); err != nil {
		t.Fatal(err)
	}

	want := []string{"delete_transactions:5", "delete_account:5", "delete_client:3"}
	calls := r.Calls()
	if fmt.Sprint(calls) != fmt.Sprint(want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}
	if n := len(st.Tombstones()); n != 0 {
		t.Errorf("%d tombstones left", n)
	}
}

func TestFailedDeleteKeepsTombstone(t *testing.T) {
	r := &fakeRemote{down: true}
	p, st := newPolicy(t, r)

	err := wait(t, p.DeleteClient(model.Client{ID: "clt-a", Sync: model.Sync{RemoteID: 3}}))
	if !errors.Is(err, model.ErrRemoteUnavailable) {
		t.Fatalf("expected degraded result, got %v", err)
	}
	if len(st.Tombstones()) != 1 {
		t.Fatal("tombstone must survive a failed delete")
	}

	r.setDown(false)
	report, err := p.Resync(context.Background())
	if err != nil || report.Deletes != 1 {
		t.Fatalf("report=%+v err=%v", report, err)
	}
	if len(st.Tombstones()) != 0 {
		t.Error("tombstone not cleared after resync")
	}
}

func TestDeleteOfUnsyncedEntityIsLocalOnly(t *testing.T) {
	r := &fakeRemote{}
	p, st := newPolicy(t, r)

	if err := wait(t, p.DeleteClient(model.Client{ID: "clt-a"})); err != nil {
		t.Fatal(err)
	}
	if len(r.Calls()) != 0 || len(st.Tombstones()) != 0 {
		t.Error("nothing should reach the remote")
	}
}

func TestOrphanCreateIsDeleted(t *testing.T) {
	r := newGatedRemote()
	p, st := newPolicy(t, r)

	st.SaveClient(pendingClient("clt-a"))
	tk := p.PushClient("clt-a")
	<-r.entered
	st.RemoveClient("clt-a")

	r.gate <- struct{}{}
	r.gate <- struct{}{}
	if err := wait(t, tk); err != nil {
		t.Fatal(err)
	}

	calls := r.Calls()
	if len(calls) != 2 || calls[1] != "delete_client:1" {
		t.Errorf("calls = %v", calls)
	}
}

func TestDisabledRemote(t *testing.T) {
	st := store.New(nil, nil)
	p := New(nil, st, Options{})

	st.SaveClient(pendingClient("clt-a"))
	tk := p.PushClient("clt-a")
	select {
	case <-tk.Done():
	default:
		t.Fatal("ticket must resolve immediately")
	}
	if !errors.Is(tk.Err(), model.ErrRemoteUnavailable) {
		t.Errorf("err = %v", tk.Err())
	}
	if _, err := p.Resync(context.Background()); !errors.Is(err, ErrRemoteDisabled) {
		t.Errorf("Resync err = %v", err)
	}
}

func TestCloseDrainsQueue(t *testing.T) {
	r := &fakeRemote{}
	st := store.New(nil, nil)
	p := New(r, st, Options{})

	var tickets []*Ticket
	for i := range 5 {
		id := fmt.Sprintf("clt-%d", i)
		st.SaveClient(pendingClient(id))
		tickets = append(tickets, p.PushClient(id))
	}
	p.Start()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := p.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	for _, tk := range tickets {
		if tk.Err() != nil {
			t.Errorf("job not drained: %v", tk.Err())
		}
	}

	if err := wait(t, p.PushClient("clt-0")); !errors.Is(err, ErrClosed) {
		t.Errorf("push after close: %v", err)
	}
}
