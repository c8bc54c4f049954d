package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/egabank/ega/internal/config"
	"github.com/egabank/ega/internal/model"
	"github.com/egabank/ega/internal/store"
)

func TestNewAppLocalOnly(t *testing.T) {
	dir := t.TempDir()
	cfg := config.NewDefault()
	cfg.Database.Path = filepath.Join(dir, "ega.db")
	cfg.Defaults.Timezone = "UTC"
	migrations := os.DirFS("../..")

	a, cleanup, err := NewApp(context.Background(), cfg, migrations)
	if err != nil {
		t.Fatal(err)
	}
	if a.Loaded.Origin != store.OriginEmpty {
		t.Errorf("origin = %s", a.Loaded.Origin)
	}
	if a.Sync.Enabled() {
		t.Error("sync must be disabled without a base url")
	}

	c, _, err := a.Service.Client.Create(validClient())
	if err != nil {
		t.Fatal(err)
	}
	cleanup()

	// A second start rehydrates from the cache.
	b, cleanup, err := NewApp(context.Background(), cfg, migrations)
	if err != nil {
		t.Fatal(err)
	}
	defer cleanup()
	if b.Loaded.Origin != store.OriginCache {
		t.Errorf("origin = %s", b.Loaded.Origin)
	}
	if _, err := b.Store.Client(c.ID); err != nil {
		t.Errorf("client not restored: %v", err)
	}
}

func validClient() model.Client {
	return model.Client{
		LastName:    "Mensah",
		FirstName:   "Kofi",
		BirthDate:   time.Date(1990, 3, 4, 0, 0, 0, 0, time.UTC),
		Gender:      "M",
		Address:     "Lomé",
		Phone:       "+22890000000",
		Nationality: "Togolaise",
	}
}
