package cache

import (
	"os"
	"path/filepath"
	"testing"
)

type item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func openTestCache(t *testing.T) *Snapshots {
	t.Helper()

	path := filepath.Join(t.TempDir(), "cache.db")
	s, err := Open(path, os.DirFS("../.."))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndLoad(t *testing.T) {
	s := openTestCache(t)

	want := []item{{"a", "first"}, {"b", "second"}}
	if err := s.Save("items", want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	var got []item
	found, err := s.Load("items", &got)
	if err != nil || !found {
		t.Fatalf("Load: found=%v err=%v", found, err)
	}
	if len(got) != 2 || got[1].Name != "second" {
		t.Errorf("got %+v", got)
	}

	if err := s.Save("items", []item{{"c", "third"}}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got = nil
	if _, err := s.Load("items", &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "c" {
		t.Errorf("overwrite not applied: %+v", got)
	}
}

func TestLoadMissingKey(t *testing.T) {
	s := openTestCache(t)

	var got []item
	found, err := s.Load("nothing", &got)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Error("expected not found")
	}
}

func TestSaveManyAndList(t *testing.T) {
	s := openTestCache(t)

	err := s.SaveMany(map[string]any{
		"a": []item{{"1", "x"}},
		"b": []item{{"2", "y"}, {"3", "z"}},
	})
	if err != nil {
		t.Fatalf("SaveMany: %v", err)
	}

	infos, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(infos))
	}
	if infos[0].Key != "a" || infos[0].Items != 1 || infos[1].Items != 2 {
		t.Errorf("unexpected infos: %+v", infos)
	}

	if err := s.Delete("a"); err != nil {
		t.Fatal(err)
	}
	infos, _ = s.List()
	if len(infos) != 1 {
		t.Errorf("expected 1 snapshot after delete, got %d", len(infos))
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	migrations := os.DirFS("../..")

	s, err := Open(path, migrations)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save("k", []item{{"1", "kept"}}); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = Open(path, migrations)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	var got []item
	if found, err := s.Load("k", &got); err != nil || !found || got[0].Name != "kept" {
		t.Errorf("got %+v found=%v err=%v", got, found, err)
	}
}
