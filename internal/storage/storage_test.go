package storage

import (
	"errors"
	"path/filepath"
	"testing"
)

type record struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestFileStore(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "state"))

	t.Run("round trips a record", func(t *testing.T) {
		in := record{Name: "doc", Count: 3}
		if err := store.Put("rt", in); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		var out record
		if err := store.Get("rt", &out); err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if out != in {
			t.Errorf("Get() = %+v, want %+v", out, in)
		}
	})

	t.Run("missing key returns ErrNotFound", func(t *testing.T) {
		var out record
		if err := store.Get("missing", &out); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("put replaces previous record", func(t *testing.T) {
		if err := store.Put("rep", record{Name: "first"}); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		if err := store.Put("rep", record{Name: "second"}); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		var out record
		if err := store.Get("rep", &out); err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if out.Name != "second" {
			t.Errorf("Name = %q, want %q", out.Name, "second")
		}
	})

	t.Run("delete removes the record", func(t *testing.T) {
		if err := store.Put("del", record{Name: "x"}); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		if err := store.Delete("del"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}

		var out record
		if err := store.Get("del", &out); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("deleting a missing key is not an error", func(t *testing.T) {
		if err := store.Delete("never-written"); err != nil {
			t.Errorf("Delete() error = %v, want nil", err)
		}
	})

	t.Run("keys with separators stay single files", func(t *testing.T) {
		if err := store.Put("a/b:c", record{Name: "flat"}); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		var out record
		if err := store.Get("a/b:c", &out); err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if out.Name != "flat" {
			t.Errorf("Name = %q, want %q", out.Name, "flat")
		}
	})
}
