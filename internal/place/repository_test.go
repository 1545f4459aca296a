package place

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/evcraddock/place-notes/internal/db"
)

func TestInsertAndGet(t *testing.T) {
	repo := testRepo(t)

	p, err := repo.Insert("  Corner Cafe ", "1 Main St")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if p.ID == 0 {
		t.Error("expected non-zero ID")
	}
	if p.Name != "Corner Cafe" {
		t.Errorf("name = %q, want %q", p.Name, "Corner Cafe")
	}

	got, err := repo.GetByID(p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Address != "1 Main St" {
		t.Errorf("address = %q, want %q", got.Address, "1 Main St")
	}
}

func TestInsertRequiresName(t *testing.T) {
	repo := testRepo(t)

	if _, err := repo.Insert("   ", "1 Main St"); err == nil {
		t.Fatal("expected error for blank name")
	}
}

func TestGetByIDNotFound(t *testing.T) {
	repo := testRepo(t)

	_, err := repo.GetByID(9999)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	repo := testRepo(t)

	for _, name := range []string{"first", "second", "third"} {
		if _, err := repo.Insert(name, ""); err != nil {
			t.Fatalf("insert %q: %v", name, err)
		}
	}

	places, err := repo.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(places) != 3 {
		t.Fatalf("got %d places, want 3", len(places))
	}
	if places[0].Name != "third" {
		t.Errorf("first place = %q, want %q", places[0].Name, "third")
	}
}

func TestListEmpty(t *testing.T) {
	repo := testRepo(t)

	places, err := repo.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if places == nil || len(places) != 0 {
		t.Errorf("places = %v, want empty non-nil slice", places)
	}
}

func TestDelete(t *testing.T) {
	repo := testRepo(t)

	p, err := repo.Insert("Park", "")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := repo.Delete(p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func testRepo(t *testing.T) *Repository {
	t.Helper()
	d, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if err := d.Close(); err != nil {
			t.Errorf("close db: %v", err)
		}
	})
	return NewRepository(d)
}
