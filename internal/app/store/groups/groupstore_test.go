package groupstore_test

import (
	"errors"
	"testing"

	groupstore "github.com/agorahub/agorahub/internal/app/store/groups"
	"github.com/agorahub/agorahub/internal/domain/models"
	"github.com/agorahub/agorahub/internal/testutil"
)

func TestCreateRejectsDuplicateName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := groupstore.New(db)

	if _, err := store.Create(ctx, models.Group{Name: "Garden Club", Open: true}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Uniqueness is case- and diacritic-insensitive over the folded name.
	_, err := store.Create(ctx, models.Group{Name: "GARDEN CLUB", Open: false})
	if !errors.Is(err, groupstore.ErrDuplicateGroupName) {
		t.Errorf("Create returned %v, want ErrDuplicateGroupName", err)
	}
}

func TestUpdateInfoRenameCollision(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := groupstore.New(db)

	if _, err := store.Create(ctx, models.Group{Name: "Chess Club", Open: true}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	g, err := store.Create(ctx, models.Group{Name: "Checkers Club", Open: true})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	err = store.UpdateInfo(ctx, g.ID, "Chess Club", "now with chess", true)
	if !errors.Is(err, groupstore.ErrDuplicateGroupName) {
		t.Errorf("UpdateInfo returned %v, want ErrDuplicateGroupName", err)
	}
}

func TestListOrderedByFoldedName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := groupstore.New(db)

	for _, name := range []string{"zebra watchers", "Äpple growers", "marmot fans"} {
		if _, err := store.Create(ctx, models.Group{Name: name, Open: true}); err != nil {
			t.Fatalf("Create %q: %v", name, err)
		}
	}

	got, err := store.List(ctx, 0, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d groups, want 3", len(got))
	}
	// Folding strips the diacritic, so Äpple sorts under "a".
	want := []string{"Äpple growers", "marmot fans", "zebra watchers"}
	for i, name := range want {
		if got[i].Name != name {
			t.Errorf("group[%d] = %q, want %q", i, got[i].Name, name)
		}
	}
}

func TestListSkipAndLimit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := groupstore.New(db)

	names := []string{"alpha", "beta", "gamma", "delta"}
	for _, name := range names {
		if _, err := store.Create(ctx, models.Group{Name: name, Open: true}); err != nil {
			t.Fatalf("Create %q: %v", name, err)
		}
	}

	got, err := store.List(ctx, 1, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d groups, want 2", len(got))
	}
	if got[0].Name != "beta" || got[1].Name != "delta" {
		t.Errorf("page = %q, %q; want beta, delta", got[0].Name, got[1].Name)
	}
}

func TestDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := groupstore.New(db)

	g, err := store.Create(ctx, models.Group{Name: "Ephemeral", Open: true})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	n, err := store.Delete(ctx, g.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted %d, want 1", n)
	}
	n, err = store.Delete(ctx, g.ID)
	if err != nil {
		t.Fatalf("Delete (again): %v", err)
	}
	if n != 0 {
		t.Errorf("second delete removed %d, want 0", n)
	}
}
