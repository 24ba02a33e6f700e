package service

import (
	"context"
	"errors"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.uber.org/zap"

	"storefront-api/internal/core/cache"
	"storefront-api/internal/domain"
)

func newUserFixture(t *testing.T) (*UserService, *fakeUserRepo) {
	t.Helper()
	repo := newFakeUserRepo()
	store := cache.NewMemory(128, time.Minute)
	return NewUserService(repo, store, time.Minute, zap.NewNop()), repo
}

func TestUserCreateAndFindByIDServedFromCache(t *testing.T) {
	svc, repo := newUserFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &domain.User{Email: "jane@example.com", Name: "Jane"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" || !created.Active {
		t.Fatalf("created = %+v, want assigned id and active", created)
	}

	finds := repo.finds
	got, err := svc.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got == nil || got.Email != "jane@example.com" {
		t.Fatalf("got %+v", got)
	}
	if repo.finds != finds {
		t.Fatalf("find hit the store %d times, want cache hit", repo.finds-finds)
	}
}

func TestUserCreateDuplicateEmailLeavesStoreUntouched(t *testing.T) {
	svc, repo := newUserFixture(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, &domain.User{Email: "dup@example.com", Name: "First"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := svc.Create(ctx, &domain.User{Email: "dup@example.com", Name: "Second"})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}
	if len(repo.byID) != 1 {
		t.Fatalf("store holds %d users, want 1", len(repo.byID))
	}
}

func TestUserCreateInvalidEmailRejected(t *testing.T) {
	svc, repo := newUserFixture(t)

	_, err := svc.Create(context.Background(), &domain.User{Email: "not-an-email", Name: "X"})
	var verr validation.Errors
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want validation.Errors", err)
	}
	if len(repo.byID) != 0 {
		t.Fatalf("store holds %d users after rejected create", len(repo.byID))
	}
}

func TestUserUpdateOverwritesCacheEntry(t *testing.T) {
	svc, repo := newUserFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &domain.User{Email: "a@example.com", Name: "Before"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	upd := *created
	upd.Name = "After"
	if _, err := svc.Update(ctx, &upd); err != nil {
		t.Fatalf("update: %v", err)
	}

	finds := repo.finds
	got, err := svc.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Name != "After" {
		t.Fatalf("name = %q, want updated value", got.Name)
	}
	if repo.finds != finds {
		t.Fatal("read after update went to the store, want overwritten cache entry")
	}
	if got.CreatedAt.IsZero() || got.CreatedBy == "" {
		t.Fatalf("creation audit fields lost on update: %+v", got)
	}
}

func TestUserUpdateEmailChangeInvalidatesOldEmailLookup(t *testing.T) {
	svc, _ := newUserFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &domain.User{Email: "old@example.com", Name: "Mover"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got, _ := svc.FindByEmail(ctx, "old@example.com"); got == nil {
		t.Fatal("warm-up lookup missed")
	}

	upd := *created
	upd.Email = "new@example.com"
	if _, err := svc.Update(ctx, &upd); err != nil {
		t.Fatalf("update: %v", err)
	}

	if got, err := svc.FindByEmail(ctx, "old@example.com"); err != nil || got != nil {
		t.Fatalf("old email still resolves: %+v, %v", got, err)
	}
	if got, _ := svc.FindByEmail(ctx, "new@example.com"); got == nil || got.ID != created.ID {
		t.Fatalf("new email lookup = %+v", got)
	}
}

func TestUserUpdateMissingReturnsNotFound(t *testing.T) {
	svc, _ := newUserFixture(t)

	_, err := svc.Update(context.Background(), &domain.User{ID: "nope", Email: "x@example.com", Name: "X"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUserDeleteRemovesEntryAndSecondDeleteFails(t *testing.T) {
	svc, repo := newUserFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &domain.User{Email: "gone@example.com", Name: "Gone"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	got, err := svc.FindByID(ctx, created.ID)
	if err != nil || got != nil {
		t.Fatalf("find after delete = %+v, %v", got, err)
	}
	if len(repo.byID) != 0 {
		t.Fatal("record survived delete")
	}
	if err := svc.Delete(ctx, created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestUserDeactivateDropsFromActiveListingButStaysFindable(t *testing.T) {
	svc, _ := newUserFixture(t)
	ctx := context.Background()

	keep, err := svc.Create(ctx, &domain.User{Email: "keep@example.com", Name: "Keep"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	drop, err := svc.Create(ctx, &domain.User{Email: "drop@example.com", Name: "Drop"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if n, _ := svc.CountActive(ctx); n != 2 {
		t.Fatalf("count = %d, want 2", n)
	}

	saved, err := svc.Deactivate(ctx, drop.ID)
	if err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if saved.Active {
		t.Fatal("deactivated user still active")
	}

	active, err := svc.ListActive(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(active) != 1 || active[0].ID != keep.ID {
		t.Fatalf("active = %+v, want only %s", active, keep.ID)
	}
	if n, _ := svc.CountActive(ctx); n != 1 {
		t.Fatalf("count after deactivate = %d, want 1", n)
	}

	got, err := svc.FindByID(ctx, drop.ID)
	if err != nil || got == nil || got.Active {
		t.Fatalf("deactivated user by id = %+v, %v", got, err)
	}
}

func TestUserListActiveCachedAndInvalidatedOnCreate(t *testing.T) {
	svc, repo := newUserFixture(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, &domain.User{Email: "one@example.com", Name: "One"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.ListActive(ctx); err != nil {
		t.Fatalf("list: %v", err)
	}
	lists := repo.lists
	if _, err := svc.ListActive(ctx); err != nil {
		t.Fatalf("list: %v", err)
	}
	if repo.lists != lists {
		t.Fatal("second list hit the store, want cached snapshot")
	}

	if _, err := svc.Create(ctx, &domain.User{Email: "two@example.com", Name: "Two"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	active, err := svc.ListActive(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("listing after create has %d users, want 2", len(active))
	}
}

func TestUserFindByIDMissingCachedAsAbsent(t *testing.T) {
	svc, repo := newUserFixture(t)
	ctx := context.Background()

	if got, err := svc.FindByID(ctx, "missing"); err != nil || got != nil {
		t.Fatalf("first find = %+v, %v", got, err)
	}
	finds := repo.finds
	if got, err := svc.FindByID(ctx, "missing"); err != nil || got != nil {
		t.Fatalf("second find = %+v, %v", got, err)
	}
	if repo.finds != finds {
		t.Fatal("absent result was not cached")
	}
}

func TestUserClearCacheIdempotent(t *testing.T) {
	svc, repo := newUserFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &domain.User{Email: "c@example.com", Name: "C"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.ClearCache(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := svc.ClearCache(ctx); err != nil {
		t.Fatalf("second clear: %v", err)
	}

	finds := repo.finds
	got, err := svc.FindByID(ctx, created.ID)
	if err != nil || got == nil {
		t.Fatalf("find after clear = %+v, %v", got, err)
	}
	if repo.finds != finds+1 {
		t.Fatal("find after clear should reload from the store")
	}
	if len(repo.byID) != 1 {
		t.Fatal("clear touched the store")
	}
}

func TestUserPagedListingNotCached(t *testing.T) {
	svc, repo := newUserFixture(t)
	ctx := context.Background()

	for _, e := range []string{"p1@example.com", "p2@example.com", "p3@example.com"} {
		if _, err := svc.Create(ctx, &domain.User{Email: e, Name: "P"}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	page, err := svc.ListActivePage(ctx, domain.PageRequest{Page: 0, Size: 2})
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if page.Total != 3 || len(page.Items) != 2 {
		t.Fatalf("page = total %d items %d, want 3/2", page.Total, len(page.Items))
	}

	lists := repo.lists
	if _, err := svc.ListActivePage(ctx, domain.PageRequest{Page: 0, Size: 2}); err != nil {
		t.Fatalf("page: %v", err)
	}
	if repo.lists == lists {
		t.Fatal("paged listing should always hit the store")
	}
}
