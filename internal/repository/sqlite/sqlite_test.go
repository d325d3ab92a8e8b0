package sqlite

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/quillpad/quillpad/internal/model"
	"github.com/quillpad/quillpad/internal/repository"
	"github.com/quillpad/quillpad/internal/testutil"
)

func newTestStore(t *testing.T) (context.Context, *Store) {
	t.Helper()

	ctx := context.Background()
	url := URLPrefix + filepath.Join(t.TempDir(), "test.sqlite3")

	store, err := Open(ctx, url)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(store.Close)

	return ctx, store
}

func TestDSN(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{"relative path", "sqlite:./db.sqlite3", "file:./db.sqlite3?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"},
		{"slashes", "sqlite:///var/lib/q.db", "file:/var/lib/q.db?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"},
		{"existing query", "sqlite:q.db?cache=shared", "file:q.db?cache=shared&_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"},
	}

	for _, tt := range tests {

		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := DSN(tt.url); got != tt.want {
				t.Errorf("DSN(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestIsURL(t *testing.T) {
	t.Parallel()

	if !IsURL("sqlite:./db.sqlite3") {
		t.Error("sqlite: URL not recognized")
	}
	if IsURL("postgres://u:p@localhost/db") {
		t.Error("postgres URL recognized as sqlite")
	}
}

func TestStore_CreateUser_AssignsIdentity(t *testing.T) {
	ctx, store := newTestStore(t)

	user, err := store.CreateUser(ctx, model.NewUser{Username: "alice", Email: "alice@x.com"})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	want := model.User{ID: 1, Username: "alice", Email: "alice@x.com"}
	if user.ID != want.ID || user.Username != want.Username || user.Email != want.Email {
		t.Errorf("CreateUser = %+v, want %+v", *user, want)
	}
}

func TestStore_CreateUser_DuplicateEmail(t *testing.T) {
	ctx, store := newTestStore(t)

	if _, err := store.CreateUser(ctx, model.NewUser{Username: "alice", Email: "alice@x.com"}); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	_, err := store.CreateUser(ctx, model.NewUser{Username: "other", Email: "alice@x.com"})
	if !errors.Is(err, repository.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
	if repository.KindOf(err) != repository.KindAlreadyExists {
		t.Errorf("KindOf = %s, want already_exists", repository.KindOf(err))
	}

	users, err := store.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(users) != 1 {
		t.Errorf("conflict must not create a row, got %d users", len(users))
	}
}

func TestStore_GetUser_RoundTrip(t *testing.T) {
	ctx, store := newTestStore(t)

	in := testutil.NewTestUser(t, "bob")
	created, err := store.CreateUser(ctx, in)
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	got, err := store.GetUser(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if got.Username != in.Username || got.Email != in.Email {
		t.Errorf("GetUser = %+v, want username %q email %q", got, in.Username, in.Email)
	}
}

func TestStore_GetUser_NotFound(t *testing.T) {
	ctx, store := newTestStore(t)

	_, err := store.GetUser(ctx, 42)
	if !errors.Is(err, repository.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestStore_ListUsers_Ordered(t *testing.T) {
	ctx, store := newTestStore(t)

	for _, name := range []string{"c", "a", "b"} {
		if _, err := store.CreateUser(ctx, testutil.NewTestUser(t, name)); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
	}

	users, err := store.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("ListUsers returned %d users, want 3", len(users))
	}
	for i := 1; i < len(users); i++ {
		if users[i-1].ID >= users[i].ID {
			t.Errorf("users not ordered by id: %d before %d", users[i-1].ID, users[i].ID)
		}
	}
}

func TestStore_ListUsers_Empty(t *testing.T) {
	ctx, store := newTestStore(t)

	users, err := store.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if users == nil || len(users) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", users)
	}
}

func TestStore_GetProfilePicture(t *testing.T) {
	ctx, store := newTestStore(t)

	withPic := testutil.NewTestUser(t, "pic")
	withPic.ProfilePicture = testutil.JPEGBytes
	u1, err := store.CreateUser(ctx, withPic)
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	u2, err := store.CreateUser(ctx, testutil.NewTestUser(t, "nopic"))
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	got, err := store.GetProfilePicture(ctx, u1.ID)
	if err != nil {
		t.Fatalf("GetProfilePicture failed: %v", err)
	}
	if !bytes.Equal(got, testutil.JPEGBytes) {
		t.Errorf("picture = %v, want %v", got, testutil.JPEGBytes)
	}

	_, err = store.GetProfilePicture(ctx, u2.ID)
	if !errors.Is(err, repository.ErrNoProfilePicture) {
		t.Errorf("user without picture: expected ErrNoProfilePicture, got %v", err)
	}

	_, err = store.GetProfilePicture(ctx, 999)
	if !errors.Is(err, repository.ErrUserNotFound) {
		t.Errorf("missing user: expected ErrUserNotFound, got %v", err)
	}
}

func TestStore_UsernamesByID(t *testing.T) {
	ctx, store := newTestStore(t)

	a, err := store.CreateUser(ctx, testutil.NewTestUser(t, "ann"))
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	b, err := store.CreateUser(ctx, testutil.NewTestUser(t, "ben"))
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	names, err := store.UsernamesByID(ctx, []int64{a.ID, b.ID, 404})
	if err != nil {
		t.Fatalf("UsernamesByID failed: %v", err)
	}
	if len(names) != 2 || names[a.ID] != "ann" || names[b.ID] != "ben" {
		t.Errorf("UsernamesByID = %v", names)
	}

	empty, err := store.UsernamesByID(ctx, nil)
	if err != nil || len(empty) != 0 {
		t.Errorf("UsernamesByID(nil) = %v, %v", empty, err)
	}
}

func TestStore_CreateArticle(t *testing.T) {
	ctx, store := newTestStore(t)

	author, err := store.CreateUser(ctx, model.NewUser{Username: "alice", Email: "alice@x.com"})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	article, err := store.CreateArticle(ctx, model.NewArticle{Title: "T", Text: "body", Author: author.ID})
	if err != nil {
		t.Fatalf("CreateArticle failed: %v", err)
	}

	want := model.Article{ID: 1, Title: "T", Text: "body", Author: 1}
	if *article != want {
		t.Errorf("CreateArticle = %+v, want %+v", *article, want)
	}
}

func TestStore_CreateArticle_UnknownAuthor(t *testing.T) {
	ctx, store := newTestStore(t)

	_, err := store.CreateArticle(ctx, model.NewArticle{Title: "T", Text: "body", Author: 999})
	if !errors.Is(err, repository.ErrAuthorNotFound) {
		t.Fatalf("expected ErrAuthorNotFound, got %v", err)
	}

	articles, err := store.ListArticles(ctx)
	if err != nil {
		t.Fatalf("ListArticles failed: %v", err)
	}
	if len(articles) != 0 {
		t.Errorf("failed create must not insert, got %d articles", len(articles))
	}
}

func TestStore_ForeignKeyEnforced(t *testing.T) {
	ctx, store := newTestStore(t)

	_, err := store.db.ExecContext(ctx, `INSERT INTO articles (title, text, author) VALUES ('x', 'y', 999)`)
	if !isForeignKeyViolation(err) {
		t.Fatalf("expected foreign key violation from raw insert, got %v", err)
	}
}

func TestStore_ListArticlesByAuthor(t *testing.T) {
	ctx, store := newTestStore(t)

	a1, err := store.CreateUser(ctx, testutil.NewTestUser(t, "a1"))
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	a2, err := store.CreateUser(ctx, testutil.NewTestUser(t, "a2"))
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	for _, na := range []model.NewArticle{
		testutil.NewTestArticle(t, "one", a1.ID),
		testutil.NewTestArticle(t, "two", a2.ID),
		testutil.NewTestArticle(t, "three", a1.ID),
	} {
		if _, err := store.CreateArticle(ctx, na); err != nil {
			t.Fatalf("CreateArticle failed: %v", err)
		}
	}

	all, err := store.ListArticles(ctx)
	if err != nil {
		t.Fatalf("ListArticles failed: %v", err)
	}
	inAll := make(map[int64]bool, len(all))
	for _, a := range all {
		inAll[a.ID] = true
	}

	for _, author := range []int64{a1.ID, a2.ID, 999} {
		filtered, err := store.ListArticlesByAuthor(ctx, author)
		if err != nil {
			t.Fatalf("ListArticlesByAuthor(%d) failed: %v", author, err)
		}
		for _, a := range filtered {
			if a.Author != author {
				t.Errorf("article %d author = %d, want %d", a.ID, a.Author, author)
			}
			if !inAll[a.ID] {
				t.Errorf("filtered article %d missing from unfiltered list", a.ID)
			}
		}
	}

	byA1, _ := store.ListArticlesByAuthor(ctx, a1.ID)
	if len(byA1) != 2 {
		t.Errorf("ListArticlesByAuthor(a1) returned %d, want 2", len(byA1))
	}

	none, err := store.ListArticlesByAuthor(ctx, 999)
	if err != nil {
		t.Fatalf("unknown author must not error, got %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("unknown author should yield empty slice, got %v", none)
	}
}

func TestStore_ConcurrentCreates(t *testing.T) {
	ctx, store := newTestStore(t)

	const n = 10
	var wg sync.WaitGroup
	ids := make(chan int64, n)
	errs := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u, err := store.CreateUser(ctx, model.NewUser{Username: "u", Email: testutil.UniqueEmail("conc")})
			if err != nil {
				errs <- err
				return
			}
			ids <- u.ID
		}()
	}
	wg.Wait()
	close(ids)
	close(errs)

	for err := range errs {
		t.Errorf("concurrent CreateUser failed: %v", err)
	}

	seen := make(map[int64]bool)
	for id := range ids {
		if seen[id] {
			t.Errorf("identity %d assigned twice", id)
		}
		seen[id] = true
	}
}
