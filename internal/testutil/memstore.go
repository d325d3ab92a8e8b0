package testutil

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/quillpad/quillpad/internal/model"
	"github.com/quillpad/quillpad/internal/repository"
)

// MemoryStore is an in-process fake of the data store adapter with the same
// error semantics as the SQL backends. It exists for handler tests.
type MemoryStore struct {
	mu       sync.Mutex
	users    map[int64]model.User
	articles map[int64]model.Article
	nextUser int64
	nextArt  int64

	// Err, when set, is returned by every operation.
	Err error
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[int64]model.User),
		articles: make(map[int64]model.Article),
	}
}

var _ repository.Store = (*MemoryStore)(nil)

// Close is a no-op.
func (s *MemoryStore) Close() {}

// Ping reports Err.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return s.Err
}

// ListUsers returns users ordered by identity.
func (s *MemoryStore) ListUsers(ctx context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	users := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		u.ProfilePicture = nil
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// GetUser returns one user.
func (s *MemoryStore) GetUser(ctx context.Context, id int64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	u.ProfilePicture = nil
	return &u, nil
}

// CreateUser inserts a user, enforcing email uniqueness.
func (s *MemoryStore) CreateUser(ctx context.Context, newUser model.NewUser) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	for _, u := range s.users {
		if u.Email == newUser.Email {
			return nil, repository.ErrEmailExists
		}
	}

	s.nextUser++
	u := model.User{
		ID:             s.nextUser,
		Username:       newUser.Username,
		Email:          newUser.Email,
		ProfilePicture: newUser.ProfilePicture,
	}
	s.users[u.ID] = u
	return &u, nil
}

// GetProfilePicture returns the picture bytes or a typed miss.
func (s *MemoryStore) GetProfilePicture(ctx context.Context, id int64) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	if len(u.ProfilePicture) == 0 {
		return nil, repository.ErrNoProfilePicture
	}
	return u.ProfilePicture, nil
}

// UsernamesByID resolves usernames for existing identities.
func (s *MemoryStore) UsernamesByID(ctx context.Context, ids []int64) (map[int64]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	names := make(map[int64]string, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			names[id] = u.Username
		}
	}
	return names, nil
}

// ListArticles returns articles ordered by identity.
func (s *MemoryStore) ListArticles(ctx context.Context) ([]model.Article, error) {
	return s.filterArticles(func(model.Article) bool { return true })
}

// ListArticlesByAuthor returns the author's articles ordered by identity.
func (s *MemoryStore) ListArticlesByAuthor(ctx context.Context, authorID int64) ([]model.Article, error) {
	return s.filterArticles(func(a model.Article) bool { return a.Author == authorID })
}

// CreateArticle inserts an article if its author exists.
func (s *MemoryStore) CreateArticle(ctx context.Context, newArticle model.NewArticle) (*model.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	if _, ok := s.users[newArticle.Author]; !ok {
		return nil, repository.ErrAuthorNotFound
	}

	s.nextArt++
	a := model.Article{
		ID:     s.nextArt,
		Title:  newArticle.Title,
		Text:   newArticle.Text,
		Author: newArticle.Author,
	}
	s.articles[a.ID] = a
	return &a, nil
}

// InsertDanglingArticle stores an article whose author does not exist,
// bypassing the author check. It models rows left behind by a store that
// does not enforce the foreign key.
func (s *MemoryStore) InsertDanglingArticle(title string, author int64) (model.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[author]; ok {
		return model.Article{}, errors.New("author exists")
	}

	s.nextArt++
	a := model.Article{ID: s.nextArt, Title: title, Text: "orphan", Author: author}
	s.articles[a.ID] = a
	return a, nil
}

func (s *MemoryStore) filterArticles(keep func(model.Article) bool) ([]model.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	articles := make([]model.Article, 0)
	for _, a := range s.articles {
		if keep(a) {
			articles = append(articles, a)
		}
	}
	sort.Slice(articles, func(i, j int) bool { return articles[i].ID < articles[j].ID })
	return articles, nil
}
