package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/crucial707/forum-api/internal/auth"
	"github.com/crucial707/forum-api/internal/common"
	"github.com/crucial707/forum-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// memUsers is an in-memory UserStore keyed by email.
type memUsers struct {
	byEmail map[string]*models.User
	nextID  int
	failGet error
}

func newMemUsers() *memUsers {
	return &memUsers{byEmail: map[string]*models.User{}}
}

func (m *memUsers) Create(_ context.Context, username, email, hash string) (*models.User, error) {
	if _, ok := m.byEmail[email]; ok {
		return nil, common.ErrConflict
	}
	m.nextID++
	u := &models.User{ID: m.nextID, Username: username, Email: email, PasswordHash: hash, CreatedAt: time.Now()}
	m.byEmail[email] = u
	return u, nil
}

func (m *memUsers) GetByID(_ context.Context, id int) (*models.User, error) {
	for _, u := range m.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, common.ErrUserNotFound
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if m.failGet != nil {
		return nil, m.failGet
	}
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	return nil, common.ErrUserNotFound
}

func newTestStore() (*CredentialStore, *memUsers) {
	users := newMemUsers()
	return NewCredentialStore(users, auth.NewPasswordHasher(bcrypt.MinCost)), users
}

func TestCredentialStore_RegisterOnce(t *testing.T) {
	store, users := newTestStore()
	ctx := context.Background()

	u, err := store.Register(ctx, "alice", "a@x.com", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.NotEqual(t, "pw1", users.byEmail["a@x.com"].PasswordHash)

	_, err = store.Register(ctx, "alice2", "a@x.com", "other")
	assert.ErrorIs(t, err, common.ErrUserExists)
	assert.ErrorIs(t, err, common.ErrConflict)

	// same address in a different case is the same account
	_, err = store.Register(ctx, "alice3", "  A@X.com ", "other")
	assert.ErrorIs(t, err, common.ErrConflict)
	assert.Len(t, users.byEmail, 1)
}

func TestCredentialStore_RegisterRaceMapsUniqueViolation(t *testing.T) {
	store, users := newTestStore()
	ctx := context.Background()

	// lookup misses, insert hits the unique index
	users.failGet = common.ErrUserNotFound
	users.byEmail["b@x.com"] = &models.User{ID: 9, Email: "b@x.com"}

	_, err := store.Register(ctx, "bob", "b@x.com", "pw")
	assert.ErrorIs(t, err, common.ErrUserExists)
}

func TestCredentialStore_RegisterLookupFailure(t *testing.T) {
	store, users := newTestStore()
	users.failGet = errors.New("db down")

	_, err := store.Register(context.Background(), "bob", "b@x.com", "pw")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrConflict)
}

func TestCredentialStore_Verify(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	registered, err := store.Register(ctx, "alice", "a@x.com", "pw1")
	require.NoError(t, err)

	u, err := store.Verify(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)

	_, err = store.Verify(ctx, "a@x.com", "wrong")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	_, err = store.Verify(ctx, "nobody@x.com", "pw1")
	assert.ErrorIs(t, err, common.ErrUserNotFound)
}

func TestCredentialStore_Profile(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	u, err := store.Register(ctx, "alice", "a@x.com", "pw1")
	require.NoError(t, err)

	got, err := store.Profile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	_, err = store.Profile(ctx, 404)
	assert.ErrorIs(t, err, common.ErrUserNotFound)
}
