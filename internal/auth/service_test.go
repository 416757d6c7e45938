package auth_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskloom/taskloom/internal/auth"
	"github.com/taskloom/taskloom/internal/platform/httpx"
)

// memoryRepo enforces the same uniqueness guarantees as the users table.
type memoryRepo struct {
	mu         sync.Mutex
	nextID     int64
	byEmail    map[string]*auth.User
	byUsername map[string]int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		byEmail:    make(map[string]*auth.User),
		byUsername: make(map[string]int64),
	}
}

func (r *memoryRepo) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byEmail[email]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *memoryRepo) Create(ctx context.Context, username, email, passwordHash string) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[email]; ok {
		return nil, fmt.Errorf("%w: username or email already taken", httpx.ErrDuplicate)
	}
	if _, ok := r.byUsername[username]; ok {
		return nil, fmt.Errorf("%w: username or email already taken", httpx.ErrDuplicate)
	}
	r.nextID++
	user := &auth.User{
		ID:           r.nextID,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	r.byEmail[email] = user
	r.byUsername[username] = user.ID
	copied := *user
	return &copied, nil
}

func (r *memoryRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byEmail)
}

var _ auth.Repository = (*memoryRepo)(nil)

func newService(repo auth.Repository) (*auth.Service, *auth.TokenManager) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	return auth.NewService(repo, auth.NewHasher(bcrypt.MinCost), tokens), tokens
}

func TestRegisterLoginRoundtrip(t *testing.T) {
	repo := newMemoryRepo()
	service, tokens := newService(repo)
	ctx := context.Background()

	user, err := service.Register(ctx, "ada", "ada@example.com", "s3cret-pass")
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	require.NotEqual(t, "s3cret-pass", user.PasswordHash)

	token, loggedIn, err := service.Login(ctx, "ada@example.com", "s3cret-pass")
	require.NoError(t, err)
	require.Equal(t, user.ID, loggedIn.ID)

	claims, err := tokens.Verify(token)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
	require.Equal(t, "ada", claims.Username)
	require.Equal(t, "ada@example.com", claims.Email)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newMemoryRepo()
	service, _ := newService(repo)
	ctx := context.Background()

	_, err := service.Register(ctx, "ada", "ada@example.com", "s3cret-pass")
	require.NoError(t, err)

	_, err = service.Register(ctx, "someone-else", "ada@example.com", "other-pass")
	require.ErrorIs(t, err, httpx.ErrDuplicate)
	require.Equal(t, 1, repo.count())
}

func TestLoginUnknownEmail(t *testing.T) {
	service, _ := newService(newMemoryRepo())

	_, _, err := service.Login(context.Background(), "ghost@example.com", "whatever")
	require.ErrorIs(t, err, auth.ErrUnknownUser)
	require.ErrorIs(t, err, httpx.ErrInvalidCredentials)
}

func TestLoginWrongPassword(t *testing.T) {
	service, _ := newService(newMemoryRepo())
	ctx := context.Background()

	_, err := service.Register(ctx, "ada", "ada@example.com", "s3cret-pass")
	require.NoError(t, err)

	_, _, err = service.Login(ctx, "ada@example.com", "wrong-pass")
	require.ErrorIs(t, err, auth.ErrWrongPassword)
	require.ErrorIs(t, err, httpx.ErrInvalidCredentials)
}

func TestConcurrentRegistrationSameEmail(t *testing.T) {
	repo := newMemoryRepo()
	service, _ := newService(repo)

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := service.Register(context.Background(), fmt.Sprintf("user-%d", i), "race@example.com", "s3cret-pass")
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	var successes, duplicates int
	for err := range errs {
		switch {
		case err == nil:
			successes++
		default:
			require.ErrorIs(t, err, httpx.ErrDuplicate)
			duplicates++
		}
	}
	require.Equal(t, 1, successes)
	require.Equal(t, 1, duplicates)
	require.Equal(t, 1, repo.count())
}
