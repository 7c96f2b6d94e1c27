package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-auth-api/internal/core/auth"
	"go-auth-api/internal/domain"
	"go-auth-api/pkg/utils"
)

// fakeUserRepo 内存版仓储，Create 上和真实仓储一样由“存储层”保证邮箱唯一
type fakeUserRepo struct {
	byID map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[string]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	for _, e := range r.byID {
		if e.Email == u.Email {
			return domain.ErrEmailTaken
		}
	}
	cp := *u
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	r.byID[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByRefreshToken(_ context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, nil
	}
	for _, u := range r.byID {
		if u.RefreshToken == token {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *domain.User) error {
	if _, ok := r.byID[u.ID]; !ok {
		return errors.New("update: no such user")
	}
	cp := *u
	cp.UpdatedAt = time.Now()
	r.byID[u.ID] = &cp
	return nil
}

func newTestService() (*AuthService, *fakeUserRepo) {
	repo := newFakeUserRepo()
	tokens := &auth.Tokens{
		AccessSecret:  []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
		Issuer:        "go-auth-api-test",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    24 * time.Hour,
	}
	return NewAuthService(repo, tokens), repo
}

func TestRegister_HashesAndStartsSession(t *testing.T) {
	t.Parallel()
	svc, repo := newTestService()

	u, pair, err := svc.Register(context.Background(), "  A  ", " A@X.com ", "secret1")
	require.NoError(t, err)

	assert.Equal(t, "a@x.com", u.Email)
	assert.Equal(t, "A", u.Name)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	stored, err := repo.FindByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.True(t, utils.CheckPassword("secret1", stored.PasswordHash))
	assert.Equal(t, pair.RefreshToken, stored.RefreshToken)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()

	_, _, err := svc.Register(context.Background(), "A", "a@x.com", "secret1")
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), "B", "a@x.com", "secret2")
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestLogin_CollapsesFailureModes(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()

	_, _, err := svc.Register(context.Background(), "A", "a@x.com", "secret1")
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "a@x.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), "nobody@x.com", "secret1")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogin_RotatesRefreshToken(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()

	_, first, err := svc.Register(context.Background(), "A", "a@x.com", "secret1")
	require.NoError(t, err)

	_, second, err := svc.Login(context.Background(), "a@x.com", "secret1")
	require.NoError(t, err)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)
	require.NotEqual(t, first.AccessToken, second.AccessToken)

	// 第一次会话的 refresh token 已被覆盖，不能再换发
	_, err = svc.Refresh(context.Background(), first.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrInvalidRefreshToken)

	access, err := svc.Refresh(context.Background(), second.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, access)
}

func TestRefresh_RejectsForgedAndMismatched(t *testing.T) {
	t.Parallel()
	svc, repo := newTestService()

	u, pair, err := svc.Register(context.Background(), "A", "a@x.com", "secret1")
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), "garbage")
	assert.ErrorIs(t, err, domain.ErrInvalidRefreshToken)

	// 签名合法但与库中不一致（模拟旧 token）
	stored, _ := repo.FindByID(context.Background(), u.ID)
	stored.RefreshToken = "something-else"
	require.NoError(t, repo.Update(context.Background(), stored))

	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrInvalidRefreshToken)
}

func TestLogout_ClearsStoredToken(t *testing.T) {
	t.Parallel()
	svc, repo := newTestService()

	u, pair, err := svc.Register(context.Background(), "A", "a@x.com", "secret1")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), pair.RefreshToken))

	stored, _ := repo.FindByID(context.Background(), u.ID)
	assert.Empty(t, stored.RefreshToken)

	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrInvalidRefreshToken)
}

func TestLogout_UnknownTokenIsNoop(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()
	assert.NoError(t, svc.Logout(context.Background(), ""))
	assert.NoError(t, svc.Logout(context.Background(), "never-issued"))
}
