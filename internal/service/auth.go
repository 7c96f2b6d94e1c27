package service

import (
	"context"
	"strings"

	"go-auth-api/internal/core/auth"
	"go-auth-api/internal/domain"
	"go-auth-api/pkg/utils"
)

// AuthService 负责凭证校验与 token 生命周期；HTTP 层只做状态码映射
type AuthService struct {
	users  domain.UserRepository
	tokens *auth.Tokens
}

func NewAuthService(users domain.UserRepository, tokens *auth.Tokens) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Register 建号即登录：创建用户并签发一对 token
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, auth.Pair, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	// 先查一次给出友好 409；并发窗口由唯一索引兜底（repo 返回 ErrEmailTaken）
	if existing, err := s.users.FindByEmail(ctx, email); err != nil {
		return nil, auth.Pair{}, err
	} else if existing != nil {
		return nil, auth.Pair{}, domain.ErrEmailTaken
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, auth.Pair{}, err
	}
	u := &domain.User{
		ID:           utils.NewID(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, auth.Pair{}, err
	}
	return s.startSession(ctx, u)
}

// Login 校验密码并轮换 refresh token：旧会话随之失效
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, auth.Pair, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, auth.Pair{}, err
	}
	// 查无此人和密码错误给同一个错误，避免账号枚举
	if u == nil || !utils.CheckPassword(password, u.PasswordHash) {
		return nil, auth.Pair{}, domain.ErrInvalidCredentials
	}
	return s.startSession(ctx, u)
}

func (s *AuthService) startSession(ctx context.Context, u *domain.User) (*domain.User, auth.Pair, error) {
	pair, err := s.tokens.IssuePair(u.ID)
	if err != nil {
		return nil, auth.Pair{}, err
	}
	u.RefreshToken = pair.RefreshToken
	if err := s.users.Update(ctx, u); err != nil {
		return nil, auth.Pair{}, err
	}
	return u, pair, nil
}

// Refresh 验签 + 与库中存的值精确比对，只换发 access token
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return "", domain.ErrInvalidRefreshToken
	}
	u, err := s.users.FindByID(ctx, claims.UID)
	if err != nil {
		return "", err
	}
	if u == nil || u.RefreshToken != refreshToken {
		return "", domain.ErrInvalidRefreshToken
	}
	return s.tokens.IssueAccess(u.ID)
}

// Logout 尽力而为：找得到就清掉库里的 refresh token，找不到也算成功
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	u, err := s.users.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		return err
	}
	if u == nil {
		return nil
	}
	u.RefreshToken = ""
	return s.users.Update(ctx, u)
}
