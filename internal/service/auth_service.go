package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"strings"
	"time"

	"survival-index/internal/common"
	"survival-index/internal/domain"
	"survival-index/internal/logging"
	"survival-index/internal/port"

	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultSessionTTL = 7 * 24 * time.Hour
	tokenBytes        = 32
)

// LoginResult 登录成功后返回给客户端
type LoginResult struct {
	User      *domain.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// AuthService 账号与会话管理，会话令牌是随机 hex 字符串
type AuthService struct {
	users      port.UserRepository
	sessionTTL time.Duration
	bcryptCost int
	nowFunc    func() time.Time
}

func NewAuthService(users port.UserRepository, sessionTTL time.Duration) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	return &AuthService{
		users:      users,
		sessionTTL: sessionTTL,
		bcryptCost: bcrypt.DefaultCost,
		nowFunc:    time.Now,
	}
}

// CreateUser role 为空时创建普通用户
func (s *AuthService) CreateUser(ctx context.Context, email, password string, role domain.Role, name string) (*domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, common.Validation("Email and password are required")
	}
	if role == "" {
		role = domain.RoleUser
	}
	if role != domain.RoleUser && role != domain.RoleAdmin {
		return nil, common.Validation("unknown role %q", role)
	}

	if _, err := s.users.FindUserByEmail(ctx, email); err == nil {
		return nil, common.Conflict("Email already exists")
	} else if !common.HasCode(err, common.ErrCodeNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, common.WrapError(common.ErrCodeInternal, "hash password", err)
	}

	u := &domain.User{Email: email, PasswordHash: string(hash), Role: role, Name: name}
	if err := s.users.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	logging.Info(ctx, "user created", slog.Uint64("user_id", uint64(u.ID)), slog.String("role", string(role)))
	return u, nil
}

// Login 用户不存在和密码错误返回同样的错误
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, common.Validation("Email and password are required")
	}
	invalid := common.Unauthorized("Invalid email or password")

	u, err := s.users.FindUserByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if common.HasCode(err, common.ErrCodeNotFound) {
			return nil, invalid
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, invalid
	}

	token, err := newToken()
	if err != nil {
		return nil, common.WrapError(common.ErrCodeInternal, "generate session token", err)
	}
	sess := &domain.Session{
		UserID:    u.ID,
		Token:     token,
		ExpiresAt: s.nowFunc().UTC().Add(s.sessionTTL),
	}
	if err := s.users.CreateSession(ctx, sess); err != nil {
		return nil, err
	}

	logging.Info(ctx, "user logged in", slog.Uint64("user_id", uint64(u.ID)))
	return &LoginResult{User: u, Token: token, ExpiresAt: sess.ExpiresAt}, nil
}

// ValidateSession 返回会话所属用户。过期的会话会被删除
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, common.Unauthorized("Authentication required")
	}

	sess, err := s.users.FindSessionByToken(ctx, token)
	if err != nil {
		if common.HasCode(err, common.ErrCodeNotFound) {
			return nil, common.Unauthorized("Invalid or expired session")
		}
		return nil, err
	}

	if sess.Expired(s.nowFunc()) {
		if err := s.users.DeleteSession(ctx, token); err != nil {
			logging.Warn(ctx, "failed to delete expired session", slog.Any("error", err))
		}
		return nil, common.Unauthorized("Invalid or expired session")
	}
	return &sess.User, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.users.DeleteSession(ctx, token)
}

func (s *AuthService) LogoutAll(ctx context.Context, userID uint) error {
	return s.users.DeleteUserSessions(ctx, userID)
}

func (s *AuthService) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	return s.users.DeleteExpiredSessions(ctx, s.nowFunc().UTC())
}

func newToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
