package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"survival-index/internal/common"
	"survival-index/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuth(users *MockUserRepository) *AuthService {
	s := NewAuthService(users, 0)
	s.bcryptCost = bcrypt.MinCost
	s.nowFunc = func() time.Time { return testNow }
	return s
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestAuthService_CreateUser(t *testing.T) {
	users := new(MockUserRepository)
	users.On("FindUserByEmail", mock.Anything, "admin@example.com").Return(nil, common.NotFound("user not found"))
	users.On("CreateUser", mock.Anything, mock.Anything).Return(nil)

	u, err := newTestAuth(users).CreateUser(context.Background(), " Admin@Example.com ", "s3cret", domain.RoleAdmin, "Admin")

	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", u.Email)
	assert.True(t, u.IsAdmin())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret")))
}

func TestAuthService_CreateUser_Errors(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		role     domain.Role
		existing bool
		wantCode string
	}{
		{name: "缺少密码", email: "a@b.c", wantCode: common.ErrCodeValidation},
		{name: "未知角色", email: "a@b.c", password: "x", role: "root", wantCode: common.ErrCodeValidation},
		{name: "邮箱已存在", email: "a@b.c", password: "x", existing: true, wantCode: common.ErrCodeConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			if tt.existing {
				users.On("FindUserByEmail", mock.Anything, tt.email).Return(&domain.User{ID: 1}, nil)
			}

			_, err := newTestAuth(users).CreateUser(context.Background(), tt.email, tt.password, tt.role, "")

			assert.True(t, common.HasCode(err, tt.wantCode), "got %v", err)
			users.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	users := new(MockUserRepository)
	user := &domain.User{ID: 5, Email: "admin@example.com", PasswordHash: hashed(t, "s3cret"), Role: domain.RoleAdmin}
	users.On("FindUserByEmail", mock.Anything, "admin@example.com").Return(user, nil)
	users.On("CreateSession", mock.Anything, mock.MatchedBy(func(s *domain.Session) bool {
		return s.UserID == 5 && s.ExpiresAt.Equal(testNow.Add(7*24*time.Hour))
	})).Return(nil)

	res, err := newTestAuth(users).Login(context.Background(), "admin@example.com", "s3cret")

	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{64}$`), res.Token)
	assert.Equal(t, testNow.Add(7*24*time.Hour), res.ExpiresAt)
	users.AssertExpectations(t)
}

func TestAuthService_Login_Invalid(t *testing.T) {
	users := new(MockUserRepository)
	users.On("FindUserByEmail", mock.Anything, "admin@example.com").
		Return(&domain.User{ID: 5, PasswordHash: hashed(t, "s3cret")}, nil)
	users.On("FindUserByEmail", mock.Anything, "ghost@example.com").Return(nil, common.NotFound("user not found"))
	auth := newTestAuth(users)

	_, err := auth.Login(context.Background(), "admin@example.com", "wrong")
	assert.True(t, common.HasCode(err, common.ErrCodeUnauthorized))

	_, err = auth.Login(context.Background(), "ghost@example.com", "s3cret")
	assert.True(t, common.HasCode(err, common.ErrCodeUnauthorized))
	assert.Equal(t, "Invalid email or password", common.MessageOf(err))

	users.AssertNotCalled(t, "CreateSession", mock.Anything, mock.Anything)
}

func TestAuthService_ValidateSession(t *testing.T) {
	user := domain.User{ID: 5, Email: "a@b.c"}

	t.Run("有效会话", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("FindSessionByToken", mock.Anything, "tok").
			Return(&domain.Session{Token: "tok", ExpiresAt: testNow.Add(time.Hour), User: user}, nil)

		got, err := newTestAuth(users).ValidateSession(context.Background(), "tok")

		require.NoError(t, err)
		assert.Equal(t, uint(5), got.ID)
	})

	t.Run("过期会话被删除", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("FindSessionByToken", mock.Anything, "old").
			Return(&domain.Session{Token: "old", ExpiresAt: testNow.Add(-time.Minute), User: user}, nil)
		users.On("DeleteSession", mock.Anything, "old").Return(nil)

		_, err := newTestAuth(users).ValidateSession(context.Background(), "old")

		assert.True(t, common.HasCode(err, common.ErrCodeUnauthorized))
		users.AssertCalled(t, "DeleteSession", mock.Anything, "old")
	})

	t.Run("未知令牌", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("FindSessionByToken", mock.Anything, "nope").Return(nil, common.NotFound("session not found"))

		_, err := newTestAuth(users).ValidateSession(context.Background(), "nope")

		assert.True(t, common.HasCode(err, common.ErrCodeUnauthorized))
	})

	t.Run("空令牌", func(t *testing.T) {
		_, err := newTestAuth(new(MockUserRepository)).ValidateSession(context.Background(), "")
		assert.True(t, common.HasCode(err, common.ErrCodeUnauthorized))
	})
}

func TestAuthService_CleanupExpiredSessions(t *testing.T) {
	users := new(MockUserRepository)
	users.On("DeleteExpiredSessions", mock.Anything, testNow).Return(int64(3), nil)

	n, err := newTestAuth(users).CleanupExpiredSessions(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
