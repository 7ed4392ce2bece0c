package repository

import (
	"context"
	"time"

	"survival-index/internal/domain"
)

func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	return dbError(s.db.WithContext(ctx).Create(u).Error, "创建用户 %s 失败", u.Email)
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, notFound(err, "user %s not found", email)
	}
	return &u, nil
}

func (s *Store) CreateSession(ctx context.Context, sess *domain.Session) error {
	return dbError(s.db.WithContext(ctx).Omit("User").Create(sess).Error, "创建会话失败")
}

// FindSessionByToken 附带会话所属用户
func (s *Store) FindSessionByToken(ctx context.Context, token string) (*domain.Session, error) {
	var sess domain.Session
	err := s.db.WithContext(ctx).Preload("User").Where("token = ?", token).First(&sess).Error
	if err != nil {
		return nil, notFound(err, "session not found")
	}
	return &sess, nil
}

func (s *Store) DeleteSession(ctx context.Context, token string) error {
	return dbError(s.db.WithContext(ctx).Where("token = ?", token).Delete(&domain.Session{}).Error, "删除会话失败")
}

func (s *Store) DeleteUserSessions(ctx context.Context, userID uint) error {
	return dbError(s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.Session{}).Error, "删除用户 %d 的会话失败", userID)
}

func (s *Store) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&domain.Session{})
	return res.RowsAffected, dbError(res.Error, "清理过期会话失败")
}
