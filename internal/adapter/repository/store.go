package repository

import (
	"errors"
	"fmt"
	"strings"

	"survival-index/internal/common"
	"survival-index/internal/domain"
	"survival-index/internal/port"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Store 用一个 gorm 连接实现所有存储端口
type Store struct {
	db *gorm.DB
}

var (
	_ port.ProjectRepository    = (*Store)(nil)
	_ port.RatingRepository     = (*Store)(nil)
	_ port.SubmissionRepository = (*Store)(nil)
	_ port.UserRepository       = (*Store)(nil)
	_ port.ExportSource         = (*Store)(nil)
)

// Open 连接数据库并自动迁移表结构
func Open(driver, dsn string) (*Store, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres, "":
		dialector = postgres.Open(dsn)
	case DriverSQLite:
		// 外键约束默认关闭，级联删除依赖它
		dialector = sqlite.Open(withPragma(dsn, "foreign_keys(1)"))
	default:
		return nil, common.InvalidInput("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, common.DatabaseError("连接数据库失败", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return NewStore(db), nil
}

// Migrate 建表。Project 必须先于引用它的表
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&domain.Project{},
		&domain.AIRating{},
		&domain.UserRating{},
		&domain.Submission{},
		&domain.User{},
		&domain.Session{},
	)
	if err != nil {
		return common.DatabaseError("数据库迁移失败", err)
	}
	return nil
}

func withPragma(dsn, pragma string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=" + pragma
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB 暴露底层连接，供 seed 等命令使用
func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// notFound 把 gorm 的记录不存在转换成 NOT_FOUND，其他错误视为数据库错误
func notFound(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return common.WrapError(common.ErrCodeNotFound, fmt.Sprintf(format, args...), err)
	}
	return dbError(err, format, args...)
}

func dbError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return common.DatabaseError(fmt.Sprintf(format, args...), err)
}

// paginate 页码从 1 开始
func paginate(page, limit int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page < 1 {
			page = 1
		}
		if limit < 1 {
			return db
		}
		return db.Offset((page - 1) * limit).Limit(limit)
	}
}
