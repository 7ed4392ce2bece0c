package service

import (
	"context"
	"log/slog"
	"time"

	"survival-index/internal/adapter/export"
	"survival-index/internal/domain"
	"survival-index/internal/logging"
	"survival-index/internal/port"
)

// ExportAllResult 一次全量导出写出的文件
type ExportAllResult struct {
	Timestamp time.Time           `json:"timestamp"`
	Exports   []domain.ExportFile `json:"exports"`
}

// ExportService 把数据集导出成 JSONL 文件
type ExportService struct {
	source  port.ExportSource
	writer  *export.Writer
	nowFunc func() time.Time
}

func NewExportService(source port.ExportSource, writer *export.Writer) *ExportService {
	return &ExportService{source: source, writer: writer, nowFunc: time.Now}
}

func (s *ExportService) ExportProjects(ctx context.Context) (domain.ExportFile, error) {
	projects, err := s.source.ExportProjects(ctx)
	if err != nil {
		return domain.ExportFile{}, err
	}
	return s.write(ctx, export.ProjectsFile, func() (domain.ExportFile, error) {
		return export.Write(s.writer, export.ProjectsFile, projects)
	})
}

func (s *ExportService) ExportAIRatings(ctx context.Context) (domain.ExportFile, error) {
	ratings, err := s.source.ExportAIRatings(ctx)
	if err != nil {
		return domain.ExportFile{}, err
	}
	return s.write(ctx, export.AIRatingsFile, func() (domain.ExportFile, error) {
		return export.Write(s.writer, export.AIRatingsFile, ratings)
	})
}

func (s *ExportService) ExportCommunityRatings(ctx context.Context) (domain.ExportFile, error) {
	ratings, err := s.source.ExportUserRatings(ctx)
	if err != nil {
		return domain.ExportFile{}, err
	}
	return s.write(ctx, export.CommunityRatingsFile, func() (domain.ExportFile, error) {
		return export.Write(s.writer, export.CommunityRatingsFile, ratings)
	})
}

// ExportSubmissions 只导出待审核的投稿
func (s *ExportService) ExportSubmissions(ctx context.Context) (domain.ExportFile, error) {
	subs, err := s.source.ExportPendingSubmissions(ctx)
	if err != nil {
		return domain.ExportFile{}, err
	}
	return s.write(ctx, export.SubmissionsFile, func() (domain.ExportFile, error) {
		return export.Write(s.writer, export.SubmissionsFile, subs)
	})
}

// ExportAll 依次导出四个数据集，任何一个失败即返回
func (s *ExportService) ExportAll(ctx context.Context) (*ExportAllResult, error) {
	steps := []func(context.Context) (domain.ExportFile, error){
		s.ExportProjects,
		s.ExportAIRatings,
		s.ExportCommunityRatings,
		s.ExportSubmissions,
	}
	result := &ExportAllResult{Timestamp: s.nowFunc().UTC(), Exports: make([]domain.ExportFile, 0, len(steps))}
	for _, step := range steps {
		f, err := step(ctx)
		if err != nil {
			return nil, err
		}
		result.Exports = append(result.Exports, f)
	}
	return result, nil
}

func (s *ExportService) Stats(ctx context.Context) (*domain.ExportStats, error) {
	return s.source.ExportStats(ctx)
}

func (s *ExportService) write(ctx context.Context, name string, fn func() (domain.ExportFile, error)) (domain.ExportFile, error) {
	f, err := fn()
	if err != nil {
		return domain.ExportFile{}, err
	}
	logging.Info(ctx, "dataset exported", slog.String("file", name), slog.Int("count", f.Count), slog.String("dir", s.writer.Dir()))
	return f, nil
}
