// Package export writes datasets as JSON Lines files.
package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"survival-index/internal/common"
	"survival-index/internal/domain"
)

// 导出文件名
const (
	ProjectsFile         = "projects.jsonl"
	AIRatingsFile        = "ai-ratings.jsonl"
	CommunityRatingsFile = "community-ratings.jsonl"
	SubmissionsFile      = "submissions.jsonl"
)

// Writer 把记录写到 dir 下，目录不存在时自动创建
type Writer struct {
	dir string
}

func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

func (w *Writer) Dir() string {
	return w.dir
}

// Write 每条记录一行，每行以换行结尾。先写临时文件再重命名，读者不会看到写了一半的文件
func Write[T any](w *Writer, name string, records []T) (domain.ExportFile, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return domain.ExportFile{}, common.WrapError(common.ErrCodeInternal, "创建导出目录失败", err)
	}

	tmp, err := os.CreateTemp(w.dir, "."+name+".*")
	if err != nil {
		return domain.ExportFile{}, common.WrapError(common.ErrCodeInternal, "创建临时文件失败", err)
	}
	defer os.Remove(tmp.Name())

	if err := encode(tmp, records); err != nil {
		tmp.Close()
		return domain.ExportFile{}, common.WrapError(common.ErrCodeInternal, fmt.Sprintf("写入 %s 失败", name), err)
	}
	if err := tmp.Close(); err != nil {
		return domain.ExportFile{}, common.WrapError(common.ErrCodeInternal, fmt.Sprintf("写入 %s 失败", name), err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(w.dir, name)); err != nil {
		return domain.ExportFile{}, common.WrapError(common.ErrCodeInternal, fmt.Sprintf("保存 %s 失败", name), err)
	}

	return domain.ExportFile{Count: len(records), File: name}, nil
}

func encode[T any](f *os.File, records []T) error {
	buf := bufio.NewWriter(f)
	// json.Encoder 每次 Encode 后自动追加换行
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	for i := range records {
		if err := enc.Encode(records[i]); err != nil {
			return err
		}
	}
	return buf.Flush()
}
