package domain

import (
	"fmt"
	"time"
)

// SubmissionStatus 投稿的审核状态
type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionApproved SubmissionStatus = "approved"
	SubmissionRejected SubmissionStatus = "rejected"
)

func ParseSubmissionStatus(s string) (SubmissionStatus, error) {
	switch SubmissionStatus(s) {
	case SubmissionPending, SubmissionApproved, SubmissionRejected:
		return SubmissionStatus(s), nil
	default:
		return "", fmt.Errorf("unknown submission status %q", s)
	}
}

// Submission 用户提交、等待管理员审核的项目
type Submission struct {
	ID            uint        `json:"id" gorm:"primaryKey"`
	Name          string      `json:"name" gorm:"index;not null"`
	Type          ProjectType `json:"type" gorm:"not null"`
	Category      Category    `json:"category" gorm:"not null"`
	Description   string      `json:"description" gorm:"type:text;not null"`
	URL           string      `json:"url,omitempty"`
	GithubURL     string      `json:"githubUrl,omitempty"`
	Logo          string      `json:"logo,omitempty"`
	Tags          string      `json:"tags,omitempty"`
	YearCreated   *int        `json:"yearCreated,omitempty"`
	SelfHostable  bool        `json:"selfHostable"`
	License       string      `json:"license,omitempty"`
	TechStack     string      `json:"techStack,omitempty"`
	AlternativeTo string      `json:"alternativeTo,omitempty"`

	SubmittedBy    string `json:"submittedBy,omitempty"`
	SubmitterEmail string `json:"submitterEmail,omitempty"`

	Status          SubmissionStatus `json:"status" gorm:"index;not null;default:pending"`
	ReviewedBy      *uint            `json:"reviewedBy,omitempty"`
	ReviewedAt      *time.Time       `json:"reviewedAt,omitempty"`
	ReviewNotes     string           `json:"reviewNotes,omitempty"`
	RejectionReason string           `json:"rejectionReason,omitempty"`
	ProjectID       *uint            `json:"projectId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName 保持与原有数据表名一致
func (Submission) TableName() string {
	return "project_submissions"
}

// IsPending 只有待审核的投稿可以被批准或拒绝
func (s *Submission) IsPending() bool {
	return s.Status == SubmissionPending
}

// ToProject 用投稿内容构造新项目
func (s *Submission) ToProject() *Project {
	return &Project{
		Name:          s.Name,
		Type:          s.Type,
		Category:      s.Category,
		Description:   s.Description,
		URL:           s.URL,
		GithubURL:     s.GithubURL,
		Logo:          s.Logo,
		Tags:          s.Tags,
		YearCreated:   s.YearCreated,
		SelfHostable:  s.SelfHostable,
		License:       s.License,
		TechStack:     s.TechStack,
		AlternativeTo: s.AlternativeTo,
	}
}
