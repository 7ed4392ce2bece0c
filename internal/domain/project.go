package domain

import (
	"fmt"
	"time"
)

// ProjectType 项目的发行形态
type ProjectType string

const (
	ProjectTypeOpenSource ProjectType = "open-source"
	ProjectTypeSaaS       ProjectType = "saas"
	ProjectTypeHybrid     ProjectType = "hybrid"
)

// ParseProjectType 严格匹配，未知取值一律报错
func ParseProjectType(s string) (ProjectType, error) {
	switch ProjectType(s) {
	case ProjectTypeOpenSource, ProjectTypeSaaS, ProjectTypeHybrid:
		return ProjectType(s), nil
	default:
		return "", fmt.Errorf("unknown project type %q", s)
	}
}

// Category 项目所属领域 (固定的封闭列表)
type Category string

const (
	CategoryDatabases         Category = "Databases & Data Storage"
	CategoryWebFrameworks     Category = "Web Frameworks & Libraries"
	CategoryBackendFrameworks Category = "Backend & API Frameworks"
	CategoryDevOps            Category = "DevOps & Infrastructure"
	CategoryAIML              Category = "AI & Machine Learning"
	CategoryCollaboration     Category = "Collaboration & Productivity"
	CategoryDeveloperTools    Category = "Developer Tools"
	CategorySecurity          Category = "Security & Authentication"
	CategoryContent           Category = "Content Management"
	CategoryMessaging         Category = "Communication & Messaging"
	CategoryDesign            Category = "Design & Creative Tools"
	CategoryMonitoring        Category = "Analytics & Monitoring"
	CategoryCommerce          Category = "E-commerce & Payments"
	CategoryMobile            Category = "Mobile Development"
	CategoryTesting           Category = "Testing & QA"
	CategoryCloud             Category = "Cloud & Hosting"
	CategoryNetworking        Category = "Networking & Protocols"
	CategoryDataScience       Category = "Data Science & Analytics"
	CategoryIoT               Category = "IoT & Embedded Systems"
	CategoryGaming            Category = "Gaming & Graphics"
	CategoryMedia             Category = "Audio & Video"
	CategoryBlockchain        Category = "Blockchain & Web3"
	CategoryEducation         Category = "Education & Learning"
	CategoryHealthcare        Category = "Healthcare & Medical"
	CategoryFinance           Category = "Finance & Accounting"
)

// Categories 按展示顺序列出全部分类
var Categories = []Category{
	CategoryDatabases, CategoryWebFrameworks, CategoryBackendFrameworks, CategoryDevOps,
	CategoryAIML, CategoryCollaboration, CategoryDeveloperTools, CategorySecurity,
	CategoryContent, CategoryMessaging, CategoryDesign, CategoryMonitoring,
	CategoryCommerce, CategoryMobile, CategoryTesting, CategoryCloud,
	CategoryNetworking, CategoryDataScience, CategoryIoT, CategoryGaming,
	CategoryMedia, CategoryBlockchain, CategoryEducation, CategoryHealthcare,
	CategoryFinance,
}

// ParseCategory 严格匹配分类名称
func ParseCategory(s string) (Category, error) {
	switch c := Category(s); c {
	case CategoryDatabases, CategoryWebFrameworks, CategoryBackendFrameworks, CategoryDevOps,
		CategoryAIML, CategoryCollaboration, CategoryDeveloperTools, CategorySecurity,
		CategoryContent, CategoryMessaging, CategoryDesign, CategoryMonitoring,
		CategoryCommerce, CategoryMobile, CategoryTesting, CategoryCloud,
		CategoryNetworking, CategoryDataScience, CategoryIoT, CategoryGaming,
		CategoryMedia, CategoryBlockchain, CategoryEducation, CategoryHealthcare,
		CategoryFinance:
		return c, nil
	default:
		return "", fmt.Errorf("unknown category %q", s)
	}
}

// DefaultLogo 投稿未提供图标时使用
const DefaultLogo = "📦"

// Project 被评估的软件项目
type Project struct {
	ID            uint        `json:"id" gorm:"primaryKey"`
	Name          string      `json:"name" gorm:"uniqueIndex;not null"`
	Type          ProjectType `json:"type" gorm:"not null"`
	Category      Category    `json:"category" gorm:"not null;index"`
	Description   string      `json:"description" gorm:"type:text;not null"`
	URL           string      `json:"url,omitempty"`
	GithubURL     string      `json:"githubUrl,omitempty"`
	Logo          string      `json:"logo,omitempty"`
	Tags          string      `json:"tags,omitempty"` // 逗号分隔
	YearCreated   *int        `json:"yearCreated,omitempty"`
	SelfHostable  bool        `json:"selfHostable"`
	License       string      `json:"license,omitempty"`
	TechStack     string      `json:"techStack,omitempty"`
	AlternativeTo string      `json:"alternativeTo,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`

	AIRating    *AIRating    `json:"aiRating,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	UserRatings []UserRating `json:"userRatings,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

// IsOpenSource 开源项目在演示评分中有额外加成
func (p *Project) IsOpenSource() bool {
	return p.Type == ProjectTypeOpenSource
}

// CreatedBefore 项目创建年份早于 year 时返回 true，年份未知视为 false
func (p *Project) CreatedBefore(year int) bool {
	return p.YearCreated != nil && *p.YearCreated < year
}

// ProjectFilter 列表查询条件
type ProjectFilter struct {
	Type     ProjectType
	Category Category
	MinScore *float64
	MaxScore *float64
	Page     int
	Limit    int
}

// Pagination 分页元信息
type Pagination struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// NewPagination 根据总数计算分页信息
func NewPagination(page, limit int, total int64) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{
		Page:        page,
		Limit:       limit,
		Total:       total,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}
