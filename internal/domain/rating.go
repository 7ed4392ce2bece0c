package domain

import (
	"fmt"
	"math"
	"time"

	"gorm.io/datatypes"
)

// Lever 六个生存杠杆之一
type Lever string

const (
	LeverInsightCompression  Lever = "insightCompression"
	LeverSubstrateEfficiency Lever = "substrateEfficiency"
	LeverBroadUtility        Lever = "broadUtility"
	LeverAwareness           Lever = "awareness"
	LeverAgentFriction       Lever = "agentFriction"
	LeverHumanCoefficient    Lever = "humanCoefficient"
)

// Levers 固定的声明顺序，排序并列时以此为准
var Levers = []Lever{
	LeverInsightCompression,
	LeverSubstrateEfficiency,
	LeverBroadUtility,
	LeverAwareness,
	LeverAgentFriction,
	LeverHumanCoefficient,
}

// Humanize 把 camelCase 名称转成小写空格形式，例如 "agent friction"
func (l Lever) Humanize() string {
	out := make([]rune, 0, len(l)+2)
	for _, r := range string(l) {
		if r >= 'A' && r <= 'Z' {
			out = append(out, ' ', r+('a'-'A'))
			continue
		}
		out = append(out, r)
	}
	return string(out)
}

// Tier 生存等级
type Tier string

const (
	TierS Tier = "S"
	TierA Tier = "A"
	TierB Tier = "B"
	TierC Tier = "C"
	TierD Tier = "D"
	TierF Tier = "F"
)

// LeverScores 六个杠杆的得分，取值范围 [0,10]
type LeverScores struct {
	InsightCompression  float64 `json:"insightCompression"`
	SubstrateEfficiency float64 `json:"substrateEfficiency"`
	BroadUtility        float64 `json:"broadUtility"`
	Awareness           float64 `json:"awareness"`
	AgentFriction       float64 `json:"agentFriction"`
	HumanCoefficient    float64 `json:"humanCoefficient"`
}

// Get 按杠杆取分
func (s LeverScores) Get(l Lever) float64 {
	switch l {
	case LeverInsightCompression:
		return s.InsightCompression
	case LeverSubstrateEfficiency:
		return s.SubstrateEfficiency
	case LeverBroadUtility:
		return s.BroadUtility
	case LeverAwareness:
		return s.Awareness
	case LeverAgentFriction:
		return s.AgentFriction
	case LeverHumanCoefficient:
		return s.HumanCoefficient
	default:
		return math.NaN()
	}
}

// Validate 任何杠杆超出 [0,10] 或不是有限数都视为无效
func (s LeverScores) Validate() error {
	for _, l := range Levers {
		v := s.Get(l)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s is not a finite number", l)
		}
		if v < 0 || v > 10 {
			return fmt.Errorf("%s must be between 0 and 10, got %v", l, v)
		}
	}
	return nil
}

// Reasoning 每个杠杆的评分理由以及总体评价
type Reasoning struct {
	InsightCompression  string `json:"insightCompression"`
	SubstrateEfficiency string `json:"substrateEfficiency"`
	BroadUtility        string `json:"broadUtility"`
	Awareness           string `json:"awareness"`
	AgentFriction       string `json:"agentFriction"`
	HumanCoefficient    string `json:"humanCoefficient"`
	Overall             string `json:"overall"`
}

// Suggestions 改进建议
type Suggestions struct {
	TopPriorities []string `json:"topPriorities"`
	QuickWins     []string `json:"quickWins"`
	LongTerm      []string `json:"longTerm"`
}

// AIRating 项目当前的 AI 评分，每个项目至多一条，重新评估时整体替换
type AIRating struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	ProjectID uint `json:"projectId" gorm:"uniqueIndex;not null"`

	LeverScores

	SurvivalScore float64                          `json:"survivalScore" gorm:"index"`
	Tier          Tier                             `json:"tier"`
	Confidence    float64                          `json:"confidence"`
	Reasoning     datatypes.JSONType[Reasoning]    `json:"reasoning"`
	Suggestions   *datatypes.JSONType[Suggestions] `json:"suggestions"`
	Model         string                           `json:"model"`

	GithubStars  *int `json:"githubStars"`
	GithubForks  *int `json:"githubForks"`
	GithubIssues *int `json:"githubIssues"`

	LastAnalyzedAt time.Time `json:"lastAnalyzedAt" gorm:"index"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// UserRating 社区用户提交的评分
type UserRating struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	ProjectID uint `json:"projectId" gorm:"index;not null"`

	LeverScores

	UserID    *uint     `json:"userId,omitempty"`
	IPAddress string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// RatingAverages 社区评分的平均值
type RatingAverages struct {
	Count    int64        `json:"count"`
	Averages *LeverScores `json:"averages"`
}

// ExternalMetrics 代码托管平台上的仓库指标，只在一次评估中使用，不落库
type ExternalMetrics struct {
	Stars              int        `json:"stars"`
	Forks              int        `json:"forks"`
	OpenIssues         int        `json:"openIssues"`
	Watchers           int        `json:"watchers"`
	Language           string     `json:"language,omitempty"`
	Size               int        `json:"size"`
	HasWiki            bool       `json:"hasWiki"`
	HasPages           bool       `json:"hasPages"`
	Topics             []string   `json:"topics"`
	CreatedAt          *time.Time `json:"createdAt,omitempty"`
	UpdatedAt          *time.Time `json:"updatedAt,omitempty"`
	PushedAt           *time.Time `json:"pushedAt,omitempty"`
	License            string     `json:"license,omitempty"`
	Description        string     `json:"description,omitempty"`
	RecentCommitsCount int        `json:"recentCommitsCount"`
	IsActive           bool       `json:"isActive"`
}

// JudgeResult 模型 (或演示模式) 给出的原始评分
type JudgeResult struct {
	Scores      LeverScores  `json:"scores"`
	Confidence  float64      `json:"confidence"`
	Reasoning   Reasoning    `json:"reasoning"`
	Suggestions *Suggestions `json:"suggestions,omitempty"`
}

// EvaluationResult 一次完整评估的结果
type EvaluationResult struct {
	Scores        LeverScores      `json:"scores"`
	SurvivalScore float64          `json:"survivalScore"`
	Tier          Tier             `json:"tier"`
	Confidence    float64          `json:"confidence"`
	Reasoning     Reasoning        `json:"reasoning"`
	Suggestions   *Suggestions     `json:"suggestions,omitempty"`
	Model         string           `json:"model"`
	Metrics       *ExternalMetrics `json:"githubData,omitempty"`
	AnalyzedAt    time.Time        `json:"analyzedAt"`
}

// ToRating 转换为待持久化的评分记录
func (r *EvaluationResult) ToRating(projectID uint) *AIRating {
	rating := &AIRating{
		ProjectID:      projectID,
		LeverScores:    r.Scores,
		SurvivalScore:  r.SurvivalScore,
		Tier:           r.Tier,
		Confidence:     r.Confidence,
		Reasoning:      datatypes.NewJSONType(r.Reasoning),
		Model:          r.Model,
		LastAnalyzedAt: r.AnalyzedAt,
	}
	if r.Suggestions != nil {
		s := datatypes.NewJSONType(*r.Suggestions)
		rating.Suggestions = &s
	}
	if r.Metrics != nil {
		stars, forks, issues := r.Metrics.Stars, r.Metrics.Forks, r.Metrics.OpenIssues
		rating.GithubStars = &stars
		rating.GithubForks = &forks
		rating.GithubIssues = &issues
	}
	return rating
}
