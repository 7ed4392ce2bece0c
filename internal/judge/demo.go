package judge

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"strconv"
	"strings"
	"sync"

	"survival-index/internal/domain"
	"survival-index/internal/scoring"
)

// DemoModeKey 模型凭证等于该值时不调用模型，改用模拟评分
const DemoModeKey = "demo_mode"

// DemoModelName 演示模式写入评分记录的模型标识
const DemoModelName = "demo"

// RandomSource 演示评分使用的随机源，返回 [0,1) 区间的数
type RandomSource interface {
	Float64() float64
}

// 知名项目有额外加成 (名称精确匹配)
var famousProjects = map[string]bool{
	"PostgreSQL": true,
	"Git":        true,
	"Redis":      true,
	"Docker":     true,
	"Kubernetes": true,
	"SQLite":     true,
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// Synthesizer 在演示模式下生成看起来合理的评分
type Synthesizer struct {
	mu  sync.Mutex
	rnd RandomSource
}

// NewSynthesizer rnd 为 nil 时使用全局随机源
func NewSynthesizer(rnd RandomSource) *Synthesizer {
	if rnd == nil {
		rnd = globalSource{}
	}
	return &Synthesizer{rnd: rnd}
}

// NewSeededSynthesizer 相同 seed 产生相同的评分序列
func NewSeededSynthesizer(seed uint64) *Synthesizer {
	return NewSynthesizer(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

func (s *Synthesizer) next() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Float64()
}

// Synthesize 根据项目特征生成六个杠杆的模拟分数、理由和建议
func (s *Synthesizer) Synthesize(p domain.Project, metrics *domain.ExternalMetrics) *domain.JudgeResult {
	ic := 7.0 + s.next()*2
	se := 7.5 + s.next()*2
	bu := 7.0 + s.next()*2.5
	aw := 6.5 + s.next()*2.5
	af := 7.0 + s.next()*2
	hc := 6.5 + s.next()*2.5

	if famousProjects[p.Name] {
		ic += 1.5
		aw += 2.0
		bu += 1.5
	}
	established := p.CreatedBefore(2010)
	if established {
		ic += 1.0
		hc += 1.0
	}
	if p.IsOpenSource() {
		aw += 0.5
		af += 0.5
	}
	if metrics != nil && metrics.Stars > 10000 {
		aw += 1.0
	}

	scores := domain.LeverScores{
		InsightCompression:  capScore(ic),
		SubstrateEfficiency: capScore(se),
		BroadUtility:        capScore(bu),
		Awareness:           capScore(aw),
		AgentFriction:       capScore(af),
		HumanCoefficient:    capScore(hc),
	}
	confidence := 0.85 + s.next()*0.10

	return &domain.JudgeResult{
		Scores:      scores,
		Confidence:  confidence,
		Reasoning:   demoReasoning(p, metrics, scores, established),
		Suggestions: demoSuggestions(scores),
	}
}

// capScore 先保留一位小数，再封顶 10
func capScore(v float64) float64 {
	return math.Min(10, scoring.Round(v, 1))
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func demoReasoning(p domain.Project, metrics *domain.ExternalMetrics, s domain.LeverScores, established bool) domain.Reasoning {
	stars := ""
	if metrics != nil {
		stars = fmt.Sprintf(" with %d GitHub stars", metrics.Stars)
	}
	access := "Commercial with decent"
	if p.IsOpenSource() {
		access = "Open source with good"
	}
	trust := "appreciate"
	if established {
		trust = "have long trusted"
	}

	overall := []string{fmt.Sprintf("%s shows strong survival characteristics as a %s solution.", p.Name, p.Category)}
	if p.YearCreated != nil && *p.YearCreated != 0 {
		overall = append(overall, fmt.Sprintf("Established in %d.", *p.YearCreated))
	}
	overall = append(overall, "Predicted to remain relevant in the AI era.")

	return domain.Reasoning{
		InsightCompression:  fmt.Sprintf("%s demonstrates strong crystallized knowledge in %s. Score: %s/10", p.Name, p.Category, formatScore(s.InsightCompression)),
		SubstrateEfficiency: fmt.Sprintf("Runs efficiently on standard hardware with good performance characteristics. Score: %s/10", formatScore(s.SubstrateEfficiency)),
		BroadUtility:        fmt.Sprintf("Cross-domain applicability in %s use cases. Score: %s/10", p.Category, formatScore(s.BroadUtility)),
		Awareness:           fmt.Sprintf("Well-known in the %s space%s. Score: %s/10", p.Category, stars, formatScore(s.Awareness)),
		AgentFriction:       fmt.Sprintf("%s API/programmatic access. Score: %s/10", access, formatScore(s.AgentFriction)),
		HumanCoefficient:    fmt.Sprintf("Developers %s this tool. Score: %s/10", trust, formatScore(s.HumanCoefficient)),
		Overall:             strings.Join(overall, " "),
	}
}

// LowestLevers 按分数升序排列杠杆，同分时保持声明顺序
func LowestLevers(s domain.LeverScores) []domain.Lever {
	levers := make([]domain.Lever, len(domain.Levers))
	copy(levers, domain.Levers)
	sort.SliceStable(levers, func(i, j int) bool {
		return s.Get(levers[i]) < s.Get(levers[j])
	})
	return levers
}

func demoSuggestions(s domain.LeverScores) *domain.Suggestions {
	ranked := LowestLevers(s)
	lowest, second := ranked[0], ranked[1]

	return &domain.Suggestions{
		TopPriorities: []string{
			fmt.Sprintf("Improve %s - this is currently the weakest lever at %s/10.", lowest.Humanize(), formatScore(s.Get(lowest))),
			fmt.Sprintf("Focus on %s to boost overall survival score.", second.Humanize()),
			"Maintain strengths in top-performing areas while addressing vulnerabilities.",
		},
		QuickWins: []string{
			"Increase community engagement through documentation and tutorials.",
			"Create more examples and use cases to demonstrate value.",
		},
		LongTerm: []string{
			"Build strategic partnerships to increase awareness and adoption.",
			"Invest in API design and developer experience for better agent integration.",
		},
	}
}
