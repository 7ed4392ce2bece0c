package judge

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"survival-index/internal/common"
	"survival-index/internal/domain"
)

// 模型有时会把 JSON 包在 ```json ... ``` 里
var fencedBlock = regexp.MustCompile("(?s)```(?:json)?[ \\t]*\\r?\\n(.*?)\\r?\\n?[ \\t]*```")

// 用指针区分“缺失”和“零值”
type rawScores struct {
	InsightCompression  *float64 `json:"insightCompression"`
	SubstrateEfficiency *float64 `json:"substrateEfficiency"`
	BroadUtility        *float64 `json:"broadUtility"`
	Awareness           *float64 `json:"awareness"`
	AgentFriction       *float64 `json:"agentFriction"`
	HumanCoefficient    *float64 `json:"humanCoefficient"`
}

type rawResult struct {
	Scores      *rawScores          `json:"scores"`
	Confidence  *float64            `json:"confidence"`
	Reasoning   *domain.Reasoning   `json:"reasoning"`
	Suggestions *domain.Suggestions `json:"suggestions"`
}

// Parse 把模型的原始输出解析为 JudgeResult。
// 结构不完整 (包括任一杠杆缺失) 一律返回 PARSE_ERROR，不接受部分结果。
// 分值范围由调用方校验。
func Parse(text string) (*domain.JudgeResult, error) {
	body, ok := extractJSON(text)
	if !ok {
		return nil, common.ParseError("failed to parse AI response", errors.New("no JSON object found"))
	}

	var raw rawResult
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil, common.ParseError("failed to parse AI response", err)
	}

	if raw.Scores == nil || raw.Confidence == nil || raw.Reasoning == nil {
		return nil, common.ParseError("invalid response structure", errors.New("scores, confidence and reasoning are required"))
	}

	scores, err := raw.Scores.toLeverScores()
	if err != nil {
		return nil, common.ParseError("invalid response structure", err)
	}

	return &domain.JudgeResult{
		Scores:      scores,
		Confidence:  *raw.Confidence,
		Reasoning:   *raw.Reasoning,
		Suggestions: raw.Suggestions,
	}, nil
}

func (r *rawScores) toLeverScores() (domain.LeverScores, error) {
	fields := []struct {
		lever domain.Lever
		value *float64
	}{
		{domain.LeverInsightCompression, r.InsightCompression},
		{domain.LeverSubstrateEfficiency, r.SubstrateEfficiency},
		{domain.LeverBroadUtility, r.BroadUtility},
		{domain.LeverAwareness, r.Awareness},
		{domain.LeverAgentFriction, r.AgentFriction},
		{domain.LeverHumanCoefficient, r.HumanCoefficient},
	}
	for _, f := range fields {
		if f.value == nil {
			return domain.LeverScores{}, fmt.Errorf("missing score for %s", f.lever)
		}
	}

	return domain.LeverScores{
		InsightCompression:  *r.InsightCompression,
		SubstrateEfficiency: *r.SubstrateEfficiency,
		BroadUtility:        *r.BroadUtility,
		Awareness:           *r.Awareness,
		AgentFriction:       *r.AgentFriction,
		HumanCoefficient:    *r.HumanCoefficient,
	}, nil
}

// extractJSON 优先取代码块内容，再截取第一个 '{' 到最后一个 '}'
func extractJSON(text string) (string, bool) {
	body := text
	if m := fencedBlock.FindStringSubmatch(text); m != nil {
		body = m[1]
	}

	start := strings.Index(body, "{")
	end := strings.LastIndex(body, "}")
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	return body[start : end+1], true
}
