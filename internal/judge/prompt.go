package judge

import (
	"fmt"
	"strings"

	"survival-index/internal/domain"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var numbers = message.NewPrinter(language.English)

// BuildPrompt 渲染评委 prompt。metrics 为 nil 时省略 GitHub 指标段落
func BuildPrompt(p domain.Project, metrics *domain.ExternalMetrics) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are an AI Judge for SurvivalIndex.org, a platform that rates software's likelihood of survival in the AI era.

Your task is to evaluate the software project "%s" across 6 critical survival levers and provide scores from 0-10 for each.

## PROJECT INFORMATION

**Name:** %s
**Type:** %s
**Category:** %s
**Description:** %s
**Website:** %s
**GitHub:** %s
**Tags:** %s
**Year Created:** %s

`,
		p.Name,
		p.Name,
		p.Type,
		p.Category,
		p.Description,
		orDefault(p.URL, "N/A"),
		orDefault(p.GithubURL, "N/A"),
		orDefault(p.Tags, "N/A"),
		yearOrUnknown(p.YearCreated),
	)

	if metrics != nil {
		active := "No"
		if metrics.IsActive {
			active = "Yes"
		}
		fmt.Fprintf(&b, `
## GITHUB METRICS

- **Stars:** %s
- **Forks:** %s
- **Open Issues:** %d
- **Language:** %s
- **License:** %s
- **Recent Activity:** %d commits in last 90 days
- **Active Development:** %s
- **Topics:** %s
`,
			numbers.Sprintf("%d", metrics.Stars),
			numbers.Sprintf("%d", metrics.Forks),
			metrics.OpenIssues,
			orDefault(metrics.Language, "N/A"),
			orDefault(metrics.License, "None"),
			metrics.RecentCommitsCount,
			active,
			orDefault(strings.Join(metrics.Topics, ", "), "None"),
		)
	}

	b.WriteString(leversAndContract)
	return b.String()
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func yearOrUnknown(y *int) string {
	if y == nil || *y == 0 {
		return "Unknown"
	}
	return fmt.Sprintf("%d", *y)
}

const leversAndContract = "\n## THE 6 SURVIVAL LEVERS\n\n" +
	`Evaluate each lever on a scale of 0-10:

### 1. Insight Compression (Weight: 20%)
**Definition:** The density of crystallized, hard-won knowledge encoded in the software.
- How much deep, specialized knowledge is embedded?
- Is this knowledge difficult to recreate?
- Does it capture years of domain expertise?
**Examples:** PostgreSQL (9.5), Git (9.2), Redis (8.8)

### 2. Substrate Efficiency (Weight: 18%)
**Definition:** How efficiently it runs on commodity hardware vs. requiring specialized resources.
- CPU-friendly = higher score
- GPU-dependent = lower score
- Consider memory, storage, and compute requirements
**Examples:** SQLite (9.8), VS Code (8.5), TensorFlow (5.2)

### 3. Broad Utility (Weight: 22%)
**Definition:** Cross-domain applicability and versatility.
- Can it be used across multiple industries/use-cases?
- Is it a general-purpose tool or niche-specific?
- Does it solve fundamental vs. specialized problems?
**Examples:** Python (9.7), PostgreSQL (9.5), Stripe (8.9)

### 4. Awareness/Publicity (Weight: 15%)
**Definition:** Discoverability and mindshare in the developer ecosystem.
- GitHub stars, community size, brand recognition
- Documentation quality and accessibility
- Presence in tutorials, courses, and discussions
**Examples:** React (9.8), Docker (9.5), Tailwind (8.7)

### 5. Agent Friction (Weight: 15%)
**Definition:** How easy it is for AI agents to use/integrate (LOWER is better, but score HIGH for low friction).
- API quality: RESTful, well-documented, consistent
- Programmatic access: SDKs, clear interfaces
- Complexity: Simple = high score, complex UI-dependent = low score
**Scoring:** Low friction (easy for agents) = HIGH score (8-10), High friction = LOW score (2-4)
**Examples:** Stripe (9.5), PostgreSQL (9.0), Photoshop (3.5)

### 6. Human Coefficient (Weight: 10%)
**Definition:** Enduring human preference and irreplaceable human value.
- Do humans *prefer* this over alternatives?
- Does it match human cognitive models/workflows?
- Is there emotional attachment or brand loyalty?
**Examples:** Git (9.0), Notion (8.5), Figma (8.8)

## OUTPUT FORMAT

Respond ONLY with valid JSON in this exact format:

` + "```json" + `
{
  "scores": {
    "insightCompression": 8.5,
    "substrateEfficiency": 7.2,
    "broadUtility": 9.0,
    "awareness": 8.8,
    "agentFriction": 7.5,
    "humanCoefficient": 8.0
  },
  "confidence": 0.85,
  "reasoning": {
    "insightCompression": "Brief explanation of score...",
    "substrateEfficiency": "Brief explanation of score...",
    "broadUtility": "Brief explanation of score...",
    "awareness": "Brief explanation of score...",
    "agentFriction": "Brief explanation of score...",
    "humanCoefficient": "Brief explanation of score...",
    "overall": "Overall survival assessment in 2-3 sentences..."
  },
  "suggestions": {
    "topPriorities": [
      "Most critical improvement needed (1-2 sentences)",
      "Second most important action (1-2 sentences)",
      "Third priority improvement (1-2 sentences)"
    ],
    "quickWins": [
      "Easy improvement that could boost score (1 sentence)",
      "Another quick win (1 sentence)"
    ],
    "longTerm": [
      "Strategic improvement for long-term survival (1-2 sentences)",
      "Another long-term recommendation (1-2 sentences)"
    ]
  }
}
` + "```" + `

**IMPORTANT:**
- Scores must be numbers between 0 and 10 (can include decimals)
- Confidence must be between 0 and 1
- Be critical and realistic - not everything deserves 8+
- Consider both current state and future AI landscape
- Reasoning should be concise but insightful
- Suggestions should be specific, actionable, and prioritized by impact
- Focus suggestions on the lowest-scoring levers that would have the biggest impact`
