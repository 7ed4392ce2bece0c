package domain

// EvaluationOutcome 单个项目评估并入库后的结果
type EvaluationOutcome struct {
	Project    *Project          `json:"project"`
	AIRating   *AIRating         `json:"aiRating"`
	Evaluation *EvaluationResult `json:"evaluation"`
}

// BatchFailure 批量评估中失败的条目
type BatchFailure struct {
	ProjectID uint   `json:"projectId"`
	Error     string `json:"error"`
}

type BatchStats struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// BatchResult 批量评估汇总，单个失败不影响其他条目
type BatchResult struct {
	Successful []*EvaluationOutcome `json:"successful"`
	Failed     []BatchFailure       `json:"failed"`
	Stats      BatchStats           `json:"stats"`
}
