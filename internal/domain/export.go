package domain

// AIRatingExport 导出时附带项目名称
type AIRatingExport struct {
	AIRating
	ProjectName string `json:"projectName"`
}

// UserRatingExport 导出时附带项目名称
type UserRatingExport struct {
	UserRating
	ProjectName string `json:"projectName"`
}

type ExportStats struct {
	Projects           int64 `json:"projects"`
	AIRatings          int64 `json:"aiRatings"`
	CommunityRatings   int64 `json:"communityRatings"`
	PendingSubmissions int64 `json:"pendingSubmissions"`
}

// ExportFile 一次导出写出的文件
type ExportFile struct {
	Count int    `json:"count"`
	File  string `json:"file"`
}
