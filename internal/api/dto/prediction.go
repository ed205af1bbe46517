package dto

// RangeDTO 整数区间预测
type RangeDTO struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// ImpressionForecastDTO 曝光量预测
type ImpressionForecastDTO struct {
	Min        int     `json:"min"`
	Max        int     `json:"max"`
	Confidence float64 `json:"confidence"`
}

// AuthorEngagementDTO 作者回应概率预测
type AuthorEngagementDTO struct {
	Probability float64 `json:"probability"`
	Confidence  float64 `json:"confidence"`
}

// OutcomePredictionDTO 回复结果预测，每次请求现算，不落库
type OutcomePredictionDTO struct {
	PostID           uint64                `json:"postId"`
	Impressions      ImpressionForecastDTO `json:"impressions"`
	AuthorEngagement AuthorEngagementDTO   `json:"authorEngagement"`
	ProfileClicks    RangeDTO              `json:"profileClicks"`
	Follows          RangeDTO              `json:"follows"`
	Reasoning        []string              `json:"reasoning"`
}
