package consts

import "time"

const (
	// ScoreCacheTTL 最新评分缓存时长
	ScoreCacheTTL = 10 * time.Minute
	// AlertCountTTL 每日告警计数键的兜底过期时长
	AlertCountTTL = 48 * time.Hour
	// LearningLockTTL 学习流水单用户串行锁时长
	LearningLockTTL = 10 * time.Second
)
