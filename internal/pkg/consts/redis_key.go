package consts

const (
	PostDirtyKey           = "post:dirty"
	PostScoreKey           = "post:score:"
	PostDecayKey           = "post:decay:"
	SnapshotLastCaptureKey = "snapshot:last:"
	AlertDailyCountKey     = "alert:count:"
)

const (
	LearningLock = "lock:learning:"
)
