package cron

import (
	"Replyradar/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine            *cron.Cron
	scoreRecomputeJob *job.ScoreRecomputeJob
	alertSweepJob     *job.AlertSweepJob
}

func NewCronManager(scoreRecomputeJob *job.ScoreRecomputeJob, alertSweepJob *job.AlertSweepJob) *Manager {
	return &Manager{
		engine:            cron.New(cron.WithSeconds()),
		scoreRecomputeJob: scoreRecomputeJob,
		alertSweepJob:     alertSweepJob,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob("@every 1m", s.scoreRecomputeJob); err != nil {
		return err
	}
	if _, err := s.engine.AddJob("@every 5m", s.alertSweepJob); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	s.engine.Stop()
}
