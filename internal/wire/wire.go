package wire

import (
	"Replyradar/internal/api"
	"Replyradar/internal/api/config"
	"Replyradar/internal/api/handler"
	"Replyradar/internal/job"
	"Replyradar/internal/pkg/cron"
	"Replyradar/internal/pkg/kafka"
	mongopkg "Replyradar/internal/pkg/mongo"
	"Replyradar/internal/pkg/notify"
	"Replyradar/internal/repository"
	"Replyradar/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	KafkaManager *kafka.ConsumerManager
	CronMgr      *cron.Manager
}

func BuildApplication(db *gorm.DB, mongoDB *mongo.Database, cfg *config.Config) (*ApplicationContainer, error) {
	postRepo := repository.NewTrackedPostRepo(db)
	snapshotRepo := repository.NewSnapshotRepo(db)
	scoreRepo := repository.NewScoreRepo(db)
	decayRepo := repository.NewDecayRepo(db)
	learningRepo := repository.NewLearningRepo(db)
	alertRepo := repository.NewAlertRepo(db)
	preferencesRepo := repository.NewPreferencesRepo(db)
	outcomeRepo := repository.NewOutcomeRepo(db)
	signalRepo := mongopkg.NewLearningSignalRepo(mongoDB)

	notifier := notify.NewWebhookNotifier(cfg.Notify)

	trackingService := service.NewTrackingService(cfg.Engine.Realtime, postRepo, snapshotRepo)
	scoringService := service.NewScoringService(cfg.Engine.Scoring, cfg.Engine.Learning, postRepo, snapshotRepo, scoreRepo, learningRepo)
	realtimeService := service.NewRealtimeService(cfg.Engine.Realtime, snapshotRepo)
	decayService := service.NewDecayService(cfg.Engine.Decay, postRepo, snapshotRepo, decayRepo)
	opportunityService := service.NewOpportunityService(scoringService, realtimeService, decayService)
	predictionService := service.NewPredictionService(cfg.Engine.Prediction, postRepo, scoreRepo, decayRepo, learningRepo)
	learningService := service.NewLearningService(cfg.Engine.Learning, learningRepo, outcomeRepo, postRepo, signalRepo)
	alertService := service.NewAlertService(cfg.Engine.Alert, alertRepo, preferencesRepo, scoreRepo, decayRepo, postRepo, signalRepo, notifier)
	preferencesService := service.NewPreferencesService(cfg.Engine.Alert, preferencesRepo)

	handlers := &api.HandlersGroup{
		TrackingHandler:    handler.NewTrackingHandler(trackingService),
		OpportunityHandler: handler.NewOpportunityHandler(opportunityService, scoringService, decayService),
		PredictionHandler:  handler.NewPredictionHandler(predictionService),
		LearningHandler:    handler.NewLearningHandler(learningService),
		AlertHandler:       handler.NewAlertHandler(alertService),
		PreferencesHandler: handler.NewPreferencesHandler(preferencesService),
	}

	router := api.SetupRouter(handlers)

	kafkaMgr, err := kafka.NewConsumerManager(cfg, trackingService, learningService)
	if err != nil {
		return nil, err
	}

	scoreRecomputeJob := job.NewScoreRecomputeJob(scoringService, decayService)
	alertSweepJob := job.NewAlertSweepJob(alertService, preferencesRepo, postRepo)
	cronMgr := cron.NewCronManager(scoreRecomputeJob, alertSweepJob)

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		KafkaManager: kafkaMgr,
		CronMgr:      cronMgr,
	}, nil
}
