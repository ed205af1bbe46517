package kafka

import (
	"Replyradar/internal/api/config"
	"Replyradar/internal/service"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ConsumerManager 管理所有 Kafka 消费者
type ConsumerManager struct {
	snapshotConsumer sarama.ConsumerGroup
	snapshotHandler  sarama.ConsumerGroupHandler

	outcomeConsumer sarama.ConsumerGroup
	outcomeHandler  sarama.ConsumerGroupHandler
}

// NewConsumerManager 构造函数
func NewConsumerManager(
	cfg *config.Config,
	trackingSvc service.TrackingService,
	learningSvc service.LearningService,
) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	snapshotConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaSnapshotConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}

	outcomeConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaOutcomeConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}

	return &ConsumerManager{
		snapshotConsumer: snapshotConsumer,
		snapshotHandler:  NewSnapshotHandler(trackingSvc),
		outcomeConsumer:  outcomeConsumer,
		outcomeHandler:   NewOutcomeHandler(learningSvc),
	}, nil
}

// Start 启动所有消费者，阻塞到 ctx 取消
func (m *ConsumerManager) Start(ctx context.Context, cfg *config.Config) error {
	go func() {
		topic := cfg.KafkaSnapshotConsumer.Topic
		log.Info("Snapshot consumer started", "topic", topic)
		for {
			if err := m.snapshotConsumer.Consume(ctx, []string{topic}, m.snapshotHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	go func() {
		topic := cfg.KafkaOutcomeConsumer.Topic
		log.Info("Outcome consumer started", "topic", topic)
		for {
			if err := m.outcomeConsumer.Consume(ctx, []string{topic}, m.outcomeHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.snapshotConsumer.Close(); err != nil {
		log.Error("Failed to close snapshot consumer", "err", err)
	}
	if err := m.outcomeConsumer.Close(); err != nil {
		log.Error("Failed to close outcome consumer", "err", err)
	}

	return nil
}
