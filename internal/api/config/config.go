package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/spf13/viper"
)

// Cfg 全局可访问的配置实例
var Cfg *Config

// LoadConfig 从文件加载配置并填充到 Cfg
func LoadConfig() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")

	setEngineDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("config file not found: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if math.Abs(cfg.Engine.Scoring.WeightSum()-1.0) > 1e-9 {
		return fmt.Errorf("scoring weights must sum to 1.0, got %v", cfg.Engine.Scoring.WeightSum())
	}

	Cfg = &cfg

	return nil
}

// setEngineDefaults 引擎调参默认值，配置文件可逐项覆盖
func setEngineDefaults() {
	viper.SetDefault("engine.scoring.velocity_weight", 0.30)
	viper.SetDefault("engine.scoring.saturation_weight", 0.25)
	viper.SetDefault("engine.scoring.author_fatigue_weight", 0.20)
	viper.SetDefault("engine.scoring.audience_overlap_weight", 0.15)
	viper.SetDefault("engine.scoring.reply_fit_weight", 0.10)

	viper.SetDefault("engine.realtime.window_minutes", 10)
	viper.SetDefault("engine.realtime.accel_threshold", 1.5)
	viper.SetDefault("engine.realtime.decel_threshold", 0.7)
	viper.SetDefault("engine.realtime.flood_reply_velocity", 10.0)
	viper.SetDefault("engine.realtime.spike_ratio", 3.0)
	viper.SetDefault("engine.realtime.capture_interval_min", 5)

	viper.SetDefault("engine.decay.min_snapshots", 3)
	viper.SetDefault("engine.decay.base_half_life", 45.0)
	viper.SetDefault("engine.decay.viral_multiplier", 2.5)
	viper.SetDefault("engine.decay.max_half_life_factor", 3.0)

	viper.SetDefault("engine.prediction.base_reach_rate", 0.15)
	viper.SetDefault("engine.prediction.profile_click_rate", 0.02)
	viper.SetDefault("engine.prediction.follow_rate", 0.005)

	viper.SetDefault("engine.learning.min_sample_size", 5)
	viper.SetDefault("engine.learning.max_authors", 20)
	viper.SetDefault("engine.learning.max_topics", 15)
	viper.SetDefault("engine.learning.max_topics_per_item", 5)

	viper.SetDefault("engine.alert.min_score", 70)
	viper.SetDefault("engine.alert.max_active", 10)
	viper.SetDefault("engine.alert.max_list_size", 20)
	viper.SetDefault("engine.alert.default_expiry_minutes", 60)
}

// DefaultEngineConfig 默认引擎参数，测试与无配置环境使用
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Scoring: ScoringConfig{
			VelocityWeight:        0.30,
			SaturationWeight:      0.25,
			AuthorFatigueWeight:   0.20,
			AudienceOverlapWeight: 0.15,
			ReplyFitWeight:        0.10,
		},
		Realtime: RealtimeConfig{
			WindowMinutes:      10,
			AccelThreshold:     1.5,
			DecelThreshold:     0.7,
			FloodReplyVelocity: 10.0,
			SpikeRatio:         3.0,
			CaptureIntervalMin: 5,
		},
		Decay: DecayConfig{
			MinSnapshots:      3,
			BaseHalfLife:      45.0,
			ViralMultiplier:   2.5,
			MaxHalfLifeFactor: 3.0,
		},
		Prediction: PredictionConfig{
			BaseReachRate:    0.15,
			ProfileClickRate: 0.02,
			FollowRate:       0.005,
		},
		Learning: LearningConfig{
			MinSampleSize:    5,
			MaxAuthors:       20,
			MaxTopics:        15,
			MaxTopicsPerItem: 5,
		},
		Alert: AlertConfig{
			MinScore:             70,
			MaxActive:            10,
			MaxListSize:          20,
			DefaultExpiryMinutes: 60,
		},
	}
}
