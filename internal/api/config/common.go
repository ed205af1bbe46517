package config

// Config 配置主体
type Config struct {
	Server                ServerConfig         `mapstructure:"server"`
	DB                    DBConfig             `mapstructure:"database"`
	Redis                 RedisConfig          `mapstructure:"redis"`
	Mongo                 MongoConfig          `mapstructure:"mongo"`
	Logstash              LogstashConfig       `mapstructure:"logstash"`
	JWT                   JWTConfig            `mapstructure:"jwt"`
	Notify                NotifyConfig         `mapstructure:"notify"`
	Kafka                 KafkaConfig          `mapstructure:"kafka"`
	KafkaSnapshotConsumer KafkaConsumerBinding `mapstructure:"kafka_snapshot_consumer"`
	KafkaOutcomeConsumer  KafkaConsumerBinding `mapstructure:"kafka_outcome_consumer"`
	Engine                EngineConfig         `mapstructure:"engine"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// MongoConfig Mongo配置，存放学习信号事件流
type MongoConfig struct {
	URL      string `mapstructure:"url"`
	Database string `mapstructure:"database"`
}

// LogstashConfig 远程日志上报配置
type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

// JWTConfig 鉴权配置，Token 由上游签发，本服务只做校验
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

// NotifyConfig 告警 Webhook 推送配置
type NotifyConfig struct {
	WebhookURL string `mapstructure:"webhook_url"`
	Timeout    int    `mapstructure:"timeout"`
	RetryCount int    `mapstructure:"retry_count"`
}

type KafkaConfig struct {
	Brokers  []string       `mapstructure:"brokers"`
	Sasl     SaslConfig     `mapstructure:"sasl"`
	Consumer ConsumerConfig `mapstructure:"consumer"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ConsumerConfig struct {
	SessionTimeout    int `mapstructure:"session_timeout"`
	HeartbeatInterval int `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int `mapstructure:"max_processing_time"`
}

// KafkaConsumerBinding 单个消费组的 topic 绑定
type KafkaConsumerBinding struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}

// EngineConfig 数值引擎调参集合，构造时注入各 Service，测试可按需覆盖
type EngineConfig struct {
	Scoring    ScoringConfig    `mapstructure:"scoring"`
	Realtime   RealtimeConfig   `mapstructure:"realtime"`
	Decay      DecayConfig      `mapstructure:"decay"`
	Prediction PredictionConfig `mapstructure:"prediction"`
	Learning   LearningConfig   `mapstructure:"learning"`
	Alert      AlertConfig      `mapstructure:"alert"`
}

// ScoringConfig 静态评分权重，五项之和必须为 1.0
type ScoringConfig struct {
	VelocityWeight        float64 `mapstructure:"velocity_weight"`
	SaturationWeight      float64 `mapstructure:"saturation_weight"`
	AuthorFatigueWeight   float64 `mapstructure:"author_fatigue_weight"`
	AudienceOverlapWeight float64 `mapstructure:"audience_overlap_weight"`
	ReplyFitWeight        float64 `mapstructure:"reply_fit_weight"`
}

// WeightSum 权重合计，用于启动期校验
func (c ScoringConfig) WeightSum() float64 {
	return c.VelocityWeight + c.SaturationWeight + c.AuthorFatigueWeight +
		c.AudienceOverlapWeight + c.ReplyFitWeight
}

// RealtimeConfig 实时趋势阈值
type RealtimeConfig struct {
	WindowMinutes      int     `mapstructure:"window_minutes"`
	AccelThreshold     float64 `mapstructure:"accel_threshold"`
	DecelThreshold     float64 `mapstructure:"decel_threshold"`
	FloodReplyVelocity float64 `mapstructure:"flood_reply_velocity"`
	SpikeRatio         float64 `mapstructure:"spike_ratio"`
	CaptureIntervalMin int     `mapstructure:"capture_interval_min"`
}

// DecayConfig 注意力衰减模型参数
type DecayConfig struct {
	MinSnapshots      int     `mapstructure:"min_snapshots"`
	BaseHalfLife      float64 `mapstructure:"base_half_life"`
	ViralMultiplier   float64 `mapstructure:"viral_multiplier"`
	MaxHalfLifeFactor float64 `mapstructure:"max_half_life_factor"`
}

// PredictionConfig 结果预测基准率
type PredictionConfig struct {
	BaseReachRate    float64 `mapstructure:"base_reach_rate"`
	ProfileClickRate float64 `mapstructure:"profile_click_rate"`
	FollowRate       float64 `mapstructure:"follow_rate"`
}

// LearningConfig 学习引擎参数
type LearningConfig struct {
	MinSampleSize    int `mapstructure:"min_sample_size"`
	MaxAuthors       int `mapstructure:"max_authors"`
	MaxTopics        int `mapstructure:"max_topics"`
	MaxTopicsPerItem int `mapstructure:"max_topics_per_item"`
}

// AlertConfig 告警引擎参数
type AlertConfig struct {
	MinScore             int `mapstructure:"min_score"`
	MaxActive            int `mapstructure:"max_active"`
	MaxListSize          int `mapstructure:"max_list_size"`
	DefaultExpiryMinutes int `mapstructure:"default_expiry_minutes"`
}
