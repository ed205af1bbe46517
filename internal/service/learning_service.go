package service

import (
	"Replyradar/internal/api/config"
	"Replyradar/internal/api/dto"
	"Replyradar/internal/model"
	mongopkg "Replyradar/internal/pkg/mongo"
	"Replyradar/internal/pkg/util"
	"Replyradar/internal/repository"
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	log "log/slog"
)

type LearningService interface {
	RecordOutcome(ctx context.Context, userID uint64, in *dto.OutcomeDTO) error
	GetProfile(ctx context.Context, userID uint64) (*dto.ProfileDTO, error)
	PersonalizeScore(ctx context.Context, userID uint64, in *dto.PersonalizeDTO) (*dto.PersonalizedScoreDTO, error)
	RecordSignal(ctx context.Context, signal *mongopkg.LearningSignal) error
}

type learningServiceImpl struct {
	cfg          config.LearningConfig
	learningRepo repository.LearningRepo
	outcomeRepo  repository.OutcomeRepo
	postRepo     repository.TrackedPostRepo
	signalRepo   mongopkg.LearningSignalRepo
}

func NewLearningService(
	cfg config.LearningConfig,
	learningRepo repository.LearningRepo,
	outcomeRepo repository.OutcomeRepo,
	postRepo repository.TrackedPostRepo,
	signalRepo mongopkg.LearningSignalRepo,
) LearningService {
	return &learningServiceImpl{
		cfg:          cfg,
		learningRepo: learningRepo,
		outcomeRepo:  outcomeRepo,
		postRepo:     postRepo,
		signalRepo:   signalRepo,
	}
}

// RecordOutcome 上报一次回复结果并增量更新学习档案。
// 同一用户的并发更新由调用方（Kafka 消费侧的分布式锁）串行化
func (s *learningServiceImpl) RecordOutcome(ctx context.Context, userID uint64, in *dto.OutcomeDTO) error {
	switch in.Label {
	case model.OutcomeRight, model.OutcomeSaturated, model.OutcomeBadFit:
	default:
		return ErrOutcomeLabelInvalid
	}
	if in.Impressions < 0 || in.Follows < 0 {
		return ErrNegativeCounter
	}

	post, err := s.postRepo.Get(ctx, in.PostID)
	if err != nil {
		log.ErrorContext(ctx, "查询追踪帖子失败", "err", err, "post_id", in.PostID)
		return UnExpectedError
	}
	if post == nil {
		return ErrPostNotFound
	}

	learning, err := s.getOrInit(ctx, userID)
	if err != nil {
		return err
	}

	success := in.Label == model.OutcomeRight
	topics := util.ExtractTopics(post.Content, s.cfg.MaxTopicsPerItem)
	s.applyOutcome(learning, post, in, topics, success)

	outcome := &model.ReplyOutcome{
		UserID:        userID,
		PostID:        in.PostID,
		Label:         in.Label,
		Impressions:   in.Impressions,
		AuthorEngaged: in.AuthorEngaged,
		Follows:       in.Follows,
		ReplyStyle:    in.ReplyStyle,
		RepliedAt:     in.RepliedAt,
	}
	if err := s.outcomeRepo.Create(ctx, outcome); err != nil {
		log.ErrorContext(ctx, "回复结果落库失败", "err", err, "post_id", in.PostID)
		return UnExpectedError
	}
	if err := s.learningRepo.Upsert(ctx, learning); err != nil {
		log.ErrorContext(ctx, "学习档案落库失败", "err", err, "user_id", userID)
		return UnExpectedError
	}
	return nil
}

// GetProfile 读取学习档案。列表只返回样本量达标的条目，
// 新用户拿到的是空档案而不是 404
func (s *learningServiceImpl) GetProfile(ctx context.Context, userID uint64) (*dto.ProfileDTO, error) {
	learning, err := s.learningRepo.Get(ctx, userID)
	if err != nil {
		log.ErrorContext(ctx, "查询学习档案失败", "err", err, "user_id", userID)
		return nil, UnExpectedError
	}
	if learning == nil {
		learning = emptyLearning(userID)
	}

	profile := &dto.ProfileDTO{
		BestAuthors:          make([]model.AuthorPerformance, 0),
		BestTopics:           make([]model.TopicPerformance, 0),
		BestReplyStyles:      make([]model.StylePerformance, 0),
		BestPostingHours:     make([]model.HourPerformance, 0),
		AvgHalfLife:          learning.AvgHalfLife,
		AvgRevivalSuccess:    learning.AvgRevivalSuccess,
		TotalReplies:         learning.TotalReplies,
		SuccessfulReplies:    learning.SuccessfulReplies,
		AvgImpressionsGained: learning.AvgImpressionsGained,
	}
	for _, a := range learning.BestAuthors {
		if a.SampleSize >= s.cfg.MinSampleSize {
			profile.BestAuthors = append(profile.BestAuthors, a)
		}
	}
	for _, t := range learning.BestTopics {
		if t.SampleSize >= s.cfg.MinSampleSize {
			profile.BestTopics = append(profile.BestTopics, t)
		}
	}
	for _, st := range learning.BestReplyStyles {
		if st.SampleSize >= s.cfg.MinSampleSize {
			profile.BestReplyStyles = append(profile.BestReplyStyles, st)
		}
	}
	for _, h := range learning.BestPostingHours {
		if h.SampleSize >= s.cfg.MinSampleSize {
			profile.BestPostingHours = append(profile.BestPostingHours, h)
		}
	}
	return profile, nil
}

// PersonalizeScore 按历史偏好对基础分做个性化加成
func (s *learningServiceImpl) PersonalizeScore(ctx context.Context, userID uint64, in *dto.PersonalizeDTO) (*dto.PersonalizedScoreDTO, error) {
	if in.BaseScore < 0 || in.BaseScore > 100 {
		return nil, ErrParamInvalid
	}

	learning, err := s.learningRepo.Get(ctx, userID)
	if err != nil {
		log.ErrorContext(ctx, "查询学习档案失败", "err", err, "user_id", userID)
		return nil, UnExpectedError
	}

	topics := util.ExtractTopics(in.Content, s.cfg.MaxTopicsPerItem)
	return personalize(learning, in.BaseScore, in.AuthorHandle, topics, time.Now().Hour(), s.cfg.MinSampleSize), nil
}

// RecordSignal 追加一条观测性学习信号到事件流
func (s *learningServiceImpl) RecordSignal(ctx context.Context, signal *mongopkg.LearningSignal) error {
	if signal.CreatedAt.IsZero() {
		signal.CreatedAt = time.Now()
	}
	if err := s.signalRepo.Append(ctx, signal); err != nil {
		log.ErrorContext(ctx, "学习信号写入失败", "err", err, "signal_type", signal.SignalType)
		return UnExpectedError
	}
	return nil
}

func (s *learningServiceImpl) getOrInit(ctx context.Context, userID uint64) (*model.UserLearning, error) {
	learning, err := s.learningRepo.Get(ctx, userID)
	if err != nil {
		log.ErrorContext(ctx, "查询学习档案失败", "err", err, "user_id", userID)
		return nil, UnExpectedError
	}
	if learning == nil {
		learning = emptyLearning(userID)
	}
	return learning, nil
}

func emptyLearning(userID uint64) *model.UserLearning {
	return &model.UserLearning{
		UserID:           userID,
		BestAuthors:      make([]model.AuthorPerformance, 0),
		BestTopics:       make([]model.TopicPerformance, 0),
		BestReplyStyles:  make([]model.StylePerformance, 0),
		BestPostingHours: make([]model.HourPerformance, 0),
	}
}

// applyOutcome 增量更新：所有比率都是在线均值，不回放历史
func (s *learningServiceImpl) applyOutcome(
	learning *model.UserLearning,
	post *model.TrackedPost,
	in *dto.OutcomeDTO,
	topics []string,
	success bool,
) {
	observed := 0.0
	if success {
		observed = 1.0
	}

	// 作者维度
	found := false
	for i := range learning.BestAuthors {
		if learning.BestAuthors[i].AuthorHandle == post.AuthorHandle {
			a := &learning.BestAuthors[i]
			a.ConversionRate = runningAvg(a.ConversionRate, a.SampleSize, observed)
			a.AvgImpressions = runningAvg(a.AvgImpressions, a.SampleSize, float64(in.Impressions))
			a.SampleSize++
			found = true
			break
		}
	}
	if !found {
		learning.BestAuthors = append(learning.BestAuthors, model.AuthorPerformance{
			AuthorHandle:   post.AuthorHandle,
			ConversionRate: observed,
			AvgImpressions: float64(in.Impressions),
			SampleSize:     1,
		})
	}
	sort.SliceStable(learning.BestAuthors, func(i, j int) bool {
		return learning.BestAuthors[i].ConversionRate > learning.BestAuthors[j].ConversionRate
	})
	if len(learning.BestAuthors) > s.cfg.MaxAuthors {
		learning.BestAuthors = learning.BestAuthors[:s.cfg.MaxAuthors]
	}

	// 话题维度
	for _, topic := range topics {
		found = false
		for i := range learning.BestTopics {
			if learning.BestTopics[i].Topic == topic {
				t := &learning.BestTopics[i]
				t.SuccessRate = runningAvg(t.SuccessRate, t.SampleSize, observed)
				t.SampleSize++
				found = true
				break
			}
		}
		if !found {
			learning.BestTopics = append(learning.BestTopics, model.TopicPerformance{
				Topic:       topic,
				SuccessRate: observed,
				SampleSize:  1,
			})
		}
	}
	sort.SliceStable(learning.BestTopics, func(i, j int) bool {
		return learning.BestTopics[i].SuccessRate > learning.BestTopics[j].SuccessRate
	})
	if len(learning.BestTopics) > s.cfg.MaxTopics {
		learning.BestTopics = learning.BestTopics[:s.cfg.MaxTopics]
	}

	// 风格维度，列表不设上限
	if in.ReplyStyle != "" {
		found = false
		for i := range learning.BestReplyStyles {
			if learning.BestReplyStyles[i].Style == in.ReplyStyle {
				st := &learning.BestReplyStyles[i]
				st.SuccessRate = runningAvg(st.SuccessRate, st.SampleSize, observed)
				st.SampleSize++
				found = true
				break
			}
		}
		if !found {
			learning.BestReplyStyles = append(learning.BestReplyStyles, model.StylePerformance{
				Style:       in.ReplyStyle,
				SuccessRate: observed,
				SampleSize:  1,
			})
		}
	}

	// 回复时段维度
	hour := in.RepliedAt.Hour()
	found = false
	for i := range learning.BestPostingHours {
		if learning.BestPostingHours[i].Hour == hour {
			h := &learning.BestPostingHours[i]
			h.SuccessRate = runningAvg(h.SuccessRate, h.SampleSize, observed)
			h.SampleSize++
			found = true
			break
		}
	}
	if !found {
		learning.BestPostingHours = append(learning.BestPostingHours, model.HourPerformance{
			Hour:        hour,
			SuccessRate: observed,
			SampleSize:  1,
		})
	}

	// 总量
	learning.AvgImpressionsGained = runningAvg(learning.AvgImpressionsGained, learning.TotalReplies, float64(in.Impressions))
	learning.TotalReplies++
	if success {
		learning.SuccessfulReplies++
	}
}

// runningAvg 在线均值：avg_{n+1} = (avg_n * n + x) / (n + 1)
func runningAvg(avg float64, n int, observed float64) float64 {
	return (avg*float64(n) + observed) / float64(n+1)
}

// personalize 纯计算部分，拆出来便于验证边界
func personalize(
	learning *model.UserLearning,
	baseScore int,
	authorHandle string,
	topics []string,
	hour int,
	minSample int,
) *dto.PersonalizedScoreDTO {
	result := &dto.PersonalizedScoreDTO{
		BaseScore:     baseScore,
		AdjustedScore: baseScore,
		Adjustments:   make([]dto.AdjustmentDTO, 0, 3),
	}
	if learning == nil {
		return result
	}

	adjusted := baseScore

	// 作者加成正负都生效：差作者要减分
	for _, a := range learning.BestAuthors {
		if a.AuthorHandle == authorHandle && a.SampleSize >= minSample {
			delta := int(math.Round((a.ConversionRate - 0.5) * 20))
			if delta != 0 {
				adjusted += delta
				result.Adjustments = append(result.Adjustments, dto.AdjustmentDTO{
					Label: fmt.Sprintf("author:%s", authorHandle),
					Delta: delta,
				})
			}
			break
		}
	}

	// 话题只取第一个命中的正向加成
	for _, topic := range topics {
		matched := false
		for _, t := range learning.BestTopics {
			if t.Topic == topic && t.SampleSize >= minSample {
				if delta := int(math.Round((t.SuccessRate - 0.5) * 10)); delta > 0 {
					adjusted += delta
					result.Adjustments = append(result.Adjustments, dto.AdjustmentDTO{
						Label: fmt.Sprintf("topic:%s", topic),
						Delta: delta,
					})
					matched = true
				}
				break
			}
		}
		if matched {
			break
		}
	}

	// 当前小时段的正向加成
	for _, h := range learning.BestPostingHours {
		if h.Hour == hour && h.SampleSize >= minSample {
			if delta := int(math.Round((h.SuccessRate - 0.5) * 10)); delta > 0 {
				adjusted += delta
				result.Adjustments = append(result.Adjustments, dto.AdjustmentDTO{
					Label: fmt.Sprintf("hour:%02d", hour),
					Delta: delta,
				})
			}
			break
		}
	}

	result.AdjustedScore = util.ClampInt(adjusted, 0, 100)
	return result
}
