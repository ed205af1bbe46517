package service

import (
	"Replyradar/internal/api/dto"
	"context"
)

// OpportunityService 把静态评分、实时修正、衰减指标拼成单帖机会全景
type OpportunityService interface {
	GetOpportunity(ctx context.Context, postID uint64) (*dto.OpportunityDTO, error)
}

type opportunityServiceImpl struct {
	scoringService  ScoringService
	realtimeService RealtimeService
	decayService    DecayService
}

func NewOpportunityService(
	scoringService ScoringService,
	realtimeService RealtimeService,
	decayService DecayService,
) OpportunityService {
	return &opportunityServiceImpl{
		scoringService:  scoringService,
		realtimeService: realtimeService,
		decayService:    decayService,
	}
}

// GetOpportunity 读最新评分并叠加实时修正。评分不存在时现算一次，
// 数据不足的维度以 nil 下发，由前端降级展示
func (s *opportunityServiceImpl) GetOpportunity(ctx context.Context, postID uint64) (*dto.OpportunityDTO, error) {
	score, err := s.scoringService.LatestScore(ctx, postID)
	if err != nil {
		return nil, err
	}
	if score == nil {
		score, err = s.scoringService.ComputeScore(ctx, postID)
		if err != nil {
			return nil, err
		}
	}

	out := &dto.OpportunityDTO{PostID: postID, Score: score}
	if score == nil {
		return out, nil
	}

	realtime, err := s.realtimeService.ComputeRealtime(ctx, postID, score.FinalScore)
	if err != nil {
		return nil, err
	}
	out.Realtime = realtime

	decay, err := s.decayService.GetDecay(ctx, postID)
	if err != nil {
		return nil, err
	}
	out.Decay = decay
	out.HasDecayData = decay != nil

	return out, nil
}
