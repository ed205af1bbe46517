package service

import (
	"Replyradar/internal/model"
	mongopkg "Replyradar/internal/pkg/mongo"
	"context"
	"sort"
	"time"
)

// 内存版仓储实现，测试专用

type fakePostRepo struct {
	posts map[uint64]*model.TrackedPost
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[uint64]*model.TrackedPost)}
}

func (r *fakePostRepo) Create(_ context.Context, post *model.TrackedPost) error {
	r.posts[post.ID] = post
	return nil
}

func (r *fakePostRepo) Get(_ context.Context, postID uint64) (*model.TrackedPost, error) {
	post, ok := r.posts[postID]
	if !ok || post.IsDeleted {
		return nil, nil
	}
	return post, nil
}

func (r *fakePostRepo) ListByUser(_ context.Context, userID uint64) ([]*model.TrackedPost, error) {
	out := make([]*model.TrackedPost, 0)
	for _, post := range r.posts {
		if post.UserID == userID && !post.IsDeleted {
			out = append(out, post)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakePostRepo) UpdateAuthorStats(_ context.Context, postID uint64, stats map[string]interface{}) error {
	post, ok := r.posts[postID]
	if !ok {
		return nil
	}
	if v, ok := stats["author_tweets_24h"].(int); ok {
		post.AuthorTweets24h = v
	}
	if v, ok := stats["author_replies_1h"].(int); ok {
		post.AuthorReplies1h = v
	}
	if v, ok := stats["author_thread_engagement"].(float64); ok {
		post.AuthorThreadEngagement = v
	}
	if v, ok := stats["author_active"].(bool); ok {
		post.AuthorActive = v
	}
	return nil
}

func (r *fakePostRepo) Untrack(_ context.Context, userID, postID uint64) error {
	if post, ok := r.posts[postID]; ok && post.UserID == userID {
		post.IsDeleted = true
	}
	return nil
}

type fakeSnapshotRepo struct {
	snapshots map[uint64][]*model.EngagementSnapshot
}

func newFakeSnapshotRepo() *fakeSnapshotRepo {
	return &fakeSnapshotRepo{snapshots: make(map[uint64][]*model.EngagementSnapshot)}
}

func (r *fakeSnapshotRepo) Append(_ context.Context, snapshot *model.EngagementSnapshot) error {
	r.snapshots[snapshot.PostID] = append(r.snapshots[snapshot.PostID], snapshot)
	sort.Slice(r.snapshots[snapshot.PostID], func(i, j int) bool {
		return r.snapshots[snapshot.PostID][i].CapturedAt.Before(r.snapshots[snapshot.PostID][j].CapturedAt)
	})
	return nil
}

func (r *fakeSnapshotRepo) ListSince(_ context.Context, postID uint64, since *time.Time) ([]*model.EngagementSnapshot, error) {
	out := make([]*model.EngagementSnapshot, 0)
	for _, s := range r.snapshots[postID] {
		if since == nil || !s.CapturedAt.Before(*since) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSnapshotRepo) Latest(_ context.Context, postID uint64) (*model.EngagementSnapshot, error) {
	list := r.snapshots[postID]
	if len(list) == 0 {
		return nil, nil
	}
	return list[len(list)-1], nil
}

type fakeScoreRepo struct {
	scores map[uint64][]*model.PostScore
}

func newFakeScoreRepo() *fakeScoreRepo {
	return &fakeScoreRepo{scores: make(map[uint64][]*model.PostScore)}
}

func (r *fakeScoreRepo) Append(_ context.Context, score *model.PostScore) error {
	r.scores[score.PostID] = append(r.scores[score.PostID], score)
	return nil
}

func (r *fakeScoreRepo) Latest(_ context.Context, postID uint64) (*model.PostScore, error) {
	list := r.scores[postID]
	if len(list) == 0 {
		return nil, nil
	}
	return list[len(list)-1], nil
}

type fakeDecayRepo struct {
	metrics map[uint64]*model.DecayMetric
}

func newFakeDecayRepo() *fakeDecayRepo {
	return &fakeDecayRepo{metrics: make(map[uint64]*model.DecayMetric)}
}

func (r *fakeDecayRepo) Get(_ context.Context, postID uint64) (*model.DecayMetric, error) {
	return r.metrics[postID], nil
}

func (r *fakeDecayRepo) Upsert(_ context.Context, metric *model.DecayMetric) error {
	r.metrics[metric.PostID] = metric
	return nil
}

type fakeLearningRepo struct {
	data map[uint64]*model.UserLearning
}

func newFakeLearningRepo() *fakeLearningRepo {
	return &fakeLearningRepo{data: make(map[uint64]*model.UserLearning)}
}

func (r *fakeLearningRepo) Get(_ context.Context, userID uint64) (*model.UserLearning, error) {
	return r.data[userID], nil
}

func (r *fakeLearningRepo) Upsert(_ context.Context, learning *model.UserLearning) error {
	r.data[learning.UserID] = learning
	return nil
}

type fakeAlertRepo struct {
	alerts map[string]*model.SmartAlert
}

func newFakeAlertRepo() *fakeAlertRepo {
	return &fakeAlertRepo{alerts: make(map[string]*model.SmartAlert)}
}

func (r *fakeAlertRepo) Create(_ context.Context, alert *model.SmartAlert) error {
	r.alerts[alert.ID] = alert
	return nil
}

func (r *fakeAlertRepo) Get(_ context.Context, alertID string) (*model.SmartAlert, error) {
	return r.alerts[alertID], nil
}

func (r *fakeAlertRepo) ListActive(_ context.Context, userID uint64, now time.Time) ([]*model.SmartAlert, error) {
	out := make([]*model.SmartAlert, 0)
	for _, a := range r.alerts {
		if a.UserID == userID && !a.Dismissed && !a.ActedOn && !a.Expired(now) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeAlertRepo) Update(_ context.Context, alertID string, patch map[string]interface{}) error {
	alert, ok := r.alerts[alertID]
	if !ok {
		return nil
	}
	if v, ok := patch["dismissed"].(bool); ok {
		alert.Dismissed = v
	}
	if v, ok := patch["acted_on"].(bool); ok {
		alert.ActedOn = v
	}
	return nil
}

func (r *fakeAlertRepo) CountToday(_ context.Context, userID uint64, now time.Time) (int64, error) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var count int64
	for _, a := range r.alerts {
		if a.UserID == userID && !a.CreatedAt.Before(midnight) {
			count++
		}
	}
	return count, nil
}

func (r *fakeAlertRepo) CountActive(_ context.Context, userID uint64, now time.Time) (int64, error) {
	var count int64
	for _, a := range r.alerts {
		if a.UserID == userID && !a.Dismissed && !a.ActedOn && !a.Expired(now) {
			count++
		}
	}
	return count, nil
}

func (r *fakeAlertRepo) ExistsActiveForPost(_ context.Context, userID, postID uint64, now time.Time) (bool, error) {
	for _, a := range r.alerts {
		if a.UserID == userID && a.PostID != nil && *a.PostID == postID && !a.Dismissed && !a.Expired(now) {
			return true, nil
		}
	}
	return false, nil
}

type fakePreferencesRepo struct {
	prefs map[uint64]*model.UserPreferences
}

func newFakePreferencesRepo() *fakePreferencesRepo {
	return &fakePreferencesRepo{prefs: make(map[uint64]*model.UserPreferences)}
}

func (r *fakePreferencesRepo) Get(_ context.Context, userID uint64) (*model.UserPreferences, error) {
	return r.prefs[userID], nil
}

func (r *fakePreferencesRepo) Upsert(_ context.Context, prefs *model.UserPreferences) error {
	r.prefs[prefs.UserID] = prefs
	return nil
}

func (r *fakePreferencesRepo) ListUserIDs(_ context.Context) ([]uint64, error) {
	out := make([]uint64, 0, len(r.prefs))
	for uid := range r.prefs {
		out = append(out, uid)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

type fakeOutcomeRepo struct {
	outcomes []*model.ReplyOutcome
}

func newFakeOutcomeRepo() *fakeOutcomeRepo {
	return &fakeOutcomeRepo{outcomes: make([]*model.ReplyOutcome, 0)}
}

func (r *fakeOutcomeRepo) Create(_ context.Context, outcome *model.ReplyOutcome) error {
	r.outcomes = append(r.outcomes, outcome)
	return nil
}

func (r *fakeOutcomeRepo) ListByUser(_ context.Context, userID uint64, limit int) ([]*model.ReplyOutcome, error) {
	out := make([]*model.ReplyOutcome, 0)
	for _, o := range r.outcomes {
		if o.UserID == userID {
			out = append(out, o)
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

type fakeSignalRepo struct {
	signals []*mongopkg.LearningSignal
}

func newFakeSignalRepo() *fakeSignalRepo {
	return &fakeSignalRepo{signals: make([]*mongopkg.LearningSignal, 0)}
}

func (r *fakeSignalRepo) Append(_ context.Context, signal *mongopkg.LearningSignal) error {
	r.signals = append(r.signals, signal)
	return nil
}

func (r *fakeSignalRepo) ListByUser(_ context.Context, userID uint64, limit int) ([]*mongopkg.LearningSignal, error) {
	out := make([]*mongopkg.LearningSignal, 0)
	for _, s := range r.signals {
		if s.UserID == userID {
			out = append(out, s)
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

type fakeNotifier struct {
	pushed []*model.SmartAlert
}

func (n *fakeNotifier) PushAlert(_ context.Context, _ string, alert *model.SmartAlert) error {
	n.pushed = append(n.pushed, alert)
	return nil
}
