package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type LearningSignalRepo interface {
	Append(ctx context.Context, signal *LearningSignal) error
	ListByUser(ctx context.Context, userID uint64, limit int) ([]*LearningSignal, error)
}

type learningSignalRepoImpl struct {
	col *mongo.Collection
}

func NewLearningSignalRepo(db *mongo.Database) LearningSignalRepo {
	return &learningSignalRepoImpl{
		col: db.Collection("learning_signal"),
	}
}

func (s *learningSignalRepoImpl) Append(ctx context.Context, signal *LearningSignal) error {
	_, err := s.col.InsertOne(ctx, signal)
	return err
}

// ListByUser 最新在前
func (s *learningSignalRepoImpl) ListByUser(ctx context.Context, userID uint64, limit int) ([]*LearningSignal, error) {
	filter := bson.M{"user_id": userID}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	signals := make([]*LearningSignal, 0)
	if err = cursor.All(ctx, &signals); err != nil {
		return nil, err
	}
	return signals, nil
}
