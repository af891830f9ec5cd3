package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cts/user-auth-service/internal/core/domain"
)

const questionsCollection = "secret_questions"

// QuestionRepository implements ports.SecretQuestionRepository using MongoDB.
type QuestionRepository struct {
	coll *mongo.Collection
}

func NewQuestionRepository(db *mongo.Database) *QuestionRepository {
	return &QuestionRepository{coll: db.Collection(questionsCollection)}
}

type mongoQuestion struct {
	ID       int64  `bson:"_id"`
	Question string `bson:"question"`
}

func (r *QuestionRepository) FindByID(ctx context.Context, id int64) (*domain.SecretQuestion, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var mq mongoQuestion
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&mq); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("find question: %w", err)
	}
	return &domain.SecretQuestion{ID: mq.ID, Question: mq.Question}, nil
}

func (r *QuestionRepository) List(ctx context.Context) ([]domain.SecretQuestion, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoQuestion
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}

	out := make([]domain.SecretQuestion, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.SecretQuestion{ID: d.ID, Question: d.Question})
	}
	return out, nil
}

// Upsert inserts the question or replaces its text when the ID exists.
func (r *QuestionRepository) Upsert(ctx context.Context, q domain.SecretQuestion) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": q.ID},
		bson.M{"$set": bson.M{"question": q.Question}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert question: %w", err)
	}
	return nil
}
