package sqlite

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cts/user-auth-service/internal/core/domain"
)

// QuestionRepository implements ports.SecretQuestionRepository on SQLite.
type QuestionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

func (r *QuestionRepository) FindByID(ctx context.Context, id int64) (*domain.SecretQuestion, error) {
	var row questionRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("find question: %w", err)
	}
	return &domain.SecretQuestion{ID: row.ID, Question: row.Question}, nil
}

func (r *QuestionRepository) List(ctx context.Context) ([]domain.SecretQuestion, error) {
	var rows []questionRow
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	out := make([]domain.SecretQuestion, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.SecretQuestion{ID: row.ID, Question: row.Question})
	}
	return out, nil
}

func (r *QuestionRepository) Upsert(ctx context.Context, q domain.SecretQuestion) error {
	row := questionRow{ID: q.ID, Question: q.Question}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"question"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("upsert question: %w", err)
	}
	return nil
}
