package assessment

import (
	"context"

	"gorm.io/gorm"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Insert(ctx context.Context, a *Assessment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

// ListByUser returns assessments newest -> oldest.
func (r *Repo) ListByUser(ctx context.Context, userID uint64, limit int) ([]Assessment, error) {
	var out []Assessment
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) Latest(ctx context.Context, userID uint64) (*Assessment, error) {
	var a Assessment
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}
