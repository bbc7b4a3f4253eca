package video

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrMissingVideoID = errors.New("video: video_id required")

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// Upsert inserts rec unless a row with the same video_id exists, then returns
// the stored row. First write wins; later metadata is discarded. The unique
// index resolves concurrent inserts, so there is no read-then-write race.
func (r *Repo) Upsert(ctx context.Context, rec *Recommendation) (*Recommendation, error) {
	if rec.VideoID == "" {
		return nil, ErrMissingVideoID
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "video_id"}},
			DoNothing: true,
		}).
		Create(rec).Error; err != nil {
		return nil, err
	}
	return r.GetByVideoID(ctx, rec.VideoID)
}

func (r *Repo) GetByVideoID(ctx context.Context, videoID string) (*Recommendation, error) {
	var v Recommendation
	if err := r.db.WithContext(ctx).
		Where("video_id = ?", videoID).
		First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *Repo) ListByIntent(ctx context.Context, intent string, limit int) ([]Recommendation, error) {
	var out []Recommendation
	if err := r.db.WithContext(ctx).
		Where("intent_category = ? AND is_active = ?", intent, true).
		Order("id DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Search matches term against title or keywords of active rows.
func (r *Repo) Search(ctx context.Context, term string, limit int) ([]Recommendation, error) {
	like := "%" + term + "%"
	var out []Recommendation
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where(r.db.Where("title LIKE ?", like).Or("keywords LIKE ?", like)).
		Order("id DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
