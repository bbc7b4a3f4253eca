package video

import "time"

// Recommendation is stored at most once per external video id.
type Recommendation struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	VideoID        string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"video_id"`
	Title          string    `gorm:"type:varchar(500);not null" json:"title"`
	Description    string    `gorm:"type:text" json:"description"`
	ThumbnailURL   string    `gorm:"type:varchar(500)" json:"thumbnail_url"`
	SourceURL      string    `gorm:"type:varchar(500);not null" json:"source_url"`
	ChannelName    string    `gorm:"type:varchar(255)" json:"channel_name"`
	IntentCategory string    `gorm:"type:varchar(50);index;not null" json:"intent_category"`
	Keywords       string    `gorm:"type:text" json:"keywords"`
	IsActive       bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

func (Recommendation) TableName() string { return "video_recommendations" }

// Result is one item returned by a Searcher.
type Result struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
	URL         string `json:"url"`
	Channel     string `json:"channel"`
}

func (r Result) toRecommendation(intent, keywords string) *Recommendation {
	return &Recommendation{
		VideoID:        r.ID,
		Title:          r.Title,
		Description:    r.Description,
		ThumbnailURL:   r.Thumbnail,
		SourceURL:      r.URL,
		ChannelName:    r.Channel,
		IntentCategory: intent,
		Keywords:       keywords,
		IsActive:       true,
	}
}
