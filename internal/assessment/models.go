package assessment

import "time"

// Assessment is immutable once stored; newer rows supersede older ones.
type Assessment struct {
	ID              uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID          uint64    `gorm:"index:idx_assessment_user_created,priority:1;not null" json:"-"`
	Question1       int       `gorm:"column:question_1;not null" json:"question_1"`
	Question2       int       `gorm:"column:question_2;not null" json:"question_2"`
	Question3       int       `gorm:"column:question_3;not null" json:"question_3"`
	Question4       int       `gorm:"column:question_4;not null" json:"question_4"`
	Question5       int       `gorm:"column:question_5;not null" json:"question_5"`
	Question6       int       `gorm:"column:question_6;not null" json:"question_6"`
	Question7       int       `gorm:"column:question_7;not null" json:"question_7"`
	Question8       int       `gorm:"column:question_8;not null" json:"question_8"`
	TotalScore      int       `gorm:"not null" json:"total_score"`
	RiskLevel       string    `gorm:"type:varchar(20);not null" json:"risk_level"`
	Recommendations string    `gorm:"type:text" json:"recommendations"`
	CreatedAt       time.Time `gorm:"index:idx_assessment_user_created,priority:2" json:"created_at"`
}

func (Assessment) TableName() string { return "assessments" }

func newAssessment(userID uint64, r Result) *Assessment {
	return &Assessment{
		UserID:          userID,
		Question1:       r.Scores[0],
		Question2:       r.Scores[1],
		Question3:       r.Scores[2],
		Question4:       r.Scores[3],
		Question5:       r.Scores[4],
		Question6:       r.Scores[5],
		Question7:       r.Scores[6],
		Question8:       r.Scores[7],
		TotalScore:      r.Total,
		RiskLevel:       r.RiskLevel,
		Recommendations: r.Recommendation,
	}
}
