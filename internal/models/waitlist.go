package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Signup is one student's place on the waitlist. Rows are only ever inserted.
type Signup struct {
	ID           string    `gorm:"type:text;primaryKey" json:"id"`
	FirstName    string    `gorm:"not null" json:"first_name"`
	LastName     string    `gorm:"not null" json:"last_name"`
	Email        string    `gorm:"not null;uniqueIndex" json:"email"`
	SchoolDomain string    `gorm:"not null;index" json:"school_domain"`
	SchoolName   string    `json:"school_name"`
	UniversityID string    `json:"university_id"`
	IsVerified   bool      `gorm:"not null;default:false" json:"is_verified"`
	CreatedAt    time.Time `gorm:"not null;index" json:"created_at"`
}

func (Signup) TableName() string {
	return "waitlist_signups"
}

func (s *Signup) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

// SchoolStat is a leaderboard row derived from the signup set.
type SchoolStat struct {
	SchoolDomain   string   `json:"school_domain"`
	SchoolName     string   `json:"school_name"`
	SignupCount    int64    `json:"signup_count"`
	Rank           int      `json:"rank"`
	SampleStudents []string `json:"sample_students"`
	Medal          string   `json:"medal,omitempty"`
}

// WaitlistStats aggregates the whole waitlist.
type WaitlistStats struct {
	TotalSignups      int64 `json:"total_signups"`
	VerifiedSignups   int64 `json:"verified_signups"`
	SignupsLast24h    int64 `json:"signups_last_24h"`
	SignupsLastWeek   int64 `json:"signups_last_week"`
	UniqueSchools     int64 `json:"unique_schools"`
	KnownUniversities int64 `json:"known_universities"`
}
