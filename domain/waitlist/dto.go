package waitlist

import (
	"github.com/akeren/innr-waitlist/internal/models"
	"github.com/akeren/innr-waitlist/pkg/constants"
	"github.com/akeren/innr-waitlist/pkg/edu"
)

type SubmitSignupRequest struct {
	FirstName string `json:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name" binding:"required,max=100"`
	Email     string `json:"email" binding:"required,max=255"`
}

type CheckEmailQuery struct {
	Email string `form:"email" binding:"required,max=255"`
}

type SignupResponse struct {
	ID           string `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	SchoolDomain string `json:"school_domain"`
	SchoolName   string `json:"school_name"`
	CreatedAt    string `json:"created_at"`
}

// SignupResultResponse is returned once a signup is stored. Rank is nil when the school is unranked.
type SignupResultResponse struct {
	Signup       SignupResponse `json:"signup"`
	SchoolDomain string         `json:"school_domain"`
	SchoolName   string         `json:"school_name"`
	Rank         *int           `json:"rank"`
	SignupCount  int64          `json:"signup_count"`
	Message      string         `json:"message"`
}

type EmailCheckResponse struct {
	Email      string `json:"email"`
	OnWaitlist bool   `json:"on_waitlist"`
}

type SchoolStatResponse struct {
	SchoolDomain   string   `json:"school_domain"`
	SchoolName     string   `json:"school_name"`
	SignupCount    int64    `json:"signup_count"`
	Rank           int      `json:"rank"`
	SampleStudents []string `json:"sample_students"`
	Medal          string   `json:"medal,omitempty"`
}

type LeaderboardResponse struct {
	Schools []SchoolStatResponse `json:"schools"`
	HasData bool                 `json:"has_data"`
}

type SchoolStandingResponse struct {
	SchoolDomain string `json:"school_domain"`
	Rank         *int   `json:"rank"`
	SignupCount  int64  `json:"signup_count"`
}

type WaitlistStatsResponse struct {
	TotalSignups      int64 `json:"total_signups"`
	VerifiedSignups   int64 `json:"verified_signups"`
	SignupsLast24h    int64 `json:"signups_last_24h"`
	SignupsLastWeek   int64 `json:"signups_last_week"`
	UniqueSchools     int64 `json:"unique_schools"`
	KnownUniversities int64 `json:"known_universities"`
}

// ========================================
// Mappers
// ========================================

func ToSignupModel(req *SubmitSignupRequest, schoolDomain string) *models.Signup {
	if req == nil {
		return nil
	}
	return &models.Signup{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		SchoolDomain: schoolDomain,
	}
}

func ToSignupResponse(signup *models.Signup) SignupResponse {
	if signup == nil {
		return SignupResponse{}
	}
	return SignupResponse{
		ID:           signup.ID,
		FirstName:    signup.FirstName,
		LastName:     signup.LastName,
		Email:        signup.Email,
		SchoolDomain: signup.SchoolDomain,
		SchoolName:   edu.FormatSchoolName(signup.SchoolName),
		CreatedAt:    signup.CreatedAt.Format(constants.RFC3339DateTimeFormat),
	}
}

func ToSchoolStatResponses(stats []models.SchoolStat) []SchoolStatResponse {
	responses := make([]SchoolStatResponse, 0, len(stats))
	for _, stat := range stats {
		samples := stat.SampleStudents
		if samples == nil {
			samples = []string{}
		}

		responses = append(responses, SchoolStatResponse{
			SchoolDomain:   stat.SchoolDomain,
			SchoolName:     edu.FormatSchoolName(stat.SchoolName),
			SignupCount:    stat.SignupCount,
			Rank:           stat.Rank,
			SampleStudents: samples,
			Medal:          stat.Medal,
		})
	}
	return responses
}

func ToWaitlistStatsResponse(stats *models.WaitlistStats) WaitlistStatsResponse {
	if stats == nil {
		return WaitlistStatsResponse{}
	}
	return WaitlistStatsResponse{
		TotalSignups:      stats.TotalSignups,
		VerifiedSignups:   stats.VerifiedSignups,
		SignupsLast24h:    stats.SignupsLast24h,
		SignupsLastWeek:   stats.SignupsLastWeek,
		UniqueSchools:     stats.UniqueSchools,
		KnownUniversities: stats.KnownUniversities,
	}
}

func rankOrNil(rank int) *int {
	if rank <= 0 {
		return nil
	}
	return &rank
}
