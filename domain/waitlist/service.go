package waitlist

import (
	"context"
	"fmt"
	"strings"

	"github.com/akeren/innr-waitlist/internal/log"
	"github.com/akeren/innr-waitlist/pkg/constants"
	"github.com/akeren/innr-waitlist/pkg/edu"
	apperrors "github.com/akeren/innr-waitlist/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("github.com/akeren/innr-waitlist/domain/waitlist")

type WaitlistService interface {
	// SubmitSignup validates, deduplicates and stores a signup, then reports the school's standing.
	SubmitSignup(ctx context.Context, req *SubmitSignupRequest) (*SignupResultResponse, error)

	// IsEmailOnWaitlist reports whether the (normalized) email already signed up.
	IsEmailOnWaitlist(ctx context.Context, email string) (bool, error)

	// GetTopSchools returns the podium, ordered by the store's rank.
	GetTopSchools(ctx context.Context, limit int) (*LeaderboardResponse, error)

	// GetSchoolLeaderboard returns the longer leaderboard listing.
	GetSchoolLeaderboard(ctx context.Context, limit int) (*LeaderboardResponse, error)

	// GetSchoolStanding returns rank and count for one school domain.
	GetSchoolStanding(ctx context.Context, schoolDomain string) (*SchoolStandingResponse, error)

	// GetWaitlistStats returns waitlist-wide counters.
	GetWaitlistStats(ctx context.Context) (*WaitlistStatsResponse, error)
}

// ServiceConfig carries the optional collaborators of the service.
type ServiceConfig struct {
	Leaderboard *LeaderboardCache
	Metrics     *Metrics
}

type waitlistService struct {
	logger      *log.Logger
	repository  WaitlistRepository
	leaderboard *LeaderboardCache
	metrics     *Metrics
}

func NewWaitlistService(logger *log.Logger, repository WaitlistRepository, cfg *ServiceConfig) WaitlistService {
	s := &waitlistService{logger: logger, repository: repository}
	if cfg != nil {
		s.leaderboard = cfg.Leaderboard
		s.metrics = cfg.Metrics
	}
	return s
}

func (s *waitlistService) SubmitSignup(ctx context.Context, req *SubmitSignupRequest) (*SignupResultResponse, error) {
	ctx, span := tracer.Start(ctx, "waitlist.SubmitSignup")
	defer span.End()

	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	result, outcome, err := s.submitSignup(ctx, logger, req)
	s.metrics.observeSignup(outcome)
	span.SetAttributes(attribute.String("waitlist.outcome", outcome))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, apperrors.GetErrorType(err))
		return nil, err
	}

	span.SetAttributes(attribute.String("waitlist.school_domain", result.SchoolDomain))
	return result, nil
}

func (s *waitlistService) submitSignup(ctx context.Context, logger *log.Logger, req *SubmitSignupRequest) (*SignupResultResponse, string, error) {
	if req == nil {
		logger.Error("SubmitSignup received empty request")
		return nil, outcomeInvalid, apperrors.NewInvalidRequestError("request cannot be nil", nil)
	}

	normalized := SubmitSignupRequest{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     edu.NormalizeEmail(req.Email),
	}

	if !edu.IsEduEmail(normalized.Email) {
		logger.Warn("Signup rejected: not a .edu email", "email", normalized.Email)
		return nil, outcomeInvalid, NewValidationError(ErrNotEduEmail)
	}

	if normalized.FirstName == "" || normalized.LastName == "" {
		logger.Warn("Signup rejected: missing name", "email", normalized.Email)
		return nil, outcomeInvalid, NewValidationError(ErrMissingName)
	}

	exists, err := s.repository.IsEmailOnWaitlist(ctx, normalized.Email)
	if err != nil {
		logger.Error("Failed to check waitlist for email", "email", normalized.Email, "error", err)
		return nil, outcomeFailed, NewPersistenceError(err)
	}
	if exists {
		logger.Info("Signup rejected: email already on waitlist", "email", normalized.Email)
		return nil, outcomeDuplicate, NewDuplicateError(nil)
	}

	schoolDomain := edu.ExtractSchoolDomain(normalized.Email)

	signup, err := s.repository.CreateSignup(ctx, ToSignupModel(&normalized, schoolDomain))
	if err != nil {
		// The pre-check is not atomic with the insert; the unique index is the arbiter.
		if apperrors.IsErrorType(err, apperrors.ErrorTypeConflict) {
			logger.Info("Signup lost insert race for email", "email", normalized.Email)
			return nil, outcomeDuplicate, NewDuplicateError(err)
		}
		logger.Error("Failed to create waitlist signup", "email", normalized.Email, "error", err)
		return nil, outcomeFailed, NewPersistenceError(err)
	}

	rank, count, ranked := s.lookupStanding(ctx, logger, schoolDomain)

	schoolName := signup.SchoolName
	if schoolName == "" {
		schoolName = schoolDomain
	} else {
		schoolName = edu.FormatSchoolName(schoolName)
	}

	result := &SignupResultResponse{
		Signup:       ToSignupResponse(signup),
		SchoolDomain: schoolDomain,
		SchoolName:   schoolName,
		SignupCount:  count,
		Message:      confirmationMessage(signup.FirstName, schoolName, rank, count, ranked),
	}
	if ranked {
		result.Rank = rankOrNil(rank)
	}

	s.leaderboard.Invalidate(ctx)

	logger.Info("Signup added to waitlist", "school_domain", schoolDomain, "rank", rank, "ranked", ranked)
	return result, outcomeCreated, nil
}

// lookupStanding is best effort: any failure degrades to unranked.
func (s *waitlistService) lookupStanding(ctx context.Context, logger *log.Logger, schoolDomain string) (int, int64, bool) {
	rank, err := s.repository.GetSchoolRank(ctx, schoolDomain)
	if err != nil {
		logger.Warn("School rank lookup failed; reporting unranked", "school_domain", schoolDomain, "error", NewLookupError(err))
		s.metrics.observeLookupFailure("rank")
		return 0, 0, false
	}

	count, err := s.repository.GetSchoolSignupCount(ctx, schoolDomain)
	if err != nil {
		logger.Warn("School signup count lookup failed; reporting unranked", "school_domain", schoolDomain, "error", NewLookupError(err))
		s.metrics.observeLookupFailure("count")
		return 0, 0, false
	}

	return rank, count, rank > 0
}

func confirmationMessage(firstName, schoolName string, rank int, count int64, ranked bool) string {
	greeting := fmt.Sprintf("You're on the waitlist, %s!", firstName)

	if !ranked {
		return fmt.Sprintf("%s %s is unranked for now. Invite classmates to get on the board.", greeting, schoolName)
	}

	noun := "signups"
	if count == 1 {
		noun = "signup"
	}

	return fmt.Sprintf("%s %s is ranked #%d with %d %s.", greeting, schoolName, rank, count, noun)
}

func (s *waitlistService) IsEmailOnWaitlist(ctx context.Context, email string) (bool, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	normalized := edu.NormalizeEmail(email)
	if normalized == "" {
		logger.Error("IsEmailOnWaitlist received empty email")
		return false, apperrors.NewInvalidRequestError("email cannot be empty", nil)
	}

	exists, err := s.repository.IsEmailOnWaitlist(ctx, normalized)
	if err != nil {
		logger.Error("Failed to check waitlist for email", "email", normalized, "error", err)
		return false, err
	}

	return exists, nil
}

func (s *waitlistService) GetTopSchools(ctx context.Context, limit int) (*LeaderboardResponse, error) {
	return s.leaderboardOf(ctx, normalizeLimit(limit, constants.DefaultTopSchoolsLimit))
}

func (s *waitlistService) GetSchoolLeaderboard(ctx context.Context, limit int) (*LeaderboardResponse, error) {
	return s.leaderboardOf(ctx, normalizeLimit(limit, constants.DefaultLeaderboardLimit))
}

// leaderboardOf keeps the store's ordering; rows are never re-sorted here.
func (s *waitlistService) leaderboardOf(ctx context.Context, limit int) (*LeaderboardResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	cached, page, ok := s.leaderboard.Get(ctx, limit)
	if ok {
		return toLeaderboardResponse(cached), nil
	}

	stats, err := s.repository.GetTopSchools(ctx, limit)
	if err != nil {
		logger.Error("Failed to get top schools", "limit", limit, "error", err)
		return nil, err
	}

	responses := ToSchoolStatResponses(stats)
	s.leaderboard.Set(ctx, page, responses)

	return toLeaderboardResponse(responses), nil
}

func toLeaderboardResponse(schools []SchoolStatResponse) *LeaderboardResponse {
	if schools == nil {
		schools = []SchoolStatResponse{}
	}
	return &LeaderboardResponse{Schools: schools, HasData: len(schools) > 0}
}

func (s *waitlistService) GetSchoolStanding(ctx context.Context, schoolDomain string) (*SchoolStandingResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	schoolDomain = strings.ToLower(strings.TrimSpace(schoolDomain))
	if schoolDomain == "" {
		logger.Error("GetSchoolStanding received empty domain")
		return nil, apperrors.NewInvalidRequestError("school domain cannot be empty", nil)
	}

	rank, err := s.repository.GetSchoolRank(ctx, schoolDomain)
	if err != nil {
		logger.Error("Failed to get school rank", "school_domain", schoolDomain, "error", err)
		return nil, NewLookupError(err)
	}

	count, err := s.repository.GetSchoolSignupCount(ctx, schoolDomain)
	if err != nil {
		logger.Error("Failed to get school signup count", "school_domain", schoolDomain, "error", err)
		return nil, NewLookupError(err)
	}

	return &SchoolStandingResponse{
		SchoolDomain: schoolDomain,
		Rank:         rankOrNil(rank),
		SignupCount:  count,
	}, nil
}

func (s *waitlistService) GetWaitlistStats(ctx context.Context) (*WaitlistStatsResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	stats, err := s.repository.GetWaitlistStats(ctx)
	if err != nil {
		logger.Error("Failed to get waitlist stats", "error", err)
		return nil, err
	}

	response := ToWaitlistStatsResponse(stats)
	return &response, nil
}

func normalizeLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > constants.MaxLeaderboardLimit {
		return constants.MaxLeaderboardLimit
	}
	return limit
}
