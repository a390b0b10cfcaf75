package waitlist

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/akeren/innr-waitlist/internal/models"
	"github.com/akeren/innr-waitlist/pkg/edu"
	apperrors "github.com/akeren/innr-waitlist/pkg/errors"
	"gorm.io/gorm"
)

const sampleStudentsPerSchool = 3

var medals = map[int]string{
	1: "🥇",
	2: "🥈",
	3: "🥉",
}

// rankedSchoolsQuery ranks every school by signup count. Ties go to the school
// whose first signup is older, then to the lexically smaller domain.
const rankedSchoolsQuery = `
SELECT school_domain,
       MAX(school_name) AS school_name,
       COUNT(*) AS signup_count,
       ROW_NUMBER() OVER (ORDER BY COUNT(*) DESC, MIN(created_at) ASC, school_domain ASC) AS school_rank
FROM waitlist_signups
GROUP BY school_domain`

// sampleStudentsQuery picks the most recent signups of each listed school in one pass.
const sampleStudentsQuery = `
SELECT school_domain, first_name, last_name
FROM (
	SELECT school_domain, first_name, last_name,
	       ROW_NUMBER() OVER (PARTITION BY school_domain ORDER BY created_at DESC) AS sample_rank
	FROM waitlist_signups
	WHERE school_domain IN ?
) AS recent
WHERE sample_rank <= ?
ORDER BY school_domain, sample_rank`

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=waitlist

// SchoolStandingLookup exposes the per-school aggregates the store derives.
type SchoolStandingLookup interface {
	// GetSchoolRank returns the 1-based rank of a school, or 0 when it has no signups.
	GetSchoolRank(ctx context.Context, schoolDomain string) (int, error)
	// GetSchoolSignupCount returns how many signups a school has.
	GetSchoolSignupCount(ctx context.Context, schoolDomain string) (int64, error)
}

type WaitlistRepository interface {
	SchoolStandingLookup

	// CreateSignup persists a new signup. The store resolves the school name from its directory.
	CreateSignup(ctx context.Context, signup *models.Signup) (*models.Signup, error)
	// IsEmailOnWaitlist reports whether a signup with exactly this email exists.
	IsEmailOnWaitlist(ctx context.Context, email string) (bool, error)
	// GetTopSchools returns at most limit schools ordered by rank ascending.
	GetTopSchools(ctx context.Context, limit int) ([]models.SchoolStat, error)
	// GetWaitlistStats aggregates the whole waitlist.
	GetWaitlistStats(ctx context.Context) (*models.WaitlistStats, error)
}

type waitlistRepository struct {
	db        *gorm.DB
	directory *edu.Directory
	now       func() time.Time
}

type rankedSchoolRow struct {
	SchoolDomain string
	SchoolName   sql.NullString
	SignupCount  int64
	SchoolRank   int
}

type studentNameRow struct {
	SchoolDomain string
	FirstName    string
	LastName     string
}

func NewWaitlistRepository(db *gorm.DB, directory *edu.Directory) WaitlistRepository {
	return &waitlistRepository{db: db, directory: directory, now: time.Now}
}

func (wr *waitlistRepository) CreateSignup(ctx context.Context, signup *models.Signup) (*models.Signup, error) {
	if signup.SchoolName == "" {
		if school, ok := wr.directory.Lookup(signup.SchoolDomain); ok {
			signup.SchoolName = school.Name
			signup.UniversityID = school.ID
		}
	}

	if err := wr.db.WithContext(ctx).Create(signup).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, apperrors.NewConflictError("waitlist signup with this email already exists", err)
		}
		return nil, apperrors.NewDatabaseError("unable to create waitlist signup", err)
	}

	return signup, nil
}

func (wr *waitlistRepository) IsEmailOnWaitlist(ctx context.Context, email string) (bool, error) {
	var count int64

	err := wr.db.WithContext(ctx).
		Model(&models.Signup{}).
		Where("email = ?", email).
		Count(&count).Error
	if err != nil {
		return false, apperrors.NewDatabaseError("unable to check waitlist", err)
	}

	return count > 0, nil
}

func (wr *waitlistRepository) GetSchoolRank(ctx context.Context, schoolDomain string) (int, error) {
	var row rankedSchoolRow

	result := wr.db.WithContext(ctx).
		Raw("SELECT * FROM ("+rankedSchoolsQuery+") AS ranked WHERE school_domain = ?", schoolDomain).
		Scan(&row)
	if result.Error != nil {
		return 0, apperrors.NewLookupError("unable to fetch school rank", result.Error)
	}

	if result.RowsAffected == 0 {
		return 0, nil
	}

	return row.SchoolRank, nil
}

func (wr *waitlistRepository) GetSchoolSignupCount(ctx context.Context, schoolDomain string) (int64, error) {
	var count int64

	err := wr.db.WithContext(ctx).
		Model(&models.Signup{}).
		Where("school_domain = ?", schoolDomain).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.NewLookupError("unable to fetch school signup count", err)
	}

	return count, nil
}

func (wr *waitlistRepository) GetTopSchools(ctx context.Context, limit int) ([]models.SchoolStat, error) {
	var rows []rankedSchoolRow

	err := wr.db.WithContext(ctx).
		Raw("SELECT * FROM ("+rankedSchoolsQuery+") AS ranked ORDER BY school_rank ASC LIMIT ?", limit).
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.NewLookupError("unable to fetch school leaderboard", err)
	}

	domains := make([]string, 0, len(rows))
	for _, row := range rows {
		domains = append(domains, row.SchoolDomain)
	}

	samples, err := wr.sampleStudents(ctx, domains)
	if err != nil {
		return nil, err
	}

	stats := make([]models.SchoolStat, 0, len(rows))
	for _, row := range rows {
		names := samples[row.SchoolDomain]
		if names == nil {
			names = []string{}
		}

		stats = append(stats, models.SchoolStat{
			SchoolDomain:   row.SchoolDomain,
			SchoolName:     row.SchoolName.String,
			SignupCount:    row.SignupCount,
			Rank:           row.SchoolRank,
			SampleStudents: names,
			Medal:          medals[row.SchoolRank],
		})
	}

	return stats, nil
}

// sampleStudents returns up to sampleStudentsPerSchool display names per domain, newest first.
func (wr *waitlistRepository) sampleStudents(ctx context.Context, domains []string) (map[string][]string, error) {
	samples := make(map[string][]string, len(domains))
	if len(domains) == 0 {
		return samples, nil
	}

	var names []studentNameRow
	err := wr.db.WithContext(ctx).
		Raw(sampleStudentsQuery, domains, sampleStudentsPerSchool).
		Scan(&names).Error
	if err != nil {
		return nil, apperrors.NewLookupError("unable to fetch sample students", err)
	}

	for _, n := range names {
		samples[n.SchoolDomain] = append(samples[n.SchoolDomain], displayStudentName(n.FirstName, n.LastName))
	}

	return samples, nil
}

func (wr *waitlistRepository) GetWaitlistStats(ctx context.Context) (*models.WaitlistStats, error) {
	var stats models.WaitlistStats
	now := wr.now()

	counts := []struct {
		dest  *int64
		query func(*gorm.DB) *gorm.DB
	}{
		{&stats.TotalSignups, func(db *gorm.DB) *gorm.DB { return db }},
		{&stats.VerifiedSignups, func(db *gorm.DB) *gorm.DB { return db.Where("is_verified = ?", true) }},
		{&stats.SignupsLast24h, func(db *gorm.DB) *gorm.DB { return db.Where("created_at >= ?", now.Add(-24*time.Hour)) }},
		{&stats.SignupsLastWeek, func(db *gorm.DB) *gorm.DB { return db.Where("created_at >= ?", now.Add(-7*24*time.Hour)) }},
		{&stats.UniqueSchools, func(db *gorm.DB) *gorm.DB { return db.Distinct("school_domain") }},
		{&stats.KnownUniversities, func(db *gorm.DB) *gorm.DB {
			return db.Distinct("university_id").Where("university_id IS NOT NULL AND university_id <> ''")
		}},
	}

	for _, c := range counts {
		base := wr.db.WithContext(ctx).Model(&models.Signup{})
		if err := c.query(base).Count(c.dest).Error; err != nil {
			return nil, apperrors.NewLookupError("unable to fetch waitlist stats", err)
		}
	}

	return &stats, nil
}

// displayStudentName renders "Ada L." for Ada Lovelace.
func displayStudentName(firstName, lastName string) string {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)

	if lastName == "" {
		return firstName
	}

	initial, _ := utf8.DecodeRuneInString(lastName)
	return firstName + " " + string(initial) + "."
}

func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || apperrors.IsDuplicateKeyError(err)
}
