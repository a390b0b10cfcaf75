package waitlist

import (
	"context"
	"testing"
	"time"

	"github.com/akeren/innr-waitlist/internal/models"
	"github.com/akeren/innr-waitlist/pkg/edu"
	apperrors "github.com/akeren/innr-waitlist/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var repositoryNow = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

type WaitlistRepositoryTestSuite struct {
	suite.Suite
	db         *gorm.DB
	repository *waitlistRepository
}

func (s *WaitlistRepositoryTestSuite) SetupTest() {
	var err error
	s.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	s.Require().NoError(err)

	// Every pooled connection to :memory: would otherwise see its own empty database.
	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	s.Require().NoError(s.db.AutoMigrate(models.ModelRegistry...))

	directory, err := edu.NewDefaultDirectory()
	s.Require().NoError(err)

	s.repository = NewWaitlistRepository(s.db, directory).(*waitlistRepository)
	s.repository.now = func() time.Time { return repositoryNow }
}

func (s *WaitlistRepositoryTestSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	if err == nil {
		sqlDB.Close()
	}
}

func (s *WaitlistRepositoryTestSuite) seed(first, last, email string, createdAt time.Time) *models.Signup {
	signup := &models.Signup{
		FirstName:    first,
		LastName:     last,
		Email:        email,
		SchoolDomain: edu.ExtractSchoolDomain(email),
		CreatedAt:    createdAt,
	}

	stored, err := s.repository.CreateSignup(context.Background(), signup)
	s.Require().NoError(err)
	return stored
}

func (s *WaitlistRepositoryTestSuite) TestCreateSignup_ResolvesSchoolFromDirectory() {
	stored := s.seed("Ada", "Lovelace", "ada@cs.mit.edu", repositoryNow)

	s.NotEmpty(stored.ID)
	s.Equal("cs.mit.edu", stored.SchoolDomain)
	s.Equal("MIT", stored.SchoolName)
	s.Equal("mit", stored.UniversityID)
	s.False(stored.IsVerified)

	unknown := s.seed("Grace", "Hopper", "grace@tiny.edu", repositoryNow)
	s.Empty(unknown.SchoolName)
	s.Empty(unknown.UniversityID)
}

func (s *WaitlistRepositoryTestSuite) TestCreateSignup_DuplicateEmailIsConflict() {
	s.seed("Ada", "Lovelace", "ada@mit.edu", repositoryNow)

	_, err := s.repository.CreateSignup(context.Background(), &models.Signup{
		FirstName:    "Ada",
		LastName:     "Again",
		Email:        "ada@mit.edu",
		SchoolDomain: "mit.edu",
	})

	s.Require().Error(err)
	s.Equal(apperrors.ErrorTypeConflict, apperrors.GetErrorType(err))
	s.Equal("waitlist signup with this email already exists", apperrors.GetHumanReadableMessage(err))
}

func (s *WaitlistRepositoryTestSuite) TestIsEmailOnWaitlist() {
	ctx := context.Background()

	found, err := s.repository.IsEmailOnWaitlist(ctx, "ada@mit.edu")
	s.Require().NoError(err)
	s.False(found)

	s.seed("Ada", "Lovelace", "ada@mit.edu", repositoryNow)

	found, err = s.repository.IsEmailOnWaitlist(ctx, "ada@mit.edu")
	s.Require().NoError(err)
	s.True(found)
}

func (s *WaitlistRepositoryTestSuite) TestRankAndCount() {
	ctx := context.Background()
	base := repositoryNow.Add(-time.Hour)

	// nyu.edu signed up first; mit.edu overtakes it on count.
	s.seed("Nia", "Young", "nia@nyu.edu", base)
	s.seed("Ada", "Lovelace", "ada@mit.edu", base.Add(time.Minute))
	s.seed("Alan", "Turing", "alan@mit.edu", base.Add(2*time.Minute))
	s.seed("Noor", "Khan", "noor@nyu.edu", base.Add(3*time.Minute))
	s.seed("Max", "Planck", "max@mit.edu", base.Add(4*time.Minute))
	s.seed("Cleo", "Park", "cleo@cmu.edu", base.Add(5*time.Minute))

	rank, err := s.repository.GetSchoolRank(ctx, "mit.edu")
	s.Require().NoError(err)
	s.Equal(1, rank)

	rank, err = s.repository.GetSchoolRank(ctx, "nyu.edu")
	s.Require().NoError(err)
	s.Equal(2, rank)

	rank, err = s.repository.GetSchoolRank(ctx, "cmu.edu")
	s.Require().NoError(err)
	s.Equal(3, rank)

	rank, err = s.repository.GetSchoolRank(ctx, "nowhere.edu")
	s.Require().NoError(err)
	s.Zero(rank)

	count, err := s.repository.GetSchoolSignupCount(ctx, "mit.edu")
	s.Require().NoError(err)
	s.Equal(int64(3), count)

	count, err = s.repository.GetSchoolSignupCount(ctx, "nowhere.edu")
	s.Require().NoError(err)
	s.Zero(count)
}

func (s *WaitlistRepositoryTestSuite) TestRankTieGoesToEarlierSchool() {
	ctx := context.Background()
	base := repositoryNow.Add(-time.Hour)

	s.seed("Zed", "Zimmer", "zed@usc.edu", base)
	s.seed("Amy", "Adams", "amy@columbia.edu", base.Add(time.Minute))

	rank, err := s.repository.GetSchoolRank(ctx, "usc.edu")
	s.Require().NoError(err)
	s.Equal(1, rank)

	rank, err = s.repository.GetSchoolRank(ctx, "columbia.edu")
	s.Require().NoError(err)
	s.Equal(2, rank)
}

func (s *WaitlistRepositoryTestSuite) TestGetTopSchools() {
	ctx := context.Background()
	base := repositoryNow.Add(-time.Hour)

	s.seed("Nia", "Young", "nia@nyu.edu", base)
	s.seed("Ada", "Lovelace", "ada@mit.edu", base.Add(time.Minute))
	s.seed("Alan", "Turing", "alan@mit.edu", base.Add(2*time.Minute))
	s.seed("Max", "Planck", "max@mit.edu", base.Add(3*time.Minute))
	s.seed("Emmy", "Noether", "emmy@mit.edu", base.Add(4*time.Minute))
	s.seed("Cleo", "Park", "cleo@cmu.edu", base.Add(5*time.Minute))
	s.seed("Dora", "Lee", "dora@usc.edu", base.Add(6*time.Minute))

	top, err := s.repository.GetTopSchools(ctx, 3)
	s.Require().NoError(err)
	s.Require().Len(top, 3)

	s.Equal("mit.edu", top[0].SchoolDomain)
	s.Equal("MIT", top[0].SchoolName)
	s.Equal(int64(4), top[0].SignupCount)
	s.Equal(1, top[0].Rank)
	s.Equal("🥇", top[0].Medal)
	s.Equal([]string{"Emmy N.", "Max P.", "Alan T."}, top[0].SampleStudents)

	s.Equal("nyu.edu", top[1].SchoolDomain)
	s.Equal("🥈", top[1].Medal)
	s.Equal("cmu.edu", top[2].SchoolDomain)
	s.Equal("🥉", top[2].Medal)

	all, err := s.repository.GetTopSchools(ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(all, 4)
	s.Equal("usc.edu", all[3].SchoolDomain)
	s.Equal(4, all[3].Rank)
	s.Empty(all[3].Medal)
}

func (s *WaitlistRepositoryTestSuite) TestGetTopSchools_SamplesFetchedInOneQuery() {
	ctx := context.Background()
	base := repositoryNow.Add(-time.Hour)

	s.seed("Ada", "Lovelace", "ada@mit.edu", base)
	s.seed("Alan", "Turing", "alan@mit.edu", base.Add(time.Minute))
	s.seed("Nia", "Young", "nia@nyu.edu", base.Add(2*time.Minute))
	s.seed("Cleo", "Park", "cleo@cmu.edu", base.Add(3*time.Minute))

	var statements []string
	s.Require().NoError(s.db.Callback().Row().After("gorm:row").Register("test:record_rows", func(db *gorm.DB) {
		statements = append(statements, db.Statement.SQL.String())
	}))

	top, err := s.repository.GetTopSchools(ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(top, 3)
	s.Len(statements, 2, "one ranking query and one sample query regardless of school count")

	s.Equal([]string{"Alan T.", "Ada L."}, top[0].SampleStudents)
	s.Equal([]string{"Nia Y."}, top[1].SampleStudents)
	s.Equal([]string{"Cleo P."}, top[2].SampleStudents)
}

func (s *WaitlistRepositoryTestSuite) TestGetTopSchools_Empty() {
	top, err := s.repository.GetTopSchools(context.Background(), 3)
	s.Require().NoError(err)
	s.Empty(top)
}

func (s *WaitlistRepositoryTestSuite) TestGetWaitlistStats() {
	ctx := context.Background()

	stats, err := s.repository.GetWaitlistStats(ctx)
	s.Require().NoError(err)
	s.Equal(models.WaitlistStats{}, *stats)

	s.seed("Ada", "Lovelace", "ada@mit.edu", repositoryNow.Add(-time.Hour))
	s.seed("Alan", "Turing", "alan@mit.edu", repositoryNow.Add(-48*time.Hour))
	s.seed("Grace", "Hopper", "grace@tiny.edu", repositoryNow.Add(-10*24*time.Hour))
	s.seed("Nia", "Young", "nia@nyu.edu", repositoryNow.Add(-2*time.Hour))
	s.Require().NoError(s.db.Model(&models.Signup{}).Where("email = ?", "nia@nyu.edu").Update("is_verified", true).Error)

	stats, err = s.repository.GetWaitlistStats(ctx)
	s.Require().NoError(err)

	s.Equal(int64(4), stats.TotalSignups)
	s.Equal(int64(1), stats.VerifiedSignups)
	s.Equal(int64(2), stats.SignupsLast24h)
	s.Equal(int64(3), stats.SignupsLastWeek)
	s.Equal(int64(3), stats.UniqueSchools)
	s.Equal(int64(2), stats.KnownUniversities)
}

func (s *WaitlistRepositoryTestSuite) TestStoreFailuresAreTyped() {
	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	s.Require().NoError(sqlDB.Close())

	ctx := context.Background()

	_, err = s.repository.IsEmailOnWaitlist(ctx, "ada@mit.edu")
	s.Equal(apperrors.ErrorTypeDatabaseError, apperrors.GetErrorType(err))

	_, err = s.repository.CreateSignup(ctx, &models.Signup{FirstName: "A", LastName: "B", Email: "a@mit.edu", SchoolDomain: "mit.edu"})
	s.Equal(apperrors.ErrorTypeDatabaseError, apperrors.GetErrorType(err))
	s.Equal("unable to create waitlist signup", apperrors.GetHumanReadableMessage(err))

	_, err = s.repository.GetSchoolRank(ctx, "mit.edu")
	s.Equal(apperrors.ErrorTypeLookupError, apperrors.GetErrorType(err))

	_, err = s.repository.GetSchoolSignupCount(ctx, "mit.edu")
	s.Equal(apperrors.ErrorTypeLookupError, apperrors.GetErrorType(err))

	_, err = s.repository.GetTopSchools(ctx, 3)
	s.Equal(apperrors.ErrorTypeLookupError, apperrors.GetErrorType(err))

	_, err = s.repository.GetWaitlistStats(ctx)
	s.Equal(apperrors.ErrorTypeLookupError, apperrors.GetErrorType(err))
}

func TestWaitlistRepositorySuite(t *testing.T) {
	suite.Run(t, new(WaitlistRepositoryTestSuite))
}

func TestDisplayStudentName(t *testing.T) {
	assert.Equal(t, "Ada L.", displayStudentName("Ada", "Lovelace"))
	assert.Equal(t, "Ada", displayStudentName(" Ada ", ""))
	assert.Equal(t, "Zoë Ö.", displayStudentName("Zoë", "Öztürk"))
}
