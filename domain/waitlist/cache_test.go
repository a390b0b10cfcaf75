package waitlist

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/akeren/innr-waitlist/internal/log"
	"github.com/akeren/innr-waitlist/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type memoryCache struct {
	mu      sync.Mutex
	values  map[string]string
	ttls    map[string]time.Duration
	failGet bool
	gets    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memoryCache) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.failGet {
		return "", errors.New("cache unavailable")
	}
	return m.values[key], nil
}

func (m *memoryCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	m.ttls[key] = ttl
	return nil
}

func TestNewLeaderboardCache_DisabledWithoutCacheOrTTL(t *testing.T) {
	assert.Nil(t, NewLeaderboardCache(nil, time.Minute, nil))
	assert.Nil(t, NewLeaderboardCache(newMemoryCache(), 0, nil))

	var disabled *LeaderboardCache
	_, page, ok := disabled.Get(context.Background(), 3)
	assert.False(t, ok)
	assert.Equal(t, LeaderboardPage{}, page)
	disabled.Set(context.Background(), page, nil)
	disabled.Invalidate(context.Background())
}

func TestLeaderboardCache_RoundTripKeepsOrder(t *testing.T) {
	store := newMemoryCache()
	cache := NewLeaderboardCache(store, time.Minute, log.NewLoggerWithJSONOutput())
	ctx := context.Background()

	schools := []SchoolStatResponse{
		{SchoolDomain: "nyu.edu", SignupCount: 2, Rank: 1, SampleStudents: []string{}},
		{SchoolDomain: "mit.edu", SignupCount: 9, Rank: 2, SampleStudents: []string{"Ada L."}},
	}

	_, page, ok := cache.Get(ctx, 3)
	require.False(t, ok)
	cache.Set(ctx, page, schools)

	cached, _, ok := cache.Get(ctx, 3)
	require.True(t, ok)
	assert.Equal(t, schools, cached)
	assert.Equal(t, time.Minute, store.ttls["leaderboard:0:top:3"])

	_, _, ok = cache.Get(ctx, 10)
	assert.False(t, ok)
}

func TestLeaderboardCache_InvalidateOrphansPages(t *testing.T) {
	store := newMemoryCache()
	cache := NewLeaderboardCache(store, time.Minute, nil)
	ctx := context.Background()

	_, page, _ := cache.Get(ctx, 3)
	cache.Set(ctx, page, []SchoolStatResponse{{SchoolDomain: "mit.edu", Rank: 1}})
	cache.Invalidate(ctx)

	_, _, ok := cache.Get(ctx, 3)
	assert.False(t, ok)
	assert.Zero(t, store.ttls[leaderboardGenerationKey])
}

func TestLeaderboardCache_WriteAfterInvalidateStaysOrphaned(t *testing.T) {
	store := newMemoryCache()
	cache := NewLeaderboardCache(store, time.Minute, nil)
	ctx := context.Background()

	// A reader misses and queries the store while a signup lands and invalidates.
	_, page, ok := cache.Get(ctx, 3)
	require.False(t, ok)
	cache.Invalidate(ctx)
	cache.Set(ctx, page, []SchoolStatResponse{{SchoolDomain: "mit.edu", Rank: 1}})

	_, _, ok = cache.Get(ctx, 3)
	assert.False(t, ok, "rows read before the signup must not be served after it")
	assert.Contains(t, store.values, "leaderboard:0:top:3")
}

func TestLeaderboardCache_MalformedAndFailingReadsMiss(t *testing.T) {
	store := newMemoryCache()
	cache := NewLeaderboardCache(store, time.Minute, nil)
	ctx := context.Background()

	store.values["leaderboard:0:top:3"] = "{not json"
	_, page, ok := cache.Get(ctx, 3)
	assert.False(t, ok)
	assert.Equal(t, LeaderboardPage{key: "leaderboard:0:top:3"}, page)

	store.failGet = true
	_, page, ok = cache.Get(ctx, 3)
	assert.False(t, ok)
	assert.Equal(t, LeaderboardPage{}, page)
}

func TestLeaderboardCache_SkipsUnreachableCache(t *testing.T) {
	store := newMemoryCache()
	store.failGet = true
	cache := NewLeaderboardCache(store, time.Minute, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, _, ok := cache.Get(ctx, 3)
		assert.False(t, ok)
	}
	require.Equal(t, 3, store.gets)

	_, _, ok := cache.Get(ctx, 3)
	assert.False(t, ok)
	cache.Set(ctx, LeaderboardPage{key: "leaderboard:0:top:3"}, []SchoolStatResponse{{SchoolDomain: "mit.edu", Rank: 1}})
	assert.Equal(t, 3, store.gets, "open circuit must not touch the cache")
	assert.Empty(t, store.values)

	cache.Invalidate(ctx)
	assert.NotEmpty(t, store.values[leaderboardGenerationKey])
}

func TestService_LeaderboardServedFromCacheUntilSignup(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRepo := NewMockWaitlistRepository(ctrl)
	logger := log.NewLoggerWithJSONOutput()
	service := NewWaitlistService(logger, mockRepo, &ServiceConfig{
		Leaderboard: NewLeaderboardCache(newMemoryCache(), time.Minute, logger),
	})
	ctx := context.Background()

	mockRepo.EXPECT().GetTopSchools(gomock.Any(), 3).
		Return([]models.SchoolStat{{SchoolDomain: "mit.edu", SchoolName: "MIT", SignupCount: 1, Rank: 1}}, nil).
		Times(2)

	first, err := service.GetTopSchools(ctx, 3)
	require.NoError(t, err)
	second, err := service.GetTopSchools(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	mockRepo.EXPECT().IsEmailOnWaitlist(gomock.Any(), gomock.Any()).Return(false, nil)
	mockRepo.EXPECT().CreateSignup(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, signup *models.Signup) (*models.Signup, error) {
			return storedSignup(signup, "MIT"), nil
		},
	)
	mockRepo.EXPECT().GetSchoolRank(gomock.Any(), gomock.Any()).Return(1, nil)
	mockRepo.EXPECT().GetSchoolSignupCount(gomock.Any(), gomock.Any()).Return(int64(2), nil)

	_, err = service.SubmitSignup(ctx, validRequest())
	require.NoError(t, err)

	_, err = service.GetTopSchools(ctx, 3)
	require.NoError(t, err)
}

func TestService_LeaderboardReadRacingSignupIsNotCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRepo := NewMockWaitlistRepository(ctrl)
	logger := log.NewLoggerWithJSONOutput()
	leaderboard := NewLeaderboardCache(newMemoryCache(), time.Minute, logger)
	service := NewWaitlistService(logger, mockRepo, &ServiceConfig{Leaderboard: leaderboard})
	ctx := context.Background()

	gomock.InOrder(
		mockRepo.EXPECT().GetTopSchools(gomock.Any(), 3).DoAndReturn(
			func(ctx context.Context, _ int) ([]models.SchoolStat, error) {
				// A signup commits and invalidates while this read is in flight.
				leaderboard.Invalidate(ctx)
				return []models.SchoolStat{{SchoolDomain: "mit.edu", SchoolName: "MIT", SignupCount: 1, Rank: 1}}, nil
			},
		),
		mockRepo.EXPECT().GetTopSchools(gomock.Any(), 3).
			Return([]models.SchoolStat{{SchoolDomain: "mit.edu", SchoolName: "MIT", SignupCount: 2, Rank: 1}}, nil),
	)

	stale, err := service.GetTopSchools(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stale.Schools[0].SignupCount)

	fresh, err := service.GetTopSchools(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(2), fresh.Schools[0].SignupCount)
}
