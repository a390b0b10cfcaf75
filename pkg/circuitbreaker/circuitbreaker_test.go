package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUnreachable = errors.New("redis: connection refused")

func fail() error    { return errUnreachable }
func succeed() error { return nil }

func newBreaker(t *testing.T, transitions *[]string) (*Breaker, *time.Time) {
	t.Helper()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	b := New(Settings{
		MaxFailures: 2,
		Cooldown:    time.Minute,
		OnTransition: func(from, to State) {
			if transitions != nil {
				*transitions = append(*transitions, string(from)+"->"+string(to))
			}
		},
	})
	b.clock = func() time.Time { return now }
	return b, &now
}

func TestBreaker_TripsAfterConsecutiveFailures(t *testing.T) {
	b, _ := newBreaker(t, nil)
	calls := 0
	counted := func() error { calls++; return errUnreachable }

	assert.ErrorIs(t, b.Do(counted), errUnreachable)
	assert.Equal(t, StateClosed, b.State())
	assert.ErrorIs(t, b.Do(counted), errUnreachable)
	assert.Equal(t, StateOpen, b.State())

	assert.ErrorIs(t, b.Do(counted), ErrOpen)
	assert.Equal(t, 2, calls, "an open circuit must not invoke the call")
}

func TestBreaker_SuccessClearsStreak(t *testing.T) {
	b, _ := newBreaker(t, nil)

	_ = b.Do(fail)
	require.NoError(t, b.Do(succeed))
	_ = b.Do(fail)

	assert.Equal(t, StateClosed, b.State())
}

func TestBreaker_ProbeAfterCooldown(t *testing.T) {
	var transitions []string
	b, now := newBreaker(t, &transitions)

	_ = b.Do(fail)
	_ = b.Do(fail)
	require.Equal(t, StateOpen, b.State())

	*now = now.Add(30 * time.Second)
	assert.False(t, b.Allow(), "still cooling down")

	*now = now.Add(30 * time.Second)
	assert.ErrorIs(t, b.Do(fail), errUnreachable)
	assert.Equal(t, StateOpen, b.State(), "a failed probe reopens the circuit")

	*now = now.Add(time.Minute)
	require.NoError(t, b.Do(succeed))
	assert.Equal(t, StateClosed, b.State())

	assert.Equal(t, []string{
		"closed->open",
		"open->half_open",
		"half_open->open",
		"open->half_open",
		"half_open->closed",
	}, transitions)
}

func TestBreaker_Reset(t *testing.T) {
	b, _ := newBreaker(t, nil)

	_ = b.Do(fail)
	_ = b.Do(fail)
	require.Equal(t, StateOpen, b.State())

	b.Reset()
	assert.Equal(t, StateClosed, b.State())
	assert.NoError(t, b.Do(succeed))
}

func TestNew_Defaults(t *testing.T) {
	b := New(Settings{})

	assert.Equal(t, defaultMaxFailures, b.settings.MaxFailures)
	assert.Equal(t, defaultCooldown, b.settings.Cooldown)
	assert.Equal(t, defaultProbeSuccesses, b.settings.ProbeSuccesses)
	assert.Equal(t, StateClosed, b.State())
}
