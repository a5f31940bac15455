package retry

import (
	"math"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/solbuild/solkit/pkg/retry/backoff"
)

type testSleeper struct {
	sleeps []time.Duration
}

func (t *testSleeper) Sleep(d time.Duration) {
	t.sleeps = append(t.sleeps, d)
}

func (t *testSleeper) Total() (total time.Duration) {
	for _, s := range t.sleeps {
		total += s
	}
	return total
}

func (t *testSleeper) Mean() time.Duration {
	return time.Duration(float64(t.Total()) / float64(len(t.sleeps)))
}

func TestLimit(t *testing.T) {
	err := errors.New("failure")
	s := Limit(3)

	assert.True(t, s(1, err))
	assert.True(t, s(2, err))
	assert.False(t, s(3, err))
	assert.False(t, s(4, err))
}

func TestRetriableErrors(t *testing.T) {
	retriable := errors.New("retriable")
	other := errors.New("other")

	s := RetriableErrors(retriable)

	assert.True(t, s(1, retriable))
	assert.True(t, s(1, errors.Wrap(retriable, "wrapped")))
	assert.False(t, s(1, other))
}

func TestNonRetriableErrors(t *testing.T) {
	fatal := errors.New("fatal")
	other := errors.New("other")

	s := NonRetriableErrors(fatal)

	assert.False(t, s(1, fatal))
	assert.False(t, s(1, errors.Wrap(fatal, "wrapped")))
	assert.True(t, s(1, other))
}

func TestBackoff(t *testing.T) {
	sleeper := &testSleeper{}
	sleeperImpl = sleeper
	defer func() { sleeperImpl = &realSleeper{} }()

	err := errors.New("failure")
	s := Backoff(backoff.BinaryExponential(100*time.Millisecond), 500*time.Millisecond)

	for i := uint(1); i <= 5; i++ {
		assert.True(t, s(i, err))
	}

	expected := []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
		500 * time.Millisecond,
		500 * time.Millisecond,
	}
	assert.Equal(t, expected, sleeper.sleeps)
}

func TestBackoffWithJitter(t *testing.T) {
	sleeper := &testSleeper{}
	sleeperImpl = sleeper
	defer func() { sleeperImpl = &realSleeper{} }()

	err := errors.New("failure")
	s := BackoffWithJitter(backoff.Constant(100*time.Millisecond), 500*time.Millisecond, 0.1)

	for i := 0; i < 1000; i++ {
		assert.True(t, s(1, err))
	}

	for _, d := range sleeper.sleeps {
		assert.True(t, d >= 90*time.Millisecond)
		assert.True(t, d <= 110*time.Millisecond)
	}

	// The mean should hover around the un-jittered delay.
	deviation := math.Abs(float64(sleeper.Mean() - 100*time.Millisecond))
	assert.True(t, deviation < float64(5*time.Millisecond))
}
