package ratelimit

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelayForStaysInRange(t *testing.T) {
	policy := NewPolicy(nil, rand.NewSource(42))

	tests := []struct {
		scope    Scope
		min, max time.Duration
	}{
		{InterPage, 4 * time.Second, 7 * time.Second},
		{InterDetailPage, 4 * time.Second, 8 * time.Second},
		{InterLocation, 20 * time.Second, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.scope.String(), func(t *testing.T) {
			for i := 0; i < 500; i++ {
				d := policy.DelayFor(tt.scope)
				assert.GreaterOrEqual(t, d, tt.min)
				assert.LessOrEqual(t, d, tt.max)
			}
		})
	}
}

func TestDelayForIsDeterministicForSeed(t *testing.T) {
	a := NewPolicy(nil, rand.NewSource(7))
	b := NewPolicy(nil, rand.NewSource(7))
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.DelayFor(InterPage), b.DelayFor(InterPage))
	}
}

func TestDelayForOverrideAndDegenerateRange(t *testing.T) {
	policy := NewPolicy(map[Scope]Range{
		InterPage: {Min: time.Second, Max: time.Second},
	}, rand.NewSource(1))

	assert.Equal(t, time.Second, policy.DelayFor(InterPage))
	// untouched scopes keep their defaults
	d := policy.DelayFor(InterLocation)
	assert.GreaterOrEqual(t, d, 20*time.Second)
}

func TestPacerWaitUsesSleeper(t *testing.T) {
	var slept []time.Duration
	pacer := NewPacer(NewPolicy(nil, rand.NewSource(3)), 0).
		WithSleeper(func(ctx context.Context, d time.Duration) error {
			slept = append(slept, d)
			return nil
		})

	require.NoError(t, pacer.Wait(context.Background(), InterDetailPage))
	require.Len(t, slept, 1)
	assert.GreaterOrEqual(t, slept[0], 4*time.Second)
}

func TestSleepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := Sleep(ctx, time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestBeforeNavigateCancelled(t *testing.T) {
	pacer := NewPacer(NewPolicy(nil, nil), time.Hour)
	require.NoError(t, pacer.BeforeNavigate(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, pacer.BeforeNavigate(ctx), "second navigation inside the interval must not be allowed")
}
