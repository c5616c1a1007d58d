package listsync

import (
	"testing"
	"time"

	"registry-client/internal/models"

	"github.com/cenkalti/backoff"
	"github.com/stretchr/testify/assert"
)

func TestFixedInterval(t *testing.T) {
	d, ok := FixedInterval[int](250 * time.Millisecond).Next(nil)
	assert.True(t, ok)
	assert.Equal(t, 250*time.Millisecond, d)

	d, ok = FixedInterval[int](0).Next(nil)
	assert.True(t, ok)
	assert.Equal(t, DefaultPollInterval, d)
}

func TestNever(t *testing.T) {
	_, ok := Never[int]().Next([]int{1, 2})
	assert.False(t, ok)
}

func inProgress(op models.ImportOperation) bool {
	return !op.Status.IsTerminal()
}

func TestWhileActiveBacksOffWhilePending(t *testing.T) {
	policy := WhileActive(inProgress, HistoryBackOff(100*time.Millisecond, 300*time.Millisecond))
	pending := []models.ImportOperation{
		{ID: 1, Status: models.ImportStatusSuccess},
		{ID: 2, Status: models.ImportStatusInProgress},
	}

	var got []time.Duration
	for i := 0; i < 4; i++ {
		d, ok := policy.Next(pending)
		assert.True(t, ok)
		got = append(got, d)
	}
	assert.Equal(t, []time.Duration{
		100 * time.Millisecond,
		150 * time.Millisecond,
		225 * time.Millisecond,
		300 * time.Millisecond,
	}, got)

	done := []models.ImportOperation{{ID: 2, Status: models.ImportStatusFailed}}
	_, ok := policy.Next(done)
	assert.False(t, ok)

	// a new pending import starts over from the initial interval
	d, ok := policy.Next(pending)
	assert.True(t, ok)
	assert.Equal(t, 100*time.Millisecond, d)
}

func TestWhileActiveStopsWhenBackOffGivesUp(t *testing.T) {
	policy := WhileActive(inProgress, &backoff.StopBackOff{})
	_, ok := policy.Next([]models.ImportOperation{{Status: models.ImportStatusInProgress}})
	assert.False(t, ok)
}
