package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetAggregatedStatus(t *testing.T) {

	t.Run("ReturnsSucceededForEmptyBatch", func(t *testing.T) {

		// act
		status := GetAggregatedStatus([]RunResult{})

		assert.Equal(t, RunStatusSucceeded, status)
	})

	t.Run("ReturnsSucceededWhenAllRunsSucceeded", func(t *testing.T) {

		results := []RunResult{
			{Status: RunStatusSucceeded},
			{Status: RunStatusSucceeded},
		}

		// act
		status := GetAggregatedStatus(results)

		assert.Equal(t, RunStatusSucceeded, status)
	})

	t.Run("ReturnsFailedWhenAnyRunFailed", func(t *testing.T) {

		results := []RunResult{
			{Status: RunStatusSucceeded},
			{Status: RunStatusFailed},
			{Status: RunStatusTimedOut},
		}

		// act
		status := GetAggregatedStatus(results)

		assert.Equal(t, RunStatusFailed, status)
	})

	t.Run("ReturnsTimedOutWhenWorstRunTimedOut", func(t *testing.T) {

		results := []RunResult{
			{Status: RunStatusSucceeded},
			{Status: RunStatusTimedOut},
		}

		// act
		status := GetAggregatedStatus(results)

		assert.Equal(t, RunStatusTimedOut, status)
	})
}

func TestRunStatusIsTerminal(t *testing.T) {

	t.Run("ReturnsTrueForAllFourTerminalStates", func(t *testing.T) {

		assert.True(t, RunStatusSucceeded.IsTerminal())
		assert.True(t, RunStatusFailed.IsTerminal())
		assert.True(t, RunStatusTimedOut.IsTerminal())
		assert.True(t, RunStatusAborted.IsTerminal())
	})

	t.Run("ReturnsFalseForInFlightStates", func(t *testing.T) {

		assert.False(t, RunStatusPending.IsTerminal())
		assert.False(t, RunStatusProvisioning.IsTerminal())
		assert.False(t, RunStatusRunning.IsTerminal())
	})
}
