package contracts

import "time"

// RunStatus is the state of a single task run
type RunStatus string

const (
	RunStatusPending      RunStatus = "pending"
	RunStatusProvisioning RunStatus = "provisioning"
	RunStatusRunning      RunStatus = "running"
	RunStatusSucceeded    RunStatus = "succeeded"
	RunStatusFailed       RunStatus = "failed"
	RunStatusTimedOut     RunStatus = "timedout"
	RunStatusAborted      RunStatus = "aborted"
)

// IsTerminal returns true once a run can no longer change state
func (s RunStatus) IsTerminal() bool {
	switch s {
	case RunStatusSucceeded, RunStatusFailed, RunStatusTimedOut, RunStatusAborted:
		return true
	}

	return false
}

// RunLogLine has low level log information for a single captured output line
type RunLogLine struct {
	LineNumber int       `json:"lineNumber"`
	Timestamp  time.Time `json:"timestamp"`
	StreamType string    `json:"streamType"`
	Text       string    `json:"text"`
}

// TailLogLine is streamed while a run executes, to provide live log tailing
type TailLogLine struct {
	TaskID   string      `json:"taskId"`
	RunID    string      `json:"runId"`
	LogLine  *RunLogLine `json:"logLine,omitempty"`
	Status   *RunStatus  `json:"status,omitempty"`
	ExitCode *int64      `json:"exitCode,omitempty"`
}

// RunImageInfo holds info about the image the run environment was created from
type RunImageInfo struct {
	Name         string        `json:"name"`
	Digest       string        `json:"digest"`
	IsPulled     bool          `json:"isPulled"`
	ImageSize    int64         `json:"imageSize"`
	PullDuration time.Duration `json:"pullDuration"`
}

// RunResult is the terminal outcome record of one task execution
type RunResult struct {
	TaskID   string        `json:"taskId"`
	RunID    string        `json:"runId"`
	Status   RunStatus     `json:"status"`
	ExitCode int64         `json:"exitCode"`
	Duration time.Duration `json:"duration"`
	Image    *RunImageInfo `json:"image,omitempty"`
	LogLines []RunLogLine  `json:"logLines"`
}

// GetAggregatedStatus returns the single status covering a batch of runs;
// any non-success dominates, an empty batch counts as succeeded
func GetAggregatedStatus(results []RunResult) RunStatus {

	aggregatedStatus := RunStatusSucceeded
	for _, r := range results {
		switch r.Status {
		case RunStatusSucceeded:
			continue
		case RunStatusAborted, RunStatusTimedOut:
			if aggregatedStatus != RunStatusFailed {
				aggregatedStatus = r.Status
			}
		default:
			aggregatedStatus = RunStatusFailed
		}
	}

	return aggregatedStatus
}

// HasSucceededStatus returns true when every run in the batch succeeded
func HasSucceededStatus(results []RunResult) bool {
	return GetAggregatedStatus(results) == RunStatusSucceeded
}
