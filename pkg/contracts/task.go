package contracts

import (
	"fmt"
	"time"
)

// TaskTemplate describes a unit of work in the abstract, before binding to a
// specific event; this is the external task descriptor schema
type TaskTemplate struct {
	ProvisionerID string       `json:"provisionerId" yaml:"provisionerId"`
	WorkerType    string       `json:"workerType" yaml:"workerType"`
	EventFilters  []EventKind  `json:"eventFilters" yaml:"eventFilters"`
	Payload       TaskPayload  `json:"payload" yaml:"payload"`
	Metadata      TaskMetadata `json:"metadata" yaml:"metadata"`
}

// TaskPayload holds what actually gets executed inside the container
type TaskPayload struct {
	MaxRunTime int      `json:"maxRunTime" yaml:"maxRunTime"`
	Image      string   `json:"image" yaml:"image"`
	Command    []string `json:"command" yaml:"command"`
}

// TaskMetadata is free-form information about the task shown in the provider ui
type TaskMetadata struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Owner       string `json:"owner" yaml:"owner"`
	Source      string `json:"source" yaml:"source"`
}

// AppliesTo returns true when the template wants to run for the given event
// kind; a template without filters applies to every kind the rule set lets
// through
func (tt *TaskTemplate) AppliesTo(kind EventKind) bool {

	if len(tt.EventFilters) == 0 {
		return true
	}

	for _, f := range tt.EventFilters {
		if f == kind {
			return true
		}
	}

	return false
}

// Validate checks the template invariants: a positive run time budget, a
// digest-pinned image and only known event kinds in the filters
func (tt *TaskTemplate) Validate() error {

	if tt.Payload.MaxRunTime <= 0 {
		return fmt.Errorf("Task template '%v' has invalid maxRunTime %v, must be a positive number of seconds", tt.Metadata.Name, tt.Payload.MaxRunTime)
	}

	if _, err := ParseImageReference(tt.Payload.Image); err != nil {
		return err
	}

	for _, f := range tt.EventFilters {
		if !f.IsKnown() {
			return fmt.Errorf("Task template '%v' filters on unknown event kind '%v'", tt.Metadata.Name, f)
		}
	}

	return nil
}

// MaterializedTask is a task template with all placeholders substituted with
// concrete values from a specific event; owned by one runner invocation
type MaterializedTask struct {
	ID            string         `json:"id"`
	ProvisionerID string         `json:"provisionerId"`
	WorkerType    string         `json:"workerType"`
	Image         ImageReference `json:"image"`
	Command       []string       `json:"command"`
	MaxRunTime    time.Duration  `json:"maxRunTime"`
	Metadata      TaskMetadata   `json:"metadata"`
	Event         Event          `json:"event"`
}
