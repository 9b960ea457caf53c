package materialize

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/taskrelay/taskrelay-ci-runner/pkg/contracts"
)

// TemplateBindingError is returned when a template references a variable that
// has no corresponding value on the event
type TemplateBindingError struct {
	Variable string
}

func (e *TemplateBindingError) Error() string {
	return fmt.Sprintf("Template references variable '%v' but the event carries no value for it", e.Variable)
}

// Service expands a task template against a triggering event's variables into
// a concrete, executable task
//go:generate mockgen -package=materialize -destination ./mock.go -source=service.go
type Service interface {
	Materialize(template contracts.TaskTemplate, event contracts.Event) (contracts.MaterializedTask, error)
}

// NewService returns a new materialize.Service
func NewService(ctx context.Context) (Service, error) {
	return &service{}, nil
}

type service struct {
}

// Materialize substitutes ${EVENT_...} placeholders in the template's command
// arguments and metadata with values from the event. Substitution is textual,
// the bound values are opaque data and are never evaluated as code. Given the
// same (template, event) pair the result is byte-identical, including its id.
func (s *service) Materialize(template contracts.TaskTemplate, event contracts.Event) (task contracts.MaterializedTask, err error) {

	binder := newEventBinder(event)

	command := make([]string, 0, len(template.Payload.Command))
	for _, c := range template.Payload.Command {
		command = append(command, binder.bind(c))
	}

	metadata := template.Metadata
	metadata.Name = binder.bind(metadata.Name)
	metadata.Description = binder.bind(metadata.Description)
	metadata.Owner = binder.bind(metadata.Owner)
	metadata.Source = binder.bind(metadata.Source)

	if binderErr := binder.err(); binderErr != nil {
		// no partial task object escapes
		return contracts.MaterializedTask{}, binderErr
	}

	image, err := contracts.ParseImageReference(template.Payload.Image)
	if err != nil {
		return contracts.MaterializedTask{}, err
	}

	task = contracts.MaterializedTask{
		ProvisionerID: template.ProvisionerID,
		WorkerType:    template.WorkerType,
		Image:         image,
		Command:       command,
		MaxRunTime:    time.Duration(template.Payload.MaxRunTime) * time.Second,
		Metadata:      metadata,
		Event:         event,
	}

	task.ID, err = deriveTaskID(template, event)
	if err != nil {
		return contracts.MaterializedTask{}, err
	}

	log.Debug().Msgf("Materialized task %v for %v event on %v", task.ID, event.Kind, event.RepoURL)

	return task, nil
}

// eventBinder substitutes placeholders and remembers the first variable it
// could not bind, since os.Expand itself cannot fail
type eventBinder struct {
	values  map[string]string
	missing string
}

func newEventBinder(event contracts.Event) *eventBinder {
	return &eventBinder{
		values: map[string]string{
			"EVENT_KIND":       string(event.Kind),
			"EVENT_REPO_URL":   event.RepoURL,
			"EVENT_HEAD_SHA":   event.HeadSHA,
			"EVENT_USER_EMAIL": event.UserEmail,
		},
	}
}

func (b *eventBinder) bind(input string) string {
	return os.Expand(input, func(variable string) string {
		value, known := b.values[variable]
		if !known || value == "" {
			if b.missing == "" {
				b.missing = variable
			}
			return ""
		}
		return value
	})
}

func (b *eventBinder) err() error {
	if b.missing != "" {
		return &TemplateBindingError{Variable: b.missing}
	}
	return nil
}

// deriveTaskID computes a deterministic task id from the template and event,
// so re-materializing the same pair yields the same task
func deriveTaskID(template contracts.TaskTemplate, event contracts.Event) (string, error) {

	data, err := json.Marshal(struct {
		Template contracts.TaskTemplate `json:"template"`
		Event    contracts.Event        `json:"event"`
	}{template, event})
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(data)

	return hex.EncodeToString(sum[:16]), nil
}
