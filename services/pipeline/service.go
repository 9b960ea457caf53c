package pipeline

import (
	"context"
	"strings"
	"sync"

	foundation "github.com/estafette/estafette-foundation"
	"github.com/opentracing/opentracing-go"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/taskrelay/taskrelay-ci-runner/clients/statusapi"
	"github.com/taskrelay/taskrelay-ci-runner/pkg/contracts"
	"github.com/taskrelay/taskrelay-ci-runner/services/materialize"
	"github.com/taskrelay/taskrelay-ci-runner/services/runner"
	"github.com/taskrelay/taskrelay-ci-runner/services/trigger"
)

// Service gates, materializes and dispatches runs for incoming repository
// events: event arrives, the trigger matcher evaluates, on match the
// materializer binds variables and the runner executes and reports
//go:generate mockgen -package=pipeline -destination ./mock.go -source=service.go
type Service interface {
	HandleEvent(ctx context.Context, event contracts.Event) (*contracts.RunResult, error)
	HandleEvents(ctx context.Context, events []contracts.Event) ([]contracts.RunResult, error)
	TailLogs(ctx context.Context, tailLogsDone chan struct{})
}

// NewService returns a new pipeline.Service
func NewService(ctx context.Context, applicationInfo foundation.ApplicationInfo, triggerService trigger.Service, materializeService materialize.Service, runnerService runner.Service, statusapiClient statusapi.Client, template contracts.TaskTemplate, tailLogsChannel chan contracts.TailLogLine) (Service, error) {
	return &service{
		applicationInfo:    applicationInfo,
		triggerService:     triggerService,
		materializeService: materializeService,
		runnerService:      runnerService,
		statusapiClient:    statusapiClient,
		template:           template,
		tailLogsChannel:    tailLogsChannel,
	}, nil
}

type service struct {
	applicationInfo    foundation.ApplicationInfo
	triggerService     trigger.Service
	materializeService materialize.Service
	runnerService      runner.Service
	statusapiClient    statusapi.Client
	template           contracts.TaskTemplate
	tailLogsChannel    chan contracts.TailLogLine
}

// HandleEvent runs the full pipeline for one event; a non-matching event and
// a failed binding both resolve locally without dispatching a run
func (s *service) HandleEvent(ctx context.Context, event contracts.Event) (*contracts.RunResult, error) {

	span, ctx := opentracing.StartSpanFromContext(ctx, "HandleEvent")
	defer span.Finish()
	span.SetTag("event-kind", string(event.Kind))

	if !s.triggerService.Matches(event) {
		log.Debug().Msgf("Event '%v' on %v does not match the trigger rule set, not dispatching a task", event.Kind, event.RepoURL)
		return nil, nil
	}

	if !s.template.AppliesTo(event.Kind) {
		log.Debug().Msgf("Task template '%v' does not filter on '%v' events, not dispatching a task", s.template.Metadata.Name, event.Kind)
		return nil, nil
	}

	task, err := s.materializeService.Materialize(s.template, event)
	if err != nil {
		// no environment has been provisioned at this point, no resources
		// were consumed
		log.Warn().Err(err).Msgf("Failed materializing task for '%v' event on %v", event.Kind, event.RepoURL)
		return nil, err
	}

	log.Info().Msgf("[%v] Dispatching run for '%v' event on %v at %v", task.ID, event.Kind, event.RepoURL, event.HeadSHA)

	if err := s.statusapiClient.SendRunStartedEvent(ctx, task); err != nil {
		log.Warn().Err(err).Msgf("[%v] Failed reporting run start", task.ID)
	}

	result := s.runnerService.Run(ctx, task)

	if err := s.statusapiClient.SendRunResult(ctx, result); err != nil {
		log.Warn().Err(err).Msgf("[%v] Failed reporting run result", task.ID)
	}

	return &result, nil
}

// HandleEvents processes a batch of events as independent parallel units; no
// relative ordering across tasks is guaranteed
func (s *service) HandleEvents(ctx context.Context, events []contracts.Event) ([]contracts.RunResult, error) {

	span, ctx := opentracing.StartSpanFromContext(ctx, "HandleEvents")
	defer span.Finish()

	results := make([]contracts.RunResult, 0, len(events))
	var resultsMutex sync.Mutex
	var firstErr error

	// events are independent units, so one event failing to materialize must
	// not cancel the runs dispatched for its siblings
	var g errgroup.Group
	for _, e := range events {
		event := e

		g.Go(func() error {
			result, err := s.HandleEvent(ctx, event)

			resultsMutex.Lock()
			defer resultsMutex.Unlock()

			if err != nil && firstErr == nil {
				firstErr = err
			}
			if result != nil {
				results = append(results, *result)
			}

			return nil
		})
	}

	_ = g.Wait()

	return results, firstErr
}

// TailLogs streams live log lines and status transitions from all runs until
// the context is done, then signals tailLogsDone
func (s *service) TailLogs(ctx context.Context, tailLogsDone chan struct{}) {

	for {
		select {
		case tailLogLine := <-s.tailLogsChannel:
			if tailLogLine.LogLine != nil {
				log.Info().Msgf("[%v] %v", tailLogLine.TaskID, strings.TrimSuffix(tailLogLine.LogLine.Text, "\n"))
			} else if tailLogLine.Status != nil {
				log.Info().Msgf("[%v] Run %v > %v", tailLogLine.TaskID, tailLogLine.RunID, *tailLogLine.Status)
			}

		case <-ctx.Done():
			tailLogsDone <- struct{}{}
			return
		}
	}
}
