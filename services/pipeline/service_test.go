package pipeline

import (
	"context"
	"testing"
	"time"

	foundation "github.com/estafette/estafette-foundation"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/taskrelay/taskrelay-ci-runner/clients/statusapi"
	"github.com/taskrelay/taskrelay-ci-runner/config"
	"github.com/taskrelay/taskrelay-ci-runner/pkg/contracts"
	"github.com/taskrelay/taskrelay-ci-runner/services/materialize"
	"github.com/taskrelay/taskrelay-ci-runner/services/runner"
	"github.com/taskrelay/taskrelay-ci-runner/services/trigger"
)

func getService(t *testing.T, runnerService runner.Service, statusapiClient statusapi.Client) Service {

	ctx := context.Background()

	triggerService, err := trigger.NewService(ctx, config.TriggerRuleSet{
		Events: []contracts.EventKind{contracts.EventKindPushed, contracts.EventKindOpened},
	})
	assert.Nil(t, err)

	materializeService, err := materialize.NewService(ctx)
	assert.Nil(t, err)

	service, err := NewService(ctx, getApplicationInfo(), triggerService, materializeService, runnerService, statusapiClient, getTemplate(), nil)
	assert.Nil(t, err)

	return service
}

func getApplicationInfo() foundation.ApplicationInfo {
	return foundation.NewApplicationInfo("taskrelay", "taskrelay-ci-runner", "v0.0.0", "main", "deadbeef", "2026-08-30T00:00:00Z")
}

func getTemplate() contracts.TaskTemplate {
	return contracts.TaskTemplate{
		ProvisionerID: "aws-provisioner-v1",
		WorkerType:    "github-worker",
		EventFilters:  []contracts.EventKind{contracts.EventKindPushed, contracts.EventKindOpened},
		Payload: contracts.TaskPayload{
			MaxRunTime: 3600,
			Image:      "rust:1.42.0@sha256:9b2a28eb47540823042a2ba401386845089bb7b62a9637d55816132c4c3c36eb",
			Command:    []string{"git -C repo checkout ${EVENT_HEAD_SHA}", "cargo test"},
		},
		Metadata: contracts.TaskMetadata{
			Name:  "tests",
			Owner: "${EVENT_USER_EMAIL}",
		},
	}
}

func getEvent() contracts.Event {
	return contracts.Event{
		Kind:      contracts.EventKindPushed,
		RepoURL:   "https://example/repo",
		HeadSHA:   "abc123",
		UserEmail: "dev@example.com",
	}
}

func TestHandleEvent(t *testing.T) {

	t.Run("DispatchesRunAndReportsResultForMatchingEvent", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		runnerService := runner.NewMockService(ctrl)
		statusapiClient := statusapi.NewMockClient(ctrl)

		service := getService(t, runnerService, statusapiClient)
		event := getEvent()

		statusapiClient.EXPECT().SendRunStartedEvent(gomock.Any(), gomock.Any()).Return(nil)
		runnerService.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, task contracts.MaterializedTask) contracts.RunResult {
			assert.Equal(t, "git -C repo checkout abc123", task.Command[0])
			return contracts.RunResult{TaskID: task.ID, RunID: "01ARZ3NDEKTSV4RRFFQ69G5FAV", Status: contracts.RunStatusSucceeded}
		})
		statusapiClient.EXPECT().SendRunResult(gomock.Any(), gomock.Any()).Return(nil)

		// act
		result, err := service.HandleEvent(context.Background(), event)

		assert.Nil(t, err)
		assert.NotNil(t, result)
		assert.Equal(t, contracts.RunStatusSucceeded, result.Status)
	})

	t.Run("DoesNotDispatchRunForNonMatchingEvent", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		runnerService := runner.NewMockService(ctrl)
		statusapiClient := statusapi.NewMockClient(ctrl)

		service := getService(t, runnerService, statusapiClient)
		event := getEvent()
		event.Kind = contracts.EventKindSynchronized

		// act
		result, err := service.HandleEvent(context.Background(), event)

		assert.Nil(t, err)
		assert.Nil(t, result)
	})

	t.Run("DoesNotDispatchRunWhenTemplateDoesNotFilterOnEventKind", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		runnerService := runner.NewMockService(ctrl)
		statusapiClient := statusapi.NewMockClient(ctrl)

		ctx := context.Background()

		// the rule set lets pull request events through, but the template only
		// wants to run for pushes
		triggerService, err := trigger.NewService(ctx, config.TriggerRuleSet{
			Events: []contracts.EventKind{contracts.EventKindPushed, contracts.EventKindOpened},
		})
		assert.Nil(t, err)
		materializeService, err := materialize.NewService(ctx)
		assert.Nil(t, err)

		template := getTemplate()
		template.EventFilters = []contracts.EventKind{contracts.EventKindPushed}

		service, err := NewService(ctx, getApplicationInfo(), triggerService, materializeService, runnerService, statusapiClient, template, nil)
		assert.Nil(t, err)

		event := getEvent()
		event.Kind = contracts.EventKindOpened

		// act
		result, err := service.HandleEvent(context.Background(), event)

		assert.Nil(t, err)
		assert.Nil(t, result)
	})

	t.Run("DoesNotDispatchRunWhenTemplateFailsBinding", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		runnerService := runner.NewMockService(ctrl)
		statusapiClient := statusapi.NewMockClient(ctrl)

		service := getService(t, runnerService, statusapiClient)
		event := getEvent()
		event.UserEmail = ""

		// act
		result, err := service.HandleEvent(context.Background(), event)

		assert.NotNil(t, err)
		assert.Nil(t, result)
	})

	t.Run("StillDispatchesRunWhenReportingRunStartFails", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		runnerService := runner.NewMockService(ctrl)
		statusapiClient := statusapi.NewMockClient(ctrl)

		service := getService(t, runnerService, statusapiClient)
		event := getEvent()

		statusapiClient.EXPECT().SendRunStartedEvent(gomock.Any(), gomock.Any()).Return(assert.AnError)
		runnerService.EXPECT().Run(gomock.Any(), gomock.Any()).Return(contracts.RunResult{Status: contracts.RunStatusSucceeded})
		statusapiClient.EXPECT().SendRunResult(gomock.Any(), gomock.Any()).Return(assert.AnError)

		// act
		result, err := service.HandleEvent(context.Background(), event)

		assert.Nil(t, err)
		assert.NotNil(t, result)
	})
}

func TestHandleEvents(t *testing.T) {

	t.Run("HandlesEventsAsIndependentUnits", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		runnerService := runner.NewMockService(ctrl)
		statusapiClient := statusapi.NewMockClient(ctrl)

		service := getService(t, runnerService, statusapiClient)

		matchingEvent := getEvent()
		nonMatchingEvent := getEvent()
		nonMatchingEvent.Kind = contracts.EventKindSynchronized
		failingEvent := getEvent()
		failingEvent.UserEmail = ""

		statusapiClient.EXPECT().SendRunStartedEvent(gomock.Any(), gomock.Any()).Return(nil)
		runnerService.EXPECT().Run(gomock.Any(), gomock.Any()).Return(contracts.RunResult{Status: contracts.RunStatusSucceeded})
		statusapiClient.EXPECT().SendRunResult(gomock.Any(), gomock.Any()).Return(nil)

		// act
		results, err := service.HandleEvents(context.Background(), []contracts.Event{matchingEvent, nonMatchingEvent, failingEvent})

		// the failing event surfaces its error, but the matching sibling still ran
		assert.NotNil(t, err)
		assert.Equal(t, 1, len(results))
		assert.Equal(t, contracts.RunStatusSucceeded, results[0].Status)
	})

	t.Run("ReturnsEmptyResultsForEmptyBatch", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		runnerService := runner.NewMockService(ctrl)
		statusapiClient := statusapi.NewMockClient(ctrl)

		service := getService(t, runnerService, statusapiClient)

		// act
		results, err := service.HandleEvents(context.Background(), []contracts.Event{})

		assert.Nil(t, err)
		assert.Equal(t, 0, len(results))
	})
}

func TestTailLogs(t *testing.T) {

	t.Run("SignalsDoneOnceContextGetsCancelled", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		runnerService := runner.NewMockService(ctrl)
		statusapiClient := statusapi.NewMockClient(ctrl)

		tailLogsChannel := make(chan contracts.TailLogLine, 10)
		ctx := context.Background()

		triggerService, err := trigger.NewService(ctx, config.TriggerRuleSet{Events: []contracts.EventKind{contracts.EventKindPushed}})
		assert.Nil(t, err)
		materializeService, err := materialize.NewService(ctx)
		assert.Nil(t, err)
		service, err := NewService(ctx, getApplicationInfo(), triggerService, materializeService, runnerService, statusapiClient, getTemplate(), tailLogsChannel)
		assert.Nil(t, err)

		tailLogsChannel <- contracts.TailLogLine{
			TaskID:  "b1946ac92492d2347c6235b4d2611184",
			LogLine: &contracts.RunLogLine{LineNumber: 1, Text: "running tests\n"},
		}

		tailLogsCtx, tailLogsCancel := context.WithCancel(ctx)
		tailLogsDone := make(chan struct{}, 1)

		// act
		go service.TailLogs(tailLogsCtx, tailLogsDone)

		time.Sleep(10 * time.Millisecond)
		tailLogsCancel()

		select {
		case <-tailLogsDone:
		case <-time.After(time.Second):
			assert.Fail(t, "expected tail logs to signal done after cancellation")
		}
	})
}
