package runner

import (
	"context"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/opentracing/opentracing-go"
	"github.com/rs/zerolog/log"

	"github.com/taskrelay/taskrelay-ci-runner/clients/docker"
	"github.com/taskrelay/taskrelay-ci-runner/pkg/contracts"
)

// Service executes one materialized task inside an isolated environment,
// enforces the wall-clock budget and captures the outcome. A run moves
// through pending, provisioning and running into exactly one terminal state:
// succeeded, failed, timedout or aborted.
//go:generate mockgen -package=runner -destination ./mock.go -source=service.go
type Service interface {
	Run(ctx context.Context, task contracts.MaterializedTask) contracts.RunResult
	Cancel(runID string)
	StopRunsOnCancellation(ctx context.Context)
}

// NewService returns a new runner.Service
func NewService(ctx context.Context, dockerClient docker.Client, tailLogsChannel chan contracts.TailLogLine) (Service, error) {
	return &service{
		dockerClient:    dockerClient,
		tailLogsChannel: tailLogsChannel,
		cancelFuncs:     make(map[string]context.CancelFunc),
	}, nil
}

type service struct {
	dockerClient    docker.Client
	tailLogsChannel chan contracts.TailLogLine

	cancelFuncs      map[string]context.CancelFunc
	cancelFuncsMutex sync.Mutex
}

func (s *service) Run(ctx context.Context, task contracts.MaterializedTask) (result contracts.RunResult) {

	span, ctx := opentracing.StartSpanFromContext(ctx, "Run")
	defer span.Finish()
	span.SetTag("task", task.ID)

	result = contracts.RunResult{
		TaskID:   task.ID,
		RunID:    ulid.Make().String(),
		Status:   contracts.RunStatusPending,
		ExitCode: -1,
		LogLines: make([]contracts.RunLogLine, 0),
	}

	// the wait-for-completion step must never block longer than the budget
	runCtx, cancel := context.WithTimeout(ctx, task.MaxRunTime)
	defer cancel()

	s.registerCancelFunc(result.RunID, cancel)
	defer s.unregisterCancelFunc(result.RunID)

	start := time.Now()
	defer func() {
		result.Duration = time.Since(start)
		log.Info().Msgf("[%v] Run %v finished with status '%v' in %v", task.ID, result.RunID, result.Status, result.Duration)
	}()

	s.transition(&result, contracts.RunStatusProvisioning)

	imageInfo, err := s.provision(runCtx, task)
	result.Image = imageInfo
	if err != nil {
		// provisioning failures are always aborts, regardless of whether the
		// budget ran out while acquiring the environment
		log.Warn().Err(err).Msgf("[%v] Failed provisioning environment from image '%v'", task.ID, task.Image)
		s.transition(&result, contracts.RunStatusAborted)
		return
	}

	if len(task.Command) == 0 {
		// nothing to execute beyond provisioning the environment
		result.ExitCode = 0
		s.transition(&result, contracts.RunStatusSucceeded)
		return
	}

	containerID, err := s.dockerClient.StartTaskContainer(runCtx, task)
	if err != nil {
		log.Warn().Err(err).Msgf("[%v] Failed starting task container", task.ID)
		s.transition(&result, contracts.RunStatusAborted)
		return
	}

	s.transition(&result, contracts.RunStatusRunning)

	logLines, exitCode, err := s.dockerClient.TailContainerLogs(runCtx, containerID, task)
	result.LogLines = logLines
	result.ExitCode = exitCode

	if terminal, ok := s.statusForContextError(runCtx); ok {
		s.teardown(containerID)
		s.transition(&result, terminal)
		return
	}

	if err != nil {
		// the environment broke underneath the commands, distinct from the
		// commands themselves failing
		log.Warn().Err(err).Msgf("[%v] Lost task container %v", task.ID, containerID)
		s.teardown(containerID)
		s.transition(&result, contracts.RunStatusAborted)
		return
	}

	if exitCode == 0 {
		s.transition(&result, contracts.RunStatusSucceeded)
	} else {
		s.transition(&result, contracts.RunStatusFailed)
	}

	return
}

// Cancel transitions a run to aborted by cancelling its context; cancelling
// an already-terminal or unknown run is a no-op
func (s *service) Cancel(runID string) {

	s.cancelFuncsMutex.Lock()
	cancel, ok := s.cancelFuncs[runID]
	s.cancelFuncsMutex.Unlock()

	if !ok {
		log.Debug().Msgf("Run %v is not in flight, nothing to cancel", runID)
		return
	}

	log.Info().Msgf("Cancelling run %v", runID)
	cancel()
}

// StopRunsOnCancellation tears down all running containers once the passed
// context gets cancelled
func (s *service) StopRunsOnCancellation(ctx context.Context) {

	// wait for cancellation
	<-ctx.Done()

	s.dockerClient.StopAllContainers(context.Background())
}

func (s *service) provision(ctx context.Context, task contracts.MaterializedTask) (*contracts.RunImageInfo, error) {

	imageInfo := &contracts.RunImageInfo{
		Name:   task.Image.Name,
		Digest: task.Image.Digest,
	}

	imageInfo.IsPulled = s.dockerClient.IsImagePulled(ctx, task.ID, task.Image)
	if !imageInfo.IsPulled {
		pullStart := time.Now()
		if err := s.dockerClient.PullImage(ctx, task.ID, task.Image); err != nil {
			return imageInfo, err
		}
		imageInfo.PullDuration = time.Since(pullStart)
	}

	imageSize, err := s.dockerClient.GetImageSize(ctx, task.Image)
	if err != nil {
		log.Warn().Err(err).Msgf("[%v] Failed getting size of image '%v'", task.ID, task.Image)
	} else {
		imageInfo.ImageSize = imageSize
	}

	return imageInfo, nil
}

// statusForContextError maps a dead run context to its terminal status:
// deadline exceeded means the time budget ran out, plain cancellation means
// an external abort
func (s *service) statusForContextError(ctx context.Context) (contracts.RunStatus, bool) {

	switch ctx.Err() {
	case context.DeadlineExceeded:
		return contracts.RunStatusTimedOut, true
	case context.Canceled:
		return contracts.RunStatusAborted, true
	}

	return "", false
}

func (s *service) teardown(containerID string) {

	// the run context is already dead at this point, tear down with a fresh one
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.dockerClient.StopContainer(ctx, containerID); err != nil {
		log.Warn().Err(err).Msgf("Failed tearing down container %v", containerID)
	}
}

func (s *service) transition(result *contracts.RunResult, status contracts.RunStatus) {

	result.Status = status

	if s.tailLogsChannel != nil {
		tailLogLine := contracts.TailLogLine{
			TaskID: result.TaskID,
			RunID:  result.RunID,
			Status: &status,
		}
		if status.IsTerminal() {
			exitCode := result.ExitCode
			tailLogLine.ExitCode = &exitCode
		}

		s.tailLogsChannel <- tailLogLine
	}
}

func (s *service) registerCancelFunc(runID string, cancel context.CancelFunc) {
	s.cancelFuncsMutex.Lock()
	defer s.cancelFuncsMutex.Unlock()

	s.cancelFuncs[runID] = cancel
}

func (s *service) unregisterCancelFunc(runID string) {
	s.cancelFuncsMutex.Lock()
	defer s.cancelFuncsMutex.Unlock()

	delete(s.cancelFuncs, runID)
}
