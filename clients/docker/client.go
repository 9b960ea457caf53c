package docker

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"strings"
	"sync"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	"github.com/opentracing/opentracing-go"
	"github.com/rs/zerolog/log"

	"github.com/taskrelay/taskrelay-ci-runner/pkg/contracts"
)

// Client acquires isolated execution environments from the docker daemon and
// runs task containers in them; image references are always digest pinned
//go:generate mockgen -package=docker -destination ./mock.go -source=client.go
type Client interface {
	IsImagePulled(ctx context.Context, taskID string, image contracts.ImageReference) bool
	PullImage(ctx context.Context, taskID string, image contracts.ImageReference) error
	GetImageSize(ctx context.Context, image contracts.ImageReference) (int64, error)
	StartTaskContainer(ctx context.Context, task contracts.MaterializedTask) (containerID string, err error)
	TailContainerLogs(ctx context.Context, containerID string, task contracts.MaterializedTask) (logLines []contracts.RunLogLine, exitCode int64, err error)
	StopContainer(ctx context.Context, containerID string) error
	StopAllContainers(ctx context.Context)
	Info(ctx context.Context) string
}

// NewClient returns a new docker.Client speaking to the daemon configured
// through the standard DOCKER_* environment variables
func NewClient(ctx context.Context, tailLogsChannel chan contracts.TailLogLine) (Client, error) {

	dockerClient, err := client.NewClientWithOpts(client.FromEnv)
	if err != nil {
		return nil, err
	}

	return &dockerClientImpl{
		dockerClient:        dockerClient,
		tailLogsChannel:     tailLogsChannel,
		runningContainerIDs: make([]string, 0),
		pulledImagesMutex:   NewKeyedMutex(),
	}, nil
}

type dockerClientImpl struct {
	dockerClient    *client.Client
	tailLogsChannel chan contracts.TailLogLine

	runningContainerIDs      []string
	runningContainerIDsMutex sync.Mutex

	pulledImagesMutex *KeyedMutex
}

func (c *dockerClientImpl) IsImagePulled(ctx context.Context, taskID string, image contracts.ImageReference) bool {

	span, _ := opentracing.StartSpanFromContext(ctx, "IsImagePulled")
	defer span.Finish()
	span.SetTag("docker-image", image.String())

	log.Debug().Msgf("[%v] Checking if image '%v' exists locally...", taskID, image)

	// get read lock
	c.pulledImagesMutex.RLock(image.Digest)
	defer c.pulledImagesMutex.RUnlock(image.Digest)

	imageSummaries, err := c.dockerClient.ImageList(ctx, types.ImageListOptions{})
	if err != nil {
		return false
	}

	for _, summary := range imageSummaries {
		if contains(summary.RepoDigests, image.String()) {
			return true
		}
	}

	return false
}

func (c *dockerClientImpl) PullImage(ctx context.Context, taskID string, image contracts.ImageReference) (err error) {

	span, _ := opentracing.StartSpanFromContext(ctx, "PullImage")
	defer span.Finish()
	span.SetTag("docker-image", image.String())

	// get write lock so only one run pulls the same image
	c.pulledImagesMutex.Lock(image.Digest)
	defer c.pulledImagesMutex.Unlock(image.Digest)

	log.Info().Msgf("[%v] Pulling image '%v'", taskID, image)

	rc, err := c.dockerClient.ImagePull(ctx, image.String(), types.ImagePullOptions{})
	if err != nil {
		return err
	}
	defer rc.Close()

	// wait for image pull to finish
	_, err = ioutil.ReadAll(rc)
	if err != nil {
		return err
	}

	return
}

func (c *dockerClientImpl) GetImageSize(ctx context.Context, image contracts.ImageReference) (totalSize int64, err error) {

	items, err := c.dockerClient.ImageHistory(ctx, image.String())
	if err != nil {
		return totalSize, err
	}

	for _, item := range items {
		totalSize += item.Size
	}

	return totalSize, nil
}

func (c *dockerClientImpl) StartTaskContainer(ctx context.Context, task contracts.MaterializedTask) (containerID string, err error) {

	span, ctx := opentracing.StartSpanFromContext(ctx, "StartTaskContainer")
	defer span.Finish()
	span.SetTag("docker-image", task.Image.String())

	// define docker envvars; substituted event values are passed as opaque
	// data, they are never evaluated by the runner itself
	dockerEnvVars := buildEnvVars(task)

	config := container.Config{
		AttachStdout: true,
		AttachStderr: true,
		Env:          dockerEnvVars,
		Image:        task.Image.String(),
		WorkingDir:   workingDirectory,
	}
	if len(task.Command) > 0 {
		config.Entrypoint = []string{defaultShell}
		config.Cmd = []string{"-c", joinCommands(task.Command)}
	}

	// create container
	resp, err := c.dockerClient.ContainerCreate(ctx, &config, &container.HostConfig{
		AutoRemove: true,
	}, &network.NetworkingConfig{}, nil, "")
	if err != nil {
		return "", err
	}

	containerID = resp.ID
	c.addRunningContainerID(containerID)

	// start container
	if err = c.dockerClient.ContainerStart(ctx, resp.ID, types.ContainerStartOptions{}); err != nil {
		return
	}

	return
}

func (c *dockerClientImpl) TailContainerLogs(ctx context.Context, containerID string, task contracts.MaterializedTask) (logLines []contracts.RunLogLine, exitCode int64, err error) {

	exitCode = -1

	// follow logs
	rc, err := c.dockerClient.ContainerLogs(ctx, containerID, types.ContainerLogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Timestamps: false,
		Follow:     true,
		Details:    false,
	})
	if err != nil {
		return
	}
	defer rc.Close()

	logLines, err = c.readLogStream(rc, task)
	if err != nil {
		log.Error().Msgf("[%v] Error: %v", task.ID, err)
		return logLines, exitCode, err
	}

	// wait for container to stop running
	resultC, errC := c.dockerClient.ContainerWait(ctx, containerID, container.WaitConditionNotRunning)

	select {
	case result := <-resultC:
		exitCode = result.StatusCode
	case err = <-errC:
		log.Warn().Err(err).Msgf("Container %v exited with error", containerID)
		return
	}

	// clear container id
	c.removeRunningContainerID(containerID)

	return logLines, exitCode, nil
}

// readLogStream parses the multiplexed docker log stream into log lines; a
// stream error other than a clean end of file is returned so the run does not
// silently lose output
func (c *dockerClientImpl) readLogStream(rc io.Reader, task contracts.MaterializedTask) (logLines []contracts.RunLogLine, err error) {

	logLines = make([]contracts.RunLogLine, 0)
	lineNumber := 1

	// stream logs with buffering
	in := bufio.NewReader(rc)
	var readError error
	for {
		// strip first 8 bytes, they contain docker control characters
		// (https://github.com/docker/docker-ce/blob/v18.06.1-ce/components/engine/client/container_logs.go#L23-L32)
		headers := make([]byte, 8)
		var n int
		n, readError = in.Read(headers)
		if readError != nil {
			break
		}

		if n < 8 {
			// doesn't seem to be a valid header
			continue
		}

		// first byte contains the streamType
		// -   0: stdin (will be written on stdout)
		// -   1: stdout
		// -   2: stderr
		// -   3: system error
		streamType := ""
		switch headers[0] {
		case 1:
			streamType = "stdout"
		case 2:
			streamType = "stderr"
		default:
			continue
		}

		// read the rest of the line until we hit end of line
		var line []byte
		line, readError = in.ReadBytes('\n')
		if readError != nil {
			break
		}

		logLineObject := contracts.RunLogLine{
			LineNumber: lineNumber,
			Timestamp:  time.Now().UTC(),
			StreamType: streamType,
			Text:       string(line),
		}
		lineNumber++

		logLines = append(logLines, logLineObject)

		if c.tailLogsChannel != nil {
			// stream the line for live log tailing
			c.tailLogsChannel <- contracts.TailLogLine{
				TaskID:  task.ID,
				LogLine: &logLineObject,
			}
		}
	}

	if readError != nil && readError != io.EOF {
		return logLines, readError
	}

	return logLines, nil
}

func (c *dockerClientImpl) StopContainer(ctx context.Context, containerID string) error {

	log.Debug().Msgf("Stopping container with id %v", containerID)

	timeout := stopContainerTimeout
	err := c.dockerClient.ContainerStop(ctx, containerID, &timeout)
	if err != nil {
		log.Warn().Err(err).Msgf("Failed stopping container with id %v", containerID)
		return err
	}

	c.removeRunningContainerID(containerID)

	log.Info().Msgf("Stopped container with id %v", containerID)
	return nil
}

func (c *dockerClientImpl) StopAllContainers(ctx context.Context) {

	c.runningContainerIDsMutex.Lock()
	containerIDs := make([]string, len(c.runningContainerIDs))
	copy(containerIDs, c.runningContainerIDs)
	c.runningContainerIDsMutex.Unlock()

	if len(containerIDs) == 0 {
		log.Info().Msg("No containers to stop")
		return
	}

	log.Info().Msgf("Stopping %v containers", len(containerIDs))

	var wg sync.WaitGroup
	wg.Add(len(containerIDs))

	for _, id := range containerIDs {
		go func(id string) {
			defer wg.Done()
			err := c.StopContainer(ctx, id)
			if err != nil {
				log.Warn().Err(err).Msgf("Failed stopping container with id %v", id)
			}
		}(id)
	}

	wg.Wait()

	log.Info().Msgf("Stopped %v containers", len(containerIDs))
}

func (c *dockerClientImpl) Info(ctx context.Context) string {

	info, err := c.dockerClient.Info(ctx)
	if err != nil {
		log.Warn().Err(err).Msgf("Failed retrieving docker info")
		return ""
	}

	return fmt.Sprintf("Docker daemon - version: %v, api version: %v, os/arch: %v/%v", info.ServerVersion, c.dockerClient.ClientVersion(), info.OSType, info.Architecture)
}

func (c *dockerClientImpl) addRunningContainerID(containerID string) {

	log.Debug().Msgf("Adding container id %v to containerIDs", containerID)

	c.runningContainerIDsMutex.Lock()
	defer c.runningContainerIDsMutex.Unlock()

	c.runningContainerIDs = append(c.runningContainerIDs, containerID)
}

func (c *dockerClientImpl) removeRunningContainerID(containerID string) {

	log.Debug().Msgf("Removing container id %v from containerIDs", containerID)

	c.runningContainerIDsMutex.Lock()
	defer c.runningContainerIDsMutex.Unlock()

	purgedContainerIDs := []string{}
	for _, id := range c.runningContainerIDs {
		if id != containerID {
			purgedContainerIDs = append(purgedContainerIDs, id)
		}
	}

	c.runningContainerIDs = purgedContainerIDs
}

const (
	defaultShell          = "/bin/sh"
	workingDirectory      = "/workspace"
	stopContainerTimeout  = 20 * time.Second
	commandFailFastPrefix = "set -e"
)

// buildEnvVars exposes the bound event values and task identity to the
// container environment
func buildEnvVars(task contracts.MaterializedTask) []string {

	return []string{
		fmt.Sprintf("TASK_ID=%v", task.ID),
		fmt.Sprintf("EVENT_KIND=%v", task.Event.Kind),
		fmt.Sprintf("EVENT_REPO_URL=%v", task.Event.RepoURL),
		fmt.Sprintf("EVENT_HEAD_SHA=%v", task.Event.HeadSHA),
		fmt.Sprintf("EVENT_USER_EMAIL=%v", task.Event.UserEmail),
	}
}

// joinCommands turns the ordered command list into a single shell script that
// executes the commands strictly in order and stops at the first failure, so
// the final exit code is the exit code of the failing command
func joinCommands(commands []string) string {
	return commandFailFastPrefix + "\n" + strings.Join(commands, "\n")
}

func contains(s []string, e string) bool {
	for _, a := range s {
		if a == e {
			return true
		}
	}
	return false
}
