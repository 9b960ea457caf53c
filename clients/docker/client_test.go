package docker

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taskrelay/taskrelay-ci-runner/pkg/contracts"
)

func TestJoinCommands(t *testing.T) {

	t.Run("PrefixesScriptWithFailFastFlag", func(t *testing.T) {

		// act
		script := joinCommands([]string{"cargo build", "cargo test"})

		assert.Equal(t, "set -e\ncargo build\ncargo test", script)
	})

	t.Run("KeepsCommandOrdering", func(t *testing.T) {

		// act
		script := joinCommands([]string{"git clone https://example/repo repo", "git -C repo checkout abc123", "cargo test"})

		assert.Equal(t, "set -e\ngit clone https://example/repo repo\ngit -C repo checkout abc123\ncargo test", script)
	})

	t.Run("ExitsWithExitCodeOfFailingCommand", func(t *testing.T) {

		// act
		script := joinCommands([]string{"exit 1"})

		// set -e makes the shell stop at the first failing command, so its exit
		// code becomes the script's exit code
		assert.Equal(t, "set -e\nexit 1", script)
	})
}

func TestBuildEnvVars(t *testing.T) {

	t.Run("ExposesTaskIdentityAndBoundEventValues", func(t *testing.T) {

		task := contracts.MaterializedTask{
			ID: "b1946ac92492d2347c6235b4d2611184",
			Event: contracts.Event{
				Kind:      contracts.EventKindPushed,
				RepoURL:   "https://example/repo",
				HeadSHA:   "abc123",
				UserEmail: "dev@example.com",
			},
		}

		// act
		envVars := buildEnvVars(task)

		assert.Equal(t, 5, len(envVars))
		assert.Contains(t, envVars, "TASK_ID=b1946ac92492d2347c6235b4d2611184")
		assert.Contains(t, envVars, "EVENT_KIND=pushed")
		assert.Contains(t, envVars, "EVENT_REPO_URL=https://example/repo")
		assert.Contains(t, envVars, "EVENT_HEAD_SHA=abc123")
		assert.Contains(t, envVars, "EVENT_USER_EMAIL=dev@example.com")
	})
}

type brokenReader struct{}

func (brokenReader) Read(p []byte) (int, error) {
	return 0, errors.New("read tcp: connection reset by peer")
}

func TestReadLogStream(t *testing.T) {

	t.Run("ParsesMultiplexedStreamIntoNumberedLogLines", func(t *testing.T) {

		client := &dockerClientImpl{}

		var stream bytes.Buffer
		stream.Write([]byte{1, 0, 0, 0, 0, 0, 0, 14})
		stream.WriteString("running tests\n")
		stream.Write([]byte{2, 0, 0, 0, 0, 0, 0, 8})
		stream.WriteString("warning\n")

		// act
		logLines, err := client.readLogStream(&stream, contracts.MaterializedTask{ID: "b1946ac92492d2347c6235b4d2611184"})

		assert.Nil(t, err)
		assert.Equal(t, 2, len(logLines))
		assert.Equal(t, 1, logLines[0].LineNumber)
		assert.Equal(t, "stdout", logLines[0].StreamType)
		assert.Equal(t, "running tests\n", logLines[0].Text)
		assert.Equal(t, 2, logLines[1].LineNumber)
		assert.Equal(t, "stderr", logLines[1].StreamType)
	})

	t.Run("StreamsParsedLinesForLiveTailing", func(t *testing.T) {

		tailLogsChannel := make(chan contracts.TailLogLine, 10)
		client := &dockerClientImpl{tailLogsChannel: tailLogsChannel}

		var stream bytes.Buffer
		stream.Write([]byte{1, 0, 0, 0, 0, 0, 0, 14})
		stream.WriteString("running tests\n")

		// act
		_, err := client.readLogStream(&stream, contracts.MaterializedTask{ID: "b1946ac92492d2347c6235b4d2611184"})

		assert.Nil(t, err)
		tailLogLine := <-tailLogsChannel
		assert.Equal(t, "b1946ac92492d2347c6235b4d2611184", tailLogLine.TaskID)
		assert.Equal(t, "running tests\n", tailLogLine.LogLine.Text)
	})

	t.Run("ReturnsErrorWhenStreamBreaksMidRun", func(t *testing.T) {

		client := &dockerClientImpl{}

		// act
		_, err := client.readLogStream(brokenReader{}, contracts.MaterializedTask{ID: "b1946ac92492d2347c6235b4d2611184"})

		assert.NotNil(t, err)
	})

	t.Run("TreatsEndOfFileAsCleanTermination", func(t *testing.T) {

		client := &dockerClientImpl{}

		// act
		logLines, err := client.readLogStream(bytes.NewReader([]byte{}), contracts.MaterializedTask{ID: "b1946ac92492d2347c6235b4d2611184"})

		assert.Nil(t, err)
		assert.Equal(t, 0, len(logLines))
	})
}

func TestContains(t *testing.T) {

	t.Run("ReturnsTrueIfSliceContainsValue", func(t *testing.T) {

		// act
		result := contains([]string{"rust@sha256:9b2a28eb47540823042a2ba401386845089bb7b62a9637d55816132c4c3c36eb"}, "rust@sha256:9b2a28eb47540823042a2ba401386845089bb7b62a9637d55816132c4c3c36eb")

		assert.True(t, result)
	})

	t.Run("ReturnsFalseIfSliceDoesNotContainValue", func(t *testing.T) {

		// act
		result := contains([]string{"rust@sha256:9b2a28eb47540823042a2ba401386845089bb7b62a9637d55816132c4c3c36eb"}, "rust@sha256:76160d1e0136e85a9c929f837bdd99614b5c31d0eb91a1a13bcb2d91a6ccf49d")

		assert.False(t, result)
	})
}
