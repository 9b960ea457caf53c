package statusapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/opentracing-contrib/go-stdlib/nethttp"
	"github.com/opentracing/opentracing-go"
	"github.com/rs/zerolog/log"
	"github.com/sethgrid/pester"
	"github.com/sony/gobreaker"

	"github.com/taskrelay/taskrelay-ci-runner/pkg/contracts"
)

// Client reports run outcomes back to the event source's status api
//go:generate mockgen -package=statusapi -destination ./mock.go -source=client.go
type Client interface {
	SendRunStartedEvent(ctx context.Context, task contracts.MaterializedTask) error
	SendRunResult(ctx context.Context, result contracts.RunResult) error
}

// NewClient returns a new statusapi.Client posting to the given endpoint; an
// empty endpoint turns the client into a no-op so local runs work offline
func NewClient(ctx context.Context, statusAPIURL, bearerToken string) (Client, error) {

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "statusapi",
		Timeout: 30 * time.Second,
	})

	return &clientImpl{
		statusAPIURL: statusAPIURL,
		bearerToken:  bearerToken,
		breaker:      breaker,
	}, nil
}

type clientImpl struct {
	statusAPIURL string
	bearerToken  string
	breaker      *gobreaker.CircuitBreaker
}

// statusReport is the outbound wire format for one run outcome
type statusReport struct {
	TaskID     string                 `json:"taskId"`
	RunID      string                 `json:"runId,omitempty"`
	Status     contracts.RunStatus    `json:"status"`
	ExitCode   int64                  `json:"exitCode"`
	DurationMs int64                  `json:"durationMs"`
	Log        []contracts.RunLogLine `json:"log,omitempty"`
}

func (c *clientImpl) SendRunStartedEvent(ctx context.Context, task contracts.MaterializedTask) (err error) {

	span, ctx := opentracing.StartSpanFromContext(ctx, "SendRunStartedEvent")
	defer span.Finish()

	report := statusReport{
		TaskID: task.ID,
		Status: contracts.RunStatusRunning,
	}

	return c.postReport(ctx, span, report)
}

func (c *clientImpl) SendRunResult(ctx context.Context, result contracts.RunResult) (err error) {

	span, ctx := opentracing.StartSpanFromContext(ctx, "SendRunResult")
	defer span.Finish()

	report := statusReport{
		TaskID:     result.TaskID,
		RunID:      result.RunID,
		Status:     result.Status,
		ExitCode:   result.ExitCode,
		DurationMs: result.Duration.Milliseconds(),
		Log:        result.LogLines,
	}

	return c.postReport(ctx, span, report)
}

func (c *clientImpl) postReport(ctx context.Context, span opentracing.Span, report statusReport) (err error) {

	if c.statusAPIURL == "" {
		log.Debug().Msgf("No status api endpoint configured, not reporting status '%v' for task %v", report.Status, report.TaskID)
		return nil
	}

	data, err := json.Marshal(report)
	if err != nil {
		log.Error().Err(err).Msgf("Failed marshalling status report for task %v", report.TaskID)
		return
	}

	_, err = c.breaker.Execute(func() (interface{}, error) {

		// create client, in order to add headers
		client := pester.NewExtendedClient(&http.Client{Transport: &nethttp.Transport{}})
		client.MaxRetries = 3
		client.Backoff = pester.ExponentialJitterBackoff
		client.KeepLog = true
		client.Timeout = time.Second * 60

		request, err := http.NewRequest("POST", c.statusAPIURL, bytes.NewReader(data))
		if err != nil {
			return nil, err
		}

		// add tracing context
		request = request.WithContext(opentracing.ContextWithSpan(request.Context(), span))

		// collect additional information on setting up connections
		request, ht := nethttp.TraceRequest(span.Tracer(), request)

		// add headers
		if c.bearerToken != "" {
			request.Header.Add("Authorization", fmt.Sprintf("Bearer %v", c.bearerToken))
		}
		request.Header.Add("Content-Type", "application/json")

		response, err := client.Do(request)
		if err != nil {
			log.Error().Err(err).Str("logs", client.LogString()).Msgf("Failed shipping status report to %v for task %v", c.statusAPIURL, report.TaskID)
			return nil, err
		}
		defer response.Body.Close()
		ht.Finish()

		if response.StatusCode < 200 || response.StatusCode > 299 {
			return nil, fmt.Errorf("Status api responded with status code %v", response.StatusCode)
		}

		return nil, nil
	})
	if err != nil {
		return err
	}

	log.Debug().Msgf("Successfully shipped status '%v' to %v for task %v", report.Status, c.statusAPIURL, report.TaskID)

	return nil
}
