package main

import (
	"context"
	"encoding/json"
	"io"
	"io/ioutil"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin"
	foundation "github.com/estafette/estafette-foundation"
	"github.com/rs/zerolog/log"
	"github.com/uber/jaeger-client-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"

	"github.com/taskrelay/taskrelay-ci-runner/clients/docker"
	"github.com/taskrelay/taskrelay-ci-runner/clients/statusapi"
	"github.com/taskrelay/taskrelay-ci-runner/config"
	"github.com/taskrelay/taskrelay-ci-runner/pkg/contracts"
	"github.com/taskrelay/taskrelay-ci-runner/services/materialize"
	"github.com/taskrelay/taskrelay-ci-runner/services/pipeline"
	"github.com/taskrelay/taskrelay-ci-runner/services/runner"
	"github.com/taskrelay/taskrelay-ci-runner/services/trigger"
)

var (
	appgroup  string
	app       string
	version   string
	branch    string
	revision  string
	buildDate string

	configPath     = kingpin.Flag("config", "Path to the pipeline configuration yaml.").Default("task-pipeline.yaml").OverrideDefaultFromEnvar("TASKRELAY_CONFIG_PATH").String()
	eventsPath     = kingpin.Flag("events", "Path to a json file with the repository events to handle.").Envar("TASKRELAY_EVENTS_PATH").Required().String()
	statusAPIURL   = kingpin.Flag("status-api-url", "Endpoint of the event source's status api.").Envar("TASKRELAY_STATUS_API_URL").String()
	statusAPIToken = kingpin.Flag("status-api-token", "Bearer token for the status api.").Envar("TASKRELAY_STATUS_API_TOKEN").String()
)

func main() {

	// parse command line parameters
	kingpin.Parse()

	applicationInfo := foundation.NewApplicationInfo(appgroup, app, version, branch, revision, buildDate)

	// init log format from envvar TASKRELAY_LOG_FORMAT
	foundation.InitLoggingFromEnv(applicationInfo)

	closer := initJaeger(app)
	defer closer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// cancel all in-flight runs on sigterm
	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-osSignals
		log.Warn().Msg("Received signal, cancelling in-flight runs...")
		cancel()
	}()

	pipelineConfig, err := config.ReadConfigFromFile(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msgf("Failed reading pipeline configuration from %v", *configPath)
	}

	events, err := readEventsFromFile(*eventsPath)
	if err != nil {
		log.Fatal().Err(err).Msgf("Failed reading events from %v", *eventsPath)
	}

	tailLogsChannel := make(chan contracts.TailLogLine, 10000)

	dockerClient, err := docker.NewClient(ctx, tailLogsChannel)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed creating docker client")
	}

	statusapiClient, err := statusapi.NewClient(ctx, *statusAPIURL, *statusAPIToken)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed creating statusapi client")
	}

	triggerService, err := trigger.NewService(ctx, pipelineConfig.Trigger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed creating trigger service")
	}

	materializeService, err := materialize.NewService(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed creating materialize service")
	}

	runnerService, err := runner.NewService(ctx, dockerClient, tailLogsChannel)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed creating runner service")
	}

	pipelineService, err := pipeline.NewService(ctx, applicationInfo, triggerService, materializeService, runnerService, statusapiClient, pipelineConfig.Task, tailLogsChannel)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed creating pipeline service")
	}

	// tear down any still running containers once the context dies
	go runnerService.StopRunsOnCancellation(ctx)

	// stream live logs until all events have been handled
	tailLogsCtx, tailLogsCancel := context.WithCancel(context.Background())
	tailLogsDone := make(chan struct{}, 1)
	go pipelineService.TailLogs(tailLogsCtx, tailLogsDone)

	log.Info().Msgf("Handling %v events", len(events))

	results, err := pipelineService.HandleEvents(ctx, events)
	if err != nil {
		log.Warn().Err(err).Msg("One or more events could not be handled")
	}

	tailLogsCancel()
	<-tailLogsDone

	pipeline.RenderStats(results)

	pipeline.HandleExit(results)
}

func readEventsFromFile(eventsPath string) (events []contracts.Event, err error) {

	data, err := ioutil.ReadFile(eventsPath)
	if err != nil {
		return
	}

	if err = json.Unmarshal(data, &events); err != nil {
		return
	}

	return events, nil
}

// initJaeger returns an instance of Jaeger Tracer that can be configured with environment variables
// https://github.com/jaegertracing/jaeger-client-go#environment-variables
func initJaeger(service string) io.Closer {

	cfg, err := jaegercfg.FromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("Generating Jaeger config from environment variables failed")
	}

	// disable jaeger if service name is empty
	if cfg.ServiceName == "" {
		cfg.Disabled = true
	}

	closer, err := cfg.InitGlobalTracer(service, jaegercfg.Logger(jaeger.StdLogger))
	if err != nil {
		log.Fatal().Err(err).Msg("Generating Jaeger tracer failed")
	}

	return closer
}
