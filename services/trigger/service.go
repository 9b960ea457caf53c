package trigger

import (
	"context"
	"errors"

	"github.com/Knetic/govaluate"
	"github.com/rs/zerolog/log"

	"github.com/taskrelay/taskrelay-ci-runner/config"
	"github.com/taskrelay/taskrelay-ci-runner/pkg/contracts"
)

// Service decides whether an incoming repository event should spawn a task
//go:generate mockgen -package=trigger -destination ./mock.go -source=service.go
type Service interface {
	Matches(event contracts.Event) bool
	GetParameters(event contracts.Event) map[string]interface{}
}

// NewService returns a new trigger.Service for the given rule set
func NewService(ctx context.Context, ruleSet config.TriggerRuleSet) (Service, error) {
	return &service{
		ruleSet: ruleSet,
	}, nil
}

type service struct {
	ruleSet config.TriggerRuleSet
}

// Matches is a pure predicate without side effects; unknown event kinds and
// filter evaluation errors fail closed so no task gets spawned for them
func (s *service) Matches(event contracts.Event) bool {

	if !event.Kind.IsKnown() {
		log.Debug().Msgf("Event kind '%v' is not part of the supported enumeration, not spawning a task", event.Kind)
		return false
	}

	kindAuthorized := false
	for _, k := range s.ruleSet.Events {
		if k == event.Kind {
			kindAuthorized = true
			break
		}
	}
	if !kindAuthorized {
		return false
	}

	if event.Kind.IsPullRequest() && event.IsFromFork() && !s.ruleSet.AllowPullRequestsFromForks {
		log.Debug().Msgf("Pull request event from non-member fork on %v is not allowed by policy", event.RepoURL)
		return false
	}

	if s.ruleSet.Filter != "" {
		result, err := s.evaluateFilter(s.ruleSet.Filter, s.GetParameters(event))
		if err != nil {
			log.Warn().Err(err).Msgf("Failed evaluating filter expression \"%v\", not spawning a task", s.ruleSet.Filter)
			return false
		}
		return result
	}

	return true
}

func (s *service) evaluateFilter(input string, parameters map[string]interface{}) (result bool, err error) {

	log.Debug().Msgf("Evaluating filter expression \"%v\" with parameters \"%v\"", input, parameters)

	expression, err := govaluate.NewEvaluableExpression(input)
	if err != nil {
		return
	}

	r, err := expression.Evaluate(parameters)
	if err != nil {
		return
	}

	log.Debug().Msgf("Result of filter expression \"%v\" is \"%v\"", input, r)

	if result, ok := r.(bool); ok {
		return result, nil
	}

	return false, errors.New("Result of evaluating filter expression is not of type boolean")
}

// GetParameters exposes the event fields to filter expressions
func (s *service) GetParameters(event contracts.Event) map[string]interface{} {

	parameters := make(map[string]interface{}, 4)
	parameters["kind"] = string(event.Kind)
	parameters["repoUrl"] = event.RepoURL
	parameters["headSha"] = event.HeadSHA
	parameters["userEmail"] = event.UserEmail

	return parameters
}
