package config

import (
	"fmt"
	"io/ioutil"

	"gopkg.in/yaml.v2"

	"github.com/taskrelay/taskrelay-ci-runner/pkg/contracts"
)

// TriggerRuleSet configures which repository events authorize task execution
type TriggerRuleSet struct {
	Events                     []contracts.EventKind `yaml:"events"`
	AllowPullRequestsFromForks bool                  `yaml:"allowPullRequestsFromForks"`
	Filter                     string                `yaml:"filter"`
}

// PipelineConfig is the full configuration for one pipeline instance; it is
// constructed once at startup and passed by reference, never mutated afterwards
type PipelineConfig struct {
	Trigger TriggerRuleSet         `yaml:"trigger"`
	Task    contracts.TaskTemplate `yaml:"task"`
}

// ReadConfigFromFile reads and validates the pipeline configuration yaml
func ReadConfigFromFile(configPath string) (*PipelineConfig, error) {

	data, err := ioutil.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("Failed reading pipeline configuration from %v: %w", configPath, err)
	}

	var config PipelineConfig
	if err := yaml.UnmarshalStrict(data, &config); err != nil {
		return nil, fmt.Errorf("Failed unmarshalling pipeline configuration from %v: %w", configPath, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks the configured rule set and task template invariants
func (c *PipelineConfig) Validate() error {

	for _, k := range c.Trigger.Events {
		if !k.IsKnown() {
			return fmt.Errorf("Trigger rule set contains unknown event kind '%v'", k)
		}
	}

	return c.Task.Validate()
}
