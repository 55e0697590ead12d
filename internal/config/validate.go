package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable. Collaborator API keys are
// optional here; a missing key surfaces as an unavailable collaborator at
// request time.
func (c *Config) Validate() error {
	if err := c.validateMastery(); err != nil {
		return err
	}
	if err := c.validateTimeouts(); err != nil {
		return err
	}
	if err := c.validateActivities(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateMastery() error {
	if c.Mastery.Threshold < 0 || c.Mastery.Threshold > 1 {
		return errors.New("mastery.threshold must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateTimeouts() error {
	return ensurePositive(
		namedValue{"database.busy_timeout_ms", c.Database.BusyTimeoutMS},
		namedValue{"vision.timeout_seconds", c.Vision.TimeoutSeconds},
		namedValue{"llm.timeout_seconds", c.LLM.TimeoutSeconds},
	)
}

func (c *Config) validateActivities() error {
	if c.Activities.MythBatchSize > 100 {
		return errors.New("activities.myth_batch_size must be at most 100")
	}
	return ensurePositive(
		namedValue{"activities.myth_batch_size", c.Activities.MythBatchSize},
		namedValue{"activities.image_option_count", c.Activities.ImageOptionCount},
	)
}

func (c *Config) validateServer() error {
	if c.Server.RequestsPerSecond < 0 {
		return errors.New("server.requests_per_second must be >= 0")
	}
	if c.Server.RequestsPerSecond > 0 && c.Server.Burst < 1 {
		return errors.New("server.burst must be >= 1 when server.requests_per_second is set")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
}

type namedValue struct {
	name  string
	value int
}

func ensurePositive(values ...namedValue) error {
	for _, v := range values {
		if v.value <= 0 {
			return fmt.Errorf("%s must be positive", v.name)
		}
	}
	return nil
}
