package config

import (
	"fmt"
	"regexp"
	"strings"
)

var channelName = regexp.MustCompile(`^[a-z_][a-z0-9_]{0,62}$`)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database.min_conns (%d) must not exceed max_conns (%d)", c.Database.MinConns, c.Database.MaxConns)
	}
	if c.Database.StatementTimeout < 0 || c.Database.ConnectTimeout < 0 {
		return fmt.Errorf("database: timeouts must be >= 0")
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text (got %q)", c.Log.Format)
	}

	if err := c.Matching.Domain().Validate(); err != nil {
		return fmt.Errorf("matching: %w", err)
	}
	if err := c.Opportunity.Domain().Validate(); err != nil {
		return fmt.Errorf("opportunity: %w", err)
	}
	if err := c.Scheduler.validate(); err != nil {
		return fmt.Errorf("scheduler: %w", err)
	}

	if c.Events.Enabled && !channelName.MatchString(c.Events.Channel) {
		return fmt.Errorf("events.channel must be a lowercase identifier (got %q)", c.Events.Channel)
	}

	if c.RateLimit.SwipesPerMinute <= 0 || c.RateLimit.ReadsPerMinute <= 0 {
		return fmt.Errorf("rate_limit: per-minute limits must be > 0")
	}

	return nil
}

func (s *SchedulerConfig) validate() error {
	if !s.Enabled {
		return nil
	}
	if s.Interval <= 0 {
		return fmt.Errorf("interval must be > 0 (got %v)", s.Interval)
	}
	if s.RunTimeout <= 0 {
		return fmt.Errorf("run_timeout must be > 0 (got %v)", s.RunTimeout)
	}
	if s.RunTimeout > s.Interval {
		return fmt.Errorf("run_timeout (%v) must not exceed interval (%v)", s.RunTimeout, s.Interval)
	}
	return nil
}
