package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.Pipeline.validate(); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	if err := c.Rules.validate(c.Contentful); err != nil {
		return fmt.Errorf("rules: %w", err)
	}
	if err := c.Log.validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if c.Watch.Debounce <= 0 {
		return fmt.Errorf("watch: debounce must be > 0 (got %s)", c.Watch.Debounce)
	}
	return nil
}

func (p *PipelineConfig) validate() error {
	if err := validScore("merge_max_score", p.MergeMaxScore); err != nil {
		return err
	}
	if err := validScore("categorise_max_score", p.CategoriseMaxScore); err != nil {
		return err
	}
	if strings.TrimSpace(p.UnknownCategory) == "" {
		return fmt.Errorf("unknown_category must not be empty")
	}
	return nil
}

func (r *RulesConfig) validate(cf ContentfulConfig) error {
	switch strings.ToLower(r.Source) {
	case "", "auto", "none":
	case "file":
		if r.File == "" {
			return fmt.Errorf("source file needs rules.file")
		}
	case "contentful":
		if cf.SpaceID == "" || cf.AccessToken == "" {
			return fmt.Errorf("source contentful needs contentful.space_id and contentful.access_token")
		}
	default:
		return fmt.Errorf("unknown source %q (want auto, file, contentful or none)", r.Source)
	}
	return nil
}

func (l *LogConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(l.Level)) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown level %q", l.Level)
	}
	switch strings.ToLower(strings.TrimSpace(l.Format)) {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown format %q", l.Format)
	}
	return nil
}

// validScore rejects scores outside the 0..100 scale.
func validScore(name string, score int) error {
	if score < 0 || score > 100 {
		return fmt.Errorf("%s must be within 0..100 (got %d)", name, score)
	}
	return nil
}
