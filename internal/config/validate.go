package config

import "errors"

// ValidateForRun checks everything the server needs before it starts listening.
func ValidateForRun(cfg *Config) error {
	return errors.Join(
		cfg.Redis.Validate(),
		cfg.Analysis.Validate(),
		cfg.TaskQueue.Validate(),
	)
}
