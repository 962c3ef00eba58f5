package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variables read by ApplyEnv
const (
	EnvGravityX = "TORQUE_GRAVITY_X"
	EnvGravityY = "TORQUE_GRAVITY_Y"
	EnvTickRate = "TORQUE_TICK_RATE"
)

// ApplyEnv overrides scene values from the environment. Unset variables
// leave the scene untouched; malformed ones are an error.
func (c *SceneConfig) ApplyEnv() error {
	if err := floatFromEnv(EnvGravityX, &c.Gravity.X); err != nil {
		return err
	}
	if err := floatFromEnv(EnvGravityY, &c.Gravity.Y); err != nil {
		return err
	}
	if v, ok := os.LookupEnv(EnvTickRate); ok {
		rate, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvTickRate, v, err)
		}
		c.TickRate = rate
	}
	return nil
}

func floatFromEnv(key string, dst *float64) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = f
	return nil
}
