package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Defaults shared by flags and DefaultConfig.
const (
	DefaultStreamPort     = 9001
	DefaultDiscoveryPort  = 6969
	DefaultListenWindow   = 2 * time.Second
	DefaultReceiveTimeout = 100 * time.Millisecond
	DefaultRetryCooldown  = 3 * time.Second
	DefaultSignature      = "Hey OVR"
	DefaultRouteProbe     = "8.8.8.8:65530"
	DefaultFrameRate      = 60
	DefaultLogLevel       = "info"
)

// Config holds CLI configuration for posebridge.
type Config struct {
	StreamPort    int
	DiscoveryPort int

	ListenWindow   time.Duration
	ReceiveTimeout time.Duration
	RetryCooldown  time.Duration
	Signature      string
	RouteProbe     string
	RetryLocalAddr bool

	FrameRate int
	PoseFile  string
	StateDir  string
	LogLevel  string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		StreamPort:     DefaultStreamPort,
		DiscoveryPort:  DefaultDiscoveryPort,
		ListenWindow:   DefaultListenWindow,
		ReceiveTimeout: DefaultReceiveTimeout,
		RetryCooldown:  DefaultRetryCooldown,
		Signature:      DefaultSignature,
		RouteProbe:     DefaultRouteProbe,
		FrameRate:      DefaultFrameRate,
		StateDir:       "", // Derived from the home directory during Validate
		LogLevel:       DefaultLogLevel,
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if c.PoseFile == "" {
		return fmt.Errorf("pose-file is required")
	}

	if err := validPort("stream-port", c.StreamPort); err != nil {
		return err
	}
	if err := validPort("discovery-port", c.DiscoveryPort); err != nil {
		return err
	}

	if c.ListenWindow <= 0 {
		return fmt.Errorf("listen window must be positive")
	}
	if c.ReceiveTimeout <= 0 {
		return fmt.Errorf("receive timeout must be positive")
	}
	if c.ReceiveTimeout > c.ListenWindow {
		return fmt.Errorf("receive timeout %v exceeds listen window %v", c.ReceiveTimeout, c.ListenWindow)
	}
	if c.RetryCooldown <= 0 {
		return fmt.Errorf("retry cooldown must be positive")
	}
	if c.FrameRate <= 0 {
		return fmt.Errorf("frame rate must be positive")
	}

	if c.RouteProbe == "" {
		c.RouteProbe = DefaultRouteProbe
	}
	if c.StateDir == "" {
		c.StateDir = DefaultStateDir()
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}

	return nil
}

func validPort(name string, port int) error {
	if port <= 0 || port > 65535 {
		return fmt.Errorf("%s %d out of range", name, port)
	}
	return nil
}

// DefaultStateDir returns ~/.posebridge, or "" if there is no home directory.
func DefaultStateDir() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".posebridge")
	}
	return ""
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses an environment value. Non-positive values are ignored.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString accepts "true" and "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
