package cliconfig

import "os"

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "POSEBRIDGE_"

// ApplyEnvConfig applies POSEBRIDGE_* environment variables.
// These override file config but are overridden by flags (changed map).
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)
	env := func(name string) string { return os.Getenv(EnvPrefix + name) }

	if err := s.setIntFromString("stream-port", env("STREAM_PORT"), &cfg.StreamPort); err != nil {
		return err
	}
	if err := s.setIntFromString("discovery-port", env("DISCOVERY_PORT"), &cfg.DiscoveryPort); err != nil {
		return err
	}
	if err := s.setIntFromString("frame-rate", env("FRAME_RATE"), &cfg.FrameRate); err != nil {
		return err
	}

	if err := s.setDuration("listen-window", env("LISTEN_WINDOW"), &cfg.ListenWindow); err != nil {
		return err
	}
	if err := s.setDuration("receive-timeout", env("RECEIVE_TIMEOUT"), &cfg.ReceiveTimeout); err != nil {
		return err
	}
	if err := s.setDuration("retry-cooldown", env("RETRY_COOLDOWN"), &cfg.RetryCooldown); err != nil {
		return err
	}

	s.setString("signature", env("SIGNATURE"), &cfg.Signature)
	s.setString("route-probe", env("ROUTE_PROBE"), &cfg.RouteProbe)
	s.setString("pose-file", env("POSE_FILE"), &cfg.PoseFile)
	s.setString("state-dir", env("STATE_DIR"), &cfg.StateDir)
	s.setString("log-level", env("LOG_LEVEL"), &cfg.LogLevel)

	s.setBoolFromString("retry-local-addr", env("RETRY_LOCAL_ADDR"), &cfg.RetryLocalAddr)

	return nil
}
