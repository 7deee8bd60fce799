package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	StreamPort     int    `toml:"stream_port"`
	DiscoveryPort  int    `toml:"discovery_port"`
	ListenWindow   string `toml:"listen_window"`
	ReceiveTimeout string `toml:"receive_timeout"`
	RetryCooldown  string `toml:"retry_cooldown"`
	Signature      string `toml:"signature"`
	RouteProbe     string `toml:"route_probe"`
	RetryLocalAddr *bool  `toml:"retry_local_addr"`
	FrameRate      int    `toml:"frame_rate"`
	PoseFile       string `toml:"pose_file"`
	StateDir       string `toml:"state_dir"`
	LogLevel       string `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.posebridge/config.toml, or "" if there is no
// home directory.
func DefaultConfigPath() string {
	if dir := DefaultStateDir(); dir != "" {
		return filepath.Join(dir, "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setInt("stream-port", fc.StreamPort, &cfg.StreamPort)
	s.setInt("discovery-port", fc.DiscoveryPort, &cfg.DiscoveryPort)
	s.setInt("frame-rate", fc.FrameRate, &cfg.FrameRate)

	s.setString("signature", fc.Signature, &cfg.Signature)
	s.setString("route-probe", fc.RouteProbe, &cfg.RouteProbe)
	s.setString("pose-file", fc.PoseFile, &cfg.PoseFile)
	s.setString("state-dir", fc.StateDir, &cfg.StateDir)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	if err := s.setDuration("listen-window", fc.ListenWindow, &cfg.ListenWindow); err != nil {
		return err
	}
	if err := s.setDuration("receive-timeout", fc.ReceiveTimeout, &cfg.ReceiveTimeout); err != nil {
		return err
	}
	if err := s.setDuration("retry-cooldown", fc.RetryCooldown, &cfg.RetryCooldown); err != nil {
		return err
	}

	s.setBool("retry-local-addr", fc.RetryLocalAddr, &cfg.RetryLocalAddr)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
