package cliconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestApplyFileConfig(t *testing.T) {
	trueVal := true

	tests := []struct {
		name     string
		fc       FileConfig
		changed  map[string]bool
		initial  Config
		expected Config
		wantErr  bool
	}{
		{
			name: "applies all fields",
			fc: FileConfig{
				StreamPort:     9100,
				DiscoveryPort:  7000,
				ListenWindow:   "5s",
				ReceiveTimeout: "250ms",
				RetryCooldown:  "1s",
				Signature:      "ACK",
				RouteProbe:     "1.1.1.1:53",
				RetryLocalAddr: &trueVal,
				FrameRate:      90,
				PoseFile:       "/file/poses.toml",
				StateDir:       "/file/state",
				LogLevel:       "debug",
			},
			changed: map[string]bool{},
			initial: DefaultConfig(),
			expected: Config{
				StreamPort:     9100,
				DiscoveryPort:  7000,
				ListenWindow:   5 * time.Second,
				ReceiveTimeout: 250 * time.Millisecond,
				RetryCooldown:  time.Second,
				Signature:      "ACK",
				RouteProbe:     "1.1.1.1:53",
				RetryLocalAddr: true,
				FrameRate:      90,
				PoseFile:       "/file/poses.toml",
				StateDir:       "/file/state",
				LogLevel:       "debug",
			},
		},
		{
			name:     "respects changed flags",
			fc:       FileConfig{StreamPort: 9100, PoseFile: "/file/poses.toml"},
			changed:  map[string]bool{"stream-port": true},
			initial:  Config{StreamPort: 9200},
			expected: Config{StreamPort: 9200, PoseFile: "/file/poses.toml"},
		},
		{
			name:     "zero values keep defaults",
			fc:       FileConfig{},
			changed:  map[string]bool{},
			initial:  DefaultConfig(),
			expected: DefaultConfig(),
		},
		{
			name:    "invalid duration",
			fc:      FileConfig{ListenWindow: "soon"},
			changed: map[string]bool{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.initial
			err := ApplyFileConfig(&cfg, tt.fc, tt.changed)

			if tt.wantErr {
				if err == nil {
					t.Error("ApplyFileConfig() expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyFileConfig() unexpected error: %v", err)
			}
			if cfg != tt.expected {
				t.Errorf("config = %+v\nwant     %+v", cfg, tt.expected)
			}
		})
	}
}

func TestLoadFileConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	tomlContent := `
stream_port = 9001
listen_window = "2s"
signature = "Hey OVR"
pose_file = "/tmp/poses.toml"
retry_local_addr = true
`
	if err := os.WriteFile(configPath, []byte(tomlContent), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	fc, err := LoadFileConfig(configPath)
	if err != nil {
		t.Fatalf("LoadFileConfig() error = %v", err)
	}

	if fc.StreamPort != 9001 {
		t.Errorf("StreamPort = %v, want 9001", fc.StreamPort)
	}
	if fc.ListenWindow != "2s" {
		t.Errorf("ListenWindow = %v, want 2s", fc.ListenWindow)
	}
	if fc.Signature != "Hey OVR" {
		t.Errorf("Signature = %q", fc.Signature)
	}
	if fc.PoseFile != "/tmp/poses.toml" {
		t.Errorf("PoseFile = %v", fc.PoseFile)
	}
	if fc.RetryLocalAddr == nil || !*fc.RetryLocalAddr {
		t.Errorf("RetryLocalAddr = %v, want true", fc.RetryLocalAddr)
	}
	if fc.DiscoveryPort != 0 {
		t.Errorf("DiscoveryPort = %v, want 0 for missing key", fc.DiscoveryPort)
	}
}

func TestLoadFileConfig_InvalidFile(t *testing.T) {
	if _, err := LoadFileConfig("/nonexistent/path/config.toml"); err == nil {
		t.Error("LoadFileConfig() expected error for nonexistent file")
	}
}

func TestLoadFileConfig_InvalidTOML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.toml")
	if err := os.WriteFile(configPath, []byte("stream_port = \nthis is not toml"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFileConfig(configPath); err == nil {
		t.Error("LoadFileConfig() expected error for invalid TOML")
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()
	if path != "" && !strings.HasSuffix(path, filepath.Join(".posebridge", "config.toml")) {
		t.Errorf("DefaultConfigPath() = %v", path)
	}
}

func TestFileExists(t *testing.T) {
	tmpDir := t.TempDir()
	existingFile := filepath.Join(tmpDir, "exists.txt")
	if err := os.WriteFile(existingFile, []byte("test"), 0644); err != nil {
		t.Fatal(err)
	}

	if !FileExists(existingFile) {
		t.Error("FileExists() = false, want true for existing file")
	}
	if FileExists(filepath.Join(tmpDir, "nonexistent.txt")) {
		t.Error("FileExists() = true, want false for nonexistent file")
	}
}
