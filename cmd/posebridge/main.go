package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/posebridge"
	"github.com/bft-labs/posebridge/internal/adapters/fs"
	logAdapter "github.com/bft-labs/posebridge/internal/adapters/log"
	"github.com/bft-labs/posebridge/internal/adapters/posefile"
	"github.com/bft-labs/posebridge/internal/cliconfig"
	"github.com/bft-labs/posebridge/internal/ports"
	bridge "github.com/bft-labs/posebridge/pkg/posebridge"
)

const longHelp = `Stream tracked poses to a VR tracking server over OSC.

posebridge finds the server on its own: it probes every host of the local
/24 subnet, accepts the first valid handshake reply, then sends head and
wrist poses every frame. Poses are read from a TOML or YAML file that is
reloaded whenever it changes.

Configure via flags, POSEBRIDGE_* environment variables, or a TOML config
file (flags win over env, env over file).`

var exampleUsage = strings.TrimSpace(`
  posebridge --pose-file poses.toml
  posebridge --config $HOME/.posebridge/config.toml --frame-rate 90
  posebridge status
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	log, _ := cliconfig.Logger(os.Stderr, cliconfig.DefaultLogLevel)

	root := newRootCommand(&log)
	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("posebridge")
		os.Exit(1)
	}
}

func newRootCommand(log *zerolog.Logger) *cobra.Command {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	root := &cobra.Command{
		Use:           "posebridge",
		Short:         "Stream tracked poses to a VR tracking server over OSC",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cmd, cfgPath, &cfg); err != nil {
				return err
			}

			l, err := cliconfig.Logger(os.Stderr, cfg.LogLevel)
			if err != nil {
				return fmt.Errorf("log level: %w", err)
			}
			*log = l
			log.Info().Interface("config", cfg).Msg("configuration")

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg, logAdapter.NewZerologAdapterWithLogger(*log))
		},
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.posebridge/config.toml)")
	root.PersistentFlags().StringVar(&cfg.StateDir, "state-dir", cfg.StateDir, "directory for status.json (default: $HOME/.posebridge)")

	f := root.Flags()
	f.StringVar(&cfg.PoseFile, "pose-file", cfg.PoseFile, "TOML or YAML file with the tracked poses (required)")
	f.IntVar(&cfg.StreamPort, "stream-port", cfg.StreamPort, "server port pose messages are sent to")
	f.IntVar(&cfg.DiscoveryPort, "discovery-port", cfg.DiscoveryPort, "port every subnet host is probed on")
	f.DurationVar(&cfg.ListenWindow, "listen-window", cfg.ListenWindow, "how long to collect replies after each sweep")
	f.DurationVar(&cfg.ReceiveTimeout, "receive-timeout", cfg.ReceiveTimeout, "timeout of a single receive while listening")
	f.DurationVar(&cfg.RetryCooldown, "retry-cooldown", cfg.RetryCooldown, "pause between unanswered sweeps")
	f.StringVar(&cfg.Signature, "signature", cfg.Signature, "text a handshake reply must contain")
	f.StringVar(&cfg.RouteProbe, "route-probe", cfg.RouteProbe, "address used to pick the outbound interface (nothing is sent)")
	f.BoolVar(&cfg.RetryLocalAddr, "retry-local-addr", cfg.RetryLocalAddr, "retry local address lookup instead of exiting")
	f.IntVar(&cfg.FrameRate, "frame-rate", cfg.FrameRate, "frames sent per second")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	if err := f.MarkHidden("route-probe"); err != nil {
		log.Info().Err(err).Msg("failed to hide route-probe flag")
	}

	root.AddCommand(newStatusCommand(&cfg, &cfgPath))
	return root
}

// loadConfig applies the config file and environment under the flags that
// were set explicitly, then validates.
func loadConfig(cmd *cobra.Command, cfgPath string, cfg *cliconfig.Config) error {
	if err := applySources(cmd, cfgPath, cfg); err != nil {
		return err
	}
	return cfg.Validate()
}

// applySources layers the config file and POSEBRIDGE_* variables onto cfg.
func applySources(cmd *cobra.Command, cfgPath string, cfg *cliconfig.Config) error {
	cfgFile := cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(cfg, fc, changed); err != nil {
			return err
		}
	}
	return cliconfig.ApplyEnvConfig(cfg, changed)
}

func run(ctx context.Context, cfg cliconfig.Config, logger bridge.Logger) error {
	provider, err := posefile.Load(cfg.PoseFile)
	if err != nil {
		return err
	}

	watchCtx, cancelWatch := context.WithCancel(ctx)
	defer cancelWatch()
	go func() {
		if err := provider.Watch(watchCtx, posefile.DefaultDebounce, logger); err != nil {
			logger.Warn("pose file hot reload disabled", ports.Err(err))
		}
	}()

	bcfg := posebridge.Config{
		StreamPort:     uint16(cfg.StreamPort),
		ProbePort:      uint16(cfg.DiscoveryPort),
		ListenWindow:   cfg.ListenWindow,
		ReceiveTimeout: cfg.ReceiveTimeout,
		RetryCooldown:  cfg.RetryCooldown,
		Signature:      cfg.Signature,
		RouteProbe:     cfg.RouteProbe,
		RetryLocalAddr: cfg.RetryLocalAddr,
		FrameRate:      cfg.FrameRate,
		StateDir:       cfg.StateDir,
	}
	return posebridge.Run(ctx, bcfg, provider, bridge.WithLogger(logger))
}

func newStatusCommand(cfg *cliconfig.Config, cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the last tracking server found",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := statusDir(cmd, *cfgPath, *cfg)
			if err != nil {
				return err
			}

			repo := fs.NewStatusFileRepository(dir)
			status, err := repo.Load(cmd.Context())
			if err != nil {
				return err
			}
			if status.IsEmpty() {
				fmt.Fprintf(cmd.OutOrStdout(), "no server resolved yet (%s)\n", repo.Path())
				return nil
			}

			out := struct {
				bridge.Status
				Age string `json:"age"`
			}{status, time.Since(status.ResolvedAt).Round(time.Second).String()}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
}

// statusDir resolves the state directory with the same precedence as the
// run command, without requiring a pose file.
func statusDir(cmd *cobra.Command, cfgPath string, cfg cliconfig.Config) (string, error) {
	if err := applySources(cmd, cfgPath, &cfg); err != nil {
		return "", err
	}
	if cfg.StateDir == "" {
		return cliconfig.DefaultStateDir(), nil
	}
	return cfg.StateDir, nil
}
