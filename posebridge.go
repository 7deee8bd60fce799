// Package posebridge streams tracked poses to a VR tracking server that it
// discovers on the local subnet.
//
// Example usage:
//
//	provider, err := posefile.Load("poses.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := posebridge.Run(ctx, posebridge.DefaultConfig(), provider); err != nil {
//	    log.Fatal(err)
//	}
//
// For finer control over the lifecycle, or to drive frames from a render
// loop, use the Bridge in pkg/posebridge directly.
package posebridge

import (
	"context"
	"fmt"

	bridge "github.com/bft-labs/posebridge/pkg/posebridge"
)

// Config holds the configuration of the bridge.
type Config = bridge.Config

// Option configures optional behavior of the bridge.
type Option = bridge.Option

// PoseProvider supplies the poses to stream.
type PoseProvider = bridge.PoseProvider

// DefaultConfig returns a Config with the protocol defaults at 60 frames
// per second.
func DefaultConfig() Config {
	return bridge.DefaultConfig()
}

// Run discovers the server and streams poses until ctx is canceled.
// It returns nil after a graceful stop, or the error that crashed the bridge.
func Run(ctx context.Context, cfg Config, provider PoseProvider, opts ...Option) error {
	b, err := bridge.New(cfg, provider, opts...)
	if err != nil {
		return err
	}
	if err := b.Start(ctx); err != nil {
		return fmt.Errorf("start bridge: %w", err)
	}

	state := b.Wait(ctx)
	stopErr := b.Stop()

	if state == bridge.StateCrashed {
		if err := b.Err(); err != nil {
			return err
		}
	}
	return stopErr
}
