// Package posebridge provides an embeddable bridge that streams tracked
// poses to a VR tracking server over OSC.
//
// The bridge finds the server on its own: it sweeps the local /24 subnet
// with handshake probes, accepts the first valid reply, then sends one
// pose message per tracked entity (head, left wrist, right wrist) every
// frame until stopped.
//
// # Basic Usage
//
//	provider, err := posefile.Load("poses.toml") // or any PoseProvider
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	b, err := posebridge.New(posebridge.DefaultConfig(), provider)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := b.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer b.Stop()
//
// # Frame Driving
//
// With Config.FrameRate set, the bridge sends frames from its own ticker.
// Hosts with a render loop set FrameRate to 0 and call [Bridge.Tick] once
// per rendered frame instead.
//
// # Events
//
// Implement [EventHandler] (embed [BaseEventHandler] for defaults) and pass
// it with [WithEventHandler] to observe lifecycle changes and server
// resolution.
//
// # Lifecycle States
//
// A Bridge is in one of [StateStopped], [StateStarting], [StateRunning],
// [StateStopping] or [StateCrashed]. Discovery crashes the bridge when the
// local IPv4 address cannot be determined, unless Config.RetryLocalAddr is
// set.
package posebridge
