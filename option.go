package btadapter

import (
	"time"
)

// ControllerOption is an interface which the controller should implement to allow using configuration options
type ControllerOption interface {
	SetSink(Sink) error
	SetLogger(Logger) error
	SetClock(func() time.Time) error
	SetDiscoveryTimeout(time.Duration) error
	SetMaxConnectedAudioDevices(int) error
	SetA2DPOffload(bool) error
	SetScanModeHistory(int) error
	SetPlayerListTrailing(TrailingSegment) error
}

// An Option is a configuration function, which configures the controller.
type Option func(ControllerOption) error

// OptSink sets the receiver of derived events.
func OptSink(s Sink) Option {
	return func(opt ControllerOption) error {
		return opt.SetSink(s)
	}
}

// OptLogger overrides the package logger.
func OptLogger(l Logger) Option {
	return func(opt ControllerOption) error {
		return opt.SetLogger(l)
	}
}

// OptClock overrides time.Now, mostly for tests.
func OptClock(now func() time.Time) Option {
	return func(opt ControllerOption) error {
		return opt.SetClock(now)
	}
}

// OptDiscoveryTimeout sets how long a discovery window lasts after it starts.
func OptDiscoveryTimeout(d time.Duration) Option {
	return func(opt ControllerOption) error {
		return opt.SetDiscoveryTimeout(d)
	}
}

// OptMaxConnectedAudioDevices sets the audio device limit, clamped to [1,5].
func OptMaxConnectedAudioDevices(n int) Option {
	return func(opt ControllerOption) error {
		return opt.SetMaxConnectedAudioDevices(n)
	}
}

// OptA2DPOffload enables A2DP offload, which gates dynamic buffer support.
func OptA2DPOffload(enabled bool) Option {
	return func(opt ControllerOption) error {
		return opt.SetA2DPOffload(enabled)
	}
}

// OptScanModeHistory sets how many scan mode changes are kept.
func OptScanModeHistory(n int) Option {
	return func(opt ControllerOption) error {
		return opt.SetScanModeHistory(n)
	}
}

// OptPlayerListTrailing sets the unterminated player name policy.
func OptPlayerListTrailing(t TrailingSegment) Option {
	return func(opt ControllerOption) error {
		return opt.SetPlayerListTrailing(t)
	}
}
