package adapter

import (
	"fmt"
	"time"

	"github.com/rigado/btadapter"
)

// The setters below implement btadapter.ControllerOption. They are meant to
// be used through btadapter.Option values passed to New.

func (c *Controller) SetSink(s btadapter.Sink) error {
	if s == nil {
		return fmt.Errorf("nil sink")
	}
	c.sink = s
	return nil
}

func (c *Controller) SetLogger(l btadapter.Logger) error {
	if l == nil {
		return fmt.Errorf("nil logger")
	}
	c.baseLog = l
	return nil
}

func (c *Controller) SetClock(now func() time.Time) error {
	if now == nil {
		return fmt.Errorf("nil clock")
	}
	c.now = now
	return nil
}

func (c *Controller) SetDiscoveryTimeout(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("invalid discovery timeout %v", d)
	}
	c.discoveryTimeout = d
	return nil
}

// SetMaxConnectedAudioDevices records the requested limit. New clamps it to
// [1,5] once every option has run, so the warning reaches OptLogger's logger.
func (c *Controller) SetMaxConnectedAudioDevices(n int) error {
	c.maxAudioDevices = n
	return nil
}

func (c *Controller) clampAudioDevices() {
	v := c.maxAudioDevices
	if v < minAudioDevices {
		v = minAudioDevices
	} else if v > maxAudioDevices {
		v = maxAudioDevices
	}
	if v != c.maxAudioDevices {
		c.log.Warnf("max connected audio devices %v clamped to %v", c.maxAudioDevices, v)
	}
	c.maxAudioDevices = v
}

func (c *Controller) SetA2DPOffload(enabled bool) error {
	c.a2dpOffload = enabled
	return nil
}

func (c *Controller) SetScanModeHistory(n int) error {
	if n < 1 {
		return fmt.Errorf("invalid scan mode history size %v", n)
	}
	c.scanHistory = n
	return nil
}

func (c *Controller) SetPlayerListTrailing(t btadapter.TrailingSegment) error {
	switch t {
	case btadapter.TrailingInclude, btadapter.TrailingDrop:
		c.trailing = t
		return nil
	}
	return fmt.Errorf("invalid trailing segment policy %v", t)
}
