package adapter

import (
	"time"

	"github.com/google/uuid"
	"github.com/rigado/btadapter"
	"github.com/rigado/btadapter/aggregator"
	"github.com/rigado/btadapter/property"
)

// Snapshot is a point in time copy of everything the controller tracks.
type Snapshot struct {
	Session                  string                          `json:"session"`
	Name                     string                          `json:"name"`
	Address                  btadapter.Addr                  `json:"address"`
	ClassOfDevice            uint32                          `json:"class_of_device"`
	UUIDs                    []uuid.UUID                     `json:"uuids"`
	ScanMode                 btadapter.ScanMode              `json:"scan_mode"`
	DiscoverableTimeout      uint32                          `json:"discoverable_timeout"`
	IOCapability             uint32                          `json:"io_capability"`
	Features                 *property.FeatureCapabilities   `json:"features,omitempty"`
	BufferConstraints        *property.BufferConstraintTable `json:"buffer_constraints,omitempty"`
	AllowlistedPlayers       []string                        `json:"allowlisted_players"`
	BondedDevices            []btadapter.Addr                `json:"bonded_devices"`
	ConnectionState          btadapter.AdapterConnState      `json:"connection_state"`
	Profiles                 aggregator.Snapshot             `json:"profiles"`
	Discovering              bool                            `json:"discovering"`
	DiscoveryEnd             time.Time                       `json:"discovery_end"`
	ScanModeChanges          []ScanModeChange                `json:"scan_mode_changes"`
	MaxConnectedAudioDevices int                             `json:"max_connected_audio_devices"`
	A2DPOffloadEnabled       bool                            `json:"a2dp_offload_enabled"`
	DynamicBufferSupport     btadapter.DynamicBufferSupport  `json:"dynamic_buffer_support"`
}

// publish stores a fresh snapshot. Must be called with mu held.
func (c *Controller) publish() {
	s := &Snapshot{
		Session:                  c.session,
		Name:                     c.props.name,
		Address:                  c.props.address,
		ClassOfDevice:            c.props.classOfDevice,
		UUIDs:                    c.props.uuids,
		ScanMode:                 c.props.scanMode,
		DiscoverableTimeout:      c.props.discoverableTimeout,
		IOCapability:             c.props.ioCapability,
		Features:                 c.props.features,
		BufferConstraints:        c.props.buffers,
		AllowlistedPlayers:       c.props.players,
		BondedDevices:            c.bonded.list(),
		ConnectionState:          c.connState,
		Profiles:                 c.agg.Snapshot(),
		Discovering:              c.discovering,
		DiscoveryEnd:             c.discoveryEnd,
		ScanModeChanges:          append([]ScanModeChange(nil), c.scanModeChanges...),
		MaxConnectedAudioDevices: c.maxAudioDevices,
		A2DPOffloadEnabled:       c.a2dpOffload,
		DynamicBufferSupport:     dynamicBufferSupport(c.a2dpOffload, c.props.features),
	}
	c.snap.Store(s)
}

func (c *Controller) load() *Snapshot {
	return c.snap.Load().(*Snapshot)
}

// Snapshot returns a deep copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	s := *c.load()

	s.UUIDs = append([]uuid.UUID(nil), s.UUIDs...)
	s.AllowlistedPlayers = append([]string(nil), s.AllowlistedPlayers...)
	s.BondedDevices = append([]btadapter.Addr(nil), s.BondedDevices...)
	s.ScanModeChanges = append([]ScanModeChange(nil), s.ScanModeChanges...)
	if s.Features != nil {
		f := *s.Features
		s.Features = &f
	}
	if s.BufferConstraints != nil {
		t := *s.BufferConstraints
		s.BufferConstraints = &t
	}
	profiles := make(map[btadapter.ProfileID]aggregator.Entry, len(s.Profiles.Profiles))
	for k, v := range s.Profiles.Profiles {
		profiles[k] = v
	}
	s.Profiles.Profiles = profiles

	return s
}

// ConnectionState returns the adapter-wide connection state.
func (c *Controller) ConnectionState() btadapter.AdapterConnState {
	return c.load().ConnectionState
}

// ProfileConnectionState returns the dominant state of profile,
// Disconnected when nothing was reported for it.
func (c *Controller) ProfileConnectionState(profile btadapter.ProfileID) btadapter.ConnState {
	if e, ok := c.load().Profiles.Profiles[profile]; ok {
		return e.State
	}
	return btadapter.StateDisconnected
}

// Features returns the decoded LE features and whether any were reported.
func (c *Controller) Features() (property.FeatureCapabilities, bool) {
	f := c.load().Features
	if f == nil {
		return property.FeatureCapabilities{}, false
	}
	return *f, true
}

// BufferConstraints returns the per-codec buffer table and whether one was reported.
func (c *Controller) BufferConstraints() (property.BufferConstraintTable, bool) {
	t := c.load().BufferConstraints
	if t == nil {
		return property.BufferConstraintTable{}, false
	}
	return *t, true
}

// AllowlistedPlayers returns a copy of the allowlisted media player names.
func (c *Controller) AllowlistedPlayers() []string {
	return append([]string(nil), c.load().AllowlistedPlayers...)
}

// BondedDevices returns a copy of the bonded device addresses.
func (c *Controller) BondedDevices() []btadapter.Addr {
	return append([]btadapter.Addr(nil), c.load().BondedDevices...)
}

// Discovering reports whether a discovery window is running.
func (c *Controller) Discovering() bool {
	return c.load().Discovering
}

// DiscoveryEnd is when the running discovery window ends, or when the last
// one ended.
func (c *Controller) DiscoveryEnd() time.Time {
	return c.load().DiscoveryEnd
}

// MaxConnectedAudioDevices returns the clamped audio device limit.
func (c *Controller) MaxConnectedAudioDevices() int {
	return c.load().MaxConnectedAudioDevices
}

// DynamicBufferSupport reports whether dynamic audio buffers can be used.
func (c *Controller) DynamicBufferSupport() btadapter.DynamicBufferSupport {
	return c.load().DynamicBufferSupport
}

func dynamicBufferSupport(offload bool, f *property.FeatureCapabilities) btadapter.DynamicBufferSupport {
	if !offload || f == nil {
		return btadapter.DynamicBufferNone
	}
	if f.DynamicBufferCodecsGroup1 != 0 || f.DynamicBufferCodecsGroup2 != 0 {
		return btadapter.DynamicBufferA2DPOffload
	}
	return btadapter.DynamicBufferNone
}
