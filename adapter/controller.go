// Package adapter holds the adapter property controller: it owns the
// connection aggregator and the decoded property records of one adapter,
// serializes every mutation under one lock and forwards derived events to
// a btadapter.Sink.
package adapter

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rigado/btadapter"
	"github.com/rigado/btadapter/aggregator"
	"github.com/rigado/btadapter/property"
)

const (
	DefaultDiscoveryTimeout = 12800 * time.Millisecond
	DefaultScanModeHistory  = 10

	minAudioDevices = 1
	maxAudioDevices = 5
)

// Controller is safe for concurrent use. Mutations are serialized; reads
// return copies of the last published snapshot and never block on writers.
type Controller struct {
	mu sync.Mutex

	sink    btadapter.Sink
	baseLog btadapter.Logger
	log     btadapter.Logger
	now     func() time.Time
	session string

	discoveryTimeout time.Duration
	maxAudioDevices  int
	a2dpOffload      bool
	scanHistory      int
	trailing         btadapter.TrailingSegment

	agg       *aggregator.Aggregator
	connState btadapter.AdapterConnState
	props     records
	bonded    bondedDevices

	scanModeChanges []ScanModeChange
	discovering     bool
	discoveryEnd    time.Time

	snap atomic.Value // *Snapshot
}

// records are the decoded property values. Each field is replaced as a
// whole and never modified in place, so snapshots may share them.
type records struct {
	name                string
	address             btadapter.Addr
	classOfDevice       uint32
	uuids               []uuid.UUID
	scanMode            btadapter.ScanMode
	discoverableTimeout uint32
	ioCapability        uint32
	features            *property.FeatureCapabilities
	buffers             *property.BufferConstraintTable
	players             []string
}

// ScanModeChange is one entry of the scan mode request history.
type ScanModeChange struct {
	At   time.Time          `json:"at"`
	Mode btadapter.ScanMode `json:"mode"`
}

// New returns a Controller in the Disconnected state configured by opts.
func New(opts ...btadapter.Option) (*Controller, error) {
	c := &Controller{
		sink:             btadapter.NopSink{},
		baseLog:          btadapter.GetLogger(),
		now:              time.Now,
		discoveryTimeout: DefaultDiscoveryTimeout,
		maxAudioDevices:  minAudioDevices,
		scanHistory:      DefaultScanModeHistory,
		agg:              aggregator.New(),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, errors.Wrap(err, "adapter option")
		}
	}

	c.newSession()
	c.clampAudioDevices()
	c.publish()
	return c, nil
}

func (c *Controller) newSession() {
	c.session = uuid.NewString()
	c.log = c.baseLog.ChildLogger(map[string]interface{}{"session": c.session})
}

// ProfileConnectionStateChanged records that device moved from prev to next
// on profile. Invalid states are rejected with aggregator.ErrInvalidState
// and change nothing. If the adapter-wide state changes the sink is told.
//
// A transition that leaves a state no device is counted in panics with
// *aggregator.CounterUnderflowError after logging it.
func (c *Controller) ProfileConnectionStateChanged(profile btadapter.ProfileID, device btadapter.Addr, prev, next btadapter.ConnState) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.publish()

	res, err := c.apply(profile, prev, next)
	if err != nil {
		c.log.Errorf("profile %v, device %v: %v", profile, device, err)
		return err
	}

	if res.UnexpectedTransition {
		c.log.Warnf("unexpected transition for profile %v, device %v: %v -> %v", profile, device, prev, next)
	}
	c.log.Debugf("profile %v, device %v: %v -> %v", profile, device, prev, next)

	if !res.Changed {
		return nil
	}

	c.connState = res.Change.Next
	c.log.Infof("adapter connection state, device %v: %v -> %v", device, res.Change.Prev, res.Change.Next)
	c.sink.ConnectionStateChanged(device, res.Change)
	return nil
}

func (c *Controller) apply(profile btadapter.ProfileID, prev, next btadapter.ConnState) (aggregator.Result, error) {
	defer func() {
		if r := recover(); r != nil {
			if ue, ok := r.(*aggregator.CounterUnderflowError); ok {
				c.log.Errorf("connection counters corrupt: %v", ue)
			}
			panic(r)
		}
	}()

	return c.agg.Apply(profile, prev, next)
}

// DiscoveryStateChanged records the start or end of device discovery. The
// end of a running window is fixed when it starts.
func (c *Controller) DiscoveryStateChanged(started bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.publish()

	c.discovering = started
	if started {
		c.discoveryEnd = c.now().Add(c.discoveryTimeout)
	} else {
		c.discoveryEnd = c.now()
	}

	c.log.Debugf("discovering %v, ends %v", started, c.discoveryEnd)
	c.sink.DiscoveryStateChanged(started)
}

// SetScanMode records a scan mode request in the bounded history. The mode
// in effect is updated when the controller reports btadapter.PropScanMode.
func (c *Controller) SetScanMode(mode btadapter.ScanMode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.publish()

	c.addScanModeChange(mode)
}

func (c *Controller) addScanModeChange(mode btadapter.ScanMode) {
	c.scanModeChanges = append(c.scanModeChanges, ScanModeChange{At: c.now(), Mode: mode})
	if n := len(c.scanModeChanges) - c.scanHistory; n > 0 {
		c.scanModeChanges = c.scanModeChanges[n:]
	}
}

// BondStateChanged adds or removes device from the bonded list.
func (c *Controller) BondStateChanged(device btadapter.Addr, bonded bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.publish()

	if bonded {
		if c.bonded.add(device) {
			c.log.Debugf("adding bonded device %v", device)
		}
		return
	}

	if c.bonded.remove(device) {
		c.log.Debugf("removing bonded device %v", device)
	} else {
		c.log.Debugf("bonded device %v not found", device)
	}
}

// BluetoothReady starts a new adapter session: connection tracking is
// cleared and the adapter is made connectable.
func (c *Controller) BluetoothReady() {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.publish()

	c.newSession()
	c.log.Debugf("bluetooth ready, scan mode %v", c.props.scanMode)

	c.agg.Reset()
	c.connState = btadapter.AdapterDisconnected
	c.addScanModeChange(btadapter.ScanModeConnectable)
}

// Cleanup tears the session down, dropping all tracked state.
func (c *Controller) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.publish()

	c.agg.Reset()
	c.connState = btadapter.AdapterDisconnected
	c.props = records{}
	c.bonded = bondedDevices{}
	c.scanModeChanges = nil
	c.discovering = false
	c.discoveryEnd = time.Time{}
}
