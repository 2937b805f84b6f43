// Package replay drives an adapter controller from a recorded JSON script
// of controller callbacks.
package replay

import (
	"encoding/hex"
	"fmt"
	"io"
	"io/ioutil"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/rigado/btadapter"
	"github.com/rigado/btadapter/adapter"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Step kinds
const (
	OpReady     = "ready"
	OpCleanup   = "cleanup"
	OpProfile   = "profile"
	OpProperty  = "property"
	OpDiscovery = "discovery"
	OpBond      = "bond"
	OpScanMode  = "scan_mode"
)

// Step is one recorded callback. Only the fields used by Op are read.
type Step struct {
	Op string `json:"op"`

	Profile btadapter.ProfileID `json:"profile,omitempty"`
	Device  btadapter.Addr      `json:"device"`
	Prev    btadapter.ConnState `json:"prev,omitempty"`
	Next    btadapter.ConnState `json:"next,omitempty"`

	Type btadapter.PropertyType `json:"type,omitempty"`
	Hex  string                 `json:"hex,omitempty"`

	Started bool               `json:"started,omitempty"`
	Bonded  bool               `json:"bonded,omitempty"`
	Mode    btadapter.ScanMode `json:"mode,omitempty"`
}

type Script []Step

// Load reads a script, a JSON array of steps.
func Load(r io.Reader) (Script, error) {
	b, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read script")
	}

	var s Script
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, errors.Wrap(err, "decode script")
	}

	for i, st := range s {
		if err := st.validate(); err != nil {
			return nil, errors.Wrapf(err, "step %d", i)
		}
	}
	return s, nil
}

func (s Step) validate() error {
	switch s.Op {
	case OpReady, OpCleanup, OpProfile, OpDiscovery, OpBond, OpScanMode:
		return nil
	case OpProperty:
		_, err := hex.DecodeString(s.Hex)
		return err
	}
	return fmt.Errorf("unknown op %q", s.Op)
}

// StepError is a step the controller rejected.
type StepError struct {
	Step int
	Err  error
}

func (e StepError) Error() string {
	return fmt.Sprintf("step %d: %v", e.Step, e.Err)
}

// Run applies every step in order. Rejected steps are reported and the run
// continues, the way the controller keeps going after a bad callback.
func Run(c *adapter.Controller, s Script) []StepError {
	var failed []StepError
	for i, st := range s {
		if err := apply(c, st); err != nil {
			failed = append(failed, StepError{Step: i, Err: err})
		}
	}
	return failed
}

func apply(c *adapter.Controller, st Step) error {
	switch st.Op {
	case OpReady:
		c.BluetoothReady()
	case OpCleanup:
		c.Cleanup()
	case OpProfile:
		return c.ProfileConnectionStateChanged(st.Profile, st.Device, st.Prev, st.Next)
	case OpProperty:
		v, err := hex.DecodeString(st.Hex)
		if err != nil {
			return err
		}
		return c.PropertiesChanged(btadapter.Property{Type: st.Type, Value: v})
	case OpDiscovery:
		c.DiscoveryStateChanged(st.Started)
	case OpBond:
		c.BondStateChanged(st.Device, st.Bonded)
	case OpScanMode:
		c.SetScanMode(st.Mode)
	default:
		return fmt.Errorf("unknown op %q", st.Op)
	}
	return nil
}
