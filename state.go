package btadapter

import "fmt"

// ConnState is the connection state of one profile to one remote device.
type ConnState int

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateConnected
	StateDisconnecting
)

// Valid reports whether s is one of the four known states.
func (s ConnState) Valid() bool {
	return s >= StateDisconnected && s <= StateDisconnecting
}

func (s ConnState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateDisconnecting:
		return "disconnecting"
	}
	return fmt.Sprintf("ConnState(%d)", int(s))
}

// ExpectedTransition reports whether prev -> next is a normal step of the
// connect/disconnect cycle.
func ExpectedTransition(prev, next ConnState) bool {
	switch prev {
	case StateDisconnected:
		return next == StateConnecting
	case StateConnected:
		return next == StateDisconnecting
	case StateConnecting, StateDisconnecting:
		return next == StateDisconnected || next == StateConnected
	}
	return false
}

// AdapterConnState is the single adapter-wide connection indicator.
type AdapterConnState int

const (
	AdapterDisconnected AdapterConnState = iota
	AdapterConnecting
	AdapterConnected
	AdapterDisconnecting
)

// AdapterStateFor maps a profile state onto the adapter indicator. Invalid
// states map to -1.
func AdapterStateFor(s ConnState) AdapterConnState {
	switch s {
	case StateDisconnected:
		return AdapterDisconnected
	case StateConnecting:
		return AdapterConnecting
	case StateConnected:
		return AdapterConnected
	case StateDisconnecting:
		return AdapterDisconnecting
	}
	return AdapterConnState(-1)
}

func (s AdapterConnState) String() string {
	switch s {
	case AdapterDisconnected:
		return "disconnected"
	case AdapterConnecting:
		return "connecting"
	case AdapterConnected:
		return "connected"
	case AdapterDisconnecting:
		return "disconnecting"
	}
	return fmt.Sprintf("AdapterConnState(%d)", int(s))
}

// AdapterChange is emitted when the adapter-wide indicator changes.
type AdapterChange struct {
	Prev AdapterConnState `json:"prev"`
	Next AdapterConnState `json:"next"`
}

// ProfileID identifies a service profile. Values outside the list below are
// accepted; aggregation does not depend on the set.
type ProfileID int

const (
	ProfileHeadset         ProfileID = 1
	ProfileA2DP            ProfileID = 2
	ProfileHealthDevice    ProfileID = 3
	ProfileHIDHost         ProfileID = 4
	ProfilePAN             ProfileID = 5
	ProfilePBAP            ProfileID = 6
	ProfileGATT            ProfileID = 7
	ProfileGATTServer      ProfileID = 8
	ProfileMAP             ProfileID = 9
	ProfileSAP             ProfileID = 10
	ProfileA2DPSink        ProfileID = 11
	ProfileAVRCPController ProfileID = 12
	ProfileAVRCP           ProfileID = 13
	ProfileHeadsetClient   ProfileID = 16
	ProfilePBAPClient      ProfileID = 17
	ProfileMAPClient       ProfileID = 18
	ProfileHIDDevice       ProfileID = 19
	ProfileOPP             ProfileID = 20
	ProfileHearingAid      ProfileID = 21
	ProfileLEAudio         ProfileID = 22
)

var profileNames = map[ProfileID]string{
	ProfileHeadset:         "headset",
	ProfileA2DP:            "a2dp",
	ProfileHealthDevice:    "health",
	ProfileHIDHost:         "hid_host",
	ProfilePAN:             "pan",
	ProfilePBAP:            "pbap",
	ProfileGATT:            "gatt",
	ProfileGATTServer:      "gatt_server",
	ProfileMAP:             "map",
	ProfileSAP:             "sap",
	ProfileA2DPSink:        "a2dp_sink",
	ProfileAVRCPController: "avrcp_controller",
	ProfileAVRCP:           "avrcp",
	ProfileHeadsetClient:   "headset_client",
	ProfilePBAPClient:      "pbap_client",
	ProfileMAPClient:       "map_client",
	ProfileHIDDevice:       "hid_device",
	ProfileOPP:             "opp",
	ProfileHearingAid:      "hearing_aid",
	ProfileLEAudio:         "le_audio",
}

func (p ProfileID) String() string {
	if n, ok := profileNames[p]; ok {
		return n
	}
	return fmt.Sprintf("Profile(%d)", int(p))
}

// PropertyType tags a raw property blob reported by the controller.
type PropertyType int

const (
	PropName                PropertyType = 0x01
	PropAddress             PropertyType = 0x02
	PropUUIDs               PropertyType = 0x03
	PropClassOfDevice       PropertyType = 0x04
	PropScanMode            PropertyType = 0x07
	PropBondedDevices       PropertyType = 0x08
	PropDiscoverableTimeout PropertyType = 0x09
	PropLocalLEFeatures     PropertyType = 0x0d
	PropLocalIOCaps         PropertyType = 0x0e
	PropDynamicAudioBuffer  PropertyType = 0x10
	PropAllowlistedPlayers  PropertyType = 0x14
)

var propertyNames = map[PropertyType]string{
	PropName:                "name",
	PropAddress:             "address",
	PropUUIDs:               "uuids",
	PropClassOfDevice:       "class_of_device",
	PropScanMode:            "scan_mode",
	PropBondedDevices:       "bonded_devices",
	PropDiscoverableTimeout: "discoverable_timeout",
	PropLocalLEFeatures:     "le_features",
	PropLocalIOCaps:         "io_caps",
	PropDynamicAudioBuffer:  "dynamic_audio_buffer",
	PropAllowlistedPlayers:  "allowlisted_players",
}

func (t PropertyType) String() string {
	if n, ok := propertyNames[t]; ok {
		return n
	}
	return fmt.Sprintf("PropertyType(0x%02x)", int(t))
}

// Property is one raw blob tagged with its type.
type Property struct {
	Type  PropertyType
	Value []byte
}

type ScanMode int

const (
	ScanModeNone ScanMode = iota
	ScanModeConnectable
	ScanModeConnectableDiscoverable
)

func (m ScanMode) String() string {
	switch m {
	case ScanModeNone:
		return "none"
	case ScanModeConnectable:
		return "connectable"
	case ScanModeConnectableDiscoverable:
		return "connectable_discoverable"
	}
	return fmt.Sprintf("ScanMode(%d)", int(m))
}

// DynamicBufferSupport reports which dynamic audio buffer mode is usable.
type DynamicBufferSupport int

const (
	DynamicBufferNone DynamicBufferSupport = iota
	DynamicBufferA2DPOffload
)

// TrailingSegment selects what happens to a final player name that is not
// NUL terminated.
type TrailingSegment int

const (
	TrailingInclude TrailingSegment = iota
	TrailingDrop
)

// ParseTrailingSegment accepts "include" or "drop".
func ParseTrailingSegment(s string) (TrailingSegment, error) {
	switch s {
	case "", "include":
		return TrailingInclude, nil
	case "drop":
		return TrailingDrop, nil
	}
	return TrailingInclude, fmt.Errorf("invalid trailing segment policy %q", s)
}
