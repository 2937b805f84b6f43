// Package property decodes the raw property blobs reported by the
// controller into typed records. Every function here is pure.
package property

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// FeatureLen is the size of the LE feature blob.
const FeatureLen = 29

// Offsets into the LE feature blob.
const (
	offVersion              = 0
	offAdvInstances         = 3
	offRPAOffload           = 4
	offOffloadedIRK         = 5
	offOffloadedScanFilters = 6
	offActivityEnergy       = 7
	offScanResultStorage    = 8
	offTrackableAdv         = 10
	offExtendedScan         = 12
	offDebugLog             = 13
	offLE2MPhy              = 14
	offLECodedPhy           = 15
	offLEExtendedAdv        = 16
	offLEPeriodicAdv        = 17
	offMaxAdvDataLen        = 18
	offDynBufferGroup1      = 20
	offDynBufferGroup2      = 22
	offPASTSender           = 24
	offCISCentral           = 25
	offISOBroadcaster       = 26
	offPASTRecipient        = 27
	offTDSScan              = 28
)

// FeatureCapabilities are the low energy and advertising capabilities of
// the local controller.
type FeatureCapabilities struct {
	Version                     uint16 `json:"version"`
	AdvInstances                uint8  `json:"adv_instances"`
	RPAOffload                  bool   `json:"rpa_offload"`
	OffloadedIRKs               uint8  `json:"offloaded_irks"`
	OffloadedScanFilters        uint8  `json:"offloaded_scan_filters"`
	ActivityEnergyInfo          bool   `json:"activity_energy_info"`
	ScanResultStorageBytes      uint16 `json:"scan_result_storage_bytes"`
	TrackableAdvTotal           uint16 `json:"trackable_adv_total"`
	ExtendedScan                bool   `json:"extended_scan"`
	DebugLogging                bool   `json:"debug_logging"`
	LE2MPhy                     bool   `json:"le_2m_phy"`
	LECodedPhy                  bool   `json:"le_coded_phy"`
	LEExtendedAdvertising       bool   `json:"le_extended_advertising"`
	LEPeriodicAdvertising       bool   `json:"le_periodic_advertising"`
	MaxAdvDataLen               uint16 `json:"max_adv_data_len"`
	DynamicBufferCodecsGroup1   uint16 `json:"dynamic_buffer_codecs_group1"`
	DynamicBufferCodecsGroup2   uint16 `json:"dynamic_buffer_codecs_group2"`
	PeriodicSyncTransferSender  bool   `json:"periodic_sync_transfer_sender"`
	ConnectedIsoStreamCentral   bool   `json:"connected_iso_stream_central"`
	IsoBroadcaster              bool   `json:"iso_broadcaster"`
	PeriodicSyncTransferRecv    bool   `json:"periodic_sync_transfer_recipient"`
	OffloadedTransportDiscovery bool   `json:"offloaded_transport_discovery"`
}

// OffloadedFilteringSupported reports whether the controller can filter
// scan results itself.
func (f FeatureCapabilities) OffloadedFilteringSupported() bool {
	return f.OffloadedScanFilters > 0
}

// OffloadedScanBatchingSupported reports whether the controller can batch
// scan results.
func (f FeatureCapabilities) OffloadedScanBatchingSupported() bool {
	return f.ScanResultStorageBytes > 0
}

// DecodeFeatureCapabilities decodes the LE feature blob. Bytes past
// FeatureLen are ignored so newer controllers can extend the layout.
func DecodeFeatureCapabilities(blob []byte) (FeatureCapabilities, error) {
	var f FeatureCapabilities
	err := f.UnmarshalBinary(blob)
	return f, err
}

// UnmarshalBinary replaces f with the contents of blob. f is left untouched
// on error.
func (f *FeatureCapabilities) UnmarshalBinary(blob []byte) error {
	if len(blob) < FeatureLen {
		return errors.Wrapf(ErrTooShort, "le features: want %v bytes, have %v", FeatureLen, len(blob))
	}

	r := reader{b: blob}
	v := FeatureCapabilities{
		Version:                     r.u16(offVersion),
		AdvInstances:                r.u8(offAdvInstances),
		RPAOffload:                  r.flag(offRPAOffload),
		OffloadedIRKs:               r.u8(offOffloadedIRK),
		OffloadedScanFilters:        r.u8(offOffloadedScanFilters),
		ActivityEnergyInfo:          r.flag(offActivityEnergy),
		ScanResultStorageBytes:      r.u16(offScanResultStorage),
		TrackableAdvTotal:           r.u16(offTrackableAdv),
		ExtendedScan:                r.flag(offExtendedScan),
		DebugLogging:                r.flag(offDebugLog),
		LE2MPhy:                     r.flag(offLE2MPhy),
		LECodedPhy:                  r.flag(offLECodedPhy),
		LEExtendedAdvertising:       r.flag(offLEExtendedAdv),
		LEPeriodicAdvertising:       r.flag(offLEPeriodicAdv),
		MaxAdvDataLen:               r.u16(offMaxAdvDataLen),
		DynamicBufferCodecsGroup1:   r.u16(offDynBufferGroup1),
		DynamicBufferCodecsGroup2:   r.u16(offDynBufferGroup2),
		PeriodicSyncTransferSender:  r.flag(offPASTSender),
		ConnectedIsoStreamCentral:   r.flag(offCISCentral),
		IsoBroadcaster:              r.flag(offISOBroadcaster),
		PeriodicSyncTransferRecv:    r.flag(offPASTRecipient),
		OffloadedTransportDiscovery: r.u8(offTDSScan)&0x01 != 0,
	}
	if r.err != nil {
		return errors.Wrap(r.err, "le features")
	}

	*f = v
	return nil
}

// MarshalBinary encodes f in the controller's wire layout. The reserved
// byte at offset 2 is written as zero.
func (f FeatureCapabilities) MarshalBinary() ([]byte, error) {
	b := make([]byte, FeatureLen)

	binary.LittleEndian.PutUint16(b[offVersion:], f.Version)
	b[offAdvInstances] = f.AdvInstances
	putBool(b, offRPAOffload, f.RPAOffload)
	b[offOffloadedIRK] = f.OffloadedIRKs
	b[offOffloadedScanFilters] = f.OffloadedScanFilters
	putBool(b, offActivityEnergy, f.ActivityEnergyInfo)
	binary.LittleEndian.PutUint16(b[offScanResultStorage:], f.ScanResultStorageBytes)
	binary.LittleEndian.PutUint16(b[offTrackableAdv:], f.TrackableAdvTotal)
	putBool(b, offExtendedScan, f.ExtendedScan)
	putBool(b, offDebugLog, f.DebugLogging)
	putBool(b, offLE2MPhy, f.LE2MPhy)
	putBool(b, offLECodedPhy, f.LECodedPhy)
	putBool(b, offLEExtendedAdv, f.LEExtendedAdvertising)
	putBool(b, offLEPeriodicAdv, f.LEPeriodicAdvertising)
	binary.LittleEndian.PutUint16(b[offMaxAdvDataLen:], f.MaxAdvDataLen)
	binary.LittleEndian.PutUint16(b[offDynBufferGroup1:], f.DynamicBufferCodecsGroup1)
	binary.LittleEndian.PutUint16(b[offDynBufferGroup2:], f.DynamicBufferCodecsGroup2)
	putBool(b, offPASTSender, f.PeriodicSyncTransferSender)
	putBool(b, offCISCentral, f.ConnectedIsoStreamCentral)
	putBool(b, offISOBroadcaster, f.IsoBroadcaster)
	putBool(b, offPASTRecipient, f.PeriodicSyncTransferRecv)
	putBool(b, offTDSScan, f.OffloadedTransportDiscovery)

	return b, nil
}

// reader keeps the first index error so a record can be decoded field by
// field without checking every read.
type reader struct {
	b   []byte
	err error
}

func (r *reader) u8(i int) uint8 {
	v, err := getByte(r.b, i)
	r.keep(err)
	return v
}

func (r *reader) flag(i int) bool {
	v, err := getBool(r.b, i)
	r.keep(err)
	return v
}

func (r *reader) u16(i int) uint16 {
	v, err := getUint16LE(r.b, i)
	r.keep(err)
	return v
}

func (r *reader) keep(err error) {
	if r.err == nil {
		r.err = err
	}
}
