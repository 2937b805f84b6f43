package property

import (
	"reflect"
	"testing"

	"github.com/pkg/errors"
)

func TestFeatureDecodeLayout(t *testing.T) {
	blob := []byte{
		0x61, 0x00, // version 0x0061
		0xee,       // reserved
		0x05,       // adv instances
		0x01,       // rpa offload
		0x0c,       // irks
		0x10,       // scan filters
		0x01,       // activity/energy
		0x00, 0x04, // scan storage 0x0400
		0x20, 0x00, // trackable 32
		0x01, 0x00, 0x01, 0x01, 0x01, 0x00, // ext scan, debug, 2M, coded, ext adv, periodic
		0xfb, 0x00, // max adv data 251
		0x03, 0x00, // group 1
		0x00, 0x01, // group 2
		0x01, 0x00, 0x01, 0x00, // PAST sender, CIS central, ISO broadcaster, PAST recipient
		0xfe, // only bit 0 counts
	}

	exp := FeatureCapabilities{
		Version:                    0x0061,
		AdvInstances:               5,
		RPAOffload:                 true,
		OffloadedIRKs:              12,
		OffloadedScanFilters:       16,
		ActivityEnergyInfo:         true,
		ScanResultStorageBytes:     0x0400,
		TrackableAdvTotal:          32,
		ExtendedScan:               true,
		LE2MPhy:                    true,
		LECodedPhy:                 true,
		LEExtendedAdvertising:      true,
		MaxAdvDataLen:              251,
		DynamicBufferCodecsGroup1:  3,
		DynamicBufferCodecsGroup2:  0x0100,
		PeriodicSyncTransferSender: true,
		IsoBroadcaster:             true,
	}

	f, err := DecodeFeatureCapabilities(blob)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(f, exp) {
		t.Fatalf("have %+v\nwant %+v", f, exp)
	}
	if !f.OffloadedFilteringSupported() || !f.OffloadedScanBatchingSupported() {
		t.Fatalf("derived capabilities wrong for %+v", f)
	}

	blob[offTDSScan] = 0x01
	f, err = DecodeFeatureCapabilities(blob)
	if err != nil {
		t.Fatal(err)
	}
	if !f.OffloadedTransportDiscovery {
		t.Fatal("tds bit 0 not decoded")
	}
}

func TestFeatureRoundTrip(t *testing.T) {
	exp := FeatureCapabilities{
		Version:                     0xbeef,
		AdvInstances:                0xff,
		OffloadedIRKs:               1,
		OffloadedScanFilters:        2,
		ActivityEnergyInfo:          true,
		ScanResultStorageBytes:      0x1234,
		TrackableAdvTotal:           0xfffe,
		DebugLogging:                true,
		LEPeriodicAdvertising:       true,
		MaxAdvDataLen:               1650,
		DynamicBufferCodecsGroup1:   0x8001,
		DynamicBufferCodecsGroup2:   0x0002,
		ConnectedIsoStreamCentral:   true,
		PeriodicSyncTransferRecv:    true,
		OffloadedTransportDiscovery: true,
	}

	b, err := exp.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	if len(b) != FeatureLen {
		t.Fatalf("encoded %v bytes, want %v", len(b), FeatureLen)
	}

	f1, err := DecodeFeatureCapabilities(b)
	if err != nil {
		t.Fatal(err)
	}
	f2, err := DecodeFeatureCapabilities(b)
	if err != nil {
		t.Fatal(err)
	}

	if f1 != exp {
		t.Fatalf("have %+v\nwant %+v", f1, exp)
	}
	if f1 != f2 {
		t.Fatal("decode is not repeatable")
	}
}

func TestFeatureLength(t *testing.T) {
	for n := 0; n < FeatureLen; n++ {
		f := FeatureCapabilities{Version: 7}
		err := f.UnmarshalBinary(make([]byte, n))
		if errors.Cause(err) != ErrTooShort {
			t.Fatalf("len %v: have %v, want %v", n, err, ErrTooShort)
		}
		if f.Version != 7 {
			t.Fatalf("len %v: record modified on error", n)
		}
	}

	// newer controllers append fields
	b := make([]byte, FeatureLen+4)
	b[offAdvInstances] = 9
	f, err := DecodeFeatureCapabilities(b)
	if err != nil {
		t.Fatalf("trailing bytes rejected: %v", err)
	}
	if f.AdvInstances != 9 {
		t.Fatalf("adv instances: have %v, want 9", f.AdvInstances)
	}
}
