package adapter

import (
	"github.com/pkg/errors"
	"github.com/rigado/btadapter"
	"github.com/rigado/btadapter/property"
)

// PropertiesChanged decodes and stores the reported properties in order.
// A property that fails to decode keeps its previous value; the rest are
// still applied and the first failure is returned.
func (c *Controller) PropertiesChanged(props ...btadapter.Property) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.publish()

	var first error
	failed := 0
	for _, p := range props {
		c.log.Debugf("property %v changed, %v bytes", p.Type, len(p.Value))

		changed, err := c.setProperty(p)
		if err != nil {
			c.log.Warnf("property %v rejected: %v", p.Type, err)
			if first == nil {
				first = errors.Wrapf(err, "property %v", p.Type)
			}
			failed++
			continue
		}

		if changed {
			c.sink.PropertyChanged(p.Type)
		}
	}

	if failed > 1 {
		return errors.Wrapf(first, "%v of %v properties rejected", failed, len(props))
	}
	return first
}

func (c *Controller) setProperty(p btadapter.Property) (bool, error) {
	switch p.Type {
	case btadapter.PropName:
		c.props.name = string(p.Value)

	case btadapter.PropAddress:
		a, err := property.DecodeAddr(p.Value)
		if err != nil {
			return false, err
		}
		c.props.address = a

	case btadapter.PropUUIDs:
		u, err := property.DecodeUUIDList(p.Value)
		if err != nil {
			return false, err
		}
		c.props.uuids = u

	case btadapter.PropClassOfDevice:
		cod, err := property.DecodeClassOfDevice(p.Value)
		if err != nil {
			return false, err
		}
		// a zero class means the stack has none yet
		if cod == 0 {
			return false, nil
		}
		c.props.classOfDevice = cod

	case btadapter.PropScanMode:
		v, err := property.DecodeUint32(p.Value)
		if err != nil {
			return false, err
		}
		c.props.scanMode = btadapter.ScanMode(v)

	case btadapter.PropBondedDevices:
		addrs, err := property.DecodeAddressList(p.Value)
		if err != nil {
			return false, err
		}
		c.bonded = newBondedDevices(addrs)

	case btadapter.PropDiscoverableTimeout:
		v, err := property.DecodeUint32(p.Value)
		if err != nil {
			return false, err
		}
		c.props.discoverableTimeout = v

	case btadapter.PropLocalLEFeatures:
		f, err := property.DecodeFeatureCapabilities(p.Value)
		if err != nil {
			return false, err
		}
		c.props.features = &f
		c.log.Debugf("le features: %+v", f)

	case btadapter.PropLocalIOCaps:
		v, err := property.DecodeUint32(p.Value)
		if err != nil {
			return false, err
		}
		c.props.ioCapability = v

	case btadapter.PropDynamicAudioBuffer:
		t, err := property.DecodeBufferConstraints(p.Value)
		if err != nil {
			return false, err
		}
		c.props.buffers = &t

	case btadapter.PropAllowlistedPlayers:
		c.props.players = property.DecodeAllowlistedPlayers(p.Value, c.trailing)

	default:
		c.log.Warnf("property change not handled: %v", p.Type)
		return false, nil
	}

	return true, nil
}
