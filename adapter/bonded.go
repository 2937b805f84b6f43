package adapter

import "github.com/rigado/btadapter"

// bondedDevices is an ordered set of bonded device addresses.
type bondedDevices struct {
	addrs []btadapter.Addr
}

func newBondedDevices(addrs []btadapter.Addr) bondedDevices {
	var b bondedDevices
	for _, a := range addrs {
		b.add(a)
	}
	return b
}

func (b *bondedDevices) exists(addr btadapter.Addr) bool {
	for _, a := range b.addrs {
		if a == addr {
			return true
		}
	}
	return false
}

// add reports whether addr was not already present.
func (b *bondedDevices) add(addr btadapter.Addr) bool {
	if b.exists(addr) {
		return false
	}
	b.addrs = append(b.addrs, addr)
	return true
}

func (b *bondedDevices) remove(addr btadapter.Addr) bool {
	for i, a := range b.addrs {
		if a == addr {
			b.addrs = append(b.addrs[:i:i], b.addrs[i+1:]...)
			return true
		}
	}
	return false
}

func (b *bondedDevices) list() []btadapter.Addr {
	out := make([]btadapter.Addr, len(b.addrs))
	copy(out, b.addrs)
	return out
}
