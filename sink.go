package btadapter

// Sink receives the events derived by the adapter property controller.
// Methods are called with the controller lock held and must not call back
// into the controller.
type Sink interface {
	ConnectionStateChanged(device Addr, change AdapterChange)
	PropertyChanged(t PropertyType)
	DiscoveryStateChanged(discovering bool)
}

// NopSink drops every event.
type NopSink struct{}

func (NopSink) ConnectionStateChanged(Addr, AdapterChange) {}
func (NopSink) PropertyChanged(PropertyType)               {}
func (NopSink) DiscoveryStateChanged(bool)                 {}
