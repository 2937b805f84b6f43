package replay

import (
	"io"
	"sync"

	"github.com/rigado/btadapter"
)

// Event is the JSON form of one sink callback.
type Event struct {
	Kind        string                   `json:"kind"`
	Device      *btadapter.Addr          `json:"device,omitempty"`
	Change      *btadapter.AdapterChange `json:"change,omitempty"`
	Property    string                   `json:"property,omitempty"`
	Discovering *bool                    `json:"discovering,omitempty"`
}

// JSONSink writes every event it receives as one JSON line.
type JSONSink struct {
	mu  sync.Mutex
	w   io.Writer
	log btadapter.Logger
}

func NewJSONSink(w io.Writer) *JSONSink {
	return &JSONSink{w: w, log: btadapter.GetLogger()}
}

func (s *JSONSink) write(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := json.NewEncoder(s.w).Encode(e); err != nil {
		s.log.Errorf("replay sink: %v", err)
	}
}

func (s *JSONSink) ConnectionStateChanged(device btadapter.Addr, change btadapter.AdapterChange) {
	s.write(Event{Kind: "connection_state", Device: &device, Change: &change})
}

func (s *JSONSink) PropertyChanged(t btadapter.PropertyType) {
	s.write(Event{Kind: "property", Property: t.String()})
}

func (s *JSONSink) DiscoveryStateChanged(discovering bool) {
	s.write(Event{Kind: "discovery", Discovering: &discovering})
}
