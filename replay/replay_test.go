package replay

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/rigado/btadapter"
	"github.com/rigado/btadapter/adapter"
	"github.com/rigado/btadapter/aggregator"
	"github.com/rigado/btadapter/property"
	"github.com/stretchr/testify/require"
)

const script = `[
  {"op": "ready"},
  {"op": "profile", "profile": 2, "device": "00:11:22:33:44:01", "prev": 0, "next": 1},
  {"op": "profile", "profile": 2, "device": "00:11:22:33:44:02", "prev": 0, "next": 1},
  {"op": "profile", "profile": 2, "device": "00:11:22:33:44:01", "prev": 1, "next": 2},
  {"op": "profile", "profile": 2, "device": "00:11:22:33:44:02", "prev": 1, "next": 0},
  {"op": "profile", "profile": 2, "device": "00:11:22:33:44:02", "prev": 99, "next": 0},
  {"op": "property", "type": 20, "hex": "6d7573696300726164696f00"},
  {"op": "property", "type": 13, "hex": "0102"},
  {"op": "discovery", "started": true},
  {"op": "bond", "device": "00:11:22:33:44:01", "bonded": true}
]`

func TestLoadAndRun(t *testing.T) {
	s, err := Load(strings.NewReader(script))
	require.NoError(t, err)
	require.Len(t, s, 10)

	l, err := btadapter.NewLogger("error", &bytes.Buffer{})
	require.NoError(t, err)

	out := &bytes.Buffer{}
	c, err := adapter.New(btadapter.OptSink(NewJSONSink(out)), btadapter.OptLogger(l))
	require.NoError(t, err)

	failed := Run(c, s)
	require.Len(t, failed, 2)
	require.Equal(t, 5, failed[0].Step)
	require.Equal(t, aggregator.ErrInvalidState, errors.Cause(failed[0].Err))
	require.Equal(t, 7, failed[1].Step)
	require.Equal(t, property.ErrTooShort, errors.Cause(failed[1].Err))

	require.Equal(t, btadapter.AdapterConnected, c.ConnectionState())
	require.Equal(t, []string{"music", "radio"}, c.AllowlistedPlayers())
	require.True(t, c.Discovering())
	require.Len(t, c.BondedDevices(), 1)

	var events []Event
	sc := bufio.NewScanner(out)
	for sc.Scan() {
		var e Event
		require.NoError(t, json.Unmarshal(sc.Bytes(), &e))
		events = append(events, e)
	}

	kinds := make([]string, len(events))
	for i, e := range events {
		kinds[i] = e.Kind
	}
	require.Equal(t, []string{"connection_state", "connection_state", "property", "discovery"}, kinds)
	require.Equal(t, btadapter.AdapterConnecting, events[0].Change.Next)
	require.Equal(t, btadapter.AdapterConnected, events[1].Change.Next)
	require.Equal(t, "00:11:22:33:44:01", events[1].Device.String())
	require.Equal(t, "allowlisted_players", events[2].Property)
}

func TestLoadRejectsBadSteps(t *testing.T) {
	_, err := Load(strings.NewReader(`[{"op": "teleport"}]`))
	require.Error(t, err)

	_, err = Load(strings.NewReader(`[{"op": "property", "type": 1, "hex": "zz"}]`))
	require.Error(t, err)

	_, err = Load(strings.NewReader(`[{"op": "bond", "device": "not-an-address"}]`))
	require.Error(t, err)

	_, err = Load(strings.NewReader(`{`))
	require.Error(t, err)
}
