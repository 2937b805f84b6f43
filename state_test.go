package btadapter

import "testing"

func TestExpectedTransition(t *testing.T) {
	all := []ConnState{StateDisconnected, StateConnecting, StateConnected, StateDisconnecting}
	expected := map[[2]ConnState]bool{
		{StateDisconnected, StateConnecting}:    true,
		{StateConnected, StateDisconnecting}:    true,
		{StateConnecting, StateDisconnected}:    true,
		{StateConnecting, StateConnected}:       true,
		{StateDisconnecting, StateDisconnected}: true,
		{StateDisconnecting, StateConnected}:    true,
	}

	for _, prev := range all {
		for _, next := range all {
			have := ExpectedTransition(prev, next)
			if have != expected[[2]ConnState{prev, next}] {
				t.Fatalf("%v -> %v: have %v", prev, next, have)
			}
		}
	}

	if ExpectedTransition(ConnState(99), StateConnecting) {
		t.Fatal("invalid prev state reported as expected")
	}
}

func TestStateNames(t *testing.T) {
	if !StateDisconnecting.Valid() || ConnState(4).Valid() || ConnState(-1).Valid() {
		t.Fatal("Valid range wrong")
	}
	if AdapterStateFor(StateConnected) != AdapterConnected {
		t.Fatal("connected mapping wrong")
	}
	if AdapterStateFor(ConnState(9)) != AdapterConnState(-1) {
		t.Fatal("invalid state should map to -1")
	}
	if s := ProfileID(200).String(); s != "Profile(200)" {
		t.Fatalf("unknown profile name: %v", s)
	}
	if s := ProfileA2DP.String(); s != "a2dp" {
		t.Fatalf("a2dp name: %v", s)
	}
	if s := PropAllowlistedPlayers.String(); s != "allowlisted_players" {
		t.Fatalf("property name: %v", s)
	}
}

func TestParseTrailingSegment(t *testing.T) {
	for in, exp := range map[string]TrailingSegment{"": TrailingInclude, "include": TrailingInclude, "drop": TrailingDrop} {
		have, err := ParseTrailingSegment(in)
		if err != nil || have != exp {
			t.Fatalf("%q: have %v, %v", in, have, err)
		}
	}
	if _, err := ParseTrailingSegment("keep"); err == nil {
		t.Fatal("expected error")
	}
}
