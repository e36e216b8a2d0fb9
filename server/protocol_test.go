package main

import (
	"math"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

func TestCommandFrame(t *testing.T) {
	frame := EncodeCommandFrame(CmdAttack, -250.5, 1000, true)
	if len(frame) != binCommandSize || frame[0] != binCommandTag {
		t.Fatalf("bad frame header % x", frame)
	}

	msg, ok := DecodeCommandFrame(frame)
	if !ok {
		t.Fatal("valid frame rejected")
	}
	if msg.Kind != "attack" || msg.X != -250.5 || msg.Y != 1000 || !msg.Screen {
		t.Errorf("decoded %+v", msg)
	}
}

func TestCommandFrameRejectsGarbage(t *testing.T) {
	bad := [][]byte{
		nil,
		{binCommandTag},
		append([]byte{0x01}, make([]byte, binCommandSize-1)...),
	}
	unknownKind := EncodeCommandFrame(CmdStop, 0, 0, false)
	unknownKind[1] = 9
	bad = append(bad, unknownKind)

	nan := EncodeCommandFrame(CmdMove, float32(math.NaN()), 0, false)
	bad = append(bad, nan)

	for i, frame := range bad {
		if _, ok := DecodeCommandFrame(frame); ok {
			t.Errorf("frame %d (% x) should be rejected", i, frame)
		}
	}
}

func TestGameStateMsgpackKeys(t *testing.T) {
	gs := GameState{
		Units: []UnitState{{ID: 3, Kind: int(KindMinion), X: 1.5, Y: -2}},
		Wave:  WaveState{Number: 2, Spawning: true, Index: 4, NextIn: 12.5},
		Tick:  99,
	}
	raw, err := msgpack.Marshal(gs)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]interface{}
	if err := msgpack.Unmarshal(raw, &m); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"u", "w", "tick"} {
		if _, ok := m[key]; !ok {
			t.Errorf("state is missing key %q", key)
		}
	}
}
