package regmap_test

import (
	"testing"

	"github.com/soundctl/tpa2016-go/internal/regmap"
)

func TestAttackCode(t *testing.T) {
	tests := []struct {
		us   int
		want byte
	}{
		{0, 0},
		{1280, 1},
		{1279, 0}, // sub-step remainder is dropped
		{6400, 5},
		{80640, 0x3F},
	}
	for _, tc := range tests {
		if got := regmap.AttackCode(tc.us); got != tc.want {
			t.Errorf("AttackCode(%d) = %#06b, want %#06b", tc.us, got, tc.want)
		}
	}
}

func TestReleaseCode(t *testing.T) {
	tests := []struct {
		ms   int
		want byte
	}{
		{0, 0},
		{1644, 0b000001},
		{4932, 0b000011},
		{1643, 0}, // floor, not round
		{103600, 0b111111},
	}
	for _, tc := range tests {
		if got := regmap.ReleaseCode(tc.ms); got != tc.want {
			t.Errorf("ReleaseCode(%d) = %#06b, want %#06b", tc.ms, got, tc.want)
		}
	}
}

func TestHoldCode(t *testing.T) {
	tests := []struct {
		ms   int
		want byte
	}{
		{0, 0},
		{137, 0b000001},
		{411, 0b000011},
		{136, 0},
		{8631, 0b111111},
	}
	for _, tc := range tests {
		if got := regmap.HoldCode(tc.ms); got != tc.want {
			t.Errorf("HoldCode(%d) = %#06b, want %#06b", tc.ms, got, tc.want)
		}
	}
}

func TestPresetTable(t *testing.T) {
	want := []string{"classical", "jazz", "pop", "rap", "rock", "voice"}
	got := regmap.PresetNames()
	if len(got) != len(want) {
		t.Fatalf("PresetNames() = %v, want %v", got, want)
	}
	for i, name := range want {
		if got[i] != name {
			t.Errorf("PresetNames()[%d] = %q, want %q", i, got[i], name)
		}
	}
	for name, p := range regmap.Presets {
		if p.Ratio > 0b11 {
			t.Errorf("preset %q: ratio code %#b out of range", name, p.Ratio)
		}
		if p.Attack > 0x3F || p.Gain > 0x3F {
			t.Errorf("preset %q: 6-bit code out of range: %+v", name, p)
		}
	}
}
