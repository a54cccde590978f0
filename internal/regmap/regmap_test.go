package regmap_test

import (
	"testing"

	"github.com/soundctl/tpa2016-go/internal/regmap"
)

func TestPowerOnResetDefaults(t *testing.T) {
	m := regmap.New()
	want := map[regmap.Register]byte{
		regmap.RegControl: 0xC3,
		regmap.RegAttack:  0x05,
		regmap.RegRelease: 0x0B,
		regmap.RegHold:    0x00,
		regmap.RegGain:    0x06,
		regmap.RegLimiter: 0x3A,
		regmap.RegAGC:     0xC2,
	}
	for addr := regmap.Register(1); addr <= 7; addr++ {
		if got := m.ByteAt(addr); got != want[addr] {
			t.Errorf("ByteAt(%d) = 0x%02X, want 0x%02X", addr, got, want[addr])
		}
	}
}

func TestByteAtInvalidAddress(t *testing.T) {
	m := regmap.New()
	for _, addr := range []regmap.Register{0, 8, 0xFF} {
		if got := m.ByteAt(addr); got != 0 {
			t.Errorf("ByteAt(%d) = 0x%02X, want 0", addr, got)
		}
	}
}

func TestControlRoundTrip(t *testing.T) {
	tests := []regmap.Control{
		{},
		{SpeakerR: true},
		{SpeakerL: true},
		{Shutdown: true},
		{FaultR: true, FaultL: true},
		{Thermal: true},
		{NoiseGate: true},
		{SpeakerR: true, SpeakerL: true, NoiseGate: true},
		{SpeakerR: true, SpeakerL: true, Shutdown: true, FaultR: true, FaultL: true, Thermal: true, NoiseGate: true},
	}
	for _, tc := range tests {
		var got regmap.Control
		got.Decode(tc.Encode())
		if got != tc {
			t.Errorf("round trip %+v -> %+v", tc, got)
		}
	}
}

func TestControlReservedBit(t *testing.T) {
	tests := []regmap.Control{
		{},
		{SpeakerR: true, SpeakerL: true, NoiseGate: true},
		{Shutdown: true, FaultR: true, FaultL: true, Thermal: true},
	}
	for _, tc := range tests {
		if b := tc.Encode(); b&(1<<1) == 0 {
			t.Errorf("Encode(%+v) = 0x%02X, reserved bit 1 not set", tc, b)
		}
	}
}

func TestU6Masking(t *testing.T) {
	tests := []struct {
		in   byte
		want byte
	}{
		{0, 0},
		{0x3F, 0x3F},
		{0x40, 0x00},
		{0x41, 0x01},
		{0xFF, 0x3F},
	}
	for _, tc := range tests {
		var u regmap.U6
		u.Set(tc.in)
		if got := u.Encode(); got != tc.want {
			t.Errorf("Set(0x%02X).Encode() = 0x%02X, want 0x%02X", tc.in, got, tc.want)
		}
	}
}

func TestLimiterRoundTrip(t *testing.T) {
	tests := []regmap.Limiter{
		{},
		{Disable: true},
		{Threshold: 0b11},
		{Level: 0x1F},
		{Disable: true, Threshold: 0b01, Level: 0b11010},
	}
	for _, tc := range tests {
		var got regmap.Limiter
		got.Decode(tc.Encode())
		if got != tc {
			t.Errorf("round trip %+v -> %+v", tc, got)
		}
	}
}

func TestAGCRoundTrip(t *testing.T) {
	tests := []regmap.AGC{
		{},
		{MaxGain: 0xF},
		{Ratio: 0b11},
		{MaxGain: 0b1100, Ratio: 0b10},
	}
	for _, tc := range tests {
		var got regmap.AGC
		got.Decode(tc.Encode())
		if got != tc {
			t.Errorf("round trip %+v -> %+v", tc, got)
		}
	}
}

func TestApplyReplacesFields(t *testing.T) {
	m := regmap.New()
	m.Apply(regmap.RegControl, 0x00)
	if m.Control.SpeakerR || m.Control.SpeakerL || m.Control.NoiseGate {
		t.Errorf("Apply(1, 0x00) left fields set: %+v", m.Control)
	}
	m.Apply(regmap.RegGain, 0x21)
	if got := m.Gain.Value(); got != 0x21 {
		t.Errorf("Gain after Apply = 0x%02X, want 0x21", got)
	}
	m.Apply(regmap.RegAGC, 0xC2)
	if m.AGC.MaxGain != 0b1100 || m.AGC.Ratio != 0b10 {
		t.Errorf("AGC after Apply = %+v", m.AGC)
	}
	// Out-of-range addresses are a no-op.
	before := m.ByteAt(regmap.RegControl)
	m.Apply(0, 0xFF)
	m.Apply(8, 0xFF)
	if got := m.ByteAt(regmap.RegControl); got != before {
		t.Errorf("Apply to invalid address changed register 1: 0x%02X", got)
	}
}
