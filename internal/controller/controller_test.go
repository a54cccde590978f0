package controller_test

import (
	"testing"
	"time"

	"github.com/soundctl/tpa2016-go/internal/controller"
	"github.com/soundctl/tpa2016-go/internal/events"
	"github.com/soundctl/tpa2016-go/internal/hardware"
	"github.com/soundctl/tpa2016-go/internal/models"
	"github.com/soundctl/tpa2016-go/internal/regmap"
)

func newTestController(t *testing.T) (*controller.Controller, *hardware.MockBus, *events.Bus) {
	t.Helper()
	bus := hardware.NewMockBus()
	evts := events.NewBus()
	ctrl := controller.New(hardware.New(bus), evts)
	return ctrl, bus, evts
}

func intp(v int) *int    { return &v }
func boolp(v bool) *bool { return &v }

func TestStateDefaults(t *testing.T) {
	ctrl, _, _ := newTestController(t)

	state := ctrl.State()
	if !state.SpeakerLeft || !state.SpeakerRight {
		t.Error("speakers not enabled at reset")
	}
	if !state.NoiseGate || state.Shutdown {
		t.Errorf("control flags wrong at reset: %+v", state)
	}
	if state.Gain != 6 {
		t.Errorf("gain = %d, want reset value 6", state.Gain)
	}
	if state.AGC.MaxGain != 12 || state.AGC.Ratio != 2 {
		t.Errorf("AGC = %+v, want max_gain=12 ratio=2", state.AGC)
	}
}

func TestUpdateGain(t *testing.T) {
	ctrl, bus, _ := newTestController(t)

	state, appErr := ctrl.Update(models.AmpUpdate{Gain: intp(20)})
	if appErr != nil {
		t.Fatalf("Update: %v", appErr)
	}
	if state.Gain != 20 {
		t.Errorf("state gain = %d, want 20", state.Gain)
	}
	if got := bus.Reg(regmap.RegGain); got != 20 {
		t.Errorf("device gain register = %d, want 20", got)
	}
}

func TestUpdateValidation(t *testing.T) {
	ctrl, bus, _ := newTestController(t)

	tests := []models.AmpUpdate{
		{Gain: intp(64)},
		{Gain: intp(-1)},
		{Ratio: intp(4)},
		{GateThreshold: intp(5)},
		{LimiterLevel: intp(32)},
	}
	for _, upd := range tests {
		if _, appErr := ctrl.Update(upd); appErr == nil || appErr.Status != 400 {
			t.Errorf("Update(%+v) did not return a 400", upd)
		}
	}
	if len(bus.Writes()) != 0 {
		t.Error("rejected updates touched the bus")
	}
}

func TestUpdateBusError(t *testing.T) {
	ctrl, bus, _ := newTestController(t)

	bus.SetFailWrite(true)
	_, appErr := ctrl.Update(models.AmpUpdate{NoiseGate: boolp(false)})
	if appErr == nil || appErr.Code != "BUS_ERROR" {
		t.Fatalf("Update = %v, want BUS_ERROR", appErr)
	}
}

func TestUpdatePublishesState(t *testing.T) {
	ctrl, _, evts := newTestController(t)
	ch := evts.Subscribe("test")
	defer evts.Unsubscribe("test")

	if _, appErr := ctrl.Update(models.AmpUpdate{Gain: intp(30)}); appErr != nil {
		t.Fatalf("Update: %v", appErr)
	}
	select {
	case state := <-ch:
		if state.Gain != 30 {
			t.Errorf("published gain = %d, want 30", state.Gain)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("no state published")
	}
}

func TestLoadPreset(t *testing.T) {
	ctrl, bus, _ := newTestController(t)

	state, appErr := ctrl.LoadPreset("voice")
	if appErr != nil {
		t.Fatalf("LoadPreset: %v", appErr)
	}
	if state.Preset != "voice" {
		t.Errorf("state preset = %q, want voice", state.Preset)
	}
	writes := bus.Writes()
	if len(writes) != 6 {
		t.Fatalf("got %d writes, want 6", len(writes))
	}

	// A manual AGC change clears the preset tag.
	state, appErr = ctrl.Update(models.AmpUpdate{AttackUS: intp(2560)})
	if appErr != nil {
		t.Fatalf("Update: %v", appErr)
	}
	if state.Preset != "" {
		t.Errorf("preset tag not cleared, got %q", state.Preset)
	}
}

func TestLoadPresetUnknown(t *testing.T) {
	ctrl, _, _ := newTestController(t)

	if _, appErr := ctrl.LoadPreset("dubstep"); appErr == nil || appErr.Status != 404 {
		t.Errorf("LoadPreset(dubstep) = %v, want 404", appErr)
	}
}

func TestFaultsPublishOnChange(t *testing.T) {
	ctrl, bus, evts := newTestController(t)
	ch := evts.Subscribe("test")
	defer evts.Unsubscribe("test")

	bus.SetReg(regmap.RegControl, 0xC3|1<<3) // latch a left fault
	status, appErr := ctrl.Faults()
	if appErr != nil {
		t.Fatalf("Faults: %v", appErr)
	}
	if !status.Left || status.Right || status.Thermal {
		t.Errorf("faults = %+v, want left only", status)
	}
	select {
	case state := <-ch:
		if !state.Faults.Left {
			t.Errorf("published state missing fault: %+v", state.Faults)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("fault change not published")
	}

	// Unchanged flags publish nothing.
	if _, appErr := ctrl.Faults(); appErr != nil {
		t.Fatalf("Faults: %v", appErr)
	}
	select {
	case <-ch:
		t.Error("unchanged faults were published")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRegisters(t *testing.T) {
	ctrl, _, _ := newTestController(t)

	regs := ctrl.Registers()
	want := map[string]string{
		"1": "0xC3", "2": "0x05", "3": "0x0B", "4": "0x00",
		"5": "0x06", "6": "0x3A", "7": "0xC2",
	}
	for addr, val := range want {
		if regs[addr] != val {
			t.Errorf("register %s = %s, want %s", addr, regs[addr], val)
		}
	}
}

func TestSyncPicksUpDeviceState(t *testing.T) {
	ctrl, bus, _ := newTestController(t)

	bus.SetReg(regmap.RegGain, 0x15)
	state, appErr := ctrl.Sync()
	if appErr != nil {
		t.Fatalf("Sync: %v", appErr)
	}
	if state.Gain != 0x15 {
		t.Errorf("gain after sync = %d, want %d", state.Gain, 0x15)
	}
}

func TestRelease(t *testing.T) {
	ctrl, bus, _ := newTestController(t)

	if got := ctrl.Release(); got != hardware.Bus(bus) {
		t.Error("Release did not return the original bus")
	}
}
