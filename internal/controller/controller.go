// Package controller mediates between the HTTP API and the amplifier
// hardware. The hardware.Amp is strictly single-owner, so all access is
// serialized here with one mutex; state snapshots are derived from the
// register shadow and published on the event bus after every change.
package controller

import (
	"fmt"
	"sync"

	"github.com/soundctl/tpa2016-go/internal/events"
	"github.com/soundctl/tpa2016-go/internal/hardware"
	"github.com/soundctl/tpa2016-go/internal/models"
	"github.com/soundctl/tpa2016-go/internal/regmap"
)

// Controller owns the amplifier and exposes the operations the API needs.
type Controller struct {
	mu     sync.Mutex
	amp    *hardware.Amp
	events *events.Bus
	preset string // last applied preset, cleared by manual AGC changes
}

// New creates a controller around an amplifier. The event bus may be nil
// when no subscribers are expected (tests).
func New(amp *hardware.Amp, bus *events.Bus) *Controller {
	return &Controller{amp: amp, events: bus}
}

// State returns the current amplifier state as seen by the register shadow.
func (c *Controller) State() models.AmpState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// Update applies a partial update. Fields are applied in struct order; the
// first bus error aborts the rest, leaving the shadow ahead of the device
// for the field that failed.
func (c *Controller) Update(upd models.AmpUpdate) (models.AmpState, *models.AppError) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if upd.SpeakerLeft != nil || upd.SpeakerRight != nil {
		cur := c.stateLocked()
		left, right := cur.SpeakerLeft, cur.SpeakerRight
		if upd.SpeakerLeft != nil {
			left = *upd.SpeakerLeft
		}
		if upd.SpeakerRight != nil {
			right = *upd.SpeakerRight
		}
		if err := c.amp.SpeakerEnable(left, right); err != nil {
			return c.stateLocked(), models.ErrBus(err.Error())
		}
	}
	if upd.Shutdown != nil {
		var err error
		if *upd.Shutdown {
			err = c.amp.DisableDevice()
		} else {
			err = c.amp.EnableDevice()
		}
		if err != nil {
			return c.stateLocked(), models.ErrBus(err.Error())
		}
	}
	if upd.NoiseGate != nil {
		if err := c.amp.NoiseGate(*upd.NoiseGate); err != nil {
			return c.stateLocked(), models.ErrBus(err.Error())
		}
	}
	if upd.Gain != nil {
		if *upd.Gain < 0 || *upd.Gain > 0x3F {
			return c.stateLocked(), models.ErrBadRequest(fmt.Sprintf("gain %d out of range [0, 63]", *upd.Gain))
		}
		if err := c.amp.SetFixedGain(byte(*upd.Gain)); err != nil {
			return c.stateLocked(), models.ErrBus(err.Error())
		}
		c.preset = ""
	}
	if upd.AttackUS != nil {
		if err := c.amp.SetAttackTime(*upd.AttackUS); err != nil {
			return c.stateLocked(), models.ErrBus(err.Error())
		}
		c.preset = ""
	}
	if upd.ReleaseMS != nil {
		if err := c.amp.SetReleaseTime(*upd.ReleaseMS); err != nil {
			return c.stateLocked(), models.ErrBus(err.Error())
		}
		c.preset = ""
	}
	if upd.HoldMS != nil {
		if err := c.amp.SetHoldTime(*upd.HoldMS); err != nil {
			return c.stateLocked(), models.ErrBus(err.Error())
		}
		c.preset = ""
	}
	if upd.Ratio != nil {
		if *upd.Ratio < 0 || *upd.Ratio > 3 {
			return c.stateLocked(), models.ErrBadRequest(fmt.Sprintf("compression ratio code %d out of range [0, 3]", *upd.Ratio))
		}
		if err := c.amp.SetCompressionRatio(byte(*upd.Ratio)); err != nil {
			return c.stateLocked(), models.ErrBus(err.Error())
		}
		c.preset = ""
	}
	if upd.GateThreshold != nil {
		if *upd.GateThreshold < 0 || *upd.GateThreshold > 3 {
			return c.stateLocked(), models.ErrBadRequest(fmt.Sprintf("noise gate threshold code %d out of range [0, 3]", *upd.GateThreshold))
		}
		if err := c.amp.SetNoiseGateThreshold(byte(*upd.GateThreshold)); err != nil {
			return c.stateLocked(), models.ErrBus(err.Error())
		}
	}
	if upd.LimiterLevel != nil {
		if *upd.LimiterLevel < 0 || *upd.LimiterLevel > 0x1F {
			return c.stateLocked(), models.ErrBadRequest(fmt.Sprintf("limiter level %d out of range [0, 31]", *upd.LimiterLevel))
		}
		if err := c.amp.SetOutputLimiterLevel(byte(*upd.LimiterLevel)); err != nil {
			return c.stateLocked(), models.ErrBus(err.Error())
		}
	}

	state := c.stateLocked()
	c.publish(state)
	return state, nil
}

// LoadPreset applies a named AGC preset.
func (c *Controller) LoadPreset(name string) (models.AmpState, *models.AppError) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := regmap.Presets[name]; !ok {
		return c.stateLocked(), models.ErrNotFound("unknown preset: " + name)
	}
	if err := c.amp.ApplyPreset(name); err != nil {
		return c.stateLocked(), models.ErrBus(err.Error())
	}
	c.preset = name
	state := c.stateLocked()
	c.publish(state)
	return state, nil
}

// PresetNames returns the available preset names.
func (c *Controller) PresetNames() []string { return regmap.PresetNames() }

// Faults reads the latched fault flags fresh from the device. A state
// update is published when the flags changed.
func (c *Controller) Faults() (models.FaultStatus, *models.AppError) {
	c.mu.Lock()
	defer c.mu.Unlock()

	before := c.stateLocked().Faults
	f, err := c.amp.Faults()
	if err != nil {
		return models.FaultStatus{}, models.ErrBus(err.Error())
	}
	status := models.FaultStatus{Right: f.Right, Left: f.Left, Thermal: f.Thermal}
	if status != before {
		c.publish(c.stateLocked())
	}
	return status, nil
}

// Sync re-reads all seven registers from the device into the shadow.
func (c *Controller) Sync() (models.AmpState, *models.AppError) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.amp.Sync(); err != nil {
		return c.stateLocked(), models.ErrBus(err.Error())
	}
	state := c.stateLocked()
	c.publish(state)
	return state, nil
}

// Registers returns the shadow's raw encoding of registers 1-7 as hex.
func (c *Controller) Registers() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()

	regs := make(map[string]string, 7)
	for addr := regmap.RegControl; addr <= regmap.RegAGC; addr++ {
		regs[fmt.Sprintf("%d", addr)] = fmt.Sprintf("0x%02X", c.amp.RawRegister(addr))
	}
	return regs
}

// Release gives up ownership of the amplifier's bus handle. The controller
// must not be used afterwards.
func (c *Controller) Release() hardware.Bus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.amp.Release()
}

// stateLocked derives an AmpState from the register shadow. Callers hold mu.
func (c *Controller) stateLocked() models.AmpState {
	var m regmap.RegisterMap
	for addr := regmap.RegControl; addr <= regmap.RegAGC; addr++ {
		m.Apply(addr, c.amp.RawRegister(addr))
	}
	return models.AmpState{
		SpeakerLeft:  m.Control.SpeakerL,
		SpeakerRight: m.Control.SpeakerR,
		Shutdown:     m.Control.Shutdown,
		NoiseGate:    m.Control.NoiseGate,
		Gain:         int(m.Gain.Value()),
		AGC: models.AGCSettings{
			AttackCode:     int(m.Attack.Value()),
			ReleaseCode:    int(m.Release.Value()),
			HoldCode:       int(m.Hold.Value()),
			MaxGain:        int(m.AGC.MaxGain),
			Ratio:          int(m.AGC.Ratio),
			GateThreshold:  int(m.Limiter.Threshold),
			LimiterLevel:   int(m.Limiter.Level),
			LimiterDisable: m.Limiter.Disable,
		},
		Faults: models.FaultStatus{
			Right:   m.Control.FaultR,
			Left:    m.Control.FaultL,
			Thermal: m.Control.Thermal,
		},
		Preset: c.preset,
	}
}

func (c *Controller) publish(state models.AmpState) {
	if c.events != nil {
		c.events.Publish(state)
	}
}
