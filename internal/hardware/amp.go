package hardware

import (
	"fmt"

	"github.com/soundctl/tpa2016-go/internal/regmap"
)

// Compression ratio codes for register 7.
const (
	Ratio1 byte = 0b00 // 1:1, AGC compression off
	Ratio2 byte = 0b01 // 2:1
	Ratio4 byte = 0b10 // 4:1
	Ratio8 byte = 0b11 // 8:1
)

// Noise gate threshold codes for register 6.
const (
	Gate1mV  byte = 0b00
	Gate4mV  byte = 0b01
	Gate10mV byte = 0b10
	Gate20mV byte = 0b11
)

// Faults holds the latched fault flags from register 1.
type Faults struct {
	Right   bool // right channel over-current
	Left    bool // left channel over-current
	Thermal bool // die over-temperature
}

// Amp drives a single TPA2016D2 over a Bus. It owns the register shadow for
// its lifetime and has exactly one owner: calls are synchronous and must not
// be issued concurrently. Every setter mutates the shadow first and then
// writes the owning register, so after a failed write the shadow is ahead of
// the physical device.
type Amp struct {
	bus  Bus
	regs *regmap.RegisterMap
}

// New creates an amplifier controller on the given bus. The shadow starts at
// the chip's power-on-reset values; call Sync to pick up the state of an
// already-configured device.
func New(bus Bus) *Amp {
	return &Amp{bus: bus, regs: regmap.New()}
}

// Release returns the bus handle. The controller must not be used afterwards.
func (a *Amp) Release() Bus {
	bus := a.bus
	a.bus = nil
	return bus
}

// SpeakerEnable enables or disables the left and right speaker outputs.
func (a *Amp) SpeakerEnable(left, right bool) error {
	a.regs.Control.SpeakerL = left
	a.regs.Control.SpeakerR = right
	return a.writeReg(regmap.RegControl)
}

// Faults reads register 1 from the device, decodes it into the shadow, and
// returns the fault flags. The chip latches faults until the register is
// read, so this always goes to the bus rather than serving the shadow.
func (a *Amp) Faults() (Faults, error) {
	val, err := a.readReg(regmap.RegControl)
	if err != nil {
		return Faults{}, err
	}
	a.regs.Apply(regmap.RegControl, val)
	return Faults{
		Right:   a.regs.Control.FaultR,
		Left:    a.regs.Control.FaultL,
		Thermal: a.regs.Control.Thermal,
	}, nil
}

// DisableDevice puts the chip in software shutdown: control, bias and
// oscillators are disabled. Other register 1 bits are left as-is.
func (a *Amp) DisableDevice() error {
	a.regs.Control.Shutdown = true
	return a.writeReg(regmap.RegControl)
}

// EnableDevice clears software shutdown.
func (a *Amp) EnableDevice() error {
	a.regs.Control.Shutdown = false
	return a.writeReg(regmap.RegControl)
}

// NoiseGate enables or disables the noise gate.
func (a *Amp) NoiseGate(enable bool) error {
	a.regs.Control.NoiseGate = enable
	return a.writeReg(regmap.RegControl)
}

// SetAttackTime sets the AGC attack time from microseconds per 6 dB,
// flooring to the register's 1.28 ms step.
func (a *Amp) SetAttackTime(us int) error {
	return a.SetAttackCode(regmap.AttackCode(us))
}

// SetAttackCode sets the AGC attack time from a raw 6-bit register code.
func (a *Amp) SetAttackCode(code byte) error {
	a.regs.Attack.Set(code)
	return a.writeReg(regmap.RegAttack)
}

// SetReleaseTime sets the AGC release time from milliseconds per 6 dB,
// flooring to the register's 1.644 s step.
func (a *Amp) SetReleaseTime(ms int) error {
	return a.SetReleaseCode(regmap.ReleaseCode(ms))
}

// SetReleaseCode sets the AGC release time from a raw 6-bit register code.
func (a *Amp) SetReleaseCode(code byte) error {
	a.regs.Release.Set(code)
	return a.writeReg(regmap.RegRelease)
}

// SetHoldTime sets the AGC hold time from milliseconds, flooring to the
// register's 137 ms step. 0 disables the hold phase.
func (a *Amp) SetHoldTime(ms int) error {
	return a.SetHoldCode(regmap.HoldCode(ms))
}

// SetHoldCode sets the AGC hold time from a raw 6-bit register code.
func (a *Amp) SetHoldCode(code byte) error {
	a.regs.Hold.Set(code)
	return a.writeReg(regmap.RegHold)
}

// SetFixedGain sets the fixed gain register. The code is masked to 6 bits.
func (a *Amp) SetFixedGain(code byte) error {
	a.regs.Gain.Set(code)
	return a.writeReg(regmap.RegGain)
}

// SetGain sets the volume. It is an alias for SetFixedGain.
func (a *Amp) SetGain(code byte) error { return a.SetFixedGain(code) }

// SetNoiseGateThreshold sets the 2-bit noise gate threshold code (Gate1mV
// through Gate20mV).
func (a *Amp) SetNoiseGateThreshold(code byte) error {
	a.regs.Limiter.Threshold = code
	return a.writeReg(regmap.RegLimiter)
}

// SetOutputLimiterLevel sets the 5-bit output limiter level.
func (a *Amp) SetOutputLimiterLevel(level byte) error {
	a.regs.Limiter.Level = level
	return a.writeReg(regmap.RegLimiter)
}

// SetCompressionRatio sets the AGC compression ratio code (Ratio1 through
// Ratio8).
func (a *Amp) SetCompressionRatio(ratio byte) error {
	a.regs.AGC.Ratio = ratio
	return a.writeReg(regmap.RegAGC)
}

// ApplyPreset applies one of the named AGC presets as six single-register
// writes to registers 2 through 7 in ascending address order. The sequence
// is not atomic: a bus error partway through leaves the device with a mix
// of old and new settings, and the shadow ahead of the device.
func (a *Amp) ApplyPreset(name string) error {
	p, ok := regmap.Presets[name]
	if !ok {
		return fmt.Errorf("hardware: unknown preset %q", name)
	}
	a.regs.Attack.Set(p.Attack)
	if err := a.writeReg(regmap.RegAttack); err != nil {
		return err
	}
	a.regs.Release.Set(regmap.ReleaseCode(p.ReleaseMS))
	if err := a.writeReg(regmap.RegRelease); err != nil {
		return err
	}
	a.regs.Hold.Set(regmap.HoldCode(p.HoldMS))
	if err := a.writeReg(regmap.RegHold); err != nil {
		return err
	}
	a.regs.Gain.Set(p.Gain)
	if err := a.writeReg(regmap.RegGain); err != nil {
		return err
	}
	a.regs.Apply(regmap.RegLimiter, p.Limiter)
	if err := a.writeReg(regmap.RegLimiter); err != nil {
		return err
	}
	a.regs.AGC.Ratio = p.Ratio
	return a.writeReg(regmap.RegAGC)
}

// Sync reads all seven registers from the device in ascending address order
// and decodes each into the shadow, resynchronizing it with ground truth.
// Intended for bring-up and after suspected external reconfiguration.
func (a *Amp) Sync() error {
	for addr := regmap.RegControl; addr <= regmap.RegAGC; addr++ {
		val, err := a.readReg(addr)
		if err != nil {
			return err
		}
		a.regs.Apply(addr, val)
	}
	return nil
}

// RawRegister returns the shadow's current encoding of the register at addr
// without touching the bus. Addresses outside 1-7 return 0.
func (a *Amp) RawRegister(addr regmap.Register) byte {
	return a.regs.ByteAt(addr)
}

// ReadRegister reads a register directly from the device and decodes it into
// the shadow. Addresses outside 1-7 are not physical registers and return
// 0 with a nil error and no bus traffic, a behavior kept from the reference
// driver.
func (a *Amp) ReadRegister(addr regmap.Register) (byte, error) {
	val, err := a.readReg(addr)
	if err != nil {
		return 0, err
	}
	a.regs.Apply(addr, val)
	return val, nil
}

// writeReg encodes the register at addr from the shadow and writes it to the
// device as a single [addr, value] transaction.
func (a *Amp) writeReg(addr regmap.Register) error {
	return a.bus.Write(DevAddr, []byte{addr, a.regs.ByteAt(addr)})
}

func (a *Amp) readReg(addr regmap.Register) (byte, error) {
	if addr < regmap.RegControl || addr > regmap.RegAGC {
		return 0, nil
	}
	var buf [1]byte
	if err := a.bus.WriteRead(DevAddr, []byte{addr}, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}
