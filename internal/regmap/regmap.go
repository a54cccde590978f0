// Package regmap implements the register map of the TI TPA2016D2 class-D
// audio amplifier: the bit-field layout of each of the seven control
// registers, the documented power-on-reset values, and an in-memory shadow
// of device state. The package has no knowledge of the transport; callers
// move bytes to and from the device and keep the shadow in step via ByteAt
// and Apply.
//
// Datasheet: https://www.ti.com/lit/ds/symlink/tpa2016d2.pdf
package regmap

// Register is a TPA2016D2 register address.
type Register = byte

// Register addresses matching the datasheet's register map. Address 0 and
// addresses above 7 are not physical registers.
const (
	RegControl Register = 0x01 // speaker enables, shutdown, fault flags, noise gate enable
	RegAttack  Register = 0x02 // AGC attack time (6-bit code)
	RegRelease Register = 0x03 // AGC release time (6-bit code)
	RegHold    Register = 0x04 // AGC hold time (6-bit code)
	RegGain    Register = 0x05 // fixed gain (6-bit code)
	RegLimiter Register = 0x06 // output limiter level + noise gate threshold
	RegAGC     Register = 0x07 // AGC max gain + compression ratio
)

// Control is register 1. Bit 1 is reserved and always encodes as 1.
// The fault flags are latched by the chip and only meaningful after a
// fresh read; they are written back as-is.
type Control struct {
	SpeakerR  bool // bit 7: right speaker enable
	SpeakerL  bool // bit 6: left speaker enable
	Shutdown  bool // bit 5: software shutdown (SWS)
	FaultR    bool // bit 4: right channel over-current fault
	FaultL    bool // bit 3: left channel over-current fault
	Thermal   bool // bit 2: thermal fault
	NoiseGate bool // bit 0: noise gate enable
}

// Encode packs the control fields into the register 1 byte layout.
func (c *Control) Encode() byte {
	var b byte
	if c.SpeakerR {
		b |= 1 << 7
	}
	if c.SpeakerL {
		b |= 1 << 6
	}
	if c.Shutdown {
		b |= 1 << 5
	}
	if c.FaultR {
		b |= 1 << 4
	}
	if c.FaultL {
		b |= 1 << 3
	}
	if c.Thermal {
		b |= 1 << 2
	}
	b |= 1 << 1 // reserved, reads back as 1
	if c.NoiseGate {
		b |= 1
	}
	return b
}

// Decode overwrites all fields from the register 1 byte layout.
func (c *Control) Decode(b byte) {
	c.SpeakerR = b&(1<<7) != 0
	c.SpeakerL = b&(1<<6) != 0
	c.Shutdown = b&(1<<5) != 0
	c.FaultR = b&(1<<4) != 0
	c.FaultL = b&(1<<3) != 0
	c.Thermal = b&(1<<2) != 0
	c.NoiseGate = b&1 != 0
}

// U6 is a single 6-bit magnitude register (attack, release, hold, fixed gain).
type U6 struct {
	v byte
}

// Set stores v truncated to the low 6 bits. Out-of-range values are masked,
// not rejected, matching the chip's register coding.
func (u *U6) Set(v byte) { u.v = v & 0x3F }

// Value returns the stored 6-bit code.
func (u *U6) Value() byte { return u.v }

func (u *U6) Encode() byte  { return u.v & 0x3F }
func (u *U6) Decode(b byte) { u.v = b & 0x3F }

// Limiter is register 6: output limiter disable, 2-bit noise gate threshold
// and 5-bit output limiter level.
type Limiter struct {
	Disable   bool // bit 7: output limiter disable
	Threshold byte // bits 6:5: noise gate threshold code
	Level     byte // bits 4:0: output limiter level
}

func (l *Limiter) Encode() byte {
	var b byte
	if l.Disable {
		b |= 1 << 7
	}
	b |= (l.Threshold & 0x3) << 5
	b |= l.Level & 0x1F
	return b
}

func (l *Limiter) Decode(b byte) {
	l.Disable = b&(1<<7) != 0
	l.Threshold = (b >> 5) & 0x3
	l.Level = b & 0x1F
}

// AGC is register 7: 4-bit max gain and 2-bit compression ratio code.
type AGC struct {
	MaxGain byte // bits 7:4
	Ratio   byte // bits 1:0
}

func (a *AGC) Encode() byte {
	return (a.MaxGain&0xF)<<4 | a.Ratio&0x3
}

func (a *AGC) Decode(b byte) {
	a.MaxGain = b >> 4
	a.Ratio = b & 0x3
}

// RegisterMap is the in-memory shadow of the device's seven registers.
// Fields are mutated either by local setters before a write or by Apply
// when a byte has just been read back from the device. The shadow reflects
// what was last requested, not necessarily what the chip holds.
type RegisterMap struct {
	Control Control
	Attack  U6
	Release U6
	Hold    U6
	Gain    U6
	Limiter Limiter
	AGC     AGC
}

// New returns a register map holding the documented power-on-reset values:
// 0xC3, 0x05, 0x0B, 0x00, 0x06, 0x3A, 0xC2 for registers 1 through 7.
func New() *RegisterMap {
	return &RegisterMap{
		Control: Control{SpeakerR: true, SpeakerL: true, NoiseGate: true},
		Attack:  U6{v: 0x05},
		Release: U6{v: 0x0B},
		Hold:    U6{v: 0x00},
		Gain:    U6{v: 0x06},
		Limiter: Limiter{Threshold: 0b01, Level: 0b11010},
		AGC:     AGC{MaxGain: 0b1100, Ratio: 0b10},
	}
}

// ByteAt returns the encoding of the register at addr. Addresses outside
// 1-7 return 0, kept from the reference driver; callers that care validate
// the range first.
func (m *RegisterMap) ByteAt(addr Register) byte {
	switch addr {
	case RegControl:
		return m.Control.Encode()
	case RegAttack:
		return m.Attack.Encode()
	case RegRelease:
		return m.Release.Encode()
	case RegHold:
		return m.Hold.Encode()
	case RegGain:
		return m.Gain.Encode()
	case RegLimiter:
		return m.Limiter.Encode()
	case RegAGC:
		return m.AGC.Encode()
	default:
		return 0
	}
}

// Apply decodes val into the register at addr, replacing all of its prior
// field values. Addresses outside 1-7 are ignored.
func (m *RegisterMap) Apply(addr Register, val byte) {
	switch addr {
	case RegControl:
		m.Control.Decode(val)
	case RegAttack:
		m.Attack.Decode(val)
	case RegRelease:
		m.Release.Decode(val)
	case RegHold:
		m.Hold.Decode(val)
	case RegGain:
		m.Gain.Decode(val)
	case RegLimiter:
		m.Limiter.Decode(val)
	case RegAGC:
		m.AGC.Decode(val)
	}
}
