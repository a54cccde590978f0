package hardware

import (
	"sync"

	"github.com/soundctl/tpa2016-go/internal/regmap"
)

// MockBus is a thread-safe in-memory Bus for tests and for running the
// daemon without an amplifier attached. It models the TPA2016D2 register
// file: a two-byte write of [reg, val] stores val, and a write-then-read of
// [reg] returns the stored value.
type MockBus struct {
	mu        sync.Mutex
	regs      map[byte]byte
	writes    [][]byte // every Write payload, in order
	reads     int
	failWrite bool
	failRead  bool
}

// NewMockBus creates a mock bus whose register file holds the chip's
// power-on-reset values.
func NewMockBus() *MockBus {
	m := &MockBus{regs: make(map[byte]byte)}
	defaults := regmap.New()
	for addr := regmap.RegControl; addr <= regmap.RegAGC; addr++ {
		m.regs[addr] = defaults.ByteAt(addr)
	}
	return m
}

// SetFailWrite configures the mock to fail all write operations.
func (m *MockBus) SetFailWrite(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWrite = fail
}

// SetFailRead configures the mock to fail all read operations.
func (m *MockBus) SetFailRead(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failRead = fail
}

func (m *MockBus) Write(addr uint16, w []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrite {
		return ErrHardware("mock: write failure configured")
	}
	buf := make([]byte, len(w))
	copy(buf, w)
	m.writes = append(m.writes, buf)
	if len(w) == 2 {
		m.regs[w[0]] = w[1]
	}
	return nil
}

func (m *MockBus) WriteRead(addr uint16, w, r []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failRead {
		return ErrHardware("mock: read failure configured")
	}
	m.reads++
	if len(w) == 1 && len(r) == 1 {
		r[0] = m.regs[w[0]]
	}
	return nil
}

// Reg returns the mock device's current value for a register.
func (m *MockBus) Reg(addr byte) byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.regs[addr]
}

// SetReg sets the mock device's value for a register, bypassing the bus.
// Used by tests to simulate state the chip changed on its own (latched
// faults, external reconfiguration).
func (m *MockBus) SetReg(addr, val byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.regs[addr] = val
}

// Writes returns a copy of every Write payload seen so far, in order.
func (m *MockBus) Writes() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.writes))
	for i, w := range m.writes {
		buf := make([]byte, len(w))
		copy(buf, w)
		out[i] = buf
	}
	return out
}

// Reads returns the number of WriteRead transactions seen so far.
func (m *MockBus) Reads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

// ResetLog clears the recorded write and read history.
func (m *MockBus) ResetLog() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes = nil
	m.reads = 0
}
