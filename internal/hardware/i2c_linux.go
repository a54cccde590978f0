//go:build linux

package hardware

import (
	"context"
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"
	"golang.org/x/time/rate"
)

const (
	i2cRdwrIOCTL = 0x0707 // I2C_RDWR ioctl — combined transactions with REPEATED START
	i2cMsgRD     = 0x0001 // i2c_msg flag: read direction
	maxOpsPerSec = 500
)

// i2cMsg mirrors struct i2c_msg from linux/i2c.h
type i2cMsg struct {
	addr   uint16
	flags  uint16
	length uint16
	_pad   uint16 // struct alignment
	buf    uintptr
}

// i2cRdwr mirrors struct i2c_rdwr_ioctl_data from linux/i2c-dev.h
type i2cRdwr struct {
	msgs  uintptr
	nmsgs uint32
}

// I2CBus is the real Linux transport, issuing I2C_RDWR ioctls on an i2c-dev
// character device. All transactions go through a single shared fd and are
// rate limited so a runaway caller cannot saturate the bus.
type I2CBus struct {
	mu      sync.Mutex
	fd      int
	limiter *rate.Limiter
}

// NewI2CBus opens the given i2c-dev device (e.g. /dev/i2c-1).
func NewI2CBus(device string) (*I2CBus, error) {
	fd, err := unix.Open(device, unix.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("i2c: open %s: %w", device, err)
	}
	return &I2CBus{
		fd:      fd,
		limiter: rate.NewLimiter(rate.Limit(maxOpsPerSec), 10),
	}, nil
}

func (b *I2CBus) Write(addr uint16, w []byte) error {
	if err := b.limiter.Wait(context.Background()); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fd < 0 {
		return fmt.Errorf("i2c: bus closed")
	}
	msgs := [1]i2cMsg{
		{addr: addr, flags: 0, length: uint16(len(w)), buf: uintptr(unsafe.Pointer(&w[0]))},
	}
	rdwr := i2cRdwr{msgs: uintptr(unsafe.Pointer(&msgs[0])), nmsgs: 1}
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(b.fd), i2cRdwrIOCTL, uintptr(unsafe.Pointer(&rdwr))); errno != 0 {
		return fmt.Errorf("i2c: I2C_RDWR write 0x%02x: %w", addr, errno)
	}
	return nil
}

// WriteRead performs a combined write+read with REPEATED START:
// START→addr|W→w→RS→addr|R→r→NACK→STOP.
func (b *I2CBus) WriteRead(addr uint16, w, r []byte) error {
	if err := b.limiter.Wait(context.Background()); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fd < 0 {
		return fmt.Errorf("i2c: bus closed")
	}
	msgs := [2]i2cMsg{
		{addr: addr, flags: 0, length: uint16(len(w)), buf: uintptr(unsafe.Pointer(&w[0]))},
		{addr: addr, flags: i2cMsgRD, length: uint16(len(r)), buf: uintptr(unsafe.Pointer(&r[0]))},
	}
	rdwr := i2cRdwr{msgs: uintptr(unsafe.Pointer(&msgs[0])), nmsgs: 2}
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(b.fd), i2cRdwrIOCTL, uintptr(unsafe.Pointer(&rdwr))); errno != 0 {
		return fmt.Errorf("i2c: I2C_RDWR read 0x%02x: %w", addr, errno)
	}
	return nil
}

// Close releases the I2C file descriptor.
func (b *I2CBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fd >= 0 {
		err := unix.Close(b.fd)
		b.fd = -1
		return err
	}
	return nil
}
