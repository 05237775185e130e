//go:build !tinygo

package board

import "github.com/STEAM-Academy-PRO/revolution-robotics-robot-mind-sub001/internal/fim"

// MemoryFlash is an in-memory stand-in for RP2350Flash, built only for
// host (non-TinyGo) builds and used by host-side tests.
type MemoryFlash struct {
	Data      []byte
	BlockSize uint32
}

// NewMemoryFlash allocates a flash image of size bytes, erased (all 0xFF).
func NewMemoryFlash(size, blockSize uint32) *MemoryFlash {
	data := make([]byte, size)
	for i := range data {
		data[i] = 0xFF
	}
	return &MemoryFlash{Data: data, BlockSize: blockSize}
}

func (f *MemoryFlash) ReadAt(offset uint32, dst []byte) error {
	copy(dst, f.Data[offset:])
	return nil
}

func (f *MemoryFlash) EraseBlock(offset uint32) error {
	end := offset + f.BlockSize
	if end > uint32(len(f.Data)) {
		end = uint32(len(f.Data))
	}
	for i := offset; i < end; i++ {
		f.Data[i] = 0xFF
	}
	return nil
}

func (f *MemoryFlash) ProgramPage(offset uint32, data []byte) error {
	copy(f.Data[offset:], data)
	return nil
}

// StubRebooter records reset/jump requests instead of actually resetting a
// process, for host-side simulation and tests.
type StubRebooter struct {
	ResetCount int
	Jumped     bool
	JumpOffset uint32
}

func (r *StubRebooter) JumpToApplication(entryOffset uint32) {
	r.Jumped = true
	r.JumpOffset = entryOffset
}

func (r *StubRebooter) Reset() {
	r.ResetCount++
}

// StubRTC is an in-memory RTC emulation for host-side simulation.
type StubRTC struct {
	gp       [4]uint32
	gp0EN    bool
	gp2EN    bool
}

func (r *StubRTC) ReadGP(index int) uint32     { return r.gp[index] }
func (r *StubRTC) WriteGP(index int, v uint32) { r.gp[index] = v }
func (r *StubRTC) GPEnabled() (gp0, gp2 bool)  { return r.gp0EN, r.gp2EN }
func (r *StubRTC) SetGPEnabled(gp0, gp2 bool) {
	r.gp0EN = gp0
	r.gp2EN = gp2
}

var _ fim.Flash = (*MemoryFlash)(nil)
var _ fim.Rebooter = (*StubRebooter)(nil)
var _ fim.RTC = (*StubRTC)(nil)
