package fim

import (
	"bytes"
	"testing"

	"github.com/STEAM-Academy-PRO/revolution-robotics-robot-mind-sub001/internal/checksum"
)

// memFlash is an in-memory Flash for host-side testing.
type memFlash struct {
	data      []byte
	blockSize uint32
}

func newMemFlash(size, page uint32) *memFlash {
	data := make([]byte, size)
	for i := range data {
		data[i] = 0xFF
	}
	return &memFlash{data: data, blockSize: 4096}
}

func (f *memFlash) ReadAt(offset uint32, buf []byte) error {
	copy(buf, f.data[offset:int(offset)+len(buf)])
	return nil
}

func (f *memFlash) EraseBlock(offset uint32) error {
	for i := offset; i < offset+f.blockSize && int(i) < len(f.data); i++ {
		f.data[i] = 0xFF
	}
	return nil
}

func (f *memFlash) ProgramPage(offset uint32, data []byte) error {
	copy(f.data[offset:int(offset)+len(data)], data)
	return nil
}

type fakeRebooter struct {
	resetCount int
	jumped     bool
	jumpOffset uint32
}

func (r *fakeRebooter) Reset()                          { r.resetCount++ }
func (r *fakeRebooter) JumpToApplication(offset uint32) { r.jumped = true; r.jumpOffset = offset }

func testLayout() Layout {
	return Layout{
		HeaderOffset:      0,
		FWOffset:          4096,
		FWAvailable:       4096 * 8,
		PageSize:          256,
		BlockSize:         4096,
		BootloaderVersion: 1,
		HWVersion:         2,
	}
}

func TestInitializeUpdateWritesHeaderImmediately(t *testing.T) {
	flash := newMemFlash(4096*16, 256)
	reboot := &fakeRebooter{}
	m := NewManager(flash, testLayout(), reboot, nil)

	if err := m.InitializeUpdate(17, 0xDEADBEEF); err != nil {
		t.Fatalf("InitializeUpdate: %v", err)
	}

	h, err := m.ReadHeader()
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if h.TargetLength != 17 || h.TargetChecksum != 0xDEADBEEF {
		t.Fatalf("header not written immediately: %+v", h)
	}
}

func TestFullUpdateCycleSucceeds(t *testing.T) {
	flash := newMemFlash(4096*16, 256)
	reboot := &fakeRebooter{}
	m := NewManager(flash, testLayout(), reboot, nil)

	payload := bytes.Repeat([]byte{0xAB, 0xCD, 0xEF}, 100)[:250]
	crc := checksum.CRC32(payload)

	if err := m.InitializeUpdate(uint32(len(payload)), crc); err != nil {
		t.Fatalf("InitializeUpdate: %v", err)
	}

	chunks := [][]byte{payload[:100], payload[100:200], payload[200:]}
	for _, c := range chunks {
		if err := m.WriteChunk(c); err != nil {
			t.Fatalf("WriteChunk: %v", err)
		}
	}

	if err := m.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if reboot.resetCount != 1 {
		t.Fatalf("expected exactly one reset, got %d", reboot.resetCount)
	}

	ok, err := m.CheckTargetFirmware(false, 0)
	if err != nil {
		t.Fatalf("CheckTargetFirmware: %v", err)
	}
	if !ok {
		t.Fatal("CheckTargetFirmware returned false after a valid install")
	}
}

func TestFinalizeWithShortStreamIsInvalid(t *testing.T) {
	flash := newMemFlash(4096*16, 256)
	reboot := &fakeRebooter{}
	m := NewManager(flash, testLayout(), reboot, nil)

	if err := m.InitializeUpdate(8, 0x12345678); err != nil {
		t.Fatalf("InitializeUpdate: %v", err)
	}
	if err := m.WriteChunk(make([]byte, 7)); err != nil {
		t.Fatalf("WriteChunk: %v", err)
	}

	err := m.Finalize()
	if err != ErrImageInvalid {
		t.Fatalf("Finalize error = %v, want ErrImageInvalid", err)
	}
	if reboot.resetCount != 0 {
		t.Fatal("Finalize must not reset on a length mismatch")
	}

	ok, _ := m.CheckTargetFirmware(false, 0)
	if ok {
		t.Fatal("CheckTargetFirmware should be false after a failed finalize")
	}
}

func TestFinalizeWithoutInitializeStillResets(t *testing.T) {
	flash := newMemFlash(4096*16, 256)
	reboot := &fakeRebooter{}
	m := NewManager(flash, testLayout(), reboot, nil)

	if err := m.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if reboot.resetCount != 1 {
		t.Fatal("Finalize with nothing initialized should still reset, letting the boot decision run")
	}
}

func TestWriteChunkWithoutInitializeFails(t *testing.T) {
	flash := newMemFlash(4096*16, 256)
	reboot := &fakeRebooter{}
	m := NewManager(flash, testLayout(), reboot, nil)

	if err := m.WriteChunk([]byte{1, 2, 3}); err != ErrNotInitialized {
		t.Fatalf("WriteChunk error = %v, want ErrNotInitialized", err)
	}
}

func TestBoundaryImageSize(t *testing.T) {
	layout := testLayout()
	flash := newMemFlash(4096*16, 256)
	m := NewManager(flash, layout, &fakeRebooter{}, nil)

	if !m.CheckImageFitsInFlash(layout.FWAvailable) {
		t.Fatal("target_length == FW_AVAILABLE must be accepted")
	}
	if m.CheckImageFitsInFlash(layout.FWAvailable + 1) {
		t.Fatal("target_length == FW_AVAILABLE+1 must be rejected")
	}
}

func TestHeaderEmptyRoundTrip(t *testing.T) {
	empty := make([]byte, HeaderSize)
	for i := range empty {
		empty[i] = 0xFF
	}
	if !IsEmptyBlock(empty) {
		t.Fatal("all-0xFF block should be reported empty")
	}
	h := Header{BootloaderVersion: 1, HWVersion: 2, TargetChecksum: 3, TargetLength: 4}
	enc := h.Encode()
	if IsEmptyBlock(enc[:]) {
		t.Fatal("populated header should not be reported empty")
	}
	if got := DecodeHeader(enc[:]); got != h {
		t.Fatalf("DecodeHeader(Encode(h)) = %+v, want %+v", got, h)
	}
}
