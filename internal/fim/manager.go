package fim

import "github.com/STEAM-Academy-PRO/revolution-robotics-robot-mind-sub001/internal/checksum"

// Layout describes the product-fixed flash geography: one erase block
// reserved for the header, then the application region.
type Layout struct {
	HeaderOffset      uint32
	FWOffset          uint32
	FWAvailable       uint32
	PageSize          uint32
	BlockSize         uint32
	BootloaderVersion uint32
	HWVersion         uint32
}

// ProgressFunc is invoked with a 0..255 value as WriteChunk advances.
type ProgressFunc func(progress uint8)

// Manager is the Firmware Image Manager: boot decision plus the
// page-buffered streaming writer used to install a new application.
type Manager struct {
	flash    Flash
	layout   Layout
	rebooter Rebooter
	progress ProgressFunc

	initialized   bool
	expectedCRC   uint32
	runningCRC    uint32
	totalLength   uint32
	currentLength uint32

	page      []byte
	pageWrIdx uint32
	cursor    uint32
}

// NewManager constructs a Manager bound to a flash device, a fixed layout,
// and the reset/reboot surface. progress may be nil.
func NewManager(flash Flash, layout Layout, rebooter Rebooter, progress ProgressFunc) *Manager {
	if progress == nil {
		progress = func(uint8) {}
	}
	return &Manager{
		flash:    flash,
		layout:   layout,
		rebooter: rebooter,
		progress: progress,
		page:     newErasedPage(layout.PageSize),
	}
}

func newErasedPage(size uint32) []byte {
	p := make([]byte, size)
	for i := range p {
		p[i] = 0xFF
	}
	return p
}

// ReadHeader reads the current 16-byte application header.
func (m *Manager) ReadHeader() (Header, error) {
	var buf [HeaderSize]byte
	if err := m.flash.ReadAt(m.layout.HeaderOffset, buf[:]); err != nil {
		return Header{}, err
	}
	return DecodeHeader(buf[:]), nil
}

// CheckImageFitsInFlash reports whether size fits the application region.
func (m *Manager) CheckImageFitsInFlash(size uint32) bool {
	return size <= m.layout.FWAvailable
}

// CheckTargetFirmware validates the installed application against its own
// header (and, optionally, an externally supplied expected CRC) by
// recomputing CRC-32 over the application bytes.
func (m *Manager) CheckTargetFirmware(checkExpectedCRC bool, expectedCRC uint32) (bool, error) {
	header, err := m.ReadHeader()
	if err != nil {
		return false, err
	}
	if header.TargetLength > m.layout.FWAvailable {
		return false, nil
	}
	if checkExpectedCRC && header.TargetChecksum != expectedCRC {
		return false, nil
	}

	const chunk = 256
	buf := make([]byte, chunk)
	crc := checksum.CRC32Init
	remaining := header.TargetLength
	offset := m.layout.FWOffset
	for remaining > 0 {
		n := remaining
		if n > chunk {
			n = chunk
		}
		if err := m.flash.ReadAt(offset, buf[:n]); err != nil {
			return false, err
		}
		crc = checksum.CRC32Update(crc, buf[:n])
		offset += n
		remaining -= n
	}
	return checksum.CRC32Final(crc) == header.TargetChecksum, nil
}

// writeHeader erases the header's block and programs a fresh header into
// it as one erased-padded page with a direct ProgramPage call, so the
// header is durable before any application bytes are written.
func (m *Manager) writeHeader(h Header) error {
	if err := m.flash.EraseBlock(m.layout.HeaderOffset); err != nil {
		return ErrFlashWrite
	}
	encoded := h.Encode()
	page := newErasedPage(m.layout.PageSize)
	copy(page, encoded[:])
	if err := m.flash.ProgramPage(m.layout.HeaderOffset, page); err != nil {
		return ErrFlashWrite
	}
	return nil
}

// InitializeUpdate erases the entire application region, writes a fresh
// header declaring size/crc immediately (not deferred to Finalize), and
// arms the streaming writer at FWOffset.
func (m *Manager) InitializeUpdate(size, crc uint32) error {
	if !m.CheckImageFitsInFlash(size) {
		return ErrImageTooLarge
	}
	header := Header{
		BootloaderVersion: m.layout.BootloaderVersion,
		HWVersion:         m.layout.HWVersion,
		TargetChecksum:    crc,
		TargetLength:      size,
	}
	if err := m.writeHeader(header); err != nil {
		return err
	}

	for off := uint32(0); off < m.layout.FWAvailable; off += m.layout.BlockSize {
		if err := m.flash.EraseBlock(m.layout.FWOffset + off); err != nil {
			return ErrFlashWrite
		}
	}

	m.initialized = true
	m.expectedCRC = crc
	m.runningCRC = checksum.CRC32Init
	m.totalLength = size
	m.currentLength = 0
	m.page = newErasedPage(m.layout.PageSize)
	m.pageWrIdx = 0
	m.cursor = m.layout.FWOffset
	m.progress(0)
	return nil
}

func (m *Manager) flushPage() error {
	if m.pageWrIdx == 0 {
		return nil
	}
	if err := m.flash.ProgramPage(m.cursor, m.page); err != nil {
		return ErrFlashWrite
	}
	m.cursor += m.layout.PageSize
	m.page = newErasedPage(m.layout.PageSize)
	m.pageWrIdx = 0
	return nil
}

// WriteChunk appends bytes to the installed-image stream: buffers into the
// page, flushing (programming) whenever the page fills, updates the running
// CRC-32 and reports progress mapped onto [0,255].
func (m *Manager) WriteChunk(data []byte) error {
	if !m.initialized {
		return ErrNotInitialized
	}

	m.runningCRC = checksum.CRC32Update(m.runningCRC, data)
	m.currentLength += uint32(len(data))

	for len(data) > 0 {
		room := m.layout.PageSize - m.pageWrIdx
		n := uint32(len(data))
		if n > room {
			n = room
		}
		copy(m.page[m.pageWrIdx:m.pageWrIdx+n], data[:n])
		m.pageWrIdx += n
		data = data[n:]

		if m.pageWrIdx == m.layout.PageSize {
			if err := m.flushPage(); err != nil {
				return err
			}
		}
	}

	m.progress(mapProgress(m.currentLength, m.totalLength))
	return nil
}

// mapProgress maps current/total onto a [0,255] progress value, matching
// the bootloader's round(map(current_length, 0, total_length, 0, 255)).
func mapProgress(current, total uint32) uint8 {
	if total == 0 {
		return 255
	}
	if current >= total {
		return 255
	}
	return uint8((uint64(current)*255 + uint64(total)/2) / uint64(total))
}

// Finalize flushes any partial page and validates the streamed image. If
// the manager was never initialized, or validation succeeds, it resets the
// MCU (the boot decision on the next reset then takes effect); if
// initialized but validation fails, it returns ErrImageInvalid and leaves
// the application region uninstalled.
func (m *Manager) Finalize() error {
	if m.initialized {
		if err := m.flushPage(); err != nil {
			return err
		}
		if m.currentLength != m.totalLength {
			m.initialized = false
			return ErrImageInvalid
		}
		ok, err := m.CheckTargetFirmware(true, m.expectedCRC)
		if err != nil {
			return err
		}
		if !ok {
			m.initialized = false
			return ErrImageInvalid
		}
	}
	m.rebooter.Reset()
	return nil
}

// JumpToApplication is the single site that transfers control to the
// installed application; call only after CheckTargetFirmware has returned
// true for the current boot.
func (m *Manager) JumpToApplication() {
	m.rebooter.JumpToApplication(m.layout.FWOffset)
}
