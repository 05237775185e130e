package fim

import "encoding/binary"

// HeaderSize is the on-flash size of ApplicationHeader: four little-endian
// u32 fields, reserving a whole erase block.
const HeaderSize = 16

// Header is the persisted descriptor of the installed application.
type Header struct {
	BootloaderVersion uint32
	HWVersion         uint32
	TargetChecksum    uint32
	TargetLength      uint32
}

// Encode serializes h as 16 little-endian bytes.
func (h Header) Encode() [HeaderSize]byte {
	var buf [HeaderSize]byte
	binary.LittleEndian.PutUint32(buf[0:4], h.BootloaderVersion)
	binary.LittleEndian.PutUint32(buf[4:8], h.HWVersion)
	binary.LittleEndian.PutUint32(buf[8:12], h.TargetChecksum)
	binary.LittleEndian.PutUint32(buf[12:16], h.TargetLength)
	return buf
}

// DecodeHeader parses a 16-byte flash block into a Header.
func DecodeHeader(buf []byte) Header {
	var h Header
	h.BootloaderVersion = binary.LittleEndian.Uint32(buf[0:4])
	h.HWVersion = binary.LittleEndian.Uint32(buf[4:8])
	h.TargetChecksum = binary.LittleEndian.Uint32(buf[8:12])
	h.TargetLength = binary.LittleEndian.Uint32(buf[12:16])
	return h
}

// IsEmptyBlock reports whether a flash region is in its erased (all 0xFF)
// state, the "empty header" case the boot decision treats specially.
func IsEmptyBlock(buf []byte) bool {
	for _, b := range buf {
		if b != 0xFF {
			return false
		}
	}
	return true
}
