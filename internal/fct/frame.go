package fct

import (
	"encoding/binary"

	"github.com/STEAM-Academy-PRO/revolution-robotics-robot-mind-sub001/internal/checksum"
)

// CommandHeaderSize is the fixed 7-byte command header: a reserved byte
// (offset 3) keeps the checksummed region a round 6 bytes and leaves room
// for future wire extension without reshuffling offsets.
const CommandHeaderSize = 7

// MaxPayload is the largest payload a single frame may carry.
const MaxPayload = 250

// ResponseHeaderSize is the fixed 6-byte response header.
const ResponseHeaderSize = 6

// Command is a parsed incoming frame: header plus its payload.
type Command struct {
	Operation       Operation
	CommandID       uint8
	PayloadLength   uint8
	PayloadChecksum uint16
	HeaderChecksum  uint8
	Payload         []byte
}

// ParseCommand decodes buf into a Command without validating checksums;
// callers validate separately so that invalid frames can still be inspected
// for diagnostics. Returns false if buf is shorter than the 7-byte header.
func ParseCommand(buf []byte) (Command, bool) {
	if len(buf) < CommandHeaderSize {
		return Command{}, false
	}
	c := Command{
		Operation:       Operation(buf[0]),
		CommandID:       buf[1],
		PayloadLength:   buf[2],
		PayloadChecksum: binary.LittleEndian.Uint16(buf[4:6]),
		HeaderChecksum:  buf[6],
	}
	if len(buf) > CommandHeaderSize {
		c.Payload = buf[CommandHeaderSize:]
	}
	return c, true
}

// TotalLength is the frame length this command's header declares: the
// fixed header plus its announced payload length.
func (c Command) TotalLength() int {
	return CommandHeaderSize + int(c.PayloadLength)
}

func (c Command) headerBytes() [CommandHeaderSize]byte {
	var buf [CommandHeaderSize]byte
	buf[0] = byte(c.Operation)
	buf[1] = c.CommandID
	buf[2] = c.PayloadLength
	buf[3] = 0 // reserved
	binary.LittleEndian.PutUint16(buf[4:6], c.PayloadChecksum)
	buf[6] = c.HeaderChecksum
	return buf
}

// HeaderValid reports whether the CRC-7 over the first 6 header bytes
// matches HeaderChecksum.
func (c Command) HeaderValid() bool {
	hdr := c.headerBytes()
	return checksum.CRC7(hdr[:6]) == c.HeaderChecksum
}

// PayloadValid reports whether the CRC-16 over the payload matches
// PayloadChecksum.
func (c Command) PayloadValid() bool {
	return checksum.CRC16(c.Payload) == c.PayloadChecksum
}

// LengthValid reports whether the received buffer length matches
// 7 + payload_length, the guard MasterCommunication applies before any
// other validation.
func LengthValid(bufLen int, c Command) bool {
	return bufLen == c.TotalLength()
}

// EncodeCommand serializes a command with freshly computed checksums, for
// use by hosts/tests constructing frames to send.
func EncodeCommand(op Operation, commandID uint8, payload []byte) []byte {
	buf := make([]byte, CommandHeaderSize+len(payload))
	buf[0] = byte(op)
	buf[1] = commandID
	buf[2] = uint8(len(payload))
	buf[3] = 0
	binary.LittleEndian.PutUint16(buf[4:6], checksum.CRC16(payload))
	buf[6] = checksum.CRC7(buf[:6])
	copy(buf[CommandHeaderSize:], payload)
	return buf
}

// Response is an outgoing frame: a 6-byte header plus up to 250 payload
// bytes, held in a single reusable buffer (the "shared single-response
// buffer" spec.md describes).
type Response struct {
	buf [ResponseHeaderSize + MaxPayload]byte
}

// Reset clears the response to an empty Ok with no payload.
func (r *Response) Reset() {
	for i := range r.buf {
		r.buf[i] = 0
	}
}

// PayloadBuf returns the writable payload region handlers fill in place.
func (r *Response) PayloadBuf() []byte {
	return r.buf[ResponseHeaderSize:]
}

// SetHeader fills status and payload length (excluding checksums, which
// Protect computes).
func (r *Response) SetHeader(status Status, payloadLength uint8) {
	r.buf[0] = byte(status)
	r.buf[1] = payloadLength
	r.buf[2] = 0 // reserved
}

// Status reads back the status field.
func (r *Response) Status() Status { return Status(r.buf[0]) }

// PayloadLength reads back the payload length field.
func (r *Response) PayloadLength() uint8 { return r.buf[1] }

// Protect computes the payload CRC-16 and the header CRC-7 (over the first
// 5 header bytes), the same two-step MasterCommunication performs before
// handing a response to the transmitter.
func (r *Response) Protect() {
	payload := r.buf[ResponseHeaderSize : ResponseHeaderSize+int(r.buf[1])]
	binary.LittleEndian.PutUint16(r.buf[3:5], checksum.CRC16(payload))
	r.buf[5] = checksum.CRC7(r.buf[:5])
}

// Bytes returns the wire representation: header plus the declared payload,
// nothing more.
func (r *Response) Bytes() []byte {
	return r.buf[:ResponseHeaderSize+int(r.buf[1])]
}

// DecodeResponse parses a response buffer (for host/CLI use and tests).
func DecodeResponse(buf []byte) (status Status, payload []byte, headerChecksum uint8, payloadChecksum uint16, ok bool) {
	if len(buf) < ResponseHeaderSize {
		return 0, nil, 0, 0, false
	}
	status = Status(buf[0])
	length := buf[1]
	payloadChecksum = binary.LittleEndian.Uint16(buf[3:5])
	headerChecksum = buf[5]
	if len(buf) < ResponseHeaderSize+int(length) {
		return 0, nil, 0, 0, false
	}
	payload = buf[ResponseHeaderSize : ResponseHeaderSize+int(length)]
	return status, payload, headerChecksum, payloadChecksum, true
}
