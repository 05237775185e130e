package mcc

import (
	"encoding/binary"
	"errors"
	"math"
)

// ErrConfigFrameLength is returned when a configuration frame is shorter
// than the fixed 81-byte descriptor.
var ErrConfigFrameLength = errors.New("mcc: configuration frame must be at least 81 bytes")

// ErrDriveFrameInvalid is returned when a drive-command frame's mode byte
// or length doesn't match a known variant.
var ErrDriveFrameInvalid = errors.New("mcc: invalid drive-command frame")

const configFrameSize = 81

const (
	breakpointKindDegrees  = 0
	breakpointKindRelative = 1
)

func getFloat32(buf []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf))
}

func getInt32(buf []byte) int32 {
	return int32(binary.LittleEndian.Uint32(buf))
}

func getPIDConfig(buf []byte) PIDConfig {
	return PIDConfig{
		P:          getFloat32(buf[0:4]),
		I:          getFloat32(buf[4:8]),
		D:          getFloat32(buf[8:12]),
		LowerLimit: getFloat32(buf[12:16]),
		UpperLimit: getFloat32(buf[16:20]),
	}
}

// DcConfig is the parsed form of the 81-byte configuration descriptor plus
// its optional non-linearity table.
type DcConfig struct {
	EncoderSlits     float32
	PositionSlow     PIDConfig
	PositionFast     PIDConfig
	BreakpointKind   uint8
	Breakpoint       float32
	Speed            PIDConfig
	MaxDeceleration  float32
	MaxAcceleration  float32
	MaxCurrent       float32
	NonLinearity     LUT
	AtLeastOneDegree int32
}

// ParseDcConfig decodes the fixed 81-byte descriptor (encoderSlits, two 20B
// PID configs, breakpoint kind+value, a 20B speed PID config, acceleration
// caps, max current) and an optional non-linearity table following it:
// 0-9 points of 8 bytes each (f32 x, f32 y), with the fixed point (0,0)
// always prepended.
//
// encDoubling selects whether the build counts one or both quadrature
// edges per slit (2x vs 4x resolution); it is a compile-time HAL choice in
// the original firmware, threaded in here instead of hidden behind a build
// tag so it is unit-testable.
func ParseDcConfig(buf []byte, encDoubling int32) (DcConfig, error) {
	if len(buf) < configFrameSize {
		return DcConfig{}, ErrConfigFrameLength
	}

	cfg := DcConfig{
		EncoderSlits:    getFloat32(buf[0:4]),
		PositionSlow:    getPIDConfig(buf[4:24]),
		PositionFast:    getPIDConfig(buf[24:44]),
		BreakpointKind:  buf[44],
		Breakpoint:      getFloat32(buf[45:49]),
		Speed:           getPIDConfig(buf[49:69]),
		MaxDeceleration: getFloat32(buf[69:73]),
		MaxAcceleration: getFloat32(buf[73:77]),
		MaxCurrent:      getFloat32(buf[77:81]),
	}

	resolution := cfg.EncoderSlits * float32(encDoubling)
	atLeast := int32(resolution/360.0 + 0.5)
	if atLeast < 1 {
		atLeast = 1
	}
	cfg.AtLeastOneDegree = atLeast

	rest := buf[configFrameSize:]
	lut := LUT{{X: 0, Y: 0}}
	for i := 0; i+8 <= len(rest) && len(lut) < 10; i += 8 {
		lut = append(lut, Point{X: getFloat32(rest[i : i+4]), Y: getFloat32(rest[i+4 : i+8])})
	}
	cfg.NonLinearity = lut

	return cfg, nil
}

// ParseDriveCommand decodes a drive-command frame (mode byte + variant
// body) into a DriveRequest carrying the given version. lastPositionTicks
// and ticksPerDegree are needed to convert relative/degree targets into
// absolute tick positions.
func ParseDriveCommand(buf []byte, version uint32, lastPositionTicks int32, ticksPerDegree float32) (DriveRequest, error) {
	if len(buf) < 1 {
		return DriveRequest{}, ErrDriveFrameInvalid
	}
	mode := buf[0]
	body := buf[1:]

	req := DriveRequest{Version: version}

	switch mode {
	case 0: // Power
		if len(body) < 1 {
			return DriveRequest{}, ErrDriveFrameInvalid
		}
		pwm := int8(body[0])
		if pwm < -100 || pwm > 100 {
			return DriveRequest{}, ErrDriveFrameInvalid
		}
		req.Kind = DriveKindPower
		req.Power = int16(pwm) * 2

	case 1: // Speed
		if len(body) < 4 {
			return DriveRequest{}, ErrDriveFrameInvalid
		}
		req.Kind = DriveKindSpeed
		req.Speed = getFloat32(body[0:4])
		if len(body) >= 8 {
			req.PowerLimit = getFloat32(body[4:8])
		}

	case 2, 3: // Position / PositionRelative
		if len(body) < 4 {
			return DriveRequest{}, ErrDriveFrameInvalid
		}
		if mode == 2 {
			req.Kind = DriveKindPosition
		} else {
			req.Kind = DriveKindPositionRelative
		}
		targetDegrees := getInt32(body[0:4])
		targetTicks := int32(float32(targetDegrees) * ticksPerDegree)
		if req.Kind == DriveKindPositionRelative {
			targetTicks += lastPositionTicks
		}
		req.Position = targetTicks

		limitBody := body[4:]
		switch {
		case len(limitBody) >= 8:
			req.SpeedLimit = getFloat32(limitBody[0:4])
			req.PowerLimit = getFloat32(limitBody[4:8])
		case len(limitBody) >= 5:
			kind := limitBody[0]
			value := getFloat32(limitBody[1:5])
			if kind == 0 {
				req.SpeedLimit = value
			} else {
				req.PowerLimit = value
			}
		}

	default:
		return DriveRequest{}, ErrDriveFrameInvalid
	}

	return req, nil
}
