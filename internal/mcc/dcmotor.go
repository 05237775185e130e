package mcc

import (
	"encoding/binary"
	"math"
	"sync/atomic"
)

// stallThresholdTicks is how many consecutive saturated, zero-speed
// control ticks must elapse (at the 10ms tick rate, 100ms) before a motor
// is declared Blocked.
const stallThresholdTicks = 10

// pwmLimit is the physical drive range the non-linearity LUT maps into.
const pwmLimit = 200

// DcMotor is the per-port control loop for a quadrature-encoded DC motor:
// ISR-fed position counter, two-sample speed estimate, cascaded PID
// (position -> speed -> raw effort), static non-linearity compensation,
// acceleration limiting, and stall detection.
type DcMotor struct {
	cfg        DcConfig
	resolution int32 // signed: sign encodes mounting/wiring direction

	position     atomic.Int32 // ISR-writer, task-reader
	lastPosition int32
	prevPosDiff  int32
	currentSpeed float32

	posPID   PID
	speedPID PID

	haveRequest   bool
	request       DriveRequest
	requestedSpeed float32 // acceleration-limited reference carried tick to tick

	motorTimeout uint16
	status       MotorStatus

	lastRawU float32
	lastPWM  int16
}

// NewDcMotor builds a controller for one port with the given resolution
// (signed ticks-per-revolution; the sign encodes encoder wiring polarity).
func NewDcMotor(cfg DcConfig, resolution int32) *DcMotor {
	return &DcMotor{
		cfg:        cfg,
		resolution: resolution,
		posPID:     NewPID(cfg.PositionSlow),
		speedPID:   NewPID(cfg.Speed),
	}
}

func signI32(v int32) int32 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 1 // the original treats zero resolution as already invalid configuration; default positive.
	}
}

func absI32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// OnEdgeA handles an interrupt on the encoder's A channel. Safe to call
// from ISR context: it only performs an atomic increment/decrement.
func (m *DcMotor) OnEdgeA(aHigh, bHigh bool) {
	if aHigh == bHigh {
		m.position.Add(1)
	} else {
		m.position.Add(-1)
	}
}

// OnEdgeB handles an interrupt on the encoder's B channel; signs are
// reversed relative to OnEdgeA.
func (m *DcMotor) OnEdgeB(aHigh, bHigh bool) {
	if aHigh == bHigh {
		m.position.Add(-1)
	} else {
		m.position.Add(1)
	}
}

// PositionTicks reads the current position with a single atomic load.
func (m *DcMotor) PositionTicks() int32 {
	return m.position.Load()
}

func (m *DcMotor) updateCurrentSpeed() {
	signed := m.position.Load() * signI32(m.resolution)
	posDiff := signed - m.lastPosition
	m.currentSpeed = float32(posDiff+m.prevPosDiff) * 3000.0 / float32(absI32(m.resolution))
	m.prevPosDiff = posDiff
	m.lastPosition = signed
}

// processRequest arbitrates a newly observed DriveRequest: resets the PID
// pair when the request kind changes, recomputes cached output limits, and
// clears stall/status state. Pass the same request repeatedly; arbitration
// is a no-op unless Version changed.
func (m *DcMotor) processRequest(req DriveRequest) {
	if m.haveRequest && req.Version == m.request.Version {
		return
	}

	if !m.haveRequest || req.Kind != m.request.Kind {
		m.posPID.Reset()
		m.speedPID.Reset()
		m.requestedSpeed = 0
	}

	if req.SpeedLimit == 0 {
		m.posPID.Config.LowerLimit = m.cfg.PositionSlow.LowerLimit
		m.posPID.Config.UpperLimit = m.cfg.PositionSlow.UpperLimit
	} else {
		m.posPID.Config.LowerLimit = -req.SpeedLimit
		m.posPID.Config.UpperLimit = req.SpeedLimit
	}

	if req.PowerLimit == 0 {
		m.speedPID.Config.LowerLimit = m.cfg.Speed.LowerLimit
		m.speedPID.Config.UpperLimit = m.cfg.Speed.UpperLimit
	} else {
		inverted := m.cfg.NonLinearity.Invert()
		p := inverted.Clamp(2 * req.PowerLimit)
		limit := LinearInterpolate(inverted, p)
		m.speedPID.Config.LowerLimit = -limit
		m.speedPID.Config.UpperLimit = limit
	}

	m.request = req
	m.haveRequest = true
	m.motorTimeout = 0
	m.status = StatusNormal
}

func applyAccelLimit(current, target, maxAccel, maxDecel float32) float32 {
	diff := target - current
	accelerating := (target >= 0 && diff >= 0) || (target < 0 && diff <= 0)
	limit := maxDecel
	if accelerating {
		limit = maxAccel
	}
	if diff > limit {
		diff = limit
	} else if diff < -limit {
		diff = -limit
	}
	return current + diff
}

func (m *DcMotor) runCascade() float32 {
	req := m.request

	switch req.Kind {
	case DriveKindPower:
		return float32(req.Power)

	case DriveKindSpeed:
		m.requestedSpeed = applyAccelLimit(m.requestedSpeed, req.Speed, m.cfg.MaxAcceleration, m.cfg.MaxDeceleration)
		return m.speedPID.Update(m.requestedSpeed, m.currentSpeed)

	case DriveKindPosition, DriveKindPositionRelative:
		current := m.PositionTicks() * signI32(m.resolution)
		diff := absI32(req.Position - current)

		if diff < req.PositionBreakpoint {
			m.posPID.Config.P = m.cfg.PositionFast.P
			m.posPID.Config.I = m.cfg.PositionFast.I
			m.posPID.Config.D = m.cfg.PositionFast.D
		} else {
			m.posPID.Config.P = m.cfg.PositionSlow.P
			m.posPID.Config.I = m.cfg.PositionSlow.I
			m.posPID.Config.D = m.cfg.PositionSlow.D
		}

		speedRef := m.posPID.Update(float32(req.Position), float32(current))
		u := m.speedPID.Update(speedRef, m.currentSpeed)

		if diff < m.cfg.AtLeastOneDegree {
			m.status = StatusGoalReached
		}
		return u

	default:
		return 0
	}
}

func (m *DcMotor) detectStall(u float32) {
	saturated := u <= m.speedPID.Config.LowerLimit || u >= m.speedPID.Config.UpperLimit
	if m.currentSpeed == 0 && saturated {
		m.motorTimeout++
		if m.motorTimeout >= stallThresholdTicks {
			m.status = StatusBlocked
			m.request = ZeroPowerRequest(m.request.Version)
		}
	} else {
		m.motorTimeout = 0
	}
}

// Tick advances the controller by one 10ms control period given the
// latest observed DriveRequest (callers pass the same value every tick;
// arbitration only acts when its Version changes).
func (m *DcMotor) Tick(req DriveRequest) {
	m.updateCurrentSpeed()
	m.processRequest(req)

	u := m.runCascade()
	m.lastRawU = u

	pwm := LinearInterpolateSymmetrical(m.cfg.NonLinearity, u)
	pwm = constrainF32(pwm, -pwmLimit, pwmLimit)

	m.detectStall(u)

	m.lastPWM = int16(math.Round(float64(pwm)))
}

// StatusBytes renders the 11-byte status slot published to the host:
// {status u8, pwm/2 u8, position_deg i32, speed f32, version u8}.
func (m *DcMotor) StatusBytes() [11]byte {
	var out [11]byte
	out[0] = byte(m.status)
	out[1] = byte(int8(m.lastPWM / 2))
	positionDeg := int32(float32(m.PositionTicks()*signI32(m.resolution)) / float32(m.cfg.AtLeastOneDegree))
	binary.LittleEndian.PutUint32(out[2:6], uint32(positionDeg))
	binary.LittleEndian.PutUint32(out[6:10], math.Float32bits(m.currentSpeed))
	out[10] = byte(m.request.Version)
	return out
}

// Status reports the current health/goal indicator.
func (m *DcMotor) Status() MotorStatus { return m.status }

// TicksPerDegree reports the encoder ticks-per-degree ratio used to convert
// an incoming position drive request's degree target into absolute ticks.
func (m *DcMotor) TicksPerDegree() float32 { return float32(m.cfg.AtLeastOneDegree) }

// Reconfigure replaces the tuning/non-linearity configuration, resets
// control state, and replaces the cached request with a zero-power request
// at the same version, so that re-sending the in-flight request is a no-op
// (the host must issue a drive command with a new version after
// reconfiguring).
func (m *DcMotor) Reconfigure(cfg DcConfig, resolution int32) {
	m.cfg = cfg
	m.resolution = resolution
	m.posPID = NewPID(cfg.PositionSlow)
	m.speedPID = NewPID(cfg.Speed)
	m.currentSpeed = 0
	m.lastPosition = m.PositionTicks() * signI32(resolution)
	m.prevPosDiff = 0
	m.motorTimeout = 0
	m.status = StatusNormal
	if m.haveRequest {
		m.request = ZeroPowerRequest(m.request.Version)
	}
}
