package mcc

// DriveKind tags which field of a DriveRequest is meaningful.
type DriveKind uint8

const (
	DriveKindPower DriveKind = iota
	DriveKindSpeed
	DriveKindPosition
	DriveKindPositionRelative
)

// MotorStatus is the per-port health/goal indicator published to the host.
type MotorStatus uint8

const (
	StatusNormal MotorStatus = iota
	StatusBlocked
	StatusGoalReached
)

// DriveRequest is the versioned control intent for one port. A request is
// "new" iff Version differs from whatever was previously cached; Version
// must strictly increase per port.
type DriveRequest struct {
	Version            uint32
	Kind               DriveKind
	Power              int16 // scaled PWM units (already 2x the requested percentage)
	Speed              float32
	Position           int32 // absolute target, ticks
	SpeedLimit         float32
	PowerLimit         float32
	PositionBreakpoint int32 // ticks
}

// ZeroPowerRequest builds the "stop and wait for a new command" request the
// stall detector substitutes in, carrying the given version forward so it
// does not itself look like a fresh command to the arbitration logic.
func ZeroPowerRequest(version uint32) DriveRequest {
	return DriveRequest{Version: version, Kind: DriveKindPower, Power: 0}
}
