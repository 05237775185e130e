package mcc

// LibraryKind tags which motor-port variant a Port carries. This is the Go
// translation of the original firmware's function-pointer "library"
// vtable: a tagged enum with an exhaustive switch in Port's methods,
// instead of a struct of nullable callbacks.
type LibraryKind uint8

const (
	LibraryDummy LibraryKind = iota
	LibraryDc
)

// Port is one physical motor port: a fixed index plus whichever library
// variant is currently loaded. Reconfiguring a port (via LoadDc) replaces
// the variant outright, matching the original's Load/Unload lifecycle.
type Port struct {
	Index uint8
	Kind  LibraryKind
	dc    *DcMotor
}

// NewDummyPort builds a port with no motor attached: configuration and
// drive requests are accepted as no-ops, status always reads Normal/zero.
func NewDummyPort(index uint8) *Port {
	return &Port{Index: index, Kind: LibraryDummy}
}

// LoadDc attaches a DcMotor library to this port, replacing whatever was
// there before.
func (p *Port) LoadDc(cfg DcConfig, resolution int32) {
	p.Kind = LibraryDc
	p.dc = NewDcMotor(cfg, resolution)
}

// Unload detaches any attached library, reverting the port to Dummy.
func (p *Port) Unload() {
	p.Kind = LibraryDummy
	p.dc = nil
}

// Tick advances the port's control loop by one 10ms period. req is ignored
// for Dummy ports.
func (p *Port) Tick(req DriveRequest) {
	switch p.Kind {
	case LibraryDc:
		p.dc.Tick(req)
	case LibraryDummy:
		// no-op: nothing to drive, nothing to publish beyond the zero status.
	}
}

// OnEdgeA forwards a quadrature A-channel edge to the attached Dc library,
// if any. Safe for ISR context.
func (p *Port) OnEdgeA(aHigh, bHigh bool) {
	if p.Kind == LibraryDc {
		p.dc.OnEdgeA(aHigh, bHigh)
	}
}

// OnEdgeB forwards a quadrature B-channel edge. Safe for ISR context.
func (p *Port) OnEdgeB(aHigh, bHigh bool) {
	if p.Kind == LibraryDc {
		p.dc.OnEdgeB(aHigh, bHigh)
	}
}

// StatusBytes renders the 11-byte status slot for this port.
func (p *Port) StatusBytes() [11]byte {
	if p.Kind == LibraryDc {
		return p.dc.StatusBytes()
	}
	return [11]byte{} // Normal, zero pwm/position/speed/version
}

// Status reports the port's health/goal indicator; Dummy ports are always
// Normal.
func (p *Port) Status() MotorStatus {
	if p.Kind == LibraryDc {
		return p.dc.Status()
	}
	return StatusNormal
}

// DC returns the attached DcMotor, or nil if this port is Dummy. Exposed
// for configuration/drive-request plumbing at the transport boundary.
func (p *Port) DC() *DcMotor {
	return p.dc
}
