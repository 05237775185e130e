// Package sensor implements the sensor-port abstraction: Dummy (no hardware
// attached), BumperSwitch (a single digital input), and an EV3 UART sensor
// stub whose ring buffer is the worked ISR/task shared-state example.
package sensor

// Kind identifies which concrete sensor backs a port.
type Kind uint8

const (
	KindDummy Kind = iota
	KindBumperSwitch
	KindEV3
)

// Port is a tagged-variant sensor slot, mirroring mcc.Port's replacement of
// the C firmware's weak-symbol vtable with an explicit switch.
type Port struct {
	Index uint8
	Kind  Kind

	bumper  bumperSwitch
	ev3     ev3Sensor
}

// NewDummyPort returns a port with nothing attached: reads always report
// "no data", matching the Dummy motor library's no-op convention.
func NewDummyPort(index uint8) *Port {
	return &Port{Index: index, Kind: KindDummy}
}

// LoadBumperSwitch attaches a digital bumper switch to the port.
func (p *Port) LoadBumperSwitch() {
	p.Kind = KindBumperSwitch
	p.bumper = bumperSwitch{}
}

// LoadEV3 attaches an EV3 UART sensor stub to the port.
func (p *Port) LoadEV3() {
	p.Kind = KindEV3
	p.ev3 = newEV3Sensor()
}

// Unload reverts the port to Dummy.
func (p *Port) Unload() {
	p.Kind = KindDummy
}

// OnDigitalEdge feeds a bumper-switch transition; a no-op on other kinds.
func (p *Port) OnDigitalEdge(pressed bool) {
	if p.Kind == KindBumperSwitch {
		p.bumper.onEdge(pressed)
	}
}

// OnUARTByte feeds one byte received from an EV3 sensor's UART, called from
// the UART RX interrupt handler; a no-op on other kinds.
func (p *Port) OnUARTByte(b byte) {
	if p.Kind == KindEV3 {
		p.ev3.onRxByte(b)
	}
}

// Tick runs the port's periodic task-side processing (heartbeat tracking
// for EV3); a no-op on Dummy/BumperSwitch.
func (p *Port) Tick() {
	if p.Kind == KindEV3 {
		p.ev3.tick()
	}
}

// Pressed reports the bumper switch's debounced state; always false on
// other kinds.
func (p *Port) Pressed() bool {
	if p.Kind == KindBumperSwitch {
		return p.bumper.pressed
	}
	return false
}

// EV3Heartbeat reports whether the EV3 link should be NACKed for staleness;
// always false on other kinds.
func (p *Port) EV3Heartbeat() (nack bool) {
	if p.Kind == KindEV3 {
		return p.ev3.shouldNack()
	}
	return false
}

// bumperSwitch is a single digital input with no additional state beyond
// its last observed level.
type bumperSwitch struct {
	pressed bool
}

func (b *bumperSwitch) onEdge(pressed bool) {
	b.pressed = pressed
}
