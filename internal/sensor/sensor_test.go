package sensor

import "testing"

func TestDummyPortIgnoresInput(t *testing.T) {
	p := NewDummyPort(0)
	p.OnDigitalEdge(true)
	p.OnUARTByte('x')
	p.Tick()
	if p.Pressed() {
		t.Fatal("dummy port must never report pressed")
	}
	if p.EV3Heartbeat() {
		t.Fatal("dummy port must never NACK")
	}
}

func TestBumperSwitchTracksEdges(t *testing.T) {
	p := NewDummyPort(0)
	p.LoadBumperSwitch()
	p.OnDigitalEdge(true)
	if !p.Pressed() {
		t.Fatal("expected pressed after a press edge")
	}
	p.OnDigitalEdge(false)
	if p.Pressed() {
		t.Fatal("expected released after a release edge")
	}
}

func TestEV3HeartbeatNacksAfterFourteenCycles(t *testing.T) {
	p := NewDummyPort(0)
	p.LoadEV3()
	p.OnUARTByte(0x01) // one valid byte, then silence
	for i := 0; i < heartbeatNackCycles-1; i++ {
		p.Tick()
		if p.EV3Heartbeat() {
			t.Fatalf("NACK fired early at cycle %d", i)
		}
	}
	p.Tick()
	if !p.EV3Heartbeat() {
		t.Fatal("expected NACK once heartbeatNackCycles cycles elapsed with no data")
	}
}

func TestEV3HeartbeatResetsOnFreshByte(t *testing.T) {
	p := NewDummyPort(0)
	p.LoadEV3()
	p.OnUARTByte(0x01)
	for i := 0; i < heartbeatNackCycles-2; i++ {
		p.Tick()
	}
	p.OnUARTByte(0x02)
	p.Tick()
	if p.EV3Heartbeat() {
		t.Fatal("fresh byte should have reset the heartbeat counter")
	}
}

func TestUnloadRevertsToDummy(t *testing.T) {
	p := NewDummyPort(0)
	p.LoadBumperSwitch()
	p.OnDigitalEdge(true)
	p.Unload()
	if p.Kind != KindDummy {
		t.Fatalf("kind = %v, want Dummy after Unload", p.Kind)
	}
	if p.Pressed() {
		t.Fatal("dummy port must not report pressed after unload")
	}
}
