//go:build tinygo

package bridge

import (
	"strconv"

	"github.com/STEAM-Academy-PRO/revolution-robotics-robot-mind-sub001/internal/ie"
	"github.com/STEAM-Academy-PRO/revolution-robotics-robot-mind-sub001/internal/mcc"
)

// FleetSnapshot renders a compact, human-readable line of the robot's motor
// and indication state for the fleet telemetry topic. It avoids JSON to
// keep the payload small.
type FleetSnapshot struct {
	Ports  *mcc.PortTable
	Engine *ie.Engine
}

// Encode writes "scenario=<n> port0=<status>,<pos> port1=..." into buf and
// returns the written slice; <pos> is "-" for a port with no DC motor.
func (s FleetSnapshot) Encode(buf []byte) []byte {
	pos := 0
	pos = appendStr(buf, pos, "scenario=")
	pos = appendInt(buf, pos, int(s.Engine.CurrentScenario()))

	for i := 0; i < s.Ports.Count(); i++ {
		p := s.Ports.Port(i)
		if p == nil {
			continue
		}
		pos = appendStr(buf, pos, " port")
		pos = appendInt(buf, pos, i)
		pos = appendStr(buf, pos, "=")
		pos = appendInt(buf, pos, int(p.Status()))
		pos = appendStr(buf, pos, ",")
		if dc := p.DC(); dc != nil {
			pos = appendInt(buf, pos, int(dc.PositionTicks()))
		} else {
			pos = appendStr(buf, pos, "-")
		}
	}
	return buf[:pos]
}

func appendStr(buf []byte, pos int, s string) int {
	n := copy(buf[pos:], s)
	return pos + n
}

func appendInt(buf []byte, pos int, v int) int {
	return appendStr(buf, pos, strconv.Itoa(v))
}
