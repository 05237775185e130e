package sensor

import "sync/atomic"

// ev3RingSize is the UART RX ring buffer depth; generous enough to absorb
// one full EV3 UART sensor message between task-loop polls.
const ev3RingSize = 32

// heartbeatNackCycles is the number of task cycles (at the 20ms tick used
// elsewhere in the indication/communication loop, ~280ms total) without a
// valid byte before the link is reported NACK'd.
const heartbeatNackCycles = 14

// ev3Sensor is the UART sensor port: a byte ring buffer filled from the RX
// interrupt handler and drained from the task loop, plus a heartbeat
// counter. The ring's shared state is a single atomic head index that only
// the interrupt writes; the tail index is owned and written by the task, so
// no lock or critical section guards the pair.
type ev3Sensor struct {
	buf  [ev3RingSize]byte
	head atomic.Uint32 // next write index, ISR-owned
	tail uint32        // next read index, task-owned

	lastByteCycle atomic.Uint32 // the tick count current as of the last RX byte
	currentCycle  uint32        // task-owned tick counter
}

func newEV3Sensor() ev3Sensor {
	return ev3Sensor{}
}

// onRxByte is called from the UART RX interrupt handler. The critical
// section it needs is just the single atomic increment of head — disabling
// interrupts isn't required on a single-core target because the store is
// already the last operation performed by the ISR itself.
func (e *ev3Sensor) onRxByte(b byte) {
	h := e.head.Load()
	e.buf[h%ev3RingSize] = b
	e.head.Store(h + 1)
	e.lastByteCycle.Store(e.currentCycle)
}

// drain reads any bytes the ISR has queued since the last call, task-side.
func (e *ev3Sensor) drain(dst []byte) int {
	h := e.head.Load()
	n := 0
	for e.tail != h && n < len(dst) {
		dst[n] = e.buf[e.tail%ev3RingSize]
		e.tail++
		n++
	}
	return n
}

// tick advances the task-owned cycle counter; called once per communication
// task cycle regardless of whether new bytes arrived.
func (e *ev3Sensor) tick() {
	e.currentCycle++
	var scratch [ev3RingSize]byte
	e.drain(scratch[:])
}

// shouldNack reports whether heartbeatNackCycles cycles have elapsed since
// the last valid RX byte, meaning the host should be told this port's
// reading is stale.
func (e *ev3Sensor) shouldNack() bool {
	return e.currentCycle-e.lastByteCycle.Load() >= heartbeatNackCycles
}
