//go:build tinygo

// Command firmware is the RP2350 application image: it drives the motor
// control loop and ring-LED indication engine, and answers the full
// application command set over the same framed transport the bootloader
// uses.
package main

import (
	"machine"
	"time"

	"github.com/STEAM-Academy-PRO/revolution-robotics-robot-mind-sub001/internal/board"
	"github.com/STEAM-Academy-PRO/revolution-robotics-robot-mind-sub001/internal/fct"
	"github.com/STEAM-Academy-PRO/revolution-robotics-robot-mind-sub001/internal/fim"
	"github.com/STEAM-Academy-PRO/revolution-robotics-robot-mind-sub001/internal/ie"
	"github.com/STEAM-Academy-PRO/revolution-robotics-robot-mind-sub001/internal/mcc"
	"github.com/STEAM-Academy-PRO/revolution-robotics-robot-mind-sub001/internal/runtime"
	"github.com/STEAM-Academy-PRO/revolution-robotics-robot-mind-sub001/internal/sensor"
	"github.com/STEAM-Academy-PRO/revolution-robotics-robot-mind-sub001/telemetry"
	"github.com/STEAM-Academy-PRO/revolution-robotics-robot-mind-sub001/version"
)

const (
	motorTickInterval      = 10 * time.Millisecond
	indicationTickInterval = 20 * time.Millisecond
	transportPollInterval  = 5 * time.Millisecond
	startupAnimationBudget = 3000 // ms, matches the original firmware's "wait for master" window
	hwVersionIndex         = 2
	encoderDoubling        = 4
	maxConsecutiveFailures = 3
)

// ringWriter is the WS2812-class LED strip wrapper satisfying ie.PixelWriter.
type ringWriter struct {
	pin machine.Pin
}

func (w ringWriter) WriteLED(index int, c ie.RGB) {
	_ = index
	_ = c
	// Discards the pixel: this build has no WS2812 output driver, and
	// internal/board provides none.
}

func main() {
	logger := telemetry.NewLogger(machine.Serial)
	feeder := board.NewWatchdogFeeder(8000)
	guard := runtime.NewRestartGuard(feeder, logger, maxConsecutiveFailures)

	ports := mcc.NewPortTable(mcc.DefaultPortCount)
	sensors := make([]*sensor.Port, mcc.DefaultPortCount)
	for i := range sensors {
		sensors[i] = sensor.NewDummyPort(uint8(i))
	}

	engine := ie.NewEngine()
	host := runtime.NewHostStateHolder(startupAnimationBudget)

	rtc := board.RP2350RTC{}
	rebooter := board.RP2350Rebooter{}
	rebootToBootloader := func() {
		fim.RequestReboot(rtc, rebooter)
	}

	handlers := runtime.ApplicationHandlers(ports, engine, host, version.HardwareVersionString(hwVersionIndex), encoderDoubling, rebootToBootloader)
	disp := fct.NewDispatcher(handlers)

	engine.OnInit(host)
	ring := ringWriter{}

	uart := machine.Serial
	var frame [fct.CommandHeaderSize + fct.MaxPayload]byte
	var resp fct.Response

	lastMotorTick := time.Now()
	lastIndicationTick := time.Now()

	for {
		now := time.Now()

		if now.Sub(lastMotorTick) >= motorTickInterval {
			ports.TickAll()
			lastMotorTick = now
		}

		if now.Sub(lastIndicationTick) >= indicationTickInterval {
			for _, s := range sensors {
				s.Tick()
			}
			engine.Update(host, ring)
			lastIndicationTick = now
		}

		if n := readFrame(uart, frame[:]); n > 0 {
			disp.Handle(frame[:n], &resp)
			if _, err := uart.Write(resp.Bytes()); err != nil {
				guard.RecordFailure("transport-write")
			} else {
				guard.RecordSuccess()
			}
		}

		guard.Feed()
		time.Sleep(transportPollInterval)
	}
}

func readFrame(uart interface {
	Buffered() int
	Read([]byte) (int, error)
}, buf []byte) int {
	if uart.Buffered() < fct.CommandHeaderSize {
		return 0
	}
	n, err := uart.Read(buf[:fct.CommandHeaderSize])
	if err != nil || n < fct.CommandHeaderSize {
		return 0
	}
	payloadLen := int(buf[2])
	if payloadLen == 0 {
		return n
	}
	m, err := uart.Read(buf[fct.CommandHeaderSize : fct.CommandHeaderSize+payloadLen])
	if err != nil {
		return 0
	}
	return n + m
}
