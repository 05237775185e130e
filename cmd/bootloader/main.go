//go:build tinygo

// Command bootloader is the RP2350 image that owns the application flash
// region: it answers the bootloader command subset over the framed
// transport, accepts a streamed application image into that single region,
// and on a power-up boot with a header- and CRC-valid image jumps to the
// application.
package main

import (
	"log/slog"
	"machine"
	"time"

	"github.com/STEAM-Academy-PRO/revolution-robotics-robot-mind-sub001/internal/board"
	"github.com/STEAM-Academy-PRO/revolution-robotics-robot-mind-sub001/internal/fct"
	"github.com/STEAM-Academy-PRO/revolution-robotics-robot-mind-sub001/internal/fim"
	"github.com/STEAM-Academy-PRO/revolution-robotics-robot-mind-sub001/internal/runtime"
	"github.com/STEAM-Academy-PRO/revolution-robotics-robot-mind-sub001/telemetry"
	"github.com/STEAM-Academy-PRO/revolution-robotics-robot-mind-sub001/version"
)

const pollInterval = 5 * time.Millisecond

// fimLayout describes where the image header and the application region
// sit in flash, and the page/block geometry used to program them.
var fimLayout = fim.Layout{
	HeaderOffset:      0,
	FWOffset:          4096,
	FWAvailable:       0x1F0000 - 4096,
	PageSize:          256,
	BlockSize:         4096,
	BootloaderVersion: 1,
	HWVersion:         2,
}

func fatalError(logger *slog.Logger, msg string, rebooter fim.Rebooter) {
	logger.Error("bootloader:fatal", slog.String("reason", msg))
	for i := 0; i < 15; i++ {
		time.Sleep(time.Second)
	}
	rebooter.Reset()
	for {
		time.Sleep(time.Second)
	}
}

func main() {
	logger := telemetry.NewLogger(machine.Serial)
	feeder := board.NewWatchdogFeeder(8000)

	flash := board.RP2350Flash{}
	rebooter := board.RP2350Rebooter{}
	rtc := board.RP2350RTC{}

	cause := board.ReadResetCause()
	reason := fim.CheckStartupReason(cause, rtc)
	logger.Info("bootloader:startup", slog.String("reason", reason.String()))

	mgr := fim.NewManager(flash, fimLayout, rebooter, nil)

	if reason == fim.PowerUp {
		if ok, err := mgr.CheckTargetFirmware(false, 0); err == nil && ok {
			logger.Info("bootloader:jump-to-application")
			mgr.JumpToApplication()
		}
	}

	handlers := runtime.BootloaderHandlers(mgr, version.HardwareVersionString(int(fimLayout.HWVersion)))
	disp := fct.NewDispatcher(handlers)

	uart := machine.Serial
	var frame [fct.CommandHeaderSize + fct.MaxPayload]byte
	var resp fct.Response

	for {
		n := readFrame(uart, frame[:])
		if n > 0 {
			disp.Handle(frame[:n], &resp)
			uart.Write(resp.Bytes())
		}
		feeder.Update()
		time.Sleep(pollInterval)
	}
}

// readFrame does not wait: it returns 0 while fewer than a header's worth
// of bytes are buffered, and otherwise reads the header and then up to its
// declared payload length, returning the number of bytes read.
func readFrame(uart interface{ Buffered() int; Read([]byte) (int, error) }, buf []byte) int {
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
