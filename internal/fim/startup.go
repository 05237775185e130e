package fim

// StartupReason is why the MCU is currently executing boot code.
type StartupReason uint8

const (
	PowerUp StartupReason = iota
	BootloaderRequest
	WatchdogReset
	BrownOutReset
)

func (r StartupReason) String() string {
	switch r {
	case PowerUp:
		return "PowerUp"
	case BootloaderRequest:
		return "BootloaderRequest"
	case WatchdogReset:
		return "WatchdogReset"
	case BrownOutReset:
		return "BrownOutReset"
	default:
		return "Unknown"
	}
}

// bootloaderRequestPattern is the magic value the application writes to all
// four RTC GP registers to request that the next boot stay in the
// bootloader instead of jumping to the application.
const bootloaderRequestPattern = 0xFFFFFFFF

// CheckStartupReason decides the StartupReason in priority order: a watchdog
// reset always wins (an unresponsive application), then brown-out (power
// instability), then the RTC GP-register handoff pattern, else PowerUp.
//
// The two brown-out cases are reported distinctly here (matching the
// asymmetry the original firmware's logging preserves) even though callers
// that only care about the boot decision treat them identically to PowerUp.
func CheckStartupReason(cause ResetCause, rtc RTC) StartupReason {
	switch {
	case cause.Watchdog:
		return WatchdogReset
	case cause.BrownOutCore || cause.BrownOutVDD:
		return BrownOutReset
	}

	gp0en, gp2en := rtc.GPEnabled()
	if !gp0en || !gp2en {
		return PowerUp
	}

	var gp [4]uint32
	for i := range gp {
		gp[i] = rtc.ReadGP(i)
	}
	if gp[0]&gp[1]&gp[2]&gp[3] != bootloaderRequestPattern {
		return PowerUp
	}

	for i := range gp {
		rtc.WriteGP(i, 0)
	}
	rtc.SetGPEnabled(false, false)
	return BootloaderRequest
}

// RequestReboot writes the magic GP-register pattern and resets, so the next
// boot observes BootloaderRequest. This is the application-side half of the
// handoff (spec.md §4.1 operation 7).
func RequestReboot(rtc RTC, reboot Rebooter) {
	for i := 0; i < 4; i++ {
		rtc.WriteGP(i, bootloaderRequestPattern)
	}
	rtc.SetGPEnabled(true, true)
	reboot.Reset()
}
