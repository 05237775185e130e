//go:build tinygo

package board

import "machine"

// WatchdogFeeder wraps the hardware watchdog timer, kept distinct from the
// runtime's RestartGuard: the feeder only knows how to feed and configure
// the timer, the guard decides whether it's healthy to do so.
type WatchdogFeeder struct {
	timeout uint32
}

// NewWatchdogFeeder configures and starts the hardware watchdog with the
// given timeout in milliseconds.
func NewWatchdogFeeder(timeoutMillis uint32) *WatchdogFeeder {
	machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: timeoutMillis})
	machine.Watchdog.Start()
	return &WatchdogFeeder{timeout: timeoutMillis}
}

// Update feeds the watchdog, postponing the next reset.
func (f *WatchdogFeeder) Update() {
	machine.Watchdog.Update()
}
