//go:build !tinygo

package board

// WatchdogFeeder is a no-op stand-in for the hardware watchdog when running
// the runtime loop on a host (host builds and tests): Update is a no-op
// since there's no hardware timer to feed.
type WatchdogFeeder struct{}

func NewWatchdogFeeder(timeoutMillis uint32) *WatchdogFeeder { return &WatchdogFeeder{} }

func (f *WatchdogFeeder) Update() {}
