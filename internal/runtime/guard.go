// Package runtime wires the Firmware Image Manager, Framed Command
// Transport, Motor Control Core, and Indication Engine together into the
// single cooperative scheduler the application image runs, and hosts the
// functional-watchdog policy that decides when the hardware watchdog should
// be allowed to reset the board.
package runtime

import "log/slog"

// Watchdog is the narrow feed/arm surface RestartGuard needs; on-device this
// wraps machine.Watchdog, off-device a no-op or recording stub.
type Watchdog interface {
	Update()
}

// RestartGuard decides whether the hardware watchdog keeps getting fed,
// generalizing the single global systemHealthy/consecutiveFailures pattern
// into a reusable policy: once a caller reports enough consecutive
// failures, feeding stops and the watchdog is left to reset the board.
type RestartGuard struct {
	watchdog            Watchdog
	logger              *slog.Logger
	maxConsecutiveFails int
	consecutiveFails    int
	healthy             bool
}

// NewRestartGuard builds a guard that stops feeding wd after
// maxConsecutiveFails consecutive RecordFailure calls without an
// intervening RecordSuccess.
func NewRestartGuard(wd Watchdog, logger *slog.Logger, maxConsecutiveFails int) *RestartGuard {
	return &RestartGuard{
		watchdog:            wd,
		logger:              logger,
		maxConsecutiveFails: maxConsecutiveFails,
		healthy:             true,
	}
}

// RecordSuccess clears the failure streak.
func (g *RestartGuard) RecordSuccess() {
	g.consecutiveFails = 0
}

// RecordFailure extends the failure streak and trips the guard unhealthy
// once the threshold is reached.
func (g *RestartGuard) RecordFailure(reason string) {
	g.consecutiveFails++
	if g.consecutiveFails >= g.maxConsecutiveFails {
		if g.healthy {
			g.logger.Error("restart-guard:unhealthy",
				slog.String("reason", reason),
				slog.Int("failures", g.consecutiveFails),
			)
		}
		g.healthy = false
	}
}

// Healthy reports whether the guard is still feeding the watchdog.
func (g *RestartGuard) Healthy() bool { return g.healthy }

// Feed feeds the hardware watchdog only while the guard considers the
// system healthy; once unhealthy, feeding stops and the hardware watchdog
// is left to reset the board on its own schedule.
func (g *RestartGuard) Feed() {
	if g.healthy {
		g.watchdog.Update()
	}
}
