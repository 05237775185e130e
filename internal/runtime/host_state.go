package runtime

import (
	"sync"

	"github.com/STEAM-Academy-PRO/revolution-robotics-robot-mind-sub001/internal/ie"
)

// HostStateHolder is the concrete ie.HostState the application image
// builds once at startup and shares between the command handlers (which
// write it from the transport task) and the indication engine (which reads
// it from the 20ms tick). Guarded by a mutex since the two run on
// different goroutines/tasks.
type HostStateHolder struct {
	mu                sync.Mutex
	scenario          ie.Scenario
	masterStatus      ie.MasterStatus
	userColors        ie.Ring
	masterStarted     bool
	startupBudgetMs   uint32
	driveVersions     map[int]uint32
}

// NewHostStateHolder builds a holder with MasterStatus Unknown (forcing the
// busy-indicator override until the first SetMasterStatus) and the given
// startup-animation time budget.
func NewHostStateHolder(startupBudgetMs uint32) *HostStateHolder {
	return &HostStateHolder{
		masterStatus:    ie.MasterStatusUnknown,
		startupBudgetMs: startupBudgetMs,
		driveVersions:   make(map[int]uint32),
	}
}

func (h *HostStateHolder) RequestedScenario() ie.Scenario {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.scenario
}

func (h *HostStateHolder) SetRequestedScenario(s ie.Scenario) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.scenario = s
}

func (h *HostStateHolder) MasterStatus() ie.MasterStatus {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.masterStatus
}

func (h *HostStateHolder) SetMasterStatus(s ie.MasterStatus) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.masterStatus = s
}

func (h *HostStateHolder) UserColors() ie.Ring {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.userColors
}

func (h *HostStateHolder) SetUserColors(r ie.Ring) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.userColors = r
}

func (h *HostStateHolder) WaitForMasterStartup() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return !h.masterStarted
}

func (h *HostStateHolder) SetMasterStarted() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.masterStarted = true
}

func (h *HostStateHolder) ExpectedStartupTimeMillis() uint32 {
	return h.startupBudgetMs
}

// NextDriveVersion returns the next monotonically increasing drive-request
// version for a port, matching the arbitration scheme MCC uses to detect a
// fresh SetDriveRequest command versus a retransmission.
func (h *HostStateHolder) NextDriveVersion(port int) uint32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.driveVersions[port]++
	return h.driveVersions[port]
}

var _ ie.HostState = (*HostStateHolder)(nil)
