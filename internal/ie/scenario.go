// Package ie implements the Indication Engine: a priority-and-scenario
// driven animation scheduler that drives 12 addressable ring-LED pixels at
// a 20ms tick from a finite set of parametric scenarios.
package ie

// PixelCount is the number of addressable ring LEDs.
const PixelCount = 12

// TickMillis is the fixed update period.
const TickMillis = 20

// MasterStatus is the host-readiness indicator the engine watches to force
// an override scenario.
type MasterStatus uint8

const (
	MasterStatusUnknown MasterStatus = iota
	MasterStatusOk
	MasterStatusError
)

// Scenario is the selectable ring animation. Off..BreathingGreen are
// publicly selectable; Siren, TrafficLight, and BugIndicator are reserved
// (ReadScenarioName returns no name for them).
type Scenario uint8

const (
	ScenarioOff Scenario = iota
	ScenarioUserFrame
	ScenarioColorWheel
	ScenarioRainbowFade
	ScenarioBusyIndicator
	ScenarioBreathingGreen
	ScenarioSiren
	ScenarioTrafficLight
	ScenarioBugIndicator
	scenarioCount
)

var scenarioNames = [scenarioCount]string{
	ScenarioOff:            "RingLedOff",
	ScenarioUserFrame:      "UserFrame",
	ScenarioColorWheel:     "ColorWheel",
	ScenarioRainbowFade:    "RainbowFade",
	ScenarioBusyIndicator:  "BusyRing",
	ScenarioBreathingGreen: "BreathingGreen",
	// Siren, TrafficLight, BugIndicator: reserved, no public name.
}

// ReadScenarioName returns the public name for a selectable scenario, or
// ("", false) for a reserved one or an out-of-range value.
func ReadScenarioName(s Scenario) (string, bool) {
	if s >= scenarioCount {
		return "", false
	}
	name := scenarioNames[s]
	return name, name != ""
}

// ScenarioCount is the total number of scenario slots, public and reserved.
func ScenarioCount() int { return int(scenarioCount) }

// Ring is the 12-pixel frame buffer a scenario writes into each tick.
type Ring [PixelCount]RGB

// Handler is a self-contained animation: Init/Deinit bracket the time the
// scenario is active, Update runs every tick while it is.
type Handler interface {
	Init(host HostState)
	Update(host HostState, ring *Ring)
	Deinit(host HostState)
}

// HostState is the borrowed read-only view into host-controlled state the
// engine and its scenarios need. Modeled as an explicit interface rather
// than package-level weak functions so the engine has no global state and
// can be unit tested (SPEC_FULL.md design note on weak symbols).
type HostState interface {
	RequestedScenario() Scenario
	MasterStatus() MasterStatus
	UserColors() Ring
	WaitForMasterStartup() bool
	ExpectedStartupTimeMillis() uint32
}

// PixelWriter pushes a rendered frame to the physical ring.
type PixelWriter interface {
	WriteLED(index int, c RGB)
}
