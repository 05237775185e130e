package ie

// Engine is the top-level ring-LED scheduler: it owns the scenario
// registry and advances whichever scenario is active, handling the
// startup-animation window and the master-status override.
type Engine struct {
	handlers [scenarioCount]Handler
	startup  Handler

	current          Scenario
	currentHandler   Handler
	timeSinceStartup uint32
	masterReady      bool
	forceTransition  bool

	ring Ring
}

// NewEngine builds an engine with the default scenario registry.
func NewEngine() *Engine {
	return &Engine{
		handlers: newDefaultHandlers(),
		startup:  &startupIndicatorHandler{},
	}
}

// OnInit decides whether to show the startup animation or jump straight to
// the host-requested scenario, and initializes whichever one is chosen.
func (e *Engine) OnInit(host HostState) {
	e.masterReady = !host.WaitForMasterStartup()
	e.timeSinceStartup = 0

	if !e.masterReady {
		e.currentHandler = e.startup
	} else {
		e.current = host.RequestedScenario()
		e.currentHandler = e.handlers[e.current]
	}
	e.currentHandler.Init(host)
}

// OnMasterStarted signals host readiness, ending the startup animation
// early even if its time budget has not yet expired.
func (e *Engine) OnMasterStarted() {
	if e.currentHandler == e.startup {
		e.forceTransition = true
	}
	e.masterReady = true
}

// Update advances the engine by one 20ms tick and renders into ring,
// pushing each pixel to writer.
func (e *Engine) Update(host HostState, writer PixelWriter) {
	requested := host.RequestedScenario()

	displayStartup := !e.masterReady && e.timeSinceStartup < host.ExpectedStartupTimeMillis()
	if displayStartup {
		e.timeSinceStartup += TickMillis
		if e.timeSinceStartup >= host.ExpectedStartupTimeMillis() {
			displayStartup = false
			e.forceTransition = true
		}
	}

	if !displayStartup {
		if host.MasterStatus() == MasterStatusUnknown {
			requested = ScenarioBusyIndicator
		}
		if e.current != requested || e.forceTransition {
			e.currentHandler.Deinit(host)
			e.current = requested
			e.currentHandler = e.handlers[requested]
			e.currentHandler.Init(host)
			e.forceTransition = false
		}
	}

	e.currentHandler.Update(host, &e.ring)

	for i, c := range e.ring {
		writer.WriteLED(i, c)
	}
}

// CurrentScenario reports the scenario currently driving the ring (not
// meaningful while the startup animation is showing).
func (e *Engine) CurrentScenario() Scenario { return e.current }
