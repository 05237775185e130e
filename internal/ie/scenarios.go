package ie

import "math"

// offHandler renders every pixel black.
type offHandler struct{}

func (offHandler) Init(HostState)   {}
func (offHandler) Deinit(HostState) {}
func (offHandler) Update(_ HostState, ring *Ring) {
	for i := range ring {
		ring[i] = RGB{}
	}
}

// userFrameHandler mirrors the host-provided 12-color frame verbatim.
type userFrameHandler struct{}

func (userFrameHandler) Init(HostState)   {}
func (userFrameHandler) Deinit(HostState) {}
func (userFrameHandler) Update(host HostState, ring *Ring) {
	*ring = host.UserColors()
}

// colorWheelHandler rotates a rainbow gradient around the ring.
type colorWheelHandler struct {
	baseHue uint16
}

func (h *colorWheelHandler) Init(HostState)   { h.baseHue = 0 }
func (h *colorWheelHandler) Deinit(HostState) {}
func (h *colorWheelHandler) Update(_ HostState, ring *Ring) {
	for i := range ring {
		hue := (uint32(h.baseHue) + uint32(i)*360/PixelCount) % 360
		ring[i] = HSVToRGB(HSV{H: uint16(hue), S: 100, V: 100})
	}
	h.baseHue = uint16((uint32(h.baseHue) + 2) % 360)
}

// rainbowFadeHandler sweeps all pixels through the same hue in unison.
type rainbowFadeHandler struct {
	hue uint16
}

func (h *rainbowFadeHandler) Init(HostState)   { h.hue = 0 }
func (h *rainbowFadeHandler) Deinit(HostState) {}
func (h *rainbowFadeHandler) Update(_ HostState, ring *Ring) {
	c := HSVToRGB(HSV{H: h.hue, S: 100, V: 100})
	for i := range ring {
		ring[i] = c
	}
	h.hue = uint16((uint32(h.hue) + 1) % 360)
}

// busyIndicatorHandler draws a 6-pixel comet rotating around the ring,
// the Master-Unknown override scenario.
type busyIndicatorHandler struct {
	base RGB
	head int
}

func newBusyIndicatorHandler(base RGB) *busyIndicatorHandler {
	return &busyIndicatorHandler{base: base}
}

func (h *busyIndicatorHandler) Init(HostState)   { h.head = 0 }
func (h *busyIndicatorHandler) Deinit(HostState) {}
func (h *busyIndicatorHandler) Update(_ HostState, ring *Ring) {
	const cometLen = 6
	for i := range ring {
		dist := (i - h.head + PixelCount) % PixelCount
		if dist < cometLen {
			factor := 1.0 - float32(dist)/float32(cometLen)
			ring[i] = Brightness(h.base, factor)
		} else {
			ring[i] = RGB{}
		}
	}
	h.head = (h.head + 1) % PixelCount
}

// breathingGreenHandler fades green sinusoidally.
type breathingGreenHandler struct {
	phase float32
}

func (h *breathingGreenHandler) Init(HostState)   { h.phase = 0 }
func (h *breathingGreenHandler) Deinit(HostState) {}
func (h *breathingGreenHandler) Update(_ HostState, ring *Ring) {
	brightness := (math.Sin(float64(h.phase)) + 1) / 2
	c := RGB{G: uint8(brightness * 255)}
	for i := range ring {
		ring[i] = c
	}
	h.phase += 0.05
	if h.phase > 2*math.Pi {
		h.phase -= float32(2 * math.Pi)
	}
}

// sirenHandler draws red and blue comets chasing from opposite sides.
type sirenHandler struct {
	head int
}

func (h *sirenHandler) Init(HostState)   { h.head = 0 }
func (h *sirenHandler) Deinit(HostState) {}
func (h *sirenHandler) Update(_ HostState, ring *Ring) {
	const cometLen = 3
	for i := range ring {
		redDist := (i - h.head + PixelCount) % PixelCount
		blueDist := (i - (h.head+PixelCount/2) + PixelCount) % PixelCount
		switch {
		case redDist < cometLen:
			ring[i] = Brightness(RGB{R: 255}, 1-float32(redDist)/float32(cometLen))
		case blueDist < cometLen:
			ring[i] = Brightness(RGB{B: 255}, 1-float32(blueDist)/float32(cometLen))
		default:
			ring[i] = RGB{}
		}
	}
	h.head = (h.head + 1) % PixelCount
}

// trafficLightHandler cycles 3s red / 1s amber / 3s green / 1s amber.
type trafficLightHandler struct {
	elapsed uint32
}

const (
	trafficRedMillis    = 3000
	trafficAmberMillis  = 1000
	trafficGreenMillis  = 3000
	trafficCycleMillis  = trafficRedMillis + trafficAmberMillis + trafficGreenMillis + trafficAmberMillis
)

func (h *trafficLightHandler) Init(HostState)   { h.elapsed = 0 }
func (h *trafficLightHandler) Deinit(HostState) {}
func (h *trafficLightHandler) Update(_ HostState, ring *Ring) {
	t := h.elapsed % trafficCycleMillis
	var c RGB
	switch {
	case t < trafficRedMillis:
		c = RGB{R: 255}
	case t < trafficRedMillis+trafficAmberMillis:
		c = RGB{R: 255, G: 191}
	case t < trafficRedMillis+trafficAmberMillis+trafficGreenMillis:
		c = RGB{G: 255}
	default:
		c = RGB{R: 255, G: 191}
	}
	for i := range ring {
		ring[i] = c
	}
	h.elapsed += TickMillis
}

// bugIndicatorHandler alternates an all-red flash with an all-amber flash
// every 200ms.
type bugIndicatorHandler struct {
	elapsed uint32
}

func (h *bugIndicatorHandler) Init(HostState)   { h.elapsed = 0 }
func (h *bugIndicatorHandler) Deinit(HostState) {}
func (h *bugIndicatorHandler) Update(_ HostState, ring *Ring) {
	const period = 200
	on := (h.elapsed/period)%2 == 0
	var c RGB
	if on {
		c = RGB{R: 255}
	} else {
		c = RGB{R: 255, G: 191}
	}
	for i := range ring {
		ring[i] = c
	}
	h.elapsed += TickMillis
}

// startupIndicatorHandler is the rotating-yellow animation shown while the
// host has not yet signalled readiness.
type startupIndicatorHandler struct {
	head int
}

func (h *startupIndicatorHandler) Init(HostState)   { h.head = 0 }
func (h *startupIndicatorHandler) Deinit(HostState) {}
func (h *startupIndicatorHandler) Update(_ HostState, ring *Ring) {
	const cometLen = 4
	for i := range ring {
		dist := (i - h.head + PixelCount) % PixelCount
		if dist < cometLen {
			ring[i] = Brightness(RGB{R: 255, G: 191}, 1-float32(dist)/float32(cometLen))
		} else {
			ring[i] = RGB{}
		}
	}
	h.head = (h.head + 1) % PixelCount
}

// faultHandler shows a solid red ring: boot found no valid application, or
// the last boot was a watchdog reset.
type faultHandler struct{}

func (faultHandler) Init(HostState)   {}
func (faultHandler) Deinit(HostState) {}
func (faultHandler) Update(_ HostState, ring *Ring) {
	for i := range ring {
		ring[i] = RGB{R: 255}
	}
}

// NewFaultHandler builds the boot-fault indicator (spec.md §7 "LED ring
// shows red pixel(s) when boot finds no valid app").
func NewFaultHandler() Handler { return faultHandler{} }

// newDefaultHandlers builds the registry of publicly selectable and
// reserved scenarios, indexed by Scenario.
func newDefaultHandlers() [scenarioCount]Handler {
	return [scenarioCount]Handler{
		ScenarioOff:            offHandler{},
		ScenarioUserFrame:      userFrameHandler{},
		ScenarioColorWheel:     &colorWheelHandler{},
		ScenarioRainbowFade:    &rainbowFadeHandler{},
		ScenarioBusyIndicator:  newBusyIndicatorHandler(RGB{R: 0, G: 128, B: 255}),
		ScenarioBreathingGreen: &breathingGreenHandler{},
		ScenarioSiren:          &sirenHandler{},
		ScenarioTrafficLight:   &trafficLightHandler{},
		ScenarioBugIndicator:   &bugIndicatorHandler{},
	}
}
