package mcc

// PIDConfig holds the tunable gains and output clamp for one controller.
type PIDConfig struct {
	P, I, D    float32
	LowerLimit float32
	UpperLimit float32
}

// PID is a position-form controller with output-clamped anti-windup and
// derivative-on-measurement (avoiding derivative kick on reference steps).
// The integral term accumulates onto the previous clamped output rather
// than a separate running sum, so saturating the output also halts further
// integral wind-up.
type PID struct {
	Config PIDConfig

	previousOutput   float32
	previousFeedback float32
	previousError    float32
	initialized      bool
}

// NewPID builds a controller with the given configuration.
func NewPID(cfg PIDConfig) PID {
	return PID{Config: cfg}
}

// Reset clears accumulated state without changing the configuration. Call
// whenever the reference kind changes to avoid a stale integral/derivative
// term bleeding into a new control mode.
func (c *PID) Reset() {
	c.previousOutput = 0
	c.previousFeedback = 0
	c.previousError = 0
	c.initialized = false
}

func constrainF32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Update advances the controller by one tick given a new reference and
// measured feedback, returning the clamped control output.
func (c *PID) Update(reference, feedback float32) float32 {
	err := reference - feedback

	var derivative float32
	if c.initialized {
		derivative = feedback - c.previousFeedback
	}

	output := c.previousOutput + c.Config.P*err + c.Config.I*err - c.Config.D*derivative
	output = constrainF32(output, c.Config.LowerLimit, c.Config.UpperLimit)

	c.previousOutput = output
	c.previousFeedback = feedback
	c.previousError = err
	c.initialized = true

	return output
}

// AtLimit reports whether the last output saturated either clamp, the
// condition MCC's stall detector watches for.
func (c *PID) AtLimit() bool {
	return c.previousOutput <= c.Config.LowerLimit || c.previousOutput >= c.Config.UpperLimit
}
