package fct

// Handler is the triple of callbacks registered for one command ID.
// GetResult and Cancel may be nil; Start must not be.
type Handler struct {
	// Start executes (or begins) the command. payload is the request body;
	// resp is the writable response payload buffer. Returns the number of
	// bytes written to resp and the resulting status.
	Start func(payload []byte, resp []byte) (n uint8, status Status)
	// GetResult continues/polls an asynchronous command. nil means the
	// command never returns Pending.
	GetResult func(resp []byte) (n uint8, status Status)
	// Cancel aborts any in-flight work for this command. Must be
	// idempotent and non-blocking. nil means cancellation is a no-op.
	Cancel func()
}

// Dispatcher routes frames to a fixed-size handler table and renders
// responses into a single shared Response buffer.
type Dispatcher struct {
	handlers []Handler
}

// NewDispatcher builds a dispatcher over a fixed-size command table. A zero
// Handler (nil Start) at any index means that command ID is unimplemented.
//
// Re-registering a table cancels every handler in the table being replaced,
// matching Comm_Init's behavior of not leaving abandoned async work
// running under stale state.
func NewDispatcher(handlers []Handler) *Dispatcher {
	return &Dispatcher{handlers: handlers}
}

// Replace swaps in a new handler table, first cancelling every handler in
// the old one.
func (d *Dispatcher) Replace(handlers []Handler) {
	for _, h := range d.handlers {
		if h.Cancel != nil {
			h.Cancel()
		}
	}
	d.handlers = handlers
}

func (d *Dispatcher) lookup(id uint8) (Handler, bool) {
	if int(id) >= len(d.handlers) {
		return Handler{}, false
	}
	h := d.handlers[id]
	if h.Start == nil {
		return Handler{}, false
	}
	return h, true
}

func (d *Dispatcher) handleCancel(h Handler) Status {
	if h.Cancel != nil {
		h.Cancel()
	}
	return StatusOk
}

func (d *Dispatcher) handleGetResult(h Handler, resp []byte) (uint8, Status) {
	if h.GetResult == nil {
		return 0, StatusInternalError
	}
	return h.GetResult(resp)
}

func (d *Dispatcher) handleStart(h Handler, payload, resp []byte) (uint8, Status) {
	n, status := h.Start(payload, resp)
	if status == StatusPending {
		return d.handleGetResult(h, resp)
	}
	return n, status
}

// Handle validates, dispatches, and renders a complete response for one
// incoming buffer. It never panics: any handler failure becomes a Status.
func (d *Dispatcher) Handle(buf []byte, response *Response) {
	response.Reset()

	cmd, parsed := ParseCommand(buf)
	if !parsed {
		response.SetHeader(StatusPayloadLengthError, 0)
		response.Protect()
		return
	}
	if !LengthValid(len(buf), cmd) {
		response.SetHeader(StatusPayloadLengthError, 0)
		response.Protect()
		return
	}
	if !cmd.HeaderValid() {
		response.SetHeader(StatusCommandIntegrityError, 0)
		response.Protect()
		return
	}
	if !cmd.PayloadValid() {
		response.SetHeader(StatusPayloadIntegrityError, 0)
		response.Protect()
		return
	}

	h, ok := d.lookup(cmd.CommandID)
	if !ok {
		response.SetHeader(StatusUnknownCommand, 0)
		response.Protect()
		return
	}

	payloadBuf := response.PayloadBuf()
	var n uint8
	var status Status

	switch cmd.Operation {
	case OpStart:
		n, status = d.handleStart(h, cmd.Payload, payloadBuf)
	case OpGetResult:
		n, status = d.handleGetResult(h, payloadBuf)
	case OpCancel:
		status = d.handleCancel(h)
	case OpRestart:
		d.handleCancel(h)
		n, status = d.handleStart(h, cmd.Payload, payloadBuf)
	default:
		status = StatusUnknownOperation
	}

	if int(n) > len(payloadBuf) {
		status = StatusInternalError
		n = 0
	}
	if !status.MayCarryPayload() {
		n = 0
	}

	response.SetHeader(status, n)
	response.Protect()
}
