package runtime

import (
	"encoding/binary"

	"github.com/STEAM-Academy-PRO/revolution-robotics-robot-mind-sub001/internal/fct"
	"github.com/STEAM-Academy-PRO/revolution-robotics-robot-mind-sub001/internal/fim"
	"github.com/STEAM-Academy-PRO/revolution-robotics-robot-mind-sub001/internal/ie"
	"github.com/STEAM-Academy-PRO/revolution-robotics-robot-mind-sub001/internal/mcc"
)

// Bootloader command IDs, spec.md §6.
const (
	CmdGetHardwareVersion = 0x01
	CmdGetOperationMode    = 0x06
	CmdReadApplicationCRC  = 0x07
	CmdInitializeUpdate    = 0x08
	CmdProgramApplication  = 0x09
	CmdFinalizeUpdate      = 0x0A
)

// Application command IDs, SPEC_FULL.md §6.
const (
	CmdConfigureMotorPort  = 0x20
	CmdSetDriveRequest     = 0x21
	CmdReadMotorStatus     = 0x22
	CmdRebootToBootloader  = 0x23
	CmdSetRingScenario     = 0x30
	CmdSetUserFrame        = 0x31
	CmdReadScenarioName    = 0x32
	CmdSetMasterStatus     = 0x33
	CmdNotifyMasterStarted = 0x34
)

const (
	operationModeBootloader = 0xBB
	operationModeApplication = 0xAA
)

// handlerTable is sized to cover every command ID used by either image;
// each image's Runtime registers only the subset it implements, leaving
// the rest as zero-value Handlers (fct.Dispatcher answers a command whose
// Start is nil with UnknownCommand).
const handlerTableSize = 0x35

// BootloaderHandlers builds the command table the bootloader image
// registers with its Dispatcher: hardware version, operation mode, CRC
// read, and the three-phase image-install sequence.
func BootloaderHandlers(mgr *fim.Manager, hwVersion string) []fct.Handler {
	handlers := make([]fct.Handler, handlerTableSize)

	handlers[CmdGetHardwareVersion] = fct.Handler{
		Start: func(_ []byte, resp []byte) (uint8, fct.Status) {
			n := copy(resp, hwVersion)
			return uint8(n), fct.StatusOk
		},
	}

	handlers[CmdGetOperationMode] = fct.Handler{
		Start: func(_ []byte, resp []byte) (uint8, fct.Status) {
			resp[0] = operationModeBootloader
			return 1, fct.StatusOk
		},
	}

	handlers[CmdReadApplicationCRC] = fct.Handler{
		Start: func(_ []byte, resp []byte) (uint8, fct.Status) {
			ok, err := mgr.CheckTargetFirmware(false, 0)
			if err != nil || !ok {
				return 0, fct.StatusCommandError
			}
			h, err := mgr.ReadHeader()
			if err != nil {
				return 0, fct.StatusCommandError
			}
			binary.LittleEndian.PutUint32(resp, h.TargetChecksum)
			return 4, fct.StatusOk
		},
	}

	handlers[CmdInitializeUpdate] = fct.Handler{
		Start: func(payload []byte, _ []byte) (uint8, fct.Status) {
			if len(payload) != 8 {
				return 0, fct.StatusPayloadLengthError
			}
			size := binary.LittleEndian.Uint32(payload[0:4])
			crc := binary.LittleEndian.Uint32(payload[4:8])
			if err := mgr.InitializeUpdate(size, crc); err != nil {
				return 0, fct.StatusCommandError
			}
			return 0, fct.StatusOk
		},
	}

	handlers[CmdProgramApplication] = fct.Handler{
		Start: func(payload []byte, _ []byte) (uint8, fct.Status) {
			if err := mgr.WriteChunk(payload); err != nil {
				return 0, fct.StatusCommandError
			}
			return 0, fct.StatusOk
		},
	}

	handlers[CmdFinalizeUpdate] = fct.Handler{
		Start: func(_ []byte, _ []byte) (uint8, fct.Status) {
			if err := mgr.Finalize(); err != nil {
				return 0, fct.StatusCommandError
			}
			return 0, fct.StatusOk
		},
	}

	return handlers
}

// ApplicationHandlers builds the command table the application image
// registers: hardware version/operation-mode passthrough plus motor and
// ring-indication commands.
func ApplicationHandlers(ports *mcc.PortTable, engine *ie.Engine, host *HostStateHolder, hwVersion string, encoderDoubling int32, rebootToBootloader func()) []fct.Handler {
	handlers := make([]fct.Handler, handlerTableSize)

	handlers[CmdGetHardwareVersion] = fct.Handler{
		Start: func(_ []byte, resp []byte) (uint8, fct.Status) {
			n := copy(resp, hwVersion)
			return uint8(n), fct.StatusOk
		},
	}

	handlers[CmdGetOperationMode] = fct.Handler{
		Start: func(_ []byte, resp []byte) (uint8, fct.Status) {
			resp[0] = operationModeApplication
			return 1, fct.StatusOk
		},
	}

	handlers[CmdConfigureMotorPort] = fct.Handler{
		Start: func(payload []byte, _ []byte) (uint8, fct.Status) {
			if len(payload) < 1 {
				return 0, fct.StatusPayloadLengthError
			}
			portIdx := int(payload[0])
			cfg, err := mcc.ParseDcConfig(payload[1:], encoderDoubling)
			if err != nil {
				return 0, fct.StatusCommandError
			}
			p := ports.Port(portIdx)
			if p == nil {
				return 0, fct.StatusCommandError
			}
			p.LoadDc(cfg, int32(cfg.EncoderSlits*float32(encoderDoubling)))
			return 0, fct.StatusOk
		},
	}

	handlers[CmdSetDriveRequest] = fct.Handler{
		Start: func(payload []byte, _ []byte) (uint8, fct.Status) {
			if len(payload) < 1 {
				return 0, fct.StatusPayloadLengthError
			}
			portIdx := int(payload[0])
			p := ports.Port(portIdx)
			if p == nil || p.Kind != mcc.LibraryDc {
				return 0, fct.StatusCommandError
			}
			dc := p.DC()
			req, err := mcc.ParseDriveCommand(payload[1:], host.NextDriveVersion(portIdx), dc.PositionTicks(), dc.TicksPerDegree())
			if err != nil {
				return 0, fct.StatusCommandError
			}
			if !ports.SetDriveRequest(portIdx, req) {
				return 0, fct.StatusCommandError
			}
			return 0, fct.StatusOk
		},
	}

	handlers[CmdReadMotorStatus] = fct.Handler{
		Start: func(payload []byte, resp []byte) (uint8, fct.Status) {
			if len(payload) < 1 {
				return 0, fct.StatusPayloadLengthError
			}
			p := ports.Port(int(payload[0]))
			if p == nil {
				return 0, fct.StatusCommandError
			}
			status := p.StatusBytes()
			n := copy(resp, status[:])
			return uint8(n), fct.StatusOk
		},
	}

	handlers[CmdRebootToBootloader] = fct.Handler{
		Start: func(_ []byte, _ []byte) (uint8, fct.Status) {
			if rebootToBootloader != nil {
				rebootToBootloader()
			}
			return 0, fct.StatusOk
		},
	}

	handlers[CmdSetRingScenario] = fct.Handler{
		Start: func(payload []byte, _ []byte) (uint8, fct.Status) {
			if len(payload) != 1 {
				return 0, fct.StatusPayloadLengthError
			}
			host.SetRequestedScenario(ie.Scenario(payload[0]))
			return 0, fct.StatusOk
		},
	}

	handlers[CmdSetUserFrame] = fct.Handler{
		Start: func(payload []byte, _ []byte) (uint8, fct.Status) {
			if len(payload) != ie.PixelCount*3 {
				return 0, fct.StatusPayloadLengthError
			}
			var ring ie.Ring
			for i := 0; i < ie.PixelCount; i++ {
				ring[i] = ie.RGB{R: payload[i*3], G: payload[i*3+1], B: payload[i*3+2]}
			}
			host.SetUserColors(ring)
			return 0, fct.StatusOk
		},
	}

	handlers[CmdReadScenarioName] = fct.Handler{
		Start: func(payload []byte, resp []byte) (uint8, fct.Status) {
			if len(payload) != 1 {
				return 0, fct.StatusPayloadLengthError
			}
			name, ok := ie.ReadScenarioName(ie.Scenario(payload[0]))
			if !ok {
				return 0, fct.StatusCommandError
			}
			n := copy(resp, name)
			return uint8(n), fct.StatusOk
		},
	}

	handlers[CmdSetMasterStatus] = fct.Handler{
		Start: func(payload []byte, _ []byte) (uint8, fct.Status) {
			if len(payload) != 1 {
				return 0, fct.StatusPayloadLengthError
			}
			host.SetMasterStatus(ie.MasterStatus(payload[0]))
			return 0, fct.StatusOk
		},
	}

	handlers[CmdNotifyMasterStarted] = fct.Handler{
		Start: func(_ []byte, _ []byte) (uint8, fct.Status) {
			engine.OnMasterStarted()
			host.SetMasterStarted()
			return 0, fct.StatusOk
		},
	}

	return handlers
}
