//go:build tinygo

// Command bridge is an optional companion image: it brings up WiFi on the
// CYW43439 radio and publishes periodic fleet-telemetry snapshots over MQTT,
// while the framed command transport (handled by cmd/firmware over UART)
// remains the robot's only inbound control path.
package main

import (
	"log/slog"
	"machine"

	"github.com/STEAM-Academy-PRO/revolution-robotics-robot-mind-sub001/config"
	"github.com/STEAM-Academy-PRO/revolution-robotics-robot-mind-sub001/credentials"
	"github.com/STEAM-Academy-PRO/revolution-robotics-robot-mind-sub001/internal/bridge"
	"github.com/STEAM-Academy-PRO/revolution-robotics-robot-mind-sub001/internal/ie"
	"github.com/STEAM-Academy-PRO/revolution-robotics-robot-mind-sub001/internal/mcc"
	"github.com/STEAM-Academy-PRO/revolution-robotics-robot-mind-sub001/telemetry"
)

func main() {
	logger := telemetry.NewLogger(machine.Serial)

	brokerAddr, err := config.BrokerAddr()
	if err != nil {
		logger.Error("bridge:config-broker-invalid", slog.String("err", err.Error()))
		return
	}

	cfg := bridge.Config{
		SSID:     credentials.SSID(),
		Password: credentials.Password(),
		Hostname: "robot-mind",
		Broker:   brokerAddr,
		ClientID: config.ClientID(),
		Topic:    "robot-mind/telemetry",
	}

	pub, err := bridge.NewPublisher(cfg, logger)
	if err != nil {
		logger.Error("bridge:wifi-setup-failed", slog.String("err", err.Error()))
		return
	}
	go pub.PumpStack()

	ports := mcc.NewPortTable(mcc.DefaultPortCount)
	engine := ie.NewEngine()
	snap := bridge.FleetSnapshot{Ports: ports, Engine: engine}

	pub.Run(config.PublishInterval(), snap)
}
