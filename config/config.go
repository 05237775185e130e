package config

import (
	_ "embed"
	"net/netip"
	"strings"
	"time"
)

// DefaultPublishInterval is how often cmd/bridge pushes a fleet-telemetry
// snapshot when publish_interval.text is empty.
const DefaultPublishInterval = 10 * time.Second

// Environment-specific configuration (must be provided via embedded text
// files so a per-unit build can override them without touching source).
var (
	//go:embed broker.text
	brokerAddr string

	//go:embed clientid.text
	clientID string
)

// Optional override for the default publish cadence (empty file = default).
var (
	//go:embed publish_interval.text
	publishIntervalOverride string
)

// BrokerAddr returns the fleet MQTT broker address from broker.text.
// Format: "host:port", e.g. "192.168.1.50:1883".
func BrokerAddr() (netip.AddrPort, error) {
	addr := strings.TrimSpace(brokerAddr)
	return netip.ParseAddrPort(addr)
}

// ClientID returns the MQTT client ID this unit identifies itself with,
// from clientid.text.
func ClientID() string {
	return strings.TrimSpace(clientID)
}

// PublishInterval returns how often cmd/bridge publishes a fleet-telemetry
// snapshot. Returns DefaultPublishInterval unless overridden via
// publish_interval.text.
func PublishInterval() time.Duration {
	if override := strings.TrimSpace(publishIntervalOverride); override != "" {
		if d, err := time.ParseDuration(override); err == nil {
			return d
		}
	}
	return DefaultPublishInterval
}
