//go:build tinygo

// Package bridge brings up WiFi on the RP2350's CYW43439 radio and publishes
// periodic fleet-telemetry snapshots (motor status, active indication
// scenario) to an MQTT broker, as an optional companion to the wired framed
// transport cmd/firmware and cmd/bootloader speak over UART. It is grounded
// directly on the WiFi/DHCP bring-up and MQTT publish sequence the original
// firmware used for its schedule-refresh channel.
package bridge

import (
	"log/slog"
	"net/netip"
	"time"

	"github.com/soypat/cyw43439"
	"github.com/soypat/cyw43439/examples/cywnet"
	"github.com/soypat/lneto/tcp"
	"github.com/soypat/lneto/x/xnet"
	mqtt "github.com/soypat/natiu-mqtt"

	"github.com/STEAM-Academy-PRO/revolution-robotics-robot-mind-sub001/telemetry"
)

const (
	dialTimeout   = 10 * time.Second
	dialRetries   = 3
	tcpBufSize    = 2030
	mqttUserSize  = 512
	pollInterval  = 5 * time.Millisecond
	watchdogEvery = 100
)

// Config carries the WiFi and broker settings a fleet deployment supplies;
// Hostname and the MQTT topic are fixed per robot role.
type Config struct {
	SSID     string
	Password string
	Hostname string
	Broker   netip.AddrPort
	ClientID string
	Topic    string
}

// Snapshot is the fleet-telemetry payload a caller (cmd/bridge) refreshes
// every publish tick; Encode renders it into buf and returns the slice to
// publish.
type Snapshot interface {
	Encode(buf []byte) []byte
}

// Publisher owns the WiFi stack and a single long-lived MQTT connection used
// to push Snapshot payloads to Config.Topic at a fixed interval. It never
// subscribes; the framed command transport remains the only inbound control
// path.
type Publisher struct {
	cfg    Config
	logger *slog.Logger
	stack  *cywnet.Stack

	tcpRxBuf    [tcpBufSize]byte
	tcpTxBuf    [tcpBufSize]byte
	mqttUserBuf [mqttUserSize]byte
	pubFlags    mqtt.PublishFlags
}

// NewPublisher configures WiFi and DHCP and returns a Publisher ready to
// serve Run. It blocks until the link is up.
func NewPublisher(cfg Config, logger *slog.Logger) (*Publisher, error) {
	devcfg := cyw43439.DefaultWifiConfig()
	devcfg.Logger = logger

	stack, err := cywnet.NewConfiguredPicoWithStack(
		cfg.SSID,
		cfg.Password,
		devcfg,
		cywnet.StackConfig{
			Hostname:    cfg.Hostname,
			MaxTCPPorts: 1,
		},
	)
	if err != nil {
		return nil, err
	}

	if _, err := stack.SetupWithDHCP(cywnet.DHCPConfig{}); err != nil {
		return nil, err
	}

	pubFlags, err := mqtt.NewPublishFlags(mqtt.QoS0, false, false)
	if err != nil {
		return nil, err
	}

	return &Publisher{cfg: cfg, logger: logger, stack: stack, pubFlags: pubFlags}, nil
}

// PumpStack drives the WiFi/TCP stack's send/receive loop; callers run it in
// its own goroutine for the lifetime of the process, mirroring the original
// firmware's background network pump.
func (p *Publisher) PumpStack() {
	var count int
	for {
		send, recv, _ := p.stack.RecvAndSend()
		if send == 0 && recv == 0 {
			time.Sleep(pollInterval)
		}
		count++
		if count >= watchdogEvery {
			count = 0
		}
	}
}

// PublishOnce dials the broker, publishes one Snapshot, and tears the
// connection down; Run calls this on every tick rather than holding a
// connection open, so a dropped link self-heals on the next tick.
func (p *Publisher) PublishOnce(snap Snapshot) (err error) {
	lnetoStack := p.stack.LnetoStack()
	spanIdx := telemetry.StartSpan(lnetoStack, "bridge.publish")
	defer func() { telemetry.EndSpan(spanIdx, err == nil) }()

	rstack := lnetoStack.StackRetrying(5 * time.Millisecond)

	var conn tcp.Conn
	if err := conn.Configure(tcp.ConnConfig{
		RxBuf:             p.tcpRxBuf[:],
		TxBuf:             p.tcpTxBuf[:],
		TxPacketQueueSize: 3,
	}); err != nil {
		return err
	}

	cfg := mqtt.ClientConfig{
		Decoder: mqtt.DecoderNoAlloc{UserBuffer: p.mqttUserBuf[:]},
	}
	client := mqtt.NewClient(cfg)

	var varconn mqtt.VariablesConnect
	varconn.SetDefaultMQTT([]byte(p.cfg.ClientID))

	lport := uint16(lnetoStack.Prand32()>>17) + 1024
	if err := rstack.DoDialTCP(&conn, lport, p.cfg.Broker, dialTimeout, dialRetries); err != nil {
		p.closeConn(&conn, lnetoStack)
		return err
	}

	conn.SetDeadline(time.Now().Add(dialTimeout))
	if err := client.StartConnect(&conn, &varconn); err != nil {
		p.closeConn(&conn, lnetoStack)
		return err
	}

	for retries := 50; retries > 0 && !client.IsConnected(); retries-- {
		time.Sleep(100 * time.Millisecond)
		if err := client.HandleNext(); err != nil {
			p.logger.Warn("bridge:handle-next", slog.String("err", err.Error()))
		}
	}
	if !client.IsConnected() {
		p.closeConn(&conn, lnetoStack)
		return errConnectTimeout
	}

	var payload [160]byte
	body := snap.Encode(payload[:])

	conn.SetDeadline(time.Now().Add(dialTimeout))
	pubVar := mqtt.VariablesPublish{
		TopicName:        []byte(p.cfg.Topic),
		PacketIdentifier: uint16(lnetoStack.Prand32()),
	}
	err = client.PublishPayload(p.pubFlags, pubVar, body)

	client.Disconnect(errDisconnectDone)
	p.closeConn(&conn, lnetoStack)
	return err
}

func (p *Publisher) closeConn(conn *tcp.Conn, stack *xnet.StackAsync) {
	conn.Close()
	for i := 0; i < 50 && !conn.State().IsClosed(); i++ {
		time.Sleep(100 * time.Millisecond)
	}
	conn.Abort()
	stack.DiscardResolveHardwareAddress6(p.cfg.Broker.Addr())
}

// Run publishes snap at the given interval until the process exits. Publish
// failures are logged and retried on the next tick rather than treated as
// fatal, matching the original firmware's non-fatal MQTT failure handling.
func (p *Publisher) Run(interval time.Duration, snap Snapshot) {
	for {
		if err := p.PublishOnce(snap); err != nil {
			p.logger.Warn("bridge:publish-failed", slog.String("err", err.Error()))
		}
		time.Sleep(interval)
	}
}
