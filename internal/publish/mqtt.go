// Package publish streams score events to an MQTT broker as JSON so
// external overlays and dashboards can follow a run live.
package publish

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/vovakirdan/speedrun-arcade/internal/config"
	"github.com/vovakirdan/speedrun-arcade/internal/scoring"
)

// ErrTimeout is returned when the broker does not acknowledge in time.
var ErrTimeout = errors.New("publish: timed out")

// Client is the part of mqtt.Client the publisher uses.
type Client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// EventMessage is the JSON payload of one score event.
type EventMessage struct {
	GameID     string  `json:"game_id"`
	Seq        int     `json:"seq"`
	Tick       int     `json:"tick"`
	Type       string  `json:"type"`
	BaseValue  int     `json:"base_value"`
	Multiplier float64 `json:"multiplier"`
	Points     int     `json:"points"`
}

// RunMessage is the JSON payload published when a run ends.
type RunMessage struct {
	GameID   string              `json:"game_id"`
	Score    int                 `json:"score"`
	MaxCombo int                 `json:"max_combo"`
	Ticks    int                 `json:"ticks"`
	Cleared  bool                `json:"cleared"`
	Tally    []scoring.TallyLine `json:"tally,omitempty"`
}

// Publisher sends score events for one session. It is safe for concurrent
// use; event sequence numbers follow publish order.
type Publisher struct {
	mu      sync.Mutex
	client  Client
	topic   string
	qos     byte
	timeout time.Duration
	logger  *log.Logger
	seq     int
}

// Dial connects to the configured broker.
func Dial(cfg config.PublishConfig, logger *log.Logger) (*Publisher, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("publish: no broker configured")
	}
	if logger == nil {
		logger = log.Default()
	}
	mqtt.ERROR = logger.StandardLog(log.StandardLogOptions{ForceLevel: log.ErrorLevel})

	options := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetAutoReconnect(true)
	client := mqtt.NewClient(options)

	p := New(client, cfg, logger)
	token := client.Connect()
	if !token.WaitTimeout(p.timeout) {
		return nil, fmt.Errorf("publish: connect to %s: %w", cfg.Broker, ErrTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("publish: connect to %s: %w", cfg.Broker, err)
	}

	logger.Info("connected to broker", "broker", cfg.Broker, "topic", cfg.Topic)
	return p, nil
}

// New wraps an already configured client.
func New(client Client, cfg config.PublishConfig, logger *log.Logger) *Publisher {
	if logger == nil {
		logger = log.Default()
	}
	timeout := time.Duration(cfg.TimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Publisher{
		client:  client,
		topic:   cfg.Topic,
		qos:     cfg.QoS,
		timeout: timeout,
		logger:  logger,
	}
}

// PublishEvent sends one score event to the events topic.
func (p *Publisher) PublishEvent(gameID string, e scoring.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	msg := EventMessage{
		GameID:     gameID,
		Seq:        p.seq,
		Tick:       e.Tick,
		Type:       string(e.Type),
		BaseValue:  e.BaseValue,
		Multiplier: e.Multiplier,
		Points:     e.Points,
	}
	if err := p.send(p.topic+"/events", msg); err != nil {
		return err
	}
	p.seq++
	return nil
}

// PublishRun sends the end-of-run summary, retained so late subscribers see
// the last result.
func (p *Publisher) PublishRun(msg RunMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.sendRetained(p.topic+"/runs", msg, true)
}

func (p *Publisher) send(topic string, v any) error {
	return p.sendRetained(topic, v, false)
}

func (p *Publisher) sendRetained(topic string, v any, retained bool) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("publish: encode: %w", err)
	}

	token := p.client.Publish(topic, p.qos, retained, payload)
	if !token.WaitTimeout(p.timeout) {
		return fmt.Errorf("publish: %s: %w", topic, ErrTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %s: %w", topic, err)
	}

	p.logger.Debug("published", "topic", topic, "bytes", len(payload))
	return nil
}

// Close disconnects from the broker, letting in-flight work finish.
func (p *Publisher) Close() {
	p.client.Disconnect(250)
}
