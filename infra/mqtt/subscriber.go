// Package mqtt feeds live station availability updates from an MQTT broker
// into the station registry.
package mqtt

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/evnav/evnav/infra/logger"
)

// DefaultTopic is the broker topic carrying availability updates.
const DefaultTopic = "evnav/stations/availability"

// Config defines the connection parameters for the Paho MQTT client.
type Config struct {
	Enabled    bool        `json:"enabled"`
	Broker     string      `json:"broker"`
	ClientID   string      `json:"client_id"`
	Username   string      `json:"username"`
	Password   string      `json:"password"`
	Topic      string      `json:"topic"`
	QoS        byte        `json:"qos"`
	UseTLS     bool        `json:"use_tls"`
	ClientCert string      `json:"client_cert"`
	ClientKey  string      `json:"client_key"`
	CABundle   string      `json:"ca_bundle"`
	AuthMethod string      `json:"auth_method"`
	TLSConfig  *tls.Config `json:"-"`
}

// AvailabilityApplier absorbs slot-count updates, typically the station
// registry.
type AvailabilityApplier interface {
	ApplyAvailability(id string, available int) error
}

// availabilityUpdate is the wire format of one broker message.
type availabilityUpdate struct {
	StationID      string `json:"station_id"`
	AvailableSlots int    `json:"available_slots"`
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Subscribe(topic string, qos byte, callback paho.MessageHandler) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// Subscriber maintains the broker subscription and routes updates into the
// applier.
type Subscriber struct {
	cli     pahoClient
	topic   string
	qos     byte
	applier AvailabilityApplier
	logger  logger.Logger
}

// NewSubscriber connects to the broker and subscribes to the availability
// topic. The subscription is re-established on every reconnect.
func NewSubscriber(cfg Config, applier AvailabilityApplier) (*Subscriber, error) {
	if applier == nil {
		return nil, fmt.Errorf("mqtt: applier is required")
	}
	if cfg.Topic == "" {
		cfg.Topic = DefaultTopic
	}
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}

	log := logger.New("mqtt_availability")
	s := &Subscriber{topic: cfg.Topic, qos: cfg.QoS, applier: applier, logger: log}

	opts.OnConnect = func(c paho.Client) {
		log.Infof("MQTT connected")
		if token := c.Subscribe(s.topic, s.qos, s.onUpdate); token.Wait() && token.Error() != nil {
			log.Errorf("subscribe error: %v", token.Error())
		}
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}
	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	s.cli = c
	return s, nil
}

// NewClientOptions builds mqtt client options from Config.
func NewClientOptions(cfg Config) (*paho.ClientOptions, error) {
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.AuthMethod == "username_password" || cfg.AuthMethod == "both" || cfg.AuthMethod == "" {
		if cfg.Username != "" {
			opts.SetUsername(cfg.Username)
		}
		if cfg.Password != "" {
			opts.SetPassword(cfg.Password)
		}
	}
	if cfg.UseTLS {
		tlsCfg, err := cfg.LoadTLSConfig()
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}
	return opts, nil
}

// LoadTLSConfig loads the TLS configuration from the file paths in the config.
func (c Config) LoadTLSConfig() (*tls.Config, error) {
	if c.TLSConfig != nil {
		return c.TLSConfig, nil
	}
	if c.ClientCert == "" || c.ClientKey == "" || c.CABundle == "" {
		return nil, fmt.Errorf("tls config requires client_cert, client_key and ca_bundle")
	}
	cert, err := tls.LoadX509KeyPair(c.ClientCert, c.ClientKey)
	if err != nil {
		return nil, fmt.Errorf("load cert: %w", err)
	}
	caBytes, err := os.ReadFile(c.CABundle)
	if err != nil {
		return nil, fmt.Errorf("read ca: %w", err)
	}
	pool := x509.NewCertPool()
	pool.AppendCertsFromPEM(caBytes)
	cfg := &tls.Config{Certificates: []tls.Certificate{cert}, RootCAs: pool, MinVersion: tls.VersionTLS12}
	return cfg, nil
}

func (s *Subscriber) onUpdate(_ paho.Client, msg paho.Message) {
	var u availabilityUpdate
	if err := json.Unmarshal(msg.Payload(), &u); err != nil {
		s.logger.Errorf("failed to decode availability update: %v", err)
		return
	}
	if u.StationID == "" {
		s.logger.Errorf("availability update without station_id")
		return
	}
	if err := s.applier.ApplyAvailability(u.StationID, u.AvailableSlots); err != nil {
		s.logger.Warnf("availability update rejected: %v", err)
		return
	}
	s.logger.Debugf("station %s availability set to %d", u.StationID, u.AvailableSlots)
}

// Disconnect gracefully closes the MQTT connection.
func (s *Subscriber) Disconnect() {
	if s.cli != nil && s.cli.IsConnected() {
		s.cli.Disconnect(250)
	}
}
