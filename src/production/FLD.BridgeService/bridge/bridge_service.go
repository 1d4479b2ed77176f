package bridge

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.BridgeService/client"
	config "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.Config"
	logger "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.Logger"
	api_models "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.Models/api"
)

// Bridge subscribes to a broker topic and forwards each published reading to
// the HTTP ingestion endpoint. It is transport sugar for brokered devices:
// everything still passes through the same bearer-token guard and ingestion
// pipeline as a direct upload.
type Bridge struct {
	cfg        *config.BridgeConfig
	apiClient  *client.APIClient
	mqttClient mqtt.Client
	msgCh      chan api_models.SensorDataRequest
	wg         sync.WaitGroup
	logger     *logger.Logger
}

func New(cfg *config.BridgeConfig, apiClient *client.APIClient, logger *logger.Logger) *Bridge {
	return &Bridge{
		cfg:       cfg,
		apiClient: apiClient,
		msgCh:     make(chan api_models.SensorDataRequest, 4096),
		logger:    logger.WithComponent("bridge"),
	}
}

func (b *Bridge) Start(ctx context.Context) error {
	opts := mqtt.NewClientOptions().
		AddBroker(b.cfg.GetMQTTBrokerURL()).
		SetClientID(b.cfg.MQTT.ClientID).
		SetOrderMatters(false).
		SetKeepAlive(b.cfg.MQTT.KeepAlive).
		SetPingTimeout(b.cfg.MQTT.PingTimeout).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetCleanSession(false)

	if b.cfg.MQTT.BrokerUser != "" {
		opts.SetUsername(b.cfg.MQTT.BrokerUser)
		opts.SetPassword(b.cfg.MQTT.BrokerPass)
	}

	if b.cfg.MQTT.UseTLS {
		tlsCfg, err := b.tlsConfig(b.cfg.MQTT.CACertPath)
		if err != nil {
			return err
		}
		opts.SetTLSConfig(tlsCfg)
	}

	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		b.logger.Logger.Error().Err(err).Msg("MQTT connection lost")
	}
	opts.OnConnect = func(c mqtt.Client) {
		topic := b.cfg.MQTT.Topic
		if b.cfg.MQTT.SharedGroup != "" {
			topic = fmt.Sprintf("$share/%s/%s", b.cfg.MQTT.SharedGroup, b.cfg.MQTT.Topic)
		}
		b.logger.Logger.Info().Str("topic", topic).Msg("MQTT connected, subscribing to topic")
		if token := c.Subscribe(topic, 1, b.onMessage); token.Wait() && token.Error() != nil {
			b.logger.Logger.Error().Err(token.Error()).Str("topic", topic).Msg("Failed to subscribe to MQTT topic")
		}
	}

	b.mqttClient = mqtt.NewClient(opts)
	if tk := b.mqttClient.Connect(); tk.Wait() && tk.Error() != nil {
		return tk.Error()
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.forwarder(ctx)
	}()

	return nil
}

func (b *Bridge) Stop() {
	if b.mqttClient != nil && b.mqttClient.IsConnected() {
		b.mqttClient.Disconnect(500)
	}
	close(b.msgCh)
	b.wg.Wait()
}

func (b *Bridge) IsConnected() bool {
	return b.mqttClient != nil && b.mqttClient.IsConnected()
}

func (b *Bridge) onMessage(_ mqtt.Client, m mqtt.Message) {
	b.logger.Logger.Debug().Str("topic", m.Topic()).Str("payload", string(m.Payload())).Msg("Received MQTT message")

	var reading api_models.SensorDataRequest
	if err := json.Unmarshal(m.Payload(), &reading); err != nil {
		b.logger.Logger.Warn().Err(err).Str("topic", m.Topic()).Msg("Dropping unparseable payload")
		return
	}

	// Expected topic format: machines/<machine_id>/readings. The topic
	// segment wins only when the payload carries no machine_id of its own.
	if reading.MachineID == "" {
		parts := strings.Split(m.Topic(), "/")
		if len(parts) >= 2 {
			reading.MachineID = parts[1]
		}
	}

	b.msgCh <- reading
}

// forwarder drains the message channel in batch windows and uploads each
// reading through the API client. The server derives commands per reading;
// the bridge has no device channel to deliver them to, so they are logged.
func (b *Bridge) forwarder(ctx context.Context) {
	batch := make([]api_models.SensorDataRequest, 0, b.cfg.BatchSize)
	timer := time.NewTimer(b.cfg.BatchWindow)
	defer timer.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		b.logger.Logger.Debug().Int("batch_size", len(batch)).Msg("Forwarding readings to API service")

		for _, reading := range batch {
			resp, err := b.apiClient.UploadReading(ctx, reading)
			if err != nil {
				b.logger.Logger.Error().Err(err).Str("machine_id", reading.MachineID).Msg("Failed to forward reading")
				continue
			}
			if resp.Command != api_models.CommandNone {
				b.logger.Logger.Info().Str("machine_id", reading.MachineID).Str("command", resp.Command).Msg("Command derived for brokered device")
			}
		}

		batch = batch[:0]
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			return
		case rd, ok := <-b.msgCh:
			if !ok {
				flush()
				return
			}
			batch = append(batch, rd)
			if len(batch) >= b.cfg.BatchSize {
				flush()
				if !timer.Stop() {
					<-timer.C
				}
				timer.Reset(b.cfg.BatchWindow)
			}
		case <-timer.C:
			flush()
			timer.Reset(b.cfg.BatchWindow)
		}
	}
}

func (b *Bridge) tlsConfig(caPath string) (*tls.Config, error) {
	if caPath == "" {
		return &tls.Config{MinVersion: tls.VersionTLS12}, nil
	}

	caCert, err := os.ReadFile(caPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA certificate: %w", err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caCert) {
		return nil, fmt.Errorf("failed to parse CA certificate")
	}

	return &tls.Config{
		RootCAs:    pool,
		MinVersion: tls.VersionTLS12,
	}, nil
}
