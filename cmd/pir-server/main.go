// Command pir-server polls a PIR motion sensor on GPIO and broadcasts
// its state as JSON lines to every connected TCP client.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/pir-video/internal/broadcast"
	"github.com/sweeney/pir-video/internal/config"
	"github.com/sweeney/pir-video/internal/gpio"
	"github.com/sweeney/pir-video/internal/logging"
	"github.com/sweeney/pir-video/internal/motion"
	"github.com/sweeney/pir-video/internal/mqtt"
	"github.com/sweeney/pir-video/internal/status"
	"github.com/sweeney/pir-video/internal/web"
	"github.com/sweeney/pir-video/internal/wire"
)

var logger = logging.New("pir-server")

func main() {
	cfg, err := config.LoadServer()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}
	logging.SetLevel(cfg.Level())

	if err := run(cfg); err != nil {
		logger.Fatalf("fatal: %v", err)
	}
}

func run(cfg config.Server) error {
	reader, err := gpio.NewRealReader(cfg.PIRPin)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer reader.Close()

	tracker := status.NewTracker(time.Now(), status.Config{
		PIRPin:         cfg.PIRPin,
		Port:           cfg.Port,
		SendIntervalMs: cfg.SendInterval.Milliseconds(),
		HTTPAddr:       cfg.HTTPAddr,
		MQTTBroker:     cfg.MQTTBroker,
	})

	hub := broadcast.NewHub()
	greet := func() []byte {
		snap := tracker.Snapshot()
		data, err := wire.Encode(wire.NewWelcomeMessage(snap.Sensor.Motion, snap.Now))
		if err != nil {
			return nil
		}
		return data
	}

	server, err := broadcast.Listen(cfg.Port, hub, greet)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	logger.Infof("broadcast server listening on %s", server.Addr())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := server.Serve(ctx); err != nil {
			logger.Errorf("accept loop: %v", err)
		}
	}()
	defer server.Close()
	defer hub.CloseAll()

	// Optional MQTT event publishing.
	var publisher mqtt.Publisher
	var mqttStatus mqtt.ConnectionStatus
	if cfg.MQTTBroker != "" {
		real, err := mqtt.NewRealPublisher(cfg.MQTTBroker)
		if err != nil {
			return fmt.Errorf("init mqtt: %w", err)
		}
		defer real.Close()
		publisher = real
		mqttStatus = real
		logger.Infof("publishing motion events to %s", cfg.MQTTBroker)
	}

	// Optional HTTP status page.
	if cfg.HTTPAddr != "" {
		srv := web.New(cfg.HTTPAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Errorf("http server: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		logger.Infof("http status page on %s", cfg.HTTPAddr)
	}

	logger.Infof("started: pin=%d port=%d interval=%v", cfg.PIRPin, cfg.Port, cfg.SendInterval)

	ticker := time.NewTicker(cfg.SendInterval)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(reader, hub, tracker, publisher, mqttStatus, time.Now, ticker.C, sigCh)
}

// runLoop is the poll/broadcast loop, split out so tests can drive the
// tick and signal channels directly.
func runLoop(reader gpio.Reader, hub *broadcast.Hub, tracker *status.Tracker, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	monitor := motion.NewMonitor()

	for {
		select {
		case s := <-sig:
			logger.Infof("received %v, shutting down", s)
			return nil

		case <-tick:
			t := now()
			raw, err := reader.Read()
			if err != nil {
				// A failed read counts as a no-motion tick so clients
				// keep receiving state at the usual cadence.
				logger.Warnf("gpio read error: %v", err)
				raw = false
			}

			snap, ev := monitor.Sample(raw, t)
			if ev != nil {
				logger.Infof("event: %s (count=%d)", ev.Type, ev.Count)
				if publisher != nil {
					if err := publisher.Publish(*ev); err != nil {
						logger.Warnf("mqtt publish error: %v", err)
					}
				}
			}

			payload, err := wire.Encode(wire.NewStateMessage(snap.Motion, snap.Count, uint32(hub.Count()), t))
			if err != nil {
				logger.Errorf("encode state: %v", err)
				continue
			}
			hub.Broadcast(payload)

			tracker.Update(snap, hub.Count())
			if mqttStatus != nil {
				tracker.SetMQTTConnected(mqttStatus.IsConnected())
			}
		}
	}
}
