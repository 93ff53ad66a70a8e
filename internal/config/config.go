// Package config holds typed configuration for the server and client
// binaries. Values come from environment variables with defaults and are
// validated once at startup.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env"
	"go.uber.org/zap/zapcore"
)

// Server configures the pir-server daemon.
type Server struct {
	// PIRPin is the BCM pin number the PIR sensor output is wired to.
	PIRPin int `env:"PIR_PIN" envDefault:"24"`

	// Port is the TCP port the broadcast server listens on. Client and
	// server must agree on it.
	Port int `env:"PORT" envDefault:"5555"`

	// SendInterval is the sensor poll and broadcast period.
	SendInterval time.Duration `env:"SEND_INTERVAL" envDefault:"100ms"`

	// HTTPAddr enables the HTTP status page when non-empty (e.g. ":8080").
	HTTPAddr string `env:"HTTP_ADDR" envDefault:""`

	// MQTTBroker enables motion event publishing when non-empty
	// (e.g. "tcp://192.168.1.200:1883").
	MQTTBroker string `env:"MQTT_BROKER" envDefault:""`

	// LogLevel is the minimum level to log (debug, info, warn, error).
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Client configures the video-client binary.
type Client struct {
	// Res is the render resolution, "WIDTHxHEIGHT".
	Res string `env:"RES" envDefault:"1920x1080"`

	// Port must match the server's PORT.
	Port int `env:"PORT" envDefault:"5555"`

	// NoInputSecs is how long motion must be absent before the video
	// fades out.
	NoInputSecs int `env:"NO_INPUT_SECS" envDefault:"8"`

	// MotionDebounceMs suppresses motion flips shorter than this window.
	MotionDebounceMs int `env:"MOTION_DEBOUNCE_MS" envDefault:"200"`

	// FPS paces the render/fade loop.
	FPS int `env:"FPS" envDefault:"30"`

	FadeOutMs int `env:"FADE_OUT_MS" envDefault:"500"`
	FadeInMs  int `env:"FADE_IN_MS" envDefault:"1000"`

	// VidPath is the looping video asset.
	VidPath string `env:"VID_PATH" envDefault:"video.mp4"`

	// LogLevel is the minimum level to log (debug, info, warn, error).
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// LoadServer parses and validates server configuration.
func LoadServer() (Server, error) {
	var c Server
	if err := env.Parse(&c); err != nil {
		return Server{}, fmt.Errorf("parse env: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Server{}, err
	}
	return c, nil
}

// LoadClient parses and validates client configuration.
func LoadClient() (Client, error) {
	var c Client
	if err := env.Parse(&c); err != nil {
		return Client{}, fmt.Errorf("parse env: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Client{}, err
	}
	return c, nil
}

// Validate checks server settings for values that cannot work.
func (c Server) Validate() error {
	if c.PIRPin < 0 {
		return fmt.Errorf("PIR_PIN must be >= 0, got %d", c.PIRPin)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be 1-65535, got %d", c.Port)
	}
	if c.SendInterval <= 0 {
		return fmt.Errorf("SEND_INTERVAL must be positive, got %v", c.SendInterval)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return nil
}

// Validate checks client settings for values that cannot work.
func (c Client) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be 1-65535, got %d", c.Port)
	}
	if _, _, err := ParseRes(c.Res); err != nil {
		return err
	}
	if c.NoInputSecs <= 0 {
		return fmt.Errorf("NO_INPUT_SECS must be positive, got %d", c.NoInputSecs)
	}
	if c.MotionDebounceMs < 0 {
		return fmt.Errorf("MOTION_DEBOUNCE_MS must be >= 0, got %d", c.MotionDebounceMs)
	}
	if c.FPS < 1 {
		return fmt.Errorf("FPS must be >= 1, got %d", c.FPS)
	}
	if c.FadeOutMs <= 0 || c.FadeInMs <= 0 {
		return fmt.Errorf("fade durations must be positive, got out=%d in=%d", c.FadeOutMs, c.FadeInMs)
	}
	if c.VidPath == "" {
		return fmt.Errorf("VID_PATH must not be empty")
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return nil
}

// Level returns the parsed LOG_LEVEL. Validate has already rejected
// unknown names, so parse errors fall back to info.
func (c Server) Level() zapcore.Level {
	l, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel
	}
	return l
}

// Level returns the parsed LOG_LEVEL, as for Server.
func (c Client) Level() zapcore.Level {
	l, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel
	}
	return l
}

// Timeout returns the no-motion timeout as a duration.
func (c Client) Timeout() time.Duration {
	return time.Duration(c.NoInputSecs) * time.Second
}

// Debounce returns the motion debounce window as a duration.
func (c Client) Debounce() time.Duration {
	return time.Duration(c.MotionDebounceMs) * time.Millisecond
}

// FadeOut returns the fade-out duration.
func (c Client) FadeOut() time.Duration {
	return time.Duration(c.FadeOutMs) * time.Millisecond
}

// FadeIn returns the fade-in duration.
func (c Client) FadeIn() time.Duration {
	return time.Duration(c.FadeInMs) * time.Millisecond
}

// FrameInterval returns the render loop period for the configured FPS.
func (c Client) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.FPS)
}

// ParseRes parses a "WIDTHxHEIGHT" resolution string.
func ParseRes(s string) (width, height int, err error) {
	parts := strings.SplitN(s, "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("RES must be WIDTHxHEIGHT, got %q", s)
	}
	width, err = strconv.Atoi(parts[0])
	if err == nil {
		height, err = strconv.Atoi(parts[1])
	}
	if err != nil || width < 1 || height < 1 {
		return 0, 0, fmt.Errorf("RES must be WIDTHxHEIGHT, got %q", s)
	}
	return width, height, nil
}
