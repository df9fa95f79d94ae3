// Package config resolves the embedded per-board configuration, publishes
// its sections as retained bus messages and decodes the controller section
// into a typed struct.
package config

import (
	"context"
	"errors"

	"github.com/andreyvit/tinyjson"

	"datalogger-go/bus"
	"datalogger-go/types"
)

const (
	serviceName  = "config"
	configPrefix = "config"
	CtxDeviceKey = "device" // context key carrying the board ID
)

// EmbeddedConfigLookup allows overriding how configs are resolved.
var EmbeddedConfigLookup = func(device string) ([]byte, bool) {
	b, ok := embeddedConfigs[device]
	return b, ok
}

type Service struct {
	Name string
}

func NewService() *Service {
	return &Service{Name: serviceName}
}

// Load parses the embedded JSON for a board into its top-level sections.
func Load(device string) (map[string]any, error) {
	raw, ok := EmbeddedConfigLookup(device)
	if !ok || len(raw) == 0 {
		return nil, errors.New("no embedded config for device: " + device)
	}

	r := tinyjson.Raw(raw)
	val := r.Value()
	r.EnsureEOF()

	m, ok := val.(map[string]any)
	if !ok {
		return nil, errors.New("embedded config is not a JSON object")
	}
	return m, nil
}

// Controller decodes the "ctrl" section. Missing or mistyped fields fall
// back to the stock defaults.
func Controller(m map[string]any) types.SystemConfig {
	cfg := types.SystemConfig{}
	if sec, ok := m["ctrl"].(map[string]any); ok {
		cfg.Volume = str(sec, "volume")
		cfg.CaptureFile = str(sec, "capture_file")
		cfg.SamplePeriodMs = u32(sec, "sample_period_ms")
		cfg.PanelPeriodMs = u32(sec, "panel_period_ms")
		cfg.DebounceMs = u32(sec, "debounce_ms")
		cfg.SyncEvery = u32(sec, "sync_every")
		cfg.StartupSettleMs = u32(sec, "startup_settle_ms")
	}
	cfg.ApplyDefaults()
	return cfg
}

// publishConfig publishes each top-level section retained on config/<key>.
func (s *Service) publishConfig(ctx context.Context, conn *bus.Connection) error {
	device, _ := ctx.Value(CtxDeviceKey).(string)
	if device == "" {
		return errors.New("missing device ID in context")
	}

	m, err := Load(device)
	if err != nil {
		return err
	}
	for k, v := range m {
		conn.Publish(&bus.Message{
			Topic:    bus.T(configPrefix, k),
			Payload:  v,
			Retained: true,
		})
	}
	return nil
}

// Start launches the config publisher in a goroutine.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) {
	go func() {
		_ = s.publishConfig(ctx, conn)
	}()
}

func str(m map[string]any, key string) string {
	v, _ := m[key].(string)
	return v
}

func u32(m map[string]any, key string) uint32 {
	if f, ok := m[key].(float64); ok && f > 0 {
		return uint32(f)
	}
	return 0
}
