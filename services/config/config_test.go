package config

import (
	"context"
	"testing"
	"time"

	"datalogger-go/bus"
)

func TestConfig_PublishEmbedded_RetainedPerSection(t *testing.T) {
	// Override lookup for this test.
	oldLookup := EmbeddedConfigLookup
	EmbeddedConfigLookup = func(device string) ([]byte, bool) {
		if device != "pico" {
			return nil, false
		}
		return []byte(`{
			"ctrl": {"volume": "sd0", "sync_every": 25},
			"heartbeat": {"interval": 2}
		}`), true
	}
	t.Cleanup(func() { EmbeddedConfigLookup = oldLookup })

	b := bus.NewBus(16)
	conn := b.NewConnection("test-config")
	svc := NewService()

	ctx := context.WithValue(context.Background(), CtxDeviceKey, "pico")
	svc.Start(ctx, conn)

	ctrlSub := conn.Subscribe(bus.T(configPrefix, "ctrl"))
	hbSub := conn.Subscribe(bus.T(configPrefix, "heartbeat"))

	var ctrl, hb map[string]any
	deadline := time.Now().Add(600 * time.Millisecond)
	for (ctrl == nil || hb == nil) && time.Now().Before(deadline) {
		select {
		case m := <-ctrlSub.Channel():
			ctrl, _ = m.Payload.(map[string]any)
		case m := <-hbSub.Channel():
			hb, _ = m.Payload.(map[string]any)
		case <-time.After(10 * time.Millisecond):
		}
	}

	if ctrl == nil {
		t.Fatal("missing 'ctrl' message")
	}
	if v, ok := ctrl["sync_every"].(float64); !ok || v != 25 {
		t.Fatalf("ctrl.sync_every = %#v, want 25", ctrl["sync_every"])
	}
	if hb == nil {
		t.Fatal("missing 'heartbeat' message")
	}
	if v, ok := hb["interval"].(float64); !ok || v != 2 {
		t.Fatalf("heartbeat.interval = %#v, want 2", hb["interval"])
	}
}

func TestConfig_PublishConfig_MissingDevice(t *testing.T) {
	b := bus.NewBus(4)
	conn := b.NewConnection("test-missing-device")
	svc := NewService()

	if err := svc.publishConfig(context.Background(), conn); err == nil {
		t.Fatal("expected error for missing device ID, got nil")
	}
}

func TestConfig_PublishConfig_NoConfigFound(t *testing.T) {
	oldLookup := EmbeddedConfigLookup
	EmbeddedConfigLookup = func(device string) ([]byte, bool) { return nil, false }
	t.Cleanup(func() { EmbeddedConfigLookup = oldLookup })

	b := bus.NewBus(4)
	conn := b.NewConnection("test-no-config")
	svc := NewService()

	ctx := context.WithValue(context.Background(), CtxDeviceKey, "unknown-device")
	if err := svc.publishConfig(ctx, conn); err == nil {
		t.Fatal("expected error for missing embedded config, got nil")
	}
}

func TestControllerDecode(t *testing.T) {
	m, err := Load("pico")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg := Controller(m)
	if cfg.Volume != "sd0" {
		t.Fatalf("Volume = %q", cfg.Volume)
	}
	if cfg.SamplePeriodMs != 100 || cfg.SyncEvery != 50 {
		t.Fatalf("cadence = %d/%d, want 100/50", cfg.SamplePeriodMs, cfg.SyncEvery)
	}
	if cfg.DebounceMs != 300 {
		t.Fatalf("DebounceMs = %d", cfg.DebounceMs)
	}
}

func TestControllerDecode_DefaultsOnMissingSection(t *testing.T) {
	cfg := Controller(map[string]any{})
	if cfg.CaptureFile != "imu_data.csv" {
		t.Fatalf("CaptureFile = %q", cfg.CaptureFile)
	}
	if cfg.PanelPeriodMs != 500 {
		t.Fatalf("PanelPeriodMs = %d", cfg.PanelPeriodMs)
	}
}
