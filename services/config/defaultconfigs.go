package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Key: board ID (same value placed in ctx under CtxDeviceKey)
// Val: raw JSON bytes for that board
// -----------------------------------------------------------------------------

const cfgPico = `{
  "ctrl": {
    "volume": "sd0",
    "capture_file": "imu_data.csv",
    "sample_period_ms": 100,
    "panel_period_ms": 500,
    "debounce_ms": 300,
    "sync_every": 50,
    "startup_settle_ms": 5000
  },
  "heartbeat": {
    "interval": 1
  }
}`

const cfgHostsim = `{
  "ctrl": {
    "volume": "sd0",
    "capture_file": "imu_data.csv",
    "sample_period_ms": 100,
    "panel_period_ms": 500,
    "debounce_ms": 300,
    "sync_every": 50,
    "startup_settle_ms": 500
  },
  "heartbeat": {
    "interval": 1
  }
}`

var embeddedConfigs = map[string][]byte{
	"pico":    []byte(cfgPico),
	"hostsim": []byte(cfgHostsim),
}
