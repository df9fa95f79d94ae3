package types

// SystemConfig is the board-level configuration, supplied embedded (see
// services/config) or assembled by the binary.
type SystemConfig struct {
	Volume          string // default logical volume name
	CaptureFile     string // target of capture sessions and the 'd' shortcut
	SamplePeriodMs  uint32 // capture cadence
	PanelPeriodMs   uint32 // panel refresh cadence
	DebounceMs      uint32 // button refractory window
	SyncEvery       uint32 // durability sync every N rows
	StartupSettleMs uint32 // time spent in StateInit at boot
}

// ApplyDefaults fills zero fields with the stock values.
func (c *SystemConfig) ApplyDefaults() {
	if c.Volume == "" {
		c.Volume = "sd0"
	}
	if c.CaptureFile == "" {
		c.CaptureFile = "imu_data.csv"
	}
	if c.SamplePeriodMs == 0 {
		c.SamplePeriodMs = 100
	}
	if c.PanelPeriodMs == 0 {
		c.PanelPeriodMs = 500
	}
	if c.DebounceMs == 0 {
		c.DebounceMs = 300
	}
	if c.SyncEvery == 0 {
		c.SyncEvery = 50
	}
	if c.StartupSettleMs == 0 {
		c.StartupSettleMs = 5000
	}
}
