package types

// ---- System state ----

// SystemState is the single mode tag owned by the controller.
// Exactly one value is current at any time; there are no terminal states.
type SystemState uint8

const (
	StateInit SystemState = iota
	StateNormal
	StateMounting
	StateUnmounting
	StateReading  // streaming a file to the console
	StateListing  // directory listing in progress
	StateCapture  // capture session running
	StateCaptured // capture just stopped, count on the panel
	StateError
	StateHelp
	StateFreeSpace
	StateFormat
)

func (s SystemState) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateNormal:
		return "normal"
	case StateMounting:
		return "mounting"
	case StateUnmounting:
		return "unmounting"
	case StateReading:
		return "reading"
	case StateListing:
		return "listing"
	case StateCapture:
		return "capture"
	case StateCaptured:
		return "captured"
	case StateError:
		return "error"
	case StateHelp:
		return "help"
	case StateFreeSpace:
		return "freespace"
	case StateFormat:
		return "format"
	}
	return "unknown"
}

// StateChange is published retained on ctrl/state.
type StateChange struct {
	From SystemState
	To   SystemState
	TSMs int64
}

// ---- Sensor payloads ----

// RawSample is one register-level reading from the motion sensor.
// Accel counts are 1/16384 g, gyro counts 1/131 °/s (±2 g, ±250 °/s ranges).
type RawSample struct {
	AX, AY, AZ int16
	GX, GY, GZ int16
	Temp       int16
}

// Attitude is the derived orientation, degrees.
type Attitude struct {
	Roll  float64
	Pitch float64
}

// ---- Storage payloads ----

// VolumeStats is the raw geometry the free-space query is computed from.
type VolumeStats struct {
	ClusterCount      uint32
	FreeClusters      uint32
	SectorsPerCluster uint32
}

// DirEntry is one row of a directory listing.
type DirEntry struct {
	Name     string
	Size     int64
	Dir      bool
	ReadOnly bool
}

// CaptureStats is published retained on capture/stats.
type CaptureStats struct {
	File    string
	Samples uint32
	Active  bool
}

// ---- Indicators ----

// LampColor drives the three independent lamp channels.
type LampColor struct {
	Green bool
	Blue  bool
	Red   bool
}

// Chime selects one of the fixed audible cadence classes.
type Chime uint8

const (
	ChimeNone Chime = iota
	ChimeTwoShort
	ChimeThreeShort
	ChimeOneLong
	ChimeShortLong
	ChimeThreeLong
)

// PanelSnapshot is what one panel refresh renders. Pure projection; the
// presentation adapter holds no state of its own.
type PanelSnapshot struct {
	State   SystemState
	Mounted bool
	Roll    float64
	Pitch   float64
	Samples uint32
	File    string
}

// Heartbeat is the once-a-second beacon payload.
type Heartbeat struct {
	UptimeS uint32
	Samples uint32
}
