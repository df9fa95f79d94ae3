// Package ctrl is the state-driven logging and device-coordination engine:
// it reconciles button toggles and console commands against the storage
// session and the capture engine, and projects the result onto the lamp,
// the chime and the status panel.
//
// Hardware collaborators enter through the narrow interfaces below; the
// binaries under cmd/ provide the real implementations, tests provide fakes.
package ctrl

import (
	"time"

	"datalogger-go/types"
)

// FileFlag selects the open mode of a file.
type FileFlag uint8

const (
	FlagRead  FileFlag = 1 << iota
	FlagWrite          // implies create
	FlagTrunc          // truncate existing content
)

// File is an open handle on the storage collaborator.
type File interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Sync() error
	Close() error
	Size() int64
}

// Filesystem is one logical volume of the storage collaborator.
// Unmount must leave the underlying device uninitialized so a later Mount
// re-probes the hardware (protects against silent media swaps).
type Filesystem interface {
	Mount() error
	Unmount() error
	Format() error
	Stats() (types.VolumeStats, error)
	OpenFile(name string, flags FileFlag) (File, error)
	// List enumerates path; "" means the current directory.
	List(path string) ([]types.DirEntry, error)
}

// Sensor is the motion-sensor collaborator.
type Sensor interface {
	ReadRaw() (types.RawSample, error)
}

// Clock is the real-time-clock collaborator. SetDateTime is a permissive
// pass-through; field validation is the caller's problem.
type Clock interface {
	Now() time.Time
	SetDateTime(t time.Time) error
}

// ConsolePort is the raw console transport: non-blocking byte in, byte out.
type ConsolePort interface {
	// ReadByte returns the next pending byte, or ok=false when none is
	// buffered. It must never block.
	ReadByte() (b byte, ok bool)
	Write(p []byte) (int, error)
}

// Lamp drives the three independent color channels.
type Lamp interface {
	Set(c types.LampColor)
}

// Beeper emits one beep of the given duration, including the inter-beep gap.
// It may block the caller; the loop accepts that on state transitions.
type Beeper interface {
	Beep(d time.Duration)
}
