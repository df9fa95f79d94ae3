package ctrl

import (
	"math"
	"time"

	"datalogger-go/errcode"
	"datalogger-go/types"
	"datalogger-go/x/strconvx"
)

const csvHeader = "Sample,AccelX,AccelY,AccelZ,GyroX,GyroY,GyroZ,Roll,Pitch\n"

// Raw-count scale factors at the sensor's default full-scale ranges.
const (
	accelCountsPerG   = 16384.0
	gyroCountsPerDegS = 131.0
)

// AttitudeOf derives roll and pitch (degrees) from one raw sample. Computed
// every cycle regardless of capture state; it also feeds the live panel.
func AttitudeOf(s types.RawSample) types.Attitude {
	ax := float64(s.AX) / accelCountsPerG
	ay := float64(s.AY) / accelCountsPerG
	az := float64(s.AZ) / accelCountsPerG
	return types.Attitude{
		Roll:  math.Atan2(ay, az) * 180 / math.Pi,
		Pitch: math.Atan2(-ax, math.Sqrt(ay*ay+az*az)) * 180 / math.Pi,
	}
}

// Engine owns the capture session: the sample clock, the open log file, the
// monotonically increasing counter, CSV formatting and the periodic sync.
//
// States are Idle and Active. The open file handle exists if and only if the
// engine is Active; a write failure forces an implicit stop so no half-open
// resource is left behind.
type Engine struct {
	fs        Filesystem
	filename  string
	period    time.Duration
	syncEvery uint32

	active  bool
	file    File
	count   uint32
	nextDue time.Time

	row []byte // reused per tick
}

// NewEngine prepares an idle engine logging to filename on fs.
func NewEngine(fs Filesystem, filename string, period time.Duration, syncEvery uint32) *Engine {
	if period <= 0 {
		period = 100 * time.Millisecond
	}
	if syncEvery == 0 {
		syncEvery = 50
	}
	return &Engine{
		fs:        fs,
		filename:  filename,
		period:    period,
		syncEvery: syncEvery,
		row:       make([]byte, 0, 96),
	}
}

func (e *Engine) Active() bool     { return e.active }
func (e *Engine) Count() uint32    { return e.count }
func (e *Engine) Filename() string { return e.filename }

// Start creates the target file (truncating existing content), writes the
// CSV header, resets the counter and schedules the first sample. A start
// while Active is rejected without touching the file or counter.
func (e *Engine) Start(now time.Time) error {
	if e.active {
		return errcode.AlreadyActive
	}
	if e.fs == nil {
		return errcode.Wrap(errcode.DeviceError, "capture_open", ErrNoFilesystem)
	}
	f, err := e.fs.OpenFile(e.filename, FlagWrite|FlagTrunc)
	if err != nil {
		return errcode.Wrap(errcode.DeviceError, "capture_open", err)
	}
	if _, err := f.Write([]byte(csvHeader)); err != nil {
		_ = f.Close()
		return errcode.Wrap(errcode.DeviceError, "capture_header", err)
	}
	e.file = f
	e.active = true
	e.count = 0
	e.nextDue = now.Add(e.period)
	return nil
}

// Stop closes the file and reports the final counter value. A stop while
// Idle is rejected and leaves the counter unchanged.
func (e *Engine) Stop() (uint32, error) {
	if !e.active {
		return e.count, errcode.NotActive
	}
	e.active = false
	_ = e.file.Close()
	e.file = nil
	return e.count, nil
}

// Due reports whether the next sample is owed at now.
func (e *Engine) Due(now time.Time) bool {
	return e.active && !now.Before(e.nextDue)
}

// Tick appends one CSV row for the given sample, reschedules the next
// due-time and syncs the file every syncEvery rows (synced reports when it
// did). A write failure forces an implicit stop, closes the file and
// returns a DeviceError; the caller has nothing to clean up.
func (e *Engine) Tick(now time.Time, s types.RawSample, att types.Attitude) (synced bool, err error) {
	if !e.active {
		return false, errcode.NotActive
	}

	row := e.row[:0]
	row = strconvx.AppendUint(row, uint64(e.count))
	row = appendField(row, float64(s.AX)/accelCountsPerG, 3)
	row = appendField(row, float64(s.AY)/accelCountsPerG, 3)
	row = appendField(row, float64(s.AZ)/accelCountsPerG, 3)
	row = appendField(row, float64(s.GX)/gyroCountsPerDegS, 3)
	row = appendField(row, float64(s.GY)/gyroCountsPerDegS, 3)
	row = appendField(row, float64(s.GZ)/gyroCountsPerDegS, 3)
	row = appendField(row, att.Roll, 2)
	row = appendField(row, att.Pitch, 2)
	row = append(row, '\n')
	e.row = row[:0]

	if _, err := e.file.Write(row); err != nil {
		e.active = false
		_ = e.file.Close()
		e.file = nil
		return false, errcode.Wrap(errcode.DeviceError, "capture_write", err)
	}
	e.count++
	if e.count%e.syncEvery == 0 {
		_ = e.file.Sync()
		synced = true
	}
	e.nextDue = now.Add(e.period)
	return synced, nil
}

func appendField(dst []byte, v float64, prec int) []byte {
	dst = append(dst, ',')
	return strconvx.AppendFixed(dst, v, prec)
}
