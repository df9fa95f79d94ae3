package ctrl

import (
	"strings"
	"testing"
	"time"

	"datalogger-go/errcode"
	"datalogger-go/types"
)

var t0 = time.Unix(1700000000, 0)

// The reference scenario: 1 g on X and Z, still gyro. Roll is 0, pitch -45.
var tiltedSample = types.RawSample{AX: 16384, AZ: 16384}

func TestAttitudeOf(t *testing.T) {
	att := AttitudeOf(tiltedSample)
	if att.Roll < -0.001 || att.Roll > 0.001 {
		t.Fatalf("Roll = %f, want 0", att.Roll)
	}
	if att.Pitch < -45.001 || att.Pitch > -44.999 {
		t.Fatalf("Pitch = %f, want -45", att.Pitch)
	}

	flat := AttitudeOf(types.RawSample{AZ: 16384})
	if flat.Roll != 0 || flat.Pitch != 0 {
		t.Fatalf("flat attitude = %+v, want zero", flat)
	}
}

func TestEngineStartWritesHeader(t *testing.T) {
	fs := newFakeFS()
	e := NewEngine(fs, "imu_data.csv", 100*time.Millisecond, 50)

	if err := e.Start(t0); err != nil {
		t.Fatalf("Start: %v", err)
	}
	f := fs.files["imu_data.csv"]
	if f == nil {
		t.Fatal("no file created")
	}
	if string(f.data) != csvHeader {
		t.Fatalf("file = %q, want header only", f.data)
	}
	if e.Count() != 0 || !e.Active() {
		t.Fatalf("count=%d active=%v after start", e.Count(), e.Active())
	}
}

func TestEngineTickAppendsRows(t *testing.T) {
	fs := newFakeFS()
	e := NewEngine(fs, "imu_data.csv", 100*time.Millisecond, 50)
	if err := e.Start(t0); err != nil {
		t.Fatalf("Start: %v", err)
	}

	att := AttitudeOf(tiltedSample)
	now := t0
	for i := 0; i < 3; i++ {
		now = now.Add(100 * time.Millisecond)
		if !e.Due(now) {
			t.Fatalf("tick %d not due at %v", i, now)
		}
		if _, err := e.Tick(now, tiltedSample, att); err != nil {
			t.Fatalf("Tick %d: %v", i, err)
		}
	}
	if e.Count() != 3 {
		t.Fatalf("Count = %d, want 3", e.Count())
	}

	lines := strings.Split(strings.TrimSuffix(string(fs.files["imu_data.csv"].data), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("lines = %d, want header + 3 rows", len(lines))
	}
	if lines[0] != strings.TrimSuffix(csvHeader, "\n") {
		t.Fatalf("header = %q", lines[0])
	}
	want := "1,1.000,0.000,1.000,0.000,0.000,0.000,0.00,-45.00"
	if lines[2] != want {
		t.Fatalf("row 1 = %q, want %q", lines[2], want)
	}
	for i, ln := range lines[1:] {
		if !strings.HasPrefix(ln, itoaPrefix(i)) {
			t.Fatalf("row %d = %q, sample column out of order", i, ln)
		}
	}
}

func itoaPrefix(i int) string {
	return string(rune('0'+i)) + ","
}

func TestEngineStartWhileActive(t *testing.T) {
	fs := newFakeFS()
	e := NewEngine(fs, "imu_data.csv", 100*time.Millisecond, 50)
	if err := e.Start(t0); err != nil {
		t.Fatalf("Start: %v", err)
	}
	att := AttitudeOf(tiltedSample)
	if _, err := e.Tick(t0.Add(100*time.Millisecond), tiltedSample, att); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	err := e.Start(t0.Add(time.Second))
	if errcode.Of(err) != errcode.AlreadyActive {
		t.Fatalf("second Start err = %v, want already_active", err)
	}
	if e.Count() != 1 {
		t.Fatalf("Count = %d after rejected start, want 1", e.Count())
	}
	if fs.files["imu_data.csv"].writes != 2 {
		t.Fatalf("writes = %d, rejected start must not touch the file", fs.files["imu_data.csv"].writes)
	}
}

func TestEngineStopWhileIdle(t *testing.T) {
	fs := newFakeFS()
	e := NewEngine(fs, "imu_data.csv", 100*time.Millisecond, 50)

	n, err := e.Stop()
	if errcode.Of(err) != errcode.NotActive {
		t.Fatalf("Stop err = %v, want not_active", err)
	}
	if n != 0 {
		t.Fatalf("Stop n = %d, want 0", n)
	}
}

func TestEngineStopReportsFinalCount(t *testing.T) {
	fs := newFakeFS()
	e := NewEngine(fs, "imu_data.csv", 100*time.Millisecond, 50)
	if err := e.Start(t0); err != nil {
		t.Fatalf("Start: %v", err)
	}
	att := AttitudeOf(tiltedSample)
	now := t0
	for i := 0; i < 7; i++ {
		now = now.Add(100 * time.Millisecond)
		if _, err := e.Tick(now, tiltedSample, att); err != nil {
			t.Fatalf("Tick %d: %v", i, err)
		}
	}

	n, err := e.Stop()
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if n != 7 {
		t.Fatalf("Stop n = %d, want 7", n)
	}
	if !fs.files["imu_data.csv"].closed {
		t.Fatal("file not closed on stop")
	}
	if e.Active() {
		t.Fatal("still active after stop")
	}
}

func TestEngineSyncCadence(t *testing.T) {
	fs := newFakeFS()
	e := NewEngine(fs, "imu_data.csv", 100*time.Millisecond, 5)
	if err := e.Start(t0); err != nil {
		t.Fatalf("Start: %v", err)
	}

	att := AttitudeOf(tiltedSample)
	now := t0
	var syncedAt []uint32
	for i := 0; i < 12; i++ {
		now = now.Add(100 * time.Millisecond)
		synced, err := e.Tick(now, tiltedSample, att)
		if err != nil {
			t.Fatalf("Tick %d: %v", i, err)
		}
		if synced {
			syncedAt = append(syncedAt, e.Count())
		}
	}
	if len(syncedAt) != 2 || syncedAt[0] != 5 || syncedAt[1] != 10 {
		t.Fatalf("synced at %v, want [5 10]", syncedAt)
	}
	if fs.files["imu_data.csv"].syncs != 2 {
		t.Fatalf("syncs = %d, want 2", fs.files["imu_data.csv"].syncs)
	}
}

func TestEngineWriteFailureStops(t *testing.T) {
	fs := newFakeFS()
	fs.failAt = 4 // header + 2 rows succeed, row 3 fails
	e := NewEngine(fs, "imu_data.csv", 100*time.Millisecond, 50)
	if err := e.Start(t0); err != nil {
		t.Fatalf("Start: %v", err)
	}

	att := AttitudeOf(tiltedSample)
	now := t0
	var tickErr error
	for i := 0; i < 3; i++ {
		now = now.Add(100 * time.Millisecond)
		if _, tickErr = e.Tick(now, tiltedSample, att); tickErr != nil {
			break
		}
	}
	if errcode.Of(tickErr) != errcode.DeviceError {
		t.Fatalf("tick err = %v, want device_error", tickErr)
	}
	if e.Active() {
		t.Fatal("still active after write failure")
	}
	if !fs.files["imu_data.csv"].closed {
		t.Fatal("file left open after write failure")
	}
	if e.Count() != 2 {
		t.Fatalf("Count = %d, want 2 (failed row not counted)", e.Count())
	}
	if _, err := e.Stop(); errcode.Of(err) != errcode.NotActive {
		t.Fatalf("Stop after failure = %v, want not_active", err)
	}
}

func TestEngineRestartTruncates(t *testing.T) {
	fs := newFakeFS()
	e := NewEngine(fs, "imu_data.csv", 100*time.Millisecond, 50)
	if err := e.Start(t0); err != nil {
		t.Fatalf("Start: %v", err)
	}
	att := AttitudeOf(tiltedSample)
	if _, err := e.Tick(t0.Add(100*time.Millisecond), tiltedSample, att); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if _, err := e.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	if err := e.Start(t0.Add(time.Second)); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if e.Count() != 0 {
		t.Fatalf("Count = %d after restart, want 0", e.Count())
	}
	if got := string(fs.files["imu_data.csv"].data); got != csvHeader {
		t.Fatalf("file = %q after restart, want header only", got)
	}
}
