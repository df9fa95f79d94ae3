package ctrl

import (
	"bytes"
	"io"
	"testing"
	"time"

	"datalogger-go/types"
)

// ---- storage fakes ----

type fakeFS struct {
	mounted    bool
	mounts     int
	mountErr   error
	unmountErr error
	formatErr  error
	formats    int
	stats      types.VolumeStats
	statsErr   error
	entries    []types.DirEntry
	openErr    error
	failAt     int // fail the Nth write of newly opened files; 0 = never
	files      map[string]*fakeFile
}

func newFakeFS() *fakeFS {
	return &fakeFS{files: map[string]*fakeFile{}}
}

func (f *fakeFS) Mount() error {
	if f.mountErr != nil {
		return f.mountErr
	}
	f.mounts++
	f.mounted = true
	return nil
}

func (f *fakeFS) Unmount() error {
	if f.unmountErr != nil {
		return f.unmountErr
	}
	f.mounted = false
	return nil
}

func (f *fakeFS) Format() error {
	f.formats++
	return f.formatErr
}

func (f *fakeFS) Stats() (types.VolumeStats, error) {
	return f.stats, f.statsErr
}

func (f *fakeFS) OpenFile(name string, flags FileFlag) (File, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	if flags&FlagWrite != 0 {
		fl := f.files[name]
		if fl == nil || flags&FlagTrunc != 0 {
			fl = &fakeFile{failAt: f.failAt}
			f.files[name] = fl
		}
		return fl, nil
	}
	fl, ok := f.files[name]
	if !ok {
		return nil, ErrFileNotFound
	}
	fl.off = 0
	return fl, nil
}

func (f *fakeFS) List(path string) ([]types.DirEntry, error) {
	return f.entries, nil
}

type fakeFile struct {
	data   []byte
	off    int
	writes int
	failAt int
	syncs  int
	closed bool
}

func (f *fakeFile) Read(p []byte) (int, error) {
	if f.off >= len(f.data) {
		return 0, io.EOF
	}
	n := copy(p, f.data[f.off:])
	f.off += n
	return n, nil
}

func (f *fakeFile) Write(p []byte) (int, error) {
	f.writes++
	if f.failAt > 0 && f.writes >= f.failAt {
		return 0, ErrDiskFailure
	}
	f.data = append(f.data, p...)
	return len(p), nil
}

func (f *fakeFile) Sync() error  { f.syncs++; return nil }
func (f *fakeFile) Close() error { f.closed = true; return nil }
func (f *fakeFile) Size() int64  { return int64(len(f.data)) }

// ---- peripheral fakes ----

type fakeSensor struct {
	s   types.RawSample
	err error
}

func (s *fakeSensor) ReadRaw() (types.RawSample, error) { return s.s, s.err }

type fakeClock struct {
	now time.Time
	set time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) SetDateTime(t time.Time) error {
	c.set = t
	return nil
}

type fakePort struct {
	in  []byte
	out bytes.Buffer
}

func (p *fakePort) push(s string) { p.in = append(p.in, s...) }

func (p *fakePort) ReadByte() (byte, bool) {
	if len(p.in) == 0 {
		return 0, false
	}
	b := p.in[0]
	p.in = p.in[1:]
	return b, true
}

func (p *fakePort) Write(b []byte) (int, error) { return p.out.Write(b) }

type fakeLamp struct {
	sets []types.LampColor
}

func (l *fakeLamp) Set(c types.LampColor) { l.sets = append(l.sets, c) }

func (l *fakeLamp) last() types.LampColor {
	if len(l.sets) == 0 {
		return types.LampColor{}
	}
	return l.sets[len(l.sets)-1]
}

type fakeBeeper struct {
	beeps []time.Duration
}

func (b *fakeBeeper) Beep(d time.Duration) { b.beeps = append(b.beeps, d) }

// ---- controller under test ----

func newTestController(t *testing.T, fs *fakeFS) (*Controller, *fakePort, *fakeLamp, *fakeBeeper) {
	t.Helper()
	storage := NewStorageManager()
	storage.AddVolume("sd0", fs)
	port := &fakePort{}
	lamp := &fakeLamp{}
	beeper := &fakeBeeper{}
	cfg := types.SystemConfig{}
	c := New(cfg, Deps{
		Storage: storage,
		Sensor:  &fakeSensor{s: types.RawSample{AZ: 16384}},
		Clock:   &fakeClock{now: time.Unix(1700000000, 0)},
		Port:    port,
		Lamp:    lamp,
		Beeper:  beeper,
	})
	return c, port, lamp, beeper
}
