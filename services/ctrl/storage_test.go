package ctrl

import (
	"errors"
	"testing"

	"datalogger-go/errcode"
	"datalogger-go/types"
)

func TestStorageMountLifecycle(t *testing.T) {
	fs := newFakeFS()
	m := NewStorageManager()
	m.AddVolume("sd0", fs)

	if err := m.Mount("sd0"); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if !m.Default().Mounted {
		t.Fatal("session not marked mounted")
	}

	// Re-mounting is a no-op, not a second probe.
	if err := m.Mount("sd0"); err != nil {
		t.Fatalf("re-Mount: %v", err)
	}
	if fs.mounts != 1 {
		t.Fatalf("fs.Mount called %d times, want 1", fs.mounts)
	}

	if err := m.Unmount(""); err != nil {
		t.Fatalf("Unmount: %v", err)
	}
	if m.Default().Mounted {
		t.Fatal("session still marked mounted")
	}
	// Unmounting again is a no-op too.
	if err := m.Unmount(""); err != nil {
		t.Fatalf("second Unmount: %v", err)
	}
}

func TestStorageMountFailure(t *testing.T) {
	fs := newFakeFS()
	fs.mountErr = errors.New("no card")
	m := NewStorageManager()
	m.AddVolume("sd0", fs)

	err := m.Mount("")
	if errcode.Of(err) != errcode.DeviceError {
		t.Fatalf("Mount err = %v, want device_error", err)
	}
	if m.Default().Mounted {
		t.Fatal("mounted flag set despite failure")
	}
	if m.Default().LastErr == nil {
		t.Fatal("LastErr not recorded")
	}
}

func TestStorageUnknownVolume(t *testing.T) {
	m := NewStorageManager()
	m.AddVolume("sd0", newFakeFS())

	if err := m.Mount("usb1"); errcode.Of(err) != errcode.UnknownVolume {
		t.Fatalf("Mount(usb1) = %v, want unknown_volume", err)
	}
	if _, _, err := m.FreeSpace("usb1"); errcode.Of(err) != errcode.UnknownVolume {
		t.Fatalf("FreeSpace(usb1) = %v, want unknown_volume", err)
	}
}

func TestStorageEmptyNameIsDefault(t *testing.T) {
	fs0 := newFakeFS()
	fs1 := newFakeFS()
	m := NewStorageManager()
	m.AddVolume("sd0", fs0)
	m.AddVolume("sd1", fs1)

	v, err := m.Volume("")
	if err != nil {
		t.Fatalf("Volume(\"\"): %v", err)
	}
	if v.Name != "sd0" {
		t.Fatalf("default volume = %q, want sd0", v.Name)
	}
	if v.FS() != Filesystem(fs0) {
		t.Fatal("default volume has wrong filesystem")
	}
}

func TestStorageFreeSpaceArithmetic(t *testing.T) {
	fs := newFakeFS()
	fs.stats = types.VolumeStats{
		ClusterCount:      1002,
		FreeClusters:      500,
		SectorsPerCluster: 8,
	}
	m := NewStorageManager()
	m.AddVolume("sd0", fs)

	total, free, err := m.FreeSpace("")
	if err != nil {
		t.Fatalf("FreeSpace: %v", err)
	}
	// (1002-2) clusters * 8 sectors * 512 B = 4000 KiB.
	if total != 4000 {
		t.Fatalf("total = %d KiB, want 4000", total)
	}
	if free != 2000 {
		t.Fatalf("free = %d KiB, want 2000", free)
	}
}

func TestStorageFormatKeepsSessionState(t *testing.T) {
	fs := newFakeFS()
	m := NewStorageManager()
	m.AddVolume("sd0", fs)

	if err := m.Format(""); err != nil {
		t.Fatalf("Format: %v", err)
	}
	if fs.formats != 1 {
		t.Fatalf("formats = %d, want 1", fs.formats)
	}
	if m.Default().Mounted {
		t.Fatal("format must not mark the volume mounted")
	}
}
