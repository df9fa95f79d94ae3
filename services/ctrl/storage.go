package ctrl

import (
	"datalogger-go/errcode"
)

// VolumeSession tracks one logical volume. Created at init, mutated only by
// the StorageManager, never destroyed while the system runs.
type VolumeSession struct {
	Name    string
	Mounted bool
	LastErr error

	fs Filesystem
}

// FS exposes the volume's filesystem collaborator (read-only use).
func (v *VolumeSession) FS() Filesystem { return v.fs }

// StorageManager owns the mount/unmount lifecycle and space/listing queries.
type StorageManager struct {
	vols []*VolumeSession
}

func NewStorageManager() *StorageManager { return &StorageManager{} }

// AddVolume registers a volume at init time. The first volume added is the
// default for commands that omit the volume argument.
func (m *StorageManager) AddVolume(name string, fs Filesystem) {
	m.vols = append(m.vols, &VolumeSession{Name: name, fs: fs})
}

// Default returns the first configured volume, or nil when none exist.
func (m *StorageManager) Default() *VolumeSession {
	if len(m.vols) == 0 {
		return nil
	}
	return m.vols[0]
}

// Volume resolves a name to its session; "" means the default volume.
func (m *StorageManager) Volume(name string) (*VolumeSession, error) {
	if name == "" {
		if v := m.Default(); v != nil {
			return v, nil
		}
		return nil, errcode.UnknownVolume
	}
	for _, v := range m.vols {
		if v.Name == name {
			return v, nil
		}
	}
	return nil, errcode.UnknownVolume
}

// Mount mounts the named volume. Re-mounting an already-mounted volume is a
// no-op. On failure the mounted flag is left unchanged.
func (m *StorageManager) Mount(name string) error {
	v, err := m.Volume(name)
	if err != nil {
		return err
	}
	if v.Mounted {
		return nil
	}
	if err := v.fs.Mount(); err != nil {
		v.LastErr = err
		return errcode.Wrap(errcode.DeviceError, "mount", err)
	}
	v.Mounted = true
	v.LastErr = nil
	return nil
}

// Unmount unmounts the named volume. The collaborator is expected to drop
// its device init state so the next mount re-probes the media.
func (m *StorageManager) Unmount(name string) error {
	v, err := m.Volume(name)
	if err != nil {
		return err
	}
	if !v.Mounted {
		return nil
	}
	if err := v.fs.Unmount(); err != nil {
		v.LastErr = err
		return errcode.Wrap(errcode.DeviceError, "unmount", err)
	}
	v.Mounted = false
	v.LastErr = nil
	return nil
}

// Format formats the named volume. Session state is not changed on success;
// the caller must mount afterwards.
func (m *StorageManager) Format(name string) error {
	v, err := m.Volume(name)
	if err != nil {
		return err
	}
	if err := v.fs.Format(); err != nil {
		v.LastErr = err
		return errcode.Wrap(errcode.DeviceError, "format", err)
	}
	return nil
}

// FreeSpace reports total and free space in KiB:
// total = (clusters-2) * sectors-per-cluster / 2, free likewise from the
// free cluster count (512-byte sectors).
func (m *StorageManager) FreeSpace(name string) (totalKiB, freeKiB uint32, err error) {
	v, err := m.Volume(name)
	if err != nil {
		return 0, 0, err
	}
	st, err := v.fs.Stats()
	if err != nil {
		v.LastErr = err
		return 0, 0, errcode.Wrap(errcode.DeviceError, "getfree", err)
	}
	totalKiB = (st.ClusterCount - 2) * st.SectorsPerCluster / 2
	freeKiB = st.FreeClusters * st.SectorsPerCluster / 2
	return totalKiB, freeKiB, nil
}
