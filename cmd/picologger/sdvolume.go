//go:build rp2040

package main

import (
	"os"

	"tinygo.org/x/drivers/sdcard"
	"tinygo.org/x/tinyfs"
	"tinygo.org/x/tinyfs/fatfs"

	"datalogger-go/services/ctrl"
	"datalogger-go/types"
)

// sdVolume adapts an SPI SD card with a FAT filesystem to ctrl.Filesystem.
// Mount re-runs card detection so swapped media is picked up; Unmount drops
// both the filesystem and the card init state.
type sdVolume struct {
	dev *sdcard.Device
	fs  *fatfs.FATFS
}

func newSDVolume(dev *sdcard.Device) *sdVolume { return &sdVolume{dev: dev} }

func (v *sdVolume) attach() (*fatfs.FATFS, error) {
	if err := v.dev.Configure(); err != nil {
		return nil, err
	}
	fs := fatfs.New(v.dev)
	fs.Configure(&fatfs.Config{SectorSize: 512})
	return fs, nil
}

func (v *sdVolume) Mount() error {
	fs, err := v.attach()
	if err != nil {
		return err
	}
	if err := fs.Mount(); err != nil {
		return err
	}
	v.fs = fs
	return nil
}

func (v *sdVolume) Unmount() error {
	if v.fs == nil {
		return nil
	}
	err := v.fs.Unmount()
	v.fs = nil
	return err
}

func (v *sdVolume) Format() error {
	fs := v.fs
	if fs == nil {
		var err error
		fs, err = v.attach()
		if err != nil {
			return err
		}
	}
	return fs.Format()
}

const sectorsPerCluster = 8 // 4 KiB clusters on 512 B sectors

func (v *sdVolume) Stats() (types.VolumeStats, error) {
	if v.fs == nil {
		return types.VolumeStats{}, ctrl.ErrNoFilesystem
	}
	free, err := v.fs.Free()
	if err != nil {
		return types.VolumeStats{}, err
	}
	clusterBytes := int64(512 * sectorsPerCluster)
	return types.VolumeStats{
		ClusterCount:      uint32(v.dev.Size()/clusterBytes) + 2,
		FreeClusters:      uint32(free / clusterBytes),
		SectorsPerCluster: sectorsPerCluster,
	}, nil
}

func (v *sdVolume) OpenFile(name string, flags ctrl.FileFlag) (ctrl.File, error) {
	if v.fs == nil {
		return nil, ctrl.ErrNoFilesystem
	}
	mode := os.O_RDONLY
	if flags&ctrl.FlagWrite != 0 {
		mode = os.O_WRONLY | os.O_CREATE
	}
	if flags&ctrl.FlagTrunc != 0 {
		mode |= os.O_TRUNC
	}
	f, err := v.fs.OpenFile(name, mode)
	if err != nil {
		return nil, err
	}
	return &sdFile{f: f, fs: v.fs, name: name}, nil
}

func (v *sdVolume) List(path string) ([]types.DirEntry, error) {
	if v.fs == nil {
		return nil, ctrl.ErrNoFilesystem
	}
	if path == "" {
		path = "/"
	}
	d, err := v.fs.OpenFile(path, os.O_RDONLY)
	if err != nil {
		return nil, err
	}
	defer d.Close()

	infos, err := d.Readdir(0)
	if err != nil {
		return nil, err
	}
	out := make([]types.DirEntry, 0, len(infos))
	for _, fi := range infos {
		out = append(out, types.DirEntry{
			Name:     fi.Name(),
			Size:     fi.Size(),
			Dir:      fi.IsDir(),
			ReadOnly: fi.Mode()&0200 == 0,
		})
	}
	return out, nil
}

type sdFile struct {
	f    tinyfs.File
	fs   *fatfs.FATFS
	name string
}

func (f *sdFile) Read(p []byte) (int, error)  { return f.f.Read(p) }
func (f *sdFile) Write(p []byte) (int, error) { return f.f.Write(p) }
func (f *sdFile) Close() error                { return f.f.Close() }

func (f *sdFile) Sync() error {
	if s, ok := f.f.(interface{ Sync() error }); ok {
		return s.Sync()
	}
	return nil
}

func (f *sdFile) Size() int64 {
	if fi, err := f.fs.Stat(f.name); err == nil {
		return fi.Size()
	}
	return 0
}
