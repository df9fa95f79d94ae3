package main

import (
	"io"
	"sort"

	"datalogger-go/services/ctrl"
	"datalogger-go/types"
)

// memVolume is an in-memory stand-in for the SD card. Single flat
// directory, no persistence.
type memVolume struct {
	mounted bool
	files   map[string][]byte
}

func newMemVolume() *memVolume {
	return &memVolume{files: map[string][]byte{
		"readme.txt": []byte("hostsim volume\n"),
	}}
}

func (v *memVolume) Mount() error   { v.mounted = true; return nil }
func (v *memVolume) Unmount() error { v.mounted = false; return nil }

func (v *memVolume) Format() error {
	v.files = map[string][]byte{}
	return nil
}

func (v *memVolume) Stats() (types.VolumeStats, error) {
	if !v.mounted {
		return types.VolumeStats{}, ctrl.ErrNoFilesystem
	}
	const clusters = 4096 // 16 MiB at 4 KiB clusters
	var used uint32
	for _, b := range v.files {
		used += uint32(len(b))/4096 + 1
	}
	if used > clusters {
		used = clusters
	}
	return types.VolumeStats{
		ClusterCount:      clusters + 2,
		FreeClusters:      clusters - used,
		SectorsPerCluster: 8,
	}, nil
}

func (v *memVolume) OpenFile(name string, flags ctrl.FileFlag) (ctrl.File, error) {
	if !v.mounted {
		return nil, ctrl.ErrNoFilesystem
	}
	if flags&ctrl.FlagWrite != 0 {
		if flags&ctrl.FlagTrunc != 0 || v.files[name] == nil {
			v.files[name] = []byte{}
		}
		return &memFile{vol: v, name: name, writable: true}, nil
	}
	if _, ok := v.files[name]; !ok {
		return nil, ctrl.ErrFileNotFound
	}
	return &memFile{vol: v, name: name}, nil
}

func (v *memVolume) List(path string) ([]types.DirEntry, error) {
	if !v.mounted {
		return nil, ctrl.ErrNoFilesystem
	}
	names := make([]string, 0, len(v.files))
	for n := range v.files {
		names = append(names, n)
	}
	sort.Strings(names)
	out := make([]types.DirEntry, 0, len(names))
	for _, n := range names {
		out = append(out, types.DirEntry{Name: n, Size: int64(len(v.files[n]))})
	}
	return out, nil
}

type memFile struct {
	vol      *memVolume
	name     string
	off      int
	writable bool
}

func (f *memFile) Read(p []byte) (int, error) {
	data := f.vol.files[f.name]
	if f.off >= len(data) {
		return 0, io.EOF
	}
	n := copy(p, data[f.off:])
	f.off += n
	return n, nil
}

func (f *memFile) Write(p []byte) (int, error) {
	if !f.writable {
		return 0, ctrl.ErrDiskFailure
	}
	f.vol.files[f.name] = append(f.vol.files[f.name], p...)
	return len(p), nil
}

func (f *memFile) Sync() error  { return nil }
func (f *memFile) Close() error { return nil }
func (f *memFile) Size() int64  { return int64(len(f.vol.files[f.name])) }
