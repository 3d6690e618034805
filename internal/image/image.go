// Package image implements the flat, file-backed cell array shared by the
// NewScript compiler and VM. The compiler creates and populates an image;
// the VM later opens and maps the same file. There is no in-memory handoff
// between the two -- the file is the only channel.
package image

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Fixed cell offsets into the image, per spec.md §6 and nsc.c.
const (
	// ByteSize is the on-disk size of a freshly created image, in bytes.
	// nsc.c's IMAGE_SIZE (8388608) is consumed as a byte count: its
	// init_memory zero-fills IMAGE_SIZE/sizeof(cell[4096]) pages of
	// sizeof(cell[4096]) bytes each, and mmaps exactly IMAGE_SIZE bytes.
	ByteSize = 8388608

	// TotalCells is the image's cell-addressed length: ByteSize/4.
	// STRINGS_OFFSET in nsc.c equals this exactly, confirming the
	// strings table's upper bound is one past the last cell of the file.
	TotalCells = ByteSize / 4

	// RomCells is the number of cells copied into ROM and instruction
	// memory at boot.
	RomCells = 4096

	// LexiconOffset is the top of the downward-growing lexicon.
	LexiconOffset = 2017152

	// StringsOffset is the top of the downward-growing string table,
	// and the image's total cell count.
	StringsOffset = TotalCells
)

var (
	// ErrTooSmall is returned by Open when the backing file is smaller
	// than a single ROM image (spec.md exit code 4, "image too small for
	// ROM").
	ErrTooSmall = errors.New("image: file too small to hold a ROM image")
)

// Image is a little-endian view over a memory-mapped cell array backed by
// a regular file. Writes are visible to any other process mapping the same
// file, matching spec.md §5's "Flash is a file-backed shared mapping".
type Image struct {
	file *os.File
	data []byte // raw mmap'd bytes, len == len(Cells)*4
	// Cells is the cell-addressed view over data. Index i aliases
	// data[4*i : 4*i+4] in little-endian order.
	Cells []uint32
}

// Create makes a new zero-filled image file of ByteSize at path, in
// 4096-cell (16 KiB) pages, mirroring nsc.c's init_memory.
func Create(path string) (*Image, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, fmt.Errorf("image: create %s: %w", path, err)
	}

	page := make([]byte, RomCells*4)
	pages := ByteSize / len(page)
	for i := 0; i < pages; i++ {
		if _, err := f.Write(page); err != nil {
			f.Close()
			return nil, fmt.Errorf("image: zero-fill %s: %w", path, err)
		}
	}

	img, err := mapFile(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return img, nil
}

// Open maps an existing image file read/write, as the VM does at boot
// (ns.c:boot). The file must be at least RomCells cells, or ErrTooSmall is
// returned.
func Open(path string) (*Image, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("image: open %s: %w", path, err)
	}

	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("image: stat %s: %w", path, err)
	}
	if st.Size() < RomCells*4 {
		f.Close()
		return nil, ErrTooSmall
	}

	img, err := mapFile(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return img, nil
}

func mapFile(f *os.File) (*Image, error) {
	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("image: stat: %w", err)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(st.Size()), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("image: mmap: %w", err)
	}

	return &Image{
		file:  f,
		data:  data,
		Cells: cellView(data),
	}, nil
}

// Close flushes the mapping to disk, unmaps it, and releases the file
// descriptor (ns.c:fini_memory / reset).
func (img *Image) Close() error {
	if img.data == nil {
		return nil
	}

	if err := unix.Msync(img.data, unix.MS_SYNC); err != nil {
		// Best-effort: still try to unmap and close.
		_ = err
	}

	err := unix.Munmap(img.data)
	img.data = nil
	img.Cells = nil

	if cerr := img.file.Close(); err == nil {
		err = cerr
	}
	return err
}
