package image

import "unsafe"

// cellView reinterprets a page-aligned mmap'd byte slice as a []uint32.
// The slice shares storage with data: writes through Cells are writes
// through data, and vice versa, which is exactly the aliasing spec.md §5
// requires between flash and the cell-addressed memory map. Mmap'd regions
// are always sufficiently aligned for this on every platform the VM builds
// for.
func cellView(data []byte) []uint32 {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Slice((*uint32)(unsafe.Pointer(&data[0])), len(data)/4)
}
