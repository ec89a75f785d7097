package inproc

import (
	"unsafe"

	"github.com/sarchlab/tsubame/mpp"
)

// gather copies the payload a descriptor covers into a fresh byte slice.
// Plain descriptors cover one contiguous block. Structured descriptors
// always describe a single unit; their blocks concatenate in layout order.
func gather(addr unsafe.Pointer, count int, dt mpp.Datatype) []byte {
	if count == 0 || addr == nil {
		return nil
	}

	if !dt.Structured() {
		block := unsafe.Slice((*byte)(addr), count*dt.Wire().Size())
		return append([]byte(nil), block...)
	}

	layout := dt.Layout()
	payload := make([]byte, 0, dt.UnitBytes())

	for i, off := range layout.Offsets {
		block := unsafe.Slice(
			(*byte)(unsafe.Add(addr, off)),
			layout.Counts[i]*layout.Types[i].Size(),
		)
		payload = append(payload, block...)
	}

	return payload
}

// scatter copies payload into the buffer a descriptor covers, truncating to
// whichever of the payload and the buffer is smaller. It returns the number
// of bytes written.
func scatter(addr unsafe.Pointer, count int, dt mpp.Datatype, payload []byte) int {
	if count == 0 || addr == nil || len(payload) == 0 {
		return 0
	}

	if !dt.Structured() {
		buf := unsafe.Slice((*byte)(addr), count*dt.Wire().Size())
		return copy(buf, payload)
	}

	layout := dt.Layout()
	written := 0

	for i, off := range layout.Offsets {
		if written == len(payload) {
			break
		}

		block := unsafe.Slice(
			(*byte)(unsafe.Add(addr, off)),
			layout.Counts[i]*layout.Types[i].Size(),
		)
		written += copy(block, payload[written:])
	}

	return written
}
