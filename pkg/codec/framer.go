package codec

import "fmt"

// maxPending bounds how many bytes a Framer holds while waiting for the rest of
// a packet. A well-formed stream never has more than PacketSize-1 pending.
const maxPending = PacketSize * 64

// Framer cuts a byte stream delivered in arbitrary chunks into whole packets.
// It is not safe for concurrent use; keep one per device stream.
type Framer struct {
	pending []byte
}

func NewFramer() *Framer {
	return &Framer{}
}

// Write appends a chunk and returns every complete packet now available. Bytes
// of an incomplete trailing packet stay buffered for the next call.
func (f *Framer) Write(chunk []byte) ([][]byte, error) {
	if len(f.pending)+len(chunk) > maxPending {
		dropped := len(f.pending)
		f.pending = f.pending[:0]
		return nil, fmt.Errorf("%w: framer overflow, dropped %d pending bytes", ErrMalformedPacket, dropped)
	}

	f.pending = append(f.pending, chunk...)

	var packets [][]byte
	for len(f.pending) >= PacketSize {
		packet := make([]byte, PacketSize)
		copy(packet, f.pending[:PacketSize])
		packets = append(packets, packet)
		f.pending = f.pending[PacketSize:]
	}

	// compact so the backing array does not keep growing
	if len(f.pending) == 0 {
		f.pending = nil
	} else {
		f.pending = append([]byte(nil), f.pending...)
	}

	return packets, nil
}

func (f *Framer) Pending() int {
	return len(f.pending)
}

func (f *Framer) Reset() {
	f.pending = nil
}
