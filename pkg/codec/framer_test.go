package codec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFramerReassemblesChunks(t *testing.T) {
	first := bytes.Repeat([]byte{0x01}, PacketSize)
	second := bytes.Repeat([]byte{0x02}, PacketSize)
	stream := append(append([]byte{}, first...), second...)

	f := NewFramer()

	packets, err := f.Write(stream[:5])
	require.NoError(t, err)
	assert.Empty(t, packets)
	assert.Equal(t, 5, f.Pending())

	packets, err = f.Write(stream[5:20])
	require.NoError(t, err)
	require.Len(t, packets, 1)
	assert.Equal(t, first, packets[0])
	assert.Equal(t, 4, f.Pending())

	packets, err = f.Write(stream[20:])
	require.NoError(t, err)
	require.Len(t, packets, 1)
	assert.Equal(t, second, packets[0])
	assert.Zero(t, f.Pending())
}

func TestFramerReturnsIndependentCopies(t *testing.T) {
	f := NewFramer()
	chunk := bytes.Repeat([]byte{0x07}, PacketSize*2)

	packets, err := f.Write(chunk)
	require.NoError(t, err)
	require.Len(t, packets, 2)

	chunk[0] = 0xAA
	packets[1][0] = 0xBB
	assert.Equal(t, byte(0x07), packets[0][0])
}

func TestFramerOverflowResets(t *testing.T) {
	f := NewFramer()
	_, err := f.Write(make([]byte, 3))
	require.NoError(t, err)

	_, err = f.Write(make([]byte, maxPending))
	assert.ErrorIs(t, err, ErrMalformedPacket)
	assert.Zero(t, f.Pending())

	f.Reset()
	packets, err := f.Write(make([]byte, PacketSize))
	require.NoError(t, err)
	assert.Len(t, packets, 1)
}
