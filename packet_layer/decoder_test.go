package packet_layer_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/starling-protocol/rfc5444/packet_layer"

	"github.com/stretchr/testify/assert"
)

func TestReadPacketEmpty(t *testing.T) {
	_, err := packet_layer.ReadPacket([]byte{})
	assert.ErrorIs(t, err, packet_layer.ErrUnexpectedEOF)

	_, err = packet_layer.ReadPacket(nil)
	assert.ErrorIs(t, err, packet_layer.ErrUnexpectedEOF)
}

func TestReadPacketHeaderOnly(t *testing.T) {
	packet, err := packet_layer.ReadPacket([]byte{0x00})
	assert.NoError(t, err)

	assert.Equal(t, packet_layer.PacketHeader{
		Version:     0,
		HasSeqNum:   false,
		HasTLVBlock: false,
	}, packet.Header)
	assert.Nil(t, packet.TLVBlock)
	assert.Len(t, packet.Messages, 0)
	assert.Equal(t, 1, packet.HeaderLength())
}

func TestReadPacketSeqNum(t *testing.T) {
	packet, err := packet_layer.ReadPacket([]byte{0x08, 0x00, 0x05})
	assert.NoError(t, err)

	assert.True(t, packet.Header.HasSeqNum)
	assert.False(t, packet.Header.HasTLVBlock)
	assert.Equal(t, uint16(5), packet.Header.SeqNum)
	assert.Len(t, packet.Messages, 0)
	assert.Equal(t, 3, packet.MessagesOffset)
}

func TestReadPacketSeqNumBigEndian(t *testing.T) {
	packet, err := packet_layer.ReadPacket([]byte{0x08, 0xbe, 0xef, 0x01})
	assert.NoError(t, err)

	assert.Equal(t, uint16(0xbeef), packet.Header.SeqNum)
	assert.Equal(t, []byte{0x01}, packet.Messages)
}

func TestReadPacketInvalidVersion(t *testing.T) {
	_, err := packet_layer.ReadPacket([]byte{0x10})
	assert.ErrorIs(t, err, packet_layer.ErrInvalid)

	// the version is rejected before the truncated sequence number is noticed
	for version := 1; version < 16; version++ {
		_, err := packet_layer.ReadPacket([]byte{byte(version<<4) | 0x0c})
		assert.ErrorIs(t, err, packet_layer.ErrInvalid, "version %d", version)
		assert.False(t, errors.Is(err, packet_layer.ErrUnexpectedEOF))
	}
}

func TestReadPacketTruncatedSeqNum(t *testing.T) {
	_, err := packet_layer.ReadPacket([]byte{0x08})
	assert.ErrorIs(t, err, packet_layer.ErrUnexpectedEOF)

	_, err = packet_layer.ReadPacket([]byte{0x08, 0x00})
	assert.ErrorIs(t, err, packet_layer.ErrUnexpectedEOF)
}

func TestReadPacketMissingTLVLength(t *testing.T) {
	_, err := packet_layer.ReadPacket([]byte{0x04})
	assert.ErrorIs(t, err, packet_layer.ErrUnexpectedEOF)

	_, err = packet_layer.ReadPacket([]byte{0x04, 0x00})
	assert.ErrorIs(t, err, packet_layer.ErrUnexpectedEOF)
}

func TestReadPacketTruncatedTLVBlock(t *testing.T) {
	_, err := packet_layer.ReadPacket([]byte{0x04, 0x00, 0x02, 0xaa})
	assert.ErrorIs(t, err, packet_layer.ErrUnexpectedEOF)
}

func TestReadPacketSkipsTLVBlock(t *testing.T) {
	buf := []byte{0x04, 0x00, 0x02, 0x01, 0x02, 0xff, 0xff}

	packet, err := packet_layer.ReadPacket(buf)
	assert.NoError(t, err)

	assert.True(t, packet.Header.HasTLVBlock)
	assert.Equal(t, []byte{0x01, 0x02}, packet.TLVBlock)
	assert.Equal(t, []byte{0xff, 0xff}, packet.Messages)
	assert.Equal(t, 5, packet.MessagesOffset)
}

func TestReadPacketEmptyTLVBlock(t *testing.T) {
	packet, err := packet_layer.ReadPacket([]byte{0x04, 0x00, 0x00, 0x01})
	assert.NoError(t, err)

	assert.NotNil(t, packet.TLVBlock)
	assert.Len(t, packet.TLVBlock, 0)
	assert.Equal(t, []byte{0x01}, packet.Messages)
}

func TestReadPacketSeqNumAndTLVBlock(t *testing.T) {
	buf := []byte{0x0c, 0x12, 0x34, 0x00, 0x01, 0x99, 0x01, 0x02, 0x03}

	packet, err := packet_layer.ReadPacket(buf)
	assert.NoError(t, err)

	assert.Equal(t, uint16(0x1234), packet.Header.SeqNum)
	assert.Equal(t, []byte{0x99}, packet.TLVBlock)
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, packet.Messages)
}

func TestReadPacketIgnoresReservedFlags(t *testing.T) {
	packet, err := packet_layer.ReadPacket([]byte{0x03, 0xaa})
	assert.NoError(t, err)

	assert.False(t, packet.Header.HasSeqNum)
	assert.False(t, packet.Header.HasTLVBlock)
	assert.Equal(t, []byte{0xaa}, packet.Messages)
}

func TestReadPacketMessagesBorrowInput(t *testing.T) {
	buf := []byte{0x00, 0x01, 0x02}

	packet, err := packet_layer.ReadPacket(buf)
	assert.NoError(t, err)

	buf[1] = 0x42
	assert.Equal(t, byte(0x42), packet.Messages[0])

	// appending must not write into the caller's buffer
	assert.Equal(t, len(packet.Messages), cap(packet.Messages))
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, 0, packet_layer.ErrorCode(nil))

	_, err := packet_layer.ReadPacket([]byte{0x04})
	assert.Equal(t, 1, packet_layer.ErrorCode(err))

	_, err = packet_layer.ReadPacket([]byte{0x04, 0x00, 0x03, 0xaa})
	assert.Equal(t, 1, packet_layer.ErrorCode(err))

	_, err = packet_layer.ReadPacket([]byte{0x20})
	assert.Equal(t, -22, packet_layer.ErrorCode(err))
}

func FuzzReadPacket(f *testing.F) {
	f.Add([]byte{0x00})
	f.Add([]byte{0x08, 0x00, 0x05})
	f.Add([]byte{0x04, 0x00, 0x02, 0x01, 0x02, 0xff, 0xff})
	f.Add([]byte{0x0c, 0xff, 0xff, 0xff, 0xff})

	r := rand.New(rand.NewSource(1234))

	for i := 0; i < 5; i++ {
		length := r.Intn(64)
		bytes := make([]byte, length)
		for j := 0; j < length; j++ {
			bytes[j] = byte(r.Intn(256))
		}
		// keep the version valid so the fuzzer reaches the later states
		if length > 0 {
			bytes[0] &= 0x0f
		}

		f.Add(bytes)
	}

	f.Fuzz(func(t *testing.T, bytes []byte) {
		var first, second packet_layer.Packet
		var firstErr, secondErr error

		assert.NotPanics(t, func() {
			first, firstErr = packet_layer.ReadPacket(bytes)
			second, secondErr = packet_layer.ReadPacket(bytes)
		})

		assert.Equal(t, firstErr, secondErr)
		if firstErr != nil {
			assert.Equal(t, packet_layer.Packet{}, first)
			return
		}

		assert.Equal(t, first, second)
		assert.Equal(t, len(bytes), first.HeaderLength()+len(first.Messages))
		assert.Equal(t, bytes[first.MessagesOffset:], first.Messages)
	})
}
