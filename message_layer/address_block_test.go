package message_layer_test

import (
	"testing"

	"github.com/starling-protocol/rfc5444/message_layer"
	"github.com/starling-protocol/rfc5444/packet_layer"

	"github.com/stretchr/testify/assert"
)

// messageWithAddresses wraps an address block and an empty tlv block in a message with 4 byte addresses.
func messageWithAddresses(addressBlock []byte) []byte {
	size := 6 + len(addressBlock) + 2
	buf := []byte{0x01, 0x03, byte(size >> 8), byte(size), 0x00, 0x00}
	buf = append(buf, addressBlock...)
	return append(buf, 0x00, 0x00)
}

func readAddressBlock(t *testing.T, addressBlock []byte) (message_layer.AddressBlock, error) {
	msg, err := message_layer.ReadMessage(packet_layer.NewCursor(messageWithAddresses(addressBlock)))
	assert.NoError(t, err)

	it := msg.AddressTLVs()
	it.Next()
	return it.AddressBlock(), it.Err()
}

func TestAddressBlockZeroTail(t *testing.T) {
	block, err := readAddressBlock(t, []byte{
		0x02, 0xa0,       // 2 addresses, head + zero tail
		0x02, 0xc0, 0xa8, // head
		0x01,             // zero tail of 1 byte
		0x01, 0x02,       // mids
	})
	assert.NoError(t, err)

	assert.True(t, block.ZeroTail)
	assert.Nil(t, block.Tail)
	assert.Equal(t, []byte{192, 168, 1, 0}, block.Address(0))
	assert.Equal(t, []byte{192, 168, 2, 0}, block.Address(1))
}

func TestAddressBlockFullTailAndPrefixes(t *testing.T) {
	block, err := readAddressBlock(t, []byte{
		0x02, 0x48,             // 2 addresses, full tail + multi prefix
		0x02, 0x00, 0x01,       // tail
		0x0a, 0x00, 0x0b, 0x00, // mids
		0x10, 0x18,             // prefix lengths
	})
	assert.NoError(t, err)

	assert.Equal(t, []byte{10, 0, 0, 1}, block.Address(0))
	assert.Equal(t, []byte{11, 0, 0, 1}, block.Address(1))
	assert.Equal(t, 16, block.PrefixLength(0))
	assert.Equal(t, 24, block.PrefixLength(1))
}

func TestAddressBlockSinglePrefix(t *testing.T) {
	block, err := readAddressBlock(t, []byte{
		0x01, 0x10,
		0x0a, 0x00, 0x00, 0x00,
		0x08,
	})
	assert.NoError(t, err)

	assert.Equal(t, 8, block.PrefixLength(0))
}

func TestAddressBlockPrefixTooLarge(t *testing.T) {
	_, err := readAddressBlock(t, []byte{
		0x01, 0x10,
		0x0a, 0x00, 0x00, 0x00,
		0x21,
	})
	assert.ErrorIs(t, err, packet_layer.ErrInvalid)
}

func TestAddressBlockHeadLongerThanAddress(t *testing.T) {
	_, err := readAddressBlock(t, []byte{
		0x01, 0x80,
		0x05, 0x01, 0x02, 0x03, 0x04, 0x05,
	})
	assert.ErrorIs(t, err, packet_layer.ErrInvalid)
}

func TestAddressBlockTruncatedMids(t *testing.T) {
	_, err := readAddressBlock(t, []byte{
		0x03, 0x00,
		0x0a, 0x00, 0x00, 0x01,
	})
	assert.ErrorIs(t, err, packet_layer.ErrUnexpectedEOF)
}

func TestAddressBlockIndexOutOfRange(t *testing.T) {
	block, err := readAddressBlock(t, []byte{
		0x02, 0x48,
		0x02, 0x00, 0x01,
		0x0a, 0x00, 0x0b, 0x00,
		0x10, 0x18,
	})
	assert.NoError(t, err)

	assert.PanicsWithValue(t, "AddressBlock.PrefixLength: index 2 out of range [0,2)", func() { block.PrefixLength(2) })
	assert.PanicsWithValue(t, "AddressBlock.PrefixLength: index -1 out of range [0,2)", func() { block.PrefixLength(-1) })
	assert.PanicsWithValue(t, "AddressBlock.Address: index 2 out of range [0,2)", func() { block.Address(2) })
}

func TestAddressBlockPrefixLengthOutOfRangeWithoutPrefixes(t *testing.T) {
	block, err := readAddressBlock(t, []byte{
		0x01, 0x00,
		0x0a, 0x00, 0x00, 0x01,
	})
	assert.NoError(t, err)

	assert.Equal(t, 32, block.PrefixLength(0))
	assert.Panics(t, func() { block.PrefixLength(1) })
}
