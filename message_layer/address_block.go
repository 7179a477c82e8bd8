package message_layer

import (
	"fmt"

	"github.com/starling-protocol/rfc5444/packet_layer"
)

// AddressBlock is a decoded <address-block>. The addresses are kept in their compressed
// head/mid/tail form; use Address to reconstruct one.
type AddressBlock struct {
	NumAddr       int
	AddressLength int

	Head []byte
	// Tail holds the shared tail bytes. When ZeroTail is set, Tail is nil and
	// TailLength zero bytes end every address.
	Tail       []byte
	TailLength int
	ZeroTail   bool
	// Mid holds NumAddr consecutive mids of equal length.
	Mid []byte
	// PrefixLengths is empty, a single shared prefix length or one per address.
	PrefixLengths []byte
}

type addressBlockFlags struct {
	HasHead         bool
	HasFullTail     bool
	HasZeroTail     bool
	HasSinglePrelen bool
	HasMultiPrelen  bool
}

func addressBlockFlagsFromByte(b byte) addressBlockFlags {
	readBit := func(bitIdx byte) bool {
		return b&(1<<(7-bitIdx)) != 0
	}

	flags := addressBlockFlags{}
	flags.HasHead = readBit(0)
	flags.HasFullTail = readBit(1)
	flags.HasZeroTail = readBit(2)
	flags.HasSinglePrelen = readBit(3)
	flags.HasMultiPrelen = readBit(4)

	return flags
}

func readAddressBlock(cursor *packet_layer.Cursor, addressLength int) (AddressBlock, error) {
	numAddr, err := cursor.ReadU8()
	if err != nil {
		return AddressBlock{}, fmt.Errorf("reading address count: %w", err)
	}

	b, err := cursor.ReadU8()
	if err != nil {
		return AddressBlock{}, fmt.Errorf("reading address block flags: %w", err)
	}
	flags := addressBlockFlagsFromByte(b)

	block := AddressBlock{
		NumAddr:       int(numAddr),
		AddressLength: addressLength,
	}

	headLength := 0
	if flags.HasHead {
		l, err := cursor.ReadU8()
		if err != nil {
			return AddressBlock{}, fmt.Errorf("reading head length: %w", err)
		}
		headLength = int(l)

		if block.Head, err = cursor.ReadBytes(headLength); err != nil {
			return AddressBlock{}, fmt.Errorf("reading head: %w", err)
		}
	}

	// full and zero tail together mean no tail at all
	if flags.HasFullTail != flags.HasZeroTail {
		l, err := cursor.ReadU8()
		if err != nil {
			return AddressBlock{}, fmt.Errorf("reading tail length: %w", err)
		}
		block.TailLength = int(l)

		if flags.HasFullTail {
			if block.Tail, err = cursor.ReadBytes(block.TailLength); err != nil {
				return AddressBlock{}, fmt.Errorf("reading tail: %w", err)
			}
		} else {
			block.ZeroTail = true
		}
	}

	midLength := addressLength - headLength - block.TailLength
	if midLength < 0 {
		return AddressBlock{}, fmt.Errorf("%w: head and tail of %d bytes exceed address length %d", packet_layer.ErrInvalid, headLength+block.TailLength, addressLength)
	}

	if block.Mid, err = cursor.ReadBytes(midLength * block.NumAddr); err != nil {
		return AddressBlock{}, fmt.Errorf("reading mids: %w", err)
	}

	prefixLengthFields := 0
	switch {
	case flags.HasSinglePrelen && !flags.HasMultiPrelen:
		prefixLengthFields = 1
	case flags.HasMultiPrelen && !flags.HasSinglePrelen:
		prefixLengthFields = block.NumAddr
	}

	if block.PrefixLengths, err = cursor.ReadBytes(prefixLengthFields); err != nil {
		return AddressBlock{}, fmt.Errorf("reading prefix lengths: %w", err)
	}

	for _, prefix := range block.PrefixLengths {
		if int(prefix) > 8*addressLength {
			return AddressBlock{}, fmt.Errorf("%w: prefix length %d exceeds address length %d", packet_layer.ErrInvalid, prefix, addressLength)
		}
	}

	return block, nil
}

func (block *AddressBlock) midLength() int {
	return block.AddressLength - len(block.Head) - block.TailLength
}

// Address reconstructs the i'th address of the block into a newly allocated slice.
func (block *AddressBlock) Address(i int) []byte {
	if i < 0 || i >= block.NumAddr {
		panic(fmt.Sprintf("AddressBlock.Address: index %d out of range [0,%d)", i, block.NumAddr))
	}

	midLength := block.midLength()

	address := make([]byte, 0, block.AddressLength)
	address = append(address, block.Head...)
	address = append(address, block.Mid[i*midLength:(i+1)*midLength]...)
	if block.ZeroTail {
		address = append(address, make([]byte, block.TailLength)...)
	} else {
		address = append(address, block.Tail...)
	}

	return address
}

// PrefixLength returns the prefix length in bits of the i'th address.
// Addresses without an encoded prefix length are full length.
func (block *AddressBlock) PrefixLength(i int) int {
	if i < 0 || i >= block.NumAddr {
		panic(fmt.Sprintf("AddressBlock.PrefixLength: index %d out of range [0,%d)", i, block.NumAddr))
	}

	switch len(block.PrefixLengths) {
	case 0:
		return 8 * block.AddressLength
	case 1:
		return int(block.PrefixLengths[0])
	default:
		return int(block.PrefixLengths[i])
	}
}
