package packet_layer

import "fmt"

// Version is the only RFC 5444 packet version this decoder accepts.
const Version uint8 = 0

// PacketHeader is the decoded <pkt-header> of an RFC 5444 packet.
type PacketHeader struct {
	Version   uint8
	HasSeqNum bool
	// SeqNum is only meaningful when HasSeqNum is set, otherwise it is zero.
	SeqNum      uint16
	HasTLVBlock bool
}

type packetFlags struct {
	HasSeqNum   bool
	HasTLVBlock bool
}

// packetFlagsFromNibble decodes the low nibble of the first packet byte.
// The two reserved low-order bits are ignored.
func packetFlagsFromNibble(nibble byte) packetFlags {
	readBit := func(bitIdx byte) bool {
		return nibble&(1<<(3-bitIdx)) != 0
	}

	flags := packetFlags{}
	flags.HasSeqNum = readBit(0)
	flags.HasTLVBlock = readBit(1)

	return flags
}

func readPacketHeader(cursor *Cursor) (PacketHeader, error) {
	b, err := cursor.ReadU8()
	if err != nil {
		return PacketHeader{}, fmt.Errorf("reading version and flags: %w", err)
	}

	version := b >> 4
	if version != Version {
		return PacketHeader{}, fmt.Errorf("%w: unsupported version %d", ErrInvalid, version)
	}

	flags := packetFlagsFromNibble(b & 0x0f)
	header := PacketHeader{
		Version:     version,
		HasSeqNum:   flags.HasSeqNum,
		HasTLVBlock: flags.HasTLVBlock,
	}

	if flags.HasSeqNum {
		header.SeqNum, err = cursor.ReadU16BE()
		if err != nil {
			return PacketHeader{}, fmt.Errorf("reading sequence number: %w", err)
		}
	}

	return header, nil
}
