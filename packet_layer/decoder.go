package packet_layer

// Packet is a decoded RFC 5444 packet.
//
// TLVBlock and Messages borrow from the buffer given to ReadPacket,
// which must outlive any use of them.
type Packet struct {
	Header PacketHeader
	// TLVBlock holds the undecoded <tlv>* bytes of the packet TLV block,
	// nil when Header.HasTLVBlock is false.
	TLVBlock []byte
	// Messages holds every byte following the packet header.
	Messages []byte
	// MessagesOffset is the position of Messages in the input buffer,
	// so MessagesOffset + len(Messages) == len(input).
	MessagesOffset int
}

// HeaderLength returns the number of bytes taken up by the packet header including its TLV block.
func (packet *Packet) HeaderLength() int {
	return packet.MessagesOffset
}

// ReadPacket decodes the packet header of buf and returns a view of the message sequence that follows it.
// It returns ErrUnexpectedEOF when buf is truncated and ErrInvalid when the version is not supported.
// On error the returned Packet is the zero value.
func ReadPacket(buf []byte) (Packet, error) {
	cursor := Cursor{buf: buf}

	header, err := readPacketHeader(&cursor)
	if err != nil {
		return Packet{}, err
	}

	var tlvBlock []byte
	if header.HasTLVBlock {
		tlvBlock, err = skipTLVBlock(&cursor)
		if err != nil {
			return Packet{}, err
		}
	}

	return Packet{
		Header:         header,
		TLVBlock:       tlvBlock,
		Messages:       cursor.Rest(),
		MessagesOffset: cursor.Pos(),
	}, nil
}
