package message_layer

import (
	"fmt"

	"github.com/starling-protocol/rfc5444/packet_layer"
)

// Message is a decoded <message>. All slices borrow from the packet buffer.
type Message struct {
	Header   MessageHeader
	TLVBlock TLVBlock
	// Bytes is the complete encoded message, header included.
	Bytes []byte

	addressTLVs []byte
}

// ReadMessage decodes one message from the cursor, leaving it positioned at the next message.
func ReadMessage(cursor *packet_layer.Cursor) (Message, error) {
	start := cursor.Pos()
	rest := cursor.Rest()

	header, err := readMessageHeader(cursor)
	if err != nil {
		return Message{}, err
	}

	tlvBlock, err := readTLVBlock(cursor)
	if err != nil {
		return Message{}, fmt.Errorf("message tlv block: %w", err)
	}

	consumed := cursor.Pos() - start
	if header.Size < consumed {
		return Message{}, fmt.Errorf("%w: message size %d is smaller than its %d byte header", packet_layer.ErrInvalid, header.Size, consumed)
	}

	addressTLVs, err := cursor.ReadBytes(header.Size - consumed)
	if err != nil {
		return Message{}, fmt.Errorf("reading address blocks: %w", err)
	}

	return Message{
		Header:      header,
		TLVBlock:    tlvBlock,
		Bytes:       rest[:header.Size:header.Size],
		addressTLVs: addressTLVs,
	}, nil
}

// AddressTLVs returns an iterator over the (<address-block><tlv-block>)* part of the message.
func (msg *Message) AddressTLVs() *AddressTLVIter {
	return &AddressTLVIter{
		cursor:        packet_layer.NewCursor(msg.addressTLVs),
		addressLength: msg.Header.AddressLength,
	}
}

// AddressTLVIter yields address blocks along with their TLV blocks.
type AddressTLVIter struct {
	cursor        *packet_layer.Cursor
	addressLength int
	block         AddressBlock
	tlvBlock      TLVBlock
	err           error
}

func (it *AddressTLVIter) Next() bool {
	if it.err != nil || it.cursor.IsEOF() {
		return false
	}

	it.block, it.err = readAddressBlock(it.cursor, it.addressLength)
	if it.err != nil {
		return false
	}

	it.tlvBlock, it.err = readTLVBlock(it.cursor)
	if it.err != nil {
		it.err = fmt.Errorf("address tlv block: %w", it.err)
		return false
	}

	return true
}

func (it *AddressTLVIter) AddressBlock() AddressBlock {
	return it.block
}

func (it *AddressTLVIter) TLVBlock() TLVBlock {
	return it.tlvBlock
}

func (it *AddressTLVIter) Err() error {
	return it.err
}

// MessageIter yields the messages of a message sequence. It stops at the first malformed message.
type MessageIter struct {
	cursor *packet_layer.Cursor
	msg    Message
	err    error
}

func NewMessageIter(messages []byte) *MessageIter {
	return &MessageIter{
		cursor: packet_layer.NewCursor(messages),
	}
}

// Messages returns an iterator over the messages of a decoded packet.
func Messages(packet *packet_layer.Packet) *MessageIter {
	return NewMessageIter(packet.Messages)
}

func (it *MessageIter) Next() bool {
	if it.err != nil || it.cursor.IsEOF() {
		return false
	}

	it.msg, it.err = ReadMessage(it.cursor)
	return it.err == nil
}

func (it *MessageIter) Message() Message {
	return it.msg
}

func (it *MessageIter) Err() error {
	return it.err
}

// Validate walks every address block and TLV of the message and returns the first decoding error.
func (msg *Message) Validate() error {
	tlvs := msg.TLVBlock.Iter()
	for tlvs.Next() {
	}
	if err := tlvs.Err(); err != nil {
		return err
	}

	addrs := msg.AddressTLVs()
	for addrs.Next() {
		tlvs := addrs.TLVBlock().Iter()
		for tlvs.Next() {
		}
		if err := tlvs.Err(); err != nil {
			return err
		}
	}
	return addrs.Err()
}
