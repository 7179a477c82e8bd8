package message_layer

import (
	"fmt"

	"github.com/starling-protocol/rfc5444/packet_layer"
)

// MessageType identifies the protocol a message belongs to, e.g. 1 for NHDP HELLO.
type MessageType uint8

// MessageHeader is a decoded <msg-header>.
type MessageHeader struct {
	Type MessageType
	// AddressLength is the length in bytes of every address in the message, 1 to 16.
	AddressLength int
	// Size is the total size of the message in bytes, including the header.
	Size int

	HasOrigAddr bool
	OrigAddr    []byte
	HasHopLimit bool
	HopLimit    uint8
	HasHopCount bool
	HopCount    uint8
	HasSeqNum   bool
	SeqNum      uint16
}

type messageFlags struct {
	HasOrigAddr bool
	HasHopLimit bool
	HasHopCount bool
	HasSeqNum   bool
}

func messageFlagsFromByte(b byte) messageFlags {
	readBit := func(bitIdx byte) bool {
		return b&(1<<(7-bitIdx)) != 0
	}

	flags := messageFlags{}
	flags.HasOrigAddr = readBit(0)
	flags.HasHopLimit = readBit(1)
	flags.HasHopCount = readBit(2)
	flags.HasSeqNum = readBit(3)

	return flags
}

func readMessageHeader(cursor *packet_layer.Cursor) (MessageHeader, error) {
	msgType, err := cursor.ReadU8()
	if err != nil {
		return MessageHeader{}, fmt.Errorf("reading message type: %w", err)
	}

	b, err := cursor.ReadU8()
	if err != nil {
		return MessageHeader{}, fmt.Errorf("reading message flags: %w", err)
	}
	flags := messageFlagsFromByte(b)

	size, err := cursor.ReadU16BE()
	if err != nil {
		return MessageHeader{}, fmt.Errorf("reading message size: %w", err)
	}

	header := MessageHeader{
		Type:          MessageType(msgType),
		AddressLength: int(b&0x0f) + 1,
		Size:          int(size),
		HasOrigAddr:   flags.HasOrigAddr,
		HasHopLimit:   flags.HasHopLimit,
		HasHopCount:   flags.HasHopCount,
		HasSeqNum:     flags.HasSeqNum,
	}

	if flags.HasOrigAddr {
		if header.OrigAddr, err = cursor.ReadBytes(header.AddressLength); err != nil {
			return MessageHeader{}, fmt.Errorf("reading originator address: %w", err)
		}
	}

	if flags.HasHopLimit {
		if header.HopLimit, err = cursor.ReadU8(); err != nil {
			return MessageHeader{}, fmt.Errorf("reading hop limit: %w", err)
		}
	}

	if flags.HasHopCount {
		if header.HopCount, err = cursor.ReadU8(); err != nil {
			return MessageHeader{}, fmt.Errorf("reading hop count: %w", err)
		}
	}

	if flags.HasSeqNum {
		if header.SeqNum, err = cursor.ReadU16BE(); err != nil {
			return MessageHeader{}, fmt.Errorf("reading message sequence number: %w", err)
		}
	}

	return header, nil
}
