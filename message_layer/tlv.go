package message_layer

import (
	"fmt"

	"github.com/starling-protocol/rfc5444/packet_layer"
)

// TLV is a single decoded <tlv>. Value borrows from the packet buffer.
type TLV struct {
	Type       uint8
	HasTypeExt bool
	TypeExt    uint8

	HasStartIndex bool
	StartIndex    uint8
	HasStopIndex  bool
	StopIndex     uint8

	// IsMultiValue reports that Value holds one equally sized value per indexed address.
	IsMultiValue bool
	HasValue     bool
	Value        []byte
}

// FullType returns the 16 bit extended type, type*256 + type-ext.
func (tlv *TLV) FullType() uint16 {
	return uint16(tlv.Type)<<8 | uint16(tlv.TypeExt)
}

type tlvFlags struct {
	HasTypeExt     bool
	HasSingleIndex bool
	HasMultiIndex  bool
	HasValue       bool
	HasExtLen      bool
	IsMultiValue   bool
}

func tlvFlagsFromByte(b byte) tlvFlags {
	readBit := func(bitIdx byte) bool {
		return b&(1<<(7-bitIdx)) != 0
	}

	flags := tlvFlags{}
	flags.HasTypeExt = readBit(0)
	flags.HasSingleIndex = readBit(1)
	flags.HasMultiIndex = readBit(2)
	flags.HasValue = readBit(3)
	flags.HasExtLen = readBit(4)
	flags.IsMultiValue = readBit(5)

	return flags
}

func readTLV(cursor *packet_layer.Cursor) (TLV, error) {
	tlvType, err := cursor.ReadU8()
	if err != nil {
		return TLV{}, fmt.Errorf("reading tlv type: %w", err)
	}

	b, err := cursor.ReadU8()
	if err != nil {
		return TLV{}, fmt.Errorf("reading tlv flags: %w", err)
	}
	flags := tlvFlagsFromByte(b)

	tlv := TLV{
		Type:         tlvType,
		IsMultiValue: flags.IsMultiValue,
	}

	if flags.HasTypeExt {
		tlv.HasTypeExt = true
		if tlv.TypeExt, err = cursor.ReadU8(); err != nil {
			return TLV{}, fmt.Errorf("reading tlv type extension: %w", err)
		}
	}

	// a multi index takes precedence when both index flags are set
	if flags.HasSingleIndex || flags.HasMultiIndex {
		tlv.HasStartIndex = true
		if tlv.StartIndex, err = cursor.ReadU8(); err != nil {
			return TLV{}, fmt.Errorf("reading tlv start index: %w", err)
		}
	}
	if flags.HasMultiIndex {
		tlv.HasStopIndex = true
		if tlv.StopIndex, err = cursor.ReadU8(); err != nil {
			return TLV{}, fmt.Errorf("reading tlv stop index: %w", err)
		}
	}

	if flags.HasValue {
		var length int
		if flags.HasExtLen {
			l, err := cursor.ReadU16BE()
			if err != nil {
				return TLV{}, fmt.Errorf("reading tlv length: %w", err)
			}
			length = int(l)
		} else {
			l, err := cursor.ReadU8()
			if err != nil {
				return TLV{}, fmt.Errorf("reading tlv length: %w", err)
			}
			length = int(l)
		}

		tlv.HasValue = true
		if tlv.Value, err = cursor.ReadBytes(length); err != nil {
			return TLV{}, fmt.Errorf("reading tlv value of %d bytes: %w", length, err)
		}
	}

	return tlv, nil
}

// TLVBlock is the <tlv>* part of a <tlv-block>, borrowed from the packet buffer.
type TLVBlock []byte

func readTLVBlock(cursor *packet_layer.Cursor) (TLVBlock, error) {
	length, err := cursor.ReadU16BE()
	if err != nil {
		return nil, fmt.Errorf("reading tlv block length: %w", err)
	}

	block, err := cursor.ReadBytes(int(length))
	if err != nil {
		return nil, fmt.Errorf("reading tlv block of %d bytes: %w", length, err)
	}

	return TLVBlock(block), nil
}

// Iter returns an iterator over the TLVs of the block.
//
//	it := block.Iter()
//	for it.Next() {
//		tlv := it.TLV()
//	}
//	if err := it.Err(); err != nil {
//	}
func (block TLVBlock) Iter() *TLVIter {
	return &TLVIter{
		cursor: packet_layer.NewCursor(block),
	}
}

// TLVIter yields the TLVs of a TLVBlock in order. It stops at the first malformed TLV.
type TLVIter struct {
	cursor *packet_layer.Cursor
	tlv    TLV
	err    error
}

func (it *TLVIter) Next() bool {
	if it.err != nil || it.cursor.IsEOF() {
		return false
	}

	it.tlv, it.err = readTLV(it.cursor)
	return it.err == nil
}

func (it *TLVIter) TLV() TLV {
	return it.tlv
}

func (it *TLVIter) Err() error {
	return it.err
}
