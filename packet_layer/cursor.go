package packet_layer

import (
	"encoding/binary"
	"fmt"
)

// Cursor is a forward-only reader over an immutable byte buffer.
// A read that fails leaves the position untouched.
type Cursor struct {
	buf []byte
	pos int
}

func NewCursor(buf []byte) *Cursor {
	return &Cursor{
		buf: buf,
		pos: 0,
	}
}

// Pos returns the number of bytes consumed so far.
func (cursor *Cursor) Pos() int {
	return cursor.pos
}

// Remaining returns the number of bytes left to read, never negative.
func (cursor *Cursor) Remaining() int {
	return len(cursor.buf) - cursor.pos
}

func (cursor *Cursor) IsEOF() bool {
	return cursor.Remaining() == 0
}

// Rest returns the unread part of the buffer without consuming it.
// The capacity of the result is clipped so appending to it cannot overwrite the caller's buffer.
func (cursor *Cursor) Rest() []byte {
	return cursor.buf[cursor.pos:len(cursor.buf):len(cursor.buf)]
}

func (cursor *Cursor) ensure(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: negative read length %d", ErrInvalid, n)
	}
	if cursor.Remaining() < n {
		return ErrUnexpectedEOF
	}
	return nil
}

func (cursor *Cursor) ReadU8() (uint8, error) {
	if err := cursor.ensure(1); err != nil {
		return 0, err
	}

	value := cursor.buf[cursor.pos]
	cursor.pos += 1
	return value, nil
}

// ReadU16BE reads two bytes in network byte order.
func (cursor *Cursor) ReadU16BE() (uint16, error) {
	if err := cursor.ensure(2); err != nil {
		return 0, err
	}

	value := binary.BigEndian.Uint16(cursor.buf[cursor.pos:])
	cursor.pos += 2
	return value, nil
}

// ReadBytes returns the next n bytes as a borrowed sub-slice of the buffer.
func (cursor *Cursor) ReadBytes(n int) ([]byte, error) {
	if err := cursor.ensure(n); err != nil {
		return nil, err
	}

	end := cursor.pos + n
	bytes := cursor.buf[cursor.pos:end:end]
	cursor.pos = end
	return bytes, nil
}

func (cursor *Cursor) Skip(n int) error {
	if err := cursor.ensure(n); err != nil {
		return err
	}

	cursor.pos += n
	return nil
}
