package packet_layer

import "fmt"

// skipTLVBlock advances the cursor past a <tlv-block> without decoding its entries
// and returns the bytes of its <tlv>* part.
func skipTLVBlock(cursor *Cursor) ([]byte, error) {
	length, err := cursor.ReadU16BE()
	if err != nil {
		return nil, fmt.Errorf("reading tlv block length: %w", err)
	}

	block, err := cursor.ReadBytes(int(length))
	if err != nil {
		return nil, fmt.Errorf("skipping tlv block of %d bytes: %w", length, err)
	}

	return block, nil
}
