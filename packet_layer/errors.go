package packet_layer

import "errors"

var (
	// ErrUnexpectedEOF is returned when the buffer ends before a field could be read.
	// Retrying with the same bytes is pointless, but the packet may decode once more bytes are available.
	ErrUnexpectedEOF = errors.New("unexpected end of packet")
	// ErrInvalid is returned when a field is present but holds a value that cannot be decoded,
	// e.g. an unsupported packet version.
	ErrInvalid = errors.New("invalid packet")
)

const (
	codeEOF    = -1 // libc EOF
	codeEINVAL = 22 // EINVAL
)

// ErrorCode maps an error returned by this module to an integer status code:
// 0 for nil, -EOF (1) for truncated input and -EINVAL (-22) for everything else.
func ErrorCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrUnexpectedEOF):
		return -codeEOF
	default:
		return -codeEINVAL
	}
}
