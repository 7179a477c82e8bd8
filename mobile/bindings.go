package mobile

import (
	"github.com/starling-protocol/rfc5444"
	"github.com/starling-protocol/rfc5444/device"
	"github.com/starling-protocol/rfc5444/packet_layer"
)

type ProtocolOptions struct {
	MaxPacketSize       int
	DecodeAddressBlocks bool
}

func (p *ProtocolOptions) bindings() *device.ProtocolOptions {
	if p == nil {
		return nil
	}

	options := device.DefaultProtocolOptions()
	options.MaxPacketSize = p.MaxPacketSize
	options.DecodeAddressBlocks = p.DecodeAddressBlocks
	return options
}

type Protocol struct {
	proto *rfc5444.Protocol
}

func NewProtocol(device Device, options *ProtocolOptions) *Protocol {
	return &Protocol{
		proto: rfc5444.NewProtocol(newDeviceWrapper(device), options.bindings()),
	}
}

func (p *Protocol) DeinitCleanup() {
	p.proto = nil
}

func (p *Protocol) OnConnection(address string) {
	p.proto.OnConnection(device.DeviceAddress(address))
}

func (p *Protocol) OnDisconnection(address string) {
	p.proto.OnDisconnection(device.DeviceAddress(address))
}

// ReceivePacket decodes a datagram and returns the number of messages passed to the device.
func (p *Protocol) ReceivePacket(address string, packet []byte) (int, error) {
	return p.proto.ReceivePacket(device.DeviceAddress(address), packet)
}

// Packet is a decoded packet header along with copies of its TLV block and messages.
type Packet struct {
	packet packet_layer.Packet
}

// ReadPacket decodes the header of an RFC 5444 packet.
// The input is copied since the caller's buffer does not outlive the call across the binding.
func ReadPacket(buf []byte) (*Packet, error) {
	owned := make([]byte, len(buf))
	copy(owned, buf)

	packet, err := packet_layer.ReadPacket(owned)
	if err != nil {
		return nil, err
	}

	return &Packet{packet: packet}, nil
}

func (p *Packet) Version() int32 {
	return int32(p.packet.Header.Version)
}

func (p *Packet) HasSeqNum() bool {
	return p.packet.Header.HasSeqNum
}

func (p *Packet) SeqNum() int32 {
	return int32(p.packet.Header.SeqNum)
}

func (p *Packet) HasTLVBlock() bool {
	return p.packet.Header.HasTLVBlock
}

func (p *Packet) TLVBlock() []byte {
	return p.packet.TLVBlock
}

func (p *Packet) Messages() []byte {
	return p.packet.Messages
}

// ErrorCode returns 0 on success, 1 (-EOF) for truncated input and -22 (-EINVAL) for any other error
// returned by ReadPacket or ReceivePacket.
func ErrorCode(err error) int {
	return packet_layer.ErrorCode(err)
}
