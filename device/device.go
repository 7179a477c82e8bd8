package device

import (
	"time"

	"github.com/starling-protocol/rfc5444/message_layer"
	"github.com/starling-protocol/rfc5444/packet_layer"
)

// A DeviceAddress represents the address of a neighbour packets are received from
type DeviceAddress string

type ProtocolOptions struct {
	// Datagrams larger than MaxPacketSize are dropped without being decoded.
	// A value of 0 disables the limit.
	MaxPacketSize int
	// DecodeAddressBlocks makes the protocol decode every address block and TLV of a message
	// before delivering it, dropping the rest of the packet on the first malformed message.
	DecodeAddressBlocks bool
	// LogPacketBytes includes the base64 encoded packet in the receive log.
	LogPacketBytes bool
}

func DefaultProtocolOptions() *ProtocolOptions {
	return &ProtocolOptions{
		// largest UDP payload over IPv4
		MaxPacketSize:       65507,
		DecodeAddressBlocks: true,
		LogPacketBytes:      false,
	}
}

// The device that the protocol uses to interact with the environment.
type Device interface {
	// Log prints a message to the device log.
	Log(message string)
	// ProcessMessage is called for every message decoded from a packet received from address.
	// The message borrows from the received datagram and must be copied to be retained.
	ProcessMessage(address DeviceAddress, header packet_layer.PacketHeader, message message_layer.Message)
	// Now returns the current time of the device
	Now() time.Time
}
