// An implementation of the RFC 5444 packet and message format
package rfc5444

import (
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/starling-protocol/rfc5444/device"
	"github.com/starling-protocol/rfc5444/message_layer"
	"github.com/starling-protocol/rfc5444/packet_layer"
	"github.com/starling-protocol/rfc5444/utils"
)

// NeighbourStats counts what has been received from a single neighbour.
type NeighbourStats struct {
	Packets  uint64
	Messages uint64
	// Truncated counts packets dropped because of ErrUnexpectedEOF.
	Truncated uint64
	// Invalid counts packets dropped for any other reason.
	Invalid uint64

	HasLastSeqNum bool
	LastSeqNum    uint16
	LastReceived  time.Time
}

// The main protocol object which receives packets from neighbours and hands their messages to the device
type Protocol struct {
	dev     device.Device
	options device.ProtocolOptions

	mu         sync.Mutex
	neighbours map[device.DeviceAddress]*NeighbourStats
}

// NewProtocol constructs a new Protocol given device and options.
func NewProtocol(dev device.Device, options *device.ProtocolOptions) *Protocol {
	if options == nil {
		options = device.DefaultProtocolOptions()
	}

	return &Protocol{
		dev:        dev,
		options:    *options,
		neighbours: make(map[device.DeviceAddress]*NeighbourStats),
	}
}

func (proto *Protocol) log(body ...any) {
	proto.dev.Log(fmt.Sprintf("proto:%s", fmt.Sprint(body...)))
}

func (proto *Protocol) logf(msg string, args ...any) {
	proto.log(fmt.Sprintf(msg, args...))
}

// OnConnection should be called when a new neighbour has been discovered.
func (proto *Protocol) OnConnection(address device.DeviceAddress) {
	proto.logf("on_connection:%s", address)

	proto.mu.Lock()
	defer proto.mu.Unlock()
	if _, found := proto.neighbours[address]; !found {
		proto.neighbours[address] = &NeighbourStats{}
	}
}

// OnDisconnection should be called when a neighbour is gone, it forgets its statistics.
func (proto *Protocol) OnDisconnection(address device.DeviceAddress) {
	proto.logf("on_disconnection:%s", address)

	proto.mu.Lock()
	defer proto.mu.Unlock()
	delete(proto.neighbours, address)
}

// ReceivePacket should be called when a datagram is received from a neighbour.
// Every message of the packet is passed to Device.ProcessMessage before ReceivePacket returns.
// It returns the number of messages delivered and the first decoding error, if any.
func (proto *Protocol) ReceivePacket(address device.DeviceAddress, datagram []byte) (int, error) {
	if proto.options.LogPacketBytes {
		proto.logf("receive_packet:%s:%s", address, base64.StdEncoding.EncodeToString(datagram))
	} else {
		proto.logf("receive_packet:%s:%d", address, len(datagram))
	}

	delivered, err := proto.receivePacket(address, datagram)
	proto.record(address, delivered, err)

	if err != nil {
		proto.logf("receive_packet:error:%s '%v'", address, err)
	} else {
		proto.logf("receive_packet:%s 'decoded %d message(s)'", address, delivered)
	}

	return delivered, err
}

func (proto *Protocol) receivePacket(address device.DeviceAddress, datagram []byte) (int, error) {
	if proto.options.MaxPacketSize > 0 && len(datagram) > proto.options.MaxPacketSize {
		return 0, fmt.Errorf("%w: packet of %d bytes exceeds max packet size %d", packet_layer.ErrInvalid, len(datagram), proto.options.MaxPacketSize)
	}

	packet, err := packet_layer.ReadPacket(datagram)
	if err != nil {
		return 0, fmt.Errorf("failed to decode packet: %w", err)
	}

	proto.mu.Lock()
	stats := proto.neighbour(address)
	stats.HasLastSeqNum = packet.Header.HasSeqNum
	stats.LastSeqNum = packet.Header.SeqNum
	proto.mu.Unlock()

	delivered := 0
	msgs := message_layer.Messages(&packet)
	for msgs.Next() {
		msg := msgs.Message()

		if proto.options.DecodeAddressBlocks {
			if err := msg.Validate(); err != nil {
				return delivered, fmt.Errorf("failed to decode message %d of type %d: %w", delivered, msg.Header.Type, err)
			}
		}

		proto.dev.ProcessMessage(address, packet.Header, msg)
		delivered++
	}

	if err := msgs.Err(); err != nil {
		return delivered, fmt.Errorf("failed to decode message %d: %w", delivered, err)
	}

	return delivered, nil
}

// neighbour must be called with mu held.
func (proto *Protocol) neighbour(address device.DeviceAddress) *NeighbourStats {
	stats, found := proto.neighbours[address]
	if !found {
		stats = &NeighbourStats{}
		proto.neighbours[address] = stats
	}
	return stats
}

func (proto *Protocol) record(address device.DeviceAddress, delivered int, err error) {
	proto.mu.Lock()
	defer proto.mu.Unlock()

	stats := proto.neighbour(address)
	stats.Packets++
	stats.Messages += uint64(delivered)
	stats.LastReceived = proto.dev.Now()

	switch {
	case err == nil:
	case errors.Is(err, packet_layer.ErrUnexpectedEOF):
		stats.Truncated++
	default:
		stats.Invalid++
	}
}

// Stats returns a copy of the statistics of a neighbour.
func (proto *Protocol) Stats(address device.DeviceAddress) (NeighbourStats, bool) {
	proto.mu.Lock()
	defer proto.mu.Unlock()

	stats, found := proto.neighbours[address]
	if !found {
		return NeighbourStats{}, false
	}
	return *stats, true
}

// Neighbours returns the addresses of all known neighbours in sorted order.
func (proto *Protocol) Neighbours() []device.DeviceAddress {
	proto.mu.Lock()
	defer proto.mu.Unlock()

	return utils.SortedMapKeys(proto.neighbours)
}
