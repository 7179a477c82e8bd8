package testutils

import (
	"testing"
	"time"

	"github.com/starling-protocol/rfc5444/device"
	"github.com/starling-protocol/rfc5444/message_layer"
	"github.com/starling-protocol/rfc5444/packet_layer"
)

type ReceivedMessage struct {
	Address      device.DeviceAddress
	PacketHeader packet_layer.PacketHeader
	Message      message_layer.Message
}

type DeviceMock struct {
	t                testing.TB
	now              time.Time
	Logs             []string
	MessagesReceived []ReceivedMessage
}

func NewDeviceMock(t testing.TB) *DeviceMock {
	return &DeviceMock{
		t:                t,
		now:              time.Unix(1700000000, 0),
		Logs:             []string{},
		MessagesReceived: []ReceivedMessage{},
	}
}

// Log implements device.Device.
func (d *DeviceMock) Log(message string) {
	d.t.Log(message)
	d.Logs = append(d.Logs, message)
}

// ProcessMessage implements device.Device.
func (d *DeviceMock) ProcessMessage(address device.DeviceAddress, header packet_layer.PacketHeader, message message_layer.Message) {
	d.MessagesReceived = append(d.MessagesReceived, ReceivedMessage{
		Address:      address,
		PacketHeader: header,
		Message:      message,
	})
}

// Now implements device.Device.
func (d *DeviceMock) Now() time.Time {
	return d.now
}

// Advance moves the clock of the device forward.
func (d *DeviceMock) Advance(duration time.Duration) {
	d.now = d.now.Add(duration)
}

func (d *DeviceMock) PopLastMessage() ReceivedMessage {
	if len(d.MessagesReceived) == 0 {
		d.t.Fatalf("Attempted to pop a message from an empty list in device")
	}
	msg := d.MessagesReceived[len(d.MessagesReceived)-1]
	d.MessagesReceived = d.MessagesReceived[:len(d.MessagesReceived)-1]
	return msg
}
