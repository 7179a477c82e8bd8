package mobile

import (
	"time"

	"github.com/starling-protocol/rfc5444/device"
	"github.com/starling-protocol/rfc5444/message_layer"
	"github.com/starling-protocol/rfc5444/packet_layer"
)

type Device interface {
	Log(message string)
	// ProcessMessage receives the encoded message, header included.
	// packetSeqNum is -1 when the packet carried no sequence number.
	ProcessMessage(address string, packetSeqNum int32, messageType int32, message []byte)
}

type deviceWrapper struct {
	dev Device
}

func newDeviceWrapper(dev Device) *deviceWrapper {
	return &deviceWrapper{
		dev: dev,
	}
}

// Log implements device.Device.
func (d *deviceWrapper) Log(message string) {
	d.dev.Log(message)
}

// ProcessMessage implements device.Device.
func (d *deviceWrapper) ProcessMessage(address device.DeviceAddress, header packet_layer.PacketHeader, message message_layer.Message) {
	seqNum := int32(-1)
	if header.HasSeqNum {
		seqNum = int32(header.SeqNum)
	}

	d.dev.ProcessMessage(string(address), seqNum, int32(message.Header.Type), message.Bytes)
}

// Now implements device.Device.
func (*deviceWrapper) Now() time.Time {
	return time.Now()
}
