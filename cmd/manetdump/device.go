package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/starling-protocol/rfc5444/device"
	"github.com/starling-protocol/rfc5444/message_layer"
	"github.com/starling-protocol/rfc5444/packet_layer"
)

// dumpDevice prints every message it receives and forwards protocol logs to zerolog.
type dumpDevice struct {
	logger zerolog.Logger
	out    io.Writer
	now    time.Time
}

func newDumpDevice(logger zerolog.Logger, out io.Writer) *dumpDevice {
	return &dumpDevice{
		logger: logger,
		out:    out,
	}
}

// Log implements device.Device.
func (d *dumpDevice) Log(message string) {
	if strings.HasPrefix(message, "proto:receive_packet:error") {
		d.logger.Warn().Msg(message)
	} else {
		d.logger.Debug().Msg(message)
	}
}

// ProcessMessage implements device.Device.
func (d *dumpDevice) ProcessMessage(address device.DeviceAddress, header packet_layer.PacketHeader, message message_layer.Message) {
	var line strings.Builder
	fmt.Fprintf(&line, "%s %s", d.now.UTC().Format(time.RFC3339Nano), address)
	if header.HasSeqNum {
		fmt.Fprintf(&line, " pkt_seq=%d", header.SeqNum)
	}

	msgHeader := message.Header
	fmt.Fprintf(&line, " type=%d size=%d addr_len=%d", msgHeader.Type, msgHeader.Size, msgHeader.AddressLength)
	if msgHeader.HasOrigAddr {
		fmt.Fprintf(&line, " orig=%x", msgHeader.OrigAddr)
	}
	if msgHeader.HasHopLimit {
		fmt.Fprintf(&line, " hop_limit=%d", msgHeader.HopLimit)
	}
	if msgHeader.HasHopCount {
		fmt.Fprintf(&line, " hop_count=%d", msgHeader.HopCount)
	}
	if msgHeader.HasSeqNum {
		fmt.Fprintf(&line, " seq=%d", msgHeader.SeqNum)
	}

	addresses := 0
	addrs := message.AddressTLVs()
	for addrs.Next() {
		addresses += addrs.AddressBlock().NumAddr
	}
	fmt.Fprintf(&line, " addresses=%d", addresses)
	if err := addrs.Err(); err != nil {
		fmt.Fprintf(&line, " addr_err='%v'", err)
	}

	fmt.Fprintln(d.out, line.String())
}

// Now implements device.Device. It reports the capture time of the packet being processed.
func (d *dumpDevice) Now() time.Time {
	return d.now
}
