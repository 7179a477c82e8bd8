package main

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

// ManetPort is the UDP port assigned to MANET protocols by RFC 5498.
const ManetPort = 269

var pcapngMagic = []byte{0x0a, 0x0d, 0x0d, 0x0a}

type packetDataSource interface {
	gopacket.PacketDataSource
	LinkType() layers.LinkType
}

// datagram is the UDP payload of a captured packet along with its source.
type datagram struct {
	source  string
	payload []byte
	info    gopacket.CaptureInfo
}

// openCapture detects whether r holds a pcap or a pcapng capture.
func openCapture(r io.Reader) (packetDataSource, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(4)
	if err != nil {
		return nil, fmt.Errorf("reading capture header: %w", err)
	}

	if bytes.Equal(magic, pcapngMagic) {
		return pcapgo.NewNgReader(br, pcapgo.DefaultNgReaderOptions)
	}
	return pcapgo.NewReader(br)
}

// readDatagrams calls fn for every UDP datagram sent to port in the capture.
func readDatagrams(r io.Reader, port int, fn func(datagram) error) error {
	source, err := openCapture(r)
	if err != nil {
		return err
	}

	for {
		data, ci, err := source.ReadPacketData()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading capture: %w", err)
		}

		packet := gopacket.NewPacket(data, source.LinkType(), gopacket.DecodeOptions{Lazy: true, NoCopy: true})

		udpLayer, ok := packet.Layer(layers.LayerTypeUDP).(*layers.UDP)
		if !ok || int(udpLayer.DstPort) != port {
			continue
		}

		src := udpLayer.SrcPort.String()
		if network := packet.NetworkLayer(); network != nil {
			src = network.NetworkFlow().Src().String()
		}

		if err := fn(datagram{source: src, payload: udpLayer.Payload, info: ci}); err != nil {
			return err
		}
	}
}
