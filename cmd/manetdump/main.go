// The manetdump command prints the RFC 5444 messages found in a packet capture.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/fftoml"
	"github.com/rs/zerolog"

	"github.com/starling-protocol/rfc5444"
	"github.com/starling-protocol/rfc5444/device"
)

type config struct {
	port                int
	maxPacketSize       int
	decodeAddressBlocks bool
	logLevel            string
	stats               bool
	capture             string
}

func parseConfig(args []string) (*config, error) {
	defaults := device.DefaultProtocolOptions()

	fs := flag.NewFlagSet("manetdump", flag.ContinueOnError)
	cfg := &config{}
	fs.IntVar(&cfg.port, "port", ManetPort, "UDP destination port carrying RFC 5444 packets")
	fs.IntVar(&cfg.maxPacketSize, "max-packet-size", defaults.MaxPacketSize, "drop datagrams larger than this many bytes, 0 disables the limit")
	fs.BoolVar(&cfg.decodeAddressBlocks, "decode-address-blocks", defaults.DecodeAddressBlocks, "decode every address block and TLV before printing a message")
	fs.StringVar(&cfg.logLevel, "log-level", "info", "log level: trace, debug, info, warn, error or disabled")
	fs.BoolVar(&cfg.stats, "stats", true, "print per neighbour statistics after the capture")
	fs.String("config", "", "TOML config file")

	err := ff.Parse(fs, args,
		ff.WithEnvVarPrefix("MANETDUMP"),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(fftoml.Parser),
	)
	if err != nil {
		return nil, err
	}

	if fs.NArg() != 1 {
		return nil, errors.New("usage: manetdump [flags] <capture.pcap|capture.pcapng>")
	}
	cfg.capture = fs.Arg(0)

	return cfg, nil
}

func newLogger(level string, w io.Writer) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).Level(lvl).With().Timestamp().Logger(), nil
}

func run(args []string, stdout io.Writer, stderr io.Writer) error {
	cfg, err := parseConfig(args)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.logLevel, stderr)
	if err != nil {
		return err
	}

	f, err := os.Open(cfg.capture)
	if err != nil {
		return err
	}
	defer f.Close()

	options := device.DefaultProtocolOptions()
	options.MaxPacketSize = cfg.maxPacketSize
	options.DecodeAddressBlocks = cfg.decodeAddressBlocks

	dev := newDumpDevice(logger, stdout)
	proto := rfc5444.NewProtocol(dev, options)

	count := 0
	err = readDatagrams(f, cfg.port, func(d datagram) error {
		count++
		dev.now = d.info.Timestamp
		// decoding errors are logged by the protocol and counted in its stats
		proto.ReceivePacket(device.DeviceAddress(d.source), d.payload)
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info().Str("capture", cfg.capture).Int("datagrams", count).Msg("capture done")

	if cfg.stats {
		for _, address := range proto.Neighbours() {
			stats, _ := proto.Stats(address)
			fmt.Fprintf(stdout, "neighbour %s packets=%d messages=%d truncated=%d invalid=%d\n",
				address, stats.Packets, stats.Messages, stats.Truncated, stats.Invalid)
		}
	}

	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "manetdump: %v\n", err)
		os.Exit(1)
	}
}
