package rand

import (
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/tarm/serial"
)

// SerialConfig describes a TRNG attached to a serial port.
type SerialConfig struct {
	// Device is the port name, e.g. /dev/ttyACM0 or COM3
	Device string
	// Baud is the line speed
	Baud int
	// ReadTimeout bounds each read; 0 blocks
	ReadTimeout time.Duration
}

// SerialSource is a ReaderSource backed by an open serial port.
type SerialSource struct {
	*ReaderSource
	port io.Closer
}

// OpenSerial opens the port described by cfg and checks that it produces
// plausible output before returning it.
func OpenSerial(cfg SerialConfig) (*SerialSource, error) {
	if cfg.Device == "" {
		return nil, errors.New("serial device is required")
	}
	if cfg.Baud <= 0 {
		return nil, errors.Errorf("invalid baud rate %d", cfg.Baud)
	}

	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		Size:        8, // Hard coded by the library
		ReadTimeout: cfg.ReadTimeout,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", cfg.Device)
	}

	if err := CheckStream(port); err != nil {
		port.Close()
		return nil, err
	}

	return &SerialSource{ReaderSource: NewReaderSource(port), port: port}, nil
}

// Close releases the serial port.
func (s *SerialSource) Close() error {
	return s.port.Close()
}

// CheckStream reads a short sample from r and rejects streams that are
// obviously stuck. It cannot prove randomness.
func CheckStream(r io.Reader) error {
	const sampleBytes = 256
	buf := make([]byte, sampleBytes)
	if _, err := io.ReadFull(r, buf); err != nil {
		return errors.Wrap(err, "reading health sample")
	}

	distinct := make(map[byte]struct{}, 256)
	for _, b := range buf {
		distinct[b] = struct{}{}
	}
	if len(distinct) == 1 {
		return errors.New("random stream appears stuck (all sampled bytes identical)")
	}
	if len(distinct) < 8 {
		return errors.Errorf("random stream has too few distinct byte values (%d)", len(distinct))
	}
	return nil
}
