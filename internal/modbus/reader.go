package modbus

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	gomodbus "github.com/goburrow/modbus"

	"sprsun-modbus-bridge/internal/config"
	"sprsun-modbus-bridge/internal/errors"
	"sprsun-modbus-bridge/internal/logger"
)

// BlockReader performs one bulk read of consecutive holding registers.
// Implementations must report the true number of words returned; the
// mapper relies on the returned length to detect truncated blocks.
type BlockReader interface {
	ReadBlock(ctx context.Context, start, count uint16) ([]uint16, error)
}

type connection interface {
	Connect() error
	Close() error
}

// Reader reads register blocks from the heat pump over Modbus TCP or
// RTU. A single transaction runs at a time; concurrent callers are
// serialized on the handler.
type Reader struct {
	client  gomodbus.Client
	conn    connection
	slaveID uint8
	offset  uint16
	mutex   sync.Mutex
}

// NewReader opens a Modbus connection per the configuration
func NewReader(cfg *config.ModbusConfig) (*Reader, error) {
	timeout := time.Duration(cfg.Timeout) * time.Millisecond

	var client gomodbus.Client
	var conn connection

	switch cfg.Connection {
	case config.ConnectionTCP:
		handler := gomodbus.NewTCPClientHandler(fmt.Sprintf("%s:%d", cfg.Host, cfg.Port))
		handler.Timeout = timeout
		handler.SlaveId = cfg.SlaveID
		client = gomodbus.NewClient(handler)
		conn = handler
	case config.ConnectionSerial:
		handler := gomodbus.NewRTUClientHandler(cfg.SerialPort)
		handler.BaudRate = cfg.Baudrate
		handler.DataBits = 8
		handler.Parity = "N"
		handler.StopBits = 1
		handler.Timeout = timeout
		handler.SlaveId = cfg.SlaveID
		client = gomodbus.NewClient(handler)
		conn = handler
	default:
		return nil, errors.NewConfigError("modbus.NewReader",
			fmt.Errorf("unknown connection type: %s", cfg.Connection), "modbus.connection")
	}

	if err := conn.Connect(); err != nil {
		return nil, errors.NewTransportError("modbus.NewReader", err, cfg.SlaveID, 0, 0)
	}

	return &Reader{
		client:  client,
		conn:    conn,
		slaveID: cfg.SlaveID,
		offset:  cfg.RegisterOffset,
	}, nil
}

// ReadBlock fetches count consecutive holding registers starting at
// start. The register offset from the configuration is applied here so
// the catalog stays in canonical addresses.
func (r *Reader) ReadBlock(ctx context.Context, start, count uint16) ([]uint16, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	address := start + r.offset

	r.mutex.Lock()
	data, err := r.client.ReadHoldingRegisters(address, count)
	r.mutex.Unlock()

	if err != nil {
		return nil, errors.NewTransportError("modbus.ReadBlock", err, r.slaveID, address, count)
	}

	words := make([]uint16, len(data)/2)
	for i := range words {
		words[i] = binary.BigEndian.Uint16(data[2*i : 2*i+2])
	}

	if len(words) != int(count) {
		logger.LogWarn("Short read at %d: requested %d words, got %d", address, count, len(words))
	}

	return words, nil
}

// Close shuts down the underlying connection
func (r *Reader) Close() error {
	return r.conn.Close()
}
