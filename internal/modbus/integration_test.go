//go:build integration

package modbus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tbrandon/mbserver"

	"sprsun-modbus-bridge/internal/config"
	"sprsun-modbus-bridge/internal/decode"
	"sprsun-modbus-bridge/internal/registry"
)

// startFakeHeatPump runs a Modbus TCP slave preloaded with realistic
// register contents for every catalog group
func startFakeHeatPump(t *testing.T, addr string) *mbserver.Server {
	t.Helper()

	server := mbserver.NewServer()
	require.NoError(t, server.ListenTCP(addr))

	regs := server.HoldingRegisters

	// Controller clock
	regs[182] = 26 // year
	regs[183] = 8  // month
	regs[187] = 6  // week

	// Device info
	regs[323] = 3 // heater_type: all
	regs[325] = 2 // version_x
	regs[326] = 1 // version_y

	// SG Ready
	regs[355] = 1   // sg_mode: SG-
	regs[357] = 620 // sg_mode_w_tank_setp 62.0

	// Power consumption records
	regs[401], regs[402] = decode.PutFloat32(123.4)
	regs[413], regs[414] = decode.PutFloat32(8.5)

	// Sensors
	regs[188] = 452    // inlet_temp 45.2
	regs[189] = 478    // outlet_temp 47.8
	regs[190] = 0xFF9C // ambient_temp -10.0
	regs[202] = 780    // dc_fan1_rpm
	regs[200] = 650    // dc_fan2_rpm

	// Status
	regs[215] = 1 // heating
	regs[217] = 1 // unit on

	// Working hours
	regs[364], regs[365] = decode.PutUInt32(70000)

	// Power group
	regs[372], regs[373] = decode.PutFloat32(1234.5)
	regs[387], regs[388] = decode.PutFloat32(1500.0)
	regs[389] = 30

	return server
}

func TestReaderAgainstFakeHeatPump(t *testing.T) {
	addr := "127.0.0.1:15502"
	server := startFakeHeatPump(t, addr)
	defer server.Close()

	cfg := &config.ModbusConfig{
		Connection: config.ConnectionTCP,
		Host:       "127.0.0.1",
		Port:       15502,
		SlaveID:    1,
		Timeout:    2000,
	}
	reader, err := NewReader(cfg)
	require.NoError(t, err)
	defer reader.Close()

	catalog := registry.SPRSUN()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, group := range catalog.GroupNames() {
		block, err := catalog.Block(group)
		require.NoError(t, err)

		words, err := reader.ReadBlock(ctx, block.Start, block.Count)
		require.NoError(t, err, "group %s", group)
		require.Len(t, words, int(block.Count))

		values, err := MapGroup(words, block.Start, group, catalog)
		require.NoError(t, err)

		for name, v := range values {
			assert.False(t, v.Unavailable, "quantity %s in group %s", name, group)
		}
	}
}

func TestEndToEndPollingAgainstFakeHeatPump(t *testing.T) {
	addr := "127.0.0.1:15503"
	server := startFakeHeatPump(t, addr)
	defer server.Close()

	cfg := &config.Config{
		Modbus: config.ModbusConfig{
			Connection: config.ConnectionTCP,
			Host:       "127.0.0.1",
			Port:       15503,
			SlaveID:    1,
			Timeout:    2000,
		},
		Polling: config.PollingConfig{DefaultInterval: 100},
	}

	reader, err := NewReader(&cfg.Modbus)
	require.NoError(t, err)
	defer reader.Close()

	snapshots := make(chan Snapshot, 64)
	poller := NewPoller(reader, registry.SPRSUN(), cfg, func(s Snapshot) {
		snapshots <- s
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	poller.Start(ctx)
	defer poller.Stop()

	seen := make(map[string]Snapshot)
	deadline := time.After(5 * time.Second)
	for len(seen) < len(registry.SPRSUN().GroupNames()) {
		select {
		case s := <-snapshots:
			require.NoError(t, s.Err)
			seen[s.Group] = s
		case <-deadline:
			t.Fatalf("only %d groups polled before deadline", len(seen))
		}
	}

	power := seen[registry.GroupPower]
	assert.InDelta(t, 3.0, power.Values["unit_cop"].Value, 0.001)
	assert.InDelta(t, 1500.0, power.Values["unit_power"].Value, 0.001)
	assert.InDelta(t, 1234.5, power.Values["water_flow"].Value, 0.01)

	sensors := seen[registry.GroupSensors]
	assert.InDelta(t, -10.0, sensors.Values["ambient_temp"].Value, 0.001)
	assert.Equal(t, 780.0, sensors.Values["dc_fan1_rpm"].Value)
}

func TestReaderWithRegisterOffset(t *testing.T) {
	addr := "127.0.0.1:15504"
	server := mbserver.NewServer()
	require.NoError(t, server.ListenTCP(addr))
	defer server.Close()

	// Device exposes the whole map shifted by 2000 registers
	server.HoldingRegisters[2389] = 30

	cfg := &config.ModbusConfig{
		Connection:     config.ConnectionTCP,
		Host:           "127.0.0.1",
		Port:           15504,
		SlaveID:        1,
		RegisterOffset: 2000,
		Timeout:        2000,
	}
	reader, err := NewReader(cfg)
	require.NoError(t, err)
	defer reader.Close()

	words, err := reader.ReadBlock(context.Background(), 389, 1)
	require.NoError(t, err)
	require.Len(t, words, 1)
	assert.Equal(t, uint16(30), words[0])
}
