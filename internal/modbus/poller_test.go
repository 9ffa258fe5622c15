package modbus

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sprsun-modbus-bridge/internal/config"
	"sprsun-modbus-bridge/internal/decode"
	"sprsun-modbus-bridge/internal/registry"
)

// fakeReader serves canned register blocks keyed by start address
type fakeReader struct {
	mu     sync.Mutex
	blocks map[uint16][]uint16
	fail   bool
	reads  int
}

func (f *fakeReader) ReadBlock(ctx context.Context, start, count uint16) ([]uint16, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.reads++
	if f.fail {
		return nil, fmt.Errorf("transport down")
	}
	words, ok := f.blocks[start]
	if !ok {
		return nil, fmt.Errorf("no block at %d", start)
	}
	if int(count) < len(words) {
		return words[:count], nil
	}
	return words, nil
}

func (f *fakeReader) readCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads
}

func testConfig() *config.Config {
	return &config.Config{
		Polling: config.PollingConfig{
			DefaultInterval: 50,
			GroupIntervals:  map[string]int{registry.GroupPower: 25},
		},
	}
}

func powerWords() []uint16 {
	words := make([]uint16, 18)
	words[0], words[1] = decode.PutFloat32(1234.5)
	words[15], words[16] = decode.PutFloat32(1500.0)
	words[17] = 30
	return words
}

func TestPollGroupSinglePass(t *testing.T) {
	reader := &fakeReader{blocks: map[uint16][]uint16{372: powerWords()}}
	poller := NewPoller(reader, registry.SPRSUN(), testConfig(), nil)

	snapshot := poller.PollGroup(context.Background(), registry.GroupPower)
	require.NoError(t, snapshot.Err)

	assert.Equal(t, registry.GroupPower, snapshot.Group)
	assert.Equal(t, uint16(372), snapshot.Block.Start)
	assert.Equal(t, uint16(18), snapshot.Block.Count)
	assert.InDelta(t, 3.0, snapshot.Values["unit_cop"].Value, 0.001)
	assert.InDelta(t, 1500.0, snapshot.Values["unit_power"].Value, 0.001)
}

func TestPollGroupTransportFailure(t *testing.T) {
	reader := &fakeReader{fail: true}
	poller := NewPoller(reader, registry.SPRSUN(), testConfig(), nil)

	snapshot := poller.PollGroup(context.Background(), registry.GroupPower)
	assert.Error(t, snapshot.Err)
	assert.Nil(t, snapshot.Values)
}

func TestPollGroupShortReadMarksTailUnavailable(t *testing.T) {
	// Device answers with fewer words than requested: the tail entries
	// go unavailable, the rest decode normally
	reader := &fakeReader{blocks: map[uint16][]uint16{372: powerWords()[:16]}}
	poller := NewPoller(reader, registry.SPRSUN(), testConfig(), nil)

	snapshot := poller.PollGroup(context.Background(), registry.GroupPower)
	require.NoError(t, snapshot.Err)

	assert.False(t, snapshot.Values["water_flow"].Unavailable)
	assert.True(t, snapshot.Values["unit_power"].Unavailable)
	assert.True(t, snapshot.Values["unit_cop"].Unavailable)
	assert.Equal(t, 2, snapshot.Unavailable())
}

func TestPollerDeliversSnapshots(t *testing.T) {
	catalog := registry.New("test", []registry.Entry{
		{Name: "water_flow", Address: 372, Words: 2, Encoding: registry.Float32BE, Group: registry.GroupPower},
		{Name: "unit_cop", Address: 389, Words: 1, Encoding: registry.ScaledInt16, Scale: 10, Group: registry.GroupPower},
	})
	reader := &fakeReader{blocks: map[uint16][]uint16{372: powerWords()}}

	snapshots := make(chan Snapshot, 16)
	poller := NewPoller(reader, catalog, testConfig(), func(s Snapshot) {
		snapshots <- s
	})

	poller.Start(context.Background())
	defer poller.Stop()

	select {
	case s := <-snapshots:
		require.NoError(t, s.Err)
		assert.Equal(t, registry.GroupPower, s.Group)
		assert.InDelta(t, 3.0, s.Values["unit_cop"].Value, 0.001)
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot delivered")
	}
}

func TestPollerStopHaltsPolling(t *testing.T) {
	catalog := registry.New("test", []registry.Entry{
		{Name: "unit_cop", Address: 389, Words: 1, Encoding: registry.ScaledInt16, Scale: 10, Group: registry.GroupPower},
	})
	reader := &fakeReader{blocks: map[uint16][]uint16{389: {30}}}

	poller := NewPoller(reader, catalog, testConfig(), func(Snapshot) {})
	poller.Start(context.Background())

	time.Sleep(100 * time.Millisecond)
	poller.Stop()

	stopped := reader.readCount()
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, stopped, reader.readCount(), "no reads after Stop")
}
