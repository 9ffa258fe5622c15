package modbus

import (
	"context"
	"sync"
	"time"

	"sprsun-modbus-bridge/internal/config"
	"sprsun-modbus-bridge/internal/logger"
	"sprsun-modbus-bridge/internal/registry"
)

// Snapshot is the outcome of one polling pass over a register group.
// Err is set only on transport failure; decode problems stay inside the
// per-quantity values.
type Snapshot struct {
	Group     string
	Block     registry.Block
	Values    map[string]Value
	Timestamp time.Time
	Err       error
}

// Unavailable counts the quantities that could not be decoded
func (s Snapshot) Unavailable() int {
	n := 0
	for _, v := range s.Values {
		if v.Unavailable {
			n++
		}
	}
	return n
}

// SnapshotHandler receives each completed polling pass
type SnapshotHandler func(Snapshot)

// Poller runs one polling loop per register group. Groups have
// independent intervals but share the transport, so passes are
// serialized on an execution mutex rather than queued at the handler.
type Poller struct {
	reader  BlockReader
	catalog *registry.Catalog
	cfg     *config.Config
	handler SnapshotHandler

	execMutex sync.Mutex
	wg        sync.WaitGroup
	cancel    context.CancelFunc
}

// NewPoller creates a poller for every group in the catalog
func NewPoller(reader BlockReader, catalog *registry.Catalog, cfg *config.Config, handler SnapshotHandler) *Poller {
	return &Poller{
		reader:  reader,
		catalog: catalog,
		cfg:     cfg,
		handler: handler,
	}
}

// Start launches the per-group polling loops. Each loop performs an
// immediate first pass, then ticks at the group's configured interval.
func (p *Poller) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)

	for _, group := range p.catalog.GroupNames() {
		interval := time.Duration(p.cfg.GroupInterval(group)) * time.Millisecond
		logger.LogStartup("Polling group %s every %v", group, interval)

		p.wg.Add(1)
		go p.loop(ctx, group, interval)
	}
}

// Stop cancels all loops and waits for in-flight passes to finish
func (p *Poller) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
}

func (p *Poller) loop(ctx context.Context, group string, interval time.Duration) {
	defer p.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	p.deliver(ctx, group)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.deliver(ctx, group)
		}
	}
}

func (p *Poller) deliver(ctx context.Context, group string) {
	s := p.PollGroup(ctx, group)
	// A pass aborted by shutdown is not worth publishing
	if ctx.Err() != nil {
		return
	}
	if p.handler != nil {
		p.handler(s)
	}
}

// PollGroup performs a single polling pass: one bulk read covering the
// group's derived block, then a mapping pass over the raw words. A
// transport failure produces a snapshot with Err set and no values.
func (p *Poller) PollGroup(ctx context.Context, group string) Snapshot {
	snapshot := Snapshot{Group: group, Timestamp: time.Now()}

	block, err := p.catalog.Block(group)
	if err != nil {
		snapshot.Err = err
		return snapshot
	}
	snapshot.Block = block

	p.execMutex.Lock()
	rawWords, err := p.reader.ReadBlock(ctx, block.Start, block.Count)
	p.execMutex.Unlock()

	if err != nil {
		logger.LogWarn("Poll of group %s failed: %v", group, err)
		snapshot.Err = err
		return snapshot
	}

	values, err := MapGroup(rawWords, block.Start, group, p.catalog)
	if err != nil {
		snapshot.Err = err
		return snapshot
	}
	snapshot.Values = values

	if n := snapshot.Unavailable(); n > 0 {
		logger.LogWarn("Group %s: %d of %d quantities unavailable", group, n, len(values))
	}

	return snapshot
}
