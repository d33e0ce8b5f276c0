package perf

import (
	"context"
	"time"
)

// Per-request timing breakdown. Handlers and helpers bracket their
// interesting work in blocks; the request-logging middleware dumps the
// tree when the request completes.
type RequestPerf struct {
	Route  string
	Path   string // the path actually matched
	Method string
	Start  time.Time
	End    time.Time
	Blocks []Block
}

type Block struct {
	Start       time.Time
	End         time.Time
	Category    string
	Description string
}

// A handle to an in-progress block, so nested blocks close in the
// right order even when helpers start blocks of their own.
type BlockHandle struct {
	perf  *RequestPerf
	index int
}

func MakeNewRequestPerf(route string, method string, path string) *RequestPerf {
	return &RequestPerf{
		Start:  time.Now(),
		Route:  route,
		Path:   path,
		Method: method,
	}
}

func (rp *RequestPerf) StartBlock(category, description string) *BlockHandle {
	if rp == nil {
		return nil
	}
	rp.Blocks = append(rp.Blocks, Block{
		Start:       time.Now(),
		Category:    category,
		Description: description,
	})
	return &BlockHandle{perf: rp, index: len(rp.Blocks) - 1}
}

func (bh *BlockHandle) End() {
	if bh == nil {
		return
	}
	block := &bh.perf.Blocks[bh.index]
	if block.End.IsZero() {
		block.End = time.Now()
	}
}

func (rp *RequestPerf) EndRequest() {
	now := time.Now()
	for i := range rp.Blocks {
		if rp.Blocks[i].End.IsZero() {
			rp.Blocks[i].End = now
		}
	}
	rp.End = now
}

func (rp *RequestPerf) MsFromStart(block *Block) float64 {
	return float64(block.Start.Sub(rp.Start).Nanoseconds()) / 1000 / 1000
}

func (b *Block) Duration() time.Duration {
	return b.End.Sub(b.Start)
}

func (b *Block) DurationMs() float64 {
	return float64(b.Duration().Nanoseconds()) / 1000 / 1000
}

type perfContextKeyType struct{}

// Key under which request contexts expose their RequestPerf.
var PerfContextKey = perfContextKeyType{}

// Always returns a usable RequestPerf; outside a request (jobs, CLI
// tools) the blocks are recorded and simply never reported.
func ExtractPerf(ctx context.Context) *RequestPerf {
	if rp, ok := ctx.Value(PerfContextKey).(*RequestPerf); ok && rp != nil {
		return rp
	}
	return MakeNewRequestPerf("", "", "")
}
