package testutil

import (
	"context"
	"sync"

	"quire/internal/quire"
)

// FakeGenerator returns canned selections and proposals and records what it
// was asked.
type FakeGenerator struct {
	mu sync.Mutex

	Selection  quire.Selection
	SelectErr  error
	Proposal   []quire.Block
	ProposeErr error

	SelectCalls  []string
	ProposeCalls []string // document IDs passed to ProposeBlocks
}

func (g *FakeGenerator) SelectDocument(ctx context.Context, docs []quire.DocumentSummary, input string) (quire.Selection, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.SelectCalls = append(g.SelectCalls, input)
	return g.Selection, g.SelectErr
}

func (g *FakeGenerator) ProposeBlocks(ctx context.Context, doc quire.Document, input string) ([]quire.Block, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ProposeCalls = append(g.ProposeCalls, doc.ID)
	if g.ProposeErr != nil {
		return nil, g.ProposeErr
	}
	out := make([]quire.Block, len(g.Proposal))
	copy(out, g.Proposal)
	return out, nil
}

var _ quire.Generator = (*FakeGenerator)(nil)
