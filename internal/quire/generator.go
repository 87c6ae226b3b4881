package quire

import "context"

// Generator proposes content from free-form user input. Everything it
// returns is untrusted and goes through the append merge.
type Generator interface {
	// SelectDocument picks the document the input is most relevant to.
	SelectDocument(ctx context.Context, docs []DocumentSummary, input string) (Selection, error)

	// ProposeBlocks returns only the new blocks to append to doc.
	ProposeBlocks(ctx context.Context, doc Document, input string) ([]Block, error)
}

type Selection struct {
	DocumentID   string `json:"projectId"`
	DocumentName string `json:"projectName"`
}
