package quire

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
)

// ErrUnsupportedMedia is returned when an upload is not an image.
var ErrUnsupportedMedia = errors.New("unsupported media type")

// Service is the orchestration layer between the surfaces (CLI, HTTP) and
// the collaborators. Every change is computed in memory with the pure
// document operations before anything is written, so a failed call leaves
// the stored document as it was.
type Service struct {
	store     Store
	objects   ObjectStore
	generator Generator
	logger    Logger
	clock     Clock
	ids       IDGenerator
	parser    *Parser
}

// NewService wires a Service. generator may be nil, in which case Generate
// returns ErrGeneratorUnavailable.
func NewService(store Store, objects ObjectStore, generator Generator, logger Logger, clock Clock, ids IDGenerator) *Service {
	return &Service{
		store:     store,
		objects:   objects,
		generator: generator,
		logger:    logger,
		clock:     clock,
		ids:       ids,
		parser:    NewParser(ids),
	}
}

func (s *Service) ListDocuments(ctx context.Context) ([]*Document, error) {
	docs, err := s.store.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	return docs, nil
}

// GetDocument returns ErrDocumentNotFound for an unknown id.
func (s *Service) GetDocument(ctx context.Context, id string) (*Document, error) {
	doc, err := s.store.GetDocument(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading document %s: %w", id, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("loading document %s: %w", id, ErrDocumentNotFound)
	}
	return doc, nil
}

func (s *Service) CreateDocument(ctx context.Context, name, description string) (*Document, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: document name is required", ErrInvalidArgument)
	}
	doc, err := s.store.CreateDocument(ctx, name, description)
	if err != nil {
		return nil, fmt.Errorf("creating document: %w", err)
	}
	s.logger.Info("document created", "id", doc.ID, "name", doc.Name)
	return doc, nil
}

func (s *Service) UpdateMetadata(ctx context.Context, id string, fields DocumentFields) (*Document, error) {
	if fields.Name != nil && strings.TrimSpace(*fields.Name) == "" {
		return nil, fmt.Errorf("%w: document name cannot be empty", ErrInvalidArgument)
	}
	doc, err := s.store.UpdateDocumentMetadata(ctx, id, fields)
	if err != nil {
		return nil, fmt.Errorf("updating document %s: %w", id, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("updating document %s: %w", id, ErrDocumentNotFound)
	}
	s.logger.Info("document metadata updated", "id", id)
	return doc, nil
}

// ExportText returns the document's blocks in editable text form.
func (s *Service) ExportText(ctx context.Context, id string) (string, error) {
	doc, err := s.GetDocument(ctx, id)
	if err != nil {
		return "", err
	}
	return Serialize(doc.Blocks), nil
}

func (s *Service) RenderHTML(ctx context.Context, id string, w io.Writer) error {
	doc, err := s.GetDocument(ctx, id)
	if err != nil {
		return err
	}
	if err := RenderHTML(w, doc.Blocks); err != nil {
		return fmt.Errorf("rendering document %s: %w", id, err)
	}
	return nil
}

// EditText replaces the document's blocks with those parsed from text.
// Blocks that survive the edit are issued new identifiers.
func (s *Service) EditText(ctx context.Context, id, text string) (*Document, error) {
	doc, err := s.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.saveEdit(ctx, *doc, text)
}

// EditDocument applies a metadata change and a full-text edit as one save.
func (s *Service) EditDocument(ctx context.Context, id, name, description, text string) (*Document, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: document name cannot be empty", ErrInvalidArgument)
	}
	doc, err := s.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.saveEdit(ctx, doc.WithMetadata(name, description, s.clock.Now()), text)
}

func (s *Service) saveEdit(ctx context.Context, doc Document, text string) (*Document, error) {
	blocks := s.parser.Parse(text)
	// Images have no text form; carry them over after the parsed blocks.
	blocks = append(blocks, imagesOf(doc.Blocks)...)

	merged, err := Merge(doc, blocks, MergeReplace, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveDocument(ctx, merged); err != nil {
		return nil, fmt.Errorf("saving document %s: %w", doc.ID, err)
	}
	s.logger.Info("document replaced from text", "id", doc.ID, "blocks", len(merged.Blocks))
	return &merged, nil
}

func imagesOf(blocks []Block) []Block {
	var out []Block
	for _, b := range blocks {
		if _, ok := b.Variant.(Image); ok {
			out = append(out, b)
		}
	}
	return out
}

// AppendText parses text and appends the resulting blocks.
func (s *Service) AppendText(ctx context.Context, id, text string) (*Document, []Block, error) {
	return s.AppendBlocks(ctx, id, s.parser.Parse(text))
}

// AppendBlocks merges candidates onto the end of the document. Candidates
// without an identifier receive one. The batch is rejected as a whole when
// any identifier collides.
func (s *Service) AppendBlocks(ctx context.Context, id string, candidates []Block) (*Document, []Block, error) {
	doc, err := s.GetDocument(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	added := s.assignMissingIDs(candidates)
	if _, err := Merge(*doc, added, MergeAppend, s.clock.Now()); err != nil {
		s.logger.Warn("append rejected", "id", id, "error", err)
		return nil, nil, err
	}
	if len(added) == 0 {
		return doc, added, nil
	}

	stored, err := s.store.InsertBlocks(ctx, id, added)
	if err != nil {
		return nil, nil, fmt.Errorf("appending blocks to %s: %w", id, err)
	}
	s.logger.Info("blocks appended", "id", id, "count", len(added))
	return stored, added, nil
}

func (s *Service) assignMissingIDs(blocks []Block) []Block {
	out := make([]Block, len(blocks))
	for i, b := range blocks {
		if b.ID == "" {
			b.ID = s.ids.New()
		}
		out[i] = b
	}
	return out
}

// UpdateBlock replaces the payload of one block.
func (s *Service) UpdateBlock(ctx context.Context, id string, b Block) (*Document, error) {
	doc, err := s.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := doc.UpdateBlock(b.ID, b.Variant, s.clock.Now()); err != nil {
		return nil, err
	}
	stored, err := s.store.UpdateBlock(ctx, id, b)
	if err != nil {
		return nil, fmt.Errorf("updating block %s: %w", b.ID, err)
	}
	return stored, nil
}

func (s *Service) RemoveBlock(ctx context.Context, id, blockID string) (*Document, error) {
	doc, err := s.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := doc.RemoveBlock(blockID, s.clock.Now()); err != nil {
		return nil, err
	}
	stored, err := s.store.DeleteBlock(ctx, id, blockID)
	if err != nil {
		return nil, fmt.Errorf("removing block %s: %w", blockID, err)
	}
	s.logger.Info("block removed", "id", id, "block", blockID)
	return stored, nil
}

// GenerateResult is the outcome of a Generate call.
type GenerateResult struct {
	Selection Selection
	Document  *Document
	Added     []Block
}

// Generate asks the content generator for new blocks and appends them.
// With an empty documentID the generator first picks the target document.
func (s *Service) Generate(ctx context.Context, input, documentID string) (*GenerateResult, error) {
	if s.generator == nil {
		return nil, ErrGeneratorUnavailable
	}
	if strings.TrimSpace(input) == "" {
		return nil, fmt.Errorf("%w: generation input is required", ErrInvalidArgument)
	}

	var sel Selection
	if documentID == "" {
		docs, err := s.ListDocuments(ctx)
		if err != nil {
			return nil, err
		}
		if len(docs) == 0 {
			return nil, fmt.Errorf("selecting document: %w", ErrDocumentNotFound)
		}
		summaries := make([]DocumentSummary, len(docs))
		for i, d := range docs {
			summaries[i] = d.Summary()
		}
		sel, err = s.generator.SelectDocument(ctx, summaries, input)
		if err != nil {
			return nil, fmt.Errorf("selecting document: %w", err)
		}
		s.logger.Info("generator selected document", "id", sel.DocumentID, "name", sel.DocumentName)
		documentID = sel.DocumentID
	}

	doc, err := s.GetDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if sel.DocumentID == "" {
		sel = Selection{DocumentID: doc.ID, DocumentName: doc.Name}
	}

	proposed, err := s.generator.ProposeBlocks(ctx, *doc, input)
	if err != nil {
		return nil, fmt.Errorf("proposing blocks: %w", err)
	}

	stored, added, err := s.AppendBlocks(ctx, doc.ID, proposed)
	if err != nil {
		return nil, err
	}
	return &GenerateResult{Selection: sel, Document: stored, Added: added}, nil
}

// ImageAttrs are the presentation attributes given with an image upload.
type ImageAttrs struct {
	AltText   string
	Width     string
	Height    string
	Alignment Alignment
	Caption   string
}

// UploadImage stores an image object for the document and records it.
// An empty contentType is sniffed from the first bytes of r.
func (s *Service) UploadImage(ctx context.Context, documentID, filename, contentType string, r io.Reader, size int64) (*ImageRecord, error) {
	if s.objects == nil {
		return nil, fmt.Errorf("no object store configured")
	}
	if _, err := s.GetDocument(ctx, documentID); err != nil {
		return nil, err
	}

	br := bufio.NewReaderSize(r, 512)
	if contentType == "" {
		head, _ := br.Peek(512)
		contentType = http.DetectContentType(head)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMedia, contentType)
	}

	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" {
		name = "image"
	}
	key := fmt.Sprintf("images/%s/%d-%s", documentID, s.clock.Now().UnixMilli(), name)
	if err := s.objects.Put(ctx, key, contentType, br, size); err != nil {
		return nil, fmt.Errorf("uploading image: %w", err)
	}

	rec, err := s.store.CreateImage(ctx, ImageRecord{
		ID:         s.ids.New(),
		DocumentID: documentID,
		URL:        s.objects.URL(key),
		Filename:   key,
		MimeType:   contentType,
		Size:       size,
		CreatedAt:  s.clock.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("recording image: %w", err)
	}
	s.logger.Info("image uploaded", "document", documentID, "key", key, "size", size)
	return rec, nil
}

// AddImage uploads an image and appends an image block that shows it.
func (s *Service) AddImage(ctx context.Context, documentID, filename, contentType string, r io.Reader, size int64, attrs ImageAttrs) (*Document, *ImageRecord, error) {
	rec, err := s.UploadImage(ctx, documentID, filename, contentType, r, size)
	if err != nil {
		return nil, nil, err
	}
	block := Block{Variant: Image{
		URL:       rec.URL,
		AltText:   attrs.AltText,
		Width:     attrs.Width,
		Height:    attrs.Height,
		Alignment: attrs.Alignment,
		Caption:   attrs.Caption,
	}}
	doc, _, err := s.AppendBlocks(ctx, documentID, []Block{block})
	if err != nil {
		return nil, nil, err
	}
	return doc, rec, nil
}

func (s *Service) ListImages(ctx context.Context, documentID string) ([]*ImageRecord, error) {
	if _, err := s.GetDocument(ctx, documentID); err != nil {
		return nil, err
	}
	imgs, err := s.store.ListImages(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("listing images for %s: %w", documentID, err)
	}
	return imgs, nil
}

// GetHistory returns the most recent recorded operations.
func (s *Service) GetHistory(ctx context.Context, limit int) ([]*Operation, error) {
	ops, err := s.store.ListOperations(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	return ops, nil
}
