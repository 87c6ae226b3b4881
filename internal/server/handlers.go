package server

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"quire/internal/quire"
)

// DocumentService is the subset of quire.Service the handlers use.
type DocumentService interface {
	ListDocuments(ctx context.Context) ([]*quire.Document, error)
	GetDocument(ctx context.Context, id string) (*quire.Document, error)
	CreateDocument(ctx context.Context, name, description string) (*quire.Document, error)
	UpdateMetadata(ctx context.Context, id string, fields quire.DocumentFields) (*quire.Document, error)
	ExportText(ctx context.Context, id string) (string, error)
	RenderHTML(ctx context.Context, id string, w io.Writer) error
	EditText(ctx context.Context, id, text string) (*quire.Document, error)
	EditDocument(ctx context.Context, id, name, description, text string) (*quire.Document, error)
	AppendBlocks(ctx context.Context, id string, candidates []quire.Block) (*quire.Document, []quire.Block, error)
	UpdateBlock(ctx context.Context, id string, b quire.Block) (*quire.Document, error)
	RemoveBlock(ctx context.Context, id, blockID string) (*quire.Document, error)
	Generate(ctx context.Context, input, documentID string) (*quire.GenerateResult, error)
	UploadImage(ctx context.Context, documentID, filename, contentType string, r io.Reader, size int64) (*quire.ImageRecord, error)
	AddImage(ctx context.Context, documentID, filename, contentType string, r io.Reader, size int64, attrs quire.ImageAttrs) (*quire.Document, *quire.ImageRecord, error)
	ListImages(ctx context.Context, documentID string) ([]*quire.ImageRecord, error)
}

var _ DocumentService = (*quire.Service)(nil)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler { return &HealthHandler{} }

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// maxUploadBytes bounds a multipart image upload held in memory.
const maxUploadBytes = 32 << 20

type DocumentHandler struct {
	svc DocumentService
}

func NewDocumentHandler(svc DocumentService) *DocumentHandler {
	return &DocumentHandler{svc: svc}
}

func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	docs, err := h.svc.ListDocuments(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if docs == nil {
		docs = []*quire.Document{}
	}
	RespondOK(c, gin.H{"documents": docs})
}

type createDocumentRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *DocumentHandler) CreateDocument(c *gin.Context) {
	var req createDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	doc, err := h.svc.CreateDocument(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

func (h *DocumentHandler) GetDocument(c *gin.Context) {
	doc, err := h.svc.GetDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, doc)
}

type updateDocumentRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (h *DocumentHandler) UpdateDocument(c *gin.Context) {
	var req updateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	doc, err := h.svc.UpdateMetadata(c.Request.Context(), c.Param("id"), quire.DocumentFields{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, doc)
}

func (h *DocumentHandler) GetText(c *gin.Context) {
	text, err := h.svc.ExportText(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}

type editTextRequest struct {
	Text        string  `json:"text"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// PutText replaces the whole document from its text form. With a name the
// metadata is saved in the same write.
func (h *DocumentHandler) PutText(c *gin.Context) {
	var req editTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	ctx := c.Request.Context()
	id := c.Param("id")

	var (
		doc *quire.Document
		err error
	)
	if req.Name != nil {
		desc := ""
		if req.Description != nil {
			desc = *req.Description
		}
		doc, err = h.svc.EditDocument(ctx, id, *req.Name, desc, req.Text)
	} else {
		doc, err = h.svc.EditText(ctx, id, req.Text)
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, doc)
}

// GetHTML buffers the rendering so a failure still gets a JSON error.
func (h *DocumentHandler) GetHTML(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.svc.RenderHTML(c.Request.Context(), c.Param("id"), &buf); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

type appendBlocksRequest struct {
	Blocks []quire.Block `json:"blocks"`
}

func (h *DocumentHandler) AppendBlocks(c *gin.Context) {
	var req appendBlocksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	doc, added, err := h.svc.AppendBlocks(c.Request.Context(), c.Param("id"), req.Blocks)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"document": doc, "added": added})
}

func (h *DocumentHandler) UpdateBlock(c *gin.Context) {
	var b quire.Block
	if err := c.ShouldBindJSON(&b); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	blockID := c.Param("blockID")
	if b.ID != "" && b.ID != blockID {
		RespondError(c, http.StatusBadRequest, "invalid_request",
			fmt.Errorf("block id %q does not match path %q", b.ID, blockID))
		return
	}
	b.ID = blockID
	doc, err := h.svc.UpdateBlock(c.Request.Context(), c.Param("id"), b)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, doc)
}

func (h *DocumentHandler) DeleteBlock(c *gin.Context) {
	doc, err := h.svc.RemoveBlock(c.Request.Context(), c.Param("id"), c.Param("blockID"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, doc)
}

func (h *DocumentHandler) ListImages(c *gin.Context) {
	imgs, err := h.svc.ListImages(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if imgs == nil {
		imgs = []*quire.ImageRecord{}
	}
	RespondOK(c, gin.H{"images": imgs})
}

// UploadImage takes a multipart "file" field. With append=true an image
// block carrying the remaining form fields is added to the document.
func (h *DocumentHandler) UploadImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	fh, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_multipart_form", err)
		return
	}
	f, err := fh.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_multipart_form", err)
		return
	}
	defer f.Close()

	ctx := c.Request.Context()
	id := c.Param("id")
	contentType := fh.Header.Get("Content-Type")
	if contentType == "application/octet-stream" {
		contentType = ""
	}

	if c.PostForm("append") != "true" {
		rec, err := h.svc.UploadImage(ctx, id, fh.Filename, contentType, f, fh.Size)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"image": rec})
		return
	}

	attrs := quire.ImageAttrs{
		AltText:   c.PostForm("altText"),
		Width:     c.PostForm("width"),
		Height:    c.PostForm("height"),
		Alignment: quire.Alignment(c.PostForm("alignment")),
		Caption:   c.PostForm("caption"),
	}
	doc, rec, err := h.svc.AddImage(ctx, id, fh.Filename, contentType, f, fh.Size, attrs)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"image": rec, "document": doc})
}

type generateRequest struct {
	Input      string `json:"input"`
	DocumentID string `json:"documentId"`
}

func (h *DocumentHandler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	res, err := h.svc.Generate(c.Request.Context(), req.Input, req.DocumentID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"selection": res.Selection,
		"document":  res.Document,
		"added":     res.Added,
	})
}
