package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"quire/internal/config"
	"quire/internal/quire"
	"quire/internal/testutil"
)

type testEnv struct {
	router *gin.Engine
	gen    *testutil.FakeGenerator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	clock := testutil.TickingClock(time.Second)
	store := testutil.NewTestDatabase(t, clock, testutil.NewPrefixedIDGenerator("db"))
	gen := &testutil.FakeGenerator{}
	svc := quire.NewService(store, testutil.NewTestObjectStore(), gen, quire.NewNopLogger(), clock, testutil.NewStubIDGenerator())

	srv := NewServer(svc, nil, config.ServerConfig{AllowedOrigins: []string{"http://localhost:3000"}})
	return &testEnv{router: srv.Engine, gen: gen}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) createDoc(t *testing.T, name string) quire.Document {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/documents", `{"name":"`+name+`"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /api/documents status = %d, body = %s", rec.Code, rec.Body)
	}
	return decode[quire.Document](t, rec)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decoding %s: %v", rec.Body, err)
	}
	return v
}

func wantError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, status, rec.Body)
	}
	env := decode[ErrorEnvelope](t, rec)
	if env.Error.Code != code || env.Error.Message == "" {
		t.Errorf("error = %+v, want code %q with a message", env.Error, code)
	}
}

func TestHealthCheck(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(t, http.MethodGet, "/healthcheck", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("GET /healthcheck = %d %q", rec.Code, rec.Body)
	}
}

func TestDocuments_CRUD(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodGet, "/api/documents", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"documents":[]`) {
		t.Errorf("GET /api/documents on empty store = %d %s", rec.Code, rec.Body)
	}

	doc := e.createDoc(t, "Notes")
	if doc.ID == "" || doc.Name != "Notes" {
		t.Fatalf("created = %+v", doc)
	}

	rec = e.do(t, http.MethodGet, "/api/documents/"+doc.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET document status = %d", rec.Code)
	}

	rec = e.do(t, http.MethodPatch, "/api/documents/"+doc.ID, `{"description":"weekly"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("PATCH status = %d, body %s", rec.Code, rec.Body)
	}
	if got := decode[quire.Document](t, rec); got.Name != "Notes" || got.Description != "weekly" {
		t.Errorf("PATCH result = %+v", got)
	}

	list := decode[struct {
		Documents []quire.Document `json:"documents"`
	}](t, e.do(t, http.MethodGet, "/api/documents", ""))
	if len(list.Documents) != 1 {
		t.Errorf("documents = %d, want 1", len(list.Documents))
	}
}

func TestDocuments_Errors(t *testing.T) {
	e := newTestEnv(t)
	doc := e.createDoc(t, "Notes")

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"blank name", http.MethodPost, "/api/documents", `{"name":"  "}`, http.StatusBadRequest, "invalid_request"},
		{"malformed json", http.MethodPost, "/api/documents", `{"name":`, http.StatusBadRequest, "invalid_request"},
		{"missing document", http.MethodGet, "/api/documents/nope", "", http.StatusNotFound, "not_found"},
		{"rename to empty", http.MethodPatch, "/api/documents/" + doc.ID, `{"name":""}`, http.StatusBadRequest, "invalid_request"},
		{"missing block", http.MethodDelete, "/api/documents/" + doc.ID + "/blocks/ghost", "", http.StatusNotFound, "not_found"},
		{"text of missing document", http.MethodGet, "/api/documents/nope/text", "", http.StatusNotFound, "not_found"},
		{"html of missing document", http.MethodGet, "/api/documents/nope/html", "", http.StatusNotFound, "not_found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantError(t, e.do(t, tt.method, tt.path, tt.body), tt.status, tt.code)
		})
	}
}

func TestDocuments_Text(t *testing.T) {
	e := newTestEnv(t)
	doc := e.createDoc(t, "Notes")
	path := "/api/documents/" + doc.ID

	rec := e.do(t, http.MethodPut, path+"/text", `{"text":"# Title\n\n1. a\n5. b\n"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT text status = %d, body %s", rec.Code, rec.Body)
	}

	rec = e.do(t, http.MethodGet, path+"/text", "")
	if got, want := rec.Body.String(), "# Title\n1. a\n2. b\n\n"; got != want {
		t.Errorf("GET text = %q, want %q", got, want)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q", ct)
	}

	rec = e.do(t, http.MethodGet, path+"/html", "")
	if !strings.Contains(rec.Body.String(), ">Title</h1>") || !strings.Contains(rec.Body.String(), "<ol") {
		t.Errorf("GET html = %s", rec.Body)
	}

	rec = e.do(t, http.MethodPut, path+"/text", `{"text":"body\n","name":"Renamed"}`)
	if got := decode[quire.Document](t, rec); got.Name != "Renamed" || len(got.Blocks) != 1 {
		t.Errorf("PUT text with name = %+v", got)
	}
}

func TestBlocks_AppendUpdateDelete(t *testing.T) {
	e := newTestEnv(t)
	doc := e.createDoc(t, "Notes")
	path := "/api/documents/" + doc.ID

	rec := e.do(t, http.MethodPost, path+"/blocks", `{"blocks":[
		{"id":"c-1","type":"paragraph","content":"first"},
		{"type":"code","content":"x := 1","codeLanguage":"go"}
	]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST blocks status = %d, body %s", rec.Code, rec.Body)
	}
	res := decode[struct {
		Document quire.Document `json:"document"`
		Added    []quire.Block  `json:"added"`
	}](t, rec)
	if len(res.Added) != 2 || res.Added[1].ID == "" || len(res.Document.Blocks) != 2 {
		t.Fatalf("append result = %+v", res)
	}

	t.Run("duplicate rejected", func(t *testing.T) {
		rec := e.do(t, http.MethodPost, path+"/blocks", `{"blocks":[{"id":"c-1","type":"paragraph","content":"again"}]}`)
		wantError(t, rec, http.StatusConflict, "duplicate_block_id")

		got := decode[quire.Document](t, e.do(t, http.MethodGet, path, ""))
		if len(got.Blocks) != 2 {
			t.Errorf("blocks after rejected append = %d, want 2", len(got.Blocks))
		}
	})

	t.Run("update", func(t *testing.T) {
		rec := e.do(t, http.MethodPut, path+"/blocks/c-1", `{"type":"quote","content":"changed"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("PUT block status = %d, body %s", rec.Code, rec.Body)
		}
		got := decode[quire.Document](t, rec)
		if q, ok := got.Blocks[0].Variant.(quire.Quote); !ok || q.Content != "changed" {
			t.Errorf("Blocks[0] = %#v", got.Blocks[0])
		}

		rec = e.do(t, http.MethodPut, path+"/blocks/c-1", `{"id":"other","type":"quote","content":"x"}`)
		wantError(t, rec, http.StatusBadRequest, "invalid_request")
	})

	t.Run("delete", func(t *testing.T) {
		rec := e.do(t, http.MethodDelete, path+"/blocks/c-1", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("DELETE block status = %d", rec.Code)
		}
		if got := decode[quire.Document](t, rec); len(got.Blocks) != 1 {
			t.Errorf("blocks after delete = %d, want 1", len(got.Blocks))
		}
	})
}

func multipartBody(t *testing.T, filename string, content []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile() error = %v", err)
	}
	fw.Write(content)
	for k, v := range fields {
		w.WriteField(k, v)
	}
	w.Close()
	return &buf, w.FormDataContentType()
}

func TestImages_Upload(t *testing.T) {
	e := newTestEnv(t)
	doc := e.createDoc(t, "Gallery")
	path := "/api/documents/" + doc.ID + "/images"
	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)

	upload := func(filename string, content []byte, fields map[string]string) *httptest.ResponseRecorder {
		body, ct := multipartBody(t, filename, content, fields)
		req := httptest.NewRequest(http.MethodPost, path, body)
		req.Header.Set("Content-Type", ct)
		rec := httptest.NewRecorder()
		e.router.ServeHTTP(rec, req)
		return rec
	}

	rec := upload("cat.png", png, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload status = %d, body %s", rec.Code, rec.Body)
	}
	img := decode[struct {
		Image quire.ImageRecord `json:"image"`
	}](t, rec).Image
	if img.MimeType != "image/png" || !strings.HasPrefix(img.URL, "memory://test-store/images/"+doc.ID+"/") {
		t.Errorf("image = %+v", img)
	}

	rec = upload("dog.png", png, map[string]string{"append": "true", "altText": "dog", "alignment": "center"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload+append status = %d, body %s", rec.Code, rec.Body)
	}
	withDoc := decode[struct {
		Document quire.Document `json:"document"`
	}](t, rec)
	if len(withDoc.Document.Blocks) != 1 {
		t.Fatalf("blocks = %d, want 1", len(withDoc.Document.Blocks))
	}
	if b, ok := withDoc.Document.Blocks[0].Variant.(quire.Image); !ok || b.AltText != "dog" || b.Alignment != quire.AlignCenter {
		t.Errorf("image block = %#v", withDoc.Document.Blocks[0])
	}

	list := decode[struct {
		Images []quire.ImageRecord `json:"images"`
	}](t, e.do(t, http.MethodGet, path, ""))
	if len(list.Images) != 2 {
		t.Errorf("images = %d, want 2", len(list.Images))
	}

	wantError(t, upload("notes.txt", []byte("plain words"), nil), http.StatusUnsupportedMediaType, "unsupported_media_type")

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader("not multipart"))
	req.Header.Set("Content-Type", "text/plain")
	rec = httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	wantError(t, rec, http.StatusBadRequest, "invalid_multipart_form")
}

func TestGenerate(t *testing.T) {
	e := newTestEnv(t)
	doc := e.createDoc(t, "Recipes")
	e.gen.Selection = quire.Selection{DocumentID: doc.ID, DocumentName: "Recipes"}
	e.gen.Proposal = []quire.Block{{Variant: quire.Paragraph{Content: "Add salt."}}}

	rec := e.do(t, http.MethodPost, "/api/generate", `{"input":"remember salt"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /api/generate status = %d, body %s", rec.Code, rec.Body)
	}
	res := decode[struct {
		Selection quire.Selection `json:"selection"`
		Added     []quire.Block   `json:"added"`
	}](t, rec)
	if res.Selection.DocumentID != doc.ID || len(res.Added) != 1 {
		t.Errorf("generate result = %+v", res)
	}
	if !strings.Contains(rec.Body.String(), `"projectId":"`+doc.ID+`"`) {
		t.Errorf("selection not in client shape: %s", rec.Body)
	}

	wantError(t, e.do(t, http.MethodPost, "/api/generate", `{"input":""}`), http.StatusBadRequest, "invalid_request")
}

func TestCORS(t *testing.T) {
	e := newTestEnv(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/documents", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}
