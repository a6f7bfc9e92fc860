package lsp

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/config"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/transform"
)

const (
	serverName    = "sol2move"
	serverVersion = "0.0.1"
)

// Handler serves transpile diagnostics over LSP. Documents are the AST json
// dumps the front-end parser writes for each compilation unit; every open
// and change runs the full transform and publishes the diagnostics against
// the positions recorded in the dump, which point into the original source.
type Handler struct {
	opts config.Options

	mu    sync.RWMutex
	units map[string]*transform.UnitResult
}

// NewHandler creates a handler transpiling under one options set.
func NewHandler(opts config.Options) *Handler {
	return &Handler{
		opts:  opts,
		units: make(map[string]*transform.UnitResult),
	}
}

// Initialize advertises the server's capabilities: full-document sync with
// open/close notifications, diagnostics only.
func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	version := serverVersion
	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
		},
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &version,
		},
	}, nil
}

func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (h *Handler) Shutdown(ctx *glsp.Context) error {
	return nil
}

func (h *Handler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

// TextDocumentDidOpen transpiles a freshly opened unit and publishes its
// diagnostics.
func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	diagnostics, err := h.retranspile(params.TextDocument.URI, []byte(params.TextDocument.Text))
	if err != nil {
		return err
	}
	sendDiagnostics(ctx, params.TextDocument.URI, diagnostics)
	return nil
}

// TextDocumentDidChange re-runs the transform over the changed content. The
// sync kind is full, so the last whole-document event carries the new text;
// a client that sends none falls back to the file on disk.
func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	var content []byte
	for _, change := range params.ContentChanges {
		if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			content = []byte(whole.Text)
		}
	}

	diagnostics, err := h.retranspile(params.TextDocument.URI, content)
	if err != nil {
		return err
	}
	sendDiagnostics(ctx, params.TextDocument.URI, diagnostics)
	return nil
}

// TextDocumentDidClose drops the cached result for the document.
func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return fmt.Errorf("convert URI %s: %w", params.TextDocument.URI, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.units, path)

	return nil
}

// Unit returns the last transpile result for a document path, nil when the
// document is not open or never transpiled cleanly.
func (h *Handler) Unit(path string) *transform.UnitResult {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.units[path]
}

// retranspile runs the batch transform over one document and converts the
// outcome to LSP diagnostics. A dump that does not decode is itself a
// diagnostic at the document head, not a dead server.
func (h *Handler) retranspile(uri protocol.DocumentUri, content []byte) ([]protocol.Diagnostic, error) {
	path, err := uriToPath(uri)
	if err != nil {
		return nil, fmt.Errorf("convert URI %s: %w", uri, err)
	}
	if content == nil {
		content, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}

	unit, err := transform.TranspileJSON(content, h.opts, 0)
	if err != nil {
		return []protocol.Diagnostic{decodeFailure(err)}, nil
	}

	h.mu.Lock()
	h.units[path] = unit
	h.mu.Unlock()

	return Diagnostics(unit), nil
}

// uriToPath converts a file URI to a platform-local path.
func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}

	path := u.Path

	// On Windows, remove the leading slash (e.g. /C:/... becomes C:/...)
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}

	return filepath.FromSlash(path), nil
}

func sendDiagnostics(ctx *glsp.Context, uri protocol.URI, diagnostics []protocol.Diagnostic) {
	log.Printf("publishing %d diagnostic(s) for %s\n", len(diagnostics), uri)

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func ptrBool(b bool) *bool {
	return &b
}

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
