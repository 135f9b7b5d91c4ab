// Package api serves the retrieval wire protocol over HTTP. The same
// shapes the remote client consumes are produced here, so a local
// deployment can front any number of remote-mode consumers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/loreseek/internal/core/domain"
	"github.com/custodia-labs/loreseek/internal/core/services"
	"github.com/custodia-labs/loreseek/internal/logger"
)

// Timeouts for the HTTP server.
const (
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
)

// Server exposes a registry over the wire protocol. The registry is held
// behind an atomic pointer so a checkpoint rebuild can swap in a fresh
// one without interrupting in-flight requests.
type Server struct {
	registry atomic.Pointer[services.Registry]
	srv      *http.Server
}

// NewServer creates a server for the given registry listening on addr.
func NewServer(addr string, registry *services.Registry) *Server {
	s := &Server{}
	s.registry.Store(registry)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/retrieve", s.handleRetrieve)
	mux.HandleFunc("POST /api/v1/retrieve/bm25", s.handleRetrieveBM25)
	mux.HandleFunc("GET /api/v1/chunks/{language}/{file_id}", s.handleChunks)
	mux.HandleFunc("GET /api/v1/manifest/{language}", s.handleManifest)
	mux.HandleFunc("GET /api/v1/languages", s.handleLanguages)

	s.srv = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  DefaultReadTimeout,
		WriteTimeout: DefaultWriteTimeout,
	}

	return s
}

// Handler returns the route handler, exposed for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// SwapRegistry atomically replaces the served registry.
func (s *Server) SwapRegistry(registry *services.Registry) {
	s.registry.Store(registry)
	logger.Info("Registry swapped: now serving %d language(s)", registry.Len())
}

// ListenAndServe blocks serving requests until Shutdown is called.
func (s *Server) ListenAndServe() error {
	logger.Info("Serving retrieval API on %s", s.srv.Addr)
	err := s.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultShutdownTimeout)
	defer cancel()
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleRetrieve(w http.ResponseWriter, r *http.Request) {
	s.retrieve(w, r, false)
}

func (s *Server) handleRetrieveBM25(w http.ResponseWriter, r *http.Request) {
	s.retrieve(w, r, true)
}

func (s *Server) retrieve(w http.ResponseWriter, r *http.Request, keywordOnly bool) {
	var req domain.RetrieveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}

	store, ok := s.resolveStore(w, req.Language)
	if !ok {
		return
	}

	q := domain.RetrieveQuery{
		Query:        req.Query,
		K:            req.K,
		ChunkContext: req.ChunkContext,
	}

	var result domain.RetrieveResult
	var err error
	if keywordOnly {
		result, err = store.Retriever.RetrieveBM25(r.Context(), q)
	} else {
		result, err = store.Retriever.Retrieve(r.Context(), q)
	}
	if err != nil {
		logger.Error("Retrieval failed for %q: %v", req.Query, err)
		writeError(w, http.StatusInternalServerError, "retrieval failed", "")
		return
	}

	writeJSON(w, http.StatusOK, domain.ToWire(req.Query, result))
}

func (s *Server) handleChunks(w http.ResponseWriter, r *http.Request) {
	store, ok := s.resolveStore(w, r.PathValue("language"))
	if !ok {
		return
	}

	fileID := r.PathValue("file_id")
	chunks, err := store.Retriever.GetFileChunks(r.Context(), fileID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "file not found", fileID)
			return
		}
		logger.Error("Chunk lookup failed for %s: %v", fileID, err)
		writeError(w, http.StatusInternalServerError, "chunk lookup failed", "")
		return
	}

	resp := domain.ChunksResponse{
		FileID: fileID,
		Chunks: make([]domain.WireDocument, len(chunks)),
	}
	for i, c := range chunks {
		resp.Chunks[i] = domain.WireDocument{
			Content: c.Text,
			Metadata: domain.WireMetadata{
				FileID:     c.FileID,
				ChunkIndex: c.Index,
				Path:       c.Path,
			},
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	registry := s.registry.Load()
	lang := domain.ParseLanguage(r.PathValue("language"))

	store, err := registry.Get(lang)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown language", string(lang))
		return
	}

	entries := store.Manifest.Entries()
	if entries == nil {
		entries = []domain.ManifestEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	registry := s.registry.Load()

	langs := registry.Languages()
	resp := domain.LanguagesResponse{Languages: make([]string, len(langs))}
	for i, l := range langs {
		resp.Languages[i] = string(l)
	}

	writeJSON(w, http.StatusOK, resp)
}

// resolveStore parses the language and finds its store, writing the 400
// itself when either step fails.
func (s *Server) resolveStore(w http.ResponseWriter, language string) (*services.Store, bool) {
	registry := s.registry.Load()

	lang := domain.ParseLanguage(language)
	store, err := registry.Get(lang)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown language", string(lang))
		return nil, false
	}
	return store, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg, value string) {
	writeJSON(w, status, domain.WireError{Error: msg, Value: value})
}
