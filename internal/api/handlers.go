package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hnp180493/gloss/internal/apperr"
	"github.com/hnp180493/gloss/internal/glossaryservice"
	"github.com/hnp180493/gloss/internal/models"
)

// Handler holds API route handlers.
type Handler struct {
	svc *glossaryservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *glossaryservice.Service) *Handler {
	return &Handler{svc: svc}
}

// contextFiles reads the repeated "context" query parameter.
func contextFiles(r *http.Request) []string {
	var out []string
	for _, c := range r.URL.Query()["context"] {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// Lookup handles GET /definitions/lookup?phrase=...&context=... and returns
// the first matching definition in discovery order.
func (h *Handler) Lookup(w http.ResponseWriter, r *http.Request) {
	phrase := r.URL.Query().Get("phrase")
	if phrase == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'phrase' is required"))
		return
	}
	d, err := h.svc.Lookup(phrase, contextFiles(r))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("no definition for phrase"))
			return
		}
		slog.Error("lookup failed", slog.String("phrase", phrase), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// ListDefinitions handles GET /definitions. With a phrase parameter it
// returns every definition under that key; without, every definition in the
// index. Context filtering applies to both forms.
func (h *Handler) ListDefinitions(w http.ResponseWriter, r *http.Request) {
	ctx := contextFiles(r)
	var defs []models.Definition
	if phrase := r.URL.Query().Get("phrase"); phrase != "" {
		defs = h.svc.LookupAll(phrase, ctx)
	} else {
		defs = h.svc.AllDefinitions(ctx)
	}
	if defs == nil {
		defs = []models.Definition{}
	}
	writeJSON(w, http.StatusOK, DefinitionListResponse{Definitions: defs, Total: len(defs)})
}

// ListPhrases handles GET /phrases.
func (h *Handler) ListPhrases(w http.ResponseWriter, r *http.Request) {
	phrases := h.svc.Phrases(contextFiles(r))
	if phrases == nil {
		phrases = []string{}
	}
	writeJSON(w, http.StatusOK, PhraseListResponse{Phrases: phrases})
}

// Scan handles POST /scan.
func (h *Handler) Scan(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var req ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Text == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("text is required"))
		return
	}
	matches := h.svc.Scan(req.Text, req.Path)
	if matches == nil {
		matches = []models.Match{}
	}
	writeJSON(w, http.StatusOK, ScanResponse{Matches: matches})
}

// Usages handles GET /usages?phrase=...
func (h *Handler) Usages(w http.ResponseWriter, r *http.Request) {
	phrase := r.URL.Query().Get("phrase")
	if phrase == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'phrase' is required"))
		return
	}
	usages, err := h.svc.Usages(phrase)
	if err != nil {
		slog.Error("usage search failed", slog.String("phrase", phrase), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if usages == nil {
		usages = []models.Usage{}
	}
	writeJSON(w, http.StatusOK, UsageListResponse{Usages: usages})
}

// CreateDefinition handles POST /definitions.
func (h *Handler) CreateDefinition(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var req CreateDefinitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	var (
		d   *models.Definition
		err error
	)
	if req.Atomic {
		d, err = h.svc.CreateAtomic(req.Phrase, req.Aliases, req.Content)
	} else {
		if req.File == "" {
			writeJSON(w, http.StatusBadRequest, errorBody("file is required for consolidated definitions"))
			return
		}
		d, err = h.svc.CreateBlock(req.File, req.Phrase, req.Aliases, req.Content)
	}
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrValidation):
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		case errors.Is(err, apperr.ErrAlreadyExists):
			writeJSON(w, http.StatusConflict, errorBody("definition already exists"))
		default:
			slog.Error("create definition failed", slog.String("phrase", req.Phrase), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

// UpdateDefinition handles PUT /definitions. The If-Match header, when set,
// carries the expected file checksum for optimistic concurrency.
func (h *Handler) UpdateDefinition(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var req UpdateDefinitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.File == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("file is required"))
		return
	}

	ifMatch := strings.Trim(r.Header.Get("If-Match"), `"`)

	d, err := h.svc.UpdateBlock(req.File, req.Phrase, req.Aliases, req.Content, ifMatch)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrValidation):
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		case errors.Is(err, apperr.ErrNotFound):
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		case errors.Is(err, apperr.ErrConflict):
			writeJSON(w, http.StatusConflict, errorBody("checksum mismatch"))
		default:
			slog.Error("update definition failed", slog.String("phrase", req.Phrase), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// DeleteDefinition handles DELETE /definitions?file=...&phrase=...
func (h *Handler) DeleteDefinition(w http.ResponseWriter, r *http.Request) {
	file := r.URL.Query().Get("file")
	phrase := r.URL.Query().Get("phrase")
	if file == "" || phrase == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("file and phrase are required"))
		return
	}
	if err := h.svc.DeleteDefinition(file, phrase); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		slog.Error("delete definition failed", slog.String("phrase", phrase), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Classify handles GET /files/classify?path=...
func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'path' is required"))
		return
	}
	writeJSON(w, http.StatusOK, ClassifyResponse{
		Path:           path,
		DefinitionFile: h.svc.IsDefinitionFile(path),
	})
}

// ListFiles handles GET /files and returns every path currently owning
// definitions, for presentation-layer highlighting.
func (h *Handler) ListFiles(w http.ResponseWriter, _ *http.Request) {
	files := h.svc.DefinitionFiles()
	if files == nil {
		files = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"files": files})
}

// Reload handles POST /reload: a full clear-and-rebuild of the index.
func (h *Handler) Reload(w http.ResponseWriter, _ *http.Request) {
	if err := h.svc.Reload(); err != nil {
		slog.Error("reload failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reloaded"})
}
