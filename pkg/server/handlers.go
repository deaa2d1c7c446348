package server

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/layoutdsl/pkg/errors"
	"github.com/matzehuels/layoutdsl/pkg/layout"
	"github.com/matzehuels/layoutdsl/pkg/pipeline"
	"github.com/matzehuels/layoutdsl/pkg/render"
	"github.com/matzehuels/layoutdsl/pkg/store"
)

type handler struct {
	runner       *pipeline.Runner
	store        store.Store
	logger       *log.Logger
	maxBodyBytes int64
}

// interpretRequest is the JSON body accepted by interpret and render.
type interpretRequest struct {
	Source   string `json:"source"`
	Filename string `json:"filename,omitempty"`
	Refresh  bool   `json:"refresh,omitempty"`
}

type interpretResponse struct {
	ID       string         `json:"id,omitempty"`
	CacheHit bool           `json:"cache_hit"`
	Result   *layout.Result `json:"result"`
}

type listResponse struct {
	Interpretations []*store.Record `json:"interpretations"`
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) interpret(w http.ResponseWriter, r *http.Request) {
	req, err := h.decode(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	res, hit, err := h.runner.InterpretWithCacheInfo(r.Context(), pipeline.Options{
		Source:   req.Source,
		Filename: req.Filename,
		Refresh:  req.Refresh,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	resp := interpretResponse{CacheHit: hit, Result: res}
	if h.store != nil {
		rec, err := h.store.Save(r.Context(), req.Source, res)
		if err != nil {
			// The interpretation is still useful without a history entry.
			h.logger.Warn("save interpretation", "err", err)
		} else {
			resp.ID = rec.ID
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) render(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = string(render.FormatSVG)
	}
	f, err := render.ParseFormat(format)
	if err != nil {
		writeError(w, err)
		return
	}
	req, err := h.decode(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.runner.Execute(r.Context(), pipeline.Options{
		Source:   req.Source,
		Filename: req.Filename,
		Refresh:  req.Refresh,
		Formats:  []string{string(f)},
		RankDir:  r.URL.Query().Get("rankdir"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("X-Layout-Form", result.Interpretation.Form().String())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[string(f)])
}

func (h *handler) listInterpretations(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, historyDisabled())
		return
	}
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			writeError(w, errors.New(errors.ErrCodeInvalidInput, "limit must be a non-negative integer, got %q", s))
			return
		}
		limit = n
	}
	recs, err := h.store.List(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if recs == nil {
		recs = []*store.Record{}
	}
	writeJSON(w, http.StatusOK, listResponse{Interpretations: recs})
}

func (h *handler) getInterpretation(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, historyDisabled())
		return
	}
	rec, err := h.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// decode reads the request source from a JSON or plain text body.
func (h *handler) decode(w http.ResponseWriter, r *http.Request) (*interpretRequest, error) {
	body := http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "text/plain" {
		return &interpretRequest{Source: string(data)}, nil
	}

	var req interpretRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "request body is not valid JSON")
	}
	return &req, nil
}

func historyDisabled() error {
	return errors.New(errors.ErrCodeUnsupported, "interpretation history is disabled on this server")
}
