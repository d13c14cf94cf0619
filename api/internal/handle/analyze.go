package handle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"notice-guard/api/internal/notice"
	"notice-guard/api/internal/notice/types"
)

const maxRequestBytes = 1 << 20

type AnalyzeRequest struct {
	LLMName string `json:"llm_name"`
	types.AnalysisRequest
}

func (h *Handle) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json: " + err.Error()})
		return
	}

	name := strings.TrimSpace(req.LLMName)
	if name == "" {
		name = h.provider
	}
	gen, err := h.engs.Get(name)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	opts := h.opts
	if d := requestTimeout(r); d > 0 {
		opts.Timeout = d
	}
	// The analyzer bounds the generator itself; the extra slack covers the
	// local fallback after a timeout.
	ctx, cancel := context.WithTimeout(r.Context(), timeoutOrDefault(opts.Timeout)+5*time.Second)
	defer cancel()

	res, err := notice.New(gen, opts).Analyze(ctx, req.AnalysisRequest)
	if errors.Is(err, types.ErrEmptyText) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err != nil {
		h.opts.Logger.Error("analyze failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "analyze error: " + err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// requestTimeout reads X-Request-Timeout or ?timeoutSec in seconds.
func requestTimeout(r *http.Request) time.Duration {
	ts := r.Header.Get("X-Request-Timeout")
	if ts == "" {
		ts = r.URL.Query().Get("timeoutSec")
	}
	if v, _ := strconv.Atoi(ts); v > 0 {
		return time.Duration(v) * time.Second
	}
	return 0
}

func timeoutOrDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return notice.DefaultTimeout
	}
	return d
}
