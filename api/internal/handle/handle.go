package handle

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"notice-guard/api/internal/llm"
	"notice-guard/api/internal/notice"
)

type Handle struct {
	engs     *llm.Engines
	provider string // used when a request names no llm
	opts     notice.Options
}

func New(engs *llm.Engines, provider string, opts notice.Options) *Handle {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Handle{
		engs:     engs,
		provider: provider,
		opts:     opts,
	}
}

// Register mounts the analysis endpoint on r.
func (h *Handle) Register(r *mux.Router) {
	r.HandleFunc("/v1/notice/analyze", h.Analyze).Methods(http.MethodPost)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
