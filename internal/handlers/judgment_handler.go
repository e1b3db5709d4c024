// File: internal/handlers/judgment_handler.go
package handlers

import (
	"context"
	"net/http"

	"github.com/iyunix/go-legalist/internal/domain"
	"github.com/iyunix/go-legalist/internal/services/judgments"
)

// JudgmentSource yields recent judgments. It never fails; an unreachable
// source yields an empty list.
type JudgmentSource interface {
	FetchLive(ctx context.Context) []domain.Judgment
}

type JudgmentHandler struct {
	source JudgmentSource
}

func NewJudgmentHandler(source JudgmentSource) *JudgmentHandler {
	return &JudgmentHandler{source: source}
}

func (h *JudgmentHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.source.FetchLive(r.Context()))
}

func (h *JudgmentHandler) RecentVerdicts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, judgments.RecentVerdicts())
}
