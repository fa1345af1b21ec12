package handler

import (
	"context"
	"net/http"
	"strings"

	"whispermap/internal/metrics"
	"whispermap/internal/story"
)

type ReactionHandler struct {
	Svc *story.Service
}

type reactReq struct {
	Type      string `json:"type" validate:"required,oneof=shock sad fire laugh love"`
	SessionID string `json:"sessionId" validate:"required,max=128"`
}

func (req *reactReq) normalize() {
	req.Type = strings.TrimSpace(req.Type)
	req.SessionID = strings.TrimSpace(req.SessionID)
}

type reactionOp func(ctx context.Context, in story.ReactionInput) (story.ReactionState, error)

func (h *ReactionHandler) React(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "add", h.Svc.React)
}

func (h *ReactionHandler) Unreact(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "remove", h.Svc.Unreact)
}

func (h *ReactionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "toggle", h.Svc.Toggle)
}

func (h *ReactionHandler) handle(w http.ResponseWriter, r *http.Request, opName string, op reactionOp) {
	id, ok := storyID(w, r)
	if !ok {
		return
	}
	var req reactReq
	if !decodeValid(w, r, &req) {
		return
	}

	st, err := op(r.Context(), story.ReactionInput{
		StoryID:   id,
		Type:      story.ReactionType(req.Type),
		SessionID: req.SessionID,
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	metrics.ReactionMutations.WithLabelValues(opName, req.Type).Inc()
	writeJSON(w, http.StatusOK, st)
}
