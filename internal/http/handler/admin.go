package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"whispermap/internal/auth"
	"whispermap/internal/logging"
	"whispermap/internal/story"
)

// AdminHandler serves the moderation surface: login and the report queue.
type AdminHandler struct {
	Admin auth.Admin
	JWT   *auth.JWT
	Svc   *story.Service
}

type loginReq struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (req *loginReq) normalize() {
	req.Username = strings.TrimSpace(req.Username)
}

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if !decodeValid(w, r, &req) {
		return
	}
	if !h.Admin.Check(req.Username, req.Password) {
		logging.Warn().Str("username", req.Username).Msg("admin login rejected")
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := h.JWT.Sign(req.Username)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": token})
}

type reportDTO struct {
	ID        uint64    `json:"id"`
	StoryID   uint64    `json:"storyId"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h *AdminHandler) Reports(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	rows, err := h.Svc.RecentReports(r.Context(), limit)
	if err != nil {
		fail(w, r, err)
		return
	}

	out := make([]reportDTO, 0, len(rows))
	for _, rep := range rows {
		out = append(out, reportDTO{ID: rep.ID, StoryID: rep.StoryID, Reason: rep.Reason, CreatedAt: rep.CreatedAt})
	}
	writeJSON(w, http.StatusOK, out)
}
