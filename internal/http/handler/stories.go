package handler

import (
	"net/http"
	"strings"

	"whispermap/internal/story"
)

type StoryHandler struct {
	Svc *story.Service
}

type createStoryReq struct {
	Content   string   `json:"content" validate:"required,min=10,max=500"`
	Category  string   `json:"category" validate:"required,oneof=Miedo Amor Crimen Curiosidad"`
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
}

func (req *createStoryReq) normalize() {
	req.Content = strings.TrimSpace(req.Content)
	req.Category = strings.TrimSpace(req.Category)
}

func (h *StoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createStoryReq
	if !decodeValid(w, r, &req) {
		return
	}

	v, err := h.Svc.Create(r.Context(), story.CreateInput{
		Content:   req.Content,
		Category:  story.Category(req.Category),
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (h *StoryHandler) List(w http.ResponseWriter, r *http.Request) {
	category := strings.TrimSpace(r.URL.Query().Get("category"))

	out, err := h.Svc.List(r.Context(), category)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *StoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := storyID(w, r)
	if !ok {
		return
	}

	v, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *StoryHandler) Trending(w http.ResponseWriter, r *http.Request) {
	out, err := h.Svc.Trending(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
