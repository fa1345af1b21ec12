package handler

import (
	"net/http"
	"strings"

	"whispermap/internal/logging"
	"whispermap/internal/story"
)

type ReportHandler struct {
	Svc *story.Service
}

type reportReq struct {
	Reason string `json:"reason" validate:"required,min=5,max=300"`
}

func (req *reportReq) normalize() {
	req.Reason = strings.TrimSpace(req.Reason)
}

type reportResp struct {
	Message  string `json:"message"`
	ReportID uint64 `json:"reportId"`
}

func (h *ReportHandler) Report(w http.ResponseWriter, r *http.Request) {
	id, ok := storyID(w, r)
	if !ok {
		return
	}
	var req reportReq
	if !decodeValid(w, r, &req) {
		return
	}

	rep, err := h.Svc.Report(r.Context(), id, req.Reason)
	if err != nil {
		fail(w, r, err)
		return
	}

	logging.Info().Uint64("story", id).Uint64("report", rep.ID).Msg("story reported")
	writeJSON(w, http.StatusCreated, reportResp{Message: "report received, thank you", ReportID: rep.ID})
}
