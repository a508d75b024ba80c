package handler

import (
	"net/http"

	"github.com/templui/carepledge/internal/service"
	"github.com/templui/carepledge/internal/validation"
)

type DashboardHandler struct {
	insightsService *service.InsightsService
	snapshotService *service.SnapshotService
}

func NewDashboardHandler(insightsService *service.InsightsService, snapshotService *service.SnapshotService) *DashboardHandler {
	return &DashboardHandler{
		insightsService: insightsService,
		snapshotService: snapshotService,
	}
}

func (h *DashboardHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	board, err := h.insightsService.Leaderboard(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeResult(w, board)
}

func (h *DashboardHandler) CommandCenter(w http.ResponseWriter, r *http.Request) {
	var in struct {
		AdminID string `json:"adminId"`
	}
	if err := decodeInput(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validation.Required("adminId", in.AdminID, 100); err != nil {
		writeError(w, r, err)
		return
	}

	cc, err := h.insightsService.CommandCenter(r.Context(), in.AdminID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeResult(w, cc)
}

func (h *DashboardHandler) TokenEconomy(w http.ResponseWriter, r *http.Request) {
	te, err := h.insightsService.TokenEconomy(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeResult(w, te)
}

func (h *DashboardHandler) ExportSnapshot(w http.ResponseWriter, r *http.Request) {
	var in struct {
		AdminID string `json:"adminId"`
	}
	if err := decodeInput(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.snapshotService.Export(r.Context(), in.AdminID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeResult(w, res)
}
