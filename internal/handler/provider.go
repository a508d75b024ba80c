package handler

import (
	"net/http"

	"github.com/templui/carepledge/internal/service"
	"github.com/templui/carepledge/internal/validation"
)

type ProviderHandler struct {
	pledgeService   *service.PledgeService
	insightsService *service.InsightsService
}

func NewProviderHandler(pledgeService *service.PledgeService, insightsService *service.InsightsService) *ProviderHandler {
	return &ProviderHandler{
		pledgeService:   pledgeService,
		insightsService: insightsService,
	}
}

func (h *ProviderHandler) CreatePledge(w http.ResponseWriter, r *http.Request) {
	var in service.PledgeInput
	if err := decodeInput(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validation.First(
		validation.Required("patientId", in.PatientID, 100),
		validation.Positive("amount", in.Amount),
		validation.Required("goal", in.Goal, 200),
		validation.MaxLength("message", in.Message, 1000),
		validation.MaxLength("target", in.Target, 200),
		validation.OptionalEmail("providerEmail", in.ProviderEmail),
	); err != nil {
		writeError(w, r, err)
		return
	}

	pledge, err := h.pledgeService.CreatePledge(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeResult(w, pledge)
}

func (h *ProviderHandler) AcceptPledge(w http.ResponseWriter, r *http.Request) {
	var in struct {
		PledgeID string `json:"pledgeId"`
	}
	if err := decodeInput(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validation.Required("pledgeId", in.PledgeID, 100); err != nil {
		writeError(w, r, err)
		return
	}

	pledge, err := h.pledgeService.AcceptPledge(r.Context(), in.PledgeID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeResult(w, pledge)
}

func (h *ProviderHandler) PatientPledges(w http.ResponseWriter, r *http.Request) {
	var in struct {
		PatientID string `json:"patientId"`
	}
	if err := decodeInput(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validation.Required("patientId", in.PatientID, 100); err != nil {
		writeError(w, r, err)
		return
	}

	pledges, err := h.pledgeService.PatientPledges(r.Context(), in.PatientID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeResult(w, pledges)
}

// MyPledges is the patient-facing list; userId is the patient reference.
func (h *ProviderHandler) MyPledges(w http.ResponseWriter, r *http.Request) {
	var in struct {
		UserID string `json:"userId"`
	}
	if err := decodeInput(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validation.Required("userId", in.UserID, 100); err != nil {
		writeError(w, r, err)
		return
	}

	pledges, err := h.pledgeService.MyPledges(r.Context(), in.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeResult(w, pledges)
}

func (h *ProviderHandler) UpdatePatientStatus(w http.ResponseWriter, r *http.Request) {
	var in struct {
		PatientID string `json:"patientId"`
		Status    string `json:"status"`
	}
	if err := decodeInput(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validation.First(
		validation.Required("patientId", in.PatientID, 100),
		validation.Required("status", in.Status, 50),
	); err != nil {
		writeError(w, r, err)
		return
	}

	patient, err := h.pledgeService.UpdatePatientStatus(r.Context(), in.PatientID, in.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeResult(w, patient)
}

func (h *ProviderHandler) UpdatePledgeProgress(w http.ResponseWriter, r *http.Request) {
	var in struct {
		PledgeID string `json:"pledgeId"`
		Progress int    `json:"progress"`
	}
	if err := decodeInput(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validation.Required("pledgeId", in.PledgeID, 100); err != nil {
		writeError(w, r, err)
		return
	}

	pledge, err := h.pledgeService.UpdatePledgeProgress(r.Context(), in.PledgeID, in.Progress)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeResult(w, pledge)
}

func (h *ProviderHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ProviderID string `json:"providerId"`
	}
	if err := decodeInput(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validation.Required("providerId", in.ProviderID, 100); err != nil {
		writeError(w, r, err)
		return
	}

	dashboard, err := h.insightsService.ProviderDashboard(r.Context(), in.ProviderID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeResult(w, dashboard)
}
