package handler

import (
	"errors"
	"net/http"

	"github.com/templui/carepledge/internal/model"
	"github.com/templui/carepledge/internal/repository"
	"github.com/templui/carepledge/internal/service"
	"github.com/templui/carepledge/internal/validation"
)

var assignedByRoles = []string{model.AssignedBySelf, model.AssignedByDoctor}

type GoalHandler struct {
	goalService *service.GoalService
}

func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
	}
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Status string `json:"status"`
	}
	if err := decodeInput(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validation.OptionalOneOf("status", in.Status, model.GoalStatuses); err != nil {
		writeError(w, r, err)
		return
	}

	goals, err := h.goalService.List(r.Context(), in.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeResult(w, goals)
}

func (h *GoalHandler) History(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Limit  int `json:"limit"`
		Offset int `json:"offset"`
	}
	if err := decodeInput(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validation.First(
		validation.NonNegative("limit", in.Limit),
		validation.NonNegative("offset", in.Offset),
	); err != nil {
		writeError(w, r, err)
		return
	}

	goals, err := h.goalService.History(r.Context(), in.Limit, in.Offset)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeResult(w, goals)
}

func (h *GoalHandler) PendingRewards(w http.ResponseWriter, r *http.Request) {
	rewards, err := h.goalService.PendingRewards(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeResult(w, rewards)
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.GoalInput
	if err := decodeInput(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validation.First(
		validation.Required("title", in.Title, 200),
		validation.MaxLength("description", in.Description, 2000),
		validation.OneOf("category", in.Category, model.GoalCategories),
		validation.OptionalOneOf("status", in.Status, model.GoalStatuses),
		validation.OptionalOneOf("assignedByRole", in.AssignedByRole, assignedByRoles),
		validation.NonNegative("reward", in.Reward),
		validation.Percent("progress", in.Progress),
	); err != nil {
		writeError(w, r, err)
		return
	}

	goal, err := h.goalService.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeResult(w, goal)
}

func validatePatch(p model.GoalPatch) error {
	var errs []error
	if p.Title != nil {
		errs = append(errs, validation.Required("title", *p.Title, 200))
	}
	if p.Category != nil {
		errs = append(errs, validation.OneOf("category", *p.Category, model.GoalCategories))
	}
	if p.Status != nil {
		errs = append(errs, validation.OneOf("status", *p.Status, model.GoalStatuses))
	}
	if p.AssignedByRole != nil {
		errs = append(errs, validation.OneOf("assignedByRole", *p.AssignedByRole, assignedByRoles))
	}
	if p.Reward != nil {
		errs = append(errs, validation.NonNegative("reward", *p.Reward))
	}
	if p.Progress != nil {
		errs = append(errs, validation.Percent("progress", *p.Progress))
	}
	return validation.First(errs...)
}

// Update answers null for an unknown goal id.
func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ID      string          `json:"id"`
		Updates model.GoalPatch `json:"updates"`
	}
	if err := decodeInput(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validation.First(validation.Required("id", in.ID, 100), validatePatch(in.Updates)); err != nil {
		writeError(w, r, err)
		return
	}

	goal, err := h.goalService.Update(r.Context(), in.ID, in.Updates)
	if errors.Is(err, repository.ErrGoalNotFound) {
		writeResult(w, nil)
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeResult(w, goal)
}

type completeResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Complete reports an unknown goal id in the result rather than as an error.
func (h *GoalHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ID string `json:"id"`
	}
	if err := decodeInput(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validation.Required("id", in.ID, 100); err != nil {
		writeError(w, r, err)
		return
	}

	err := h.goalService.Complete(r.Context(), in.ID)
	if errors.Is(err, repository.ErrGoalNotFound) {
		writeResult(w, completeResult{Success: false, Error: "Goal not found"})
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeResult(w, completeResult{Success: true})
}
