package handler

import (
	"net/http"
	"strconv"

	"prepsim/internal/app/service"
	"prepsim/internal/common"

	"github.com/go-chi/chi/v5"
)

type SimulatorHandler struct {
	simulatorService *service.SimulatorService
	attemptService   *service.AttemptService
}

func NewSimulatorHandler(simulatorService *service.SimulatorService, attemptService *service.AttemptService) *SimulatorHandler {
	return &SimulatorHandler{simulatorService: simulatorService, attemptService: attemptService}
}

func (h *SimulatorHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{simulatorID}", h.get)
	r.Get("/{simulatorID}/questions", h.previewQuestions)
}

func (h *SimulatorHandler) list(w http.ResponseWriter, r *http.Request) {
	sims, err := h.simulatorService.List(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, sims)
}

func (h *SimulatorHandler) get(w http.ResponseWriter, r *http.Request) {
	sim, err := h.simulatorService.Get(r.Context(), chi.URLParam(r, "simulatorID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, sim)
}

// previewQuestions generates a full question set for the simulator's
// area without starting an attempt.
func (h *SimulatorHandler) previewQuestions(w http.ResponseWriter, r *http.Request) {
	sim, err := h.simulatorService.Get(r.Context(), chi.URLParam(r, "simulatorID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	count, _ := strconv.Atoi(r.URL.Query().Get("question_count"))
	questions, err := h.attemptService.GenerateQuestions(r.Context(), sim.Area, count)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"simulator_id": sim.ID,
		"questions":    questions,
		"total":        len(questions),
	})
}
