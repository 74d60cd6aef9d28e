package handler

import (
	"encoding/json"
	"net/http"

	"prepsim/internal/api/middleware"
	"prepsim/internal/app/service"
	"prepsim/internal/common"

	"github.com/go-chi/chi/v5"
)

type AttemptHandler struct {
	attemptService      *service.AttemptService
	subscriptionService *service.SubscriptionService
	authService         *service.AuthService
}

func NewAttemptHandler(
	attemptService *service.AttemptService,
	subscriptionService *service.SubscriptionService,
	authService *service.AuthService,
) *AttemptHandler {
	return &AttemptHandler{
		attemptService:      attemptService,
		subscriptionService: subscriptionService,
		authService:         authService,
	}
}

func (h *AttemptHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{attemptID}", h.detail)
	r.Get("/{attemptID}/questions", h.questions)
	r.Post("/{attemptID}/save-progress", h.saveProgress)
	r.Post("/{attemptID}/submit", h.submit)
	r.Post("/{attemptID}/abandon", h.abandon)
	r.Get("/{attemptID}/results", h.results)
}

func (h *AttemptHandler) create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req service.CreateAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	if req.SimulatorID == "" {
		common.RespondWithError(w, http.StatusBadRequest, "simulator_id is required")
		return
	}

	user, err := h.authService.Me(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	// Entitlement gate: check the simulator's area against the free-tier
	// limits before any allocation work happens.
	area, err := h.attemptService.SimulatorArea(r.Context(), req.SimulatorID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	allowed, err := h.subscriptionService.CheckSimulatorAccess(r.Context(), user, area)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	if !allowed {
		common.RespondWithError(w, http.StatusForbidden, h.subscriptionService.SimulatorAccessDeniedMessage())
		return
	}

	attempt, simulator, err := h.attemptService.Create(r.Context(), userID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	common.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"attempt":   attempt,
		"simulator": simulator,
	})
}

func (h *AttemptHandler) list(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	attempts, err := h.attemptService.List(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, attempts)
}

func (h *AttemptHandler) detail(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	detail, err := h.attemptService.Detail(r.Context(), userID, chi.URLParam(r, "attemptID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, detail)
}

func (h *AttemptHandler) questions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	resp, err := h.attemptService.Questions(r.Context(), userID, chi.URLParam(r, "attemptID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *AttemptHandler) saveProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req service.SaveProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	if err := h.attemptService.SaveProgress(r.Context(), userID, chi.URLParam(r, "attemptID"), req); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.MessageResponse{Message: "Progress saved"})
}

func (h *AttemptHandler) submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req service.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	result, err := h.attemptService.Submit(r.Context(), userID, chi.URLParam(r, "attemptID"), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, result)
}

func (h *AttemptHandler) abandon(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	result, err := h.attemptService.Abandon(r.Context(), userID, chi.URLParam(r, "attemptID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, result)
}

func (h *AttemptHandler) results(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	detail, err := h.attemptService.Results(r.Context(), userID, chi.URLParam(r, "attemptID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, detail)
}
