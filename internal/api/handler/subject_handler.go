package handler

import (
	"net/http"
	"strconv"

	"prepsim/internal/api/middleware"
	"prepsim/internal/app/service"
	"prepsim/internal/common"

	"github.com/go-chi/chi/v5"
)

type SubjectHandler struct {
	subjectService *service.SubjectService
	authService    *service.AuthService
}

func NewSubjectHandler(subjectService *service.SubjectService, authService *service.AuthService) *SubjectHandler {
	return &SubjectHandler{subjectService: subjectService, authService: authService}
}

func (h *SubjectHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{subjectID}", h.get)
	r.Get("/{subjectID}/questions", h.practiceQuestions)
}

func (h *SubjectHandler) list(w http.ResponseWriter, r *http.Request) {
	subjects, err := h.subjectService.List(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, subjects)
}

func (h *SubjectHandler) get(w http.ResponseWriter, r *http.Request) {
	subject, err := h.subjectService.Get(r.Context(), chi.URLParam(r, "subjectID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, subject)
}

// practiceQuestions draws an entitlement-capped random practice set and
// books it against the caller's daily quota.
func (h *SubjectHandler) practiceQuestions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}
	user, err := h.authService.Me(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	count, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	draw, err := h.subjectService.PracticeQuestions(r.Context(), user, chi.URLParam(r, "subjectID"), count)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, draw)
}
