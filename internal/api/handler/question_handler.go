package handler

import (
	"net/http"
	"strconv"

	"prepsim/internal/api/middleware"
	"prepsim/internal/app/service"
	"prepsim/internal/common"

	"github.com/go-chi/chi/v5"
)

type QuestionHandler struct {
	questionService *service.QuestionService
}

func NewQuestionHandler(questionService *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

func (h *QuestionHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{questionID}", h.get)
}

func (h *QuestionHandler) list(w http.ResponseWriter, r *http.Request) {
	role, _ := middleware.GetUserRoleFromContext(r.Context())
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	questions, err := h.questionService.List(r.Context(), role, r.URL.Query().Get("subject_id"), limit)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, questions)
}

func (h *QuestionHandler) get(w http.ResponseWriter, r *http.Request) {
	role, _ := middleware.GetUserRoleFromContext(r.Context())

	question, err := h.questionService.Get(r.Context(), role, chi.URLParam(r, "questionID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, question)
}
