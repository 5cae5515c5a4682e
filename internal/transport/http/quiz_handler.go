package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"cybercase-service/internal/app"
	"cybercase-service/internal/domain"
)

type QuizHandler struct {
	quiz *app.QuizService
}

func NewQuizHandler(quiz *app.QuizService) *QuizHandler {
	return &QuizHandler{quiz: quiz}
}

func (h *QuizHandler) Start(w http.ResponseWriter, r *http.Request) {
	start, err := h.quiz.StartSession(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, start)
}

type submitRequest struct {
	Answers map[string]interface{} `json:"answers"`
}

func (h *QuizHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, domain.ErrInvalidInput)
		return
	}

	result, err := h.quiz.Submit(r.Context(), userIDFrom(r.Context()), normalizeAnswers(req.Answers))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *QuizHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.quiz.Leaderboard(r.Context(), limit)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

// normalizeAnswers accepts question ids as text keys and option indexes as
// numbers or digit strings. Anything unparseable is dropped, which grades
// that question as wrong rather than failing the submission.
func normalizeAnswers(raw map[string]interface{}) map[int64]int {
	answers := make(map[int64]int, len(raw))
	for key, value := range raw {
		qid, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			continue
		}
		switch v := value.(type) {
		case float64:
			answers[qid] = int(v)
		case string:
			if idx, err := strconv.Atoi(v); err == nil {
				answers[qid] = idx
			}
		}
	}
	return answers
}
