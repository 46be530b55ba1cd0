package handlers

import (
	"log"
	"net/http"

	"github.com/nafsiapp/nafsi-backend/internal/i18n"
	"github.com/nafsiapp/nafsi-backend/internal/models"
	"github.com/nafsiapp/nafsi-backend/internal/services"
)

// QuestionsResponse carries the generated screening questionnaire.
type QuestionsResponse struct {
	Success   bool              `json:"success"`
	Questions []models.Question `json:"questions"`
	Dir       string            `json:"dir"`
}

// GetAssessmentQuestions returns the 12-question screening for the
// requested language. Generated questionnaires are cached per language
// so repeated onboardings don't re-hit the collaborator.
func GetAssessmentQuestions(w http.ResponseWriter, r *http.Request) {
	lang := langFrom(r)
	if gemini == nil {
		writeError(w, http.StatusServiceUnavailable, i18n.Message("error_unavailable", lang))
		return
	}

	cacheKey := services.CacheKey("assessment_questions", string(lang))

	var questions []models.Question
	if hit, _ := services.Cache.Get(cacheKey, &questions); !hit {
		var err error
		questions, err = gemini.AssessmentQuestions(r.Context(), lang)
		if err != nil {
			log.Printf("assessment questions (%s): %v", lang, err)
			writeError(w, http.StatusBadGateway, i18n.Message("error_assessment", lang))
			return
		}
		if err := services.Cache.Set(cacheKey, questions); err != nil {
			log.Printf("failed to cache questions (%s): %v", lang, err)
		}
	}

	writeJSON(w, http.StatusOK, QuestionsResponse{
		Success:   true,
		Questions: questions,
		Dir:       lang.Dir(),
	})
}

// CompleteAssessmentRequest is the submitted answer map, keyed by
// question index.
type CompleteAssessmentRequest struct {
	Answers  map[int]string `json:"answers"`
	Language string         `json:"language"`
}

// CompleteAssessmentResponse returns the created user and its session.
type CompleteAssessmentResponse struct {
	Success bool                    `json:"success"`
	User    models.User             `json:"user"`
	Result  models.AssessmentResult `json:"result"`
	Token   string                  `json:"token"`
}

// CompleteAssessment analyzes the answers, creates the user carrying
// the result and opens a session for it. The user exists only after
// the analysis succeeded, so a collaborator failure leaves no state.
func CompleteAssessment(w http.ResponseWriter, r *http.Request) {
	var req CompleteAssessmentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	lang := models.ParseLanguage(req.Language)

	if gemini == nil {
		writeError(w, http.StatusServiceUnavailable, i18n.Message("error_unavailable", lang))
		return
	}
	if len(req.Answers) == 0 {
		writeError(w, http.StatusBadRequest, "Answers are required")
		return
	}

	result, err := gemini.AnalyzeAssessment(r.Context(), req.Answers, lang)
	if err != nil {
		log.Printf("assessment analysis (%s): %v", lang, err)
		writeError(w, http.StatusBadGateway, i18n.Message("error_assessment", lang))
		return
	}

	user := appStore.CompleteAssessment(result)

	token, err := createSession(user.ID)
	if err != nil {
		log.Printf("failed to create session for %s: %v", user.ID, err)
		writeError(w, http.StatusInternalServerError, i18n.Message("error_generic", lang))
		return
	}

	writeJSON(w, http.StatusCreated, CompleteAssessmentResponse{
		Success: true,
		User:    user,
		Result:  result,
		Token:   token,
	})
}
