package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/nafsiapp/nafsi-backend/internal/models"
)

const geminiModel = "gemini-2.5-flash"

// companionSystemInstruction shapes the AI companion. NafsiBot is a
// supportive listener, never a diagnosing clinician.
const companionSystemInstruction = `You are NafsiBot, a compassionate and supportive AI mental health companion. Your primary language for interaction is Moroccan Darija, but you are also fluent in Modern Standard Arabic, French, and English. Your main purpose is to provide a safe, non-judgmental space for users to express their feelings and experiences. You are NOT a licensed therapist. If a user asks for a medical diagnosis, a treatment plan, or discusses severe crisis situations (like self-harm), you must gently decline to provide medical advice and strongly encourage them to connect with a professional therapist through the app's 'Therapists' section or contact emergency services. Be warm, empathetic, and use supportive language.`

// GeminiService wraps the generative-language API: assessment question
// generation, answer analysis and the streaming companion chat.
type GeminiService struct {
	client *genai.Client

	// A single companion conversation is created lazily and shared for
	// the lifetime of the process. chatMu serializes sends so the
	// conversation history stays coherent.
	chatMu sync.Mutex
	chat   *genai.Chat
}

// NewGeminiService creates the Gemini client.
func NewGeminiService(ctx context.Context, apiKey string) (*GeminiService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is empty")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	return &GeminiService{client: client}, nil
}

var questionPrompts = map[models.Language]string{
	models.LanguageEN: "Generate 12 multiple-choice questions for a preliminary mental health screening. The questions should be gentle and designed to screen for common conditions, covering a wider range of topics including mood (depression), anhedonia, anxiety, worry, daily functioning, loneliness, self-esteem, and sleep patterns. Provide 4 simple, frequency-based options for each question, such as 'Not at all', 'Several days', 'More than half the days', 'Nearly every day'.",
	models.LanguageAR: "أنشئ 12 سؤالًا متعدد الخيارات للفحص الأولي للصحة النفسية. يجب أن تكون الأسئلة لطيفة ومصممة للكشف عن الحالات الشائعة، وتغطي مجموعة أوسع من الموضوعات بما في ذلك المزاج (الاكتئاب)، وفقدان الاهتمام، والقلق، والهم، والأداء اليومي، والشعور بالوحدة، وتقدير الذات، وأنماط النوم. قدم 4 خيارات بسيطة قائمة على التكرار لكل سؤال، مثل 'إطلاقًا'، 'عدة أيام'، 'أكثر من نصف الأيام'، 'كل يوم تقريبًا'.",
	models.LanguageFR: "Générez 12 questions à choix multiples pour un dépistage préliminaire de la santé mentale. Les questions doivent être douces et conçues pour dépister des conditions courantes, en couvrant un plus large éventail de sujets, y compris l'humeur (dépression), l'anhédonie, l'anxiété, l'inquiétude, le fonctionnement quotidien, la solitude, l'estime de soi et les habitudes de sommeil. Fournissez 4 options simples basées sur la fréquence pour chaque question, comme 'Pas du tout', 'Plusieurs jours', 'Plus de la moitié des jours', 'Presque tous les jours'.",
}

// AssessmentQuestions asks the model for the screening questionnaire in
// the given language.
func (s *GeminiService) AssessmentQuestions(ctx context.Context, lang models.Language) ([]models.Question, error) {
	prompt, ok := questionPrompts[lang]
	if !ok {
		prompt = questionPrompts[models.LanguageEN]
	}

	schema := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"questions": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"question": {Type: genai.TypeString},
						"options":  {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
					},
					Required: []string{"question", "options"},
				},
			},
		},
		Required: []string{"questions"},
	}

	resp, err := s.client.Models.GenerateContent(ctx, geminiModel, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate assessment questions: %w", err)
	}

	return parseQuestions([]byte(strings.TrimSpace(resp.Text())))
}

// parseQuestions decodes the model's {"questions": [...]} payload.
func parseQuestions(data []byte) ([]models.Question, error) {
	var out struct {
		Questions []models.Question `json:"questions"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("malformed questions response: %w", err)
	}
	if len(out.Questions) == 0 {
		return nil, fmt.Errorf("questions response is empty")
	}
	for i, q := range out.Questions {
		if strings.TrimSpace(q.Question) == "" || len(q.Options) == 0 {
			return nil, fmt.Errorf("question %d is incomplete", i)
		}
	}
	return out.Questions, nil
}

// AnalyzeAssessment submits the full answer map and returns the
// structured result. The recommended room ids always come from the
// official vocabulary, whatever language the summary is in.
func (s *GeminiService) AnalyzeAssessment(ctx context.Context, answers map[int]string, lang models.Language) (models.AssessmentResult, error) {
	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return models.AssessmentResult{}, err
	}

	var prompt string
	switch lang {
	case models.LanguageAR:
		prompt = fmt.Sprintf("أكمل مستخدم فحصًا أوليًا للصحة النفسية. إليك إجاباته: %s. بناءً على هذه الإجابات، قدم ملخصًا موجزًا وداعمًا وغير سريري لحالته العاطفية المحتملة. بعد ذلك، حدد الشاغل الرئيسي (على سبيل المثال، 'الاكتئاب'، 'القلق'، 'الصدمة'، 'التوتر العام'). أخيرًا، أوصي بمعرف واحد أو أكثر من معرفات غرف الدردشة التالية بناءً على الشاغل الرئيسي: ['depression', 'anxiety', 'trauma', 'general']. يجب أن يكون الملخص والشاغل الرئيسي باللغة العربية. معرفات الغرف يجب أن تبقى كما هي بالإنجليزية.", answersJSON)
	case models.LanguageFR:
		prompt = fmt.Sprintf("Un utilisateur a terminé un dépistage préliminaire de santé mentale. Voici ses réponses : %s. Sur la base de ces réponses, fournissez un résumé bref, encourageant et non clinique de son état émotionnel potentiel. Ensuite, identifiez la préoccupation principale (par exemple, 'Dépression', 'Anxiété', 'Traumatisme', 'Stress général'). Enfin, recommandez un ou plusieurs des identifiants de salon de discussion suivants en fonction de la préoccupation principale : ['depression', 'anxiety', 'trauma', 'general']. Le résumé et la préoccupation principale doivent être en français. Les identifiants de salon doivent rester en anglais.", answersJSON)
	default:
		prompt = fmt.Sprintf("A user has completed a preliminary mental health screening. Here are their answers: %s. Based on these answers, provide a brief, supportive, non-clinical summary of their potential emotional state. Then, identify the primary concern (e.g., 'Depression', 'Anxiety', 'Trauma', 'General Stress'). Finally, recommend one or more of the following chat room IDs based on the primary concern: ['depression', 'anxiety', 'trauma', 'general']. The 'recommendedRoomIds' must be in English from that list. The summary and primary concern should be in English.", answersJSON)
	}

	schema := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"summary":            {Type: genai.TypeString},
			"primaryConcern":     {Type: genai.TypeString},
			"recommendedRoomIds": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		},
		Required: []string{"summary", "primaryConcern", "recommendedRoomIds"},
	}

	resp, err := s.client.Models.GenerateContent(ctx, geminiModel, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	})
	if err != nil {
		return models.AssessmentResult{}, fmt.Errorf("failed to analyze assessment answers: %w", err)
	}

	return parseAssessmentResult([]byte(strings.TrimSpace(resp.Text())))
}

// parseAssessmentResult decodes and normalizes the analysis payload.
// Room ids outside the official vocabulary are dropped; an empty list
// falls back to the general room so the user always has somewhere to go.
func parseAssessmentResult(data []byte) (models.AssessmentResult, error) {
	var result models.AssessmentResult
	if err := json.Unmarshal(data, &result); err != nil {
		return models.AssessmentResult{}, fmt.Errorf("malformed analysis response: %w", err)
	}
	if strings.TrimSpace(result.Summary) == "" || strings.TrimSpace(result.PrimaryConcern) == "" {
		return models.AssessmentResult{}, fmt.Errorf("analysis response is incomplete")
	}

	known := make(map[string]bool, len(models.OfficialRoomIDs))
	for _, id := range models.OfficialRoomIDs {
		known[id] = true
	}
	var rooms []string
	for _, id := range result.RecommendedRoomIDs {
		id = strings.ToLower(strings.TrimSpace(id))
		if known[id] {
			rooms = append(rooms, id)
			known[id] = false // dedup
		}
	}
	if len(rooms) == 0 {
		rooms = []string{"general"}
	}
	result.RecommendedRoomIDs = rooms
	return result, nil
}

// companionChat returns the shared companion conversation, creating it
// on first use. Callers must hold chatMu.
func (s *GeminiService) companionChat(ctx context.Context) (*genai.Chat, error) {
	if s.chat != nil {
		return s.chat, nil
	}
	chat, err := s.client.Chats.Create(ctx, geminiModel, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(companionSystemInstruction, genai.RoleUser),
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start companion chat: %w", err)
	}
	s.chat = chat
	return chat, nil
}

// SendCompanionMessage streams the companion's reply. onChunk is called
// for every text chunk as it arrives; the full accumulated reply is
// returned once the stream completes. An onChunk error aborts the fold.
func (s *GeminiService) SendCompanionMessage(ctx context.Context, text string, onChunk func(chunk string) error) (string, error) {
	s.chatMu.Lock()
	defer s.chatMu.Unlock()

	chat, err := s.companionChat(ctx)
	if err != nil {
		return "", err
	}

	var reply strings.Builder
	for resp, err := range chat.SendMessageStream(ctx, genai.Part{Text: text}) {
		if err != nil {
			return reply.String(), fmt.Errorf("companion stream failed: %w", err)
		}
		chunk := resp.Text()
		if chunk == "" {
			continue
		}
		reply.WriteString(chunk)
		if onChunk != nil {
			if err := onChunk(chunk); err != nil {
				return reply.String(), err
			}
		}
	}
	return reply.String(), nil
}
