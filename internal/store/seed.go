package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/nafsiapp/nafsi-backend/internal/models"
)

// seed installs the official rooms, the therapist directory and a small
// fixture community so the feed and friends pages are not empty on a
// fresh deployment.
func (s *Store) seed() {
	s.rooms = officialRooms()
	s.therapists = therapistDirectory()

	now := time.Now().UTC()

	amine := &models.User{
		ID:      "user-amine",
		Name:    "Amine",
		Avatar:  "https://picsum.photos/seed/amine/200",
		Friends: []string{"user-khadija"},
	}
	khadija := &models.User{
		ID:      "user-khadija",
		Name:    "Khadija",
		Avatar:  "https://picsum.photos/seed/khadija/200",
		Friends: []string{"user-amine"},
	}
	mehdi := &models.User{
		ID:      "user-mehdi",
		Name:    "Mehdi",
		Avatar:  "https://picsum.photos/seed/mehdi/200",
		Friends: []string{},
	}

	amine.Posts = []models.Post{
		{
			ID:        uuid.NewString(),
			AuthorID:  amine.ID,
			Text:      "Feeling a bit overwhelmed with work this week, but trying to take it one day at a time. A walk in the park helped clear my head.",
			Timestamp: now.Add(-2 * time.Hour),
			Likes:     []string{mehdi.ID},
		},
	}
	khadija.Posts = []models.Post{
		{
			ID:        uuid.NewString(),
			AuthorID:  khadija.ID,
			Text:      "Today I tried a new recipe for tagine and it turned out great! Small victories like this make me happy. 😊",
			ImageURL:  "https://picsum.photos/seed/tagine/400/300",
			Timestamp: now.Add(-5 * time.Hour),
			Likes:     []string{amine.ID},
		},
		{
			ID:        uuid.NewString(),
			AuthorID:  khadija.ID,
			Text:      "The sunset in Rabat was absolutely breathtaking today.",
			Timestamp: now.Add(-28 * time.Hour),
			Likes:     []string{},
		},
	}
	mehdi.Posts = []models.Post{
		{
			ID:        uuid.NewString(),
			AuthorID:  mehdi.ID,
			Text:      "Has anyone read any good books lately? Looking for recommendations to help me disconnect from screens.",
			Timestamp: now.Add(-10 * time.Hour),
			Likes:     []string{},
		},
	}

	for _, u := range []*models.User{amine, khadija, mehdi} {
		u.CreatedAt = now
		s.users[u.ID] = u
		s.userOrder = append(s.userOrder, u.ID)
	}
}

func officialRooms() []models.ChatRoom {
	return []models.ChatRoom{
		{
			ID:   "depression",
			Icon: "☁️",
			Name: models.LocalizedText{
				models.LanguageEN: "Navigating Depression",
				models.LanguageAR: "التغلب على الاكتئاب",
				models.LanguageFR: "Naviguer la Dépression",
			},
			Description: models.LocalizedText{
				models.LanguageEN: "A space for sharing and support for those feeling down.",
				models.LanguageAR: "مساحة للمشاركة والدعم لمن يشعرون بالإحباط.",
				models.LanguageFR: "Un espace de partage et de soutien pour ceux qui se sentent déprimés.",
			},
		},
		{
			ID:   "anxiety",
			Icon: "🌬️",
			Name: models.LocalizedText{
				models.LanguageEN: "Anxiety Alliance",
				models.LanguageAR: "تحالف ضد القلق",
				models.LanguageFR: "Alliance Anxiété",
			},
			Description: models.LocalizedText{
				models.LanguageEN: "Find calm and coping strategies with others who understand.",
				models.LanguageAR: "ابحث عن الهدوء واستراتيجيات التأقلم مع الآخرين الذين يفهمونك.",
				models.LanguageFR: "Trouvez le calme et des stratégies d'adaptation avec d'autres qui comprennent.",
			},
		},
		{
			ID:   "trauma",
			Icon: "❤️‍🩹",
			Name: models.LocalizedText{
				models.LanguageEN: "Healing from Trauma",
				models.LanguageAR: "الشفاء من الصدمة",
				models.LanguageFR: "Guérir du Traumatisme",
			},
			Description: models.LocalizedText{
				models.LanguageEN: "A safe place to process and heal from traumatic experiences.",
				models.LanguageAR: "مكان آمن لمعالجة والشفاء من التجارب المؤلمة.",
				models.LanguageFR: "Un lieu sûr pour traiter et guérir des expériences traumatisantes.",
			},
		},
		{
			ID:   "general",
			Icon: "☀️",
			Name: models.LocalizedText{
				models.LanguageEN: "General Wellness",
				models.LanguageAR: "العافية العامة",
				models.LanguageFR: "Bien-être Général",
			},
			Description: models.LocalizedText{
				models.LanguageEN: "For daily check-ins and general mental health discussions.",
				models.LanguageAR: "للمتابعة اليومية ومناقشات الصحة النفسية العامة.",
				models.LanguageFR: "Pour les bilans quotidiens et les discussions générales sur la santé mentale.",
			},
		},
	}
}

func therapistDirectory() []models.Therapist {
	return []models.Therapist{
		{
			ID: "therapist-1", Name: "Dr. Fatima El Fassi", City: "Casablanca",
			Avatar: "https://picsum.photos/seed/fatima/200",
			Specialty: models.LocalizedText{
				models.LanguageEN: "Cognitive Behavioral Therapy",
				models.LanguageAR: "العلاج السلوكي المعرفي",
				models.LanguageFR: "Thérapie Cognitivo-Comportementale",
			},
		},
		{
			ID: "therapist-2", Name: "Dr. Youssef Amrani", City: "Rabat",
			Avatar: "https://picsum.photos/seed/youssef/200",
			Specialty: models.LocalizedText{
				models.LanguageEN: "Anxiety & Stress Management",
				models.LanguageAR: "إدارة القلق والتوتر",
				models.LanguageFR: "Gestion de l'Anxiété et du Stress",
			},
		},
		{
			ID: "therapist-3", Name: "Dr. Sofia Benjelloun", City: "Marrakech",
			Avatar: "https://picsum.photos/seed/sofia/200",
			Specialty: models.LocalizedText{
				models.LanguageEN: "Trauma & PTSD",
				models.LanguageAR: "الصدمات واضطراب ما بعد الصدمة",
				models.LanguageFR: "Traumatisme et TSPT",
			},
		},
		{
			ID: "therapist-4", Name: "Dr. Karim Alaoui", City: "Fes",
			Avatar: "https://picsum.photos/seed/karim/200",
			Specialty: models.LocalizedText{
				models.LanguageEN: "Depression Therapy",
				models.LanguageAR: "علاج الاكتئاب",
				models.LanguageFR: "Thérapie de la Dépression",
			},
		},
		{
			ID: "therapist-5", Name: "Dr. Leila Tazi", City: "Tangier",
			Avatar: "https://picsum.photos/seed/leila/200",
			Specialty: models.LocalizedText{
				models.LanguageEN: "Family Counseling",
				models.LanguageAR: "الاستشارات الأسرية",
				models.LanguageFR: "Conseil Familial",
			},
		},
		{
			ID: "therapist-6", Name: "Dr. Omar Cherkaoui", City: "Casablanca",
			Avatar: "https://picsum.photos/seed/omar/200",
			Specialty: models.LocalizedText{
				models.LanguageEN: "Adolescent Psychology",
				models.LanguageAR: "علم نفس المراهقين",
				models.LanguageFR: "Psychologie de l'Adolescent",
			},
		},
	}
}
