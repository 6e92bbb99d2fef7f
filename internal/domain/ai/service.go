// Package ai offers lightweight heuristics that help sellers write
// listings: price suggestions from comparable listings, category
// detection from title keywords and a fraud score for moderators.
package ai

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/category"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/listing"
)

type PriceSuggestion struct {
	Suggested   int64 `json:"suggested"`
	Low         int64 `json:"low"`
	High        int64 `json:"high"`
	SampleSize  int   `json:"sample_size"`
	FromHistory bool  `json:"from_history"`
}

type CategoryGuess struct {
	Code       string  `json:"code"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

type FraudAssessment struct {
	Score   int      `json:"score"`
	Level   string   `json:"level"`
	Reasons []string `json:"reasons"`
}

type Service struct {
	db *sqlx.DB
}

func NewService(db *sqlx.DB) *Service {
	return &Service{db: db}
}

// SuggestPrice returns the median and quartile band of recent prices
// in the same category on the same campus.
func (s *Service) SuggestPrice(ctx context.Context, campusID uuid.UUID, categoryCode string) (*PriceSuggestion, error) {
	var prices []int64
	err := s.db.SelectContext(ctx, &prices, `
		SELECT price FROM listings
		WHERE campus_id = $1 AND category = $2 AND is_available = TRUE
		ORDER BY created_at DESC
		LIMIT 50`, campusID, categoryCode)
	if err != nil {
		return nil, err
	}

	if len(prices) == 0 {
		return &PriceSuggestion{}, nil
	}

	sort.Slice(prices, func(i, j int) bool { return prices[i] < prices[j] })
	return &PriceSuggestion{
		Suggested:   prices[len(prices)/2],
		Low:         prices[len(prices)/4],
		High:        prices[len(prices)*3/4],
		SampleSize:  len(prices),
		FromHistory: true,
	}, nil
}

// keyword -> category code. First match wins within a guess; scoring
// picks the category with the most keyword hits.
var categoryKeywords = map[string][]string{
	"BOOKS_TEXTBOOKS":     {"textbook", "course book", "edition"},
	"NOTES_HANDWRITTEN":   {"handwritten", "notes", "lecture notes"},
	"NOTES_PRINTED":       {"printed notes", "study guide", "summary"},
	"ELECTRONICS_LAPTOPS": {"laptop", "macbook", "notebook pc", "thinkpad"},
	"ELECTRONICS_PHONES":  {"phone", "iphone", "tablet", "ipad"},
	"FURNITURE_DORM":      {"desk", "chair", "shelf", "mattress", "lamp"},
	"BICYCLES":            {"bike", "bicycle", "scooter"},
	"MUSICAL_INSTRUMENTS": {"guitar", "piano", "keyboard", "violin"},
	"SERVICES_TUTORING":   {"tutor", "tutoring", "lessons", "exam prep"},
	"SERVICES_CODING":     {"coding", "programming", "website", "app development"},
	"SERVICES_DESIGN":     {"logo", "poster design", "illustration"},
	"TICKETS_EVENTS":      {"ticket", "concert", "festival"},
	"SPORTS_EQUIPMENT":    {"dumbbell", "racket", "skates", "ball"},
	"CLOTHING":            {"jacket", "hoodie", "sneakers", "dress"},
}

// DetectCategory guesses categories from the title and description
// text, best matches first.
func (s *Service) DetectCategory(title, description string) []CategoryGuess {
	text := strings.ToLower(title + " " + description)

	type scored struct {
		code string
		hits int
	}
	var matches []scored
	for code, keywords := range categoryKeywords {
		hits := 0
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				hits++
			}
		}
		if hits > 0 {
			matches = append(matches, scored{code: code, hits: hits})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].hits != matches[j].hits {
			return matches[i].hits > matches[j].hits
		}
		return matches[i].code < matches[j].code
	})

	guesses := make([]CategoryGuess, 0, len(matches))
	for _, m := range matches {
		cat, ok := category.GetByCode(m.code)
		if !ok {
			continue
		}
		confidence := float64(m.hits) / float64(len(categoryKeywords[m.code]))
		guesses = append(guesses, CategoryGuess{Code: cat.Code, Label: cat.Label, Confidence: confidence})
		if len(guesses) == 3 {
			break
		}
	}
	return guesses
}

var fraudPhrases = []string{
	"wire transfer", "western union", "gift card", "pay outside",
	"whatsapp only", "urgent sale", "too good", "100% original guaranteed",
}

// AssessFraud scores a listing for moderation triage. Higher scores
// mean more suspicious.
func (s *Service) AssessFraud(l *listing.Listing) *FraudAssessment {
	a := &FraudAssessment{}
	text := strings.ToLower(l.Title + " " + l.Description)

	for _, phrase := range fraudPhrases {
		if strings.Contains(text, phrase) {
			a.Score += 30
			a.Reasons = append(a.Reasons, "suspicious phrase: "+phrase)
		}
	}

	if l.Price == 1 {
		a.Score += 20
		a.Reasons = append(a.Reasons, "placeholder price")
	}
	if l.Price > 100000 {
		a.Score += 15
		a.Reasons = append(a.Reasons, "unusually high price")
	}
	if len(strings.Fields(l.Description)) < 3 {
		a.Score += 10
		a.Reasons = append(a.Reasons, "near-empty description")
	}
	if strings.Count(l.Title, "!") >= 3 {
		a.Score += 10
		a.Reasons = append(a.Reasons, "excessive punctuation")
	}

	switch {
	case a.Score >= 50:
		a.Level = "high"
	case a.Score >= 20:
		a.Level = "medium"
	default:
		a.Level = "low"
	}
	return a
}
