package profile

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/cvlens/cvlens/internal/domain"
)

// Entity is a tagged span produced by the entity recognizer.
type Entity struct {
	Text  string
	Label string
	Score float64
}

// Recognizer finds entities of the requested labels in text.
type Recognizer interface {
	Entities(ctx context.Context, text string, labels []string) ([]Entity, error)
}

const (
	// nameHeadChars bounds how far into the document the name search looks.
	// Names sit at the top; scanning further mostly finds references.
	nameHeadChars = 800
	maxNameLen    = 40
	personLabel   = "person"
)

// experiencePattern matches explicit duration statements ("8 años de
// experiencia", "10+ years experience"). Limiting to two digits keeps
// calendar years like 2015-2018 from reading as millennia of experience.
var experiencePattern = regexp.MustCompile(`(\d{1,2})\+?\s*(?:años|years|yrs|ans)\s+(?:de\s+)?(?:experiencia|experience)?`)

// headerTerms are generic document labels the recognizers sometimes tag
// as people.
var headerTerms = []string{"Curriculum", "Resume", "Cv"}

// Builder derives a structured candidate profile from extracted text.
type Builder struct {
	recognizers []Recognizer
	vocab       Vocabulary
	headChars   int
	logger      *zap.Logger
}

// NewBuilder wires the per-language recognizers, consulted in order, and
// the term vocabulary. headChars <= 0 falls back to the default.
func NewBuilder(recognizers []Recognizer, vocab Vocabulary, headChars int, logger *zap.Logger) *Builder {
	if headChars <= 0 {
		headChars = nameHeadChars
	}
	return &Builder{recognizers: recognizers, vocab: vocab, headChars: headChars, logger: logger}
}

// Build assembles the profile for one document. Extraction is best-effort:
// an unresolvable name becomes the sentinel, absent duration statements
// become zero years. The raw text rides along for embedding and storage.
func (b *Builder) Build(ctx context.Context, id, filename, text string) domain.Profile {
	lower := strings.ToLower(text)
	return domain.Profile{
		ID:              id,
		CandidateName:   b.extractName(ctx, text),
		Titles:          matchVocab(lower, b.vocab.Titles),
		Skills:          matchVocab(lower, b.vocab.Skills),
		YearsExperience: extractExperience(lower),
		Filename:        filename,
		RawText:         text,
	}
}

// extractName runs the recognizers over the normalized document head and
// returns the first candidate surviving the plausibility filters.
func (b *Builder) extractName(ctx context.Context, text string) string {
	head := []rune(text)
	if len(head) > b.headChars {
		head = head[:b.headChars]
	}
	normalized := strings.TrimSpace(strings.Join(strings.Fields(string(head)), " "))
	if normalized == "" {
		return domain.UnknownCandidate
	}

	for _, rec := range b.recognizers {
		ents, err := rec.Entities(ctx, normalized, []string{personLabel})
		if err != nil {
			b.logger.Warn("entity recognizer failed", zap.Error(err))
			continue
		}
		for _, ent := range ents {
			if !strings.EqualFold(ent.Label, personLabel) {
				continue
			}
			if name := titleCase(strings.TrimSpace(ent.Text)); plausibleName(name) {
				return name
			}
		}
	}
	return domain.UnknownCandidate
}

// plausibleName rejects strings that cannot be a person's name: generic
// header terms, single tokens, implausible length, embedded digits.
func plausibleName(name string) bool {
	for _, term := range headerTerms {
		if strings.Contains(name, term) {
			return false
		}
	}
	if len(strings.Fields(name)) < 2 {
		return false
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return false
	}
	for _, r := range name {
		if unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// extractExperience returns the largest plausible year count stated in
// the text, or 0 when none is found.
func extractExperience(lowerText string) int {
	best := 0
	for _, m := range experiencePattern.FindAllStringSubmatch(lowerText, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil || n >= domain.MaxPlausibleYears {
			continue
		}
		if n > best {
			best = n
		}
	}
	return best
}

// matchVocab returns the vocabulary terms present in the text, joined for
// storage. Vocabulary order is preserved so output is deterministic.
func matchVocab(lowerText string, terms []string) string {
	var found []string
	for _, term := range terms {
		if strings.Contains(lowerText, term) {
			found = append(found, term)
		}
	}
	return strings.Join(found, ", ")
}
