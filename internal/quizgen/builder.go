package quizgen

import (
	"math/rand"
	"time"

	"vocab-quiz-service/internal/domain"
)

const optionsPerQuestion = 4

// Builder turns a word unit into a fixed, shuffled multiple-choice question
// sequence: one question per subset word, with the word's translation as the
// correct answer and three distractors drawn from the wider corpus.
type Builder struct {
	rnd *rand.Rand
}

func NewBuilder() *Builder {
	return NewBuilderWithSeed(time.Now().UnixNano())
}

// NewBuilderWithSeed allows deterministic question sets in tests.
func NewBuilderWithSeed(seed int64) *Builder {
	return &Builder{rnd: rand.New(rand.NewSource(seed))}
}

// Build produces the question sequence for subset, sampling distractors from
// corpus. It returns domain.ErrInsufficientCorpus when subset has fewer than
// four words or when any question cannot get three distinct distractors.
func (b *Builder) Build(corpus, subset []domain.Word) ([]domain.Question, error) {
	if len(subset) < optionsPerQuestion {
		return nil, domain.ErrInsufficientCorpus
	}

	order := make([]domain.Word, len(subset))
	copy(order, subset)
	b.rnd.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	questions := make([]domain.Question, 0, len(order))
	for _, word := range order {
		distractors, err := b.sampleDistractors(corpus, word)
		if err != nil {
			return nil, err
		}

		options := append(distractors, word.Translation)
		// Shuffle options independently of question order so the correct
		// answer's position carries no signal.
		b.rnd.Shuffle(len(options), func(i, j int) {
			options[i], options[j] = options[j], options[i]
		})

		questions = append(questions, domain.Question{
			Prompt:        word.Headword,
			Options:       options,
			CorrectAnswer: word.Translation,
			SourceWord:    word,
		})
	}
	return questions, nil
}

// sampleDistractors picks three translations from corpus that differ from the
// correct answer and from each other. Translations can coincide across
// headwords, so the pool is deduplicated before sampling.
func (b *Builder) sampleDistractors(corpus []domain.Word, current domain.Word) ([]string, error) {
	seen := map[string]struct{}{current.Translation: {}}
	pool := make([]string, 0, len(corpus))
	for _, word := range corpus {
		if word.Headword == current.Headword {
			continue
		}
		if _, dup := seen[word.Translation]; dup {
			continue
		}
		seen[word.Translation] = struct{}{}
		pool = append(pool, word.Translation)
	}

	if len(pool) < optionsPerQuestion-1 {
		return nil, domain.ErrInsufficientCorpus
	}
	b.rnd.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	return pool[:optionsPerQuestion-1], nil
}
