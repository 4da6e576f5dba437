package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ExerciseType identifies the kind of question an exercise asks
type ExerciseType string

const (
	ExerciseMultipleChoice ExerciseType = "multiple_choice"
	ExerciseFillBlank      ExerciseType = "fill_blank"
	ExerciseAudio          ExerciseType = "audio"
)

// Valid reports whether the type is one of the known exercise types
func (t ExerciseType) Valid() bool {
	switch t {
	case ExerciseMultipleChoice, ExerciseFillBlank, ExerciseAudio:
		return true
	}
	return false
}

// ChoiceOption is a single multiple-choice answer option
type ChoiceOption struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// ExerciseContent is the tagged variant of an exercise's answer material.
// It is decoded once at the storage boundary so the engine never handles
// raw option JSON
type ExerciseContent interface {
	exerciseContent()
}

// MultipleChoice holds a set of options with exactly one marked correct
type MultipleChoice struct {
	Options []ChoiceOption
}

// FillBlank holds the expected text for a fill-in-the-blank question
type FillBlank struct {
	CorrectAnswer string
}

// AudioPrompt holds an audio reference plus the expected transcription
type AudioPrompt struct {
	AudioURL      string
	CorrectAnswer string
}

func (MultipleChoice) exerciseContent() {}
func (FillBlank) exerciseContent()      {}
func (AudioPrompt) exerciseContent()    {}

// Exercise represents a single question unit within a level
type Exercise struct {
	ID        int64
	LevelID   int64
	Question  string
	Type      ExerciseType
	Content   ExerciseContent
	CreatedAt time.Time
}

// ErrMalformedContent is returned when stored exercise content cannot be
// decoded or fails the per-type invariants
var ErrMalformedContent = errors.New("malformed exercise content")

// DecodeExerciseContent builds the typed content variant from the raw
// storage columns (options JSON, correct answer, audio URL)
func DecodeExerciseContent(t ExerciseType, optionsJSON, correctAnswer, audioURL string) (ExerciseContent, error) {
	switch t {
	case ExerciseMultipleChoice:
		var options []ChoiceOption
		if optionsJSON == "" {
			optionsJSON = "[]"
		}
		if err := json.Unmarshal([]byte(optionsJSON), &options); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedContent, err)
		}
		return MultipleChoice{Options: options}, nil
	case ExerciseFillBlank:
		return FillBlank{CorrectAnswer: correctAnswer}, nil
	case ExerciseAudio:
		return AudioPrompt{AudioURL: audioURL, CorrectAnswer: correctAnswer}, nil
	default:
		return nil, fmt.Errorf("%w: unknown exercise type %q", ErrMalformedContent, t)
	}
}

// EncodeExerciseContent flattens the typed content back into the raw
// storage columns
func EncodeExerciseContent(content ExerciseContent) (optionsJSON, correctAnswer, audioURL string, err error) {
	switch c := content.(type) {
	case MultipleChoice:
		options := c.Options
		if options == nil {
			options = []ChoiceOption{}
		}
		data, err := json.Marshal(options)
		if err != nil {
			return "", "", "", err
		}
		return string(data), "", "", nil
	case FillBlank:
		return "[]", c.CorrectAnswer, "", nil
	case AudioPrompt:
		return "[]", c.CorrectAnswer, c.AudioURL, nil
	default:
		return "", "", "", fmt.Errorf("%w: unknown content variant %T", ErrMalformedContent, content)
	}
}

// Validate checks the per-type content invariants: multiple choice must have
// exactly one correct option, the other types need a comparison answer
func (e *Exercise) Validate() error {
	switch c := e.Content.(type) {
	case MultipleChoice:
		if len(c.Options) < 2 {
			return fmt.Errorf("%w: multiple choice needs at least two options", ErrMalformedContent)
		}
		correct := 0
		for _, opt := range c.Options {
			if opt.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			return fmt.Errorf("%w: multiple choice must have exactly one correct option, got %d", ErrMalformedContent, correct)
		}
	case FillBlank:
		if c.CorrectAnswer == "" {
			return fmt.Errorf("%w: fill blank needs a correct answer", ErrMalformedContent)
		}
	case AudioPrompt:
		if c.AudioURL == "" {
			return fmt.Errorf("%w: audio exercise needs an audio URL", ErrMalformedContent)
		}
		if c.CorrectAnswer == "" {
			return fmt.Errorf("%w: audio exercise needs a correct answer", ErrMalformedContent)
		}
	default:
		return fmt.Errorf("%w: missing content", ErrMalformedContent)
	}
	return nil
}

// CheckAnswer compares a submitted answer against the authoritative one.
// Comparison is exact for fill-blank and audio exercises; for multiple
// choice the answer must equal the text of the correct option
func (e *Exercise) CheckAnswer(answer string) bool {
	switch c := e.Content.(type) {
	case MultipleChoice:
		for _, opt := range c.Options {
			if opt.IsCorrect {
				return answer == opt.Text
			}
		}
		return false
	case FillBlank:
		return answer == c.CorrectAnswer
	case AudioPrompt:
		return answer == c.CorrectAnswer
	}
	return false
}
