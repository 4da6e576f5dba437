package models

import (
	"errors"
	"testing"
)

func TestDecodeExerciseContent(t *testing.T) {
	t.Run("Multiple choice options", func(t *testing.T) {
		content, err := DecodeExerciseContent(ExerciseMultipleChoice, `[{"text":"Bawo ni","isCorrect":true},{"text":"O dabo","isCorrect":false}]`, "", "")
		if err != nil {
			t.Fatalf("DecodeExerciseContent failed: %v", err)
		}
		mc, ok := content.(MultipleChoice)
		if !ok {
			t.Fatalf("Expected MultipleChoice, got %T", content)
		}
		if len(mc.Options) != 2 {
			t.Errorf("Expected 2 options, got %d", len(mc.Options))
		}
		if !mc.Options[0].IsCorrect {
			t.Error("Expected first option to be correct")
		}
	})

	t.Run("Empty options default to none", func(t *testing.T) {
		content, err := DecodeExerciseContent(ExerciseMultipleChoice, "", "", "")
		if err != nil {
			t.Fatalf("DecodeExerciseContent failed: %v", err)
		}
		if mc := content.(MultipleChoice); len(mc.Options) != 0 {
			t.Errorf("Expected no options, got %d", len(mc.Options))
		}
	})

	t.Run("Malformed options JSON", func(t *testing.T) {
		_, err := DecodeExerciseContent(ExerciseMultipleChoice, "{not json", "", "")
		if !errors.Is(err, ErrMalformedContent) {
			t.Errorf("Expected ErrMalformedContent, got %v", err)
		}
	})

	t.Run("Fill blank", func(t *testing.T) {
		content, err := DecodeExerciseContent(ExerciseFillBlank, "[]", "Orúkọ", "")
		if err != nil {
			t.Fatalf("DecodeExerciseContent failed: %v", err)
		}
		if fb := content.(FillBlank); fb.CorrectAnswer != "Orúkọ" {
			t.Errorf("Expected answer 'Orúkọ', got %q", fb.CorrectAnswer)
		}
	})

	t.Run("Audio", func(t *testing.T) {
		content, err := DecodeExerciseContent(ExerciseAudio, "[]", "pupa", "https://cdn.example.com/pupa.mp3")
		if err != nil {
			t.Fatalf("DecodeExerciseContent failed: %v", err)
		}
		audio := content.(AudioPrompt)
		if audio.AudioURL != "https://cdn.example.com/pupa.mp3" {
			t.Errorf("Unexpected audio URL %q", audio.AudioURL)
		}
		if audio.CorrectAnswer != "pupa" {
			t.Errorf("Unexpected answer %q", audio.CorrectAnswer)
		}
	})

	t.Run("Unknown type", func(t *testing.T) {
		_, err := DecodeExerciseContent("matching", "[]", "", "")
		if !errors.Is(err, ErrMalformedContent) {
			t.Errorf("Expected ErrMalformedContent, got %v", err)
		}
	})
}

func TestEncodeExerciseContent(t *testing.T) {
	t.Run("Multiple choice round trip", func(t *testing.T) {
		original := MultipleChoice{Options: []ChoiceOption{
			{Text: "Ẹ kú àárọ̀", IsCorrect: true},
			{Text: "O dabo", IsCorrect: false},
		}}
		optionsJSON, correctAnswer, audioURL, err := EncodeExerciseContent(original)
		if err != nil {
			t.Fatalf("EncodeExerciseContent failed: %v", err)
		}
		if correctAnswer != "" || audioURL != "" {
			t.Errorf("Expected empty answer columns, got %q and %q", correctAnswer, audioURL)
		}

		decoded, err := DecodeExerciseContent(ExerciseMultipleChoice, optionsJSON, correctAnswer, audioURL)
		if err != nil {
			t.Fatalf("DecodeExerciseContent failed: %v", err)
		}
		mc := decoded.(MultipleChoice)
		if len(mc.Options) != 2 || mc.Options[0].Text != "Ẹ kú àárọ̀" {
			t.Errorf("Round trip lost options: %+v", mc.Options)
		}
	})

	t.Run("Nil options encode as empty array", func(t *testing.T) {
		optionsJSON, _, _, err := EncodeExerciseContent(MultipleChoice{})
		if err != nil {
			t.Fatalf("EncodeExerciseContent failed: %v", err)
		}
		if optionsJSON != "[]" {
			t.Errorf("Expected '[]', got %q", optionsJSON)
		}
	})

	t.Run("Fill blank", func(t *testing.T) {
		optionsJSON, correctAnswer, audioURL, err := EncodeExerciseContent(FillBlank{CorrectAnswer: "mi"})
		if err != nil {
			t.Fatalf("EncodeExerciseContent failed: %v", err)
		}
		if optionsJSON != "[]" || correctAnswer != "mi" || audioURL != "" {
			t.Errorf("Unexpected columns: %q %q %q", optionsJSON, correctAnswer, audioURL)
		}
	})

	t.Run("Unknown variant", func(t *testing.T) {
		_, _, _, err := EncodeExerciseContent(nil)
		if !errors.Is(err, ErrMalformedContent) {
			t.Errorf("Expected ErrMalformedContent, got %v", err)
		}
	})
}

func TestExerciseValidate(t *testing.T) {
	tests := []struct {
		name    string
		content ExerciseContent
		wantErr bool
	}{
		{
			name: "Valid multiple choice",
			content: MultipleChoice{Options: []ChoiceOption{
				{Text: "a", IsCorrect: true},
				{Text: "b", IsCorrect: false},
			}},
			wantErr: false,
		},
		{
			name:    "Too few options",
			content: MultipleChoice{Options: []ChoiceOption{{Text: "a", IsCorrect: true}}},
			wantErr: true,
		},
		{
			name: "No correct option",
			content: MultipleChoice{Options: []ChoiceOption{
				{Text: "a"},
				{Text: "b"},
			}},
			wantErr: true,
		},
		{
			name: "Two correct options",
			content: MultipleChoice{Options: []ChoiceOption{
				{Text: "a", IsCorrect: true},
				{Text: "b", IsCorrect: true},
			}},
			wantErr: true,
		},
		{
			name:    "Valid fill blank",
			content: FillBlank{CorrectAnswer: "ni"},
			wantErr: false,
		},
		{
			name:    "Fill blank without answer",
			content: FillBlank{},
			wantErr: true,
		},
		{
			name:    "Valid audio",
			content: AudioPrompt{AudioURL: "https://cdn.example.com/a.mp3", CorrectAnswer: "dudu"},
			wantErr: false,
		},
		{
			name:    "Audio without URL",
			content: AudioPrompt{CorrectAnswer: "dudu"},
			wantErr: true,
		},
		{
			name:    "Audio without answer",
			content: AudioPrompt{AudioURL: "https://cdn.example.com/a.mp3"},
			wantErr: true,
		},
		{
			name:    "Missing content",
			content: nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Exercise{Type: ExerciseMultipleChoice, Content: tt.content}
			err := e.Validate()
			if tt.wantErr && err == nil {
				t.Error("Expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		})
	}
}

func TestExerciseCheckAnswer(t *testing.T) {
	multipleChoice := &Exercise{Type: ExerciseMultipleChoice, Content: MultipleChoice{Options: []ChoiceOption{
		{Text: "Bawo ni", IsCorrect: false},
		{Text: "Ẹ kú àárọ̀", IsCorrect: true},
	}}}
	fillBlank := &Exercise{Type: ExerciseFillBlank, Content: FillBlank{CorrectAnswer: "ni"}}
	audio := &Exercise{Type: ExerciseAudio, Content: AudioPrompt{AudioURL: "a.mp3", CorrectAnswer: "funfun"}}

	tests := []struct {
		name     string
		exercise *Exercise
		answer   string
		want     bool
	}{
		{"Correct choice text", multipleChoice, "Ẹ kú àárọ̀", true},
		{"Wrong choice text", multipleChoice, "Bawo ni", false},
		{"Unknown choice text", multipleChoice, "nope", false},
		{"Correct fill blank", fillBlank, "ni", true},
		{"Fill blank is case sensitive", fillBlank, "Ni", false},
		{"Correct audio transcription", audio, "funfun", true},
		{"Wrong audio transcription", audio, "dudu", false},
		{"No content", &Exercise{}, "anything", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.exercise.CheckAnswer(tt.answer); got != tt.want {
				t.Errorf("CheckAnswer(%q) = %v, want %v", tt.answer, got, tt.want)
			}
		})
	}
}
