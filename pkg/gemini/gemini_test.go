package gemini

import (
	"errors"
	"testing"
)

func TestParseAttributesResponse(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		emotion string
		race    string
		age     float64
		wantErr error
	}{
		{
			name:    "bare json",
			text:    `{"age": 30, "dominant_gender": "Man", "dominant_emotion": "happy", "dominant_race": "white"}`,
			emotion: "happy",
			race:    "white",
			age:     30,
		},
		{
			name:    "fenced block",
			text:    "Here you go:\n```json\n{\"age\": 52, \"dominant_gender\": \"Woman\", \"dominant_emotion\": \"neutral\", \"dominant_race\": \"latino hispanic\"}\n```",
			emotion: "neutral",
			race:    "latino hispanic",
			age:     52,
		},
		{
			name:    "no json",
			text:    "I cannot help with that.",
			wantErr: ErrNoJSON,
		},
		{
			name:    "reversed braces",
			text:    "} nothing {",
			wantErr: ErrNoJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAttributesResponse(tt.text)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.DominantEmotion != tt.emotion || got.DominantRace != tt.race || got.Age != tt.age {
				t.Errorf("got %+v", got)
			}
		})
	}
}

func TestNewGeminiClientRequiresKey(t *testing.T) {
	if _, err := NewGeminiClient(t.Context(), Config{}); err == nil {
		t.Fatal("NewGeminiClient without key should fail")
	}
}
