package locale

import (
	"FaceStream/internal/entity"
	"testing"
)

func TestLocalizeBrazilianEmotions(t *testing.T) {
	tr := New(PortugueseBR)

	tests := map[string]string{
		"angry":    "Zangado",
		"disgust":  "Nojo",
		"fear":     "Medo",
		"happy":    "Feliz",
		"neutral":  "Neutro",
		"sad":      "Triste",
		"surprise": "Surpresa",
		"bored":    "bored",
		"":         "",
	}

	for key, want := range tests {
		got := tr.Localize(entity.Analysis{DominantEmotion: key}).Emotion
		if got != want {
			t.Errorf("emotion %q = %q, want %q", key, got, want)
		}
	}
}

func TestLocalizeBrazilianEthnicity(t *testing.T) {
	tr := New(PortugueseBR)

	tests := map[string]string{
		"white":           "Branco",
		"black":           "Negro",
		"asian":           "Asiático",
		"indian":          "Indiano",
		"middle eastern":  "Oriente Médio",
		"latino hispanic": "Latino/Hispânico",
		"martian":         "martian",
	}

	for key, want := range tests {
		got := tr.Localize(entity.Analysis{DominantRace: key}).Ethnicity
		if got != want {
			t.Errorf("ethnicity %q = %q, want %q", key, got, want)
		}
	}
}

func TestLocalizeGenderAndAge(t *testing.T) {
	tests := []struct {
		name   string
		locale string
		in     entity.Analysis
		gender string
		age    string
	}{
		{"man", PortugueseBR, entity.Analysis{Age: 31, DominantGender: "Man"}, "Masculino", "31 anos"},
		{"woman", PortugueseBR, entity.Analysis{Age: 27, DominantGender: "Woman"}, "Feminino", "27 anos"},
		{"anything else", PortugueseBR, entity.Analysis{Age: 40, DominantGender: "unknown"}, "Feminino", "40 anos"},
		{"fractional age", PortugueseBR, entity.Analysis{Age: 29.5, DominantGender: "Man"}, "Masculino", "29.5 anos"},
		{"english man", English, entity.Analysis{Age: 31, DominantGender: "Man"}, "Male", "31 years"},
		{"english woman", English, entity.Analysis{Age: 19, DominantGender: "Woman"}, "Female", "19 years"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(tt.locale).Localize(tt.in)
			if got.Gender != tt.gender {
				t.Errorf("Gender = %q, want %q", got.Gender, tt.gender)
			}
			if got.Age != tt.age {
				t.Errorf("Age = %q, want %q", got.Age, tt.age)
			}
		})
	}
}

func TestEnglishLocale(t *testing.T) {
	tr := New("en")
	got := tr.Localize(entity.Analysis{
		Age:             22,
		DominantGender:  "Woman",
		DominantEmotion: "happy",
		DominantRace:    "latino hispanic",
	})

	want := entity.Attributes{Age: "22 years", Gender: "Female", Emotion: "Happy", Ethnicity: "Latino/Hispanic"}
	if got != want {
		t.Fatalf("Localize() = %+v, want %+v", got, want)
	}
	if tr.Captions().Emotion != "Emotion" {
		t.Fatalf("Captions().Emotion = %q", tr.Captions().Emotion)
	}
}

func TestUnknownLocaleFallsBack(t *testing.T) {
	tr := New("fr")
	if tr.Locale() != PortugueseBR {
		t.Fatalf("Locale() = %q, want %q", tr.Locale(), PortugueseBR)
	}
	if tr.Captions().Title != "Análise Facial em Tempo Real" {
		t.Fatalf("Captions().Title = %q", tr.Captions().Title)
	}
}
