package deepface

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

const resultsBody = `{
  "results": [
    {
      "age": 31,
      "dominant_emotion": "happy",
      "dominant_gender": "Man",
      "dominant_race": "latino hispanic",
      "emotion": {"happy": 97.1, "neutral": 2.9},
      "gender": {"Man": 99.2, "Woman": 0.8},
      "race": {"latino hispanic": 61.0, "white": 39.0},
      "region": {"x": 10, "y": 20, "w": 100, "h": 120}
    }
  ]
}`

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestParseAnalyzeResponseShapes(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		emotion string
		age     float64
		wantErr error
	}{
		{"results array", resultsBody, "happy", 31, nil},
		{"bare array", `[{"age": 25, "dominant_emotion": "sad", "dominant_gender": "Woman", "dominant_race": "asian"}]`, "sad", 25, nil},
		{"legacy instance", `{"instance_1": {"age": 40.5, "dominant_emotion": "fear", "gender": "Man", "dominant_race": "white"}}`, "fear", 40.5, nil},
		{"single object", `{"age": 19, "dominant_emotion": "neutral", "dominant_gender": "Man", "dominant_race": "black"}`, "neutral", 19, nil},
		{"empty results", `{"results": []}`, "", 0, ErrNoFace},
		{"empty array", `[]`, "", 0, ErrNoFace},
		{"not json", `<html>`, "", 0, ErrBadResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAnalyzeResponse([]byte(tt.body))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			if got.DominantEmotion != tt.emotion {
				t.Errorf("DominantEmotion = %q, want %q", got.DominantEmotion, tt.emotion)
			}
			if got.Age != tt.age {
				t.Errorf("Age = %v, want %v", got.Age, tt.age)
			}
		})
	}
}

func TestParseAnalyzeResponseDetails(t *testing.T) {
	got, err := ParseAnalyzeResponse([]byte(resultsBody))
	if err != nil {
		t.Fatalf("error = %v", err)
	}

	if got.DominantGender != "Man" || got.DominantRace != "latino hispanic" {
		t.Fatalf("dominant values = %q / %q", got.DominantGender, got.DominantRace)
	}
	if got.Emotion["happy"] != 97.1 {
		t.Errorf("Emotion[happy] = %v", got.Emotion["happy"])
	}
	if got.Region == nil || got.Region.W != 100 || got.Region.H != 120 {
		t.Errorf("Region = %+v", got.Region)
	}
}

func TestLegacyGenderString(t *testing.T) {
	got, err := ParseAnalyzeResponse([]byte(`{"instance_1": {"age": 30, "gender": "Woman", "dominant_emotion": "sad"}}`))
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if got.DominantGender != "Woman" {
		t.Fatalf("DominantGender = %q, want Woman", got.DominantGender)
	}
}

func TestAnalyzePostsFaceCrop(t *testing.T) {
	var received analyzeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/analyze" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		body, _ := io.ReadAll(r.Body)
		if err := jsoniter.Unmarshal(body, &received); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, resultsBody)
	}))
	defer srv.Close()

	client := New(Config{BaseURL: srv.URL + "/", Detector: "skip", Timeout: time.Second}, quietLogger())
	defer client.Close()

	got, err := client.Analyze(context.Background(), []byte{0xff, 0xd8, 0xff})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if got.DominantEmotion != "happy" {
		t.Fatalf("DominantEmotion = %q", got.DominantEmotion)
	}

	if !strings.HasPrefix(received.Img, "data:image/jpeg;base64,") {
		t.Errorf("img = %q", received.Img)
	}
	if received.EnforceDetection {
		t.Error("enforce_detection = true, want false")
	}
	if received.DetectorBackend != "skip" {
		t.Errorf("detector_backend = %q", received.DetectorBackend)
	}
	if strings.Join(received.Actions, ",") != "age,gender,emotion,race" {
		t.Errorf("actions = %v", received.Actions)
	}
}

func TestAnalyzeErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"error field", http.StatusBadRequest, `{"error": "Exception while analyzing"}`},
		{"server error", http.StatusInternalServerError, `oops`},
		{"empty result", http.StatusOK, `{"results": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			client := New(Config{BaseURL: srv.URL}, quietLogger())
			if _, err := client.Analyze(context.Background(), []byte("x")); err == nil {
				t.Fatal("Analyze() error = nil, want error")
			}
		})
	}
}

func TestAnalyzeHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.ReadAll(r.Body)
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()
	defer srv.CloseClientConnections()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	client := New(Config{BaseURL: srv.URL}, quietLogger())
	if _, err := client.Analyze(ctx, []byte("x")); err == nil {
		t.Fatal("Analyze() error = nil, want deadline error")
	}
}
