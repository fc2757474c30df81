package config

import (
	"FaceStream/internal/pipeline"
	"FaceStream/pkg/deepface"
	"FaceStream/pkg/gemini"
	websocketPkg "FaceStream/pkg/websocket"
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

const (
	AnalyzerDeepFace  = "deepface"
	AnalyzerWebsocket = "websocket"
	AnalyzerGemini    = "gemini"
)

// Analyzer is the attribute backend the pipeline calls, plus its release.
type Analyzer interface {
	pipeline.Analyzer
	Close()
}

type websocketAnalyzer struct {
	websocketPkg.IWebsocket
}

func (w websocketAnalyzer) Close() {
	w.CloseConnections()
}

// NewAnalyzer builds the backend selected by ANALYZER_BACKEND.
func NewAnalyzer(ctx context.Context, env *Env, log *logrus.Logger) (Analyzer, error) {
	switch env.AnalyzerBackend {
	case AnalyzerDeepFace, "":
		return deepface.New(deepface.Config{
			BaseURL:  env.DeepFaceURL,
			Detector: env.DeepFaceDetector,
			Timeout:  env.AnalyzerTimeout,
		}, log), nil

	case AnalyzerWebsocket:
		client := websocketPkg.NewAIWebSocketClient(websocketPkg.Config{
			URL:          env.AIFaceAnalysisURL,
			ReadTimeout:  env.AnalyzerTimeout,
			WriteTimeout: env.AnalyzerTimeout,
		}, log)
		return websocketAnalyzer{client}, nil

	case AnalyzerGemini:
		client, err := gemini.NewGeminiClient(ctx, gemini.Config{
			APIKey:    env.GeminiAPIKey,
			ModelName: env.GeminiModelName,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		return client, nil
	}

	return nil, fmt.Errorf("unknown analyzer backend %q", env.AnalyzerBackend)
}
