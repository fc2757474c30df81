package gemini

import (
	"FaceStream/internal/entity"
	"FaceStream/pkg/deepface"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const DefaultModel = "gemini-1.5-flash"

// FacePrompt asks for the same keys DeepFace returns so both replies share
// one parser.
const FacePrompt = `You are a face attribute estimator. Look at the single face in this image and answer with JSON only, no prose:
{"age": <integer>, "dominant_gender": "Man" or "Woman", "dominant_emotion": one of "angry", "disgust", "fear", "happy", "neutral", "sad", "surprise", "dominant_race": one of "white", "black", "asian", "indian", "middle eastern", "latino hispanic"}`

var (
	ErrNoResponse     = errors.New("no response from Gemini API")
	ErrUnexpectedPart = errors.New("unexpected response format from Gemini API")
	ErrNoJSON         = errors.New("no JSON object in Gemini response")
)

type IGemini interface {
	AnalyzeImage(ctx context.Context, jpeg []byte, prompt string) (string, error)
	Analyze(ctx context.Context, jpeg []byte) (*entity.Analysis, error)
	Close()
}

type Config struct {
	APIKey    string
	ModelName string
}

type geminiClient struct {
	modelName string
	client    *genai.Client
}

func NewGeminiClient(ctx context.Context, cfg Config) (IGemini, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini API key is required")
	}

	modelName := cfg.ModelName
	if modelName == "" {
		modelName = DefaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, err
	}

	return &geminiClient{
		modelName: modelName,
		client:    client,
	}, nil
}

func (g *geminiClient) AnalyzeImage(ctx context.Context, jpeg []byte, prompt string) (string, error) {
	model := g.client.GenerativeModel(g.modelName)
	model.SetTemperature(0)

	if prompt == "" {
		prompt = "Analyze this image and provide details in JSON format."
	}

	img := genai.ImageData("jpeg", jpeg)
	res, err := model.GenerateContent(ctx, genai.Text(prompt), img)
	if err != nil {
		return "", err
	}

	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil || len(res.Candidates[0].Content.Parts) == 0 {
		return "", ErrNoResponse
	}

	text, ok := res.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", ErrUnexpectedPart
	}

	return string(text), nil
}

func (g *geminiClient) Analyze(ctx context.Context, jpeg []byte) (*entity.Analysis, error) {
	text, err := g.AnalyzeImage(ctx, jpeg, FacePrompt)
	if err != nil {
		return nil, fmt.Errorf("gemini analyze: %w", err)
	}

	return ParseAttributesResponse(text)
}

// ParseAttributesResponse pulls the JSON object out of a model reply that may
// be wrapped in prose or a fenced code block.
func ParseAttributesResponse(text string) (*entity.Analysis, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return nil, ErrNoJSON
	}

	return deepface.ParseAnalyzeResponse([]byte(text[start : end+1]))
}

func (g *geminiClient) Close() {
	if g.client != nil {
		g.client.Close()
	}
}
