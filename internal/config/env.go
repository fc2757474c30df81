package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Env struct {
	AppEnv    string `env:"APP_ENV" validate:"omitempty,oneof=development production test"`
	AppDebug  bool   `env:"APP_DEBUG"`
	AppPort   string `env:"APP_PORT" validate:"required,numeric"`
	LogLevel  string `env:"LOG_LEVEL" validate:"omitempty,oneof=trace debug info warn warning error fatal panic"`
	LogDir    string `env:"LOG_DIR"`
	StaticDir string `env:"STATIC_DIR"`

	LabelLocale string `env:"LABEL_LOCALE" validate:"oneof=pt-BR en"`

	CameraDriver       string  `env:"CAMERA_DRIVER" validate:"oneof=gocv v4l2"`
	CameraDevice       string  `env:"CAMERA_DEVICE" validate:"required"`
	CameraWidth        int     `env:"CAMERA_WIDTH" validate:"min=0"`
	CameraHeight       int     `env:"CAMERA_HEIGHT" validate:"min=0"`
	CascadeFile        string  `env:"CASCADE_FILE" validate:"required"`
	DetectScale        float64 `env:"DETECT_SCALE" validate:"gt=1"`
	DetectMinNeighbors int     `env:"DETECT_MIN_NEIGHBORS" validate:"min=1"`
	JPEGQuality        int     `env:"JPEG_QUALITY" validate:"min=1,max=100"`
	DrawLabels         bool    `env:"DRAW_LABELS"`
	CaptureMaxFailures int     `env:"CAPTURE_MAX_FAILURES" validate:"min=1"`

	AnalyzerBackend   string        `env:"ANALYZER_BACKEND" validate:"oneof=deepface websocket gemini"`
	AnalyzerTimeout   time.Duration `env:"ANALYZER_TIMEOUT" validate:"gt=0"`
	AnalyzeInterval   time.Duration `env:"ANALYZE_INTERVAL" validate:"min=0"`
	DeepFaceURL       string        `env:"DEEPFACE_URL" validate:"required_if=AnalyzerBackend deepface"`
	DeepFaceDetector  string        `env:"DEEPFACE_DETECTOR"`
	AIFaceAnalysisURL string        `env:"AI_FACE_ANALYSIS_URL" validate:"required_if=AnalyzerBackend websocket"`
	GeminiAPIKey      string        `env:"GEMINI_API_KEY" validate:"required_if=AnalyzerBackend gemini"`
	GeminiModelName   string        `env:"GEMINI_MODEL_NAME"`

	RedisAddress  string        `env:"REDIS_ADDRESS"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" validate:"min=0"`
	AttributesTTL time.Duration `env:"ATTRIBUTES_TTL" validate:"min=0"`

	DBDriver        string        `env:"DB_DRIVER" validate:"omitempty,oneof=postgres sqlite"`
	DBDSN           string        `env:"DB_DSN" validate:"required_with=DBDriver"`
	HistoryInterval time.Duration `env:"HISTORY_INTERVAL" validate:"min=0"`

	AWSRegion          string `env:"AWS_REGION" validate:"required_with=AWSBucketName"`
	AWSBucketName      string `env:"AWS_BUCKET_NAME"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" validate:"required_with=AWSAccessKeyID"`

	RateLimit float64 `env:"RATE_LIMIT" validate:"gt=0"`
	RateBurst int     `env:"RATE_BURST" validate:"min=1"`
}

// LoadEnv reads an optional .env file, then the process environment.
func LoadEnv(validate *validator.Validate, files ...string) (*Env, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	return NewEnv(os.LookupEnv, validate)
}

// NewEnv builds the configuration from lookup, applying defaults for
// unset keys.
func NewEnv(lookup func(string) (string, bool), validate *validator.Validate) (*Env, error) {
	p := envParser{lookup: lookup}

	env := &Env{
		AppEnv:    p.getEnv("APP_ENV", "development"),
		AppDebug:  p.getBool("APP_DEBUG", false),
		AppPort:   p.getEnv("APP_PORT", "5000"),
		LogLevel:  strings.ToLower(p.getEnv("LOG_LEVEL", "info")),
		LogDir:    p.getEnv("LOG_DIR", ""),
		StaticDir: p.getEnv("STATIC_DIR", "./static"),

		LabelLocale: p.getEnv("LABEL_LOCALE", "pt-BR"),

		CameraDriver:       strings.ToLower(p.getEnv("CAMERA_DRIVER", "gocv")),
		CameraDevice:       p.getEnv("CAMERA_DEVICE", "0"),
		CameraWidth:        p.getInt("CAMERA_WIDTH", 0),
		CameraHeight:       p.getInt("CAMERA_HEIGHT", 0),
		CascadeFile:        p.getEnv("CASCADE_FILE", "haarcascade_frontalface_default.xml"),
		DetectScale:        p.getFloat("DETECT_SCALE", 1.3),
		DetectMinNeighbors: p.getInt("DETECT_MIN_NEIGHBORS", 5),
		JPEGQuality:        p.getInt("JPEG_QUALITY", 95),
		DrawLabels:         p.getBool("DRAW_LABELS", false),
		CaptureMaxFailures: p.getInt("CAPTURE_MAX_FAILURES", 10),

		AnalyzerBackend:   strings.ToLower(p.getEnv("ANALYZER_BACKEND", "deepface")),
		AnalyzerTimeout:   p.getDuration("ANALYZER_TIMEOUT", 10*time.Second),
		AnalyzeInterval:   p.getDuration("ANALYZE_INTERVAL", 0),
		DeepFaceURL:       p.getEnv("DEEPFACE_URL", "http://localhost:5005"),
		DeepFaceDetector:  p.getEnv("DEEPFACE_DETECTOR", "skip"),
		AIFaceAnalysisURL: p.getEnv("AI_FACE_ANALYSIS_URL", "ws://localhost:8000/api/v1/face/analyze"),
		GeminiAPIKey:      p.getEnv("GEMINI_API_KEY", ""),
		GeminiModelName:   p.getEnv("GEMINI_MODEL_NAME", ""),

		RedisAddress:  p.getEnv("REDIS_ADDRESS", ""),
		RedisPassword: p.getEnv("REDIS_PASSWORD", ""),
		RedisDB:       p.getInt("REDIS_DB", 0),
		AttributesTTL: p.getDuration("ATTRIBUTES_TTL", time.Minute),

		DBDriver:        strings.ToLower(p.getEnv("DB_DRIVER", "")),
		DBDSN:           p.getEnv("DB_DSN", ""),
		HistoryInterval: p.getDuration("HISTORY_INTERVAL", time.Second),

		AWSRegion:          p.getEnv("AWS_REGION", ""),
		AWSBucketName:      p.getEnv("AWS_BUCKET_NAME", ""),
		AWSAccessKeyID:     p.getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: p.getEnv("AWS_SECRET_ACCESS_KEY", ""),

		RateLimit: p.getFloat("RATE_LIMIT", 20),
		RateBurst: p.getInt("RATE_BURST", 40),
	}

	if err := errors.Join(p.errs...); err != nil {
		return nil, err
	}

	if err := validate.Struct(env); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return env, nil
}

func (e *Env) RedisEnabled() bool { return e.RedisAddress != "" }
func (e *Env) HistoryEnabled() bool { return e.DBDriver != "" }
func (e *Env) SnapshotsEnabled() bool { return e.AWSBucketName != "" }

type envParser struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (p *envParser) getEnv(key, fallback string) string {
	if value, ok := p.lookup(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func (p *envParser) getInt(key string, fallback int) int {
	raw := p.getEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %q is not an integer", key, raw))
		return fallback
	}
	return v
}

func (p *envParser) getFloat(key string, fallback float64) float64 {
	raw := p.getEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %q is not a number", key, raw))
		return fallback
	}
	return v
}

func (p *envParser) getBool(key string, fallback bool) bool {
	raw := p.getEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %q is not a boolean", key, raw))
		return fallback
	}
	return v
}

// getDuration accepts Go durations ("1.5s") and bare seconds ("2").
func (p *envParser) getDuration(key string, fallback time.Duration) time.Duration {
	raw := p.getEnv(key, "")
	if raw == "" {
		return fallback
	}
	if secs, err := strconv.ParseFloat(raw, 64); err == nil {
		return time.Duration(secs * float64(time.Second))
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %q is not a duration", key, raw))
		return fallback
	}
	return v
}
