package deepface

import (
	"FaceStream/internal/entity"
	"FaceStream/pkg/utils"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

var (
	ErrNoFace      = errors.New("deepface found no face in the image")
	ErrBadResponse = errors.New("deepface returned an unreadable response")
)

var DefaultActions = []string{"age", "gender", "emotion", "race"}

type IDeepFace interface {
	Analyze(ctx context.Context, jpeg []byte) (*entity.Analysis, error)
	Close()
}

type Config struct {
	BaseURL  string
	Detector string
	Timeout  time.Duration
}

type deepFaceClient struct {
	http     *http.Client
	baseURL  string
	detector string
	log      *logrus.Logger
	utils    utils.IUtils
}

type analyzeRequest struct {
	Img              string   `json:"img"`
	Actions          []string `json:"actions"`
	EnforceDetection bool     `json:"enforce_detection"`
	DetectorBackend  string   `json:"detector_backend,omitempty"`
}

func New(cfg Config, log *logrus.Logger) IDeepFace {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &deepFaceClient{
		http:     &http.Client{Timeout: timeout},
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		detector: cfg.Detector,
		log:      log,
		utils:    utils.New(),
	}
}

// Analyze posts one face crop to the DeepFace REST API. Detection is not
// enforced because the crop already comes from the cascade detector.
func (c *deepFaceClient) Analyze(ctx context.Context, jpeg []byte) (*entity.Analysis, error) {
	payload, err := jsoniter.Marshal(analyzeRequest{
		Img:              c.utils.JPEGDataURI(jpeg),
		Actions:          DefaultActions,
		EnforceDetection: false,
		DetectorBackend:  c.detector,
	})
	if err != nil {
		return nil, fmt.Errorf("encode analyze request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build analyze request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	started := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call deepface analyze: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read deepface response: %w", err)
	}

	c.log.WithFields(logrus.Fields{
		"status":     res.StatusCode,
		"bytes":      len(jpeg),
		"latency_ms": time.Since(started).Milliseconds(),
	}).Debug("DeepFace analyze call finished")

	if msg := gjson.GetBytes(body, "error"); msg.Exists() {
		return nil, fmt.Errorf("deepface analyze failed with status %d: %s", res.StatusCode, msg.String())
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("deepface analyze failed with status %d", res.StatusCode)
	}

	return ParseAnalyzeResponse(body)
}

func (c *deepFaceClient) Close() {
	c.http.CloseIdleConnections()
}

// ParseAnalyzeResponse accepts the shapes served by the different DeepFace
// API versions: {"results": [...]}, a bare array, or {"instance_1": {...}}.
// Only the first face is returned.
func ParseAnalyzeResponse(body []byte) (*entity.Analysis, error) {
	if !gjson.ValidBytes(body) {
		return nil, ErrBadResponse
	}

	root := gjson.ParseBytes(body)

	var first gjson.Result
	switch {
	case root.Get("results").IsArray():
		first = root.Get("results.0")
	case root.IsArray():
		first = root.Get("0")
	case root.IsObject():
		root.ForEach(func(key, value gjson.Result) bool {
			if strings.HasPrefix(key.String(), "instance_") && value.IsObject() {
				first = value
				return false
			}
			return true
		})
		if !first.Exists() && root.Get("dominant_emotion").Exists() {
			first = root
		}
	default:
		return nil, ErrBadResponse
	}

	if !first.Exists() || !first.IsObject() {
		return nil, ErrNoFace
	}

	return toAnalysis(first), nil
}

func toAnalysis(r gjson.Result) *entity.Analysis {
	analysis := &entity.Analysis{
		Age:             r.Get("age").Float(),
		DominantGender:  r.Get("dominant_gender").String(),
		DominantEmotion: r.Get("dominant_emotion").String(),
		DominantRace:    r.Get("dominant_race").String(),
		Gender:          scores(r.Get("gender")),
		Emotion:         scores(r.Get("emotion")),
		Race:            scores(r.Get("race")),
	}

	// Older releases report gender as a plain string.
	if analysis.DominantGender == "" && r.Get("gender").Type == gjson.String {
		analysis.DominantGender = r.Get("gender").String()
	}

	if region := r.Get("region"); region.IsObject() {
		analysis.Region = &entity.Box{
			X: int(region.Get("x").Int()),
			Y: int(region.Get("y").Int()),
			W: int(region.Get("w").Int()),
			H: int(region.Get("h").Int()),
		}
	}

	return analysis
}

func scores(r gjson.Result) map[string]float64 {
	if !r.IsObject() {
		return nil
	}
	out := make(map[string]float64)
	r.ForEach(func(key, value gjson.Result) bool {
		out[key.String()] = value.Float()
		return true
	})
	return out
}
