package entity

import "time"

// Frame is one annotated, JPEG-encoded camera frame.
type Frame struct {
	Seq        uint64    `json:"seq"`
	CapturedAt time.Time `json:"captured_at"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Faces      []Face    `json:"faces"`
	Analyzed   bool      `json:"analyzed"`
	JPEG       []byte    `json:"-"`
}

type PipelineStats struct {
	FramesCaptured  uint64    `json:"frames_captured"`
	FramesPublished uint64    `json:"frames_published"`
	CaptureErrors   uint64    `json:"capture_errors"`
	EncodeErrors    uint64    `json:"encode_errors"`
	RecordsDropped  uint64    `json:"records_dropped"`
	Analyses        uint64    `json:"analyses"`
	AnalysisErrors  uint64    `json:"analysis_errors"`
	LastFrameAt     time.Time `json:"last_frame_at"`
	Running         bool      `json:"running"`
}
