package stream

import (
	"FaceStream/internal/entity"
	"time"
)

type FacesResponse struct {
	Seq        uint64        `json:"seq"`
	CapturedAt time.Time     `json:"captured_at"`
	Faces      []entity.Face `json:"faces"`
}

type SnapshotResponse struct {
	Key        string    `json:"key"`
	Location   string    `json:"location"`
	URL        string    `json:"url,omitempty"`
	Seq        uint64    `json:"seq"`
	CapturedAt time.Time `json:"captured_at"`
}

type StatusResponse struct {
	Pipeline         entity.PipelineStats `json:"pipeline"`
	Analyzer         string               `json:"analyzer"`
	Locale           string               `json:"locale"`
	Subscribers      int                  `json:"subscribers"`
	HistoryEnabled   bool                 `json:"history_enabled"`
	SnapshotsEnabled bool                 `json:"snapshots_enabled"`
	OpenCVVersion    string               `json:"opencv_version,omitempty"`
	GoCVVersion      string               `json:"gocv_version,omitempty"`
}

// BuildInfo describes the running process for the status route.
type BuildInfo struct {
	Analyzer      string
	OpenCVVersion string
	GoCVVersion   string
}
