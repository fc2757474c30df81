package analysis

import "time"

type ListAnalysesRequest struct {
	Limit  int `query:"limit" validate:"min=1,max=200"`
	Offset int `query:"offset" validate:"min=0"`
}

type AnalysisResponse struct {
	ID              string    `json:"id"`
	Age             string    `json:"age"`
	Gender          string    `json:"gender"`
	Emotion         string    `json:"emotion"`
	Ethnicity       string    `json:"ethnicity"`
	DominantGender  string    `json:"dominant_gender"`
	DominantEmotion string    `json:"dominant_emotion"`
	DominantRace    string    `json:"dominant_race"`
	Box             BoxDTO    `json:"box"`
	CreatedAt       time.Time `json:"created_at"`
}

type BoxDTO struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type AnalysisListResponse struct {
	Analyses []AnalysisResponse `json:"analyses"`
	Total    int                `json:"total"`
	Limit    int                `json:"limit"`
	Offset   int                `json:"offset"`
}

type SummaryResponse struct {
	Total       int            `json:"total"`
	Emotions    map[string]int `json:"emotions"`
	Ethnicities map[string]int `json:"ethnicities"`
}
