package entity

import "time"

const UnknownAttribute = "?"

// Attributes is the localized record shown on the page and served by
// /attributes. It always holds the latest successfully analyzed face.
type Attributes struct {
	Age       string `json:"age"`
	Gender    string `json:"gender"`
	Emotion   string `json:"emotion"`
	Ethnicity string `json:"ethnicity"`
}

func DefaultAttributes() Attributes {
	return Attributes{
		Age:       UnknownAttribute,
		Gender:    UnknownAttribute,
		Emotion:   UnknownAttribute,
		Ethnicity: UnknownAttribute,
	}
}

// Analysis is what an attribute analyzer returns for one face crop, in the
// model's own vocabulary.
type Analysis struct {
	Age             float64            `json:"age"`
	DominantGender  string             `json:"dominant_gender"`
	DominantEmotion string             `json:"dominant_emotion"`
	DominantRace    string             `json:"dominant_race"`
	Gender          map[string]float64 `json:"gender,omitempty"`
	Emotion         map[string]float64 `json:"emotion,omitempty"`
	Race            map[string]float64 `json:"race,omitempty"`
	Region          *Box               `json:"region,omitempty"`
}

type Box struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type Face struct {
	Box        Box        `json:"box"`
	Attributes Attributes `json:"attributes"`
	Analysis   *Analysis  `json:"analysis,omitempty"`
}

type AnalysisRecord struct {
	ID              string    `json:"id"`
	Age             string    `json:"age"`
	Gender          string    `json:"gender"`
	Emotion         string    `json:"emotion"`
	Ethnicity       string    `json:"ethnicity"`
	DominantGender  string    `json:"dominant_gender"`
	DominantEmotion string    `json:"dominant_emotion"`
	DominantRace    string    `json:"dominant_race"`
	Box             Box       `json:"box"`
	CreatedAt       time.Time `json:"created_at"`
}
