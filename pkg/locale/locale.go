package locale

import (
	"FaceStream/internal/entity"
	"strconv"
	"strings"
)

const (
	PortugueseBR = "pt-BR"
	English      = "en"
)

// Captions are the page strings that follow the selected locale.
type Captions struct {
	Lang      string
	Title     string
	Age       string
	Gender    string
	Emotion   string
	Ethnicity string
	LogoAlt   string
}

type ITranslator interface {
	Localize(analysis entity.Analysis) entity.Attributes
	Captions() Captions
	Locale() string
}

type translator struct {
	locale    string
	ageSuffix string
	male      string
	female    string
	emotions  map[string]string
	ethnicity map[string]string
	captions  Captions
}

var brazilianEmotions = map[string]string{
	"angry":    "Zangado",
	"disgust":  "Nojo",
	"fear":     "Medo",
	"happy":    "Feliz",
	"neutral":  "Neutro",
	"sad":      "Triste",
	"surprise": "Surpresa",
}

var brazilianEthnicity = map[string]string{
	"white":           "Branco",
	"black":           "Negro",
	"asian":           "Asiático",
	"indian":          "Indiano",
	"middle eastern":  "Oriente Médio",
	"latino hispanic": "Latino/Hispânico",
}

var englishEmotions = map[string]string{
	"angry":    "Angry",
	"disgust":  "Disgust",
	"fear":     "Fear",
	"happy":    "Happy",
	"neutral":  "Neutral",
	"sad":      "Sad",
	"surprise": "Surprise",
}

var englishEthnicity = map[string]string{
	"white":           "White",
	"black":           "Black",
	"asian":           "Asian",
	"indian":          "Indian",
	"middle eastern":  "Middle Eastern",
	"latino hispanic": "Latino/Hispanic",
}

// New returns the translator for locale. Unknown locales fall back to
// pt-BR.
func New(locale string) ITranslator {
	switch strings.ToLower(locale) {
	case "en", "en-us", "en-gb":
		return &translator{
			locale:    English,
			ageSuffix: " years",
			male:      "Male",
			female:    "Female",
			emotions:  englishEmotions,
			ethnicity: englishEthnicity,
			captions: Captions{
				Lang:      "en",
				Title:     "Real-Time Face Analysis",
				Age:       "Age",
				Gender:    "Gender",
				Emotion:   "Emotion",
				Ethnicity: "Ethnicity",
				LogoAlt:   "ICEI logo",
			},
		}
	default:
		return &translator{
			locale:    PortugueseBR,
			ageSuffix: " anos",
			male:      "Masculino",
			female:    "Feminino",
			emotions:  brazilianEmotions,
			ethnicity: brazilianEthnicity,
			captions: Captions{
				Lang:      "pt-BR",
				Title:     "Análise Facial em Tempo Real",
				Age:       "Idade",
				Gender:    "Gênero",
				Emotion:   "Emoção",
				Ethnicity: "Etnia",
				LogoAlt:   "Logomarca ICEI",
			},
		}
	}
}

func (t *translator) Localize(analysis entity.Analysis) entity.Attributes {
	return entity.Attributes{
		Age:       FormatAge(analysis.Age) + t.ageSuffix,
		Gender:    t.gender(analysis.DominantGender),
		Emotion:   lookup(t.emotions, analysis.DominantEmotion),
		Ethnicity: lookup(t.ethnicity, analysis.DominantRace),
	}
}

func (t *translator) Captions() Captions {
	return t.captions
}

func (t *translator) Locale() string {
	return t.locale
}

// Anything other than "Man" is reported as female, matching the two-class
// gender model.
func (t *translator) gender(dominant string) string {
	if dominant == "Man" {
		return t.male
	}
	return t.female
}

func lookup(table map[string]string, key string) string {
	if label, ok := table[key]; ok {
		return label
	}
	return key
}

// FormatAge prints whole ages without a decimal point.
func FormatAge(age float64) string {
	return strconv.FormatFloat(age, 'f', -1, 64)
}
