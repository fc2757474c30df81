package vision

import (
	"FaceStream/internal/entity"
	"image"
	"testing"
)

func TestToBox(t *testing.T) {
	got := ToBox(image.Rect(10, 20, 110, 170))
	want := entity.Box{X: 10, Y: 20, W: 100, H: 150}
	if got != want {
		t.Errorf("ToBox() = %+v, want %+v", got, want)
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		name string
		in   *entity.Analysis
		want string
	}{
		{"nil", nil, ""},
		{"rounded age", &entity.Analysis{Age: 29.6, DominantGender: "Man", DominantEmotion: "happy"}, "happy, Man, 30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Label(tt.in); got != tt.want {
				t.Errorf("Label() = %q, want %q", got, tt.want)
			}
		})
	}
}
