package catalog

import (
	"slices"
	"strings"

	"github.com/2beens/gymprogress/internal/gym"
)

const ImageBaseURL = "https://raw.githubusercontent.com/yuhonas/free-exercise-db/main/exercises/"

var Tag = struct {
	Cardio     string
	Bodyweight string
	Dumbbell   string
	Cable      string
	Machine    string
	Core       string
	Back       string
	Arms       string
}{
	Cardio:     "Cardio",
	Bodyweight: "Bodyweight",
	Dumbbell:   "Dumbbell",
	Cable:      "Cable",
	Machine:    "Machine",
	Core:       "Core",
	Back:       "Back",
	Arms:       "Arms",
}

const maxTags = 2

// Exercise is one free-exercise-db entry.
type Exercise struct {
	ID               string   `json:"id" yaml:"id"`
	Name             string   `json:"name" yaml:"name"`
	Force            string   `json:"force,omitempty" yaml:"force"`
	Level            string   `json:"level" yaml:"level"`
	Mechanic         string   `json:"mechanic,omitempty" yaml:"mechanic"`
	Equipment        string   `json:"equipment,omitempty" yaml:"equipment"`
	Category         string   `json:"category" yaml:"category"`
	PrimaryMuscles   []string `json:"primaryMuscles" yaml:"primaryMuscles"`
	SecondaryMuscles []string `json:"secondaryMuscles" yaml:"secondaryMuscles"`
	Instructions     []string `json:"instructions" yaml:"instructions"`
	Images           []string `json:"images" yaml:"images"`
}

// ImageURL resolves a relative image path against the free-exercise-db host.
func ImageURL(relative string) string {
	if relative == "" {
		return ""
	}
	if strings.HasPrefix(relative, "http://") || strings.HasPrefix(relative, "https://") {
		return relative
	}
	return ImageBaseURL + relative
}

func (e Exercise) PreviewImageURL() string {
	if len(e.Images) == 0 {
		return ""
	}
	return ImageURL(e.Images[0])
}

func normalizeTag(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Tags gives at most two display tags: modality or equipment first, then body region.
func (e Exercise) Tags() []string {
	out := make([]string, 0, maxTags)
	add := func(t string) {
		if t == "" || len(out) >= maxTags || slices.Contains(out, t) {
			return
		}
		out = append(out, t)
	}

	if normalizeTag(e.Category) == "cardio" {
		add(Tag.Cardio)
	}

	switch normalizeTag(e.Equipment) {
	case "body only":
		add(Tag.Bodyweight)
	case "dumbbell":
		add(Tag.Dumbbell)
	case "cable":
		add(Tag.Cable)
	case "machine":
		add(Tag.Machine)
	}

	muscles := make(map[string]bool)
	for _, m := range append(slices.Clone(e.PrimaryMuscles), e.SecondaryMuscles...) {
		muscles[normalizeTag(m)] = true
	}
	switch {
	case muscles["abdominals"] || muscles["abductors"] || muscles["adductors"]:
		add(Tag.Core)
	case muscles["lats"] || muscles["lower back"] || muscles["middle back"] || muscles["traps"]:
		add(Tag.Back)
	case muscles["biceps"] || muscles["triceps"] || muscles["forearms"]:
		add(Tag.Arms)
	}

	return out
}

// ToRef builds the denormalized reference stored in templates and sessions.
func (e Exercise) ToRef() gym.ExerciseRef {
	ref := gym.ExerciseRef{
		ExerciseID:       e.ID,
		Name:             e.Name,
		Image:            e.PreviewImageURL(),
		PrimaryMuscles:   nonNil(e.PrimaryMuscles),
		SecondaryMuscles: nonNil(e.SecondaryMuscles),
		Tags:             e.Tags(),
	}
	if e.Equipment != "" {
		ref.Equipment = []string{e.Equipment}
	}
	return ref
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return slices.Clone(in)
}
