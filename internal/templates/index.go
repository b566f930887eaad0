package templates

import (
	"regexp"
	"strings"

	"github.com/2beens/fitsync/internal/workout"
)

var trailingParenthetical = regexp.MustCompile(`\s*\([^()]*\)\s*$`)

// Index resolves exercises to their primary muscle group.
// It is built once at startup and shared read-only, so it needs no locking.
type Index struct {
	byID   map[string]string
	byName map[string]string
}

func BuildIndex(catalog []Template) *Index {
	idx := &Index{
		byID:   make(map[string]string, len(catalog)),
		byName: make(map[string]string, len(catalog)),
	}
	for _, t := range catalog {
		if t.PrimaryMuscleGroup == "" {
			continue
		}
		if t.ID != "" {
			idx.byID[t.ID] = t.PrimaryMuscleGroup
		}
		if t.Title != "" {
			idx.byName[strings.ToLower(t.Title)] = t.PrimaryMuscleGroup
		}
	}
	return idx
}

// ResolveMuscleGroup tries, in order: the template id, the exact title, the title without
// its trailing "(...)" qualifier and finally a muscle group embedded on the exercise.
func (idx *Index) ResolveMuscleGroup(ex workout.Exercise) (string, bool) {
	if ex.TemplateID != "" {
		if g, ok := idx.byID[ex.TemplateID]; ok {
			return g, true
		}
	}

	title := strings.ToLower(strings.TrimSpace(ex.Title))
	if title != "" {
		if g, ok := idx.byName[title]; ok {
			return g, true
		}
		if base := StripQualifier(title); base != title {
			if g, ok := idx.byName[base]; ok {
				return g, true
			}
		}
	}

	if ex.MuscleGroup != "" {
		return ex.MuscleGroup, true
	}
	return "", false
}

func (idx *Index) Size() int {
	return len(idx.byID)
}

// StripQualifier removes a trailing parenthetical, "Bench Press (Barbell)" -> "Bench Press".
func StripQualifier(title string) string {
	return trailingParenthetical.ReplaceAllString(title, "")
}
