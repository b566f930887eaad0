package templates_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/2beens/fitsync/internal/templates"
	"github.com/2beens/fitsync/internal/workout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() []templates.Template {
	return []templates.Template{
		{ID: "79D0BB3A", Title: "Bench Press (Barbell)", PrimaryMuscleGroup: "chest"},
		{ID: "D04AC939", Title: "Squat", PrimaryMuscleGroup: "quadriceps"},
		{ID: "C6272009", Title: "Deadlift (Barbell)", PrimaryMuscleGroup: "lower_back"},
		{ID: "NOGROUP1", Title: "Stretching"},
	}
}

func TestIndex_ResolveMuscleGroup(t *testing.T) {
	idx := templates.BuildIndex(testCatalog())
	assert.Equal(t, 3, idx.Size())

	testCases := []struct {
		name      string
		exercise  workout.Exercise
		wantGroup string
		wantOk    bool
	}{
		{
			name:      "by_template_id",
			exercise:  workout.Exercise{TemplateID: "D04AC939", Title: "whatever"},
			wantGroup: "quadriceps",
			wantOk:    true,
		},
		{
			name:      "by_exact_title_case_insensitive",
			exercise:  workout.Exercise{Title: "BENCH PRESS (barbell)"},
			wantGroup: "chest",
			wantOk:    true,
		},
		{
			name:      "by_title_with_qualifier_stripped",
			exercise:  workout.Exercise{Title: "Squat (Smith Machine)"},
			wantGroup: "quadriceps",
			wantOk:    true,
		},
		{
			name:      "unknown_template_id_falls_back_to_title",
			exercise:  workout.Exercise{TemplateID: "nope", Title: "Squat"},
			wantGroup: "quadriceps",
			wantOk:    true,
		},
		{
			name:      "embedded_muscle_group_last",
			exercise:  workout.Exercise{Title: "Cable Fly", MuscleGroup: "chest"},
			wantGroup: "chest",
			wantOk:    true,
		},
		{
			name:      "index_wins_over_embedded",
			exercise:  workout.Exercise{Title: "Squat", MuscleGroup: "legs"},
			wantGroup: "quadriceps",
			wantOk:    true,
		},
		{
			name:     "template_without_group_is_not_indexed",
			exercise: workout.Exercise{TemplateID: "NOGROUP1", Title: "Stretching"},
			wantOk:   false,
		},
		{
			name:     "nothing_matches",
			exercise: workout.Exercise{Title: "Underwater Basket Weaving"},
			wantOk:   false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			group, ok := idx.ResolveMuscleGroup(tc.exercise)
			assert.Equal(t, tc.wantOk, ok)
			assert.Equal(t, tc.wantGroup, group)
		})
	}
}

func TestStripQualifier(t *testing.T) {
	assert.Equal(t, "bench press", templates.StripQualifier("bench press (barbell)"))
	assert.Equal(t, "bench press", templates.StripQualifier("bench press"))
	assert.Equal(t, "row (cable) wide", templates.StripQualifier("row (cable) wide"))
}

func TestParseJSON(t *testing.T) {
	t.Run("bare_array", func(t *testing.T) {
		catalog, err := templates.ParseJSON([]byte(`[{"id":"a","title":"Squat","primary_muscle_group":"quadriceps"}]`))
		require.NoError(t, err)
		require.Len(t, catalog, 1)
		assert.Equal(t, "quadriceps", catalog[0].PrimaryMuscleGroup)
	})

	t.Run("wrapped", func(t *testing.T) {
		catalog, err := templates.ParseJSON([]byte(`
			{"page": 1, "exercise_templates": [
				{"id":"a","title":"Squat","primary_muscle_group":"quadriceps"},
				{"id":"b","title":"Bench Press","primary_muscle_group":"chest","equipment":"barbell"}
			]}`))
		require.NoError(t, err)
		require.Len(t, catalog, 2)
		assert.Equal(t, "barbell", catalog[1].Equipment)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := templates.ParseJSON([]byte(`[]`))
		require.ErrorIs(t, err, templates.ErrEmptyCatalog)
		_, err = templates.ParseJSON([]byte(`  `))
		require.ErrorIs(t, err, templates.ErrEmptyCatalog)
	})

	t.Run("corrupt", func(t *testing.T) {
		_, err := templates.ParseJSON([]byte(`{"exercise_templates": [`))
		require.Error(t, err)
	})
}

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
exercise_templates:
  - id: a
    title: Squat
    primary_muscle_group: quadriceps
  - id: b
    title: Pull Up
    primary_muscle_group: lats
`), 0o600))

	catalog, err := templates.LoadCatalog(yamlPath)
	require.NoError(t, err)
	require.Len(t, catalog, 2)
	assert.Equal(t, "lats", catalog[1].PrimaryMuscleGroup)

	bareYamlPath := filepath.Join(dir, "bare.yml")
	require.NoError(t, os.WriteFile(bareYamlPath, []byte("- id: a\n  title: Squat\n  primary_muscle_group: quadriceps\n"), 0o600))
	catalog, err = templates.LoadCatalog(bareYamlPath)
	require.NoError(t, err)
	require.Len(t, catalog, 1)

	jsonPath := filepath.Join(dir, "catalog.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`[{"id":"a","title":"Squat","primary_muscle_group":"quadriceps"}]`), 0o600))
	catalog, err = templates.LoadCatalog(jsonPath)
	require.NoError(t, err)
	require.Len(t, catalog, 1)

	_, err = templates.LoadCatalog(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
}
