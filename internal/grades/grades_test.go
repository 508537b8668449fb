package grades_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"coffeerange/internal/apperrors"
	"coffeerange/internal/grades"
	"coffeerange/internal/model"
)

func Test_Set_Check(t *testing.T) {
	t.Run("strict mode rejects grades outside the list", func(t *testing.T) {
		set := grades.NewSet(nil, true)

		g, err := set.Check(" lwsd3 ")
		require.NoError(t, err)
		require.Equal(t, "LWSD3", g)

		_, err = set.Check("LWSD9")
		require.ErrorIs(t, err, apperrors.ErrUnknownGrade)
	})

	t.Run("permissive mode accepts free-form grades", func(t *testing.T) {
		set := grades.NewSet(nil, false)

		g, err := set.Check("guji1")
		require.NoError(t, err)
		require.Equal(t, "GUJI1", g)
	})

	t.Run("empty grade is rejected in both modes", func(t *testing.T) {
		_, err := grades.NewSet(nil, false).Check("  ")
		require.ErrorIs(t, err, apperrors.ErrUnknownGrade)
	})

	t.Run("configured list is deduplicated and keeps its order", func(t *testing.T) {
		set := grades.NewSet([]string{"LWBP2", "lwbp1", "LWBP2", ""}, true)
		require.Equal(t, []string{"LWBP2", "LWBP1"}, set.List())
		require.Len(t, grades.NewSet(nil, true).List(), len(model.KnownGrades))
	})
}

func Test_GroupByCategory(t *testing.T) {
	groups := grades.GroupByCategory([]string{"LWSD1", "LUBPAA2", "LWSD2", "GUJI1", "LWYC4", "LWBP3"})

	require.Equal(t, []string{"LWSD1", "LWSD2"}, groups[model.CategoryLWSD])
	require.Equal(t, []string{"LUBPAA2"}, groups[model.CategoryLUBPAA])
	require.Equal(t, []string{"LWBP3"}, groups[model.CategoryLWBP])
	require.Equal(t, []string{"LWYC4"}, groups[model.CategoryLWYC])
	require.Equal(t, []string{"GUJI1"}, groups[model.CategoryOther])
}
