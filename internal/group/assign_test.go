package group

import (
	"context"
	"testing"

	"github.com/specialistvlad/iconpack/internal/model"
	"github.com/specialistvlad/iconpack/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func icon(name, style string, size, scale int, path string) model.Icon {
	return model.Icon{Name: name, Style: style, Size: size, Scale: scale, SourcePath: path}
}

func TestAssign_PartitionsAndOrders(t *testing.T) {
	icons := []model.Icon{
		icon("zoom", "Default", 24, 1, "a/zoom.png"),
		icon("add", "Round", 24, 1, "a/add.png"),
		icon("add", "Default", 24, 1, "a/add.png"),
		icon("menu", "Default", 24, 2, "a/menu.png"),
		icon("check", "Default", 24, 1, "a/check.png"),
	}

	groups := Assign(context.Background(), icons)
	require.Len(t, groups, 3)

	assert.Equal(t, "Default_24_1", groups[0].Name())
	assert.Equal(t, "Default_24_2", groups[1].Name())
	assert.Equal(t, "Round_24_1", groups[2].Name())

	var names []string
	for i, ic := range groups[0].Icons {
		names = append(names, ic.Name)
		assert.Equal(t, i, ic.GroupIndex)
	}
	assert.Equal(t, []string{"add", "check", "zoom"}, names)
}

func TestAssign_InputOrderDoesNotMatter(t *testing.T) {
	a := []model.Icon{
		icon("b", "Default", 18, 1, "b"),
		icon("a", "Default", 18, 1, "a"),
		icon("c", "Default", 18, 1, "c"),
	}
	b := []model.Icon{a[2], a[0], a[1]}

	assert.Equal(t, Assign(context.Background(), a), Assign(context.Background(), b))
}

func TestAssign_DuplicateNamesKeepLast(t *testing.T) {
	ctx, logs := testutil.LogContext()
	icons := []model.Icon{
		icon("home", "Default", 24, 1, "x/2/home.png"),
		icon("home", "Default", 24, 1, "x/1/home.png"),
		icon("info", "Default", 24, 1, "x/1/info.png"),
	}

	groups := Assign(ctx, icons)
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Icons, 2)

	assert.Equal(t, "x/2/home.png", groups[0].Icons[0].SourcePath)
	assert.Equal(t, 0, groups[0].Icons[0].GroupIndex)
	assert.Equal(t, "info", groups[0].Icons[1].Name)
	assert.Equal(t, 1, groups[0].Icons[1].GroupIndex)
	assert.Contains(t, logs.String(), "Duplicate icon name in group")
}

func TestAssign_Empty(t *testing.T) {
	assert.Empty(t, Assign(context.Background(), nil))
}
