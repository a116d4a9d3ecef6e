package injector_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/switchback/injector"
	"github.com/xy-planning-network/switchback/injector/injectortest"
)

func TestScan(t *testing.T) {
	root := injectortest.Tree(t, map[string]string{
		"Home.unit":                  "",
		"controllers/Users.unit":     "",
		"controllers/admin/Log.unit": "",
		"controllers/README.md":      "",
		"lib/util.lua":               "",
	})

	for _, tc := range []struct {
		name     string
		root     string
		exts     []string
		expected []string
	}{
		{"No-Extensions", root, nil, nil},
		{"Missing-Root", filepath.Join(root, "nope"), []string{".unit"}, nil},
		{
			"Recursive",
			root,
			[]string{".unit"},
			[]string{"Home.unit", "controllers/Users.unit", "controllers/admin/Log.unit"},
		},
		{
			"Many-Extensions",
			filepath.Join(root, "lib"),
			[]string{".unit", ".lua"},
			[]string{"lib/util.lua"},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			actual := injector.Scan(tc.root, tc.exts...)

			var expected []string
			for _, rel := range tc.expected {
				expected = append(expected, filepath.Join(root, filepath.FromSlash(rel)))
			}

			require.ElementsMatch(t, expected, actual)
			for _, path := range actual {
				require.True(t, filepath.IsAbs(path))
			}
		})
	}
}

func TestIndex(t *testing.T) {
	// Arrange
	ix := injector.NewIndex()

	// Act
	require.Equal(t, "Home.unit", ix.Register("/app", "/app/controllers/Home.unit"))
	ix.Register("/app", "/app/lib/util.unit")
	ix.Register("/other", "/other/Home.unit")

	// Assert
	path, ok := ix.Lookup("Home.unit")
	require.True(t, ok)
	require.Equal(t, "/other/Home.unit", path)

	_, ok = ix.Lookup("Home")
	require.False(t, ok)

	require.Equal(t, 2, ix.Len())
	require.Equal(t, []string{"Home.unit", "util.unit"}, ix.Names())
	require.Equal(t, []injector.Entry{
		{Name: "Home.unit", Path: "/other/Home.unit", Root: "/other"},
		{Name: "util.unit", Path: "/app/lib/util.unit", Root: "/app"},
	}, ix.Entries())
}

func TestEntryRel(t *testing.T) {
	for _, tc := range []struct {
		name     string
		entry    injector.Entry
		expected string
	}{
		{"Beneath-Root", injector.Entry{Path: "/srv/controllers/app/lib/A.unit", Root: "/srv/controllers/app"}, "lib/A.unit"},
		{"No-Root", injector.Entry{Path: "/srv/lib/A.unit"}, "/srv/lib/A.unit"},
		{"Outside-Root", injector.Entry{Path: "/srv/lib/A.unit", Root: "/elsewhere"}, "/srv/lib/A.unit"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			tc.entry.Path = filepath.FromSlash(tc.entry.Path)
			tc.entry.Root = filepath.FromSlash(tc.entry.Root)
			require.Equal(t, tc.expected, tc.entry.Rel())
		})
	}
}

func TestScanSkipsUnreadableDirectories(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}

	// Arrange
	root := injectortest.Tree(t, map[string]string{
		"controllers/Home.unit":  "",
		"locked/Secret.unit":     "",
		"lib/util.unit":          "",
		"lib/locked/Hidden.unit": "",
	})

	for _, dir := range []string{"locked", "lib/locked"} {
		path := filepath.Join(root, filepath.FromSlash(dir))
		require.Nil(t, os.Chmod(path, 0))
		t.Cleanup(func() { os.Chmod(path, 0o755) })
	}

	// Act
	actual := injector.Scan(root, ".unit")

	// Assert
	require.ElementsMatch(t, []string{
		filepath.Join(root, "controllers", "Home.unit"),
		filepath.Join(root, "lib", "util.unit"),
	}, actual)
}

func TestParseRef(t *testing.T) {
	exts := []string{".lua", ".hcl"}
	for _, tc := range []struct {
		in       string
		expected injector.Ref
	}{
		{"Home.lua", injector.UnitRef("Home.lua")},
		{"controllers/Home.hcl", injector.UnitRef("controllers/Home.hcl")},
		{"controllers", injector.CategoryRef("controllers")},
		{"Home.php", injector.CategoryRef("Home.php")},
	} {
		t.Run(tc.in, func(t *testing.T) {
			require.Equal(t, tc.expected, injector.ParseRef(tc.in, exts...))
		})
	}

	require.Equal(t, "unit:Home.lua", injector.UnitRef("Home.lua").String())
	require.Equal(t, "category:controllers", injector.CategoryRef("controllers").String())
}
