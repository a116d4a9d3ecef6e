package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/injector/injectortest"
	"github.com/xy-planning-network/switchback/ranger"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	color.NoColor = true
	out := new(bytes.Buffer)
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))

	err := cmd.Execute()
	return out.String(), err
}

func writeRoutes(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "routes.hcl")
	require.Nil(t, os.WriteFile(path, []byte(`
route "/" {
  handler = "Home.hcl"
  methods = ["GET"]
}

route "/blog/@year/@slug" {
  handler = "Post.lua"
  methods = ["GET", "POST"]
}
`), 0o644))

	return path
}

func TestRoutes(t *testing.T) {
	// Act
	out, err := run(t, "routes", "--routes", writeRoutes(t))

	// Assert
	require.Nil(t, err)
	require.Equal(t, ""+
		"METHOD  PATTERN            HANDLER\n"+
		"GET     /                  Home.hcl\n"+
		"GET     /blog/@year/@slug  Post.lua\n"+
		"POST    /blog/@year/@slug  Post.lua\n", out)

	// Act
	_, err = run(t, "routes", "--routes", filepath.Join(t.TempDir(), "nope.hcl"))

	// Assert
	require.ErrorIs(t, err, ranger.ErrRoutes)
}

func TestMatch(t *testing.T) {
	routes := writeRoutes(t)

	for _, tc := range []struct {
		name     string
		args     []string
		expected string
		err      error
	}{
		{
			"Captures",
			[]string{"get", "/blog/2014/hello"},
			"route:   GET /blog/@year/@slug\nhandler: Post.lua\nparams:  {year=2014 slug=hello}\n",
			nil,
		},
		{
			"Query-And-Body",
			[]string{"POST", "/blog/2014/hello?slug=ignored&draft=1", "title=Hi", "draft=0"},
			"route:   POST /blog/@year/@slug\nhandler: Post.lua\nparams:  {slug=hello draft=0 title=Hi year=2014}\n",
			nil,
		},
		{"No-Match", []string{"DELETE", "/"}, "", errNoMatch},
		{"Bad-Param", []string{"GET", "/", "title"}, "", switchback.ErrBadFormat},
		{"Bad-Query", []string{"GET", "/?title=%zz"}, "", switchback.ErrBadFormat},
	} {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			out, err := run(t, append([]string{"match", "--routes", routes}, tc.args...)...)

			// Assert
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}

			require.Nil(t, err)
			require.Equal(t, tc.expected, out)
		})
	}
}

func TestUnits(t *testing.T) {
	// Arrange
	root := injectortest.Tree(t, map[string]string{
		"controllers/Home.hcl":   `factory = "static"` + "\n" + `settings = { body = "home" }`,
		"controllers/Broken.lua": `handle = 1`,
		"README.md":              "",
	})

	// Act
	out, err := run(t, "units", "--root", root)

	// Assert
	require.Nil(t, err)
	require.Contains(t, out, "NAME")
	require.Contains(t, out, "Home.hcl")
	require.Contains(t, out, filepath.Join(root, "controllers", "Broken.lua"))
	require.NotContains(t, out, "README.md")

	// Act
	out, err = run(t, "units", "--root", root, "--check")

	// Assert
	require.ErrorIs(t, err, errUnitsFailed)
	require.Contains(t, err.Error(), "1 of 2")
	require.Contains(t, out, "ok")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")

	require.Nil(t, err)
	require.Contains(t, out, "switchback dev (none)")
}
