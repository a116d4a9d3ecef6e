package manifest_test

import (
	"bytes"
	"context"
	"io"
	"log"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/injector"
	"github.com/xy-planning-network/switchback/injector/injectortest"
	"github.com/xy-planning-network/switchback/injector/manifest"
	"github.com/xy-planning-network/switchback/logger"
)

func newLoader(opts ...manifest.Option) *manifest.Loader {
	l := logger.NewLogger(logger.WithLogger(log.New(io.Discard, "", 0)))
	opts = append([]manifest.Option{manifest.WithLogger(l), manifest.WithEnv(map[string]string{"REGION": "us-east"})}, opts...)
	return manifest.NewLoader(opts...)
}

func TestLoad(t *testing.T) {
	root := injectortest.Tree(t, map[string]string{
		"Static.hcl": `
factory = "static"
settings = {
  body = "served from ${env.REGION}"
}`,
		"Echo.hcl":        `factory = "echo"`,
		"Number.hcl":      "factory = \"static\"\nsettings = { body = 42 }",
		"Syntax.hcl":      `factory = `,
		"NoFactory.hcl":   `settings = {}`,
		"Unknown.hcl":     `factory = "nope"`,
		"NoBody.hcl":      `factory = "static"`,
		"EmptyBody.hcl":   "factory = \"static\"\nsettings = { body = \"\" }",
		"BadEnv.hcl":      "factory = \"static\"\nsettings = { body = env.MISSING }",
		"NotAnObject.hcl": "factory = \"static\"\nsettings = [\"body\"]",
		"Custom.hcl":      "factory = \"upper\"\nsettings = { word = \"hey\" }",
	})

	ld := newLoader(manifest.WithFactory("upper", func(s manifest.Settings) (injector.Handler, error) {
		vals, err := s.Require("word")
		if err != nil {
			return nil, err
		}

		return injector.HandlerFunc(func(_ context.Context, w io.Writer, _ switchback.Params) error {
			_, err := io.WriteString(w, vals[0]+"!")
			return err
		}), nil
	}))

	var p switchback.Params
	p.Set("year", "2014")
	p.Set("slug", "hello")

	for _, tc := range []struct {
		name     string
		err      error
		expected string
	}{
		{"Static.hcl", nil, "served from us-east"},
		{"Echo.hcl", nil, `{"slug":"hello","year":"2014"}` + "\n"},
		{"Number.hcl", nil, "42"},
		{"Custom.hcl", nil, "hey!"},
		{"Syntax.hcl", manifest.ErrManifest, ""},
		{"NoFactory.hcl", manifest.ErrManifest, ""},
		{"Unknown.hcl", manifest.ErrUnknownFactory, ""},
		{"NoBody.hcl", manifest.ErrMissingSetting, ""},
		{"EmptyBody.hcl", switchback.ErrNotValid, ""},
		{"BadEnv.hcl", manifest.ErrManifest, ""},
		{"NotAnObject.hcl", manifest.ErrManifest, ""},
		{"Missing.hcl", manifest.ErrManifest, ""},
	} {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			h, err := ld.Load(context.Background(), filepath.Join(root, tc.name))

			// Assert
			require.ErrorIs(t, err, tc.err)
			if tc.err != nil {
				require.Nil(t, h)
				return
			}

			b := new(bytes.Buffer)
			require.Nil(t, h.Handle(context.Background(), b, p))
			require.Equal(t, tc.expected, b.String())
		})
	}
}

func TestSettingsRequire(t *testing.T) {
	s := manifest.Settings{"a": "1", "b": "2"}

	vals, err := s.Require("b", "a")
	require.Nil(t, err)
	require.Equal(t, []string{"2", "1"}, vals)

	_, err = s.Require("a", "c")
	require.ErrorIs(t, err, manifest.ErrMissingSetting)
	require.Contains(t, err.Error(), "c")
}

func TestSettingsDecode(t *testing.T) {
	type cache struct {
		TTL   int    `param:"ttl" validate:"gte=0"`
		Store string `param:"store" validate:"required,oneof=memory disk"`
	}

	for _, tc := range []struct {
		name     string
		settings manifest.Settings
		expected cache
		err      error
	}{
		{"Valid", manifest.Settings{"ttl": "30", "store": "disk", "extra": "x"}, cache{30, "disk"}, nil},
		{"Not-A-Number", manifest.Settings{"ttl": "soon", "store": "disk"}, cache{}, switchback.ErrNotValid},
		{"Fails-Validation", manifest.Settings{"ttl": "30", "store": "tape"}, cache{}, switchback.ErrNotValid},
		{"Missing", manifest.Settings{"ttl": "30"}, cache{}, switchback.ErrNotValid},
	} {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			var actual cache
			err := tc.settings.Decode(&actual)

			// Assert
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}
			require.Nil(t, err)
			require.Equal(t, tc.expected, actual)
		})
	}
}

func TestSettingsParams(t *testing.T) {
	s := manifest.Settings{"b": "2", "a": "1"}

	require.Equal(t, "{a=1 b=2}", s.Params().String())
}

func TestFactories(t *testing.T) {
	require.Equal(t, []string{"echo", "static"}, newLoader().Factories())
}
