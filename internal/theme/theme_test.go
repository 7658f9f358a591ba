package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_FullManifest(t *testing.T) {
	src := `
name: "aurora"
speed: 1.5
disabled: ["particles", "cursor-trail"]
effects: {
	"fade-up": {
		distance: 60
		duration: 1.2
	}
	marquee: {
		direction: "right"
		paused:    false
	}
}
`
	th, err := Parse(src, "aurora.cue")
	require.NoError(t, err)

	assert.Equal(t, "aurora", th.Name)
	assert.Equal(t, 1.5, th.Speed)
	assert.Equal(t, []string{"particles", "cursor-trail"}, th.Disabled)
	assert.Equal(t, map[string]string{"distance": "60", "duration": "1.2"}, th.Overrides["fade-up"])
	assert.Equal(t, map[string]string{"direction": "right", "paused": "false"}, th.Overrides["marquee"])
}

func TestParse_EmptyManifest(t *testing.T) {
	th, err := Parse(`{}`, "empty.cue")
	require.NoError(t, err)
	assert.Empty(t, th.Name)
	assert.Zero(t, th.Speed, "unset speed means keep the page's own")
	assert.Empty(t, th.Disabled)
	assert.Empty(t, th.Overrides)
}

func TestParse_SpeedOutOfRange(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"zero", `speed: 0`},
		{"negative", `speed: -1`},
		{"too large", `speed: 10.5`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.src, "bad.cue")
			require.Error(t, err, "manifests fail loud, they are hand-written")
			var merr *ManifestError
			assert.ErrorAs(t, err, &merr)
		})
	}
}

func TestParse_UnknownFieldRejected(t *testing.T) {
	_, err := Parse(`velocity: 2`, "typo.cue")
	require.Error(t, err, "the schema is closed so typos surface")
}

func TestParse_WrongTypeRejected(t *testing.T) {
	_, err := Parse(`disabled: "particles"`, "bad.cue")
	require.Error(t, err)

	_, err = Parse(`name: 7`, "bad.cue")
	require.Error(t, err)
}

func TestParse_ParamCoercion(t *testing.T) {
	src := `
effects: tilt: {
	angle:   15
	factor:  0.5
	enabled: true
	label:   "max"
}
`
	th, err := Parse(src, "coerce.cue")
	require.NoError(t, err)
	params := th.Overrides["tilt"]
	assert.Equal(t, "15", params["angle"])
	assert.Equal(t, "0.5", params["factor"])
	assert.Equal(t, "true", params["enabled"])
	assert.Equal(t, "max", params["label"])
}

func TestParse_SyntaxError(t *testing.T) {
	_, err := Parse(`name: "unterminated`, "broken.cue")
	require.Error(t, err)
	var merr *ManifestError
	require.ErrorAs(t, err, &merr)
	assert.Contains(t, merr.Error(), "parsing manifest")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.cue"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading manifest")
}

func TestLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.cue")
	require.NoError(t, os.WriteFile(path, []byte(`speed: 2`), 0o644))

	th, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2.0, th.Speed)
}

func TestManifestError_Formats(t *testing.T) {
	err := &ManifestError{Message: "boom"}
	assert.Equal(t, "boom", err.Error())

	err = &ManifestError{Field: "speed", Message: "out of range"}
	assert.Equal(t, "speed: out of range", err.Error())
}
