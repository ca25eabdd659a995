package profile

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ipsim/ipsim/sim"
)

func TestWriteText_OneValuePerLineFixedPrecision(t *testing.T) {
	// GIVEN a 2x2 profile
	p := &sim.Profile{Shots: 2, Sites: 2, Values: []float64{0.25, -1, 1.0 / 3, 0}}

	// WHEN written
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, p))

	// THEN values appear row-major, five decimals, one per line
	assert.Equal(t, "0.25000\n-1.00000\n0.33333\n0.00000\n", buf.String())
}

func TestReadText_RoundTripsWrittenProfile(t *testing.T) {
	p := &sim.Profile{Shots: 2, Sites: 3, Values: []float64{0.5, -0.25, 1, 0, 0.125, -1}}
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, p))

	got, err := ReadText(&buf, 3)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestReadText_ShapeMismatch_ReturnsError(t *testing.T) {
	_, err := ReadText(strings.NewReader("0.1\n0.2\n0.3\n"), 2)
	assert.Error(t, err)
}

func TestReadText_Garbage_ReportsLine(t *testing.T) {
	_, err := ReadText(strings.NewReader("0.1\nabc\n"), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestReadText_NonPositiveSites_ReturnsError(t *testing.T) {
	_, err := ReadText(strings.NewReader("0.1\n"), 0)
	assert.Error(t, err)
}

func TestSaveText_LoadText_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.txt")
	p := &sim.Profile{Shots: 1, Sites: 4, Values: []float64{1, 0.5, -0.5, -1}}

	require.NoError(t, SaveText(path, p))
	got, err := LoadText(path, 4)
	require.NoError(t, err)
	assert.Equal(t, p.Values, got.Values)
}

func TestSaveText_MissingDirectory_ReturnsError(t *testing.T) {
	p := &sim.Profile{Shots: 1, Sites: 1, Values: []float64{0}}
	err := SaveText(filepath.Join(t.TempDir(), "missing", "out.txt"), p)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteText_WriterError_Propagated(t *testing.T) {
	// GIVEN enough values to overflow the bufio buffer
	p := &sim.Profile{Shots: 1, Sites: 5000, Values: make([]float64, 5000)}

	err := WriteText(failingWriter{}, p)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	// AND the profile is untouched
	assert.Len(t, p.Values, 5000)
}
