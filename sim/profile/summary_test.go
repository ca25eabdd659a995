package profile

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ipsim/ipsim/sim"
)

func TestSummarize_MomentsPerShot(t *testing.T) {
	// GIVEN a step profile that flattens at the second shot
	p := &sim.Profile{Shots: 2, Sites: 4, Values: []float64{
		-1, -1, 1, 1,
		0, 0, 0, 0,
	}}

	// WHEN summarized with DtShot = 100
	got := Summarize(p, 100)

	// THEN each shot reports its moments and half means
	require.Len(t, got, 2)
	assert.Equal(t, 0, got[0].Shot)
	assert.Equal(t, int64(0), got[0].Time)
	assert.Equal(t, 0.0, got[0].Mean)
	assert.InDelta(t, 1.1547, got[0].StdDev, 1e-4) // unbiased std of {-1,-1,1,1}
	assert.Equal(t, -1.0, got[0].Min)
	assert.Equal(t, 1.0, got[0].Max)
	assert.Equal(t, -1.0, got[0].LeftMean)
	assert.Equal(t, 1.0, got[0].RightMean)

	assert.Equal(t, int64(100), got[1].Time)
	assert.Equal(t, 0.0, got[1].StdDev)
	assert.Equal(t, 0.0, got[1].LeftMean)
}

func TestSummarize_SingleSite_NoNaN(t *testing.T) {
	p := &sim.Profile{Shots: 1, Sites: 1, Values: []float64{0.5}}
	got := Summarize(p, 1)
	assert.Equal(t, 0.0, got[0].StdDev)
	assert.Equal(t, 0.0, got[0].LeftMean)
	assert.Equal(t, 0.5, got[0].RightMean)
}

func TestWriteSummaryCSV_HeaderAndRows(t *testing.T) {
	rows := []ShotSummary{{Shot: 0, Time: 0, Mean: 0.5}, {Shot: 1, Time: 10, Mean: 0.25}}

	var buf bytes.Buffer
	require.NoError(t, WriteSummaryCSV(&buf, rows))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "shot,time,mean,std_dev,min,max,left_mean,right_mean", lines[0])
	assert.True(t, strings.HasPrefix(lines[2], "1,10,0.25,"), "row %q", lines[2])
}
