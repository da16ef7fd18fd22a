package progress

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipengqi/modelsync/pkg/api"
)

func chunk(completed, total int64) api.ProgressEvent {
	return api.ProgressEvent{Status: "pulling 8934d96d3f08", Digest: "sha256:8934", Completed: completed, Total: total}
}

func TestLineRenderer_Percentages(t *testing.T) {
	var out bytes.Buffer
	r := NewLineRenderer(&out)

	require.NoError(t, r.Render(chunk(10, 100)))
	require.NoError(t, r.Render(chunk(55, 100)))
	require.NoError(t, r.Render(chunk(100, 100)))

	first := "pulling 8934d96d3f08 10%..."
	second := "pulling 8934d96d3f08 55%..."
	third := "pulling 8934d96d3f08 100%..."
	want := "\r\r" + first +
		"\r" + strings.Repeat(" ", len(first)) + "\r" + second +
		"\r" + strings.Repeat(" ", len(second)) + "\r" + third
	assert.Equal(t, want, out.String())
	assert.Equal(t, len(third), r.lineLength)
}

func TestLineRenderer_StatusEndsLine(t *testing.T) {
	var out bytes.Buffer
	r := NewLineRenderer(&out)

	require.NoError(t, r.Render(chunk(100, 100)))
	require.NoError(t, r.Render(api.ProgressEvent{Status: "verifying sha256 digest"}))
	require.NoError(t, r.Render(api.ProgressEvent{Status: "success"}))

	last := "pulling 8934d96d3f08 100%..."
	pad := "\r" + strings.Repeat(" ", len(last)) + "\r"
	want := "\r\r" + last +
		pad + "verifying sha256 digest\n" +
		pad + "success\n"
	assert.Equal(t, want, out.String(), "status lines keep blanking with the last chunk width")
	assert.Equal(t, len(last), r.lineLength)
}

func TestLineRenderer_StatusBeforeChunks(t *testing.T) {
	var out bytes.Buffer
	r := NewLineRenderer(&out)

	require.NoError(t, r.Render(api.ProgressEvent{Status: "pulling manifest"}))
	require.NoError(t, r.Render(chunk(10, 100)))

	assert.Equal(t, "\r\rpulling manifest\n\r\rpulling 8934d96d3f08 10%...", out.String())
}

func TestLineRenderer_UnknownTotals(t *testing.T) {
	var out bytes.Buffer
	r := NewLineRenderer(&out)

	require.NoError(t, r.Render(chunk(0, 0)))
	require.NoError(t, r.Render(chunk(5, 0)))

	assert.Equal(t, "\r\rpulling 8934d96d3f08 0%...\r"+strings.Repeat(" ", 26)+"\rpulling 8934d96d3f08 0%...", out.String())
}

func TestLineRenderer_CountsCharacters(t *testing.T) {
	var out bytes.Buffer
	r := NewLineRenderer(&out)

	require.NoError(t, r.Render(api.ProgressEvent{Status: "téléchargement", Digest: "sha256:1"}))
	assert.Equal(t, len([]rune("téléchargement 0%...")), r.lineLength)
}

func TestPercent(t *testing.T) {
	cases := []struct {
		completed, total int64
		want             int
	}{
		{10, 100, 10},
		{55, 100, 55},
		{100, 100, 100},
		{1, 3, 33},
		{2, 3, 67},
		{1, 200, 1},
		{0, 100, 0},
		{50, 0, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Percent(tc.completed, tc.total), "%d/%d", tc.completed, tc.total)
	}
}

func TestNewFactory(t *testing.T) {
	for _, mode := range []string{"", ModeLine} {
		f, err := NewFactory(mode)
		require.NoError(t, err)
		assert.IsType(t, &LineRenderer{}, f(&bytes.Buffer{}))
	}

	f, err := NewFactory(ModeBar)
	require.NoError(t, err)
	assert.IsType(t, &BarRenderer{}, f(&bytes.Buffer{}))

	_, err = NewFactory("fancy")
	assert.Error(t, err)
}
