package jsoncodec

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zot/dock/internal/layout"
	"github.com/zot/dock/internal/persist"
)

func TestRoundTrip(t *testing.T) {
	tools := layout.NewAnchorablePane(layout.NewAnchorable("explorer"))
	tools.SetID("tools")
	tools.Name = "Tools"
	docs := layout.NewDocumentPane(layout.NewDocument("readme"))
	docs.SetID("docs")
	r := layout.NewRoot()
	require.NoError(t, r.SetRootPanel(layout.NewPanel(layout.Horizontal, tools, docs)))
	hidden := layout.NewAnchorable("props")
	require.NoError(t, tools.AddChild(hidden))
	require.NoError(t, hidden.Hide())

	c := New()
	var buf bytes.Buffer
	require.NoError(t, c.Encode(&buf, r))
	assert.Contains(t, buf.String(), `"type": "LayoutRoot"`)

	got, err := c.Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, persist.Encode(r), persist.Encode(got))
	require.Len(t, got.Hidden(), 1)
	assert.Equal(t, "tools", got.Hidden()[0].PreviousContainerID())
	assert.Equal(t, 1, got.Hidden()[0].PreviousContainerIndex())
}

func TestCompact(t *testing.T) {
	c := &Codec{}
	var buf bytes.Buffer
	require.NoError(t, c.Encode(&buf, layout.NewRoot()))
	assert.NotContains(t, strings.TrimSpace(buf.String()), "\n")
}

func TestDecodeErrors(t *testing.T) {
	_, err := New().Decode(strings.NewReader("{"))
	assert.Error(t, err)

	_, err = New().Decode(strings.NewReader(`{"type":"LayoutRoot","children":[{"type":"Toolbar"}]}`))
	assert.ErrorIs(t, err, persist.ErrUnknownElement)
}
