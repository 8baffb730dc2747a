package xmlcodec

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zot/dock/internal/layout"
	"github.com/zot/dock/internal/persist"
)

func sample(t *testing.T) *layout.Root {
	t.Helper()
	tools := layout.NewAnchorablePane(layout.NewAnchorable("explorer"))
	tools.SetID("tools")
	doc := layout.NewDocument("readme")
	doc.Title = "README.md"
	docs := layout.NewDocumentPane(doc)
	docs.SetID("docs")
	r := layout.NewRoot()
	require.NoError(t, r.SetRootPanel(layout.NewPanel(layout.Vertical, tools, docs)))
	return r
}

func TestRoundTrip(t *testing.T) {
	c := New()
	var buf bytes.Buffer
	require.NoError(t, c.Encode(&buf, sample(t)))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, `<RootPanel Orientation="Vertical">`)
	assert.Contains(t, out, `<LayoutAnchorablePane Id="tools">`)
	assert.Contains(t, out, `<LayoutDocument ContentId="readme"/>`)
	assert.NotContains(t, out, "README.md")

	r, err := c.Decode(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, layout.Vertical, r.RootPanel().Orientation)
	assert.Equal(t, []string{"explorer"}, []string{r.Anchorables()[0].ContentID})
	assert.Equal(t, "readme", r.Documents()[0].ContentID)
	assert.Empty(t, r.Documents()[0].Title)

	var again bytes.Buffer
	require.NoError(t, c.Encode(&again, r))
	assert.Equal(t, out, again.String())
}

func TestDecodeHandWritten(t *testing.T) {
	src := `<?xml version="1.0" encoding="utf-8"?>
<LayoutRoot>
  <RootPanel Orientation="Horizontal">
    <LayoutAnchorablePane Id="left" DockWidth="200">
      <LayoutAnchorable ContentId="tools" IsSelected="true"/>
    </LayoutAnchorablePane>
    <LayoutDocumentPane>
      <LayoutDocument ContentId="a"/>
    </LayoutDocumentPane>
  </RootPanel>
  <Hidden>
    <LayoutAnchorable ContentId="props" PreviousContainerId="left" PreviousContainerIndex="1"/>
  </Hidden>
</LayoutRoot>`
	r, err := New().Decode(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, r.Hidden(), 1)
	assert.Equal(t, "left", r.Hidden()[0].PreviousContainerID())
	pane, ok := layout.First[*layout.AnchorablePane](r.Descendants())
	require.True(t, ok)
	assert.Equal(t, layout.PixelLength(200), pane.DockWidth)
	assert.True(t, r.Anchorables()[0].IsSelected)
}

func TestDecodeErrors(t *testing.T) {
	_, err := New().Decode(strings.NewReader(""))
	assert.Error(t, err)

	_, err = New().Decode(strings.NewReader("<LayoutRoot><Toolbar/></LayoutRoot>"))
	assert.ErrorIs(t, err, persist.ErrUnknownElement)

	_, err = New().Decode(strings.NewReader(`<LayoutRoot><RootPanel DockMinWidth="wide"/></LayoutRoot>`))
	assert.ErrorIs(t, err, persist.ErrInvalidAttribute)
}
