package layout

import (
	"bytes"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleRoot builds:
//
//	Panel H
//	  AnchorablePane [explorer, outline]
//	  DocumentPane   [readme, main]
func sampleRoot(t *testing.T) (*Root, *AnchorablePane, *DocumentPane) {
	t.Helper()
	tools := NewAnchorablePane(NewAnchorable("explorer"), NewAnchorable("outline"))
	docs := NewDocumentPane(NewDocument("readme"), NewDocument("main"))
	r := NewRoot()
	require.NoError(t, r.SetRootPanel(NewPanel(Horizontal, tools, docs)))
	return r, tools, docs
}

func contentIDs[T Content](items []T) []string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.Base().ContentID)
	}
	return ids
}

func TestNewRootHasDocumentPane(t *testing.T) {
	r := NewRoot()
	require.NotNil(t, r.RootPanel())
	assert.True(t, r.RootPanel().IsRootPanel())
	assert.Equal(t, 1, r.RootPanel().ChildrenCount())
	_, ok := r.RootPanel().Children()[0].(*DocumentPane)
	assert.True(t, ok)
	for _, s := range Sides {
		assert.Equal(t, s, r.Side(s).Side)
		assert.Same(t, r, r.Side(s).Root())
	}
}

func TestDescendantsDepthFirst(t *testing.T) {
	r, tools, docs := sampleRoot(t)

	var kinds []Kind
	for el := range r.Descendants() {
		kinds = append(kinds, el.Kind())
	}
	assert.Equal(t, []Kind{
		KindPanel,
		KindAnchorablePane, KindAnchorable, KindAnchorable,
		KindDocumentPane, KindDocument, KindDocument,
		KindAnchorSide, KindAnchorSide, KindAnchorSide, KindAnchorSide,
	}, kinds)

	// Restartable and stoppable.
	assert.Len(t, slices.Collect(r.Descendants()), len(kinds))
	first, ok := First[*AnchorablePane](r.Descendants())
	require.True(t, ok)
	assert.Same(t, tools, first)

	assert.Equal(t, []string{"explorer", "outline"}, contentIDs(r.Anchorables()))
	assert.Equal(t, []string{"readme", "main"}, contentIDs(r.Documents()))
	assert.True(t, Contains(r, docs))
}

func TestInsertKeepsBackReferences(t *testing.T) {
	r, tools, docs := sampleRoot(t)
	a := NewAnchorable("props")
	assert.Nil(t, a.Root())

	require.NoError(t, tools.InsertChild(1, a))
	assert.Same(t, r, a.Root())
	assert.Equal(t, Container(tools), a.Parent())
	assert.Equal(t, 1, tools.IndexOf(a))

	// Moving detaches from the old parent.
	require.NoError(t, docs.InsertChild(0, a))
	assert.Equal(t, -1, tools.IndexOf(a))
	assert.Equal(t, Container(docs), a.Parent())
	assert.Same(t, r, a.Root())

	assert.True(t, docs.RemoveChild(a))
	assert.Nil(t, a.Parent())
	assert.Nil(t, a.Root())
	assert.False(t, docs.RemoveChild(a))
}

func TestInsertWithinSameParentReorders(t *testing.T) {
	_, tools, _ := sampleRoot(t)
	explorer := tools.Children()[0]
	require.NoError(t, tools.InsertChild(2, explorer))
	assert.Equal(t, 1, tools.IndexOf(explorer))
	assert.Equal(t, 2, tools.ChildrenCount())
}

func TestInsertRejectsWrongKind(t *testing.T) {
	_, tools, docs := sampleRoot(t)

	err := tools.AddChild(NewDocument("x"))
	require.ErrorIs(t, err, ErrInvalidChild)
	assert.Contains(t, err.Error(), "LayoutAnchorablePane cannot hold LayoutDocument")

	require.ErrorIs(t, docs.InsertChild(10, NewDocument("y")), ErrIndexOutOfRange)

	w := NewAnchorableFloatingWindow(NewPanel(Vertical))
	require.ErrorIs(t, w.AddChild(NewPanel(Horizontal)), ErrInvalidChild)

	assert.Panics(t, func() { NewAnchorGroup(NewDocument("z")) })
}

func TestSubtreeRootRefreshOnAttach(t *testing.T) {
	r := NewRoot()
	a := NewAnchorable("a")
	pane := NewAnchorablePane(a)
	panel := NewPanel(Vertical, pane)
	assert.Nil(t, a.Root())

	require.NoError(t, r.RootPanel().AddChild(panel))
	assert.Same(t, r, a.Root())
	assert.Same(t, r, pane.Root())
}

func TestHideAndShowRestoresPosition(t *testing.T) {
	r, tools, _ := sampleRoot(t)
	outline := r.Anchorables()[1]

	require.NoError(t, outline.Hide())
	assert.True(t, outline.IsHidden())
	assert.Equal(t, Container(tools), outline.PreviousContainer())
	assert.Equal(t, tools.ID(), outline.PreviousContainerID())
	assert.Equal(t, 1, outline.PreviousContainerIndex())
	assert.Equal(t, []*Anchorable{outline}, r.Hidden())
	assert.Equal(t, 1, tools.ChildrenCount())

	// Hiding twice is a no-op.
	require.NoError(t, outline.Hide())
	assert.Len(t, r.Hidden(), 1)

	require.NoError(t, outline.Show())
	assert.False(t, outline.IsHidden())
	assert.Equal(t, 1, tools.IndexOf(outline))
	assert.Nil(t, outline.PreviousContainer())
	assert.Empty(t, r.Hidden())
}

func TestShowWithoutPreviousContainerCreatesPane(t *testing.T) {
	r := NewRoot()
	a := NewAnchorable("log")
	require.NoError(t, r.InsertChild(0, a))
	require.True(t, a.IsHidden())

	require.NoError(t, a.Show())
	pane, ok := a.Parent().(*AnchorablePane)
	require.True(t, ok)
	assert.Equal(t, Container(r.RootPanel()), pane.Parent())
}

func TestHideDetachedFails(t *testing.T) {
	assert.ErrorIs(t, NewAnchorable("x").Hide(), ErrDetached)
}

func TestToggleAutoHide(t *testing.T) {
	r, tools, _ := sampleRoot(t)
	explorer := r.Anchorables()[0]

	require.NoError(t, explorer.ToggleAutoHide(SideLeft))
	assert.True(t, explorer.IsAutoHidden())
	left := r.Side(SideLeft)
	require.Equal(t, 1, left.ChildrenCount())
	g := left.Children()[0].(*AnchorGroup)
	assert.Equal(t, 2, g.ChildrenCount())
	assert.Equal(t, Container(tools), g.PreviousContainer())

	// The empty pane survives collection because the group points at it.
	r.CollectGarbage()
	assert.True(t, Contains(r, tools))

	require.NoError(t, explorer.ToggleAutoHide(SideLeft))
	assert.Equal(t, Container(tools), explorer.Parent())
	assert.Equal(t, 2, tools.ChildrenCount())
	assert.Equal(t, 0, left.ChildrenCount())
}

func TestCloseRemoves(t *testing.T) {
	r, _, docs := sampleRoot(t)
	d := r.Documents()[0]
	d.Close()
	assert.Nil(t, d.Parent())
	assert.Equal(t, 1, docs.ChildrenCount())

	a := r.Anchorables()[0]
	require.NoError(t, a.Hide())
	a.Close()
	assert.Empty(t, r.Hidden())
	assert.Equal(t, "", a.PreviousContainerID())
}

func TestCollectGarbagePrunesEmptyBranches(t *testing.T) {
	r, tools, docs := sampleRoot(t)
	extraDocs := NewDocumentPane()
	nested := NewPanel(Vertical, NewAnchorablePane())
	require.NoError(t, r.RootPanel().AddChild(extraDocs))
	require.NoError(t, r.RootPanel().AddChild(nested))
	w := NewAnchorableFloatingWindow(NewPanel(Horizontal, NewAnchorablePane()))
	require.NoError(t, r.AddFloatingWindow(w))

	for _, a := range r.Anchorables() {
		a.Close()
	}
	r.CollectGarbage()

	assert.False(t, Contains(r, tools))
	assert.False(t, Contains(r, nested))
	assert.False(t, Contains(r, extraDocs))
	assert.Empty(t, r.FloatingWindows())
	// The populated document pane stays.
	assert.Equal(t, []Element{docs}, r.RootPanel().Children())

	for _, d := range r.Documents() {
		d.Close()
	}
	r.CollectGarbage()
	// The last document pane is kept even when empty.
	assert.Equal(t, []Element{docs}, r.RootPanel().Children())
}

func TestCollectGarbageKeepsReferencedPane(t *testing.T) {
	r, tools, _ := sampleRoot(t)
	for _, a := range r.Anchorables() {
		require.NoError(t, a.Hide())
	}
	r.CollectGarbage()
	assert.True(t, Contains(r, tools))

	for _, a := range r.Hidden() {
		a.Close()
	}
	r.CollectGarbage()
	assert.False(t, Contains(r, tools))
}

func TestCollectGarbageClearsStaleReferences(t *testing.T) {
	r, tools, _ := sampleRoot(t)
	a := r.Anchorables()[0]
	require.NoError(t, a.Hide())
	r.RootPanel().RemoveChild(tools)

	r.CollectGarbage()
	assert.Nil(t, a.PreviousContainer())
	assert.Equal(t, "", a.PreviousContainerID())
}

func TestCollectGarbageCollapsesSinglePanel(t *testing.T) {
	r := NewRoot()
	inner := NewPanel(Vertical, NewAnchorablePane(NewAnchorable("a")), NewAnchorablePane(NewAnchorable("b")))
	wrapper := NewPanel(Horizontal, inner)
	require.NoError(t, r.RootPanel().AddChild(wrapper))

	r.CollectGarbage()
	assert.Equal(t, 1, r.RootPanel().IndexOf(inner))
	assert.Nil(t, wrapper.Parent())
}

func TestFixCachedRoots(t *testing.T) {
	r, _, _ := sampleRoot(t)
	for el := range r.Descendants() {
		el.node().root = nil
	}
	r.FixCachedRoots()
	for el := range r.Descendants() {
		assert.Same(t, r, el.node().root)
	}
}

func TestActiveContent(t *testing.T) {
	r, _, _ := sampleRoot(t)
	assert.Nil(t, r.ActiveContent())
	d := r.Documents()[1]
	d.IsActive = true
	assert.Equal(t, Content(d), r.ActiveContent())
}

func TestSelectedContent(t *testing.T) {
	_, _, docs := sampleRoot(t)
	assert.Equal(t, "readme", docs.SelectedContent().Base().ContentID)
	docs.Children()[1].(*Document).IsSelected = true
	assert.Equal(t, "main", docs.SelectedContent().Base().ContentID)
}

func TestLength(t *testing.T) {
	tests := []struct {
		in   string
		want Length
		out  string
	}{
		{"*", StarLength(1), "*"},
		{"2.5*", StarLength(2.5), "2.5*"},
		{"150", PixelLength(150), "150"},
		{"auto", AutoLength(), "Auto"},
	}
	for _, tt := range tests {
		got, err := ParseLength(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.out, got.String())
	}
	for _, bad := range []string{"", "x*", "-3", "abc"} {
		_, err := ParseLength(bad)
		assert.Error(t, err, bad)
	}
}

func TestDump(t *testing.T) {
	r, tools, _ := sampleRoot(t)
	tools.SetID("tools")
	r.Anchorables()[0].Title = "Explorer"
	var buf bytes.Buffer
	require.NoError(t, Dump(&buf, r))
	out := buf.String()
	assert.Contains(t, out, "LayoutRoot\n")
	assert.Contains(t, out, "  Panel Horizontal\n")
	assert.Contains(t, out, "    AnchorablePane tools\n")
	assert.Contains(t, out, `      Anchorable "explorer" "Explorer"`)
}
