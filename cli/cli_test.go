package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLayout = `<?xml version="1.0" encoding="utf-8"?>
<LayoutRoot>
  <RootPanel Orientation="Horizontal">
    <LayoutAnchorablePane Id="tools" Name="Tools">
      <LayoutAnchorable ContentId="explorer"/>
    </LayoutAnchorablePane>
    <LayoutDocumentPane Id="docs">
      <LayoutDocument ContentId="readme"/>
      <LayoutDocument ContentId="main"/>
    </LayoutDocumentPane>
  </RootPanel>
</LayoutRoot>
`

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := execute(args, &stdout, &stderr, nil)
	return code, stdout.String(), stderr.String()
}

func writeLayout(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	code, out, _ := run(t, "version")
	assert.Equal(t, 0, code)
	assert.Equal(t, "dock "+Version+"\n", out)
}

func TestShow(t *testing.T) {
	path := writeLayout(t, "layout.xml", sampleLayout)
	code, out, errOut := run(t, "show", path)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "AnchorablePane tools (Tools)")
	assert.Contains(t, out, `Anchorable "explorer"`)
	assert.Contains(t, out, `Document "readme"`)
	assert.Contains(t, out, `Document "main"`)
}

func TestShowPrune(t *testing.T) {
	path := writeLayout(t, "layout.xml", sampleLayout)
	code, out, errOut := run(t, "show", "--prune", path)
	require.Equal(t, 0, code, errOut)
	assert.NotContains(t, out, "Document \"")
	assert.Contains(t, out, `Anchorable "explorer" "" [hidden]`)
}

func TestShowWithScript(t *testing.T) {
	path := writeLayout(t, "layout.xml", sampleLayout)
	script := writeLayout(t, "resolve.lua", `
function resolve(item, previous)
  if item.contentId == "main" then return false end
  return {title = string.upper(item.contentId), content = item.contentId}
end
`)
	code, out, errOut := run(t, "show", "--script", script, path)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, `Document "readme" "README"`)
	assert.NotContains(t, out, `Document "main"`)
}

func TestShowErrors(t *testing.T) {
	code, _, errOut := run(t, "show", filepath.Join(t.TempDir(), "missing.xml"))
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Error:")

	bad := writeLayout(t, "bad.xml", `<LayoutRoot><Hidden><LayoutAnchorable ContentId="x" PreviousContainerId="nope"/></Hidden></LayoutRoot>`)
	code, _, errOut = run(t, "show", bad)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, `"nope"`)

	code, _, _ = run(t, "show", "--format", "yaml", bad)
	assert.Equal(t, 1, code)
}

func TestConvert(t *testing.T) {
	path := writeLayout(t, "layout.xml", sampleLayout)
	code, out, errOut := run(t, "convert", path)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, `"type": "LayoutRoot"`)

	jsonPath := filepath.Join(t.TempDir(), "layout.json")
	code, _, errOut = run(t, "convert", path, "-o", jsonPath)
	require.Equal(t, 0, code, errOut)

	code, out, errOut = run(t, "convert", jsonPath, "--to", "xml")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, `<LayoutAnchorablePane Id="tools" Name="Tools">`)

	code, out, errOut = run(t, "show", jsonPath)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, `Document "main"`)
}

func TestStorageCommands(t *testing.T) {
	dir := t.TempDir()
	flags := []string{"--storage", "file", "--storage-dir", dir}
	path := writeLayout(t, "layout.xml", sampleLayout)

	code, out, errOut := run(t, append([]string{"save", "coding", path}, flags...)...)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "saved coding (xml")
	assert.FileExists(t, filepath.Join(dir, "coding.xml"))

	code, out, errOut = run(t, append([]string{"restore"}, flags...)...)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, `Document "main"`)

	other := writeLayout(t, "other.xml", strings.Replace(sampleLayout, `ContentId="main"`, `ContentId="notes"`, 1))
	code, _, errOut = run(t, append([]string{"save", "other", other}, flags...)...)
	require.Equal(t, 0, code, errOut)
	code, out, errOut = run(t, append([]string{"restore"}, flags...)...)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, `Document "notes"`)
	code, _, errOut = run(t, append([]string{"delete", "other"}, flags...)...)
	require.Equal(t, 0, code, errOut)

	code, _, errOut = run(t, append([]string{"save", path}, flags...)...)
	require.Equal(t, 0, code, errOut)

	code, out, errOut = run(t, append([]string{"list"}, flags...)...)
	require.Equal(t, 0, code, errOut)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "coding\txml\t"))
	assert.True(t, strings.HasPrefix(lines[1], "default\txml\t"))

	code, out, errOut = run(t, append([]string{"restore", "coding"}, flags...)...)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, `Document "readme"`)

	code, _, errOut = run(t, append([]string{"delete", "coding"}, flags...)...)
	require.Equal(t, 0, code, errOut)
	assert.NoFileExists(t, filepath.Join(dir, "coding.xml"))

	code, _, errOut = run(t, append([]string{"delete", "coding"}, flags...)...)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "not found")

	code, _, _ = run(t, append([]string{"restore", "coding"}, flags...)...)
	assert.Equal(t, 1, code)
}

func TestSaveRejectsInvalidLayout(t *testing.T) {
	path := writeLayout(t, "bad.xml", "<Nope/>")
	code, _, errOut := run(t, "save", "bad", path, "--storage", "file", "--storage-dir", t.TempDir())
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "unknown layout element")
}

func TestHooks(t *testing.T) {
	called := false
	code := RunWithHooks([]string{"custom", "x"}, &Hooks{
		BeforeDispatch: func(command string, args []string) (bool, int) {
			called = true
			assert.Equal(t, "custom", command)
			assert.Equal(t, []string{"x"}, args)
			return true, 7
		},
	})
	assert.True(t, called)
	assert.Equal(t, 7, code)

	var out bytes.Buffer
	extra := &cobra.Command{
		Use: "hello",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.Println("hi")
			return nil
		},
	}
	hooks := &Hooks{Commands: []*cobra.Command{extra}, CustomVersion: func() string { return "plugin 1.0" }}
	require.Equal(t, 0, execute([]string{"hello"}, &out, &out, hooks))
	assert.Equal(t, "hi\n", out.String())

	out.Reset()
	require.Equal(t, 0, execute([]string{"version"}, &out, &out, hooks))
	assert.Contains(t, out.String(), "plugin 1.0")
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatchReloads(t *testing.T) {
	path := writeLayout(t, "layout.xml", sampleLayout)
	var out lockedBuffer
	a := &app{stdout: &out, stderr: &bytes.Buffer{}, overrides: Overrides{}}
	require.NoError(t, a.init())
	a.cfg.Watch.Debounce = Duration(20 * time.Millisecond)
	defer a.close()

	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.watchFile(ctx, cmd, path, false) }()

	require.Eventually(t, func() bool { return strings.Count(out.String(), "--- ") == 1 }, 2*time.Second, 10*time.Millisecond)
	// let the watcher start before changing the file
	time.Sleep(100 * time.Millisecond)
	changed := strings.Replace(sampleLayout, `<LayoutDocument ContentId="main"/>`, `<LayoutDocument ContentId="notes"/>`, 1)
	require.NoError(t, os.WriteFile(path, []byte(changed), 0o644))
	require.Eventually(t, func() bool { return strings.Contains(out.String(), `Document "notes"`) }, 3*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}
}
