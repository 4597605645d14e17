package render

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/fsblog/internal/foundation/errors"
)

func (s *TemplateSet) executeString(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := s.Execute(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func TestDefaultLibrary(t *testing.T) {
	lib := DefaultLibrary()
	assert.Equal(t, []string{"atom", "html"}, lib.Formats())

	for _, format := range lib.Formats() {
		set, err := lib.Set(format)
		require.NoError(t, err, format)
		assert.Empty(t, set.Missing())
	}

	atom, err := lib.Set("atom")
	require.NoError(t, err)
	out, err := atom.executeString(TemplateNotFound, Vars{})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestLoadLibrary_Overrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "html"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".hidden"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "html", "not_found"), []byte("Nothing at {{.BlogBaseURI}}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "html", "content_type"), []byte("text/html; charset=utf-8\n"), 0o644))

	lib, err := LoadLibrary(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"atom", "html"}, lib.Formats())

	set, err := lib.Set("html")
	require.NoError(t, err)
	assert.Equal(t, "text/html; charset=utf-8", set.ContentType)

	out, err := set.executeString(TemplateNotFound, Vars{BlogBaseURI: "http://x"})
	require.NoError(t, err)
	assert.Equal(t, "Nothing at http://x", out)

	// Built-ins stay intact for other callers.
	builtin, err := DefaultLibrary().Set("html")
	require.NoError(t, err)
	out, err = builtin.executeString(TemplateNotFound, Vars{})
	require.NoError(t, err)
	assert.Equal(t, "<h1>Not found</h1>\n", out)
}

func TestLoadLibrary_Errors(t *testing.T) {
	_, err := LoadLibrary(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryFileSystem))

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "html"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "html", "header"), []byte("{{.Broken"), 0o644))
	_, err = LoadLibrary(dir)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryTemplate))

	lib, err := LoadLibrary("")
	require.NoError(t, err)
	assert.Equal(t, []string{"atom", "html"}, lib.Formats())
}

func TestTemplateSet_MissingKeyFails(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "html"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "html", "header"), []byte("{{.NoSuchField}}"), 0o644))
	lib, err := LoadLibrary(dir)
	require.NoError(t, err)

	set, err := lib.Set("html")
	require.NoError(t, err)
	_, err = set.executeString(TemplateHeader, Vars{})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryTemplate))
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "html"), 0o755))

	lib, err := LoadLibrary(dir)
	require.NoError(t, err)
	holder := NewHolder(lib)

	w, err := NewWatcher(dir, holder)
	require.NoError(t, err)
	w.Debounce = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "html", "not_found"), []byte("reloaded"), 0o644))

	require.Eventually(t, func() bool {
		set, err := holder.Library().Set("html")
		if err != nil {
			return false
		}
		out, err := set.executeString(TemplateNotFound, Vars{})
		return err == nil && out == "reloaded"
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcher_KeepsLibraryOnFailedReload(t *testing.T) {
	dir := t.TempDir()
	lib, err := LoadLibrary(dir)
	require.NoError(t, err)
	holder := NewHolder(lib)

	w, err := NewWatcher(dir, holder)
	require.NoError(t, err)
	defer func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_ = w.Run(ctx)
	}()

	var reloadErr error
	w.OnReload = func(_ *Library, err error) { reloadErr = err }

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "html"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "html", "footer"), []byte("{{end}}"), 0o644))
	require.Error(t, w.Reload())
	require.Error(t, reloadErr)
	assert.Same(t, lib, holder.Library())
}
