package uploads

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/filedock/pkg/fserr"
	"github.com/shishobooks/filedock/pkg/sandbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, string, context.Context) {
	t.Helper()

	root, err := sandbox.NewRoot(t.TempDir())
	require.NoError(t, err)
	return NewService(root), root.Path(), logger.New().WithContext(context.Background())
}

func readFile(t *testing.T, p string) string {
	t.Helper()
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	return string(b)
}

func stringUpload(name, content string) Upload {
	return Upload{
		FileName: name,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
}

func TestSave(t *testing.T) {
	t.Parallel()
	svc, dir, ctx := newTestService(t)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "inbox"), 0755))

	p, err := svc.Save(ctx, SaveOptions{Directory: "inbox", FileName: "note.txt", Content: strings.NewReader("first")})
	require.NoError(t, err)
	assert.Equal(t, "inbox/note.txt", p)

	p, err = svc.Save(ctx, SaveOptions{Directory: "inbox", FileName: "note.txt", Content: strings.NewReader("second")})
	require.NoError(t, err)
	assert.Equal(t, "inbox/note (1).txt", p)

	assert.Equal(t, "first", readFile(t, filepath.Join(dir, "inbox", "note.txt")))
	assert.Equal(t, "second", readFile(t, filepath.Join(dir, "inbox", "note (1).txt")))
}

func TestSave_SanitizesName(t *testing.T) {
	t.Parallel()
	svc, dir, ctx := newTestService(t)

	p, err := svc.Save(ctx, SaveOptions{FileName: `..\..\windows\evil.bat`, Content: strings.NewReader("x")})
	require.NoError(t, err)
	assert.Equal(t, "evil.bat", p)

	p, err = svc.Save(ctx, SaveOptions{FileName: "../../etc/passwd", Content: strings.NewReader("x")})
	require.NoError(t, err)
	assert.Equal(t, "passwd", p)
	assert.FileExists(t, filepath.Join(dir, "passwd"))
}

func TestSave_Errors(t *testing.T) {
	t.Parallel()
	svc, dir, ctx := newTestService(t)

	for _, name := range []string{"", "   ", "/", "..", `\\`} {
		_, err := svc.Save(ctx, SaveOptions{FileName: name, Content: strings.NewReader("x")})
		assert.True(t, fserr.Is(err, fserr.KindValidation), "name %q", name)
	}

	_, err := svc.Save(ctx, SaveOptions{Directory: "missing", FileName: "a.txt", Content: strings.NewReader("x")})
	assert.True(t, fserr.Is(err, fserr.KindNotFound))

	_, err = svc.Save(ctx, SaveOptions{Directory: "../", FileName: "a.txt", Content: strings.NewReader("x")})
	assert.True(t, fserr.Is(err, fserr.KindPathEscape))

	// A failed copy doesn't leave a partial file behind.
	_, err = svc.Save(ctx, SaveOptions{FileName: "broken.bin", Content: iotest.ErrReader(errors.New("connection reset"))})
	assert.True(t, fserr.Is(err, fserr.KindIO))
	assert.NoFileExists(t, filepath.Join(dir, "broken.bin"))
}

func TestSaveAll_Sequential(t *testing.T) {
	t.Parallel()
	svc, dir, ctx := newTestService(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("existing"), 0644))

	paths, err := svc.SaveAll(ctx, "", []Upload{
		stringUpload("a.txt", "one"),
		stringUpload("a.txt", "two"),
		stringUpload("b.txt", "three"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a (1).txt", "a (2).txt", "b.txt"}, paths)
	assert.Equal(t, "one", readFile(t, filepath.Join(dir, "a (1).txt")))
	assert.Equal(t, "two", readFile(t, filepath.Join(dir, "a (2).txt")))
}

func TestSaveAll_StopsAtFirstFailure(t *testing.T) {
	t.Parallel()
	svc, dir, ctx := newTestService(t)

	closed := false
	failing := Upload{
		FileName: "bad.txt",
		Open: func() (io.ReadCloser, error) {
			return closeTracker{Reader: iotest.ErrReader(errors.New("boom")), closed: &closed}, nil
		},
	}

	paths, err := svc.SaveAll(ctx, "", []Upload{
		stringUpload("good.txt", "ok"),
		failing,
		stringUpload("never.txt", "no"),
	})
	assert.True(t, fserr.Is(err, fserr.KindIO))
	assert.Equal(t, []string{"good.txt"}, paths)
	assert.True(t, closed)
	assert.NoFileExists(t, filepath.Join(dir, "never.txt"))
	assert.NoFileExists(t, filepath.Join(dir, "bad.txt"))
}

func TestSaveAll_Canceled(t *testing.T) {
	t.Parallel()
	svc, dir, ctx := newTestService(t)

	ctx, cancel := context.WithCancel(ctx)
	cancel()

	paths, err := svc.SaveAll(ctx, "", []Upload{stringUpload("a.txt", "a")})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, paths)
	assert.NoFileExists(t, filepath.Join(dir, "a.txt"))
}

type closeTracker struct {
	io.Reader
	closed *bool
}

func (c closeTracker) Close() error {
	*c.closed = true
	return nil
}
