package items

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/filedock/pkg/fserr"
	"github.com/shishobooks/filedock/pkg/sandbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	svc  *Service
	root string
	ctx  context.Context
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	root, err := sandbox.NewRoot(t.TempDir())
	require.NoError(t, err)
	return &testEnv{
		svc:  NewService(root),
		root: root.Path(),
		ctx:  logger.New().WithContext(context.Background()),
	}
}

func (env *testEnv) write(t *testing.T, rel, content string) {
	t.Helper()
	full := env.abs(rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0644))
}

func (env *testEnv) mkdir(t *testing.T, rel string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(env.abs(rel), 0755))
}

func (env *testEnv) abs(rel string) string {
	return filepath.Join(env.root, filepath.FromSlash(rel))
}

func (env *testEnv) read(t *testing.T, rel string) string {
	t.Helper()
	b, err := os.ReadFile(env.abs(rel))
	require.NoError(t, err)
	return string(b)
}

func (env *testEnv) exists(rel string) bool {
	_, err := os.Lstat(env.abs(rel))
	return err == nil
}

func TestDelete_File(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.write(t, "docs/a.txt", "a")

	require.NoError(t, env.svc.Delete(env.ctx, DeleteOptions{Path: "docs/a.txt"}))
	assert.False(t, env.exists("docs/a.txt"))
	assert.True(t, env.exists("docs"))
}

func TestDelete_EmptyDirectory(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.mkdir(t, "empty")

	require.NoError(t, env.svc.Delete(env.ctx, DeleteOptions{Path: "empty"}))
	assert.False(t, env.exists("empty"))
}

func TestDelete_NonEmptyDirectory(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.write(t, "tree/a.txt", "a")
	env.write(t, "tree/nested/deeper/b.txt", "b")

	err := env.svc.Delete(env.ctx, DeleteOptions{Path: "tree"})
	assert.True(t, fserr.Is(err, fserr.KindConflict))
	assert.Equal(t, "a", env.read(t, "tree/a.txt"))
	assert.Equal(t, "b", env.read(t, "tree/nested/deeper/b.txt"))

	require.NoError(t, env.svc.Delete(env.ctx, DeleteOptions{Path: "tree", Recursive: true}))
	assert.False(t, env.exists("tree"))
}

func TestDelete_Symlink(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.write(t, "target/keep.txt", "keep")
	require.NoError(t, os.Symlink(env.abs("target"), env.abs("link")))

	require.NoError(t, env.svc.Delete(env.ctx, DeleteOptions{Path: "link", Recursive: true}))
	assert.False(t, env.exists("link"))
	assert.Equal(t, "keep", env.read(t, "target/keep.txt"))
}

func TestDelete_Errors(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	err := env.svc.Delete(env.ctx, DeleteOptions{Path: "missing.txt"})
	assert.True(t, fserr.Is(err, fserr.KindNotFound))

	err = env.svc.Delete(env.ctx, DeleteOptions{Path: "/", Recursive: true})
	assert.True(t, fserr.Is(err, fserr.KindValidation))

	err = env.svc.Delete(env.ctx, DeleteOptions{Path: "../../etc/passwd"})
	assert.True(t, fserr.Is(err, fserr.KindPathEscape))
	err = env.svc.Delete(env.ctx, DeleteOptions{Path: "../does-not-exist"})
	assert.True(t, fserr.Is(err, fserr.KindPathEscape))
}

func TestCopy_FileCollisions(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.write(t, "note.txt", "source")
	env.write(t, "dest/note.txt", "existing")

	path, err := env.svc.Copy(env.ctx, CopyOptions{Source: "note.txt", Destination: "dest"})
	require.NoError(t, err)
	assert.Equal(t, "dest/note (copy 1).txt", path)

	path, err = env.svc.Copy(env.ctx, CopyOptions{Source: "note.txt", Destination: "dest"})
	require.NoError(t, err)
	assert.Equal(t, "dest/note (copy 2).txt", path)

	assert.Equal(t, "existing", env.read(t, "dest/note.txt"))
	assert.Equal(t, "source", env.read(t, "dest/note (copy 1).txt"))
	assert.Equal(t, "source", env.read(t, "note.txt"))
}

func TestCopy_IntoSameDirectory(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.write(t, "note.txt", "source")

	path, err := env.svc.Copy(env.ctx, CopyOptions{Source: "note.txt", Destination: ""})
	require.NoError(t, err)
	assert.Equal(t, "note (copy 1).txt", path)
}

func TestCopy_Directory(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.write(t, "photos.2024/a.jpg", "a")
	env.write(t, "photos.2024/trip/b.jpg", "b")
	env.mkdir(t, "photos.2024/empty")
	require.NoError(t, os.Symlink("a.jpg", env.abs("photos.2024/latest")))

	path, err := env.svc.Copy(env.ctx, CopyOptions{Source: "photos.2024", Destination: "backup/"})
	require.True(t, fserr.Is(err, fserr.KindNotFound))
	assert.Empty(t, path)

	env.mkdir(t, "backup")
	path, err = env.svc.Copy(env.ctx, CopyOptions{Source: "photos.2024", Destination: "backup/"})
	require.NoError(t, err)
	assert.Equal(t, "backup/photos.2024", path)
	assert.Equal(t, "a", env.read(t, "backup/photos.2024/a.jpg"))
	assert.Equal(t, "b", env.read(t, "backup/photos.2024/trip/b.jpg"))
	assert.True(t, env.exists("backup/photos.2024/empty"))

	target, err := os.Readlink(env.abs("backup/photos.2024/latest"))
	require.NoError(t, err)
	assert.Equal(t, "a.jpg", target)

	// Directories keep their full name before the suffix.
	path, err = env.svc.Copy(env.ctx, CopyOptions{Source: "photos.2024", Destination: "backup"})
	require.NoError(t, err)
	assert.Equal(t, "backup/photos.2024 (copy 1)", path)
	assert.Equal(t, "b", env.read(t, "backup/photos.2024 (copy 1)/trip/b.jpg"))
}

func TestCopy_Errors(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.write(t, "dir/sub/file.txt", "x")

	_, err := env.svc.Copy(env.ctx, CopyOptions{Source: "missing", Destination: "dir"})
	assert.True(t, fserr.Is(err, fserr.KindNotFound))

	_, err = env.svc.Copy(env.ctx, CopyOptions{Source: "dir", Destination: "dir/sub"})
	assert.True(t, fserr.Is(err, fserr.KindValidation))
	_, err = env.svc.Copy(env.ctx, CopyOptions{Source: "dir", Destination: "dir"})
	assert.True(t, fserr.Is(err, fserr.KindValidation))

	_, err = env.svc.Copy(env.ctx, CopyOptions{Source: "", Destination: "dir"})
	assert.True(t, fserr.Is(err, fserr.KindValidation))

	_, err = env.svc.Copy(env.ctx, CopyOptions{Source: "dir/sub/file.txt", Destination: "../"})
	assert.True(t, fserr.Is(err, fserr.KindPathEscape))

	_, err = env.svc.Copy(env.ctx, CopyOptions{Source: "dir/sub/file.txt", Destination: "dir/sub/file.txt"})
	assert.True(t, fserr.Is(err, fserr.KindNotFound))

	assert.False(t, env.exists("dir/sub/dir"))
}

func TestMove_File(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.write(t, "note.txt", "moving")
	env.write(t, "dest/note.txt", "existing")

	path, err := env.svc.Move(env.ctx, MoveOptions{Source: "note.txt", Destination: "dest"})
	require.NoError(t, err)
	assert.Equal(t, "dest/note (1).txt", path)
	assert.False(t, env.exists("note.txt"))
	assert.Equal(t, "moving", env.read(t, "dest/note (1).txt"))
	assert.Equal(t, "existing", env.read(t, "dest/note.txt"))
}

func TestMove_Directory(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.write(t, "projects/app/main.go", "package main")
	env.mkdir(t, "archive/app")

	path, err := env.svc.Move(env.ctx, MoveOptions{Source: "projects/app", Destination: "archive"})
	require.NoError(t, err)
	assert.Equal(t, "archive/app (1)", path)
	assert.False(t, env.exists("projects/app"))
	assert.Equal(t, "package main", env.read(t, "archive/app (1)/main.go"))
}

func TestMove_ToItself(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.write(t, "docs/note.txt", "x")

	_, err := env.svc.Move(env.ctx, MoveOptions{Source: "docs/note.txt", Destination: "docs"})
	assert.True(t, fserr.Is(err, fserr.KindConflict))

	_, err = env.svc.Move(env.ctx, MoveOptions{Source: "docs", Destination: "docs"})
	assert.True(t, fserr.Is(err, fserr.KindConflict))

	_, err = env.svc.Move(env.ctx, MoveOptions{Source: "docs", Destination: ""})
	assert.True(t, fserr.Is(err, fserr.KindConflict))

	// Case differences still name the same path.
	_, err = env.svc.Move(env.ctx, MoveOptions{Source: "docs/note.txt", Destination: "DOCS"})
	if env.exists("DOCS") {
		// Case-insensitive filesystem, DOCS resolves to docs.
		assert.True(t, fserr.Is(err, fserr.KindConflict))
	} else {
		assert.True(t, fserr.Is(err, fserr.KindNotFound))
	}

	assert.Equal(t, "x", env.read(t, "docs/note.txt"))
}

func TestMove_IntoCaseVariantDirectory(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	if !env.svc.root.CaseSensitive() {
		t.Skip("filesystem folds case, A and a can't both exist")
	}
	env.write(t, "A/note.txt", "x")
	env.mkdir(t, "a")

	moved, err := env.svc.Move(env.ctx, MoveOptions{Source: "A", Destination: "a"})
	require.NoError(t, err)
	assert.Equal(t, "a/A", moved)
	assert.Equal(t, "x", env.read(t, "a/A/note.txt"))
	assert.False(t, env.exists("A"))
}

func TestMove_Errors(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.write(t, "a/b/c.txt", "c")

	_, err := env.svc.Move(env.ctx, MoveOptions{Source: "a", Destination: "a/b"})
	assert.True(t, fserr.Is(err, fserr.KindValidation))

	_, err = env.svc.Move(env.ctx, MoveOptions{Source: "missing", Destination: "a"})
	assert.True(t, fserr.Is(err, fserr.KindNotFound))

	_, err = env.svc.Move(env.ctx, MoveOptions{Source: "a/b/c.txt", Destination: "missing"})
	assert.True(t, fserr.Is(err, fserr.KindNotFound))

	_, err = env.svc.Move(env.ctx, MoveOptions{Source: "a/b/c.txt", Destination: "../.."})
	assert.True(t, fserr.Is(err, fserr.KindPathEscape))

	_, err = env.svc.Move(env.ctx, MoveOptions{Source: "/", Destination: "a"})
	assert.True(t, fserr.Is(err, fserr.KindValidation))

	assert.Equal(t, "c", env.read(t, "a/b/c.txt"))
}

func TestCreateFolder(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.mkdir(t, "docs")

	path, err := env.svc.CreateFolder(env.ctx, CreateFolderOptions{Path: "docs", Name: "reports"})
	require.NoError(t, err)
	assert.Equal(t, "docs/reports", path)
	assert.True(t, env.exists("docs/reports"))

	// Directory components in the name are dropped.
	path, err = env.svc.CreateFolder(env.ctx, CreateFolderOptions{Path: "", Name: `../..\evil`})
	require.NoError(t, err)
	assert.Equal(t, "evil", path)

	_, err = env.svc.CreateFolder(env.ctx, CreateFolderOptions{Path: "docs", Name: "reports"})
	assert.True(t, fserr.Is(err, fserr.KindConflict))

	_, err = env.svc.CreateFolder(env.ctx, CreateFolderOptions{Path: "docs", Name: ".."})
	assert.True(t, fserr.Is(err, fserr.KindValidation))

	_, err = env.svc.CreateFolder(env.ctx, CreateFolderOptions{Path: "missing", Name: "x"})
	assert.True(t, fserr.Is(err, fserr.KindNotFound))
}
