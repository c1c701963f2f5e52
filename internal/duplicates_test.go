package internal

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingTrash fails for the paths in fail and moves everything else into dir.
type failingTrash struct {
	DirTrash
	fail map[string]bool
}

func (f *failingTrash) MoveToTrash(path string) (string, error) {
	if f.fail[path] {
		return "", errors.New("trash is full")
	}
	return f.DirTrash.MoveToTrash(path)
}

func TestDuplicateIndex_KeepsLargest(t *testing.T) {
	dir := t.TempDir()
	a := fakePhoto(t, filepath.Join(dir, "a.jpg"), "h1", 100, fixedTime)
	b := fakePhoto(t, filepath.Join(dir, "b.jpg"), "h1", 200, fixedTime)
	c := fakePhoto(t, filepath.Join(dir, "c.jpg"), "h2", 50, fixedTime)

	x := NewDuplicateIndex([]*Photo{a, b, c})

	groups := x.Groups()
	require.Len(t, groups, 1)
	assert.Equal(t, "h1", groups[0].Hash)
	assert.Same(t, b, groups[0].Original())
	assert.Equal(t, []*Photo{a}, groups[0].Duplicates())
	assert.Equal(t, int64(100), groups[0].WastedBytes())

	assert.Equal(t, []*Photo{b, c}, x.Survivors())
	assert.Equal(t, DuplicateStats{Groups: 1, Duplicates: 1, WastedBytes: 100}, x.Stats())
}

func TestDuplicateIndex_EqualSizesKeepFirstSeen(t *testing.T) {
	p1 := &Photo{Path: "/g/1.jpg", Hash: "h", Size: 10}
	p2 := &Photo{Path: "/g/2.jpg", Hash: "h", Size: 10}
	p3 := &Photo{Path: "/g/3.jpg", Hash: "h", Size: 10}

	x := NewDuplicateIndex([]*Photo{p1, p2, p3})
	assert.Equal(t, []*Photo{p1}, x.Survivors())
	assert.Equal(t, []*Photo{p1, p2, p3}, x.Groups()[0].Photos)
}

func TestDuplicateIndex_StatsCountEveryExtraCopy(t *testing.T) {
	photos := []*Photo{
		{Path: "/g/a1", Hash: "a", Size: 5},
		{Path: "/g/a2", Hash: "a", Size: 5},
		{Path: "/g/a3", Hash: "a", Size: 5},
		{Path: "/g/b1", Hash: "b", Size: 7},
		{Path: "/g/b2", Hash: "b", Size: 7},
		{Path: "/g/c1", Hash: "c", Size: 9},
	}

	st := NewDuplicateIndex(photos).Stats()
	assert.Equal(t, 2, st.Groups)
	assert.Equal(t, 3, st.Duplicates)
	assert.Equal(t, int64(17), st.WastedBytes)
	assert.Contains(t, st.Lines(), "  wasted space: 17 B")
}

func TestResolve_MovesDuplicatesToTrash(t *testing.T) {
	dir := t.TempDir()
	trashDir := filepath.Join(dir, "_duplicates")
	a := fakePhoto(t, filepath.Join(dir, "a.jpg"), "h1", 100, fixedTime)
	b := fakePhoto(t, filepath.Join(dir, "b.jpg"), "h1", 200, fixedTime)
	c := fakePhoto(t, filepath.Join(dir, "c.jpg"), "h2", 50, fixedTime)

	sink := &captureSink{}
	res := NewDuplicateIndex([]*Photo{a, b, c}).Resolve(&DirTrash{Dir: trashDir}, sink)

	assert.False(t, res.Skipped)
	assert.Empty(t, res.Failures)
	assert.Equal(t, []*Photo{b, c}, res.Survivors)
	require.Len(t, res.Trashed, 1)
	assert.Equal(t, filepath.Join(dir, "a.jpg"), res.Trashed[0].From)
	assert.Equal(t, filepath.Join(trashDir, "a.jpg"), res.Trashed[0].To)

	assert.NoFileExists(t, filepath.Join(dir, "a.jpg"))
	assert.FileExists(t, filepath.Join(trashDir, "a.jpg"))
	assert.FileExists(t, b.Path)
	assert.FileExists(t, c.Path)

	assert.True(t, sink.contains("[original] b.jpg"))
	assert.True(t, sink.contains("[duplicate] a.jpg"))
	assert.True(t, sink.contains("total duplicates moved to trash: 1"))
}

func TestResolve_TrashUnavailable(t *testing.T) {
	dir := t.TempDir()
	a := fakePhoto(t, filepath.Join(dir, "a.jpg"), "h1", 100, fixedTime)
	b := fakePhoto(t, filepath.Join(dir, "b.jpg"), "h1", 200, fixedTime)

	sink := &captureSink{}
	res := NewDuplicateIndex([]*Photo{a, b}).Resolve(NoTrash{}, sink)

	assert.True(t, res.Skipped)
	assert.Empty(t, res.Trashed)
	assert.Equal(t, []*Photo{b}, res.Survivors)
	assert.FileExists(t, a.Path)
	assert.True(t, sink.contains("error: "+ErrTrashUnavailable.Error()))
}

func TestResolve_ContinuesAfterFailure(t *testing.T) {
	dir := t.TempDir()
	trash := &failingTrash{DirTrash: DirTrash{Dir: filepath.Join(dir, "trash")}}
	a1 := fakePhoto(t, filepath.Join(dir, "a1.jpg"), "a", 10, fixedTime)
	a2 := fakePhoto(t, filepath.Join(dir, "a2.jpg"), "a", 10, fixedTime)
	a3 := fakePhoto(t, filepath.Join(dir, "a3.jpg"), "a", 10, fixedTime)
	trash.fail = map[string]bool{a2.Path: true}

	sink := &captureSink{}
	res := NewDuplicateIndex([]*Photo{a1, a2, a3}).Resolve(trash, sink)

	assert.Equal(t, []*Photo{a1}, res.Survivors)
	require.Len(t, res.Trashed, 1)
	assert.Equal(t, a3.Path, res.Trashed[0].From)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, a2.Path, res.Failures[0].FilePath)
	assert.Equal(t, ErrorCategoryTrash, res.Failures[0].Category)

	assert.FileExists(t, a2.Path)
	assert.True(t, sink.contains("error: failed to move to trash: a2.jpg"))
}

func TestResolve_NoDuplicates(t *testing.T) {
	p := &Photo{Path: "/g/only.jpg", Hash: "h", Size: 1}

	res := NewDuplicateIndex([]*Photo{p}).Resolve(NoTrash{}, nil)
	assert.False(t, res.Skipped)
	assert.Equal(t, []*Photo{p}, res.Survivors)
	assert.Equal(t, DuplicateStats{}, res.Stats)
}
