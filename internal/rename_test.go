package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePattern(t *testing.T) {
	tests := []struct {
		pattern string
		wantErr bool
	}{
		{DefaultPattern, false},
		{"{hash}", false},
		{"trip_{counter}", false},
		{"", true},
		{"   ", true},
		{"photo", true},
		{"{date}/{counter}", true},
		{`{date}\{counter}`, true},
	}
	for _, tt := range tests {
		err := ValidatePattern(tt.pattern)
		if tt.wantErr {
			assert.Error(t, err, "pattern %q", tt.pattern)
		} else {
			assert.NoError(t, err, "pattern %q", tt.pattern)
		}
	}
}

func TestRenamer_TargetName(t *testing.T) {
	p := &Photo{Path: "/g/IMG_1.JPG", Hash: "abcdef0123456789abcdef0123456789", Created: fixedTime}

	r := &Renamer{Pattern: "{date}_{counter}_{hash}"}
	assert.Equal(t, "20240315_143045_0007_abcdef01.JPG", r.TargetName(p, 7))

	r.Pattern = DefaultPattern
	assert.Equal(t, "photo_20240315_143045_0001.JPG", r.TargetName(p, 1))
	assert.Equal(t, "photo_20240315_143045_12345.JPG", r.TargetName(p, 12345))
}

func TestRenamer_Rename(t *testing.T) {
	dir := t.TempDir()
	p1 := fakePhoto(t, filepath.Join(dir, "a.jpg"), "1111111111", 1, fixedTime)
	p2 := fakePhoto(t, filepath.Join(dir, "sub", "b.png"), "2222222222", 2, fixedTime.Add(1e9))

	sink := &captureSink{}
	res := (&Renamer{Pattern: "{counter}_{hash}", Sink: sink}).Rename([]*Photo{p1, p2})

	assert.Empty(t, res.Failures)
	assert.Len(t, res.Moves, 2)
	assert.Equal(t, []*Photo{p1, p2}, res.Photos)
	assert.Equal(t, filepath.Join(dir, "0001_11111111.jpg"), p1.Path)
	assert.Equal(t, filepath.Join(dir, "sub", "0002_22222222.png"), p2.Path)
	assert.FileExists(t, p1.Path)
	assert.FileExists(t, p2.Path)
	assert.NoFileExists(t, filepath.Join(dir, "a.jpg"))
	assert.True(t, sink.contains("renamed: a.jpg -> 0001_11111111.jpg"))
}

func TestRenamer_SecondPassIsNoop(t *testing.T) {
	dir := t.TempDir()
	photos := []*Photo{
		fakePhoto(t, filepath.Join(dir, "a.jpg"), "aaaaaaaaaa", 1, fixedTime),
		fakePhoto(t, filepath.Join(dir, "b.jpg"), "bbbbbbbbbb", 1, fixedTime),
	}
	r := &Renamer{Pattern: DefaultPattern + "_{hash}"}

	first := r.Rename(photos)
	require.Len(t, first.Moves, 2)

	second := r.Rename(first.Photos)
	assert.Empty(t, second.Moves)
	assert.Equal(t, 2, second.Unchanged)
}

func TestRenamer_MissingFileLeavesCounterGap(t *testing.T) {
	dir := t.TempDir()
	p1 := fakePhoto(t, filepath.Join(dir, "a.jpg"), "1111111111", 1, fixedTime)
	p2 := fakePhoto(t, filepath.Join(dir, "b.jpg"), "2222222222", 1, fixedTime)
	p3 := fakePhoto(t, filepath.Join(dir, "c.jpg"), "3333333333", 1, fixedTime)
	require.NoError(t, os.Remove(p2.Path))

	sink := &captureSink{}
	res := (&Renamer{Pattern: "{counter}", Sink: sink}).Rename([]*Photo{p1, p2, p3})

	assert.Equal(t, []*Photo{p1, p2, p3}, res.Photos)
	assert.Equal(t, filepath.Join(dir, "b.jpg"), p2.Path)
	assert.Equal(t, 1, res.Missing)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, ErrorCategoryMissing, res.Failures[0].Category)
	assert.Equal(t, "0001.jpg", p1.Name())
	assert.Equal(t, "0003.jpg", p3.Name())
	assert.True(t, sink.contains("warning: file does not exist, skipping: b.jpg"))
}

func TestRenamer_NeverOverwrites(t *testing.T) {
	dir := t.TempDir()
	p1 := fakePhoto(t, filepath.Join(dir, "a.jpg"), "samehash00", 1, fixedTime)
	p2 := fakePhoto(t, filepath.Join(dir, "b.jpg"), "samehash11", 2, fixedTime)

	sink := &captureSink{}
	res := (&Renamer{Pattern: "{hash}", Sink: sink}).Rename([]*Photo{p1, p2})

	require.Len(t, res.Moves, 1)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, ErrorCategoryConflict, res.Failures[0].Category)
	assert.ErrorIs(t, res.Failures[0], ErrDestinationExists)

	// the second photo keeps its old path and content
	assert.Equal(t, filepath.Join(dir, "b.jpg"), p2.Path)
	assert.Equal(t, []*Photo{p1, p2}, res.Photos)
	data, err := os.ReadFile(filepath.Join(dir, "samehash.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
	assert.True(t, sink.contains("error: failed to rename b.jpg"))
}

func TestRenamer_SecondPassAfterMissingFileIsNoop(t *testing.T) {
	dir := t.TempDir()
	p1 := fakePhoto(t, filepath.Join(dir, "a.jpg"), "1111111111", 1, fixedTime)
	p2 := fakePhoto(t, filepath.Join(dir, "b.jpg"), "2222222222", 1, fixedTime)
	p3 := fakePhoto(t, filepath.Join(dir, "c.jpg"), "3333333333", 1, fixedTime)
	require.NoError(t, os.Remove(p2.Path))
	r := &Renamer{Pattern: "{counter}"}

	first := r.Rename([]*Photo{p1, p2, p3})
	require.Len(t, first.Moves, 2)

	second := r.Rename(first.Photos)
	assert.Empty(t, second.Moves)
	assert.Equal(t, 2, second.Unchanged)
	assert.Equal(t, 1, second.Missing)
	assert.Equal(t, "0003.jpg", p3.Name())
}
