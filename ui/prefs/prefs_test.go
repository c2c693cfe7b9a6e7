package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingFileGivesFallbacks(t *testing.T) {
	p := LoadFrom(filepath.Join(t.TempDir(), "none.json"))
	assert.Equal(t, "/home", p.String(KeyLastDirectory, "/home"))
	assert.True(t, p.Bool(KeyShowRepeat, true))
	assert.Equal(t, 1024.0, p.Float(KeyWindowWidth, 1024))
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	p := LoadFrom(path)
	p.SetString(KeyLastDirectory, "/tmp/exports")
	p.SetString(KeyMode, "ribbons")
	p.SetBool(KeyShowRepeat, true)
	p.SetFloat(KeyWindowWidth, 1280)
	require.NoError(t, p.Save())

	q := LoadFrom(path)
	assert.Equal(t, "/tmp/exports", q.String(KeyLastDirectory, ""))
	assert.Equal(t, "ribbons", q.String(KeyMode, ""))
	assert.True(t, q.Bool(KeyShowRepeat, false))
	assert.Equal(t, 1280.0, q.Float(KeyWindowWidth, 0))
}

func TestSaveSkipsUnchanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	p := LoadFrom(path)
	require.NoError(t, p.Save())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "nothing set, nothing written")

	p.SetBool(KeyShowRepeat, false)
	require.NoError(t, p.Save())
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestCorruptFileIsIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	p := LoadFrom(path)
	assert.Equal(t, "x", p.String(KeyMode, "x"))
}

func TestWrongTypeFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"showRepeat":"yes","windowWidth":"wide"}`), 0o644))
	p := LoadFrom(path)
	assert.False(t, p.Bool(KeyShowRepeat, false))
	assert.Equal(t, 800.0, p.Float(KeyWindowWidth, 800))
}
