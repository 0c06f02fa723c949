package asset

import (
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSRoundTrip(t *testing.T) {
	o := OS{Root: t.TempDir()}
	require.NoError(t, o.WriteFile(filepath.Join("scenes", "a.json"), []byte(`{}`)))

	data, err := o.ReadFile(filepath.Join("scenes", "a.json"))
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))
}

func TestOSReadMissingNamesPath(t *testing.T) {
	o := OS{Root: t.TempDir()}
	_, err := o.ReadFile("missing.json")
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.ErrorContains(t, err, `"missing.json"`)
}

func TestMemFS(t *testing.T) {
	m := NewMemFS(map[string][]byte{"a/b.lua": []byte("x")})
	data, err := m.ReadFile("a/./b.lua")
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))

	_, err = m.ReadFile("nope")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	m.SetReadOnly(true)
	assert.ErrorIs(t, m.WriteFile("c", nil), ErrReadOnly)
	m.SetReadOnly(false)
	require.NoError(t, m.WriteFile("c", []byte("y")))
	assert.Equal(t, []string{"a/b.lua", "c"}, m.Paths())
}

func TestLayeredFallsBack(t *testing.T) {
	primary := NewMemFS(map[string][]byte{"scenes/demo.json": []byte("mine")})
	l := Layered{Primary: primary, Fallback: Builtin("scenes/demo.json", "scripts")}

	data, err := l.ReadFile("scenes/demo.json")
	require.NoError(t, err)
	assert.Equal(t, "mine", string(data))

	data, err = l.ReadFile("scripts/bounce.lua")
	require.NoError(t, err)
	assert.Equal(t, BounceScript, string(data))

	_, err = l.ReadFile("scripts/other.lua")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	require.NoError(t, l.WriteFile("scenes/saved.json", []byte("s")))
	assert.Contains(t, primary.Paths(), "scenes/saved.json")
}
