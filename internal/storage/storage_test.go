package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	Name  string         `json:"name"`
	Items map[string]int `json:"items"`
}

func openBackends(t *testing.T) map[string]Store {
	t.Helper()
	out := map[string]Store{}
	for _, driver := range []string{"json", "sqlite"} {
		s, err := Open(driver, t.TempDir())
		require.NoError(t, err, driver)
		t.Cleanup(func() { s.Close() })
		out[driver] = s
	}
	return out
}

func TestStore_LoadMissing(t *testing.T) {
	for driver, s := range openBackends(t) {
		var d doc
		found, err := s.Load("nothing", &d)
		require.NoError(t, err, driver)
		assert.False(t, found, driver)
	}
}

func TestStore_SaveOverwrite(t *testing.T) {
	for driver, s := range openBackends(t) {
		require.NoError(t, s.Save(DocClients, doc{Name: "a", Items: map[string]int{"Мак": 1}}), driver)
		require.NoError(t, s.Save(DocClients, doc{Name: "b", Items: map[string]int{"Мак": 2}}), driver)

		var got doc
		found, err := s.Load(DocClients, &got)
		require.NoError(t, err, driver)
		require.True(t, found, driver)
		assert.Equal(t, "b", got.Name, driver)
		assert.Equal(t, 2, got.Items["Мак"], driver)
	}
}

func TestStore_EmptyName(t *testing.T) {
	for driver, s := range openBackends(t) {
		assert.Error(t, s.Save("", 1), driver)
		_, err := s.Load("", new(int))
		assert.Error(t, err, driver)
	}
}

func TestJSONStore_NoTempLeftovers(t *testing.T) {
	dir := t.TempDir()
	s, err := NewJSONStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.Save(DocHistory, map[string]int{"x": 1}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "history.json", entries[0].Name())

	b, err := os.ReadFile(filepath.Join(dir, "history.json"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "\"x\": 1")
}

func TestJSONStore_CorruptDocument(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "clients.json"), []byte("{broken"), 0o644))
	s, err := NewJSONStore(dir)
	require.NoError(t, err)

	var d doc
	_, err = s.Load(DocClients, &d)
	assert.Error(t, err)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open("mongo", t.TempDir())
	assert.Error(t, err)
}
