package settings

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/igetcool/icodetest/internal/layout"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), ".icodetest", DefaultFileName))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreDefaults(t *testing.T) {
	s := openStore(t)

	snap, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, Defaults(), snap)
	assert.Equal(t, "com.igetcool.commons.WebMvcBase", snap.Common().Qualified())
	assert.Equal(t, layout.CommonBody4, snap.CommonBody())

	_, ok, err := s.UpdatedAt(KeyJUnit)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStoreApplyAndReset(t *testing.T) {
	s := openStore(t)

	want := Defaults()
	want.JUnit = layout.JUnit5
	want.Style = "MockMvc"
	want.CommonPackage = "com.example.testing"
	want.CommonClass = "ApiTestBase"
	require.NoError(t, s.Apply(want))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, layout.CommonBody5, got.CommonBody())

	_, ok, err := s.UpdatedAt(KeyStyle)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Reset())
	got, err = s.Load()
	require.NoError(t, err)
	assert.Equal(t, Defaults(), got)
}

func TestStoreApplyRejectsInvalid(t *testing.T) {
	s := openStore(t)

	tests := []struct {
		name   string
		mutate func(*Snapshot)
	}{
		{"unknown junit", func(s *Snapshot) { s.JUnit = "JUnit3" }},
		{"unknown style", func(s *Snapshot) { s.Style = "Feign" }},
		{"bad package", func(s *Snapshot) { s.CommonPackage = "com..x" }},
		{"bad class", func(s *Snapshot) { s.CommonClass = "Web Base" }},
		{"empty template", func(s *Snapshot) { s.CommonBody5 = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := Defaults()
			tt.mutate(&snap)
			assert.ErrorIs(t, s.Apply(snap), ErrInvalid)
		})
	}

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, Defaults(), got)
}

func TestSnapshotWith(t *testing.T) {
	base := Defaults()
	got := base.With(Overrides{Style: "MockMvc", CommonClass: "Base"})

	assert.Equal(t, "MockMvc", got.Style)
	assert.Equal(t, "Base", got.CommonClass)
	assert.Equal(t, base.CommonPackage, got.CommonPackage)
	assert.Equal(t, "MethodCall", base.Style)
}

func TestExportImport(t *testing.T) {
	snap := Defaults().With(Overrides{JUnit: "JUnit5", CommonPackage: "org.acme.test"})

	var buf bytes.Buffer
	require.NoError(t, snap.Export(&buf))
	assert.Contains(t, buf.String(), "junit: JUnit5\n")

	got, err := Import(&buf)
	require.NoError(t, err)
	assert.Equal(t, snap, got)

	t.Run("partial document keeps defaults", func(t *testing.T) {
		got, err := Import(strings.NewReader("style: MockMvc\n"))
		require.NoError(t, err)
		assert.Equal(t, "MockMvc", got.Style)
		assert.Equal(t, "WebMvcBase", got.CommonClass)
	})

	t.Run("invalid document", func(t *testing.T) {
		_, err := Import(strings.NewReader("common_class: 1abc\n"))
		assert.ErrorIs(t, err, ErrInvalid)
	})
}
