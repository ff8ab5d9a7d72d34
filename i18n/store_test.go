package i18n

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbedded(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultLanguage, s.Language())
	assert.Equal(t, []string{"en", "ru"}, s.Languages())
	assert.Equal(t, "Healthy Back", s.T("en", "course2Title"))
	assert.Equal(t, "650", s.T("ru", "course1Price"))
}

func TestMissingKeyFallsBackToKey(t *testing.T) {
	s, err := Parse([]byte("en:\n  hello: Hello\n"))
	require.NoError(t, err)

	assert.Equal(t, "en", s.Language(), "falls back to the only language")
	assert.Equal(t, "nope", s.T("en", "nope"))
	_, ok := s.Lookup("en", "nope")
	assert.False(t, ok)
}

func TestSetLanguage(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)

	require.NoError(t, s.SetLanguage("en"))
	assert.Equal(t, "en", s.Language())

	err = s.SetLanguage("de")
	assert.ErrorIs(t, err, ErrUnknownLanguage)
	assert.Equal(t, "en", s.Language())

	assert.Equal(t, "ru", s.Resolve("ru"))
	assert.Equal(t, "en", s.Resolve("de"))
	assert.Equal(t, "en", s.Resolve(""))
}

func TestDictionaryIsACopy(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)

	d, err := s.Dictionary("en")
	require.NoError(t, err)
	d["enroll"] = "changed"
	assert.Equal(t, "Enroll", s.T("en", "enroll"))

	_, err = s.Dictionary("xx")
	assert.ErrorIs(t, err, ErrUnknownLanguage)
}

func TestParseRejectsEmpty(t *testing.T) {
	_, err := Parse([]byte(""))
	assert.Error(t, err)
}

func TestConcurrentAccess(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_ = s.SetLanguage("en")
			} else {
				_ = s.T(s.Language(), "enroll")
			}
		}(i)
	}
	wg.Wait()
}
