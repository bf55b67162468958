package moderation

import (
	"chat-relay/errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func TestCensoredLoader_LoadAll(t *testing.T) {
	req := require.New(t)

	// Given two dictionaries sharing a word, with blank lines and CRLF endings
	loader := NewCensoredLoader(fstest.MapFS{
		"censored/en.txt": {Data: []byte("idiot\r\n\r\nmoron\n")},
		"censored/fr.txt": {Data: []byte("abruti\nidiot\n")},
	})

	// When loading the folder
	data, err := loader.LoadAll("censored")

	// Then every word is kept once and every language is listed
	req.NoError(err)
	req.ElementsMatch([]string{"idiot", "moron", "abruti"}, data.Words)
	req.Equal([]string{"en", "fr"}, data.Languages)
}

func TestCensoredLoader_RejectsSubdirectories(t *testing.T) {
	req := require.New(t)

	loader := NewCensoredLoader(fstest.MapFS{
		"censored/en.txt":    {Data: []byte("idiot\n")},
		"censored/nested/de": {Data: []byte("dummkopf\n")},
	})

	_, err := loader.LoadAll("censored")
	req.ErrorIs(err, errors.ErrOnlyCensoredFiles)
}

func TestCensoredLoader_EmptyDictionaries(t *testing.T) {
	req := require.New(t)

	loader := NewCensoredLoader(fstest.MapFS{
		"censored/en.txt": {Data: []byte("\n  \n")},
	})

	_, err := loader.LoadAll("censored")
	req.ErrorIs(err, errors.ErrEmptyWords)
}

func TestDefaultLoader_EmbeddedDictionaries(t *testing.T) {
	req := require.New(t)

	data, err := DefaultLoader().LoadAll("censored")
	req.NoError(err)
	req.Contains(data.Languages, "en")
	req.Contains(data.Words, "idiot")
}
