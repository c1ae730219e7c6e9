package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doclens/doclens/internal/port"
)

func TestGetRendersPrimaryLanguage(t *testing.T) {
	p := NewParser("ar", "en")

	got, err := p.Get(GroupRAG, KeyDocument, map[string]any{
		"doc_num":    1,
		"chunk_text": "some text",
	})
	require.NoError(t, err)
	assert.Contains(t, got, "## المستند رقم: 1")
	assert.Contains(t, got, "some text")
}

func TestSetLanguageFallsBackSilently(t *testing.T) {
	p := NewParser("xx", "en")
	assert.Equal(t, "en", p.Language())

	got, err := p.Get(GroupRAG, KeyFooter, map[string]any{"query": "what?"})
	require.NoError(t, err)
	assert.Contains(t, got, "## Question:\nwhat?")
}

func TestGetFallsBackPerTemplate(t *testing.T) {
	p := NewParser("en", "en")
	require.NoError(t, p.Register("fr", GroupRAG, KeySystemPrompt, "Tu es un assistant."))
	p.SetLanguage("fr")
	require.Equal(t, "fr", p.Language())

	got, err := p.Get(GroupRAG, KeySystemPrompt, nil)
	require.NoError(t, err)
	assert.Equal(t, "Tu es un assistant.", got)

	// fr has no footer template, resolution falls through to en
	got, err = p.Get(GroupRAG, KeyFooter, map[string]any{"query": "q"})
	require.NoError(t, err)
	assert.Contains(t, got, "## Question:")
}

func TestGetUnknownKey(t *testing.T) {
	p := NewParser("en", "en")

	_, err := p.Get(GroupRAG, "no_such_key", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, port.ErrTemplateNotFound)

	_, err = p.Get("", KeyFooter, nil)
	assert.ErrorIs(t, err, port.ErrTemplateNotFound)
}

func TestGetUnresolvedPlaceholderIsAnError(t *testing.T) {
	p := NewParser("en", "en")

	// footer references {{.query}}, which is deliberately omitted
	_, err := p.Get(GroupRAG, KeyFooter, map[string]any{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, port.ErrTemplateNotFound)
}

func TestRegisterRejectsBrokenTemplate(t *testing.T) {
	p := NewParser("en", "en")
	err := p.Register("en", GroupRAG, "broken", "{{.unclosed")
	assert.Error(t, err)
}
