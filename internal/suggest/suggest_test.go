package suggest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func fake(reply string, err error) *Client {
	return &Client{complete: func(context.Context, string) (string, error) { return reply, err }}
}

func TestSuggest(t *testing.T) {
	t.Parallel()

	c := fake("```json\n[\"Measure site\", \"  Draft   plan \", \"\"]\n```", nil)
	got := c.Suggest(context.Background(), "Layout 2D REV 1", "")
	assert.Equal(t, []string{"Measure site", "Draft plan"}, got)
}

func TestSuggestCapsResults(t *testing.T) {
	t.Parallel()

	c := fake(`["a","b","c","d","e","f","g"]`, nil)
	assert.Len(t, c.Suggest(context.Background(), "x", "y"), MaxSuggestions)
}

func TestSuggestAbsorbsFailures(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	got := fake("", errors.New("connection reset")).Suggest(context.Background(), "x", "")
	assert.NotNil(got)
	assert.Empty(got)

	got = fake("Sure! Here are some ideas", nil).Suggest(context.Background(), "x", "")
	assert.NotNil(got)
	assert.Empty(got)
}

func TestNoop(t *testing.T) {
	t.Parallel()

	var s Suggester = Noop{}
	got := s.Suggest(context.Background(), "x", "y")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestNewClientRequiresKey(t *testing.T) {
	t.Parallel()

	_, err := NewClient("", "")
	assert.Error(t, err)

	c, err := NewClient("sk-test", "")
	assert.NoError(t, err)
	assert.NotNil(t, c)
}

func TestBuildPrompt(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	prompt := buildPrompt("3D Design REV 2", "")
	assert.True(strings.Contains(prompt, `"3D Design REV 2"`))
	assert.True(strings.Contains(prompt, "(none)"))
	assert.True(strings.Contains(prompt, "JSON array"))
}

func TestStripJSONFences(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `["a"]`, stripJSONFences("  \n```\n[\"a\"]\n```\n  "))
	assert.Equal(t, `["a"]`, stripJSONFences(`["a"]`))
}
