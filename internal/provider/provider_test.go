package provider

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"browseragent/internal/config"
	"browseragent/internal/plan"
	"browseragent/internal/trace"
)

// stubGenerator scripts the raw model responses for client contract tests.
type stubGenerator struct {
	response string
	err      error
	lastTier Tier
	prompts  []string
}

func (s *stubGenerator) generate(ctx context.Context, tier Tier, prompt string) (string, error) {
	s.lastTier = tier
	s.prompts = append(s.prompts, prompt)
	return s.response, s.err
}

func newTestClient(t *testing.T, gen *stubGenerator) (*client, *trace.Recorder) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	return newClient("stub", config.ProviderConfig{}, logger, gen), trace.NewRecorder(logger)
}

func TestClient_Plan_ValidResponse(t *testing.T) {
	gen := &stubGenerator{response: "```json\n{\"actions\": [{\"type\": \"browse\", \"url\": \"example.com\"}]}\n```"}
	c, rec := newTestClient(t, gen)

	p, err := c.Plan(context.Background(), "open example.com", rec)
	require.NoError(t, err)
	require.Len(t, p.Actions, 1)
	assert.Equal(t, plan.KindBrowse, p.Actions[0].Type)
	assert.Equal(t, TierPlanner, gen.lastTier)
	assert.Contains(t, gen.prompts[0], "open example.com")
}

func TestClient_Plan_UnparseableFallsBack(t *testing.T) {
	gen := &stubGenerator{response: "Sure! I'd be happy to help with that."}
	c, rec := newTestClient(t, gen)

	p, err := c.Plan(context.Background(), "what is Go", rec)
	require.NoError(t, err)
	require.Len(t, p.Actions, 1)
	assert.Equal(t, plan.KindAnswerDirectly, p.Actions[0].Type)
	assert.Equal(t, "what is Go", p.Actions[0].Question)
}

func TestClient_Plan_GenerationError(t *testing.T) {
	gen := &stubGenerator{err: errors.New("api quota exceeded")}
	c, rec := newTestClient(t, gen)

	p, err := c.Plan(context.Background(), "anything", rec)
	assert.Error(t, err)
	assert.Nil(t, p)
}

func TestClient_Answer(t *testing.T) {
	gen := &stubGenerator{response: "Paris."}
	c, rec := newTestClient(t, gen)

	assert.Equal(t, "Paris.", c.Answer(context.Background(), "capital of France?", rec))
	assert.Equal(t, TierProcessor, gen.lastTier)
}

func TestClient_Answer_ErrorBecomesApology(t *testing.T) {
	gen := &stubGenerator{err: errors.New("model overloaded")}
	c, rec := newTestClient(t, gen)

	got := c.Answer(context.Background(), "capital of France?", rec)
	assert.Equal(t, "I was unable to generate a response due to an error: model overloaded", got)

	entries := rec.Entries()
	require.NotEmpty(t, entries)
	assert.Equal(t, trace.TypeError, entries[len(entries)-1].Type)
}

func TestClient_Process_TruncatesLongContent(t *testing.T) {
	gen := &stubGenerator{response: "a summary"}
	c, rec := newTestClient(t, gen)

	long := strings.Repeat("x", maxContentChars+500)
	got := c.Process(context.Background(), "summarize example.com", "Summarize the page.", long, rec)
	assert.Equal(t, "a summary", got)

	// The prompt carries the command, the goal, and at most the cap's worth
	// of content.
	sent := gen.prompts[0]
	assert.Contains(t, sent, `User Request: "summarize example.com"`)
	assert.Contains(t, sent, `Processing Goal: "Summarize the page."`)
	assert.LessOrEqual(t, strings.Count(sent, "x"), maxContentChars)

	var truncated bool
	for _, e := range rec.Entries() {
		if e.Type == trace.TypeInfo && strings.Contains(e.Message, "truncated") {
			truncated = true
		}
	}
	assert.True(t, truncated, "truncation must leave a trace entry")
}

func TestClient_Process_ErrorBecomesApology(t *testing.T) {
	gen := &stubGenerator{err: errors.New("timeout")}
	c, rec := newTestClient(t, gen)

	got := c.Process(context.Background(), "summarize", "Summarize.", "short content", rec)
	assert.Equal(t, "I was unable to process the content due to an error: timeout", got)
}
