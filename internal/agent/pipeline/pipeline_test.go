package pipeline

import (
	"context"
	"fmt"
	"testing"

	"github.com/cloudwego/eino/components/retriever"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahil-voice-agent/server/internal/agent/knowledge"
	"github.com/sahil-voice-agent/server/internal/agent/memory"
	"github.com/sahil-voice-agent/server/internal/agent/model"
	"github.com/sahil-voice-agent/server/internal/agent/router"
)

type memRepo struct {
	conversations map[string][]*schema.Message
}

func newMemRepo() *memRepo {
	return &memRepo{conversations: map[string][]*schema.Message{}}
}

func (r *memRepo) AddMessages(_ context.Context, id string, messages ...*schema.Message) error {
	r.conversations[id] = append(r.conversations[id], messages...)
	return nil
}

func (r *memRepo) LoadHistory(_ context.Context, id string) (*model.ConversationHistory, error) {
	return &model.ConversationHistory{ConversationID: id, Messages: r.conversations[id]}, nil
}

func (r *memRepo) ClearHistory(_ context.Context, id string) error {
	delete(r.conversations, id)
	return nil
}

func (r *memRepo) GetMessageCount(_ context.Context, id string) (int, error) {
	return len(r.conversations[id]), nil
}

type stubRetriever struct {
	passages []string
	calls    int
}

func (s *stubRetriever) Retrieve(_ context.Context, _ string, _ ...retriever.Option) ([]*schema.Document, error) {
	s.calls++
	docs := make([]*schema.Document, 0, len(s.passages))
	for i, p := range s.passages {
		docs = append(docs, &schema.Document{ID: fmt.Sprintf("p-%d", i), Content: p})
	}
	return docs, nil
}

type stubGenerator struct {
	reply    string
	err      error
	calls    int
	received [][]*schema.Message
}

func (g *stubGenerator) Generate(_ context.Context, messages []*schema.Message) (*schema.Message, error) {
	g.calls++
	g.received = append(g.received, messages)
	if g.err != nil {
		return nil, g.err
	}
	return schema.AssistantMessage(g.reply, nil), nil
}

type fixture struct {
	pipeline  *Pipeline
	repo      *memRepo
	self      *stubRetriever
	org       *stubRetriever
	direct    *stubGenerator
	webSearch *stubGenerator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	persona := model.PersonaConfig{SubjectName: "Sahil Khan", OrgName: "100x", FounderName: "Nik Shah"}
	repo := newMemRepo()
	self := &stubRetriever{passages: []string{"self passage one", "self passage two"}}
	org := &stubRetriever{passages: []string{"org passage"}}
	direct := &stubGenerator{reply: "direct reply"}
	webSearch := &stubGenerator{reply: "web reply"}

	p, err := New(Config{
		Classifier: router.NewClassifier(persona),
		Assembler:  knowledge.NewAssembler(self, org, 2),
		Memory:     memory.NewManager(repo, model.ConversationConfig{TTL: "15m", MaxHistory: 4}),
		Direct:     direct,
		WebSearch:  webSearch,
		Persona:    persona,
		ModelName:  "gemini-2.5-flash-lite",
	})
	require.NoError(t, err)

	return &fixture{pipeline: p, repo: repo, self: self, org: org, direct: direct, webSearch: webSearch}
}

func TestRespondAboutSelf(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	reply, err := f.pipeline.Respond(ctx, model.QueryInput{ConversationID: "c1", Query: "Tell me about your education"})
	require.NoError(t, err)
	require.Equal(t, "direct reply", reply)

	// Self-profile context only, no web search grant.
	assert.Equal(t, 1, f.self.calls)
	assert.Zero(t, f.org.calls)
	assert.Equal(t, 1, f.direct.calls)
	assert.Zero(t, f.webSearch.calls)

	// Message sequence: persona system, context system, new user query.
	msgs := f.direct.received[0]
	require.Len(t, msgs, 3)
	assert.Equal(t, schema.System, msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "Sahil Khan")
	assert.Equal(t, "Relevant context:\nself passage one\nself passage two", msgs[1].Content)
	assert.Equal(t, schema.User, msgs[2].Role)
	assert.Equal(t, "Tell me about your education", msgs[2].Content)

	// Memory grows by exactly two turns, user first.
	stored := f.repo.conversations["c1"]
	require.Len(t, stored, 2)
	assert.Equal(t, schema.User, stored[0].Role)
	assert.Equal(t, schema.Assistant, stored[1].Role)
	assert.Equal(t, "direct reply", stored[1].Content)
}

func TestRespondWebOnly(t *testing.T) {
	f := newFixture(t)

	reply, err := f.pipeline.Respond(context.Background(), model.QueryInput{ConversationID: "c1", Query: "What's the latest hiring trend?"})
	require.NoError(t, err)
	require.Equal(t, "web reply", reply)

	// No profile retrieval, web-search generator selected.
	assert.Zero(t, f.self.calls)
	assert.Zero(t, f.org.calls)
	assert.Zero(t, f.direct.calls)
	assert.Equal(t, 1, f.webSearch.calls)

	// No context message in the sequence.
	msgs := f.webSearch.received[0]
	require.Len(t, msgs, 2)
	assert.Equal(t, schema.System, msgs[0].Role)
	assert.Equal(t, schema.User, msgs[1].Role)
}

func TestRespondAboutOrg(t *testing.T) {
	f := newFixture(t)

	_, err := f.pipeline.Respond(context.Background(), model.QueryInput{ConversationID: "c1", Query: "What is 100x's mission?"})
	require.NoError(t, err)

	assert.Zero(t, f.self.calls)
	assert.Equal(t, 1, f.org.calls)

	msgs := f.direct.received[0]
	require.Len(t, msgs, 3)
	assert.Equal(t, "Relevant context:\norg passage", msgs[1].Content)
}

func TestRespondSelfPrecedenceOverOrg(t *testing.T) {
	f := newFixture(t)

	// Matches both about_self ("your") and about_org ("role", "100x");
	// only the self-profile source may be consulted.
	_, err := f.pipeline.Respond(context.Background(), model.QueryInput{ConversationID: "c1", Query: "your role at 100x"})
	require.NoError(t, err)

	assert.Equal(t, 1, f.self.calls)
	assert.Zero(t, f.org.calls)
}

func TestRespondContextAndWebAreIndependent(t *testing.T) {
	f := newFixture(t)

	// "company" tags about_org, "latest" tags needs_web: the query gets
	// org context AND the web-search capable generator.
	_, err := f.pipeline.Respond(context.Background(), model.QueryInput{ConversationID: "c1", Query: "latest news about the company"})
	require.NoError(t, err)

	assert.Equal(t, 1, f.org.calls)
	assert.Equal(t, 1, f.webSearch.calls)
	assert.Zero(t, f.direct.calls)

	msgs := f.webSearch.received[0]
	require.Len(t, msgs, 3)
	assert.Equal(t, "Relevant context:\norg passage", msgs[1].Content)
}

func TestRespondGenerationFailureLeavesMemoryUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.pipeline.Respond(ctx, model.QueryInput{ConversationID: "c1", Query: "Tell me about your education"})
	require.NoError(t, err)
	before := len(f.repo.conversations["c1"])

	f.direct.err = fmt.Errorf("model unavailable")
	_, err = f.pipeline.Respond(ctx, model.QueryInput{ConversationID: "c1", Query: "and your career?"})
	require.Error(t, err)

	require.Len(t, f.repo.conversations["c1"], before)

	// The caller can retry the same query once the model recovers.
	f.direct.err = nil
	_, err = f.pipeline.Respond(ctx, model.QueryInput{ConversationID: "c1", Query: "and your career?"})
	require.NoError(t, err)
	require.Len(t, f.repo.conversations["c1"], before+2)
}

func TestRespondSlidingWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_, err := f.pipeline.Respond(ctx, model.QueryInput{ConversationID: "c1", Query: fmt.Sprintf("ping %d", i)})
		require.NoError(t, err)
	}

	_, err := f.pipeline.Respond(ctx, model.QueryInput{ConversationID: "c1", Query: "ping 10"})
	require.NoError(t, err)

	// Call 11: persona system + last 4 stored turns + new user message.
	msgs := f.direct.received[10]
	require.Len(t, msgs, 6)
	assert.Equal(t, schema.System, msgs[0].Role)
	assert.Equal(t, "ping 8", msgs[1].Content)
	assert.Equal(t, "direct reply", msgs[2].Content)
	assert.Equal(t, "ping 9", msgs[3].Content)
	assert.Equal(t, "direct reply", msgs[4].Content)
	assert.Equal(t, "ping 10", msgs[5].Content)
}

func TestRespondEmptyQuery(t *testing.T) {
	f := newFixture(t)

	_, err := f.pipeline.Respond(context.Background(), model.QueryInput{ConversationID: "c1", Query: "   "})
	require.Error(t, err)
	assert.Zero(t, f.direct.calls)
	assert.Zero(t, f.webSearch.calls)
}

func TestNewValidatesConfig(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
}
