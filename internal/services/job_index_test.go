package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"alfredoptarigan/job-matcher/internal/models"
)

type memoryIndex struct {
	mu      sync.Mutex
	chunks  []JobChunk
	results []SearchResult
	failFor string
}

func (m *memoryIndex) InitCollection(context.Context) error { return nil }

func (m *memoryIndex) UpsertChunk(_ context.Context, chunk JobChunk, _ []float32) error {
	if chunk.JobID == m.failFor {
		return errors.New("upsert rejected")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chunks = append(m.chunks, chunk)
	return nil
}

func (m *memoryIndex) SearchSimilar(_ context.Context, _ []float32, limit int) ([]SearchResult, error) {
	if len(m.results) > limit {
		return m.results[:limit], nil
	}
	return m.results, nil
}

func (m *memoryIndex) DeleteJob(context.Context, string) error { return nil }

type fakeEmbedder struct {
	err     error
	queries []string
}

func (f *fakeEmbedder) GenerateEmbedding(_ context.Context, text string) ([]float32, error) {
	f.queries = append(f.queries, text)
	if f.err != nil {
		return nil, f.err
	}
	return []float32{0.1, 0.2}, nil
}

type recordingGenerator struct {
	prompt string
	reply  string
	err    error
}

func (g *recordingGenerator) GenerateText(_ context.Context, prompt string, _ float32) (string, error) {
	g.prompt = prompt
	return g.reply, g.err
}

func TestChunkText(t *testing.T) {
	tc := NewTextChunker(0, 0)

	assert.Equal(t, []string{"Short paragraph."}, tc.ChunkText("Short paragraph.", 100, 10))
	assert.Empty(t, tc.ChunkText("   ", 100, 10))

	long := strings.Repeat("Sentence number one is here. ", 20)
	chunks := tc.ChunkText(long, 120, 20)
	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c)), 120+20)
	}
}

func TestChunkJobCarriesHeader(t *testing.T) {
	tc := NewTextChunker(200, 20)
	job := models.Job{
		ID:          "j1",
		Title:       "Go Developer",
		Company:     "Acme",
		Location:    "Pune",
		Description: strings.Repeat("Build reliable services. ", 30),
		Skills:      []string{"Go", "Docker"},
	}

	chunks := tc.ChunkJob(job)
	require.Greater(t, len(chunks), 1)
	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
		assert.Equal(t, "j1", c.JobID)
		assert.True(t, strings.HasPrefix(c.Text, "Go Developer at Acme (Pune)"))
	}
	assert.Contains(t, chunks[len(chunks)-1].Text, "Skills: Go, Docker")
}

func TestJobIndexerSkipsFailingJobs(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	index := &memoryIndex{failFor: "bad"}
	x := NewJobIndexer(index, &fakeEmbedder{}, NewTextChunker(0, 0), zap.New(core))

	n, err := x.Index(context.Background(), []models.Job{
		{ID: "good", Title: "A", Description: "desc"},
		{ID: "bad", Title: "B", Description: "desc"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, logs.FilterMessage("failed to upsert job chunk").Len())

	_, err = NewJobIndexer(index, &fakeEmbedder{err: errors.New("quota")}, nil, nil).
		Index(context.Background(), []models.Job{{ID: "good", Description: "desc"}})
	assert.ErrorContains(t, err, "quota")
}

func TestChatResponderUsesRetrievedContext(t *testing.T) {
	index := &memoryIndex{results: []SearchResult{{JobID: "j9", Title: "Rust Engineer", Text: "Rust Engineer at Ferro"}}}
	embedder := &fakeEmbedder{}
	gen := &recordingGenerator{reply: "Try the Rust role."}

	r := NewChatResponder(gen, NewJobIndexer(index, embedder, nil, nil), nil)
	text, err := r.Respond(context.Background(), "what should I learn next?",
		[]models.Job{{Title: "Go Developer", Company: "Acme"}}, "Python developer with Docker")
	require.NoError(t, err)

	assert.Equal(t, "Try the Rust role.", text)
	assert.Contains(t, gen.prompt, "Rust Engineer at Ferro")
	assert.Contains(t, gen.prompt, "Go Developer at Acme")
	require.Len(t, embedder.queries, 1)
	assert.Contains(t, embedder.queries[0], "candidate skills:")
}

func TestChatResponderWithoutIndex(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	gen := &recordingGenerator{reply: "ok"}

	failing := NewJobIndexer(&memoryIndex{}, &fakeEmbedder{err: errors.New("down")}, nil, nil)
	_, err := NewChatResponder(gen, failing, zap.New(core)).Respond(context.Background(), "hi", nil, "")
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("failed to retrieve chat context").Len())
	assert.Contains(t, gen.prompt, "No relevant context found.")
	assert.Contains(t, gen.prompt, "The user has not uploaded a resume.")

	gen.err = errors.New("generation failed")
	_, err = NewChatResponder(gen, nil, nil).Respond(context.Background(), "hi", nil, "")
	assert.Error(t, err)
}

func TestTruncateBytesKeepsRunesWhole(t *testing.T) {
	cases := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"abcdef", 3, "abc"},
		{"ab₹cd", 3, "ab"},
		{"ab₹cd", 4, "ab"},
		{"ab₹cd", 5, "ab₹"},
		{"₹", 2, ""},
	}
	for _, tc := range cases {
		got := truncateBytes(tc.in, tc.n)
		assert.Equal(t, tc.want, got, "%q[:%d]", tc.in, tc.n)
		assert.True(t, utf8.ValidString(got))
	}
}
