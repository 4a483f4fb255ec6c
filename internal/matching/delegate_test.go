package matching

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"alfredoptarigan/job-matcher/internal/models"
)

type stubGenerator struct {
	response string
	err      error
	delay    time.Duration
	calls    atomic.Int32

	mu         sync.Mutex
	lastPrompt string
}

func (s *stubGenerator) GenerateText(ctx context.Context, prompt string, _ float32) (string, error) {
	s.calls.Add(1)
	s.mu.Lock()
	s.lastPrompt = prompt
	s.mu.Unlock()
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func testPrompt(resumeText string, job models.Job, required []string) string {
	return job.Title + "|" + resumeText
}

func TestExtractJSONObject(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{name: "bare", in: `{"score": 70}`, want: `{"score": 70}`, ok: true},
		{name: "prose", in: "Sure! Here you go:\n{\"score\": 70} Hope this helps {x}", want: `{"score": 70}`, ok: true},
		{name: "fenced", in: "```json\n{\"a\": {\"b\": 1}}\n```", want: `{"a": {"b": 1}}`, ok: true},
		{name: "brace in string", in: `{"explanation": "uses } and {", "score": 1}`, want: `{"explanation": "uses } and {", "score": 1}`, ok: true},
		{name: "escaped quote", in: `{"e": "say \"}\"", "score": 2}`, want: `{"e": "say \"}\"", "score": 2}`, ok: true},
		{name: "unbalanced first", in: `{ broken {"score": 3}`, want: `{"score": 3}`, ok: true},
		{name: "none", in: "no json here", ok: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractJSONObject(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseDelegateResponse(t *testing.T) {
	res, err := ParseDelegateResponse(`Result: {"score": 142.6, "explanation": " Great fit ", "matchedSkills": ["React", 3, ""]}`, seniorReactResume)
	require.NoError(t, err)
	assert.Equal(t, 100, res.Score)
	assert.Equal(t, "Great fit", res.Explanation)
	assert.Equal(t, []string{"React"}, res.MatchedSkills)
	assert.Equal(t, []string{"react", "node.js", "aws"}, res.ResumeSkills)

	res, err = ParseDelegateResponse(`{"score": "-5"}`, "")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Score)
	assert.Equal(t, fallbackExplanation, res.Explanation)
	assert.Equal(t, []string{}, res.MatchedSkills)

	_, err = ParseDelegateResponse(`{"explanation": "no score"}`, "")
	assert.Error(t, err)

	_, err = ParseDelegateResponse(`not json`, "")
	assert.Error(t, err)
}

func TestChainUsesPrimaryDelegate(t *testing.T) {
	primary := &stubGenerator{response: `{"score": 77, "explanation": "ok", "matchedSkills": ["AWS"]}`}
	secondary := &stubGenerator{response: `{"score": 10}`}

	chain := NewChain(time.Second, zap.NewNop(),
		DelegateAttempt("gemini", primary, testPrompt),
		DelegateAttempt("groq", secondary, testPrompt),
	)

	res := chain.ScoreJobMatch(context.Background(), seniorReactResume, seniorReactJob())
	assert.Equal(t, 77, res.Score)
	assert.Equal(t, "gemini", res.Source)
	assert.Equal(t, int32(0), secondary.calls.Load())
	assert.Equal(t, "Senior React Developer|"+seniorReactResume, primary.lastPrompt)
}

func TestChainFallsThroughToSecondary(t *testing.T) {
	primary := &stubGenerator{response: "I cannot answer that"}
	secondary := &stubGenerator{response: `{"score": 64}`}

	chain := NewChain(time.Second, nil,
		DelegateAttempt("gemini", primary, testPrompt),
		DelegateAttempt("groq", secondary, testPrompt),
	)

	res := chain.ScoreJobMatch(context.Background(), seniorReactResume, seniorReactJob())
	assert.Equal(t, 64, res.Score)
	assert.Equal(t, "groq", res.Source)
}

func TestChainFallsBackToHeuristicOnError(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	failing := &stubGenerator{err: errors.New("boom")}

	chain := NewChain(time.Second, zap.New(core), DelegateAttempt("gemini", failing, testPrompt))

	got := chain.ScoreJobMatch(context.Background(), seniorReactResume, seniorReactJob())
	assert.Equal(t, ScoreJobMatch(seniorReactResume, seniorReactJob()), got)
	assert.Equal(t, 1, logs.FilterMessage("match delegate failed, trying next").Len())
}

func TestChainBoundsStalledDelegate(t *testing.T) {
	stalled := Attempt{
		Name: "stalled",
		Score: func(ctx context.Context, _ string, _ models.Job) (models.MatchResult, error) {
			time.Sleep(2 * time.Second)
			return models.MatchResult{Score: 1}, nil
		},
	}

	chain := NewChain(20*time.Millisecond, nil, stalled)

	start := time.Now()
	got := chain.ScoreJobMatch(context.Background(), seniorReactResume, seniorReactJob())
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, 89, got.Score)
	assert.Equal(t, SourceHeuristic, got.Source)
}

func TestChainRecoversFromPanic(t *testing.T) {
	panicky := Attempt{
		Name: "panicky",
		Score: func(context.Context, string, models.Job) (models.MatchResult, error) {
			panic("unexpected nil")
		},
	}

	got := NewChain(time.Second, nil, panicky).ScoreJobMatch(context.Background(), seniorReactResume, seniorReactJob())
	assert.Equal(t, 89, got.Score)
}

func TestChainWithoutAttemptsIsHeuristic(t *testing.T) {
	got := NewChain(0, nil).ScoreJobMatch(context.Background(), seniorReactResume, seniorReactJob())
	assert.Equal(t, ScoreJobMatch(seniorReactResume, seniorReactJob()), got)
}
