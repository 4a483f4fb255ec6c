package ranking

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"alfredoptarigan/job-matcher/internal/cache"
	"alfredoptarigan/job-matcher/internal/models"
)

var testNow = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

func annotated(id, title, location string, age time.Duration) models.AnnotatedJob {
	return models.AnnotatedJob{Job: models.Job{
		ID:          id,
		Title:       title,
		Company:     "Acme",
		Location:    location,
		WorkMode:    models.WorkModeOnSite,
		JobType:     models.JobTypeFullTime,
		Description: "Join our developer team",
		PostedAt:    testNow.Add(-age),
	}}
}

func ids(jobs []models.AnnotatedJob) []string {
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.ID
	}
	return out
}

func withScore(j models.AnnotatedJob, score int) models.AnnotatedJob {
	j.MatchScore = &score
	return j
}

func TestNormalizeMovesCityFromQuery(t *testing.T) {
	c := Criteria{Query: "  bangalore developer ", DatePosted: "bogus", JobType: "all", MinScore: 140}.Normalize()

	assert.Equal(t, "bangalore", c.Location)
	assert.Equal(t, "developer", c.Query)
	assert.Equal(t, DateAll, c.DatePosted)
	assert.Empty(t, c.JobType)
	assert.Equal(t, 100, c.MinScore)

	kept := Criteria{Query: "new delhi backend", Location: "Remote"}.Normalize()
	assert.Equal(t, "new delhi backend", kept.Query)

	multi := Criteria{Query: "Java New Delhi"}.Normalize()
	assert.Equal(t, "New Delhi", multi.Location)
	assert.Equal(t, "Java", multi.Query)
}

func TestNormalizeSplitsCityFromNonASCIIQuery(t *testing.T) {
	cases := []struct {
		query, location, rest string
	}{
		{"ȺȺȺȺ bangalore", "bangalore", "ȺȺȺȺ"},
		{"\u212A\u212A developer bangalore", "bangalore", "\u212A\u212A developer"},
		{"Ünïcode HYDERABAD engineer", "HYDERABAD", "Ünïcode engineer"},
	}

	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			var c Criteria
			require.NotPanics(t, func() { c = Criteria{Query: tc.query}.Normalize() })
			assert.Equal(t, tc.location, c.Location)
			assert.Equal(t, tc.rest, c.Query)
		})
	}
}

func TestForListingsDropsMinScore(t *testing.T) {
	c := Criteria{Query: "go", MinScore: 40}.Normalize()
	listing := c.ForListings()

	assert.Zero(t, listing.MinScore)
	assert.Equal(t, "go", listing.Query)
	assert.Equal(t, 40, c.MinScore)
	assert.False(t, Criteria{MinScore: 40}.ForListings().Active())

	jobs := []models.Job{annotated("1", "Go Developer", "Pune", time.Hour).Job}
	assert.Len(t, FilterJobs(jobs, c, testNow), 1, "unscored listings survive a score threshold")
}

func TestLocationMatches(t *testing.T) {
	cases := []struct {
		job, filter string
		want        bool
	}{
		{"Bengaluru, Karnataka", "bangalore", true},
		{"Bangalore, India", "Bengaluru", true},
		{"New Delhi, India", "delhi", true},
		{"Delhi NCR", "new delhi", true},
		{"Mumbai, Maharashtra", "bombay", true},
		{"Pune, Maharashtra", "mumbai", false},
		{"Hyderabad", "hyd", true},
		{"anywhere", "", true},
	}

	for _, tc := range cases {
		t.Run(tc.job+"/"+tc.filter, func(t *testing.T) {
			assert.Equal(t, tc.want, LocationMatches(tc.job, tc.filter))
		})
	}
}

func TestTitleMatchLevel(t *testing.T) {
	assert.Equal(t, TitleExact, TitleMatchLevel("Backend Developer", "backend developer"))
	assert.Equal(t, TitleStrong, TitleMatchLevel("Backend Developer II", "backend developer"))
	assert.Equal(t, TitleStrong, TitleMatchLevel("Senior Backend Developer", "developer"))
	assert.Equal(t, TitlePartial, TitleMatchLevel("Developers Advocate", "eloper"))
	assert.Equal(t, TitleNoMatch, TitleMatchLevel("Designer", "developer"))
	assert.Equal(t, TitleNoMatch, TitleMatchLevel("Designer", ""))
	assert.Equal(t, TitlePartial, TitleMatchLevel("C++ Developer", "++"))
}

func TestRankGroupOrdering(t *testing.T) {
	a := annotated("A", "Backend Developer", "Bangalore", 40*24*time.Hour)
	b := annotated("B", "Data Analyst", "Bengaluru", time.Hour)
	c := annotated("C", "Frontend Developer", "Mumbai", time.Hour)
	d := annotated("D", "Designer", "Chennai", time.Hour)

	criteria := Criteria{Location: "Bangalore", Query: "developer"}.Normalize()
	out := order([]models.AnnotatedJob{d, c, b, a}, criteria, false, testNow)

	assert.Equal(t, []string{"A", "B", "C", "D"}, ids(out))
	assert.Equal(t, []int{1, 2, 3, 4}, []int{out[0].RankGroup, out[1].RankGroup, out[2].RankGroup, out[3].RankGroup})
}

func TestRankJobsFiltersBeforeGrouping(t *testing.T) {
	jobs := []models.AnnotatedJob{
		annotated("analyst", "Data Analyst", "Bengaluru", time.Hour),
		annotated("mumbai", "Frontend Developer", "Mumbai", time.Hour),
		annotated("dev", "Backend Developer", "Bangalore", 40*24*time.Hour),
	}

	out := RankJobs(jobs, Criteria{Location: "Bangalore", Query: "developer"}, false, testNow)
	assert.Equal(t, []string{"dev", "analyst"}, ids(out))
}

func TestRankJobsCityAliasInQuery(t *testing.T) {
	job := annotated("blr", "Backend Developer", "Bengaluru, Karnataka", 2*time.Hour)
	other := annotated("hyd", "Backend Developer", "Hyderabad", time.Hour)

	for _, c := range []Criteria{
		{Query: "bangalore developer"},
		{Query: "developer", Location: "bangalore"},
	} {
		out := RankJobs([]models.AnnotatedJob{other, job}, c, false, testNow)
		require.Len(t, out, 1)
		assert.Equal(t, "blr", out[0].ID)
		assert.Equal(t, 1, out[0].RankGroup)
		assert.True(t, out[0].LocationMatch)
		assert.Equal(t, TitleStrong, out[0].TitleMatchLevel)
	}
}

func TestRankJobsNoCriteriaIsGroupOne(t *testing.T) {
	jobs := []models.AnnotatedJob{
		annotated("old", "Dev", "Pune", 60*24*time.Hour),
		annotated("new", "Dev", "Pune", time.Hour),
	}

	out := RankJobs(jobs, Criteria{}, false, testNow)
	assert.Equal(t, []string{"new", "old"}, ids(out))
	for _, j := range out {
		assert.Equal(t, 1, j.RankGroup)
	}
}

func TestTieBreakerComponents(t *testing.T) {
	j := withScore(annotated("x", "Go Engineer", "Pune", time.Hour), 80)
	j.Skills = []string{"Go", "Docker", "Rust"}

	out := RankJobs([]models.AnnotatedJob{j}, Criteria{Query: "go engineer", Skills: []string{"go", "docker"}}, true, testNow)
	require.Len(t, out, 1)
	// recency 1000 + exact title 300 + score 80 + floor(50*2/2)
	assert.Equal(t, 1430, out[0].TieBreaker)

	out = RankJobs([]models.AnnotatedJob{j}, Criteria{}, false, testNow)
	assert.Equal(t, 1000, out[0].TieBreaker)
}

func TestRecencyPoints(t *testing.T) {
	assert.Equal(t, 1000, recencyPoints(testNow.Add(-23*time.Hour), testNow))
	assert.Equal(t, 800, recencyPoints(testNow.Add(-48*time.Hour), testNow))
	assert.Equal(t, 600, recencyPoints(testNow.Add(-100*time.Hour), testNow))
	assert.Equal(t, 400, recencyPoints(testNow.Add(-500*time.Hour), testNow))
	assert.Equal(t, 200, recencyPoints(testNow.Add(-800*time.Hour), testNow))
	assert.Equal(t, 0, recencyPoints(time.Time{}, testNow))
}

func TestRankJobsStableOnTies(t *testing.T) {
	var jobs []models.AnnotatedJob
	for i := 0; i < 6; i++ {
		jobs = append(jobs, annotated(fmt.Sprintf("j%d", i), "Developer", "Pune", 5*time.Hour))
	}

	out := RankJobs(jobs, Criteria{Query: "developer"}, false, testNow)
	assert.Equal(t, ids(jobs), ids(out))
}

func TestRankJobsDoesNotMutateInput(t *testing.T) {
	jobs := []models.AnnotatedJob{
		annotated("a", "Developer", "Pune", 100*time.Hour),
		annotated("b", "Developer", "Pune", time.Hour),
	}

	_ = RankJobs(jobs, Criteria{Query: "developer"}, false, testNow)
	assert.Equal(t, "a", jobs[0].ID)
	assert.Zero(t, jobs[0].RankGroup)
	assert.Zero(t, jobs[1].TieBreaker)
}

func TestRankUsesMatchScoreOnlyWithResume(t *testing.T) {
	low := withScore(annotated("low", "Developer", "Pune", time.Hour), 10)
	high := withScore(annotated("high", "Developer", "Pune", time.Hour), 90)

	r := NewRanker(zaptest.NewLogger(t))
	r.now = func() time.Time { return testNow }

	assert.Equal(t, []string{"high", "low"}, ids(r.Rank([]models.AnnotatedJob{low, high}, Criteria{}, true)))
	assert.Equal(t, []string{"low", "high"}, ids(r.Rank([]models.AnnotatedJob{low, high}, Criteria{}, false)))
}

func TestFilterPredicates(t *testing.T) {
	remote := annotated("remote", "Go Developer", "Remote", 3*24*time.Hour)
	remote.WorkMode = models.WorkModeRemote
	remote.Skills = []string{"Django", "Python"}
	remote = withScore(remote, 75)

	contract := annotated("contract", "Java Developer", "Pune", 20*24*time.Hour)
	contract.JobType = models.JobTypeContract
	contract.Skills = []string{"Java"}

	stale := annotated("stale", "Go Developer", "Pune", 45*24*time.Hour)
	stale.Skills = []string{"Go"}

	jobs := []models.AnnotatedJob{remote, contract, stale}

	cases := []struct {
		name string
		c    Criteria
		want []string
	}{
		{name: "none", c: Criteria{}, want: []string{"remote", "contract", "stale"}},
		{name: "company", c: Criteria{Query: "acme"}, want: []string{"remote", "contract", "stale"}},
		{name: "bidirectional skill", c: Criteria{Skills: []string{"go"}}, want: []string{"remote", "stale"}},
		{name: "week", c: Criteria{DatePosted: DateWeek}, want: []string{"remote"}},
		{name: "month", c: Criteria{DatePosted: DateMonth}, want: []string{"remote", "contract"}},
		{name: "job type", c: Criteria{JobType: "contract"}, want: []string{"contract"}},
		{name: "work mode", c: Criteria{WorkMode: "REMOTE"}, want: []string{"remote"}},
		{name: "min score", c: Criteria{MinScore: 70}, want: []string{"remote"}},
		{name: "and", c: Criteria{Skills: []string{"go"}, DatePosted: DateMonth}, want: []string{"remote"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, _ := Filter(jobs, tc.c.Normalize(), testNow)
			assert.Equal(t, tc.want, ids(got))
		})
	}
}

func TestFilterIsIdempotent(t *testing.T) {
	jobs := []models.AnnotatedJob{
		annotated("a", "Go Developer", "Bengaluru", time.Hour),
		annotated("b", "Designer", "Pune", time.Hour),
		annotated("c", "Developer", "Bangalore", 10*24*time.Hour),
	}
	c := Criteria{Location: "bangalore", DatePosted: DateWeek}.Normalize()

	once, _ := Filter(jobs, c, testNow)
	twice, _ := Filter(once, c, testNow)
	assert.Equal(t, once, twice)
}

func TestFilterReportsSteps(t *testing.T) {
	jobs := []models.AnnotatedJob{
		annotated("a", "Go Developer", "Pune", time.Hour),
		annotated("b", "Designer", "Pune", time.Hour),
	}

	_, steps := Filter(jobs, Criteria{Query: "developer", WorkMode: "Remote"}.Normalize(), testNow)
	require.Len(t, steps, 2)
	assert.Equal(t, Step{Name: "query", Initial: 2, Dropped: 0, Left: 2}, steps[0])
	assert.Equal(t, Step{Name: "work_mode", Initial: 2, Dropped: 2, Left: 0}, steps[1])
}

func TestPaginateCompleteness(t *testing.T) {
	items := make([]int, 25)
	for i := range items {
		items[i] = i
	}

	first := Paginate(items, 1, 12)
	require.Equal(t, 3, first.TotalPages)

	var all []int
	for p := 1; p <= first.TotalPages; p++ {
		all = append(all, Paginate(items, p, 12).Items...)
	}
	assert.Equal(t, items, all)
	assert.Len(t, Paginate(items, 3, 12).Items, 1)
}

func TestPaginateEdges(t *testing.T) {
	empty := Paginate([]string{}, 1, 12)
	assert.Equal(t, 1, empty.TotalPages)
	assert.Empty(t, empty.Items)

	past := Paginate([]int{1, 2, 3}, 5, 2)
	assert.Empty(t, past.Items)
	assert.Equal(t, 2, past.TotalPages)

	clamped := Paginate([]int{1, 2, 3}, 0, 0)
	assert.Equal(t, 1, clamped.Page)
	assert.Equal(t, DefaultPageSize, clamped.PageSize)
	assert.Equal(t, []int{1, 2, 3}, clamped.Items)
}

func TestPageTrackerResetsOnCriteriaChange(t *testing.T) {
	ctx := context.Background()
	tracker := NewPageTracker(cache.NewMemory(16))

	fp := Criteria{Query: "go"}.Fingerprint(false)

	page, err := tracker.Resolve(ctx, "u1", fp, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, page)

	page, err = tracker.Resolve(ctx, "u1", fp, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, page)

	page, err = tracker.Resolve(ctx, "u1", Criteria{Query: "go"}.Fingerprint(true), 3)
	require.NoError(t, err)
	assert.Equal(t, 1, page)

	page, err = tracker.Resolve(ctx, "u2", fp, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, page)
}

func TestFingerprintIgnoresWhitespace(t *testing.T) {
	assert.Equal(t,
		Criteria{Query: "go "}.Fingerprint(false),
		Criteria{Query: "go", DatePosted: DateAll}.Fingerprint(false),
	)
	assert.NotEqual(t,
		Criteria{Query: "go"}.Fingerprint(false),
		Criteria{Query: "go"}.Fingerprint(true),
	)
}
