package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"alfredoptarigan/job-matcher/internal/bootstrap"
	"alfredoptarigan/job-matcher/internal/ranking"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Rank the job feed against a resume file",
	Run: func(_ *cobra.Command, _ []string) {
		score()
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringP("resume", "r", "", "path to a PDF or text resume (required)")
	scoreCmd.Flags().StringP("query", "q", "", "title or keyword query")
	scoreCmd.Flags().StringP("location", "l", "", "location filter")
	scoreCmd.Flags().StringSlice("skills", nil, "comma separated skills")
	scoreCmd.Flags().Int("min-score", 0, "minimum match score")
	scoreCmd.Flags().IntP("top", "n", 10, "number of jobs to print")

	for _, name := range []string{"resume", "query", "location", "skills", "min-score", "top"} {
		viper.BindPFlag("score."+name, scoreCmd.Flags().Lookup(name))
	}
}

func score() {
	ctx := context.Background()
	e := newEnv(ctx)

	path := viper.GetString("score.resume")
	if path == "" {
		e.log.Fatal("--resume is required")
	}
	resumeText, err := readResume(path)
	if err != nil {
		e.log.Fatal("reading resume", zap.String("path", path), zap.Error(err))
	}

	criteria := ranking.Criteria{
		Query:    viper.GetString("score.query"),
		Location: viper.GetString("score.location"),
		Skills:   viper.GetStringSlice("score.skills"),
		MinScore: viper.GetInt("score.min-score"),
	}.Normalize()

	jobs, err := e.jobs.FetchJobs(ctx, criteria)
	if err != nil {
		e.log.Fatal("fetching jobs", zap.Error(err))
	}
	e.log.Info("scoring jobs", zap.Int("count", len(jobs)))

	annotated := bootstrap.MatchBatch(e.cfg).Annotate(ctx, e.ai.Scorer, resumeText, jobs)
	ranked := ranking.NewRanker(e.log).Rank(annotated, criteria, true)

	top := viper.GetInt("score.top")
	if top > 0 && len(ranked) > top {
		ranked = ranked[:top]
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCORE\tGROUP\tTITLE\tCOMPANY\tLOCATION\tMATCHED")
	for _, j := range ranked {
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%s\n",
			j.Score(), j.RankGroup, j.Title, j.Company, j.Location, strings.Join(j.MatchedSkills, ", "))
	}
	w.Flush()
}
