package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"alfredoptarigan/job-matcher/internal/bootstrap"
	"alfredoptarigan/job-matcher/internal/chat"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask the job assistant questions interactively",
	Run: func(_ *cobra.Command, _ []string) {
		chatLoop()
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringP("resume", "r", "", "path to a PDF or text resume")
	viper.BindPFlag("chat.resume", chatCmd.Flags().Lookup("resume"))
}

func chatLoop() {
	ctx := context.Background()
	e := newEnv(ctx)

	var resumeText string
	if path := viper.GetString("chat.resume"); path != "" {
		text, err := readResume(path)
		if err != nil {
			e.log.Fatal("reading resume", zap.String("path", path), zap.Error(err))
		}
		resumeText = text
	}

	jobs, err := e.jobs.Feed(ctx)
	if err != nil {
		e.log.Fatal("fetching jobs", zap.Error(err))
	}

	assistant := chat.NewAssistant(e.ai.Scorer, e.ai.Responder, bootstrap.MatchBatch(e.cfg), e.log)
	prompt := promptui.Prompt{Label: "You (empty line to quit)"}

	for {
		message, err := prompt.Run()
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return
		}
		if err != nil {
			e.log.Fatal("reading input", zap.Error(err))
		}
		if strings.TrimSpace(message) == "" {
			return
		}

		resp := assistant.ProcessChatQuery(ctx, message, jobs, resumeText)
		fmt.Println(resp.Message)
		for i, j := range resp.Jobs {
			line := fmt.Sprintf("  %d. %s at %s (%s)", i+1, j.Title, j.Company, j.Location)
			if j.MatchScore != nil {
				line += fmt.Sprintf(" %d%% match", *j.MatchScore)
			}
			fmt.Println(line)
		}
	}
}
