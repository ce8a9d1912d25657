package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spigell/intervu/internal/interview"
	"github.com/spigell/intervu/internal/logger"
	"github.com/spigell/intervu/internal/question"
	"github.com/spigell/intervu/internal/roster"
	"github.com/spigell/intervu/internal/store"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const PromptExit = "Exit"

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Browse completed interviews",
	Run: func(cmd *cobra.Command, _ []string) {
		review(cmd)
	},
}

func init() {
	rootCmd.AddCommand(reviewCmd)

	reviewCmd.Flags().StringP("search", "s", "", "filter candidates by name or email")
	reviewCmd.Flags().String("sort", "score", "sort order: score or name")
}

// review is the interviewer-facing command: list completed candidates and
// drill into one.
func review(cmd *cobra.Command) {
	ctx := context.Background()

	zlog, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		zlog.Fatal("getting a config", zap.Error(err))
	}

	order, err := roster.ParseSort(cmd.Flag("sort").Value.String())
	if err != nil {
		zlog.Fatal("parsing flags", zap.Error(err))
	}

	st, err := store.NewSQLite(config.storePath())
	if err != nil {
		zlog.Fatal("opening the store", zap.String("path", config.storePath()), zap.Error(err))
	}
	defer st.Close()

	snapshot, err := st.Load(ctx)
	if errors.Is(err, store.ErrNotFound) {
		snapshot = &store.Snapshot{}
	} else if err != nil {
		zlog.Fatal("loading saved state", zap.Error(err))
	}

	snapshot.ActiveView = store.ViewInterviewer
	if err := st.Save(ctx, snapshot); err != nil {
		zlog.Fatal("saving state", zap.Error(err))
	}

	candidates := roster.New(snapshot.Roster).Query(cmd.Flag("search").Value.String(), order)
	if len(candidates) == 0 {
		zlog.Info("no candidates yet", zap.String("hint", "complete some interviews with 'intervu run'"))
		return
	}

	for {
		items := make([]string, 0, len(candidates)+1)
		for _, c := range candidates {
			items = append(items, candidateLabel(c))
		}

		prompt := promptui.Select{
			Label: fmt.Sprintf("Candidates (%d) - choose one and press ENTER", len(candidates)),
			Items: append(items, PromptExit),
			Size:  10,
		}

		idx, selected, err := prompt.Run()
		if err != nil {
			zlog.Fatal("exiting", zap.Error(err))
		}

		if selected == PromptExit {
			return
		}

		printCandidate(candidates[idx])
	}
}

func candidateLabel(s *interview.Session) string {
	name := s.Name
	if name == "" {
		name = "(no name)"
	}
	return fmt.Sprintf("%s <%s> - %d/%d", name, s.Email, s.TotalScore, question.MaxTotalScore())
}

// printCandidate writes the full reviewer report for one candidate.
func printCandidate(s *interview.Session) {
	max := question.MaxTotalScore()
	percentage := 0
	if max > 0 {
		percentage = int(float64(s.TotalScore)/float64(max)*100 + 0.5)
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 60))
	fmt.Printf("%s\n", s.Name)
	fmt.Printf("Email: %s │ Phone: %s\n", s.Email, s.Phone)
	fmt.Printf("Interviewed: %s\n", s.CreatedAt.Format("Jan 02 2006 15:04"))
	fmt.Printf("Score: %d/%d (%d%%)\n", s.TotalScore, max, percentage)
	fmt.Printf("Summary: %s\n", s.Summary)

	fmt.Printf("\nQuestions & Answers\n")
	for i, q := range s.Questions {
		fmt.Printf("\nQ%d [%s]: %s\n", i+1, q.Difficulty.Label(), q.Text)

		answer := q.Answer
		if strings.TrimSpace(answer) == "" {
			answer = "No answer provided"
		}
		fmt.Printf("Answer: %s\n", answer)
		fmt.Printf("Score: %d/%d\n", q.Score, q.Difficulty.BaseScore())
	}

	fmt.Printf("\nTranscript\n")
	for _, msg := range s.ChatHistory {
		fmt.Printf("[%s] %s\n", msg.Origin, msg.Text)
	}
	fmt.Printf("%s\n\n", strings.Repeat("=", 60))
}
