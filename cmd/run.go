package cmd

import (
	"context"
	"log"
	"os"

	"github.com/spigell/intervu/internal/engine"
	"github.com/spigell/intervu/internal/logger"
	"github.com/spigell/intervu/internal/store"
	"github.com/spigell/intervu/internal/tui"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptResumeInterview = "Resume interview"
	PromptStartNew        = "Start new"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an interview session in the terminal",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("resume-file", "r", "", "candidate resume to upload (pdf or docx)")
	runCmd.Flags().BoolP("fresh", "f", false, "discard any unfinished session without asking")
}

// run is the interviewee-facing command: it restores or starts a session and
// hands control to the chat TUI.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting intervu", zap.String("version", version))

	bank, err := config.bank()
	if err != nil {
		logger.Fatal("building the question bank", zap.Error(err))
	}

	st, err := store.NewSQLite(config.storePath())
	if err != nil {
		logger.Fatal("opening the store", zap.String("path", config.storePath()), zap.Error(err))
	}
	defer st.Close()

	eng := engine.New(engine.Config{
		Store:  st,
		Bank:   bank,
		Role:   config.role(),
		Logger: logger,
	})
	defer eng.Close()

	resumable, err := eng.Load(ctx)
	if err != nil {
		logger.Fatal("loading saved state", zap.Error(err))
	}

	fresh := cmd.Flag("fresh").Value.String() == "true"

	if resumable && !fresh {
		prompt := promptui.Select{
			Label: "Welcome back! You have an unfinished interview",
			Items: []string{PromptResumeInterview, PromptStartNew},
		}

		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		resumable = action == PromptResumeInterview
	} else if fresh {
		resumable = false
	}

	if resumable {
		err = eng.ResumeSession(ctx)
	} else {
		err = eng.StartSession(ctx)
	}
	if err != nil {
		logger.Fatal("preparing the session", zap.Error(err))
	}

	if err := eng.SetView(ctx, store.ViewInterviewee); err != nil {
		logger.Fatal("saving state", zap.Error(err))
	}

	if file := cmd.Flag("resume-file").Value.String(); file != "" {
		uploadResume(ctx, eng, logger, file)
	}

	if err := tui.Run(eng); err != nil {
		logger.Fatal("running the interview ui", zap.Error(err))
	}
}

// uploadResume feeds a resume file into the session before the TUI starts.
// Failures are not fatal: the candidate can retry with /upload or answer the
// contact questions directly.
func uploadResume(ctx context.Context, eng *engine.Engine, logger *zap.Logger, file string) {
	data, err := os.ReadFile(file)
	if err != nil {
		logger.Warn("reading resume file", zap.String("file", file), zap.Error(err))
		return
	}

	if err := eng.UploadResume(ctx, data, file); err != nil {
		logger.Warn("processing resume file",
			zap.String("file", file),
			zap.Error(err),
			zap.String("hint", "upload it from the chat with /upload, or answer the questions directly"),
		)
	}
}
