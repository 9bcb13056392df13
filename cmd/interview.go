package cmd

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/interview-assistant/internal/ai"
	"github.com/spigell/interview-assistant/internal/app"
	"github.com/spigell/interview-assistant/internal/interview"
	"github.com/spigell/interview-assistant/internal/notify"
	"github.com/spigell/interview-assistant/internal/resume"
	"github.com/spigell/interview-assistant/internal/session"
	"github.com/spigell/interview-assistant/internal/storage"
)

const (
	PromptContinue = "Continue Interview"
	PromptStartNew = "Start New"

	noticeBuffer = 8
)

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Run an interview in the terminal",
	Run: func(cmd *cobra.Command, _ []string) {
		runInterview(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(interviewCmd)
}

func runInterview(ctx context.Context) {
	config, err := getConfig()
	if err != nil {
		newLogger().Fatal("getting a config", zap.Error(err))
	}

	logFile := config.LogFile
	if logFile == "" {
		logFile = defaultLogFile
	}
	logger := newLogger(logFile)
	defer logger.Sync()

	logger.Info("starting the interview-assistant", zap.String("version", version))

	db, err := storage.Open(ctx, config.Storage.Driver, config.Storage.DSN)
	if err != nil {
		logger.Fatal("opening storage", zap.Error(err), zap.String("driver", config.Storage.Driver))
	}
	defer db.Close()

	snap, found, err := db.LoadSnapshot(ctx)
	if err != nil {
		logger.Fatal("loading saved session", zap.Error(err))
	}

	writer := storage.NewAsyncWriter(db, logger)
	defer writer.Close()

	store := session.New(writer)
	if found {
		store.Restore(snap)
	}

	generator, closeGenerator, err := newGenerator(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("creating ai provider", zap.Error(err), zap.String("provider", config.AI.Provider))
	}
	defer closeGenerator()

	surface := notify.New(logger)
	handler, notices := notify.Queue(noticeBuffer)
	surface.Register(handler)

	interviewer := ai.NewInterviewer(generator, logger, config.AI.MaxLogLength)
	orch := interview.New(interview.Deps{
		Store:     store,
		Extractor: resume.NewDocumentExtractor(logger),
		Questions: interviewer,
		Evaluator: interviewer,
		Summaries: interviewer,
		Notices:   surface,
		Logger:    logger,
		Options:   interview.Options{Timeout: config.AI.Timeout},
	})

	resumeSession := false
	if store.CheckUnfinishedSession() {
		prompt := promptui.Select{
			Label: "An unfinished interview was found",
			Items: []string{PromptContinue, PromptStartNew},
		}
		_, choice, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		logger.Info("unfinished session", zap.String("choice", choice))
		if choice == PromptContinue {
			resumeSession = true
		} else {
			orch.StartNew()
		}
	}

	program := tea.NewProgram(app.New(orch, store, notices, resumeSession), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		logger.Fatal("running the tui", zap.Error(err))
	}

	logger.Info("interview-assistant stopped")
}
