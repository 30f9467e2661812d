package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tlegrand/emploi-assistant/internal/aggregator"
	"github.com/tlegrand/emploi-assistant/internal/chat"
	"github.com/tlegrand/emploi-assistant/internal/cv"
	"github.com/tlegrand/emploi-assistant/internal/recommend"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const chatWelcome = `Bonjour ! Je suis votre assistant emploi. Je peux analyser votre CV,
chercher des offres sur France Travail, LinkedIn, Indeed et Glassdoor,
et vous proposer des recommandations personnalisées.

Tapez votre message, ou "quitter" pour sortir.`

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start an interactive chat session with the assistant",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("cv", "c", "", "path to a CV in PDF format to load at startup")
}

// run is the interactive chat command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger := newLogger()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the assistant", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	generator, err := newGenerator(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("building the llm client", zap.Error(err))
	}

	registry := newRegistry(config, logger)
	searcher := aggregator.New(registry, logger)

	session := chat.NewSession(chat.Deps{
		Generator:   generator,
		Analyzer:    cv.NewAnalyzer(generator, logger),
		Searcher:    searcher,
		Enricher:    aggregator.NewEnricher(generator, logger),
		Recommender: recommend.NewRecommender(generator, logger),
		Logger:      logger,
	})

	if cvPath := cmd.Flag("cv").Value.String(); cvPath != "" {
		if err := loadCV(ctx, session, cvPath, logger); err != nil {
			logger.Fatal("loading the cv", zap.Error(err), zap.String("path", cvPath))
		}
	}

	fmt.Println(chatWelcome)
	fmt.Println()

	chatLoop(ctx, session, logger)
}

func loadCV(ctx context.Context, session *chat.Session, path string, logger *zap.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	profile, err := session.LoadCV(ctx, data)
	if err != nil {
		return err
	}

	logger.Info("loaded cv profile",
		zap.String("desired_job", profile.DesiredJob),
		zap.Int("skills", len(profile.Skills)),
	)

	return nil
}

func chatLoop(ctx context.Context, session *chat.Session, logger *zap.Logger) {
	input := promptui.Prompt{Label: "Vous"}

	for {
		message, err := input.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				fmt.Println("Au revoir !")
				return
			}
			logger.Fatal("reading input", zap.Error(err))
		}

		message = strings.TrimSpace(message)
		if message == "" {
			continue
		}

		if isExitCommand(message) {
			fmt.Println("Au revoir !")
			return
		}

		fmt.Println()
		fmt.Println(session.ProcessMessage(ctx, message))
		fmt.Println()
	}
}

func isExitCommand(message string) bool {
	switch strings.ToLower(message) {
	case "quitter", "quit", "exit", "bye", "au revoir":
		return true
	}
	return false
}
