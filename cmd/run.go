package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pranavbn/interview-agent/internal/ai"
	"github.com/pranavbn/interview-agent/internal/ai/gemini"
	"github.com/pranavbn/interview-agent/internal/extract"
	"github.com/pranavbn/interview-agent/internal/interview"
	"github.com/pranavbn/interview-agent/internal/logger"
	"github.com/pranavbn/interview-agent/internal/secrets"
	"github.com/pranavbn/interview-agent/internal/transcript"
)

const noTechnicalRound = "No technical round"

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an interactive interview from a PDF resume",
	RunE: func(cmd *cobra.Command, _ []string) error {
		log, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		defer log.Sync() //nolint:errcheck

		config, err := getConfig()
		if err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}

		return runInterview(cmd.Context(), config, log)
	},
}

func init() {
	runCmd.Flags().StringP("resume", "r", "", "path to the candidate's PDF resume")
	runCmd.Flags().String("role", "", "role key for the technical round (see the roles command)")
	runCmd.Flags().Bool("assess", false, "produce a final assessment after the interview")
	runCmd.Flags().Bool("dump", false, "dump the transcript to a temporary JSON file")

	viper.BindPFlag("resume", runCmd.Flags().Lookup("resume"))
	viper.BindPFlag("role", runCmd.Flags().Lookup("role"))
	viper.BindPFlag("assess", runCmd.Flags().Lookup("assess"))
	viper.BindPFlag("transcript.dump", runCmd.Flags().Lookup("dump"))

	rootCmd.AddCommand(runCmd)
}

func runInterview(ctx context.Context, config *Config, log *zap.Logger) error {
	if config == nil || strings.TrimSpace(config.Resume) == "" {
		return errors.New("a resume path is required, set it via --resume or the config file")
	}

	if config.AI == nil || config.AI.Gemini == nil {
		return errors.New("ai.gemini configuration is required")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: config.AI.Gemini.APIKeyFile,
	})
	if err != nil {
		return err
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, config.AI.Gemini.Model, config.AI.Gemini.MaxRetries, log)
	if err != nil {
		return fmt.Errorf("creating gemini client: %w", err)
	}

	oracle := gemini.NewOracle(generator, config.AI.Gemini.MaxLogLength, log)
	extractor := extract.NewExtractor(generator, config.AI.Gemini.MaxLogLength, log)

	fmt.Println("Reading resume...")

	resume, err := extractor.ExtractFile(ctx, config.Resume)
	if err != nil {
		return fmt.Errorf("extracting resume %q: %w", config.Resume, err)
	}

	role, err := chooseRole(config.Role)
	if err != nil {
		return err
	}

	store, err := newTranscriptStore(ctx, config.Transcript)
	if err != nil {
		return err
	}

	opts := []interview.Option{
		interview.WithOracle(oracle),
		interview.WithLogger(log),
	}
	if config.RoleQuestions > 0 {
		opts = append(opts, interview.WithRoleQuestionCount(config.RoleQuestions))
	}

	session, err := interview.NewSession(resume, role, opts...)
	if err != nil {
		return err
	}

	turn, err := session.Start(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("\nHello %s! Welcome to your interview. Answer in your own words, or type \"skip\" to move on.\n", resume.Name)

	if err := interviewLoop(ctx, session, store, turn); err != nil {
		return err
	}

	records, err := store.History(ctx, session.ID())
	if err != nil {
		log.Warn("reading transcript back failed", zap.Error(err))
		records = nil
	}

	if config.Transcript != nil && config.Transcript.Dump {
		path, err := transcript.DumpToTmpFile(session.Info(), records)
		if err != nil {
			log.Warn("dumping transcript failed", zap.Error(err))
		} else {
			fmt.Printf("\nTranscript saved to %s\n", path)
		}
	}

	if viper.GetBool("assess") {
		if err := printAssessment(ctx, oracle, resume, records); err != nil {
			log.Warn("assessment failed", zap.Error(err))
			fmt.Println("\nAssessment could not be generated. Your responses have been recorded and will be reviewed manually.")
		}
	}

	return nil
}

// interviewLoop runs the strict question/answer turn-taking until the session
// completes or the candidate interrupts.
func interviewLoop(ctx context.Context, session *interview.Session, store transcript.Store, turn *interview.Turn) error {
	question := turn.Question

	for {
		fmt.Printf("\n%s\n", question)

		prompt := promptui.Prompt{Label: "Your answer"}
		answer, err := prompt.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				fmt.Println("\nInterview interrupted.")
				session.Complete()
				return nil
			}
			return fmt.Errorf("reading answer: %w", err)
		}

		if err := store.Append(ctx, session.ID(), transcript.Record{
			Question:  question,
			Answer:    answer,
			Timestamp: time.Now(),
		}); err != nil {
			// Archiving must not break a live interview.
			fmt.Printf("(transcript not archived: %v)\n", err)
		}

		turn, err = session.ProcessAnswer(ctx, answer)
		if err != nil {
			return err
		}

		if turn.PositiveResponse != "" {
			fmt.Printf("\n%s\n", turn.PositiveResponse)
		}

		if turn.Status == interview.StatusCompleted {
			fmt.Printf("\n%s\n", turn.Message)
			return nil
		}

		question = turn.Question
	}
}

// chooseRole resolves the technical round role, asking interactively when the
// config does not pin one. An empty result skips the technical round.
func chooseRole(configured string) (string, error) {
	if strings.TrimSpace(configured) != "" {
		return strings.TrimSpace(configured), nil
	}

	bank := interview.DefaultBank()
	roles := bank.Roles()

	items := make([]string, 0, len(roles)+1)
	for _, role := range roles {
		items = append(items, bank.DisplayName(role))
	}
	items = append(items, noTechnicalRound)

	prompt := promptui.Select{
		Label: "Choose a role for the technical round",
		Items: items,
	}

	idx, _, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("choosing role: %w", err)
	}

	if idx >= len(roles) {
		return "", nil
	}

	return roles[idx], nil
}

func newTranscriptStore(ctx context.Context, config *TranscriptConfig) (transcript.Store, error) {
	if config == nil || config.Redis == nil || config.Redis.Addr == "" {
		return transcript.NewInMemoryStore(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.Redis.Addr,
		Password: config.Redis.Password,
		DB:       config.Redis.DB,
	})

	store, err := transcript.NewRedisStore(ctx, client, config.Redis.KeyPrefix, config.Redis.TTL)
	if err != nil {
		return nil, fmt.Errorf("connecting transcript store: %w", err)
	}

	return store, nil
}

func printAssessment(ctx context.Context, assessor ai.Assessor, resume *interview.Resume, records []transcript.Record) error {
	resumeJSON, err := json.MarshalIndent(resume, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal resume: %w", err)
	}

	entries := make([]ai.TranscriptEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, ai.TranscriptEntry{Question: record.Question, Answer: record.Answer})
	}

	fmt.Println("\nGenerating assessment...")

	assessment, err := assessor.AssessTranscript(ctx, string(resumeJSON), entries)
	if err != nil {
		return err
	}

	fmt.Printf("\nOverall score:        %d/10\n", assessment.OverallScore)
	fmt.Printf("Technical competency: %d/10\n", assessment.TechnicalCompetency)
	fmt.Printf("Communication skills: %d/10\n", assessment.CommunicationSkills)
	fmt.Printf("Problem solving:      %d/10\n", assessment.ProblemSolving)
	fmt.Printf("Enthusiasm:           %d/10\n", assessment.Enthusiasm)

	if len(assessment.Strengths) > 0 {
		fmt.Println("\nStrengths:")
		for _, item := range assessment.Strengths {
			fmt.Printf("  - %s\n", item)
		}
	}

	if len(assessment.AreasForImprovement) > 0 {
		fmt.Println("\nAreas for improvement:")
		for _, item := range assessment.AreasForImprovement {
			fmt.Printf("  - %s\n", item)
		}
	}

	if assessment.DetailedFeedback != "" {
		fmt.Printf("\n%s\n", assessment.DetailedFeedback)
	}

	fmt.Printf("\nRecommendation: %s\n", assessment.Recommendation)

	return nil
}
