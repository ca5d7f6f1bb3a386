package cli

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"reviewer/internal/artifact"
	"reviewer/internal/config"
	"reviewer/internal/llmclient"
	"reviewer/internal/pipeline"
	"reviewer/internal/source"
	"reviewer/internal/stage"
)

var (
	flagProvider       string
	flagModel          string
	flagBudget         int
	flagConcurrency    int
	flagFresh          bool
	flagDryRun         bool
	flagIgnoreNames    []string
	flagIgnorePrefixes []string
	flagIgnoreSuffixes []string
)

var reviewCmd = &cobra.Command{
	Use:   "review [directory]",
	Short: "Review a project directory and produce a report",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runReview,
}

func init() {
	reviewCmd.Flags().StringVar(&flagProvider, "provider", "", "LLM provider: openai, gemini, or fake")
	reviewCmd.Flags().StringVar(&flagModel, "model", "", "model id")
	reviewCmd.Flags().IntVar(&flagBudget, "budget", 0, "per-request content budget in bytes")
	reviewCmd.Flags().IntVar(&flagConcurrency, "concurrency", 0, "max in-flight model requests")
	reviewCmd.Flags().BoolVar(&flagFresh, "fresh", false, "ignore stored artifacts and recompute every stage")
	reviewCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "use the offline fake provider")
	reviewCmd.Flags().StringSliceVarP(&flagIgnoreNames, "ignore", "i", nil, "extra names to ignore")
	reviewCmd.Flags().StringSliceVar(&flagIgnorePrefixes, "ignore-prefix", nil, "extra name prefixes to ignore")
	reviewCmd.Flags().StringSliceVar(&flagIgnoreSuffixes, "ignore-suffix", nil, "extra name suffixes to ignore")
}

func runReview(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	units, tree, err := source.Collect(dir, collectRules(cfg))
	if err != nil {
		return fmt.Errorf("collecting sources: %w", err)
	}
	log.Printf("collected %d files from %s", len(units), dir)

	client, err := buildClient(cmd, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	outDir := filepath.Join(dir, cfg.OutDir)
	store, err := buildStore(cfg, outDir)
	if err != nil {
		return err
	}

	prompts, err := loadPrompts(cfg)
	if err != nil {
		return err
	}

	ctrl := &pipeline.Controller{
		Store:       store,
		Detail:      &stage.DetailRunner{LLM: client, Workers: cfg.Concurrency},
		Reduce:      &stage.ReduceRunner{LLM: client, Workers: cfg.Concurrency},
		Budget:      cfg.Budget,
		Prompts:     prompts,
		Fresh:       flagFresh,
		MarkdownDir: outDir,
		Tree:        tree,
	}
	report, err := ctrl.Run(cmd.Context(), units)
	if err != nil {
		return err
	}

	fmt.Println(report.Text)
	log.Printf("report written under %s", outDir)
	return nil
}

// collectRules layers the config file's ignore section and the command-line
// ignore flags over the built-in skip rules. The artifact directory is
// always excluded so a run never reviews its own output.
func collectRules(cfg *config.Config) source.Rules {
	prefixes := append(append([]string{}, cfg.Ignore.Prefixes...), flagIgnorePrefixes...)
	suffixes := append(append([]string{}, cfg.Ignore.Suffixes...), flagIgnoreSuffixes...)
	names := append(append([]string{}, cfg.Ignore.Names...), flagIgnoreNames...)
	names = append(names, cfg.OutDir)
	return source.DefaultRules().Merge(prefixes, suffixes, names)
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("provider") {
		cfg.Provider = flagProvider
	}
	if cmd.Flags().Changed("model") {
		cfg.Model = flagModel
	}
	if cmd.Flags().Changed("budget") {
		cfg.Budget = flagBudget
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency = flagConcurrency
	}
	if flagDryRun {
		cfg.Provider = "fake"
	}
}

func buildClient(cmd *cobra.Command, cfg *config.Config) (llmclient.Client, error) {
	var base llmclient.Client
	switch cfg.Provider {
	case "openai":
		c, err := llmclient.NewOpenAIClient(os.Getenv("OPENAI_API_KEY"), cfg.Model, cfg.BaseURL)
		if err != nil {
			return nil, err
		}
		base = c
	case "gemini":
		c, err := llmclient.NewGeminiClient(cmd.Context(), os.Getenv("GEMINI_API_KEY"), cfg.Model)
		if err != nil {
			return nil, err
		}
		base = c
	case "fake":
		base = &llmclient.Fake{CompleteFunc: echoSections}
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
	return llmclient.Wrap(base,
		llmclient.Cache(cfg.CacheSize),
		llmclient.Retry(cfg.Retry.Attempts, cfg.Retry.BaseDelay()),
	), nil
}

func buildStore(cfg *config.Config, outDir string) (artifact.Store, error) {
	switch cfg.Store.Backend {
	case "fs":
		return artifact.NewFSStore(outDir)
	case "s3":
		return artifact.NewS3Store(artifact.S3Config{
			Endpoint:  cfg.Store.S3.Endpoint,
			Region:    cfg.Store.S3.Region,
			AccessKey: cfg.Store.S3.AccessKey,
			SecretKey: cfg.Store.S3.SecretKey,
			Bucket:    cfg.Store.S3.Bucket,
			Prefix:    cfg.Store.Run,
			UseSSL:    cfg.Store.S3.UseSSL,
		})
	case "postgres":
		return artifact.NewPGStore(cfg.Store.PostgresDSN, cfg.Store.Run)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func loadPrompts(cfg *config.Config) (pipeline.Prompts, error) {
	prompts := pipeline.DefaultPrompts()
	load := func(path string, dst *string) error {
		if path == "" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading prompt file %s: %w", path, err)
		}
		*dst = string(data)
		return nil
	}
	if err := load(cfg.Prompts.Detail, &prompts.Detail); err != nil {
		return prompts, err
	}
	if err := load(cfg.Prompts.Short, &prompts.Short); err != nil {
		return prompts, err
	}
	if err := load(cfg.Prompts.Project, &prompts.Project); err != nil {
		return prompts, err
	}
	return prompts, nil
}

// echoSections answers a request by repeating every file delimiter it finds
// with a canned critique, which exercises the full pipeline offline.
func echoSections(promptText string) (string, error) {
	var b strings.Builder
	for _, line := range strings.Split(promptText, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "------") && strings.HasSuffix(trimmed, "------") && strings.Count(trimmed, " ") == 2 {
			b.WriteString(trimmed + "\n")
			b.WriteString("No issues found (dry run).\n")
		}
	}
	if b.Len() == 0 {
		return "Dry-run synthesis: no issues found.", nil
	}
	return b.String(), nil
}
