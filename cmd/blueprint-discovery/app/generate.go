package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nimscan/blueprint-discovery/internal/config"
	"github.com/nimscan/blueprint-discovery/internal/discovery"
	"github.com/nimscan/blueprint-discovery/internal/httpclient"
	"github.com/nimscan/blueprint-discovery/internal/ngc"
	"github.com/nimscan/blueprint-discovery/internal/report"
	"github.com/nimscan/blueprint-discovery/internal/writer"
)

func newGenerateCmd() *cobra.Command {
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate repos.yaml from the NGC blueprint catalog",
		Long: `Walks the paginated NGC blueprint catalog, fetches every blueprint's spec
concurrently, resolves each one to a GitHub repository and writes the
repos.yaml configuration for the scanner. Fails only when no repository at
all could be resolved; every other anomaly is reported and the run continues.`,
		RunE: runGenerate,
	}

	generateCmd.Flags().String("config", "", "Path to an optional discovery config file (YAML)")
	generateCmd.Flags().String("org", config.DefaultOrgName, "NGC org name")
	generateCmd.Flags().String("label", config.DefaultLabel, "NGC label filter")
	generateCmd.Flags().Int("page-size", config.DefaultPageSize, "NGC page size")
	generateCmd.Flags().Int("workers", config.DefaultWorkers, "Spec fetch workers")
	generateCmd.Flags().String("branch", config.DefaultBranch, "Default branch")
	generateCmd.Flags().Int("depth", config.DefaultDepth, "Git clone depth")
	generateCmd.Flags().String("output", config.DefaultOutput, "Output repos.yaml path")
	generateCmd.Flags().String("api-url", "", "Override the NGC API base URL (testing)")

	return generateCmd
}

// loadGenerateConfig builds the effective configuration. Precedence, lowest
// first: built-in defaults, config file, NUS_DISCOVERY_* environment
// variables, explicitly set flags.
func loadGenerateConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()

	if path, err := cmd.Flags().GetString("config"); err == nil && path != "" {
		loaded, err := config.LoadConfig(config.WithConfigPath(path))
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	applyEnvOverrides(cfg)

	flags := cmd.Flags()
	if flags.Changed("org") {
		cfg.Org, _ = flags.GetString("org")
	}
	if flags.Changed("label") {
		cfg.Label, _ = flags.GetString("label")
	}
	if flags.Changed("page-size") {
		cfg.PageSize, _ = flags.GetInt("page-size")
	}
	if flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("branch") {
		cfg.Branch, _ = flags.GetString("branch")
	}
	if flags.Changed("depth") {
		cfg.Depth, _ = flags.GetInt("depth")
	}
	if flags.Changed("output") {
		cfg.Output, _ = flags.GetString("output")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnvOverrides merges NUS_DISCOVERY_* environment variables into the
// configuration. Unset or unparsable variables leave the field untouched.
func applyEnvOverrides(cfg *config.Config) {
	v := viper.New()
	v.SetEnvPrefix(config.EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	if s := v.GetString("org"); s != "" {
		cfg.Org = s
	}
	if s := v.GetString("label"); s != "" {
		cfg.Label = s
	}
	if n := v.GetInt("page-size"); n > 0 {
		cfg.PageSize = n
	}
	if n := v.GetInt("workers"); n > 0 {
		cfg.Workers = n
	}
	if s := v.GetString("branch"); s != "" {
		cfg.Branch = s
	}
	if n := v.GetInt("depth"); n > 0 {
		cfg.Depth = n
	}
	if s := v.GetString("output"); s != "" {
		cfg.Output = s
	}
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	logger := slog.Default()
	if viper.GetBool("debug") {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		slog.SetDefault(logger)
	}

	cfg, err := loadGenerateConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	apiURL, _ := cmd.Flags().GetString("api-url")

	catalog := ngc.NewCatalogClient(httpclient.NewDefaultClient(0), apiURL)
	resolver := discovery.NewResolver(catalog, ngc.SearchQuery{
		OrgName:  cfg.Org,
		Label:    cfg.Label,
		PageSize: cfg.PageSize,
	}, cfg.Workers, logger)

	logger.Info("Starting blueprint discovery",
		"org", cfg.Org,
		"label", cfg.Label,
		"pageSize", cfg.PageSize,
		"workers", cfg.Workers)

	result, err := resolver.Run(cmd.Context())
	if err != nil {
		if errors.Is(err, discovery.ErrNoRepositories) {
			// Surface the advisory sections before failing the run.
			report.Write(cmd.OutOrStdout(), result, cfg.Output)
		}
		return err
	}

	if err := writer.WriteFile(cfg.Output, result.Repos, cfg.Branch, cfg.Depth); err != nil {
		return err
	}

	report.Write(cmd.OutOrStdout(), result, cfg.Output)
	return nil
}
