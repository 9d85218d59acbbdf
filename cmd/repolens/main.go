package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quantmind-br/repolens/internal/app"
	"github.com/quantmind-br/repolens/internal/config"
	"github.com/quantmind-br/repolens/internal/manifest"
	"github.com/quantmind-br/repolens/internal/output"
	"github.com/quantmind-br/repolens/internal/plugins"
	"github.com/quantmind-br/repolens/internal/report"
	"github.com/quantmind-br/repolens/internal/tui"
	"github.com/quantmind-br/repolens/internal/utils"
	"github.com/quantmind-br/repolens/pkg/version"
)

const defaultAPIURL = "https://api.github.com/"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// cli holds flag state for one command tree
type cli struct {
	v          *viper.Viper
	cfgFile    string
	reference  string
	force      bool
	noProgress bool
	verbose    bool
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "repolens [path|url]",
		Short: "Examine repository metadata",
		Long: `RepoLens examines a git repository at a given reference and reports
what it finds: README, license, changelog, docs, maintainers, badges and
more, merged into a single JSON or YAML document.

Local repositories are examined through a disposable clone, so the working
tree is never touched. Hosted repositories are read through the GitHub API
without cloning. Given a bare argument, repolens examines it locally when it
names a directory and through the API otherwise.`,
		Version:       version.Short(),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return c.examine(cmd, func(ctx context.Context, o *app.Orchestrator, opts app.Options) (report.Report, error) {
				return o.Examine(ctx, args[0], opts)
			})
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.cfgFile, "config", "", "config file (default is ~/.repolens/config.yaml)")
	flags.StringVarP(&c.reference, "reference", "r", "", "Branch, tag or commit to examine (default HEAD)")
	flags.StringSliceP("plugins", "p", nil, "Plugins to run (default all)")
	flags.StringP("output", "o", "", "Write the report to a file instead of stdout")
	flags.StringP("format", "f", config.DefaultOutputFormat, "Report format: json or yaml")
	flags.BoolVar(&c.force, "force", false, "Overwrite an existing output file")
	flags.BoolVar(&c.noProgress, "no-progress", false, "Hide the progress bar")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "Verbose output")

	_ = c.v.BindPFlag("plugins", flags.Lookup("plugins"))
	_ = c.v.BindPFlag("output.file", flags.Lookup("output"))
	_ = c.v.BindPFlag("output.format", flags.Lookup("format"))

	rootCmd.AddCommand(c.localCmd())
	rootCmd.AddCommand(c.remoteCmd())
	rootCmd.AddCommand(c.batchCmd())
	rootCmd.AddCommand(c.pluginsCmd())
	rootCmd.AddCommand(c.doctorCmd())
	rootCmd.AddCommand(c.configCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func (c *cli) localCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "local [path]",
		Short: "Examine a local git repository",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) == 1 {
				path = args[0]
			}
			return c.examine(cmd, func(ctx context.Context, o *app.Orchestrator, opts app.Options) (report.Report, error) {
				return o.Local(ctx, path, opts)
			})
		},
	}
}

func (c *cli) remoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remote <url>",
		Short: "Examine a hosted GitHub repository",
		Example: `  repolens remote https://github.com/owner/repo
  repolens remote git@github.com:owner/repo.git -r v1.2.0 -p readme,license`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.examine(cmd, func(ctx context.Context, o *app.Orchestrator, opts app.Options) (report.Report, error) {
				return o.Remote(ctx, args[0], opts)
			})
		},
	}
}

func (c *cli) batchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch <manifest>",
		Short: "Examine every repository listed in a manifest file",
		Long: `Examine every repository listed in a YAML or JSON manifest and write one
report per repository into the manifest's output directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := manifest.NewLoader().Load(args[0])
			if err != nil {
				return err
			}

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			log := c.newLogger(cmd, cfg)

			orchestrator, err := app.NewOrchestrator(app.OrchestratorOptions{
				Config:  cfg,
				Verbose: c.verbose,
				Logger:  log,
			})
			if err != nil {
				return fmt.Errorf("failed to create orchestrator: %w", err)
			}

			ctx, stop := c.handleSignals(cmd, orchestrator, log)
			defer stop()

			bar := utils.NewProgressBar(utils.ProgressBarOptions{
				Description: utils.DescExamining,
				Output:      cmd.ErrOrStderr(),
				Hidden:      c.noProgress,
			})
			var mu sync.Mutex
			done := 0

			_, err = orchestrator.RunManifest(ctx, m, func(ctx context.Context, i int, source manifest.Source, r report.Report) error {
				writer, err := output.NewWriter(output.WriterOptions{
					Format: m.Options.Format,
					File:   m.OutputPath(i),
					Force:  c.force,
				})
				if err != nil {
					return err
				}
				if err := writer.Write(ctx, r); err != nil {
					return err
				}

				mu.Lock()
				done++
				_ = bar.Set(done * 100 / len(m.Sources))
				mu.Unlock()
				return nil
			})
			if err != nil {
				_ = bar.Clear()
				return err
			}
			_ = bar.Finish()
			return nil
		},
	}
}

func (c *cli) pluginsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plugins",
		Short: "List the available plugins in execution order",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range plugins.Names(plugins.Builtin()) {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
}

// runEditor is swapped out in tests, which have no terminal
var runEditor = tui.Run

func (c *cli) configCmd() *cobra.Command {
	var accessible bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Edit the configuration file interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if errors.Is(err, fs.ErrNotExist) {
				// First edit of an explicit --config file
				cfg, err = config.Default(), nil
			}
			if err != nil {
				return err
			}
			path := c.configPath()
			return runEditor(tui.Options{
				Config:     cfg,
				Path:       path,
				Accessible: accessible,
				SaveFunc: func(updated *config.Config) error {
					return config.Save(updated, path)
				},
			})
		},
	}
	cmd.Flags().BoolVar(&accessible, "accessible", false, "use accessible prompts instead of the full-screen editor")

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			data, err := config.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), c.configPath())
		},
	})
	return cmd
}

func (c *cli) configPath() string {
	if c.cfgFile != "" {
		return utils.ExpandPath(c.cfgFile)
	}
	return config.ConfigFilePath()
}

func (c *cli) loadConfig() (*config.Config, error) {
	if err := config.LoadDotEnv(config.DotEnvFile); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", config.DotEnvFile, err)
	}
	if c.cfgFile != "" {
		c.v.SetConfigFile(c.cfgFile)
	}
	cfg, err := config.LoadFrom(c.v)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func (c *cli) newLogger(cmd *cobra.Command, cfg *config.Config) *utils.Logger {
	return utils.NewLogger(utils.LoggerOptions{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Output:  cmd.ErrOrStderr(),
		Verbose: c.verbose,
	})
}

// handleSignals returns a context cancelled on SIGINT or SIGTERM, at which
// point live clones are removed. The returned func releases the handler.
func (c *cli) handleSignals(cmd *cobra.Command, orchestrator *app.Orchestrator, log *utils.Logger) (context.Context, func()) {
	ctx, cancel := context.WithCancel(cmd.Context())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			log.Info().Msg("Shutting down gracefully...")
			cancel()
			if err := orchestrator.Cleanup(); err != nil {
				log.Warn().Err(err).Msg("Failed to remove clones")
			}
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigCh)
		cancel()
	}
}

type examineFunc func(ctx context.Context, o *app.Orchestrator, opts app.Options) (report.Report, error)

func (c *cli) examine(cmd *cobra.Command, run examineFunc) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	log := c.newLogger(cmd, cfg)

	writer, err := output.NewWriter(output.WriterOptions{
		Format: cfg.Output.Format,
		File:   cfg.Output.File,
		Force:  c.force,
		Stdout: cmd.OutOrStdout(),
	})
	if err != nil {
		return err
	}

	orchestrator, err := app.NewOrchestrator(app.OrchestratorOptions{
		Config:  cfg,
		Verbose: c.verbose,
		Logger:  log,
	})
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}

	ctx, stop := c.handleSignals(cmd, orchestrator, log)
	defer stop()

	bar := utils.NewProgressBar(utils.ProgressBarOptions{
		Description: utils.DescExamining,
		Output:      cmd.ErrOrStderr(),
		Hidden:      c.noProgress,
	})

	result, err := run(ctx, orchestrator, app.Options{
		Reference: c.reference,
		Progress: func(p app.Progress) {
			_ = bar.Set(p.Percentage)
		},
	})
	if err != nil {
		_ = bar.Clear()
		return err
	}
	_ = bar.Finish()

	return writer.Write(ctx, result)
}

func (c *cli) doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration and connectivity",
		Long:  "Verifies that the configuration loads, the GitHub API is reachable and clones can be created.",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Checking environment...")
			allPassed := true

			fmt.Fprint(out, "  Config file: ")
			cfg, err := c.loadConfig()
			if err != nil {
				fmt.Fprintf(out, "WARN (%v)\n", err)
				cfg = config.Default()
			} else {
				fmt.Fprintln(out, "OK")
			}

			apiURL := cfg.GitHub.BaseURL
			if apiURL == "" {
				apiURL = defaultAPIURL
			}
			fmt.Fprint(out, "  GitHub API: ")
			if checkGitHub(cmd.Context(), apiURL) {
				fmt.Fprintf(out, "OK (%s)\n", apiURL)
			} else {
				fmt.Fprintf(out, "FAILED (%s)\n", apiURL)
				allPassed = false
			}

			fmt.Fprint(out, "  GitHub token: ")
			if os.Getenv(config.TokenEnv) != "" {
				fmt.Fprintln(out, "OK")
			} else {
				fmt.Fprintf(out, "NOT SET (%s; unauthenticated rate limits apply)\n", config.TokenEnv)
			}

			fmt.Fprint(out, "  Clone directory: ")
			if dir, ok := checkTempDir(cfg.Clone.TempDir); ok {
				fmt.Fprintf(out, "OK (%s)\n", dir)
			} else {
				fmt.Fprintf(out, "FAILED (%s)\n", dir)
				allPassed = false
			}

			fmt.Fprintln(out)
			if allPassed {
				fmt.Fprintln(out, "All critical checks passed!")
			} else {
				fmt.Fprintln(out, "Some checks failed. Please resolve the issues above.")
			}
			return nil
		},
	}
}

// checkGitHub checks that the API root answers
func checkGitHub(ctx context.Context, apiURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, apiURL, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", version.UserAgent())

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < 500
}

// checkTempDir checks that a clone directory can be created under dir
func checkTempDir(dir string) (string, bool) {
	dir = utils.ExpandPath(dir)
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return dir, false
	}
	probe, err := os.MkdirTemp(dir, "repolens-doctor-*")
	if err != nil {
		return dir, false
	}
	os.RemoveAll(probe)
	return dir, true
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Full())
		},
	}
}
