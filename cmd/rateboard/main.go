// Package main provides the CLI entrypoint for rateboard.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"rateboard/internal/catalog"
	"rateboard/internal/config"
	"rateboard/internal/model"
	"rateboard/internal/rater"
	"rateboard/internal/session"
	"rateboard/internal/stats"
	"rateboard/internal/statsui"
	"rateboard/internal/store"
	"rateboard/internal/tui"
)

const (
	defaultStoreKind   = "sqlite"
	defaultWorksheet   = "Ratings"
	defaultStatsWindow = 5
	defaultStatsTop    = 10
	defaultSampleSize  = 12
)

var (
	sessionConfigPath    string
	sessionCatalog       string
	sessionStore         string
	sessionDB            string
	sessionSpreadsheetID string
	sessionCredentials   string
	sessionWorksheet     string
	sessionRater         string

	statsRater  string
	statsUI     bool
	statsWidth  int
	statsWindow int
	statsTop    int

	exportRater string
	exportOut   string

	sampleProblems int
	sampleSeed     int64

	configShowPath bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "rateboard",
		Short:         "TUI severity rating for flagged survey problems",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runRateCmd,
	}

	rootCmd.PersistentFlags().StringVar(&sessionConfigPath, "config", "", "config file path (default: XDG config dir)")
	rootCmd.PersistentFlags().StringVar(&sessionCatalog, "catalog", "", "problem catalog CSV path")
	rootCmd.PersistentFlags().StringVar(&sessionStore, "store", defaultStoreKind, "rating store backend (sheet, sqlite or memory)")
	rootCmd.PersistentFlags().StringVar(&sessionDB, "db", "", "SQLite database path (sqlite store)")
	rootCmd.PersistentFlags().StringVar(&sessionSpreadsheetID, "spreadsheet-id", "", "Google spreadsheet id (sheet store)")
	rootCmd.PersistentFlags().StringVar(&sessionCredentials, "credentials", "", "service account credentials file (sheet store)")
	rootCmd.PersistentFlags().StringVar(&sessionWorksheet, "worksheet", defaultWorksheet, "worksheet name (sheet store)")
	rootCmd.Flags().StringVar(&sessionRater, "rater", "", "rater name")

	rootCmd.AddCommand(newRatersCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newCatalogCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runRateCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(configPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applySessionConfig(cmd, fileCfg)
	applyStringConfig(cmd, "rater", &sessionRater, fileCfg.Session.Rater)

	raterID, err := resolveRater(sessionRater)
	if err != nil {
		return err
	}
	problems, err := loadCatalog(catalogPath())
	if err != nil {
		return err
	}
	sess, err := session.New(raterID, len(problems))
	if err != nil {
		return err
	}

	ctx := context.Background()
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore(st)

	ui := tui.NewModel(st, sess, problems)
	program := tea.NewProgram(ui, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	if _, ok := st.(*store.Memory); ok {
		ratings, err := st.All(ctx)
		if err == nil {
			count := 0
			for _, r := range ratings {
				if r.RaterID == raterID {
					count++
				}
			}
			if count > 0 {
				logErrf("memory store: %d rating(s) end with this process; exported CSVs are kept\n", count)
			}
		}
	}
	return nil
}

func newRatersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "raters",
		Short: "List known raters and their assigned ranges",
		Args:  cobra.NoArgs,
		RunE:  runRatersCmd,
	}
}

func runRatersCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(configPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applySessionConfig(cmd, fileCfg)

	problems, err := loadCatalog(catalogPath())
	if err != nil {
		return err
	}
	for _, name := range rater.Names() {
		lo, hi, err := rater.Resolve(name, len(problems))
		if err != nil {
			return err
		}
		assignment, _ := rater.AssignmentFor(name)
		span := "no problems"
		if hi > lo {
			span = fmt.Sprintf("problems %d-%d (%d)", lo+1, hi, hi-lo)
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-10s %-12s %s\n", name, assignment, span); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show rating progress and severity",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsRater, "rater", "", "limit per-rater rows to one rater")
	cmd.Flags().BoolVar(&statsUI, "ui", false, "open the interactive stats browser")
	cmd.Flags().IntVar(&statsWidth, "width", 0, "plot width (default: terminal width)")
	cmd.Flags().IntVar(&statsWindow, "window", defaultStatsWindow, "moving average window for severity curves")
	cmd.Flags().IntVar(&statsTop, "top", defaultStatsTop, "rows in the most-severe table")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(configPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applySessionConfig(cmd, fileCfg)

	if statsRater != "" {
		if _, err := resolveRater(statsRater); err != nil {
			return err
		}
	}
	if statsWindow < 1 {
		return fmt.Errorf("--window must be >= 1")
	}
	if statsTop < 1 {
		return fmt.Errorf("--top must be >= 1")
	}

	problems, err := loadCatalog(catalogPath())
	if err != nil {
		return err
	}

	ctx := context.Background()
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore(st)

	cfg := model.StatsConfig{
		RaterID:   statsRater,
		PlotWidth: statsWidth,
		TopN:      statsTop,
		Window:    statsWindow,
	}

	if statsUI {
		ui := statsui.NewModel(st, problems, cfg)
		program := tea.NewProgram(ui, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run stats TUI: %w", err)
		}
		return nil
	}

	report, err := stats.BuildReport(ctx, st, problems)
	if err != nil {
		return fmt.Errorf("failed to load ratings: %w", err)
	}
	report = report.FilterRater(statsRater)

	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, report); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderRaterTable(out, report); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderSevereTable(out, report, cfg.TopN); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if cfg.PlotWidth > 0 {
		err = stats.RenderSeverityCurvesWithSize(out, report, cfg.Window, cfg.PlotWidth, 10, false)
	} else {
		err = stats.RenderSeverityCurves(out, report, cfg.Window)
	}
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export one rater's ratings to CSV",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVar(&exportRater, "rater", "", "rater name")
	cmd.Flags().StringVar(&exportOut, "out", "", "output path (default: {rater}_ratings_{date}.csv)")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(configPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applySessionConfig(cmd, fileCfg)
	applyStringConfig(cmd, "rater", &exportRater, fileCfg.Session.Rater)

	raterID, err := resolveRater(exportRater)
	if err != nil {
		return err
	}

	ctx := context.Background()
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore(st)

	ratings, err := st.All(ctx)
	if err != nil {
		return fmt.Errorf("failed to load ratings: %w", err)
	}

	path := exportOut
	if path == "" {
		path = store.ExportFileName(raterID, time.Now())
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := store.WriteCSV(f, ratings, raterID); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write export: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close export file: %w", err)
	}
	logErrf("Wrote %s\n", path)
	return nil
}

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect or generate problem catalogs",
	}
	cmd.AddCommand(newCatalogValidateCmd())
	cmd.AddCommand(newCatalogSampleCmd())
	return cmd
}

func newCatalogValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Parse the catalog and report problems",
		Args:  cobra.NoArgs,
		RunE:  runCatalogValidateCmd,
	}
}

func runCatalogValidateCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(configPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applySessionConfig(cmd, fileCfg)

	path := catalogPath()
	problems, err := catalog.Load(path)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s: %d problems\n", path, len(problems)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	half := len(problems) / 2
	if half > 0 {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "first half 1-%d, second half %d-%d\n", half, half+1, len(problems)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newCatalogSampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Write a synthetic catalog CSV to stdout",
		Args:  cobra.NoArgs,
		RunE:  runCatalogSampleCmd,
	}
	cmd.Flags().IntVar(&sampleProblems, "problems", defaultSampleSize, "number of problems")
	cmd.Flags().Int64Var(&sampleSeed, "seed", 0, "random seed (0: time-based)")
	return cmd
}

func runCatalogSampleCmd(cmd *cobra.Command, _ []string) error {
	if sampleProblems <= 0 {
		return fmt.Errorf("--problems must be > 0")
	}
	sampler := catalog.NewSampler()
	if sampleSeed != 0 {
		sampler = catalog.NewSeededSampler(sampleSeed)
	}
	if err := sampler.WriteSample(cmd.OutOrStdout(), sampleProblems); err != nil {
		return fmt.Errorf("failed to write sample catalog: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
	cmd.Flags().BoolVar(&configShowPath, "path", false, "print the config path instead of opening an editor")
	return cmd
}

func runConfigCmd(cmd *cobra.Command, _ []string) error {
	path := configPath()
	if configShowPath {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), path); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	run := exec.Command(parts[0], append(parts[1:], path)...)
	run.Stdin = os.Stdin
	run.Stdout = os.Stdout
	run.Stderr = os.Stderr
	if err := run.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applySessionConfig(cmd *cobra.Command, fileCfg config.FileConfig) {
	applyStringConfig(cmd, "catalog", &sessionCatalog, fileCfg.Session.Catalog)
	applyStringConfig(cmd, "store", &sessionStore, fileCfg.Session.Store)
	applyStringConfig(cmd, "db", &sessionDB, fileCfg.SQLite.DB)
	applyStringConfig(cmd, "spreadsheet-id", &sessionSpreadsheetID, fileCfg.Sheet.SpreadsheetID)
	applyStringConfig(cmd, "credentials", &sessionCredentials, fileCfg.Sheet.Credentials)
	applyStringConfig(cmd, "worksheet", &sessionWorksheet, fileCfg.Sheet.Worksheet)
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func configPath() string {
	if sessionConfigPath != "" {
		return sessionConfigPath
	}
	return config.DefaultConfigPath()
}

func catalogPath() string {
	if sessionCatalog != "" {
		return sessionCatalog
	}
	return config.DefaultCatalogPath()
}

func openStore(ctx context.Context) (store.Store, error) {
	kind, err := store.ParseKind(sessionStore)
	if err != nil {
		return nil, err
	}
	switch kind {
	case store.KindSheet:
		if sessionSpreadsheetID == "" {
			return nil, sheetConfigError("spreadsheet id is not set")
		}
		if sessionCredentials == "" {
			return nil, sheetConfigError("credentials file is not set")
		}
		if _, err := os.Stat(sessionCredentials); err != nil {
			return nil, sheetConfigError(fmt.Sprintf("credentials file is not readable: %v", err))
		}
		st, err := store.OpenSheet(ctx, sessionSpreadsheetID, sessionCredentials, sessionWorksheet)
		if err != nil {
			return nil, fmt.Errorf("failed to open sheet store: %w", err)
		}
		return st, nil
	case store.KindMemory:
		return store.NewMemory(), nil
	default:
		path := sessionDB
		if path == "" {
			path = config.DefaultDBPath()
		}
		st, err := store.OpenSQLite(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open ratings db: %w", err)
		}
		return st, nil
	}
}

func closeStore(st store.Store) {
	if err := st.Close(); err != nil {
		logErrf("failed to close store: %v\n", err)
	}
}

func loadCatalog(path string) ([]model.Problem, error) {
	problems, err := catalog.Load(path)
	if err != nil {
		return nil, catalogLoadError(path, err)
	}
	return problems, nil
}

func catalogLoadError(path string, err error) error {
	lines := []string{
		fmt.Sprintf("failed to load problem catalog: %v", err),
		fmt.Sprintf("expected catalog at: %s", path),
		"The catalog is a CSV with columns question_id, question_text, response_options, problem_description.",
		"Generate a sample: rateboard catalog sample > problems.csv",
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}

func resolveRater(name string) (string, error) {
	if name == "" {
		lines := []string{
			"no rater specified",
			"Pass --rater or set [session] rater in the config file.",
			fmt.Sprintf("Known raters: %s", strings.Join(rater.Names(), ", ")),
		}
		return "", fmt.Errorf("%s", strings.Join(lines, "\n"))
	}
	if _, ok := rater.AssignmentFor(name); !ok {
		lines := []string{fmt.Sprintf("unknown rater %q", name)}
		if hint := rater.Suggest(name); hint != "" {
			lines = append(lines, fmt.Sprintf("Did you mean %q?", hint))
		}
		lines = append(lines, fmt.Sprintf("Known raters: %s", strings.Join(rater.Names(), ", ")))
		return "", fmt.Errorf("%s", strings.Join(lines, "\n"))
	}
	return name, nil
}

func sheetConfigError(problem string) error {
	lines := []string{
		fmt.Sprintf("sheet store is not configured: %s", problem),
		"Set [sheet] spreadsheet_id and credentials in the config file,",
		"or pass --spreadsheet-id and --credentials.",
		"Example: rateboard --store sheet --spreadsheet-id <id> --credentials service_account.json",
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# rateboard configuration
# Uncomment a line to set it. Flags on the command line win over this file.

[session]
# rater = "Tom"             # Rater name (known: %s)
# catalog = %q              # Problem catalog CSV
# store = %q                # Rating store: sheet, sqlite or memory

[sheet]
# spreadsheet_id = ""       # Google spreadsheet id
# credentials = "service_account.json"
# worksheet = %q            # Worksheet holding the ratings

[sqlite]
# db = %q                   # SQLite database path
`,
		strings.Join(rater.Names(), ", "),
		config.DefaultCatalogPath(),
		defaultStoreKind,
		defaultWorksheet,
		config.DefaultDBPath(),
	)
}

func logErrf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
}
