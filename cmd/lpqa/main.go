package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/crolabs/lpqa/internal/config"
	"github.com/crolabs/lpqa/internal/crawler"
	"github.com/crolabs/lpqa/internal/exitcode"
	"github.com/crolabs/lpqa/internal/logger"
	"github.com/crolabs/lpqa/internal/output"
	"github.com/crolabs/lpqa/internal/runner"
	"github.com/crolabs/lpqa/internal/tracker"
	"github.com/crolabs/lpqa/pkg/models"
)

var (
	version = "dev"
	commit  = ""
)

func main() {
	os.Exit(runCLI(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func runCLI(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return exitcode.ConfigError
	}
	switch args[0] {
	case "run":
		return cmdRun(ctx, args[1:], stdout, stderr)
	case "task":
		return cmdTask(ctx, args[1:], stdout, stderr)
	case "batch":
		return cmdBatch(ctx, args[1:], stdout, stderr)
	case "version":
		fmt.Fprintf(stdout, "lpqa %s %s\n", version, commit)
		return exitcode.OK
	default:
		fmt.Fprintln(stderr, "unknown command:", args[0])
		usage(stderr)
		return exitcode.ConfigError
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: lpqa <run|task|batch|version>")
	fmt.Fprintln(w, "  run <url>         run QA against a landing page URL")
	fmt.Fprintln(w, "  task <task-id>    run QA from a tracker task (reads URL from notes)")
	fmt.Fprintln(w, "  batch <project>   run QA on every open task in a project section")
}

// commonFlags are shared by all subcommands.
type commonFlags struct {
	configPath    string
	outputDir     string
	noScreenshots bool
	post          bool
	strictWarn    bool
	verbose       bool
	noColor       bool
	formID        string
	ctaText       string
	client        string
	campaign      string
	copyDoc       string
	designURL     string
	thankYouURL   string
}

func registerCommon(fs *flag.FlagSet) *commonFlags {
	cf := &commonFlags{}
	fs.StringVar(&cf.configPath, "config", "", "config file path (YAML)")
	fs.StringVar(&cf.outputDir, "output", "", "output directory for reports and screenshots")
	fs.BoolVar(&cf.noScreenshots, "no-screenshots", false, "skip screenshot capture")
	fs.BoolVar(&cf.post, "post", false, "post results back to the tracker task")
	fs.BoolVar(&cf.strictWarn, "strict-warn", false, "warnings count as failures for the exit code")
	fs.BoolVar(&cf.verbose, "verbose", false, "include evidence in terminal output")
	fs.BoolVar(&cf.noColor, "no-color", false, "disable terminal colors")
	fs.StringVar(&cf.formID, "form-id", "", "expected form element ID")
	fs.StringVar(&cf.ctaText, "cta-text", "", "expected CTA button text")
	fs.StringVar(&cf.client, "client", "", "client name")
	fs.StringVar(&cf.campaign, "campaign", "", "campaign name")
	fs.StringVar(&cf.copyDoc, "copy-doc", "", "copy doc URL with approved copy")
	fs.StringVar(&cf.designURL, "design-url", "", "design file URL for reference")
	fs.StringVar(&cf.thankYouURL, "thank-you-url", "", "expected thank-you page URL")
	return cf
}

func loadConfig(cf *commonFlags, stderr io.Writer) (*config.AppConfig, *slog.Logger, error) {
	cfg, err := config.Load(cf.configPath)
	if err != nil {
		return nil, nil, err
	}
	if cf.outputDir != "" {
		cfg.Output.Dir = cf.outputDir
	}
	if cf.noScreenshots {
		cfg.Output.Screenshots = false
	}
	if cf.post {
		cfg.Tracker.PostResults = true
	}
	log := logger.New(stderr, cfg.Logging.Level)
	return cfg, log, nil
}

func buildContext(cf *commonFlags, url, taskID string, cfg *config.AppConfig) *models.QAContext {
	formID := cf.formID
	if formID == "" {
		formID = cfg.Checks.ExpectedFormID
	}
	return &models.QAContext{
		LandingPageURL:  url,
		CopyDocURL:      cf.copyDoc,
		CampaignName:    cf.campaign,
		ClientName:      cf.client,
		TaskID:          taskID,
		ExpectedFormID:  formID,
		ExpectedCTAText: cf.ctaText,
		ThankYouURL:     cf.thankYouURL,
	}
}

// runQA is the core pipeline: crawl, run checks, render every output, and
// optionally post to the tracker. Returns the report and the exit code.
func runQA(ctx context.Context, cfg *config.AppConfig, log *slog.Logger, qa *models.QAContext, cf *commonFlags, stdout, stderr io.Writer) (*models.QAReport, int) {
	runID := uuid.NewString()
	log = log.With("run_id", runID)
	log.Info("starting QA run", "url", qa.LandingPageURL)

	c := crawler.New(cfg.Browser, cfg.Output, log)
	snap, err := c.Crawl(ctx, qa.LandingPageURL)
	if err != nil {
		fmt.Fprintln(stderr, "crawl error:", err)
		return nil, exitcode.RuntimeError
	}

	r := runner.New(cfg.Thresholds, log)
	report := r.Run(ctx, snap, qa)
	now := time.Now()

	if err := output.WriteTerminal(stdout, report, now, output.TerminalOptions{
		Color:   !cf.noColor,
		Verbose: cf.verbose,
	}); err != nil {
		fmt.Fprintln(stderr, "output error:", err)
		return report, exitcode.OutputError
	}

	mdPath, err := output.SaveMarkdown(cfg.Output.Dir, report, now)
	if err != nil {
		fmt.Fprintln(stderr, "output error:", err)
		return report, exitcode.OutputError
	}
	jsonPath, err := output.SaveJSON(cfg.Output.Dir, output.NewEnvelope(report, now))
	if err != nil {
		fmt.Fprintln(stderr, "output error:", err)
		return report, exitcode.OutputError
	}
	log.Info("reports written", "markdown", mdPath, "json", jsonPath)

	if cfg.Tracker.PostResults && qa.TaskID != "" {
		client, err := tracker.NewClient(cfg.Tracker.Token, cfg.Tracker.BaseURL, cfg.Tracker.RequestsPS)
		if err != nil {
			log.Warn("tracker post skipped", "error", err)
		} else if gid, err := client.PostComment(ctx, qa.TaskID, output.TrackerComment(report, now)); err != nil {
			log.Warn("tracker post failed", "error", err)
		} else {
			log.Info("posted tracker comment", "comment_gid", gid)
		}
	}

	return report, exitcode.FromSummary(report.Summary, cf.strictWarn)
}

func cmdRun(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cf := registerCommon(fs)
	taskID := fs.String("task-id", "", "tracker task to post results to")
	if err := fs.Parse(args); err != nil {
		return exitcode.ConfigError
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: lpqa run [flags] <url>")
		return exitcode.ConfigError
	}
	if err := validateURL(fs.Arg(0)); err != nil {
		fmt.Fprintln(stderr, err)
		return exitcode.ConfigError
	}
	cfg, log, err := loadConfig(cf, stderr)
	if err != nil {
		fmt.Fprintln(stderr, "config error:", err)
		return exitcode.ConfigError
	}
	qa := buildContext(cf, fs.Arg(0), *taskID, cfg)
	_, code := runQA(ctx, cfg, log, qa, cf, stdout, stderr)
	return code
}

func cmdTask(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("task", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cf := registerCommon(fs)
	if err := fs.Parse(args); err != nil {
		return exitcode.ConfigError
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: lpqa task [flags] <task-id>")
		return exitcode.ConfigError
	}
	cfg, log, err := loadConfig(cf, stderr)
	if err != nil {
		fmt.Fprintln(stderr, "config error:", err)
		return exitcode.ConfigError
	}

	client, err := tracker.NewClient(cfg.Tracker.Token, cfg.Tracker.BaseURL, cfg.Tracker.RequestsPS)
	if err != nil {
		fmt.Fprintln(stderr, "tracker error:", err)
		return exitcode.ConfigError
	}
	qa, err := client.BuildContext(ctx, fs.Arg(0))
	if err != nil {
		fmt.Fprintln(stderr, "tracker error:", err)
		return exitcode.RuntimeError
	}
	if qa.LandingPageURL == "" {
		fmt.Fprintf(stderr, "no landing page URL found in task %s; add the LP URL to the task notes or use `lpqa run <url>`\n", fs.Arg(0))
		return exitcode.ConfigError
	}
	applyOverrides(qa, cf, cfg)
	if err := validateURL(qa.LandingPageURL); err != nil {
		fmt.Fprintf(stderr, "task %s: %v\n", fs.Arg(0), err)
		return exitcode.ConfigError
	}

	fmt.Fprintf(stdout, "Task: %s\n", orDefault(qa.CampaignName, fs.Arg(0)))
	fmt.Fprintf(stdout, "  LP: %s\n", qa.LandingPageURL)
	if qa.DesignURL != "" {
		fmt.Fprintf(stdout, "  Design: %.60s\n", qa.DesignURL)
	}
	if qa.CopyDocURL != "" {
		fmt.Fprintf(stdout, "  Copy doc: %.60s\n", qa.CopyDocURL)
	}

	_, code := runQA(ctx, cfg, log, qa, cf, stdout, stderr)
	return code
}

func cmdBatch(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("batch", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cf := registerCommon(fs)
	section := fs.String("section", "QA", "project section to scan")
	if err := fs.Parse(args); err != nil {
		return exitcode.ConfigError
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: lpqa batch [flags] <project-id>")
		return exitcode.ConfigError
	}
	cfg, log, err := loadConfig(cf, stderr)
	if err != nil {
		fmt.Fprintln(stderr, "config error:", err)
		return exitcode.ConfigError
	}
	client, err := tracker.NewClient(cfg.Tracker.Token, cfg.Tracker.BaseURL, cfg.Tracker.RequestsPS)
	if err != nil {
		fmt.Fprintln(stderr, "tracker error:", err)
		return exitcode.ConfigError
	}

	tasks, err := client.ListOpenTasksInSection(ctx, fs.Arg(0), *section)
	if err != nil {
		if errors.Is(err, tracker.ErrSectionNotFound) {
			fmt.Fprintln(stderr, err)
			return exitcode.ConfigError
		}
		fmt.Fprintln(stderr, "tracker error:", err)
		return exitcode.RuntimeError
	}
	fmt.Fprintf(stdout, "Found %d open task(s) in section %q.\n", len(tasks), *section)

	// one bad task must not stop the batch
	worst := exitcode.OK
	for i, task := range tasks {
		fmt.Fprintf(stdout, "\n[%d/%d] %s\n", i+1, len(tasks), task.Name)
		qa, err := client.BuildContext(ctx, task.GID)
		if err != nil {
			log.Error("task context failed", "task", task.GID, "error", err)
			worst = max(worst, exitcode.RuntimeError)
			continue
		}
		if qa.LandingPageURL == "" {
			fmt.Fprintln(stdout, "  no LP URL found, skipping")
			continue
		}
		applyOverrides(qa, cf, cfg)
		if err := validateURL(qa.LandingPageURL); err != nil {
			fmt.Fprintf(stdout, "  %v, skipping\n", err)
			worst = max(worst, exitcode.ConfigError)
			continue
		}
		_, code := runQA(ctx, cfg, log, qa, cf, stdout, stderr)
		worst = max(worst, code)
	}
	return worst
}

// applyOverrides layers CLI flags over the context built from a task.
func applyOverrides(qa *models.QAContext, cf *commonFlags, cfg *config.AppConfig) {
	if cf.client != "" {
		qa.ClientName = cf.client
	}
	if cf.campaign != "" {
		qa.CampaignName = cf.campaign
	}
	if cf.copyDoc != "" {
		qa.CopyDocURL = cf.copyDoc
	}
	if cf.designURL != "" {
		qa.DesignURL = cf.designURL
	}
	if cf.ctaText != "" {
		qa.ExpectedCTAText = cf.ctaText
	}
	if cf.thankYouURL != "" {
		qa.ThankYouURL = cf.thankYouURL
	}
	qa.ExpectedFormID = cf.formID
	if qa.ExpectedFormID == "" {
		qa.ExpectedFormID = cfg.Checks.ExpectedFormID
	}
}

// validateURL rejects anything the browser cannot navigate to before a
// crawl is started.
func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %v", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid URL %q: missing host", raw)
	}
	return nil
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
