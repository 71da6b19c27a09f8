package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"resilience_assessment/internal/client"
	"resilience_assessment/internal/config"
	"resilience_assessment/internal/model"
	"resilience_assessment/internal/questionnaire"
	"resilience_assessment/internal/service"
	"resilience_assessment/internal/util"
	"resilience_assessment/pkg/configwatcher"
	"resilience_assessment/pkg/logger"
	"resilience_assessment/pkg/monitoring"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type options struct {
	configDir    string
	baseURL      string
	token        string
	organization string
	assessor     string
	role         string
	exports      string
	pdfPath      string
	print        bool
	metricsFile  string
	debug        bool
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.configDir, "config", "configs", "配置文件目录")
	flag.StringVar(&o.baseURL, "base-url", "", "评估服务地址，覆盖配置中的 autosave.base_url")
	flag.StringVar(&o.token, "token", os.Getenv("ASSESS_SESSION_TOKEN"), "继续已有会话的令牌")
	flag.StringVar(&o.organization, "org", "", "组织名称")
	flag.StringVar(&o.assessor, "assessor", "", "评估人")
	flag.StringVar(&o.role, "role", "", "评估人角色")
	flag.StringVar(&o.exports, "export", "", "完成后导出的格式，逗号分隔（json,csv,txt）")
	flag.StringVar(&o.pdfPath, "pdf", "", "生成 PDF 报告的路径")
	flag.BoolVar(&o.print, "print", false, "完成后输出打印版报告")
	flag.StringVar(&o.metricsFile, "metrics-file", "", "退出时写入 prometheus 文本格式指标")
	flag.BoolVar(&o.debug, "debug", false, "调试日志")
	flag.Parse()
	return o
}

func loadConfig(dir string) *config.Config {
	cfg, err := config.LoadConfig(dir)
	if err != nil {
		cfg = &config.Config{}
		cfg.AutoSave.BaseURL = "http://localhost:8080"
		cfg.Export.Artifact = "ransomware_assessment"
	}
	return cfg
}

func main() {
	// .env 可选，用于本地保存会话令牌和服务地址
	_ = godotenv.Load()

	opts := parseFlags()
	cfg := loadConfig(opts.configDir)

	logger.InitClientLogger(opts.debug)
	defer logger.Log.Sync()

	registry := prometheus.NewRegistry()
	monitoring.InitClient(registry)

	baseURL := cfg.AutoSave.BaseURL
	if opts.baseURL != "" {
		baseURL = opts.baseURL
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, opts, baseURL); err != nil {
		fmt.Fprintln(os.Stderr, "assess:", err)
		logger.Log.Error("assessment client failed", zap.Error(err))
	}

	if opts.metricsFile != "" {
		if err := prometheus.WriteToTextfile(opts.metricsFile, registry); err != nil {
			logger.Log.Warn("failed to write metrics file", zap.Error(err))
		}
	}
}

type prompter struct {
	in *bufio.Scanner
}

func (p *prompter) ask(label string) (string, bool) {
	fmt.Printf("%s: ", label)
	if !p.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(p.in.Text()), true
}

func run(ctx context.Context, cfg *config.Config, opts options, baseURL string) error {
	api := client.NewAssessmentClient(baseURL, &http.Client{Timeout: 15 * time.Second})
	api.SetToken(opts.token)
	in := &prompter{in: bufio.NewScanner(os.Stdin)}

	status, err := api.SessionStatus(ctx)
	if err != nil {
		return fmt.Errorf("session status: %w", err)
	}
	if !status.SessionActive {
		req := model.StartRequest{Organization: opts.organization, Assessor: opts.assessor, Role: opts.role}
		if req.Organization == "" {
			req.Organization, _ = in.ask("Organization")
		}
		if req.Assessor == "" {
			req.Assessor, _ = in.ask("Assessor")
		}
		if req.Role == "" {
			req.Role, _ = in.ask("Role")
		}
		started, err := api.Start(ctx, req)
		if err != nil {
			return fmt.Errorf("start assessment: %w", err)
		}
		fmt.Printf("Session started. Resume later with -token %s\n\n", started.Token)
	} else {
		fmt.Printf("Resuming assessment for %s (%s), %s complete\n\n",
			status.Organization, status.Assessor, util.FormatPercent(status.Progress))
	}

	def, err := api.Questions(ctx)
	if err != nil {
		return fmt.Errorf("load questions: %w", err)
	}

	console := client.NewConsole(os.Stdout)
	store := service.NewResponseStore()
	aggregator := service.NewProgressAggregator(store, def)
	if status.SessionActive {
		n, err := api.RestoreResponses(ctx, store)
		if err != nil {
			return fmt.Errorf("restore saved responses: %w", err)
		}
		for _, r := range store.Snapshot() {
			console.MarkCompleted(r.Stage, r.QuestionID)
		}
		fmt.Printf("Restored %d saved responses\n", n)
		console.Progress(service.ProgressUpdate{
			Overall:  aggregator.ComputeOverallProgress(),
			Stages:   aggregator.AllStages(),
			Reported: status.Progress,
		})
	}
	coordinator := service.NewAutoSaveCoordinator(api, store, aggregator, console, service.AutoSaveOptions{
		Debounce:   cfg.AutoSave.Debounce(),
		Marker:     console,
		OnProgress: console.Progress,
	})
	defer coordinator.Close()

	watchCtx, cancelWatch := context.WithCancel(ctx)
	defer cancelWatch()
	go func() {
		err := configwatcher.WatchConfig(watchCtx, filepath.Join(opts.configDir, "config.yaml"), func(newCfg *config.Config) {
			coordinator.SetDebounce(newCfg.AutoSave.Debounce())
		})
		if err != nil {
			logger.Log.Debug("config watcher not started", zap.Error(err))
		}
	}()

	quit := walkQuestions(ctx, in, def, coordinator)

	flushCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := coordinator.Flush(flushCtx); err != nil {
		logger.Log.Warn("some responses were not saved", zap.Error(err))
	}
	coordinator.Wait()

	if quit {
		fmt.Println("Progress saved. Run again with the same token to continue.")
	}
	return finish(ctx, cfg, opts, api)
}

// walkQuestions 逐题作答；输入 q 提前退出
func walkQuestions(ctx context.Context, in *prompter, def *questionnaire.Definition, coordinator *service.AutoSaveCoordinator) bool {
	for _, sec := range def.Sections {
		fmt.Printf("\n== %s ==\n%s\n", sec.Title, sec.Description)
		for _, q := range sec.Questions {
			if ctx.Err() != nil {
				return true
			}
			fmt.Printf("\n[%s] %s\n", q.MitreTechnique, q.Prompt)
			for i, o := range q.Options {
				fmt.Printf("  %d) %s\n", i+1, o.Text)
			}

			answer, ok := in.ask("Choice (enter to skip, q to quit)")
			if !ok || answer == "q" {
				return true
			}
			if answer == "" {
				continue
			}
			idx, err := strconv.Atoi(answer)
			if err != nil || idx < 1 || idx > len(q.Options) {
				fmt.Println("  invalid choice, skipped")
				continue
			}
			opt := q.Options[idx-1]
			coordinator.OnAnswerChanged(sec.Stage, q.ID, opt.Value, opt.Text)

			comments, ok := in.ask("Comments (optional)")
			if !ok {
				return true
			}
			coordinator.OnCommentsChanged(sec.Stage, q.ID, comments)
		}
	}
	return false
}

func finish(ctx context.Context, cfg *config.Config, opts options, api *client.AssessmentClient) error {
	for _, format := range strings.Split(opts.exports, ",") {
		format = strings.ToLower(strings.TrimSpace(format))
		if format == "" {
			continue
		}
		data, err := api.Export(ctx, format)
		if err != nil {
			fmt.Printf("Export %s failed: %v\n", format, err)
			continue
		}
		name := service.ExportFilename(cfg.ExportArtifact(), format)
		if err := os.WriteFile(name, []byte(data), 0644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		fmt.Printf("Exported %s\n", name)
	}

	if opts.pdfPath == "" && !opts.print {
		return nil
	}

	results, err := api.Results(ctx)
	if errors.Is(err, util.ErrServerRejection) {
		fmt.Println("No results yet, answer at least one question before generating a report.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load results: %w", err)
	}

	report := service.NewReportAssembler().Assemble(results.Summary)
	renderer := service.NewRenderService()

	if opts.pdfPath != "" {
		data, err := renderer.RenderPDFBytes(report)
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.pdfPath, data, 0644); err != nil {
			return fmt.Errorf("write %s: %w", opts.pdfPath, err)
		}
		fmt.Printf("Report written to %s\n", opts.pdfPath)
	}
	if opts.print {
		fmt.Println()
		fmt.Print(renderer.RenderPrint(report))
	}
	return nil
}
