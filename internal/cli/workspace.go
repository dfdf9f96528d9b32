package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/time/rate"

	"github.com/aalvaropc/gmscraper/internal/domain"
	"github.com/aalvaropc/gmscraper/internal/infra/classifier"
	"github.com/aalvaropc/gmscraper/internal/infra/config"
	"github.com/aalvaropc/gmscraper/internal/infra/groupmeapi"
	"github.com/aalvaropc/gmscraper/internal/infra/httpclient"
	"github.com/aalvaropc/gmscraper/internal/infra/imagestore"
	"github.com/aalvaropc/gmscraper/internal/infra/logger"
	"github.com/aalvaropc/gmscraper/internal/infra/reportstore"
	"github.com/aalvaropc/gmscraper/internal/infra/workspacefinder"
	"github.com/aalvaropc/gmscraper/internal/ports"
	"github.com/aalvaropc/gmscraper/internal/usecase"
)

const openAIKeyEnv = "OPENAI_API_KEY"

type workspaceCtx struct {
	root  string
	found bool // gmscraper.yaml exists
	cfg   domain.Config
}

// loadWorkspace resolves the root (explicit --config, nearest gmscraper.yaml,
// or the working directory) and loads the configuration over defaults.
func loadWorkspace(configFlag string) (*workspaceCtx, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	finder := workspacefinder.NewFinder()
	root, found, err := finder.ResolveRoot(strings.TrimSpace(configFlag), wd)
	if err != nil {
		return nil, err
	}

	ws := &workspaceCtx{root: root, found: found, cfg: domain.DefaultConfig()}
	if !found {
		return ws, nil
	}

	path := filepath.Join(root, config.FileName)
	if configFlag != "" {
		path, _ = filepath.Abs(configFlag)
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, err
	}
	ws.cfg = cfg
	return ws, nil
}

// setupLogging installs the file logger for the workspace. Failing to open the
// log file is not fatal; records are discarded instead.
func (ws *workspaceCtx) setupLogging(debug bool) func() {
	cleanup, err := logger.Setup(logger.Config{
		Root:  ws.root,
		Dir:   ws.cfg.Paths.LogDir,
		File:  ws.cfg.Paths.LogFile,
		Debug: debug || ws.cfg.Logging.Debug,
	})
	if err != nil || cleanup == nil {
		return func() {}
	}
	return func() { _ = cleanup() }
}

func (ws *workspaceCtx) path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(ws.root, p)
}

func (ws *workspaceCtx) httpClient() httpclient.Config {
	hc := httpclient.DefaultConfig()
	if ws.cfg.API.Timeout > 0 {
		hc.Timeout = ws.cfg.API.Timeout
	}
	return hc
}

func (ws *workspaceCtx) groupSource(token string) *groupmeapi.Client {
	limit := rate.Limit(ws.cfg.API.RateLimit)
	if ws.cfg.API.RateLimit == 0 {
		limit = rate.Inf
	}
	return groupmeapi.New(groupmeapi.Options{
		BaseURL:    ws.cfg.API.BaseURL,
		Token:      token,
		HTTPClient: httpclient.New(ws.httpClient()),
		RateLimit:  limit,
		Burst:      ws.cfg.API.Burst,
		MaxRetries: ws.cfg.API.Retries,
		Logger:     logger.L(),
	})
}

func (ws *workspaceCtx) classifier(name domain.ClassifierName) (ports.AggressionClassifier, error) {
	if name == "" {
		name = ws.cfg.Aggression.Classifier
	}
	switch name {
	case domain.ClassifierOpenAI:
		return classifier.NewOpenAI(classifier.OpenAIConfig{
			APIKey:  os.Getenv(openAIKeyEnv),
			Model:   ws.cfg.Aggression.OpenAIModel,
			Retries: ws.cfg.API.Retries,
		})
	case domain.ClassifierKeyword, "":
		return classifier.NewKeyword(ws.cfg.Aggression.Words), nil
	default:
		return nil, &domain.OpError{
			Op:   "cli.classifier",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("unsupported classifier %q: %w", name, domain.ErrInvalidConfig),
		}
	}
}

func (ws *workspaceCtx) downloader() *usecase.DownloadImages {
	cfg := ws.cfg
	cfg.Paths.DownloadDir = ws.path(cfg.Paths.DownloadDir)

	exec := httpclient.NewExecutor(
		httpclient.WithClient(httpclient.New(ws.httpClient())),
		httpclient.WithMaxBodyBytes(cfg.Downloads.MaxBytes),
	)

	return usecase.NewDownloadImages(
		imagestore.NewFetcher(exec),
		imagestore.NewWriter(),
		imagestore.NewLedger(imagestore.WithLedgerFile(cfg.Downloads.LedgerFile)),
		cfg,
		usecase.WithDownloadLogger(logger.L()),
	)
}

func (ws *workspaceCtx) reportStore() *reportstore.JSONStore {
	return reportstore.NewJSONStore(ws.root, ws.cfg, reportstore.WithIndex(true))
}

// scanner wires the scan pipeline. download and store may be disabled.
func (ws *workspaceCtx) scanner(source ports.GroupSource, cl ports.AggressionClassifier, download, save bool) *usecase.ScanGroup {
	var dl *usecase.DownloadImages
	if download {
		dl = ws.downloader()
	}
	var store ports.ReportStore
	if save {
		store = ws.reportStore()
	}

	return usecase.NewScanGroup(
		usecase.NewFetchMessages(source, ws.cfg.Scan),
		usecase.NewFindAggressive(cl, usecase.WithClassifyWorkers(ws.cfg.Downloads.Workers)),
		dl,
		store,
	)
}
