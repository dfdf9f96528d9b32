package domain

import "time"

// ClassifierName selects how messages are checked for aggression.
type ClassifierName string

const (
	ClassifierKeyword ClassifierName = "keyword"
	ClassifierOpenAI  ClassifierName = "openai"
)

// Config represents the gmscraper configuration loaded from gmscraper.yaml.
type Config struct {
	API        APIConfig
	Scan       ScanConfig
	Aggression AggressionConfig
	Downloads  DownloadsConfig
	Paths      PathsConfig
	Logging    LoggingConfig
	Masking    MaskingConfig
}

type APIConfig struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64 // requests per second
	Burst     int
	Retries   int
}

type ScanConfig struct {
	MaxMessages  int
	PageSize     int
	PreviewLimit int
}

type AggressionConfig struct {
	Classifier  ClassifierName
	Words       []string
	OpenAIModel string
}

type DownloadsConfig struct {
	Workers     int
	MaxBytes    int64
	ImageSuffix string
	LedgerFile  string
}

type PathsConfig struct {
	DownloadDir string
	ReportsDir  string
	LogDir      string
	LogFile     string
}

type LoggingConfig struct {
	Debug bool
}

type MaskingConfig struct {
	Enabled bool
}

// DefaultAggressiveWords is the built-in keyword list.
var DefaultAggressiveWords = []string{"hate", "kill", "stupid", "shut up", "dumb", "idiot"}

// DefaultConfig provides sane defaults if gmscraper.yaml is missing or partial.
func DefaultConfig() Config {
	words := make([]string, len(DefaultAggressiveWords))
	copy(words, DefaultAggressiveWords)

	return Config{
		API: APIConfig{
			BaseURL:   "https://api.groupme.com/v3",
			Timeout:   30 * time.Second,
			RateLimit: 5,
			Burst:     5,
			Retries:   2,
		},
		Scan: ScanConfig{
			MaxMessages:  10000,
			PageSize:     100,
			PreviewLimit: 10,
		},
		Aggression: AggressionConfig{
			Classifier:  ClassifierKeyword,
			Words:       words,
			OpenAIModel: "gpt-4o-mini",
		},
		Downloads: DownloadsConfig{
			Workers:     4,
			MaxBytes:    25 << 20,
			ImageSuffix: ".jpg",
			LedgerFile:  "downloaded.json",
		},
		Paths: PathsConfig{
			DownloadDir: "downloads",
			ReportsDir:  "reports",
			LogDir:      ".gmscraper/logs",
			LogFile:     "groupme_scraper.log",
		},
		Masking: MaskingConfig{Enabled: true},
	}
}
