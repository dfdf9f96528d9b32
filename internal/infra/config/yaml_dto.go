package config

// YAMLConfig mirrors gmscraper.yaml. Pointers distinguish "unset" from zero.
type YAMLConfig struct {
	GMScraper struct {
		API        YAMLAPI        `yaml:"api"`
		Scan       YAMLScan       `yaml:"scan"`
		Aggression YAMLAggression `yaml:"aggression"`
		Downloads  YAMLDownloads  `yaml:"downloads"`
		Paths      YAMLPaths      `yaml:"paths"`
		Logging    YAMLLogging    `yaml:"logging"`
		Masking    YAMLMasking    `yaml:"masking"`
	} `yaml:"gmscraper"`
}

type YAMLAPI struct {
	BaseURL   string   `yaml:"base_url"`
	Timeout   string   `yaml:"timeout"`
	RateLimit *float64 `yaml:"rate_limit"`
	Burst     *int     `yaml:"burst"`
	Retries   *int     `yaml:"retries"`
}

type YAMLScan struct {
	MaxMessages  *int `yaml:"max_messages"`
	PageSize     *int `yaml:"page_size"`
	PreviewLimit *int `yaml:"preview_limit"`
}

type YAMLAggression struct {
	Classifier  string   `yaml:"classifier"`
	Words       []string `yaml:"words"`
	OpenAIModel string   `yaml:"openai_model"`
}

type YAMLDownloads struct {
	Workers     *int   `yaml:"workers"`
	MaxBytes    *int64 `yaml:"max_bytes"`
	ImageSuffix string `yaml:"image_suffix"`
	LedgerFile  string `yaml:"ledger_file"`
}

type YAMLPaths struct {
	DownloadDir string `yaml:"download_dir"`
	ReportsDir  string `yaml:"reports_dir"`
	LogDir      string `yaml:"log_dir"`
	LogFile     string `yaml:"log_file"`
}

type YAMLLogging struct {
	Debug *bool `yaml:"debug"`
}

type YAMLMasking struct {
	Enabled *bool `yaml:"enabled"`
}
