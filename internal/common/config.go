package common

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	OCR      OCRConfig      `mapstructure:"ocr"`
	Raster   RasterConfig   `mapstructure:"raster"`
	Classify ClassifyConfig `mapstructure:"classify"`
	Tables   TablesConfig   `mapstructure:"tables"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Routing  RoutingConfig  `mapstructure:"routing"`
	Ingest   IngestConfig   `mapstructure:"ingest"`
	Server   ServerConfig   `mapstructure:"server"`
	Export   ExportConfig   `mapstructure:"export"`
}

// EngineConfig names one OCR engine and its acceptance threshold. Thresholds
// are per engine because confidence scores are not comparable across engines.
type EngineConfig struct {
	Name      string  `mapstructure:"name"`
	Threshold float32 `mapstructure:"threshold"`
}

// OCRConfig holds OCR-engine configuration. Engines lists priority order.
type OCRConfig struct {
	Engines     []EngineConfig `mapstructure:"engines"`
	Language    string         `mapstructure:"language"`
	Tesseract   string         `mapstructure:"tesseract"`
	TessdataDir string         `mapstructure:"tessdata_dir"`
	PSM         int            `mapstructure:"psm"`
	OEM         int            `mapstructure:"oem"`
}

type RasterConfig struct {
	Pdftoppm string `mapstructure:"pdftoppm"`
	DPI      int    `mapstructure:"dpi"`
	MaxPages int    `mapstructure:"max_pages"`
}

type ClassifyConfig struct {
	Threshold float32 `mapstructure:"threshold"`
}

type TablesConfig struct {
	Enabled            bool    `mapstructure:"enabled"`
	IrregularTolerance float64 `mapstructure:"irregular_tolerance"`
	ColGapPx           int     `mapstructure:"col_gap_px"`
}

type PipelineConfig struct {
	StageTimeout   time.Duration `mapstructure:"stage_timeout"`
	PageWorkers    int           `mapstructure:"page_workers"`
	DocWorkers     int           `mapstructure:"doc_workers"`
	QueueSize      int           `mapstructure:"queue_size"`
	ProcessTimeout time.Duration `mapstructure:"process_timeout"`
}

type RoutingConfig struct {
	MinConfidence    float32  `mapstructure:"min_confidence"`
	CriticalMin      float32  `mapstructure:"critical_min"`
	BusinessCritical bool     `mapstructure:"business_critical"`
	CriticalTypes    []string `mapstructure:"critical_types"` // free-form labels, canonicalized at build time
}

type IngestConfig struct {
	WatchRoots  []string      `mapstructure:"watch_roots"`
	InitialScan bool          `mapstructure:"initial_scan"`
	Debounce    time.Duration `mapstructure:"debounce"`
	SkipHidden  bool          `mapstructure:"skip_hidden"`
}

type ServerConfig struct {
	GRPCAddr string `mapstructure:"grpc_addr"`
}

type ExportConfig struct {
	OutputDir string `mapstructure:"output_dir"`
	XLSX      bool   `mapstructure:"xlsx"`
}

// LoadConfig reads config.yaml (if present) and DOCPIPE_* environment
// overrides into a Config with sane defaults.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/docpipe")

	v.SetEnvPrefix("DOCPIPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		// no config file is fine; defaults + env apply
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ocr.engines", []map[string]any{
		{"name": "gosseract", "threshold": 0.75},
		{"name": "tesseract-cli", "threshold": 0.60},
	})
	v.SetDefault("ocr.language", "eng")
	v.SetDefault("ocr.tesseract", "tesseract")
	v.SetDefault("raster.pdftoppm", "pdftoppm")
	v.SetDefault("raster.dpi", 300)
	v.SetDefault("raster.max_pages", 0)
	v.SetDefault("classify.threshold", 0.4)
	v.SetDefault("tables.enabled", true)
	v.SetDefault("tables.irregular_tolerance", 0.2)
	v.SetDefault("tables.col_gap_px", 48)
	v.SetDefault("pipeline.stage_timeout", 45*time.Second)
	v.SetDefault("pipeline.page_workers", 4)
	v.SetDefault("pipeline.doc_workers", 4)
	v.SetDefault("pipeline.queue_size", 256)
	v.SetDefault("pipeline.process_timeout", 3*time.Minute)
	v.SetDefault("routing.min_confidence", 0.88)
	v.SetDefault("routing.critical_min", 0.95)
	v.SetDefault("routing.business_critical", false)
	v.SetDefault("ingest.initial_scan", true)
	v.SetDefault("ingest.debounce", 500*time.Millisecond)
	v.SetDefault("ingest.skip_hidden", true)
	v.SetDefault("server.grpc_addr", ":8080")
	v.SetDefault("export.output_dir", "./out")
	v.SetDefault("export.xlsx", false)
}

// Validate validates the loaded configuration.
func (c *Config) Validate() error {
	if len(c.OCR.Engines) == 0 {
		return NewAppError("CONFIG_ERROR", "at least one OCR engine is required", ErrInvalidInput)
	}
	for _, e := range c.OCR.Engines {
		if e.Threshold < 0 || e.Threshold > 1 {
			return NewAppError("CONFIG_ERROR", "engine threshold must be in [0,1]: "+e.Name, ErrInvalidInput)
		}
	}
	if c.Classify.Threshold < 0 || c.Classify.Threshold > 1 {
		return NewAppError("CONFIG_ERROR", "classify threshold must be in [0,1]", ErrInvalidInput)
	}
	if c.Pipeline.PageWorkers <= 0 {
		return NewAppError("CONFIG_ERROR", "pipeline.page_workers must be positive", ErrInvalidInput)
	}
	return nil
}
