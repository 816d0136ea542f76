// Package config はfacebinコマンドの設定管理を行います
package config

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/pflag"

	"github.com/shiroemons/go-facebin/pkg/facebin"
)

const Version = "0.1.0"

const (
	// EnvLogLevel はログレベルを指定する環境変数
	EnvLogLevel = "FACEBIN_LOG_LEVEL"

	// EnvJSONLog が "1" の場合はJSON形式でログを出力します
	EnvJSONLog = "FACEBIN_JSON_LOG"

	// DefaultLogLevel は環境変数もフラグも無い場合のログレベル
	DefaultLogLevel = "warn"
)

// Config はアプリケーションの設定を保持します
type Config struct {
	ArchivePath   string
	OutputDir     string
	NamesPath     string
	NamesEncoding string
	SummaryFile   string
	ReferenceID   int
	SignatureFrom int
	Workers       int
	CacheSize     int
	DryRun        bool
	DebugMode     bool
	LogLevel      string
	ShowVersion   bool
}

// New はデフォルト値で初期化した設定を返します
func New() *Config {
	defaults := facebin.DefaultOptions()
	return &Config{
		OutputDir:     "characters",
		NamesEncoding: "utf8",
		SummaryFile:   "summary.txt",
		ReferenceID:   defaults.ReferenceID,
		SignatureFrom: defaults.SignatureSourceID,
		Workers:       defaults.Workers,
		CacheSize:     defaults.CacheSize,
	}
}

// BindGlobalFlags は全サブコマンド共通のフラグを登録します
func BindGlobalFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.BoolVarP(&cfg.DebugMode, "debug", "d", cfg.DebugMode, "enable debug output")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (trace, debug, info, warn, error)")
	fs.BoolVarP(&cfg.ShowVersion, "version", "v", cfg.ShowVersion, "show version information")
}

// BindScanFlags は抽出/一覧の両方で使う判定用のフラグを登録します
func BindScanFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.IntVar(&cfg.ReferenceID, "reference", cfg.ReferenceID, "character id whose expressions are used as template fallbacks")
	fs.IntVar(&cfg.SignatureFrom, "signature-from", cfg.SignatureFrom, "character id to read the fallback offsets from (-1: same as --reference)")
	fs.StringVar(&cfg.NamesPath, "names", cfg.NamesPath, "optional character name list (one name per line)")
	fs.StringVar(&cfg.NamesEncoding, "names-encoding", cfg.NamesEncoding, "encoding of the name list (utf8, sjis)")
}

// BindExtractFlags は extract サブコマンドのフラグを登録します
func BindExtractFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVarP(&cfg.OutputDir, "output", "o", cfg.OutputDir, "output directory for the extracted characters")
	fs.BoolVarP(&cfg.DryRun, "dry-run", "n", cfg.DryRun, "perform a dry run without writing output files")
	fs.IntVarP(&cfg.Workers, "workers", "w", cfg.Workers, "number of characters processed in parallel")
	fs.IntVar(&cfg.CacheSize, "cache-size", cfg.CacheSize, "number of decompressed streams kept in memory (0 disables)")
	fs.StringVar(&cfg.SummaryFile, "summary", cfg.SummaryFile, "summary file name written into the output directory (empty disables)")
}

// ResolveLogLevel はフラグ、環境変数、デフォルトの順でログレベルを決定します
func (c *Config) ResolveLogLevel() string {
	if c.DebugMode {
		return "debug"
	}
	if c.LogLevel != "" {
		return c.LogLevel
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		return level
	}
	return DefaultLogLevel
}

// ExtractOptions は抽出処理の設定を組み立てます
func (c *Config) ExtractOptions(logger hclog.Logger) facebin.Options {
	opts := facebin.DefaultOptions()
	opts.ReferenceID = c.ReferenceID
	opts.SignatureSourceID = c.SignatureFrom
	opts.Workers = c.Workers
	opts.CacheSize = c.CacheSize
	opts.Logger = logger
	return opts
}

// NewLogger はhclogのロガーを作成します
func NewLogger(name, level string, output io.Writer) hclog.Logger {
	if output == nil {
		output = os.Stderr
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      hclog.LevelFromString(strings.ToLower(level)),
		JSONFormat: os.Getenv(EnvJSONLog) == "1",
		Output:     output,
		TimeFormat: "2006-01-02T15:04:05Z",
		TimeFn: func() time.Time {
			return time.Now().UTC()
		},
	})
}
