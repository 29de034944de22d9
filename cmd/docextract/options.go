package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Abraxas-365/docextract/pkg/extract"
	"github.com/Abraxas-365/docextract/pkg/storage"
)

const envPrefix = "DOCEXTRACT"

// options is the resolved CLI configuration. Flags win over DOCEXTRACT_*
// environment variables, which win over defaults.
type options struct {
	Files []string

	Mode     extract.Mode
	Language string
	Layout   bool

	Engine      string
	EngineURL   string
	Timeout     time.Duration
	CropPadding int
	MinFigure   int

	Storage   string
	Bucket    string
	Region    string
	Prefix    string
	OutputDir string

	Workers  int
	Output   string
	Pretty   bool
	Strict   bool
	LogLevel string
}

func loadOptions(args []string, stderr io.Writer) (*options, error) {
	fs := pflag.NewFlagSet("docextract", pflag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.String("mode", string(extract.ModeAll), "extraction mode: "+modeList())
	fs.String("lang", "en", "document language")
	fs.Bool("layout", true, "run layout analysis (false treats each page as one text block)")
	fs.String("engine", "http", "layout engine: http or tesseract")
	fs.String("engine-url", "http://localhost:8866", "layout service base URL (http engine)")
	fs.Duration("engine-timeout", 2*time.Minute, "layout service request timeout")
	fs.Int("crop-padding", 5, "pixels of padding around cropped regions")
	fs.Int("min-figure", extract.DefaultMinFigureSide, "minimum figure side in pixels")
	fs.String("storage", storage.BackendLocal, "artifact storage: local or s3")
	fs.String("bucket", "", "S3 bucket (s3 storage)")
	fs.String("region", "", "AWS region (s3 storage)")
	fs.String("prefix", "docextract", "artifact key prefix")
	fs.String("output-dir", storage.DefaultLocalDir, "artifact directory (local storage)")
	fs.IntP("workers", "w", 2, "documents processed concurrently")
	fs.StringP("output", "o", "-", "JSON output file, - for stdout")
	fs.Bool("pretty", false, "indent JSON output")
	fs.Bool("strict", false, "exit non-zero when any document has failures")
	fs.String("loglevel", "info", "log level (debug, info, warn, error)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: docextract [options] FILE...\n\n")
		fmt.Fprintf(stderr, "Extracts text, tables and figures from scanned PDFs and images.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nEvery option can also be set as %s_<NAME>, e.g. %s_ENGINE_URL.\n", envPrefix, envPrefix)
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	mode, err := extract.ParseMode(v.GetString("mode"))
	if err != nil {
		return nil, err
	}

	opts := &options{
		Files:       fs.Args(),
		Mode:        mode,
		Language:    v.GetString("lang"),
		Layout:      v.GetBool("layout"),
		Engine:      v.GetString("engine"),
		EngineURL:   v.GetString("engine-url"),
		Timeout:     v.GetDuration("engine-timeout"),
		CropPadding: v.GetInt("crop-padding"),
		MinFigure:   v.GetInt("min-figure"),
		Storage:     v.GetString("storage"),
		Bucket:      v.GetString("bucket"),
		Region:      v.GetString("region"),
		Prefix:      v.GetString("prefix"),
		OutputDir:   v.GetString("output-dir"),
		Workers:     v.GetInt("workers"),
		Output:      v.GetString("output"),
		Pretty:      v.GetBool("pretty"),
		Strict:      v.GetBool("strict"),
		LogLevel:    v.GetString("loglevel"),
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

func (o *options) validate() error {
	if len(o.Files) == 0 {
		return fmt.Errorf("at least one input file is required")
	}
	switch o.Engine {
	case "http", "tesseract":
	default:
		return fmt.Errorf("unknown engine %q (use http or tesseract)", o.Engine)
	}
	if o.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}
	return nil
}

func modeList() string {
	names := make([]string, len(extract.Modes))
	for i, m := range extract.Modes {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}
