// Package pipeline turns one source image into a set of square icons, one
// file per size and output format.
package pipeline

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"iresa/export"
	"iresa/imaging"
	"iresa/utils"
)

var (
	ErrSourceNotFound    = errors.New("source file not found")
	ErrSourceUndecodable = errors.New("source image could not be loaded")
)

// DefaultSizes are the icon edge lengths, in pixels, required by common
// browser and platform favicon sets.
var DefaultSizes = []int{16, 24, 32, 48, 64, 72, 96, 144, 152, 180, 192, 256, 310}

// Target is one output format and the directory its files go to.
type Target struct {
	Format export.Format
	Dir    string
}

// DefaultTargets writes ICO files to ICOs and PNG files to PNGs.
func DefaultTargets() []Target {
	return []Target{
		{Format: export.FormatICO, Dir: "ICOs"},
		{Format: export.FormatPNG, Dir: "PNGs"},
	}
}

type Config struct {
	Input  string
	Prefix string
	// Sizes defaults to DefaultSizes and Targets to DefaultTargets().
	Sizes       []int
	Targets     []Target
	Kernel      imaging.Kernel
	QuietChunks []string
	Logger      *zerolog.Logger
}

func (c Config) withDefaults() Config {
	if c.Sizes == nil {
		c.Sizes = DefaultSizes
	}
	if c.Targets == nil {
		c.Targets = DefaultTargets()
	}
	if c.Kernel == "" {
		c.Kernel = imaging.DefaultKernel
	}
	if c.Logger == nil {
		nop := zerolog.Nop()
		c.Logger = &nop
	}
	return c
}

// FileName is the output name for one size of one format.
func FileName(prefix string, size int, f export.Format) string {
	return fmt.Sprintf("%s%d.%s", prefix, size, f.Ext())
}

// Run loads cfg.Input and writes every (size, target) combination. Only a
// missing or undecodable source is returned as an error; failures for a
// single size or file are recorded in the report and the run continues.
func Run(cfg Config) (*Report, error) {
	cfg = cfg.withDefaults()
	log := cfg.Logger

	if !utils.FileExists(cfg.Input) {
		return nil, errors.Wrapf(ErrSourceNotFound, "%s", cfg.Input)
	}

	src, err := imaging.Load(cfg.Input, imaging.LoadOptions{
		QuietChunks: cfg.QuietChunks,
		Logger:      *log,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSourceUndecodable, cfg.Input, err)
	}

	report := &Report{Source: src}
	for _, size := range cfg.Sizes {
		report.Results = append(report.Results, processSize(cfg, src, size)...)
	}

	log.Info().
		Int("written", len(report.Written())).
		Int("failed", len(report.Failed())).
		Msg("export finished")
	return report, nil
}

func processSize(cfg Config, src *imaging.Source, size int) []Result {
	log := cfg.Logger.With().Int("size", size).Logger()

	resized, err := imaging.Resize(src.Image, size, size, cfg.Kernel)
	if err != nil {
		log.Error().Err(err).Msg("error resizing image")
		return failAll(cfg, size, StageResize, err)
	}

	converted, err := imaging.ToNRGBA(resized)
	if err != nil {
		log.Error().Err(err).Msg("error converting image")
		return failAll(cfg, size, StageConvert, err)
	}

	results := make([]Result, 0, len(cfg.Targets))
	for _, t := range cfg.Targets {
		res := Result{Size: size, Format: t.Format}
		path, err := export.Write(converted, t.Dir, FileName(cfg.Prefix, size, t.Format), t.Format)
		if err != nil {
			res.Stage, res.Err = StageWrite, err
			log.Error().Err(err).Str("format", string(t.Format)).Msg("error saving image")
		} else {
			res.Path = path
			log.Debug().Str("path", path).Msg("saved")
		}
		results = append(results, res)
	}
	return results
}

func failAll(cfg Config, size int, stage Stage, err error) []Result {
	results := make([]Result, 0, len(cfg.Targets))
	for _, t := range cfg.Targets {
		results = append(results, Result{Size: size, Format: t.Format, Stage: stage, Err: err})
	}
	return results
}
