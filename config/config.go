package config

import (
	"path/filepath"
	"strings"

	flags "github.com/jessevdk/go-flags"
	"github.com/pkg/errors"

	"iresa/imaging"
)

// FallbackPrefix names output files when no prefix can be derived from the
// input path.
const FallbackPrefix = "output"

const longDescription = `IRESA (Icon Resizer and Export Script) resizes one source image into
16 to 310 pixel square icons and writes each size as ICO (into ./ICOs) and
PNG (into ./PNGs).

The default input is Source.png in the current directory. Supported input
formats: PNG, JPEG, GIF, BMP, TIFF, WEBP and ICO.`

type Options struct {
	Input   string `short:"I" long:"input" default:"Source.png" description:"Input file name"`
	Output  string `short:"O" long:"output" description:"Output file name prefix (default: input name up to its first dot)"`
	Version bool   `short:"V" long:"version" description:"Display the current version of the application"`
	Kernel  string `short:"K" long:"kernel" default:"bilinear" choice:"bilinear" choice:"catmullrom" choice:"nearest" choice:"approx" choice:"lanczos" choice:"mitchell" description:"Resampling filter"`
	Debug   bool   `long:"debug" description:"Enable verbose debug output"`
}

// NewParser returns the command line parser for opts. Help and errors are
// returned from Parse, not printed.
func NewParser(opts *Options) *flags.Parser {
	p := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	p.Name = "iresa"
	p.ShortDescription = "Icon Resizer and Export Script"
	p.LongDescription = longDescription
	return p
}

// Parse parses command line arguments, excluding the program name.
func Parse(args []string) (Options, error) {
	opts := Options{}
	rest, err := NewParser(&opts).ParseArgs(args)
	if err != nil {
		return Options{}, err
	}
	if len(rest) > 0 {
		return Options{}, errors.Errorf("unexpected argument %q", rest[0])
	}
	return opts, nil
}

// Prefix returns the output file name prefix: Output when set, otherwise
// the input's file name up to its first dot.
func (o Options) Prefix() string {
	if o.Output != "" {
		return o.Output
	}
	stem, _, _ := strings.Cut(filepath.Base(o.Input), ".")
	if stem == "" {
		return FallbackPrefix
	}
	return stem
}

func (o Options) ResizeKernel() imaging.Kernel {
	return imaging.Kernel(o.Kernel)
}
