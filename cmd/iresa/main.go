package main

import (
	"fmt"
	"io"
	"os"

	flags "github.com/jessevdk/go-flags"
	"github.com/pkg/errors"

	"iresa/config"
	"iresa/imaging"
	"iresa/pipeline"
	"iresa/utils"
)

var (
	Version   = "1.1.0"
	License   = "MIT"
	Copyright = "Copyright 2024, The IRESA Project"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := config.Parse(args)
	if err != nil {
		var flagErr *flags.Error
		if errors.As(err, &flagErr) && flagErr.Type == flags.ErrHelp {
			fmt.Fprintln(stdout, flagErr.Message)
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 2
	}

	if opts.Version {
		fmt.Fprintf(stdout, "IRESA Version: %s\n", Version)
		fmt.Fprintf(stdout, "Under: %s license\n", License)
		fmt.Fprintln(stdout, Copyright)
		return 0
	}

	log := utils.NewLogger(stdout, opts.Debug)
	prefix := opts.Prefix()
	log.Info().Str("input", opts.Input).Str("output", prefix).Msg("resolved file names")

	_, err = pipeline.Run(pipeline.Config{
		Input:       opts.Input,
		Prefix:      prefix,
		Kernel:      opts.ResizeKernel(),
		QuietChunks: imaging.DefaultQuietChunks,
		Logger:      &log,
	})
	switch {
	case errors.Is(err, pipeline.ErrSourceNotFound):
		log.Error().Str("input", opts.Input).Msg("source file not found")
	case err != nil:
		log.Error().Err(err).Msg("error loading source image")
	}
	return 0
}
