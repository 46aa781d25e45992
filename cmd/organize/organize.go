package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/akamensky/argparse"
	"github.com/cyclopcam/logs"
	"github.com/leafscope/leafscope/pkg/organize"
)

// Carve a small balanced dataset out of a large image collection, driven by
// a manifest CSV. Source splits are given as name=path pairs, eg
// --source train=/data/train --source val=/data/val
func main() {
	parser := argparse.NewParser("organize", "Build a sampled training dataset from a manifest CSV")
	manifest := parser.String("m", "manifest", &argparse.Options{Help: "Semicolon-delimited manifest CSV", Required: true})
	sources := parser.StringList("s", "source", &argparse.Options{Help: "Split source directory as name=path (repeatable)", Required: true})
	dest := parser.String("d", "dest", &argparse.Options{Help: "Destination directory", Required: true})
	mapping := parser.String("", "classes", &argparse.Options{Help: "File of valid species IDs, one per line", Default: ""})
	perClass := parser.Int("n", "per-class", &argparse.Options{Help: "Max images per species per split (0 = all)", Default: 10})
	workers := parser.Int("w", "workers", &argparse.Options{Help: "Parallel copy workers", Default: 4})
	seed := parser.Int("", "seed", &argparse.Options{Help: "Sampling seed", Default: 1})
	err := parser.Parse(os.Args)
	if err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	logger, err := logs.NewLog()
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	sourceDirs := map[string]string{}
	for _, src := range *sources {
		name, path, ok := strings.Cut(src, "=")
		if !ok {
			fmt.Printf("Invalid --source %q, expected name=path\n", src)
			os.Exit(1)
		}
		sourceDirs[name] = path
	}

	stats, err := organize.Run(logger, organize.Options{
		ManifestPath:     *manifest,
		SourceDirs:       sourceDirs,
		DestDir:          *dest,
		ClassMappingPath: *mapping,
		PerClass:         *perClass,
		Workers:          *workers,
		Seed:             int64(*seed),
	})
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
	logger.Infof("Done: %v copied, %v missing, %v filtered", stats.Copied, stats.Missing, stats.SkippedClass)
}
