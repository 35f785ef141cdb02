package main

import (
	"flag"
	"log"

	"github.com/danmuck/tcpspec/internal/config"
)

func main() {
	shape := flag.String("shape", "canonical", "record shape: canonical|legacy")
	output := flag.String("output", "records.toml", "output path for the records template")
	validate := flag.Bool("validate", false, "validate an existing records file")
	input := flag.String("input", "", "records path for validation (defaults to -output)")
	force := flag.Bool("force", false, "overwrite existing records file")
	flag.Parse()

	if *validate {
		path := *input
		if path == "" {
			path = *output
		}
		cfg, err := config.Load(path)
		if err != nil {
			log.Fatal(err)
		}
		if _, err := cfg.BeginExConfigs(); err != nil {
			log.Fatal(err)
		}
		log.Printf("Validated %s records config at %s (%d records)", cfg.Shape, path, len(cfg.Records))
		return
	}

	if err := config.WriteTemplate(*output, *shape, *force); err != nil {
		log.Fatal(err)
	}
	log.Printf("Wrote %s records template to %s", *shape, *output)
}
