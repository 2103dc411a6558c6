// Command demo-data writes the built-in demo datasets to disk as JSON
// template files, ready to re-upload or to use as a starting point for a
// real aggregated export.
package main

import (
	"flag"
	"os"
	"path/filepath"
	"strings"

	"capsight/internal/demodata"
)

const fileMode = 0o644

func main() {
	var (
		outDir  = flag.String("out", ".", "Output directory for template files")
		variant = flag.String("variant", "", "Single variant to write (default: all)")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		flag.Usage()
		return
	}

	variants := demodata.Variants()
	if *variant != "" {
		variants = []string{*variant}
	}

	for _, v := range variants {
		data, err := demodata.JSON(v)
		if err != nil {
			os.Stderr.WriteString("Failed to render variant " + v + ": " + err.Error() + "\n")
			os.Exit(1)
		}
		name := "capability_demo_" + strings.ReplaceAll(v, "-", "_") + ".json"
		path := filepath.Join(*outDir, name)
		if err := os.WriteFile(path, data, fileMode); err != nil {
			os.Stderr.WriteString("Failed to write " + path + ": " + err.Error() + "\n")
			os.Exit(1)
		}
		os.Stdout.WriteString("wrote " + path + "\n")
	}
}
