// Package main provides the reshape command. It formats a source object read from a YAML
// or JSON file (or stdin) with a schema file and prints the result.
//
//	reshape -schema schema.yaml -input object.json
//	curl -s https://api.example.com/user | reshape -schema user.yaml -default '"n/a"'
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/go-gum/reshape"
	"gopkg.in/yaml.v3"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("reshape", flag.ContinueOnError)
	flags.SetOutput(stderr)

	schemaPath := flags.String("schema", "", "schema file, YAML or JSON (required)")
	inputPath := flags.String("input", "", "source object file, YAML or JSON. Reads stdin if empty")
	symbol := flags.String("symbol", reshape.DefaultAccessorSymbol, "accessor symbol")
	defaultLiteral := flags.String("default", "", `global default as literal, e.g. '"n/a"' or 'null'`)
	output := flags.String("output", "json", "output format, json or yaml")
	verbose := flags.Bool("v", false, "log recovered lookups")

	if err := flags.Parse(args); err != nil {
		return 2
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if *schemaPath == "" {
		logger.Error("missing required flag", "flag", "schema")
		flags.Usage()
		return 2
	}

	if *output != "json" && *output != "yaml" {
		logger.Error("unknown output format", "output", *output)
		return 2
	}

	formatter := reshape.NewFormatter().
		WithAccessorSymbol(*symbol).
		WithLogger(logger)

	if *defaultLiteral != "" {
		value, err := reshape.ParseLiteral(*defaultLiteral)
		if err != nil {
			logger.Error("invalid default", "default", *defaultLiteral, "error", err)
			return 2
		}

		formatter = formatter.WithDefault(value)
	}

	schema, err := reshape.LoadSchema(*schemaPath)
	if err != nil {
		logger.Error("failed to load schema", "error", err)
		return 1
	}

	document, err := loadInput(*inputPath, stdin)
	if err != nil {
		logger.Error("failed to load input", "error", err)
		return 1
	}

	logger.Debug("formatting", "schema", *schemaPath, "keys", schema.Len())

	formatted := formatter.Format(schema, document)

	if err := write(stdout, formatted, *output); err != nil {
		logger.Error("failed to write output", "error", err)
		return 1
	}

	return 0
}

func loadInput(path string, stdin io.Reader) (*yaml.Node, error) {
	if path != "" {
		return reshape.LoadDocument(path)
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}

	return reshape.ParseDocument(data)
}

func write(w io.Writer, formatted reshape.Map, format string) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		if err := enc.Encode(formatted); err != nil {
			return err
		}

		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(formatted)
}
