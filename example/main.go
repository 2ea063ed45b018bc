package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/webassembly"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/ivanvanderbyl/pdfnodes"
)

func main() {
	cmd := &cli.Command{
		Name:  "pdfnodes",
		Usage: "Parse PDF files into positioned, token-counted nodes",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Usage:    "Input PDF file path (repeat for several files)",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file, or directory when several inputs are given (default: stdout)",
			},
			&cli.IntFlag{
				Name:  "start-page",
				Usage: "Start page number (0-indexed)",
				Value: -1,
			},
			&cli.IntFlag{
				Name:  "end-page",
				Usage: "End page number (0-indexed)",
				Value: -1,
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML config file",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: markdown or json",
				Value:   "markdown",
			},
			&cli.StringFlag{
				Name:  "tokenizer",
				Usage: "Token counter: estimate or tiktoken (overrides config)",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Documents parsed concurrently (overrides config)",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log per-page details",
			},
		},
		Action: parsePDFs,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parsePDFs(ctx context.Context, cmd *cli.Command) error {
	level := zerolog.InfoLevel
	if cmd.Bool("verbose") {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		Level(level).
		With().
		Timestamp().
		Logger()

	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	format := cmd.String("format")
	if format != "markdown" && format != "json" {
		return errors.Errorf("unknown format %q", format)
	}

	inputs := cmd.StringSlice("input")
	workers := max(config.Workers, 1)

	pool, err := webassembly.Init(webassembly.Config{
		MinIdle:  1,
		MaxIdle:  workers,
		MaxTotal: workers,
	})
	if err != nil {
		return errors.Wrap(err, "failed to initialise pdfium")
	}
	defer pool.Close()

	var docs []*pdfnodes.ParsedDoc
	if len(inputs) == 1 {
		doc, err := parseSingle(pool, inputs[0], config, logger, cmd.Int("start-page"), cmd.Int("end-page"))
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	} else {
		logger.Info().Int("files", len(inputs)).Int("workers", workers).Msg("parsing documents")
		docs, err = pdfnodes.ParseFiles(ctx, pool, inputs, config, pdfnodes.WithLogger(logger))
		if err != nil {
			return err
		}
	}

	return writeOutputs(docs, cmd.String("output"), format, logger)
}

// loadConfig reads the optional config file and applies flag overrides.
func loadConfig(cmd *cli.Command) (pdfnodes.Config, error) {
	config := pdfnodes.DefaultConfig()
	if path := cmd.String("config"); path != "" {
		loaded, err := pdfnodes.LoadConfig(path)
		if err != nil {
			return config, err
		}
		config = loaded
	}

	if t := cmd.String("tokenizer"); t != "" {
		config.Tokenizer = t
	}
	if cmd.IsSet("workers") {
		config.Workers = cmd.Int("workers")
	}

	if err := config.Validate(); err != nil {
		return config, errors.Wrap(err, "invalid config")
	}
	return config, nil
}

// parseSingle parses one file, honouring the page range flags.
func parseSingle(pool pdfium.Pool, path string, config pdfnodes.Config, logger zerolog.Logger, startPage, endPage int) (*pdfnodes.ParsedDoc, error) {
	instance, err := pool.GetInstance(time.Second * 30)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get pdfium instance")
	}
	defer instance.Close()

	parser, err := pdfnodes.NewParserWithConfig(instance, config, pdfnodes.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	info, err := parser.GetDocumentInfo(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get document info")
	}
	logger.Info().Str("file", path).Int("pages", info.PageCount).Msg("processing PDF")

	if startPage >= 0 || endPage >= 0 {
		return parser.ParsePageRange(path, startPage, endPage)
	}
	return parser.ParseFile(path)
}

// writeOutputs writes a single document to the output file (or stdout), and
// several documents into the output directory named after their inputs.
func writeOutputs(docs []*pdfnodes.ParsedDoc, output, format string, logger zerolog.Logger) error {
	ext := ".md"
	if format == "json" {
		ext = ".json"
	}

	if len(docs) > 1 && output != "" {
		if err := os.MkdirAll(output, 0o755); err != nil {
			return errors.Wrap(err, "failed to create output directory")
		}
	}

	for _, doc := range docs {
		rendered, err := render(doc, format)
		if err != nil {
			return err
		}

		switch {
		case output == "":
			fmt.Println(rendered)
		case len(docs) == 1:
			if err := os.WriteFile(output, []byte(rendered), 0o644); err != nil {
				return errors.Wrap(err, "failed to write output file")
			}
			logger.Info().Str("path", output).Int("nodes", len(doc.Nodes)).Int("tokens", doc.Tokens()).Msg("output written")
		default:
			name := strings.TrimSuffix(doc.Filename, filepath.Ext(doc.Filename)) + ext
			path := filepath.Join(output, name)
			if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
				return errors.Wrapf(err, "failed to write %s", path)
			}
			logger.Info().Str("path", path).Int("nodes", len(doc.Nodes)).Int("tokens", doc.Tokens()).Msg("output written")
		}
	}

	return nil
}

func render(doc *pdfnodes.ParsedDoc, format string) (string, error) {
	if format == "json" {
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return "", errors.Wrap(err, "failed to encode JSON")
		}
		return string(data), nil
	}
	return doc.ToMarkdown()
}
