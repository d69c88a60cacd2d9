// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/docindex/index"
	"github.com/poiesic/docindex/index/genai"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "docindex",
		Usage: "Manage document search stores and resilient concurrent uploads",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "api-key",
				Usage:   "API key for the document index service",
				EnvVars: []string{"GEMINI_API_KEY"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "create-store",
				Usage:  "Create a new document store",
				Action: createStoreCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Usage:    "Display name for the new store",
						Required: true,
					},
				},
			},
			{
				Name:   "list-stores",
				Usage:  "List all document stores",
				Action: listStoresCommand,
			},
			{
				Name:   "store-info",
				Usage:  "Show details for one document store",
				Action: storeInfoCommand,
				Flags:  []cli.Flag{storeFlag()},
			},
			{
				Name:   "delete-store",
				Usage:  "Delete a document store",
				Action: deleteStoreCommand,
				Flags: []cli.Flag{
					storeFlag(),
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Delete even if the store still contains documents",
					},
				},
			},
			{
				Name:   "upload",
				Usage:  "Upload files or a directory into a store",
				Action: uploadCommand,
				Flags: []cli.Flag{
					storeFlag(),
					&cli.StringSliceFlag{
						Name:     "path",
						Aliases:  []string{"p"},
						Usage:    "File or directory to upload (repeatable)",
						Required: true,
					},
					&cli.BoolFlag{
						Name:    "recursive",
						Aliases: []string{"r"},
						Usage:   "Descend into subdirectories",
					},
					&cli.IntFlag{
						Name:  "concurrency",
						Usage: "Number of concurrent uploads",
						Value: 5,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts per file after the first",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "initial-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
					&cli.DurationFlag{
						Name:  "max-delay",
						Usage: "Upper bound on the backoff delay",
						Value: 32 * time.Second,
					},
					&cli.DurationFlag{
						Name:  "poll-timeout",
						Usage: "How long to wait for indexing of one file",
						Value: 300 * time.Second,
					},
					&cli.DurationFlag{
						Name:  "poll-interval",
						Usage: "Time between indexing status checks",
						Value: 2 * time.Second,
					},
					&cli.IntFlag{
						Name:  "chunk-tokens",
						Usage: "Maximum tokens per chunk (0 uses the service default)",
					},
					&cli.IntFlag{
						Name:  "chunk-overlap",
						Usage: "Overlap tokens between chunks (0 uses the service default)",
					},
					&cli.BoolFlag{
						Name:  "interactive-duplicates",
						Usage: "Prompt for each duplicate group instead of keeping the first file",
					},
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to the failure log database directory",
						Value:   defaultFailureLogPath(),
					},
					&cli.BoolFlag{
						Name:  "ai-metadata",
						Usage: "Extract keywords and a title from text files with a local model",
					},
					&cli.StringFlag{
						Name:  "ai-host",
						Usage: "OpenAI-compatible host URL for metadata extraction",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "ai-model",
						Usage: "Model name for metadata extraction",
						Value: "qwen2.5:3b",
					},
				},
			},
			{
				Name:   "list-docs",
				Usage:  "List documents in a store",
				Action: listDocumentsCommand,
				Flags:  []cli.Flag{storeFlag()},
			},
			{
				Name:   "doc-info",
				Usage:  "Show details for one document",
				Action: documentInfoCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Usage:    "Full document resource name",
						Required: true,
					},
				},
			},
			{
				Name:   "delete-doc",
				Usage:  "Delete a document from a store",
				Action: deleteDocumentCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Usage:    "Full document resource name",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Delete without confirmation",
					},
				},
			},
			{
				Name:   "failures",
				Usage:  "List recorded upload failures",
				Action: failuresCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to the failure log database directory",
						Value:   defaultFailureLogPath(),
					},
					&cli.BoolFlag{
						Name:  "clear",
						Usage: "Remove all recorded failures",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func storeFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "store",
		Aliases:  []string{"s"},
		Usage:    "Store name (with or without the fileSearchStores/ prefix)",
		Required: true,
	}
}

func defaultFailureLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".docindex/failures"
	}
	return home + "/.docindex/failures"
}

// newIndexClient builds the REST client from global flags.
func newIndexClient(c *cli.Context) (index.Client, error) {
	config := index.NewConfig(index.WithAPIKey(c.String("api-key")))
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid client configuration: %w", err)
	}
	return genai.NewClient(config)
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
