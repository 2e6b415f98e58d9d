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
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/toolrank"
	"github.com/poiesic/toolrank/core"
	"github.com/poiesic/toolrank/embed"
	"github.com/poiesic/toolrank/rank"
)

func main() {
	app := &cli.App{
		Name:  "toolrank",
		Usage: "Relevance ranking for agent tool discovery",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Rank catalog tools against a query",
				ArgsUsage: "QUERY...",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to BadgerDB call log directory",
						Value:   "./toolrank_db",
					},
					&cli.StringFlag{
						Name:     "catalog",
						Aliases:  []string{"c"},
						Usage:    "Path to a JSON tool catalog",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "mode",
						Usage: "Search mode (hybrid, fuzzy, regex, prefix, semantic, exact, dense, embedding)",
						Value: "hybrid",
					},
					&cli.StringFlag{
						Name:  "category",
						Usage: "Restrict results to one category",
					},
					&cli.StringFlag{
						Name:  "phase",
						Usage: "Restrict results to one workflow phase",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results",
						Value: 15,
					},
					&cli.BoolFlag{
						Name:  "explain",
						Usage: "Show the reasons behind each score",
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name; enables the embedding signal when set",
					},
				},
			},
			{
				Name:      "log",
				Usage:     "Record tool invocations in the call log",
				ArgsUsage: "TOOL...",
				Action:    logCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to BadgerDB call log directory",
						Value:   "./toolrank_db",
					},
					&cli.StringFlag{
						Name:     "catalog",
						Aliases:  []string{"c"},
						Usage:    "Path to a JSON tool catalog",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "session",
						Aliases:  []string{"s"},
						Usage:    "Session the calls belong to",
						Required: true,
					},
				},
			},
			{
				Name:   "neighbors",
				Usage:  "Show the co-occurrence graph mined from the call log",
				Action: neighborsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to BadgerDB call log directory",
						Value:   "./toolrank_db",
					},
					&cli.StringFlag{
						Name:     "catalog",
						Aliases:  []string{"c"},
						Usage:    "Path to a JSON tool catalog",
						Required: true,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.Join(c.Args().Slice(), " ")
	if query == "" {
		return fmt.Errorf("a query is required")
	}

	entries, err := loadCatalog(c.String("catalog"))
	if err != nil {
		return err
	}

	var serviceOpts []toolrank.ServiceOption
	embeddingModel := c.String("embedding-model")
	if embeddingModel != "" {
		config := embed.DefaultConfig(
			embed.WithHost(c.String("embedding-host")),
			embed.WithModel(embeddingModel),
		)
		serviceOpts = append(serviceOpts, toolrank.WithEmbedding(config))
	}

	svc, err := toolrank.NewService(c.String("db"), entries, serviceOpts...)
	if err != nil {
		return err
	}
	defer svc.Close()

	if embeddingModel != "" {
		if err := svc.BuildEmbeddingIndex(ctx); err != nil {
			return fmt.Errorf("building embedding index: %w", err)
		}
	}

	results, err := svc.Search(ctx, query, nil, rank.Options{
		Mode:        rank.ParseMode(c.String("mode")),
		Category:    c.String("category"),
		Phase:       c.String("phase"),
		Limit:       c.Int("limit"),
		Explain:     c.Bool("explain"),
		FullCatalog: true,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Found %d hits\n", len(results))
	for i, hit := range results {
		fmt.Printf("%d: %s (%s)[%0.1f]\n", i+1, hit.Name, hit.Category, hit.Score)
		if hit.Description != "" {
			fmt.Printf("   %s\n", hit.Description)
		}
		for _, reason := range hit.Reasons {
			fmt.Printf("   - %s\n", reason)
		}
	}
	return nil
}

func logCommand(c *cli.Context) error {
	ctx := context.Background()

	tools := c.Args().Slice()
	if len(tools) == 0 {
		return fmt.Errorf("at least one tool name is required")
	}

	entries, err := loadCatalog(c.String("catalog"))
	if err != nil {
		return err
	}

	svc, err := toolrank.NewService(c.String("db"), entries)
	if err != nil {
		return err
	}
	defer svc.Close()

	session := c.String("session")
	for _, tool := range tools {
		if err := svc.LogCall(ctx, session, tool); err != nil {
			return fmt.Errorf("logging call to %s: %w", tool, err)
		}
	}

	fmt.Printf("Logged %d calls for session %s\n", len(tools), session)
	return nil
}

func neighborsCommand(c *cli.Context) error {
	ctx := context.Background()

	entries, err := loadCatalog(c.String("catalog"))
	if err != nil {
		return err
	}

	svc, err := toolrank.NewService(c.String("db"), entries)
	if err != nil {
		return err
	}
	defer svc.Close()

	graph := svc.Miner().Neighbors(ctx)
	if len(graph) == 0 {
		fmt.Println("No co-occurrences mined yet")
		return nil
	}
	for tool, neighbors := range graph {
		fmt.Printf("%s: %s\n", tool, strings.Join(neighbors, ", "))
	}
	return nil
}

// loadCatalog reads tool entries from a JSON file: either a bare array or
// an object with a "tools" key.
func loadCatalog(path string) ([]core.ToolEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	var entries []core.ToolEntry
	if err := json.Unmarshal(data, &entries); err == nil {
		return entries, nil
	}

	var wrapped struct {
		Tools []core.ToolEntry `json:"tools"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return wrapped.Tools, nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
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

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
