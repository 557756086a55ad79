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
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/shoprank"
	"github.com/poiesic/shoprank/ai"
	"github.com/poiesic/shoprank/core"
	"github.com/poiesic/shoprank/rank"
	"github.com/poiesic/shoprank/reembed"
	"github.com/poiesic/shoprank/seed"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "shoprank",
		Usage: "Product ranking and recommendation over a local catalog",
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
				Name:   "seed",
				Usage:  "Populate the catalog with generated sample data",
				Action: seedCommand,
				Flags: append(databaseFlags(),
					&cli.Int64Flag{
						Name:  "rand-seed",
						Usage: "Seed for the sample data generator",
						Value: 1,
					},
					&cli.IntFlag{
						Name:  "customers",
						Usage: "Number of customers to generate",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "products",
						Usage: "Number of products to generate",
						Value: 200,
					},
					&cli.IntFlag{
						Name:  "transactions",
						Usage: "Number of transactions to generate",
						Value: 500,
					},
				),
			},
			{
				Name:      "search",
				Usage:     "Search products by semantic similarity",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: append(append(databaseFlags(), searchFilterFlags()...),
					&cli.IntFlag{
						Name:  "top",
						Usage: "Maximum number of results",
						Value: 5,
					},
					&cli.Float64Flag{
						Name:  "threshold",
						Usage: "Minimum similarity score",
						Value: 0.3,
					},
				),
			},
			{
				Name:      "similar",
				Usage:     "Search products by fuzzy text matching",
				ArgsUsage: "<query>",
				Action:    similarCommand,
				Flags: append(append(databaseFlags(), searchFilterFlags()...),
					&cli.Float64Flag{
						Name:  "min-similarity",
						Usage: "Minimum fuzzy match ratio",
						Value: 0.6,
					},
				),
			},
			{
				Name:      "recommend",
				Usage:     "Recommend products for a customer",
				ArgsUsage: "<customer-id>",
				Action:    recommendCommand,
				Flags: append(databaseFlags(),
					&cli.IntFlag{
						Name:  "top",
						Usage: "Maximum number of recommendations",
						Value: 5,
					},
				),
			},
			{
				Name:   "reembed",
				Usage:  "Reembed all products with new embeddings",
				Action: reembedCommand,
				Flags: append(databaseFlags(),
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of products to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N products",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func databaseFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB catalog directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "embeddinggemma",
		},
	}
}

func searchFilterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "category",
			Usage: "Restrict results to a category",
		},
		&cli.StringFlag{
			Name:  "brand",
			Usage: "Restrict results to a brand",
		},
		&cli.Float64Flag{
			Name:  "min-price",
			Usage: "Lowest acceptable price",
		},
		&cli.Float64Flag{
			Name:  "max-price",
			Usage: "Highest acceptable price",
		},
	}
}

func openDatabase(c *cli.Context) (*shoprank.Database, error) {
	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	db, err := shoprank.NewDatabase(c.String("db"), shoprank.WithAIConfig(aiConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	return db, nil
}

func buildFilter(c *cli.Context) *core.ProductFilter {
	filter := &core.ProductFilter{
		Category: c.String("category"),
		Brand:    c.String("brand"),
	}
	if c.IsSet("min-price") {
		minPrice := c.Float64("min-price")
		filter.MinPrice = &minPrice
	}
	if c.IsSet("max-price") {
		maxPrice := c.Float64("max-price")
		filter.MaxPrice = &maxPrice
	}
	if filter.Category == "" && filter.Brand == "" && filter.MinPrice == nil && filter.MaxPrice == nil {
		return nil
	}
	return filter
}

func seedCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	generator := seed.NewGenerator(c.Int64("rand-seed"))

	customers, err := db.CustomerRepository().AddCustomers(ctx, generator.GenerateCustomers(c.Int("customers"))...)
	if err != nil {
		return fmt.Errorf("failed to store customers: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Stored %d customers\n", len(customers))

	pipeline, err := db.NewIngestionPipeline()
	if err != nil {
		return err
	}
	defer pipeline.Release()

	products, err := pipeline.IngestProducts(ctx, generator.GenerateProducts(c.Int("products"))...)
	if err != nil {
		return fmt.Errorf("failed to ingest products: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Stored %d products, generating embeddings...\n", len(products))
	pipeline.Wait()

	transactions, err := db.TransactionRepository().AddTransactions(ctx,
		generator.GenerateTransactions(c.Int("transactions"), customers, products)...)
	if err != nil {
		return fmt.Errorf("failed to store transactions: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Stored %d transactions\n", len(transactions))

	return nil
}

func searchCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query argument is required")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	ranker, err := db.NewSimilarityRanker(
		rank.WithSimilarityThreshold(float32(c.Float64("threshold"))),
	)
	if err != nil {
		return err
	}
	defer ranker.Release()

	results, err := ranker.Rank(context.Background(), query, buildFilter(c), c.Int("top"))
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Println("No matching products.")
		return nil
	}
	for i, result := range results {
		fmt.Printf("%2d. [%.3f] %s (%s, %s %.2f)\n",
			i+1, result.Score, result.Product.Name, result.Product.Brand,
			result.Product.Currency, result.Product.Price)
	}
	return nil
}

func similarCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query argument is required")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	matcher, err := db.NewFuzzyMatcher(
		rank.WithFuzzyMinSimilarity(c.Float64("min-similarity")),
	)
	if err != nil {
		return err
	}

	results, err := matcher.Match(context.Background(), query, buildFilter(c))
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Println("No matching products.")
		return nil
	}
	for i, product := range results {
		fmt.Printf("%2d. %s (%s, %s %.2f)\n",
			i+1, product.Name, product.Brand, product.Currency, product.Price)
	}
	return nil
}

func recommendCommand(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("customer-id argument is required")
	}

	var customerID uint64
	if _, err := fmt.Sscanf(c.Args().First(), "%d", &customerID); err != nil {
		return fmt.Errorf("invalid customer id %q", c.Args().First())
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	results, err := db.RecommendForCustomer(context.Background(), core.ID(customerID), c.Int("top"))
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Println("No recommendations for this customer yet.")
		return nil
	}
	for i, result := range results {
		fmt.Printf("%2d. [%d shared tags] %s (%s)\n",
			i+1, int(result.Score), result.Product.Name, result.Product.Brand)
	}
	return nil
}

func reembedCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	config := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}

	if config.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if config.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if config.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	reembedder := db.NewReembedder(config, os.Stderr)

	fmt.Fprintf(os.Stderr, "Catalog: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n\n", c.String("embedding-model"))

	if err := reembedder.Run(context.Background()); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}

	return nil
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
