/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tieubaoca/filing-rag-be/config"
	"github.com/tieubaoca/filing-rag-be/database"
	"github.com/tieubaoca/filing-rag-be/service"
	"github.com/tieubaoca/filing-rag-be/types"
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Retrieve cited passages for a question",
	Long: `Parses the question for ticker and fiscal period, runs a filtered
similarity search against the index and prints the retrieved passages
with their citations. Ticker and period flags override whatever the
parser extracts.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		question := strings.Join(args, " ")
		flagTickers, _ := cmd.Flags().GetStringArray("ticker")
		flagPeriod, _ := cmd.Flags().GetString("period")
		topK, _ := cmd.Flags().GetInt("top-k")

		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		logger := newLogger()
		defer logger.Sync()

		store, err := database.NewWeaviateStore(cfg.WeaviateStoreConfig)
		if err != nil {
			log.Fatalf("Failed to connect to Weaviate database: %v", err)
		}
		aiService, err := newAIService(cfg)
		if err != nil {
			log.Fatalf("Failed to create AI service: %v", err)
		}

		parser := service.NewQueryParser(
			aiService,
			time.Duration(cfg.QueryParser.TimeoutSeconds)*time.Second,
			cfg.QueryParser.DenyList,
			logger,
		)
		retriever := service.NewRetriever(store, logger)

		ctx := context.Background()
		parsed := parser.Parse(ctx, question)

		tickers := flagTickers
		if len(tickers) == 0 {
			tickers = parsed.Tickers
		}
		period := flagPeriod
		if period == "" {
			period = parsed.Period
		}

		if parsed.NeedsClarification && len(flagTickers) == 0 && flagPeriod == "" {
			fmt.Println(parsed.Message)
			return
		}

		if topK <= 0 {
			topK = cfg.Retrieval.TopK
		}
		minSim := cfg.Retrieval.MinSimilarity
		filters := types.QueryFilters{
			Tickers:       tickers,
			Period:        period,
			MinSimilarity: &minSim,
		}
		results, err := retriever.Retrieve(ctx, question, topK, filters, false)
		if err != nil {
			log.Fatalf("Retrieval failed: %v", err)
		}
		if len(results) == 0 {
			fmt.Println("No relevant passages found.")
			return
		}

		chunks := make([]types.Chunk, 0, len(results))
		for _, sc := range results {
			chunks = append(chunks, sc.Chunk)
		}
		citations := service.BuildCitations(chunks)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		for i, sc := range results {
			fmt.Printf("--- [%d] similarity %.3f ---\n", i+1, service.Similarity(sc.Distance))
			fmt.Println(sc.Chunk.Text)
			if err := enc.Encode(citations[i]); err != nil {
				log.Fatalf("Failed to print citation: %v", err)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().StringArrayP("ticker", "t", []string{}, "Restrict retrieval to these tickers")
	askCmd.Flags().StringP("period", "p", "", "Restrict retrieval to this period, e.g. Q3-2025")
	askCmd.Flags().IntP("top-k", "k", 0, "Number of passages to retrieve")
}
