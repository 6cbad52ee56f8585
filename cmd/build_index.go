/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"
	"github.com/tieubaoca/filing-rag-be/config"
	"github.com/tieubaoca/filing-rag-be/database"
	"github.com/tieubaoca/filing-rag-be/service"
)

// buildIndexCmd represents the build-index command
var buildIndexCmd = &cobra.Command{
	Use:   "build-index",
	Short: "Parse and index filings for a set of tickers",
	Long: `Scans <raw_dir>/<ticker>/ for PDF and HTML filings, parses them into
a block/line model, tags sections and upserts the resulting chunks into
the vector store. Re-running on unchanged files overwrites the same
chunks instead of duplicating them.`,
	Run: func(cmd *cobra.Command, args []string) {
		tickers, _ := cmd.Flags().GetStringArray("ticker")
		period, _ := cmd.Flags().GetString("period")
		bestEffort, _ := cmd.Flags().GetBool("best-effort")
		reinit, _ := cmd.Flags().GetBool("reinit")

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
		if reinit {
			if err := store.ReInit(); err != nil {
				log.Fatalf("Failed to reinitialize Weaviate database: %v", err)
			}
		}

		pdfService := service.NewPDFService(true, logger)
		htmlService := service.NewHTMLService(logger)
		indexService := service.NewIndexService(store, cfg.Ingest.MaxChunkSize, logger)
		ingestService := service.NewIngestService(
			cfg.RawDir,
			pdfService,
			htmlService,
			indexService,
			bestEffort || cfg.Ingest.BestEffort,
			logger,
		)

		count, err := ingestService.BuildIndex(context.Background(), tickers, period)
		if err != nil {
			log.Fatalf("Failed to build index: %v", err)
		}
		log.Printf("Indexed %d documents for tickers %v, period %s", count, tickers, period)
	},
}

func init() {
	rootCmd.AddCommand(buildIndexCmd)

	buildIndexCmd.Flags().StringArrayP("ticker", "t", []string{}, "Ticker symbol, e.g. MSFT (repeatable)")
	buildIndexCmd.Flags().StringP("period", "p", "", "Period identifier, e.g. Q4-2024")
	buildIndexCmd.Flags().Bool("best-effort", false, "Continue past failing files instead of aborting")
	buildIndexCmd.Flags().BoolP("reinit", "r", false, "Reinitialize the index before building")
	buildIndexCmd.MarkFlagRequired("ticker")
	buildIndexCmd.MarkFlagRequired("period")
}
