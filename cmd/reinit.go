/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/tieubaoca/filing-rag-be/config"
	"github.com/tieubaoca/filing-rag-be/database"
)

// reinitCmd represents the reinit command
var reinitCmd = &cobra.Command{
	Use:   "reinit",
	Short: "Drop and recreate the vector index",
	Long: `Deletes the FilingChunk class from Weaviate and recreates it empty.
All indexed chunks are lost; run build-index afterwards.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		store, err := database.NewWeaviateStore(cfg.WeaviateStoreConfig)
		if err != nil {
			log.Fatalf("Failed to connect to Weaviate database: %v", err)
		}
		if err := store.ReInit(); err != nil {
			log.Fatalf("Failed to reinitialize index: %v", err)
		}
		log.Println("Index reinitialized")
	},
}

func init() {
	rootCmd.AddCommand(reinitCmd)
}
