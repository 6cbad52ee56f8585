/*
Copyright © 2025 tieubaoca
*/
package main

import (
	"github.com/joho/godotenv"
	"github.com/tieubaoca/filing-rag-be/cmd"
)

func main() {
	// .env is optional; API keys may come from the environment directly.
	_ = godotenv.Load()

	cmd.Execute()
}
