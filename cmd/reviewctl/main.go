package main

import (
	"os"

	"staff_reviews/cmd/reviewctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
