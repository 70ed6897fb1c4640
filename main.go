package main

import (
	"github.com/Mohsinsiddi/tsend/cmd"
	"github.com/joho/godotenv"
)

func main() {
	// TSEND_* values may live in ./.env; the real environment wins.
	_ = godotenv.Load()
	cmd.Execute()
}
