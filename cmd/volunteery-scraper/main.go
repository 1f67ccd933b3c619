package main

import (
	"github.com/joho/godotenv"

	"github.com/faizanmasroor/volunteery-webapp/internal/cli"
)

func main() {
	// Local runs keep database credentials in a .env file. A missing
	// file is fine; deployed runs set real environment variables.
	_ = godotenv.Load()

	cli.Execute()
}
