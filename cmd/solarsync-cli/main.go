package main

import (
	"context"
	"solarsync-backend/cmd/solarsync-cli/commands"

	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()
	commands.ExecuteContext(context.Background())
}
