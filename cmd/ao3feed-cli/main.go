package main

import (
	"context"

	"ao3feed-backend/cmd/ao3feed-cli/commands"
	"ao3feed-backend/lib/telemetry"
)

func main() {
	telemetry.InitSlog(true)
	telemetry.SetupFromEnv(context.Background(), "ao3feed-cli")
	commands.ExecuteContext(context.Background())
}
