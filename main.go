package main

import (
	"os"

	"github.com/ln64-git/setwallpaper/src/cli"
	"github.com/ln64-git/setwallpaper/src/config"
	"github.com/ln64-git/setwallpaper/src/utility"
)

var version = "0.1.0"

func main() {
	os.Exit(run())
}

func run() int {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		utility.NewLogger("cli", utility.INFO).Warn("Failed to load config: %v, using defaults", err)
		cfg = config.Default()
	}

	c := cli.NewCLI(cfg, version)
	defer c.Close()

	if err := c.CreateCommands().Execute(); err != nil {
		c.Logger().Error("Error: %v", err)
		return cli.ExitCode(err)
	}
	return 0
}
