package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pevans/linkharvest/config"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Get subcommand
	subcommand := os.Args[1]

	switch subcommand {
	case "extract":
		handleExtract(mustLoadSettings(), os.Args[2:])
	case "merge":
		handleMerge(mustLoadSettings(), os.Args[2:])
	case "init":
		handleInit(os.Args[2:])
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command: %s\n\n", subcommand)
		printUsage()
		os.Exit(1)
	}
}

func mustLoadSettings() *settings {
	s, err := loadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return s
}

func handleInit(args []string) {
	// Parse flags for init command
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	force := fs.Bool("force", false, "Overwrite an existing config file")
	fs.Parse(args)

	created, err := config.WriteDefaultConfigFile(*force)
	configPath, _ := config.ConfigFilePath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ Failed to create config file: %v\n", err)
		os.Exit(1)
	}

	if created {
		fmt.Printf("✓ Config file: %s\n", configPath)
	} else {
		fmt.Printf("  Config file: %s (already exists)\n", configPath)
		fmt.Println("  Use 'linkharvest init -force' to overwrite it")
	}
}

func printUsage() {
	fmt.Println("linkharvest - Extract article links from saved pages")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  linkharvest <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  extract    Extract article links from an HTML page or feed")
	fmt.Println("  merge      Merge exported article lists")
	fmt.Println("  init       Write the default config file")
	fmt.Println("  help       Show this help message")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  LINKHARVEST_PATTERN    Article URL prefix (default: https://mp.weixin.qq.com/s)")
	fmt.Println("  LINKHARVEST_VARIANT    enhanced or basic (default: enhanced)")
	fmt.Println("  LINKHARVEST_NORMALIZE  Normalize titles (default: false)")
	fmt.Println("  LINKHARVEST_COPY       Copy JSON to the clipboard (default: false)")
	fmt.Println("  LINKHARVEST_FORMAT     report, json, links or table (default: report)")
}
