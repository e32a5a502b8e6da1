package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╔═╗┌─┐┌┐┌┌┬┐┌─┐┌─┐┌─┐┬┌┐┌┬
  ╠╣ ├─┤│││ │ │ ││  │  │││││
  ╚  ┴ ┴┘└┘ ┴ └─┘└─┘└─┘┴┘└┘┴
`

func main() {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "fantoccini",
		Short: "Headless single-page applications in Go",
		Long: `Fantoccini runs a single-page application on a headless document.

Pages are components mounted into a shared layout, links are routed on
the client and the navigation bar follows every route change. Features:

  • File-based route discovery with a JSON routes API
  • Route manifests on disk or in S3
  • A websocket bridge that drives one application per session
  • An interactive shell for browsing the demo site`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.dir, "dir", "C", ".", "Project directory")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Override the configured log level")

	rootCmd.AddCommand(
		serveCmd(opts),
		routesCmd(opts),
		matchCmd(opts),
		browseCmd(opts),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

// printBanner prints the ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
