package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"billino/internal/client"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

var (
	serverAddr string
	authToken  string

	api *client.Client
)

// cliConfig is read from ~/.billctl.toml; flags override it.
type cliConfig struct {
	Server string `toml:"server"`
	Token  string `toml:"token"`
}

func loadConfig() cliConfig {
	cfg := cliConfig{Server: "http://localhost:8080"}
	home, err := os.UserHomeDir()
	if err != nil {
		return cfg
	}
	path := filepath.Join(home, ".billctl.toml")
	if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: %s: %v\n", path, err)
	}
	return cfg
}

var rootCmd = &cobra.Command{
	Use:   "billctl",
	Short: "CLI client for the Billino invoicing service",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		if serverAddr == "" {
			serverAddr = cfg.Server
		}
		if authToken == "" {
			authToken = cfg.Token
		}
		api = client.New(strings.TrimRight(serverAddr, "/"))
		api.Token = authToken
	},
}

func main() {
	rootCmd.PersistentFlags().StringVar(&serverAddr, "server", "", "server base URL (default from ~/.billctl.toml)")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", "", "bearer token (default from ~/.billctl.toml)")

	rootCmd.AddCommand(newListCmd("customers", "/api/customers"))
	rootCmd.AddCommand(newListCmd("invoices", "/api/invoices"))
	rootCmd.AddCommand(newListCmd("summary-invoices", "/api/summary-invoices"))
	rootCmd.AddCommand(newPDFCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
