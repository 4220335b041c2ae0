package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/goodsteward/ledger/internal/infrastructure/config"
	"github.com/goodsteward/ledger/internal/infrastructure/postgres"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ledger-cli",
		Short: "Ledger CLI tool",
		Long:  `A command line interface for the nonprofit ledger API and its database.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the ledger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	// Migration commands
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migrations",
	}
	migrateCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				return postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the last migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				return postgres.RunMigrationsDown(cfg.DatabaseURL, cfg.MigrationsPath)
			},
		},
	)
	rootCmd.AddCommand(migrateCmd)

	// Account commands
	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Account operations",
	}
	accountCmd.AddCommand(
		&cobra.Command{
			Use:   "verify-balance [account-id]",
			Short: "Recompute an account balance and compare with the cache",
			Args:  cobra.ExactArgs(1),
			Run: func(cmd *cobra.Command, args []string) {
				get("/api/v1/accounts/" + args[0] + "/balance/verify")
			},
		},
		&cobra.Command{
			Use:   "repair-balance [account-id]",
			Short: "Overwrite an account balance cache with the recomputed value",
			Args:  cobra.ExactArgs(1),
			Run: func(cmd *cobra.Command, args []string) {
				post("/api/v1/accounts/"+args[0]+"/balance/repair", nil)
			},
		},
	)
	rootCmd.AddCommand(accountCmd)

	// Transaction commands
	txnCmd := &cobra.Command{
		Use:   "transaction",
		Short: "Transaction operations",
	}
	txnCmd.AddCommand(
		&cobra.Command{
			Use:   "history [transaction-id]",
			Short: "Show every version of a transaction, newest first",
			Args:  cobra.ExactArgs(1),
			Run: func(cmd *cobra.Command, args []string) {
				get("/api/v1/transactions/" + args[0] + "/history")
			},
		},
		&cobra.Command{
			Use:   "integrity [transaction-id]",
			Short: "Audit a transaction for structural problems",
			Args:  cobra.ExactArgs(1),
			Run: func(cmd *cobra.Command, args []string) {
				get("/api/v1/transactions/" + args[0] + "/integrity")
			},
		},
	)
	rootCmd.AddCommand(txnCmd)

	// Reconciliation commands
	reconCmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Reconciliation operations",
	}
	var actor string
	matchCmd := &cobra.Command{
		Use:   "match [statement-id]",
		Short: "Run auto-matching over a statement",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			post("/api/v1/statements/"+args[0]+"/match", map[string]string{"actor": actor})
		},
	}
	matchCmd.Flags().StringVar(&actor, "actor", "cli", "Acting user recorded on created versions")
	completeCmd := &cobra.Command{
		Use:   "complete [statement-id]",
		Short: "Confirm matched lines and mark the statement completed",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			post("/api/v1/statements/"+args[0]+"/complete", map[string]string{"actor": actor})
		},
	}
	completeCmd.Flags().StringVar(&actor, "actor", "cli", "Acting user recorded on created versions")
	reconCmd.AddCommand(matchCmd, completeCmd)
	rootCmd.AddCommand(reconCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func get(path string) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	printResponse(resp)
}

func post(path string, payload any) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			fmt.Printf("Error encoding request: %v\n", err)
			os.Exit(1)
		}
		body = bytes.NewReader(data)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+path, "application/json", body)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	printResponse(resp)
}

func printResponse(resp *http.Response) {
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 400 {
		fmt.Printf("Request FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		fmt.Println(string(body))
		return
	}
	fmt.Println(pretty.String())
}
