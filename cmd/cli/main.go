package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
	token   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "transferd-cli",
		Short: "transferd CLI tool",
		Long:  `A command line interface for interacting with the transferd API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the transferd API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("TRANSFERD_TOKEN"), "Bearer token (defaults to TRANSFERD_TOKEN)")

	registerCmd := &cobra.Command{
		Use:   "register <username> <password>",
		Short: "Register a new user",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			doPost("/api/v1/users/register", map[string]any{
				"username": args[0],
				"password": args[1],
			})
		},
	}

	loginCmd := &cobra.Command{
		Use:   "login <username> <password>",
		Short: "Log in and print a bearer token",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			doPost("/api/v1/users/login", map[string]any{
				"username": args[0],
				"password": args[1],
			})
		},
	}

	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Account operations",
	}

	openCmd := &cobra.Command{
		Use:   "open <initial-balance>",
		Short: "Open a new account",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			balance, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				fmt.Printf("Invalid balance: %v\n", err)
				os.Exit(1)
			}
			doPost("/api/v1/accounts/", map[string]any{"initial_balance": balance})
		},
	}

	getCmd := &cobra.Command{
		Use:   "get <account-id>",
		Short: "Get an account by ID",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doGet("/api/v1/accounts/" + args[0])
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List your accounts",
		Run: func(cmd *cobra.Command, args []string) {
			doGet("/api/v1/accounts/")
		},
	}

	closeCmd := &cobra.Command{
		Use:   "close <account-id>",
		Short: "Close an account and erase its history",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doDelete("/api/v1/accounts/" + args[0])
		},
	}

	historyCmd := &cobra.Command{
		Use:   "history <account-id>",
		Short: "List an account's transfer history",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doGet("/api/v1/accounts/" + args[0] + "/transactions")
		},
	}

	accountCmd.AddCommand(openCmd, getCmd, listCmd, closeCmd, historyCmd)

	transferCmd := &cobra.Command{
		Use:   "transfer <from-number> <to-number> <amount>",
		Short: "Transfer funds between accounts",
		Args:  cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			amount, err := strconv.ParseInt(args[2], 10, 64)
			if err != nil {
				fmt.Printf("Invalid amount: %v\n", err)
				os.Exit(1)
			}
			doPost("/api/v1/transactions/", map[string]any{
				"from_account_number": args[0],
				"to_account_number":   args[1],
				"amount":              amount,
			})
		},
	}

	rootCmd.AddCommand(registerCmd, loginCmd, accountCmd, transferCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func doPost(path string, payload map[string]any) {
	body, err := json.Marshal(payload)
	if err != nil {
		fmt.Printf("Failed to encode request: %v\n", err)
		os.Exit(1)
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+path, bytes.NewReader(body))
	if err != nil {
		fmt.Printf("Failed to build request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")

	doRequest(req)
}

func doGet(path string) {
	req, err := http.NewRequest(http.MethodGet, baseURL+path, nil)
	if err != nil {
		fmt.Printf("Failed to build request: %v\n", err)
		os.Exit(1)
	}

	doRequest(req)
}

func doDelete(path string) {
	req, err := http.NewRequest(http.MethodDelete, baseURL+path, nil)
	if err != nil {
		fmt.Printf("Failed to build request: %v\n", err)
		os.Exit(1)
	}

	doRequest(req)
}

func doRequest(req *http.Request) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 400 {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	if len(body) == 0 {
		fmt.Printf("OK (Status: %d)\n", resp.StatusCode)
		return
	}

	printBody(body)
}

// printBody pretty-prints JSON responses, falling back to raw output.
func printBody(body []byte) {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		fmt.Println(string(body))
		return
	}

	fmt.Println(pretty.String())
}
