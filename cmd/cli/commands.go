package main

import (
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(scorecardCmd)
	rootCmd.AddCommand(upcomingCmd)
	rootCmd.AddCommand(financeCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List all matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/matches")
	},
}

var scorecardCmd = &cobra.Command{
	Use:   "scorecard [matchID]",
	Short: "Get the full scorecard for a match",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/matches/" + args[0] + "/scorecard")
	},
}

var upcomingCmd = &cobra.Command{
	Use:   "upcoming",
	Short: "List upcoming fixtures",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/upcoming")
	},
}

var financeCmd = &cobra.Command{
	Use:   "finance",
	Short: "Get the overall finance summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/finance/summary")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
