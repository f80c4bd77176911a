package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/hupe1980/tinyservice/message"
)

var (
	callJSON    bool
	callRepeat  int
	callTimeout time.Duration
	callMetrics bool
)

var callCmd = &cobra.Command{
	Use:   "call [route] [body]",
	Short: "Call a route with a request body",
	Long: `Waits for the route to become ready, calls it with the body and prints
the response body. With --repeat the call is issued several times in a row,
which makes rate and concurrency limits observable.`,
	Args: cobra.ExactArgs(2),
	RunE: runCall,
}

func init() {
	callCmd.Flags().BoolVar(&callJSON, "json", false, "output responses as JSON")
	callCmd.Flags().IntVarP(&callRepeat, "repeat", "n", 1, "number of calls to issue")
	callCmd.Flags().DurationVar(&callTimeout, "timeout", 10*time.Second, "timeout for all calls")
	callCmd.Flags().BoolVar(&callMetrics, "metrics", false, "print collected metrics after the calls")
	rootCmd.AddCommand(callCmd)
}

type callOutput struct {
	RequestID string `json:"request_id"`
	Route     string `json:"route"`
	Status    int    `json:"status"`
	Body      string `json:"body"`
}

func runCall(cmd *cobra.Command, args []string) error {
	route, body := args[0], args[1]

	if callRepeat < 1 {
		return fmt.Errorf("--repeat must be at least 1, got %d", callRepeat)
	}

	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()

	for i := 0; i < callRepeat; i++ {
		req, err := message.NewRequest(http.MethodPost, "/"+route, body)
		if err != nil {
			return err
		}

		resp, err := router.Invoke(ctx, route, req)
		if err != nil {
			return fmt.Errorf("call failed: %w", err)
		}

		if err := printResponse(cmd, route, req, resp); err != nil {
			return err
		}
	}

	if callMetrics {
		return printMetrics(cmd)
	}

	return nil
}

func printResponse(cmd *cobra.Command, route string, req Request, resp Response) error {
	if !callJSON {
		cmd.Println(resp.Body)
		return nil
	}

	data, err := json.Marshal(callOutput{
		RequestID: string(req.ID()),
		Route:     route,
		Status:    resp.Head.Status,
		Body:      resp.Body,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}
	cmd.Println(string(data))

	return nil
}

func printMetrics(cmd *cobra.Command) error {
	if collector == nil {
		cmd.Println("Metrics are disabled.")
		return nil
	}

	families, err := collector.Registry().Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(cmd.OutOrStdout(), mf); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}

	return nil
}
