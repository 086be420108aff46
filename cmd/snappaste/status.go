package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/snappaste/snappaste/internal/message"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		Args:  cobra.NoArgs,
		RunE:  func(_ *cobra.Command, _ []string) error { return runStatus() },
	}
}

func runStatus() error {
	resp, err := requestDaemon(&message.Message{Type: message.TypeStatus})
	if err != nil {
		return err
	}
	if resp.Status == nil {
		return fmt.Errorf("malformed status response")
	}

	fmt.Printf("daemon:   snappaste %s\n", resp.Status.Version)
	fmt.Printf("backend:  %s\n", resp.Status.Backend)
	if resp.Status.Strategy != "" {
		fmt.Printf("strategy: %s\n", resp.Status.Strategy)
	}
	fmt.Printf("records:  %d\n", resp.Status.Records)
	return nil
}
