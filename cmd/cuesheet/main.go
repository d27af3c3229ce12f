package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"cuesheet/internal/services"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cmd := newRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, formatError(err))
		}
		cancel()
		os.Exit(1)
	}
}

// formatError appends a next-step hint for errors the user can fix and rerun.
func formatError(err error) string {
	switch {
	case errors.Is(err, services.ErrEmptyResult):
		return fmt.Sprintf("%v\nhint: check that the files are track listing exports with unmuted clips", err)
	case errors.Is(err, services.ErrInput):
		return fmt.Sprintf("%v\nhint: check the input paths and rerun", err)
	case services.Classify(err) == services.OutcomeFatal:
		return fmt.Sprintf("%v\nhint: fix the configuration (cuesheet config validate) and rerun", err)
	default:
		return err.Error()
	}
}
