package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"camect-relay/cmd"
	"camect-relay/log"
)

func main() {
	ctx, stop := ShutdownContext()
	code := cmd.Execute(ctx)
	stop()
	os.Exit(code)
}

// ShutdownContext is cancelled on SIGINT or SIGTERM.
func ShutdownContext() (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		log.Infoln("Shutting down camect-relay...")
	}()
	return ctx, stop
}
