// Command toolloop sends a prompt to a tool-calling model and lets it work
// through the arithmetic tools until it answers.
//
// Usage:
//
//	toolloop [-f toolloop.yaml] [-o text|json|yaml] [-b openai|scripted] [-s script.yaml] [prompt...]
//
// Without a prompt the default arithmetic task is used. Settings not given
// on the command line come from the config file and TOOLLOOP_* variables.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
