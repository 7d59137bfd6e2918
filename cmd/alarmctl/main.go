package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	alarmcmd "github.com/telekom/alarm-trials/pkg/alarmctl/cmd"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := alarmcmd.DefaultConfig()
	cfg.Context = ctx
	root := alarmcmd.NewRootCommand(cfg)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		return 1
	}
	return 0
}
