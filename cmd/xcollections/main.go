package main

import (
	"context"
	"fmt"
	"os"

	_ "go.uber.org/automaxprocs"
	"go.uber.org/fx"
)

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	os.Exit(run(cfg))
}

func run(cfg *appConfig) int {
	var result *runResult
	app := fx.New(append(appOptions(cfg), fx.Populate(&result))...)
	if err := app.Err(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		return 2
	}

	// Subscribe before start, the checks may finish before Start returns.
	wait := app.Wait()
	startCtx, cancel := context.WithTimeout(context.Background(), app.StartTimeout())
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return 1
	}

	sig := <-wait

	stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		return 1
	}
	if sig.ExitCode != 0 {
		return sig.ExitCode
	}
	return int(result.code.Load())
}
