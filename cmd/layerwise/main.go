// Package main provides the layerwise CLI.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/born-ml/layerwise/internal/config"
	"github.com/born-ml/layerwise/internal/train"
)

const version = "v0.1.0"

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		usage(stdout)
		return nil
	}

	switch args[0] {
	case "version":
		fmt.Fprintf(stdout, "layerwise %s\n", version)
		return nil
	case "init":
		return cmdInit(stdout)
	case "train":
		return cmdTrain(ctx, args[1:], stdout, stderr)
	case "eval":
		return cmdEval(args[1:], stdout)
	case "graph":
		return cmdGraph(args[1:], stdout)
	case "help", "-h", "--help":
		usage(stdout)
		return nil
	default:
		usage(stderr)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "layerwise - layer-by-layer neural network training")
	fmt.Fprintf(w, "Version: %s\n\n", version)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  version    Show version")
	fmt.Fprintln(w, "  init       Print the built-in XOR run as YAML")
	fmt.Fprintln(w, "  train      Train a run (-config run.yaml, -out params.safetensors)")
	fmt.Fprintln(w, "  eval       Evaluate saved parameters (-config run.yaml -params params.safetensors)")
	fmt.Fprintln(w, "  graph      Print the layer graph in Graphviz DOT format (-config run.yaml)")
}

// loadRun reads path, or returns the built-in XOR run when path is empty.
func loadRun(path string) (*config.Run, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func cmdInit(stdout io.Writer) error {
	data, err := config.Default().Marshal()
	if err != nil {
		return err
	}
	_, err = stdout.Write(data)
	return err
}

func cmdTrain(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Run configuration file (default: built-in XOR run)")
	outPath := fs.String("out", "", "Write trained parameters to this SafeTensors file")
	epochs := fs.Int("epochs", 0, "Override the number of epochs")
	verbose := fs.Bool("v", false, "Log at debug level")
	if err := fs.Parse(args); err != nil {
		return err
	}

	runCfg, err := loadRun(*configPath)
	if err != nil {
		return err
	}
	if *epochs > 0 {
		runCfg.Epochs = *epochs
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	logger.Debug("run loaded", "config", *configPath, "seed", runCfg.Seed, "loss", runCfg.Loss)

	trainer, err := train.NewTrainer(runCfg, logger)
	if err != nil {
		return err
	}
	inputs, targets, err := train.LoadDataset(runCfg.Dataset)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	h, err := trainer.Fit(ctx, inputs, targets)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if err != nil {
		logger.Warn("training interrupted", "epochs", len(h.Losses))
	}

	fmt.Fprintf(stdout, "final loss: %.6f\n", h.Final())
	fmt.Fprintf(stdout, "predictions: %v\n", trainer.Predict(inputs))

	if *outPath != "" {
		if err := train.SaveCheckpoint(*outPath, trainer.Chain(), runCfg, h); err != nil {
			return err
		}
		logger.Info("parameters saved", "path", *outPath)
	}
	return nil
}

func cmdEval(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("eval", flag.ContinueOnError)
	configPath := fs.String("config", "", "Run configuration file (default: built-in XOR run)")
	paramsPath := fs.String("params", "", "SafeTensors file written by train -out")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *paramsPath == "" {
		return errors.New("eval: -params is required")
	}

	runCfg, err := loadRun(*configPath)
	if err != nil {
		return err
	}
	trainer, err := train.NewTrainer(runCfg, nil)
	if err != nil {
		return err
	}
	meta, err := train.LoadCheckpoint(*paramsPath, trainer.Chain())
	if err != nil {
		return err
	}
	inputs, targets, err := train.LoadDataset(runCfg.Dataset)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "trained for %s epochs with %s\n", meta[train.MetaEpochs], meta[train.MetaOptimizer])
	fmt.Fprintf(stdout, "loss: %.6f\n", trainer.Evaluate(inputs, targets))
	fmt.Fprintf(stdout, "predictions: %v\n", trainer.Predict(inputs))
	return nil
}

func cmdGraph(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("graph", flag.ContinueOnError)
	configPath := fs.String("config", "", "Run configuration file (default: built-in XOR run)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	runCfg, err := loadRun(*configPath)
	if err != nil {
		return err
	}
	chain, err := train.Build(runCfg)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, chain.DOT())
	return nil
}
