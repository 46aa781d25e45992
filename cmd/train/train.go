package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/akamensky/argparse"
	"github.com/cyclopcam/logs"
	"github.com/leafscope/leafscope/server/classify"
	"github.com/leafscope/leafscope/train"
)

func main() {
	parser := argparse.NewParser("train", "Interactive training harness for plant classifiers")
	trainRoot := parser.String("t", "train", &argparse.Options{Help: "Training dataset root (one folder per class)", Required: true})
	valRoot := parser.String("v", "val", &argparse.Options{Help: "Validation dataset root", Required: true})
	modelsRoot := parser.String("m", "models", &argparse.Options{Help: "Directory holding training runs", Default: "models"})
	trainerExe := parser.String("e", "trainer", &argparse.Options{Help: "External trainer executable", Required: true})
	epochs := parser.Int("", "epochs", &argparse.Options{Help: "Maximum epochs", Default: 100})
	batch := parser.Int("b", "batch", &argparse.Options{Help: "Training batch size", Default: 32})
	eta := parser.Float("", "eta", &argparse.Options{Help: "Initial learning rate", Default: 0.05})
	gpu := parser.Flag("g", "gpu", &argparse.Options{Help: "Train on the GPU", Default: false})
	nightOnly := parser.Flag("", "night-only", &argparse.Options{Help: "Confine training to the 00:00-07:00 window", Default: false})
	deployTo := parser.String("", "deploy", &argparse.Options{Help: "After training, assemble a serving bundle here", Default: ""})
	err := parser.Parse(os.Args)
	if err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	logger, err := logs.NewLog()
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	in := bufio.NewReader(os.Stdin)

	modelType, err := chooseModelType(in)
	check(logger, err)

	var gate *train.Gate
	if *nightOnly {
		gate = train.NewGate(logger, train.DefaultWindow())
	}

	opts := train.Options{
		ModelType:  modelType,
		TrainRoot:  *trainRoot,
		ValRoot:    *valRoot,
		ModelsRoot: *modelsRoot,
		Epochs:     *epochs,
		BatchSize:  *batch,
		Eta:        *eta,
		UseGPU:     *gpu,
		Gate:       gate,
		Engine:     train.NewProcessEngine(logger, *trainerExe),
	}

	ctx := context.Background()
	var run *train.Run

	resume, err := chooseResume(in, *modelsRoot, modelType)
	check(logger, err)
	if resume != "" {
		trainer, err := train.NewTrainer(logger, opts)
		check(logger, err)
		run, err = trainer.LoadRun(resume)
		check(logger, err)
		result, err := trainer.Train(ctx, run)
		check(logger, err)
		report(logger, result)
	} else {
		opts.Arch, err = chooseArch(in)
		check(logger, err)
		trainer, err := train.NewTrainer(logger, opts)
		check(logger, err)
		run, err = trainer.Prepare(ctx)
		check(logger, err)
		result, err := trainer.Train(ctx, run)
		check(logger, err)
		report(logger, result)
	}

	if *deployTo != "" {
		check(logger, train.Deploy(logger, run.Dir, *deployTo))
	}
}

func check(logger logs.Log, err error) {
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

func report(logger logs.Log, result *train.Result) {
	if result.Stopped {
		logger.Infof("Training stopped early after %v epochs. Best validation loss %.4f", result.EpochsRun, result.BestValLoss)
	} else {
		logger.Infof("Training finished after %v epochs. Best validation loss %.4f", result.EpochsRun, result.BestValLoss)
	}
}

func chooseModelType(in *bufio.Reader) (train.ModelType, error) {
	fmt.Println("Which model do you want to train?")
	for i, m := range train.ModelTypes {
		fmt.Printf("  %v) %v\n", i+1, m)
	}
	choice, err := promptInt(in, "Model", 1, len(train.ModelTypes))
	if err != nil {
		return "", err
	}
	modelType := train.ModelTypes[choice-1]
	// Fail fast on types we can't train, before any dataset work.
	if _, err := modelType.LabelStrategy(); err != nil {
		return "", err
	}
	return modelType, nil
}

func chooseArch(in *bufio.Reader) (train.Arch, error) {
	fmt.Println("Architecture?")
	fmt.Println("  1) custom (train from scratch)")
	fmt.Println("  2) deep (bigger net, slower, for when custom underfits)")
	choice, err := promptInt(in, "Architecture", 1, 2)
	if err != nil {
		return "", err
	}
	if choice == 2 {
		return train.ArchDeep, nil
	}
	return train.ArchCustom, nil
}

// chooseResume offers the existing runs of this model type. Returns the run
// directory to resume, or "" for a fresh run.
func chooseResume(in *bufio.Reader, modelsRoot string, modelType train.ModelType) (string, error) {
	runs, err := classify.ListRuns(modelsRoot, string(modelType))
	if err != nil || len(runs) == 0 {
		// No runs root yet, or nothing to resume.
		return "", nil
	}
	fmt.Println("Start a new run, or resume an existing one?")
	fmt.Println("  1) new run")
	for i, r := range runs {
		fmt.Printf("  %v) resume %v\n", i+2, r)
	}
	choice, err := promptInt(in, "Run", 1, len(runs)+1)
	if err != nil {
		return "", err
	}
	if choice == 1 {
		return "", nil
	}
	return filepath.Join(modelsRoot, runs[choice-2]), nil
}

func promptInt(in *bufio.Reader, what string, min, max int) (int, error) {
	for {
		fmt.Printf("%v [%v-%v]: ", what, min, max)
		line, err := in.ReadString('\n')
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err == nil && n >= min && n <= max {
			return n, nil
		}
		fmt.Println("Invalid choice.")
	}
}
