package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/akamensky/argparse"
	"github.com/cyclopcam/logs"
	"github.com/leafscope/leafscope/server/classify"
)

func check(err error) {
	if err != nil {
		panic(err)
	}
}

// One-shot classification of an image file, for smoke testing a trained
// model without standing up the server.
func main() {
	parser := argparse.NewParser("predict", "Classify a plant image")
	input := parser.String("i", "input", &argparse.Options{Help: "Input image file", Required: true})
	runDir := parser.String("r", "run", &argparse.Options{Help: "Training run directory holding the model", Required: true})
	ortLib := parser.String("", "onnxruntime", &argparse.Options{Help: "Path to onnxruntime shared library", Default: ""})
	topN := parser.Int("n", "top", &argparse.Options{Help: "Show the top N classes", Default: 1})
	err := parser.Parse(os.Args)
	if err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	logger, _ := logs.NewLog()

	modelPath, err := classify.ResolveModel(*runDir)
	check(err)
	model, err := classify.LoadModel(logger, "predict", modelPath,
		filepath.Join(*runDir, classify.ClassIndicesFile),
		classify.ModelOptions{SharedLibPath: *ortLib})
	check(err)
	defer model.Close()

	raw, err := os.ReadFile(*input)
	check(err)
	pred, err := model.PredictImage(raw)
	check(err)

	if *topN <= 1 {
		fmt.Printf("%v (%.4f)\n", pred.Label, pred.Confidence)
		return
	}
	top := topClasses(pred, *topN)
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	check(encoder.Encode(top))
}

type rankedClass struct {
	Label      string  `json:"label"`
	Confidence float32 `json:"confidence"`
}

func topClasses(pred *classify.Prediction, n int) []rankedClass {
	ranked := make([]rankedClass, 0, len(pred.Probabilities))
	for label, p := range pred.Probabilities {
		ranked = append(ranked, rankedClass{Label: label, Confidence: p})
	}
	for i := 0; i < len(ranked); i++ {
		for j := i + 1; j < len(ranked); j++ {
			if ranked[j].Confidence > ranked[i].Confidence {
				ranked[i], ranked[j] = ranked[j], ranked[i]
			}
		}
	}
	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}
