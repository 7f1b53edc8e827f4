// Command predict scores one patient JSON document against the trained
// artifacts and prints the assessment, without starting the HTTP server.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/joho/godotenv"

	"github.com/Skufu/HeartRisk/internal/encoder"
	"github.com/Skufu/HeartRisk/internal/inference"
	"github.com/Skufu/HeartRisk/internal/risk"
)

func main() {
	_ = godotenv.Load()

	schemaPath := flag.String("schema", getEnv("SCHEMA_PATH", filepath.Join("artifacts", "feature_columns.json")), "feature schema JSON")
	scalerPath := flag.String("scaler", getEnv("SCALER_PATH", filepath.Join("artifacts", "heart_scaler.json")), "scaler artifact JSON")
	modelPath := flag.String("model", getEnv("MODEL_PATH", filepath.Join("artifacts", "heart_model.json")), "classifier artifact JSON")
	inputPath := flag.String("input", "-", "patient JSON file, - for stdin")
	verbose := flag.Bool("verbose", false, "include the encoded feature row")
	flag.Parse()

	svc, err := risk.Load(risk.Artifacts{
		SchemaPath: *schemaPath,
		ScalerPath: *scalerPath,
		ModelPath:  *modelPath,
	}, nil)
	if err != nil {
		log.Fatalf("load artifacts: %v", err)
	}

	if err := run(svc, *inputPath, *verbose, os.Stdin, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(svc *risk.Service, inputPath string, verbose bool, stdin io.Reader, out io.Writer) error {
	in := stdin
	if inputPath != "-" {
		f, err := os.Open(inputPath)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		in = f
	}

	var patient encoder.PatientInput
	if err := json.NewDecoder(in).Decode(&patient); err != nil {
		return fmt.Errorf("decode patient: %w", err)
	}
	if err := binding.Validator.ValidateStruct(&patient); err != nil {
		if problems, ok := encoder.Problems(err); ok {
			return fmt.Errorf("invalid patient: %s", strings.Join(problems, "; "))
		}
		return fmt.Errorf("invalid patient: %w", err)
	}

	a, err := svc.Assess(context.Background(), patient, verbose)
	var failed *inference.PredictionFailed
	if errors.As(err, &failed) {
		return fmt.Errorf("error during prediction: %s", failed.Error())
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(a)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
