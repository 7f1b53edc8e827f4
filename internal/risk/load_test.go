package risk

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Skufu/HeartRisk/internal/encoder"
	"github.com/Skufu/HeartRisk/internal/inference"
	"github.com/Skufu/HeartRisk/internal/schema"
)

func TestLoadShippedArtifacts(t *testing.T) {
	root := filepath.Join("..", "..", "artifacts")
	svc, err := Load(Artifacts{
		SchemaPath: filepath.Join(root, "feature_columns.json"),
		ScalerPath: filepath.Join(root, "heart_scaler.json"),
		ModelPath:  filepath.Join(root, "heart_model.json"),
	}, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if svc.Coverage().Gaps() {
		t.Fatalf("expected full coverage, got %+v", svc.Coverage())
	}

	a, err := svc.Assess(context.Background(), encoder.CanonicalInput(), false)
	if err != nil {
		t.Fatalf("assess: %v", err)
	}
	if a.Probability < 0 || a.Probability > 1 {
		t.Fatalf("probability out of range: %v", a.Probability)
	}
}

func TestLoadMissingArtifacts(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "feature_columns.json")
	if err := os.WriteFile(schemaPath, []byte(`["age"]`), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(Artifacts{
		SchemaPath: schemaPath,
		ScalerPath: filepath.Join(dir, "scaler.json"),
		ModelPath:  filepath.Join(dir, "model.json"),
	}, nil)
	if !errors.Is(err, inference.ErrArtifactUnavailable) {
		t.Fatalf("expected ErrArtifactUnavailable, got %v", err)
	}

	_, err = Load(Artifacts{
		SchemaPath: filepath.Join(dir, "none.json"),
		ScalerPath: filepath.Join("..", "..", "artifacts", "heart_scaler.json"),
		ModelPath:  filepath.Join("..", "..", "artifacts", "heart_model.json"),
	}, nil)
	if !errors.Is(err, schema.ErrSchemaUnavailable) {
		t.Fatalf("expected ErrSchemaUnavailable, got %v", err)
	}
}
