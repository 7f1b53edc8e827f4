package risk

import (
	"golang.org/x/sync/errgroup"

	"github.com/Skufu/HeartRisk/internal/inference"
	"github.com/Skufu/HeartRisk/internal/schema"
)

// Artifacts locates the files produced by training.
type Artifacts struct {
	SchemaPath string
	ScalerPath string
	ModelPath  string
}

// Load reads the schema, scaler and classifier in parallel and builds a
// checked Service. Any error means the process must not serve predictions.
func Load(paths Artifacts, rec Recorder) (*Service, error) {
	var (
		s      *schema.Schema
		scaler *inference.StandardScaler
		model  inference.Classifier
		g      errgroup.Group
	)

	g.Go(func() error {
		var err error
		s, err = schema.Load(paths.SchemaPath)
		return err
	})
	g.Go(func() error {
		var err error
		scaler, err = inference.LoadScaler(paths.ScalerPath)
		return err
	})
	g.Go(func() error {
		var err error
		model, err = inference.LoadClassifier(paths.ModelPath)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return NewService(s, inference.NewPredictor(scaler, model), rec)
}
