package inference

import (
	"fmt"

	"github.com/Skufu/HeartRisk/internal/schema"
)

// Threshold is the positive-class probability at which the label flips to 1.
const Threshold = 0.5

// PredictionFailed is a recoverable per-request failure. The caller shows
// Reason to the user and keeps serving.
type PredictionFailed struct {
	Reason string
	Err    error
}

func (e *PredictionFailed) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("prediction failed: %s: %v", e.Reason, e.Err)
	}
	return "prediction failed: " + e.Reason
}

func (e *PredictionFailed) Unwrap() error {
	return e.Err
}

// Result is the binary label and the positive-class probability.
type Result struct {
	Label       int     `json:"label"`
	Probability float64 `json:"probability"`
}

// Label thresholds a positive-class probability.
func Label(p float64) int {
	if p >= Threshold {
		return 1
	}
	return 0
}

// Predictor chains a fitted scaler and classifier. Both are read-only after
// construction, so one Predictor is shared by every request.
type Predictor struct {
	scaler Scaler
	model  Classifier
}

func NewPredictor(scaler Scaler, model Classifier) *Predictor {
	return &Predictor{scaler: scaler, model: model}
}

// Kind names the classifier family, or "" when none is loaded.
func (p *Predictor) Kind() string {
	if p.model == nil {
		return ""
	}
	return p.model.Kind()
}

// CheckSchema verifies both artifacts match the schema width, and the
// scaler's recorded feature names when it carries them.
func (p *Predictor) CheckSchema(s *schema.Schema) error {
	if p.scaler == nil || p.model == nil {
		return fmt.Errorf("%w: scaler or model not loaded", ErrArtifactUnavailable)
	}
	if p.scaler.Width() != s.Len() {
		return fmt.Errorf("%w: scaler width %d, schema width %d", ErrArtifactUnavailable, p.scaler.Width(), s.Len())
	}
	if p.model.Width() != s.Len() {
		return fmt.Errorf("%w: model width %d, schema width %d", ErrArtifactUnavailable, p.model.Width(), s.Len())
	}
	if ss, ok := p.scaler.(*StandardScaler); ok && len(ss.FeatureNames) > 0 {
		for i, name := range ss.FeatureNames {
			if name != s.Name(i) {
				return fmt.Errorf("%w: scaler column %d is %q, schema has %q", ErrArtifactUnavailable, i, name, s.Name(i))
			}
		}
	}
	return nil
}

// Predict scales x, asks the classifier for class probabilities and
// thresholds the positive class. Every failure, including a panic inside
// an artifact, comes back as *PredictionFailed.
func (p *Predictor) Predict(x []float64) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{}
			err = &PredictionFailed{Reason: fmt.Sprintf("model panicked: %v", r)}
		}
	}()

	if p.scaler == nil || p.model == nil {
		return Result{}, &PredictionFailed{Reason: "scaler or model not loaded"}
	}
	if !allFinite(x) {
		return Result{}, &PredictionFailed{Reason: "input contains non-finite values"}
	}

	scaled, err := p.scaler.Transform(x)
	if err != nil {
		return Result{}, &PredictionFailed{Reason: "scale features", Err: err}
	}
	if !allFinite(scaled) {
		return Result{}, &PredictionFailed{Reason: "numeric overflow while scaling"}
	}

	dist, err := p.model.PredictProba(scaled)
	if err != nil {
		return Result{}, &PredictionFailed{Reason: "classify", Err: err}
	}
	if len(dist) != 2 {
		return Result{}, &PredictionFailed{Reason: fmt.Sprintf("model returned %d classes, want 2", len(dist))}
	}

	prob := dist[1]
	if !finite(prob) || prob < 0 || prob > 1 {
		return Result{}, &PredictionFailed{Reason: fmt.Sprintf("positive-class probability %v out of range", prob)}
	}
	return Result{Label: Label(prob), Probability: prob}, nil
}

func allFinite(x []float64) bool {
	for _, v := range x {
		if !finite(v) {
			return false
		}
	}
	return true
}
