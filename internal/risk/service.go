package risk

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Skufu/HeartRisk/internal/encoder"
	"github.com/Skufu/HeartRisk/internal/inference"
	"github.com/Skufu/HeartRisk/internal/schema"
)

const Disclaimer = "This is only a demo model, not medical advice."

// Assessment is the outcome of one form submission.
type Assessment struct {
	ID          uuid.UUID            `json:"id"`
	Label       int                  `json:"label"`
	Probability float64              `json:"probability"`
	Risk        string               `json:"risk"`
	Message     string               `json:"message"`
	Disclaimer  string               `json:"disclaimer"`
	Input       encoder.PatientInput `json:"input"`
	Features    []encoder.Feature    `json:"features,omitempty"`
	CreatedAt   time.Time            `json:"createdAt"`
}

// Recorder persists assessments. A failed write never fails the request.
type Recorder interface {
	Save(ctx context.Context, a Assessment) error
}

// Service runs encode -> align -> scale -> classify for one input. Schema,
// encoder and predictor are built at startup and only read afterwards.
type Service struct {
	schema    *schema.Schema
	encoder   *encoder.Encoder
	predictor *inference.Predictor
	recorder  Recorder
	now       func() time.Time
}

// NewService wires the pipeline and runs the startup checks: the artifacts
// must match the schema width and the canonical input must encode cleanly.
func NewService(s *schema.Schema, p *inference.Predictor, rec Recorder) (*Service, error) {
	if err := p.CheckSchema(s); err != nil {
		return nil, err
	}
	enc := encoder.New(s)
	if err := enc.SelfCheck(); err != nil {
		return nil, fmt.Errorf("encoder self-check: %w", err)
	}
	return &Service{
		schema:    s,
		encoder:   enc,
		predictor: p,
		recorder:  rec,
		now:       time.Now,
	}, nil
}

func (s *Service) Schema() *schema.Schema {
	return s.schema
}

func (s *Service) Coverage() encoder.Coverage {
	return s.encoder.Coverage()
}

// Assess scores one patient. Errors are either encoder.ErrMissingSchemaColumn
// (deployment mismatch) or *inference.PredictionFailed (recoverable).
func (s *Service) Assess(ctx context.Context, in encoder.PatientInput, verbose bool) (Assessment, error) {
	rec := s.encoder.Encode(in)
	x, err := rec.Align(s.schema)
	if err != nil {
		return Assessment{}, fmt.Errorf("align record: %w", err)
	}

	res, err := s.predictor.Predict(x)
	if err != nil {
		return Assessment{}, err
	}

	a := Assessment{
		ID:          uuid.New(),
		Label:       res.Label,
		Probability: res.Probability,
		Risk:        riskLevel(res.Label),
		Message:     message(res),
		Disclaimer:  Disclaimer,
		Input:       in,
		CreatedAt:   s.now().UTC(),
	}
	if verbose {
		a.Features = rec.Features()
	}

	if s.recorder != nil {
		if err := s.recorder.Save(ctx, a); err != nil {
			log.Printf("assessment %s: record failed: %v", a.ID, err)
		}
	}
	return a, nil
}

func riskLevel(label int) string {
	if label == 1 {
		return "HIGH"
	}
	return "LOW"
}

func message(res inference.Result) string {
	if res.Label == 1 {
		return fmt.Sprintf("Higher risk of heart disease - probability %.2f", res.Probability)
	}
	return fmt.Sprintf("Lower risk of heart disease - probability %.2f", res.Probability)
}
