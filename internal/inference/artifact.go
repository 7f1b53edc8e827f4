package inference

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrArtifactUnavailable is returned when a scaler or model file cannot be
// loaded, or does not fit the feature schema.
var ErrArtifactUnavailable = errors.New("artifact unavailable")

const (
	kindLogistic     = "logistic"
	kindRandomForest = "random_forest"
)

type validatingClassifier interface {
	Classifier
	validate() error
}

// LoadScaler reads a StandardScaler from a JSON file.
func LoadScaler(path string) (*StandardScaler, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read scaler %s: %v", ErrArtifactUnavailable, path, err)
	}
	return DecodeScaler(bytes.NewReader(data))
}

func DecodeScaler(r io.Reader) (*StandardScaler, error) {
	var s StandardScaler
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: decode scaler: %v", ErrArtifactUnavailable, err)
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArtifactUnavailable, err)
	}
	return &s, nil
}

// LoadClassifier reads a classifier from a JSON file. The "type" field
// selects the model family.
func LoadClassifier(path string) (Classifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read model %s: %v", ErrArtifactUnavailable, path, err)
	}
	return DecodeClassifier(bytes.NewReader(data))
}

func DecodeClassifier(r io.Reader) (Classifier, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read model: %v", ErrArtifactUnavailable, err)
	}

	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, fmt.Errorf("%w: decode model: %v", ErrArtifactUnavailable, err)
	}

	var model validatingClassifier
	switch head.Type {
	case kindLogistic:
		model = &LogisticRegression{}
	case kindRandomForest:
		model = &RandomForest{}
	default:
		return nil, fmt.Errorf("%w: unknown model type %q", ErrArtifactUnavailable, head.Type)
	}

	if err := json.Unmarshal(raw, model); err != nil {
		return nil, fmt.Errorf("%w: decode %s model: %v", ErrArtifactUnavailable, head.Type, err)
	}
	if err := model.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArtifactUnavailable, err)
	}
	return model, nil
}
