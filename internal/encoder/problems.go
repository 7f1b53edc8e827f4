package encoder

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var fieldLabels = map[string]string{
	"Age":      "age",
	"Trestbps": "resting blood pressure (trestbps)",
	"Chol":     "cholesterol (chol)",
	"Thalach":  "max heart rate (thalach)",
	"CA":       "number of major vessels (ca)",
	"Oldpeak":  "ST depression (oldpeak)",
	"Sex":      "sex",
	"CP":       "chest pain type (cp)",
	"Exang":    "exercise induced angina (exang)",
	"FBS":      "fasting blood sugar (fbs)",
	"Restecg":  "resting ECG (restecg)",
	"Slope":    "ST slope (slope)",
	"Thal":     "thalassemia (thal)",
}

// Problems turns a binding validation error into one readable line per
// failing field. It reports false when err did not come from validation.
func Problems(err error) ([]string, bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, false
	}

	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		label, ok := fieldLabels[fe.Field()]
		if !ok {
			label = fe.Field()
		}
		switch fe.Tag() {
		case "required":
			problems = append(problems, label+" is required")
		case "min":
			problems = append(problems, fmt.Sprintf("%s must be at least %s", label, fe.Param()))
		case "max":
			problems = append(problems, fmt.Sprintf("%s must be at most %s", label, fe.Param()))
		default:
			problems = append(problems, label+" is invalid")
		}
	}
	return problems, true
}
