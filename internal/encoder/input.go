package encoder

// PatientInput is the structured form data for one assessment. The binding
// tags carry the form's bounds; categorical fields carry the exact vocabulary
// strings the model was trained on. Dataset is optional.
type PatientInput struct {
	Age      float64 `json:"age" binding:"required,min=20,max=100"`
	Trestbps float64 `json:"trestbps" binding:"required,min=80,max=220"`
	Chol     float64 `json:"chol" binding:"required,min=100,max=600"`
	Thalach  float64 `json:"thalach" binding:"required,min=70,max=220"`
	CA       float64 `json:"ca" binding:"min=0,max=4"`
	Oldpeak  float64 `json:"oldpeak" binding:"min=0,max=6"`

	Sex     Sex           `json:"sex" binding:"required"`
	CP      ChestPain     `json:"cp" binding:"required"`
	Exang   Flag          `json:"exang" binding:"required"`
	FBS     Flag          `json:"fbs" binding:"required"`
	Restecg RestingECG    `json:"restecg" binding:"required"`
	Slope   STSlope       `json:"slope" binding:"required"`
	Thal    Thalassemia   `json:"thal" binding:"required"`
	Dataset DatasetOrigin `json:"dataset,omitempty"`
}

type Sex string

const (
	SexMale   Sex = "Male"
	SexFemale Sex = "Female"
)

type ChestPain string

const (
	ChestPainTypical      ChestPain = "typical angina"
	ChestPainAtypical     ChestPain = "atypical angina"
	ChestPainNonAnginal   ChestPain = "non-anginal"
	ChestPainAsymptomatic ChestPain = "asymptomatic"
)

// Flag is a True/False selection as labelled in the training data.
type Flag string

const (
	FlagFalse Flag = "False"
	FlagTrue  Flag = "True"
)

type RestingECG string

const (
	RestingECGNormal         RestingECG = "normal"
	RestingECGLVHypertrophy  RestingECG = "lv hypertrophy"
	RestingECGSTTAbnormality RestingECG = "st-t abnormality"
)

type STSlope string

const (
	SlopeFlat        STSlope = "flat"
	SlopeUpsloping   STSlope = "upsloping"
	SlopeDownsloping STSlope = "downsloping"
)

type Thalassemia string

const (
	ThalNormal           Thalassemia = "normal"
	ThalFixedDefect      Thalassemia = "fixed defect"
	ThalReversableDefect Thalassemia = "reversable defect"
)

type DatasetOrigin string

const (
	DatasetCleveland   DatasetOrigin = "Cleveland"
	DatasetHungary     DatasetOrigin = "Hungary"
	DatasetSwitzerland DatasetOrigin = "Switzerland"
	DatasetVALongBeach DatasetOrigin = "VA Long Beach"
)

// CanonicalInput is the form's default selection. The startup self-check
// encodes it to prove the encoder and schema agree.
func CanonicalInput() PatientInput {
	return PatientInput{
		Age:      50,
		Trestbps: 120,
		Chol:     200,
		Thalach:  150,
		CA:       0,
		Oldpeak:  1.0,
		Sex:      SexMale,
		CP:       ChestPainTypical,
		Exang:    FlagFalse,
		FBS:      FlagFalse,
		Restecg:  RestingECGNormal,
		Slope:    SlopeFlat,
		Thal:     ThalNormal,
		Dataset:  DatasetCleveland,
	}
}
