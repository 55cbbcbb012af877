package indexes

import (
	"time"
)

const MutationsIndex = "mutations"

// -1 = not available (equivalent to a '.' or an empty MAF cell)
const NoCount = -1

type Mutation struct {
	StudyId   string `json:"studyId"`
	SampleId  string `json:"sampleId"`
	PatientId string `json:"patientId"`
	Gene      Gene   `json:"gene"`

	// locus identity
	Chromosome      string `json:"chromosome"`
	StartPosition   int    `json:"startPosition"`
	EndPosition     int    `json:"endPosition"`
	ReferenceAllele string `json:"referenceAllele"`
	VariantAllele   string `json:"variantAllele"`

	ProteinChange    string `json:"proteinChange"`
	MutationType     string `json:"mutationType"`
	MutationStatus   string `json:"mutationStatus"`
	ValidationStatus string `json:"validationStatus"`

	TumorAltCount  int `json:"tumorAltCount"`
	TumorRefCount  int `json:"tumorRefCount"`
	NormalAltCount int `json:"normalAltCount"`
	NormalRefCount int `json:"normalRefCount"`

	// open set of additional fields (annotation, cosmic, ...) only
	// consumed by column formatters
	Data map[string]interface{} `json:"data,omitempty"`

	FileId      string    `json:"fileId"`
	CreatedTime time.Time `json:"createdTime"`
}

type Gene struct {
	HugoGeneSymbol string `json:"hugoGeneSymbol"`
	EntrezGeneId   int    `json:"entrezGeneId"`
}

// Field resolves a column key against the mutation. Fixed attributes
// always exist; anything else exists only if present in Data.
func (m Mutation) Field(key string) (interface{}, bool) {
	switch key {
	case "studyId":
		return m.StudyId, true
	case "sampleId":
		return m.SampleId, true
	case "patientId":
		return m.PatientId, true
	case "hugoGeneSymbol", "gene":
		return m.Gene.HugoGeneSymbol, true
	case "entrezGeneId":
		return m.Gene.EntrezGeneId, true
	case "chromosome":
		return m.Chromosome, true
	case "startPosition":
		return m.StartPosition, true
	case "endPosition":
		return m.EndPosition, true
	case "referenceAllele":
		return m.ReferenceAllele, true
	case "variantAllele":
		return m.VariantAllele, true
	case "proteinChange":
		return m.ProteinChange, true
	case "mutationType":
		return m.MutationType, true
	case "mutationStatus":
		return m.MutationStatus, true
	case "validationStatus":
		return m.ValidationStatus, true
	case "tumorAltCount":
		return m.TumorAltCount, true
	case "tumorRefCount":
		return m.TumorRefCount, true
	case "normalAltCount":
		return m.NormalAltCount, true
	case "normalRefCount":
		return m.NormalRefCount, true
	}

	value, ok := m.Data[key]
	return value, ok
}

var MAPPING_FIELDS_KEYWORD_IG256 = map[string]interface{}{
	"keyword": map[string]interface{}{
		"type":         "keyword",
		"ignore_above": 256,
	},
}
var MAPPING_TEXT = map[string]interface{}{"type": "text", "fields": MAPPING_FIELDS_KEYWORD_IG256}
var MAPPING_LONG = map[string]interface{}{"type": "long"}
var MAPPING_DATE = map[string]interface{}{"type": "date"}
var MAPPING_OBJECT = map[string]interface{}{"type": "object", "dynamic": true}

var MUTATION_INDEX_MAPPING = map[string]interface{}{
	"properties": map[string]interface{}{
		"studyId":   MAPPING_TEXT,
		"sampleId":  MAPPING_TEXT,
		"patientId": MAPPING_TEXT,
		"gene": map[string]interface{}{
			"properties": map[string]interface{}{
				"hugoGeneSymbol": MAPPING_TEXT,
				"entrezGeneId":   MAPPING_LONG,
			},
		},
		"chromosome":       MAPPING_TEXT,
		"startPosition":    MAPPING_LONG,
		"endPosition":      MAPPING_LONG,
		"referenceAllele":  MAPPING_TEXT,
		"variantAllele":    MAPPING_TEXT,
		"proteinChange":    MAPPING_TEXT,
		"mutationType":     MAPPING_TEXT,
		"mutationStatus":   MAPPING_TEXT,
		"validationStatus": MAPPING_TEXT,
		"tumorAltCount":    MAPPING_LONG,
		"tumorRefCount":    MAPPING_LONG,
		"normalAltCount":   MAPPING_LONG,
		"normalRefCount":   MAPPING_LONG,
		"data":             MAPPING_OBJECT,
		"fileId":           MAPPING_TEXT,
		"createdTime":      MAPPING_DATE,
	},
}
