package formatters

import (
	"fmt"
	"math"
	"strings"

	"mutations/api/models/indexes"
	"mutations/api/services/columns"

	"github.com/mitchellh/mapstructure"
)

/*
	Render and sort strategies for the mutations table.

	Each strategy is a pure function of a row and the column's props;
	props are decoded into a typed struct and a decoding failure is
	returned as an error rather than guessed around.
*/

type SampleProps struct {
	SampleOrder      []string          `mapstructure:"sampleOrder"`
	SampleColors     map[string]string `mapstructure:"sampleColors"`
	SampleLabels     map[string]string `mapstructure:"sampleLabels"`
	SampleTumorType  map[string]string `mapstructure:"sampleTumorType"`
	SampleCancerType map[string]string `mapstructure:"sampleCancerType"`
}

type AlleleCountProps struct {
	DataField   string   `mapstructure:"dataField"`
	SampleOrder []string `mapstructure:"sampleOrder"`
}

type AlleleFreqProps struct {
	SampleOrder []string `mapstructure:"sampleOrder"`
	AltField    string   `mapstructure:"altField"`
	RefField    string   `mapstructure:"refField"`
}

type FieldProps struct {
	DataField string `mapstructure:"dataField"`
}

type SampleCell struct {
	SampleId   string `json:"sampleId"`
	Label      string `json:"label"`
	Color      string `json:"color,omitempty"`
	TumorType  string `json:"tumorType,omitempty"`
	CancerType string `json:"cancerType,omitempty"`
}

type SampleValue struct {
	SampleId string      `json:"sampleId"`
	Value    interface{} `json:"value"`
}

func decodeProps(props columns.Props, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(map[string]interface{}(props)); err != nil {
		return fmt.Errorf("decoding column props: %w", err)
	}
	return nil
}

// -- Protein change

func ProteinChange(row []indexes.Mutation, props columns.Props) (interface{}, error) {
	seen := map[string]bool{}
	changes := []string{}
	for _, m := range row {
		if m.ProteinChange == "" || seen[m.ProteinChange] {
			continue
		}
		seen[m.ProteinChange] = true
		changes = append(changes, m.ProteinChange)
	}
	return strings.Join(changes, ", "), nil
}

// -- Tumors

func Tumors(row []indexes.Mutation, props columns.Props) (interface{}, error) {
	var sp SampleProps
	if err := decodeProps(props, &sp); err != nil {
		return nil, err
	}

	cells := []SampleCell{}
	for _, m := range orderBySample(row, sp.SampleOrder) {
		label, ok := sp.SampleLabels[m.SampleId]
		if !ok {
			label = m.SampleId
		}
		cells = append(cells, SampleCell{
			SampleId:   m.SampleId,
			Label:      label,
			Color:      sp.SampleColors[m.SampleId],
			TumorType:  sp.SampleTumorType[m.SampleId],
			CancerType: sp.SampleCancerType[m.SampleId],
		})
	}
	return cells, nil
}

// SortTumors orders rows by how many samples carry the mutation, then by
// the earliest of those samples in the sample order
func SortTumors(a []indexes.Mutation, b []indexes.Mutation, props columns.Props) (int, error) {
	var sp SampleProps
	if err := decodeProps(props, &sp); err != nil {
		return 0, err
	}

	aSamples, bSamples := distinctSamples(a), distinctSamples(b)
	if len(aSamples) != len(bSamples) {
		return compareInts(len(aSamples), len(bSamples)), nil
	}

	ordinals := ordinalsOf(sp.SampleOrder)
	return compareInts(firstOrdinal(aSamples, ordinals), firstOrdinal(bSamples, ordinals)), nil
}

// -- Allele frequency

func AlleleFreq(row []indexes.Mutation, props columns.Props) (interface{}, error) {
	fp, err := alleleFreqProps(props)
	if err != nil {
		return nil, err
	}

	values := []SampleValue{}
	for _, m := range orderBySample(row, fp.SampleOrder) {
		freq, ok := frequency(m, fp)
		if !ok {
			continue
		}
		values = append(values, SampleValue{SampleId: m.SampleId, Value: freq})
	}
	return values, nil
}

// SortAlleleFreq orders rows by mean allele frequency; rows without
// any frequency come first
func SortAlleleFreq(a []indexes.Mutation, b []indexes.Mutation, props columns.Props) (int, error) {
	fp, err := alleleFreqProps(props)
	if err != nil {
		return 0, err
	}

	aMean, bMean := meanFrequency(a, fp), meanFrequency(b, fp)
	if aMean < bMean {
		return -1, nil
	}
	if aMean > bMean {
		return 1, nil
	}
	return 0, nil
}

func alleleFreqProps(props columns.Props) (AlleleFreqProps, error) {
	fp := AlleleFreqProps{}
	if err := decodeProps(props, &fp); err != nil {
		return fp, err
	}
	if fp.AltField == "" {
		fp.AltField = "tumorAltCount"
	}
	if fp.RefField == "" {
		fp.RefField = "tumorRefCount"
	}
	return fp, nil
}

func frequency(m indexes.Mutation, fp AlleleFreqProps) (float64, bool) {
	alt, altOk := count(m, fp.AltField)
	ref, refOk := count(m, fp.RefField)
	if !altOk || !refOk || alt+ref == 0 {
		return 0, false
	}
	freq := float64(alt) / float64(alt+ref)
	return math.Round(freq*100) / 100, true
}

func meanFrequency(row []indexes.Mutation, fp AlleleFreqProps) float64 {
	total, n := 0.0, 0
	for _, m := range row {
		if freq, ok := frequency(m, fp); ok {
			total += freq
			n++
		}
	}
	if n == 0 {
		return -1
	}
	return total / float64(n)
}

// -- Allele counts

func AlleleCount(row []indexes.Mutation, props columns.Props) (interface{}, error) {
	var cp AlleleCountProps
	if err := decodeProps(props, &cp); err != nil {
		return nil, err
	}
	if cp.DataField == "" {
		return nil, fmt.Errorf("allele count column requires a 'dataField' prop")
	}

	values := []SampleValue{}
	for _, m := range orderBySample(row, cp.SampleOrder) {
		c, ok := count(m, cp.DataField)
		if !ok {
			continue
		}
		values = append(values, SampleValue{SampleId: m.SampleId, Value: c})
	}
	return values, nil
}

// -- Optional data fields

// OptionalField renders the `dataField` of the representative record,
// or an empty string when the record does not carry it
func OptionalField(row []indexes.Mutation, props columns.Props) (interface{}, error) {
	var fp FieldProps
	if err := decodeProps(props, &fp); err != nil {
		return nil, err
	}
	if fp.DataField == "" {
		return nil, fmt.Errorf("optional field column requires a 'dataField' prop")
	}
	if len(row) == 0 {
		return "", nil
	}

	value, ok := row[0].Field(fp.DataField)
	if !ok || value == nil {
		return "", nil
	}
	return value, nil
}

// --

func count(m indexes.Mutation, field string) (int, bool) {
	value, ok := m.Field(field)
	if !ok {
		return 0, false
	}

	var c int
	switch v := value.(type) {
	case int:
		c = v
	case int64:
		c = int(v)
	case float64:
		c = int(v)
	default:
		return 0, false
	}

	if c == indexes.NoCount {
		return 0, false
	}
	return c, true
}

// orderBySample orders a row's records by the sample order; records of
// samples outside the order keep their row order at the end
func orderBySample(row []indexes.Mutation, sampleOrder []string) []indexes.Mutation {
	ordered := make([]indexes.Mutation, 0, len(row))
	used := make([]bool, len(row))

	for _, sampleId := range sampleOrder {
		for i, m := range row {
			if !used[i] && m.SampleId == sampleId {
				ordered = append(ordered, m)
				used[i] = true
			}
		}
	}
	for i, m := range row {
		if !used[i] {
			ordered = append(ordered, m)
		}
	}
	return ordered
}

func distinctSamples(row []indexes.Mutation) []string {
	seen := map[string]bool{}
	samples := []string{}
	for _, m := range row {
		if !seen[m.SampleId] {
			seen[m.SampleId] = true
			samples = append(samples, m.SampleId)
		}
	}
	return samples
}

func ordinalsOf(sampleOrder []string) map[string]int {
	ordinals := make(map[string]int, len(sampleOrder))
	for i, s := range sampleOrder {
		if _, exists := ordinals[s]; !exists {
			ordinals[s] = i
		}
	}
	return ordinals
}

func firstOrdinal(samples []string, ordinals map[string]int) int {
	first := math.MaxInt32
	for _, s := range samples {
		if o, ok := ordinals[s]; ok && o < first {
			first = o
		}
	}
	return first
}

func compareInts(a int, b int) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}
