package mutationtable

import (
	"strconv"
	"strings"

	"mutations/api/models/constants/visibility"
	"mutations/api/models/indexes"
	"mutations/api/services/columns"
	"mutations/api/services/formatters"
)

type Registry = columns.Registry[indexes.Mutation]
type Column = columns.Column[indexes.Mutation]
type Descriptor = columns.Descriptor[indexes.Mutation]

// SampleContext carries the per-sample display attributes shared by the
// sample-aware columns.
type SampleContext struct {
	SampleOrder      []string
	SampleColors     map[string]string
	SampleLabels     map[string]string
	SampleTumorType  map[string]string
	SampleCancerType map[string]string
}

/*
	Derives the sample context of a table.

	Samples are ordered as given, followed by any sample only seen in
	the mutations (first appearance). Labels are the 1-based position
	in that order; colors cycle through the palette. Tumor and cancer
	types are read off each sample's first mutation, from its
	`tumorType` and `cancerType` data fields.
*/
func NewSampleContext(sampleIds []string, mutations []indexes.Mutation, palette []string) SampleContext {
	sc := SampleContext{
		SampleOrder:      []string{},
		SampleColors:     map[string]string{},
		SampleLabels:     map[string]string{},
		SampleTumorType:  map[string]string{},
		SampleCancerType: map[string]string{},
	}

	add := func(sampleId string) {
		if sampleId == "" {
			return
		}
		if _, exists := sc.SampleLabels[sampleId]; exists {
			return
		}
		sc.SampleOrder = append(sc.SampleOrder, sampleId)
		sc.SampleLabels[sampleId] = strconv.Itoa(len(sc.SampleOrder))
		if len(palette) > 0 {
			sc.SampleColors[sampleId] = palette[(len(sc.SampleOrder)-1)%len(palette)]
		}
	}

	for _, id := range sampleIds {
		add(id)
	}
	for _, m := range mutations {
		add(m.SampleId)

		if _, known := sc.SampleTumorType[m.SampleId]; !known {
			if tumorType, ok := m.Data["tumorType"].(string); ok {
				sc.SampleTumorType[m.SampleId] = tumorType
			}
		}
		if _, known := sc.SampleCancerType[m.SampleId]; !known {
			if cancerType, ok := m.Data["cancerType"].(string); ok {
				sc.SampleCancerType[m.SampleId] = cancerType
			}
		}
	}

	return sc
}

// ParsePalette splits a comma separated list of colors, dropping blanks
func ParsePalette(commaSep string) []string {
	palette := []string{}
	for _, c := range strings.Split(commaSep, ",") {
		if c = strings.TrimSpace(c); c != "" {
			palette = append(palette, c)
		}
	}
	return palette
}

func (sc SampleContext) props() columns.Props {
	return columns.Props{
		"sampleOrder":      sc.SampleOrder,
		"sampleColors":     sc.SampleColors,
		"sampleLabels":     sc.SampleLabels,
		"sampleTumorType":  sc.SampleTumorType,
		"sampleCancerType": sc.SampleCancerType,
	}
}

func optionalField(name string, dataField string, priority float64) Descriptor {
	return Descriptor{
		Name:     name,
		Priority: columns.Priority(priority),
		Sortable: true,
		Render:   formatters.OptionalField,
		Props:    columns.Props{"dataField": dataField},
	}
}

func alleleCount(name string, dataField string, sc SampleContext) Descriptor {
	return Descriptor{
		Name:   name,
		Render: formatters.AlleleCount,
		Props: columns.Props{
			"dataField":   dataField,
			"sampleOrder": sc.SampleOrder,
		},
	}
}

// DefaultColumns is the mutations table's column map, in insertion order.
func DefaultColumns(sc SampleContext) []Column {
	b := columns.NewBuilder[indexes.Mutation]()

	b.Add("sampleId", Descriptor{Name: "Sample Id", Visibility: visibility.Excluded})
	b.Add("proteinChange", Descriptor{
		Name:   "Protein Change",
		Render: formatters.ProteinChange,
	})
	b.Add("tumors", Descriptor{
		Name:       "Tumors",
		Priority:   columns.Priority(0.50),
		Render:     formatters.Tumors,
		Sort:       formatters.SortTumors,
		Filterable: columns.Filterable(false),
		Props:      sc.props(),
	})
	b.Add("chromosome", Descriptor{Name: "Chr"})
	b.Add("startPosition", Descriptor{Name: "Start"})
	b.Add("endPosition", Descriptor{Name: "End"})
	b.Add("mutationStatus", Descriptor{Name: "Status", Visibility: visibility.Excluded})
	b.Add("validationStatus", Descriptor{Name: "Validation"})
	b.Add("mutationType", Descriptor{Name: "Type"})
	b.Add("annotation", optionalField("Annotation", "annotation", 3.50))
	b.Add("copyNumber", optionalField("Copy #", "copyNumber", 18.10))
	b.Add("mRnaExp", optionalField("mRNA Expr.", "mRnaExp", 18.20))
	b.Add("cohort", optionalField("Cohort", "cohort", 18.30))

	cosmic := optionalField("COSMIC", "cosmic", 18.40)
	cosmic.Visibility = visibility.Hidden
	b.Add("cosmic", cosmic)

	b.Add("tumorAlleleFreq", Descriptor{
		Name:       "Allele Freq",
		Render:     formatters.AlleleFreq,
		Sort:       formatters.SortAlleleFreq,
		Filterable: columns.Filterable(false),
		Props: columns.Props{
			"sampleOrder":  sc.SampleOrder,
			"sampleColors": sc.SampleColors,
			"sampleLabels": sc.SampleLabels,
		},
	})
	b.Add("normalAlleleFreq", Descriptor{
		Name:   "Allele Freq (N)",
		Render: formatters.AlleleFreq,
		Props: columns.Props{
			"sampleOrder": sc.SampleOrder,
			"altField":    "normalAltCount",
			"refField":    "normalRefCount",
		},
	})
	b.Add("normalRefCount", alleleCount("Ref Reads (N)", "normalRefCount", sc))
	b.Add("normalAltCount", alleleCount("Variant Reads (N)", "normalAltCount", sc))
	b.Add("tumorRefCount", alleleCount("Ref Reads", "tumorRefCount", sc))
	b.Add("tumorAltCount", alleleCount("Variant Reads", "tumorAltCount", sc))

	return b.Entries()
}

// NewRegistry builds the table's registry, with file-based overrides
// applied on top of the default column map.
func NewRegistry(sc SampleContext, overrides []columns.ColumnConfig) (*Registry, error) {
	entries, err := columns.ApplyConfigs(DefaultColumns(sc), overrides)
	if err != nil {
		return nil, err
	}
	return columns.New(entries...)
}
