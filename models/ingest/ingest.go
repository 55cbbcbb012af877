package ingest

import (
	"github.com/google/uuid"
)

type State string

const (
	Queued  State = "Queued"
	Running State = "Running"
	Done    State = "Done"
	Error   State = "Error"
)

type MutationIngestRequest struct {
	Id            uuid.UUID `json:"id"`
	Filename      string    `json:"filename"`
	StudyId       string    `json:"studyId"`
	State         State     `json:"state"`
	Message       string    `json:"message"`
	MutationCount int       `json:"mutationCount"`
	CreatedAt     string    `json:"createdAt"`
	UpdatedAt     string    `json:"updatedAt"`
}

type IngestResponseDTO struct {
	Id       uuid.UUID `json:"id"`
	Filename string    `json:"filename"`
	StudyId  string    `json:"studyId"`
	State    State     `json:"state"`
	Message  string    `json:"message"`
}

// MafLine is one data line of a (tab delimited) Mutation Annotation
// Format file; only the columns the service uses are declared
type MafLine struct {
	HugoSymbol            string `csv:"Hugo_Symbol"`
	EntrezGeneId          string `csv:"Entrez_Gene_Id"`
	Center                string `csv:"Center"`
	Chromosome            string `csv:"Chromosome"`
	StartPosition         string `csv:"Start_Position"`
	EndPosition           string `csv:"End_Position"`
	VariantClassification string `csv:"Variant_Classification"`
	VariantType           string `csv:"Variant_Type"`
	ReferenceAllele       string `csv:"Reference_Allele"`
	TumorSeqAllele1       string `csv:"Tumor_Seq_Allele1"`
	TumorSeqAllele2       string `csv:"Tumor_Seq_Allele2"`
	TumorSampleBarcode    string `csv:"Tumor_Sample_Barcode"`
	MutationStatus        string `csv:"Mutation_Status"`
	ValidationStatus      string `csv:"Validation_Status"`
	ProteinChange         string `csv:"HGVSp_Short"`
	Consequence           string `csv:"Consequence"`
	Cosmic                string `csv:"COSMIC"`
	TumorType             string `csv:"Tumor_Type"`
	CancerType            string `csv:"Cancer_Type"`
	TumorAltCount         string `csv:"t_alt_count"`
	TumorRefCount         string `csv:"t_ref_count"`
	NormalAltCount        string `csv:"n_alt_count"`
	NormalRefCount        string `csv:"n_ref_count"`
}
