package constants

/*
	Defines a set of base level
	constants and enums to be used
	throughout the mutations service and
	it's associated services.
*/
type Visibility string
type SortDirection string

var MafHeaders = []string{
	"Hugo_Symbol", "Chromosome", "Start_Position", "End_Position",
	"Reference_Allele", "Tumor_Seq_Allele2", "Tumor_Sample_Barcode",
}
