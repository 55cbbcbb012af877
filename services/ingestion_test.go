package services

import (
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mutations/api/models/indexes"
	"mutations/api/models/ingest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const maf = `#version 2.4
Hugo_Symbol	Entrez_Gene_Id	Center	Chromosome	Start_Position	End_Position	Variant_Classification	Variant_Type	Reference_Allele	Tumor_Seq_Allele1	Tumor_Seq_Allele2	Tumor_Sample_Barcode	HGVSp_Short	COSMIC	t_alt_count	t_ref_count	n_alt_count	n_ref_count	Unused
BRAF	673	mskcc.org	chr7	140453136	140453136	Missense_Mutation	SNP	A	A	T	TCGA-01	p.V600E	COSM476	30	70	.		x
KRAS	3845	mskcc.org	12	25398284	25398284	Missense_Mutation	SNP	C	A	C	TCGA-02	p.G12V		5	15	0	40	y
`

func TestParseMaf(t *testing.T) {
	mutations, err := ParseMaf(strings.NewReader(maf), "msk_impact", "data_mutations.maf")
	require.NoError(t, err)
	require.Len(t, mutations, 2)

	braf := mutations[0]
	assert.Equal(t, "msk_impact", braf.StudyId)
	assert.Equal(t, "TCGA-01", braf.SampleId)
	assert.Equal(t, "BRAF", braf.Gene.HugoGeneSymbol)
	assert.Equal(t, 673, braf.Gene.EntrezGeneId)
	assert.Equal(t, "7", braf.Chromosome)
	assert.Equal(t, 140453136, braf.StartPosition)
	assert.Equal(t, "T", braf.VariantAllele)
	assert.Equal(t, "V600E", braf.ProteinChange)
	assert.Equal(t, "COSM476", braf.Data["cosmic"])
	assert.Equal(t, 30, braf.TumorAltCount)
	assert.Equal(t, indexes.NoCount, braf.NormalAltCount)
	assert.Equal(t, indexes.NoCount, braf.NormalRefCount)
	assert.Equal(t, "data_mutations.maf", braf.FileId)
	assert.False(t, braf.CreatedTime.IsZero())

	kras := mutations[1]
	// allele 2 equals the reference, so the variant is allele 1
	assert.Equal(t, "A", kras.VariantAllele)
	assert.NotContains(t, kras.Data, "cosmic")
	assert.Equal(t, 40, kras.NormalRefCount)

	t.Run("should reject invalid chromosomes and positions", func(t *testing.T) {
		bad := strings.Replace(maf, "chr7", "chr99", 1)
		_, err := ParseMaf(strings.NewReader(bad), "msk_impact", "")
		assert.ErrorContains(t, err, "chr99")

		bad = strings.Replace(maf, "25398284	25398284", "start	25398284", 1)
		_, err = ParseMaf(strings.NewReader(bad), "msk_impact", "")
		assert.ErrorContains(t, err, "line 2")
	})

	t.Run("should reject files missing required columns", func(t *testing.T) {
		bad := strings.Replace(maf, "Tumor_Sample_Barcode", "Barcode", 1)
		_, err := ParseMaf(strings.NewReader(bad), "msk_impact", "")
		assert.ErrorContains(t, err, "Tumor_Sample_Barcode")
	})
}

func TestOpenMafFile(t *testing.T) {
	dir := t.TempDir()

	plainPath := filepath.Join(dir, "plain.maf")
	require.NoError(t, os.WriteFile(plainPath, []byte(maf), 0600))

	gzPath := filepath.Join(dir, "zipped.maf.gz")
	f, err := os.Create(gzPath)
	require.NoError(t, err)
	gw := gzip.NewWriter(f)
	_, err = gw.Write([]byte(maf))
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	require.NoError(t, f.Close())

	for _, p := range []string{plainPath, gzPath} {
		r, err := OpenMafFile(p)
		require.NoError(t, err)

		content, err := io.ReadAll(r)
		assert.NoError(t, err)
		assert.Equal(t, maf, string(content))
		assert.NoError(t, r.Close())
	}

	_, err = OpenMafFile(filepath.Join(dir, "missing.maf"))
	assert.Error(t, err)
}

func TestIngestionRequests(t *testing.T) {
	iz := &IngestionService{
		IngestRequestMap: map[string]*ingest.MutationIngestRequest{},
	}

	running := &ingest.MutationIngestRequest{Id: uuid.New(), Filename: "b.maf", State: ingest.Running, CreatedAt: "2"}
	done := &ingest.MutationIngestRequest{Id: uuid.New(), Filename: "a.maf", State: ingest.Done, CreatedAt: "1"}
	iz.IngestRequestMap[running.Id.String()] = running
	iz.IngestRequestMap[done.Id.String()] = done

	assert.True(t, iz.FilenameAlreadyRunning("b.maf"))
	assert.False(t, iz.FilenameAlreadyRunning("a.maf"))
	assert.False(t, iz.FilenameAlreadyRunning("c.maf"))

	requests := iz.GetRequests()
	require.Len(t, requests, 2)
	assert.Equal(t, "a.maf", requests[0].Filename)

	// copies, not the live requests
	requests[0].State = ingest.Error
	assert.Equal(t, ingest.Done, done.State)
}
