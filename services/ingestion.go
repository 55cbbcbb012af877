package services

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"mutations/api/models"
	"mutations/api/models/constants"
	"mutations/api/models/constants/chromosome"
	"mutations/api/models/indexes"
	"mutations/api/models/ingest"
	"mutations/api/utils"

	"github.com/elastic/go-elasticsearch/v7"
	"github.com/elastic/go-elasticsearch/v7/esutil"
	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
)

type (
	IngestionService struct {
		Initialized                   bool
		IngestRequestChan             chan *ingest.MutationIngestRequest
		IngestRequestMap              map[string]*ingest.MutationIngestRequest
		IngestRequestMapMux           sync.RWMutex
		IngestionBulkIndexingCapacity int
		IngestionBulkIndexingQueue    chan *IngestionQueueStructure
		IngestionBulkIndexer          esutil.BulkIndexer
		ConcurrentFileIngestionQueue  chan bool
		ElasticsearchClient           *elasticsearch.Client
		Config                        *models.Config

		// called once a file of the study has been fully indexed
		OnStudyIngested func(studyId string)
	}

	IngestionQueueStructure struct {
		Mutation  *indexes.Mutation
		WaitGroup *sync.WaitGroup
		Failed    *int32
	}
)

func NewIngestionService(es *elasticsearch.Client, cfg *models.Config) (*IngestionService, error) {
	iz := &IngestionService{
		Initialized:                   false,
		IngestRequestChan:             make(chan *ingest.MutationIngestRequest),
		IngestRequestMap:              map[string]*ingest.MutationIngestRequest{},
		IngestRequestMapMux:           sync.RWMutex{},
		IngestionBulkIndexingCapacity: cfg.Api.BulkIndexingCap,
		IngestionBulkIndexingQueue:    make(chan *IngestionQueueStructure, cfg.Api.BulkIndexingCap),
		ConcurrentFileIngestionQueue:  make(chan bool, cfg.Api.FileProcessingConcurrencyLevel),
		ElasticsearchClient:           es,
		Config:                        cfg,
	}

	//see: https://www.elastic.co/blog/why-am-i-seeing-bulk-rejections-in-my-elasticsearch-cluster
	var numWorkers = iz.IngestionBulkIndexingCapacity / 100
	if numWorkers < 1 {
		numWorkers = 1
	}

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:      indexes.MutationsIndex,
		Client:     iz.ElasticsearchClient,
		NumWorkers: numWorkers,
		// FlushBytes:    int(flushBytes),  // The flush threshold in bytes (default: 5MB ?)
		FlushInterval: time.Second, // The periodic flush interval
	})
	if err != nil {
		return nil, fmt.Errorf("creating bulk indexer: %w", err)
	}
	iz.IngestionBulkIndexer = bi

	iz.Init()

	return iz, nil
}

func (i *IngestionService) Init() {
	// safeguard to prevent multiple initilizations
	if !i.Initialized {
		// spin up a go routine acting as a listener for ingest
		// request updates, and mutation bulk indexing
		go func() {
			for {
				select {
				case request := <-i.IngestRequestChan:
					if request.State == ingest.Queued {
						fmt.Printf("Queueing a new mutation ingestion request for %s\n", request.Filename)
					}

					request.UpdatedAt = time.Now().String()
					i.IngestRequestMapMux.Lock()
					i.IngestRequestMap[request.Id.String()] = request
					i.IngestRequestMapMux.Unlock()

				case queuedItem := <-i.IngestionBulkIndexingQueue:
					i.addToBulkIndexer(queuedItem)
				}
			}
		}()

		i.Initialized = true
	}
}

func (i *IngestionService) addToBulkIndexer(queuedItem *IngestionQueueStructure) {
	wg := queuedItem.WaitGroup

	// Prepare the data payload: encode mutation to JSON
	mutationData, marshallErr := json.Marshal(queuedItem.Mutation)
	if marshallErr != nil {
		fmt.Printf("Cannot encode mutation %+v: %s\n", queuedItem.Mutation, marshallErr)
		atomic.AddInt32(queuedItem.Failed, 1)
		wg.Done()
		return
	}

	// Add an item to the BulkIndexer
	addErr := i.IngestionBulkIndexer.Add(
		context.Background(),
		esutil.BulkIndexerItem{
			// Action field configures the operation to perform (index, create, delete, update)
			Action: "index",

			// Body is an `io.Reader` with the payload
			Body: bytes.NewReader(mutationData),

			// OnSuccess is called for each successful operation
			OnSuccess: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem) {
				defer wg.Done()
			},

			// OnFailure is called for each failed operation
			OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				defer wg.Done()
				atomic.AddInt32(queuedItem.Failed, 1)
				if err != nil {
					fmt.Printf("ERROR: %s\n", err)
				} else {
					fmt.Printf("ERROR: %s: %s\n", res.Error.Type, res.Error.Reason)
				}
			},
		},
	)
	if addErr != nil {
		fmt.Printf("Unexpected error: %s\n", addErr)
		atomic.AddInt32(queuedItem.Failed, 1)
		wg.Done()
	}
}

/*
	Queues one ingestion request per file and returns their initial state.

	Files are processed in the background, at most
	`FileProcessingConcurrencyLevel` at a time; a file already queued
	or running is refused.
*/
func (i *IngestionService) Ingest(fileNames []string, studyId string) []ingest.IngestResponseDTO {
	startTime := time.Now()
	fmt.Printf("Ingest Start: %s\n", startTime)

	responseDtos := []ingest.IngestResponseDTO{}
	for _, fileName := range fileNames {

		// check if there is an already existing ingestion request state
		if i.FilenameAlreadyRunning(fileName) {
			responseDtos = append(responseDtos, ingest.IngestResponseDTO{
				Filename: fileName,
				StudyId:  studyId,
				State:    ingest.Error,
				Message:  "File already being ingested..",
			})
			continue
		}

		request := ingest.MutationIngestRequest{
			Id:        uuid.New(),
			Filename:  fileName,
			StudyId:   studyId,
			State:     ingest.Queued,
			CreatedAt: fmt.Sprintf("%v", startTime),
		}
		i.updateRequest(request)

		responseDtos = append(responseDtos, ingest.IngestResponseDTO{
			Id:       request.Id,
			Filename: request.Filename,
			StudyId:  request.StudyId,
			State:    request.State,
			Message:  "Successfully queued..",
		})

		go func(request ingest.MutationIngestRequest) {
			// take a spot in the queue
			i.ConcurrentFileIngestionQueue <- true
			// free up a spot in the queue
			defer func() { <-i.ConcurrentFileIngestionQueue }()

			i.processRequest(request)
		}(request)
	}

	return responseDtos
}

func (i *IngestionService) processRequest(request ingest.MutationIngestRequest) {
	fmt.Printf("Begin running %s !\n", request.Filename)
	request.State = ingest.Running
	i.updateRequest(request)

	count, err := i.IngestFile(path.Join(i.Config.Api.MafPath, request.Filename), request.StudyId)
	request.MutationCount = count
	if err != nil {
		msg := fmt.Sprintf("error ingesting %s: %s", request.Filename, err)
		fmt.Println(msg)

		request.State = ingest.Error
		request.Message = msg
		i.updateRequest(request)
		return
	}

	request.State = ingest.Done
	request.Message = fmt.Sprintf("Ingested %d mutations", count)
	i.updateRequest(request)

	if i.OnStudyIngested != nil {
		i.OnStudyIngested(request.StudyId)
	}

	fmt.Printf("File %s waited for and complete!\n", request.Filename)
}

// updateRequest publishes a snapshot of the request to the listener
func (i *IngestionService) updateRequest(request ingest.MutationIngestRequest) {
	snapshot := request
	i.IngestRequestChan <- &snapshot
}

// IngestFile parses a (possibly gzipped) MAF file and bulk indexes its
// mutations, returning how many were indexed.
func (i *IngestionService) IngestFile(filePath string, studyId string) (int, error) {
	r, err := OpenMafFile(filePath)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	_, fileId := path.Split(filePath)
	mutations, err := ParseMaf(r, studyId, fileId)
	if err != nil {
		return 0, err
	}

	var (
		_fileWG sync.WaitGroup
		failed  int32
	)
	for idx := range mutations {
		_fileWG.Add(1)
		i.IngestionBulkIndexingQueue <- &IngestionQueueStructure{
			Mutation:  &mutations[idx],
			WaitGroup: &_fileWG,
			Failed:    &failed,
		}
	}

	// let all mutations be queued up and processed
	_fileWG.Wait()

	failedCount := atomic.LoadInt32(&failed)
	indexed := len(mutations) - int(failedCount)
	if failedCount > 0 {
		return indexed, fmt.Errorf("%d of %d mutations failed to index", failedCount, len(mutations))
	}
	return indexed, nil
}

func (i *IngestionService) FilenameAlreadyRunning(filename string) bool {
	i.IngestRequestMapMux.RLock()
	defer i.IngestRequestMapMux.RUnlock()

	for _, v := range i.IngestRequestMap {
		if v.Filename == filename && (v.State == ingest.Queued || v.State == ingest.Running) {
			return true
		}
	}
	return false
}

// GetRequests lists every known ingestion request, oldest first
func (i *IngestionService) GetRequests() []ingest.MutationIngestRequest {
	i.IngestRequestMapMux.RLock()
	requests := make([]ingest.MutationIngestRequest, 0, len(i.IngestRequestMap))
	for _, v := range i.IngestRequestMap {
		requests = append(requests, *v)
	}
	i.IngestRequestMapMux.RUnlock()

	sort.SliceStable(requests, func(a, b int) bool {
		if requests[a].CreatedAt != requests[b].CreatedAt {
			return requests[a].CreatedAt < requests[b].CreatedAt
		}
		return requests[a].Filename < requests[b].Filename
	})
	return requests
}

// -- MAF parsing

type gzipFile struct {
	*gzip.Reader
	f *os.File
}

func (g gzipFile) Close() error {
	g.Reader.Close()
	return g.f.Close()
}

// OpenMafFile opens a MAF file, transparently decompressing `.gz` files
func OpenMafFile(filePath string) (io.ReadCloser, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("error opening %s: %w", filePath, err)
	}

	if !strings.HasSuffix(filePath, ".gz") {
		return f, nil
	}

	gr, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("error decompressing %s: %w", filePath, err)
	}
	return gzipFile{Reader: gr, f: f}, nil
}

// ParseMaf decodes a tab delimited MAF stream; `#` lines are comments
func ParseMaf(r io.Reader, studyId string, fileId string) ([]indexes.Mutation, error) {
	csvReader := csv.NewReader(r)
	csvReader.Comma = '\t'
	csvReader.Comment = '#'
	csvReader.LazyQuotes = true

	lines := []*ingest.MafLine{}
	if err := gocsv.UnmarshalCSV(&mafReader{Reader: csvReader}, &lines); err != nil {
		return nil, fmt.Errorf("parsing maf: %w", err)
	}

	createdTime := time.Now()
	mutations := make([]indexes.Mutation, 0, len(lines))
	for n, line := range lines {
		m, err := MafLineToMutation(*line, studyId)
		if err != nil {
			return nil, fmt.Errorf("maf data line %d: %w", n+1, err)
		}
		m.FileId = fileId
		m.CreatedTime = createdTime
		mutations = append(mutations, m)
	}
	return mutations, nil
}

// mafReader refuses streams whose header lacks a required MAF column
type mafReader struct {
	*csv.Reader
	checked bool
}

func (m *mafReader) Read() ([]string, error) {
	record, err := m.Reader.Read()
	if err != nil || m.checked {
		return record, err
	}
	m.checked = true
	return record, checkMafHeader(record)
}

func (m *mafReader) ReadAll() ([][]string, error) {
	records, err := m.Reader.ReadAll()
	if err != nil || m.checked || len(records) == 0 {
		return records, err
	}
	m.checked = true
	return records, checkMafHeader(records[0])
}

func checkMafHeader(header []string) error {
	missing := []string{}
	for _, h := range constants.MafHeaders {
		if !utils.StringInSlice(h, header) {
			missing = append(missing, h)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing maf column(s): %s", strings.Join(missing, ", "))
	}
	return nil
}

func MafLineToMutation(line ingest.MafLine, studyId string) (indexes.Mutation, error) {
	chrom := chromosome.Normalize(line.Chromosome)
	if !chromosome.IsValidHumanChromosome(chrom) {
		return indexes.Mutation{}, fmt.Errorf("invalid chromosome '%s'", line.Chromosome)
	}

	start, err := strconv.Atoi(strings.TrimSpace(line.StartPosition))
	if err != nil {
		return indexes.Mutation{}, fmt.Errorf("invalid start position '%s'", line.StartPosition)
	}
	end, err := strconv.Atoi(strings.TrimSpace(line.EndPosition))
	if err != nil {
		return indexes.Mutation{}, fmt.Errorf("invalid end position '%s'", line.EndPosition)
	}

	// the variant allele is whichever tumor allele differs from the reference
	variantAllele := line.TumorSeqAllele2
	if variantAllele == "" || variantAllele == line.ReferenceAllele {
		variantAllele = line.TumorSeqAllele1
	}

	entrezGeneId, _ := strconv.Atoi(strings.TrimSpace(line.EntrezGeneId))

	m := indexes.Mutation{
		StudyId:  studyId,
		SampleId: line.TumorSampleBarcode,
		Gene: indexes.Gene{
			HugoGeneSymbol: line.HugoSymbol,
			EntrezGeneId:   entrezGeneId,
		},
		Chromosome:       chrom,
		StartPosition:    start,
		EndPosition:      end,
		ReferenceAllele:  line.ReferenceAllele,
		VariantAllele:    variantAllele,
		ProteinChange:    strings.TrimPrefix(line.ProteinChange, "p."),
		MutationType:     line.VariantClassification,
		MutationStatus:   line.MutationStatus,
		ValidationStatus: line.ValidationStatus,
		TumorAltCount:    parseCount(line.TumorAltCount),
		TumorRefCount:    parseCount(line.TumorRefCount),
		NormalAltCount:   parseCount(line.NormalAltCount),
		NormalRefCount:   parseCount(line.NormalRefCount),
		Data:             map[string]interface{}{},
	}

	for key, value := range map[string]string{
		"annotation":  line.Consequence,
		"cosmic":      line.Cosmic,
		"variantType": line.VariantType,
		"center":      line.Center,
		"tumorType":   line.TumorType,
		"cancerType":  line.CancerType,
	} {
		if value = strings.TrimSpace(value); value != "" && value != "." {
			m.Data[key] = value
		}
	}

	return m, nil
}

// parseCount reads a read count, `.`, blank or garbage being indexes.NoCount
func parseCount(text string) int {
	c, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || c < 0 {
		return indexes.NoCount
	}
	return c
}
