package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"mutations/api/contexts"
	mam "mutations/api/middleware"
	"mutations/api/models"
	serviceInfo "mutations/api/models/constants/service-info"
	mutationsMvc "mutations/api/mvc/mutations"
	serviceInfoMvc "mutations/api/mvc/service-info"
	esRepo "mutations/api/repositories/elasticsearch"
	"mutations/api/services"
	"mutations/api/services/columns"
	"mutations/api/services/datasets"
	"mutations/api/utils"

	"github.com/kelseyhightower/envconfig"
	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"
)

func main() {
	// Gather environment variables
	var cfg models.Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	// -- optional yaml overrides
	if cfg.ConfigFile != "" {
		if err := models.LoadConfigFile(cfg.ConfigFile, &cfg); err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
	}

	fmt.Printf("Using : \n"+

		"\tDebug : %t \n\n"+

		"\tMAF Directory Path : %s \n"+
		"\tColumns Config Path : %s \n"+
		"\tBulk Indexing Cap : %d\n"+
		"\tFile Processing Concurrency Level : %d\n"+
		"\tDefault Page Size : %d\n"+
		"\tElasticsearch Url : %s \n"+
		"\tElasticsearch Username : %s\n\n"+

		"\tDataset Refresh Interval (minutes) : %d\n"+
		"\tMax Cached Studies : %d\n\n"+

		"Running on Port : %s\n",

		cfg.Debug,
		cfg.Api.MafPath,
		cfg.Api.ColumnsConfigPath,
		cfg.Api.BulkIndexingCap,
		cfg.Api.FileProcessingConcurrencyLevel,
		cfg.Api.DefaultPageSize,
		cfg.Elasticsearch.Url, cfg.Elasticsearch.Username,
		cfg.Datasets.RefreshIntervalMinutes,
		cfg.Datasets.MaxCachedStudies,
		cfg.Api.Port)
	// --

	// Column overrides
	var columnConfigs []columns.ColumnConfig
	if cfg.Api.ColumnsConfigPath != "" {
		columnConfigs, err = columns.LoadColumnConfigs(cfg.Api.ColumnsConfigPath)
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		fmt.Printf("Loaded %d column override(s)\n", len(columnConfigs))
	}

	// Instantiate Server
	e := echo.New()

	// Service Connections:
	// -- Elasticsearch
	es, err := utils.CreateEsConnection(&cfg)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = esRepo.EnsureMutationsIndex(ctx, &cfg, es)
	cancel()
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	// Service Singletons
	iz, err := services.NewIngestionService(es, &cfg)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	ds := datasets.NewDatasetService(&cfg, &esRepo.MutationsLoader{Config: &cfg, Client: es})
	if err := ds.Init(); err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	defer ds.Stop()

	// -- freshly ingested mutations supersede cached snapshots
	iz.OnStudyIngested = func(studyId string) {
		ds.Invalidate(studyId)
	}

	// Configure Server
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.PUT, echo.POST, echo.DELETE},
	}))

	// -- Override handlers with "custom Mutations" context
	//		to be able to provide variables and global singletons
	e.Use(func(h echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &contexts.MutationsContext{
				Context:          c,
				Es7Client:        es,
				Config:           &cfg,
				IngestionService: iz,
				DatasetService:   ds,
				ColumnConfigs:    columnConfigs,
			}
			return h(cc)
		}
	})

	// Begin MVC Routes
	// -- Root
	e.GET("/", func(c echo.Context) error {
		fmt.Printf("[%s] - Root hit!\n", time.Now())
		return c.JSON(http.StatusOK, serviceInfo.SERVICE_WELCOME)
	})

	// -- Service Info
	e.GET("/service-info", serviceInfoMvc.GetServiceInfo)

	// -- Mutations
	e.GET("/mutations/overview", mutationsMvc.GetMutationsOverview,
		// middleware
		mam.OptionalStudyIdAttribute)

	e.GET("/mutations/table", mutationsMvc.GetMutationsTable,
		// middleware
		mam.MandateStudyIdAttribute,
		mam.CalibrateOptionalSampleIdsPluralAttribute,
		mam.ValidateOptionalChromosomeAttribute,
		mam.ValidatePotentialSortDirection)
	e.GET("/mutations/columns", mutationsMvc.GetMutationsColumns,
		// middleware
		mam.MandateStudyIdAttribute,
		mam.CalibrateOptionalSampleIdsPluralAttribute)
	e.GET("/mutations/rows", mutationsMvc.GetMutationsRows,
		// middleware
		mam.MandateStudyIdAttribute,
		mam.CalibrateOptionalSampleIdsPluralAttribute,
		mam.ValidateOptionalChromosomeAttribute)
	e.GET("/mutations/count", mutationsMvc.CountMutations,
		// middleware
		mam.MandateStudyIdAttribute,
		mam.CalibrateOptionalSampleIdsPluralAttribute,
		mam.ValidateOptionalChromosomeAttribute)
	e.DELETE("/mutations", mutationsMvc.DeleteMutations,
		// middleware
		mam.MandateStudyIdAttribute)

	e.GET("/mutations/ingestion/run", mutationsMvc.MutationsIngest,
		// middleware
		mam.MandateStudyIdAttribute)
	e.GET("/mutations/ingestion/requests", mutationsMvc.GetAllMutationIngestionRequests)
	e.GET("/mutations/ingestion/stats", mutationsMvc.MutationsIngestionStats)

	// Run
	e.Logger.Fatal(e.Start(":" + cfg.Api.Port))
}
