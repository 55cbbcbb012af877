package models

import (
	"fmt"
	"io"
	"os"

	yaml "gopkg.in/yaml.v2"
)

type Config struct {
	ConfigFile string `yaml:"-" envconfig:"MUTATIONS_CONFIG_FILE"`

	Debug          bool   `yaml:"debug" envconfig:"MUTATIONS_DEBUG"`
	SemVer         string `yaml:"semver" envconfig:"MUTATIONS_SERVICE_VERSION" default:"0.1.0"`
	ServiceContact string `yaml:"serviceContact" envconfig:"MUTATIONS_SERVICE_CONTACT"`

	Api struct {
		Url                            string `yaml:"url" envconfig:"MUTATIONS_API_URL"`
		Port                           string `yaml:"port" envconfig:"MUTATIONS_API_INTERNAL_PORT" default:"5000"`
		MafPath                        string `yaml:"mafPath" envconfig:"MUTATIONS_API_MAF_PATH"`
		ColumnsConfigPath              string `yaml:"columnsConfigPath" envconfig:"MUTATIONS_COLUMNS_CONFIG_PATH"`
		BulkIndexingCap                int    `yaml:"bulkIndexingCap" envconfig:"MUTATIONS_API_BULK_INDEXING_CAP" default:"10000"`
		FileProcessingConcurrencyLevel int    `yaml:"fileProcessingConcurrencyLevel" envconfig:"MUTATIONS_API_FILE_PROC_CONC_LVL" default:"3"`
		DefaultPageSize                int    `yaml:"defaultPageSize" envconfig:"MUTATIONS_API_DEFAULT_PAGE_SIZE" default:"25"`
		SampleColorsCommaSep           string `yaml:"sampleColors" envconfig:"MUTATIONS_API_SAMPLE_COLORS" default:"#1f77b4,#ff7f0e,#2ca02c,#d62728,#9467bd,#8c564b"`
	} `yaml:"api"`

	Elasticsearch struct {
		Url        string `yaml:"url" envconfig:"MUTATIONS_ES_URL"`
		Username   string `yaml:"username" envconfig:"MUTATIONS_ES_USERNAME"`
		Password   string `yaml:"password" envconfig:"MUTATIONS_ES_PASSWORD"`
		MaxRecords int    `yaml:"maxRecords" envconfig:"MUTATIONS_ES_MAX_RECORDS" default:"10000"`
	} `yaml:"elasticsearch"`

	Datasets struct {
		RefreshIntervalMinutes int `yaml:"refreshIntervalMinutes" envconfig:"MUTATIONS_DATASETS_REFRESH_INTERVAL_MINUTES" default:"30"`
		MaxCachedStudies       int `yaml:"maxCachedStudies" envconfig:"MUTATIONS_DATASETS_MAX_CACHED_STUDIES" default:"32"`
	} `yaml:"datasets"`
}

// LoadConfigFile decodes a yaml config file on top of cfg;
// keys absent from the file keep their current values
func LoadConfigFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(cfg); err != nil && err != io.EOF {
		return fmt.Errorf("decoding config file %s: %w", path, err)
	}
	return nil
}
