package main

import (
	"github.com/brandon99-hub/Medibridge2/api"
	"github.com/brandon99-hub/Medibridge2/logger"
	"github.com/brandon99-hub/Medibridge2/nlp"
	"github.com/brandon99-hub/Medibridge2/pipeline"
	"github.com/brandon99-hub/Medibridge2/taxonomy"
	"github.com/brandon99-hub/Medibridge2/worker"
	"flag"
	"fmt"
	"github.com/kelseyhightower/envconfig"
	"net/http"
	"os"
	"time"
)

type Config struct {
	DictPath           string `envconfig:"MEDNLP_DICT_PATH" default:"icd11_dict.json"`
	TaxonomySourcePath string `envconfig:"MEDNLP_TAXONOMY_SOURCE_PATH" default:"icd11.txt"`
	TaxonomySpecPath   string `envconfig:"MEDNLP_TAXONOMY_SPEC_PATH" default:""`
	RestAPIActive      bool   `envconfig:"MEDNLP_REST_API_ACTIVE" default:"true"`
	RestAPIPort        string `envconfig:"MEDNLP_REST_API_PORT" default:"10000"`
	WorkerActive       bool   `envconfig:"MEDNLP_WORKER_ACTIVE" default:"true"`
}

func main() {
	logger.SetupLogging()
	mnlpLogger := logger.NewLogger("Main")
	fatalErrLogger := mnlpLogger.Fatal().Caller()
	buildDict := flag.Bool("build-dict", false, "build the ICD-11 dictionary artifact and exit")
	flag.Parse()
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		fatalErrLogger.Err(err).Msg("Failed to read environment")
		os.Exit(1)
	}

	// offline dictionary build
	if *buildDict {
		spec := taxonomy.DefaultSourceSpec()
		if config.TaxonomySpecPath != "" {
			loaded, err := taxonomy.LoadSourceSpec(config.TaxonomySpecPath)
			if err != nil {
				fatalErrLogger.Err(err).Msg("Failed to load taxonomy source spec")
				os.Exit(1)
			}
			spec = loaded
		}
		rows, err := taxonomy.NewRowReader(config.TaxonomySourcePath, spec)
		if err != nil {
			fatalErrLogger.Err(err).Msg("Failed to open taxonomy export")
			os.Exit(1)
		}
		table, stats := taxonomy.Build(rows, spec)
		if err := table.Save(config.DictPath); err != nil {
			fatalErrLogger.Err(err).Msg("Failed to write dictionary artifact")
			os.Exit(1)
		}
		mnlpLogger.Info().Msgf("Extracted %d ICD-11 codes to %s (%d rows skipped). Exit...",
			len(table), config.DictPath, stats.Skipped)
		return
	}

	// Missing or corrupt dictionary keeps the service up with an empty table;
	// every lookup then resolves at confidence 0.
	table, err := taxonomy.Load(config.DictPath)
	if err != nil {
		mnlpLogger.Warn().Err(err).
			Str("dict_path", config.DictPath).
			Msg("Failed to load ICD-11 dictionary, serving with empty table")
		table = taxonomy.Table{}
	}

	extractor, err := nlp.NewRemoteExtractor()
	if err != nil {
		fatalErrLogger.Err(err).Msg("Failed to load NER model, cannot serve")
		os.Exit(1)
	}

	ppln := pipeline.NewMedNLP(extractor, table)

	if config.RestAPIActive {
		go func() {
			mnlpLogger.Info().Msg("Starting API service")
			handlers := &api.Handlers{
				Pipeline: ppln,
			}
			http.HandleFunc("/health", handlers.Health)
			http.HandleFunc("/analyze", handlers.Analyze)
			host := fmt.Sprintf(":%s", config.RestAPIPort)
			mnlpLogger.Info().Msgf("REST API on %s", host)
			err := http.ListenAndServe(host, nil)
			fatalErrLogger.Err(err).Msg("REST API stopped with error")
		}()
	}

	if !config.WorkerActive {
		mnlpLogger.Info().Msg("Worker is disabled, serving REST API only")
		select {}
	}

	mnlpLogger.Info().Msg("Start MedNLP Worker")
	for {
		rmqWorker, err := worker.New(ppln)
		if err != nil {
			mnlpLogger.Fatal().Err(err).Msg("Could not initialize RMQ worker")
			os.Exit(1)
		}
		err = rmqWorker.StartWorker()
		if err != nil {
			mnlpLogger.Err(err).Msg("Worker returned with error. Launching new in 5 seconds")
			time.Sleep(5 * time.Second)
		}
	}
}
