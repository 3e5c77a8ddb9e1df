package main

import (
	"flag"
	"fmt"
	"github.com/kelseyhightower/envconfig"
	"net/http"
	"os"
	"text2phenotype.com/postagger/api"
	"text2phenotype.com/postagger/logger"
	"text2phenotype.com/postagger/pipeline"
	"text2phenotype.com/postagger/registry"
	"text2phenotype.com/postagger/s3client"
	"text2phenotype.com/postagger/types"
	"text2phenotype.com/postagger/worker"
	"time"
)

type Config struct {
	ConfigPath    string `envconfig:"TAGGER_CONFIG_PATH" default:"configs"`
	RestAPIActive bool   `envconfig:"TAGGER_REST_API_ACTIVE" default:"false"`
	RestAPIPort   string `envconfig:"TAGGER_REST_API_PORT" default:"10000"`
}

const registryLoadMaxRetries = 5

func main() {
	logger.SetupLogging()
	mainLogger := logger.NewLogger("Main")

	configPath := flag.String("config", "", "corpus configuration directory, overrides TAGGER_CONFIG_PATH")
	corpus := flag.String("corpus", "simple", "corpus whose model tags -sentence and is evaluated by -eval")
	sentence := flag.String("sentence", "", "tag one space separated sentence and exit")
	evaluate := flag.Bool("eval", false, "evaluate the -corpus model on its test files and exit")
	interactive := flag.Bool("interactive", false, "run the interactive tagger on stdin")
	serve := flag.Bool("serve", false, "serve the REST API")
	runWorker := flag.Bool("worker", false, "consume tagging tasks from RMQ")
	flag.Parse()

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		mainLogger.Fatal().Err(err).Msg("Failed to read environment")
	}
	if len(*configPath) > 0 {
		config.ConfigPath = *configPath
	}

	reg := loadRegistry(config)

	switch {
	case len(*sentence) > 0:
		model, err := reg.Get(*corpus)
		if err != nil {
			mainLogger.Fatal().Err(err).Msg("Cannot tag sentence")
		}
		fmt.Println(formatTags(model.Decode(*sentence)))
		return
	case *evaluate:
		res, err := reg.Evaluate(*corpus)
		if err != nil {
			mainLogger.Fatal().Err(err).Msg("Evaluation failed")
		}
		fmt.Println(formatResult(res))
		return
	case *interactive:
		if err := runInteractive(os.Stdin, os.Stdout, reg); err != nil {
			mainLogger.Fatal().Err(err).Msg("Interactive session failed")
		}
		return
	}

	ppln := pipeline.New(reg)
	if *serve || config.RestAPIActive {
		apiDone := make(chan struct{})
		go func() {
			defer close(apiDone)
			handlers := &api.Handlers{Pipeline: ppln, Corpora: reg}
			host := fmt.Sprintf(":%s", config.RestAPIPort)
			mainLogger.Info().Str("host", host).Msg("Starting REST API")
			err := http.ListenAndServe(host, handlers.Routes())
			mainLogger.Err(err).Msg("REST API stopped")
		}()
		if !*runWorker {
			<-apiDone
			os.Exit(1)
		}
	}
	if !*runWorker {
		flag.Usage()
		return
	}

	mainLogger.Info().Msg("Starting tagging worker")
	for {
		rmqWorker, err := worker.New(ppln)
		if err != nil {
			mainLogger.Fatal().Err(err).Msg("Could not initialize RMQ worker")
		}
		if err = rmqWorker.StartWorker(); err != nil {
			mainLogger.Err(err).Msg("Worker returned with error. Launching new in 5 seconds")
			time.Sleep(5 * time.Second)
		}
	}
}

// loadRegistry trains every configured corpus, retrying while the corpus
// sources are unavailable.
func loadRegistry(config Config) *registry.Registry {
	mainLogger := logger.NewLogger("Main")
	registryCh := make(chan *registry.Registry)
	go func() {
		for retry := 0; retry < registryLoadMaxRetries; retry++ {
			cfgs, err := types.LoadConfigurations(config.ConfigPath)
			if err != nil {
				mainLogger.Err(err).Msg("Failed to load configurations. Retrying in 5 sec")
				time.Sleep(5 * time.Second)
				continue
			}
			mainLogger.Info().Int("count", len(cfgs)).Msg("Loaded corpus configurations")

			openers, err := corpusOpeners(cfgs)
			if err != nil {
				mainLogger.Err(err).Msg("Failed to create corpus openers. Retrying in 5 sec")
				time.Sleep(5 * time.Second)
				continue
			}
			reg, err := registry.Load(cfgs, openers)
			if err != nil {
				mainLogger.Err(err).Msg("Failed to train models. Retrying in 5 sec")
				time.Sleep(5 * time.Second)
				continue
			}
			registryCh <- reg
			return
		}
		mainLogger.Fatal().Int("retries", registryLoadMaxRetries).Msg("Could not train models, exiting")
	}()
	return <-registryCh
}

// corpusOpeners connects to S3 only when a configuration needs it. The
// client stays open for evaluations of S3 corpora.
func corpusOpeners(cfgs []types.CorpusConfig) (map[string]registry.CorpusOpener, error) {
	openers := map[string]registry.CorpusOpener{types.SourceFile: registry.FileOpener{}}
	for _, cfg := range cfgs {
		if cfg.Source != types.SourceS3 {
			continue
		}
		s3Client, err := s3client.New()
		if err != nil {
			return nil, err
		}
		openers[types.SourceS3] = s3Client
		break
	}
	return openers, nil
}
