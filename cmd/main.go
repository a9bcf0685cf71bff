package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/uptrace/bun"

	"request-to-standard/internal/config"
	"request-to-standard/internal/embedding"
	"request-to-standard/internal/helper"
	"request-to-standard/internal/llm"
	"request-to-standard/internal/models"
	"request-to-standard/internal/pipeline"
	"request-to-standard/internal/server"
	"request-to-standard/internal/store"
)

const (
	configFilePath = "./configs/config.yaml"
	defaultAddr    = ":8080"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	filePath := flag.String("file", "", "Path to the CSV/XLSX file to standardize")
	schemaName := flag.String("schema", "rag1", "Target schema: rag1 or rag2")
	serve := flag.Bool("serve", false, "Start the HTTP server")
	noLLM := flag.Bool("no-llm", false, "Skip the LLM and use direct mapping only")
	genEmbeddings := flag.Bool("embeddings", false, "Generate embeddings for standardized records")
	flag.Parse()

	if *serve {
		runServer(context.Background())
		return
	}

	if *filePath != "" {
		standardizeFile(context.Background(), *filePath, *schemaName, *noLLM, *genEmbeddings)
		return
	}

	log.Fatal().Msg("Please provide a file using the -file flag or start the server with -serve")
}

func standardizeFile(ctx context.Context, filePath, schemaName string, noLLM, genEmbeddings bool) {
	schema, err := models.ParseSchema(schemaName)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid schema")
	}

	cfg, err := config.LoadConfig(configFilePath)
	if err != nil {
		if !noLLM {
			log.Fatal().Err(err).Msg("Error loading config")
		}
		log.Warn().Err(err).Msg("No config loaded, continuing without LLM")
		cfg = &config.Config{}
	}
	log.Debug().Interface("config", cfg).Msg("Loaded config")

	var completer llm.Completer
	if !noLLM {
		client, err := llm.NewClient(&cfg.LLM)
		if err != nil {
			log.Fatal().Err(err).Msg("Error initializing LLM client")
		}
		completer = client
	}

	embedder := newEmbedder(cfg, genEmbeddings)

	content, err := os.ReadFile(filePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error reading file")
	}
	info, err := os.Stat(filePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error reading file info")
	}

	p := pipeline.New(completer, embedder, nil)
	resp, err := p.Process(ctx, pipeline.Request{
		Content:            content,
		Filename:           info.Name(),
		SizeBytes:          info.Size(),
		TargetSchema:       schema,
		GenerateEmbeddings: genEmbeddings,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Error running pipeline")
	}

	helper.PrettyPrint(resp)
	persistResponse(ctx, cfg, resp)
}

func runServer(ctx context.Context) {
	cfg, err := config.LoadConfig(configFilePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}
	log.Debug().Interface("config", cfg).Msg("Loaded config")

	var completer llm.Completer
	if cfg.LLM.Model != "" {
		client, err := llm.NewClient(&cfg.LLM)
		if err != nil {
			log.Fatal().Err(err).Msg("Error initializing LLM client")
		}
		completer = client
	} else {
		log.Warn().Msg("No LLM model configured, serving with direct mapping only")
	}

	embedder := newEmbedder(cfg, true)

	var db *bun.DB
	if cfg.Database.DSN != "" {
		sqldb, err := store.ConnectDB(&cfg.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("Error connecting to database")
		}
		db = store.NewDB(sqldb, cfg.Database.Debug)
		defer db.Close()
		if err := store.InitDB(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("Error initializing database")
		}
	}

	var vector *store.VectorSink
	if cfg.Vector.Path != "" || cfg.Vector.InMemory {
		vector, err = store.NewVectorSink(&cfg.Vector)
		if err != nil {
			log.Fatal().Err(err).Msg("Error creating vector sink")
		}
	}

	addr := cfg.Server.Addr
	if addr == "" {
		addr = defaultAddr
	}

	p := pipeline.New(completer, embedder, nil)
	srv := server.New(p, db, vector)
	log.Info().Str("addr", addr).Msg("Starting HTTP server")
	if err := srv.Router().Run(addr); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}

func newEmbedder(cfg *config.Config, wanted bool) *embeddings.EmbedderImpl {
	if !wanted || cfg.EmbedLLM.Model == "" {
		return nil
	}
	embedder, err := embedding.NewEmbedder(&cfg.EmbedLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}
	return embedder
}

func persistResponse(ctx context.Context, cfg *config.Config, resp *models.StandardizationResponse) {
	if cfg.Database.DSN == "" {
		return
	}
	sqldb, err := store.ConnectDB(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}
	db := store.NewDB(sqldb, cfg.Database.Debug)
	defer db.Close()

	if err := store.InitDB(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("Error initializing database")
	}
	if err := store.SaveRun(ctx, db, resp); err != nil {
		log.Fatal().Err(err).Msg("Error storing run")
	}
	log.Info().Msg("Stored standardization run")
}
