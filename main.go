package main

import (
	"net/http"

	"github.com/rs/zerolog/log"

	catalogx "github.com/studio-nexa/tsm-orchestrator/dialog/catalog"
	orchestratorx "github.com/studio-nexa/tsm-orchestrator/dialog/orchestrator"
	statex "github.com/studio-nexa/tsm-orchestrator/dialog/state"
	"github.com/studio-nexa/tsm-orchestrator/httpapi"
	configx "github.com/studio-nexa/tsm-orchestrator/pkg/config"
	_ "github.com/studio-nexa/tsm-orchestrator/pkg/logger/autoload"
)

type AppConfig struct {
	Addr           string `envconfig:"ADDR" default:":8001"`
	CatalogBackend string `envconfig:"CATALOG_BACKEND" default:"file"`
	CatalogPath    string `envconfig:"CATALOG_PATH" default:"data/catalog.json"`
}

func main() {
	appCfg := configx.MustNew[AppConfig]("")

	redisCfg := configx.MustNew[statex.RedisConfig]("REDIS")
	store := statex.NewRedisStore(*redisCfg)
	defer store.Close()

	var provider catalogx.Provider
	switch appCfg.CatalogBackend {
	case "postgres":
		pgCfg := configx.MustNew[catalogx.PostgresConfig]("CATALOG_PG")
		pg, err := catalogx.NewPostgresProvider(*pgCfg)
		if err != nil {
			log.Fatal().Err(err).Msg("init postgres catalog")
		}
		defer pg.Close()
		provider = pg
	default:
		provider = catalogx.NewFileProvider(appCfg.CatalogPath)
	}

	engineCfg := configx.MustNew[orchestratorx.Config]("PRODUCT")
	engine, err := orchestratorx.New(store, provider, *engineCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("init dialogue engine")
	}

	handler := httpapi.NewHandler(engine, provider, engineCfg.Version)
	router := httpapi.NewRouter(handler)

	log.Info().
		Str("addr", appCfg.Addr).
		Str("catalog", appCfg.CatalogBackend).
		Str("version", engineCfg.Version).
		Msg("orchestrator listening")
	if err := http.ListenAndServe(appCfg.Addr, router); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
