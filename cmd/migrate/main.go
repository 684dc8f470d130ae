package main

import (
	"encoding/json"
	"flag"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joripage/batch-matcher/config"
	"github.com/joripage/batch-matcher/pkg/infra"
	"go.uber.org/zap"
)

func main() {
	var configFile, source string
	flag.StringVar(&configFile, "config-file", "", "Specify config file path")
	flag.StringVar(&source, "source", infra.DefaultMigrationSource, "Migration source URL")
	flag.Parse()

	logger, _ := zap.NewProduction()
	defer logger.Sync() // nolint
	zap.ReplaceGlobals(logger)

	cfg, err := config.Load(configFile)
	if err != nil {
		panic(err)
	}
	if cfg.ReportDB == nil || cfg.ReportDB.MigrationConnURL == "" {
		zap.S().Fatal("report_db.migration_conn_url is not configured")
	}

	configBytes, err := json.MarshalIndent(cfg, "", "   ")
	if err != nil {
		zap.S().Warnf("could not convert config to JSON: %v", err)
	} else {
		zap.S().Debugf("load config %s", string(configBytes))
	}

	mgTool := infra.GetMigrateTool()
	if err := mgTool.Migrate(source, cfg.ReportDB.MigrationConnURL); err != nil {
		zap.S().Fatalf("migrate report db: %v", err)
	}
}
