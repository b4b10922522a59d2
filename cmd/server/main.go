package main

import (
	"context"
	"os"

	"github.com/Luismorlan/tunemux/app_config"
	"github.com/Luismorlan/tunemux/utils"
	"github.com/Luismorlan/tunemux/utils/dotenv"
	. "github.com/Luismorlan/tunemux/utils/flag"
	. "github.com/Luismorlan/tunemux/utils/log"
	"github.com/urfave/cli/v3"
)

const addrFlagName = "addr"

func main() {
	cmd := &cli.Command{
		Name:  "tunemux",
		Usage: "media catalog API server",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the API server and the asset job worker",
				Flags: append(Shared(), &cli.StringFlag{
					Name:  addrFlagName,
					Usage: "listen address, overrides HTTP_ADDR",
				}),
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "create or update the database schema and exit",
				Flags:  Shared(),
				Action: migrate,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		Log.Fatal(err)
	}
}

// loadConfig loads env files and the server config, then points the logger at
// the configured service.
func loadConfig(cmd *cli.Command) (app_config.ServerAppConfig, error) {
	if err := dotenv.LoadDotEnvs(); err != nil {
		return app_config.ServerAppConfig{}, err
	}
	config, err := app_config.LoadServerAppConfig(cmd.String(ConfigFlagName))
	if err != nil {
		return config, err
	}
	if cmd.IsSet(ServiceFlagName) {
		config.SERVICE_NAME = cmd.String(ServiceFlagName)
	}
	if cmd.IsSet(addrFlagName) {
		config.HTTP_ADDR = cmd.String(addrFlagName)
	}
	InitLogger(config.SERVICE_NAME)
	return config, nil
}

func migrate(ctx context.Context, cmd *cli.Command) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	db, err := utils.OpenDatabase(config.DATABASE_DRIVER, config.SQLITE_PATH)
	if err != nil {
		return err
	}
	if err := utils.DatabaseSetupAndMigration(db); err != nil {
		return err
	}
	Log.Info("database migrated")
	return nil
}
