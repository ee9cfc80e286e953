// Command importer bulk-loads the ingredient and tag catalogs.
//
//	importer --ingredients data/ingredients.csv --tags data/tags.yaml
package main

import (
	"context"
	"fmt"
	"os"

	"foodgram/internal/app"
	"foodgram/internal/config"
	"foodgram/internal/database"
	"foodgram/internal/logging"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func main() {
	flags := pflag.NewFlagSet("importer", pflag.ExitOnError)
	flags.String("ingredients", "", "CSV file with name,measurement_unit rows (first row is a header)")
	flags.String("tags", "", "YAML file with a list of {name, slug} tags")
	flags.String("config", "", "optional config file")
	flags.String("database-driver", "", "overrides DATABASE_DRIVER")
	flags.String("database-dsn", "", "overrides DATABASE_DSN")
	_ = flags.Parse(os.Args[1:])

	v := viper.New()
	config.SetDefaults(v)
	v.AutomaticEnv()
	if file, _ := flags.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to read config: %v\n", err)
			os.Exit(1)
		}
	}
	_ = v.BindPFlag("DATABASE_DRIVER", flags.Lookup("database-driver"))
	_ = v.BindPFlag("DATABASE_DSN", flags.Lookup("database-dsn"))
	_ = v.BindPFlag("INGREDIENTS_FILE", flags.Lookup("ingredients"))
	_ = v.BindPFlag("TAGS_FILE", flags.Lookup("tags"))

	logging.Init(v.GetString("LOG_LEVEL"), "console")

	if err := run(context.Background(), v); err != nil {
		log.Fatal().Err(err).Msg("import failed")
	}
}

func run(ctx context.Context, v *viper.Viper) error {
	ingredientsFile := v.GetString("INGREDIENTS_FILE")
	tagsFile := v.GetString("TAGS_FILE")
	if ingredientsFile == "" && tagsFile == "" {
		return fmt.Errorf("nothing to import, pass --ingredients and/or --tags")
	}

	db, err := database.Open(v.GetString("DATABASE_DRIVER"), v.GetString("DATABASE_DSN"))
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	catalog := app.NewServices(app.Deps{DB: db}).Catalog

	if ingredientsFile != "" {
		f, err := os.Open(ingredientsFile)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", ingredientsFile, err)
		}
		defer f.Close()
		n, err := catalog.ImportIngredients(ctx, f)
		if err != nil {
			return err
		}
		log.Info().Int("count", n).Str("file", ingredientsFile).Msg("ingredients imported")
	}

	if tagsFile != "" {
		f, err := os.Open(tagsFile)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", tagsFile, err)
		}
		defer f.Close()
		created, skipped, err := catalog.ImportTags(ctx, f)
		if err != nil {
			return err
		}
		log.Info().Int("created", created).Int("skipped", skipped).Str("file", tagsFile).Msg("tags imported")
	}
	return nil
}
