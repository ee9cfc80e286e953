package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"foodgram/internal/models"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	dsn := filepath.Join(dir, "foodgram.db")

	v := viper.New()
	v.Set("DATABASE_DRIVER", "sqlite")
	v.Set("DATABASE_DSN", dsn)
	v.Set("INGREDIENTS_FILE", writeFile(t, dir, "ingredients.csv",
		"name,measurement_unit\nабрикосовое варенье,г\nбелый хлеб,г\n"))
	v.Set("TAGS_FILE", writeFile(t, dir, "tags.yaml",
		"- name: Завтрак\n  slug: breakfast\n- name: Обед\n  slug: lunch\n"))

	require.NoError(t, run(context.Background(), v))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	var ingredients []models.Ingredient
	require.NoError(t, db.Order("name").Find(&ingredients).Error)
	require.Len(t, ingredients, 2)
	assert.Equal(t, "абрикосовое варенье", ingredients[0].Name)

	var tags int64
	require.NoError(t, db.Model(&models.Tag{}).Count(&tags).Error)
	assert.EqualValues(t, 2, tags)
}

func TestRunRequiresInput(t *testing.T) {
	err := run(context.Background(), viper.New())
	assert.ErrorContains(t, err, "nothing to import")
}
