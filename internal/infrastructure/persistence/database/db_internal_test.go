package database

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableOptions(t *testing.T) {
	tests := []struct {
		dialect string
		want    string
	}{
		{"mysql", "ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_bin"},
		{"postgres", ""},
		{"sqlite", ""},
	}
	for _, tt := range tests {
		t.Run(tt.dialect, func(t *testing.T) {
			assert.Equal(t, tt.want, tableOptions(tt.dialect))
		})
	}
}

// MySQL 8默认排序规则不区分大小写，名称和书名列必须显式使用utf8mb4_bin
func TestMySQLMigration_CaseSensitiveNames(t *testing.T) {
	raw, err := migrationsFS.ReadFile("migrations/mysql/000001_init_schema.up.sql")
	require.NoError(t, err)
	sql := string(raw)

	t.Run("唯一名称列使用二进制排序规则", func(t *testing.T) {
		cols := regexp.MustCompile(`(?m)^\s+(name|title)\s+VARCHAR\(\d+\)\s+NOT NULL(.*)$`).FindAllStringSubmatch(sql, -1)
		require.Len(t, cols, 4, "authors、categories、tags的name和books的title")
		for _, c := range cols {
			assert.Contains(t, c[2], "COLLATE utf8mb4_bin", c[0])
		}
	})

	t.Run("所有表默认排序规则", func(t *testing.T) {
		tables := strings.Count(sql, "CREATE TABLE")
		assert.Equal(t, tables, strings.Count(sql, "COLLATE = utf8mb4_bin;"))
	})
}
