// Package migrations embeds the audit schemas for ClickHouse and PostgreSQL.
package migrations

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed clickhouse/*.sql postgres/*.sql
var files embed.FS

// Load returns the schema files for dialect ("clickhouse" or "postgres") in
// name order.
func Load(dialect string) ([]File, error) {
	entries, err := fs.ReadDir(files, dialect)
	if err != nil {
		return nil, fmt.Errorf("no migrations for %q: %w", dialect, err)
	}

	var out []File
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		content, err := fs.ReadFile(files, dialect+"/"+e.Name())
		if err != nil {
			return nil, err
		}
		out = append(out, File{Name: e.Name(), SQL: string(content)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// File is one migration script
type File struct {
	Name string
	SQL  string
}

// Statements splits the script on semicolons. ClickHouse only accepts one
// statement per Exec.
func (f File) Statements() []string {
	var stmts []string
	for _, stmt := range strings.Split(f.SQL, ";") {
		if trimmed := strings.TrimSpace(stmt); trimmed != "" {
			stmts = append(stmts, trimmed)
		}
	}
	return stmts
}
