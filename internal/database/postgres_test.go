package database

import "testing"

func TestMigrationVersion(t *testing.T) {
	tests := []struct {
		name string
		file string
		want int
	}{
		{"standard prefix", "001_initial_schema.sql", 1},
		{"double digits", "012_add_indexes.sql", 12},
		{"no zero padding", "2_users.sql", 2},
		{"not a sql file", "001_initial_schema.sql.bak", 0},
		{"readme", "README.md", 0},
		{"no underscore", "schema.sql", 0},
		{"non-numeric prefix", "init_schema.sql", 0},
		{"zero version", "000_reserved.sql", 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := migrationVersion(tc.file); got != tc.want {
				t.Errorf("migrationVersion(%q) = %d, want %d", tc.file, got, tc.want)
			}
		})
	}
}
