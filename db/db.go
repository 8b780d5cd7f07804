package db

import (
	"embed"
	"io/fs"
)

//go:embed migrations/*.sql
var Migrations embed.FS

//go:embed backend/migrations/*.sql
var backendFS embed.FS

// BackendMigrations holds the reference backend schema and catalog seed,
// rooted so that Migrate finds them under migrations/.
var BackendMigrations = mustSub(backendFS, "backend")

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
