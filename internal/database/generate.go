package database

// schema.sql is the result of running every migration against an empty
// database. Regenerate it, then the sqlc query code, after adding a
// migration under migrations/files:
//
//	go generate ./internal/database

//go:generate sh -c "cd ../.. && go run internal/database/tools/generate_schema.go"
//go:generate sh -c "cd ../.. && sqlc generate -f internal/database/sqlc/sqlc.yaml"
