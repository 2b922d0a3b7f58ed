package output

// ImportSummary is the JSON output for an import run.
type ImportSummary struct {
	File         string `json:"file"`
	DryRun       bool   `json:"dry_run"`
	LinesSeen    int    `json:"lines_seen"`
	RowsAccepted int    `json:"rows_accepted"`
	RowsInserted int    `json:"rows_inserted"`
}

// CreateTableResult is the JSON output for table creation.
type CreateTableResult struct {
	Table   string `json:"table"`
	Dialect string `json:"dialect"`
	Created bool   `json:"created"`
}
