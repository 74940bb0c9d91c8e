package db

import (
	_ "embed"
)

// Schema

//go:embed sql/create_tables.sql
var CreateTablesSQL string

// Video queries

//go:embed sql/upsert_video.sql
var UpsertVideoSQL string

//go:embed sql/select_video_by_path.sql
var SelectVideoByPathSQL string

// Export queries

//go:embed sql/insert_export.sql
var InsertExportSQL string

//go:embed sql/mark_export_complete.sql
var MarkExportCompleteSQL string

//go:embed sql/mark_export_error.sql
var MarkExportErrorSQL string

//go:embed sql/select_exports.sql
var SelectExportsSQL string

//go:embed sql/select_export_by_id.sql
var SelectExportByIDSQL string

//go:embed sql/delete_export.sql
var DeleteExportSQL string
