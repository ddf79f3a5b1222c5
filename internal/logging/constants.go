package logging

// Field names shared by every log line so output stays greppable.
const (
	FieldFile       = "file_path"
	FieldOutputFile = "output_file"
	FieldBank       = "bank"
	FieldRunID      = "run_id"
	FieldCount      = "count"
	FieldDropped    = "dropped"
	FieldRow        = "row"
	FieldState      = "state"
	FieldSection    = "section"
	FieldCardHolder = "card_holder"
	FieldDelimiter  = "delimiter"
	FieldColumns    = "columns"
	FieldFormat     = "format"
	FieldDuration   = "duration_ms"
	FieldComponent  = "component"
)
