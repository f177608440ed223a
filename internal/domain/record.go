package domain

// Record is the key/value form in which a stage hands entities to its caller.
type Record map[string]any

// IsError reports whether the record is a stage failure sentinel.
func (r Record) IsError() bool {
	_, ok := r["error"]
	return ok
}

// ErrorRecord builds the sentinel that stands in for a failed stage.
func ErrorRecord(text, message string) Record {
	return Record{
		"text":  text,
		"error": message,
	}
}

// HasError reports whether records is the one-element failure result of a stage.
func HasError(records []Record) bool {
	return len(records) == 1 && records[0].IsError()
}
