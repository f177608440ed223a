package domain

type Stage string

func (s Stage) String() string {
	return string(s)
}

const (
	StageCategories Stage = "categories"
	StageProducts   Stage = "products"
	StageUsers      Stage = "users"
)

// Stages lists the pipeline stages in the order they must run.
var Stages = []Stage{
	StageCategories,
	StageProducts,
	StageUsers,
}

// GetStageName returns the label used in diagnostics for the stage's model call.
func (s Stage) GetStageName() string {
	switch s {
	case StageCategories:
		return "category generation"
	case StageProducts:
		return "product generation"
	case StageUsers:
		return "user generation"
	default:
		return "unknown generation"
	}
}

type StageState string

func (s StageState) String() string {
	return string(s)
}

const (
	StateNotStarted StageState = "not_started"
	StateInvoking   StageState = "invoking"
	StateValidating StageState = "validating"
	StateIngesting  StageState = "ingesting"
	StateDone       StageState = "done"
	StateFailed     StageState = "failed"
)

// Terminal reports whether no further transition is possible.
func (s StageState) Terminal() bool {
	return s == StateDone || s == StateFailed
}
