package app

// Operation tracks one CLI invocation. Operations are created in memory
// with ID=0. Only mutating commands persist them, which gives them an
// auto-increment ID from the database.
type Operation struct {
	ID         int64
	Name       string
	Parameters string
	Status     string // "success" or "error"
}

func NewOperation(name, parameters string) *Operation {
	return &Operation{
		Name:       name,
		Parameters: parameters,
		Status:     "success",
	}
}

// Persisted returns true if this operation has been saved to the database.
func (op *Operation) Persisted() bool {
	return op.ID != 0
}

// Fail marks the operation as failed. A nil error leaves it unchanged, so
// callers can pass the command's result through.
func (op *Operation) Fail(err error) {
	if err != nil {
		op.Status = "error"
	}
}
