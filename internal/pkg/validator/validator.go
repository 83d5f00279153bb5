package validator

// Validator validates annotated structs.
type Validator interface {
	Validate(data any) error
}
