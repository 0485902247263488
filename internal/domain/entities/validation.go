package entities

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRecord runs the schema check used by the import paths: required
// fields present and enum fields well-formed. It returns one reason per
// violated rule, or nil for a valid record.
func ValidateRecord(record any) []string {
	err := validate.Struct(record)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	reasons := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			reasons = append(reasons, fmt.Sprintf("missing %s", fe.Field()))
		case "oneof":
			reasons = append(reasons, fmt.Sprintf("invalid %s %q", fe.Field(), fe.Value()))
		case "datetime":
			reasons = append(reasons, fmt.Sprintf("malformed %s %q", fe.Field(), fe.Value()))
		default:
			reasons = append(reasons, fmt.Sprintf("invalid %s", fe.Field()))
		}
	}
	return reasons
}
