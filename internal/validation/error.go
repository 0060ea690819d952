package validation

import (
	"fmt"
	"strings"

	"GameCatalogAPI/internal/model"

	"github.com/go-playground/validator/v10"
)

// FieldError describes one rule a request field broke.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// Error is returned by Validate when a request body breaks one or more
// rules. Handlers render Fields next to the joined message.
type Error struct {
	Fields []FieldError `json:"fields"`
}

func (e *Error) Error() string {
	var b strings.Builder
	for _, f := range e.Fields {
		if b.Len() > 0 {
			b.WriteString("; ")
		}
		b.WriteString(f.Message)
	}
	if b.Len() == 0 {
		return "invalid game input"
	}
	return b.String()
}

// ruleMessages renders the human message for each tag used on model.GameInput
// and model.SearchInput.
var ruleMessages = map[string]func(validator.FieldError) string{
	"notblank": func(fe validator.FieldError) string {
		return fe.Field() + " must not be blank"
	},
	"max": func(fe validator.FieldError) string {
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	},
	"platform": func(fe validator.FieldError) string {
		return fmt.Sprintf("platform %q is not one of: %s", fe.Value(), platformList())
	},
}

func platformList() string {
	names := make([]string, 0, len(model.KnownPlatforms))
	for _, p := range model.KnownPlatforms {
		names = append(names, string(p))
	}
	return strings.Join(names, ", ")
}

func fromValidator(errs validator.ValidationErrors) *Error {
	out := &Error{}
	for _, fe := range errs {
		msg := fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
		if render, ok := ruleMessages[fe.Tag()]; ok {
			msg = render(fe)
		}
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Tag: fe.Tag(), Message: msg})
	}
	return out
}
