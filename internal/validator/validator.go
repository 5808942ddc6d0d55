package validator // import "github.com/Xunop/e-library/internal/validator"

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Struct checks the validate tags of a request model. Field failures are
// folded into one readable error such as "isbn: len=13; title: required".
func Struct(req any) error {
	if err := validate.Struct(req); err != nil {
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			return errors.Wrap(err, "invalid request")
		}
		problems := make([]string, 0, len(ve))
		for _, fieldErr := range ve {
			tag := fieldErr.Tag()
			if fieldErr.Param() != "" {
				tag += "=" + fieldErr.Param()
			}
			problems = append(problems, fmt.Sprintf("%s: %s", strings.ToLower(fieldErr.Field()), tag))
		}
		sort.Strings(problems)
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}
