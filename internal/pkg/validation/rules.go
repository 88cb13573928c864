package validation

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// UsernamePattern allows letters, digits, underscore and hyphen
	UsernamePattern = `^[a-zA-Z0-9_-]+$`

	UsernameMinLength = 3
	UsernameMaxLength = 30
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Username *regexp.Regexp
}{
	Username: regexp.MustCompile(UsernamePattern),
}

// ValidUsername reports whether s is an acceptable username
func ValidUsername(s string) bool {
	return len(s) >= UsernameMinLength && len(s) <= UsernameMaxLength && CompiledPatterns.Username.MatchString(s)
}

// RegisterRules installs the custom validator tags on gin's validator engine
func RegisterRules() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return ValidUsername(fl.Field().String())
	})
}
