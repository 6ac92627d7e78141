package services

import (
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"
)

var postTypeNamePattern = regexp.MustCompile(`^[a-z0-9_-]{1,20}$`)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// requestValidator returns the shared validator with the post type rule registered
func requestValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterValidation("posttype", func(fl validator.FieldLevel) bool {
			return postTypeNamePattern.MatchString(fl.Field().String())
		})
	})
	return validate
}
