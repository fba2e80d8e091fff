// Package monitor loads monitor definitions and turns them into samplers.
package monitor

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.yaml.in/yaml/v3"
)

type Definition struct {
	Name      string        `yaml:"name" json:"name" validate:"required,max=64"`
	Monitor   string        `yaml:"monitor" json:"monitor" validate:"required"`
	Format    string        `yaml:"format" json:"format,omitempty"`
	Partition string        `yaml:"partition" json:"partition,omitempty"`
	Device    string        `yaml:"device" json:"device,omitempty"`
	Label     string        `yaml:"label" json:"label,omitempty"`
	Interval  time.Duration `yaml:"interval" json:"interval,omitempty" validate:"gte=0"`
}

type File struct {
	Monitors []Definition `yaml:"monitors" validate:"required,min=1,unique=Name,dive"`
}

type ValidationError struct {
	Problems map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Problems))
	for k := range e.Problems {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Problems[k])
	}
	return "invalid monitor definitions: " + strings.Join(parts, "; ")
}

var validate = validator.New()

func LoadFile(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read monitors file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) ([]Definition, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse monitors file: %w", err)
	}

	for i := range f.Monitors {
		d := &f.Monitors[i]
		d.Monitor = strings.TrimSpace(d.Monitor)
		if d.Name == "" {
			d.Name = d.Monitor
		}
	}

	if problems := validateStruct(f); len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}

	return f.Monitors, nil
}

func validateStruct(payload any) map[string]string {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	problems := make(map[string]string)

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			field := strings.ToLower(strings.TrimPrefix(fieldError.Namespace(), "File."))
			switch fieldError.Tag() {
			case "required":
				problems[field] = fmt.Sprintf("The %s field is required.", fieldError.Field())
			case "min":
				problems[field] = fmt.Sprintf("At least %s %s must be defined.", fieldError.Param(), fieldError.Field())
			case "unique":
				problems[field] = fmt.Sprintf("Each %s must have a unique %s.", fieldError.Field(), fieldError.Param())
			case "max":
				problems[field] = fmt.Sprintf("The %s may not be longer than %s characters.", fieldError.Field(), fieldError.Param())
			default:
				problems[field] = fmt.Sprintf("The %s field is invalid.", fieldError.Field())
			}
		}
	}

	return problems
}
