package scriptconfig

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	bodoerrors "github.com/bodo-run/bodo/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("task_name", func(fl validator.FieldLevel) bool {
			return ValidTaskName(fl.Field().String())
		})

		_ = v.RegisterValidation("duration", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			if s == "" {
				return true
			}
			_, err := time.ParseDuration(s)
			return err == nil
		})

		validateInst = v
	})

	return validateInst
}

// ValidateTask performs schema validation on a single TaskConfig plus the
// cross-field rules spec.md attaches to it: empty command only legal with
// dependencies, non-empty watch patterns, debounce_ms range, reserved/
// malformed names, and a parseable timeout string.
//
// name is the task's declared key (or "default" for a default_task); the
// reserved-name check is skipped for "default" since it is not
// author-chosen.
func ValidateTask(name string, task TaskConfig) error {
	if name != "default" {
		if IsReservedTaskName(name) {
			return bodoerrors.NewValidationError(name, "name", fmt.Sprintf("task name %q is reserved", name), nil)
		}
		if !ValidTaskName(name) {
			return bodoerrors.NewValidationError(name, "name", fmt.Sprintf("task name %q is invalid: must be non-empty, at most 100 characters, contain no \"/\", and no two consecutive dots", name), nil)
		}
	}

	if strings.TrimSpace(task.Command) == "" && !task.HasDeps() {
		return bodoerrors.NewValidationError(name, "command", "may be empty only if pre_deps or concurrently is non-empty", nil)
	}

	if task.Timeout != "" {
		if _, err := time.ParseDuration(task.Timeout); err != nil {
			return bodoerrors.NewValidationError(name, "timeout", fmt.Sprintf("invalid timeout %q: %v", task.Timeout, err), err)
		}
	}

	if task.Watch != nil {
		if err := validateWatch(name, *task.Watch); err != nil {
			return err
		}
	}

	v := validatorInstance()
	if err := v.Struct(task); err != nil {
		return convertValidationError(name, err)
	}

	for _, arg := range task.Arguments {
		if arg.Name == "" {
			return bodoerrors.NewValidationError(name, "arguments", "argument name must not be empty", nil)
		}
	}

	return nil
}

func validateWatch(taskName string, w WatchConfig) error {
	if len(w.Patterns) == 0 {
		return bodoerrors.NewValidationError(taskName, "watch.patterns", "must be non-empty", nil)
	}
	if w.DebounceMs < 1 || w.DebounceMs > 60000 {
		return bodoerrors.NewValidationError(taskName, "watch.debounce_ms", fmt.Sprintf("%d out of range [1, 60000]", w.DebounceMs), nil)
	}
	return nil
}

func convertValidationError(name string, err error) error {
	if err == nil {
		return nil
	}
	if ves, ok := err.(validator.ValidationErrors); ok && len(ves) > 0 {
		fe := ves[0]
		field := fieldName(fe)
		reason := fmt.Sprintf("failed validation for tag '%s'", fe.Tag())
		return bodoerrors.NewValidationError(name, field, reason, err)
	}
	return bodoerrors.NewValidationError(name, "", err.Error(), err)
}

func fieldName(fe validator.FieldError) string {
	parts := strings.Split(fe.StructNamespace(), ".")
	for i, p := range parts {
		parts[i] = strings.ToLower(p)
	}
	return strings.Join(parts, ".")
}
