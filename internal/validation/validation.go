package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/yukikurage/academic-task-api/internal/models"
)

// custom validation tags & texts
const (
	notBlankTag  = "notblank"
	notBlankText = "{0} must not be blank"

	roleTag  = "role"
	roleText = "{0} must be one of admin, hod, staff, student"

	taskStatusTag  = "task_status"
	taskStatusText = "{0} must be one of to_do, in_progress, in_review, done"

	taskPriorityTag  = "task_priority"
	taskPriorityText = "{0} must be one of low, medium, high"

	digitsOnlyTag  = "digits_only"
	digitsOnlyText = "{0} must contain digits only"
)

var (
	Translator ut.Translator
	once       sync.Once
)

// Init registers the custom tags, JSON field names and English translations
// on gin's validator. It is safe to call more than once.
func Init() {
	once.Do(func() {
		validate, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		_en := en.New()
		uni := ut.New(_en, _en)
		Translator, _ = uni.GetTranslator("en")
		_ = en_translations.RegisterDefaultTranslations(validate, Translator)

		// Use JSON tag names for errors instead of Go struct names.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		register(validate, notBlankTag, notBlankText, notBlank)
		register(validate, roleTag, roleText, validRole)
		register(validate, taskStatusTag, taskStatusText, validTaskStatus)
		register(validate, taskPriorityTag, taskPriorityText, validTaskPriority)
		register(validate, digitsOnlyTag, digitsOnlyText, digitsOnly)
	})
}

func register(validate *validator.Validate, tag, text string, fn validator.Func) {
	_ = validate.RegisterValidation(tag, fn)
	_ = validate.RegisterTranslation(
		tag, Translator,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Details maps binding errors to field messages. Errors that are not
// validation failures, such as malformed JSON, yield nil.
func Details(err error) map[string]string {
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return nil
	}

	fldErrs := make(map[string]string, len(vErrs))
	for _, vErr := range vErrs {
		if Translator != nil {
			fldErrs[vErr.Field()] = vErr.Translate(Translator)
		} else {
			fldErrs[vErr.Field()] = vErr.Error()
		}
	}
	return fldErrs
}

func notBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return true
	}
	return strings.TrimSpace(field.String()) != ""
}

func validRole(fl validator.FieldLevel) bool {
	return models.Role(fl.Field().String()).Valid()
}

func validTaskStatus(fl validator.FieldLevel) bool {
	return models.TaskStatus(fl.Field().String()).Valid()
}

func validTaskPriority(fl validator.FieldLevel) bool {
	return models.TaskPriority(fl.Field().String()).Valid()
}

// digitsOnly accepts an empty value; pair with required when needed.
func digitsOnly(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
