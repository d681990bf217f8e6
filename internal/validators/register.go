package validators

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/pawfectpets/pawfect-api/internal/domain/catalog"
)

var once sync.Once

// Register installs the custom tags on gin's validator and makes field
// errors report JSON names. Safe to call more than once.
func Register() {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(jsonName)
		_ = v.RegisterValidation("service_category", serviceCategory)
	})
}

func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

func serviceCategory(fl validator.FieldLevel) bool {
	return catalog.IsValidCategory(fl.Field().String())
}
