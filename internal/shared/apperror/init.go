package apperror

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		// report json field names (e.g. `financialYear`) instead of Go field names
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("financial_year", validateFinancialYear)
	}
}

func validateFinancialYear(fl validator.FieldLevel) bool {
	return IsFinancialYear(fl.Field().String())
}

// IsFinancialYear accepts "YYYY-YY" where YY is the year after YYYY, e.g. "2025-26".
func IsFinancialYear(v string) bool {
	if len(v) != 7 || v[4] != '-' {
		return false
	}
	start, err := strconv.Atoi(v[:4])
	if err != nil {
		return false
	}
	end, err := strconv.Atoi(v[5:])
	if err != nil {
		return false
	}
	return (start+1)%100 == end
}
