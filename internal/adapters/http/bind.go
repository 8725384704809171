package http

import (
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

// newValidator reports field errors under their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// bind decodes and validates a JSON body. When ok is false the error
// response has already been written and err is what the handler returns.
func bind(c *fiber.Ctx, req any) (ok bool, err error) {
	if err := c.BodyParser(req); err != nil {
		return false, errBadRequest(c, "invalid JSON body: "+err.Error())
	}

	switch verr := validate.Struct(req).(type) {
	case nil:
		return true, nil
	case validator.ValidationErrors:
		var fields map[string][]string
		for _, ferr := range verr {
			addFieldErr(&fields, ferr.Field(), ferr.Error())
		}
		return false, errValidation(c, fields)
	default:
		return false, errInternal(c, verr.Error())
	}
}

func addFieldErr(errs *map[string][]string, name string, msgs ...string) {
	if *errs == nil {
		*errs = make(map[string][]string)
	}
	(*errs)[name] = append((*errs)[name], msgs...)
}

// queryFloats parses required float query parameters in order. The first
// missing or malformed one is returned as bad.
func queryFloats(c *fiber.Ctx, keys ...string) (vals []float64, bad string) {
	vals = make([]float64, len(keys))
	for i, k := range keys {
		raw := c.Query(k)
		if raw == "" {
			return nil, k
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, k
		}
		vals[i] = v
	}
	return vals, ""
}

// lenientFloat parses a query parameter, yielding NaN when it is missing
// or malformed.
func lenientFloat(c *fiber.Ctx, key string) float64 {
	v, err := strconv.ParseFloat(c.Query(key), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// finite reports whether every value can be encoded as a JSON number.
func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
