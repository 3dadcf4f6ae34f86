package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/autonomo-api/internal/application/dto"
	domfiscal "github.com/jhoicas/autonomo-api/internal/domain/fiscal"
)

var validate = newValidator()

// newValidator usa el nombre json (o query) del campo en los errores.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
		}
		return name
	})
	return v
}

// requestError petición rechazada antes de llegar al caso de uso.
type requestError struct {
	status int
	body   dto.ErrorResponse
}

func (e *requestError) Error() string { return e.body.Message }

func badRequest(code, message string) *requestError {
	return &requestError{status: fiber.StatusBadRequest, body: dto.ErrorResponse{Code: code, Message: message}}
}

// bindBody parsea el JSON del cuerpo y lo valida.
func bindBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return badRequest("INVALID_BODY", "cuerpo inválido")
	}
	return validateStruct(out)
}

// bindQuery parsea la query string y la valida.
func bindQuery(c *fiber.Ctx, out any) error {
	if err := c.QueryParser(out); err != nil {
		return badRequest("INVALID_QUERY", "parámetros de consulta inválidos")
	}
	return validateStruct(out)
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	re := badRequest("VALIDATION", "datos inválidos")
	for _, fe := range verrs {
		re.body.Details = append(re.body.Details, dto.ValidationDetail{
			Field:   fieldPath(fe),
			Message: validationMessage(fe),
		})
	}
	return re
}

// fieldPath ruta del campo sin el nombre del struct raíz, p. ej. "lines[0].quantity".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "campo obligatorio"
	case "min":
		if fe.Kind() == reflect.String || fe.Kind() == reflect.Slice {
			return "longitud mínima " + fe.Param()
		}
		return "debe ser al menos " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String || fe.Kind() == reflect.Slice {
			return "longitud máxima " + fe.Param()
		}
		return "debe ser como mucho " + fe.Param()
	case "len":
		return "debe tener exactamente " + fe.Param() + " caracteres"
	case "oneof":
		return "debe ser uno de: " + fe.Param()
	case "datetime":
		return "fecha con formato AAAA-MM-DD"
	case "email":
		return "correo electrónico inválido"
	case "alphanum":
		return "solo letras y números"
	case "uuid":
		return "identificador con formato UUID"
	default:
		return "valor inválido"
	}
}

// yearParam lee :year de la ruta.
func yearParam(c *fiber.Ctx) (int, error) {
	year, err := c.ParamsInt("year")
	if err != nil || year < 2000 || year > 2100 {
		return 0, badRequest("VALIDATION", "año inválido")
	}
	return year, nil
}

// quarterParam lee :n de la ruta.
func quarterParam(c *fiber.Ctx) (int, error) {
	n, err := c.ParamsInt("n")
	if err != nil || !domfiscal.ValidQuarter(n) {
		return 0, badRequest("VALIDATION", "trimestre inválido (1-4)")
	}
	return n, nil
}

// periodParams lee :year y :n.
func periodParams(c *fiber.Ctx) (int, int, error) {
	year, err := yearParam(c)
	if err != nil {
		return 0, 0, err
	}
	n, err := quarterParam(c)
	if err != nil {
		return 0, 0, err
	}
	return year, n, nil
}
