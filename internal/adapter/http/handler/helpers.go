package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/lexpractice/lexledger/internal/adapter/http/dto"
	"github.com/lexpractice/lexledger/internal/domain"
)

const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeData writes a successful enveloped response.
func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, dto.Envelope{Success: true, Data: data})
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message string, fields []domain.FieldError) {
	writeJSON(w, status, dto.Envelope{Success: false, Message: message, Errors: fields})
}

// writeDomainError maps err to a status and writes it. Unexpected errors are
// logged and hidden from the client.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status, message, fields := mapDomainError(err)
	if status >= http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", chimiddleware.GetReqID(r.Context())).
			Msg("request failed")
	}
	writeError(w, status, message, fields)
}

// mapDomainError maps domain errors to HTTP status codes and client messages.
func mapDomainError(err error) (int, string, []domain.FieldError) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest, "Validation failed", verr.Fields
	}

	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusBadRequest, err.Error(), nil
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrAmountTooSmall),
		errors.Is(err, domain.ErrAmountTooLarge),
		errors.Is(err, domain.ErrAmountPrecision),
		errors.Is(err, domain.ErrInvalidEntryType),
		errors.Is(err, domain.ErrInvalidPayFrequency),
		errors.Is(err, domain.ErrInvalidPayPeriod),
		errors.Is(err, domain.ErrNothingToUpdate):
		return http.StatusBadRequest, err.Error(), nil

	case errors.Is(err, domain.ErrMatterNotFound):
		return http.StatusNotFound, "Matter not found", nil
	case errors.Is(err, domain.ErrClientNotFound):
		return http.StatusNotFound, "Client not found", nil
	case errors.Is(err, domain.ErrPayrollNotFound):
		return http.StatusNotFound, "Payroll record not found", nil
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "User not found", nil

	case errors.Is(err, domain.ErrDuplicateCaseNumber):
		return http.StatusConflict, "Case number already exists", nil
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict, "User with this email already exists", nil

	case errors.Is(err, domain.ErrUserInactive):
		return http.StatusUnauthorized, "Account is inactive", nil
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrExpiredToken):
		return http.StatusUnauthorized, "Invalid credentials", nil
	case errors.Is(err, domain.ErrInsufficientRole):
		return http.StatusForbidden, "Access denied. Insufficient permissions.", nil

	default:
		return http.StatusInternalServerError, "Internal server error", nil
	}
}

// decodeJSON reads a JSON body into dst, writing a 400 on failure. Values
// that do not fit their field are reported per field.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err), nil)
		return false
	}
	if len(bytes.TrimSpace(body)) == 0 {
		writeError(w, http.StatusBadRequest, "Invalid request body", nil)
		return false
	}

	if err := json.Unmarshal(body, dst); err != nil {
		if fields := decodeFieldErrors(body, dst, err); len(fields) > 0 {
			writeError(w, http.StatusBadRequest, "Validation failed", fields)
			return false
		}
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err), nil)
		return false
	}
	return true
}

var (
	dateType    = reflect.TypeOf(dto.Date{})
	decimalType = reflect.TypeOf(decimal.Decimal{})
)

// decodeFieldErrors finds the top-level fields of body that cannot be
// decoded into the matching field of dst. It returns nil when the body is
// not a JSON object.
func decodeFieldErrors(body []byte, dst any, err error) []domain.FieldError {
	var raw map[string]json.RawMessage
	if json.Unmarshal(body, &raw) != nil {
		return nil
	}

	t := reflect.TypeOf(dst)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	var fields []domain.FieldError
	for _, f := range jsonFields(t) {
		value, ok := raw[f.name]
		if !ok {
			continue
		}
		if ferr := json.Unmarshal(value, reflect.New(f.typ).Interface()); ferr != nil {
			fields = append(fields, domain.FieldError{Field: f.name, Message: fieldDecodeMessage(f.typ, ferr)})
		}
	}

	if len(fields) == 0 {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			fields = append(fields, domain.FieldError{Field: typeErr.Field, Message: "must be a " + typeErr.Type.String()})
		}
	}
	return fields
}

type jsonField struct {
	name string
	typ  reflect.Type
}

// jsonFields lists the JSON names of t's fields, flattening embedded structs.
func jsonFields(t reflect.Type) []jsonField {
	var out []jsonField
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if f.Anonymous && tag == "" && f.Type.Kind() == reflect.Struct {
			out = append(out, jsonFields(f.Type)...)
			continue
		}
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		switch name {
		case "-":
			continue
		case "":
			name = f.Name
		}
		out = append(out, jsonField{name: name, typ: f.Type})
	}
	return out
}

func fieldDecodeMessage(t reflect.Type, err error) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t {
	case dateType:
		return "must be a date (YYYY-MM-DD)"
	case decimalType:
		return "must be a decimal number"
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return "must be a " + typeErr.Type.String()
	}
	return "is invalid"
}

// actorFrom returns the authenticated actor. Routes behind the
// authenticator always have one.
func actorFrom(r *http.Request) domain.Actor {
	actor, _ := domain.ActorFromContext(r.Context())
	return actor
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}
