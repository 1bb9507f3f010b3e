package handlerx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strconv"
	"strings"

	"github.com/Conversia-AI/craftable-serialx/asyncx"
	"github.com/Conversia-AI/craftable-serialx/auth"
	"github.com/Conversia-AI/craftable-serialx/codecx"
	"github.com/Conversia-AI/craftable-serialx/errx"
	"github.com/Conversia-AI/craftable-serialx/schemax"
	"github.com/Conversia-AI/craftable-serialx/serialx"
	"go.uber.org/zap"
)

// Service validates raw records against the schemas of a registry. Every
// transport in this package is a thin layer over it.
type Service struct {
	registry    *schemax.Registry
	concurrency int
	bodyLimit   int
	authorizer  Authorizer
}

// DefaultBodyLimit caps request bodies on every transport
const DefaultBodyLimit = 4 * 1024 * 1024

// Authorizer checks the Authorization header of a request against the scope
// of the route. *auth.TokenService implements it.
type Authorizer interface {
	Authorize(header, scope string) error
}

// NewService creates a service over registry
func NewService(registry *schemax.Registry) *Service {
	return &Service{
		registry:    registry,
		concurrency: runtime.GOMAXPROCS(0),
		bodyLimit:   DefaultBodyLimit,
	}
}

// WithBodyLimit sets the largest accepted request body in bytes
func (s *Service) WithBodyLimit(n int) *Service {
	if n > 0 {
		s.bodyLimit = n
	}
	return s
}

// WithConcurrency bounds batch validation
func (s *Service) WithConcurrency(n int) *Service {
	if n > 0 {
		s.concurrency = n
	}
	return s
}

// WithAuthorizer protects every route. GET routes need auth.ScopeRead and
// validation needs auth.ScopeValidate.
func (s *Service) WithAuthorizer(a Authorizer) *Service {
	s.authorizer = a
	return s
}

// Authorize is a no-op without an authorizer
func (s *Service) Authorize(header, method string) error {
	if s.authorizer == nil {
		return nil
	}
	scope := auth.ScopeRead
	if method == http.MethodPost {
		scope = auth.ScopeValidate
	}
	return s.authorizer.Authorize(header, scope)
}

// Schemas lists the registered schema names
func (s *Service) Schemas() []string {
	return s.registry.Names()
}

// FieldInfo describes one field of a schema
type FieldInfo struct {
	Attr     string `json:"attr"`
	Key      string `json:"key"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
	Nullable bool   `json:"nullable"`
}

// SchemaInfo describes a schema
type SchemaInfo struct {
	Name   string      `json:"name"`
	Fields []FieldInfo `json:"fields"`
}

// Describe returns the declared fields of a schema
func (s *Service) Describe(name string) (SchemaInfo, error) {
	schema, err := s.schema(name)
	if err != nil {
		return SchemaInfo{}, err
	}

	info := SchemaInfo{Name: schema.Name(), Fields: make([]FieldInfo, 0, schema.Len())}
	for _, f := range schema.Fields() {
		info.Fields = append(info.Fields, FieldInfo{
			Attr:     f.Attr(),
			Key:      f.Name(),
			Type:     f.Type().Name(),
			Required: f.IsRequired(),
			Nullable: f.AllowsNull(),
		})
	}
	return info, nil
}

// Validate loads data into a model and dumps it back, returning the
// normalized data
func (s *Service) Validate(ctx context.Context, name string, data map[string]any) (map[string]any, error) {
	schema, err := s.schema(name)
	if err != nil {
		return nil, err
	}
	return s.validate(ctx, schema, data)
}

// ValidateBatch validates records concurrently. When any record fails the
// error is HANDLERX_BATCH_FAILED with details["errors"] mapping record
// indexes to their messages; records that passed are still returned in
// place and failed ones are nil.
func (s *Service) ValidateBatch(ctx context.Context, name string, records []map[string]any) ([]map[string]any, error) {
	schema, err := s.schema(name)
	if err != nil {
		return nil, err
	}

	results, err := asyncx.MapCollect(ctx, records, s.concurrency,
		func(ctx context.Context, rec map[string]any) (map[string]any, error) {
			return s.validate(ctx, schema, rec)
		})
	if err != nil {
		return results, batchError(err, len(records))
	}
	return results, nil
}

// ValidateBody decodes body with the codec matching contentType (JSON by
// default) and validates one object or a list of objects
func (s *Service) ValidateBody(ctx context.Context, name, contentType string, body []byte) (any, error) {
	codec := codecFor(contentType)

	raw, err := codecx.Decode(codec, body)
	if err != nil {
		return nil, ErrorRegistry.NewWithCause(ErrInvalidBody, err)
	}

	switch v := raw.(type) {
	case map[string]any:
		return s.Validate(ctx, name, v)
	case []any:
		records, err := codecx.DecodeRecords(codec, body)
		if err != nil {
			return nil, ErrorRegistry.NewWithCause(ErrInvalidBody, err)
		}
		return s.ValidateBatch(ctx, name, records)
	}
	return nil, ErrorRegistry.New(ErrInvalidBody).WithDetail("got", fmt.Sprintf("%T", raw))
}

func (s *Service) validate(ctx context.Context, schema *serialx.Schema, data map[string]any) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	model, err := schema.Load(data)
	if err != nil {
		return nil, conversionError(err)
	}
	out, err := schema.Dump(model)
	if err != nil {
		return nil, conversionError(err)
	}
	return out, nil
}

func (s *Service) schema(name string) (*serialx.Schema, error) {
	schema, err := s.registry.Get(name)
	if err != nil {
		return nil, ErrorRegistry.NewWithCause(ErrSchemaNotFound, err).WithDetail("schema", name)
	}
	return schema, nil
}

func conversionError(err error) error {
	if serialx.IsValidation(err) {
		return serialx.ToErrx(err)
	}
	serialx.Logger().Error("conversion aborted", zap.Error(err))
	var xerr *errx.Error
	if errors.As(err, &xerr) {
		return xerr
	}
	return errx.Wrap(err, "Conversion failed", errx.TypeInternal)
}

func batchError(err error, total int) error {
	ec, ok := asyncx.IsErrorCollection(err)
	if !ok {
		return err
	}

	errs := make(map[string][]string, len(ec.Errors))
	for _, idx := range ec.Indexes() {
		itemErr := ec.GetError(idx)
		msgs := serialx.Messages(itemErr)
		if msgs == nil {
			var xerr *errx.Error
			if errors.As(itemErr, &xerr) {
				msgs, _ = xerr.Details["messages"].([]string)
			}
		}
		if msgs == nil {
			msgs = []string{itemErr.Error()}
		}
		errs[strconv.Itoa(idx)] = msgs
	}

	return ErrorRegistry.NewWithCause(ErrBatchFailed, err).
		WithDetail("errors", errs).
		WithDetail("failed_count", len(ec.Errors)).
		WithDetail("total", total)
}

func codecFor(contentType string) codecx.Codec {
	mediaType, _, _ := strings.Cut(contentType, ";")
	switch strings.TrimSpace(strings.ToLower(mediaType)) {
	case "application/yaml", "application/x-yaml", "text/yaml":
		return codecx.YAML()
	case "application/bson":
		return codecx.BSON()
	}
	return codecx.JSON()
}
