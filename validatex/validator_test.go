package validatex

import (
	"errors"
	"testing"

	"github.com/Conversia-AI/craftable-serialx/errx"
	"github.com/Conversia-AI/craftable-serialx/serialx"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func field(name string) *serialx.Field {
	return serialx.NewField(nil, serialx.Key(name))
}

func TestRulesTagGrammar(t *testing.T) {
	v := Rules("required, min=3 ,max=5,alpha")
	assert.Equal(t, "required,min=3,max=5,alpha", v.String())

	tests := []struct {
		value any
		want  string
	}{
		{"abcd", ""},
		{"", "name field is required"},
		{"ab", "name must be at least 3"},
		{"abcdefg", "name must be at most 5"},
		{"ab12", "name must contain only alphabetic characters"},
	}

	for _, tt := range tests {
		err := v.Validate(field("name"), tt.value)
		if tt.want == "" {
			assert.NoError(t, err, "%v", tt.value)
			continue
		}
		assert.Equal(t, []string{tt.want}, serialx.Messages(err), "%v", tt.value)
	}
}

func TestNumericBounds(t *testing.T) {
	v := Rules("min=18,max=120")
	assert.NoError(t, v.Validate(field("age"), 30))
	assert.NoError(t, v.Validate(field("age"), 18.0))
	assert.Equal(t, []string{"age must be at least 18"}, serialx.Messages(v.Validate(field("age"), 0)))
	assert.Equal(t, []string{"age must be at most 120"}, serialx.Messages(v.Validate(field("age"), 121)))
}

func TestEmptyValuesSkipNonRequiredRules(t *testing.T) {
	assert.NoError(t, Email().Validate(field("email"), ""))
	assert.NoError(t, Min(2).Validate(field("tags"), []string{}))
	assert.Error(t, Required().Validate(field("email"), ""))
}

func TestStringRules(t *testing.T) {
	f := field("v")
	assert.NoError(t, Email().Validate(f, "ann@example.com"))
	assert.Error(t, Email().Validate(f, "ann"))
	assert.NoError(t, URL().Validate(f, "https://example.com/x"))
	assert.Error(t, URL().Validate(f, "example"))
	assert.NoError(t, UUID().Validate(f, uuid.NewString()))
	assert.NoError(t, UUID().Validate(f, uuid.New()))
	assert.Error(t, UUID().Validate(f, "123"))
	assert.NoError(t, AlphaNum().Validate(f, "abc123"))
	assert.NoError(t, Numeric().Validate(f, "123"))
	assert.Error(t, Numeric().Validate(f, 12), "string rules reject non-string values")
	assert.NoError(t, Len(3).Validate(f, "abc"))
	assert.Error(t, Len(3).Validate(f, "ab"))
}

func TestOneOfAndRegex(t *testing.T) {
	f := field("role")
	assert.NoError(t, OneOf("admin", "user").Validate(f, "user"))
	assert.Equal(t, []string{"role must be one of: admin user"}, serialx.Messages(OneOf("admin", "user").Validate(f, "root")))

	re := Regex(`^[a-z]+-\d+$`)
	assert.NoError(t, re.Validate(f, "abc-12"))
	assert.Equal(t, []string{"role must match the required pattern"}, serialx.Messages(re.Validate(f, "ABC")))

	assert.NoError(t, Rules(`regex=^x+$`).Validate(f, "xxx"))

	counted := Rules(`min=2,regex=^\d{2\,4}$`)
	assert.NoError(t, counted.Validate(f, "123"))
	assert.Error(t, counted.Validate(f, "12345"))
	assert.Equal(t, `min=2,regex=^\d{2\,4}$`, counted.String())

	again, err := ParseRules(Regex(`^\d{2,4}$`).String())
	require.NoError(t, err)
	assert.NoError(t, again.Validate(f, "1234"))
	assert.Error(t, again.Validate(f, "1"))
}

func TestParseRulesErrors(t *testing.T) {
	_, err := ParseRules("required,sparkly")
	assert.True(t, errx.IsCode(err, ErrUnknownValidator))

	_, err = ParseRules("regex=[")
	assert.True(t, errx.IsCode(err, ErrInvalidValidation))

	assert.Panics(t, func() { Rules("nope") })
}

func TestUnsupportedKindAborts(t *testing.T) {
	err := Min(1).Validate(field("flag"), true)
	require.Error(t, err)
	assert.False(t, serialx.IsValidation(err))
	assert.True(t, errx.IsCode(err, ErrUnsupportedType))
}

func TestCustomRules(t *testing.T) {
	RegisterValidationFunc("even", func(value any, _ string) bool {
		n, ok := value.(int)
		return ok && n%2 == 0
	})
	SetCustomErrorMessage("even", "must be even")

	v := Rules("min=1,even")
	assert.NoError(t, v.Validate(field("n"), 4))
	assert.Equal(t, []string{"n must be even"}, serialx.Messages(v.Validate(field("n"), 3)))
}

func TestLengthAndValueValidators(t *testing.T) {
	f := field("name")
	assert.NoError(t, MinLength(2).Validate(f, "añ"))
	assert.Equal(t, []string{"name must be at least 3 characters"}, serialx.Messages(MinLength(3).Validate(f, "añ")))
	assert.Equal(t, []string{"name must be at most 1 characters"}, serialx.Messages(MaxLength(1).Validate(f, "ab")))
	assert.Equal(t, []string{"name value is not a string"}, serialx.Messages(MinLength(1).Validate(f, 5)))

	n := field("score")
	assert.NoError(t, MinValue(1.5).Validate(n, 2))
	assert.Equal(t, []string{"score must be at least 1.5"}, serialx.Messages(MinValue(1.5).Validate(n, 1)))
	assert.Equal(t, []string{"score must be at most 10"}, serialx.Messages(MaxValue(10).Validate(n, uint8(11))))
}

func TestFuncPassesValidationErrorsThrough(t *testing.T) {
	v := Func(func(any) error { return serialx.Errorf("custom message") })
	assert.Equal(t, []string{"custom message"}, serialx.Messages(v.Validate(field("x"), 1)))

	v = Func(func(any) error { return errors.New("is reserved") })
	assert.Equal(t, []string{"x is reserved"}, serialx.Messages(v.Validate(field("x"), 1)))
}

func TestValidationErrorToErrx(t *testing.T) {
	err := NewValidationError("email", "email", "", "x", "")
	xerr := err.ToErrx()
	assert.Equal(t, ErrInvalidEmail, xerr.Code)
	assert.Equal(t, []string{"email must be a valid email address"}, xerr.Details["messages"])
	assert.Equal(t, "x", xerr.Details["value"])
}

func TestRulesInsideSchema(t *testing.T) {
	s := serialx.NewBuilder("User").
		Field("username", serialx.NewField(nil, serialx.Validators(Rules("required,min=3")))).
		Field("email", serialx.NewField(nil, serialx.Validators(Email()))).
		MustBuild()

	_, err := s.Load(map[string]any{"username": "jo", "email": "x"})
	assert.Equal(t, []string{
		"username must be at least 3",
		"email must be a valid email address",
	}, serialx.Messages(err))
}
