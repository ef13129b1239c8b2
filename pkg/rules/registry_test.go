package rules

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/aretw0/jsonpattern/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltins(t *testing.T) {
	reg := New()

	tests := []struct {
		datatype string
		value    any
		want     bool
	}{
		{String, "text", true},
		{String, "", false},
		{String, json.Number("0"), true},
		{Email, "test@test.com", true},
		{Email, "dn@dm.com", true},
		{Email, "not-an-email", false},
		{Email, "a@b@c.com", false},
		{Numeric, "23", true},
		{Numeric, 18, true},
		{Numeric, json.Number("555"), true},
		{Numeric, "-1.5", true},
		{Numeric, "xx", false},
		{Numeric, "not_valid", false},
		{Numeric, "1.0.1a", false},
		{Country, "AR", true},
		{Country, "", true},
		{Country, "ARG", false},
		{Country, "ar", false},
		{Date, "2024-01-01", true},
		{CUIT, "333", true},
		{CBU, "", false},
	}

	for _, tt := range tests {
		got, err := reg.Validate(tt.datatype, tt.value)
		if err != nil {
			t.Fatalf("Validate(%q, %v) unexpected error: %v", tt.datatype, tt.value, err)
		}
		if got != tt.want {
			t.Errorf("Validate(%q, %#v) = %v, want %v", tt.datatype, tt.value, got, tt.want)
		}
	}
}

func TestValidate_UnknownDatatype(t *testing.T) {
	reg := New()

	_, err := reg.Validate("iban", "ES00")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnknownDatatype))
}

func TestRegister_Overwrite(t *testing.T) {
	reg := New()

	ok, _ := reg.Validate(Numeric, "abc")
	assert.False(t, ok)

	require.NoError(t, reg.RegisterPattern(Numeric, `^[a-z]+$`))

	ok, _ = reg.Validate(Numeric, "abc")
	assert.True(t, ok, "last registration wins")
}

func TestRegister_Rejects(t *testing.T) {
	reg := NewEmpty()

	assert.ErrorIs(t, reg.Register("", MustPattern(".")), domain.ErrInvalidRule)
	assert.ErrorIs(t, reg.Register("zero", Rule{}), domain.ErrInvalidRule)
	assert.ErrorIs(t, reg.RegisterFunc("nil", nil), domain.ErrInvalidRule)
	assert.ErrorIs(t, reg.RegisterPattern("broken", `(`), domain.ErrInvalidRule)
	assert.Empty(t, reg.Names())
}

func TestPredicateReceivesDatatype(t *testing.T) {
	reg := NewEmpty()
	var seen string
	require.NoError(t, reg.RegisterFunc("probe", func(value any, datatype string) bool {
		seen = datatype
		return value == "x"
	}))

	ok, err := reg.Validate("probe", "x")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "probe", seen)
}

func TestSnapshot_Isolation(t *testing.T) {
	reg := New()
	snap := reg.Snapshot()

	require.NoError(t, reg.RegisterFunc("greater_than_10", GreaterThanFromName))

	assert.True(t, reg.Has("greater_than_10"))
	assert.False(t, snap.Has("greater_than_10"))
}

func TestInfos(t *testing.T) {
	reg := New()
	require.NoError(t, reg.RegisterExpression("positive", "float(value) > 0"))

	infos := reg.Infos()
	require.Len(t, infos, len(builtinPatterns)+1)

	byName := make(map[string]Info)
	for _, info := range infos {
		byName[info.Name] = info
	}
	assert.Equal(t, "pattern", byName[Numeric].Kind)
	assert.Equal(t, `[-+]?[0-9]+(\.[0-9]+)?$`, byName[Numeric].Source)
	assert.Equal(t, "predicate", byName["positive"].Kind)
	assert.Equal(t, "float(value) > 0", byName["positive"].Source)
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	reg := New()
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = reg.RegisterPattern("dynamic", `^\d+$`)
		}()
		go func() {
			defer wg.Done()
			_, _ = reg.Validate(Numeric, "12")
		}()
	}
	wg.Wait()

	assert.True(t, reg.Has("dynamic"))
}
