package property

import (
	"math"
	"testing"

	"github.com/specialistvlad/recipegrid/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func bound(f float64) *float64 { return &f }

func durationType() *TypeDefinition {
	return &TypeDefinition{ID: "step_duration", Kind: KindFloat32, Units: "s", Min: bound(0), Max: bound(3600), NonNegative: true}
}

func countType() *TypeDefinition {
	return &TypeDefinition{ID: "count", Kind: KindInteger16, Min: bound(1), Max: bound(100)}
}

func commentType() *TypeDefinition {
	return &TypeDefinition{ID: "comment", Kind: KindText, MaxLength: 5}
}

func TestNew(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		value   Value
		def     *TypeDefinition
		want    Value
		wantErr error
	}{
		{name: "float in range", value: Float32(12.5), def: durationType(), want: Float32(12.5)},
		{name: "negative folded to absolute", value: Float32(-3), def: durationType(), want: Float32(3)},
		{name: "above max", value: Float32(3601), def: durationType(), wantErr: errs.ErrValidationFailed},
		{name: "int below min", value: Int16(0), def: countType(), wantErr: errs.ErrValidationFailed},
		{name: "kind mismatch", value: Int16(5), def: durationType(), wantErr: errs.ErrTypeMismatch},
		{name: "text too long", value: Text("abcdef"), def: commentType(), wantErr: errs.ErrValidationFailed},
		{name: "text counted in runes", value: Text("ñññññ"), def: commentType(), want: Text("ñññññ")},
		{name: "nil definition", value: Int16(1), def: nil, wantErr: errs.ErrUnknownPropertyType},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			p, err := New(tc.value, tc.def)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, p.Value())
		})
	}
}

func TestNew_NonNegativeMinInt16(t *testing.T) {
	t.Parallel()
	def := &TypeDefinition{ID: "offset", Kind: KindInteger16, NonNegative: true}

	_, err := New(Int16(math.MinInt16), def)

	require.ErrorIs(t, err, errs.ErrValidationFailed)
}

func TestParse(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		def     *TypeDefinition
		text    string
		want    Value
		wantErr error
	}{
		{name: "float", def: durationType(), text: "12.25", want: Float32(12.25)},
		{name: "surrounding space", def: countType(), text: " 42 ", want: Int16(42)},
		{name: "not a number", def: durationType(), text: "abc", wantErr: errs.ErrConversionFailed},
		{name: "fraction for int16", def: countType(), text: "4.5", wantErr: errs.ErrConversionFailed},
		{name: "int16 overflow", def: countType(), text: "40000", wantErr: errs.ErrConversionFailed},
		{name: "text kept verbatim", def: commentType(), text: " hi ", want: Text(" hi ")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := tc.def.Parse(tc.text)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFromCty(t *testing.T) {
	t.Parallel()

	got, err := countType().FromCty(cty.NumberIntVal(7))
	require.NoError(t, err)
	assert.Equal(t, Int16(7), got)

	got, err = countType().FromCty(cty.StringVal("8"))
	require.NoError(t, err)
	assert.Equal(t, Int16(8), got)

	got, err = commentType().FromCty(cty.NumberIntVal(3))
	require.NoError(t, err)
	assert.Equal(t, Text("3"), got)

	_, err = countType().FromCty(cty.NullVal(cty.Number))
	require.ErrorIs(t, err, errs.ErrConversionFailed)

	_, err = countType().FromCty(cty.True)
	require.ErrorIs(t, err, errs.ErrConversionFailed)
}

func TestFromNumber(t *testing.T) {
	t.Parallel()

	got, err := countType().FromNumber(2.6)
	require.NoError(t, err)
	assert.Equal(t, Int16(3), got, "integer kinds round to nearest")

	_, err = countType().FromNumber(1e6)
	require.ErrorIs(t, err, errs.ErrValidationFailed)

	_, err = durationType().FromNumber(math.Inf(1))
	require.ErrorIs(t, err, errs.ErrCalculation)

	_, err = commentType().FromNumber(1)
	require.ErrorIs(t, err, errs.ErrTypeMismatch)
}

func TestProperty_WithValue(t *testing.T) {
	t.Parallel()

	original, err := New(Float32(10), durationType())
	require.NoError(t, err)

	t.Run("text input is parsed for numeric types", func(t *testing.T) {
		t.Parallel()
		next, err := original.WithValue(Text("20"))
		require.NoError(t, err)
		assert.Equal(t, Float32(20), next.Value())
		assert.Equal(t, Float32(10), original.Value(), "receiver must not change")
	})

	t.Run("invalid text fails conversion", func(t *testing.T) {
		t.Parallel()
		_, err := original.WithValue(Text("fast"))
		require.ErrorIs(t, err, errs.ErrConversionFailed)
	})

	t.Run("zero property", func(t *testing.T) {
		t.Parallel()
		_, err := Property{}.WithValue(Float32(1))
		require.ErrorIs(t, err, errs.ErrUnknownPropertyType)
	})
}

func TestProperty_FormatReentry(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		def   *TypeDefinition
		value Value
	}{
		{name: "seconds", def: durationType(), value: Float32(12.5)},
		{name: "compound units", def: &TypeDefinition{ID: "speed", Kind: KindFloat32, Units: "C/10s", Min: bound(0)}, value: Float32(10)},
		{name: "integer with units", def: &TypeDefinition{ID: "valve", Kind: KindInteger16, Units: "#", Min: bound(0)}, value: Int16(3)},
		{name: "no units", def: countType(), value: Int16(7)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			p, err := New(tc.value, tc.def)
			require.NoError(t, err)

			again, err := p.WithValue(Text(p.Format()))

			require.NoError(t, err, "formatted %q", p.Format())
			assert.True(t, p.Equal(again))
		})
	}
}

func TestParse_UnitSuffix(t *testing.T) {
	t.Parallel()

	got, err := durationType().Parse(" 12s ")
	require.NoError(t, err)
	assert.Equal(t, Float32(12), got)

	_, err = durationType().Parse("12 min")
	require.ErrorIs(t, err, errs.ErrConversionFailed)
}

func TestProperty_DefinitionIsCopy(t *testing.T) {
	t.Parallel()

	p, err := New(Float32(10), durationType())
	require.NoError(t, err)

	def := p.Definition()
	*def.Max = 1
	def.Units = "h"

	next, err := p.WithValue(Float32(5))
	require.NoError(t, err)
	assert.Equal(t, "5 s", next.Format())
}

func TestProperty_FormatAndEqual(t *testing.T) {
	t.Parallel()

	a, err := New(Float32(12.5), durationType())
	require.NoError(t, err)
	b, err := New(Float32(12.5), durationType())
	require.NoError(t, err)
	c, err := New(Float32(13), durationType())
	require.NoError(t, err)

	assert.Equal(t, "12.5 s", a.Format())
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.Equal(t, "", Property{}.Format())
}

func TestGet(t *testing.T) {
	t.Parallel()

	p, err := New(Int16(5), countType())
	require.NoError(t, err)

	n, err := Get[int16](p)
	require.NoError(t, err)
	assert.Equal(t, int16(5), n)

	_, err = Get[float32](p)
	require.ErrorIs(t, err, errs.ErrTypeMismatch)

	_, err = Get[string](p)
	require.ErrorIs(t, err, errs.ErrTypeMismatch)
}

func TestValue_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "42", Int16(42).String())
	assert.Equal(t, "0.1", Float32(0.1).String())
	assert.Equal(t, "x", Text("x").String())
	assert.Equal(t, "<invalid>", Value{}.String())
	assert.False(t, Value{}.IsValid())
}

func TestKind_RoundTrip(t *testing.T) {
	t.Parallel()
	for _, k := range []Kind{KindInteger16, KindFloat32, KindText} {
		got, ok := ParseKind(k.String())
		require.True(t, ok)
		assert.Equal(t, k, got)
	}
	_, ok := ParseKind("int64")
	assert.False(t, ok)
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	reg, err := NewRegistry(durationType(), countType())
	require.NoError(t, err)

	def, err := reg.Lookup("count")
	require.NoError(t, err)
	assert.Equal(t, KindInteger16, def.Kind)

	_, err = reg.Lookup("missing")
	require.ErrorIs(t, err, errs.ErrUnknownPropertyType)

	require.Error(t, reg.Register(countType()), "duplicate id")
	require.Error(t, reg.Register(&TypeDefinition{ID: "x"}), "missing kind")
	assert.Equal(t, []string{"count", "step_duration"}, reg.IDs())

	*def.Min = 50
	again, err := reg.Lookup("count")
	require.NoError(t, err)
	assert.Equal(t, 1.0, *again.Min, "lookups hand out copies")
}
