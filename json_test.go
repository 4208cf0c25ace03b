package json_test

import (
	"bytes"
	stdjson "encoding/json"
	"io"
	"testing"

	gojson "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oarkflow/jsonbind"
	"github.com/oarkflow/jsonbind/jsonerr"
	"github.com/oarkflow/jsonbind/jsontest"
)

type phoneNumber struct {
	Type   string `json:"type"`
	Number string `json:"number"`
}

type person struct {
	FirstName    string        `json:"firstName"`
	LastName     string        `json:"lastName"`
	Age          int           `json:"age"`
	PhoneNumbers []phoneNumber `json:"phoneNumbers"`
}

type computer struct {
	Name   string `json:"name"`
	Serial string `json:"-"`
}

type ab struct {
	A int `json:"a"`
	B int `json:"b"`
}

func TestParseIgnoresExtraKeys(t *testing.T) {
	v, err := json.ParseAs[ab]([]byte(`{"a":1,"b":2,"c":3}`))
	require.NoError(t, err)
	assert.Equal(t, ab{A: 1, B: 2}, v)
}

func TestFormatSkipsIgnoredFields(t *testing.T) {
	out, err := json.Format(computer{Name: "Intel", Serial: "12345"})
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Intel"}`, string(out))
}

func TestParseReportsPosition(t *testing.T) {
	_, err := json.ParseAs[ab]([]byte(`{"a": }`))
	require.ErrorIs(t, err, jsonerr.ErrMalformedJSON)
	var je *jsonerr.Error
	require.ErrorAs(t, err, &je)
	assert.Equal(t, 6, je.Offset)
	assert.Equal(t, byte('}'), je.Char)
}

func TestToList(t *testing.T) {
	list, err := json.ToList([]byte(`[true,false,null]`))
	require.NoError(t, err)
	assert.Equal(t, []string{"true", "false", "null"}, list)
}

func TestToMap(t *testing.T) {
	m, err := json.ToMap([]byte(`{"name":"John","tags":[1, 2],"n":null}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"name": `"John"`, "tags": "[1, 2]", "n": "null"}, m)
}

func TestFormatParseRoundTrip(t *testing.T) {
	in := person{
		FirstName: "John",
		LastName:  "Smith",
		Age:       25,
		PhoneNumbers: []phoneNumber{
			{Type: "home", Number: "212 555-1234"},
			{Type: "fax", Number: "646 555-4567"},
		},
	}
	data, err := json.Format(in)
	require.NoError(t, err)

	var want person
	require.NoError(t, stdjson.Unmarshal(data, &want))
	assert.Equal(t, in, want)

	out, err := json.ParseAs[person](data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestFormatNull(t *testing.T) {
	out, err := json.Format(nil)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestFormattedFixturesAreValid(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		var p person
		require.NoError(t, jsontest.New(seed).Fill(&p))
		data, err := json.Format(p)
		require.NoError(t, err)
		assert.True(t, json.Valid(data), string(data))

		var viaGoccy person
		require.NoError(t, gojson.Unmarshal(data, &viaGoccy))
		assert.Equal(t, p, viaGoccy)
	}
}

func TestUnmarshalRequiresPointer(t *testing.T) {
	var v ab
	assert.ErrorIs(t, json.Unmarshal([]byte(`{}`), v), jsonerr.ErrInvalidTarget)
	assert.ErrorIs(t, json.Unmarshal([]byte(`{}`), nil), jsonerr.ErrInvalidTarget)
}

func TestSwappableBackends(t *testing.T) {
	t.Cleanup(func() {
		json.DefaultMarshaler()
		json.DefaultUnmarshaler()
		json.DefaultEncoder()
		json.DefaultDecoder()
	})

	data, err := json.Marshal(map[string]int{"b": 2, "a": 1})
	require.NoError(t, err)
	assert.Equal(t, `{"a":1,"b":2}`, string(data))

	var calls int
	json.SetMarshaler(func(v any) ([]byte, error) {
		calls++
		return gojson.Marshal(v)
	})
	json.SetUnmarshaler(gojson.Unmarshal)
	json.SetEncoder(func(w io.Writer) json.IEncoder { return gojson.NewEncoder(w) })
	json.SetDecoder(func(r io.Reader) json.IDecoder { return gojson.NewDecoder(r) })

	data, err = json.Marshal(computer{Name: "Intel", Serial: "1"})
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Intel"}`, string(data))
	assert.Equal(t, 1, calls)

	var c computer
	require.NoError(t, json.Unmarshal([]byte(`{"name":"AMD"}`), &c))
	assert.Equal(t, "AMD", c.Name)

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(ab{A: 1}))
	assert.Equal(t, "{\"a\":1,\"b\":0}\n", buf.String())

	var got ab
	require.NoError(t, json.NewDecoder(&buf).Decode(&got))
	assert.Equal(t, ab{A: 1}, got)

	json.SetMarshaler(nil)
	_, err = json.Marshal(1)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestSetDefault(t *testing.T) {
	t.Cleanup(func() { json.SetDefault(nil) })

	json.SetDefault(json.New(json.WithLenientLiterals(true)))
	flags, err := json.ParseAs[[]bool]([]byte(`[TRUE, false]`))
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false}, flags)

	var viaBackend []bool
	require.NoError(t, json.Unmarshal([]byte(`[False]`), &viaBackend))
	assert.Equal(t, []bool{false}, viaBackend)

	json.SetDefault(nil)
	_, err = json.ParseAs[[]bool]([]byte(`[TRUE]`))
	assert.ErrorIs(t, err, jsonerr.ErrMalformedJSON)
}

func TestRegisterConstructor(t *testing.T) {
	type limits struct {
		Max int `json:"max"`
		Min int `json:"min"`
	}
	json.Register(func() (limits, error) { return limits{Max: 100}, nil })
	v, err := json.ParseAs[limits]([]byte(`{"min":1}`))
	require.NoError(t, err)
	assert.Equal(t, limits{Max: 100, Min: 1}, v)
}

func TestIs(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{`{"name": "John", "age": 30, "city": "New York"}`, true},
		{`[{"name": "John"}, {"name": "Jane"}]`, true},
		{`{name: "John", age: 30, city: "New York"}`, true},
		{`{"name": "John", "age": 30, "city": "New York"`, false},
		{``, false},
		{`   `, false},
		{`{}`, true},
		{`{"a": "}"}`, true},
		{`[}`, false},
		{`"name": "John", "age": 30, "city": "New York"}`, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, json.Is(tt.in), tt.in)
	}
}

func TestValid(t *testing.T) {
	assert.True(t, json.Valid([]byte(`{"a":[1,2,{"b":null}]}`)))
	assert.False(t, json.Valid([]byte(`{name: "John"}`)))
	assert.False(t, json.Valid([]byte(`{"a":1`)))
}

func BenchmarkIs(b *testing.B) {
	tests := []string{
		`{"name": "John", "age": 30, "city": "New York"}`,
		`[{"name": "John"}, {"name": "Jane"}]`,
		`{name: "John", age: 30, city: "New York"}`,
		``,
		`"name": "John", "age": 30, "city": "New York"}`,
	}

	for _, test := range tests {
		b.Run(test, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				json.Is(test)
			}
		})
	}
}

func BenchmarkFormat(b *testing.B) {
	var p person
	if err := jsontest.New(1).Fill(&p); err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := json.Format(p); err != nil {
			b.Fatal(err)
		}
	}
}
