package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oarkflow/jsonbind/jsonerr"
)

func TestToList(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"strings", `["Audi","Ford","Bayerische Motoren Werke \"BMW\""]`,
			[]string{`"Audi"`, `"Ford"`, `"Bayerische Motoren Werke \"BMW\""`}},
		{"strings with whitespace", " [\"Audi\" \n,\"Ford\"\t,  \"Bayerische Motoren Werke \\\"BMW\\\"\"  ] ",
			[]string{`"Audi"`, `"Ford"`, `"Bayerische Motoren Werke \"BMW\""`}},
		{"numbers", `[100,-12345,0]`, []string{"100", "-12345", "0"}},
		{"numbers with whitespace", "\n[\r\n100\t    ,-12345\t\t,0  ]", []string{"100", "-12345", "0"}},
		{"exponents", `[1e10,-2.5E-3,3.25]`, []string{"1e10", "-2.5E-3", "3.25"}},
		{"arrays", `[[1,2,3],[4,5],[-7,12,200,400]]`, []string{"[1,2,3]", "[4,5]", "[-7,12,200,400]"}},
		{"arrays with whitespace", "[\n\n[1,2,3]\r\n  ,[4,5 ]  ,[-7  ,12,200,\t\t400] ] ",
			[]string{"[1,2,3]", "[4,5 ]", "[-7  ,12,200,\t\t400]"}},
		{"objects", `[{"age":35},{"age":44},{"age":67}]`, []string{`{"age":35}`, `{"age":44}`, `{"age":67}`}},
		{"literals", `[true,false,null]`, []string{"true", "false", "null"}},
		{"nulls", `[null,null,null]`, []string{"null", "null", "null"}},
		{"empty", `[]`, []string{}},
		{"empty with whitespace", " [ \t ] \n", []string{}},
		{"brackets inside strings", `[["]"],{"k":"}"}]`, []string{`["]"]`, `{"k":"}"}`}},
		{"deep nesting", `[[[1],[2]],[[3]]]`, []string{"[[1],[2]]", "[[3]]"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToList(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToMap(t *testing.T) {
	got, err := ToMap(`{"firstName" : "John", "isAlive": true,"age":27, "phones": [[123], [456]] , "spouse": null}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"firstName": `"John"`,
		"isAlive":   "true",
		"age":       "27",
		"phones":    "[[123], [456]]",
		"spouse":    "null",
	}, got)
}

func TestToMapEscapedKeyAndDuplicates(t *testing.T) {
	got, err := ToMap(`{"a\"b":1,"x":1,"x":2}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{`a"b`: "1", "x": "2"}, got)
}

func TestScanOffsets(t *testing.T) {
	members, err := Scan(`{"a": 10, "b" :"x"}`, Object)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, Member{Key: "a", Value: "10", Offset: 6}, members[0])
	assert.Equal(t, Member{Key: "b", Value: `"x"`, Offset: 15}, members[1])
}

func TestWhitespaceInsensitive(t *testing.T) {
	compact, err := ToList(`[1,2,3]`)
	require.NoError(t, err)
	spaced, err := ToList("[ 1 , 2 ,\n3 ]")
	require.NoError(t, err)
	assert.Equal(t, compact, spaced)

	obj, err := ToMap(`{"a":[1,2],"b":{"c":true}}`)
	require.NoError(t, err)
	objSpaced, err := ToMap(" { \"a\" : [1,2] ,\t\"b\" :{\"c\":true} } ")
	require.NoError(t, err)
	assert.Equal(t, obj, objSpaced)
}

func TestNestedOpacity(t *testing.T) {
	got, err := ToList(`[ [1,2,3] , [4,5 ] ]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"[1,2,3]", "[4,5 ]"}, got)
}

func TestScanErrors(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		c      Container
		kind   error
		offset int
		char   byte
	}{
		{"missing value", `{"a": }`, Object, jsonerr.ErrMalformedJSON, 6, '}'},
		{"wrong container", `[1]`, Object, jsonerr.ErrMalformedJSON, 0, '['},
		{"scalar input", `  42`, Array, jsonerr.ErrMalformedJSON, 2, '4'},
		{"unclosed array", `[1,2`, Array, jsonerr.ErrUnexpectedEnd, 4, 0},
		{"unclosed nested", `{"a":[1,2}`, Object, jsonerr.ErrUnexpectedEnd, 10, 0},
		{"unclosed string", `["abc`, Array, jsonerr.ErrUnexpectedEnd, 5, 0},
		{"empty input", ``, Array, jsonerr.ErrUnexpectedEnd, 0, 0},
		{"trailing comma array", `[1,]`, Array, jsonerr.ErrMalformedJSON, 3, ']'},
		{"trailing comma object", `{"a":1,}`, Object, jsonerr.ErrMalformedJSON, 7, '}'},
		{"missing colon", `{"a" 1}`, Object, jsonerr.ErrMalformedJSON, 5, '1'},
		{"unquoted key", `{a:1}`, Object, jsonerr.ErrMalformedJSON, 1, 'a'},
		{"trailing garbage", `[1] x`, Array, jsonerr.ErrMalformedJSON, 4, 'x'},
		{"upper case literal", `[TRUE]`, Array, jsonerr.ErrMalformedJSON, 1, 'T'},
		{"mixed case literal", `[nUll]`, Array, jsonerr.ErrMalformedJSON, 2, 'U'},
		{"truncated literal", `[tru`, Array, jsonerr.ErrUnexpectedEnd, 4, 0},
		{"bad number byte", `[12x]`, Array, jsonerr.ErrMalformedJSON, 3, 'x'},
		{"missing separator", `["a" "b"]`, Array, jsonerr.ErrMalformedJSON, 5, '"'},
		{"bad key escape", `{"a\q":1}`, Object, jsonerr.ErrMalformedJSON, 4, 'q'},
		{"short key unicode escape", `{"\u12":1}`, Object, jsonerr.ErrMalformedJSON, 3, 'u'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Scan(tt.in, tt.c)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
			var je *jsonerr.Error
			require.ErrorAs(t, err, &je)
			assert.Equal(t, tt.offset, je.Offset)
			assert.Equal(t, tt.char, je.Char)
			assert.NotErrorIs(t, err, jsonerr.ErrFormat)
		})
	}
}

func TestLenientLiterals(t *testing.T) {
	s := Scanner{Lenient: true}
	members, err := s.Scan(`[TRUE, False, Null]`, Array)
	require.NoError(t, err)
	require.Len(t, members, 3)
	assert.Equal(t, "TRUE", members[0].Value)
	assert.Equal(t, "False", members[1].Value)
	assert.Equal(t, "Null", members[2].Value)

	_, err = s.Scan(`[Trux]`, Array)
	assert.ErrorIs(t, err, jsonerr.ErrMalformedJSON)
}

func BenchmarkScanObject(b *testing.B) {
	text := `{"firstName": "Elon", "lastName": "Musk","age":48, "single": true, "balance": 800.500}`
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Scan(text, Object); err != nil {
			b.Fatal(err)
		}
	}
}
