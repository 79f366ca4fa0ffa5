package internal

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
)

type formatCase struct {
	name     string
	input    string
	args     []any
	expected string
}

func runFormatCases(t *testing.T, tests []formatCase) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, mustExecute(t, tt.input, tt.args...))
		})
	}
}

func TestListFormatter(t *testing.T) {
	people := []map[string]any{{"Name": "Ann"}, {"Name": "Bo"}, {"Name": "Cy"}}

	runFormatCases(t, []formatCase{
		{name: "empty list", input: "[{0:list:{}|, | and }]", args: []any{[]string{}}, expected: "[]"},
		{name: "single item", input: "{0:list:{}|, | and }", args: []any{[]string{"a"}}, expected: "a"},
		{name: "two items", input: "{0:list:{}|, | and }", args: []any{[]string{"a", "b"}}, expected: "a and b"},
		{name: "three items", input: "{0:list:{}|, | and }", args: []any{[]string{"a", "b", "c"}}, expected: "a, b and c"},
		{name: "missing last separator", input: "{0:l:{}|-}", args: []any{[]int{1, 2, 3}}, expected: "1-2-3"},
		{name: "pair separator with two items", input: "{0:list:{}|, |, and | and }", args: []any{[]string{"a", "b"}}, expected: "a and b"},
		{name: "pair separator with three items", input: "{0:list:{}|, |, and | and }", args: []any{[]string{"a", "b", "c"}}, expected: "a, b, and c"},
		{name: "empty item segment", input: "{0:list:|+}", args: []any{[]string{"a", "b"}}, expected: "a+b"},
		{name: "item template", input: "{0:list:<{Name}>|, }", args: []any{people}, expected: "<Ann>, <Bo>, <Cy>"},
		{name: "auto-detected", input: "{0:{}|; }", args: []any{[2]string{"x", "y"}}, expected: "x; y"},
		{name: "separator with placeholder", input: "{0:list:{}| ({Count}) }", args: []any{[]string{"a", "b"}}, expected: "a (2) b"},
	})
}

func TestPluralFormatter(t *testing.T) {
	runFormatCases(t, []formatCase{
		{name: "one", input: "{0:plural:item|items}", args: []any{1}, expected: "item"},
		{name: "many", input: "{0:plural:item|items}", args: []any{5}, expected: "items"},
		{name: "zero without zero segment", input: "{0:plural:item|items}", args: []any{0}, expected: "items"},
		{name: "explicit zero", input: "{0:p:none|one item|{} items}", args: []any{0}, expected: "none"},
		{name: "explicit zero one", input: "{0:p:none|one item|{} items}", args: []any{1}, expected: "one item"},
		{name: "explicit zero other", input: "{0:p:none|one item|{} items}", args: []any{7}, expected: "7 items"},
		{name: "negative", input: "{0:p:item|items}", args: []any{-1}, expected: "item"},
		{name: "fraction", input: "{0:p:item|items}", args: []any{1.5}, expected: "items"},
		{name: "sequence length", input: "{0:p:one entry|{Count} entries}", args: []any{[]string{"a", "b"}}, expected: "2 entries"},
		{name: "russian one", input: "{0:plural(ru):товар|товара|товаров}", args: []any{21}, expected: "товар"},
		{name: "russian few", input: "{0:plural(ru):товар|товара|товаров}", args: []any{3}, expected: "товара"},
		{name: "russian many", input: "{0:plural(ru):товар|товара|товаров}", args: []any{11}, expected: "товаров"},
		{name: "single segment", input: "{0:p:x}", args: []any{3}, expected: "x"},
	})

	t.Run("rejects text", func(t *testing.T) {
		_, err := execute(t, "{0:plural:a|b}", "x")
		requireExecutorError(t, err, ErrKindFormatterMismatch)
	})

	t.Run("invalid language", func(t *testing.T) {
		_, err := execute(t, "{0:plural(!!):a|b}", 1)
		requireExecutorError(t, err, ErrKindFormatterFailed)
	})
}

func TestPluralForms(t *testing.T) {
	assert.Equal(t, []plural.Form{plural.One, plural.Other}, PluralForms(language.English))
	assert.Equal(t, []plural.Form{plural.One, plural.Few, plural.Many}, PluralForms(language.Russian))
	assert.Equal(t, []plural.Form{plural.Other}, PluralForms(language.Japanese))
}

func TestPluralOperands(t *testing.T) {
	tests := []struct {
		text string
		i    int
		v    int
		f    int
		ok   bool
	}{
		{text: "3", i: 3, ok: true},
		{text: "1.5", i: 1, v: 1, f: 5, ok: true},
		{text: "0.025", v: 3, f: 25, ok: true},
		{text: "1.00000000000000000000000001"},
		{text: "100000000000000000000000"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			i, v, f, ok := pluralOperands(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.i, i)
			assert.Equal(t, tt.v, v)
			assert.Equal(t, tt.f, f)
		})
	}

	assert.Equal(t, plural.Other, matchPlural(language.English, 1e30))
	assert.Equal(t, plural.One, matchPlural(language.English, 1))
}

func TestConditionalFormatter(t *testing.T) {
	runFormatCases(t, []formatCase{
		{name: "true", input: "{0:yes|no}", args: []any{true}, expected: "yes"},
		{name: "false", input: "{0:yes|no}", args: []any{false}, expected: "no"},
		{name: "false single segment", input: "[{0:cond:yes}]", args: []any{false}, expected: "[]"},
		{name: "number zero", input: "{0:zero|one|more}", args: []any{0}, expected: "zero"},
		{name: "number one", input: "{0:zero|one|more}", args: []any{1.9}, expected: "one"},
		{name: "number clamped", input: "{0:zero|one|more}", args: []any{12}, expected: "more"},
		{name: "negative number", input: "{0:zero|one|negative}", args: []any{-3}, expected: "negative"},
		{name: "string", input: "{0:has {}|empty}", args: []any{"x"}, expected: "has x"},
		{name: "empty string", input: "{0:has {}|empty}", args: []any{""}, expected: "empty"},
		{name: "nil", input: "{0:value|nil}", args: []any{nil}, expected: "nil"},
		{name: "duration negative", input: "{0:neg|zero|pos}", args: []any{-time.Second}, expected: "neg"},
		{name: "duration zero", input: "{0:neg|zero|pos}", args: []any{time.Duration(0)}, expected: "zero"},
		{name: "duration two segments", input: "{0:running|stopped}", args: []any{time.Minute}, expected: "running"},
		{name: "explicit on sequence", input: "{0:cond:some|none}", args: []any{[]int{}}, expected: "none"},
	})
}

func TestConditionalFormatter_Complex(t *testing.T) {
	runFormatCases(t, []formatCase{
		{name: "first branch", input: "{0:>=18?adult|>=13?teen|child}", args: []any{20}, expected: "adult"},
		{name: "second branch", input: "{0:>=18?adult|>=13?teen|child}", args: []any{15}, expected: "teen"},
		{name: "fallback", input: "{0:>=18?adult|>=13?teen|child}", args: []any{5}, expected: "child"},
		{name: "and inside", input: "{0:>=10&<=20?in|out}", args: []any{15}, expected: "in"},
		{name: "and outside", input: "{0:>=10&<=20?in|out}", args: []any{25}, expected: "out"},
		{name: "or", input: "{0:<0/>100?bad|ok}", args: []any{-1}, expected: "bad"},
		{name: "not equal", input: "{0:!=0?{} left|done}", args: []any{3}, expected: "3 left"},
		{name: "no branch matches", input: "[{0:=1?one|=2?two}]", args: []any{3}, expected: "[]"},
		{
			name:     "outer scope in branch",
			input:    "{Age:>=18?{Name} is an adult|{Name} is a minor}",
			args:     []any{map[string]any{"Age": 20, "Name": "Bo"}},
			expected: "Bo is an adult",
		},
	})

	t.Run("non-numeric value", func(t *testing.T) {
		_, err := execute(t, "{0:>=18?adult|child}", "x")
		requireExecutorError(t, err, ErrKindFormatterFailed)
	})
}

func TestConditionalFormatter_Time(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	formatter := &ConditionalFormatter{now: func() time.Time { return now }}

	assert.Equal(t, 0, formatter.index(now.Add(-48*time.Hour), 3))
	assert.Equal(t, 1, formatter.index(now.Add(time.Hour), 3))
	assert.Equal(t, 2, formatter.index(now.Add(48*time.Hour), 3))
	assert.Equal(t, 0, formatter.index(now.Add(-time.Minute), 2))
	assert.Equal(t, 1, formatter.index(now.Add(time.Minute), 2))
}

func TestEvaluateConditionChain(t *testing.T) {
	assert.True(t, evaluateConditionChain(">=1.5", 2))
	assert.False(t, evaluateConditionChain("<-1", 0))
	assert.True(t, evaluateConditionChain("=3/=4", 4))
	assert.True(t, evaluateConditionChain("!5", 4))
	assert.False(t, evaluateConditionChain(">0&<2&!1", 1))
}

func TestChooseFormatter(t *testing.T) {
	runFormatCases(t, []formatCase{
		{name: "match", input: "{0:choose(1|2|3):one|two|three|other}", args: []any{2}, expected: "two"},
		{name: "default", input: "{0:choose(1|2|3):one|two|three|other}", args: []any{7}, expected: "other"},
		{name: "bool", input: "{0:c(true|false):on|off}", args: []any{false}, expected: "off"},
		{name: "nil", input: "{0:choose(null|x):none|x}", args: []any{nil}, expected: "none"},
		{
			name:     "outer scope in choice",
			input:    "{Gender:choose(m|f):Mr {Name}|Ms {Name}}",
			args:     []any{map[string]any{"Gender": "f", "Name": "Kim"}},
			expected: "Ms Kim",
		},
	})
}

func TestSubstrFormatter(t *testing.T) {
	runFormatCases(t, []formatCase{
		{name: "from start", input: "{0:substr(1)}", args: []any{"Hello"}, expected: "ello"},
		{name: "negative start", input: "{0:substr(-3)}", args: []any{"Hello"}, expected: "llo"},
		{name: "with length", input: "{0:substr(1,2)}", args: []any{"Hello"}, expected: "el"},
		{name: "start beyond end", input: "[{0:substr(10)}]", args: []any{"Hello"}, expected: "[]"},
		{name: "length clamped", input: "{0:substr(2, 100)}", args: []any{"Hello"}, expected: "llo"},
		{name: "runes", input: "{0:substr(1,2):}", args: []any{"héllo"}, expected: "él"},
		{name: "number", input: "{0:substr(0,2)}", args: []any{12345}, expected: "12"},
	})

	t.Run("invalid options", func(t *testing.T) {
		_, err := execute(t, "{0:substr(x)}", "Hello")
		execErr := requireExecutorError(t, err, ErrKindFormatterFailed)
		var fmtErr *FormatterError
		require.True(t, errors.As(execErr, &fmtErr))
		assert.Equal(t, ErrMsgInvalidSubstrOpts, fmtErr.Message)
	})
}

func TestTemplateFormatter(t *testing.T) {
	templates := templateMap{"greet": compileDefault(t, "Hi {Name}")}
	executor := newTestExecutor(DefaultExecutorConfig(), templates)
	data := map[string]any{"User": map[string]any{"Name": "Ann"}}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "segment name", input: "{User:t:greet}", expected: "Hi Ann"},
		{name: "options name", input: "{User:template(greet)}", expected: "Hi Ann"},
		{name: "in list", input: "{0:list:{:t:greet}|, }", expected: "Hi Ann, Hi Bo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := []any{data}
			if tt.name == "in list" {
				args = []any{[]map[string]any{{"Name": "Ann"}, {"Name": "Bo"}}}
			}
			result, err := executor.Execute(compileDefault(t, tt.input), args)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}

	t.Run("unknown template", func(t *testing.T) {
		_, err := executor.Execute(compileDefault(t, "{User:t:missing}"), []any{data})
		execErr := requireExecutorError(t, err, ErrKindFormatterFailed)
		var fmtErr *FormatterError
		require.True(t, errors.As(execErr, &fmtErr))
		assert.Equal(t, ErrMsgTemplateNotFound, fmtErr.Message)
	})

	t.Run("missing name", func(t *testing.T) {
		_, err := executor.Execute(compileDefault(t, "{User:t:}"), []any{data})
		requireExecutorError(t, err, ErrKindFormatterFailed)
	})
}

func TestDefaultFormatter(t *testing.T) {
	runFormatCases(t, []formatCase{
		{name: "string", input: "{0}", args: []any{"x"}, expected: "x"},
		{name: "nil", input: "[{0}]", args: []any{nil}, expected: "[]"},
		{name: "float", input: "{0}", args: []any{2.50}, expected: "2.5"},
		{name: "fmt verb", input: "{0:%05d}", args: []any{42}, expected: "00042"},
		{name: "float verb", input: "{0:%.2f}", args: []any{3.14159}, expected: "3.14"},
		{name: "empty format", input: "{0:}", args: []any{7}, expected: "7"},
		{name: "nested template", input: "{0:<{}>}", args: []any{"v"}, expected: "<v>"},
		{name: "explicit name", input: "{0:d:{} units}", args: []any{3}, expected: "3 units"},
		{name: "byte slice", input: "{0}", args: []any{[]byte("raw")}, expected: "raw"},
		{name: "plain text format keeps value", input: "{0:N2}", args: []any{3.5}, expected: "3.5"},
		{name: "plain text format on string", input: "{0:yyyy}", args: []any{"2024"}, expected: "2024"},
		{name: "plain text format with alignment", input: "[{0,5:N2}]", args: []any{3.5}, expected: "[  3.5]"},
		{name: "explicit plain segments keep value", input: "{0:d:a|b}", args: []any{"v"}, expected: "v"},
		{name: "explicit mixed segments", input: "{0:d:a|<{}>}", args: []any{"v"}, expected: "a|<v>"},
	})
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "", Stringify(nil))
	assert.Equal(t, "12", Stringify(12))
	assert.Equal(t, "-4", Stringify(int64(-4)))
	assert.Equal(t, "true", Stringify(true))
	assert.Equal(t, "1.25", Stringify(1.25))
	assert.Equal(t, "1s", Stringify(time.Second))
	assert.Equal(t, "boom", Stringify(errors.New("boom")))
	assert.Equal(t, "[1 2]", Stringify([]int{1, 2}))
}
