package internal

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
)

// pluralFormOrder is the order segments map to plural categories
var pluralFormOrder = []plural.Form{
	plural.Zero, plural.One, plural.Two, plural.Few, plural.Many, plural.Other,
}

// pluralSamples are the integers sampled to find a language's categories
var pluralSamples = []int{1000, 10000, 100000, 1000000}

// pluralSampleRange covers the small integers every CLDR rule distinguishes
const pluralSampleRange = 200

// PluralFormatter picks a segment by the CLDR cardinal plural category of a
// number or of a sequence length. Segments follow the category order zero,
// one, two, few, many, other, restricted to the categories the language
// uses for integers. One extra leading segment acts as an explicit zero.
type PluralFormatter struct {
	language language.Tag
	forms    []plural.Form
}

// NewPluralFormatter creates a plural formatter for the default language
func NewPluralFormatter(tag language.Tag) *PluralFormatter {
	return &PluralFormatter{language: tag, forms: PluralForms(tag)}
}

// PluralForms returns the integer plural categories of a language in segment order
func PluralForms(tag language.Tag) []plural.Form {
	seen := make(map[plural.Form]bool)
	for i := 0; i < pluralSampleRange; i++ {
		seen[plural.Cardinal.MatchPlural(tag, i, 0, 0, 0, 0)] = true
	}
	for _, n := range pluralSamples {
		seen[plural.Cardinal.MatchPlural(tag, n, 0, 0, 0, 0)] = true
	}

	forms := make([]plural.Form, 0, len(pluralFormOrder))
	for _, form := range pluralFormOrder {
		if seen[form] {
			forms = append(forms, form)
		}
	}
	return forms
}

// Name returns the formatter name
func (f *PluralFormatter) Name() string {
	return FormatterNamePlural
}

// Aliases returns the formatter aliases
func (f *PluralFormatter) Aliases() []string {
	return []string{FormatterAliasPlural}
}

// Accepts numbers and sequences when named
func (f *PluralFormatter) Accepts(call *FormatCall) bool {
	if !call.Explicit() || call.SegmentCount() == 0 {
		return false
	}
	return isNumber(call.Value()) || IsSequence(call.Value())
}

// Render renders the segment for the value's plural category
func (f *PluralFormatter) Render(call *FormatCall) (string, error) {
	forms := f.forms
	tag := f.language
	if options := strings.TrimSpace(call.Options()); options != StringValueEmpty {
		parsed, err := language.Parse(options)
		if err != nil {
			return StringValueEmpty, NewFormatterError(ErrMsgInvalidLanguage, FormatterNamePlural, options)
		}
		tag = parsed
		forms = PluralForms(tag)
	}

	number, ok := pluralNumber(call.Value())
	if !ok {
		return StringValueEmpty, NewFormatterError(ErrMsgNotCountable, FormatterNamePlural, Stringify(call.Value()))
	}

	count := call.SegmentCount()
	offset := 0
	if count == len(forms)+1 {
		if number == 0 {
			return call.Recurse(0, call.Value())
		}
		offset = 1
	}

	form := matchPlural(tag, number)
	index := len(forms) - 1
	for i, candidate := range forms {
		if candidate == form {
			index = i
			break
		}
	}
	index += offset
	if index >= count {
		index = count - 1
	}
	return call.Recurse(index, call.Value())
}

// pluralNumber returns the absolute count represented by value
func pluralNumber(value any) (float64, bool) {
	if IsSequence(value) {
		return float64(len(SequenceElements(value))), true
	}
	number, ok := toFloat(value)
	if !ok || math.IsNaN(number) || math.IsInf(number, 0) {
		return 0, false
	}
	return math.Abs(number), true
}

// matchPlural computes the CLDR operands of number and matches its category
func matchPlural(tag language.Tag, number float64) plural.Form {
	i, v, f, ok := pluralOperands(strconv.FormatFloat(number, 'f', -1, 64))
	if !ok {
		// beyond int range every rule falls through to other
		return plural.Other
	}
	return plural.Cardinal.MatchPlural(tag, i, v, v, f, f)
}

// pluralOperands splits decimal text into the integer part, the count of
// visible fraction digits and the fraction digits as an integer
func pluralOperands(text string) (i, v, f int, ok bool) {
	integer, fraction, _ := strings.Cut(text, ".")

	i, err := strconv.Atoi(integer)
	if err != nil {
		return 0, 0, 0, false
	}
	v = len(fraction)
	if v > 0 {
		if f, err = strconv.Atoi(fraction); err != nil {
			return 0, 0, 0, false
		}
	}
	return i, v, f, true
}
