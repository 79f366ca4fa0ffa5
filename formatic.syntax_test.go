package formatic

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_Syntax(t *testing.T) {
	s := DefaultSettings()
	s.MaxRecursionDepth = 3
	s.Language = "ru"

	x := s.Syntax()
	x.EscapeChar = '~'
	x.PlaceholderOpen, x.PlaceholderClose = '<', '>'

	applied := s.WithSyntax(x)
	assert.Equal(t, '~', applied.EscapeChar)
	assert.Equal(t, '<', applied.PlaceholderOpen)
	assert.Equal(t, 3, applied.MaxRecursionDepth)
	assert.Equal(t, "ru", applied.Language)
	assert.Equal(t, x, applied.Syntax())
	require.NoError(t, x.Validate())
}

func TestSyntax_Validate(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(x *Syntax)
		expectedMsg string
	}{
		{name: "zero delimiter", modify: func(x *Syntax) { x.SegmentDelimiter = 0 }, expectedMsg: ErrMsgInvalidDelimiter},
		{name: "shared delimiter", modify: func(x *Syntax) { x.PlaceholderClose = x.PlaceholderOpen }, expectedMsg: ErrMsgInvalidDelimiter},
		{name: "escape is a delimiter", modify: func(x *Syntax) { x.EscapeChar = x.FormatterDelimiter }, expectedMsg: ErrMsgInvalidEscapeChar},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := DefaultSettings().Syntax()
			tt.modify(&x)
			err := x.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedMsg)
		})
	}
}

func TestSyntax_JSON(t *testing.T) {
	t.Run("characters are written as strings", func(t *testing.T) {
		x := DefaultSettings().Syntax()
		x.ConvertLiterals = true
		x.PlaceholderOpen, x.PlaceholderClose = '«', '»'

		data, err := json.Marshal(x)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"placeholder_open":"«"`)
		assert.Contains(t, string(data), `"convert_literals":true`)

		var decoded Syntax
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, x, decoded)
	})

	t.Run("inside a stored template", func(t *testing.T) {
		x := DefaultSettings().Syntax()
		data, err := json.Marshal(StoredTemplate{Name: "a", Source: "{0}", Syntax: &x})
		require.NoError(t, err)

		var decoded StoredTemplate
		require.NoError(t, json.Unmarshal(data, &decoded))
		require.NotNil(t, decoded.Syntax)
		assert.Equal(t, x, *decoded.Syntax)

		data, err = json.Marshal(StoredTemplate{Name: "b"})
		require.NoError(t, err)
		assert.NotContains(t, string(data), `"syntax"`)
	})

	t.Run("rejects invalid documents", func(t *testing.T) {
		tests := []struct {
			name        string
			document    string
			expectedMsg string
		}{
			{
				name:        "multi character delimiter",
				document:    `{"escape_char":"\\","placeholder_open":"{{","placeholder_close":"}","segment_delimiter":"|","formatter_delimiter":":","alignment_delimiter":","}`,
				expectedMsg: ErrMsgInvalidCharSetting,
			},
			{
				name:        "missing delimiter",
				document:    `{"escape_char":"\\","placeholder_open":"{","placeholder_close":"}"}`,
				expectedMsg: ErrMsgInvalidCharSetting,
			},
			{
				name:        "duplicate delimiter",
				document:    `{"escape_char":"\\","placeholder_open":"{","placeholder_close":"{","segment_delimiter":"|","formatter_delimiter":":","alignment_delimiter":","}`,
				expectedMsg: ErrMsgInvalidDelimiter,
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				var x Syntax
				err := json.Unmarshal([]byte(tt.document), &x)
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedMsg)
			})
		}
	})
}
