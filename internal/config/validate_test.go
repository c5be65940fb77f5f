package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateJSONSyntaxFromBytes(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		content  string
		wantErr  bool
		wantLine int
	}{
		"empty file":   {content: ""},
		"whitespace":   {content: "  \n"},
		"valid object": {content: `{"feature_file": "x.json"}`},
		"syntax error on line 3": {
			content:  "{\n  \"a\": 1,\n  \"b\": }\n",
			wantErr:  true,
			wantLine: 3,
		},
		"array": {content: `[]`, wantErr: true},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join("project", "config.json")

			err := ValidateJSONSyntaxFromBytes([]byte(tc.content), path)
			if !tc.wantErr {
				assert.NoError(t, err)
				return
			}

			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, path, vErr.FilePath)
			assert.Equal(t, tc.wantLine, vErr.Line)
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	t.Parallel()

	withLine := &ValidationError{FilePath: "c.json", Line: 2, Column: 5, Message: "bad"}
	assert.Equal(t, "c.json:2:5: bad", withLine.Error())

	noLine := &ValidationError{FilePath: "c.json", Message: "bad"}
	assert.Equal(t, "c.json: bad", noLine.Error())
}
