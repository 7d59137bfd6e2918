/*
SPDX-FileCopyrightText: 2025 Deutsche Telekom AG

SPDX-License-Identifier: Apache-2.0
*/

package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestFormatConstants(t *testing.T) {
	assert.Equal(t, Format("text"), FormatText)
	assert.Equal(t, Format("wide"), FormatWide)
	assert.Equal(t, Format("json"), FormatJSON)
	assert.Equal(t, Format("yaml"), FormatYAML)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: FormatText},
		{in: "text", want: FormatText},
		{in: "wide", want: FormatWide},
		{in: "json", want: FormatJSON},
		{in: "yaml", want: FormatYAML},
		{in: "table", wantErr: true},
		{in: "JSON", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unknown output format")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteObject_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, WriteObject(buf, FormatJSON, map[string]int{"count": 2}))

	var result map[string]int
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, 2, result["count"])
}

func TestWriteObject_YAML(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, WriteObject(buf, FormatYAML, struct{ Name string }{"alarm"}))

	var result map[string]string
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, "alarm", result["name"])
}

func TestWriteObject_Errors(t *testing.T) {
	for _, f := range []Format{FormatText, FormatWide} {
		err := WriteObject(&bytes.Buffer{}, f, "x")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "requires a specific formatter")
	}

	err := WriteObject(&bytes.Buffer{}, Format("xml"), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestWriteObject_JSONMarshalError(t *testing.T) {
	err := WriteObject(&bytes.Buffer{}, FormatJSON, make(chan int))
	assert.Error(t, err)
}
