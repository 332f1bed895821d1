package tools

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestAnalyzeCSV(t *testing.T) {
	path := writeTempFile(t, "people.csv",
		"name,age,salary\nalice,30,50000\nbob,25,45000\ncarol,35,60000\n")

	analysis, err := AnalyzeCSV(map[string]interface{}{"file_path": path})
	require.NoError(t, err)

	assert.Equal(t, 3, analysis.TotalRows)
	assert.Equal(t, 3, analysis.TotalColumns)
	assert.Equal(t, []string{"name", "age", "salary"}, analysis.ColumnNames)
	assert.Equal(t, "string", analysis.DataTypes["name"])
	assert.Equal(t, "number", analysis.DataTypes["age"])
	assert.Equal(t, "number", analysis.DataTypes["salary"])

	age := analysis.NumericStatistics["age"]
	assert.InDelta(t, 30, age.Mean, 1e-9)
	assert.InDelta(t, 30, age.Median, 1e-9)
	assert.InDelta(t, 5, age.Std, 1e-9)
	assert.InDelta(t, 25, age.Min, 1e-9)
	assert.InDelta(t, 35, age.Max, 1e-9)
	assert.Equal(t, 3, age.UniqueCount)

	names := analysis.CategoricalStats["name"]
	assert.Equal(t, 3, names.UniqueCount)
	assert.Equal(t, map[string]int{"alice": 1, "bob": 1, "carol": 1}, names.MostCommon)

	require.Len(t, analysis.SampleData, 3)
	assert.Equal(t, "alice", analysis.SampleData[0]["name"])

	for _, col := range analysis.ColumnNames {
		assert.Equal(t, 0, analysis.MissingValues[col].Count)
	}
}

func TestAnalyzeCSVMissingValues(t *testing.T) {
	path := writeTempFile(t, "gaps.csv",
		"id,score\n1,10\n2,\n3,30\n4,\n")

	analysis, err := AnalyzeCSV(map[string]interface{}{"file_path": path})
	require.NoError(t, err)

	score := analysis.MissingValues["score"]
	assert.Equal(t, 2, score.Count)
	assert.InDelta(t, 50, score.Percentage, 1e-9)

	// Missing cells do not demote the column to string.
	assert.Equal(t, "number", analysis.DataTypes["score"])
}

func TestAnalyzeCSVOptions(t *testing.T) {
	path := writeTempFile(t, "semi.csv",
		"a;b\n1;2\n3;4\n5;6\n")

	analysis, err := AnalyzeCSV(map[string]interface{}{
		"file_path": path,
		"delimiter": ";",
		"max_rows":  2,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, analysis.TotalRows)
	assert.Equal(t, []string{"a", "b"}, analysis.ColumnNames)
}

func TestAnalyzeCSVErrors(t *testing.T) {
	_, err := AnalyzeCSV(map[string]interface{}{
		"file_path": filepath.Join(t.TempDir(), "missing.csv"),
	})
	require.Error(t, err)
	assert.Equal(t, CodeNotFound, CodeOf(err))

	path := writeTempFile(t, "empty.csv", "")
	_, err = AnalyzeCSV(map[string]interface{}{"file_path": path})
	require.Error(t, err)
	assert.Equal(t, CodeMalformedInput, CodeOf(err))
}

const sampleJSON = `{
	"metadata": {"total": 2, "_internal": "hidden"},
	"users": [
		{"name": "alice", "age": 30},
		{"name": "bob", "age": 25}
	]
}`

func TestProcessJSONAnalyze(t *testing.T) {
	path := writeTempFile(t, "data.json", sampleJSON)

	result, err := ProcessJSON(map[string]interface{}{"file_path": path})
	require.NoError(t, err)

	assert.Equal(t, "analyze", result["operation"])
	assert.Equal(t, "object", result["root_type"])
	assert.Equal(t, true, result["is_valid"])

	structure, ok := result["structure"].(*JSONNode)
	require.True(t, ok)
	assert.Equal(t, "object", structure.Type)
	assert.Equal(t, []string{"metadata", "users"}, structure.Keys)

	users := structure.Children["users"]
	require.NotNil(t, users)
	assert.Equal(t, "array", users.Type)
	require.NotNil(t, users.Length)
	assert.Equal(t, 2, *users.Length)
	assert.Equal(t, []string{"object"}, users.ElementTypes)
	require.NotNil(t, users.SampleElement)
	assert.Equal(t, "root.users[0]", users.SampleElement.Path)
}

func TestProcessJSONAnalyzeTruncatesLongStrings(t *testing.T) {
	// The é at the truncation point spans two bytes; the preview must end
	// on a rune boundary, not in the middle of it.
	long := strings.Repeat("x", 99) + "é" + strings.Repeat("y", 50)
	doc, err := json.Marshal(map[string]string{"note": long})
	require.NoError(t, err)
	path := writeTempFile(t, "long.json", string(doc))

	result, err := ProcessJSON(map[string]interface{}{"file_path": path})
	require.NoError(t, err)

	structure, ok := result["structure"].(*JSONNode)
	require.True(t, ok)
	note := structure.Children["note"]
	require.NotNil(t, note)

	preview, ok := note.Value.(string)
	require.True(t, ok)
	assert.True(t, utf8.ValidString(preview))
	assert.Equal(t, strings.Repeat("x", 99)+"...", preview)
}

func TestProcessJSONExtract(t *testing.T) {
	path := writeTempFile(t, "data.json", sampleJSON)

	tests := []struct {
		name     string
		jsonPath string
		want     interface{}
		wantCode Code
	}{
		{name: "object key", jsonPath: "metadata.total", want: 2.0},
		{name: "array index", jsonPath: "users.1.name", want: "bob"},
		{name: "missing key", jsonPath: "metadata.nope", wantCode: CodePathNotFound},
		{name: "non numeric index", jsonPath: "users.first", wantCode: CodeInvalidPathSegment},
		{name: "index out of range", jsonPath: "users.5", wantCode: CodeIndexOutOfRange},
		{name: "descend into scalar", jsonPath: "metadata.total.x", wantCode: CodeInvalidPathSegment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ProcessJSON(map[string]interface{}{
				"file_path": path,
				"operation": "extract",
				"json_path": tt.jsonPath,
			})
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, result["extracted_data"])
		})
	}
}

func TestProcessJSONExtractRequiresPath(t *testing.T) {
	path := writeTempFile(t, "data.json", sampleJSON)

	_, err := ProcessJSON(map[string]interface{}{
		"file_path": path,
		"operation": "extract",
	})
	require.Error(t, err)
	assert.Equal(t, CodeInvalidArgument, CodeOf(err))
}

func TestProcessJSONTransform(t *testing.T) {
	t.Run("array truncation", func(t *testing.T) {
		path := writeTempFile(t, "list.json", `[1,2,3,4,5,6,7,8,9,10,11,12]`)

		result, err := ProcessJSON(map[string]interface{}{
			"file_path": path,
			"operation": "transform",
		})
		require.NoError(t, err)
		assert.Equal(t, "truncate_to_10", result["transformation"])
		assert.Equal(t, 12, result["original_length"])
		assert.Len(t, result["transformed_data"], 10)
	})

	t.Run("private key removal", func(t *testing.T) {
		path := writeTempFile(t, "obj.json", `{"name": "x", "_secret": "y", "count": 3}`)

		result, err := ProcessJSON(map[string]interface{}{
			"file_path": path,
			"operation": "transform",
		})
		require.NoError(t, err)
		assert.Equal(t, "remove_private_keys", result["transformation"])
		assert.Equal(t, []string{"_secret", "count", "name"}, result["original_keys"])

		transformed, ok := result["transformed_data"].(map[string]interface{})
		require.True(t, ok)
		assert.NotContains(t, transformed, "_secret")
		assert.Contains(t, transformed, "name")
		assert.Contains(t, transformed, "count")
	})
}

func TestProcessJSONErrors(t *testing.T) {
	_, err := ProcessJSON(map[string]interface{}{
		"file_path": filepath.Join(t.TempDir(), "missing.json"),
	})
	require.Error(t, err)
	assert.Equal(t, CodeNotFound, CodeOf(err))

	path := writeTempFile(t, "bad.json", `{"unterminated": `)
	_, err = ProcessJSON(map[string]interface{}{"file_path": path})
	require.Error(t, err)
	assert.Equal(t, CodeInvalidJSON, CodeOf(err))

	good := writeTempFile(t, "good.json", `{}`)
	_, err = ProcessJSON(map[string]interface{}{
		"file_path": good,
		"operation": "rotate",
	})
	require.Error(t, err)
	assert.Equal(t, CodeInvalidArgument, CodeOf(err))
}
