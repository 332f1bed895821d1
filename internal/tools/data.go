package tools

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const scalarPreviewLimit = 100

// MissingValues summarizes the empty cells of one CSV column.
type MissingValues struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// NumericStats holds the statistics of a numeric CSV column.
type NumericStats struct {
	Mean        float64 `json:"mean"`
	Median      float64 `json:"median"`
	Std         float64 `json:"std"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Q25         float64 `json:"q25"`
	Q75         float64 `json:"q75"`
	UniqueCount int     `json:"unique_count"`
}

// CategoricalStats holds the frequencies of a non-numeric CSV column.
type CategoricalStats struct {
	UniqueCount  int            `json:"unique_count"`
	MostCommon   map[string]int `json:"most_common"`
	SampleValues []string       `json:"sample_values"`
}

// CSVAnalysis is the outcome of analyze_csv.
type CSVAnalysis struct {
	FilePath          string                      `json:"file_path"`
	TotalRows         int                         `json:"total_rows"`
	TotalColumns      int                         `json:"total_columns"`
	ColumnNames       []string                    `json:"column_names"`
	DataTypes         map[string]string           `json:"data_types"`
	MissingValues     map[string]MissingValues    `json:"missing_values"`
	NumericStatistics map[string]NumericStats     `json:"numeric_statistics"`
	CategoricalStats  map[string]CategoricalStats `json:"categorical_statistics"`
	SampleData        []map[string]string         `json:"sample_data"`
	AnalysisTimestamp time.Time                   `json:"analysis_timestamp"`
}

// AnalyzeCSV parses up to max_rows records and summarizes each column:
// inferred type, missing-value rate, numeric statistics or categorical
// frequencies.
func AnalyzeCSV(args map[string]interface{}) (*CSVAnalysis, error) {
	filePath, err := requireStringArg(args, "file_path")
	if err != nil {
		return nil, err
	}
	delimiter, err := stringArg(args, "delimiter", ",")
	if err != nil {
		return nil, err
	}
	maxRows, err := intArg(args, "max_rows", 1000)
	if err != nil {
		return nil, err
	}
	if delimiter == "" {
		delimiter = ","
	}

	f, err := os.Open(filePath)
	if os.IsNotExist(err) {
		return nil, Errorf(CodeNotFound, "file not found: %s", filePath)
	}
	if err != nil {
		return nil, Errorf(CodeNotFound, "cannot open file: %v", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = []rune(delimiter)[0]

	header, err := reader.Read()
	if err != nil {
		return nil, Errorf(CodeMalformedInput, "error reading CSV: %v", err)
	}

	var rows [][]string
	for len(rows) < maxRows {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, Errorf(CodeMalformedInput, "error reading CSV: %v", err)
		}
		rows = append(rows, record)
	}

	analysis := &CSVAnalysis{
		FilePath:          filePath,
		TotalRows:         len(rows),
		TotalColumns:      len(header),
		ColumnNames:       header,
		DataTypes:         map[string]string{},
		MissingValues:     map[string]MissingValues{},
		NumericStatistics: map[string]NumericStats{},
		CategoricalStats:  map[string]CategoricalStats{},
		SampleData:        []map[string]string{},
		AnalysisTimestamp: time.Now(),
	}

	for i, row := range rows {
		if i >= 5 {
			break
		}
		sample := map[string]string{}
		for j, col := range header {
			sample[col] = row[j]
		}
		analysis.SampleData = append(analysis.SampleData, sample)
	}

	for col, name := range header {
		values := make([]string, 0, len(rows))
		missing := 0
		for _, row := range rows {
			if row[col] == "" {
				missing++
				continue
			}
			values = append(values, row[col])
		}

		pct := 0.0
		if len(rows) > 0 {
			pct = float64(missing) / float64(len(rows)) * 100
		}
		analysis.MissingValues[name] = MissingValues{Count: missing, Percentage: pct}

		numbers, numeric := parseNumbers(values)
		if numeric {
			analysis.DataTypes[name] = "number"
			analysis.NumericStatistics[name] = summarizeNumbers(numbers)
		} else {
			analysis.DataTypes[name] = "string"
			if len(values) > 0 {
				analysis.CategoricalStats[name] = summarizeCategories(values)
			}
		}
	}

	return analysis, nil
}

// parseNumbers reports whether every non-missing value parses as a float.
func parseNumbers(values []string) ([]float64, bool) {
	if len(values) == 0 {
		return nil, false
	}
	numbers := make([]float64, 0, len(values))
	for _, v := range values {
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, false
		}
		numbers = append(numbers, n)
	}
	return numbers, true
}

func summarizeNumbers(values []float64) NumericStats {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	unique := map[float64]bool{}
	for _, v := range values {
		unique[v] = true
	}

	return NumericStats{
		Mean:        mean(values),
		Median:      quantile(sorted, 0.5),
		Std:         sampleStdDev(values),
		Min:         sorted[0],
		Max:         sorted[len(sorted)-1],
		Q25:         quantile(sorted, 0.25),
		Q75:         quantile(sorted, 0.75),
		UniqueCount: len(unique),
	}
}

func summarizeCategories(values []string) CategoricalStats {
	counts := map[string]int{}
	for _, v := range values {
		counts[v]++
	}

	type freq struct {
		value string
		count int
	}
	ordered := make([]freq, 0, len(counts))
	for v, c := range counts {
		ordered = append(ordered, freq{v, c})
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].count != ordered[j].count {
			return ordered[i].count > ordered[j].count
		}
		return ordered[i].value < ordered[j].value
	})

	mostCommon := map[string]int{}
	for i, f := range ordered {
		if i >= 10 {
			break
		}
		mostCommon[f.value] = f.count
	}

	samples := values
	if len(samples) > 5 {
		samples = samples[:5]
	}

	return CategoricalStats{
		UniqueCount:  len(counts),
		MostCommon:   mostCommon,
		SampleValues: append([]string(nil), samples...),
	}
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStdDev is the n-1 denominator standard deviation; zero for a single
// observation.
func sampleStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		sum += (v - m) * (v - m)
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

// quantile linearly interpolates over a sorted slice.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// JSONNode describes one position in a recursively analyzed JSON document.
type JSONNode struct {
	Type          string               `json:"type"`
	Path          string               `json:"path"`
	Keys          []string             `json:"keys,omitempty"`
	KeyCount      int                  `json:"key_count,omitempty"`
	Children      map[string]*JSONNode `json:"children,omitempty"`
	Length        *int                 `json:"length,omitempty"`
	ElementTypes  []string             `json:"element_types,omitempty"`
	SampleElement *JSONNode            `json:"sample_element,omitempty"`
	Value         interface{}          `json:"value,omitempty"`
}

// ProcessJSON parses a JSON file and runs one of three operations: analyze
// (structure walk), extract (dot-path lookup), or transform (fixed
// truncate/strip rules).
func ProcessJSON(args map[string]interface{}) (map[string]interface{}, error) {
	filePath, err := requireStringArg(args, "file_path")
	if err != nil {
		return nil, err
	}
	operation, err := stringArg(args, "operation", "analyze")
	if err != nil {
		return nil, err
	}
	jsonPath, err := stringArg(args, "json_path", "")
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return nil, Errorf(CodeNotFound, "file not found: %s", filePath)
	}
	if err != nil {
		return nil, Errorf(CodeNotFound, "cannot access file: %v", err)
	}

	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, Errorf(CodeNotFound, "cannot read file: %v", err)
	}

	var data interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, Errorf(CodeInvalidJSON, "invalid JSON: %v", err)
	}

	result := map[string]interface{}{
		"file_path":            filePath,
		"operation":            operation,
		"file_size":            info.Size(),
		"processing_timestamp": time.Now(),
	}

	switch operation {
	case "analyze":
		result["structure"] = analyzeStructure(data, "root")
		result["root_type"] = jsonTypeName(data)
		result["is_valid"] = true

	case "extract":
		if jsonPath == "" {
			return nil, Errorf(CodeInvalidArgument, "json_path is required for extract")
		}
		extracted, err := extractByPath(data, strings.Split(jsonPath, "."))
		if err != nil {
			return nil, err
		}
		result["json_path"] = jsonPath
		result["extracted_data"] = extracted
		result["extracted_type"] = jsonTypeName(extracted)

	case "transform":
		switch v := data.(type) {
		case []interface{}:
			transformed := v
			if len(transformed) > 10 {
				transformed = transformed[:10]
			}
			result["original_length"] = len(v)
			result["transformed_data"] = transformed
			result["transformation"] = "truncate_to_10"
		case map[string]interface{}:
			keys := make([]string, 0, len(v))
			transformed := map[string]interface{}{}
			for k, val := range v {
				keys = append(keys, k)
				if !strings.HasPrefix(k, "_") {
					transformed[k] = val
				}
			}
			sort.Strings(keys)
			result["original_keys"] = keys
			result["transformed_data"] = transformed
			result["transformation"] = "remove_private_keys"
		}

	default:
		return nil, Errorf(CodeInvalidArgument, "unknown operation: %s", operation)
	}

	return result, nil
}

func analyzeStructure(obj interface{}, path string) *JSONNode {
	switch v := obj.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		children := make(map[string]*JSONNode, len(v))
		for _, k := range keys {
			children[k] = analyzeStructure(v[k], path+"."+k)
		}
		return &JSONNode{
			Type:     "object",
			Path:     path,
			Keys:     keys,
			KeyCount: len(v),
			Children: children,
		}
	case []interface{}:
		length := len(v)
		seen := map[string]bool{}
		var types []string
		for _, item := range v {
			name := jsonTypeName(item)
			if !seen[name] {
				seen[name] = true
				types = append(types, name)
			}
		}
		node := &JSONNode{
			Type:         "array",
			Path:         path,
			Length:       &length,
			ElementTypes: types,
		}
		if length > 0 {
			node.SampleElement = analyzeStructure(v[0], path+"[0]")
		}
		return node
	default:
		value := obj
		if s, ok := obj.(string); ok && len(s) > scalarPreviewLimit {
			value = truncatePreview(s) + "..."
		}
		return &JSONNode{
			Type:  jsonTypeName(obj),
			Path:  path,
			Value: value,
		}
	}
}

// truncatePreview shortens s to at most scalarPreviewLimit bytes, backing up
// so a multi-byte rune is never split.
func truncatePreview(s string) string {
	cut := scalarPreviewLimit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// extractByPath follows a dot-separated path, treating numeric segments as
// array indices.
func extractByPath(obj interface{}, segments []string) (interface{}, error) {
	if len(segments) == 0 {
		return obj, nil
	}
	current, remaining := segments[0], segments[1:]

	switch v := obj.(type) {
	case map[string]interface{}:
		child, ok := v[current]
		if !ok {
			return nil, Errorf(CodePathNotFound, "key %q not found", current)
		}
		return extractByPath(child, remaining)
	case []interface{}:
		index, err := strconv.Atoi(current)
		if err != nil {
			return nil, Errorf(CodeInvalidPathSegment, "invalid array index: %s", current)
		}
		if index < 0 || index >= len(v) {
			return nil, Errorf(CodeIndexOutOfRange, "index %d out of range", index)
		}
		return extractByPath(v[index], remaining)
	default:
		return nil, Errorf(CodeInvalidPathSegment, "cannot access %q on %s", current, jsonTypeName(obj))
	}
}

func jsonTypeName(v interface{}) string {
	switch v.(type) {
	case map[string]interface{}:
		return "object"
	case []interface{}:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "bool"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}
