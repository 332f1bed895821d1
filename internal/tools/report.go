package tools

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// GenerateReport derives a summary, detailed, or insights document from
// analyze_csv-shaped data and renders it as JSON, Markdown, or plain text.
func GenerateReport(args map[string]interface{}) (map[string]interface{}, error) {
	data, ok := args["data"].(map[string]interface{})
	if !ok || len(data) == 0 {
		return nil, Errorf(CodeInvalidArgument, "data is required")
	}
	reportType, err := stringArg(args, "report_type", "summary")
	if err != nil {
		return nil, err
	}
	format, err := stringArg(args, "format", "json")
	if err != nil {
		return nil, err
	}

	var report map[string]interface{}
	switch reportType {
	case "summary":
		report = summaryReport(data)
	case "detailed":
		report = detailedReport(data)
	case "insights":
		report = insightsReport(data)
	default:
		return nil, Errorf(CodeInvalidArgument, "unknown report type: %s", reportType)
	}

	var formatted string
	switch format {
	case "json":
		buf, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return nil, Errorf(CodeInvalidArgument, "cannot encode report: %v", err)
		}
		formatted = string(buf)
	case "markdown":
		formatted = renderMarkdown(report)
	case "text":
		formatted = renderText(report)
	default:
		return nil, Errorf(CodeInvalidArgument, "unknown format: %s", format)
	}

	return map[string]interface{}{
		"report_type":          reportType,
		"format":               format,
		"report_data":          report,
		"formatted_output":     formatted,
		"generation_timestamp": time.Now(),
	}, nil
}

func summaryReport(data map[string]interface{}) map[string]interface{} {
	report := map[string]interface{}{
		"report_type":     "summary",
		"generated_at":    time.Now(),
		"overview":        map[string]interface{}{},
		"key_findings":    []map[string]interface{}{},
		"recommendations": []map[string]interface{}{},
	}

	overview := report["overview"].(map[string]interface{})
	if rows, ok := data["total_rows"]; ok {
		overview["total_records"] = rows
	}
	if cols, ok := data["total_columns"]; ok {
		overview["total_fields"] = cols
	}

	findings := []map[string]interface{}{}
	if missing := missingMap(data); missing != nil {
		highMissing := map[string]interface{}{}
		for field, pct := range missing {
			if pct > 20 {
				highMissing[field] = pct
			}
		}
		if len(highMissing) > 0 {
			findings = append(findings, map[string]interface{}{
				"type":    "data_quality",
				"finding": "High missing values detected",
				"details": highMissing,
			})
		}
	}

	for _, field := range sortedKeys(asMap(data["numeric_statistics"])) {
		stats := asMap(asMap(data["numeric_statistics"])[field])
		mean := asFloat(stats["mean"])
		std := asFloat(stats["std"])
		if std > mean {
			finding := map[string]interface{}{
				"type":    "statistical",
				"finding": fmt.Sprintf("High variability in %s", field),
				"details": map[string]interface{}{
					"mean": mean,
					"std":  std,
				},
			}
			if mean != 0 {
				finding["details"].(map[string]interface{})["coefficient_of_variation"] = std / mean
			}
			findings = append(findings, finding)
		}
	}
	report["key_findings"] = findings

	recommendations := []map[string]interface{}{}
	if missing := missingMap(data); missing != nil {
		var affected []string
		for field, pct := range missing {
			if pct > 10 {
				affected = append(affected, field)
			}
		}
		sort.Strings(affected)
		if len(affected) > 0 {
			recommendations = append(recommendations, map[string]interface{}{
				"type":            "data_cleaning",
				"action":          "Address missing values",
				"affected_fields": affected,
			})
		}
	}
	report["recommendations"] = recommendations

	return report
}

func detailedReport(data map[string]interface{}) map[string]interface{} {
	fieldAnalysis := map[string]interface{}{}
	if missing := missingMap(data); missing != nil {
		for field, pct := range missing {
			entry := asMap(asMap(data["missing_values"])[field])
			fieldAnalysis[field] = map[string]interface{}{
				"completeness":  100 - pct,
				"missing_count": entry["count"],
			}
		}
	}

	return map[string]interface{}{
		"report_type":        "detailed",
		"generated_at":       time.Now(),
		"full_analysis":      data,
		"data_quality_score": qualityScore(data),
		"field_analysis":     fieldAnalysis,
	}
}

func insightsReport(data map[string]interface{}) map[string]interface{} {
	insights := []map[string]interface{}{}

	numeric := asMap(data["numeric_statistics"])
	for _, field := range sortedKeys(numeric) {
		stats := asMap(numeric[field])
		insights = append(insights, map[string]interface{}{
			"field":   field,
			"insight": fmt.Sprintf("Values range from %.2f to %.2f", asFloat(stats["min"]), asFloat(stats["max"])),
			"type":    "range_analysis",
		})
	}

	categorical := asMap(data["categorical_statistics"])
	for _, field := range sortedKeys(categorical) {
		stats := asMap(categorical[field])
		insights = append(insights, map[string]interface{}{
			"field":   field,
			"insight": fmt.Sprintf("Contains %v unique values", stats["unique_count"]),
			"type":    "uniqueness_analysis",
		})
	}

	return map[string]interface{}{
		"report_type":  "insights",
		"generated_at": time.Now(),
		"insights":     insights,
	}
}

// qualityScore is 100 minus the average missing percentage, floored at 0.
func qualityScore(data map[string]interface{}) float64 {
	missing := missingMap(data)
	if len(missing) == 0 {
		return 100
	}
	total := 0.0
	for _, pct := range missing {
		total += pct
	}
	score := 100 - total/float64(len(missing))
	if score < 0 {
		score = 0
	}
	return score
}

// missingMap flattens missing_values to field → percentage.
func missingMap(data map[string]interface{}) map[string]float64 {
	raw := asMap(data["missing_values"])
	if raw == nil {
		return nil
	}
	out := make(map[string]float64, len(raw))
	for field, entry := range raw {
		out[field] = asFloat(asMap(entry)["percentage"])
	}
	return out
}

func renderMarkdown(report map[string]interface{}) string {
	kind, _ := report["report_type"].(string)
	lines := []string{
		fmt.Sprintf("# Data Report - %s", capitalize(kind)),
		fmt.Sprintf("Generated at: %v", report["generated_at"]),
		"",
	}

	if overview := asMap(report["overview"]); overview != nil {
		lines = append(lines,
			"## Overview",
			fmt.Sprintf("- Total Records: %v", valueOr(overview["total_records"], "N/A")),
			fmt.Sprintf("- Total Fields: %v", valueOr(overview["total_fields"], "N/A")),
			"",
		)
	}

	if findings, ok := report["key_findings"].([]map[string]interface{}); ok && len(findings) > 0 {
		lines = append(lines, "## Key Findings", "")
		for _, finding := range findings {
			lines = append(lines, fmt.Sprintf("- **%v**: %v", finding["type"], finding["finding"]))
		}
		lines = append(lines, "")
	}

	if insights, ok := report["insights"].([]map[string]interface{}); ok && len(insights) > 0 {
		lines = append(lines, "## Insights", "")
		for _, insight := range insights {
			lines = append(lines, fmt.Sprintf("- %v: %v", insight["field"], insight["insight"]))
		}
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

func renderText(report map[string]interface{}) string {
	var sb strings.Builder
	for _, key := range sortedKeys(report) {
		fmt.Fprintf(&sb, "%s: %v\n", key, report[key])
	}
	return sb.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func valueOr(v interface{}, fallback interface{}) interface{} {
	if v == nil {
		return fallback
	}
	return v
}

func asMap(v interface{}) map[string]interface{} {
	m, _ := v.(map[string]interface{})
	return m
}

func asFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
