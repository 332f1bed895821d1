package tools

import (
	"context"
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
)

// Toolbox bundles the stateful tool sets wired into the builtin catalog.
type Toolbox struct {
	Files *FileOps
	Web   *WebOps
}

// NewCatalog builds the full builtin tool registry: calculator, unit
// conversion, file, web, and data analysis tools.
func NewCatalog(box Toolbox, registry *Registry) error {
	for _, op := range []string{"add", "subtract", "multiply", "divide"} {
		op := op
		if err := registry.Register(basicCalcTool(op), func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			return CalculateBasic(op, args)
		}); err != nil {
			return err
		}
	}

	if err := registry.Register(Tool{
		Name:        "power",
		Description: "Raise number to a power",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"x": {Type: "number", Description: "Base number"},
				"y": {Type: "number", Description: "Exponent (default: 2)", Default: json.RawMessage(`2`)},
			},
			Required: []string{"x"},
		},
	}, advancedCalcHandler("power")); err != nil {
		return err
	}

	if err := registry.Register(Tool{
		Name:        "sqrt",
		Description: "Calculate square root of a number",
		InputSchema: singleNumberSchema("x", "Number to find square root of (must be non-negative)"),
	}, advancedCalcHandler("sqrt")); err != nil {
		return err
	}

	if err := registry.Register(Tool{
		Name:        "log",
		Description: "Calculate logarithm of a number",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"x":    {Type: "number", Description: "Number to find logarithm of (must be positive)"},
				"base": {Type: "number", Description: "Base of logarithm (default: e)"},
			},
			Required: []string{"x"},
		},
	}, advancedCalcHandler("log")); err != nil {
		return err
	}

	for _, trig := range []string{"sin", "cos", "tan"} {
		if err := registry.Register(Tool{
			Name:        trig,
			Description: "Calculate " + trigName(trig) + " of angle (in degrees)",
			InputSchema: singleNumberSchema("x", "Angle in degrees"),
		}, advancedCalcHandler(trig)); err != nil {
			return err
		}
	}

	if err := registry.Register(Tool{
		Name:        "convert_units",
		Description: "Convert between different units of measurement",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"value":     {Type: "number", Description: "Value to convert"},
				"from_unit": {Type: "string", Description: "Source unit"},
				"to_unit":   {Type: "string", Description: "Target unit"},
			},
			Required: []string{"value", "from_unit", "to_unit"},
		},
	}, func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		return ConvertUnits(args)
	}); err != nil {
		return err
	}

	if err := registerFileTools(registry, box.Files); err != nil {
		return err
	}
	if err := registerWebTools(registry, box.Web); err != nil {
		return err
	}
	return registerDataTools(registry)
}

func basicCalcTool(op string) Tool {
	descriptions := map[string]string{
		"add":      "Add two numbers together",
		"subtract": "Subtract second number from first number",
		"multiply": "Multiply two numbers",
		"divide":   "Divide first number by second number",
	}
	bDesc := "Second number"
	aDesc := "First number"
	if op == "divide" {
		aDesc = "Dividend"
		bDesc = "Divisor (cannot be zero)"
	}
	return Tool{
		Name:        op,
		Description: descriptions[op],
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"a": {Type: "number", Description: aDesc},
				"b": {Type: "number", Description: bDesc},
			},
			Required: []string{"a", "b"},
		},
	}
}

func advancedCalcHandler(op string) Handler {
	return func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		return CalculateAdvanced(op, args)
	}
}

func singleNumberSchema(name, description string) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			name: {Type: "number", Description: description},
		},
		Required: []string{name},
	}
}

func trigName(op string) string {
	switch op {
	case "sin":
		return "sine"
	case "cos":
		return "cosine"
	default:
		return "tangent"
	}
}

func registerFileTools(registry *Registry, files *FileOps) error {
	if err := registry.Register(Tool{
		Name:        "read_file",
		Description: "Read content from a text file",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"file_path": {Type: "string", Description: "Path to the file to read"},
			},
			Required: []string{"file_path"},
		},
	}, func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		return files.ReadFile(args)
	}); err != nil {
		return err
	}

	if err := registry.Register(Tool{
		Name:        "write_file",
		Description: "Write content to a text file",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"file_path":     {Type: "string", Description: "Path to the file to write"},
				"content":       {Type: "string", Description: "Content to write to the file"},
				"create_backup": {Type: "boolean", Description: "Create backup of existing file", Default: json.RawMessage(`false`)},
			},
			Required: []string{"file_path", "content"},
		},
	}, func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		return files.WriteFile(args)
	}); err != nil {
		return err
	}

	return registry.Register(Tool{
		Name:        "list_directory",
		Description: "List contents of a directory",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"directory_path": {Type: "string", Description: "Path to the directory to list", Default: json.RawMessage(`"."`)},
				"recursive":      {Type: "boolean", Description: "List subdirectories recursively", Default: json.RawMessage(`false`)},
				"include_hidden": {Type: "boolean", Description: "Include hidden files and directories", Default: json.RawMessage(`false`)},
				"file_filter":    {Type: "string", Description: "Filter files by name substring", Default: json.RawMessage(`""`)},
			},
		},
	}, func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		return files.ListDirectory(args)
	})
}

func registerWebTools(registry *Registry, web *WebOps) error {
	if err := registry.Register(Tool{
		Name:        "fetch_webpage",
		Description: "Fetch and parse a webpage",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"url":           {Type: "string", Description: "URL of the webpage to fetch"},
				"include_html":  {Type: "boolean", Description: "Include raw HTML content in response", Default: json.RawMessage(`false`)},
				"extract_links": {Type: "boolean", Description: "Extract all links from the webpage", Default: json.RawMessage(`false`)},
			},
			Required: []string{"url"},
		},
	}, func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		return web.FetchWebpage(ctx, args)
	}); err != nil {
		return err
	}

	if err := registry.Register(Tool{
		Name:        "search_web",
		Description: "Search the web for information (simulated)",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"query":       {Type: "string", Description: "Search query"},
				"max_results": {Type: "integer", Description: "Maximum number of results to return", Default: json.RawMessage(`10`), Minimum: floatPtr(1), Maximum: floatPtr(50)},
				"language":    {Type: "string", Description: "Language code for search results", Default: json.RawMessage(`"en"`)},
			},
			Required: []string{"query"},
		},
	}, func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		return web.SearchWeb(ctx, args)
	}); err != nil {
		return err
	}

	return registry.Register(Tool{
		Name:        "download_file",
		Description: "Download a file from a URL",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"url":      {Type: "string", Description: "URL of the file to download"},
				"filename": {Type: "string", Description: "Local filename to save as (optional)"},
			},
			Required: []string{"url"},
		},
	}, func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		return web.DownloadFile(ctx, args)
	})
}

func registerDataTools(registry *Registry) error {
	if err := registry.Register(Tool{
		Name:        "analyze_csv",
		Description: "Analyze a CSV file and return statistics",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"file_path": {Type: "string", Description: "Path to the CSV file to analyze"},
				"delimiter": {Type: "string", Description: "CSV delimiter character", Default: json.RawMessage(`","`)},
				"max_rows":  {Type: "integer", Description: "Maximum number of rows to analyze", Default: json.RawMessage(`1000`), Minimum: floatPtr(1), Maximum: floatPtr(10000)},
			},
			Required: []string{"file_path"},
		},
	}, func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		return AnalyzeCSV(args)
	}); err != nil {
		return err
	}

	if err := registry.Register(Tool{
		Name:        "process_json",
		Description: "Process and analyze a JSON file",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"file_path": {Type: "string", Description: "Path to the JSON file to process"},
				"operation": {Type: "string", Description: "Operation to perform", Enum: []interface{}{"analyze", "extract", "transform"}, Default: json.RawMessage(`"analyze"`)},
				"json_path": {Type: "string", Description: "Dot-separated path for extraction (e.g., 'users.0.name')"},
			},
			Required: []string{"file_path"},
		},
	}, func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		return ProcessJSON(args)
	}); err != nil {
		return err
	}

	return registry.Register(Tool{
		Name:        "generate_report",
		Description: "Generate a data report from analysis results",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"data":        {Type: "object", Description: "Data to generate report from"},
				"report_type": {Type: "string", Description: "Type of report to generate", Enum: []interface{}{"summary", "detailed", "insights"}, Default: json.RawMessage(`"summary"`)},
				"format":      {Type: "string", Description: "Output format", Enum: []interface{}{"json", "markdown", "text"}, Default: json.RawMessage(`"json"`)},
			},
			Required: []string{"data"},
		},
	}, func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		return GenerateReport(args)
	})
}

func floatPtr(v float64) *float64 {
	return &v
}
