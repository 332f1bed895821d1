// Package prompts holds the built-in prompt templates and their rendering.
package prompts

import (
	"fmt"
	"strings"
)

// Argument describes one template parameter.
type Argument struct {
	Name        string
	Description string
	Required    bool
}

// Prompt is one named template with its arguments.
type Prompt struct {
	Name        string
	Description string
	Arguments   []Argument
	Template    string
}

// Library is the fixed set of built-in prompts.
type Library struct {
	prompts map[string]Prompt
	order   []string
}

// NewLibrary builds the library with the built-in prompt set.
func NewLibrary() *Library {
	lib := &Library{prompts: map[string]Prompt{}}
	for _, p := range builtins {
		lib.order = append(lib.order, p.Name)
		lib.prompts[p.Name] = p
	}
	return lib
}

// List returns all prompts in their declared order.
func (l *Library) List() []Prompt {
	out := make([]Prompt, 0, len(l.order))
	for _, name := range l.order {
		out = append(out, l.prompts[name])
	}
	return out
}

// Get returns the named prompt.
func (l *Library) Get(name string) (Prompt, bool) {
	p, ok := l.prompts[name]
	return p, ok
}

// Render substitutes {key} placeholders in the named prompt's template.
// Placeholders with no matching argument stay in place verbatim, so the
// reader can see what is missing; an absent argument is never an error.
// The Required flag on arguments is descriptor metadata for callers, not
// enforced here.
func (l *Library) Render(name string, args map[string]string) (string, error) {
	p, ok := l.prompts[name]
	if !ok {
		return "", fmt.Errorf("unknown prompt: %s", name)
	}

	text := p.Template
	for key, value := range args {
		text = strings.ReplaceAll(text, "{"+key+"}", value)
	}
	return text, nil
}

var builtins = []Prompt{
	{
		Name:        "analyze_data",
		Description: "Analyze a dataset and provide insights",
		Arguments: []Argument{
			{Name: "data_source", Description: "Path or description of the data to analyze", Required: true},
			{Name: "analysis_type", Description: "Type of analysis to perform", Required: false},
		},
		Template: `Please analyze the data from {data_source}.

Analysis type: {analysis_type}

Provide:
1. A summary of the data structure and contents
2. Key statistics and distributions
3. Notable patterns, trends, or anomalies
4. Data quality issues (missing values, outliers, inconsistencies)
5. Actionable recommendations based on the findings`,
	},
	{
		Name:        "code_review",
		Description: "Review code for quality, bugs, and improvements",
		Arguments: []Argument{
			{Name: "code", Description: "The code to review", Required: true},
			{Name: "language", Description: "Programming language of the code", Required: false},
			{Name: "focus", Description: "Specific aspect to focus on", Required: false},
		},
		Template: `Please review the following {language} code:

{code}

Focus area: {focus}

Cover:
1. Correctness: bugs, edge cases, error handling
2. Readability: naming, structure, comments
3. Performance: unnecessary work, algorithmic issues
4. Security: input validation, unsafe operations
5. Suggested improvements with example code where helpful`,
	},
	{
		Name:        "system_troubleshooting",
		Description: "Diagnose and resolve a system issue",
		Arguments: []Argument{
			{Name: "issue_description", Description: "Description of the problem", Required: true},
			{Name: "system_info", Description: "Relevant system details", Required: false},
			{Name: "error_logs", Description: "Error messages or log excerpts", Required: false},
		},
		Template: `Help troubleshoot the following system issue:

Issue: {issue_description}

System information: {system_info}

Error logs:
{error_logs}

Provide:
1. Most likely root causes, ranked by probability
2. Diagnostic steps to confirm each hypothesis
3. Resolution steps for the confirmed cause
4. Preventive measures to avoid recurrence`,
	},
	{
		Name:        "documentation_generator",
		Description: "Generate documentation for code or an API",
		Arguments: []Argument{
			{Name: "content", Description: "Code or API description to document", Required: true},
			{Name: "doc_type", Description: "Kind of documentation to produce", Required: false},
			{Name: "audience", Description: "Intended audience", Required: false},
		},
		Template: `Generate {doc_type} documentation for the following, written for {audience}:

{content}

Include:
1. Overview and purpose
2. Usage instructions with examples
3. Parameter and return value descriptions
4. Common pitfalls and edge cases
5. Related references where applicable`,
	},
	{
		Name:        "performance_analysis",
		Description: "Analyze performance data and suggest optimizations",
		Arguments: []Argument{
			{Name: "metrics", Description: "Performance metrics or profiling data", Required: true},
			{Name: "context", Description: "Workload or environment context", Required: false},
			{Name: "goals", Description: "Performance targets", Required: false},
		},
		Template: `Analyze the following performance data:

{metrics}

Context: {context}
Goals: {goals}

Provide:
1. Interpretation of the metrics and where time or resources go
2. Identified bottlenecks, ranked by impact
3. Concrete optimization recommendations
4. Trade-offs and risks of each recommendation
5. How to measure whether each change helped`,
	},
}
