package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// Source kinds a scenario may run against.
const (
	SourceMemory = "memory"
	SourceSQLite = "sqlite"
)

// Scenario defines a query scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Source selects the row source: "memory" (default) or "sqlite".
	Source string `yaml:"source,omitempty"`

	// Inventory holds the rows of each table, keyed by table name.
	Inventory map[string][]map[string]any `yaml:"inventory,omitempty"`

	// InventoryFile is a YAML file with the same shape as Inventory,
	// resolved relative to the scenario file.
	InventoryFile string `yaml:"inventory_file,omitempty"`

	// MaxRows caps join output; 0 means no cap.
	MaxRows int `yaml:"max_rows,omitempty"`

	// Steps run in order against the same inventory.
	Steps []Step `yaml:"steps"`
}

// Step is one statement to execute.
// Exactly one of Query and Find is set.
type Step struct {
	Name       string      `yaml:"name"`
	Query      string      `yaml:"query,omitempty"`
	Find       *FindStep   `yaml:"find,omitempty"`
	Expect     *Expect     `yaml:"expect,omitempty"`
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// FindStep describes a find request. List fields are comma-separated.
type FindStep struct {
	Resource string   `yaml:"resource"`
	IDs      string   `yaml:"ids,omitempty"`
	Names    string   `yaml:"names,omitempty"`
	Flavors  string   `yaml:"flavors,omitempty"`
	Images   string   `yaml:"images,omitempty"`
	States   string   `yaml:"states,omitempty"`
	Clouds   string   `yaml:"clouds,omitempty"`
	Projects string   `yaml:"projects,omitempty"`
	Suffixes []string `yaml:"suffixes,omitempty"`
}

// Expect specifies the outcome of a step.
// With Error set the step must fail with that IllegalQueryError code;
// otherwise it must succeed and Columns and Rows, when given, must match
// exactly.
type Expect struct {
	Columns    []string `yaml:"columns,omitempty"`
	Rows       [][]any  `yaml:"rows,omitempty"`
	Error      string   `yaml:"error,omitempty"`
	Violations []string `yaml:"violations,omitempty"`
}

// Assertion checks a property of a step's result set.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Count is the expected row count (row_count).
	Count int `yaml:"count,omitempty"`

	// Column names the checked column (column_values, ordered_by).
	Column string `yaml:"column,omitempty"`

	// Values are the expected column values in order (column_values).
	Values []any `yaml:"values,omitempty"`

	// Row is a subset of columns some result row must match (contains_row).
	Row map[string]any `yaml:"row,omitempty"`
}

// Assertion types.
const (
	AssertRowCount     = "row_count"
	AssertColumnValues = "column_values"
	AssertContainsRow  = "contains_row"
	AssertOrderedBy    = "ordered_by"
)

// findResources are the resource names a find step may use.
var findResources = []string{"instances", "projects", "flavors", "images", "networks", "keypairs"}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data, filepath.Dir(path))
}

// ParseScenario parses scenario YAML. InventoryFile is resolved against
// basePath and loaded.
func ParseScenario(data []byte, basePath string) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.InventoryFile != "" {
		path := scenario.InventoryFile
		if !filepath.IsAbs(path) && basePath != "" {
			path = filepath.Join(basePath, path)
		}
		inv, err := LoadInventory(path)
		if err != nil {
			return nil, fmt.Errorf("invalid scenario: %w", err)
		}
		scenario.InventoryFile = path
		scenario.Inventory = inv
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadInventory reads a YAML file mapping table names to row lists.
func LoadInventory(path string) (map[string][]map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory file: %w", err)
	}
	var inv map[string][]map[string]any
	if err := yaml.Unmarshal(data, &inv); err != nil {
		return nil, fmt.Errorf("failed to parse inventory %s: %w", path, err)
	}
	if inv == nil {
		inv = map[string][]map[string]any{}
	}
	return inv, nil
}

// LoadDir loads every *.yaml scenario in dir, sorted by file name.
func LoadDir(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}
	slices.Sort(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	switch s.Source {
	case "", SourceMemory, SourceSQLite:
	default:
		return fmt.Errorf("unknown source %q (want %s or %s)", s.Source, SourceMemory, SourceSQLite)
	}

	if s.MaxRows < 0 {
		return fmt.Errorf("max_rows must be non-negative")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	seen := make(map[string]bool, len(s.Steps))
	for i, step := range s.Steps {
		if step.Name == "" {
			return fmt.Errorf("steps[%d]: name is required", i)
		}
		if seen[step.Name] {
			return fmt.Errorf("steps[%d]: duplicate step name %q", i, step.Name)
		}
		seen[step.Name] = true

		if (step.Query == "") == (step.Find == nil) {
			return fmt.Errorf("steps[%d]: exactly one of query and find is required", i)
		}
		if step.Find != nil && !slices.Contains(findResources, step.Find.Resource) {
			return fmt.Errorf("steps[%d].find: unknown resource %q", i, step.Find.Resource)
		}
		if step.Expect != nil && step.Expect.Error != "" && (step.Expect.Columns != nil || step.Expect.Rows != nil) {
			return fmt.Errorf("steps[%d].expect: error excludes columns and rows", i)
		}
		for j, a := range step.Assertions {
			if err := validateAssertion(a); err != nil {
				return fmt.Errorf("steps[%d].assertions[%d]: %w", i, j, err)
			}
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(a Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("type is required")
	case AssertRowCount:
		if a.Count < 0 {
			return fmt.Errorf("count must be non-negative for row_count")
		}
	case AssertColumnValues:
		if a.Column == "" {
			return fmt.Errorf("column is required for column_values")
		}
	case AssertOrderedBy:
		if a.Column == "" {
			return fmt.Errorf("column is required for ordered_by")
		}
	case AssertContainsRow:
		if len(a.Row) == 0 {
			return fmt.Errorf("row is required for contains_row")
		}
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}
