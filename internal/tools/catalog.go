package tools

// Tool names, in catalog order.
const (
	ReadFile         = "read_file"
	WriteFile        = "write_file"
	ListFiles        = "list_files"
	ExecuteCommand   = "execute_command"
	ProjectStructure = "project_structure"
	GitStatus        = "git_status"
	FindClass        = "find_class"
)

// ParamType is the JSON schema type of a tool parameter.
type ParamType string

const (
	ParamString ParamType = "string"
	ParamNumber ParamType = "number"
)

// Param describes one named tool argument.
type Param struct {
	Name        string
	Type        ParamType
	Required    bool
	Description string
}

// Descriptor is the advertised definition of a tool.
type Descriptor struct {
	Name        string
	Description string
	Params      []Param
}

// Required returns the names of the required parameters in declaration order.
func (d Descriptor) Required() []string {
	required := []string{}
	for _, p := range d.Params {
		if p.Required {
			required = append(required, p.Name)
		}
	}
	return required
}

// InputSchema renders the parameters as a JSON schema object.
func (d Descriptor) InputSchema() map[string]any {
	properties := map[string]any{}
	for _, p := range d.Params {
		properties[p.Name] = map[string]any{
			"type":        string(p.Type),
			"description": p.Description,
		}
	}
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if required := d.Required(); len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

var catalog = []Descriptor{
	{
		Name:        ReadFile,
		Description: "Read the contents of a file",
		Params: []Param{
			{Name: "path", Type: ParamString, Required: true, Description: "File path relative to project root"},
		},
	},
	{
		Name:        WriteFile,
		Description: "Write content to a file",
		Params: []Param{
			{Name: "path", Type: ParamString, Required: true, Description: "File path relative to project root"},
			{Name: "content", Type: ParamString, Required: true, Description: "Content to write"},
		},
	},
	{
		Name:        ListFiles,
		Description: "List files in a directory",
		Params: []Param{
			{Name: "directory", Type: ParamString, Description: "Directory path relative to project root"},
			{Name: "pattern", Type: ParamString, Description: "File pattern (e.g., *.java)"},
		},
	},
	{
		Name: ExecuteCommand,
		Description: "Execute a command in the project directory. " +
			"The command runs through the shell with the server's privileges and is not sandboxed.",
		Params: []Param{
			{Name: "command", Type: ParamString, Required: true, Description: "Command to execute"},
		},
	},
	{
		Name:        ProjectStructure,
		Description: "Get the project structure",
		Params: []Param{
			{Name: "maxDepth", Type: ParamNumber, Description: "Maximum depth to traverse; 0 shows only the root"},
		},
	},
	{
		Name:        GitStatus,
		Description: "Get git status of the project",
	},
	{
		Name:        FindClass,
		Description: "Find Java/Kotlin classes by name",
		Params: []Param{
			{Name: "className", Type: ParamString, Required: true, Description: "Class name to search for"},
		},
	},
}

// Catalog returns the tool descriptors in their fixed advertised order.
// The returned slice is a copy.
func Catalog() []Descriptor {
	out := make([]Descriptor, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the descriptor for name.
func Lookup(name string) (Descriptor, bool) {
	for _, d := range catalog {
		if d.Name == name {
			return d, true
		}
	}
	return Descriptor{}, false
}
