package schema

// ParameterType enumerates the kinds of configurable fields on a node type.
type ParameterType string

const (
	ParamText           ParameterType = "text"
	ParamNumber         ParameterType = "number"
	ParamBoolean        ParameterType = "boolean"
	ParamSelect         ParameterType = "select"
	ParamMultiSelect    ParameterType = "multiselect"
	ParamPassword       ParameterType = "password"
	ParamCode           ParameterType = "code"
	ParamKeyValueList   ParameterType = "key-value-list"
	ParamTextList       ParameterType = "text-list"
	ParamTimeList       ParameterType = "time-list"
	ParamDateList       ParameterType = "date-list"
	ParamExtractionList ParameterType = "extraction-list"
)

// ValidParameterTypes is the set of recognized parameter types.
var ValidParameterTypes = map[ParameterType]bool{
	ParamText:           true,
	ParamNumber:         true,
	ParamBoolean:        true,
	ParamSelect:         true,
	ParamMultiSelect:    true,
	ParamPassword:       true,
	ParamCode:           true,
	ParamKeyValueList:   true,
	ParamTextList:       true,
	ParamTimeList:       true,
	ParamDateList:       true,
	ParamExtractionList: true,
}

// SelectOption is one choice for a select/multiselect parameter.
type SelectOption struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// VisibilityRule gates a parameter on a sibling parameter's current value.
// The field is shown only when the named sibling's value equals Value, or is
// a member of Value when Value is a list. Rules reference siblings within the
// same node type only; multiple rules on one parameter are ANDed.
type VisibilityRule struct {
	Field string `json:"field" yaml:"field"`
	Value any    `json:"value" yaml:"value"`
}

// ParameterSchema describes a single configurable field on a node type.
type ParameterSchema struct {
	ID          string           `json:"id" yaml:"id"`
	Label       string           `json:"label" yaml:"label"`
	Type        ParameterType    `json:"type" yaml:"type"`
	Default     any              `json:"default,omitempty" yaml:"default,omitempty"`
	Required    bool             `json:"required,omitempty" yaml:"required,omitempty"`
	Options     []SelectOption   `json:"options,omitempty" yaml:"options,omitempty"`
	Min         *float64         `json:"min,omitempty" yaml:"min,omitempty"`
	Max         *float64         `json:"max,omitempty" yaml:"max,omitempty"`
	Syntax      string           `json:"syntax,omitempty" yaml:"syntax,omitempty"` // cel | expr | jq | cron
	Help        string           `json:"help,omitempty" yaml:"help,omitempty"`
	VisibleWhen []VisibilityRule `json:"visible_when,omitempty" yaml:"visible_when,omitempty"`
}

// HasOption reports whether value is one of the declared select options.
func (p *ParameterSchema) HasOption(value string) bool {
	for _, o := range p.Options {
		if o.Value == value {
			return true
		}
	}
	return false
}

// PortKind distinguishes control-flow from value-flow connection points.
type PortKind string

const (
	PortTrigger PortKind = "trigger"
	PortData    PortKind = "data"
)

// Port is a named connection point on a node type.
type Port struct {
	ID       string   `json:"id" yaml:"id"`
	Label    string   `json:"label" yaml:"label"`
	Kind     PortKind `json:"type" yaml:"type"`
	Required bool     `json:"required,omitempty" yaml:"required,omitempty"`
}

// ExecutionContext declares where and how a node type's executor may run.
// The flow core never executes anything; this is contract metadata for the
// backend runner and for platform-scoped palette filtering.
type ExecutionContext struct {
	Platforms    []string `json:"platforms,omitempty" yaml:"platforms,omitempty"`
	Capabilities []string `json:"capabilities,omitempty" yaml:"capabilities,omitempty"`
}

// NodeTypeDefinition is a catalog entry describing one kind of workflow
// building block. Definitions are static data: defined at build/config time,
// immutable at runtime, looked up by ID through the registry.
type NodeTypeDefinition struct {
	ID          string            `json:"id" yaml:"id"` // namespaced "package:name"
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Category    string            `json:"category,omitempty" yaml:"category,omitempty"`
	Icon        string            `json:"icon,omitempty" yaml:"icon,omitempty"`
	Color       string            `json:"color,omitempty" yaml:"color,omitempty"`
	Inputs      []Port            `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	Outputs     []Port            `json:"outputs,omitempty" yaml:"outputs,omitempty"`
	Parameters  []ParameterSchema `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Executor    string            `json:"executor" yaml:"executor"`
	Execution   ExecutionContext  `json:"execution_context,omitempty" yaml:"execution_context,omitempty"`
}

// InputPort returns the declared input port with the given ID, or nil.
func (d *NodeTypeDefinition) InputPort(id string) *Port {
	for i := range d.Inputs {
		if d.Inputs[i].ID == id {
			return &d.Inputs[i]
		}
	}
	return nil
}

// OutputPort returns the declared output port with the given ID, or nil.
func (d *NodeTypeDefinition) OutputPort(id string) *Port {
	for i := range d.Outputs {
		if d.Outputs[i].ID == id {
			return &d.Outputs[i]
		}
	}
	return nil
}

// Parameter returns the parameter schema with the given ID, or nil.
func (d *NodeTypeDefinition) Parameter(id string) *ParameterSchema {
	for i := range d.Parameters {
		if d.Parameters[i].ID == id {
			return &d.Parameters[i]
		}
	}
	return nil
}
