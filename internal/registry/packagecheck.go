package registry

import (
	"fmt"
	"strings"

	"github.com/andrewcho-dev/opsconductor-flow/internal/analyzers"
	"github.com/andrewcho-dev/opsconductor-flow/internal/params"
	"github.com/andrewcho-dev/opsconductor-flow/pkg/schema"
)

// ValidatePackage checks a node package for internal consistency. Any
// problem fails the whole package; there is no partial activation.
func ValidatePackage(pkg *schema.NodePackage) error {
	var problems []string

	if pkg.ID == "" {
		problems = append(problems, "package id is empty")
	}
	if pkg.Name == "" {
		problems = append(problems, "package name is empty")
	}
	if pkg.Version == "" {
		problems = append(problems, "package version is empty")
	}
	if len(pkg.Nodes) == 0 {
		problems = append(problems, "package declares no node types")
	}

	for key, def := range pkg.Nodes {
		problems = append(problems, checkNodeType(pkg, key, &def)...)
	}

	if len(problems) == 0 {
		return nil
	}
	msg := problems[0]
	if len(problems) > 1 {
		msg = fmt.Sprintf("package %q failed validation with %d problems", pkg.ID, len(problems))
	}
	return schema.NewError(schema.ErrCodeValidation, msg).
		WithDetails(map[string]any{"package_id": pkg.ID, "problems": problems})
}

func checkNodeType(pkg *schema.NodePackage, key string, def *schema.NodeTypeDefinition) []string {
	var problems []string
	at := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf("node %q: %s", key, fmt.Sprintf(format, args...)))
	}

	if def.ID != key {
		at("map key does not match node type id %q", def.ID)
	}
	if pkg.ID != "" && !strings.HasPrefix(def.ID, pkg.ID+":") {
		at("id is not namespaced by package %q", pkg.ID)
	}
	if def.Name == "" {
		at("name is empty")
	}
	if def.Executor == "" {
		at("executor is empty")
	}
	if def.Category != "" && len(pkg.Categories) > 0 {
		if _, ok := pkg.Categories[def.Category]; !ok {
			at("category %q is not declared by the package", def.Category)
		}
	}

	problems = append(problems, checkPorts(key, "inputs", def.Inputs)...)
	problems = append(problems, checkPorts(key, "outputs", def.Outputs)...)
	problems = append(problems, checkParameters(key, def.Parameters)...)
	return problems
}

func checkPorts(nodeKey, side string, ports []schema.Port) []string {
	var problems []string
	seen := make(map[string]bool, len(ports))
	for i, port := range ports {
		where := fmt.Sprintf("node %q: %s[%d]", nodeKey, side, i)
		if port.ID == "" {
			problems = append(problems, where+": port id is empty")
			continue
		}
		if seen[port.ID] {
			problems = append(problems, fmt.Sprintf("%s: duplicate port id %q", where, port.ID))
		}
		seen[port.ID] = true
		if port.Kind != schema.PortTrigger && port.Kind != schema.PortData {
			problems = append(problems, fmt.Sprintf("%s: unknown port type %q", where, port.Kind))
		}
	}
	return problems
}

func checkParameters(nodeKey string, parameters []schema.ParameterSchema) []string {
	var problems []string
	ids := make(map[string]bool, len(parameters))
	for _, p := range parameters {
		if p.ID == "" {
			problems = append(problems, fmt.Sprintf("node %q: parameter with empty id", nodeKey))
			continue
		}
		if ids[p.ID] {
			problems = append(problems, fmt.Sprintf("node %q: duplicate parameter id %q", nodeKey, p.ID))
		}
		ids[p.ID] = true
	}

	for i := range parameters {
		p := &parameters[i]
		where := fmt.Sprintf("node %q: parameter %q", nodeKey, p.ID)

		if !schema.ValidParameterTypes[p.Type] {
			problems = append(problems, fmt.Sprintf("%s: unknown type %q", where, p.Type))
			continue
		}
		if (p.Type == schema.ParamSelect || p.Type == schema.ParamMultiSelect) && len(p.Options) == 0 {
			problems = append(problems, where+": select parameter declares no options")
		}
		if p.Syntax != "" && !analyzers.Known(p.Syntax) {
			problems = append(problems, fmt.Sprintf("%s: unknown syntax %q", where, p.Syntax))
		}

		for _, rule := range p.VisibleWhen {
			if rule.Field == p.ID {
				problems = append(problems, where+": visibility rule references itself")
			} else if !ids[rule.Field] {
				problems = append(problems, fmt.Sprintf("%s: visibility rule references unknown sibling %q", where, rule.Field))
			}
		}

		// Defaults obey the same constraints as user-entered values.
		if p.Default != nil {
			if _, err := params.ValidateValue(p, p.Default); err != nil {
				problems = append(problems, fmt.Sprintf("%s: invalid default: %s", where, err.Error()))
			}
		}
	}
	return problems
}
