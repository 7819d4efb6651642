package packages

import "github.com/andrewcho-dev/opsconductor-flow/pkg/schema"

// NetOps returns the device-facing package. Every node here declares an
// executor implemented by the network backend; the definitions only fix the
// contract (ports, parameters, capabilities) the builder and runner agree on.
func NetOps() *schema.NodePackage {
	return &schema.NodePackage{
		ID:      "netops",
		Name:    "Network Operations",
		Version: "0.9.1",
		Categories: map[string]schema.Category{
			"devices":    {Label: "Devices", Icon: "server", Order: 1},
			"monitoring": {Label: "Monitoring", Icon: "activity", Order: 2},
			"remote":     {Label: "Remote Access", Icon: "terminal", Order: 3},
		},
		Nodes: map[string]schema.NodeTypeDefinition{
			"netops:device_sync": deviceSync(),
			"netops:snmp_poll":   snmpPoll(),
			"netops:ssh_command": sshCommand(),
		},
	}
}

func deviceSync() schema.NodeTypeDefinition {
	return schema.NodeTypeDefinition{
		ID:          "netops:device_sync",
		Name:        "Device Inventory Sync",
		Description: "Synchronizes the device inventory through the configured MCP connector.",
		Category:    "devices",
		Icon:        "server",
		Color:       "#0891b2",
		Inputs: []schema.Port{
			{ID: "run", Label: "Run", Kind: schema.PortTrigger, Required: true},
		},
		Outputs: []schema.Port{
			{ID: "done", Label: "Done", Kind: schema.PortTrigger},
			{ID: "devices", Label: "Devices", Kind: schema.PortData},
		},
		Parameters: []schema.ParameterSchema{
			{ID: "device_filter", Label: "Device Filter", Type: schema.ParamText,
				Help: "Glob over device names; empty syncs everything."},
			{ID: "full_sync", Label: "Full Sync", Type: schema.ParamBoolean, Default: false},
			{
				ID: "batch_size", Label: "Batch Size", Type: schema.ParamNumber,
				Default: float64(100), Min: floatPtr(1), Max: floatPtr(1000),
			},
		},
		Executor: "mcp_device_sync",
		Execution: schema.ExecutionContext{
			Platforms:    []string{"linux"},
			Capabilities: []string{"network", "mcp"},
		},
	}
}

func snmpPoll() schema.NodeTypeDefinition {
	return schema.NodeTypeDefinition{
		ID:          "netops:snmp_poll",
		Name:        "SNMP Poll",
		Description: "Polls a device for a set of SNMP OIDs.",
		Category:    "monitoring",
		Icon:        "activity",
		Color:       "#0891b2",
		Inputs: []schema.Port{
			{ID: "run", Label: "Run", Kind: schema.PortTrigger, Required: true},
		},
		Outputs: []schema.Port{
			{ID: "done", Label: "Done", Kind: schema.PortTrigger},
			{ID: "values", Label: "Values", Kind: schema.PortData},
		},
		Parameters: []schema.ParameterSchema{
			{ID: "host", Label: "Host", Type: schema.ParamText, Required: true},
			{ID: "oids", Label: "OIDs", Type: schema.ParamTextList, Required: true},
			{
				ID: "version", Label: "SNMP Version", Type: schema.ParamSelect,
				Required: true, Default: "v2c",
				Options: []schema.SelectOption{
					{Value: "v1", Label: "v1"},
					{Value: "v2c", Label: "v2c"},
					{Value: "v3", Label: "v3"},
				},
			},
			{
				ID: "community", Label: "Community", Type: schema.ParamPassword,
				Default:     "public",
				VisibleWhen: []schema.VisibilityRule{{Field: "version", Value: []any{"v1", "v2c"}}},
			},
			{
				ID: "auth_protocol", Label: "Auth Protocol", Type: schema.ParamSelect,
				Default: "SHA",
				Options: []schema.SelectOption{
					{Value: "MD5", Label: "MD5"},
					{Value: "SHA", Label: "SHA"},
				},
				VisibleWhen: []schema.VisibilityRule{{Field: "version", Value: "v3"}},
			},
			{
				ID: "auth_password", Label: "Auth Password", Type: schema.ParamPassword,
				VisibleWhen: []schema.VisibilityRule{{Field: "version", Value: "v3"}},
			},
		},
		Executor: "snmp_poll",
		Execution: schema.ExecutionContext{
			Platforms:    []string{"linux"},
			Capabilities: []string{"network"},
		},
	}
}

func sshCommand() schema.NodeTypeDefinition {
	return schema.NodeTypeDefinition{
		ID:          "netops:ssh_command",
		Name:        "SSH Command",
		Description: "Runs a command on a remote device over SSH.",
		Category:    "remote",
		Icon:        "terminal",
		Color:       "#0891b2",
		Inputs: []schema.Port{
			{ID: "run", Label: "Run", Kind: schema.PortTrigger, Required: true},
		},
		Outputs: []schema.Port{
			{ID: "done", Label: "Done", Kind: schema.PortTrigger},
			{ID: "failed", Label: "Failed", Kind: schema.PortTrigger},
			{ID: "output", Label: "Output", Kind: schema.PortData},
		},
		Parameters: []schema.ParameterSchema{
			{ID: "host", Label: "Host", Type: schema.ParamText, Required: true},
			{
				ID: "port", Label: "Port", Type: schema.ParamNumber,
				Default: float64(22), Min: floatPtr(1), Max: floatPtr(65535),
			},
			{ID: "username", Label: "Username", Type: schema.ParamText, Required: true},
			{
				ID: "auth", Label: "Authentication", Type: schema.ParamSelect,
				Required: true, Default: "password",
				Options: []schema.SelectOption{
					{Value: "password", Label: "Password"},
					{Value: "key", Label: "Private Key"},
				},
			},
			{
				ID: "password", Label: "Password", Type: schema.ParamPassword,
				VisibleWhen: []schema.VisibilityRule{{Field: "auth", Value: "password"}},
			},
			{
				ID: "private_key", Label: "Private Key", Type: schema.ParamCode,
				VisibleWhen: []schema.VisibilityRule{{Field: "auth", Value: "key"}},
			},
			{ID: "command", Label: "Command", Type: schema.ParamCode, Required: true},
		},
		Executor: "ssh_command",
		Execution: schema.ExecutionContext{
			Platforms:    []string{"linux"},
			Capabilities: []string{"network", "ssh"},
		},
	}
}
