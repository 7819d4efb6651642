// Package packages holds the node packages the console ships with.
// Definitions are plain data looked up through the registry, never
// polymorphic objects; the executor strings name backend implementations
// this core does not contain.
package packages

import "github.com/andrewcho-dev/opsconductor-flow/pkg/schema"

// Builtin returns the packages enabled in a stock deployment.
func Builtin() []*schema.NodePackage {
	return []*schema.NodePackage{Core(), NetOps()}
}

// Core returns the vendor-neutral building blocks: triggers, HTTP, logic,
// data shaping and notifications.
func Core() *schema.NodePackage {
	return &schema.NodePackage{
		ID:      "core",
		Name:    "Core",
		Version: "1.2.0",
		Categories: map[string]schema.Category{
			"triggers": {Label: "Triggers", Icon: "clock", Order: 1},
			"network":  {Label: "Network", Icon: "globe", Order: 2},
			"logic":    {Label: "Logic", Icon: "git-branch", Order: 3},
			"data":     {Label: "Data", Icon: "filter", Order: 4},
			"notify":   {Label: "Notifications", Icon: "mail", Order: 5},
		},
		Nodes: map[string]schema.NodeTypeDefinition{
			"core:http_request":      httpRequest(),
			"core:schedule_cron":     scheduleCron(),
			"core:schedule_interval": scheduleInterval(),
			"core:condition":         condition(),
			"core:transform":         transform(),
			"core:extract":           extract(),
			"core:email":             email(),
		},
	}
}

func httpRequest() schema.NodeTypeDefinition {
	return schema.NodeTypeDefinition{
		ID:          "core:http_request",
		Name:        "HTTP Request",
		Description: "Calls an HTTP endpoint and exposes the response to downstream nodes.",
		Category:    "network",
		Icon:        "globe",
		Color:       "#2563eb",
		Inputs: []schema.Port{
			{ID: "run", Label: "Run", Kind: schema.PortTrigger, Required: true},
		},
		Outputs: []schema.Port{
			{ID: "success", Label: "Success", Kind: schema.PortTrigger},
			{ID: "error", Label: "Error", Kind: schema.PortTrigger},
			{ID: "response", Label: "Response", Kind: schema.PortData},
		},
		Parameters: []schema.ParameterSchema{
			{
				ID: "method", Label: "Method", Type: schema.ParamSelect,
				Required: true, Default: "GET",
				Options: []schema.SelectOption{
					{Value: "GET", Label: "GET"},
					{Value: "POST", Label: "POST"},
					{Value: "PUT", Label: "PUT"},
					{Value: "PATCH", Label: "PATCH"},
					{Value: "DELETE", Label: "DELETE"},
				},
			},
			{ID: "url", Label: "URL", Type: schema.ParamText, Required: true},
			{ID: "headers", Label: "Headers", Type: schema.ParamKeyValueList},
			{
				ID: "body", Label: "Request Body", Type: schema.ParamCode,
				VisibleWhen: []schema.VisibilityRule{
					{Field: "method", Value: []any{"POST", "PUT", "PATCH"}},
				},
			},
			{
				ID: "auth_type", Label: "Authentication", Type: schema.ParamSelect,
				Default: "none",
				Options: []schema.SelectOption{
					{Value: "none", Label: "None"},
					{Value: "basic", Label: "Basic"},
					{Value: "bearer", Label: "Bearer Token"},
				},
			},
			{
				ID: "username", Label: "Username", Type: schema.ParamText,
				VisibleWhen: []schema.VisibilityRule{{Field: "auth_type", Value: "basic"}},
			},
			{
				ID: "password", Label: "Password", Type: schema.ParamPassword,
				VisibleWhen: []schema.VisibilityRule{{Field: "auth_type", Value: "basic"}},
			},
			{
				ID: "token", Label: "Token", Type: schema.ParamPassword,
				VisibleWhen: []schema.VisibilityRule{{Field: "auth_type", Value: "bearer"}},
			},
			{
				ID: "timeout_seconds", Label: "Timeout (s)", Type: schema.ParamNumber,
				Default: float64(30), Min: floatPtr(1), Max: floatPtr(300),
			},
			{ID: "verify_tls", Label: "Verify TLS", Type: schema.ParamBoolean, Default: true},
		},
		Executor: "http_request",
		Execution: schema.ExecutionContext{
			Capabilities: []string{"network"},
		},
	}
}

func scheduleCron() schema.NodeTypeDefinition {
	return schema.NodeTypeDefinition{
		ID:          "core:schedule_cron",
		Name:        "Cron Schedule",
		Description: "Fires on a cron expression. Valid as an unconnected entry point.",
		Category:    "triggers",
		Icon:        "clock",
		Color:       "#16a34a",
		Outputs: []schema.Port{
			{ID: "tick", Label: "Tick", Kind: schema.PortTrigger},
		},
		Parameters: []schema.ParameterSchema{
			{
				ID: "expression", Label: "Cron Expression", Type: schema.ParamText,
				Required: true, Default: "0 * * * *", Syntax: "cron",
				Help: "Standard 5-field cron: minute hour day-of-month month day-of-week.",
			},
			{ID: "timezone", Label: "Timezone", Type: schema.ParamText, Default: "UTC"},
		},
		Executor: "schedule_trigger",
	}
}

func scheduleInterval() schema.NodeTypeDefinition {
	return schema.NodeTypeDefinition{
		ID:          "core:schedule_interval",
		Name:        "Recurring Schedule",
		Description: "Fires on an interval, at fixed times of day, or on specific dates.",
		Category:    "triggers",
		Icon:        "repeat",
		Color:       "#16a34a",
		Outputs: []schema.Port{
			{ID: "tick", Label: "Tick", Kind: schema.PortTrigger},
		},
		Parameters: []schema.ParameterSchema{
			{
				ID: "mode", Label: "Mode", Type: schema.ParamSelect,
				Required: true, Default: "interval",
				Options: []schema.SelectOption{
					{Value: "interval", Label: "Every N minutes"},
					{Value: "times", Label: "At times of day"},
					{Value: "dates", Label: "On specific dates"},
				},
			},
			{
				ID: "interval_minutes", Label: "Interval (min)", Type: schema.ParamNumber,
				Default: float64(15), Min: floatPtr(1), Max: floatPtr(1440),
				VisibleWhen: []schema.VisibilityRule{{Field: "mode", Value: "interval"}},
			},
			{
				ID: "times", Label: "Times", Type: schema.ParamTimeList,
				VisibleWhen: []schema.VisibilityRule{{Field: "mode", Value: "times"}},
			},
			{
				ID: "dates", Label: "Dates", Type: schema.ParamDateList,
				VisibleWhen: []schema.VisibilityRule{{Field: "mode", Value: "dates"}},
			},
		},
		Executor: "schedule_trigger",
	}
}

func condition() schema.NodeTypeDefinition {
	return schema.NodeTypeDefinition{
		ID:          "core:condition",
		Name:        "Condition",
		Description: "Routes the trigger chain on a CEL expression over upstream data.",
		Category:    "logic",
		Icon:        "git-branch",
		Color:       "#d97706",
		Inputs: []schema.Port{
			{ID: "run", Label: "Run", Kind: schema.PortTrigger, Required: true},
			{ID: "value", Label: "Value", Kind: schema.PortData},
		},
		Outputs: []schema.Port{
			{ID: "true", Label: "True", Kind: schema.PortTrigger},
			{ID: "false", Label: "False", Kind: schema.PortTrigger},
		},
		Parameters: []schema.ParameterSchema{
			{
				ID: "expression", Label: "Expression", Type: schema.ParamCode,
				Required: true, Syntax: "cel",
				Help: "CEL expression; data, params and env are in scope.",
			},
		},
		Executor: "condition_eval",
	}
}

func transform() schema.NodeTypeDefinition {
	return schema.NodeTypeDefinition{
		ID:          "core:transform",
		Name:        "Transform",
		Description: "Reshapes incoming data with an expr script.",
		Category:    "data",
		Icon:        "shuffle",
		Color:       "#7c3aed",
		Inputs: []schema.Port{
			{ID: "in", Label: "In", Kind: schema.PortData, Required: true},
		},
		Outputs: []schema.Port{
			{ID: "out", Label: "Out", Kind: schema.PortData},
		},
		Parameters: []schema.ParameterSchema{
			{ID: "script", Label: "Script", Type: schema.ParamCode, Required: true, Syntax: "expr"},
		},
		Executor: "data_transform",
	}
}

func extract() schema.NodeTypeDefinition {
	return schema.NodeTypeDefinition{
		ID:          "core:extract",
		Name:        "Extract Fields",
		Description: "Pulls named fields out of incoming data with jq expressions.",
		Category:    "data",
		Icon:        "filter",
		Color:       "#7c3aed",
		Inputs: []schema.Port{
			{ID: "in", Label: "In", Kind: schema.PortData, Required: true},
		},
		Outputs: []schema.Port{
			{ID: "out", Label: "Out", Kind: schema.PortData},
		},
		Parameters: []schema.ParameterSchema{
			{
				ID: "extractions", Label: "Extractions", Type: schema.ParamExtractionList,
				Required: true, Syntax: "jq",
			},
		},
		Executor: "data_extract",
	}
}

func email() schema.NodeTypeDefinition {
	return schema.NodeTypeDefinition{
		ID:          "core:email",
		Name:        "Send Email",
		Description: "Sends a notification email when triggered.",
		Category:    "notify",
		Icon:        "mail",
		Color:       "#db2777",
		Inputs: []schema.Port{
			{ID: "run", Label: "Run", Kind: schema.PortTrigger, Required: true},
			{ID: "context", Label: "Context", Kind: schema.PortData},
		},
		Outputs: []schema.Port{
			{ID: "sent", Label: "Sent", Kind: schema.PortTrigger},
		},
		Parameters: []schema.ParameterSchema{
			{ID: "to", Label: "To", Type: schema.ParamTextList, Required: true},
			{ID: "cc", Label: "Cc", Type: schema.ParamTextList},
			{ID: "subject", Label: "Subject", Type: schema.ParamText, Required: true},
			{ID: "body", Label: "Body", Type: schema.ParamCode},
		},
		Executor: "notify_email",
		Execution: schema.ExecutionContext{
			Capabilities: []string{"smtp"},
		},
	}
}

func floatPtr(f float64) *float64 { return &f }
