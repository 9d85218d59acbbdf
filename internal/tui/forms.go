package tui

import (
	"github.com/charmbracelet/huh"

	"github.com/quantmind-br/repolens/internal/config"
	"github.com/quantmind-br/repolens/internal/plugins"
)

func CreateGitHubForm(values *ConfigValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("base_url").
				Title("API Base URL").
				Description("GitHub Enterprise API endpoint (leave empty for github.com)").
				Value(&values.GitHubBaseURL).
				Placeholder("https://github.example.com/api/v3/").
				Validate(ValidateURL),

			huh.NewInput().
				Key("upload_url").
				Title("Upload URL").
				Description("GitHub Enterprise upload endpoint, set together with the base URL").
				Value(&values.GitHubUploadURL).
				Placeholder("https://github.example.com/api/uploads/").
				Validate(ValidateURL),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("timeout").
				Title("Request Timeout").
				Description("Timeout for each API request (e.g., 30s, 1m)").
				Value(&values.GitHubTimeout).
				Placeholder("30s").
				Validate(ValidateDuration),

			huh.NewInput().
				Key("max_retries").
				Title("Max Retries").
				Description("Retries for rate-limited or failed requests (0-10)").
				Value(&values.GitHubMaxRetries).
				Placeholder("3").
				Validate(ValidateIntRange(0, 10)),
		),
	).WithTheme(GetTheme())
}

func CreateCloneForm(values *ConfigValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("temp_dir").
				Title("Clone Directory").
				Description("Parent directory for isolated clones (leave empty for the system temp dir)").
				Value(&values.CloneTempDir).
				Placeholder("/tmp"),
		),
	).WithTheme(GetTheme())
}

func CreateOutputForm(values *ConfigValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("format").
				Title("Report Format").
				Options(
					huh.NewOption("JSON", config.FormatJSON),
					huh.NewOption("YAML", config.FormatYAML),
				).
				Value(&values.OutputFormat),

			huh.NewInput().
				Key("file").
				Title("Output File").
				Description("Write reports to this file (leave empty for stdout)").
				Value(&values.OutputFile).
				Placeholder("report.json"),
		),
	).WithTheme(GetTheme())
}

func CreatePluginsForm(values *ConfigValues) *huh.Form {
	names := plugins.Names(plugins.Builtin())
	options := make([]huh.Option[string], len(names))
	for i, name := range names {
		options[i] = huh.NewOption(name, name)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Key("plugins").
				Title("Default Plugins").
				Description("Extractors to run when none are given (select none to run all)").
				Options(options...).
				Value(&values.Plugins),
		),
	).WithTheme(GetTheme())
}

func CreateLoggingForm(values *ConfigValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("level").
				Title("Log Level").
				Description("Minimum log level to display").
				Options(
					huh.NewOption("Debug", "debug"),
					huh.NewOption("Info", "info"),
					huh.NewOption("Warn", "warn"),
					huh.NewOption("Error", "error"),
					huh.NewOption("Disabled", "disabled"),
				).
				Value(&values.LogLevel),

			huh.NewSelect[string]().
				Key("format").
				Title("Log Format").
				Description("Output format for logs").
				Options(
					huh.NewOption("Pretty (human-readable)", "pretty"),
					huh.NewOption("JSON (structured)", "json"),
				).
				Value(&values.LogFormat),
		),
	).WithTheme(GetTheme())
}

func GetFormForCategory(category string, values *ConfigValues) *huh.Form {
	switch category {
	case "github":
		return CreateGitHubForm(values)
	case "clone":
		return CreateCloneForm(values)
	case "output":
		return CreateOutputForm(values)
	case "plugins":
		return CreatePluginsForm(values)
	case "logging":
		return CreateLoggingForm(values)
	default:
		return nil
	}
}
