// Package plugins defines the extractor contract and the built-in
// extractors.
//
// An extractor is a named, stateless function from a freshly initialized
// Backend to a partial report. Extractors never see each other's output and
// never see the accumulated report; missing files produce absent keys rather
// than errors.
package plugins

import (
	"context"

	"github.com/quantmind-br/repolens/internal/domain"
	"github.com/quantmind-br/repolens/internal/report"
)

// ExtractFunc produces a partial report from an initialized backend
type ExtractFunc func(ctx context.Context, b domain.Backend) (report.Report, error)

// Plugin is a named extractor
type Plugin struct {
	Name    string
	Extract ExtractFunc
}

// Built-in plugin names
const (
	NameReadme        = "readme"
	NameDescription   = "description"
	NameRepository    = "repository"
	NameLicense       = "license"
	NameChangelog     = "changelog"
	NameArchitecture  = "architecture"
	NameContributing  = "contributing"
	NameCodeOfConduct = "codeOfConduct"
	NameSecurity      = "security"
	NameFAQ           = "faq"
	NameDocs          = "docs"
	NameMaintainers   = "maintainers"
	NameContributors  = "contributors"
	NameBadges        = "badges"
	NameMotivation    = "motivation"
	NameHighlights    = "highlights"
)

// Builtin returns the built-in extractors in canonical order. The slice is
// freshly allocated on every call.
func Builtin() []Plugin {
	return []Plugin{
		{Name: NameReadme, Extract: extractReadme},
		{Name: NameDescription, Extract: extractDescription},
		{Name: NameRepository, Extract: extractRepository},
		{Name: NameLicense, Extract: documentExtractor(NameLicense, licenseFiles...)},
		{Name: NameChangelog, Extract: extractChangelog},
		{Name: NameArchitecture, Extract: documentExtractor(NameArchitecture, architectureFiles...)},
		{Name: NameContributing, Extract: documentExtractor(NameContributing, contributingFiles...)},
		{Name: NameCodeOfConduct, Extract: documentExtractor(NameCodeOfConduct, codeOfConductFiles...)},
		{Name: NameSecurity, Extract: documentExtractor(NameSecurity, securityFiles...)},
		{Name: NameFAQ, Extract: extractFAQ},
		{Name: NameDocs, Extract: extractDocs},
		{Name: NameMaintainers, Extract: extractMaintainers},
		{Name: NameContributors, Extract: extractContributors},
		{Name: NameBadges, Extract: extractBadges},
		{Name: NameMotivation, Extract: extractMotivation},
		{Name: NameHighlights, Extract: extractHighlights},
	}
}

// Names returns the plugin names in order
func Names(plugins []Plugin) []string {
	names := make([]string, len(plugins))
	for i, p := range plugins {
		names[i] = p.Name
	}
	return names
}

// Select filters all by whitelist. An empty whitelist selects everything.
// The result keeps the order of all, not of the whitelist, and names that
// match no plugin are ignored.
func Select(all []Plugin, whitelist []string) []Plugin {
	if len(whitelist) == 0 {
		return append([]Plugin(nil), all...)
	}

	wanted := make(map[string]bool, len(whitelist))
	for _, name := range whitelist {
		wanted[name] = true
	}

	selected := make([]Plugin, 0, len(whitelist))
	for _, p := range all {
		if wanted[p.Name] {
			selected = append(selected, p)
		}
	}
	return selected
}

// Unknown returns the whitelist names that match no plugin, in whitelist order
func Unknown(all []Plugin, whitelist []string) []string {
	known := make(map[string]bool, len(all))
	for _, p := range all {
		known[p.Name] = true
	}

	var unknown []string
	for _, name := range whitelist {
		if !known[name] {
			unknown = append(unknown, name)
		}
	}
	return unknown
}
