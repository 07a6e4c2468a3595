package profile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Supported summary output formats.
const (
	SummaryFormatText = "text"
	SummaryFormatJSON = "json"
)

var titleCaser = cases.Title(language.English)

// FormatSummary renders a profile summary in the requested format.
func FormatSummary(p *Profile, format string) (string, error) {
	if p == nil {
		return "", fmt.Errorf("profile is nil")
	}

	switch strings.ToLower(format) {
	case "", SummaryFormatText:
		return formatSummaryText(p)
	case SummaryFormatJSON:
		return formatSummaryJSON(p)
	default:
		return "", fmt.Errorf("unsupported summary format %q", format)
	}
}

func formatSummaryText(p *Profile) (string, error) {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "Spec:\t%s\n", p.Spec.Name)
	fmt.Fprintf(tw, "Description:\t%s\n", p.Description)
	if len(p.Bins) > 0 {
		fmt.Fprintf(tw, "Binaries:\t%s\n", strings.Join(p.Bins, ", "))
	}
	if len(p.Libs) > 0 {
		fmt.Fprintf(tw, "Libraries:\t%s\n", strings.Join(p.Libs, ", "))
	}
	if len(p.Features) > 0 {
		fmt.Fprintf(tw, "Features:\t%s\n", strings.Join(p.Features, ", "))
	}

	for el := p.Config.Front(); el != nil; el = el.Next() {
		names := make([]string, 0, el.Value.Len())
		for fel := el.Value.Front(); fel != nil; fel = fel.Next() {
			names = append(names, string(fel.Key))
		}
		fmt.Fprintf(tw, "%s:\t%s\n", titleCaser.String(string(el.Key)), strings.Join(names, ", "))
	}

	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "Flag\tValue\tType")

	flags := p.CfgFlagsMap()
	for el := flags.Front(); el != nil; el = el.Next() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", el.Key, el.Value.String(), el.Value.Type())
	}

	if err := tw.Flush(); err != nil {
		return "", fmt.Errorf("flush summary: %w", err)
	}
	return buf.String(), nil
}

func formatSummaryJSON(p *Profile) (string, error) {
	type flagEntry struct {
		Name  string `json:"name"`
		Value any    `json:"value"`
		Type  string `json:"type"`
	}

	flags := p.CfgFlagsMap()
	entries := make([]flagEntry, 0, flags.Len())
	for el := flags.Front(); el != nil; el = el.Next() {
		entries = append(entries, flagEntry{
			Name:  el.Key,
			Value: el.Value.Interface(),
			Type:  el.Value.Type().String(),
		})
	}

	payload := map[string]any{
		"spec":        p.Spec.Name,
		"description": p.Description,
		"flags":       entries,
	}
	if len(p.Bins) > 0 {
		payload["bins"] = p.Bins
	}
	if len(p.Libs) > 0 {
		payload["libs"] = p.Libs
	}
	if len(p.Features) > 0 {
		payload["features"] = p.Features
	}

	encoded, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal summary json: %w", err)
	}
	return string(encoded), nil
}
