package mcpserver

import (
	"context"
	"encoding/json"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	toon "github.com/toon-format/toon-go"

	"github.com/jparkin/whiff/internal/scan"
	"github.com/jparkin/whiff/pkg/config"
	"github.com/jparkin/whiff/pkg/models"
	"github.com/jparkin/whiff/pkg/report"
)

// ScanInput is the input for the scan_smells tool.
type ScanInput struct {
	Paths   []string `json:"paths,omitempty" jsonschema:"Files or directories to scan. Defaults to current directory if empty."`
	Only    []string `json:"only,omitempty" jsonschema:"Run only these smells: LongMethod, GodClass, DuplicatedCode, LargeParameterList, MagicNumbers, FeatureEnvy."`
	Exclude []string `json:"exclude,omitempty" jsonschema:"Run all smells except these."`
	Config  string   `json:"config,omitempty" jsonschema:"Path to a whiff config file. Defaults to standard lookup locations."`
	Format  string   `json:"format,omitempty" jsonschema:"Output format: toon (default) or json."`
}

// ListDetectorsInput is the input for the list_detectors tool.
type ListDetectorsInput struct {
	Config string `json:"config,omitempty" jsonschema:"Path to a whiff config file. Defaults to standard lookup locations."`
}

func getPaths(paths []string) []string {
	if len(paths) == 0 {
		return []string{"."}
	}
	return paths
}

func formatOutput(data any, format string) (string, error) {
	if format == "json" {
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
	out, err := toon.Marshal(data, toon.WithIndent(2))
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func toolResult(data any, format string) (*mcp.CallToolResult, any, error) {
	text, err := formatOutput(data, format)
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadOrDefault(), nil
}

func (s *Server) handleScanSmells(ctx context.Context, req *mcp.CallToolRequest, input ScanInput) (*mcp.CallToolResult, any, error) {
	cfg, err := loadConfig(input.Config)
	if err != nil {
		return toolError(err.Error())
	}

	smells, err := scan.SelectSmells(input.Only, input.Exclude)
	if err != nil {
		return toolError(err.Error())
	}

	runner, err := scan.NewRunner(cfg, scan.WithSmells(smells))
	if err != nil {
		return toolError(err.Error())
	}

	start := time.Now()
	result, err := runner.ScanPaths(ctx, getPaths(input.Paths), nil)
	if err != nil {
		return toolError(err.Error())
	}

	active := make([]string, 0, len(models.AllSmells))
	for _, smell := range models.AllSmells {
		if cfg.EnabledSmells().Enabled(smell) && smells.Enabled(smell) {
			active = append(active, string(smell))
		}
	}

	rep := report.Build(result.Results, report.Metadata{
		ScanTimestamp: start,
		Version:       s.version,
		Paths:         getPaths(input.Paths),
		FilesAnalyzed: result.FilesAnalyzed,
		ActiveSmells:  active,
		DurationMS:    time.Since(start).Milliseconds(),
	})
	return toolResult(rep, input.Format)
}

func (s *Server) handleListDetectors(ctx context.Context, req *mcp.CallToolRequest, input ListDetectorsInput) (*mcp.CallToolResult, any, error) {
	cfg, err := loadConfig(input.Config)
	if err != nil {
		return toolError(err.Error())
	}

	type detectorInfo struct {
		Name       string `json:"name" toon:"name"`
		Enabled    bool   `json:"enabled" toon:"enabled"`
		Thresholds any    `json:"thresholds" toon:"thresholds"`
	}

	enabled := cfg.EnabledSmells()
	infos := []detectorInfo{
		{string(models.SmellLongMethod), enabled.Enabled(models.SmellLongMethod), cfg.LongMethod},
		{string(models.SmellGodClass), enabled.Enabled(models.SmellGodClass), cfg.GodClass},
		{string(models.SmellDuplicatedCode), enabled.Enabled(models.SmellDuplicatedCode), cfg.DuplicatedCode},
		{string(models.SmellLargeParameterList), enabled.Enabled(models.SmellLargeParameterList), cfg.LargeParameterList},
		{string(models.SmellMagicNumbers), enabled.Enabled(models.SmellMagicNumbers), cfg.MagicNumbers},
		{string(models.SmellFeatureEnvy), enabled.Enabled(models.SmellFeatureEnvy), cfg.FeatureEnvy},
	}
	return toolResult(infos, "")
}
