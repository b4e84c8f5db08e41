// Command coolingcore loads a reference rate dataset and reports cooling
// load estimates for a building type as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"

	"coolingcore/internal/core"
	"coolingcore/internal/datasource"
	"coolingcore/internal/infra/persistence/memory"
	"coolingcore/pkg/domain"
)

var exitFunc = os.Exit

// stderrLogger adapts a stdlib logger to the service logger contract.
type stderrLogger struct{ l *log.Logger }

func (s stderrLogger) Infof(format string, args ...any)  { s.l.Printf("info: "+format, args...) }
func (s stderrLogger) Warnf(format string, args ...any)  { s.l.Printf("warn: "+format, args...) }
func (s stderrLogger) Errorf(format string, args ...any) { s.l.Printf("error: "+format, args...) }

// main runs the command-line interface using the program arguments and exits
// the process with the status code returned by cli.
func main() {
	code := cli(os.Args[1:], os.Stdout, os.Stderr)
	exitFunc(code)
}

func cli(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("coolingcore", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		dataPath  string
		building  string
		area      float64
		tierName  string
		listTypes bool
	)
	fs.StringVar(&dataPath, "data", datasource.DefaultPath, "path to the reference rate CSV")
	fs.StringVar(&building, "building", "", "building type to estimate")
	fs.Float64Var(&area, "area", domain.DefaultSquareFootage, "square footage")
	fs.StringVar(&tierName, "tier", "", "design tier (low, avg, high); all three when omitted")
	fs.BoolVar(&listTypes, "list-types", false, "list the building types in the dataset and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if err := run(stdout, stderr, dataPath, building, area, tierName, listTypes); err != nil {
		if _, writeErr := fmt.Fprintf(stderr, "coolingcore: %v\n", err); writeErr != nil {
			return 1
		}
		return 1
	}
	return 0
}

func run(stdout, stderr io.Writer, dataPath, building string, area float64, tierName string, listTypes bool) error {
	ctx := context.Background()

	logger := log.New(stderr, "", 0)
	svc := core.NewService(memory.NewStore(), core.WithLogger(stderrLogger{l: logger}))

	source := datasource.NewFile(dataPath)
	reader, err := source.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("open dataset: %w", err)
	}
	defer func() { _ = reader.Close() }()

	warnings, err := svc.LoadDatasetCSV(ctx, reader)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	for _, warning := range warnings {
		fmt.Fprintf(stderr, "warning: %v\n", warning)
	}

	if listTypes {
		types := svc.BuildingTypes()
		sort.Strings(types)
		for _, name := range types {
			if _, err := fmt.Fprintln(stdout, name); err != nil {
				return err
			}
		}
		return nil
	}

	if building == "" {
		return fmt.Errorf("-building is required (or pass -list-types)")
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")

	// No tier flag means report all three tiers.
	if strings.TrimSpace(tierName) == "" {
		results, err := svc.ComputeRangeResults(ctx, building, area)
		if err != nil {
			return err
		}
		return enc.Encode(results)
	}

	tier, err := domain.ParseTier(strings.TrimSpace(tierName))
	if err != nil {
		return err
	}
	result, err := svc.ComputeResults(ctx, building, area, tier)
	if err != nil {
		return err
	}
	return enc.Encode(result)
}
