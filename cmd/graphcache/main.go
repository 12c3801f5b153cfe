package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"strings"

	"github.com/go-logr/stdr"

	"github.com/hanpama/graphcache/internal/cache"
	"github.com/hanpama/graphcache/internal/eventbus"
	"github.com/hanpama/graphcache/internal/log"
	"github.com/hanpama/graphcache/internal/otel"
	"github.com/hanpama/graphcache/internal/pagination"
	"github.com/hanpama/graphcache/internal/query"
	"github.com/hanpama/graphcache/internal/schema"
)

const rootUsage = `graphcache: read GraphQL queries from a normalized cache snapshot

USAGE:
  graphcache <command> [flags]

COMMANDS:
  read             Read a query from a cache snapshot and print the result
  help             Show help for any command
`

const readUsage = `read FLAGS:
  -snapshot <file>              YAML cache snapshot (required)
  -query <file|text>            GraphQL query document, as a path or inline (required)
  -operation <name>             Operation to read when the document has several
  -variables <json>             Variables as a JSON object
  -schema <file>                SDL file; enables partial results
  -connection <Type.field>      Serve a field as a paginated connection. Repeatable
  -merge <inwards|outwards>     Connection merge mode (default: inwards)
  -pretty                       Pretty-print JSON output
  -v <level>                    Log verbosity (default: 0)
  -otel.endpoint <addr>         OTLP collector endpoint
  -otel.service <name>          OpenTelemetry service name (default: graphcache)
`

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		stdlog.Fatal(err)
	}
}

func run(args []string, stdout io.Writer) error {
	global := flag.NewFlagSet("graphcache", flag.ContinueOnError)
	global.SetOutput(new(bytes.Buffer)) // silence automatic output
	if err := global.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, rootUsage)
		return err
	}
	remaining := global.Args()
	if len(remaining) == 0 {
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("missing command")
	}

	cmd := remaining[0]
	cmdArgs := remaining[1:]
	switch cmd {
	case "read":
		return cmdRead(cmdArgs, stdout)
	case "help":
		return cmdHelp(cmdArgs, stdout)
	default:
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdHelp(args []string, stdout io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stdout, rootUsage)
		return nil
	}
	switch args[0] {
	case "read":
		fmt.Fprint(stdout, readUsage)
	default:
		return fmt.Errorf("unknown help topic %q", args[0])
	}
	return nil
}

type connectionFlag []string

func (c *connectionFlag) String() string { return strings.Join(*c, ",") }

func (c *connectionFlag) Set(v string) error {
	typename, field, ok := strings.Cut(v, ".")
	if !ok || typename == "" || field == "" {
		return fmt.Errorf("invalid connection %q (want Type.field)", v)
	}
	*c = append(*c, v)
	return nil
}

func cmdRead(args []string, stdout io.Writer) error {
	snapshotPath := ""
	queryArg := ""
	operationName := ""
	variablesArg := ""
	schemaPath := ""
	mergeArg := string(pagination.Inwards)
	pretty := false
	verbosity := 0
	otelEndpoint := ""
	otelService := "graphcache"
	var connections connectionFlag

	fs := flag.NewFlagSet("read", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&snapshotPath, "snapshot", snapshotPath, "YAML cache snapshot")
	fs.StringVar(&queryArg, "query", queryArg, "GraphQL query document")
	fs.StringVar(&operationName, "operation", operationName, "Operation name")
	fs.StringVar(&variablesArg, "variables", variablesArg, "Variables as JSON")
	fs.StringVar(&schemaPath, "schema", schemaPath, "SDL file")
	fs.Var(&connections, "connection", "Paginated connection field")
	fs.StringVar(&mergeArg, "merge", mergeArg, "Connection merge mode")
	fs.BoolVar(&pretty, "pretty", pretty, "Pretty-print JSON output")
	fs.IntVar(&verbosity, "v", verbosity, "Log verbosity")
	fs.StringVar(&otelEndpoint, "otel.endpoint", otelEndpoint, "OTLP collector endpoint")
	fs.StringVar(&otelService, "otel.service", otelService, "OpenTelemetry service name")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, readUsage)
		return err
	}
	if snapshotPath == "" || queryArg == "" {
		fmt.Fprint(os.Stderr, readUsage)
		return fmt.Errorf("-snapshot and -query are required")
	}
	mode, err := pagination.ParseMergeMode(mergeArg)
	if err != nil {
		return err
	}

	stdr.SetVerbosity(verbosity)
	ctx := log.WithLogger(context.Background(), stdr.New(stdlog.New(os.Stderr, "", stdlog.LstdFlags)))

	eventbus.Use(eventbus.New())
	shutdown, err := otel.Setup(otelEndpoint, otelService)
	if err != nil {
		return fmt.Errorf("otel setup: %w", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	store, err := cache.LoadSnapshotFile(snapshotPath)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	var variables map[string]any
	if variablesArg != "" {
		if err := json.Unmarshal([]byte(variablesArg), &variables); err != nil {
			return fmt.Errorf("parse variables: %w", err)
		}
	}

	opts := []query.Option{}
	if schemaPath != "" {
		sdl, err := os.ReadFile(schemaPath)
		if err != nil {
			return err
		}
		sch, err := schema.BuildFromSDL(string(sdl))
		if err != nil {
			return fmt.Errorf("build schema: %w", err)
		}
		opts = append(opts, query.WithSchema(sch))
	}
	relay := pagination.Relay(pagination.WithMergeMode(mode))
	for _, c := range connections {
		typename, field, _ := strings.Cut(c, ".")
		opts = append(opts, query.WithResolver(typename, field, relay))
	}
	reader := query.NewReader(store, opts...)

	src, err := readQuerySource(queryArg)
	if err != nil {
		return err
	}
	res, err := reader.ReadQuery(ctx, src, operationName, variables)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(res)
}

// readQuerySource treats arg as an inline document when it contains a
// selection set, and as a path otherwise.
func readQuerySource(arg string) (string, error) {
	if strings.ContainsAny(arg, "{}") {
		return arg, nil
	}
	b, err := os.ReadFile(arg)
	if err != nil {
		return "", fmt.Errorf("read query: %w", err)
	}
	return string(b), nil
}
