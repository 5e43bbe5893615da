/**
 * Copyright (c) 2026, The Gqlassert Authors.
 *
 * Permission to use, copy, modify, and/or distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

// gqlrun executes a GraphQL query file against an SDL schema and a JSON or YAML data file, and
// pretty-prints the response. It exists to try out schema/data/query triples outside a test
// suite.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gqlassert/gqlassert/engine"
	"github.com/gqlassert/gqlassert/pretty"

	"github.com/fatih/color"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var errorColor = color.New(color.FgRed, color.Bold)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		schemaPath string
		dataPath   string
		varsPath   string
		operation  string
		noValidate bool
	)

	cmd := &cobra.Command{
		Use:           "gqlrun [flags] <query-file>",
		Short:         "Execute a GraphQL query against an SDL schema and a data file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := run(cmd, args[0], schemaPath, dataPath, varsPath, operation, noValidate)
			if err != nil {
				errorColor.Fprintln(cmd.ErrOrStderr(), renderError(err))
			}
			return err
		},
	}

	cmd.Flags().StringVar(&schemaPath, "schema", "schema.graphql", "path to the SDL schema file")
	cmd.Flags().StringVar(&dataPath, "data", "", "path to the root data file (.json, .yaml or .yml)")
	cmd.Flags().StringVar(&varsPath, "vars", "", "path to a JSON file with variable bindings")
	cmd.Flags().StringVar(&operation, "operation", "", "operation name to execute")
	cmd.Flags().BoolVar(&noValidate, "no-validate", false, "skip query validation")

	return cmd
}

func run(cmd *cobra.Command, queryPath, schemaPath, dataPath, varsPath, operation string, noValidate bool) error {
	sdl, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}
	schema, err := engine.NewSchema(&engine.SchemaConfig{SDL: string(sdl)})
	if err != nil {
		return err
	}

	querySource, err := os.ReadFile(queryPath)
	if err != nil {
		return fmt.Errorf("read query: %w", err)
	}
	doc, err := engine.ParseQuery(string(querySource))
	if err != nil {
		return fmt.Errorf("parse query: %w", err)
	}

	var rootValue interface{}
	if dataPath != "" {
		rootValue, err = loadData(dataPath)
		if err != nil {
			return err
		}
	}

	var variables map[string]interface{}
	if varsPath != "" {
		raw, err := os.ReadFile(varsPath)
		if err != nil {
			return fmt.Errorf("read vars: %w", err)
		}
		if err := jsoniter.Unmarshal(raw, &variables); err != nil {
			return fmt.Errorf("parse vars: %w", err)
		}
	}

	validate := engine.DefaultValidator
	if noValidate {
		validate = engine.NoopValidator
	}

	result, err := engine.Execute(cmd.Context(), engine.ExecuteParams{
		Schema:         schema,
		Document:       doc,
		OperationName:  operation,
		VariableValues: variables,
		RootValue:      rootValue,
		Validator:      validate,
	}).Wait(cmd.Context())
	if err != nil {
		return err
	}

	resp := result.(*engine.Response)
	fmt.Fprintln(cmd.OutOrStdout(), pretty.Print(resp.ToValue()))
	return nil
}

// loadData reads the root value from a JSON or YAML file, by extension.
func loadData(path string) (interface{}, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read data: %w", err)
	}

	var data interface{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("parse data: %w", err)
		}
		data = normalizeYAML(data)
	default:
		if err := jsoniter.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("parse data: %w", err)
		}
	}
	return data, nil
}

// normalizeYAML rewrites yaml.v3's map[string]interface{} trees in place. yaml.v3 already decodes
// mappings with string keys, but nested non-string keys can still appear; reject them early with
// a stringified key so the engine sees uniform maps.
func normalizeYAML(v interface{}) interface{} {
	switch v := v.(type) {
	case map[string]interface{}:
		for key, item := range v {
			v[key] = normalizeYAML(item)
		}
		return v
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(v))
		for key, item := range v {
			m[fmt.Sprint(key)] = normalizeYAML(item)
		}
		return m
	case []interface{}:
		for i, item := range v {
			v[i] = normalizeYAML(item)
		}
		return v
	}
	return v
}

// renderError gives violations a line-per-violation rendering; everything else prints as-is.
func renderError(err error) string {
	var verr *engine.ViolationsError
	if !errors.As(err, &verr) {
		return err.Error()
	}
	var b strings.Builder
	b.WriteString("query validation failed:")
	for _, violation := range verr.Violations {
		fmt.Fprintf(&b, "\n  - %s", violation.Message)
		for _, loc := range violation.Locations {
			fmt.Fprintf(&b, " (line %d, column %d)", loc.Line, loc.Column)
		}
	}
	return b.String()
}
