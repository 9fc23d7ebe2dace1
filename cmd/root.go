// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Heliodata

// Package cmd provides the root command for the skyhook CLI.
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/heliodata/skyhook"
	"github.com/heliodata/skyhook/config"
	configv0 "github.com/heliodata/skyhook/config/v0"
	"github.com/heliodata/skyhook/credentials"
	"github.com/heliodata/skyhook/descriptor"
	"github.com/heliodata/skyhook/sources"
)

// NewRootCmd creates the root command for the skyhook CLI.
func NewRootCmd() *cobra.Command {
	var (
		level      string
		ver        bool
		explain    bool
		schemaName string
		source     = sources.DefaultSource() // VarP does not allow you to set a default value
		profile    string
		credsPath  string
		filterExpr string
		strict     bool
		output     string
		configPath string
	)

	var cfg *configv0.Config // cfg is not set via CLI flag

	// closure initializer
	loadConfig := func(cmd *cobra.Command) error {
		fsys := afero.NewOsFs()

		switch {
		case cmd.Flags().Changed("config"):
			path := os.ExpandEnv(configPath)
			if ok, err := afero.Exists(fsys, path); err != nil || !ok {
				return fmt.Errorf("failed to open config file: %q", path)
			}
			var err error
			cfg, err = configv0.LoadConfigFrom(fsys, path)
			if err != nil {
				return fmt.Errorf("failed to load config file: %w", err)
			}
		case os.Getenv("SKYHOOK_CONFIG") != "":
			var err error
			cfg, err = configv0.LoadConfigFrom(fsys, os.Getenv("SKYHOOK_CONFIG"))
			if err != nil {
				return fmt.Errorf("failed to load config file: %w", err)
			}
		default:
			var err error
			cfg, err = configv0.LoadDefaultConfig()
			if err != nil {
				return err
			}
		}

		// default < cfg < flags
		if !cmd.Flags().Changed("source") && cfg.DefaultSource != "" {
			if err := source.Set(cfg.DefaultSource); err != nil {
				return err // config validates source tokens during loading, this error is basically impossible to trigger, but leaving in case a regression happens in schema validation
			}
		}
		if !cmd.Flags().Changed("profile") && cfg.Profile != "" {
			profile = cfg.Profile
		}
		if !cmd.Flags().Changed("credentials") && cfg.CredentialsPath != "" {
			credsPath = cfg.CredentialsPath
		}

		return nil
	}

	root := &cobra.Command{
		Use:   "skyhook [record.json...]",
		Short: "Resolve archive data product records to fetchable locations",
		Example: `
skyhook record.json

skyhook -s aws:us-east-1 record.json

curl -s https://archive.example.com/api/product/123 | skyhook -o uri

skyhook --explain --profile heasarc record.json
`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadConfig(cmd)
		},
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			l, err := log.ParseLevel(level)
			if err != nil {
				return err
			}
			logger := log.FromContext(cmd.Context())
			logger.SetLevel(l)

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := log.FromContext(ctx)

			if ver && len(args) == 0 {
				bi, ok := debug.ReadBuildInfo()
				if !ok {
					return fmt.Errorf("version information not available")
				}
				switch bi.Main.Path {
				case "github.com/heliodata/skyhook":
					fmt.Fprintln(os.Stdout, bi.Main.Version)
				default:
					for _, dep := range bi.Deps {
						if dep.Path == "github.com/heliodata/skyhook" {
							fmt.Fprintln(os.Stdout, dep.Version)
							break
						}
					}
				}
				return nil
			}

			if schemaName != "" {
				schema, err := skyhook.SchemaFor(schemaName)
				if err != nil {
					return err
				}
				b, err := json.MarshalIndent(schema, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(os.Stdout, string(b))
				return nil
			}

			fs := afero.NewOsFs()

			if alias, ok := cfg.Aliases[source.Token]; ok {
				logger.Debug("resolved source alias", "alias", source.Token, "source", alias)
				if err := source.Set(alias); err != nil {
					return err
				}
			}

			filter, err := sources.CompileFilter(filterExpr)
			if err != nil {
				return err
			}

			credsPath = filepath.Clean(os.ExpandEnv(credsPath))
			store := credentials.NewFileStore(fs, credsPath)

			opts := skyhook.ResolveOptions{
				Profile: profile,
				Store:   store,
				Filter:  filter,
				Strict:  strict,
			}

			records, err := readRecords(fs, cmd, args)
			if err != nil {
				return err
			}

			if explain {
				if len(records) != 1 {
					return fmt.Errorf("--explain takes exactly one record, got %d", len(records))
				}
				md, err := skyhook.Explain(ctx, records[0], source, opts)
				if err != nil {
					return err
				}
				return renderMarkdown(cmd.OutOrStdout(), md)
			}

			if len(records) == 1 {
				handle, err := skyhook.Resolve(ctx, records[0], source, opts)
				if err != nil {
					return err
				}
				return printHandles(logger, output, handle)
			}

			handles, err := skyhook.ResolveAll(ctx, records, source, opts)
			if err != nil {
				return err
			}
			return printHandles(logger, output, handles...)
		},
	}

	root.Flags().StringVarP(&level, "log-level", "l", "info", "Set log level")
	_ = root.RegisterFlagCompletionFunc("log-level", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{log.DebugLevel.String(), log.InfoLevel.String(), log.WarnLevel.String(), log.ErrorLevel.String(), log.FatalLevel.String()}, cobra.ShellCompDirectiveNoFileComp
	})
	root.Flags().BoolVarP(&ver, "version", "V", false, "Print version number and exit")
	root.Flags().BoolVar(&explain, "explain", false, "Print explanation of the resolution and exit")
	root.Flags().StringVar(&schemaName, "schema", "", `Print a published JSON schema ("descriptor", "config") and exit`)
	_ = root.RegisterFlagCompletionFunc("schema", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{skyhook.SchemaDescriptor, skyhook.SchemaConfig}, cobra.ShellCompDirectiveNoFileComp
	})
	root.Flags().VarP(&source, "source", "s", `Requested source as provider[:region], e.g. "aws:us-east-1"`)
	_ = root.RegisterFlagCompletionFunc("source", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return append(descriptor.KnownProviders(), sources.DefaultToken), cobra.ShellCompDirectiveNoFileComp
	})
	root.Flags().StringVarP(&profile, "profile", "p", "", "Credential profile to use for restricted data")
	root.Flags().StringVar(&credsPath, "credentials", "${HOME}/.skyhook/"+config.DefaultCredentialsFileName, "Path to the credential profile store")
	_ = root.MarkFlagFilename("credentials", "yaml", "yml")
	root.Flags().StringVar(&filterExpr, "filter", "", `Candidate filter expression, e.g. 'region startsWith "us-"'`)
	root.Flags().BoolVar(&strict, "strict", false, "Treat descriptor parse errors as fatal")
	root.Flags().StringVarP(&output, "output", "o", "pretty", `Output format ("pretty", "json", "uri")`)
	_ = root.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"pretty", "json", "uri"}, cobra.ShellCompDirectiveNoFileComp
	})
	root.Flags().StringVar(&configPath, "config", "${HOME}/.skyhook/"+config.DefaultFileName, "Path to skyhook config file") // mirrors config.DefaultDirectory
	_ = root.MarkFlagFilename("config", "yaml", "yml")

	return root
}

// readRecords loads one record per file argument, or a single record from
// stdin when no arguments are given
func readRecords(fs afero.Fs, cmd *cobra.Command, args []string) ([]skyhook.Record, error) {
	if len(args) == 0 {
		record, err := skyhook.ReadRecord(cmd.InOrStdin())
		if err != nil {
			return nil, err
		}
		return []skyhook.Record{record}, nil
	}

	records := make([]skyhook.Record, 0, len(args))
	for _, arg := range args {
		f, err := fs.Open(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to open record %q: %w", arg, err)
		}
		record, err := skyhook.ReadRecord(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", arg, err)
		}
		records = append(records, record)
	}
	return records, nil
}

func printHandles(logger *log.Logger, output string, handles ...skyhook.FetchHandle) error {
	switch output {
	case "pretty":
		for _, handle := range handles {
			skyhook.PrintHandle(logger, handle)
		}
	case "uri":
		for _, handle := range handles {
			fmt.Fprintln(os.Stdout, handle.URI)
		}
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		for _, handle := range handles {
			if err := enc.Encode(handle); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("invalid output format: %q", output)
	}
	return nil
}

func renderMarkdown(w io.Writer, md string) error {
	if termenv.EnvNoColor() {
		fmt.Fprintln(w, strings.TrimSpace(md))
		return nil
	}

	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		return err
	}
	out, err := r.Render(md)
	if err != nil {
		return err
	}
	fmt.Fprint(w, out)
	return nil
}

// Main executes the root command for the skyhook CLI.
//
// It returns 0 on success, 1 on failure and logs any errors.
func Main() int {
	cli := NewRootCmd()

	ctx := context.Background()

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGTERM)
	defer cancel()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
	})

	logger.SetStyles(DefaultStyles())

	ctx = log.WithContext(ctx, logger)
	_, err := cli.ExecuteContextC(ctx)
	if err != nil {
		var cErr *credentials.CredentialError
		if errors.As(err, &cErr) && len(cErr.Steps) > 0 {
			logger.Error(cErr.Reason, "tried", strings.Join(cErr.Steps, ", "))
		} else {
			logger.Error(err)
		}
	}
	return ParseExitCode(err)
}

// ParseExitCode calculates the exit code from a given error
//
// 0 - the error was nil
// 1 - there was some error
func ParseExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}
