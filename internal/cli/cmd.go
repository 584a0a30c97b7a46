// Package cli implements the metalcal command.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"MetalCal/internal/calc/report"
	"MetalCal/internal/calc/sheet"
	"MetalCal/internal/catalog"
	"MetalCal/internal/config"
	"MetalCal/internal/field"
	"MetalCal/internal/share"
	"MetalCal/internal/web"
)

const Version = "0.1.0"

// NewRoot builds the command tree. Settings come from .env, the ini file
// named by METALCAL_CONFIG and the environment, as for the server.
func NewRoot() *cobra.Command {
	root := &cobra.Command{
		Use:   "metalcal",
		Short: "Metallurgical calculators.",
		Long: `metalcal evaluates the metallurgical calculators from the command line:
rolling force, diffusion depth, fusion energy, mass balance, lever rule and
solidification time. Inputs are given as name=value pairs with --set; fields
that are left out are an error unless --defaults is given.`,
		SilenceUsage:      true,
		DisableAutoGenTag: true,
	}
	root.AddCommand(listCmd(), calcCmd(), reportCmd(), exportCmd(), shareCmd(), versionCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "MetalCal v%s\n", Version)
		},
		DisableAutoGenTag: true,
	}
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the calculators and their fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cat, err := load()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, f := range cat.All() {
				fmt.Fprintf(tw, "%s\t%s\n", f.ID, f.Title)
				for _, s := range f.Fields {
					fmt.Fprintf(tw, "\t  %s\t%s\t%s\t%s\n", s.Name, field.FormatInput(s.Default), s.Unit, s.Description)
				}
			}
			return tw.Flush()
		},
		DisableAutoGenTag: true,
	}
}

type inputFlags struct {
	set      map[string]string
	defaults bool
}

func (in *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringToStringVar(&in.set, "set", nil, "input values, e.g. --set h0=10,hf=5")
	cmd.Flags().BoolVar(&in.defaults, "defaults", false, "fill fields that are not set with their defaults")
}

// resolve looks up the formula named by args[0] and resolves the --set
// values against it.
func (in *inputFlags) resolve(cat *catalog.Catalog, id string) (*catalog.Formula, map[string]float64, error) {
	f, err := cat.Lookup(id)
	if err != nil {
		return nil, nil, err
	}
	known := make(map[string]bool, len(f.Fields))
	for _, s := range f.Fields {
		known[s.Name] = true
	}
	var unknown []string
	for k := range in.set {
		if !known[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, nil, fmt.Errorf("%s has no field %s", f.ID, strings.Join(unknown, ", "))
	}
	values, err := field.ParseValues(f.Fields, func(name string) string { return in.set[name] })
	if err != nil {
		return nil, nil, err
	}
	v, err := f.Resolve(values, in.defaults)
	if err != nil {
		return nil, nil, err
	}
	return f, v, nil
}

func calcCmd() *cobra.Command {
	var in inputFlags
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "calc <formula>",
		Short: "Evaluate one calculator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cat, err := load()
			if err != nil {
				return err
			}
			f, v, err := in.resolve(cat, args[0])
			if err != nil {
				return err
			}
			res := f.Evaluate(v)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			return printResult(cmd.OutOrStdout(), res)
		},
		DisableAutoGenTag: true,
	}
	in.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

func printResult(w io.Writer, res catalog.Result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, res.Title)
	fmt.Fprintln(tw, "Inputs")
	for _, v := range res.Inputs {
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", v.Label, v.Text, v.Unit)
	}
	fmt.Fprintln(tw, "Results")
	for _, v := range res.Outputs {
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", v.Label, v.Text, v.Unit)
	}
	if len(res.Example) > 0 {
		fmt.Fprintln(tw, "Numerical example")
		for _, line := range res.Example {
			fmt.Fprintf(tw, "  %s\n", line)
		}
	}
	return tw.Flush()
}

func reportCmd() *cobra.Command {
	var in inputFlags
	var meta report.Input
	var out string
	cmd := &cobra.Command{
		Use:   "report <formula>",
		Short: "Write a PDF report of one evaluation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cat, err := load()
			if err != nil {
				return err
			}
			f, v, err := in.resolve(cat, args[0])
			if err != nil {
				return err
			}
			return writeFile(cmd, out, func(w io.Writer) error {
				return report.Write(w, meta, f, f.Evaluate(v), time.Now())
			})
		},
		DisableAutoGenTag: true,
	}
	in.register(cmd)
	cmd.Flags().StringVarP(&out, "output", "o", "report.pdf", "output file")
	cmd.Flags().StringVar(&meta.Project, "project", "", "project name")
	cmd.Flags().StringVar(&meta.Author, "author", "", "author")
	cmd.Flags().StringVar(&meta.Title, "title", "", "report title")
	cmd.Flags().StringVar(&meta.Notes, "notes", "", "free text notes")
	return cmd
}

func exportCmd() *cobra.Command {
	var in inputFlags
	var out string
	cmd := &cobra.Command{
		Use:   "export <formula>",
		Short: "Write an XLSX workbook of one evaluation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cat, err := load()
			if err != nil {
				return err
			}
			f, v, err := in.resolve(cat, args[0])
			if err != nil {
				return err
			}
			pts, _ := f.PreviewCurve(v)
			return writeFile(cmd, out, func(w io.Writer) error {
				return sheet.Export(w, f, f.Evaluate(v), pts)
			})
		},
		DisableAutoGenTag: true,
	}
	in.register(cmd)
	cmd.Flags().StringVarP(&out, "output", "o", "result.xlsx", "output file")
	return cmd
}

func shareCmd() *cobra.Command {
	var in inputFlags
	cmd := &cobra.Command{
		Use:   "share <formula>",
		Short: "Print a share token for one evaluation",
		Long: `share signs the inputs into a token the server accepts at /share/<token>.
The server and this command must use the same METALCAL_SHARE_KEY.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, cat, err := load()
			if err != nil {
				return err
			}
			if cfg.GeneratedKey {
				return share.ErrNoKey
			}
			f, v, err := in.resolve(cat, args[0])
			if err != nil {
				return err
			}
			signer, err := share.NewSigner(cfg.ShareKey, cfg.ShareTTL)
			if err != nil {
				return err
			}
			token, err := signer.Sign(f.ID, v)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, token)
			if cfg.BaseURL != "" {
				base := strings.TrimRight(cfg.BaseURL, "/")
				fmt.Fprintln(out, base+"/share/"+token)
				fmt.Fprintln(out, base+"/tools/"+f.ID+"?calc=1&"+web.Query(v).Encode())
			}
			return nil
		},
		DisableAutoGenTag: true,
	}
	in.register(cmd)
	return cmd
}

func load() (*config.Config, *catalog.Catalog, error) {
	cfg, err := config.Load(".env")
	if err != nil {
		return nil, nil, err
	}
	cat, err := catalog.New(cfg.File)
	if err != nil {
		return nil, nil, err
	}
	return cfg, cat, nil
}

func writeFile(cmd *cobra.Command, path string, write func(io.Writer) error) error {
	if path == "-" {
		return write(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return err
	}
	cmd.PrintErrf("wrote %s\n", path)
	return nil
}
