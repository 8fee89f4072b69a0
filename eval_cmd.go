package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var evalCmd = &cobra.Command{
	Use:   "eval FILE...",
	Short: "Evaluate part documents and summarize the compiled meshes",
	Long: `Reads every FILE, runs one evaluation sweep over all of them in argument
order and prints one line per compiled mesh, followed by the directives that
could not be evaluated.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEval,
}

func init() {
	evalCmd.Flags().Bool("json", false, "print the full result as JSON")
	evalCmd.Flags().String("stl", "", "also write each compiled solid as an STL file into this directory")
	rootCmd.AddCommand(evalCmd)
}

func runEval(cmd *cobra.Command, args []string) error {
	app, _, err := newAppFromConfig(cmd, nil)
	if err != nil {
		return err
	}
	result, err := openAll(cmd.Context(), app, args)
	if err != nil {
		return err
	}

	if dir, _ := cmd.Flags().GetString("stl"); dir != "" {
		paths, err := app.ExportSTL(dir)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", p)
		}
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	printSummary(cmd.OutOrStdout(), result)
	return nil
}

func printSummary(w io.Writer, r EvalResult) {
	for _, m := range r.Meshes {
		fmt.Fprintf(w, "%-32s %6d triangles %6d vertices\n", m.PartName, len(m.Indices)/3, len(m.Vertices)/3)
	}
	for _, l := range r.Inert {
		fmt.Fprintf(w, "%s:%d: not evaluated: %s\n", l.Document, l.Line, l.Text)
	}
	for _, f := range r.Findings {
		fmt.Fprintln(w, f)
	}
	fmt.Fprintf(w, "%d meshes, epsilon %g", len(r.Meshes), r.Epsilon)
	if r.Rebuilt {
		fmt.Fprint(w, ", rebuilt")
	}
	fmt.Fprintln(w)
}
