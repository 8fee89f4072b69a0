package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var inlineCmd = &cobra.Command{
	Use:   "inline FILE ID",
	Short: "Print the solid ID of FILE as triangle lines",
	Args:  cobra.ExactArgs(2),
	RunE:  runInline,
}

var reinlineCmd = &cobra.Command{
	Use:   "reinline FILE ID",
	Short: "Re-emit the primitive ID of FILE with a new placement",
	Long: `Prints the primitive directive that last writes ID in FILE, with its
matrix replaced by --matrix applied after its own. When the primitive's colour
equals --override it is written as 16.`,
	Args: cobra.ExactArgs(2),
	RunE: runReinline,
}

func init() {
	inlineCmd.Flags().Bool("edges", false, "also print boundary edge lines")
	_ = viper.BindPFlag("edges", inlineCmd.Flags().Lookup("edges"))
	rootCmd.AddCommand(inlineCmd)

	reinlineCmd.Flags().String("matrix", "0 0 0 1 0 0 0 1 0 0 0 1", "placement as x y z a b c d e f g h i")
	reinlineCmd.Flags().String("override", "", "colour written as 16 when the primitive uses it")
	rootCmd.AddCommand(reinlineCmd)
}

func runInline(cmd *cobra.Command, args []string) error {
	app, _, err := newAppFromConfig(cmd, nil)
	if err != nil {
		return err
	}
	if _, err := openAll(cmd.Context(), app, args[:1]); err != nil {
		return err
	}
	text, err := app.Inline(args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), text)
	return nil
}

func runReinline(cmd *cobra.Command, args []string) error {
	app, _, err := newAppFromConfig(cmd, nil)
	if err != nil {
		return err
	}
	ms, _ := cmd.Flags().GetString("matrix")
	override, _ := cmd.Flags().GetString("override")
	m, err := parseMatrix(ms)
	if err != nil {
		return err
	}
	if _, err := openAll(cmd.Context(), app, args[:1]); err != nil {
		return err
	}
	line, err := app.Reinline(args[0], args[1], override, m)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), line)
	return nil
}
