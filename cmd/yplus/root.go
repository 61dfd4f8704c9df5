package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strconv"
	"strings"

	"Yplus/internal/calc/importer"
	"Yplus/internal/calc/inverse"
	"Yplus/internal/calc/yplus"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var exampleUsage = strings.TrimSpace(`
  yplus calc --re 1e5 --length 1 --density 1.225 --viscosity 1.8e-5 --yplus 30
  yplus calc --yplus 1 --symbol Δs --json
  yplus inverse --re 2e6 --height 1e-5
  yplus import cases.xlsx
`)

// Flag name for each input field.
var flagNames = map[string]string{
	yplus.FieldReynolds:  "re",
	yplus.FieldLength:    "length",
	yplus.FieldDensity:   "density",
	yplus.FieldViscosity: "viscosity",
	yplus.FieldYPlus:     "yplus",
}

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func newRootCmd() *cobra.Command {
	var symbol string
	root := &cobra.Command{
		Use:          "yplus",
		Short:        "First cell height for a target y+ from a flat-plate boundary layer estimate",
		Example:      exampleUsage,
		Version:      getVersion(),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if symbol != "y" && symbol != "Δs" {
				return fmt.Errorf("--symbol must be \"y\" or \"Δs\", got %q", symbol)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&symbol, "symbol", "y", `label of the first cell height ("y" or "Δs")`)
	style := func() yplus.Style { return yplus.Style{CellHeightSymbol: symbol} }

	root.AddCommand(newCalcCmd(style), newInverseCmd(), newImportCmd(style))
	return root
}

// addFieldFlags registers one text flag per field, defaulting to the sample
// values. Flags stay strings so parsing matches the web form.
func addFieldFlags(fs *pflag.FlagSet, skip string) map[string]*string {
	values := make(map[string]*string, len(yplus.Fields))
	for _, f := range yplus.Fields {
		if f.Name == skip {
			continue
		}
		usage := f.Label
		if f.Unit != "" {
			usage += " in " + f.Unit
		}
		values[f.Name] = fs.String(flagNames[f.Name], strconv.FormatFloat(f.Default, 'g', -1, 64), usage)
	}
	return values
}

func collect(values map[string]*string) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		out[k] = *v
	}
	return out
}

func printFieldErrors(w io.Writer, err error) {
	var verrs yplus.ValidationErrors
	if !errors.As(err, &verrs) {
		return
	}
	for _, fe := range verrs {
		fmt.Fprintf(w, "--%s: %s\n", flagNames[fe.Field], fe.Error())
	}
}

func newCalcCmd(style func() yplus.Style) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Calculate the first cell height",
		Args:  cobra.NoArgs,
	}
	values := addFieldFlags(cmd.Flags(), "")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		input, err := yplus.ParseFields(collect(values))
		if err != nil {
			printFieldErrors(cmd.ErrOrStderr(), err)
			return errors.New("invalid input")
		}
		res, err := yplus.Evaluate(input, style())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}
		for _, l := range res.Lines {
			fmt.Fprintln(out, l.String())
		}
		for _, w := range res.Warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
		}
		return nil
	}
	return cmd
}

func newInverseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inverse",
		Short: "Calculate the y+ achieved by a given first cell height",
		Args:  cobra.NoArgs,
	}
	values := addFieldFlags(cmd.Flags(), yplus.FieldYPlus)
	height := cmd.Flags().Float64("height", 0, "first cell height in m")
	cmd.MarkFlagRequired("height")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		raw := collect(values)
		raw[yplus.FieldYPlus] = "1"
		flow, err := yplus.ParseFields(raw)
		if err != nil {
			printFieldErrors(cmd.ErrOrStderr(), err)
			return errors.New("invalid input")
		}
		res, err := inverse.Calculate(inverse.Input{
			ReynoldsNumber:        flow.ReynoldsNumber,
			CharacteristicLengthM: flow.CharacteristicLengthM,
			DensityKgM3:           flow.DensityKgM3,
			ViscosityPaS:          flow.ViscosityPaS,
			FirstCellHeightM:      *height,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "y+: %.6f\nFrictional Velocity (uτ): %.6f m/s\n", res.YPlus, res.FrictionVelocityMS)
		for _, w := range res.Warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
		}
		return nil
	}
	return cmd
}

func newImportCmd(style func() yplus.Style) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.xlsx>",
		Short: "Calculate every row of a workbook (Re, L, rho, mu, y+ after a header row)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			res, err := importer.Import(f, style())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, row := range res.Rows {
				if row.Error != nil {
					msg := row.Error.Error
					if len(row.Error.Fields) > 0 {
						msg = row.Error.Fields.Error()
					}
					fmt.Fprintf(out, "row %d: error: %s\n", row.Number, msg)
					continue
				}
				fmt.Fprintf(out, "row %d: %s\n", row.Number, row.Result.Lines[len(row.Result.Lines)-1].String())
			}
			fmt.Fprintf(out, "%d succeeded, %d failed\n", res.Succeeded, res.Failed)
			return nil
		},
	}
}
