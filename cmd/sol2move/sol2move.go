// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/config"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/ir"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/solast"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/transform"
)

// Version is stamped by the release build.
var Version string

const (
	configF  = "config"
	emitASTF = "emit-ast"
	dumpIRF  = "dump-ir"
	adviseF  = "advise"
	jobsF    = "jobs"

	configUsage  = "The yaml project file layered between defaults and flags."
	emitASTUsage = "Directory receiving one module AST json per contract, for the pretty-printer."
	dumpIRUsage  = "Print the flattened contract records instead of transpiling."
	adviseUsage  = "Render the storage partitioning advisory table."
	jobsUsage    = "Concurrent contract transforms. Zero uses every available core."
)

var cfgFile string

// NewCmd builds the root command. Inputs are AST json files emitted by the
// front-end parser, one source unit each.
func NewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sol2move [flags] <unit.json>...",
		Short:   "Transpile Solidity compilation units into Aptos Move modules.",
		Version: Version,
		Args:    cobra.MinimumNArgs(1),
		RunE:    run,
	}

	cmd.Flags().StringVar(&cfgFile, configF, "", configUsage)
	cmd.Flags().String(emitASTF, "", emitASTUsage)
	cmd.Flags().Bool(dumpIRF, false, dumpIRUsage)
	cmd.Flags().Bool(adviseF, false, adviseUsage)
	cmd.Flags().Int(jobsF, 0, jobsUsage)
	optionFlags(cmd)

	return cmd
}

// optionFlags registers one flag per transform option, named after its
// mapstructure key so viper can unmarshal flags and the project file alike.
func optionFlags(cmd *cobra.Command) {
	d := config.DefaultOptions()
	f := cmd.Flags()
	f.String("address", d.Address, "Named address the emitted modules are published under.")
	f.String("module-name", d.ModuleName, "Module name override; empty derives snake_case from the contract name.")
	f.String("optimization-tier", d.OptimizationTier, "Storage partitioning strategy: low, medium or high.")
	f.Bool("strict", d.Strict, "Treat foldability warnings as errors.")
	f.String("reentrancy-guard", d.ReentrancyGuard, "Reentrancy modifier realization: mutex or none.")
	f.String("string-repr", d.StringRepr, "Representation of source strings: string or raw-bytes.")
	f.Bool("inline-hints", d.InlineHints, "Mark small private functions inline.")
	f.Bool("emit-comments", d.EmitComments, "Carry source doc comments onto emitted declarations.")
	f.Bool("view-annotations", d.ViewAnnotations, "Annotate read-only public functions #[view].")
	f.String("error-reporting", d.ErrorReporting, "Abort style: abort-codes or verbose.")
	f.String("enum-repr", d.EnumRepr, "Enum realization: native-variant or integer-constants.")
	f.String("constructor-pattern", d.ConstructorPattern, "Deployment scaffold: direct-deployer, resource-account or named-object.")
	f.String("internal-visibility", d.InternalVisibility, "Visibility of source-internal functions: private or friend.")
	f.String("overflow-policy", d.OverflowPolicy, "Unchecked-block arithmetic: abort or wrapping.")
	f.String("map-backing", d.MapBacking, "Container backing mappings: hash-table or ordered-table.")
	f.String("access-control", d.AccessControl, "Owner checks: inline-assert or capability-object.")
	f.String("upgradeability", d.Upgradeability, "Publish model: immutable or resource-account-controlled.")
	f.String("optional-repr", d.OptionalRepr, "Absent-value representation: sentinel-zero-address or option-type.")
	f.String("call-style", d.CallStyle, "Emitted call syntax: module-qualified or receiver-syntax.")
	f.String("event-style", d.EventStyle, "Event emission: native-event, handle-based or none.")
	f.String("authority-param", d.AuthorityParam, "Name of the synthesized caller parameter.")
	f.Bool("emit-all-standard-errors", d.EmitAllStandardErrors, "Emit the whole standard error catalog instead of referenced entries only.")
	f.Int("error-code-width", d.ErrorCodeWidth, "Bit width of emitted error constants: 8, 16, 32 or 64.")
	f.Bool("index-syntax", d.IndexSyntax, "Emit bracket indexing where the target supports it.")
	f.String("acquires-style", d.AcquiresStyle, "Acquires annotations: explicit or compiler-inferred.")
}

// resolveOptions layers the project file and explicit flags over the
// documented defaults and validates the result.
func resolveOptions(cmd *cobra.Command) (config.Options, error) {
	opts := config.DefaultOptions()

	v := viper.New()
	if cfgFile != "" {
		v.SetConfigType("yaml")
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return opts, errors.Wrap(err, "read project file")
		}
	}
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return opts, err
	}
	if err := v.Unmarshal(&opts); err != nil {
		return opts, errors.Wrap(err, "decode options")
	}
	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

func run(cmd *cobra.Command, args []string) error {
	start := time.Now()

	opts, err := resolveOptions(cmd)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	jobs, _ := flags.GetInt(jobsF)
	emitDir, _ := flags.GetString(emitASTF)
	dumpIR, _ := flags.GetBool(dumpIRF)
	advise, _ := flags.GetBool(adviseF)

	var contracts, errCount, warnCount int
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrap(err, "read input")
		}
		if dumpIR {
			if err := dumpUnit(cmd.OutOrStdout(), data); err != nil {
				return errors.Wrapf(err, "dump %s", path)
			}
			continue
		}

		unit, err := transform.TranspileJSON(data, opts, jobs)
		if err != nil {
			return errors.Wrapf(err, "decode %s", path)
		}
		printDiagnostics(path, unit)
		warnCount += len(unit.Warnings)
		for _, c := range unit.Contracts {
			contracts++
			errCount += len(c.Errors)
			warnCount += len(c.Warnings)
		}
		if advise {
			printAdvisories(cmd.OutOrStdout(), unit)
		}
		if emitDir != "" {
			if err := writeModules(emitDir, unit); err != nil {
				return err
			}
		}
	}
	if dumpIR {
		return nil
	}

	elapsed := formatDuration(time.Since(start))
	if errCount > 0 {
		color.Red("Transpilation failed with %d error(s), %d warning(s) after %s", errCount, warnCount, elapsed)
		os.Exit(1)
	}
	color.Green("Transpiled %d contract(s) with %d warning(s) in %s", contracts, warnCount, elapsed)
	return nil
}

// writeModules emits the interchange json of every transformed module into
// dir, named after the module so the pretty-printer maps files one to one.
func writeModules(dir string, unit *transform.UnitResult) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "create output directory")
	}
	for _, c := range unit.Contracts {
		if c.Module == nil {
			continue
		}
		data, err := c.Module.EncodeJSON()
		if err != nil {
			return errors.Wrapf(err, "encode module for %s", c.Name)
		}
		path := filepath.Join(dir, c.Module.Name+".move.json")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return errors.Wrapf(err, "write %s", path)
		}
	}
	return nil
}

// dumpUnit prints the flattened record of every contract in the unit, the
// view the transform passes actually consume.
func dumpUnit(w io.Writer, data []byte) error {
	unit, err := solast.DecodeSourceUnit(data)
	if err != nil {
		return err
	}
	contracts, registry := ir.BuildUnit(unit)
	for _, c := range contracts {
		flat, _ := ir.Flatten(c, registry)
		fmt.Fprintln(w, ir.Print(flat))
	}
	return nil
}
