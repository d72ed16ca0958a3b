package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"surge-timeline/internal/timeline/streamgen"
)

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Inspect or export the static stream registry manifest",
}

var manifestDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the built-in stream manifest as JSON",
	RunE:  dumpManifest,
}

var manifestExportCmd = &cobra.Command{
	Use:   "export <path>",
	Short: "Write the built-in stream manifest to a msgpack sidecar file",
	Args:  cobra.ExactArgs(1),
	RunE:  exportManifest,
}

var manifestInspectCmd = &cobra.Command{
	Use:   "inspect <path>",
	Short: "Read back a msgpack manifest sidecar file and print it as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  inspectManifest,
}

func init() {
	manifestCmd.AddCommand(manifestDumpCmd, manifestExportCmd, manifestInspectCmd)
}

func dumpManifest(cmd *cobra.Command, args []string) error {
	return writeManifestJSON(cmd, streamgen.DefaultManifest())
}

func exportManifest(cmd *cobra.Command, args []string) error {
	if err := streamgen.WriteFile(args[0], streamgen.DefaultManifest()); err != nil {
		return fmt.Errorf("manifest export: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote manifest to %s\n", args[0])
	return nil
}

func inspectManifest(cmd *cobra.Command, args []string) error {
	m, err := streamgen.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("manifest inspect: %w", err)
	}
	return writeManifestJSON(cmd, m)
}

func writeManifestJSON(cmd *cobra.Command, m streamgen.Manifest) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}
