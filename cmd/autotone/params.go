package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"image-autotone/internal/algorithms"
)

var paramsCmd = &cobra.Command{
	Use:   "params [node]",
	Short: "Print a node's metadata and parameter table",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runParams,
}

func init() {
	rootCmd.AddCommand(paramsCmd)
}

type nodeInfo struct {
	Name        string                     `yaml:"name"`
	DisplayName string                     `yaml:"display_name"`
	Category    string                     `yaml:"category"`
	Description string                     `yaml:"description"`
	Parameters  []algorithms.ParameterInfo `yaml:"parameters"`
}

func runParams(cmd *cobra.Command, args []string) error {
	name := algorithms.ImageAutotoneName
	if len(args) == 1 {
		name = args[0]
	}

	alg, ok := algorithms.Get(name)
	if !ok {
		return fmt.Errorf("algorithm not found: %s", name)
	}

	out, err := yaml.Marshal(nodeInfo{
		Name:        alg.GetName(),
		DisplayName: alg.GetDisplayName(),
		Category:    alg.GetCategory(),
		Description: alg.GetDescription(),
		Parameters:  alg.GetParameterInfo(),
	})
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
