// Node registry through which a host graph engine discovers and invokes
// image operations.
package algorithms

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"image-autotone/internal/autotone"
)

// Algorithm defines the interface for batch image operations.
type Algorithm interface {
	Apply(ctx context.Context, env Env, input *autotone.Batch, params map[string]interface{}) (*autotone.Batch, error)
	GetDefaultParams() map[string]interface{}
	GetName() string
	GetDisplayName() string
	GetCategory() string
	GetDescription() string
	Validate(params map[string]interface{}) error
	GetParameterInfo() []ParameterInfo
}

// Env carries execution settings that are not node parameters.
type Env struct {
	Logger  logrus.FieldLogger
	Workers int
}

// ParameterInfo describes a parameter for host UI generation
type ParameterInfo struct {
	Name        string      `json:"name" yaml:"name"`
	Type        string      `json:"type" yaml:"type"` // "float", "string"
	Min         interface{} `json:"min,omitempty" yaml:"min,omitempty"`
	Max         interface{} `json:"max,omitempty" yaml:"max,omitempty"`
	Step        interface{} `json:"step,omitempty" yaml:"step,omitempty"`
	Default     interface{} `json:"default" yaml:"default"`
	Description string      `json:"description" yaml:"description"`
}

var algorithms = make(map[string]Algorithm)

func Register(name string, algorithm Algorithm) {
	algorithms[name] = algorithm
}

func Get(name string) (Algorithm, bool) {
	algorithm, exists := algorithms[name]
	return algorithm, exists
}

func Apply(ctx context.Context, name string, env Env, input *autotone.Batch, params map[string]interface{}) (*autotone.Batch, error) {
	algorithm, exists := algorithms[name]
	if !exists {
		return nil, fmt.Errorf("algorithm not found: %s", name)
	}

	return algorithm.Apply(ctx, env, input, params)
}

func ValidateParameters(name string, params map[string]interface{}) error {
	algorithm, exists := algorithms[name]
	if !exists {
		return fmt.Errorf("algorithm not found: %s", name)
	}

	return algorithm.Validate(params)
}

func IsValidAlgorithm(name string) bool {
	_, exists := algorithms[name]
	return exists
}

func GetAllAlgorithms() map[string]Algorithm {
	result := make(map[string]Algorithm)
	for name, algorithm := range algorithms {
		result[name] = algorithm
	}
	return result
}

// GetAlgorithmsByCategory groups registered names by category tag, sorted.
func GetAlgorithmsByCategory() map[string][]string {
	result := make(map[string][]string)
	for name, algorithm := range algorithms {
		result[algorithm.GetCategory()] = append(result[algorithm.GetCategory()], name)
	}
	for _, names := range result {
		sort.Strings(names)
	}
	return result
}

func init() {
	Register(ImageAutotoneName, NewImageAutotone())
}
