// Command yaml_pricing loads a graph definition from a YAML document,
// resolves it through a job factory and the parameter-group fan-out, and
// runs each resulting concrete graph once through the engine directly
// (bypassing the pipeline, unlike the pricing_pipeline example).
package main

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/taskmesh/engine/backend/pkg/engine"
	"github.com/taskmesh/engine/backend/pkg/job"
	"github.com/taskmesh/engine/backend/pkg/loader"
)

const document = `
graphs:
  checkout:
    base_price:
      next: [apply_discount]
    apply_discount:
      next: []
jobs:
  base_price:
    type: constant
    properties:
      value: 80.0
  apply_discount:
    type: percent_off
    properties:
      percent: 10

parameters:
  checkout:
    standard: {}
    loyalty_member:
      apply_discount:
        percent: 25
`

// catalog maps job types declared in the YAML document to concrete job.Job
// implementations, grounding the loader's declarative config in real code.
func catalog() loader.JobFactory {
	return loader.FactoryFunc(func(jobType string, properties map[string]any) (job.Job, error) {
		switch jobType {
		case "constant":
			value := properties["value"].(float64)
			return job.NewFunc(jobType, func(ctx context.Context, inputs job.Inputs) (job.Outputs, error) {
				return job.Outputs{"price": value}, nil
			}), nil
		case "percent_off":
			percent := properties["percent"].(int)
			return job.NewFunc(jobType, func(ctx context.Context, inputs job.Inputs) (job.Outputs, error) {
				// The loader qualifies predecessor names per parameter group,
				// so the price is read from the single predecessor's output.
				var base float64
				for _, out := range inputs {
					base = out["price"].(float64)
				}
				return job.Outputs{"charge": base * (1 - float64(percent)/100)}, nil
			}), nil
		default:
			return nil, fmt.Errorf("yaml_pricing: unknown job type %q", jobType)
		}
	})
}

func main() {
	doc, err := loader.NewYAMLLoader().Load([]byte(document))
	if err != nil {
		log.Fatalf("load: %v", err)
	}

	graphs, err := loader.BuildGraphs(doc, catalog())
	if err != nil {
		log.Fatalf("build graphs: %v", err)
	}

	names := make([]string, 0, len(graphs))
	for name := range graphs {
		names = append(names, name)
	}
	sort.Strings(names)

	ctx := context.Background()
	for _, name := range names {
		eng := engine.New(graphs[name], name)
		result, err := eng.Execute(ctx, "", nil)
		if err != nil {
			log.Fatalf("execute %q: %v", name, err)
		}
		fmt.Printf("%-30s -> %+v\n", name, result)
	}
}
