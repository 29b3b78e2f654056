package loader

import (
	"fmt"
	"sort"

	"golang.org/x/text/cases"

	"github.com/taskmesh/engine/backend/pkg/builder"
	"github.com/taskmesh/engine/backend/pkg/graph"
	"github.com/taskmesh/engine/backend/pkg/job"
)

var fold = cases.Fold()

func normalize(name string) string {
	return fold.String(name)
}

// BuildGraphs resolves every graph in doc into a wired builder.Result,
// instantiating jobs via factory. A graph with one or more parameter
// groups yields one concrete result per group, keyed by
// "<graph>$$<param_group>"; a graph with none yields one result keyed by
// its own name.
func BuildGraphs(doc *Document, factory JobFactory) (map[string]*builder.Result, error) {
	results := make(map[string]*builder.Result, len(doc.Graphs))

	for graphName, nodeDefs := range doc.Graphs {
		groups := doc.Parameters[graphName]
		if len(groups) == 0 {
			res, err := buildGraph(graphName, "", nodeDefs, doc.Jobs, nil, factory)
			if err != nil {
				return nil, err
			}
			results[graphName] = res
			continue
		}

		groupNames := make([]string, 0, len(groups))
		for g := range groups {
			groupNames = append(groupNames, g)
		}
		sort.Strings(groupNames)

		for _, group := range groupNames {
			concreteName := graphName + "$$" + group
			if _, exists := results[concreteName]; exists {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateName, concreteName)
			}
			res, err := buildGraph(graphName, group, nodeDefs, doc.Jobs, groups[group], factory)
			if err != nil {
				return nil, err
			}
			results[concreteName] = res
		}
	}

	return results, nil
}

func buildGraph(graphName, group string, nodeDefs map[string]NodeDef, jobSpecs map[string]JobSpec, overrides map[string]map[string]any, factory JobFactory) (*builder.Result, error) {
	normalizedDefs := make(map[string]NodeDef, len(nodeDefs))
	originalNames := make(map[string]string, len(nodeDefs))
	for name, def := range nodeDefs {
		n := normalize(name)
		normalizedDefs[n] = def
		originalNames[n] = name
	}

	for overriddenJob := range overrides {
		if _, ok := normalizedDefs[normalize(overriddenJob)]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingParameter, overriddenJob)
		}
	}

	pg := graph.New()
	registry := make(map[string]job.Job, len(nodeDefs))

	for n, def := range normalizedDefs {
		original := originalNames[n]
		qualified := qualify(graphName, group, original)
		pg.EnsureNode(qualified)

		for _, next := range def.Next {
			nn := normalize(next)
			if _, ok := normalizedDefs[nn]; !ok {
				return nil, fmt.Errorf("%w: graph %q references %q", ErrMissingJob, graphName, next)
			}
			pg.AddEdge(qualified, qualify(graphName, group, originalNames[nn]))
		}

		spec, ok := jobSpecs[original]
		if !ok {
			spec, ok = jobSpecs[normalize(original)]
		}
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingJob, original)
		}

		props := mergeProperties(spec.Properties, overrides[original])
		j, err := factory.New(spec.Type, props)
		if err != nil {
			return nil, fmt.Errorf("loader: constructing job %q: %w", original, err)
		}

		registry[qualified] = renameJob(qualified, j)
	}

	return builder.Build(pg, registry)
}

func qualify(graphName, group, jobName string) string {
	if group == "" {
		return jobName
	}
	return fmt.Sprintf("%s$$%s$$%s$$", graphName, group, jobName)
}

func mergeProperties(base map[string]any, overrides map[string]any) map[string]any {
	if len(overrides) == 0 {
		return base
	}
	merged := make(map[string]any, len(base)+len(overrides))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}
