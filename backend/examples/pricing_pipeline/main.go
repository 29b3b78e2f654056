// Command pricing_pipeline wires the DSL compiler, job graph builder,
// execution engine, and task pipeline together end to end: it composes a
// small fan-out/fan-in pricing graph, submits a handful of tasks through a
// pipeline in parallel mode, and prints each result as it arrives. Engine
// and pipeline events are published to both a console observer and a
// telemetry.TelemetryObserver, so every run also drives OTel spans and
// Prometheus counters/histograms.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/taskmesh/engine/backend/pkg/builder"
	"github.com/taskmesh/engine/backend/pkg/config"
	"github.com/taskmesh/engine/backend/pkg/dsl"
	"github.com/taskmesh/engine/backend/pkg/engine"
	"github.com/taskmesh/engine/backend/pkg/job"
	"github.com/taskmesh/engine/backend/pkg/logging"
	"github.com/taskmesh/engine/backend/pkg/observer"
	"github.com/taskmesh/engine/backend/pkg/pipeline"
	"github.com/taskmesh/engine/backend/pkg/telemetry"
)

// basePrice reads "sku_price" off the task payload and passes it through.
func basePrice() job.Job {
	return job.NewFunc("base_price", func(ctx context.Context, inputs job.Inputs) (job.Outputs, error) {
		task := inputs[job.TaskInputKey]
		return job.Outputs{"price": task["sku_price"]}, nil
	})
}

// tax applies a flat rate on top of base_price's output and passes the base
// price on, since total receives only tax's and discount's outputs.
func tax(rate float64) job.Job {
	return job.NewFunc("tax", func(ctx context.Context, inputs job.Inputs) (job.Outputs, error) {
		price := inputs["base_price"]["price"].(float64)
		return job.Outputs{"tax": price * rate, "price": price}, nil
	})
}

// discount applies a flat rebate on top of base_price's output, running
// concurrently with tax since both depend only on base_price.
func discount(amount float64) job.Job {
	return job.NewFunc("discount", func(ctx context.Context, inputs job.Inputs) (job.Outputs, error) {
		price := inputs["base_price"]["price"].(float64)
		d := amount
		if d > price {
			d = price
		}
		return job.Outputs{"discount": d}, nil
	})
}

// total fans in both tax and discount to produce the final charge.
func total() job.Job {
	return job.NewFunc("total", func(ctx context.Context, inputs job.Inputs) (job.Outputs, error) {
		base := inputs["tax"]["price"].(float64)
		t := inputs["tax"]["tax"].(float64)
		d := inputs["discount"]["discount"].(float64)
		return job.Outputs{"charge": base + t - d}, nil
	})
}

// printSink satisfies pipeline.ResultSink, printing each task's result as
// it arrives. It asserts Serializable since the pipeline runs it from the
// result processor goroutine, never concurrently with itself.
type printSink struct{}

func (printSink) Handle(result map[string]any) error {
	fmt.Printf("result: %+v\n", result)
	return nil
}

func (printSink) Serializable() error { return nil }

func main() {
	root := dsl.Seq(
		basePrice(),
		dsl.Par(tax(0.08), discount(5)),
		total(),
	)

	pg, registry, err := dsl.Compile(root)
	if err != nil {
		log.Fatalf("compile: %v", err)
	}

	result, err := builder.Build(pg, registry)
	if err != nil {
		log.Fatalf("build: %v", err)
	}

	logger := logging.New(logging.DefaultConfig())

	ctx := context.Background()
	telProvider, err := telemetry.NewProvider(ctx, telemetry.DefaultConfig())
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	defer telProvider.Shutdown(ctx)

	obsMgr := observer.NewManagerWithObservers(
		observer.NewConsoleObserver(),
		telemetry.NewTelemetryObserver(telProvider),
	)

	eng := engine.New(result, "pricing", engine.WithLogger(logger), engine.WithObserverManager(obsMgr))

	cfg := config.Development()
	p, err := pipeline.New(cfg, map[string]*engine.Engine{"pricing": eng}, printSink{}, pipeline.ModeParallel,
		pipeline.WithLogger(logger), pipeline.WithObserverManager(obsMgr))
	if err != nil {
		log.Fatalf("pipeline: %v", err)
	}

	skuPrices := []float64{19.99, 42.50, 100.00}
	for _, price := range skuPrices {
		if err := p.Submit(&pipeline.Task{
			Payload: map[string]any{"sku_price": price},
			Graph:   "pricing",
		}); err != nil {
			log.Fatalf("submit: %v", err)
		}
	}

	if err := p.MarkInputCompleted(); err != nil {
		log.Fatalf("mark input completed: %v", err)
	}
	if err := p.Cleanup(); err != nil {
		log.Fatalf("cleanup: %v", err)
	}
}
