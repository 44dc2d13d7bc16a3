// Package compose runs a full composition: load a tree, resolve its
// includes, render it for a target agent and assemble the output files.
//
//	c := compose.New(compose.Config{
//	    Loader: &loader.YAML{Path: "wingman.tree.yaml"},
//	})
//	result, err := c.Compose(ctx, compose.Options{Target: "claude"})
//	if err != nil {
//	    return err
//	}
//	err = c.Write(ctx, result)
//
// Every stage is traced with OpenTelemetry and measured with Prometheus
// (see Metrics). Tracing uses the global tracer provider.
package compose
