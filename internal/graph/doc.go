// Package graph samples surface functions on a square grid and morphs between
// them over time.
//
// A [Graph] is driven by its host through an explicit lifecycle:
//
//   - [Graph.Init]: acquire the position buffer from the compute backend
//   - [Graph.Tick]: advance the transition state machine by dt and resample
//   - [Graph.Shutdown]: release the buffer
//
// The state machine has two phases. In [Steady] the active function is sampled
// directly. Once it has been shown for the configured function duration the
// graph enters [Transitioning], picks the next function (cyclic or random) and
// blends the previous one into it until the transition duration has elapsed.
//
// # Example
//
//	g, err := graph.New(cfg, graph.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	if err := g.Init(); err != nil {
//		return err
//	}
//	defer g.Shutdown()
//	for range ticker.C {
//		if err := g.Tick(1.0 / 60); err != nil {
//			return err
//		}
//		render(g.Points())
//	}
//
// # Thread Safety
//
// Graph instances are NOT thread-safe. Ticks must not overlap.
package graph
