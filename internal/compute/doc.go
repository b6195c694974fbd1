// Package compute provides the evaluation backends that fill sample buffers.
//
// Two backends implement [Backend]:
//
//   - CPU: worker fan-out over grid rows, always available
//   - GL: OpenGL 4.3 compute shaders (package glcompute), needs a current GL context
//
// # Buffers
//
// A backend hands out a [Buffer] sized for one grid. The host acquires it when a
// graph starts and must release it when the graph stops:
//
//	buf, err := backend.Allocate(res * res)
//	if err != nil {
//		return err
//	}
//	defer buf.Release()
//	err = backend.Surface(params, buf.Points)
//
// # Kernels
//
// Every (from, to) pair of surface names selects one kernel. Identity pairs
// sample a single function, the others morph.
package compute
