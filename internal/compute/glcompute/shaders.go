package glcompute

import (
	"fmt"
	"strings"

	"github.com/san-kum/graphlab/internal/compute"
	"github.com/san-kum/graphlab/internal/surface"
)

const header = `#version 430
layout(local_size_x = 8, local_size_y = 8, local_size_z = 1) in;

#define PI 3.14159265358979323846
`

// snippets holds one GLSL function per library name. They must match the
// closed forms in package surface.
var snippets = map[surface.Name]string{
	surface.Wave: `vec3 Wave(float u, float v, float t) {
	return vec3(u, sin(PI * (u + v + t)), v);
}
`,
	surface.MultiWave: `vec3 MultiWave(float u, float v, float t) {
	float y = sin(PI * (u + 0.5 * t));
	y += 0.5 * sin(2.0 * PI * (v + t));
	y += 0.5 * sin(PI * (u + v + 0.25 * t));
	return vec3(u, y * 0.4, v);
}
`,
	surface.Ripple: `vec3 Ripple(float u, float v, float t) {
	float d = sqrt(u * u + v * v);
	return vec3(u, sin(PI * (4.0 * d - t)) / (1.0 + 10.0 * d), v);
}
`,
	surface.Sphere: `vec3 Sphere(float u, float v, float t) {
	float r = 0.9 + 0.1 * sin(PI * (12.0 * u + 8.0 * v + t));
	float s = r * cos(0.5 * PI * v);
	return vec3(s * sin(PI * u), r * sin(0.5 * PI * v), s * cos(PI * u));
}
`,
	surface.Torus: `vec3 Torus(float u, float v, float t) {
	float r1 = 0.7 + 0.1 * sin(PI * (8.0 * u + 0.5 * t));
	float r2 = 0.15 + 0.05 * sin(PI * (16.0 * u + 8.0 * v + 3.0 * t));
	float s = r1 + r2 * cos(PI * v);
	return vec3(s * sin(PI * u), r2 * sin(PI * v), s * cos(PI * u));
}
`,
}

// glslName is the GLSL identifier of a library function.
func glslName(n surface.Name) string {
	switch n {
	case surface.MultiWave:
		return "MultiWave"
	default:
		s := string(n)
		return strings.ToUpper(s[:1]) + s[1:]
	}
}

// SurfaceSource generates the compute shader for one kernel pair. Identity
// pairs sample a single function; the others mix with _TransitionProgress,
// which the host eases before upload.
func SurfaceSource(k compute.KernelKey) (string, error) {
	from, ok := snippets[k.From]
	if !ok {
		return "", fmt.Errorf("%w: %s", compute.ErrUnknownKernel, k.From)
	}
	to, ok := snippets[k.To]
	if !ok {
		return "", fmt.Errorf("%w: %s", compute.ErrUnknownKernel, k.To)
	}

	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString(`
layout(std430, binding = 0) writeonly buffer Positions { float _Positions[]; };

uniform uint _Resolution;
uniform float _Step;
uniform float _Time;
uniform float _TransitionProgress;

`)
	sb.WriteString(from)
	if k.From != k.To {
		sb.WriteString(to)
	}

	var eval string
	if k.From == k.To {
		eval = fmt.Sprintf("%s(uv.x, uv.y, _Time)", glslName(k.To))
	} else {
		eval = fmt.Sprintf("mix(%s(uv.x, uv.y, _Time), %s(uv.x, uv.y, _Time), _TransitionProgress)",
			glslName(k.From), glslName(k.To))
	}
	fmt.Fprintf(&sb, `
void main() {
	uvec2 id = gl_GlobalInvocationID.xy;
	if (id.x >= _Resolution || id.y >= _Resolution) {
		return;
	}
	vec2 uv = (vec2(id) + 0.5) * _Step - 1.0;
	vec3 p = %s;
	uint i = 3u * (id.x + id.y * _Resolution);
	_Positions[i] = p.x;
	_Positions[i + 1u] = p.y;
	_Positions[i + 2u] = p.z;
}
`, eval)
	return sb.String(), nil
}

// HashSource is the SmallXXHash kernel. Cell (x, y) of the dispatch is
// column u and row v, stored at u + v*_Resolution.
const HashSource = header + `
layout(std430, binding = 1) writeonly buffer Hashes { uint _Hashes[]; };

uniform uint _Resolution;
uniform int _Seed;

const uint primeB = 0x85EBCA77u;
const uint primeC = 0xC2B2AE3Du;
const uint primeD = 0x27D4EB2Fu;
const uint primeE = 0x165667B1u;

uint rotl(uint x, int n) {
	return (x << n) | (x >> (32 - n));
}

uint eat(uint acc, int data) {
	return rotl(acc + uint(data) * primeC, 17) * primeD;
}

uint avalanche(uint a) {
	a ^= a >> 15;
	a *= primeB;
	a ^= a >> 13;
	a *= primeC;
	a ^= a >> 16;
	return a;
}

void main() {
	uvec2 id = gl_GlobalInvocationID.xy;
	if (id.x >= _Resolution || id.y >= _Resolution) {
		return;
	}
	uint h = eat(eat(uint(_Seed) + primeE, int(id.x)), int(id.y));
	_Hashes[id.x + id.y * _Resolution] = avalanche(h);
}
`
