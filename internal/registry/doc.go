// Package registry holds the template registry: every module kind, the
// variants available for it, and their template assets.
//
// Variants are declared by manifest.yml files embedded next to their
// templates. The registry is built once at process start by Load, validated
// fail-fast, and never mutated afterwards. Callers receive it explicitly;
// there is no package-level registry state.
package registry
