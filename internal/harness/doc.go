// Package harness orchestrates verification of the generation pipeline.
//
// Two complementary oracles are implemented:
//
//   - Reference comparison (ReferenceComparator): run the pipeline for
//     every mode against a fixed corpus document and require the output to
//     be byte-identical to a stored golden reference tree. Any warning or
//     error diagnostic outside an explicit ignore list fails immediately.
//
//   - Compatibility verification (CompatRunner): fetch a real-world
//     document over the network, run the pipeline across all modes
//     (sequentially or in parallel), require the emitted diagnostic set to
//     equal an expected allow-list exactly, and optionally assemble the
//     outputs into a standalone package and compile it with the Go
//     toolchain.
//
// Both flows stage generated files in an exclusively owned scratch
// workspace that is removed unconditionally at scenario end, and both
// surface failures with enough captured context (unified diff, diagnostic
// set difference, or full subprocess output) to diagnose without
// re-running.
//
// # Scenario Files
//
// Scenarios are defined in YAML. A reference project:
//
//	name: petstore
//	description: "Golden corpus petstore document"
//	document: testdata/documents/petstore.yaml
//	modes: [types, client, server]
//	ignore: []
//
// A compatibility scenario:
//
//	name: zoo_api
//	description: "Real-world zoo API document"
//	url: https://example.com/zoo/openapi.yaml
//	modes: [types, client, server]
//	expected_diagnostics:
//	  - 'A property name only appears in the required list, but not in the properties: "huntingSkill"'
//	build: true
//
// # Environment
//
// Compatibility scenarios are opt-in. The suite configuration is read once
// at startup, never ad hoc mid-run:
//
//	OASGEN_COMPAT_ENABLE         run compatibility scenarios at all
//	OASGEN_COMPAT_SKIP_BUILD     skip the build step
//	OASGEN_COMPAT_PARALLEL       run modes concurrently
//	OASGEN_SCENARIO_TIMEOUT_SEC  per-scenario timeout (default 120)
//
// Absence of a toggle means disabled: compatibility scenarios skip rather
// than fail when their prerequisites are not configured.
package harness
