// Package manifest loads batch files listing several repositories to
// examine in one invocation.
//
// # Manifest Format
//
// Manifests can be written in YAML, JSON or TOML:
//
//	sources:
//	  - target: https://github.com/org/service
//	    reference: v2.1.0
//	    plugins: [readme, license, changelog]
//	  - target: ./vendor/lib
//	    output: reports/lib.yaml
//	options:
//	  continue_on_error: true
//	  output_dir: ./reports
//	  format: yaml
//	  concurrency: 2
//
// A source without output is written to output_dir under a name derived
// from its target, see Source.Slug.
package manifest
