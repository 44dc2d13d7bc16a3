// Package loader reads declarative composition trees from YAML.
//
// A tree file is a YAML document whose values map onto nodes:
//
//	# wingman.tree.yaml
//	- h1: Contributing
//	- p: [ "Run ", {code: make test}, " before pushing." ]
//	- include: docs/conventions.md
//	- skill:
//	    props: {name: release, description: Cut a release}
//	    children:
//	      - p: Tag, then publish.
//	- option:
//	    props: {key: language, default: javascript}
//	    cases:
//	      javascript: {codeFence: {props: {language: bash}, children: npm test}}
//	      python: {codeFence: {props: {language: bash}, children: pytest}}
//
// Scalars become text, numbers or booleans, sequences become node
// sequences, and a single-key mapping becomes an element. The key names a
// built-in component or, failing that, a markdown tag. The value is the
// element body: a scalar child, a sequence of children, or a mapping with
// props and children (and cases and otherwise for option).
package loader
