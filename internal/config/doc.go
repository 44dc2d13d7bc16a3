// Package config loads Wingman project configuration.
//
// A project is a directory containing wingman.yaml (wingman.json and
// wingman.toml are accepted too). Every key may be overridden from the
// environment with the WINGMAN_ prefix, nested keys joined by underscores.
//
// # Configuration File Structure
//
//	# wingman.yaml
//	name: my-agents
//	entry: wingman.tree.yaml
//	target: claude
//	targetDirectory: .
//	includeBase: docs
//	options:
//	  language: go
//	concurrency: 8
//	preview:
//	  host: localhost
//	  port: 4400
//	watch:
//	  paths: [docs, wingman.tree.yaml]
//	  ignore: ["*.swp", ".git"]
//	  debounce: 150ms
//	s3:
//	  bucket: team-agents
//	  prefix: wingman/
//	  region: us-east-1
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Entry:", cfg.EntryPath())
package config
