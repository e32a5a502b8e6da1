// Package config provides configuration parsing for Fantoccini projects.
//
// The configuration is stored in fantoccini.json or fantoccini.yaml at the
// project root. This package handles loading, saving, and validating
// configuration. FANTOCCINI_ORIGIN, FANTOCCINI_PORT, FANTOCCINI_ROUTES and
// FANTOCCINI_LOG_LEVEL override the file.
//
// # Configuration File Structure
//
//	origin: http://localhost:3000
//	paths:
//	  routes: src/routes
//	  manifest: dist/routes.json
//	server:
//	  host: 0.0.0.0
//	  port: 3001
//	  shutdownTimeout: 10s
//	  bridge: /ws
//	routes:
//	  source: scan        # scan | manifest | static
//	  watch: true
//	  debounce: 200ms
//	manifest:
//	  store: s3           # file | s3
//	  bucket: my-bucket
//	  key: fantoccini/routes.json
//	  region: us-east-1
//	nav:
//	  brand: "🚀 Fantoccini"
//	  fetchRoutes: true
//	log:
//	  level: info
//	  format: text
//
// # Usage
//
//	cfg, err := config.LoadOrDefault(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Listening on", cfg.Address())
package config
