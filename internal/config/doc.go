// Package config loads phonecat's startup configuration.
//
// # Resolution Order
//
//  1. Built-in defaults (Default)
//  2. The TOML file: an explicit path, or ~/.config/phonecat/config.toml
//  3. A .env file in the working directory, loaded into the environment
//  4. PHONECAT_* environment variables, which win over the file
//
// A missing config file is not an error. Blank values fall back to defaults.
//
// # Defaults
//
//   - api_url: 127.0.0.1:8080 (scheme optional, http assumed)
//   - page_size: 20
//   - request_timeout: 10s
//   - log_file: ~/.local/state/phonecat/phonecat.log
//   - log_level: info
//   - quick_filters: Apple, Samsung, Gaming, Photography, Under $500
//
// # TOML Format
//
//	api_url = "http://localhost:8080"
//	page_size = 24
//	request_timeout = "5s"
//	log_level = "debug"
//
//	[[quick_filters]]
//	kind = "brand"   # search, brand, type or price
//	value = "Google"
//	label = "Pixel"
//
// Quick filters are bound to the number keys 1-9 in order.
//
// # Environment
//
//	PHONECAT_API_URL, PHONECAT_PAGE_SIZE, PHONECAT_REQUEST_TIMEOUT,
//	PHONECAT_LOG_FILE, PHONECAT_LOG_LEVEL
//
// Malformed numeric overrides are ignored. Malformed file values (an
// unparseable duration or log level, an unknown quick filter kind) fail Load.
package config
