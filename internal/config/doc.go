// Package config provides configuration management for dnsq.
//
// The package uses a Provider interface to abstract configuration loading,
// with the primary implementation being filesystem-based YAML files.
//
// # Configuration Structure
//
//	socket:
//	  path: /var/run/dnsqd.socket   # Unix domain socket path
//	resolver:
//	  servers:                      # DNS servers, host:port
//	    - 1.1.1.1:53
//	    - 8.8.8.8:53
//	  timeout: 5s                   # per-lookup timeout
//	  retries: 2                    # additional attempts per lookup
//	lookup:
//	  sort_v4_first: true           # IPv4 literals before IPv6 in results
//	  loopback_platform: darwin     # GOOS the loopback filter applies on
//	  loopback_host: localhost      # hostname the filter triggers on
//
// # Basic Usage
//
// Load configuration using the default path (~/.dnsq/config.yaml):
//
//	cfg, err := config.New().Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//
// # Defaults and Validation
//
// If no configuration file exists the defaults are returned and written to
// disk for the next run. Loaded configuration is validated: the socket path
// must not be empty, the resolver timeout must be at least one second, and
// retries are capped at ten. ErrNoConfig and ErrInvalidConfig distinguish
// the two failure modes.
//
// Once loaded, the Config struct should be treated as immutable.
package config
