// Package config provides configuration loading for the TaskLane CLI.
//
// Sources, later ones win:
//  1. LoadDefaults
//  2. JSON file named by -c / -config
//  3. Command-line flags -a, -http, -i, -timeout, -cache
package config
