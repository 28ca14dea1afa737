// Package config manages user-level settings stored at ~/.toolbox/config.yaml.
// It provides functions to load, read, and write configuration keys such as
// the extension namespace directory and the package manager used to install
// extensions.
package config
