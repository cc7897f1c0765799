// Package config loads the deck configuration file (lectern.yaml) and the
// environment settings of the server commands, and opens the selected session store.
package config
