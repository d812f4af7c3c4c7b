// Package flag provides access to global flags bound through viper.
package flag

import (
	"github.com/spf13/viper"
)

// Verbose returns the count of -v flags.
func Verbose() int {
	return viper.GetInt("verbose")
}

// Quiet returns the count of -q flags.
func Quiet() int {
	return viper.GetInt("quiet")
}

// ConfigFile returns the file given by --config.
func ConfigFile() string {
	return viper.GetString("config")
}

// Layout returns the JSON layout from --layout or CONVERT_PO_LAYOUT.
func Layout() string {
	return viper.GetString("layout")
}

// Indent returns the indent width from --indent or CONVERT_PO_INDENT.
func Indent() int {
	return viper.GetInt("indent")
}
