package main

import (
	"github.com/sirupsen/logrus"

	"github.com/nicholas-fedor/tagwatch/cmd"
)

// init configures the initial logging level for tagwatch.
//
// It sets logrus to InfoLevel by default, ensuring basic operational logs
// are visible unless overridden by flags like --debug or --log-level in cmd.
func init() {
	logrus.SetLevel(logrus.InfoLevel)
}

// main serves as the entry point for the tagwatch application.
func main() {
	cmd.Execute()
}
