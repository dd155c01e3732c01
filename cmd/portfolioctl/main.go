// Command portfolioctl inspects and edits visitor state in the portfolio's
// storage backend from the terminal.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
