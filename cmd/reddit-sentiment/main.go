// Command reddit-sentiment scores the sentiment of Reddit posts and comments
// matching a keyword.
package main

import (
	"os"
)

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
