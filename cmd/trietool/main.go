// Command trietool inspects and merges frequency corpora offline, using the
// same trie and corpus readers as the wordtrie server.
package main

import (
	"os"

	"github.com/charmbracelet/log"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
