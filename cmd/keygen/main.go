// Command keygen prints fresh access keys and optionally appends them to
// the key file the server validates against.
package main

import (
	"flag"
	"fmt"
	"os"

	"contabil/internal/auth"
)

func main() {
	count := flag.Int("n", 1, "number of keys to generate")
	appendTo := flag.String("append", "", "append generated keys to this key file")
	flag.Parse()

	if *count < 1 {
		fmt.Fprintln(os.Stderr, "keygen: -n must be at least 1")
		os.Exit(2)
	}

	keys := make([]string, 0, *count)
	for i := 0; i < *count; i++ {
		key, err := auth.GenerateKey()
		if err != nil {
			fmt.Fprintf(os.Stderr, "keygen: %v\n", err)
			os.Exit(1)
		}
		keys = append(keys, key)
		fmt.Println(key)
	}

	if *appendTo != "" {
		if err := auth.AppendKeys(*appendTo, keys); err != nil {
			fmt.Fprintf(os.Stderr, "keygen: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "appended %d key(s) to %s\n", len(keys), *appendTo)
	}
}
