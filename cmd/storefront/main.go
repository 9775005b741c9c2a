// Command storefront is a terminal client of the storefront: browse the
// catalogue, keep a cart and place orders. State lives in a local SQLite
// file so the cart and login survive between runs.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	root, c := newRootCmd()
	err := root.Execute()
	if cerr := c.close(context.Background()); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
