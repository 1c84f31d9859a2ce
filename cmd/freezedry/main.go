// Command freezedry inspects, compares and describes values in their
// persisted tree form.
package main

import "freezedry/internal/cli"

func main() {
	cli.Execute()
}
