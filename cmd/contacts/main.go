// Command contacts manages a contact directory stored in a local workbook.
package main

import "github.com/mesh-intelligence/contacts/internal/cli"

func main() {
	cli.Execute()
}
