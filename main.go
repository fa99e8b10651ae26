package main

import "github.com/apidocgen/apidocgen/cmd"

func main() {
	cmd.Execute()
}
