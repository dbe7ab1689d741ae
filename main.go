package main

import "github.com/hyle-org/noir-verifier/cmd"

func main() {
	cmd.Execute()
}
