package main

import "github.com/shoplive/access-gate/cmd/gatectl/cmd"

func main() {
	cmd.Execute()
}
