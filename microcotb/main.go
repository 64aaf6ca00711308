package main

import "github.com/sarchlab/microcotb/microcotb/cmd"

func main() {
	cmd.Execute()
}
