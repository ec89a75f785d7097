package main

import "github.com/sarchlab/tsubame/tsubame/cmd"

func main() {
	cmd.Execute()
}
