package main

import "github.com/SafeMPC/mpc-recovery/cmd"

func main() {
	cmd.Execute()
}
