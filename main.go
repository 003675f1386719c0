package main

import "github.com/adriant/poshell/cmd"

func main() {
	cmd.Execute()
}
