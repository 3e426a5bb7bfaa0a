package main

import "github.com/ValentinKolb/kvbench/cmd"

func main() {
	cmd.Execute()
}
