package main

import "github.com/Tiliavir/work-tracker/cmd"

func main() {
	cmd.Execute()
}
