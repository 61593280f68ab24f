package main

import "github.com/aurumfx/lbadmin/cmd"

func main() {
	cmd.Execute()
}
