package main

import "github.com/masmgr/staredown-go/cmd"

func main() {
	cmd.Run()
}
